package core

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/go-co-op/gocron"
	"github.com/isayev/coinstack-sub001/internal/client"
	"github.com/isayev/coinstack-sub001/internal/columns"
	"github.com/isayev/coinstack-sub001/internal/config"
	"github.com/isayev/coinstack-sub001/internal/db"
	"github.com/isayev/coinstack-sub001/internal/feed"
	"github.com/isayev/coinstack-sub001/internal/filter"
	"github.com/isayev/coinstack-sub001/internal/jobs"
	"github.com/isayev/coinstack-sub001/internal/persist"
	"github.com/isayev/coinstack-sub001/internal/selection"
	"github.com/isayev/coinstack-sub001/internal/websocket"
	"go.uber.org/zap"
)

// Storage keys of the persisted view state.
const (
	FiltersKey = "filters"
	ColumnsKey = "columns"
)

// App holds the core components of the application that are shared
// between the server and the CLI. Everything is built here and handed
// down; no package keeps its own global instance.
type App struct {
	config *config.Config
	log    *zap.Logger
	db     *sql.DB

	filterSlot *persist.Slot[filter.State]
	columnSlot *persist.Slot[columns.Layout]
	filters    *filter.Store
	columns    *columns.Store
	selection  *selection.Set

	client     *client.Client
	feed       *feed.Feed
	flusher    *persist.Flusher
	jobManager *jobs.JobManager
	wsHub      *websocket.Hub
	scheduler  *gocron.Scheduler
	closeOnce  sync.Once
}

// New sets up and returns a new App instance. It opens the state database,
// runs migrations, loads the persisted view state and wires the stores to
// persistence and the websocket hub.
func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}

	database, err := db.InitDB(cfg.State.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.RunMigrations(database, log); err != nil {
		// We can't proceed without a valid database schema.
		database.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	backend := persist.NewSQLiteBackend(database)
	a := &App{
		config: cfg,
		log:    log,
		db:     database,
		filterSlot: persist.NewSlot[filter.State](backend, FiltersKey, 0,
			persist.WithNormalizer[filter.State](filter.Normalize),
			persist.WithLogger[filter.State](log)),
		columnSlot: persist.NewSlot[columns.Layout](backend, ColumnsKey, columns.SchemaVersion,
			persist.WithMigrator[columns.Layout](columns.MigrateStored),
			persist.WithLogger[columns.Layout](log)),
		selection: selection.New(),
		wsHub:     websocket.NewHubWithLogger(log),
	}

	a.filters = filter.NewStore(a.filterSlot.Load(filter.Default()))
	a.columns = columns.NewStore(a.columnSlot.Load(columns.Layout{}))
	a.flusher = persist.NewFlusher(log, a.filterSlot, a.columnSlot)

	writeThrough := cfg.State.FlushInterval <= 0
	a.filters.OnChange(func(s filter.State) {
		if writeThrough {
			a.filterSlot.Save(s)
		} else {
			a.filterSlot.MarkDirty(s)
		}
		a.wsHub.Publish("filters", s)
	})
	a.columns.OnChange(func(l columns.Layout) {
		if writeThrough {
			a.columnSlot.Save(l)
		} else {
			a.columnSlot.MarkDirty(l)
		}
		a.wsHub.Publish("columns", l.Columns)
	})

	a.client = client.New(cfg.API.BaseURL,
		client.WithTimeout(cfg.Timeout()),
		client.WithLogger(log))
	a.feed = feed.New(a.client, log)

	a.jobManager = jobs.NewManager(a)
	jobs.RegisterDefaultJobs(a.jobManager)

	go a.wsHub.Run()

	log.Info("Core application setup complete.", zap.String("state", cfg.State.Path))
	return a, nil
}

// StartJobs starts the scheduled jobs. The CLI never calls it.
func (a *App) StartJobs() {
	if a.scheduler == nil {
		a.scheduler = jobs.StartJobs(a)
	}
}

// Close stops the scheduler, writes any pending view state and closes the
// database. Calling it again does nothing.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		if a.scheduler != nil {
			a.scheduler.Stop()
		}
		if failed := a.flusher.FlushAll(); failed > 0 {
			a.log.Warn("View state not fully saved on shutdown", zap.Int("failed", failed))
		}
		a.wsHub.Stop()
		if a.db != nil {
			a.db.Close()
		}
	})
}

func (a *App) Config() *config.Config       { return a.config }
func (a *App) Logger() *zap.Logger          { return a.log }
func (a *App) DB() *sql.DB                  { return a.db }
func (a *App) Filters() *filter.Store       { return a.filters }
func (a *App) Columns() *columns.Store      { return a.columns }
func (a *App) Selection() *selection.Set    { return a.selection }
func (a *App) Client() *client.Client       { return a.client }
func (a *App) Feed() *feed.Feed             { return a.feed }
func (a *App) Flusher() *persist.Flusher    { return a.flusher }
func (a *App) JobManager() *jobs.JobManager { return a.jobManager }
func (a *App) WsHub() *websocket.Hub        { return a.wsHub }
