package jobs_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/isayev/coinstack-sub001/internal/client"
	"github.com/isayev/coinstack-sub001/internal/jobs"
	"github.com/isayev/coinstack-sub001/internal/persist"
	"github.com/isayev/coinstack-sub001/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenBackend struct{ persist.Backend }

func (brokenBackend) Put(persist.Record) error { return fmt.Errorf("read-only") }

func TestRunStateFlush(t *testing.T) {
	backend := persist.NewSQLiteBackend(testutil.SetupTestDB(t))
	slot := persist.NewSlot[map[string]int](backend, "counts", 1)
	slot.MarkDirty(map[string]int{"page": 4})

	ctx := newFakeContext()
	ctx.flusher = persist.NewFlusher(nil, slot)

	require.NoError(t, jobs.RunStateFlush(ctx))
	assert.False(t, slot.Dirty())
	assert.Equal(t, map[string]int{"page": 4}, slot.Load(nil))
}

func TestRunStateFlushReportsFailures(t *testing.T) {
	backend := brokenBackend{persist.NewSQLiteBackend(testutil.SetupTestDB(t))}
	slot := persist.NewSlot[int](backend, "n", 1)
	slot.MarkDirty(3)

	ctx := newFakeContext()
	ctx.flusher = persist.NewFlusher(nil, slot)

	err := jobs.RunStateFlush(ctx)
	assert.ErrorContains(t, err, "1 state slot")
	assert.True(t, slot.Dirty())
}

func TestRunBackendCheck(t *testing.T) {
	version := "1.2.0"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"version":%q}`, version)
	}))
	t.Cleanup(server.Close)

	ctx := newFakeContext()
	ctx.client = client.New(server.URL)
	ctx.cfg.API.MinVersion = ">= 1.0.0"
	assert.NoError(t, jobs.RunBackendCheck(ctx))

	version = "0.8.1"
	assert.Error(t, jobs.RunBackendCheck(ctx))
}

func TestStartJobsSchedulesConfiguredJobs(t *testing.T) {
	ctx := newFakeContext()
	ctx.cfg.State.FlushInterval = 60
	ctx.cfg.BackendCheckInterval = 0
	ctx.flusher = persist.NewFlusher(nil)
	jobs.RegisterDefaultJobs(ctx.jobMgr)

	s := jobs.StartJobs(ctx)
	defer s.Stop()
	assert.Len(t, s.Jobs(), 1, "a zero interval disables the backend check")
}
