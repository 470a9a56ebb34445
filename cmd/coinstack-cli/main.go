package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/isayev/coinstack-sub001/internal/client"
	"github.com/isayev/coinstack-sub001/internal/config"
	"github.com/isayev/coinstack-sub001/internal/core"
	"github.com/isayev/coinstack-sub001/internal/logger"
	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run returns the process exit code. It returns instead of exiting so the
// deferred Close always writes pending view state.
func run(args []string, stdout io.Writer) int {
	flags := pflag.NewFlagSet("coinstack-cli", pflag.ContinueOnError)
	fetch := flags.BoolP("fetch", "f", false, "fetch the listing page from the backend")
	page := flags.IntP("page", "p", 0, "page to fetch instead of the stored one")
	reset := flags.Bool("reset", false, "reset the stored filters to their defaults first")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	// Load configuration from config.yml
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}
	zl, _, err := logger.NewLogger(cfg.Log.Env, "warn")
	if err != nil {
		log.Printf("Failed to create logger: %v", err)
		return 1
	}

	app, err := core.New(cfg, zl)
	if err != nil {
		log.Printf("Failed to open view state: %v", err)
		return 1
	}
	defer app.Close()

	if *reset {
		app.Filters().Reset()
	}

	filters := app.Filters()
	fmt.Fprintf(stdout, "active filters: %d\n", filters.CountActiveFilters())
	fmt.Fprintf(stdout, "query: %s\n", filters.Serialize().Encode())

	if !*fetch {
		return 0
	}

	result, err := app.Client().ListCoins(context.Background(), filters.Serialize(), *page)
	if err != nil {
		if apiErr, ok := client.AsError(err); ok && apiErr.RetryAfter > 0 {
			log.Printf("%s (retry after %s)", apiErr.Message, apiErr.RetryAfter)
			return 1
		}
		log.Printf("Listing failed: %v", err)
		return 1
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Printf("Could not print listing: %v", err)
		return 1
	}
	return 0
}
