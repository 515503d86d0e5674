// Command eval runs the scripted support queries through the agent and
// prints the performance dashboard. It exits non-zero when a case fails.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/spec-kit/support-agent/internal/config"
	"github.com/spec-kit/support-agent/internal/events"
	"github.com/spec-kit/support-agent/internal/observability"
	"github.com/spec-kit/support-agent/internal/persistence"
	"github.com/spec-kit/support-agent/internal/wiring"
)

func main() {
	query := flag.String("query", "", "run a single query instead of the scripted cases")
	customer := flag.String("customer", "", "customer id for -query")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations && pg.PoolHandle() != nil {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), persistence.DefaultMigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	stack, err := wiring.Build(*cfg, wiring.Dependencies{
		Pool:       pg.PoolHandle(),
		Dispatcher: events.NewInMemoryDispatcher(),
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal("failed to build agent", zap.Error(err))
	}

	cases := defaultCases
	if *query != "" {
		cases = []evalCase{{Query: *query, CustomerID: *customer}}
	}

	results := runCases(ctx, stack.Runner, cases)
	if failures := printReport(os.Stdout, results, stack.Runner.GetMetrics()); failures > 0 && *query == "" {
		os.Exit(1)
	}
}
