package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/magic-vote/cliparse"
	"github.com/danielhkuo/magic-vote/db"
	"github.com/danielhkuo/magic-vote/ledger"
	"github.com/danielhkuo/magic-vote/metrics"
	"github.com/danielhkuo/magic-vote/middleware"
	"github.com/danielhkuo/magic-vote/rigging"
	"github.com/danielhkuo/magic-vote/router"
)

func main() {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// signal.NotifyContext cancels ctx on Ctrl-C
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Pick the vote store
	var store ledger.Store
	if cfg.DatabaseType == db.TypeMemory {
		store = ledger.NewMemoryStore()
	} else {
		dbConn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
		if err != nil {
			slog.Error("database setup failed", "error", err)
			os.Exit(1)
		}
		defer dbConn.Close()
		store = db.NewStore(dbConn)
	}

	// Seed the ledger (recreates the vote table)
	l, err := ledger.New(ctx, store, cfg.LedgerConfig())
	if err != nil {
		slog.Error("ledger setup failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Ledger ready",
		"store", cfg.DatabaseType,
		"candidate_1", humanize.Comma(int64(cfg.SeedCandidate1)),
		"candidate_2", humanize.Comma(int64(cfg.SeedCandidate2)),
		"target", l.TargetCandidateID().String(),
		"target_share", l.TargetShare(),
	)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(router.NewRouter(l, cfg)),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	driver := rigging.NewDriver(l,
		rigging.WithSettleDelay(cfg.SettleDelay),
		rigging.WithStepInterval(cfg.StepInterval),
	)
	tracker := metrics.NewTracker(l)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return driver.Run(ctx)
	})
	g.Go(func() error {
		return tracker.Run(ctx)
	})
	g.Go(func() error {
		// Wait for Ctrl-C signal or a failed sibling
		<-ctx.Done()
		return server.Close()
	})
	g.Go(func() error {
		slog.Info("Listening", "port", cfg.Port)
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server closed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server closed")
}
