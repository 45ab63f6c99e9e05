// Command articora-seed populates an academic-platform database with
// synthetic, referentially consistent test data and prints a run summary.
//
// Usage:
//
//	articora-seed [db-path]
//
// Everything else is configured through the environment (see internal/config).
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tbourn/articora-seed/internal/config"
	"github.com/tbourn/articora-seed/internal/observability"
	"github.com/tbourn/articora-seed/internal/repo"
	"github.com/tbourn/articora-seed/internal/report"
	"github.com/tbourn/articora-seed/internal/seed"
	"github.com/tbourn/articora-seed/internal/sysutil"
)

var version = "dev"

const (
	exitOK     = 0
	exitFailed = 1

	flushTimeout = 5 * time.Second
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one seeding pass and returns the process exit status.
func run(parent context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return exitFailed
	}
	cfg = cfg.WithPathArg(args)

	sysutil.SetLogLevel(cfg.LogLevel)
	runID := uuid.NewString()
	logger := sysutil.NewLogger(stderr, bool(cfg.LogPretty), runID)

	ctx, stop := sysutil.NotifyContext(parent)
	defer stop()
	ctx = logger.WithContext(ctx)

	shutdown, err := observability.SetupOTel(ctx, cfg.OTEL, version, runID)
	if err != nil {
		logger.Error().Err(err).Msg("tracing setup failed, continuing without it")
		shutdown = nil
	}
	defer func() {
		if err := observability.Flush(shutdown, flushTimeout); err != nil {
			logger.Warn().Err(err).Msg("trace flush failed")
		}
	}()

	ctx, span := observability.StartRun(ctx, runID, cfg.DBDriver)
	defer span.End()

	opts := repo.Options{
		Driver:  cfg.DBDriver,
		Path:    cfg.DBPath,
		DSN:     cfg.DBDSN,
		LogSQL:  bool(cfg.LogSQL),
		Tracing: bool(cfg.OTEL.Enabled),
	}
	db, err := repo.Open(opts)
	if err == nil {
		err = repo.Ping(ctx, db)
	}
	if err != nil {
		_ = repo.Close(db)
		if interrupted(err) {
			return sysutil.ExitInterrupted
		}
		logger.Error().Err(err).Str("driver", cfg.DBDriver).Str("target", opts.Target()).Msg("store unreachable")
		return exitFailed
	}
	defer func() {
		if err := repo.Close(db); err != nil {
			logger.Warn().Err(err).Msg("close store")
		}
	}()

	logger.Info().
		Str("version", version).
		Str("driver", cfg.DBDriver).
		Str("target", opts.Target()).
		Msg("seeding started")

	if cfg.AutoMigrate {
		if err := repo.AutoMigrate(db.WithContext(ctx)); err != nil {
			logger.Error().Err(err).Msg("migration failed")
			return exitFailed
		}
	}
	if cfg.SeedReferenceData {
		n, err := repo.SeedReferenceData(ctx, db)
		if err != nil {
			logger.Error().Err(err).Msg("reference data failed")
			return exitFailed
		}
		logger.Info().Int("rows", n).Msg("reference data ready")
	}

	metrics := seed.NewMetrics()
	runner := seed.Runner{
		DB:  db,
		Env: seed.NewEnv(metrics),
		Counts: seed.Counts{
			Users:           cfg.Seed.Users,
			Sources:         cfg.Seed.Sources,
			ContactRequests: cfg.Seed.ContactRequests,
			Chats:           cfg.Seed.Chats,
			Reports:         cfg.Seed.Reports,
		},
	}
	res, runErr := runner.Run(ctx)
	writeMetrics(logger, metrics, cfg.MetricsTextfile)

	if interrupted(runErr) {
		logger.Warn().Err(runErr).Int("phases", len(res.Phases)).Msg("interrupted, in-flight phase rolled back")
		return sysutil.ExitInterrupted
	}
	if runErr != nil {
		logger.Error().Err(runErr).Msg("seeding aborted")
		return exitFailed
	}

	if err := (report.RunSummaryReporter{DB: db}).Report(ctx, stdout, res); err != nil {
		if interrupted(err) {
			return sysutil.ExitInterrupted
		}
		logger.Error().Err(err).Msg("summary failed")
		return exitFailed
	}

	logger.Info().
		Int("users", res.Users.Len()).
		Int("sources", res.Sources.Len()).
		Msg("seeding finished")
	return exitOK
}

func interrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func writeMetrics(logger zerolog.Logger, m *seed.Metrics, path string) {
	if path == "" {
		return
	}
	if err := m.WriteTextfile(path); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("metrics textfile not written")
		return
	}
	logger.Debug().Str("path", path).Msg("metrics textfile written")
}
