// Package seed – Runner
//
// This file sequences the generators. Each phase runs to completion inside
// its own transaction and hands immutable pools to the phases after it.
// A failed phase rolls back on its own; earlier phases stay committed.
//
// Observability: every phase gets an OpenTelemetry span, a zerolog logger
// carrying a "phase" field, and a duration observation.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/articora-seed/internal/repo"
)

// PhaseLookups is the reference-data resolution step.
const PhaseLookups = "lookups"

// Counts sets how many rows each count-driven generator attempts.
type Counts struct {
	Users           int
	Sources         int
	ContactRequests int
	Chats           int
	Reports         int
}

// DefaultCounts mirrors the configuration defaults.
func DefaultCounts() Counts {
	return Counts{Users: 20, Sources: 50, ContactRequests: 15, Chats: 10, Reports: 10}
}

// PhaseResult reports one phase.
type PhaseResult struct {
	Name     string
	Rows     int
	Skipped  bool // a prerequisite was missing
	Err      error
	Duration time.Duration
}

// RunResult is the outcome of a full run, phases in execution order.
type RunResult struct {
	Phases  []PhaseResult
	Users   UserPool
	Sources SourcePool
}

// Runner executes every phase in dependency order against DB.
type Runner struct {
	DB     *gorm.DB
	Env    Env
	Counts Counts
}

// Run executes all phases. Missing prerequisites and phase failures are
// logged and the run moves on; only a failure to resolve reference data or a
// cancelled context stops it early. On cancellation the in-flight phase is
// rolled back and ctx.Err() is returned with the phases finished so far.
func (r *Runner) Run(ctx context.Context) (RunResult, error) {
	var out RunResult
	log := zerolog.Ctx(ctx)

	lookups, err := repo.LoadLookups(ctx, r.DB)
	if err != nil {
		return out, err
	}
	log.Info().
		Int("categories", len(lookups.Categories())).
		Int("subcategories", len(lookups.Subcategories())).
		Int("source_types", len(lookups.SourceTypes())).
		Msg("reference data loaded")

	env := r.Env
	users := UserPool{}
	sources := SourcePool{}

	steps := []struct {
		name string
		fn   func(context.Context, *gorm.DB) (int, error)
	}{
		{PhaseUsers, func(ctx context.Context, tx *gorm.DB) (int, error) {
			p, err := UserGenerator{Env: env, Count: r.Counts.Users}.Generate(ctx, tx)
			if err == nil {
				users = p
			}
			return p.Len(), err
		}},
		{PhaseSources, func(ctx context.Context, tx *gorm.DB) (int, error) {
			p, err := SourceGenerator{Env: env, Count: r.Counts.Sources, Lookups: lookups}.Generate(ctx, tx, users)
			if err == nil {
				sources = p
			}
			return p.Len(), err
		}},
		{PhaseRatings, func(ctx context.Context, tx *gorm.DB) (int, error) {
			return RatingGenerator{Env: env}.Generate(ctx, tx, users, sources)
		}},
		{PhaseRatingAggregates, RecomputeRatings},
		{PhaseLists, func(ctx context.Context, tx *gorm.DB) (int, error) {
			return ListGenerator{Env: env}.Generate(ctx, tx, users, sources)
		}},
		{PhaseReadings, func(ctx context.Context, tx *gorm.DB) (int, error) {
			return ReadingGenerator{Env: env}.Generate(ctx, tx, users, sources)
		}},
		{PhaseReadingStats, func(ctx context.Context, tx *gorm.DB) (int, error) {
			return RecomputeReadingStats(ctx, tx, users, lookups)
		}},
		{PhaseContacts, func(ctx context.Context, tx *gorm.DB) (int, error) {
			res, err := ContactGenerator{Env: env, Count: r.Counts.ContactRequests}.Generate(ctx, tx, users)
			return res.Requests, err
		}},
		{PhaseChats, func(ctx context.Context, tx *gorm.DB) (int, error) {
			res, err := ChatGenerator{Env: env, Limit: r.Counts.Chats}.Generate(ctx, tx)
			return res.Chats, err
		}},
		{PhaseReports, func(ctx context.Context, tx *gorm.DB) (int, error) {
			return ReportGenerator{Env: env, Count: r.Counts.Reports}.Generate(ctx, tx, users, sources)
		}},
		{PhaseTermVectors, func(ctx context.Context, tx *gorm.DB) (int, error) {
			return TermVectorGenerator{Env: env, Lookups: lookups}.Generate(ctx, tx, sources)
		}},
		{PhaseAutocomplete, func(ctx context.Context, tx *gorm.DB) (int, error) {
			return AutocompleteGenerator{Env: env}.Generate(ctx, tx)
		}},
	}

	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return finish(out, users, sources), err
		}
		res := r.phase(ctx, s.name, s.fn)
		out.Phases = append(out.Phases, res)
		if res.Err != nil {
			// rolled back: its rows do not exist
			switch s.name {
			case PhaseUsers:
				users = UserPool{}
			case PhaseSources:
				sources = SourcePool{}
			}
		}
		if errors.Is(res.Err, context.Canceled) || errors.Is(res.Err, context.DeadlineExceeded) {
			return finish(out, users, sources), res.Err
		}
	}
	return finish(out, users, sources), nil
}

func finish(out RunResult, users UserPool, sources SourcePool) RunResult {
	out.Users = users
	out.Sources = sources
	return out
}

// phase runs fn in one transaction. A missing prerequisite commits nothing
// and marks the phase skipped. Any other error rolls back the whole phase,
// rows it already inserted included, so a failed phase leaves no partial
// data behind. Per-row failures never reach here; record absorbs them.
func (r *Runner) phase(ctx context.Context, name string, fn func(context.Context, *gorm.DB) (int, error)) PhaseResult {
	tr := otel.Tracer("seed/Runner")
	ctx, span := tr.Start(ctx, name,
		trace.WithAttributes(attribute.String("seed.phase", name)),
	)
	defer span.End()

	l := zerolog.Ctx(ctx).With().Str("phase", name).Logger()
	ctx = l.WithContext(ctx)

	res := PhaseResult{Name: name}
	start := time.Now()
	var fnErr error
	txErr := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res.Rows, fnErr = fn(ctx, tx)
		if isPrerequisite(fnErr) {
			return nil
		}
		return fnErr
	})
	res.Duration = time.Since(start)
	r.Env.Metrics.ObservePhase(name, res.Duration)
	span.SetAttributes(attribute.Int("seed.rows", res.Rows))

	switch {
	case isPrerequisite(fnErr):
		res.Skipped = true
		res.Rows = 0
		l.Warn().Err(fnErr).Msg("phase skipped, missing prerequisite")
	case txErr != nil:
		res.Err = txErr
		if fnErr != nil {
			res.Err = fnErr
		}
		res.Rows = 0
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, res.Err.Error())
		l.Error().Err(res.Err).Dur("duration", res.Duration).Msg("phase rolled back")
	default:
		l.Info().Int("rows", res.Rows).Dur("duration", res.Duration).Msg("phase committed")
	}
	return res
}
