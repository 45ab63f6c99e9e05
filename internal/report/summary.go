// Package report renders the human-readable summary printed after a run.
//
// The reporter only reads: it counts tables, splits users by validation,
// groups sources by category and averages the overall rating of rated
// sources. Failures of individual queries are printed inline so a partial
// summary is still written.
package report

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/articora-seed/internal/repo"
	"github.com/tbourn/articora-seed/internal/seed"
)

// Summary is the data behind one rendered report.
type Summary struct {
	Tables      []repo.TableCount
	Total       int64
	Validated   int64
	Unvalidated int64
	UsersErr    error
	Categories  []repo.CategoryCount
	CategoryErr error
	MeanRating  float64
	HasRatings  bool
	RatingErr   error
	Phases      []seed.PhaseResult
}

// RunSummaryReporter collects and prints the run summary.
type RunSummaryReporter struct {
	DB *gorm.DB
}

// Collect queries the store. Only a cancelled context is returned as an
// error; query failures are kept in the Summary.
func (r RunSummaryReporter) Collect(ctx context.Context, run seed.RunResult) (Summary, error) {
	ctx, span := otel.Tracer("report/RunSummaryReporter").Start(ctx, "summary")
	defer span.End()

	s := Summary{Phases: run.Phases}
	s.Tables = repo.CountTables(ctx, r.DB)
	for _, tc := range s.Tables {
		if tc.Err == nil {
			s.Total += tc.Rows
		}
	}
	s.Validated, s.Unvalidated, s.UsersErr = repo.ValidatedCounts(ctx, r.DB)
	s.Categories, s.CategoryErr = repo.SourcesPerCategory(ctx, r.DB)
	s.MeanRating, s.HasRatings, s.RatingErr = repo.MeanOverallRating(ctx, r.DB)

	span.SetAttributes(attribute.Int64("seed.total_rows", s.Total))
	if err := ctx.Err(); err != nil {
		return s, err
	}
	zerolog.Ctx(ctx).Debug().Int64("total_rows", s.Total).Msg("summary collected")
	return s, nil
}

// Report collects and writes the summary to w.
func (r RunSummaryReporter) Report(ctx context.Context, w io.Writer, run seed.RunResult) error {
	s, err := r.Collect(ctx, run)
	if err != nil {
		return err
	}
	return Write(w, s)
}

// Write renders s as aligned plain-text tables.
func Write(w io.Writer, s Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "== Run summary ==")
	if len(s.Phases) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "PHASE\tROWS\tSTATUS\tDURATION")
		for _, p := range s.Phases {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", p.Name, p.Rows, phaseStatus(p), p.Duration.Round(time.Millisecond))
		}
	}

	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "TABLE\tROWS")
	for _, tc := range s.Tables {
		if tc.Err != nil {
			fmt.Fprintf(tw, "%s\t(missing)\n", tc.Table)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\n", tc.Table, tc.Rows)
	}
	fmt.Fprintf(tw, "total\t%d\n", s.Total)

	fmt.Fprintln(tw)
	if s.UsersErr != nil {
		fmt.Fprintf(tw, "users\terror: %v\n", s.UsersErr)
	} else {
		fmt.Fprintf(tw, "validated users\t%d\n", s.Validated)
		fmt.Fprintf(tw, "unvalidated users\t%d\n", s.Unvalidated)
	}

	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "CATEGORY\tSOURCES")
	if s.CategoryErr != nil {
		fmt.Fprintf(tw, "(error)\t%v\n", s.CategoryErr)
	}
	for _, c := range s.Categories {
		fmt.Fprintf(tw, "%s\t%d\n", c.Name, c.Count)
	}

	fmt.Fprintln(tw)
	switch {
	case s.RatingErr != nil:
		fmt.Fprintf(tw, "mean overall rating\terror: %v\n", s.RatingErr)
	case s.HasRatings:
		fmt.Fprintf(tw, "mean overall rating\t%.2f\n", s.MeanRating)
	default:
		fmt.Fprintln(tw, "mean overall rating\tn/a")
	}

	return tw.Flush()
}

func phaseStatus(p seed.PhaseResult) string {
	switch {
	case p.Skipped:
		return "skipped"
	case p.Err != nil:
		return "rolled back"
	default:
		return "committed"
	}
}
