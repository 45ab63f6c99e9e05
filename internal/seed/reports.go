package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tbourn/articora-seed/internal/domain"
	"github.com/tbourn/articora-seed/internal/repo"
)

// PhaseReports is the moderation reports phase label.
const PhaseReports = "reports"

var (
	reportTypes    = []string{domain.ReportSource, domain.ReportUser}
	reportReasons  = []string{"spam", "inappropriate_content", "false_information", "harassment"}
	reportStatuses = []string{domain.ReportPending, domain.ReportReviewed, domain.ReportResolved}
	reportActions  = []string{"warning_issued", "content_removed", "account_suspended", "no_action"}
)

// ReportGenerator files moderation reports against sources or users.
type ReportGenerator struct {
	Env
	Count int
}

// Generate files Count reports. Each one targets exactly one source or one
// user other than the reporter. Review and resolution fields are filled only
// for the stages the drawn status has reached, with
// reported_at <= reviewed_at <= resolved_at. It returns the number filed.
func (g ReportGenerator) Generate(ctx context.Context, db *gorm.DB, users UserPool, sources SourcePool) (int, error) {
	if users.Len() == 0 {
		return 0, ErrNoUsers
	}
	log := zerolog.Ctx(ctx)
	r := g.rng()
	admins := users.Validated()

	filed := 0
	for i := 0; i < g.Count; i++ {
		if err := ctx.Err(); err != nil {
			return filed, err
		}
		reporter := users.At(r.IntN(users.Len()))
		rep, ok := g.target(reporter, pick(r, reportTypes), users, sources)
		if !ok {
			log.Debug().Int64("reporter_id", reporter.ID).Msg("no report target available, skipping")
			continue
		}

		reason := pick(r, reportReasons)
		rep.ReporterID = reporter.ID
		rep.Reason = reason
		rep.Description = fmt.Sprintf("Reporte de prueba por %s", reason)
		rep.Status = pick(r, reportStatuses)
		rep.ReportedAt = g.daysAgo(0, 15)

		if rep.Status != domain.ReportPending {
			reviewed := g.between(rep.ReportedAt, g.now())
			rep.ReviewedAt = &reviewed
			if len(admins) > 0 {
				id := pick(r, admins).ID
				rep.AdminID = &id
			}
		}
		if rep.Status == domain.ReportResolved {
			resolved := g.between(*rep.ReviewedAt, g.now())
			action := pick(r, reportActions)
			rep.ResolvedAt = &resolved
			rep.ActionTaken = &action
		}

		if g.record(ctx, PhaseReports, "reports", repo.TryInsert(ctx, db, rep),
			"reporter_id", reporter.ID, "report_type", rep.ReportType).OK() {
			filed++
		}
	}

	log.Info().Int("reports", filed).Msg("reports generated")
	return filed, nil
}

// target fills exactly one of SourceID / ReportedUserID. When the drawn kind
// has no candidate it switches to the other kind.
func (g ReportGenerator) target(reporter UserRef, kind string, users UserPool, sources SourcePool) (*domain.Report, bool) {
	r := g.rng()
	others := users.Except(reporter.ID)

	if kind == domain.ReportSource && sources.Len() == 0 {
		kind = domain.ReportUser
	}
	if kind == domain.ReportUser && len(others) == 0 {
		kind = domain.ReportSource
	}

	switch {
	case kind == domain.ReportSource && sources.Len() > 0:
		id := sources.At(r.IntN(sources.Len())).ID
		return &domain.Report{ReportType: domain.ReportSource, SourceID: &id}, true
	case kind == domain.ReportUser && len(others) > 0:
		id := pick(r, others).ID
		return &domain.Report{ReportType: domain.ReportUser, ReportedUserID: &id}, true
	default:
		return nil, false
	}
}
