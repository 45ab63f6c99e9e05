package seed

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tbourn/articora-seed/internal/domain"
	"github.com/tbourn/articora-seed/internal/repo"
)

// Reading phase labels.
const (
	PhaseReadings     = "readings"
	PhaseReadingStats = "reading_stats"
)

const (
	minReadingsPerUser = 5
	maxReadingsPerUser = 20
	maxReadDaysAgo     = 90
)

var readingStatuses = []string{domain.ReadingRead, domain.ReadingToRead}

// ReadingGenerator fills each user's reading shelf.
type ReadingGenerator struct {
	Env
}

// Generate gives every user between 5 and min(20, len(sources)) readings.
// Pairs that already exist are ignored. It returns the number of new rows.
func (g ReadingGenerator) Generate(ctx context.Context, db *gorm.DB, users UserPool, sources SourcePool) (int, error) {
	if users.Len() == 0 {
		return 0, ErrNoUsers
	}
	if sources.Len() == 0 {
		return 0, ErrNoSources
	}
	r := g.rng()

	hi := min(maxReadingsPerUser, sources.Len())
	lo := min(minReadingsPerUser, hi)

	inserted := 0
	for _, u := range users.All() {
		if err := ctx.Err(); err != nil {
			return inserted, err
		}
		for _, src := range sample(r, sources.All(), g.intBetween(lo, hi)) {
			ur := g.newReading(u.ID, src.ID)
			res := g.record(ctx, PhaseReadings, "user_readings", repo.InsertIgnore(ctx, db, ur),
				"user_id", u.ID, "source_id", src.ID)
			if res.OK() {
				inserted++
			}
		}
	}

	zerolog.Ctx(ctx).Info().Int("readings", inserted).Msg("readings generated")
	return inserted, nil
}

// newReading sets read_date only for read rows and priority only for
// to_read rows.
func (g ReadingGenerator) newReading(userID, sourceID int64) *domain.UserReading {
	ur := &domain.UserReading{
		UserID:   userID,
		SourceID: sourceID,
		Status:   pick(g.rng(), readingStatuses),
	}
	if ur.Status == domain.ReadingRead {
		d := truncateDay(g.daysAgo(0, maxReadDaysAgo))
		ur.ReadDate = &d
	} else {
		ur.Priority = g.intBetween(1, 10)
	}
	return ur
}

// RecomputeReadingStats rebuilds reading_stats for the given users from their
// live readings. Every category appears in the distribution.
func RecomputeReadingStats(ctx context.Context, db *gorm.DB, users UserPool, lookups *repo.Lookups) (int, error) {
	if users.Len() == 0 {
		return 0, ErrNoUsers
	}
	var cats []repo.CategoryID
	if lookups != nil {
		cats = lookups.CategoryIDs()
	}
	n, err := repo.RecomputeReadingStats(ctx, db, users.IDs(), cats)
	if err != nil {
		return n, err
	}
	zerolog.Ctx(ctx).Info().Int("users", n).Msg("reading stats recomputed")
	return n, nil
}
