package seed

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tbourn/articora-seed/internal/domain"
	"github.com/tbourn/articora-seed/internal/repo"
)

// Rating phase labels.
const (
	PhaseRatings          = "ratings"
	PhaseRatingAggregates = "rating_aggregates"
)

const (
	maxRatingsPerSource = 10
	commentProbability  = 0.4
	historyProbability  = 0.2
	minScore            = 1.0
)

// scoreRange bounds the draw for one rating dimension.
type scoreRange struct{ lo, hi float64 }

var (
	readabilityRange  = scoreRange{2, 5}
	completenessRange = scoreRange{2, 5}
	detailRange       = scoreRange{2, 5}
	veracityRange     = scoreRange{3, 5}
	technicalRange    = scoreRange{1, 5}

	ratingComments = []string{
		"Excelente recurso para entender los conceptos basicos.",
		"Muy completo, pero podria profundizar mas en algunos temas.",
		"La bibliografia es extensa y actualizada.",
		"Buen punto de partida para investigacion en el area.",
		"La metodologia es solida y los resultados son convincentes.",
		"Recomendado para estudiantes de posgrado.",
		"El lenguaje es claro y accesible.",
		"Falta discusion sobre aplicaciones practicas.",
	}
)

const historyComment = "Version anterior de la calificacion"

// RatingGenerator rates sources with random subsets of users.
type RatingGenerator struct {
	Env
}

// Generate inserts 0..10 ratings per source. A (user, source) pair that is
// already rated is skipped, never retried. It returns the number of ratings
// inserted.
func (g RatingGenerator) Generate(ctx context.Context, db *gorm.DB, users UserPool, sources SourcePool) (int, error) {
	if users.Len() == 0 {
		return 0, ErrNoUsers
	}
	if sources.Len() == 0 {
		return 0, ErrNoSources
	}
	r := g.rng()

	ratings, comments, history := 0, 0, 0
	for _, src := range sources.All() {
		if err := ctx.Err(); err != nil {
			return ratings, err
		}
		raters := sample(r, users.All(), g.intBetween(0, maxRatingsPerSource))
		for _, u := range raters {
			rt := g.newRating(src.ID, u)
			res := g.record(ctx, PhaseRatings, "ratings", repo.TryInsert(ctx, db, rt),
				"source_id", src.ID, "user_id", u.ID)
			if !res.OK() {
				continue
			}
			ratings++
			if rt.Comment != nil {
				comments++
			}

			if g.chance(historyProbability) {
				h := previousVersion(rt)
				if g.record(ctx, PhaseRatings, "rating_history", repo.TryInsert(ctx, db, h), "rating_id", rt.ID).OK() {
					history++
				}
			}
		}
	}

	zerolog.Ctx(ctx).Info().
		Int("ratings", ratings).
		Int("with_comment", comments).
		Int("history", history).
		Msg("ratings generated")
	return ratings, nil
}

func (g RatingGenerator) newRating(sourceID int64, u UserRef) *domain.Rating {
	rt := &domain.Rating{
		SourceID:            sourceID,
		UserID:              u.ID,
		Readability:         g.score(readabilityRange),
		Completeness:        g.score(completenessRange),
		DetailLevel:         g.score(detailRange),
		Veracity:            g.score(veracityRange),
		TechnicalDifficulty: g.score(technicalRange),
		AcademicContext:     u.AcademicLevel,
		CreatedAt:           g.daysAgo(0, 60),
	}
	if g.chance(commentProbability) {
		c := pick(g.rng(), ratingComments)
		rt.Comment = &c
	}
	return rt
}

// score draws from sr and rounds to the nearest 0.5. Both bounds are
// multiples of 0.5, so the result stays inside the range.
func (g RatingGenerator) score(sr scoreRange) float64 {
	return halfStep(g.uniform(sr.lo, sr.hi))
}

// previousVersion snapshots rt with every score lowered by 0.5, floored at 1.
func previousVersion(rt *domain.Rating) *domain.RatingHistory {
	dec := func(s float64) float64 { return max(minScore, s-0.5) }
	return &domain.RatingHistory{
		RatingID:            rt.ID,
		Readability:         dec(rt.Readability),
		Completeness:        dec(rt.Completeness),
		DetailLevel:         dec(rt.DetailLevel),
		Veracity:            dec(rt.Veracity),
		TechnicalDifficulty: dec(rt.TechnicalDifficulty),
		AcademicContext:     rt.AcademicContext,
		Comment:             historyComment,
	}
}

// RecomputeRatings rewrites every source's rating aggregates from its
// ratings. Safe to run any number of times.
func RecomputeRatings(ctx context.Context, db *gorm.DB) (int, error) {
	n, err := repo.RecomputeSourceRatings(ctx, db)
	if err != nil {
		return 0, err
	}
	zerolog.Ctx(ctx).Info().Int("rated_sources", n).Msg("source rating aggregates recomputed")
	return n, nil
}
