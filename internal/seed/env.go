package seed

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	"github.com/tbourn/articora-seed/internal/repo"
)

// Env carries what every generator draws on: a random source, a clock and
// the metrics sink. Generators embed it by value.
type Env struct {
	Rand    *rand.Rand
	Now     func() time.Time
	Metrics *Metrics
}

// NewEnv returns an Env with an unseeded PCG source and the wall clock.
func NewEnv(m *Metrics) Env {
	return Env{
		Rand:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		Now:     time.Now,
		Metrics: m,
	}
}

// NewSeededEnv returns an Env whose random sequence is fixed by seed.
func NewSeededEnv(seed uint64, m *Metrics) Env {
	return Env{
		Rand:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		Now:     time.Now,
		Metrics: m,
	}
}

func (e Env) rng() *rand.Rand {
	if e.Rand == nil {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return e.Rand
}

func (e Env) now() time.Time {
	if e.Now == nil {
		return time.Now().UTC()
	}
	return e.Now().UTC()
}

// intBetween draws uniformly from [lo, hi].
func (e Env) intBetween(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + e.rng().IntN(hi-lo+1)
}

// uniform draws uniformly from [lo, hi).
func (e Env) uniform(lo, hi float64) float64 {
	return lo + e.rng().Float64()*(hi-lo)
}

func (e Env) chance(p float64) bool { return e.rng().Float64() < p }

// daysAgo returns now minus a whole number of days drawn from [lo, hi].
func (e Env) daysAgo(lo, hi int) time.Time {
	return e.now().AddDate(0, 0, -e.intBetween(lo, hi))
}

// between draws a time in [from, to]. It returns from when to is not after it.
func (e Env) between(from, to time.Time) time.Time {
	span := to.Sub(from)
	if span <= 0 {
		return from
	}
	return from.Add(time.Duration(e.rng().Int64N(int64(span) + 1)))
}

// record counts res under phase/table and logs failed rows with kv context.
func (e Env) record(ctx context.Context, phase, table string, res repo.InsertResult, kv ...any) repo.InsertResult {
	e.Metrics.Row(phase, table, res.Outcome)
	if res.Outcome == repo.Failed {
		zerolog.Ctx(ctx).Warn().
			Err(res.Err).
			Str("table", table).
			Fields(kv).
			Msg("row skipped")
	}
	return res
}

func pick[T any](r *rand.Rand, xs []T) T {
	return xs[r.IntN(len(xs))]
}

// sample returns k distinct elements of xs in random order. k is clamped to
// len(xs).
func sample[T any](r *rand.Rand, xs []T, k int) []T {
	if k > len(xs) {
		k = len(xs)
	}
	if k <= 0 {
		return nil
	}
	out := make([]T, 0, k)
	for _, i := range r.Perm(len(xs))[:k] {
		out = append(out, xs[i])
	}
	return out
}

// halfStep rounds x to the nearest multiple of 0.5.
func halfStep(x float64) float64 { return math.Round(x*2) / 2 }

func round3(x float64) float64 { return math.Round(x*1000) / 1000 }

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
