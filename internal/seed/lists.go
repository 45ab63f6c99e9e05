package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tbourn/articora-seed/internal/domain"
	"github.com/tbourn/articora-seed/internal/repo"
)

// PhaseLists is the curatorial lists phase label.
const PhaseLists = "lists"

const (
	minListSources   = 5
	maxListSources   = 15
	maxCollaborators = 3
)

// listTheme is the fixed title/description pair for one curated list.
type listTheme struct {
	Title       string
	Description string
}

var listThemes = []listTheme{
	{"Fundamentos de Inteligencia Artificial", "Recursos esenciales para comprender los conceptos fundamentales."},
	{"Literatura Latinoamericana Contemporanea", "Obras representativas de los autores mas influyentes."},
	{"Cambio Climatico y Sustentabilidad", "Investigaciones sobre impacto ambiental y soluciones sostenibles."},
	{"Neurociencia Cognitiva Avanzada", "Estudios recientes sobre procesos cognitivos y neurologicos."},
	{"Historia de las Revoluciones", "Analisis historico de movimientos revolucionarios mundiales."},
	{"Filosofia del Lenguaje", "Textos filosoficos sobre el lenguaje y la comunicacion."},
	{"Ingenieria de Software Moderna", "Mejores practicas y metodologias actuales."},
	{"Biologia Molecular Basica", "Introduccion a los principios de la biologia molecular."},
}

var collaboratorStatuses = []string{"pending", "accepted"}

// ListGenerator creates one curated list per theme.
type ListGenerator struct {
	Env
}

// Generate creates the themed lists, attaches 5..15 sources to each with a
// dense 0-based sort order and stores the attached count in total_sources.
// It returns the number of lists created.
func (g ListGenerator) Generate(ctx context.Context, db *gorm.DB, users UserPool, sources SourcePool) (int, error) {
	if users.Len() == 0 {
		return 0, ErrNoUsers
	}
	if sources.Len() == 0 {
		return 0, ErrNoSources
	}
	log := zerolog.Ctx(ctx)
	r := g.rng()

	lists, attachedTotal, collaborators := 0, 0, 0
	for i, theme := range listThemes {
		if err := ctx.Err(); err != nil {
			return lists, err
		}
		owner := users.At(r.IntN(users.Len()))
		l := &domain.CuratorialList{
			UserID:          owner.ID,
			Title:           theme.Title,
			Description:     theme.Description,
			CoverImage:      fmt.Sprintf("https://picsum.photos/400/300?random=%d", i+100),
			IsPublic:        g.chance(0.5),
			IsCollaborative: g.chance(0.5),
			TotalViews:      g.intBetween(0, 1000),
			CreatedAt:       g.now(),
		}
		if !g.record(ctx, PhaseLists, "curatorial_lists", repo.TryInsert(ctx, db, l), "user_id", owner.ID).OK() {
			continue
		}
		lists++

		attached := 0
		for _, src := range sample(r, sources.All(), g.intBetween(minListSources, maxListSources)) {
			ls := &domain.ListSource{ListID: l.ID, SourceID: src.ID, SortOrder: attached}
			if g.record(ctx, PhaseLists, "list_sources", repo.TryInsert(ctx, db, ls),
				"list_id", l.ID, "source_id", src.ID).OK() {
				attached++
			}
		}
		if err := repo.SetListTotalSources(ctx, db, l.ID, attached); err != nil {
			return lists, err
		}
		attachedTotal += attached

		if !l.IsCollaborative {
			continue
		}
		others := users.Except(owner.ID)
		for _, c := range sample(r, others, maxCollaborators) {
			lc := &domain.ListCollaborator{ListID: l.ID, UserID: c.ID, Status: pick(r, collaboratorStatuses)}
			if g.record(ctx, PhaseLists, "list_collaborators", repo.TryInsert(ctx, db, lc),
				"list_id", l.ID, "user_id", c.ID).OK() {
				collaborators++
			}
		}
	}

	log.Info().
		Int("lists", lists).
		Int("list_sources", attachedTotal).
		Int("collaborators", collaborators).
		Msg("curatorial lists generated")
	return lists, nil
}
