package seed

import (
	"context"
	"slices"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tbourn/articora-seed/internal/domain"
	"github.com/tbourn/articora-seed/internal/repo"
)

// Search-support phase labels.
const (
	PhaseTermVectors  = "term_vectors"
	PhaseAutocomplete = "autocomplete"
)

var (
	// categoryTerms are the relevance terms for each category. Categories
	// absent here only get the generic terms.
	categoryTerms = map[string][]string{
		"Cognitive Sciences":     {"cognicion", "aprendizaje", "memoria", "neurociencia", "psicologia"},
		"Social Sciences":        {"sociedad", "economia", "politica", "cultura", "historia"},
		"Humanities":             {"filosofia", "literatura", "etica", "lenguaje", "arte"},
		"Computational Sciences": {"computacion", "algoritmo", "software", "datos", "inteligencia"},
		"Natural Sciences":       {"biologia", "quimica", "ecologia", "evolucion", "genetica"},
		"Applied Sciences":       {"ingenieria", "medicina", "tecnologia", "diseno", "materiales"},
	}

	genericTerms = []string{"investigacion", "estudio", "analisis", "metodo", "resultado"}
)

const genericTermsPerSource = 2

// vocabulary is one block of autocomplete words sharing language, field and
// frequency range.
type vocabulary struct {
	Language string
	Field    string
	MinFreq  int
	MaxFreq  int
	Words    []string
}

var autocompleteVocabulary = []vocabulary{
	{"es", "title", 10, 100, []string{
		"investigacion", "estudio", "analisis", "metodo", "teoria",
		"sistema", "proceso", "estructura", "funcion", "modelo",
		"desarrollo", "aplicacion", "evaluacion", "resultado", "conclusion",
		"perspectiva", "enfoque", "contexto", "aspecto", "elemento",
	}},
	{"es", "author", 5, 50, []string{
		"Garcia", "Rodriguez", "Martinez", "Hernandez", "Lopez",
		"Gonzalez", "Perez", "Sanchez", "Ramirez", "Cruz",
	}},
	{"en", "publisher", 3, 30, []string{
		"Nature", "Science", "Journal", "Review", "Proceedings",
		"Transactions", "Bulletin", "Letters", "Research", "Studies",
	}},
	{"es", "keyword", 15, 80, []string{
		"ciencia", "tecnologia", "educacion", "salud", "medio ambiente",
		"economia", "sociedad", "cultura", "politica", "historia",
	}},
}

// TermVectorGenerator writes simulated TF-IDF rows per source.
type TermVectorGenerator struct {
	Env
	Lookups *repo.Lookups
}

// Generate writes one row per (source, term). Existing pairs are left
// untouched. Weight is stored as tf*idf. It returns the number of new rows.
func (g TermVectorGenerator) Generate(ctx context.Context, db *gorm.DB, sources SourcePool) (int, error) {
	if sources.Len() == 0 {
		return 0, ErrNoSources
	}

	inserted := 0
	for _, src := range sources.All() {
		if err := ctx.Err(); err != nil {
			return inserted, err
		}
		for _, term := range g.termsFor(src.CategoryID) {
			tf := round3(g.uniform(0.1, 1.0))
			idf := round3(g.uniform(1.0, 3.0))
			v := &domain.TermVector{SourceID: src.ID, Term: term, TF: tf, IDF: idf, Weight: tf * idf}
			if g.record(ctx, PhaseTermVectors, "tfidf_vectors", repo.InsertIgnore(ctx, db, v),
				"source_id", src.ID, "term", term).OK() {
				inserted++
			}
		}
	}

	zerolog.Ctx(ctx).Info().Int("term_vectors", inserted).Msg("term vectors generated")
	return inserted, nil
}

func (g TermVectorGenerator) termsFor(cat repo.CategoryID) []string {
	var terms []string
	if g.Lookups != nil {
		if c, ok := g.Lookups.CategoryByID(cat); ok {
			terms = append(terms, categoryTerms[c.Name]...)
		}
	}
	for _, t := range sample(g.rng(), genericTerms, genericTermsPerSource) {
		if !slices.Contains(terms, t) {
			terms = append(terms, t)
		}
	}
	return terms
}

// AutocompleteGenerator writes the static autocomplete vocabulary.
type AutocompleteGenerator struct {
	Env
}

// Generate inserts every vocabulary word with a random frequency. Words
// already present for the same language and field are left as they are.
func (g AutocompleteGenerator) Generate(ctx context.Context, db *gorm.DB) (int, error) {
	inserted := 0
	for _, voc := range autocompleteVocabulary {
		for _, w := range voc.Words {
			if err := ctx.Err(); err != nil {
				return inserted, err
			}
			e := &domain.AutocompleteEntry{
				Language:  voc.Language,
				Word:      w,
				Field:     voc.Field,
				Frequency: g.intBetween(voc.MinFreq, voc.MaxFreq),
			}
			if g.record(ctx, PhaseAutocomplete, "autocomplete_dictionary", repo.InsertIgnore(ctx, db, e),
				"word", w, "field", voc.Field).OK() {
				inserted++
			}
		}
	}

	zerolog.Ctx(ctx).Info().Int("entries", inserted).Msg("autocomplete vocabulary written")
	return inserted, nil
}
