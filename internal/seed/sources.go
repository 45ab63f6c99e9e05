package seed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tbourn/articora-seed/internal/domain"
	"github.com/tbourn/articora-seed/internal/repo"
)

// PhaseSources is the sources phase label.
const PhaseSources = "sources"

// fallbackUploaderID owns sources when no users exist. With foreign keys
// enforced those rows fail individually and are logged.
const fallbackUploaderID int64 = 1

var (
	sourceTitles = map[string][]string{
		"Cognitive Sciences": {
			"Cognitive Load Theory and Its Applications in Education",
			"Neural Correlates of Decision Making",
			"Language Acquisition in Bilingual Children",
			"Memory Consolidation During Sleep",
			"Attention Mechanisms in Visual Processing",
		},
		"Social Sciences": {
			"Social Networks and Political Mobilization",
			"Economic Inequality in Developing Countries",
			"Cultural Identity in Globalization",
			"Gender Roles in Modern Society",
			"Urban Sociology: Megacities Challenges",
		},
		"Humanities": {
			"Philosophy of Mind: Consciousness Studies",
			"Postmodern Literature Analysis",
			"Ethical Implications of Artificial Intelligence",
			"Historical Narratives and National Identity",
			"Aesthetic Theory in Contemporary Art",
		},
		"Computational Sciences": {
			"Deep Learning Architectures for Natural Language Processing",
			"Cybersecurity Threats in IoT Devices",
			"Quantum Computing Algorithms",
			"Software Engineering Best Practices for Agile Teams",
			"Data Visualization Techniques for Big Data",
		},
		"Natural Sciences": {
			"Climate Change Impact on Marine Ecosystems",
			"CRISPR Technology in Genetic Engineering",
			"Dark Matter and Universe Expansion",
			"Nanomaterials for Renewable Energy",
			"Evolutionary Biology: Speciation Mechanisms",
		},
		"Applied Sciences": {
			"Sustainable Architecture in Urban Design",
			"Medical Imaging Advances in Oncology",
			"Renewable Energy Systems Integration",
			"Biomaterials for Tissue Engineering",
			"Structural Engineering for Earthquake Resistance",
		},
	}

	academicAuthors = []string{
		"Smith, J., Johnson, R., Williams, A.",
		"Garcia, M., Rodriguez, P., Martinez, L.",
		"Chen, W., Wang, L., Zhang, Y.",
		"Muller, H., Schmidt, K., Fischer, T.",
		"Dubois, P., Lefevre, C., Moreau, J.",
		"Silva, R., Santos, M., Oliveira, A.",
		"Ivanov, A., Petrov, D., Sidorov, M.",
		"Yamamoto, T., Tanaka, H., Suzuki, K.",
	}

	journals = []string{
		"Nature", "Science", "PNAS", "Cell", "The Lancet",
		"IEEE Transactions", "ACM Computing Surveys",
		"Psychological Review", "American Economic Review",
		"Journal of Biological Chemistry", "Physical Review Letters",
	}

	accessURLs = []string{
		"https://doi.org/10.1000/",
		"https://arxiv.org/abs/",
		"https://www.ncbi.nlm.nih.gov/pmc/articles/",
		"https://ieeexplore.ieee.org/document/",
		"https://link.springer.com/article/",
	}

	// Most common source types; resolved by name against the loaded table.
	commonSourceTypes = []string{
		"Book", "Book Chapter", "Journal Article", "Online Article", "Conference Proceedings",
	}

	secondaryURLTypes = []string{"secondary", "purchase"}
)

// SourceGenerator creates bibliographic sources owned by generated users.
type SourceGenerator struct {
	Env
	Count   int
	Lookups *repo.Lookups
}

// Generate inserts up to Count sources. Aggregate rating fields start at zero
// and become meaningful after the rating recompute.
func (g SourceGenerator) Generate(ctx context.Context, db *gorm.DB, users UserPool) (SourcePool, error) {
	log := zerolog.Ctx(ctx)
	r := g.rng()

	if g.Lookups == nil || len(g.Lookups.Categories()) == 0 {
		return SourcePool{}, ErrNoCategories
	}
	if users.Len() == 0 {
		log.Warn().Int64("uploaded_by", fallbackUploaderID).Msg("no users generated, using fallback uploader")
	}

	categories := g.Lookups.Categories()
	sources := make([]SourceRef, 0, g.Count)
	urls := 0
	for i := 0; i < g.Count; i++ {
		if err := ctx.Err(); err != nil {
			return NewSourcePool(sources), err
		}
		cat := pick(r, categories)

		uploader := fallbackUploaderID
		if users.Len() > 0 {
			uploader = users.At(r.IntN(users.Len())).ID
		}

		s, err := g.newSource(i, cat, uploader)
		if err != nil {
			return NewSourcePool(sources), err
		}
		res := g.record(ctx, PhaseSources, "sources", repo.TryInsert(ctx, db, s), "index", i, "uploaded_by", uploader)
		if !res.OK() {
			continue
		}
		sources = append(sources, SourceRef{
			ID:         s.ID,
			Title:      s.Title,
			CategoryID: cat.ID,
			UploadedBy: uploader,
		})

		if g.chance(0.4) {
			for _, kind := range sample(r, secondaryURLTypes, g.intBetween(1, 2)) {
				u := &domain.SourceURL{
					SourceID: s.ID,
					URL:      fmt.Sprintf("https://alternate.source/%d/%s", s.ID, kind),
					URLType:  kind,
				}
				if g.record(ctx, PhaseSources, "source_urls", repo.TryInsert(ctx, db, u), "source_id", s.ID).OK() {
					urls++
				}
			}
		}
	}

	log.Info().
		Int("requested", g.Count).
		Int("created", len(sources)).
		Int("secondary_urls", urls).
		Msg("sources generated")
	return NewSourcePool(sources), nil
}

func (g SourceGenerator) newSource(i int, cat repo.CategoryRef, uploader int64) (*domain.Source, error) {
	r := g.rng()

	title := fmt.Sprintf("Research in %s: Volume %d", cat.Name, i+1)
	if pool := sourceTitles[cat.Name]; len(pool) > 0 {
		title = pick(r, pool)
	}
	title += fmt.Sprintf(" (Part %d)", i%5+1)

	keywords, err := json.Marshal([]string{fold(cat.Name), "research", "academic", "study"})
	if err != nil {
		return nil, err
	}

	s := &domain.Source{
		Title:            title,
		Authors:          pick(r, academicAuthors),
		PublicationYear:  g.intBetween(2010, 2024),
		JournalPublisher: pick(r, journals),
		Volume:           fmt.Sprint(g.intBetween(1, 50)),
		IssueNumber:      g.intBetween(1, 12),
		Pages:            fmt.Sprintf("%d-%d", g.intBetween(1, 50), g.intBetween(51, 100)),
		DOI:              fmt.Sprintf("10.1000/xyz%06d", i),
		Keywords:         datatypes.JSON(keywords),
		PrimaryURL:       pick(r, accessURLs) + fmt.Sprintf("xyz%06d", i),
		CategoryID:       int64(cat.ID),
		UploadedBy:       uploader,
		CoverImageURL:    fmt.Sprintf("https://picsum.photos/300/400?random=%d", i),
		IsActive:         true,
		TotalReads:       g.intBetween(0, 500),
		CreatedAt:        g.now(),
	}
	if g.chance(0.3) {
		ed := g.intBetween(1, 5)
		s.Edition = &ed
	}
	if sub, ok := g.subcategory(cat.ID); ok {
		id := int64(sub)
		s.SubcategoryID = &id
	}
	if st, ok := g.sourceType(); ok {
		id := int64(st)
		s.SourceTypeID = &id
	}
	return s, nil
}

// subcategory prefers one of the category's own subcategories, then any.
func (g SourceGenerator) subcategory(cat repo.CategoryID) (repo.SubcategoryID, bool) {
	subs := g.Lookups.SubcategoriesOf(cat)
	if len(subs) == 0 {
		subs = g.Lookups.Subcategories()
	}
	if len(subs) == 0 {
		return 0, false
	}
	return pick(g.rng(), subs).ID, true
}

func (g SourceGenerator) sourceType() (repo.SourceTypeID, bool) {
	if t, ok := g.Lookups.SourceTypeByName(pick(g.rng(), commonSourceTypes)); ok {
		return t.ID, true
	}
	all := g.Lookups.SourceTypes()
	if len(all) == 0 {
		return 0, false
	}
	return pick(g.rng(), all).ID, true
}
