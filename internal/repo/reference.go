// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file bootstraps the static reference tables for stores
// that do not ship them (fresh SQLite files, test databases).
package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/tbourn/articora-seed/internal/domain"
)

// Canonical category names, in id order of the live schema.
var CategoryNames = []string{
	"Cognitive Sciences",
	"Social Sciences",
	"Humanities",
	"Creative Disciplines",
	"Computational Sciences",
	"Exact Sciences",
	"Natural Sciences",
	"Applied Sciences",
}

// Canonical source type names, in id order of the live schema.
var SourceTypeNames = []string{
	"Book",
	"Book Chapter",
	"Journal Article",
	"Preprint",
	"Thesis or Dissertation",
	"Online Article",
	"Conference Proceedings",
	"Technical Report",
	"Encyclopedia or Dictionary",
	"Audiovisual Material",
}

// SubcategoryNames maps each category to its canonical subcategories.
var SubcategoryNames = map[string][]string{
	"Cognitive Sciences":     {"Psychology", "Neuroscience", "Linguistics"},
	"Social Sciences":        {"Sociology", "Economics", "Political Science"},
	"Humanities":             {"Philosophy", "History", "Literature"},
	"Creative Disciplines":   {"Visual Arts", "Music", "Architecture and Design"},
	"Computational Sciences": {"Artificial Intelligence", "Software Engineering", "Data Science"},
	"Exact Sciences":         {"Mathematics", "Physics", "Statistics"},
	"Natural Sciences":       {"Biology", "Chemistry", "Earth Sciences"},
	"Applied Sciences":       {"Medicine", "Engineering", "Materials Science"},
}

// SeedReferenceData inserts the canonical categories, subcategories and
// source types. Existing names are left untouched, so repeated calls are
// no-ops. It returns the number of rows actually inserted.
func SeedReferenceData(ctx context.Context, db *gorm.DB) (int, error) {
	inserted := 0
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range CategoryNames {
			res := InsertIgnore(ctx, tx, &domain.Category{Name: name})
			if res.Outcome == Failed {
				return fmt.Errorf("category %q: %w", name, res.Err)
			}
			if res.OK() {
				inserted++
			}
		}
		for _, name := range SourceTypeNames {
			res := InsertIgnore(ctx, tx, &domain.SourceType{Name: name})
			if res.Outcome == Failed {
				return fmt.Errorf("source type %q: %w", name, res.Err)
			}
			if res.OK() {
				inserted++
			}
		}

		var cats []domain.Category
		if err := tx.Find(&cats).Error; err != nil {
			return err
		}
		for _, c := range cats {
			for _, sub := range SubcategoryNames[c.Name] {
				res := InsertIgnore(ctx, tx, &domain.Subcategory{CategoryID: c.ID, Name: sub})
				if res.Outcome == Failed {
					return fmt.Errorf("subcategory %q: %w", sub, res.Err)
				}
				if res.OK() {
					inserted++
				}
			}
		}
		return nil
	})
	return inserted, err
}
