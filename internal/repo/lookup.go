// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file resolves the static reference tables
// (categories, subcategories, source types) once per run into a typed,
// read-only Lookups value.
package repo

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/tbourn/articora-seed/internal/domain"
)

// Typed reference identifiers. They keep category, subcategory and
// source-type keys from being mixed up once resolved.
type (
	CategoryID    int64
	SubcategoryID int64
	SourceTypeID  int64
)

// CategoryRef is a resolved category.
type CategoryRef struct {
	ID   CategoryID
	Name string
}

// SubcategoryRef is a resolved subcategory and its parent category.
type SubcategoryRef struct {
	ID         SubcategoryID
	CategoryID CategoryID
	Name       string
}

// SourceTypeRef is a resolved source type.
type SourceTypeRef struct {
	ID   SourceTypeID
	Name string
}

// Lookups holds the reference data needed as foreign keys by the generators.
// It is built once by LoadLookups and never mutated afterwards.
type Lookups struct {
	categories    []CategoryRef
	subcategories []SubcategoryRef
	sourceTypes   []SourceTypeRef

	categoryByName   map[string]CategoryRef
	sourceTypeByName map[string]SourceTypeRef
	subsByCategory   map[CategoryID][]SubcategoryRef
}

// LoadLookups reads all reference tables. Empty tables are not an error; the
// generators decide whether they can proceed without them.
func LoadLookups(ctx context.Context, db *gorm.DB) (*Lookups, error) {
	var cats []domain.Category
	if err := db.WithContext(ctx).Order("id").Find(&cats).Error; err != nil {
		return nil, err
	}
	var subs []domain.Subcategory
	if err := db.WithContext(ctx).Order("id").Find(&subs).Error; err != nil {
		return nil, err
	}
	var types []domain.SourceType
	if err := db.WithContext(ctx).Order("id").Find(&types).Error; err != nil {
		return nil, err
	}

	l := &Lookups{
		categoryByName:   make(map[string]CategoryRef, len(cats)),
		sourceTypeByName: make(map[string]SourceTypeRef, len(types)),
		subsByCategory:   make(map[CategoryID][]SubcategoryRef),
	}
	for _, c := range cats {
		ref := CategoryRef{ID: CategoryID(c.ID), Name: c.Name}
		l.categories = append(l.categories, ref)
		l.categoryByName[c.Name] = ref
	}
	for _, s := range subs {
		ref := SubcategoryRef{ID: SubcategoryID(s.ID), CategoryID: CategoryID(s.CategoryID), Name: s.Name}
		l.subcategories = append(l.subcategories, ref)
		l.subsByCategory[ref.CategoryID] = append(l.subsByCategory[ref.CategoryID], ref)
	}
	for _, t := range types {
		ref := SourceTypeRef{ID: SourceTypeID(t.ID), Name: t.Name}
		l.sourceTypes = append(l.sourceTypes, ref)
		l.sourceTypeByName[t.Name] = ref
	}
	return l, nil
}

// NewLookups builds a Lookups from in-memory reference data (tests, fixtures).
func NewLookups(cats []CategoryRef, subs []SubcategoryRef, types []SourceTypeRef) *Lookups {
	l := &Lookups{
		categoryByName:   make(map[string]CategoryRef, len(cats)),
		sourceTypeByName: make(map[string]SourceTypeRef, len(types)),
		subsByCategory:   make(map[CategoryID][]SubcategoryRef),
	}
	for _, c := range cats {
		l.categories = append(l.categories, c)
		l.categoryByName[c.Name] = c
	}
	for _, s := range subs {
		l.subcategories = append(l.subcategories, s)
		l.subsByCategory[s.CategoryID] = append(l.subsByCategory[s.CategoryID], s)
	}
	for _, t := range types {
		l.sourceTypes = append(l.sourceTypes, t)
		l.sourceTypeByName[t.Name] = t
	}
	return l
}

// Categories returns all categories ordered by id.
func (l *Lookups) Categories() []CategoryRef { return append([]CategoryRef(nil), l.categories...) }

// CategoryIDs returns all category ids in ascending order.
func (l *Lookups) CategoryIDs() []CategoryID {
	out := make([]CategoryID, 0, len(l.categories))
	for _, c := range l.categories {
		out = append(out, c.ID)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CategoryByID resolves a category by id.
func (l *Lookups) CategoryByID(id CategoryID) (CategoryRef, bool) {
	for _, c := range l.categories {
		if c.ID == id {
			return c, true
		}
	}
	return CategoryRef{}, false
}

// CategoryByName resolves a category by its exact name.
func (l *Lookups) CategoryByName(name string) (CategoryRef, bool) {
	c, ok := l.categoryByName[name]
	return c, ok
}

// Subcategories returns every subcategory.
func (l *Lookups) Subcategories() []SubcategoryRef {
	return append([]SubcategoryRef(nil), l.subcategories...)
}

// SubcategoriesOf returns the subcategories whose parent is cat.
func (l *Lookups) SubcategoriesOf(cat CategoryID) []SubcategoryRef {
	return append([]SubcategoryRef(nil), l.subsByCategory[cat]...)
}

// SourceTypes returns all source types ordered by id.
func (l *Lookups) SourceTypes() []SourceTypeRef {
	return append([]SourceTypeRef(nil), l.sourceTypes...)
}

// SourceTypeByName resolves a source type by its exact name.
func (l *Lookups) SourceTypeByName(name string) (SourceTypeRef, bool) {
	t, ok := l.sourceTypeByName[name]
	return t, ok
}
