package repo

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"github.com/tbourn/articora-seed/internal/domain"
)

// SummaryTables lists the tables reported in the run summary, in display order.
var SummaryTables = []string{
	"users",
	"user_validations",
	"sources",
	"source_urls",
	"ratings",
	"rating_history",
	"curatorial_lists",
	"list_sources",
	"list_collaborators",
	"user_readings",
	"reading_stats",
	"contact_requests",
	"confirmed_contacts",
	"chats",
	"chat_participants",
	"messages",
	"reports",
	"tfidf_vectors",
	"autocomplete_dictionary",
}

// TableCount is the row count of one table. Err is set when the table could
// not be counted (e.g. it does not exist in this store).
type TableCount struct {
	Table string
	Rows  int64
	Err   error
}

// CategoryCount is the number of sources filed under one category.
type CategoryCount struct {
	Name  string
	Count int64
}

// CountTables counts every table in SummaryTables. A missing table is
// reported in its entry rather than failing the whole call.
func CountTables(ctx context.Context, db *gorm.DB) []TableCount {
	out := make([]TableCount, 0, len(SummaryTables))
	for _, name := range SummaryTables {
		var n int64
		err := db.WithContext(ctx).Table(name).Count(&n).Error
		out = append(out, TableCount{Table: name, Rows: n, Err: err})
	}
	return out
}

// ValidatedCounts returns (validated, unvalidated) user counts.
func ValidatedCounts(ctx context.Context, db *gorm.DB) (int64, int64, error) {
	var validated, total int64
	if err := db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := db.WithContext(ctx).Model(&domain.User{}).
		Where("is_validated = ?", true).
		Count(&validated).Error; err != nil {
		return 0, 0, err
	}
	return validated, total - validated, nil
}

// SourcesPerCategory counts sources per category, largest first. Categories
// without sources are included with a zero count.
func SourcesPerCategory(ctx context.Context, db *gorm.DB) ([]CategoryCount, error) {
	var out []CategoryCount
	err := db.WithContext(ctx).
		Table("categories AS c").
		Select("c.name AS name, COUNT(s.id) AS count").
		Joins("LEFT JOIN sources s ON s.category_id = c.id").
		Group("c.id, c.name").
		Order("count DESC, c.name").
		Scan(&out).Error
	return out, err
}

// MeanOverallRating averages overall_rating over rated sources. ok is false
// when no source has a positive overall rating.
func MeanOverallRating(ctx context.Context, db *gorm.DB) (mean float64, ok bool, err error) {
	var avg sql.NullFloat64
	err = db.WithContext(ctx).
		Model(&domain.Source{}).
		Select("AVG(overall_rating)").
		Where("overall_rating > 0").
		Row().Scan(&avg)
	if err != nil {
		return 0, false, err
	}
	return avg.Float64, avg.Valid, nil
}
