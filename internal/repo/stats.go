// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file holds the aggregate recompute queries that keep
// derived fields (source rating statistics, per-user reading statistics, list
// sizes, chat last-message timestamps) equal to functions over the raw rows.
//
// Every recompute is a pure function of the current rows, so running it twice
// yields the same stored values.
package repo

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/articora-seed/internal/domain"
)

// SourceRatingAggregate is the per-source aggregation over the ratings table.
type SourceRatingAggregate struct {
	SourceID               int64
	TotalRatings           int64
	AvgReadability         float64
	AvgCompleteness        float64
	AvgDetailLevel         float64
	AvgVeracity            float64
	AvgTechnicalDifficulty float64
}

// Overall is the unweighted mean of the five per-dimension averages.
func (a SourceRatingAggregate) Overall() float64 {
	return (a.AvgReadability + a.AvgCompleteness + a.AvgDetailLevel +
		a.AvgVeracity + a.AvgTechnicalDifficulty) / 5
}

// AggregateSourceRatings computes count and per-dimension averages for every
// source that has at least one rating. Missing averages read as zero.
func AggregateSourceRatings(ctx context.Context, db *gorm.DB) ([]SourceRatingAggregate, error) {
	var out []SourceRatingAggregate
	err := db.WithContext(ctx).
		Model(&domain.Rating{}).
		Select(`source_id,
			COUNT(*) AS total_ratings,
			COALESCE(AVG(readability), 0) AS avg_readability,
			COALESCE(AVG(completeness), 0) AS avg_completeness,
			COALESCE(AVG(detail_level), 0) AS avg_detail_level,
			COALESCE(AVG(veracity), 0) AS avg_veracity,
			COALESCE(AVG(technical_difficulty), 0) AS avg_technical_difficulty`).
		Group("source_id").
		Order("source_id").
		Scan(&out).Error
	return out, err
}

// RecomputeSourceRatings writes the rating aggregates back onto sources.
// Sources without ratings are reset to zero so every source reflects its
// ratings. It returns the number of rated sources updated.
func RecomputeSourceRatings(ctx context.Context, db *gorm.DB) (int, error) {
	aggs, err := AggregateSourceRatings(ctx, db)
	if err != nil {
		return 0, err
	}

	unrated := db.Model(&domain.Rating{}).Select("source_id")
	if err := db.WithContext(ctx).
		Model(&domain.Source{}).
		Where("id NOT IN (?)", unrated).
		Updates(map[string]any{
			"total_ratings":            0,
			"avg_readability":          0,
			"avg_completeness":         0,
			"avg_detail_level":         0,
			"avg_veracity":             0,
			"avg_technical_difficulty": 0,
			"overall_rating":           0,
		}).Error; err != nil {
		return 0, err
	}

	for _, a := range aggs {
		if err := db.WithContext(ctx).
			Model(&domain.Source{}).
			Where("id = ?", a.SourceID).
			Updates(map[string]any{
				"total_ratings":            a.TotalRatings,
				"avg_readability":          a.AvgReadability,
				"avg_completeness":         a.AvgCompleteness,
				"avg_detail_level":         a.AvgDetailLevel,
				"avg_veracity":             a.AvgVeracity,
				"avg_technical_difficulty": a.AvgTechnicalDifficulty,
				"overall_rating":           a.Overall(),
			}).Error; err != nil {
			return 0, err
		}
	}
	return len(aggs), nil
}

// ReadingCounts is the status breakdown of one user's shelf.
type ReadingCounts struct {
	TotalRead   int64
	TotalToRead int64
}

// CountReadings returns how many of the user's readings are read / to_read.
func CountReadings(ctx context.Context, db *gorm.DB, userID int64) (ReadingCounts, error) {
	var c ReadingCounts
	err := db.WithContext(ctx).
		Model(&domain.UserReading{}).
		Select(`COALESCE(SUM(CASE WHEN status = 'read' THEN 1 ELSE 0 END), 0) AS total_read,
			COALESCE(SUM(CASE WHEN status = 'to_read' THEN 1 ELSE 0 END), 0) AS total_to_read`).
		Where("user_id = ?", userID).
		Scan(&c).Error
	return c, err
}

// ReadCategoryDistribution joins the user's read rows to their sources and
// counts them per category. Every id in categories is present in the result,
// with 0 when the user read nothing there.
func ReadCategoryDistribution(ctx context.Context, db *gorm.DB, userID int64, categories []CategoryID) (map[string]int64, error) {
	var rows []struct {
		CategoryID int64
		N          int64
	}
	err := db.WithContext(ctx).
		Table("user_readings AS ur").
		Select("s.category_id AS category_id, COUNT(*) AS n").
		Joins("JOIN sources s ON ur.source_id = s.id").
		Where("ur.user_id = ? AND ur.status = ?", userID, domain.ReadingRead).
		Group("s.category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	dist := make(map[string]int64, len(categories))
	for _, c := range categories {
		dist[strconv.FormatInt(int64(c), 10)] = 0
	}
	for _, r := range rows {
		dist[strconv.FormatInt(r.CategoryID, 10)] = r.N
	}
	return dist, nil
}

// RecomputeReadingStats upserts reading_stats for each user from the live
// user_readings rows.
func RecomputeReadingStats(ctx context.Context, db *gorm.DB, userIDs []int64, categories []CategoryID) (int, error) {
	n := 0
	for _, uid := range userIDs {
		counts, err := CountReadings(ctx, db, uid)
		if err != nil {
			return n, err
		}
		dist, err := ReadCategoryDistribution(ctx, db, uid, categories)
		if err != nil {
			return n, err
		}
		raw, err := json.Marshal(dist)
		if err != nil {
			return n, err
		}

		stats := &domain.ReadingStats{
			UserID:               uid,
			TotalRead:            int(counts.TotalRead),
			TotalToRead:          int(counts.TotalToRead),
			CategoryDistribution: datatypes.JSON(raw),
			UpdatedAt:            time.Now().UTC(),
		}
		if err := db.WithContext(ctx).
			Omit(clause.Associations).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}},
				UpdateAll: true,
			}).
			Create(stats).Error; err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// DecodeDistribution parses a stored category distribution.
func DecodeDistribution(raw datatypes.JSON) (map[string]int64, error) {
	out := map[string]int64{}
	if len(raw) == 0 {
		return out, nil
	}
	err := json.Unmarshal(raw, &out)
	return out, err
}

// SetListTotalSources stores the number of sources attached to a list.
func SetListTotalSources(ctx context.Context, db *gorm.DB, listID int64, total int) error {
	return db.WithContext(ctx).
		Model(&domain.CuratorialList{}).
		Where("id = ?", listID).
		Update("total_sources", total).Error
}

// SetChatLastMessage stores the chat's last-message timestamp.
func SetChatLastMessage(ctx context.Context, db *gorm.DB, chatID int64, at time.Time) error {
	return db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("id = ?", chatID).
		Update("last_message_at", at).Error
}
