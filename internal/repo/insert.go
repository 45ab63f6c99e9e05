// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the insert primitives used by every
// generator.
//
// Both primitives report a three-way InsertResult instead of a bare error, so
// callers branch on the outcome explicitly:
//
//   - Inserted: the row was written; ID carries the store-assigned key.
//   - Conflict: a natural/unique key already exists. Not an error.
//   - Failed:   any other store error (FK violation, CHECK, I/O, ...).
//
// Each insert runs in its own nested transaction. Inside a phase transaction
// GORM turns that into a SAVEPOINT, so a failed row is undone on its own and
// the enclosing transaction stays usable on drivers (PostgreSQL) that would
// otherwise abort it.
//
// Usage:
//
//	res := repo.TryInsert(ctx, tx, &domain.User{...})
//	switch res.Outcome {
//	case repo.Inserted:
//	    // use res.ID
//	case repo.Conflict:
//	    // regenerate key and retry, or skip
//	default:
//	    // log res.Err and continue
//	}
package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Outcome classifies a single insert attempt.
type Outcome int

const (
	Inserted Outcome = iota
	Conflict
	Failed
)

// String implements fmt.Stringer; the values double as metric labels.
func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Conflict:
		return "conflict"
	default:
		return "failed"
	}
}

// InsertResult is the outcome of TryInsert/InsertIgnore.
type InsertResult struct {
	Outcome      Outcome
	ID           int64 // last-inserted identifier (0 for composite keys or when not inserted)
	RowsAffected int64
	Err          error // set only for Failed
}

// OK reports whether the row was written.
func (r InsertResult) OK() bool { return r.Outcome == Inserted }

// identified is implemented by models with a surrogate key.
type identified interface {
	RowID() int64
}

// TryInsert inserts row and maps a unique-key violation to Conflict.
func TryInsert(ctx context.Context, db *gorm.DB, row any) InsertResult {
	return insert(ctx, db, row, false)
}

// InsertIgnore inserts row with ON CONFLICT DO NOTHING semantics. A row that
// hits an existing natural key affects zero rows and yields Conflict.
func InsertIgnore(ctx context.Context, db *gorm.DB, row any) InsertResult {
	return insert(ctx, db, row, true)
}

func insert(ctx context.Context, db *gorm.DB, row any, ignore bool) InsertResult {
	var affected int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Omit(clause.Associations)
		if ignore {
			q = q.Clauses(clause.OnConflict{DoNothing: true})
		}
		res := q.Create(row)
		affected = res.RowsAffected
		return res.Error
	})

	switch {
	case err == nil && affected == 0:
		return InsertResult{Outcome: Conflict}
	case err == nil:
		out := InsertResult{Outcome: Inserted, RowsAffected: affected}
		if r, ok := row.(identified); ok {
			out.ID = r.RowID()
		}
		return out
	case IsDuplicate(err):
		return InsertResult{Outcome: Conflict}
	default:
		return InsertResult{Outcome: Failed, Err: err}
	}
}

// IsDuplicate attempts to detect unique-constraint violations across drivers
// that may not map to gorm.ErrDuplicatedKey.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// SQLite typically: "UNIQUE constraint failed" / "constraint failed: UNIQUE"
	// Postgres typically: "duplicate key value violates unique constraint"
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate key")
}
