package seed

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/articora-seed/internal/repo"
)

var fixedNow = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

// testEnv returns a deterministic Env with its own metrics registry.
func testEnv(seed uint64) Env {
	env := NewSeededEnv(seed, NewMetrics())
	env.Now = func() time.Time { return fixedNow }
	return env
}

// newTestDB opens a migrated in-memory store holding the reference data.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repo.Open(repo.Options{Path: "file:" + uuid.NewString() + "?mode=memory&cache=shared"})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close(db) })
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	if _, err := repo.SeedReferenceData(context.Background(), db); err != nil {
		t.Fatalf("reference data: %v", err)
	}
	return db
}

// newBareDB opens a migrated store without reference data.
func newBareDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repo.Open(repo.Options{Path: "file:" + uuid.NewString() + "?mode=memory&cache=shared"})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close(db) })
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func mustLookups(t *testing.T, db *gorm.DB) *repo.Lookups {
	t.Helper()
	l, err := repo.LoadLookups(context.Background(), db)
	if err != nil {
		t.Fatalf("lookups: %v", err)
	}
	return l
}

// populate runs the users and sources generators and returns their pools.
func populate(t *testing.T, db *gorm.DB, env Env, users, sources int) (UserPool, SourcePool) {
	t.Helper()
	ctx := context.Background()
	up, err := UserGenerator{Env: env, Count: users}.Generate(ctx, db)
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	sp, err := SourceGenerator{Env: env, Count: sources, Lookups: mustLookups(t, db)}.Generate(ctx, db, up)
	if err != nil {
		t.Fatalf("sources: %v", err)
	}
	return up, sp
}

func count(t *testing.T, db *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	if err := db.Table(table).Count(&n).Error; err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
