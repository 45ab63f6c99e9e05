package repo

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/articora-seed/internal/domain"
)

// newTestDB opens a private in-memory store. With migrate set every platform
// table is created.
func newTestDB(t *testing.T, migrate bool) *gorm.DB {
	t.Helper()
	db, err := Open(Options{Path: "file:" + uuid.NewString() + "?mode=memory&cache=shared"})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = Close(db) })
	if migrate {
		if err := AutoMigrate(db); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

// newSeededDB is newTestDB plus the canonical reference data.
func newSeededDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := newTestDB(t, true)
	if _, err := SeedReferenceData(context.Background(), db); err != nil {
		t.Fatalf("reference data: %v", err)
	}
	return db
}

func mustUser(t *testing.T, db *gorm.DB, name string, validated bool) *domain.User {
	t.Helper()
	u := &domain.User{Username: name, Email: name + "@example.org", Password: "x", IsValidated: validated}
	if res := TryInsert(context.Background(), db, u); !res.OK() {
		t.Fatalf("insert user %q: %+v", name, res)
	}
	return u
}

func mustCategory(t *testing.T, db *gorm.DB, name string) domain.Category {
	t.Helper()
	var c domain.Category
	if err := db.Where("name = ?", name).First(&c).Error; err != nil {
		t.Fatalf("category %q: %v", name, err)
	}
	return c
}

func mustSource(t *testing.T, db *gorm.DB, title string, categoryID, uploader int64) *domain.Source {
	t.Helper()
	s := &domain.Source{Title: title, Authors: "Doe, J.", CategoryID: categoryID, UploadedBy: uploader, IsActive: true}
	if res := TryInsert(context.Background(), db, s); !res.OK() {
		t.Fatalf("insert source %q: %+v", title, res)
	}
	return s
}
