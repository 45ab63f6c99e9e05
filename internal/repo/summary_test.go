package repo

import (
	"context"
	"math"
	"testing"

	"github.com/tbourn/articora-seed/internal/domain"
)

func TestCountTables_MissingTableReportedInline(t *testing.T) {
	db := newTestDB(t, false)
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("migrate users: %v", err)
	}
	mustUser(t, db, "only01", false)

	counts := CountTables(context.Background(), db)
	if len(counts) != len(SummaryTables) {
		t.Fatalf("got %d entries; want %d", len(counts), len(SummaryTables))
	}
	for _, c := range counts {
		switch c.Table {
		case "users":
			if c.Err != nil || c.Rows != 1 {
				t.Fatalf("users: %+v", c)
			}
		case "sources":
			if c.Err == nil {
				t.Fatalf("sources table does not exist; expected an error")
			}
		}
	}
}

func TestValidatedCounts(t *testing.T) {
	db := newTestDB(t, true)
	mustUser(t, db, "valid1", true)
	mustUser(t, db, "valid2", true)
	mustUser(t, db, "plain1", false)

	v, u, err := ValidatedCounts(context.Background(), db)
	if err != nil || v != 2 || u != 1 {
		t.Fatalf("ValidatedCounts = (%d, %d, %v); want (2, 1, nil)", v, u, err)
	}
}

func TestSourcesPerCategory_OrderedAndZeroFilled(t *testing.T) {
	db := newSeededDB(t)
	u := mustUser(t, db, "upload1", false)
	hum := mustCategory(t, db, "Humanities")
	exact := mustCategory(t, db, "Exact Sciences")
	mustSource(t, db, "H1", hum.ID, u.ID)
	mustSource(t, db, "H2", hum.ID, u.ID)
	mustSource(t, db, "E1", exact.ID, u.ID)

	got, err := SourcesPerCategory(context.Background(), db)
	if err != nil {
		t.Fatalf("SourcesPerCategory: %v", err)
	}
	if len(got) != len(CategoryNames) {
		t.Fatalf("got %d categories; want %d", len(got), len(CategoryNames))
	}
	if got[0].Name != "Humanities" || got[0].Count != 2 || got[1].Name != "Exact Sciences" || got[1].Count != 1 {
		t.Fatalf("unexpected head: %+v", got[:2])
	}
	for _, c := range got[2:] {
		if c.Count != 0 {
			t.Fatalf("expected zero count for %q, got %d", c.Name, c.Count)
		}
	}
}

func TestMeanOverallRating(t *testing.T) {
	db := newSeededDB(t)
	ctx := context.Background()

	if _, ok, err := MeanOverallRating(ctx, db); err != nil || ok {
		t.Fatalf("empty store: ok=%v err=%v", ok, err)
	}

	u := mustUser(t, db, "upload2", false)
	cat := mustCategory(t, db, "Humanities")
	a := mustSource(t, db, "A", cat.ID, u.ID)
	b := mustSource(t, db, "B", cat.ID, u.ID)
	mustSource(t, db, "C", cat.ID, u.ID) // unrated, excluded
	db.Model(&domain.Source{}).Where("id = ?", a.ID).Update("overall_rating", 3.0)
	db.Model(&domain.Source{}).Where("id = ?", b.ID).Update("overall_rating", 4.0)

	mean, ok, err := MeanOverallRating(ctx, db)
	if err != nil || !ok || math.Abs(mean-3.5) > 1e-9 {
		t.Fatalf("MeanOverallRating = (%v, %v, %v); want (3.5, true, nil)", mean, ok, err)
	}
}
