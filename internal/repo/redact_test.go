package repo

import (
	"strings"
	"testing"
)

func TestRedactDSN(t *testing.T) {
	cases := []struct {
		name, in string
		secret   string
		keep     []string
	}{
		{"url", "postgres://seed:hunter2@db:5432/articora?sslmode=disable", "hunter2",
			[]string{"seed:", "@db:5432/articora", "sslmode=disable", redacted}},
		{"url query password", "postgres://db/articora?user=seed&password=hunter2", "hunter2",
			[]string{"user=seed", "password=" + redacted}},
		{"key value", "host=db user=seed password=hunter2 dbname=articora", "hunter2",
			[]string{"host=db", "dbname=articora", "password=" + redacted}},
		{"quoted", "host=db password='hunter 2' dbname=articora", "hunter",
			[]string{"dbname=articora", "password=" + redacted}},
		{"no password", "postgres://seed@db/articora", "",
			[]string{"postgres://seed@db/articora"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RedactDSN(tc.in)
			if tc.secret != "" && strings.Contains(got, tc.secret) {
				t.Fatalf("RedactDSN leaked secret: %q", got)
			}
			for _, k := range tc.keep {
				if !strings.Contains(got, k) {
					t.Fatalf("RedactDSN(%q) = %q; missing %q", tc.in, got, k)
				}
			}
		})
	}
	if RedactDSN("") != "" {
		t.Fatalf("empty DSN must stay empty")
	}
}

func TestOptionsTarget(t *testing.T) {
	if got := (Options{Path: "seed.db"}).Target(); got != "seed.db" {
		t.Fatalf("sqlite target = %q", got)
	}
	pg := Options{Driver: "Postgres", DSN: "host=db password=s3cret", Path: "ignored.db"}
	if got := pg.Target(); strings.Contains(got, "s3cret") || !strings.Contains(got, "host=db") {
		t.Fatalf("postgres target = %q", got)
	}
}
