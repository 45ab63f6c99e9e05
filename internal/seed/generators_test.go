package seed

import (
	"context"
	"errors"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/tbourn/articora-seed/internal/domain"
	"github.com/tbourn/articora-seed/internal/repo"
)

func TestUserGenerator_CreatesValidUsers(t *testing.T) {
	db := newTestDB(t)
	pool, err := UserGenerator{Env: testEnv(1), Count: 12}.Generate(context.Background(), db)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if pool.Len() == 0 || pool.Len() > 12 {
		t.Fatalf("pool size %d", pool.Len())
	}
	if got := count(t, db, "users"); got != int64(pool.Len()) {
		t.Fatalf("users table %d rows; pool %d", got, pool.Len())
	}

	var users []domain.User
	db.Find(&users)
	for _, u := range users {
		if n := utf8.RuneCountInString(u.Username); n < minUsernameLen || n > maxUsernameLen {
			t.Fatalf("username %q has %d runes", u.Username, n)
		}
		if u.Password != placeholderPassword || !u.AccountActive || u.LastLogin == nil {
			t.Fatalf("incomplete user %+v", u)
		}
		if u.LoginAttempts < 0 || u.LoginAttempts > 2 {
			t.Fatalf("login_attempts %d", u.LoginAttempts)
		}
	}

	// validations only for validated users
	var orphan int64
	db.Table("user_validations AS v").Joins("JOIN users u ON u.id = v.user_id").Where("u.is_validated = ?", false).Count(&orphan)
	if orphan != 0 {
		t.Fatalf("%d validations attached to unvalidated users", orphan)
	}
}

func TestUserGenerator_CollisionRetriesWithNewSuffix(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// Same seed twice: the second run draws the same names and collides.
	first, err := UserGenerator{Env: testEnv(5), Count: 6}.Generate(ctx, db)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := UserGenerator{Env: testEnv(5), Count: 6}.Generate(ctx, db)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if second.Len() != first.Len() {
		t.Fatalf("retry should recover every collision: first=%d second=%d", first.Len(), second.Len())
	}
	taken := map[string]bool{}
	for _, u := range first.All() {
		taken[u.Username] = true
	}
	for _, u := range second.All() {
		if taken[u.Username] {
			t.Fatalf("username %q reused", u.Username)
		}
	}
	if got := count(t, db, "users"); got != int64(first.Len()+second.Len()) {
		t.Fatalf("users table %d rows; want %d", got, first.Len()+second.Len())
	}
}

func TestSourceGenerator_UsesLookupsAndUploaders(t *testing.T) {
	db := newTestDB(t)
	env := testEnv(3)
	users, sources := populate(t, db, env, 5, 20)

	if sources.Len() != 20 {
		t.Fatalf("sources = %d; want 20", sources.Len())
	}
	uploaders := map[int64]bool{}
	for _, id := range users.IDs() {
		uploaders[id] = true
	}
	l := mustLookups(t, db)
	for _, s := range sources.All() {
		if !uploaders[s.UploadedBy] {
			t.Fatalf("source %d uploaded by unknown user %d", s.ID, s.UploadedBy)
		}
		if _, ok := l.CategoryByID(s.CategoryID); !ok {
			t.Fatalf("source %d has unknown category %d", s.ID, s.CategoryID)
		}
	}

	var rows []domain.Source
	db.Find(&rows)
	for _, s := range rows {
		if s.SubcategoryID != nil {
			var sub domain.Subcategory
			db.First(&sub, *s.SubcategoryID)
			if sub.CategoryID != s.CategoryID {
				t.Fatalf("source %d subcategory belongs to category %d, not %d", s.ID, sub.CategoryID, s.CategoryID)
			}
		}
		if s.TotalRatings != 0 || s.OverallRating != 0 {
			t.Fatalf("aggregates must start at zero: %+v", s)
		}
		if len(s.Keywords) == 0 {
			t.Fatalf("keywords missing on source %d", s.ID)
		}
	}
}

func TestSourceGenerator_NoCategories(t *testing.T) {
	db := newBareDB(t)
	_, err := SourceGenerator{Env: testEnv(1), Count: 3, Lookups: mustLookups(t, db)}.Generate(context.Background(), db, UserPool{})
	if !errors.Is(err, ErrNoCategories) {
		t.Fatalf("err = %v; want ErrNoCategories", err)
	}
}

func TestSourceGenerator_FallbackUploaderWithoutUsers(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	// user 1 exists but is not in the (empty) pool
	if res := repo.TryInsert(ctx, db, &domain.User{Username: "admin", Email: "admin@x.org", Password: "x"}); !res.OK() || res.ID != fallbackUploaderID {
		t.Fatalf("seed user 1: %+v", res)
	}
	pool, err := SourceGenerator{Env: testEnv(1), Count: 3, Lookups: mustLookups(t, db)}.Generate(ctx, db, UserPool{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, s := range pool.All() {
		if s.UploadedBy != fallbackUploaderID {
			t.Fatalf("uploaded_by = %d; want %d", s.UploadedBy, fallbackUploaderID)
		}
	}
}

func TestRatingGenerator_ScoresAndUniqueness(t *testing.T) {
	db := newTestDB(t)
	env := testEnv(7)
	users, sources := populate(t, db, env, 12, 15)

	n, err := RatingGenerator{Env: env}.Generate(context.Background(), db, users, sources)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := count(t, db, "ratings"); got != int64(n) {
		t.Fatalf("ratings table %d; returned %d", got, n)
	}

	var ratings []domain.Rating
	db.Find(&ratings)
	for _, r := range ratings {
		check := func(name string, v, lo, hi float64) {
			if v < lo || v > hi || halfStep(v) != v {
				t.Fatalf("rating %d %s = %v outside [%v,%v] or not a half step", r.ID, name, v, lo, hi)
			}
		}
		check("readability", r.Readability, 2, 5)
		check("completeness", r.Completeness, 2, 5)
		check("detail_level", r.DetailLevel, 2, 5)
		check("veracity", r.Veracity, 3, 5)
		check("technical_difficulty", r.TechnicalDifficulty, 1, 5)
	}

	var hist []domain.RatingHistory
	db.Find(&hist)
	for _, h := range hist {
		if h.Readability < 1 || h.TechnicalDifficulty < 1 {
			t.Fatalf("history below floor: %+v", h)
		}
	}
}

func TestRatingGenerator_Prerequisites(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	g := RatingGenerator{Env: testEnv(1)}
	if _, err := g.Generate(ctx, db, UserPool{}, NewSourcePool([]SourceRef{{ID: 1}})); !errors.Is(err, ErrNoUsers) {
		t.Fatalf("err = %v; want ErrNoUsers", err)
	}
	if _, err := g.Generate(ctx, db, NewUserPool([]UserRef{{ID: 1}}), SourcePool{}); !errors.Is(err, ErrNoSources) {
		t.Fatalf("err = %v; want ErrNoSources", err)
	}
}

func TestPreviousVersion_FloorsAtOne(t *testing.T) {
	h := previousVersion(&domain.Rating{ID: 3, Readability: 1, Completeness: 3, DetailLevel: 1.5, Veracity: 5, TechnicalDifficulty: 1})
	if h.RatingID != 3 || h.Readability != 1 || h.Completeness != 2.5 || h.DetailLevel != 1 || h.Veracity != 4.5 || h.TechnicalDifficulty != 1 {
		t.Fatalf("unexpected history %+v", h)
	}
}

func TestListGenerator_DenseOrderAndTotals(t *testing.T) {
	db := newTestDB(t)
	env := testEnv(11)
	users, sources := populate(t, db, env, 6, 25)

	n, err := ListGenerator{Env: env}.Generate(context.Background(), db, users, sources)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if n != len(listThemes) {
		t.Fatalf("lists = %d; want %d", n, len(listThemes))
	}

	var lists []domain.CuratorialList
	db.Find(&lists)
	for _, l := range lists {
		var items []domain.ListSource
		db.Where("list_id = ?", l.ID).Order("sort_order").Find(&items)
		if len(items) != l.TotalSources || len(items) < minListSources || len(items) > maxListSources {
			t.Fatalf("list %d: %d items, total_sources %d", l.ID, len(items), l.TotalSources)
		}
		for i, it := range items {
			if it.SortOrder != i {
				t.Fatalf("list %d sort order not dense: %d at %d", l.ID, it.SortOrder, i)
			}
		}
		var collabs []domain.ListCollaborator
		db.Where("list_id = ?", l.ID).Find(&collabs)
		if !l.IsCollaborative && len(collabs) > 0 {
			t.Fatalf("non-collaborative list %d has collaborators", l.ID)
		}
		for _, c := range collabs {
			if c.UserID == l.UserID {
				t.Fatalf("owner invited to own list %d", l.ID)
			}
		}
	}
}

func TestReadingGenerator_StatusFields(t *testing.T) {
	db := newTestDB(t)
	env := testEnv(13)
	users, sources := populate(t, db, env, 4, 8)

	if _, err := (ReadingGenerator{Env: env}).Generate(context.Background(), db, users, sources); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	var rows []domain.UserReading
	db.Find(&rows)
	perUser := map[int64]int{}
	for _, r := range rows {
		perUser[r.UserID]++
		switch r.Status {
		case domain.ReadingRead:
			if r.ReadDate == nil || r.Priority != 0 {
				t.Fatalf("read row %+v", r)
			}
		case domain.ReadingToRead:
			if r.ReadDate != nil || r.Priority < 1 || r.Priority > 10 {
				t.Fatalf("to_read row %+v", r)
			}
		}
	}
	for uid, n := range perUser {
		if n < 5 || n > 8 {
			t.Fatalf("user %d has %d readings; want 5..8", uid, n)
		}
	}
}

func TestContactGenerator_Invariants(t *testing.T) {
	db := newTestDB(t)
	env := testEnv(17)
	users, _ := populate(t, db, env, 6, 1)

	res, err := ContactGenerator{Env: env, Count: 30}.Generate(context.Background(), db, users)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := count(t, db, "contact_requests"); got != int64(res.Requests) {
		t.Fatalf("requests table %d; returned %d", got, res.Requests)
	}

	var reqs []domain.ContactRequest
	db.Find(&reqs)
	for _, r := range reqs {
		if r.SenderID == r.ReceiverID {
			t.Fatalf("self request %+v", r)
		}
		if (r.Status == domain.ContactPending) != (r.RespondedAt == nil) {
			t.Fatalf("responded_at inconsistent with status: %+v", r)
		}
		if r.RespondedAt != nil && r.RespondedAt.Before(r.SentAt) {
			t.Fatalf("responded before sent: %+v", r)
		}
	}

	var ccs []domain.ConfirmedContact
	db.Find(&ccs)
	for _, c := range ccs {
		if c.UserID1 >= c.UserID2 {
			t.Fatalf("pair not canonical: %+v", c)
		}
		var accepted int64
		db.Model(&domain.ContactRequest{}).
			Where("status = ? AND ((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?))",
				domain.ContactAccepted, c.UserID1, c.UserID2, c.UserID2, c.UserID1).
			Count(&accepted)
		if accepted == 0 {
			t.Fatalf("confirmed contact %+v without accepted request", c)
		}
	}
}

func TestContactGenerator_TooFewUsers(t *testing.T) {
	db := newTestDB(t)
	_, err := ContactGenerator{Env: testEnv(1), Count: 3}.Generate(context.Background(), db, NewUserPool([]UserRef{{ID: 1}}))
	if !errors.Is(err, ErrTooFewUsers) {
		t.Fatalf("err = %v; want ErrTooFewUsers", err)
	}
}

func TestChatGenerator_LastMessageIsLatest(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	env := testEnv(19)
	users, _ := populate(t, db, env, 5, 1)
	ids := users.IDs()
	for _, pair := range [][2]int64{{ids[0], ids[1]}, {ids[1], ids[2]}, {ids[2], ids[3]}} {
		lo, hi := sortedPair(pair[0], pair[1])
		if res := repo.InsertIgnore(ctx, db, &domain.ConfirmedContact{UserID1: lo, UserID2: hi}); !res.OK() {
			t.Fatalf("contact: %+v", res)
		}
	}

	res, err := ChatGenerator{Env: env, Limit: 2}.Generate(ctx, db)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Chats != 2 {
		t.Fatalf("chats = %d; want 2 (limit)", res.Chats)
	}

	var chats []domain.Chat
	db.Find(&chats)
	for _, c := range chats {
		var msgs []domain.Message
		db.Where("chat_id = ?", c.ID).Order("id").Find(&msgs)
		if len(msgs) < minMessagesPerChat || len(msgs) > maxMessagesPerChat {
			t.Fatalf("chat %d has %d messages", c.ID, len(msgs))
		}
		latest := msgs[0].SentAt
		for i, m := range msgs {
			if m.SentAt.After(latest) {
				latest = m.SentAt
			}
			if i > 0 && m.SentAt.Before(msgs[i-1].SentAt) {
				t.Fatalf("chat %d messages not in sent order", c.ID)
			}
			if m.IV == "" || len(m.EncryptedContent) <= len("encrypted_") {
				t.Fatalf("message %d missing ciphertext fields", m.ID)
			}
		}
		if c.LastMessageAt == nil || !c.LastMessageAt.Equal(latest) {
			t.Fatalf("chat %d last_message_at = %v; want %v", c.ID, c.LastMessageAt, latest)
		}
		if c.CreatedAt.After(msgs[0].SentAt) {
			t.Fatalf("chat %d created after its first message", c.ID)
		}
		var parts []domain.ChatParticipant
		db.Where("chat_id = ?", c.ID).Find(&parts)
		if len(parts) != 2 {
			t.Fatalf("chat %d has %d participants", c.ID, len(parts))
		}
		if parts[0].JoinedAt.Equal(parts[1].JoinedAt) {
			t.Fatalf("chat %d participants share joined_at %v", c.ID, parts[0].JoinedAt)
		}
		for _, p := range parts {
			if p.JoinedAt.After(msgs[0].SentAt) || p.JoinedAt.Before(c.CreatedAt) {
				t.Fatalf("chat %d user %d joined_at %v outside [%v, %v]",
					c.ID, p.UserID, p.JoinedAt, c.CreatedAt, msgs[0].SentAt)
			}
		}
	}
}

func TestChatGenerator_JoinTimesDrawnPerParticipant(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	env := testEnv(23)
	users, _ := populate(t, db, env, 8, 1)
	ids := users.IDs()
	for i := 0; i+1 < len(ids); i++ {
		lo, hi := sortedPair(ids[i], ids[i+1])
		if res := repo.InsertIgnore(ctx, db, &domain.ConfirmedContact{UserID1: lo, UserID2: hi}); !res.OK() {
			t.Fatalf("contact: %+v", res)
		}
	}

	res, err := ChatGenerator{Env: env, Limit: 10}.Generate(ctx, db)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Chats != len(ids)-1 {
		t.Fatalf("chats = %d; want %d", res.Chats, len(ids)-1)
	}

	var shared int64
	err = db.Raw(`SELECT COUNT(*) FROM (
		SELECT chat_id FROM chat_participants GROUP BY chat_id HAVING COUNT(DISTINCT joined_at) < 2
	) s`).Scan(&shared).Error
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if shared != 0 {
		t.Fatalf("%d chats have participants with identical joined_at", shared)
	}

	var chats []domain.Chat
	db.Find(&chats)
	for _, c := range chats {
		var first time.Time
		var parts []domain.ChatParticipant
		db.Where("chat_id = ?", c.ID).Find(&parts)
		for i, p := range parts {
			if i == 0 || p.JoinedAt.Before(first) {
				first = p.JoinedAt
			}
		}
		if !c.CreatedAt.Equal(first) {
			t.Fatalf("chat %d created_at %v; want earliest join %v", c.ID, c.CreatedAt, first)
		}
	}
}

func TestChatGenerator_NoContacts(t *testing.T) {
	db := newTestDB(t)
	if _, err := (ChatGenerator{Env: testEnv(1), Limit: 5}).Generate(context.Background(), db); !errors.Is(err, ErrNoContacts) {
		t.Fatalf("err = %v; want ErrNoContacts", err)
	}
}

func TestReportGenerator_TargetFallback(t *testing.T) {
	g := ReportGenerator{Env: testEnv(23)}
	solo := NewUserPool([]UserRef{{ID: 1}})
	src := NewSourcePool([]SourceRef{{ID: 9}})

	rep, ok := g.target(solo.At(0), domain.ReportUser, solo, src)
	if !ok || rep.ReportType != domain.ReportSource || rep.SourceID == nil || *rep.SourceID != 9 || rep.ReportedUserID != nil {
		t.Fatalf("expected fallback to source target, got %+v ok=%v", rep, ok)
	}
	pair := NewUserPool([]UserRef{{ID: 1}, {ID: 2}})
	rep, ok = g.target(pair.At(0), domain.ReportSource, pair, SourcePool{})
	if !ok || rep.ReportType != domain.ReportUser || rep.ReportedUserID == nil || *rep.ReportedUserID != 2 {
		t.Fatalf("expected fallback to user target, got %+v ok=%v", rep, ok)
	}
	if _, ok := g.target(solo.At(0), domain.ReportUser, solo, SourcePool{}); ok {
		t.Fatalf("no target exists; expected skip")
	}
}

func TestTermVectorGenerator_WeightsAndTerms(t *testing.T) {
	db := newTestDB(t)
	env := testEnv(29)
	_, sources := populate(t, db, env, 3, 6)

	n, err := TermVectorGenerator{Env: env, Lookups: mustLookups(t, db)}.Generate(context.Background(), db, sources)
	if err != nil || n == 0 {
		t.Fatalf("Generate = %d, %v", n, err)
	}
	var vs []domain.TermVector
	db.Find(&vs)
	for _, v := range vs {
		if v.TF < 0.1 || v.TF > 1 || v.IDF < 1 || v.IDF > 3 {
			t.Fatalf("tf/idf out of range: %+v", v)
		}
		if d := v.Weight - v.TF*v.IDF; d > 1e-9 || d < -1e-9 {
			t.Fatalf("weight %v != tf*idf %v", v.Weight, v.TF*v.IDF)
		}
	}
}

func TestTermsFor_UnknownCategoryGetsGenericOnly(t *testing.T) {
	g := TermVectorGenerator{Env: testEnv(31), Lookups: repo.NewLookups(nil, nil, nil)}
	terms := g.termsFor(999)
	if len(terms) != genericTermsPerSource {
		t.Fatalf("terms = %v", terms)
	}
}
