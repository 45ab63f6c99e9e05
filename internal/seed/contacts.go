package seed

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tbourn/articora-seed/internal/domain"
	"github.com/tbourn/articora-seed/internal/repo"
)

// PhaseContacts is the contacts phase label.
const PhaseContacts = "contacts"

var (
	contactStatuses = []string{domain.ContactPending, domain.ContactAccepted, domain.ContactRejected}

	contactMessages = []string{
		"Hola, me interesa tu trabajo en investigacion.",
		"Nos vimos en la conferencia, ¿podemos conectar?",
		"Me gustaria colaborar en un proyecto relacionado.",
		"¿Podrias revisar mi articulo sobre el tema?",
		"Busco asesoria en esta area de estudio.",
	}
)

// ContactResult counts what the contacts phase wrote.
type ContactResult struct {
	Requests  int
	Confirmed int
}

// ContactGenerator draws contact requests between distinct users.
type ContactGenerator struct {
	Env
	Count int
}

// Generate draws Count sender/receiver pairs. Requests are idempotent on the
// ordered pair; accepted ones also store a confirmed contact keyed by the
// sorted pair, so one relationship is stored once whatever its direction.
func (g ContactGenerator) Generate(ctx context.Context, db *gorm.DB, users UserPool) (ContactResult, error) {
	var out ContactResult
	if users.Len() < 2 {
		return out, ErrTooFewUsers
	}
	r := g.rng()

	for i := 0; i < g.Count; i++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		pair := sample(r, users.All(), 2)
		sender, receiver := pair[0], pair[1]

		req := &domain.ContactRequest{
			SenderID:       sender.ID,
			ReceiverID:     receiver.ID,
			InitialMessage: pick(r, contactMessages),
			Status:         pick(r, contactStatuses),
			SentAt:         g.daysAgo(0, 30),
		}
		if req.Status != domain.ContactPending {
			at := g.between(req.SentAt, g.now())
			req.RespondedAt = &at
		}

		res := g.record(ctx, PhaseContacts, "contact_requests", repo.InsertIgnore(ctx, db, req),
			"sender_id", sender.ID, "receiver_id", receiver.ID)
		if !res.OK() {
			continue
		}
		out.Requests++

		if req.Status != domain.ContactAccepted {
			continue
		}
		lo, hi := sortedPair(sender.ID, receiver.ID)
		cc := &domain.ConfirmedContact{UserID1: lo, UserID2: hi}
		if g.record(ctx, PhaseContacts, "confirmed_contacts", repo.InsertIgnore(ctx, db, cc),
			"user_id_1", lo, "user_id_2", hi).OK() {
			out.Confirmed++
		}
	}

	zerolog.Ctx(ctx).Info().
		Int("requests", out.Requests).
		Int("confirmed", out.Confirmed).
		Msg("contacts generated")
	return out, nil
}

func sortedPair(a, b int64) (int64, int64) {
	if a < b {
		return a, b
	}
	return b, a
}
