package seed

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tbourn/articora-seed/internal/domain"
	"github.com/tbourn/articora-seed/internal/repo"
)

// PhaseChats is the chats phase label.
const PhaseChats = "chats"

const (
	minMessagesPerChat = 3
	maxMessagesPerChat = 10
	messageWindowMins  = 30 * 24 * 60
	chatTypePrivate    = "private"

	// participants join at most this many days before the first message
	maxJoinDaysBeforeFirst = 30
)

var chatMessages = []string{
	"Hola, ¿como estas?",
	"He estado revisando tu ultima publicacion, muy interesante.",
	"¿Podriamos programar una reunion para discutir el proyecto?",
	"Te envio el borrador del articulo para que lo revises.",
	"¿Que opinas sobre el ultimo estudio que publicaron?",
	"Gracias por la retroalimentacion, fue muy util.",
	"Nos vemos en la conferencia la proxima semana.",
}

// ChatResult counts what the chats phase wrote.
type ChatResult struct {
	Chats    int
	Messages int
}

// ChatGenerator opens private chats between confirmed contacts.
type ChatGenerator struct {
	Env
	Limit int
}

// Generate opens one chat for each of the first Limit confirmed contacts and
// appends 3..10 messages to it in sent_at order, so the last message appended
// is also the latest. last_message_at is set from it. Each participant gets
// its own join time before the first message; the chat opens at the earliest.
func (g ChatGenerator) Generate(ctx context.Context, db *gorm.DB) (ChatResult, error) {
	var out ChatResult

	var contacts []domain.ConfirmedContact
	if err := db.WithContext(ctx).Order("id").Limit(g.Limit).Find(&contacts).Error; err != nil {
		return out, err
	}
	if len(contacts) == 0 {
		return out, ErrNoContacts
	}
	r := g.rng()

	for _, cc := range contacts {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		sent := g.messageTimes()
		members := []int64{cc.UserID1, cc.UserID2}
		joined := make([]time.Time, len(members))
		for i := range members {
			joined[i] = g.between(sent[0].AddDate(0, 0, -maxJoinDaysBeforeFirst), sent[0])
		}
		chat := &domain.Chat{ChatType: chatTypePrivate, CreatedAt: slices.MinFunc(joined, time.Time.Compare)}
		if !g.record(ctx, PhaseChats, "chats", repo.TryInsert(ctx, db, chat),
			"user_id_1", cc.UserID1, "user_id_2", cc.UserID2).OK() {
			continue
		}
		out.Chats++

		for i, uid := range members {
			p := &domain.ChatParticipant{ChatID: chat.ID, UserID: uid, JoinedAt: joined[i]}
			g.record(ctx, PhaseChats, "chat_participants", repo.TryInsert(ctx, db, p),
				"chat_id", chat.ID, "user_id", uid)
		}

		var last *time.Time
		for _, at := range sent {
			text := pick(r, chatMessages)
			m := &domain.Message{
				ChatID:           chat.ID,
				UserID:           pick(r, members),
				EncryptedContent: "encrypted_" + text,
				IV:               uuid.NewString(),
				SentAt:           at,
			}
			if !g.record(ctx, PhaseChats, "messages", repo.TryInsert(ctx, db, m), "chat_id", chat.ID).OK() {
				continue
			}
			out.Messages++
			last = &m.SentAt
		}
		if last != nil {
			if err := repo.SetChatLastMessage(ctx, db, chat.ID, *last); err != nil {
				return out, err
			}
		}
	}

	zerolog.Ctx(ctx).Info().
		Int("chats", out.Chats).
		Int("messages", out.Messages).
		Msg("chats generated")
	return out, nil
}

// messageTimes draws 3..10 send times within the last 30 days, oldest first.
func (g ChatGenerator) messageTimes() []time.Time {
	n := g.intBetween(minMessagesPerChat, maxMessagesPerChat)
	out := make([]time.Time, n)
	for i := range out {
		out[i] = g.now().Add(-time.Duration(g.intBetween(0, messageWindowMins)) * time.Minute)
	}
	slices.SortFunc(out, func(a, b time.Time) int { return a.Compare(b) })
	return out
}
