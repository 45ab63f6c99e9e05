package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tbourn/articora-seed/internal/domain"
	"github.com/tbourn/articora-seed/internal/repo"
)

// PhaseUsers is the users phase label.
const PhaseUsers = "users"

var (
	firstNames = []string{
		"Ana", "Carlos", "María", "José", "Laura", "Miguel", "Sofía", "David",
		"Elena", "Jorge", "Carmen", "Francisco", "Patricia", "Antonio", "Isabel",
		"Roberto", "Lucía", "Daniel", "Paula", "Javier",
	}
	lastNames = []string{
		"García", "Rodríguez", "González", "Fernández", "López", "Martínez",
		"Sánchez", "Pérez", "Gómez", "Martín", "Jiménez", "Ruiz", "Hernández",
		"Díaz", "Moreno", "Muñoz", "Álvarez", "Romero", "Alonso", "Navarro",
	}
	emailDomains    = []string{"gmail.com", "hotmail.com", "yahoo.com", "outlook.com", "unam.mx", "tec.mx"}
	academicLevels  = []string{domain.LevelBachelor, domain.LevelMasters, domain.LevelPhD}
	bioFields       = []string{"Ciencias", "Humanidades", "Ingenieria"}
	bioSpecialties  = []string{"IA", "Literatura", "Biologia", "Fisica"}
	validationTypes = []string{"license", "certificate"}
)

// placeholderPassword is a syntactically valid bcrypt hash that matches no password.
var placeholderPassword = "$2b$12$" + strings.Repeat("x", 53)

// retrySuffixOffset shifts the numeric suffix for the single username retry.
const retrySuffixOffset = 100

// UserGenerator creates users and, for some validated ones, an approved
// validation record.
type UserGenerator struct {
	Env
	Count int
}

// Generate inserts up to Count users. A username or email collision is
// retried once with a different suffix; a second collision skips the
// iteration, so the pool may hold fewer than Count users.
func (g UserGenerator) Generate(ctx context.Context, db *gorm.DB) (UserPool, error) {
	log := zerolog.Ctx(ctx)
	r := g.rng()

	users := make([]UserRef, 0, g.Count)
	validations := 0
	for i := 0; i < g.Count; i++ {
		if err := ctx.Err(); err != nil {
			return NewUserPool(users), err
		}
		first, last := pick(r, firstNames), pick(r, lastNames)
		u := g.newUser(i, buildUsername(first, last, i))

		res := g.insertUser(ctx, db, u)
		if res.Outcome == repo.Conflict {
			u.Username = buildUsername(first, last, i+retrySuffixOffset)
			u.Email = g.email(u.Username)
			res = g.insertUser(ctx, db, u)
		}
		if !res.OK() {
			if res.Outcome == repo.Conflict {
				log.Debug().Str("username", u.Username).Msg("username taken after retry, skipping")
			}
			continue
		}

		users = append(users, UserRef{
			ID:            u.ID,
			Username:      u.Username,
			AcademicLevel: u.AcademicLevel,
			Validated:     u.IsValidated,
		})

		if u.IsValidated && g.chance(0.5) {
			resolved := g.daysAgo(5, 5)
			v := &domain.UserValidation{
				UserID:         u.ID,
				ValidationType: pick(r, validationTypes),
				Status:         "approved",
				SubmittedAt:    g.daysAgo(10, 10),
				ResolvedAt:     &resolved,
			}
			if g.record(ctx, PhaseUsers, "user_validations", repo.TryInsert(ctx, db, v), "user_id", u.ID).OK() {
				validations++
			}
		}
	}

	log.Info().
		Int("requested", g.Count).
		Int("created", len(users)).
		Int("validations", validations).
		Msg("users generated")
	return NewUserPool(users), nil
}

func (g UserGenerator) newUser(i int, username string) *domain.User {
	r := g.rng()
	gender := "women"
	if i%2 == 0 {
		gender = "men"
	}
	lastLogin := g.daysAgo(0, 30)
	return &domain.User{
		Username:             username,
		Email:                g.email(username),
		Password:             placeholderPassword,
		ProfilePicture:       fmt.Sprintf("https://randomuser.me/api/portraits/%s/%d.jpg", gender, i%50),
		Bio:                  fmt.Sprintf("Investigador en %s. Especializado en %s.", pick(r, bioFields), pick(r, bioSpecialties)),
		AvailableForMessages: g.chance(0.5),
		AcademicLevel:        pick(r, academicLevels),
		IsValidated:          g.chance(0.5),
		IsVerified:           g.chance(0.5),
		LastLogin:            &lastLogin,
		LoginAttempts:        g.intBetween(0, 2),
		AccountActive:        true,
		CreatedAt:            g.now(),
	}
}

func (g UserGenerator) email(username string) string {
	return username + "@" + pick(g.rng(), emailDomains)
}

func (g UserGenerator) insertUser(ctx context.Context, db *gorm.DB, u *domain.User) repo.InsertResult {
	u.ID = 0
	return g.record(ctx, PhaseUsers, "users", repo.TryInsert(ctx, db, u), "username", u.Username)
}
