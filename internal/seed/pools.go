package seed

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/articora-seed/internal/domain"
	"github.com/tbourn/articora-seed/internal/repo"
)

// UserRef is the subset of a generated user that later phases need.
type UserRef struct {
	ID            int64
	Username      string
	AcademicLevel string
	Validated     bool
}

// UserPool is the read-only set of users produced by the users phase.
type UserPool struct {
	users []UserRef
}

// NewUserPool copies users into a pool.
func NewUserPool(users []UserRef) UserPool {
	return UserPool{users: append([]UserRef(nil), users...)}
}

// Len returns the number of users.
func (p UserPool) Len() int { return len(p.users) }

// At returns the i-th user.
func (p UserPool) At(i int) UserRef { return p.users[i] }

// All returns a copy of every user.
func (p UserPool) All() []UserRef { return append([]UserRef(nil), p.users...) }

// IDs returns every user id in pool order.
func (p UserPool) IDs() []int64 {
	out := make([]int64, len(p.users))
	for i, u := range p.users {
		out[i] = u.ID
	}
	return out
}

// Validated returns the validated users.
func (p UserPool) Validated() []UserRef {
	var out []UserRef
	for _, u := range p.users {
		if u.Validated {
			out = append(out, u)
		}
	}
	return out
}

// Except returns every user whose id differs from id.
func (p UserPool) Except(id int64) []UserRef {
	out := make([]UserRef, 0, len(p.users))
	for _, u := range p.users {
		if u.ID != id {
			out = append(out, u)
		}
	}
	return out
}

// SourceRef is the subset of a generated source that later phases need.
type SourceRef struct {
	ID         int64
	Title      string
	CategoryID repo.CategoryID
	UploadedBy int64
}

// SourcePool is the read-only set of sources produced by the sources phase.
type SourcePool struct {
	sources []SourceRef
}

// NewSourcePool copies sources into a pool.
func NewSourcePool(sources []SourceRef) SourcePool {
	return SourcePool{sources: append([]SourceRef(nil), sources...)}
}

// Len returns the number of sources.
func (p SourcePool) Len() int { return len(p.sources) }

// At returns the i-th source.
func (p SourcePool) At(i int) SourceRef { return p.sources[i] }

// All returns a copy of every source.
func (p SourcePool) All() []SourceRef { return append([]SourceRef(nil), p.sources...) }

// LoadUserPool reads every stored user into a pool. It lets later phases run
// against a store seeded by an earlier process.
func LoadUserPool(ctx context.Context, db *gorm.DB) (UserPool, error) {
	var rows []domain.User
	if err := db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return UserPool{}, err
	}
	users := make([]UserRef, 0, len(rows))
	for _, u := range rows {
		users = append(users, UserRef{
			ID:            u.ID,
			Username:      u.Username,
			AcademicLevel: u.AcademicLevel,
			Validated:     u.IsValidated,
		})
	}
	return UserPool{users: users}, nil
}

// LoadSourcePool reads every stored source into a pool.
func LoadSourcePool(ctx context.Context, db *gorm.DB) (SourcePool, error) {
	var rows []domain.Source
	if err := db.WithContext(ctx).
		Select("id", "title", "category_id", "uploaded_by").
		Order("id").
		Find(&rows).Error; err != nil {
		return SourcePool{}, err
	}
	sources := make([]SourceRef, 0, len(rows))
	for _, s := range rows {
		sources = append(sources, SourceRef{
			ID:         s.ID,
			Title:      s.Title,
			CategoryID: repo.CategoryID(s.CategoryID),
			UploadedBy: s.UploadedBy,
		})
	}
	return SourcePool{sources: sources}, nil
}
