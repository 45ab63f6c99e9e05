// Package domain defines the persistence models of the academic
// content-sharing platform: users, bibliographic sources, ratings, curated
// lists, reading trackers, contacts/chats, moderation reports and the
// search-support indexes. These types are mapped with GORM and mirror the
// table and column names of the live schema.
package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Academic levels a user may declare.
const (
	LevelBachelor = "Bachelor"
	LevelMasters  = "Masters"
	LevelPhD      = "PhD"
)

// User is a registered platform member.
//
// Fields:
//   - Username: unique handle, 5 to 15 characters.
//   - Email: unique address derived from the username.
//   - IsValidated / IsVerified: academic validation and e-mail verification flags.
//   - AcademicLevel: one of Bachelor, Masters, PhD.
type User struct {
	ID                   int64      `json:"id"        gorm:"primaryKey;autoIncrement"`
	Username             string     `json:"username"  gorm:"type:varchar(15);not null;uniqueIndex:ux_users_username;check:chk_users_username_len,length(username) >= 5 AND length(username) <= 15"`
	Email                string     `json:"email"     gorm:"type:varchar(255);not null;uniqueIndex:ux_users_email"`
	Password             string     `json:"-"         gorm:"type:varchar(255);not null"`
	ProfilePicture       string     `json:"profile_picture"`
	Bio                  string     `json:"bio"`
	AvailableForMessages bool       `json:"available_for_messages"`
	AcademicLevel        string     `json:"academic_level" gorm:"type:varchar(16)"`
	IsValidated          bool       `json:"is_validated"   gorm:"index"`
	IsVerified           bool       `json:"is_verified"`
	LastLogin            *time.Time `json:"last_login"`
	LoginAttempts        int        `json:"login_attempts"`
	AccountActive        bool       `json:"account_active"`
	CreatedAt            time.Time  `json:"created_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// RowID returns the store-assigned identifier.
func (u *User) RowID() int64 { return u.ID }

// UserValidation records an academic credential review for a user.
type UserValidation struct {
	ID             int64     `gorm:"primaryKey;autoIncrement"`
	UserID         int64     `gorm:"not null;index"`
	ValidationType string    `gorm:"type:varchar(32);not null"`
	Status         string    `gorm:"type:varchar(16);not null;check:status IN ('pending','approved','rejected')"`
	SubmittedAt    time.Time `gorm:"not null"`
	ResolvedAt     *time.Time

	User *User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for UserValidation.
func (UserValidation) TableName() string { return "user_validations" }

// RowID returns the store-assigned identifier.
func (v *UserValidation) RowID() int64 { return v.ID }

// Source is a bibliographic record uploaded by a user.
//
// The Avg* fields, TotalRatings and OverallRating are derived aggregates over
// the ratings table; they are only authoritative after a rating recompute.
type Source struct {
	ID                     int64          `json:"id" gorm:"primaryKey;autoIncrement"`
	Title                  string         `json:"title" gorm:"type:varchar(500);not null"`
	Authors                string         `json:"authors" gorm:"type:varchar(500);not null"`
	PublicationYear        int            `json:"publication_year"`
	JournalPublisher       string         `json:"journal_publisher"`
	Volume                 string         `json:"volume"`
	IssueNumber            int            `json:"issue_number"`
	Pages                  string         `json:"pages"`
	Edition                *int           `json:"edition"`
	SourceTypeID           *int64         `json:"source_type_id" gorm:"index"`
	DOI                    string         `json:"doi" gorm:"column:doi;index"`
	Keywords               datatypes.JSON `json:"keywords"`
	PrimaryURL             string         `json:"primary_url" gorm:"column:primary_url"`
	CategoryID             int64          `json:"category_id" gorm:"not null;index"`
	SubcategoryID          *int64         `json:"subcategory_id" gorm:"index"`
	UploadedBy             int64          `json:"uploaded_by" gorm:"not null;index"`
	CoverImageURL          string         `json:"cover_image_url" gorm:"column:cover_image_url"`
	IsActive               bool           `json:"is_active"`
	TotalReads             int            `json:"total_reads"`
	TotalRatings           int            `json:"total_ratings"`
	AvgReadability         float64        `json:"avg_readability"`
	AvgCompleteness        float64        `json:"avg_completeness"`
	AvgDetailLevel         float64        `json:"avg_detail_level"`
	AvgVeracity            float64        `json:"avg_veracity"`
	AvgTechnicalDifficulty float64        `json:"avg_technical_difficulty"`
	OverallRating          float64        `json:"overall_rating"`
	CreatedAt              time.Time      `json:"created_at"`

	Category    *Category    `json:"-" gorm:"foreignKey:CategoryID;references:ID"`
	Subcategory *Subcategory `json:"-" gorm:"foreignKey:SubcategoryID;references:ID"`
	SourceType  *SourceType  `json:"-" gorm:"foreignKey:SourceTypeID;references:ID"`
	Uploader    *User        `json:"-" gorm:"foreignKey:UploadedBy;references:ID"`
}

// TableName returns the database table name for Source.
func (Source) TableName() string { return "sources" }

// RowID returns the store-assigned identifier.
func (s *Source) RowID() int64 { return s.ID }

// SourceURL is an alternate access URL of a source.
type SourceURL struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	SourceID int64  `gorm:"not null;index"`
	URL      string `gorm:"column:url;not null"`
	URLType  string `gorm:"column:url_type;type:varchar(16);not null"`

	Source *Source `json:"-" gorm:"foreignKey:SourceID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for SourceURL.
func (SourceURL) TableName() string { return "source_urls" }

// RowID returns the store-assigned identifier.
func (u *SourceURL) RowID() int64 { return u.ID }

// Rating is one user's evaluation of a source. A user rates a source at most
// once (unique index on source_id, user_id). Sub-scores live in [1,5] with
// 0.5 granularity.
type Rating struct {
	ID                  int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	SourceID            int64     `json:"source_id" gorm:"not null;uniqueIndex:ux_ratings_source_user,priority:1"`
	UserID              int64     `json:"user_id" gorm:"not null;uniqueIndex:ux_ratings_source_user,priority:2;index"`
	Readability         float64   `json:"readability" gorm:"not null;check:readability BETWEEN 1 AND 5"`
	Completeness        float64   `json:"completeness" gorm:"not null;check:completeness BETWEEN 1 AND 5"`
	DetailLevel         float64   `json:"detail_level" gorm:"not null;check:detail_level BETWEEN 1 AND 5"`
	Veracity            float64   `json:"veracity" gorm:"not null;check:veracity BETWEEN 1 AND 5"`
	TechnicalDifficulty float64   `json:"technical_difficulty" gorm:"not null;check:technical_difficulty BETWEEN 1 AND 5"`
	Comment             *string   `json:"comment"`
	AcademicContext     string    `json:"academic_context" gorm:"type:varchar(16)"`
	CreatedAt           time.Time `json:"created_at"`

	Source *Source `json:"-" gorm:"foreignKey:SourceID;references:ID;constraint:OnDelete:CASCADE"`
	User   *User   `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for Rating.
func (Rating) TableName() string { return "ratings" }

// RowID returns the store-assigned identifier.
func (r *Rating) RowID() int64 { return r.ID }

// RatingHistory is a snapshot of a previous version of a rating.
type RatingHistory struct {
	ID                  int64   `gorm:"primaryKey;autoIncrement"`
	RatingID            int64   `gorm:"not null;index"`
	Readability         float64 `gorm:"not null"`
	Completeness        float64 `gorm:"not null"`
	DetailLevel         float64 `gorm:"not null"`
	Veracity            float64 `gorm:"not null"`
	TechnicalDifficulty float64 `gorm:"not null"`
	AcademicContext     string  `gorm:"type:varchar(16)"`
	Comment             string
	ChangedAt           time.Time `gorm:"autoCreateTime"`

	Rating *Rating `json:"-" gorm:"foreignKey:RatingID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for RatingHistory.
func (RatingHistory) TableName() string { return "rating_history" }

// RowID returns the store-assigned identifier.
func (h *RatingHistory) RowID() int64 { return h.ID }
