package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Category is a top-level discipline (static reference data).
type Category struct {
	ID   int64  `json:"id"   gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"type:varchar(100);not null;uniqueIndex:ux_categories_name"`
}

// TableName returns the database table name for Category.
func (Category) TableName() string { return "categories" }

// RowID returns the store-assigned identifier.
func (c *Category) RowID() int64 { return c.ID }

// Subcategory belongs to exactly one Category.
type Subcategory struct {
	ID         int64  `json:"id"          gorm:"primaryKey;autoIncrement"`
	CategoryID int64  `json:"category_id" gorm:"not null;index;uniqueIndex:ux_subcategories_category_name,priority:1"`
	Name       string `json:"name"        gorm:"type:varchar(100);not null;uniqueIndex:ux_subcategories_category_name,priority:2"`

	Category *Category `json:"-" gorm:"foreignKey:CategoryID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for Subcategory.
func (Subcategory) TableName() string { return "subcategories" }

// RowID returns the store-assigned identifier.
func (s *Subcategory) RowID() int64 { return s.ID }

// SourceType classifies a source (Book, Journal Article, ...).
type SourceType struct {
	ID   int64  `json:"id"   gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"type:varchar(100);not null;uniqueIndex:ux_source_types_name"`
}

// TableName returns the database table name for SourceType.
func (SourceType) TableName() string { return "source_types" }

// RowID returns the store-assigned identifier.
func (s *SourceType) RowID() int64 { return s.ID }

// CuratorialList is a user-curated, ordered collection of sources.
// TotalSources must equal the number of ListSource rows of the list.
type CuratorialList struct {
	ID              int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID          int64     `json:"user_id" gorm:"not null;index"`
	Title           string    `json:"title" gorm:"type:varchar(200);not null"`
	Description     string    `json:"description"`
	CoverImage      string    `json:"cover_image"`
	IsPublic        bool      `json:"is_public"`
	IsCollaborative bool      `json:"is_collaborative"`
	TotalSources    int       `json:"total_sources"`
	TotalViews      int       `json:"total_views"`
	CreatedAt       time.Time `json:"created_at"`

	Owner *User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for CuratorialList.
func (CuratorialList) TableName() string { return "curatorial_lists" }

// RowID returns the store-assigned identifier.
func (l *CuratorialList) RowID() int64 { return l.ID }

// ListSource places a source in a list at a dense, 0-based SortOrder.
type ListSource struct {
	ListID    int64     `gorm:"primaryKey;autoIncrement:false"`
	SourceID  int64     `gorm:"primaryKey;autoIncrement:false;index"`
	SortOrder int       `gorm:"not null"`
	AddedAt   time.Time `gorm:"autoCreateTime"`

	List   *CuratorialList `json:"-" gorm:"foreignKey:ListID;references:ID;constraint:OnDelete:CASCADE"`
	Source *Source         `json:"-" gorm:"foreignKey:SourceID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for ListSource.
func (ListSource) TableName() string { return "list_sources" }

// ListCollaborator invites a user (never the owner) to a collaborative list.
type ListCollaborator struct {
	ListID    int64     `gorm:"primaryKey;autoIncrement:false"`
	UserID    int64     `gorm:"primaryKey;autoIncrement:false;index"`
	Status    string    `gorm:"type:varchar(16);not null;check:status IN ('pending','accepted')"`
	InvitedAt time.Time `gorm:"autoCreateTime"`

	List *CuratorialList `json:"-" gorm:"foreignKey:ListID;references:ID;constraint:OnDelete:CASCADE"`
	User *User           `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for ListCollaborator.
func (ListCollaborator) TableName() string { return "list_collaborators" }

// Reading statuses.
const (
	ReadingRead   = "read"
	ReadingToRead = "to_read"
)

// UserReading tracks a source on a user's shelf. ReadDate is set only for
// status "read"; Priority is non-zero only for status "to_read".
type UserReading struct {
	ID       int64      `gorm:"primaryKey;autoIncrement"`
	UserID   int64      `gorm:"not null;uniqueIndex:ux_user_readings_user_source,priority:1"`
	SourceID int64      `gorm:"not null;uniqueIndex:ux_user_readings_user_source,priority:2;index"`
	Status   string     `gorm:"type:varchar(16);not null;check:status IN ('read','to_read')"`
	ReadDate *time.Time `gorm:"type:date"`
	Priority int        `gorm:"not null;default:0"`
	AddedAt  time.Time  `gorm:"autoCreateTime"`

	User   *User   `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	Source *Source `json:"-" gorm:"foreignKey:SourceID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for UserReading.
func (UserReading) TableName() string { return "user_readings" }

// RowID returns the store-assigned identifier.
func (r *UserReading) RowID() int64 { return r.ID }

// ReadingStats is the per-user derived summary of user_readings.
// CategoryDistribution is a JSON object mapping category id (as a string)
// to the number of read sources in that category.
type ReadingStats struct {
	UserID               int64 `gorm:"primaryKey;autoIncrement:false"`
	TotalRead            int   `gorm:"not null"`
	TotalToRead          int   `gorm:"not null"`
	CategoryDistribution datatypes.JSON
	UpdatedAt            time.Time

	User *User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for ReadingStats.
func (ReadingStats) TableName() string { return "reading_stats" }

// TermVector is a TF-IDF relevance weight of a term for a source.
type TermVector struct {
	ID       int64   `gorm:"primaryKey;autoIncrement"`
	SourceID int64   `gorm:"not null;uniqueIndex:ux_tfidf_source_term,priority:1"`
	Term     string  `gorm:"type:varchar(100);not null;uniqueIndex:ux_tfidf_source_term,priority:2"`
	TF       float64 `gorm:"column:tf;not null;check:tf >= 0"`
	IDF      float64 `gorm:"column:idf;not null;check:idf >= 0"`
	Weight   float64 `gorm:"not null;check:weight >= 0"`

	Source *Source `json:"-" gorm:"foreignKey:SourceID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for TermVector.
func (TermVector) TableName() string { return "tfidf_vectors" }

// RowID returns the store-assigned identifier.
func (v *TermVector) RowID() int64 { return v.ID }

// AutocompleteEntry is one word of the flat autocomplete dictionary.
type AutocompleteEntry struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Language  string `gorm:"type:varchar(8);not null;uniqueIndex:ux_autocomplete_lang_word_field,priority:1"`
	Word      string `gorm:"type:varchar(100);not null;uniqueIndex:ux_autocomplete_lang_word_field,priority:2"`
	Field     string `gorm:"type:varchar(16);not null;uniqueIndex:ux_autocomplete_lang_word_field,priority:3"`
	Frequency int    `gorm:"not null;default:1"`
}

// TableName returns the database table name for AutocompleteEntry.
func (AutocompleteEntry) TableName() string { return "autocomplete_dictionary" }

// RowID returns the store-assigned identifier.
func (e *AutocompleteEntry) RowID() int64 { return e.ID }
