package domain

import "time"

// Contact request statuses.
const (
	ContactPending  = "pending"
	ContactAccepted = "accepted"
	ContactRejected = "rejected"
)

// ContactRequest is a directed invitation between two distinct users.
// RespondedAt is set iff Status is not pending.
type ContactRequest struct {
	ID             int64 `gorm:"primaryKey;autoIncrement"`
	SenderID       int64 `gorm:"not null;uniqueIndex:ux_contact_requests_pair,priority:1"`
	ReceiverID     int64 `gorm:"not null;uniqueIndex:ux_contact_requests_pair,priority:2;index"`
	InitialMessage string
	Status         string    `gorm:"type:varchar(16);not null;check:status IN ('pending','accepted','rejected')"`
	SentAt         time.Time `gorm:"not null"`
	RespondedAt    *time.Time

	Sender   *User `json:"-" gorm:"foreignKey:SenderID;references:ID;constraint:OnDelete:CASCADE"`
	Receiver *User `json:"-" gorm:"foreignKey:ReceiverID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for ContactRequest.
func (ContactRequest) TableName() string { return "contact_requests" }

// RowID returns the store-assigned identifier.
func (c *ContactRequest) RowID() int64 { return c.ID }

// ConfirmedContact is a symmetric pair stored in canonical order
// (UserID1 < UserID2), unique per pair.
type ConfirmedContact struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	UserID1     int64     `gorm:"column:user_id_1;not null;uniqueIndex:ux_confirmed_contacts_pair,priority:1;check:chk_confirmed_contacts_order,user_id_1 < user_id_2"`
	UserID2     int64     `gorm:"column:user_id_2;not null;uniqueIndex:ux_confirmed_contacts_pair,priority:2;index"`
	ConfirmedAt time.Time `gorm:"autoCreateTime"`

	User1 *User `json:"-" gorm:"foreignKey:UserID1;references:ID;constraint:OnDelete:CASCADE"`
	User2 *User `json:"-" gorm:"foreignKey:UserID2;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for ConfirmedContact.
func (ConfirmedContact) TableName() string { return "confirmed_contacts" }

// RowID returns the store-assigned identifier.
func (c *ConfirmedContact) RowID() int64 { return c.ID }

// Chat is a conversation between participants. LastMessageAt is maintained by
// the generator after appending messages.
type Chat struct {
	ID            int64      `gorm:"primaryKey;autoIncrement"`
	ChatType      string     `gorm:"type:varchar(16);not null;default:'private'"`
	CreatedAt     time.Time  `gorm:"not null"`
	LastMessageAt *time.Time `gorm:"index"`
}

// TableName returns the database table name for Chat.
func (Chat) TableName() string { return "chats" }

// RowID returns the store-assigned identifier.
func (c *Chat) RowID() int64 { return c.ID }

// ChatParticipant links a user to a chat.
type ChatParticipant struct {
	ChatID   int64     `gorm:"primaryKey;autoIncrement:false"`
	UserID   int64     `gorm:"primaryKey;autoIncrement:false;index"`
	JoinedAt time.Time `gorm:"not null"`

	Chat *Chat `json:"-" gorm:"foreignKey:ChatID;references:ID;constraint:OnDelete:CASCADE"`
	User *User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for ChatParticipant.
func (ChatParticipant) TableName() string { return "chat_participants" }

// Message is a single (client-side encrypted) chat message.
type Message struct {
	ID               int64     `gorm:"primaryKey;autoIncrement"`
	ChatID           int64     `gorm:"not null;index:idx_chat_msgs,priority:1"`
	UserID           int64     `gorm:"not null;index"`
	EncryptedContent string    `gorm:"type:text;not null"`
	IV               string    `gorm:"column:iv;type:varchar(64);not null"`
	SentAt           time.Time `gorm:"not null;index:idx_chat_msgs,priority:2"`

	Chat   *Chat `json:"-" gorm:"foreignKey:ChatID;references:ID;constraint:OnDelete:CASCADE"`
	Sender *User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }

// RowID returns the store-assigned identifier.
func (m *Message) RowID() int64 { return m.ID }

// Report types and statuses.
const (
	ReportSource = "source"
	ReportUser   = "user"

	ReportPending  = "pending"
	ReportReviewed = "reviewed"
	ReportResolved = "resolved"
)

// Report is a moderation report against either a source or a user. Exactly
// one of SourceID and ReportedUserID is set, matching ReportType.
// ReviewedAt/AdminID are set once the report reached "reviewed"; ResolvedAt and
// ActionTaken only for "resolved".
type Report struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	ReportType     string `gorm:"type:varchar(16);not null;check:chk_reports_target,(report_type = 'source' AND source_id IS NOT NULL AND reported_user_id IS NULL) OR (report_type = 'user' AND reported_user_id IS NOT NULL AND source_id IS NULL)"`
	ReporterID     int64  `gorm:"not null;index"`
	SourceID       *int64 `gorm:"index"`
	ReportedUserID *int64 `gorm:"index"`
	Reason         string `gorm:"type:varchar(32);not null"`
	Description    string
	Status         string    `gorm:"type:varchar(16);not null;check:status IN ('pending','reviewed','resolved')"`
	ReportedAt     time.Time `gorm:"not null"`
	ReviewedAt     *time.Time
	ResolvedAt     *time.Time
	AdminID        *int64
	ActionTaken    *string

	Reporter     *User   `json:"-" gorm:"foreignKey:ReporterID;references:ID;constraint:OnDelete:CASCADE"`
	Source       *Source `json:"-" gorm:"foreignKey:SourceID;references:ID;constraint:OnDelete:CASCADE"`
	ReportedUser *User   `json:"-" gorm:"foreignKey:ReportedUserID;references:ID;constraint:OnDelete:CASCADE"`
	Admin        *User   `json:"-" gorm:"foreignKey:AdminID;references:ID;constraint:OnDelete:SET NULL"`
}

// TableName returns the database table name for Report.
func (Report) TableName() string { return "reports" }

// RowID returns the store-assigned identifier.
func (r *Report) RowID() int64 { return r.ID }
