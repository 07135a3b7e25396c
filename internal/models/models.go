package models

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

// User represents a user in the system
type User struct {
	ID           string     `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	Name         string     `gorm:"not null" json:"name"`
	PasswordHash *string    `json:"-"`
	Phone        *string    `json:"phone,omitempty"`
	Birthday     *time.Time `json:"birthday,omitempty"`
	Avatar       *string    `json:"avatar,omitempty"`
	PushToken    *string    `json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Couple links exactly two users. Either slot may hold the caller.
type Couple struct {
	ID              string     `gorm:"type:uuid;primaryKey" json:"id"`
	User1ID         string     `gorm:"type:uuid;not null;index" json:"user1Id"`
	User2ID         string     `gorm:"type:uuid;not null;index" json:"user2Id"`
	StartDate       time.Time  `gorm:"not null" json:"startDate"`
	AnniversaryDate *time.Time `json:"anniversaryDate,omitempty"`
	Goals           *string    `json:"goals,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`

	User1 *User `gorm:"-" json:"user1,omitempty"`
	User2 *User `gorm:"-" json:"user2,omitempty"`
}

// IsMember reports whether userID occupies either slot.
func (c *Couple) IsMember(userID string) bool {
	return userID != "" && (c.User1ID == userID || c.User2ID == userID)
}

// PartnerOf returns the other member, or "" if userID is not a member.
func (c *Couple) PartnerOf(userID string) string {
	switch userID {
	case c.User1ID:
		return c.User2ID
	case c.User2ID:
		return c.User1ID
	}
	return ""
}

// CoupleMember is the one-row-per-user membership index. The primary key on
// UserID is what guarantees a user belongs to at most one couple.
type CoupleMember struct {
	UserID   string `gorm:"type:uuid;primaryKey"`
	CoupleID string `gorm:"type:uuid;not null;index"`
}

// LoveMessage is a note sent from one partner to the other
type LoveMessage struct {
	ID        string     `gorm:"type:uuid;primaryKey" json:"id"`
	CoupleID  string     `gorm:"type:uuid;not null;index" json:"coupleId"`
	SenderID  string     `gorm:"type:uuid;not null" json:"senderId"`
	Title     string     `json:"title"`
	Emoji     string     `json:"emoji"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	Type      string     `json:"type"`
	SentAt    time.Time  `gorm:"index" json:"sentAt"`
	IsRead    bool       `json:"isRead"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Compose renders the message as a single block: "emoji title", a blank line, then the body.
func (m *LoveMessage) Compose() string {
	head := strings.TrimSpace(strings.TrimSpace(m.Emoji) + " " + strings.TrimSpace(m.Title))
	if head == "" {
		return m.Content
	}
	return head + "\n\n" + m.Content
}

// DiaryEntry is a shared journal entry written by one partner
type DiaryEntry struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	CoupleID  string         `gorm:"type:uuid;not null;index" json:"coupleId"`
	AuthorID  string         `gorm:"type:uuid;not null" json:"authorId"`
	Title     string         `gorm:"not null" json:"title"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	Mood      string         `json:"mood"`
	Photos    pq.StringArray `gorm:"type:text[]" json:"photos"`
	Videos    pq.StringArray `gorm:"type:text[]" json:"videos"`
	Date      time.Time      `gorm:"index" json:"date"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// Place is a pin on the shared memory map
type Place struct {
	ID          string         `gorm:"type:uuid;primaryKey" json:"id"`
	CoupleID    string         `gorm:"type:uuid;not null;index" json:"coupleId"`
	CreatedBy   string         `gorm:"type:uuid" json:"createdBy"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Memories    string         `gorm:"type:text" json:"memories"`
	Latitude    float64        `json:"latitude"`
	Longitude   float64        `json:"longitude"`
	Address     string         `json:"address"`
	VisitDate   *time.Time     `json:"visitDate,omitempty"`
	Rating      *int           `json:"rating,omitempty"`
	Photos      pq.StringArray `gorm:"type:text[]" json:"photos"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// BucketListItem is a shared goal
type BucketListItem struct {
	ID          string         `gorm:"type:uuid;primaryKey" json:"id"`
	CoupleID    string         `gorm:"type:uuid;not null;index" json:"coupleId"`
	CreatedBy   string         `gorm:"type:uuid;not null" json:"createdBy"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Category    string         `json:"category"`
	Priority    string         `json:"priority"`
	IsCompleted bool           `json:"isCompleted"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
	ProofImages pq.StringArray `gorm:"type:text[]" json:"proofImages"`
	ProofNotes  string         `gorm:"type:text" json:"proofNotes"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// Event is a calendar entry
type Event struct {
	ID           string     `gorm:"type:uuid;primaryKey" json:"id"`
	CoupleID     string     `gorm:"type:uuid;not null;index" json:"coupleId"`
	CreatedBy    string     `gorm:"type:uuid" json:"createdBy"`
	Title        string     `gorm:"not null" json:"title"`
	Description  string     `gorm:"type:text" json:"description"`
	StartDate    time.Time  `gorm:"index" json:"startDate"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	Location     string     `json:"location"`
	Type         string     `json:"type"`
	IsRecurring  bool       `json:"isRecurring"`
	ReminderAt   *time.Time `gorm:"index" json:"reminderAt,omitempty"`
	ReminderSent bool       `json:"reminderSent"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Expense is a shared spending record
type Expense struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	CoupleID    string    `gorm:"type:uuid;not null;index" json:"coupleId"`
	PaidBy      string    `gorm:"type:uuid;not null" json:"paidBy"`
	Title       string    `gorm:"not null" json:"title"`
	Amount      float64   `gorm:"not null" json:"amount"`
	Category    string    `json:"category"`
	Description string    `gorm:"type:text" json:"description"`
	Date        time.Time `gorm:"index" json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MoodEntry belongs to a single user, not to the couple
type MoodEntry struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"userId"`
	Mood      string    `gorm:"not null" json:"mood"`
	Intensity int       `gorm:"not null" json:"intensity"`
	Note      *string   `gorm:"type:text" json:"note,omitempty"`
	Date      time.Time `gorm:"index" json:"date"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// All lists every persisted model, in migration order.
func All() []any {
	return []any{
		&User{},
		&Couple{},
		&CoupleMember{},
		&LoveMessage{},
		&DiaryEntry{},
		&Place{},
		&BucketListItem{},
		&Event{},
		&Expense{},
		&MoodEntry{},
	}
}
