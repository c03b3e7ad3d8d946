package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SenderType identifies who submitted a message
type SenderType string

const (
	SenderRegistered SenderType = "registered"
	SenderAnonymous  SenderType = "anonymous"
)

// Message is a note left on a profile. Anonymous messages never carry a
// sender id; registered ones always do.
type Message struct {
	ID             string          `gorm:"column:id;primaryKey;size:36" json:"id"`
	Content        string          `gorm:"column:content;size:300;not null" json:"content"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	IsFavorite     bool            `gorm:"column:is_favorite;not null;default:false" json:"is_favorite"`
	IsArchived     bool            `gorm:"column:is_archived;not null;default:false" json:"is_archived"`
	IsRead         bool            `gorm:"column:is_read;not null;default:false" json:"is_read"`
	ReceiverID     string          `gorm:"column:receiver_id;size:36;not null;index" json:"receiver_id"`
	SenderUserID   *string         `gorm:"column:sender_user_id;size:36;index" json:"sender_user_id"`
	SenderType     SenderType      `gorm:"column:sender_type;size:20;not null" json:"sender_type"`
	SenderMetadata *SenderMetadata `gorm:"column:sender_metadata;serializer:json;type:text" json:"sender_metadata,omitempty"`
}

func (Message) TableName() string { return "messages" }

// BeforeCreate assigns a UUID when none is set
func (m *Message) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// IsAnonymous reports whether the message came from a visitor without a session
func (m *Message) IsAnonymous() bool {
	return m.SenderType == SenderAnonymous
}

// InboxMessage is a message as its receiver sees it. Sender identity and
// captured metadata are reserved for moderation.
type InboxMessage struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	IsFavorite bool      `json:"is_favorite"`
	IsArchived bool      `json:"is_archived"`
	IsRead     bool      `json:"is_read"`
}

// ToInbox strips sender fields
func (m *Message) ToInbox() *InboxMessage {
	return &InboxMessage{
		ID:         m.ID,
		Content:    m.Content,
		CreatedAt:  m.CreatedAt,
		IsFavorite: m.IsFavorite,
		IsArchived: m.IsArchived,
		IsRead:     m.IsRead,
	}
}

// SenderMetadata is the environment captured at submission time
type SenderMetadata struct {
	Timestamp        string `json:"timestamp"`
	UserAgent        string `json:"user_agent"`
	Language         string `json:"language"`
	Platform         string `json:"platform"`
	ScreenResolution string `json:"screen_resolution"`
	Timezone         string `json:"timezone"`
	IPAddress        string `json:"ip_address"`
}

// ClientInfo is what the browser reports about itself alongside a submission
type ClientInfo struct {
	Language         string `json:"language" binding:"omitempty,max=64"`
	Platform         string `json:"platform" binding:"omitempty,max=64"`
	ScreenResolution string `json:"screen_resolution" binding:"omitempty,max=32"`
	Timezone         string `json:"timezone" binding:"omitempty,max=64"`
}

// SubmitMessageRequest body of POST /profiles/:username/messages
type SubmitMessageRequest struct {
	Content string     `json:"content"`
	Client  ClientInfo `json:"client"`
}

// MessageFlag names a boolean column the receiver may toggle
type MessageFlag string

const (
	FlagFavorite MessageFlag = "is_favorite"
	FlagArchived MessageFlag = "is_archived"
	FlagRead     MessageFlag = "is_read"
)

// Value returns the current value of flag on m
func (m *Message) Value(flag MessageFlag) bool {
	switch flag {
	case FlagFavorite:
		return m.IsFavorite
	case FlagArchived:
		return m.IsArchived
	case FlagRead:
		return m.IsRead
	}
	return false
}

// Set assigns flag on m
func (m *Message) Set(flag MessageFlag, v bool) {
	switch flag {
	case FlagFavorite:
		m.IsFavorite = v
	case FlagArchived:
		m.IsArchived = v
	case FlagRead:
		m.IsRead = v
	}
}

// Valid reports whether flag is a toggleable column
func (f MessageFlag) Valid() bool {
	switch f {
	case FlagFavorite, FlagArchived, FlagRead:
		return true
	}
	return false
}
