package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
	MessageTypeFile  MessageType = "file"
)

// Message content and type are immutable after creation; only the read state
// flips, once, from unread to read. Within a chat messages are totally ordered
// by (created_at, id) so pagination stays stable across equal timestamps.
type Message struct {
	ID       string      `json:"id" gorm:"primaryKey;size:191"`
	ChatID   string      `json:"chat_id" gorm:"not null;size:191;index:idx_messages_chat_created"`
	SenderID string      `json:"sender_id" gorm:"not null;size:191;index"`
	Content  string      `json:"content" gorm:"type:text;not null"`
	Type     MessageType `json:"type" gorm:"not null;default:'text';size:20"`
	Meta     MetaMap     `json:"meta,omitempty"`
	Read     bool        `json:"read" gorm:"not null;default:false"`
	ReadAt   *time.Time  `json:"read_at"`

	CreatedAt time.Time `json:"created_at" gorm:"index:idx_messages_chat_created"`
	UpdatedAt time.Time `json:"updated_at"`

	Sender User `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}
