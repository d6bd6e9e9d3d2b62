package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatType string

const (
	ChatTypeDirect ChatType = "direct"
	ChatTypeGroup  ChatType = "group"
)

type ParticipantRole string

const (
	RoleMember ParticipantRole = "member"
	RoleAdmin  ParticipantRole = "admin"
	RoleOwner  ParticipantRole = "owner"
)

// Chat owns its participants and messages: deleting a chat cascades to both
// (explicit deletes in the service layer, mirrored by FK constraints in the DB).
type Chat struct {
	ID   string   `json:"id" gorm:"primaryKey;size:191"`
	Type ChatType `json:"type" gorm:"not null;default:'direct';size:20"`
	// PairKey is set for direct chats only and carries a unique index, making
	// one-direct-chat-per-pair a storage guarantee. NULL for group chats.
	PairKey   *string   `json:"-" gorm:"uniqueIndex;size:400"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Participants []ChatParticipant `json:"participants,omitempty" gorm:"foreignKey:ChatID"`
	Messages     []Message         `json:"messages,omitempty" gorm:"foreignKey:ChatID"`
}

func (ch *Chat) BeforeCreate(tx *gorm.DB) error {
	if ch.ID == "" {
		ch.ID = uuid.New().String()
	}
	return nil
}

type ChatParticipant struct {
	ID        string          `json:"id" gorm:"primaryKey;size:191"`
	ChatID    string          `json:"chat_id" gorm:"not null;size:191;uniqueIndex:uniq_chat_participants_chat_user"`
	UserID    string          `json:"user_id" gorm:"not null;size:191;uniqueIndex:uniq_chat_participants_chat_user"`
	Role      ParticipantRole `json:"role" gorm:"not null;default:'member';size:20"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (p *ChatParticipant) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
