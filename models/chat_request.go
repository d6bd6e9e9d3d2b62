package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatRequestStatus string

const (
	ChatRequestStatusPending  ChatRequestStatus = "pending"
	ChatRequestStatusAccepted ChatRequestStatus = "accepted"
	ChatRequestStatusRejected ChatRequestStatus = "rejected"
	ChatRequestStatusCanceled ChatRequestStatus = "canceled"
)

// IsTerminal reports whether no further transition is allowed from the status.
func (s ChatRequestStatus) IsTerminal() bool {
	return s == ChatRequestStatusAccepted || s == ChatRequestStatusRejected || s == ChatRequestStatusCanceled
}

// ChatRequest is the handshake preceding a direct chat. Terminal requests are
// kept as an audit trail, so the single-pending-per-pair rule is a partial
// unique index on pair_key (see database.AddCustomIndexes), not a plain one.
type ChatRequest struct {
	ID         string            `json:"id" gorm:"primaryKey;size:191"`
	FromUserID string            `json:"from_user_id" gorm:"not null;size:191;index:idx_chat_requests_from_status"`
	ToUserID   string            `json:"to_user_id" gorm:"not null;size:191;index:idx_chat_requests_to_status"`
	PairKey    string            `json:"-" gorm:"not null;size:400;index"`
	Status     ChatRequestStatus `json:"status" gorm:"not null;default:'pending';size:20;index:idx_chat_requests_from_status;index:idx_chat_requests_to_status"`
	Message    *string           `json:"message" gorm:"size:500"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`

	FromUser User `json:"from_user,omitempty" gorm:"foreignKey:FromUserID"`
	ToUser   User `json:"to_user,omitempty" gorm:"foreignKey:ToUserID"`
}

func (r *ChatRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.PairKey == "" {
		r.PairKey = PairKey(r.FromUserID, r.ToUserID)
	}
	return nil
}

// PairKey canonicalizes an unordered user pair into a single key, so both
// directions of a relationship map to the same row regardless of who initiated.
func PairKey(userA, userB string) string {
	if userA > userB {
		userA, userB = userB, userA
	}
	return userA + ":" + userB
}
