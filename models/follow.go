package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Follow is a directed edge: FollowerID follows FollowingID.
type Follow struct {
	ID          string    `json:"id" gorm:"primaryKey;size:191"`
	FollowerID  string    `json:"follower_id" gorm:"not null;size:191;uniqueIndex:uniq_follows_follower_following"`
	FollowingID string    `json:"following_id" gorm:"not null;size:191;uniqueIndex:uniq_follows_follower_following"`
	CreatedAt   time.Time `json:"created_at"`

	Follower  User `json:"follower,omitempty" gorm:"foreignKey:FollowerID"`
	Following User `json:"following,omitempty" gorm:"foreignKey:FollowingID"`
}

func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}
