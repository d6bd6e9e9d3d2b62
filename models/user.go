package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserStatus string

const (
	UserStatusOnline  UserStatus = "online"
	UserStatusOffline UserStatus = "offline"
	UserStatusAway    UserStatus = "away"
)

type User struct {
	ID         string     `json:"id" gorm:"primaryKey;size:191"`
	Username   string     `json:"username" gorm:"uniqueIndex;not null;size:50"`
	Email      string     `json:"email" gorm:"uniqueIndex;not null;size:100"`
	Password   string     `json:"-" gorm:"not null;size:255"`
	Avatar     string     `json:"avatar" gorm:"size:500"`
	Banner     string     `json:"banner" gorm:"size:500"`
	Bio        string     `json:"bio" gorm:"type:text"`
	IsVerified bool       `json:"is_verified" gorm:"default:false"`
	IsAdmin    bool       `json:"is_admin" gorm:"default:false"`
	Status     UserStatus `json:"status" gorm:"not null;default:'offline';size:20"`
	LastSeen   *time.Time `json:"last_seen"`

	VerificationCode    *string    `json:"-" gorm:"size:10"`
	VerificationExpires *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
