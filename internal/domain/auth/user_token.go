package auth

import (
	"time"

	"github.com/google/uuid"
)

type UserToken struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       int64     `gorm:"column:user_id;index;not null" json:"user_id"`
	AccessToken  string    `gorm:"column:access_token;type:text;not null" json:"access_token"`
	RefreshToken string    `gorm:"column:refresh_token;uniqueIndex;not null" json:"refresh_token"`
	ExpiresAt    time.Time `gorm:"column:expires_at;not null" json:"expires_at"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (UserToken) TableName() string { return "user_token" }

func (t *UserToken) Expired(now time.Time) bool { return !t.ExpiresAt.After(now) }
