package model

import (
	"time"

	"github.com/google/uuid"
)

// Token is the single live bearer credential of a user. The primary key on
// UserID is what guarantees one row per user.
type Token struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Token     string    `gorm:"type:varchar(128);uniqueIndex;not null" json:"token"`
	CreatedAt time.Time `json:"-"`
}

func (Token) TableName() string { return "tokens" }
