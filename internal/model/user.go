package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	MaxDisplayNameLength = 32
	MaxPronounsLength    = 16
	MaxDescriptionLength = 256
)

type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DisplayName string    `gorm:"type:varchar(32);not null" json:"displayName"`
	Pronouns    string    `gorm:"type:varchar(16);not null" json:"pronouns"`
	Description string    `gorm:"type:varchar(256);not null" json:"description"`
	// Password holds the argon2id PHC string, never the plaintext.
	Password *string   `gorm:"type:varchar(256)" json:"-"`
	JoinDate time.Time `gorm:"not null" json:"joinDate"`
	Admin    bool      `gorm:"not null;default:false;index" json:"admin"`
}

func (User) TableName() string { return "users" }
