package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	MaxLodgeNameLength        = 32
	MaxLodgeDescriptionLength = 256
	MaxIconURLLength          = 256
)

type Lodge struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"type:varchar(32);not null"`
	Description  string    `gorm:"type:varchar(256);not null"`
	IconURL      string    `gorm:"type:varchar(256);not null"`
	CreationDate time.Time `gorm:"not null"`
	// Public lodges are discoverable and readable by non-members.
	Public bool `gorm:"not null;index"`
}

func (Lodge) TableName() string { return "lodges" }

type LodgeMember struct {
	LodgeID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	JoinDate time.Time `gorm:"not null"`
	Admin    bool      `gorm:"not null;default:false"`
}

func (LodgeMember) TableName() string { return "lodge_members" }
