package model

import (
	"time"

	"github.com/google/uuid"
)

const MaxMessageContentLength = 2048

// Message is immutable once written.
type Message struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Content      string    `gorm:"type:varchar(2048);not null"`
	LodgeID      uuid.UUID `gorm:"type:uuid;not null"`
	CabinID      uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_cabin_created,priority:1"`
	CreationDate time.Time `gorm:"not null;index:idx_messages_cabin_created,priority:2"`
}

func (Message) TableName() string { return "messages" }

type CabinMessage struct {
	CabinID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	MessageID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

func (CabinMessage) TableName() string { return "cabin_messages" }
