package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	MaxCabinNameLength  = 16
	MaxCabinTopicLength = 128
)

type Cabin struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"type:varchar(16);not null"`
	Topic        string    `gorm:"type:varchar(128);not null"`
	LodgeID      uuid.UUID `gorm:"type:uuid;not null;index"`
	CreationDate time.Time `gorm:"not null"`
	RequireAdmin bool      `gorm:"not null;default:false"`
}

func (Cabin) TableName() string { return "cabins" }

// LodgeCabin is the ownership link between a lodge and its cabins.
type LodgeCabin struct {
	LodgeID uuid.UUID `gorm:"type:uuid;primaryKey"`
	CabinID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

func (LodgeCabin) TableName() string { return "lodge_cabins" }
