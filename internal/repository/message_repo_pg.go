package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lodgehall/internal/model"
)

type pgMessageRepository struct {
	db *gorm.DB
}

func NewPGMessageRepository(db *gorm.DB) MessageRepository {
	return &pgMessageRepository{db: db}
}

func (r *pgMessageRepository) Create(ctx context.Context, msg *model.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Create(&model.CabinMessage{CabinID: msg.CabinID, MessageID: msg.ID}).Error
	})
}

func (r *pgMessageRepository) ListByCabin(ctx context.Context, cabinID uuid.UUID) ([]model.Message, error) {
	var msgs []model.Message
	err := r.db.WithContext(ctx).
		Joins("JOIN cabin_messages ON cabin_messages.message_id = messages.id").
		Where("cabin_messages.cabin_id = ?", cabinID).
		Order("messages.creation_date DESC").
		Find(&msgs).Error
	return msgs, err
}
