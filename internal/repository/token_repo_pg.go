package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lodgehall/internal/model"
)

type pgTokenRepository struct {
	db *gorm.DB
}

func NewPGTokenRepository(db *gorm.DB) TokenRepository {
	return &pgTokenRepository{db: db}
}

func (r *pgTokenRepository) CreateIfAbsent(ctx context.Context, token *model.Token) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(token).Error
}

func (r *pgTokenRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Token, error) {
	var token model.Token
	if err := r.db.WithContext(ctx).First(&token, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *pgTokenRepository) GetByToken(ctx context.Context, value string) (*model.Token, error) {
	var token model.Token
	if err := r.db.WithContext(ctx).Where("token = ?", value).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *pgTokenRepository) Replace(ctx context.Context, token *model.Token) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.Token{}, "user_id = ?", token.UserID).Error; err != nil {
			return err
		}
		return tx.Create(token).Error
	})
}
