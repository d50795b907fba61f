package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lodgehall/internal/model"
)

type pgUserRepository struct {
	db *gorm.DB
}

func NewPGUserRepository(db *gorm.DB) UserRepository {
	return &pgUserRepository{db: db}
}

func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *pgUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *pgUserRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.User, error) {
	var users []model.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *pgUserRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Order("join_date ASC").Find(&users).Error
	return users, err
}

func (r *pgUserRepository) ListAdmins(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Where("admin = ?", true).Order("join_date ASC").Find(&users).Error
	return users, err
}

// UpdateProfile reads the current row, merges the supplied fields and writes
// only the profile columns back, all inside one transaction.
func (r *pgUserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, fields ProfileFields) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			return err
		}
		if fields.DisplayName != nil {
			user.DisplayName = *fields.DisplayName
		}
		if fields.Pronouns != nil {
			user.Pronouns = *fields.Pronouns
		}
		if fields.Description != nil {
			user.Description = *fields.Description
		}
		return tx.Model(&model.User{}).Where("id = ?", id).Updates(map[string]interface{}{
			"display_name": user.DisplayName,
			"pronouns":     user.Pronouns,
			"description":  user.Description,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
