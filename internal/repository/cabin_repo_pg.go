package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lodgehall/internal/model"
)

type pgCabinRepository struct {
	db *gorm.DB
}

func NewPGCabinRepository(db *gorm.DB) CabinRepository {
	return &pgCabinRepository{db: db}
}

func (r *pgCabinRepository) Create(ctx context.Context, cabin *model.Cabin) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(cabin).Error; err != nil {
			return err
		}
		return tx.Create(&model.LodgeCabin{LodgeID: cabin.LodgeID, CabinID: cabin.ID}).Error
	})
}

func (r *pgCabinRepository) GetInLodge(ctx context.Context, lodgeID, cabinID uuid.UUID) (*model.Cabin, error) {
	var cabin model.Cabin
	err := r.db.WithContext(ctx).
		Joins("JOIN lodge_cabins ON lodge_cabins.cabin_id = cabins.id").
		Where("cabins.id = ? AND cabins.lodge_id = ? AND lodge_cabins.lodge_id = ?", cabinID, lodgeID, lodgeID).
		First(&cabin).Error
	if err != nil {
		return nil, err
	}
	return &cabin, nil
}

func (r *pgCabinRepository) ListByLodge(ctx context.Context, lodgeID uuid.UUID) ([]model.Cabin, error) {
	var cabins []model.Cabin
	err := r.db.WithContext(ctx).
		Joins("JOIN lodge_cabins ON lodge_cabins.cabin_id = cabins.id").
		Where("lodge_cabins.lodge_id = ?", lodgeID).
		Order("cabins.creation_date ASC").
		Find(&cabins).Error
	return cabins, err
}
