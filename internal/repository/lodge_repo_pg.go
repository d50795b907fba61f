package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lodgehall/internal/model"
)

type pgLodgeRepository struct {
	db *gorm.DB
}

func NewPGLodgeRepository(db *gorm.DB) LodgeRepository {
	return &pgLodgeRepository{db: db}
}

func (r *pgLodgeRepository) CreateWithFounder(ctx context.Context, lodge *model.Lodge, founder *model.LodgeMember) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(lodge).Error; err != nil {
			return err
		}
		founder.LodgeID = lodge.ID
		founder.Admin = true
		return tx.Create(founder).Error
	})
}

func (r *pgLodgeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Lodge, error) {
	var lodge model.Lodge
	if err := r.db.WithContext(ctx).First(&lodge, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &lodge, nil
}

func (r *pgLodgeRepository) ListPublic(ctx context.Context) ([]model.Lodge, error) {
	var lodges []model.Lodge
	err := r.db.WithContext(ctx).Where("public = ?", true).Order("creation_date DESC").Find(&lodges).Error
	return lodges, err
}

func (r *pgLodgeRepository) AddMember(ctx context.Context, lodgeID, userID uuid.UUID, joinedAt time.Time) (*model.LodgeMember, bool, error) {
	var (
		member  model.LodgeMember
		created bool
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.LodgeMember{}).Where("lodge_id = ?", lodgeID).Count(&count).Error; err != nil {
			return err
		}
		member = model.LodgeMember{
			LodgeID:  lodgeID,
			UserID:   userID,
			JoinDate: joinedAt,
			Admin:    count == 0,
		}
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "lodge_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(&member)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			created = true
			return nil
		}

		// Already a member; report the stored row.
		member = model.LodgeMember{}
		return tx.First(&member, "lodge_id = ? AND user_id = ?", lodgeID, userID).Error
	})
	if err != nil {
		return nil, false, err
	}
	return &member, created, nil
}

func (r *pgLodgeRepository) GetMember(ctx context.Context, lodgeID, userID uuid.UUID) (*model.LodgeMember, error) {
	var member model.LodgeMember
	err := r.db.WithContext(ctx).First(&member, "lodge_id = ? AND user_id = ?", lodgeID, userID).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *pgLodgeRepository) ListMembers(ctx context.Context, lodgeID uuid.UUID) ([]model.User, error) {
	return r.listUsers(ctx, "lodge_members.lodge_id = ?", lodgeID)
}

func (r *pgLodgeRepository) ListAdmins(ctx context.Context, lodgeID uuid.UUID) ([]model.User, error) {
	return r.listUsers(ctx, "lodge_members.lodge_id = ? AND lodge_members.admin = ?", lodgeID, true)
}

func (r *pgLodgeRepository) listUsers(ctx context.Context, query string, args ...interface{}) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Joins("JOIN lodge_members ON lodge_members.user_id = users.id").
		Where(query, args...).
		Order("lodge_members.join_date ASC").
		Find(&users).Error
	return users, err
}
