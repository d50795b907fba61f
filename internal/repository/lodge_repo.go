package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"lodgehall/internal/model"
)

type LodgeRepository interface {
	// CreateWithFounder inserts the lodge and the founder's admin membership
	// atomically.
	CreateWithFounder(ctx context.Context, lodge *model.Lodge, founder *model.LodgeMember) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Lodge, error)
	ListPublic(ctx context.Context) ([]model.Lodge, error)

	// AddMember joins userID to the lodge. An existing membership is returned
	// unchanged with created=false. A new member is admin iff the lodge had no
	// members.
	AddMember(ctx context.Context, lodgeID, userID uuid.UUID, joinedAt time.Time) (member *model.LodgeMember, created bool, err error)
	GetMember(ctx context.Context, lodgeID, userID uuid.UUID) (*model.LodgeMember, error)
	ListMembers(ctx context.Context, lodgeID uuid.UUID) ([]model.User, error)
	ListAdmins(ctx context.Context, lodgeID uuid.UUID) ([]model.User, error)
}
