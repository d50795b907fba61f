package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lodgehall/internal/model"
	"lodgehall/internal/repository"
)

// Authorizer holds the lodge and cabin access rules. A nil user means an
// anonymous requester.
type Authorizer interface {
	// CanView allows anyone on a public lodge and only members on a private one.
	CanView(ctx context.Context, lodge *model.Lodge, user *model.User) error
	RequireMember(ctx context.Context, lodgeID, userID uuid.UUID) (*model.LodgeMember, error)
	RequireAdmin(ctx context.Context, lodgeID, userID uuid.UUID) (*model.LodgeMember, error)
	// CanAccessCabin applies CanView, then restricts require-admin cabins to
	// lodge admins.
	CanAccessCabin(ctx context.Context, lodge *model.Lodge, cabin *model.Cabin, user *model.User) error
}

type authorizer struct {
	lodgeRepo repository.LodgeRepository
}

func NewAuthorizer(lodgeRepo repository.LodgeRepository) Authorizer {
	return &authorizer{lodgeRepo: lodgeRepo}
}

func (a *authorizer) CanView(ctx context.Context, lodge *model.Lodge, user *model.User) error {
	if lodge.Public {
		return nil
	}
	if user == nil {
		return ErrUnauthenticated
	}
	if _, err := a.RequireMember(ctx, lodge.ID, user.ID); err != nil {
		if errors.Is(err, ErrNotLodgeMember) {
			return ErrLodgeForbidden
		}
		return err
	}
	return nil
}

func (a *authorizer) RequireMember(ctx context.Context, lodgeID, userID uuid.UUID) (*model.LodgeMember, error) {
	member, err := a.lodgeRepo.GetMember(ctx, lodgeID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotLodgeMember
		}
		return nil, fmt.Errorf("find membership: %w", err)
	}
	return member, nil
}

func (a *authorizer) RequireAdmin(ctx context.Context, lodgeID, userID uuid.UUID) (*model.LodgeMember, error) {
	member, err := a.RequireMember(ctx, lodgeID, userID)
	if err != nil {
		if errors.Is(err, ErrNotLodgeMember) {
			return nil, ErrNotLodgeAdmin
		}
		return nil, err
	}
	if !member.Admin {
		return nil, ErrNotLodgeAdmin
	}
	return member, nil
}

func (a *authorizer) CanAccessCabin(ctx context.Context, lodge *model.Lodge, cabin *model.Cabin, user *model.User) error {
	if err := a.CanView(ctx, lodge, user); err != nil {
		return err
	}
	if !cabin.RequireAdmin {
		return nil
	}
	if user == nil {
		return ErrUnauthenticated
	}
	_, err := a.RequireAdmin(ctx, lodge.ID, user.ID)
	return err
}

var _ Authorizer = (*authorizer)(nil)
