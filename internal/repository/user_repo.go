package repository

import (
	"context"

	"github.com/google/uuid"

	"lodgehall/internal/model"
)

// ProfileFields carries the editable profile columns. A nil field keeps its
// stored value.
type ProfileFields struct {
	DisplayName *string
	Pronouns    *string
	Description *string
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.User, error)
	List(ctx context.Context) ([]model.User, error)
	ListAdmins(ctx context.Context) ([]model.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, fields ProfileFields) (*model.User, error)
}
