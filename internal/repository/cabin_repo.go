package repository

import (
	"context"

	"github.com/google/uuid"

	"lodgehall/internal/model"
)

type CabinRepository interface {
	// Create inserts the cabin and its lodge_cabins link in one transaction.
	Create(ctx context.Context, cabin *model.Cabin) error
	// GetInLodge only finds cabins owned by lodgeID.
	GetInLodge(ctx context.Context, lodgeID, cabinID uuid.UUID) (*model.Cabin, error)
	ListByLodge(ctx context.Context, lodgeID uuid.UUID) ([]model.Cabin, error)
}
