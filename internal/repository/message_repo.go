package repository

import (
	"context"

	"github.com/google/uuid"

	"lodgehall/internal/model"
)

type MessageRepository interface {
	// Create inserts the message and its cabin_messages link in one transaction.
	Create(ctx context.Context, msg *model.Message) error
	// ListByCabin returns the cabin's messages newest first.
	ListByCabin(ctx context.Context, cabinID uuid.UUID) ([]model.Message, error)
}
