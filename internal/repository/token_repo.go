package repository

import (
	"context"

	"github.com/google/uuid"

	"lodgehall/internal/model"
)

type TokenRepository interface {
	// CreateIfAbsent inserts token unless the user already has one; the
	// existing row wins.
	CreateIfAbsent(ctx context.Context, token *model.Token) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Token, error)
	GetByToken(ctx context.Context, token string) (*model.Token, error)
	// Replace deletes the user's token row and inserts token in one transaction.
	Replace(ctx context.Context, token *model.Token) error
}
