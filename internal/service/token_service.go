package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"lodgehall/internal/metrics"
	"lodgehall/internal/model"
	"lodgehall/internal/repository"
	"lodgehall/pkg/crypto"
)

// TokenService manages the single opaque bearer token each user holds.
type TokenService interface {
	// Issue returns the user's token, creating one if none exists.
	Issue(ctx context.Context, userID uuid.UUID) (*model.Token, error)
	// Reset replaces the user's token. The previous string stops resolving.
	Reset(ctx context.Context, userID uuid.UUID) (*model.Token, error)
	// Resolve maps an exact token string to its user.
	Resolve(ctx context.Context, token string) (*model.User, error)
}

type tokenService struct {
	tokenRepo repository.TokenRepository
	userRepo  repository.UserRepository
	cache     repository.TokenCache
	cacheTTL  time.Duration
	length    int
	logger    *zap.Logger
	now       func() time.Time
}

func NewTokenService(
	tokenRepo repository.TokenRepository,
	userRepo repository.UserRepository,
	cache repository.TokenCache,
	cacheTTL time.Duration,
	length int,
	logger *zap.Logger,
) TokenService {
	return &tokenService{
		tokenRepo: tokenRepo,
		userRepo:  userRepo,
		cache:     cache,
		cacheTTL:  cacheTTL,
		length:    length,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *tokenService) Issue(ctx context.Context, userID uuid.UUID) (*model.Token, error) {
	existing, err := s.tokenRepo.GetByUserID(ctx, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find token: %w", err)
	}

	token, err := s.newToken(userID)
	if err != nil {
		return nil, err
	}
	if err := s.tokenRepo.CreateIfAbsent(ctx, token); err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}

	// A concurrent Issue may have won the insert; the stored row is authoritative.
	stored, err := s.tokenRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find token: %w", err)
	}
	return stored, nil
}

func (s *tokenService) Reset(ctx context.Context, userID uuid.UUID) (*model.Token, error) {
	old, err := s.tokenRepo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find token: %w", err)
	}

	// A failed eviction aborts the reset before the row changes.
	if old != nil {
		if err := s.cache.Evict(ctx, old.Token); err != nil {
			return nil, fmt.Errorf("evict token: %w", err)
		}
	}

	token, err := s.newToken(userID)
	if err != nil {
		return nil, err
	}
	if err := s.tokenRepo.Replace(ctx, token); err != nil {
		return nil, fmt.Errorf("replace token: %w", err)
	}

	if old != nil {
		if err := s.cache.Evict(ctx, old.Token); err != nil {
			return nil, fmt.Errorf("evict token: %w", err)
		}
	}
	return token, nil
}

func (s *tokenService) Resolve(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrTokenNotFound
	}

	userID, ok, err := s.cache.Lookup(ctx, token)
	switch {
	case err != nil:
		metrics.TokenCacheLookups.WithLabelValues("error").Inc()
		s.logger.Warn("token cache lookup failed", zap.Error(err))
	case ok:
		metrics.TokenCacheLookups.WithLabelValues("hit").Inc()
	default:
		metrics.TokenCacheLookups.WithLabelValues("miss").Inc()
	}

	if !ok {
		stored, err := s.tokenRepo.GetByToken(ctx, token)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTokenNotFound
			}
			return nil, fmt.Errorf("find token: %w", err)
		}
		userID = stored.UserID
		if err := s.cache.Put(ctx, token, userID, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache token", zap.Error(err))
		}

		// A Reset may have replaced the row and evicted it between the read and
		// the Put above. Re-check so a stale entry never outlives the reset.
		if _, err := s.tokenRepo.GetByToken(ctx, token); err != nil {
			s.evict(ctx, token)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTokenNotFound
			}
			return nil, fmt.Errorf("find token: %w", err)
		}
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.evict(ctx, token)
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *tokenService) evict(ctx context.Context, token string) {
	if err := s.cache.Evict(ctx, token); err != nil {
		s.logger.Warn("failed to evict token from cache", zap.Error(err))
	}
}

func (s *tokenService) newToken(userID uuid.UUID) (*model.Token, error) {
	value, err := crypto.GenerateToken(s.length)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &model.Token{UserID: userID, Token: value, CreatedAt: s.now().UTC()}, nil
}

var _ TokenService = (*tokenService)(nil)
