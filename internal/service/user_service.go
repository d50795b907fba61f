package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lodgehall/internal/metrics"
	"lodgehall/internal/model"
	"lodgehall/internal/repository"
	"lodgehall/pkg/crypto"
)

// PasswordPolicy configures how registration checks and hashes passwords.
type PasswordPolicy struct {
	MinEntropy float64
	Argon2     crypto.Argon2Params
}

type UserService interface {
	Register(ctx context.Context, displayName, password string) (*model.User, error)
	Authenticate(ctx context.Context, userID, password string) (*model.Token, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, fields repository.ProfileFields) (*model.User, error)
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	ListAdmins(ctx context.Context) ([]model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	tokens   TokenService
	policy   PasswordPolicy
	now      func() time.Time
}

func NewUserService(userRepo repository.UserRepository, tokens TokenService, policy PasswordPolicy) UserService {
	return &userService{
		userRepo: userRepo,
		tokens:   tokens,
		policy:   policy,
		now:      time.Now,
	}
}

func (s *userService) Register(ctx context.Context, displayName, password string) (*model.User, error) {
	if err := validateDisplayName(displayName); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}
	if !crypto.IsStrongPassword(password, s.policy.MinEntropy, displayName) {
		return nil, ErrPasswordTooWeak
	}

	hash, err := crypto.HashPassword(password, s.policy.Argon2)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:          uuid.New(),
		DisplayName: displayName,
		Password:    &hash,
		JoinDate:    s.now().UTC(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	metrics.UsersRegistered.Inc()
	return user, nil
}

func (s *userService) Authenticate(ctx context.Context, userID, password string) (*model.Token, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrInvalidUserID
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidUserID
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user.Password == nil || !crypto.CheckPassword(password, *user.Password) {
		return nil, ErrInvalidCredentials
	}
	return s.tokens.Issue(ctx, user.ID)
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, fields repository.ProfileFields) (*model.User, error) {
	if fields.DisplayName != nil {
		if err := validateDisplayName(*fields.DisplayName); err != nil {
			return nil, err
		}
	}
	if fields.Pronouns != nil && utf8.RuneCountInString(*fields.Pronouns) > model.MaxPronounsLength {
		return nil, ErrPronounsTooLong
	}
	if fields.Description != nil && utf8.RuneCountInString(*fields.Description) > model.MaxDescriptionLength {
		return nil, ErrDescriptionTooLong
	}

	user, err := s.userRepo.UpdateProfile(ctx, userID, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.userRepo.List(ctx)
}

func (s *userService) ListAdmins(ctx context.Context) ([]model.User, error) {
	return s.userRepo.ListAdmins(ctx)
}

func validateDisplayName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrDisplayNameRequired
	}
	if utf8.RuneCountInString(name) > model.MaxDisplayNameLength {
		return ErrDisplayNameTooLong
	}
	return nil
}

var _ UserService = (*userService)(nil)
