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
)

// CreateLodgeInput is the caller-supplied part of a new lodge. Public
// defaults to true when nil.
type CreateLodgeInput struct {
	Name        string
	Description string
	IconURL     string
	Public      *bool
}

type LodgeService interface {
	// CreateLodge stores the lodge and makes the founder its admin atomically.
	CreateLodge(ctx context.Context, founderID uuid.UUID, in CreateLodgeInput) (*model.Lodge, error)
	// Join is idempotent. The first member of a lodge becomes its admin.
	Join(ctx context.Context, lodgeID, userID uuid.UUID) (*model.LodgeMember, error)
	IsAdmin(ctx context.Context, lodgeID, userID uuid.UUID) (bool, error)
	IsMember(ctx context.Context, lodgeID, userID uuid.UUID) (bool, error)
	View(ctx context.Context, lodgeID uuid.UUID, requester *model.User) (*model.Lodge, error)
	ListPublic(ctx context.Context) ([]model.Lodge, error)
	Members(ctx context.Context, lodgeID uuid.UUID, requester *model.User) ([]model.User, error)
	Admins(ctx context.Context, lodgeID uuid.UUID, requester *model.User) ([]model.User, error)
}

type lodgeService struct {
	lodgeRepo repository.LodgeRepository
	authz     Authorizer
	now       func() time.Time
}

func NewLodgeService(lodgeRepo repository.LodgeRepository, authz Authorizer) LodgeService {
	return &lodgeService{
		lodgeRepo: lodgeRepo,
		authz:     authz,
		now:       time.Now,
	}
}

func (s *lodgeService) CreateLodge(ctx context.Context, founderID uuid.UUID, in CreateLodgeInput) (*model.Lodge, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrLodgeNameRequired
	}
	if utf8.RuneCountInString(in.Name) > model.MaxLodgeNameLength {
		return nil, ErrLodgeNameTooLong
	}
	if utf8.RuneCountInString(in.Description) > model.MaxLodgeDescriptionLength {
		return nil, ErrDescriptionTooLong
	}
	if utf8.RuneCountInString(in.IconURL) > model.MaxIconURLLength {
		return nil, ErrIconURLTooLong
	}

	public := true
	if in.Public != nil {
		public = *in.Public
	}

	now := s.now().UTC()
	lodge := &model.Lodge{
		ID:           uuid.New(),
		Name:         in.Name,
		Description:  in.Description,
		IconURL:      in.IconURL,
		CreationDate: now,
		Public:       public,
	}
	founder := &model.LodgeMember{UserID: founderID, JoinDate: now}
	if err := s.lodgeRepo.CreateWithFounder(ctx, lodge, founder); err != nil {
		return nil, fmt.Errorf("create lodge: %w", err)
	}
	metrics.LodgesCreated.Inc()
	return lodge, nil
}

func (s *lodgeService) Join(ctx context.Context, lodgeID, userID uuid.UUID) (*model.LodgeMember, error) {
	if _, err := findLodge(ctx, s.lodgeRepo, lodgeID); err != nil {
		return nil, err
	}
	member, _, err := s.lodgeRepo.AddMember(ctx, lodgeID, userID, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("join lodge: %w", err)
	}
	return member, nil
}

func (s *lodgeService) IsAdmin(ctx context.Context, lodgeID, userID uuid.UUID) (bool, error) {
	_, err := s.authz.RequireAdmin(ctx, lodgeID, userID)
	if errors.Is(err, ErrNotLodgeAdmin) {
		return false, nil
	}
	return err == nil, err
}

func (s *lodgeService) IsMember(ctx context.Context, lodgeID, userID uuid.UUID) (bool, error) {
	_, err := s.authz.RequireMember(ctx, lodgeID, userID)
	if errors.Is(err, ErrNotLodgeMember) {
		return false, nil
	}
	return err == nil, err
}

func (s *lodgeService) View(ctx context.Context, lodgeID uuid.UUID, requester *model.User) (*model.Lodge, error) {
	lodge, err := findLodge(ctx, s.lodgeRepo, lodgeID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanView(ctx, lodge, requester); err != nil {
		return nil, err
	}
	return lodge, nil
}

func (s *lodgeService) ListPublic(ctx context.Context) ([]model.Lodge, error) {
	return s.lodgeRepo.ListPublic(ctx)
}

func (s *lodgeService) Members(ctx context.Context, lodgeID uuid.UUID, requester *model.User) ([]model.User, error) {
	if _, err := s.View(ctx, lodgeID, requester); err != nil {
		return nil, err
	}
	return s.lodgeRepo.ListMembers(ctx, lodgeID)
}

func (s *lodgeService) Admins(ctx context.Context, lodgeID uuid.UUID, requester *model.User) ([]model.User, error) {
	if _, err := s.View(ctx, lodgeID, requester); err != nil {
		return nil, err
	}
	return s.lodgeRepo.ListAdmins(ctx, lodgeID)
}

func findLodge(ctx context.Context, repo repository.LodgeRepository, id uuid.UUID) (*model.Lodge, error) {
	lodge, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLodgeNotFound
		}
		return nil, fmt.Errorf("find lodge: %w", err)
	}
	return lodge, nil
}

var _ LodgeService = (*lodgeService)(nil)
