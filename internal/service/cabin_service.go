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

type CreateCabinInput struct {
	Name         string
	Topic        string
	RequireAdmin bool
}

// AuthoredMessage is a message together with its author. Author is nil if
// the user row is gone.
type AuthoredMessage struct {
	model.Message
	Author *model.User
}

type CabinService interface {
	CreateCabin(ctx context.Context, lodgeID, userID uuid.UUID, in CreateCabinInput) (*model.Cabin, error)
	GetCabin(ctx context.Context, lodgeID, cabinID uuid.UUID, requester *model.User) (*model.Cabin, error)
	// ListCabins hides require-admin cabins from everyone but lodge admins.
	ListCabins(ctx context.Context, lodgeID uuid.UUID, requester *model.User) ([]model.Cabin, error)
	SendMessage(ctx context.Context, lodgeID, cabinID uuid.UUID, author *model.User, content string) (*AuthoredMessage, error)
	// ListMessages returns the cabin's messages newest first.
	ListMessages(ctx context.Context, lodgeID, cabinID uuid.UUID, requester *model.User) ([]AuthoredMessage, error)
}

type cabinService struct {
	lodgeRepo   repository.LodgeRepository
	cabinRepo   repository.CabinRepository
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	authz       Authorizer
	now         func() time.Time
}

func NewCabinService(
	lodgeRepo repository.LodgeRepository,
	cabinRepo repository.CabinRepository,
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	authz Authorizer,
) CabinService {
	return &cabinService{
		lodgeRepo:   lodgeRepo,
		cabinRepo:   cabinRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
		authz:       authz,
		now:         time.Now,
	}
}

func (s *cabinService) CreateCabin(ctx context.Context, lodgeID, userID uuid.UUID, in CreateCabinInput) (*model.Cabin, error) {
	if _, err := findLodge(ctx, s.lodgeRepo, lodgeID); err != nil {
		return nil, err
	}
	if _, err := s.authz.RequireAdmin(ctx, lodgeID, userID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrCabinNameRequired
	}
	if utf8.RuneCountInString(in.Name) > model.MaxCabinNameLength {
		return nil, ErrCabinNameTooLong
	}
	if utf8.RuneCountInString(in.Topic) > model.MaxCabinTopicLength {
		return nil, ErrTopicTooLong
	}

	cabin := &model.Cabin{
		ID:           uuid.New(),
		Name:         in.Name,
		Topic:        in.Topic,
		LodgeID:      lodgeID,
		CreationDate: s.now().UTC(),
		RequireAdmin: in.RequireAdmin,
	}
	if err := s.cabinRepo.Create(ctx, cabin); err != nil {
		return nil, fmt.Errorf("create cabin: %w", err)
	}
	return cabin, nil
}

func (s *cabinService) GetCabin(ctx context.Context, lodgeID, cabinID uuid.UUID, requester *model.User) (*model.Cabin, error) {
	_, cabin, err := s.accessCabin(ctx, lodgeID, cabinID, requester)
	return cabin, err
}

func (s *cabinService) ListCabins(ctx context.Context, lodgeID uuid.UUID, requester *model.User) ([]model.Cabin, error) {
	lodge, err := findLodge(ctx, s.lodgeRepo, lodgeID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanView(ctx, lodge, requester); err != nil {
		return nil, err
	}

	cabins, err := s.cabinRepo.ListByLodge(ctx, lodgeID)
	if err != nil {
		return nil, fmt.Errorf("list cabins: %w", err)
	}

	isAdmin := false
	if requester != nil {
		_, err := s.authz.RequireAdmin(ctx, lodgeID, requester.ID)
		switch {
		case err == nil:
			isAdmin = true
		case !errors.Is(err, ErrNotLodgeAdmin):
			return nil, err
		}
	}
	if isAdmin {
		return cabins, nil
	}

	visible := cabins[:0]
	for _, c := range cabins {
		if !c.RequireAdmin {
			visible = append(visible, c)
		}
	}
	return visible, nil
}

func (s *cabinService) SendMessage(ctx context.Context, lodgeID, cabinID uuid.UUID, author *model.User, content string) (*AuthoredMessage, error) {
	if author == nil {
		return nil, ErrUnauthenticated
	}
	if content == "" {
		return nil, ErrContentRequired
	}
	if utf8.RuneCountInString(content) > model.MaxMessageContentLength {
		return nil, ErrContentTooLong
	}

	if _, err := findLodge(ctx, s.lodgeRepo, lodgeID); err != nil {
		return nil, err
	}
	cabin, err := s.findCabin(ctx, lodgeID, cabinID)
	if err != nil {
		return nil, err
	}
	if cabin.RequireAdmin {
		_, err = s.authz.RequireAdmin(ctx, lodgeID, author.ID)
	} else {
		_, err = s.authz.RequireMember(ctx, lodgeID, author.ID)
	}
	if err != nil {
		return nil, err
	}

	msg := model.Message{
		ID:           uuid.New(),
		UserID:       author.ID,
		Content:      content,
		LodgeID:      lodgeID,
		CabinID:      cabin.ID,
		CreationDate: s.now().UTC(),
	}
	if err := s.messageRepo.Create(ctx, &msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	metrics.MessagesSent.Inc()
	return &AuthoredMessage{Message: msg, Author: author}, nil
}

func (s *cabinService) ListMessages(ctx context.Context, lodgeID, cabinID uuid.UUID, requester *model.User) ([]AuthoredMessage, error) {
	_, cabin, err := s.accessCabin(ctx, lodgeID, cabinID, requester)
	if err != nil {
		return nil, err
	}

	msgs, err := s.messageRepo.ListByCabin(ctx, cabin.ID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	authors, err := s.resolveAuthors(ctx, msgs)
	if err != nil {
		return nil, err
	}

	out := make([]AuthoredMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, AuthoredMessage{Message: m, Author: authors[m.UserID]})
	}
	return out, nil
}

// resolveAuthors loads every distinct author of msgs in one query.
func (s *cabinService) resolveAuthors(ctx context.Context, msgs []model.Message) (map[uuid.UUID]*model.User, error) {
	seen := make(map[uuid.UUID]struct{}, len(msgs))
	ids := make([]uuid.UUID, 0, len(msgs))
	for _, m := range msgs {
		if _, ok := seen[m.UserID]; ok {
			continue
		}
		seen[m.UserID] = struct{}{}
		ids = append(ids, m.UserID)
	}

	users, err := s.userRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve authors: %w", err)
	}
	byID := make(map[uuid.UUID]*model.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	return byID, nil
}

func (s *cabinService) accessCabin(ctx context.Context, lodgeID, cabinID uuid.UUID, requester *model.User) (*model.Lodge, *model.Cabin, error) {
	lodge, err := findLodge(ctx, s.lodgeRepo, lodgeID)
	if err != nil {
		return nil, nil, err
	}
	cabin, err := s.findCabin(ctx, lodgeID, cabinID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.authz.CanAccessCabin(ctx, lodge, cabin, requester); err != nil {
		return nil, nil, err
	}
	return lodge, cabin, nil
}

func (s *cabinService) findCabin(ctx context.Context, lodgeID, cabinID uuid.UUID) (*model.Cabin, error) {
	cabin, err := s.cabinRepo.GetInLodge(ctx, lodgeID, cabinID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCabinNotFound
		}
		return nil, fmt.Errorf("find cabin: %w", err)
	}
	return cabin, nil
}

var _ CabinService = (*cabinService)(nil)
