package handler

import (
	"github.com/google/uuid"

	"lodgehall/internal/model"
	"lodgehall/internal/service"
)

// Timestamps are sent as Unix epoch seconds.

type PublicUser struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"displayName"`
	Pronouns    string    `json:"pronouns"`
	Description string    `json:"description"`
	JoinDate    int64     `json:"joinDate"`
	Admin       bool      `json:"admin"`
}

func newPublicUser(u *model.User) PublicUser {
	return PublicUser{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Pronouns:    u.Pronouns,
		Description: u.Description,
		JoinDate:    u.JoinDate.Unix(),
		Admin:       u.Admin,
	}
}

func newPublicUsers(users []model.User) []PublicUser {
	out := make([]PublicUser, 0, len(users))
	for i := range users {
		out = append(out, newPublicUser(&users[i]))
	}
	return out
}

type TokenResponse struct {
	ID    uuid.UUID `json:"id"`
	Token string    `json:"token"`
}

func newTokenResponse(t *model.Token) TokenResponse {
	return TokenResponse{ID: t.UserID, Token: t.Token}
}

type LodgeResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	IconURL      string    `json:"iconUrl"`
	CreationDate int64     `json:"creationDate"`
	Public       bool      `json:"public"`
}

func newLodgeResponse(l *model.Lodge) LodgeResponse {
	return LodgeResponse{
		ID:           l.ID,
		Name:         l.Name,
		Description:  l.Description,
		IconURL:      l.IconURL,
		CreationDate: l.CreationDate.Unix(),
		Public:       l.Public,
	}
}

type MembershipResponse struct {
	LodgeID  uuid.UUID `json:"lodgeId"`
	UserID   uuid.UUID `json:"userId"`
	JoinDate int64     `json:"joinDate"`
	Admin    bool      `json:"admin"`
}

func newMembershipResponse(m *model.LodgeMember) MembershipResponse {
	return MembershipResponse{
		LodgeID:  m.LodgeID,
		UserID:   m.UserID,
		JoinDate: m.JoinDate.Unix(),
		Admin:    m.Admin,
	}
}

type CabinResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Topic        string    `json:"topic"`
	LodgeID      uuid.UUID `json:"lodgeId"`
	CreationDate int64     `json:"creationDate"`
	RequireAdmin bool      `json:"requireAdmin"`
}

func newCabinResponse(c *model.Cabin) CabinResponse {
	return CabinResponse{
		ID:           c.ID,
		Name:         c.Name,
		Topic:        c.Topic,
		LodgeID:      c.LodgeID,
		CreationDate: c.CreationDate.Unix(),
		RequireAdmin: c.RequireAdmin,
	}
}

// PublicMessage carries the author's public profile. User is null when the
// author no longer exists.
type PublicMessage struct {
	ID           uuid.UUID   `json:"id"`
	User         *PublicUser `json:"user"`
	Content      string      `json:"content"`
	LodgeID      uuid.UUID   `json:"lodgeId"`
	CabinID      uuid.UUID   `json:"cabinId"`
	CreationDate int64       `json:"creationDate"`
}

func newPublicMessage(m *service.AuthoredMessage) PublicMessage {
	msg := PublicMessage{
		ID:           m.ID,
		Content:      m.Content,
		LodgeID:      m.LodgeID,
		CabinID:      m.CabinID,
		CreationDate: m.CreationDate.Unix(),
	}
	if m.Author != nil {
		author := newPublicUser(m.Author)
		msg.User = &author
	}
	return msg
}
