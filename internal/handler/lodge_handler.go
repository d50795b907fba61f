package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lodgehall/internal/handler/middleware"
	"lodgehall/internal/model"
	"lodgehall/internal/service"
	"lodgehall/pkg/response"
)

type LodgeHandler struct {
	lodges service.LodgeService
}

func NewLodgeHandler(lodges service.LodgeService) *LodgeHandler {
	return &LodgeHandler{lodges: lodges}
}

type CreateLodgeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IconURL     string `json:"iconUrl"`
	Public      *bool  `json:"public"`
}

func (h *LodgeHandler) ListPublic(c *gin.Context) {
	lodges, err := h.lodges.ListPublic(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	out := make([]LodgeResponse, 0, len(lodges))
	for i := range lodges {
		out = append(out, newLodgeResponse(&lodges[i]))
	}
	response.OK(c, out)
}

func (h *LodgeHandler) Create(c *gin.Context) {
	var req CreateLodgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	lodge, err := h.lodges.CreateLodge(c.Request.Context(), middleware.CurrentUser(c).ID, service.CreateLodgeInput{
		Name:        req.Name,
		Description: req.Description,
		IconURL:     req.IconURL,
		Public:      req.Public,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Created(c, newLodgeResponse(lodge))
}

func (h *LodgeHandler) View(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	lodge, err := h.lodges.View(c.Request.Context(), id, middleware.CurrentUser(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, newLodgeResponse(lodge))
}

func (h *LodgeHandler) Join(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	member, err := h.lodges.Join(c.Request.Context(), id, middleware.CurrentUser(c).ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, newMembershipResponse(member))
}

func (h *LodgeHandler) Members(c *gin.Context) {
	h.listUsers(c, h.lodges.Members)
}

func (h *LodgeHandler) Admins(c *gin.Context) {
	h.listUsers(c, h.lodges.Admins)
}

func (h *LodgeHandler) listUsers(c *gin.Context, list func(ctx context.Context, lodgeID uuid.UUID, requester *model.User) ([]model.User, error)) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	users, err := list(c.Request.Context(), id, middleware.CurrentUser(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, newPublicUsers(users))
}
