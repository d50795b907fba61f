package handler

import (
	"github.com/gin-gonic/gin"

	"lodgehall/internal/handler/middleware"
	"lodgehall/internal/repository"
	"lodgehall/internal/service"
	"lodgehall/pkg/response"
)

type UserHandler struct {
	users  service.UserService
	tokens service.TokenService
}

func NewUserHandler(users service.UserService, tokens service.TokenService) *UserHandler {
	return &UserHandler{users: users, tokens: tokens}
}

type RegisterRequest struct {
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type LoginRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

// UpdateProfileRequest fields left out of the body keep their stored values.
type UpdateProfileRequest struct {
	DisplayName *string `json:"displayName"`
	Pronouns    *string `json:"pronouns"`
	Description *string `json:"description"`
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, newPublicUsers(users))
}

func (h *UserHandler) ListAdmins(c *gin.Context) {
	users, err := h.users.ListAdmins(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, newPublicUsers(users))
}

func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.DisplayName, req.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Created(c, newPublicUser(user))
}

func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	token, err := h.users.Authenticate(c.Request.Context(), req.ID, req.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, newTokenResponse(token))
}

func (h *UserHandler) Me(c *gin.Context) {
	response.OK(c, newPublicUser(middleware.CurrentUser(c)))
}

// GetUser only serves the caller's own profile.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	caller := middleware.CurrentUser(c)
	if id != caller.ID {
		response.Forbidden(c, "cannot view another user")
		return
	}

	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, newPublicUser(user))
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), middleware.CurrentUser(c).ID, repository.ProfileFields{
		DisplayName: req.DisplayName,
		Pronouns:    req.Pronouns,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, newPublicUser(user))
}

func (h *UserHandler) ResetToken(c *gin.Context) {
	token, err := h.tokens.Reset(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, newTokenResponse(token))
}
