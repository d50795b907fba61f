package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lodgehall/internal/handler/middleware"
	"lodgehall/internal/service"
	"lodgehall/pkg/response"
)

type CabinHandler struct {
	cabins service.CabinService
}

func NewCabinHandler(cabins service.CabinService) *CabinHandler {
	return &CabinHandler{cabins: cabins}
}

type CreateCabinRequest struct {
	Name         string `json:"name"`
	Topic        string `json:"topic"`
	RequireAdmin bool   `json:"requireAdmin"`
}

type SendMessageRequest struct {
	Content string `json:"content"`
}

func (h *CabinHandler) List(c *gin.Context) {
	lodgeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	cabins, err := h.cabins.ListCabins(c.Request.Context(), lodgeID, middleware.CurrentUser(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	out := make([]CabinResponse, 0, len(cabins))
	for i := range cabins {
		out = append(out, newCabinResponse(&cabins[i]))
	}
	response.OK(c, out)
}

func (h *CabinHandler) Create(c *gin.Context) {
	lodgeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req CreateCabinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	cabin, err := h.cabins.CreateCabin(c.Request.Context(), lodgeID, middleware.CurrentUser(c).ID, service.CreateCabinInput{
		Name:         req.Name,
		Topic:        req.Topic,
		RequireAdmin: req.RequireAdmin,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Created(c, newCabinResponse(cabin))
}

func (h *CabinHandler) Get(c *gin.Context) {
	lodgeID, cabinID, ok := parseCabinPath(c)
	if !ok {
		return
	}
	cabin, err := h.cabins.GetCabin(c.Request.Context(), lodgeID, cabinID, middleware.CurrentUser(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, newCabinResponse(cabin))
}

func (h *CabinHandler) SendMessage(c *gin.Context) {
	lodgeID, cabinID, ok := parseCabinPath(c)
	if !ok {
		return
	}
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	msg, err := h.cabins.SendMessage(c.Request.Context(), lodgeID, cabinID, middleware.CurrentUser(c), req.Content)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Created(c, newPublicMessage(msg))
}

// ListMessages returns the full history, newest first.
func (h *CabinHandler) ListMessages(c *gin.Context) {
	lodgeID, cabinID, ok := parseCabinPath(c)
	if !ok {
		return
	}
	msgs, err := h.cabins.ListMessages(c.Request.Context(), lodgeID, cabinID, middleware.CurrentUser(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	out := make([]PublicMessage, 0, len(msgs))
	for i := range msgs {
		out = append(out, newPublicMessage(&msgs[i]))
	}
	response.OK(c, out)
}

func parseCabinPath(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	lodgeID, ok := parseIDParam(c, "id")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	cabinID, ok := parseIDParam(c, "cabinId")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return lodgeID, cabinID, true
}
