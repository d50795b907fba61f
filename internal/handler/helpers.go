package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lodgehall/internal/service"
	"lodgehall/pkg/response"
)

// parseIDParam reads a UUID path parameter, answering 400 when malformed.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// writeServiceError maps service sentinels to status codes. Unknown ids are
// reported as 400, not 404.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDisplayNameRequired),
		errors.Is(err, service.ErrDisplayNameTooLong),
		errors.Is(err, service.ErrPronounsTooLong),
		errors.Is(err, service.ErrDescriptionTooLong),
		errors.Is(err, service.ErrPasswordRequired),
		errors.Is(err, service.ErrPasswordTooWeak),
		errors.Is(err, service.ErrUserIDRequired),
		errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrLodgeNameRequired),
		errors.Is(err, service.ErrLodgeNameTooLong),
		errors.Is(err, service.ErrIconURLTooLong),
		errors.Is(err, service.ErrCabinNameRequired),
		errors.Is(err, service.ErrCabinNameTooLong),
		errors.Is(err, service.ErrTopicTooLong),
		errors.Is(err, service.ErrContentRequired),
		errors.Is(err, service.ErrContentTooLong),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrLodgeNotFound),
		errors.Is(err, service.ErrCabinNotFound):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, service.ErrTokenNotFound):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, service.ErrLodgeForbidden),
		errors.Is(err, service.ErrNotLodgeMember),
		errors.Is(err, service.ErrNotLodgeAdmin):
		response.Forbidden(c, err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, err.Error())
	}
}
