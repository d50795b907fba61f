package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"lodgehall/internal/model"
	"lodgehall/internal/service"
	"lodgehall/pkg/response"
)

const ContextKeyUser = "user"

// TokenResolver maps a raw Authorization header value to its user.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (*model.User, error)
}

// TokenAuth requires the Authorization header to carry a live token. The
// header holds the raw token string, with no scheme prefix.
func TokenAuth(tokens TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("Authorization")
		if raw == "" {
			response.Unauthorized(c, "missing authorization header")
			return
		}

		user, err := tokens.Resolve(c.Request.Context(), raw)
		if err != nil {
			if errors.Is(err, service.ErrTokenNotFound) {
				response.Unauthorized(c, "invalid token")
				return
			}
			response.InternalError(c, err.Error())
			return
		}

		c.Set(ContextKeyUser, user)
		c.Next()
	}
}

// OptionalTokenAuth attaches the user when a valid token is present and
// otherwise lets the request through anonymously.
func OptionalTokenAuth(tokens TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := c.GetHeader("Authorization"); raw != "" {
			if user, err := tokens.Resolve(c.Request.Context(), raw); err == nil {
				c.Set(ContextKeyUser, user)
			} else if !errors.Is(err, service.ErrTokenNotFound) {
				response.InternalError(c, err.Error())
				return
			}
		}
		c.Next()
	}
}

// CurrentUser returns the user attached by TokenAuth or OptionalTokenAuth,
// or nil for anonymous requests.
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(ContextKeyUser)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}
