package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dkovalev/go-task-manager/internal/models"
	"github.com/dkovalev/go-task-manager/internal/repositories/users"
)

const principalCtxKey = "principal"

// HandleAuthMiddleware gates every protected route. The full chain
// runs on each request: extract the bearer token, verify it and
// pull out the subject, resolve the subject to a user, validate
// the token against that user, then bind the user to the request.
// Nothing is cached between requests.
func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	const authHeader = "Authorization"
	header := c.GetHeader(authHeader)
	if header == "" {
		h.logger.Warn().Msg("authorization header required")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	const bearerPrefix = "Bearer"
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != bearerPrefix {
		h.logger.Warn().Msg("invalid authorization header")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	accessToken := parts[1]
	subject, err := h.tokens.ExtractSubject(accessToken)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to extract token subject")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	user, err := h.users.FindByUsername(c, subject)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			h.logger.Warn().
				Str("username", subject).
				Msg("token subject no longer resolves to a user")
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to resolve token subject")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	valid, err := h.tokens.Validate(accessToken, user.Username)
	if err != nil || !valid {
		h.logger.Warn().
			Int64("user_id", user.ID).
			Msg("token validation failed")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	c.Set(principalCtxKey, user)
	c.Next()
}

// principalFromContext returns the user bound by the middleware.
// The binding is request-scoped and dropped when the request ends.
func principalFromContext(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(principalCtxKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}
