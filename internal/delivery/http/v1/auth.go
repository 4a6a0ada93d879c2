package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkovalev/go-task-manager/internal/services"
)

type authRequest struct {
	Username string `json:"username" binding:"required,max=255"`
	Password string `json:"password" binding:"required,min=6,max=255"`
}

type authResponse struct {
	Token    string `json:"token"`
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}

func newAuthResponse(result *services.AuthResult) authResponse {
	return authResponse{
		Token:    result.Token,
		UserID:   result.UserID,
		Username: result.Username,
	}
}

func (h *handlerImpl) HandleRegister(c *gin.Context) {
	var req authRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind request body")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	result, err := h.auth.Register(c, services.CredentialsParams{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to register user")
		switch {
		case errors.Is(err, services.ErrUserAlreadyExists):
			abort(c, newConflictError(services.ErrUserAlreadyExists.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusCreated, newAuthResponse(result))
}

func (h *handlerImpl) HandleAuthenticate(c *gin.Context) {
	var req authRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind request body")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	result, err := h.auth.Authenticate(c, services.CredentialsParams{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to authenticate user")
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			abort(c, newUnauthorizedError(services.ErrInvalidCredentials.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, newAuthResponse(result))
}
