package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dkovalev/go-task-manager/internal/repositories/users"
	"github.com/dkovalev/go-task-manager/internal/services"
)

type Handler interface {
	HandleRegister(c *gin.Context)
	HandleAuthenticate(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)

	HandleCreateTask(c *gin.Context)
	HandleGetTasks(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
}

type handlerImpl struct {
	logger zerolog.Logger
	auth   services.AuthService
	tasks  services.TaskService
	tokens services.TokenService
	users  users.Repository
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	taskService services.TaskService,
	tokenService services.TokenService,
	usersRepo users.Repository,
) Handler {
	return &handlerImpl{
		logger: logger,
		auth:   authService,
		tasks:  taskService,
		tokens: tokenService,
		users:  usersRepo,
	}
}
