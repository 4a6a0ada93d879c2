package v1

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dkovalev/go-task-manager/internal/models"
	"github.com/dkovalev/go-task-manager/internal/services"
)

type taskResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UserID      int64     `json:"userId"`
	Username    string    `json:"username"`
}

func newTaskResponse(task *models.Task, owner *models.User) taskResponse {
	return taskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		CreatedAt:   task.CreatedAt,
		UserID:      task.UserID,
		Username:    owner.Username,
	}
}

type createTaskRequest struct {
	Title       string `json:"title" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
	Status      string `json:"status" binding:"required"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		h.logger.Error().Msg("no principal found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind request body")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.CreateTask(c, services.CreateTaskParams{
		OwnerID:     principal.ID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create task")
		switch {
		case errors.Is(err, services.ErrInvalidTaskStatus):
			abort(c, newBadRequestError(services.ErrInvalidTaskStatus.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task, principal))
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		h.logger.Error().Msg("no principal found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	tasks, err := h.tasks.GetTasks(c, principal.ID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get tasks")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := make([]taskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newTaskResponse(task, principal)
	}

	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		h.logger.Error().Msg("no principal found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	taskID, ok := taskIDFromParam(c)
	if !ok {
		return
	}

	task, err := h.tasks.GetTaskByID(c, taskID, principal.ID)
	if err != nil {
		h.abortTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task, principal))
}

type updateTaskRequest struct {
	Title       *string `json:"title,omitempty" binding:"omitempty,max=100"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=500"`
	Status      *string `json:"status,omitempty"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		h.logger.Error().Msg("no principal found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	taskID, ok := taskIDFromParam(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind request body")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.UpdateTask(c, services.UpdateTaskParams{
		ID:          taskID,
		PrincipalID: principal.ID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		h.abortTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task, principal))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		h.logger.Error().Msg("no principal found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	taskID, ok := taskIDFromParam(c)
	if !ok {
		return
	}

	err := h.tasks.DeleteTask(c, taskID, principal.ID)
	if err != nil {
		h.abortTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func taskIDFromParam(c *gin.Context) (int64, bool) {
	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		abort(c, newBadRequestError("invalid task id"))
		return 0, false
	}
	return taskID, true
}

// abortTaskError keeps not-found and forbidden distinguishable: a
// missing id reports 404 to anyone, an existing id owned by
// someone else reports 403.
func (h *handlerImpl) abortTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
	case errors.Is(err, services.ErrTaskAccessDenied):
		abort(c, newForbiddenError(services.ErrTaskAccessDenied.Error()))
	case errors.Is(err, services.ErrInvalidTaskStatus):
		abort(c, newBadRequestError(services.ErrInvalidTaskStatus.Error()))
	default:
		h.logger.Error().
			Err(err).
			Msg("task operation failed")
		abort(c, newStatusTextError(http.StatusInternalServerError))
	}
}
