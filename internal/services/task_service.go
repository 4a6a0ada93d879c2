package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/dkovalev/go-task-manager/internal/models"
	"github.com/dkovalev/go-task-manager/internal/repositories/tasks"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	tasks  tasks.Repository
}

func NewTaskService(
	logger zerolog.Logger,
	tasksRepo tasks.Repository,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		tasks:  tasksRepo,
	}
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	if !models.KnownStatus(params.Status) {
		return nil, ErrInvalidTaskStatus
	}

	task := &models.Task{
		UserID:      params.OwnerID,
		Title:       params.Title,
		Description: params.Description,
		Status:      params.Status,
	}

	err := s.tasks.Save(ctx, task)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", task.UserID).
			Msg("failed to save task")
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Int64("user_id", task.UserID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) GetTasks(ctx context.Context, principalID int64) ([]*models.Task, error) {
	found, err := s.tasks.FindAllByOwner(ctx, principalID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", principalID).
			Msg("failed to find tasks by owner")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(found)).
		Int64("user_id", principalID).
		Msg("found tasks")
	return found, nil
}

func (s *taskServiceImpl) GetTaskByID(ctx context.Context, id, principalID int64) (*models.Task, error) {
	task, err := s.fetchOwned(ctx, id, principalID)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int64("task_id", task.ID).
		Msg("found task")
	return task, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	task, err := s.fetchOwned(ctx, params.ID, params.PrincipalID)
	if err != nil {
		return nil, err
	}

	// Only title, description and status may change; the owner
	// and creation time stay as loaded.
	if params.Title != nil {
		task.Title = *params.Title
	}
	if params.Description != nil {
		task.Description = *params.Description
	}
	if params.Status != nil {
		if !models.KnownStatus(*params.Status) {
			return nil, ErrInvalidTaskStatus
		}
		task.Status = *params.Status
	}

	err = s.tasks.Update(ctx, task)
	if err != nil {
		if errors.Is(err, tasks.ErrNotFound) {
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to update task")
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Int64("user_id", task.UserID).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, id, principalID int64) error {
	task, err := s.fetchOwned(ctx, id, principalID)
	if err != nil {
		return err
	}

	err = s.tasks.Delete(ctx, task.ID)
	if err != nil {
		if errors.Is(err, tasks.ErrNotFound) {
			return ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to delete task")
		return err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Int64("user_id", task.UserID).
		Msg("deleted task")
	return nil
}

// fetchOwned loads the task and enforces ownership. Existence is
// checked before ownership, so probing a missing id reports
// not-found while probing another user's task reports forbidden.
func (s *taskServiceImpl) fetchOwned(ctx context.Context, id, principalID int64) (*models.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, tasks.ErrNotFound) {
			s.logger.Warn().
				Int64("task_id", id).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", id).
			Msg("failed to find task by id")
		return nil, err
	}

	if task.UserID != principalID {
		s.logger.Warn().
			Int64("task_id", task.ID).
			Int64("owner_id", task.UserID).
			Int64("user_id", principalID).
			Msg("task access denied")
		return nil, ErrTaskAccessDenied
	}
	return task, nil
}
