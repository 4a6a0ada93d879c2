package tasks

import (
	"context"
	"errors"

	"github.com/dkovalev/go-task-manager/internal/models"
)

var ErrNotFound = errors.New("task not found")

type Repository interface {
	// FindByID returns ErrNotFound if no task with the given id exists.
	FindByID(ctx context.Context, id int64) (*models.Task, error)

	// FindAllByOwner returns every task owned by the given
	// user, newest first. An owner with no tasks yields an
	// empty slice, not an error.
	FindAllByOwner(ctx context.Context, ownerID int64) ([]*models.Task, error)

	// Save inserts the task and assigns its ID and CreatedAt.
	Save(ctx context.Context, task *models.Task) error

	// Update persists the mutable columns (title, description,
	// status) of an existing task. Owner and creation time are
	// never written back.
	Update(ctx context.Context, task *models.Task) error

	// Delete removes the task, returning ErrNotFound
	// if it no longer exists.
	Delete(ctx context.Context, id int64) error
}
