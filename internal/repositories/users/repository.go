package users

import (
	"context"
	"errors"

	"github.com/dkovalev/go-task-manager/internal/models"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
)

type Repository interface {
	// FindByUsername returns ErrNotFound if no
	// user with the given username exists.
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// Save inserts the user and assigns its ID and CreatedAt.
	//
	// It returns ErrUsernameTaken if another user with the
	// same username already exists; the unique constraint on
	// the username column is what resolves two concurrent
	// registrations racing on the same name.
	Save(ctx context.Context, user *models.User) error
}
