package services

import (
	"context"
	"errors"
	"time"

	"github.com/dkovalev/go-task-manager/internal/models"
)

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTaskNotFound       = errors.New("task not found")
	ErrTaskAccessDenied   = errors.New("task belongs to another user")
	ErrInvalidTaskStatus  = errors.New("invalid task status")
)

// ErrMalformedToken is returned when a token cannot be parsed at
// all, as opposed to a token that parses but fails validation.
var ErrMalformedToken = errors.New("malformed token")

type PasswordHasher interface {
	// Hash returns a salted one-way hash of the plaintext.
	// Hashing the same plaintext twice yields different hashes.
	Hash(plaintext string) (string, error)

	// Verify reports whether the plaintext matches the stored
	// hash. It returns an error only for a malformed hash.
	Verify(plaintext, hash string) (bool, error)
}

type TokenService interface {
	// Issue signs a new token for the given subject, expiring
	// after the configured lifetime. Extra claims are merged
	// into the payload alongside the registered ones.
	Issue(subject string, extraClaims map[string]any) (string, time.Time, error)

	// Validate reports whether the token's signature verifies,
	// its subject equals expectedSubject and it has not expired.
	// A token that cannot be parsed yields ErrMalformedToken.
	Validate(token, expectedSubject string) (bool, error)

	// ExtractSubject returns the subject claim of the token.
	// The signature is verified before any claim is read.
	ExtractSubject(token string) (string, error)
}

type AuthService interface {
	// Register creates a user with the given username and
	// password and issues a token for it.
	//
	// It returns ErrUserAlreadyExists if the username is taken.
	Register(ctx context.Context, params CredentialsParams) (*AuthResult, error)

	// Authenticate verifies the credentials and issues a fresh
	// token. A missing user and a wrong password both collapse
	// to ErrInvalidCredentials so the caller cannot tell which
	// check failed.
	Authenticate(ctx context.Context, params CredentialsParams) (*AuthResult, error)
}

type TaskService interface {
	// CreateTask persists a new task owned by the given user.
	// It returns ErrInvalidTaskStatus for an unknown status.
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)

	// GetTasks returns every task owned by the principal.
	GetTasks(ctx context.Context, principalID int64) ([]*models.Task, error)

	// GetTaskByID returns the task with the given id.
	//
	// It returns ErrTaskNotFound if the task doesn't exist or
	// ErrTaskAccessDenied if it is owned by another user.
	GetTaskByID(ctx context.Context, id, principalID int64) (*models.Task, error)

	// UpdateTask overwrites the task's title, description and
	// status. Nil fields are left untouched; the owner and the
	// creation time are never modified.
	UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error)

	// DeleteTask removes the task with the given id, applying
	// the same not-found and ownership rules as GetTaskByID.
	DeleteTask(ctx context.Context, id, principalID int64) error
}

type CredentialsParams struct {
	Username string
	Password string
}

type AuthResult struct {
	Token          string
	TokenExpiresAt time.Time
	UserID         int64
	Username       string
}

type CreateTaskParams struct {
	OwnerID     int64
	Title       string
	Description string
	Status      string
}

type UpdateTaskParams struct {
	ID          int64
	PrincipalID int64
	Title       *string
	Description *string
	Status      *string
}
