package users

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/dkovalev/go-task-manager/internal/models"
)

type postgresRepository struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewPostgresRepository(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) Repository {
	return &postgresRepository{
		logger: logger,
		pgPool: pgPool,
	}
}

func (r *postgresRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{
		Username: username,
	}

	const selectUserByUsernameQuery = `
SELECT id,
       password_hash,
       created_at
FROM users
WHERE username = $1
`
	err := r.pgPool.QueryRow(
		ctx,
		selectUserByUsernameQuery,
		user.Username,
	).Scan(
		&user.ID,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}

		r.logger.Error().
			Err(err).
			Str("username", user.Username).
			Msg("failed to select user by username")
		return nil, err
	}
	r.logger.Debug().
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Msg("selected user by username")

	return user, nil
}

func (r *postgresRepository) Save(ctx context.Context, user *models.User) error {
	user.CreatedAt = time.Now()

	const insertUserQuery = `
INSERT INTO users (username,
                   password_hash,
                   created_at)
VALUES ($1, $2, $3)
RETURNING id
`
	err := r.pgPool.QueryRow(
		ctx,
		insertUserQuery,
		user.Username,
		user.PasswordHash,
		user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrUsernameTaken
		}

		r.logger.Error().
			Err(err).
			Str("username", user.Username).
			Msg("failed to insert user")
		return err
	}
	r.logger.Debug().
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Msg("inserted user")

	return nil
}
