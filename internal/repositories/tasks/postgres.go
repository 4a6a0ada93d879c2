package tasks

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
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

func (r *postgresRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	task := &models.Task{
		ID: id,
	}

	const selectTaskByIDQuery = `
SELECT user_id,
       title,
       description,
       status,
       created_at
FROM tasks
WHERE id = $1
`
	err := r.pgPool.QueryRow(
		ctx,
		selectTaskByIDQuery,
		task.ID,
	).Scan(
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}

		r.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to select task by id")
		return nil, err
	}
	r.logger.Debug().
		Int64("task_id", task.ID).
		Msg("selected task by id")

	return task, nil
}

func (r *postgresRepository) FindAllByOwner(ctx context.Context, ownerID int64) ([]*models.Task, error) {
	const selectTasksByOwnerQuery = `
SELECT id,
       title,
       description,
       status,
       created_at
FROM tasks
WHERE user_id = $1
ORDER BY created_at DESC
`
	rows, err := r.pgPool.Query(
		ctx,
		selectTasksByOwnerQuery,
		ownerID,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("user_id", ownerID).
			Msg("failed to select tasks by owner")
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task := &models.Task{UserID: ownerID}
		err = rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.Status,
			&task.CreatedAt,
		)
		if err != nil {
			r.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	r.logger.Debug().
		Int("count", len(tasks)).
		Int64("user_id", ownerID).
		Msg("selected tasks by owner")

	return tasks, nil
}

func (r *postgresRepository) Save(ctx context.Context, task *models.Task) error {
	task.CreatedAt = time.Now()

	const insertTaskQuery = `
INSERT INTO tasks (user_id,
                   title,
                   description,
                   status,
                   created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`
	err := r.pgPool.QueryRow(
		ctx,
		insertTaskQuery,
		task.UserID,
		task.Title,
		task.Description,
		task.Status,
		task.CreatedAt,
	).Scan(&task.ID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return err
	}
	r.logger.Debug().
		Int64("task_id", task.ID).
		Msg("inserted task")

	return nil
}

func (r *postgresRepository) Update(ctx context.Context, task *models.Task) error {
	const updateTaskQuery = `
UPDATE tasks
SET title = $1,
    description = $2,
    status = $3
WHERE id = $4
`
	tag, err := r.pgPool.Exec(
		ctx,
		updateTaskQuery,
		task.Title,
		task.Description,
		task.Status,
		task.ID,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to update task")
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	r.logger.Debug().
		Int64("task_id", task.ID).
		Msg("updated task")

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1
`
	tag, err := r.pgPool.Exec(
		ctx,
		deleteTaskQuery,
		id,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("task_id", id).
			Msg("failed to delete task")
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	r.logger.Debug().
		Int64("task_id", id).
		Msg("deleted task")

	return nil
}
