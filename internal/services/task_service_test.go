package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkovalev/go-task-manager/internal/models"
	"github.com/dkovalev/go-task-manager/internal/repositories/tasks"
)

type fakeTaskRepository struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.Task
}

func newFakeTaskRepository() *fakeTaskRepository {
	return &fakeTaskRepository{byID: make(map[int64]*models.Task)}
}

func (r *fakeTaskRepository) FindByID(_ context.Context, id int64) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.byID[id]
	if !ok {
		return nil, tasks.ErrNotFound
	}
	clone := *task
	return &clone, nil
}

func (r *fakeTaskRepository) FindAllByOwner(_ context.Context, ownerID int64) ([]*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	owned := make([]*models.Task, 0)
	for _, task := range r.byID {
		if task.UserID == ownerID {
			clone := *task
			owned = append(owned, &clone)
		}
	}
	return owned, nil
}

func (r *fakeTaskRepository) Save(_ context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	task.ID = r.nextID
	task.CreatedAt = time.Now()
	clone := *task
	r.byID[task.ID] = &clone
	return nil
}

func (r *fakeTaskRepository) Update(_ context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[task.ID]
	if !ok {
		return tasks.ErrNotFound
	}
	stored.Title = task.Title
	stored.Description = task.Description
	stored.Status = task.Status
	return nil
}

func (r *fakeTaskRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return tasks.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

const (
	aliceID int64 = 1
	bobID   int64 = 2
)

func newTaskFixture(t *testing.T) (TaskService, *models.Task) {
	t.Helper()

	s := NewTaskService(zerolog.Nop(), newFakeTaskRepository())
	task, err := s.CreateTask(context.Background(), CreateTaskParams{
		OwnerID:     aliceID,
		Title:       "Buy milk",
		Description: "Two liters",
		Status:      models.StatusToDo,
	})
	require.NoError(t, err)
	return s, task
}

func TestTaskService_CreateAndGet(t *testing.T) {
	t.Parallel()

	s, created := newTaskFixture(t)
	assert.Equal(t, aliceID, created.UserID)
	assert.Equal(t, models.StatusToDo, created.Status)
	assert.False(t, created.CreatedAt.IsZero())

	found, err := s.GetTaskByID(context.Background(), created.ID, aliceID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "Buy milk", found.Title)

	owned, err := s.GetTasks(context.Background(), aliceID)
	require.NoError(t, err)
	assert.Len(t, owned, 1)

	empty, err := s.GetTasks(context.Background(), bobID)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestTaskService_CreateInvalidStatus(t *testing.T) {
	t.Parallel()

	s := NewTaskService(zerolog.Nop(), newFakeTaskRepository())

	_, err := s.CreateTask(context.Background(), CreateTaskParams{
		OwnerID: aliceID,
		Title:   "Buy milk",
		Status:  "SOMEDAY",
	})
	require.ErrorIs(t, err, ErrInvalidTaskStatus)
}

func TestTaskService_OwnershipEnforced(t *testing.T) {
	t.Parallel()

	s, task := newTaskFixture(t)

	_, err := s.GetTaskByID(context.Background(), task.ID, bobID)
	require.ErrorIs(t, err, ErrTaskAccessDenied)

	title := "Hijacked"
	_, err = s.UpdateTask(context.Background(), UpdateTaskParams{
		ID:          task.ID,
		PrincipalID: bobID,
		Title:       &title,
	})
	require.ErrorIs(t, err, ErrTaskAccessDenied)

	err = s.DeleteTask(context.Background(), task.ID, bobID)
	require.ErrorIs(t, err, ErrTaskAccessDenied)

	// The owner still sees the task untouched.
	found, err := s.GetTaskByID(context.Background(), task.ID, aliceID)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", found.Title)
}

func TestTaskService_NotFoundBeforeOwnership(t *testing.T) {
	t.Parallel()

	s, task := newTaskFixture(t)
	missingID := task.ID + 100

	// A nonexistent id is not-found for everyone, owner or not.
	_, err := s.GetTaskByID(context.Background(), missingID, aliceID)
	require.ErrorIs(t, err, ErrTaskNotFound)

	_, err = s.GetTaskByID(context.Background(), missingID, bobID)
	require.ErrorIs(t, err, ErrTaskNotFound)

	err = s.DeleteTask(context.Background(), missingID, aliceID)
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskService_UpdateWhitelist(t *testing.T) {
	t.Parallel()

	s, task := newTaskFixture(t)

	title := "Buy oat milk"
	status := models.StatusDone
	updated, err := s.UpdateTask(context.Background(), UpdateTaskParams{
		ID:          task.ID,
		PrincipalID: aliceID,
		Title:       &title,
		Status:      &status,
	})
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", updated.Title)
	assert.Equal(t, models.StatusDone, updated.Status)
	// Untouched fields keep their values; owner and creation
	// time are immutable through updates.
	assert.Equal(t, "Two liters", updated.Description)
	assert.Equal(t, aliceID, updated.UserID)
	assert.Equal(t, task.CreatedAt, updated.CreatedAt)
}

func TestTaskService_UpdateInvalidStatus(t *testing.T) {
	t.Parallel()

	s, task := newTaskFixture(t)

	status := "ARCHIVED"
	_, err := s.UpdateTask(context.Background(), UpdateTaskParams{
		ID:          task.ID,
		PrincipalID: aliceID,
		Status:      &status,
	})
	require.ErrorIs(t, err, ErrInvalidTaskStatus)
}

func TestTaskService_Delete(t *testing.T) {
	t.Parallel()

	s, task := newTaskFixture(t)

	err := s.DeleteTask(context.Background(), task.ID, aliceID)
	require.NoError(t, err)

	_, err = s.GetTaskByID(context.Background(), task.ID, aliceID)
	require.ErrorIs(t, err, ErrTaskNotFound)
}
