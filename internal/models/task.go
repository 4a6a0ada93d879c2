package models

import "time"

const (
	StatusToDo       = "TO_DO"
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
)

// KnownStatus reports whether status is one of the task lifecycle states.
func KnownStatus(status string) bool {
	return status == StatusToDo ||
		status == StatusInProgress ||
		status == StatusDone
}

type Task struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	Status      string
	CreatedAt   time.Time
}
