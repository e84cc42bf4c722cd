package repository

import (
	"context"

	"github.com/joinboard/backend/domain"
)

type TaskFilter struct {
	UserID   string
	Category string
	Limit    int
	Offset   int
}

// TaskRepository persists the task aggregate. CreateAggregate and
// UpdateAggregate commit the task row, its assignment set and its subtasks in
// a single transaction; either everything is applied or nothing is.
type TaskRepository interface {
	GetByID(ctx context.Context, ownerID, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	CreateAggregate(ctx context.Context, task *domain.Task) (*domain.Task, error)
	// UpdateAggregate rewrites the scalar columns. When replaceAssignments is
	// set the stored assignment set is cleared and rebuilt from
	// task.AssignedTo; when replaceSubtasks is set all stored subtasks are
	// deleted and task.Subtasks inserted in their place.
	UpdateAggregate(ctx context.Context, task *domain.Task, replaceAssignments, replaceSubtasks bool) error
	Delete(ctx context.Context, ownerID, id string) error
}
