package domain

import "time"

// Priority is the urgency level of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityUrgent Priority = "urgent"
)

// Category is the board column a task currently sits in.
type Category string

const (
	CategoryTodo          Category = "todo"
	CategoryInProgress    Category = "inprogress"
	CategoryAwaitFeedback Category = "awaitfeedback"
	CategoryDone          Category = "done"
)

// ValidPriority reports whether p is one of the known priority levels.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityUrgent:
		return true
	}
	return false
}

// ValidCategory reports whether c is one of the known board categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryTodo, CategoryInProgress, CategoryAwaitFeedback, CategoryDone:
		return true
	}
	return false
}

// Task is a user-owned aggregate: scalar fields, an assignment set of the
// owner's contacts, and an ordered collection of dependent subtasks.
type Task struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	DueDate         time.Time `json:"due_date"`
	Priority        Priority  `json:"priority"`
	Category        Category  `json:"category"`
	CurrentProgress int       `json:"current_progress"`
	AssignedTo      []Contact `json:"assigned_to,omitempty"`
	Subtasks        []Subtask `json:"subtasks,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Subtask has no identity outside its task and is removed with it.
type Subtask struct {
	ID     string `json:"id"`
	TaskID string `json:"task_id"`
	Name   string `json:"name"`
	Done   bool   `json:"done"`
}

func (t *Task) IsDone() bool {
	return t != nil && t.Category == CategoryDone
}
