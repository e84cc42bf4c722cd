package task

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/joinboard/backend/domain"
	"github.com/joinboard/backend/repository"
)

// UseCase owns the task aggregate: one logical write covers the scalar
// fields, the contact-assignment set and the subtask collection.
type UseCase struct {
	tasks    repository.TaskRepository
	contacts repository.ContactRepository
	logger   *zap.Logger
}

func New(tasks repository.TaskRepository, contacts repository.ContactRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:    tasks,
		contacts: contacts,
		logger:   logger,
	}
}

// SubtaskSpec describes one subtask in a create or replace request.
type SubtaskSpec struct {
	Name string
	Done bool
}

// CreateInput carries the fields for a new task.
type CreateInput struct {
	Title           string
	Description     string
	DueDate         time.Time
	Priority        domain.Priority
	Category        domain.Category
	CurrentProgress int
	AssignedTo      []string
	Subtasks        []SubtaskSpec
}

// UpdateInput carries a partial update. Nil scalar fields are left unchanged.
// AssignedTo and Subtasks distinguish "omitted" (nil: keep the stored set)
// from "present but empty" (replace with nothing).
type UpdateInput struct {
	Title           *string
	Description     *string
	DueDate         *time.Time
	Priority        *domain.Priority
	Category        *domain.Category
	CurrentProgress *int
	AssignedTo      *[]string
	Subtasks        *[]SubtaskSpec
}

// WriteResult is the outcome of an aggregate write. MissingContacts lists
// contact references that were skipped because they do not exist or belong to
// another user; it is a warning, never a failure.
type WriteResult struct {
	Task            *domain.Task
	MissingContacts []string
}

func (uc *UseCase) CreateTask(ctx context.Context, ownerID string, in CreateInput) (*WriteResult, error) {
	fields := map[string]string{}
	if in.Title == "" {
		fields["title"] = "Title is required"
	}
	if in.DueDate.IsZero() {
		fields["dueDate"] = "Due date is required"
	}
	if in.Priority == "" {
		in.Priority = domain.PriorityMedium
	} else if !domain.ValidPriority(in.Priority) {
		fields["priority"] = "Unknown priority"
	}
	if in.Category == "" {
		in.Category = domain.CategoryTodo
	} else if !domain.ValidCategory(in.Category) {
		fields["category"] = "Unknown category"
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields)
	}

	assigned, missing, err := uc.resolveAssignments(ctx, ownerID, in.AssignedTo)
	if err != nil {
		return nil, err
	}

	task := &domain.Task{
		UserID:          ownerID,
		Title:           in.Title,
		Description:     in.Description,
		DueDate:         in.DueDate,
		Priority:        in.Priority,
		Category:        in.Category,
		CurrentProgress: in.CurrentProgress,
		AssignedTo:      assigned,
		Subtasks:        buildSubtasks(in.Subtasks),
	}

	created, err := uc.tasks.CreateAggregate(ctx, task)
	if err != nil {
		return nil, err
	}
	return &WriteResult{Task: created, MissingContacts: missing}, nil
}

func (uc *UseCase) UpdateTask(ctx context.Context, ownerID, taskID string, in UpdateInput) (*WriteResult, error) {
	task, err := uc.tasks.GetByID(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}
	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.DueDate != nil {
		task.DueDate = *in.DueDate
	}
	if in.Priority != nil {
		if !domain.ValidPriority(*in.Priority) {
			fields["priority"] = "Unknown priority"
		}
		task.Priority = *in.Priority
	}
	if in.Category != nil {
		if !domain.ValidCategory(*in.Category) {
			fields["category"] = "Unknown category"
		}
		task.Category = *in.Category
	}
	if in.CurrentProgress != nil {
		task.CurrentProgress = *in.CurrentProgress
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields)
	}

	var missing []string
	replaceAssignments := in.AssignedTo != nil
	if replaceAssignments {
		assigned, skipped, err := uc.resolveAssignments(ctx, ownerID, *in.AssignedTo)
		if err != nil {
			return nil, err
		}
		task.AssignedTo = assigned
		missing = skipped
	}

	replaceSubtasks := in.Subtasks != nil
	if replaceSubtasks {
		task.Subtasks = buildSubtasks(*in.Subtasks)
	}

	if err := uc.tasks.UpdateAggregate(ctx, task, replaceAssignments, replaceSubtasks); err != nil {
		return nil, err
	}
	return &WriteResult{Task: task, MissingContacts: missing}, nil
}

func (uc *UseCase) GetTask(ctx context.Context, ownerID, taskID string) (*domain.Task, error) {
	return uc.tasks.GetByID(ctx, ownerID, taskID)
}

func (uc *UseCase) ListTasks(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	return uc.tasks.List(ctx, filter)
}

func (uc *UseCase) DeleteTask(ctx context.Context, ownerID, taskID string) error {
	return uc.tasks.Delete(ctx, ownerID, taskID)
}

// resolveAssignments resolves contact references scoped to the owner. Refs
// that cannot be resolved are skipped and reported, never fatal: a stale id
// from the client must not fail the whole aggregate write.
func (uc *UseCase) resolveAssignments(ctx context.Context, ownerID string, refs []string) ([]domain.Contact, []string, error) {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref != "" {
			ids = append(ids, ref)
		}
	}
	if len(ids) == 0 {
		return nil, nil, nil
	}

	found, err := uc.contacts.ListByIDs(ctx, ownerID, ids)
	if err != nil {
		return nil, nil, err
	}

	byID := make(map[string]domain.Contact, len(found))
	for _, contact := range found {
		byID[contact.ID] = contact
	}

	var (
		assigned []domain.Contact
		missing  []string
		seen     = make(map[string]bool, len(ids))
	)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		contact, ok := byID[id]
		if !ok {
			uc.logger.Warn("contact could not be assigned, does not exist or belongs to another user",
				zap.String("contact_id", id),
				zap.String("owner_id", ownerID))
			missing = append(missing, id)
			continue
		}
		assigned = append(assigned, contact)
	}
	return assigned, missing, nil
}

// buildSubtasks drops specs with an empty name; done defaults to false.
func buildSubtasks(specs []SubtaskSpec) []domain.Subtask {
	var subtasks []domain.Subtask
	for _, spec := range specs {
		if spec.Name == "" {
			continue
		}
		subtasks = append(subtasks, domain.Subtask{
			Name: spec.Name,
			Done: spec.Done,
		})
	}
	return subtasks
}
