package task

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/joinboard/backend/domain"
	"github.com/joinboard/backend/repository"
)

type fakeTaskRepo struct {
	tasks  map[string]*domain.Task
	nextID int

	lastReplaceAssignments bool
	lastReplaceSubtasks    bool
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[string]*domain.Task{}}
}

func (r *fakeTaskRepo) GetByID(_ context.Context, ownerID, id string) (*domain.Task, error) {
	task, ok := r.tasks[id]
	if !ok || task.UserID != ownerID {
		return nil, domain.ErrTaskNotFound
	}
	copied := *task
	copied.AssignedTo = append([]domain.Contact(nil), task.AssignedTo...)
	copied.Subtasks = append([]domain.Subtask(nil), task.Subtasks...)
	return &copied, nil
}

func (r *fakeTaskRepo) List(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	var out []domain.Task
	for _, task := range r.tasks {
		if task.UserID != filter.UserID {
			continue
		}
		if filter.Category != "" && string(task.Category) != filter.Category {
			continue
		}
		out = append(out, *task)
	}
	return out, nil
}

func (r *fakeTaskRepo) CreateAggregate(_ context.Context, task *domain.Task) (*domain.Task, error) {
	r.nextID++
	task.ID = fmt.Sprintf("task-%d", r.nextID)
	stored := *task
	r.tasks[task.ID] = &stored
	return task, nil
}

func (r *fakeTaskRepo) UpdateAggregate(_ context.Context, task *domain.Task, replaceAssignments, replaceSubtasks bool) error {
	stored, ok := r.tasks[task.ID]
	if !ok || stored.UserID != task.UserID {
		return domain.ErrTaskNotFound
	}
	r.lastReplaceAssignments = replaceAssignments
	r.lastReplaceSubtasks = replaceSubtasks

	updated := *task
	if !replaceAssignments {
		updated.AssignedTo = stored.AssignedTo
	}
	if !replaceSubtasks {
		updated.Subtasks = stored.Subtasks
	}
	r.tasks[task.ID] = &updated
	return nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, ownerID, id string) error {
	task, ok := r.tasks[id]
	if !ok || task.UserID != ownerID {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

type fakeContactRepo struct {
	contacts map[string]domain.Contact
}

func newFakeContactRepo(contacts ...domain.Contact) *fakeContactRepo {
	r := &fakeContactRepo{contacts: map[string]domain.Contact{}}
	for _, c := range contacts {
		r.contacts[c.ID] = c
	}
	return r
}

func (r *fakeContactRepo) GetByID(_ context.Context, ownerID, id string) (*domain.Contact, error) {
	c, ok := r.contacts[id]
	if !ok || c.UserID != ownerID {
		return nil, domain.ErrContactNotFound
	}
	return &c, nil
}

func (r *fakeContactRepo) List(_ context.Context, ownerID string) ([]domain.Contact, error) {
	var out []domain.Contact
	for _, c := range r.contacts {
		if c.UserID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeContactRepo) ListByIDs(_ context.Context, ownerID string, ids []string) ([]domain.Contact, error) {
	var out []domain.Contact
	for _, id := range ids {
		if c, ok := r.contacts[id]; ok && c.UserID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeContactRepo) Create(_ context.Context, contact *domain.Contact) (*domain.Contact, error) {
	r.contacts[contact.ID] = *contact
	return contact, nil
}

func (r *fakeContactRepo) Update(_ context.Context, contact *domain.Contact) error {
	if _, ok := r.contacts[contact.ID]; !ok {
		return domain.ErrContactNotFound
	}
	r.contacts[contact.ID] = *contact
	return nil
}

func (r *fakeContactRepo) Delete(_ context.Context, ownerID, id string) error {
	c, ok := r.contacts[id]
	if !ok || c.UserID != ownerID {
		return domain.ErrContactNotFound
	}
	delete(r.contacts, id)
	return nil
}

func dueDate(t *testing.T) time.Time {
	t.Helper()
	due, err := time.Parse("2006-01-02", "2026-10-01")
	if err != nil {
		t.Fatal(err)
	}
	return due
}

func TestCreateTask(t *testing.T) {
	ctx := context.Background()

	t.Run("missing title and due date reported per field", func(t *testing.T) {
		uc := New(newFakeTaskRepo(), newFakeContactRepo(), nil)

		_, err := uc.CreateTask(ctx, "owner", CreateInput{})
		fields := domain.FieldsOf(err)
		if fields == nil {
			t.Fatalf("expected validation error, got %v", err)
		}
		if _, ok := fields["title"]; !ok {
			t.Error("expected title field error")
		}
		if _, ok := fields["dueDate"]; !ok {
			t.Error("expected dueDate field error")
		}
	})

	t.Run("priority and category default when omitted", func(t *testing.T) {
		uc := New(newFakeTaskRepo(), newFakeContactRepo(), nil)

		result, err := uc.CreateTask(ctx, "owner", CreateInput{Title: "Plan sprint", DueDate: dueDate(t)})
		if err != nil {
			t.Fatal(err)
		}
		if result.Task.Priority != domain.PriorityMedium {
			t.Errorf("priority = %q, want medium", result.Task.Priority)
		}
		if result.Task.Category != domain.CategoryTodo {
			t.Errorf("category = %q, want todo", result.Task.Category)
		}
	})

	t.Run("unknown priority rejected", func(t *testing.T) {
		uc := New(newFakeTaskRepo(), newFakeContactRepo(), nil)

		_, err := uc.CreateTask(ctx, "owner", CreateInput{
			Title:    "Plan sprint",
			DueDate:  dueDate(t),
			Priority: "critical",
		})
		if fields := domain.FieldsOf(err); fields["priority"] == "" {
			t.Fatalf("expected priority field error, got %v", err)
		}
	})

	t.Run("missing contacts are skipped and reported", func(t *testing.T) {
		contacts := newFakeContactRepo(domain.Contact{ID: "c1", UserID: "owner", Name: "Max"})
		tasks := newFakeTaskRepo()
		uc := New(tasks, contacts, nil)

		result, err := uc.CreateTask(ctx, "owner", CreateInput{
			Title:      "Plan sprint",
			DueDate:    dueDate(t),
			AssignedTo: []string{"c1", "ghost"},
		})
		if err != nil {
			t.Fatal(err)
		}
		if len(result.Task.AssignedTo) != 1 || result.Task.AssignedTo[0].ID != "c1" {
			t.Errorf("assigned = %v, want only c1", result.Task.AssignedTo)
		}
		if len(result.MissingContacts) != 1 || result.MissingContacts[0] != "ghost" {
			t.Errorf("missing = %v, want [ghost]", result.MissingContacts)
		}
	})

	t.Run("another user's contact counts as missing", func(t *testing.T) {
		contacts := newFakeContactRepo(domain.Contact{ID: "c1", UserID: "other", Name: "Max"})
		uc := New(newFakeTaskRepo(), contacts, nil)

		result, err := uc.CreateTask(ctx, "owner", CreateInput{
			Title:      "Plan sprint",
			DueDate:    dueDate(t),
			AssignedTo: []string{"c1"},
		})
		if err != nil {
			t.Fatal(err)
		}
		if len(result.Task.AssignedTo) != 0 {
			t.Errorf("assigned = %v, want none", result.Task.AssignedTo)
		}
		if len(result.MissingContacts) != 1 || result.MissingContacts[0] != "c1" {
			t.Errorf("missing = %v, want [c1]", result.MissingContacts)
		}
	})

	t.Run("duplicate contact refs assigned once", func(t *testing.T) {
		contacts := newFakeContactRepo(domain.Contact{ID: "c1", UserID: "owner", Name: "Max"})
		uc := New(newFakeTaskRepo(), contacts, nil)

		result, err := uc.CreateTask(ctx, "owner", CreateInput{
			Title:      "Plan sprint",
			DueDate:    dueDate(t),
			AssignedTo: []string{"c1", "c1"},
		})
		if err != nil {
			t.Fatal(err)
		}
		if len(result.Task.AssignedTo) != 1 {
			t.Errorf("assigned = %v, want exactly one", result.Task.AssignedTo)
		}
	})

	t.Run("subtasks with empty names dropped", func(t *testing.T) {
		uc := New(newFakeTaskRepo(), newFakeContactRepo(), nil)

		result, err := uc.CreateTask(ctx, "owner", CreateInput{
			Title:   "Plan sprint",
			DueDate: dueDate(t),
			Subtasks: []SubtaskSpec{
				{Name: "Draft agenda"},
				{Name: ""},
				{Name: "Invite team", Done: true},
			},
		})
		if err != nil {
			t.Fatal(err)
		}
		if len(result.Task.Subtasks) != 2 {
			t.Fatalf("subtasks = %v, want 2", result.Task.Subtasks)
		}
		if result.Task.Subtasks[1].Name != "Invite team" || !result.Task.Subtasks[1].Done {
			t.Errorf("second subtask = %+v", result.Task.Subtasks[1])
		}
	})
}

func TestUpdateTask(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, contacts *fakeContactRepo) (*UseCase, *fakeTaskRepo, string) {
		t.Helper()
		tasks := newFakeTaskRepo()
		uc := New(tasks, contacts, nil)
		result, err := uc.CreateTask(ctx, "owner", CreateInput{
			Title:      "Plan sprint",
			DueDate:    dueDate(t),
			AssignedTo: []string{"c1"},
			Subtasks:   []SubtaskSpec{{Name: "A"}, {Name: "B"}},
		})
		if err != nil {
			t.Fatal(err)
		}
		return uc, tasks, result.Task.ID
	}

	ownerContacts := func() *fakeContactRepo {
		return newFakeContactRepo(
			domain.Contact{ID: "c1", UserID: "owner", Name: "Max"},
			domain.Contact{ID: "c2", UserID: "owner", Name: "Erika"},
		)
	}

	t.Run("unknown task", func(t *testing.T) {
		uc := New(newFakeTaskRepo(), newFakeContactRepo(), nil)
		_, err := uc.UpdateTask(ctx, "owner", "nope", UpdateInput{})
		if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
			t.Errorf("err = %v, want not found", err)
		}
	})

	t.Run("task of another user not reachable", func(t *testing.T) {
		uc, _, id := seed(t, ownerContacts())
		_, err := uc.UpdateTask(ctx, "intruder", id, UpdateInput{})
		if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
			t.Errorf("err = %v, want not found", err)
		}
	})

	t.Run("partial scalar update keeps other fields", func(t *testing.T) {
		uc, tasks, id := seed(t, ownerContacts())

		title := "Plan release"
		result, err := uc.UpdateTask(ctx, "owner", id, UpdateInput{Title: &title})
		if err != nil {
			t.Fatal(err)
		}
		if result.Task.Title != title {
			t.Errorf("title = %q", result.Task.Title)
		}
		stored := tasks.tasks[id]
		if stored.Priority != domain.PriorityMedium || stored.Category != domain.CategoryTodo {
			t.Errorf("stored scalars changed: %+v", stored)
		}
		if len(stored.AssignedTo) != 1 || len(stored.Subtasks) != 2 {
			t.Errorf("children changed: assigned=%d subtasks=%d", len(stored.AssignedTo), len(stored.Subtasks))
		}
	})

	t.Run("omitted assignedTo keeps stored set", func(t *testing.T) {
		uc, tasks, id := seed(t, ownerContacts())

		_, err := uc.UpdateTask(ctx, "owner", id, UpdateInput{})
		if err != nil {
			t.Fatal(err)
		}
		if tasks.lastReplaceAssignments {
			t.Error("assignment set must not be rewritten when the field is omitted")
		}
		if len(tasks.tasks[id].AssignedTo) != 1 {
			t.Errorf("stored assignments = %v", tasks.tasks[id].AssignedTo)
		}
	})

	t.Run("empty assignedTo clears stored set", func(t *testing.T) {
		uc, tasks, id := seed(t, ownerContacts())

		empty := []string{}
		_, err := uc.UpdateTask(ctx, "owner", id, UpdateInput{AssignedTo: &empty})
		if err != nil {
			t.Fatal(err)
		}
		if !tasks.lastReplaceAssignments {
			t.Error("an explicitly empty set must replace the stored one")
		}
		if len(tasks.tasks[id].AssignedTo) != 0 {
			t.Errorf("stored assignments = %v, want none", tasks.tasks[id].AssignedTo)
		}
	})

	t.Run("subtasks replaced wholesale", func(t *testing.T) {
		uc, tasks, id := seed(t, ownerContacts())

		specs := []SubtaskSpec{{Name: "C"}}
		result, err := uc.UpdateTask(ctx, "owner", id, UpdateInput{Subtasks: &specs})
		if err != nil {
			t.Fatal(err)
		}
		if !tasks.lastReplaceSubtasks {
			t.Error("subtask collection must be rewritten when the field is present")
		}
		if len(result.Task.Subtasks) != 1 || result.Task.Subtasks[0].Name != "C" {
			t.Errorf("subtasks = %v, want [C]", result.Task.Subtasks)
		}
	})

	t.Run("replacement with a missing contact reports it", func(t *testing.T) {
		uc, tasks, id := seed(t, ownerContacts())

		refs := []string{"c2", "ghost"}
		result, err := uc.UpdateTask(ctx, "owner", id, UpdateInput{AssignedTo: &refs})
		if err != nil {
			t.Fatal(err)
		}
		if len(result.MissingContacts) != 1 || result.MissingContacts[0] != "ghost" {
			t.Errorf("missing = %v, want [ghost]", result.MissingContacts)
		}
		stored := tasks.tasks[id].AssignedTo
		if len(stored) != 1 || stored[0].ID != "c2" {
			t.Errorf("stored assignments = %v, want only c2", stored)
		}
	})

	t.Run("unknown category rejected before any write", func(t *testing.T) {
		uc, tasks, id := seed(t, ownerContacts())

		bad := domain.Category("backlog")
		_, err := uc.UpdateTask(ctx, "owner", id, UpdateInput{Category: &bad})
		if fields := domain.FieldsOf(err); fields["category"] == "" {
			t.Fatalf("expected category field error, got %v", err)
		}
		if tasks.tasks[id].Category != domain.CategoryTodo {
			t.Error("stored task must be untouched after a validation failure")
		}
	})
}
