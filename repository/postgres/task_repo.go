package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joinboard/backend/domain"
	"github.com/joinboard/backend/repository"
)

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Task, error) {
	const query = `
	SELECT id, user_id, title, description, due_date, priority, category, current_progress, created_at, updated_at
	FROM tasks
	WHERE id = $1 AND user_id = $2
	`
	task, err := scanTask(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		return nil, err
	}
	if err := r.loadChildren(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	const query = `
	SELECT id, user_id, title, description, due_date, priority, category, current_progress, created_at, updated_at
	FROM tasks
	WHERE user_id = $1
	  AND ($2 = '' OR category = $2)
	ORDER BY created_at DESC
	LIMIT $3 OFFSET $4
	`
	rows, err := r.pool.Query(ctx, query, filter.UserID, filter.Category, clampLimit(filter.Limit), filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range tasks {
		if err := r.loadChildren(ctx, &tasks[i]); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

func (r *taskRepository) CreateAggregate(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const insertTask = `
	INSERT INTO tasks (id, user_id, title, description, due_date, priority, category, current_progress)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING created_at, updated_at
	`
	if err := tx.QueryRow(ctx, insertTask,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.DueDate,
		task.Priority,
		task.Category,
		task.CurrentProgress,
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, err
	}

	if err := insertAssignments(ctx, tx, task); err != nil {
		return nil, err
	}
	if err := insertSubtasks(ctx, tx, task); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) UpdateAggregate(ctx context.Context, task *domain.Task, replaceAssignments, replaceSubtasks bool) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const updateTask = `
	UPDATE tasks
	SET title = $3,
		description = $4,
		due_date = $5,
		priority = $6,
		category = $7,
		current_progress = $8,
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING updated_at
	`
	if err := tx.QueryRow(ctx, updateTask,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.DueDate,
		task.Priority,
		task.Category,
		task.CurrentProgress,
	).Scan(&task.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		return err
	}

	if replaceAssignments {
		if _, err := tx.Exec(ctx, `DELETE FROM task_contacts WHERE task_id = $1`, task.ID); err != nil {
			return err
		}
		if err := insertAssignments(ctx, tx, task); err != nil {
			return err
		}
	}

	if replaceSubtasks {
		if _, err := tx.Exec(ctx, `DELETE FROM subtasks WHERE task_id = $1`, task.ID); err != nil {
			return err
		}
		if err := insertSubtasks(ctx, tx, task); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *taskRepository) Delete(ctx context.Context, ownerID, id string) error {
	const query = `DELETE FROM tasks WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func insertAssignments(ctx context.Context, tx pgx.Tx, task *domain.Task) error {
	const query = `
	INSERT INTO task_contacts (task_id, contact_id)
	VALUES ($1, $2)
	ON CONFLICT DO NOTHING
	`
	for _, contact := range task.AssignedTo {
		if _, err := tx.Exec(ctx, query, task.ID, contact.ID); err != nil {
			return err
		}
	}
	return nil
}

func insertSubtasks(ctx context.Context, tx pgx.Tx, task *domain.Task) error {
	const query = `
	INSERT INTO subtasks (id, task_id, name, done, position)
	VALUES ($1, $2, $3, $4, $5)
	`
	for i := range task.Subtasks {
		st := &task.Subtasks[i]
		if st.ID == "" {
			st.ID = uuid.NewString()
		}
		st.TaskID = task.ID
		if _, err := tx.Exec(ctx, query, st.ID, st.TaskID, st.Name, st.Done, i); err != nil {
			return err
		}
	}
	return nil
}

func (r *taskRepository) loadChildren(ctx context.Context, task *domain.Task) error {
	const subtaskQuery = `
	SELECT id, task_id, name, done
	FROM subtasks
	WHERE task_id = $1
	ORDER BY position, id
	`
	rows, err := r.pool.Query(ctx, subtaskQuery, task.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var st domain.Subtask
		if err := rows.Scan(&st.ID, &st.TaskID, &st.Name, &st.Done); err != nil {
			return err
		}
		task.Subtasks = append(task.Subtasks, st)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	const contactQuery = `
	SELECT c.id, c.user_id, c.name, c.email, c.phone, c.color, c.created_at, c.updated_at
	FROM contacts c
	JOIN task_contacts tc ON tc.contact_id = c.id
	WHERE tc.task_id = $1
	ORDER BY c.name, c.id
	`
	contactRows, err := r.pool.Query(ctx, contactQuery, task.ID)
	if err != nil {
		return err
	}
	defer contactRows.Close()
	contacts, err := collectContacts(contactRows)
	if err != nil {
		return err
	}
	task.AssignedTo = contacts
	return nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.DueDate,
		&task.Priority,
		&task.Category,
		&task.CurrentProgress,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}
