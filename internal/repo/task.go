package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fmoreau/taskdeck/internal/models"
)

// ==========================
// TaskRepo
// ==========================
//
// Every query is scoped by user_id, so a task owned by someone else is
// indistinguishable from a task that does not exist.
type TaskRepo struct {
	DB *sql.DB
}

func NewTaskRepo(db *sql.DB) *TaskRepo {
	return &TaskRepo{DB: db}
}

// TaskUpdate is a partial update; nil fields are left unchanged.
type TaskUpdate struct {
	Title       *string
	Description *string
	Completed   *bool
}

// ==========================
// Create Task
// ==========================
func (r *TaskRepo) Create(ctx context.Context, userID uuid.UUID, title, description string, completed bool) (*models.Task, error) {
	now := time.Now().UTC()
	task := &models.Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Completed:   completed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	query := `
		INSERT INTO tasks (id, user_id, title, description, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.DB.ExecContext(ctx, query,
		task.ID, task.UserID, task.Title, task.Description, task.Completed, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	return task, nil
}

// ==========================
// List Tasks (newest-created-first)
// ==========================
func (r *TaskRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Task, error) {
	query := `
		SELECT id, user_id, title, description, completed, created_at, updated_at
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("select tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}

	return tasks, nil
}

// ==========================
// Get By ID (owner-scoped)
// ==========================
func (r *TaskRepo) GetByID(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error) {
	query := `
		SELECT id, user_id, title, description, completed, created_at, updated_at
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`

	task := &models.Task{}

	err := r.DB.QueryRowContext(ctx, query, taskID, userID).
		Scan(&task.ID, &task.UserID, &task.Title, &task.Description, &task.Completed, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select task: %w", err)
	}

	return task, nil
}

// ==========================
// Update (partial, owner-scoped; always refreshes updated_at)
// ==========================
func (r *TaskRepo) Update(ctx context.Context, userID, taskID uuid.UUID, upd TaskUpdate) (*models.Task, error) {
	query := `
		UPDATE tasks
		SET title = COALESCE($1, title),
		    description = COALESCE($2, description),
		    completed = COALESCE($3, completed),
		    updated_at = $4
		WHERE id = $5 AND user_id = $6
		RETURNING id, user_id, title, description, completed, created_at, updated_at
	`

	task := &models.Task{}

	err := r.DB.QueryRowContext(ctx, query,
		upd.Title, upd.Description, upd.Completed, time.Now().UTC(), taskID, userID).
		Scan(&task.ID, &task.UserID, &task.Title, &task.Description, &task.Completed, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}

	return task, nil
}

// ==========================
// Delete (owner-scoped; second delete of the same id reports ErrNotFound)
// ==========================
func (r *TaskRepo) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, taskID, userID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task rows: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}
