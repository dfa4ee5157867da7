package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/asilvr/taskdeck/internal/models"
)

// Tasks is the postgres-backed task store. Every statement is scoped by
// user_id; a task owned by another user is indistinguishable from one that
// does not exist. Single-row lookups return (nil, nil) when nothing matches.
type Tasks struct {
	pg *Postgres
}

func NewTasks(pg *Postgres) *Tasks {
	return &Tasks{pg: pg}
}

const taskColumns = "id, user_id, title, description, status, created_at, updated_at"

func (s *Tasks) Insert(ctx context.Context, userID int64, title, description string) (*models.Task, error) {
	query := "INSERT INTO tasks (user_id, title, description, status) VALUES ($1, $2, $3, $4) RETURNING " + taskColumns

	var task models.Task
	err := s.pg.Pool.QueryRow(ctx, query, userID, title, description, models.StatusPending).
		Scan(&task.ID, &task.UserID, &task.Title, &task.Description, &task.Status, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("tasks: insert: %w", err)
	}

	return &task, nil
}

func (s *Tasks) GetForUser(ctx context.Context, userID, taskID int64) (*models.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks WHERE id = $1 AND user_id = $2"
	return s.queryOne(ctx, query, taskID, userID)
}

// ListForUser returns the user's tasks newest first. A status outside the two
// recognised values is ignored rather than rejected.
func (s *Tasks) ListForUser(ctx context.Context, userID int64, status string) ([]models.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks WHERE user_id = $1"
	args := []any{userID}

	if models.IsValidStatus(status) {
		query += " AND status = $2"
		args = append(args, status)
	}

	query += " ORDER BY created_at DESC"

	rows, err := s.pg.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("tasks: list: %w", err)
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(&task.ID, &task.UserID, &task.Title, &task.Description, &task.Status, &task.CreatedAt, &task.UpdatedAt); err != nil {
			return nil, fmt.Errorf("tasks: scan: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("tasks: list: %w", err)
	}

	return tasks, nil
}

// UpdateForUser writes the merged row and refreshes updated_at. Returns
// (nil, nil) when no row matched the id/owner pair.
func (s *Tasks) UpdateForUser(ctx context.Context, userID, taskID int64, title, description, status string) (*models.Task, error) {
	query := "UPDATE tasks SET title = $1, description = $2, status = $3, updated_at = NOW() " +
		"WHERE id = $4 AND user_id = $5 RETURNING " + taskColumns
	return s.queryOne(ctx, query, title, description, status, taskID, userID)
}

func (s *Tasks) DeleteForUser(ctx context.Context, userID, taskID int64) (bool, error) {
	tag, err := s.pg.Pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1 AND user_id = $2", taskID, userID)
	if err != nil {
		return false, fmt.Errorf("tasks: delete: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (s *Tasks) queryOne(ctx context.Context, query string, args ...any) (*models.Task, error) {
	var task models.Task
	err := s.pg.Pool.QueryRow(ctx, query, args...).
		Scan(&task.ID, &task.UserID, &task.Title, &task.Description, &task.Status, &task.CreatedAt, &task.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("tasks: query: %w", err)
	}

	return &task, nil
}
