package tasks

import (
	"context"
	"errors"

	"github.com/asilvr/taskdeck/internal/models"
)

var (
	ErrNotFound      = errors.New("tasks: task not found")
	ErrTitleRequired = errors.New("tasks: title is required")
	ErrInvalidStatus = errors.New("tasks: invalid status value")
)

// Store is the slice of the storage port the task service depends on. Every
// implementation must scope each statement by the owning user id; single-row
// lookups return (nil, nil) on a miss.
type Store interface {
	Insert(ctx context.Context, userID int64, title, description string) (*models.Task, error)
	GetForUser(ctx context.Context, userID, taskID int64) (*models.Task, error)
	ListForUser(ctx context.Context, userID int64, status string) ([]models.Task, error)
	UpdateForUser(ctx context.Context, userID, taskID int64, title, description, status string) (*models.Task, error)
	DeleteForUser(ctx context.Context, userID, taskID int64) (bool, error)
}

// UpdateInput carries partial-update fields. A nil pointer means "leave
// unchanged", which is distinct from a pointer to the empty string.
type UpdateInput struct {
	Title       *string
	Description *string
	Status      *string
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns the user's tasks newest first. A statusFilter outside
// {pending, completed} is ignored, not rejected.
func (s *Service) List(ctx context.Context, userID int64, statusFilter string) ([]models.Task, error) {
	if !models.IsValidStatus(statusFilter) {
		statusFilter = ""
	}
	return s.store.ListForUser(ctx, userID, statusFilter)
}

func (s *Service) Get(ctx context.Context, userID, taskID int64) (*models.Task, error) {
	task, err := s.store.GetForUser(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrNotFound
	}
	return task, nil
}

func (s *Service) Create(ctx context.Context, userID int64, title, description string) (*models.Task, error) {
	if title == "" {
		return nil, ErrTitleRequired
	}
	return s.store.Insert(ctx, userID, title, description)
}

// Update applies a partial update. The ownership check runs before status
// validation, so an unknown task with a bogus status still reads as not found.
func (s *Service) Update(ctx context.Context, userID, taskID int64, input UpdateInput) (*models.Task, error) {
	task, err := s.Get(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if input.Status != nil && !models.IsValidStatus(*input.Status) {
		return nil, ErrInvalidStatus
	}

	title := task.Title
	if input.Title != nil {
		title = *input.Title
	}
	description := task.Description
	if input.Description != nil {
		description = *input.Description
	}
	status := task.Status
	if input.Status != nil {
		status = *input.Status
	}

	updated, err := s.store.UpdateForUser(ctx, userID, taskID, title, description, status)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// Delete removes the task and returns its prior state as confirmation.
func (s *Service) Delete(ctx context.Context, userID, taskID int64) (*models.Task, error) {
	task, err := s.Get(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	deleted, err := s.store.DeleteForUser(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, ErrNotFound
	}
	return task, nil
}

// Toggle flips the two-state status and refreshes updated_at. It is a pure
// pending/completed flip, not a free-form status setter.
func (s *Service) Toggle(ctx context.Context, userID, taskID int64) (*models.Task, error) {
	task, err := s.Get(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	status := models.StatusCompleted
	if task.Status == models.StatusCompleted {
		status = models.StatusPending
	}

	updated, err := s.store.UpdateForUser(ctx, userID, taskID, task.Title, task.Description, status)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}
