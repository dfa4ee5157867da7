package tasks_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/asilvr/taskdeck/internal/models"
	"github.com/asilvr/taskdeck/internal/tasks"
)

// fakeStore mimics the postgres task store: user-scoped statements, (nil, nil)
// misses, updated_at refreshed on every write.
type fakeStore struct {
	nextID int64
	clock  time.Time
	rows   map[int64]models.Task
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		clock: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		rows:  make(map[int64]models.Task),
	}
}

// tick advances the fake clock so consecutive writes get distinct timestamps.
func (s *fakeStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *fakeStore) Insert(_ context.Context, userID int64, title, description string) (*models.Task, error) {
	s.nextID++
	now := s.tick()
	task := models.Task{
		ID:          s.nextID,
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      models.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.rows[task.ID] = task
	return &task, nil
}

func (s *fakeStore) GetForUser(_ context.Context, userID, taskID int64) (*models.Task, error) {
	task, ok := s.rows[taskID]
	if !ok || task.UserID != userID {
		return nil, nil
	}
	return &task, nil
}

func (s *fakeStore) ListForUser(_ context.Context, userID int64, status string) ([]models.Task, error) {
	list := make([]models.Task, 0)
	for _, task := range s.rows {
		if task.UserID != userID {
			continue
		}
		if status != "" && task.Status != status {
			continue
		}
		list = append(list, task)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (s *fakeStore) UpdateForUser(_ context.Context, userID, taskID int64, title, description, status string) (*models.Task, error) {
	task, ok := s.rows[taskID]
	if !ok || task.UserID != userID {
		return nil, nil
	}
	task.Title = title
	task.Description = description
	task.Status = status
	task.UpdatedAt = s.tick()
	s.rows[taskID] = task
	return &task, nil
}

func (s *fakeStore) DeleteForUser(_ context.Context, userID, taskID int64) (bool, error) {
	task, ok := s.rows[taskID]
	if !ok || task.UserID != userID {
		return false, nil
	}
	delete(s.rows, taskID)
	return true, nil
}

func strPtr(s string) *string { return &s }

func TestCreateDefaultsToPendingWithEmptyDescription(t *testing.T) {
	svc := tasks.NewService(newFakeStore())

	task, err := svc.Create(context.Background(), 1, "buy milk", "")
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}
	if task.Status != models.StatusPending {
		t.Fatalf("expected status pending, got %s", task.Status)
	}
	if task.Description != "" {
		t.Fatalf("expected empty description, got %q", task.Description)
	}
	if task.UserID != 1 {
		t.Fatalf("expected owner 1, got %d", task.UserID)
	}
}

func TestCreateRejectsEmptyTitle(t *testing.T) {
	svc := tasks.NewService(newFakeStore())

	if _, err := svc.Create(context.Background(), 1, "", "whatever"); !errors.Is(err, tasks.ErrTitleRequired) {
		t.Fatalf("expected title required error, got %v", err)
	}
}

func TestGetDoesNotLeakOtherUsersTasks(t *testing.T) {
	store := newFakeStore()
	svc := tasks.NewService(store)

	created, err := svc.Create(context.Background(), 1, "private", "")
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}

	if _, err := svc.Get(context.Background(), 2, created.ID); !errors.Is(err, tasks.ErrNotFound) {
		t.Fatalf("expected not found for foreign task, got %v", err)
	}
	if _, err := svc.Get(context.Background(), 1, 9999); !errors.Is(err, tasks.ErrNotFound) {
		t.Fatalf("expected not found for missing task, got %v", err)
	}
}

func TestToggleIsItsOwnInverse(t *testing.T) {
	store := newFakeStore()
	svc := tasks.NewService(store)

	created, err := svc.Create(context.Background(), 1, "buy milk", "")
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}

	once, err := svc.Toggle(context.Background(), 1, created.ID)
	if err != nil {
		t.Fatalf("toggle returned error: %v", err)
	}
	if once.Status != models.StatusCompleted {
		t.Fatalf("expected completed after first toggle, got %s", once.Status)
	}
	if !once.UpdatedAt.After(created.UpdatedAt) {
		t.Fatalf("expected updated_at to increase on toggle")
	}

	twice, err := svc.Toggle(context.Background(), 1, created.ID)
	if err != nil {
		t.Fatalf("toggle returned error: %v", err)
	}
	if twice.Status != created.Status {
		t.Fatalf("expected status restored after double toggle, got %s", twice.Status)
	}
	if !twice.UpdatedAt.After(once.UpdatedAt) {
		t.Fatalf("expected updated_at to increase on second toggle")
	}
}

func TestListFiltersAndOrders(t *testing.T) {
	store := newFakeStore()
	svc := tasks.NewService(store)
	ctx := context.Background()

	first, _ := svc.Create(ctx, 1, "first", "")
	second, _ := svc.Create(ctx, 1, "second", "")
	third, _ := svc.Create(ctx, 1, "third", "")
	svc.Create(ctx, 2, "other user", "")

	if _, err := svc.Toggle(ctx, 1, second.ID); err != nil {
		t.Fatalf("toggle returned error: %v", err)
	}

	all, err := svc.List(ctx, 1, "")
	if err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(all))
	}
	if all[0].ID != third.ID || all[2].ID != first.ID {
		t.Fatalf("expected newest-first ordering, got %v", []int64{all[0].ID, all[1].ID, all[2].ID})
	}

	pending, err := svc.List(ctx, 1, models.StatusPending)
	if err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending tasks, got %d", len(pending))
	}
	for _, task := range pending {
		if task.Status != models.StatusPending {
			t.Fatalf("pending filter returned status %s", task.Status)
		}
	}

	// An unrecognised filter value behaves exactly like no filter.
	bogus, err := svc.List(ctx, 1, "bogus")
	if err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if len(bogus) != len(all) {
		t.Fatalf("expected bogus filter to be ignored, got %d tasks", len(bogus))
	}
}

func TestUpdatePartialSemantics(t *testing.T) {
	store := newFakeStore()
	svc := tasks.NewService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, "buy milk", "two litres")
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}

	// Omitted fields keep their prior value.
	updated, err := svc.Update(ctx, 1, created.ID, tasks.UpdateInput{
		Status: strPtr(models.StatusCompleted),
	})
	if err != nil {
		t.Fatalf("update returned error: %v", err)
	}
	if updated.Title != "buy milk" || updated.Description != "two litres" {
		t.Fatalf("expected unspecified fields unchanged, got %q / %q", updated.Title, updated.Description)
	}
	if updated.Status != models.StatusCompleted {
		t.Fatalf("expected status completed, got %s", updated.Status)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Fatalf("expected updated_at refreshed")
	}

	// An explicit empty string is a real value, not an omission.
	cleared, err := svc.Update(ctx, 1, created.ID, tasks.UpdateInput{
		Description: strPtr(""),
	})
	if err != nil {
		t.Fatalf("update returned error: %v", err)
	}
	if cleared.Description != "" {
		t.Fatalf("expected description cleared, got %q", cleared.Description)
	}
	if cleared.Title != "buy milk" {
		t.Fatalf("expected title unchanged, got %q", cleared.Title)
	}
}

func TestUpdateRejectsInvalidStatus(t *testing.T) {
	store := newFakeStore()
	svc := tasks.NewService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, "buy milk", "")
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}

	if _, err := svc.Update(ctx, 1, created.ID, tasks.UpdateInput{
		Status: strPtr("bogus"),
	}); !errors.Is(err, tasks.ErrInvalidStatus) {
		t.Fatalf("expected invalid status error, got %v", err)
	}

	// Ownership is checked before status validation: an unknown task with a
	// bogus status still reads as not found.
	if _, err := svc.Update(ctx, 1, 9999, tasks.UpdateInput{
		Status: strPtr("bogus"),
	}); !errors.Is(err, tasks.ErrNotFound) {
		t.Fatalf("expected not found before status validation, got %v", err)
	}
}

func TestUpdateScopedToOwner(t *testing.T) {
	store := newFakeStore()
	svc := tasks.NewService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, "buy milk", "")
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}

	if _, err := svc.Update(ctx, 2, created.ID, tasks.UpdateInput{
		Title: strPtr("stolen"),
	}); !errors.Is(err, tasks.ErrNotFound) {
		t.Fatalf("expected not found for foreign update, got %v", err)
	}
	if _, err := svc.Toggle(ctx, 2, created.ID); !errors.Is(err, tasks.ErrNotFound) {
		t.Fatalf("expected not found for foreign toggle, got %v", err)
	}
	if _, err := svc.Delete(ctx, 2, created.ID); !errors.Is(err, tasks.ErrNotFound) {
		t.Fatalf("expected not found for foreign delete, got %v", err)
	}
}

func TestDeleteReturnsPriorStateAndRemovesRow(t *testing.T) {
	store := newFakeStore()
	svc := tasks.NewService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, "buy milk", "")
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}

	deleted, err := svc.Delete(ctx, 1, created.ID)
	if err != nil {
		t.Fatalf("delete returned error: %v", err)
	}
	if deleted.ID != created.ID || deleted.Title != "buy milk" {
		t.Fatalf("expected prior task state returned, got %+v", deleted)
	}

	if _, err := svc.Get(ctx, 1, created.ID); !errors.Is(err, tasks.ErrNotFound) {
		t.Fatalf("expected task gone after delete, got %v", err)
	}
}
