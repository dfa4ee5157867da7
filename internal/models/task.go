package models

import "time"

// Task status values. The status field is a two-state lifecycle flag; every
// transition between the two values is reachable from either side.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// IsValidStatus reports whether s is one of the two recognised task statuses.
func IsValidStatus(s string) bool {
	return s == StatusPending || s == StatusCompleted
}

// Task represents a single to-do item owned by exactly one user.
type Task struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
