package models

import "time"

// User represents an application user record. The password column is only
// ever stored as a bcrypt hash and is excluded from JSON output.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Sanitize returns a copy of the user without sensitive fields populated.
func (u User) Sanitize() User {
	u.PasswordHash = ""
	return u
}
