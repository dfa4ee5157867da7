package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/asilvr/taskdeck/internal/models"
)

// Users is the postgres-backed user store. Lookups that find no row return
// (nil, nil) so callers can decide how absence should surface.
type Users struct {
	pg *Postgres
}

func NewUsers(pg *Postgres) *Users {
	return &Users{pg: pg}
}

const userColumns = "id, username, email, password, created_at"

func (s *Users) Create(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	query := "INSERT INTO users (username, email, password) VALUES ($1, $2, $3) RETURNING " + userColumns

	var user models.User
	err := s.pg.Pool.QueryRow(ctx, query, username, email, passwordHash).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("users: insert: %w", err)
	}

	return &user, nil
}

func (s *Users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE email = $1"
	return s.queryOne(ctx, query, email)
}

// FindByUsernameOrEmail is the duplicate-registration probe. Both matches are
// case-sensitive and exact.
func (s *Users) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE username = $1 OR email = $2"
	return s.queryOne(ctx, query, username, email)
}

func (s *Users) queryOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	var user models.User
	err := s.pg.Pool.QueryRow(ctx, query, args...).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("users: query: %w", err)
	}

	return &user, nil
}
