package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/asilvr/taskdeck/internal/models"
)

var (
	ErrSecretRequired     = errors.New("auth: jwt secret required")
	ErrMissingFields      = errors.New("auth: all fields are required")
	ErrUserExists         = errors.New("auth: user already exists")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrInvalidToken       = errors.New("auth: invalid token")
)

// UserStore is the slice of the storage port the auth service needs. Lookup
// methods return (nil, nil) when no row matches.
type UserStore interface {
	Create(ctx context.Context, username, email, passwordHash string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type Result struct {
	Token     string
	ExpiresAt time.Time
	User      models.User
}

// Claims is the bearer token payload: the owning user's id and username.
type Claims struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type Service struct {
	store  UserStore
	secret []byte
	ttl    time.Duration
}

func NewService(store UserStore, secret string, ttl time.Duration) (*Service, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrSecretRequired
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &Service{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
	}, nil
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (*Result, error) {
	if input.Username == "" || input.Email == "" || input.Password == "" {
		return nil, ErrMissingFields
	}

	// Duplicate probe is a single disjunctive lookup, case-sensitive on both
	// columns.
	existing, err := s.store.FindByUsernameOrEmail(ctx, input.Username, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.store.Create(ctx, input.Username, input.Email, string(hash))
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &Result{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user.Sanitize(),
	}, nil
}

// Login deliberately reports the same error for an unknown email and a wrong
// password so callers cannot enumerate accounts.
func (s *Service) Login(ctx context.Context, input LoginInput) (*Result, error) {
	if input.Email == "" || input.Password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.store.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &Result{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user.Sanitize(),
	}, nil
}

func (s *Service) VerifyToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *Service) generateToken(user *models.User) (string, time.Time, error) {
	expiresAt := time.Now().UTC().Add(s.ttl)
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}
