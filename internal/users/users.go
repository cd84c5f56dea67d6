package users

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// User is a registered account.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
}

// View is the public projection of a User.
type View struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (u User) View() View {
	return View{ID: u.ID, Email: u.Email}
}

// Repository stores users. Create returns ErrAlreadyExists for a taken
// email; lookups return ErrNotFound.
type Repository interface {
	Create(ctx context.Context, email string, passwordHash []byte) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
	CountUsers(ctx context.Context) (int, error)
}

// Service implements registration and credential checks.
type Service struct {
	repo Repository
	cost int
}

// Option configures a Service.
type Option func(*Service)

// WithBcryptCost overrides bcrypt.DefaultCost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		s.cost = cost
	}
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an account for email.
func (s *Service) Register(ctx context.Context, email, password string) (User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return User{}, ErrMissingEmail
	}
	if password == "" {
		return User{}, ErrMissingPassword
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return User{}, ErrAlreadyExists
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return User{}, errors.Join(ErrHashPassword, err)
	}

	return s.repo.Create(ctx, email, hash)
}

// Authenticate returns the user whose credentials match. Unknown emails and
// wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	u, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}

	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) CountUsers(ctx context.Context) (int, error) {
	return s.repo.CountUsers(ctx)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
