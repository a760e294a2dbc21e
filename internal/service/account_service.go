package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vbonduro/wishlist/internal/auth"
	"github.com/vbonduro/wishlist/internal/domain"
	"github.com/vbonduro/wishlist/internal/forms"
	"github.com/vbonduro/wishlist/internal/metrics"
)

// userRepository is the subset of store.UserStore that AccountService requires.
type userRepository interface {
	Create(ctx context.Context, username, passwordHash string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

type AccountService struct {
	users      userRepository
	bcryptCost int
	dummyHash  string
	logger     *slog.Logger
}

func NewAccountService(users userRepository, bcryptCost int, logger *slog.Logger) (*AccountService, error) {
	// Compared against when the username is unknown so that both failure
	// paths spend the same time in bcrypt.
	dummyHash, err := auth.HashPassword("wishlist-unknown-user", bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare password hasher: %w", err)
	}
	return &AccountService{users: users, bcryptCost: bcryptCost, dummyHash: dummyHash, logger: logger}, nil
}

// Register validates form and creates the account. Invalid input, including
// a username that is already taken, returns forms.Errors.
func (s *AccountService) Register(ctx context.Context, form *forms.RegisterForm) (*domain.User, error) {
	if err := form.Clean(); err != nil {
		metrics.RecordAuthAttempt("register", false)
		return nil, err
	}

	hash, err := auth.HashPassword(form.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.Create(ctx, form.Username, hash)
	if errors.Is(err, domain.ErrUsernameTaken) {
		metrics.RecordAuthAttempt("register", false)
		return nil, forms.Errors{"username": "A user with that username already exists."}
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID)
	metrics.RecordAuthAttempt("register", true)
	return user, nil
}

// Authenticate checks the credentials in form. Unknown users and wrong
// passwords both return domain.ErrInvalidCredentials.
func (s *AccountService) Authenticate(ctx context.Context, form *forms.LoginForm) (*domain.User, error) {
	if err := form.Clean(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByUsername(ctx, form.Username)
	if errors.Is(err, domain.ErrNotFound) {
		_ = auth.ComparePassword(s.dummyHash, form.Password)
		metrics.RecordAuthAttempt("login", false)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := auth.ComparePassword(user.PasswordHash, form.Password); err != nil {
		metrics.RecordAuthAttempt("login", false)
		return nil, domain.ErrInvalidCredentials
	}

	metrics.RecordAuthAttempt("login", true)
	return user, nil
}

func (s *AccountService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}
