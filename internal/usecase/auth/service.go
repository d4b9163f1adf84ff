package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"helperhub/internal/domain/user"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidInput           = errors.New("invalid input")
	ErrPasswordMismatch       = errors.New("passwords do not match")
	ErrInternal               = errors.New("internal error")
)

const minPasswordLength = 8

// decoyHash is compared against when the email is unknown so a failed login
// costs the same bcrypt work either way.
var decoyHash, _ = bcrypt.GenerateFromPassword([]byte("helperhub-decoy-password"), bcrypt.DefaultCost)

type SignupInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	Name            string
	Phone           string
	Role            string
}

type LoginInput struct {
	Email    string
	Password string
}

type Service struct {
	users user.Repository
	now   func() time.Time
}

func NewService(users user.Repository) *Service {
	return &Service{users: users, now: time.Now}
}

// Signup creates the account and its single role bucket entry.
func (s *Service) Signup(ctx context.Context, in SignupInput) (user.User, user.Role, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return user.User{}, "", fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	role, ok := user.ParseRole(in.Role)
	if !ok {
		return user.User{}, "", fmt.Errorf("%w: role must be employer or jobSeeker", ErrInvalidInput)
	}
	if in.Password != in.ConfirmPassword {
		return user.User{}, "", ErrPasswordMismatch
	}
	if !isValidPassword(in.Password) {
		return user.User{}, "", fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return user.User{}, "", ErrEmailAlreadyRegistered
	} else if !errors.Is(err, user.ErrNotFound) {
		return user.User{}, "", ErrInternal
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, "", ErrInternal
	}

	now := s.now().UTC()
	u := user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  strings.TrimSpace(in.Name),
		Phone:        strings.TrimSpace(in.Phone),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	reg := user.Registration{
		UserID:    u.ID,
		Role:      role,
		Name:      u.DisplayName,
		Email:     u.Email,
		Phone:     u.Phone,
		CreatedAt: now,
	}

	if err := s.users.CreateWithRegistration(ctx, u, reg); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return user.User{}, "", ErrEmailAlreadyRegistered
		}
		return user.User{}, "", ErrInternal
	}

	return sanitizeUser(u), role, nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (user.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return user.User{}, ErrInvalidCredentials
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(decoyHash, []byte(in.Password))
			return user.User{}, ErrInvalidCredentials
		}
		return user.User{}, ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return user.User{}, ErrInvalidCredentials
	}

	return sanitizeUser(u), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isValidPassword(pw string) bool {
	return len(strings.TrimSpace(pw)) >= minPasswordLength
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
