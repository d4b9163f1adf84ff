package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)

type Repository interface {
	// CreateWithRegistration stores the user and its role bucket entry atomically.
	CreateWithRegistration(ctx context.Context, u User, reg Registration) error
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	FindRegistration(ctx context.Context, role Role, userID uuid.UUID) (Registration, error)
}
