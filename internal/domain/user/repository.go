package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for user data access
type Repository interface {
	// Create returns ErrEmailTaken when the email already exists.
	Create(ctx context.Context, params CreateUserParams) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	// GetByEmail matches case-insensitively and returns ErrUserNotFound.
	GetByEmail(ctx context.Context, email string) (*User, error)
}
