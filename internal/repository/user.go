package repository

import (
	"context"

	"github.com/SAITARUN432/backendblog/internal/models"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// GetByEmail returns (nil, nil) when no user has that email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}
