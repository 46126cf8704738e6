package repository

import (
	"context"

	"trolleyseal/models"
)

// UserRepository defines the interface for user operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.AppUser) error
	// GetUserByEmail returns nil, nil when no user matches.
	GetUserByEmail(ctx context.Context, email string) (*models.AppUser, error)
	// GetUsersByIDs resolves display names for a set of distinct user ids
	// in one lookup.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.AppUser, error)
}
