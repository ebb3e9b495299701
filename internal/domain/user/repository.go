package user

import "context"

// Repository defines the interface for user data operations
type Repository interface {
	// Create persists a new user and assigns its ID
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID, nil when it does not exist
	GetByID(ctx context.Context, id uint) (*User, error)

	// UpdateName stores first and last name
	UpdateName(ctx context.Context, user *User) error

	// ListIDs returns the IDs of all users
	ListIDs(ctx context.Context) ([]uint, error)
}
