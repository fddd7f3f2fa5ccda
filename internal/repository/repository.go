package repository

import (
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id string) (*models.User, error)

	// FindByEmail finds a user by email, case-insensitively
	FindByEmail(email string) (*models.User, error)

	// List returns all users ordered by name
	List() ([]models.User, error)

	// Count returns the number of users
	Count() (int64, error)
}

// SnapshotRepository stores serialized board states
type SnapshotRepository interface {
	// Save appends a snapshot
	Save(snapshot *models.BoardSnapshot) error

	// Latest returns the newest snapshot, or ErrNoSnapshot
	Latest() (*models.BoardSnapshot, error)

	// List returns snapshot metadata, newest first
	List(params utils.PaginationParams) ([]models.BoardSnapshot, int64, error)

	// Prune keeps the newest keep snapshots and deletes the rest
	Prune(keep int) error
}

// PreferenceRepository is a per-user key-value store
type PreferenceRepository interface {
	// Get returns the raw value, or ErrPreferenceNotFound
	Get(userID, key string) (string, error)

	// Put creates or replaces the value
	Put(userID, key, value string) error

	// Delete removes the value; missing keys are ignored
	Delete(userID, key string) error
}
