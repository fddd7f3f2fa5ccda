package repository

import (
	"errors"
	"fmt"

	"github.com/yukikurage/taskboard-api/internal/database"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/utils"
	"gorm.io/gorm"
)

// ErrNoSnapshot is returned when nothing has been saved yet
var ErrNoSnapshot = errors.New("snapshot repository: no snapshot")

// GormSnapshotRepository is a GORM implementation of SnapshotRepository
type GormSnapshotRepository struct {
	db *gorm.DB
}

// NewSnapshotRepository creates a new SnapshotRepository
func NewSnapshotRepository(db *gorm.DB) SnapshotRepository {
	return &GormSnapshotRepository{db: db}
}

// Save appends a snapshot
func (r *GormSnapshotRepository) Save(snapshot *models.BoardSnapshot) error {
	return r.db.Create(snapshot).Error
}

// Latest returns the newest snapshot
func (r *GormSnapshotRepository) Latest() (*models.BoardSnapshot, error) {
	var snapshot models.BoardSnapshot
	err := r.db.Scopes(database.Newest).First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// List returns snapshot metadata without the state payload
func (r *GormSnapshotRepository) List(params utils.PaginationParams) ([]models.BoardSnapshot, int64, error) {
	var total int64
	if err := r.db.Model(&models.BoardSnapshot{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var snapshots []models.BoardSnapshot
	err := r.db.Model(&models.BoardSnapshot{}).
		Select("id", "boards", "tasks", "created_at").
		Scopes(database.Newest, database.Paginate(params)).
		Find(&snapshots).Error
	if err != nil {
		return nil, 0, err
	}
	return snapshots, total, nil
}

// Prune keeps the newest keep snapshots
func (r *GormSnapshotRepository) Prune(keep int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var ids []uint64
		err := tx.Model(&models.BoardSnapshot{}).
			Scopes(database.Newest).
			Pluck("id", &ids).Error
		if err != nil {
			return fmt.Errorf("failed to select old snapshots: %w", err)
		}
		if len(ids) <= keep {
			return nil
		}
		if err := tx.Where("id IN ?", ids[keep:]).Delete(&models.BoardSnapshot{}).Error; err != nil {
			return fmt.Errorf("failed to delete old snapshots: %w", err)
		}
		return nil
	})
}
