package repository

import (
	"errors"

	"github.com/yukikurage/taskboard-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrPreferenceNotFound is returned for unknown keys
var ErrPreferenceNotFound = errors.New("preference repository: not found")

// GormPreferenceRepository is a GORM implementation of PreferenceRepository
type GormPreferenceRepository struct {
	db *gorm.DB
}

// NewPreferenceRepository creates a new PreferenceRepository
func NewPreferenceRepository(db *gorm.DB) PreferenceRepository {
	return &GormPreferenceRepository{db: db}
}

// Get returns the stored value
func (r *GormPreferenceRepository) Get(userID, key string) (string, error) {
	if userID == "" || key == "" {
		return "", ErrPreferenceNotFound
	}
	var pref models.Preference
	err := r.db.Where(&models.Preference{UserID: userID, Key: key}).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrPreferenceNotFound
	}
	if err != nil {
		return "", err
	}
	return pref.Value, nil
}

// Put upserts the value
func (r *GormPreferenceRepository) Put(userID, key, value string) error {
	pref := models.Preference{UserID: userID, Key: key, Value: value}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&pref).Error
}

// Delete removes the value
func (r *GormPreferenceRepository) Delete(userID, key string) error {
	if userID == "" || key == "" {
		return nil
	}
	return r.db.Where(&models.Preference{UserID: userID, Key: key}).Delete(&models.Preference{}).Error
}
