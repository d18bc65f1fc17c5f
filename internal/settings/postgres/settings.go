package postgres

import (
	settingsDatamodel "github.com/frahmantamala/dues-management/internal/core/datamodel/settings"
	"github.com/frahmantamala/dues-management/internal/settings"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsRepository implements the settings.Repository interface using
// GORM
type SettingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB) settings.Repository {
	return &SettingsRepository{db: db}
}

// Get retrieves one setting row
func (r *SettingsRepository) Get(key string) (*settingsDatamodel.Setting, error) {
	var row settingsDatamodel.Setting
	err := r.db.Where("key = ?", key).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// GetAll retrieves every setting row
func (r *SettingsRepository) GetAll() ([]*settingsDatamodel.Setting, error) {
	var rows []*settingsDatamodel.Setting
	err := r.db.Order("key ASC").Find(&rows).Error
	return rows, err
}

// Upsert inserts or overwrites one setting row
func (r *SettingsRepository) Upsert(row *settingsDatamodel.Setting) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(row).Error
}
