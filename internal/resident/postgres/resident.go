package postgres

import (
	"time"

	residentDatamodel "github.com/frahmantamala/dues-management/internal/core/datamodel/resident"
	"github.com/frahmantamala/dues-management/internal/resident"
	"gorm.io/gorm"
)

// ResidentRepository implements the resident.Repository interface using GORM
type ResidentRepository struct {
	db *gorm.DB
}

// NewResidentRepository creates a new resident repository
func NewResidentRepository(db *gorm.DB) resident.Repository {
	return &ResidentRepository{db: db}
}

// Create saves a new resident
func (r *ResidentRepository) Create(row *residentDatamodel.Resident) error {
	return r.db.Create(row).Error
}

// GetByID retrieves a resident by id
func (r *ResidentRepository) GetByID(id string) (*residentDatamodel.Resident, error) {
	var row residentDatamodel.Resident
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// GetAll retrieves every resident
func (r *ResidentRepository) GetAll() ([]*residentDatamodel.Resident, error) {
	var rows []*residentDatamodel.Resident
	err := r.db.Order("name ASC").Find(&rows).Error
	return rows, err
}

// Update saves an edited resident
func (r *ResidentRepository) Update(row *residentDatamodel.Resident) error {
	row.UpdatedAt = time.Now()
	return r.db.Save(row).Error
}

// Delete removes a resident row. Rows in other tables that reference
// the id are intentionally left alone.
func (r *ResidentRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&residentDatamodel.Resident{}).Error
}
