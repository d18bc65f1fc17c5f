package postgres

import (
	"time"

	duesDatamodel "github.com/frahmantamala/dues-management/internal/core/datamodel/dues"
	"github.com/frahmantamala/dues-management/internal/dues"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerRepository implements the dues.Repository interface using GORM
type LedgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new daily ledger repository
func NewLedgerRepository(db *gorm.DB) dues.Repository {
	return &LedgerRepository{db: db}
}

// IncrementCell merge-adds an amount into one (resident, date) cell,
// inserting the row when it does not exist yet.
func (r *LedgerRepository) IncrementCell(residentID, date string, amountIDR int64) error {
	now := time.Now()
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "resident_id"}, {Name: "entry_date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"amount_idr": gorm.Expr("dues_entries.amount_idr + ?", amountIDR),
			"updated_at": now,
		}),
	}).Create(&duesDatamodel.Entry{
		ResidentID: residentID,
		EntryDate:  date,
		AmountIDR:  amountIDR,
		CreatedAt:  now,
		UpdatedAt:  now,
	}).Error
}

// GetAll retrieves every ledger row
func (r *LedgerRepository) GetAll() ([]*duesDatamodel.Entry, error) {
	var rows []*duesDatamodel.Entry
	err := r.db.Order("resident_id ASC, entry_date ASC").Find(&rows).Error
	return rows, err
}

// GetByResident retrieves one resident's ledger rows
func (r *LedgerRepository) GetByResident(residentID string) ([]*duesDatamodel.Entry, error) {
	var rows []*duesDatamodel.Entry
	err := r.db.Where("resident_id = ?", residentID).
		Order("entry_date ASC").
		Find(&rows).Error
	return rows, err
}
