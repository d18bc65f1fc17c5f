package postgres

import (
	"github.com/frahmantamala/dues-management/internal/backup"
	duesDatamodel "github.com/frahmantamala/dues-management/internal/core/datamodel/dues"
	residentDatamodel "github.com/frahmantamala/dues-management/internal/core/datamodel/resident"
	txDatamodel "github.com/frahmantamala/dues-management/internal/core/datamodel/transaction"
	"gorm.io/gorm"
)

// BackupStore implements the backup.Store interface using GORM
type BackupStore struct {
	db *gorm.DB
}

// NewBackupStore creates a new whole-state store
func NewBackupStore(db *gorm.DB) backup.Store {
	return &BackupStore{db: db}
}

// ReplaceEverything swaps all three tables inside a single database
// transaction so a failed import cannot leave mixed state behind.
func (s *BackupStore) ReplaceEverything(
	residents []*residentDatamodel.Resident,
	transactions []*txDatamodel.Transaction,
	ledger []*duesDatamodel.Entry,
) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&duesDatamodel.Entry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&txDatamodel.Transaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&residentDatamodel.Resident{}).Error; err != nil {
			return err
		}

		if len(residents) > 0 {
			if err := tx.CreateInBatches(residents, 200).Error; err != nil {
				return err
			}
		}
		if len(transactions) > 0 {
			if err := tx.CreateInBatches(transactions, 200).Error; err != nil {
				return err
			}
		}
		if len(ledger) > 0 {
			if err := tx.CreateInBatches(ledger, 200).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
