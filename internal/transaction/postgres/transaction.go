package postgres

import (
	txDatamodel "github.com/frahmantamala/dues-management/internal/core/datamodel/transaction"
	"github.com/frahmantamala/dues-management/internal/transaction"
	"gorm.io/gorm"
)

// TransactionRepository implements the transaction.Repository interface
// using GORM
type TransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new cash ledger repository
func NewTransactionRepository(db *gorm.DB) transaction.Repository {
	return &TransactionRepository{db: db}
}

// Create appends one cash entry
func (r *TransactionRepository) Create(row *txDatamodel.Transaction) error {
	return r.db.Create(row).Error
}

// GetAll retrieves every cash entry newest-first
func (r *TransactionRepository) GetAll() ([]*txDatamodel.Transaction, error) {
	var rows []*txDatamodel.Transaction
	err := r.db.Order("timestamp_ms DESC").Find(&rows).Error
	return rows, err
}
