package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/dues-management/internal"
	duesDatamodel "github.com/frahmantamala/dues-management/internal/core/datamodel/dues"
	residentDatamodel "github.com/frahmantamala/dues-management/internal/core/datamodel/resident"
	txDatamodel "github.com/frahmantamala/dues-management/internal/core/datamodel/transaction"
	"github.com/frahmantamala/dues-management/internal/core/events"
	"github.com/frahmantamala/dues-management/internal/dues"
	"github.com/frahmantamala/dues-management/internal/transaction"
)

// Store replaces the entire bookkeeping state atomically: either every
// table is swapped to the imported rows or none is.
type Store interface {
	ReplaceEverything(
		residents []*residentDatamodel.Resident,
		transactions []*txDatamodel.Transaction,
		ledger []*duesDatamodel.Entry,
	) error
}

// ResidentSource and friends are the export side seams.
type ResidentSource interface {
	ExportRows() ([]*residentDatamodel.Resident, error)
}

type TransactionSource interface {
	ExportRows() ([]*txDatamodel.Transaction, error)
}

type LedgerSource interface {
	ExportRows() ([]*duesDatamodel.Entry, error)
}

// EventPublisher is the slice of the event bus the service needs
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Service handles whole-state export and import
type Service struct {
	store        Store
	residents    ResidentSource
	transactions TransactionSource
	ledger       LedgerSource
	eventBus     EventPublisher
	logger       *slog.Logger
	now          func() time.Time
}

func NewService(store Store, residents ResidentSource, transactions TransactionSource, ledger LedgerSource, eventBus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		store:        store,
		residents:    residents,
		transactions: transactions,
		ledger:       ledger,
		eventBus:     eventBus,
		logger:       logger,
		now:          time.Now,
	}
}

// WithClock overrides the service time source, used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Export snapshots the whole state into one flat document.
func (s *Service) Export() (*Document, error) {
	residents, err := s.residents.ExportRows()
	if err != nil {
		s.logger.Error("backup export failed loading residents", "error", err)
		return nil, err
	}
	transactions, err := s.transactions.ExportRows()
	if err != nil {
		s.logger.Error("backup export failed loading transactions", "error", err)
		return nil, err
	}
	ledger, err := s.ledger.ExportRows()
	if err != nil {
		s.logger.Error("backup export failed loading ledger", "error", err)
		return nil, err
	}

	doc := &Document{
		Version:      DocumentVersion,
		ExportedAt:   s.now(),
		Residents:    residentRecords(residents),
		Transactions: transactionRecords(transactions),
		Ledger:       ledgerDocument(ledger),
	}
	s.logger.Info("backup exported",
		"residents", len(doc.Residents),
		"transactions", len(doc.Transactions),
		"ledger_cells", dues.Ledger(doc.Ledger).CellCount())
	return doc, nil
}

// ImportJSON parses raw bytes and imports the document. A document that
// does not parse or fails validation leaves the current state untouched.
func (s *Service) ImportJSON(raw []byte) error {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		s.logger.Error("backup import failed to parse", "error", err)
		return errors.ErrBackupMalformed
	}
	return s.Import(&doc)
}

// Import validates the full document first, then wholesale-replaces
// every table in one store transaction.
func (s *Service) Import(doc *Document) error {
	if err := validateDocument(doc); err != nil {
		s.logger.Error("backup import rejected", "error", err)
		return err
	}

	now := s.now()
	residents := residentRows(doc.Residents, now)
	transactions := transactionRows(doc.Transactions, now)
	ledger := ledgerRows(doc.Ledger)

	if err := s.store.ReplaceEverything(residents, transactions, ledger); err != nil {
		s.logger.Error("backup import failed to replace state", "error", err)
		return errors.NewInternalError("failed to import backup", err)
	}

	cells := len(ledger)
	s.logger.Info("backup imported",
		"residents", len(residents),
		"transactions", len(transactions),
		"ledger_cells", cells)
	s.publishImported(len(residents), len(transactions), cells)
	return nil
}

func validateDocument(doc *Document) error {
	if doc == nil {
		return errors.ErrBackupMalformed
	}

	seenResidents := make(map[string]bool, len(doc.Residents))
	for i, r := range doc.Residents {
		if r.ID == "" || r.Name == "" {
			return malformed(fmt.Sprintf("resident %d is missing id or name", i))
		}
		if seenResidents[r.ID] {
			return malformed(fmt.Sprintf("resident id %q appears twice", r.ID))
		}
		seenResidents[r.ID] = true
	}

	seenTransactions := make(map[string]bool, len(doc.Transactions))
	for i, t := range doc.Transactions {
		if t.ID == "" {
			return malformed(fmt.Sprintf("transaction %d is missing id", i))
		}
		if seenTransactions[t.ID] {
			return malformed(fmt.Sprintf("transaction id %q appears twice", t.ID))
		}
		seenTransactions[t.ID] = true
		if t.Category != transaction.CategoryIncome && t.Category != transaction.CategoryExpense {
			return malformed(fmt.Sprintf("transaction %q has unknown category %q", t.ID, t.Category))
		}
		if t.AmountIDR < 0 {
			return malformed(fmt.Sprintf("transaction %q has negative amount", t.ID))
		}
	}

	for residentID, cells := range doc.Ledger {
		if residentID == "" {
			return malformed("ledger contains an empty resident id")
		}
		for date := range cells {
			if _, err := time.Parse(dues.DateLayout, date); err != nil {
				return malformed(fmt.Sprintf("ledger date %q is not a valid date key", date))
			}
		}
	}

	return nil
}

func malformed(detail string) error {
	return errors.NewValidationError("backup document is malformed", errors.ErrCodeBackupMalformed).
		WithDetails(map[string]string{"detail": detail})
}

func (s *Service) publishImported(residents, transactions, cells int) {
	if s.eventBus == nil {
		return
	}
	event := events.NewBackupImportedEvent(residents, transactions, cells)
	if err := s.eventBus.Publish(context.Background(), event); err != nil {
		s.logger.Error("failed to publish backup event", "error", err)
	}
}
