package transaction

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/dues-management/internal"
	txDatamodel "github.com/frahmantamala/dues-management/internal/core/datamodel/transaction"
	"github.com/frahmantamala/dues-management/internal/core/events"
	"github.com/frahmantamala/dues-management/internal/dues"
	"github.com/google/uuid"
)

// Repository interface defines the data access methods for cash entries
type Repository interface {
	Create(row *txDatamodel.Transaction) error
	GetAll() ([]*txDatamodel.Transaction, error)
}

// EventPublisher is the slice of the event bus the service needs
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Service handles the append-only cash ledger
type Service struct {
	repo     Repository
	eventBus EventPublisher
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(repo Repository, eventBus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the service time source, used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Append adds one cash entry. Entries are never edited or deleted; the
// ledger only grows.
func (s *Service) Append(dto CreateTransactionDTO) (*Entry, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("transaction validation failed", "error", err)
		return nil, err
	}

	now := s.now()
	displayDate := dto.DisplayDate
	if displayDate == "" {
		displayDate = dues.FormatDisplayDate(now)
	}

	row := &txDatamodel.Transaction{
		ID:             uuid.New().String(),
		DisplayDate:    displayDate,
		Description:    dto.Description,
		SubDescription: dto.SubDescription,
		Category:       dto.Category,
		AmountIDR:      dto.AmountIDR,
		TimestampMs:    now.UnixMilli(),
		CreatedAt:      now,
	}
	if err := s.repo.Create(row); err != nil {
		s.logger.Error("failed to append transaction", "error", err, "description", dto.Description)
		return nil, errors.NewInternalError("failed to append transaction", err)
	}

	s.publishRecorded(row.ID, row.Category, row.AmountIDR)
	s.logger.Info("transaction appended",
		"transaction_id", row.ID,
		"category", row.Category,
		"amount_idr", row.AmountIDR)

	entry := fromRow(row)
	return &entry, nil
}

// AppendIncome satisfies the dues service's cash recorder seam.
func (s *Service) AppendIncome(displayDate, description, subDescription string, amountIDR int64) (string, error) {
	entry, err := s.Append(CreateTransactionDTO{
		DisplayDate:    displayDate,
		Description:    description,
		SubDescription: subDescription,
		Category:       CategoryIncome,
		AmountIDR:      amountIDR,
	})
	if err != nil {
		return "", err
	}
	return entry.ID, nil
}

// AppendExpense adds a spending entry.
func (s *Service) AppendExpense(description, subDescription string, amountIDR int64) (*Entry, error) {
	return s.Append(CreateTransactionDTO{
		Description:    description,
		SubDescription: subDescription,
		Category:       CategoryExpense,
		AmountIDR:      amountIDR,
	})
}

// Report returns the full ledger newest-first with running balances,
// plus the totals header.
func (s *Service) Report() ([]LedgerLine, Totals, error) {
	entries, err := s.loadAll()
	if err != nil {
		return nil, Totals{}, err
	}
	return WithRunningBalance(entries), SumTotals(entries), nil
}

// MonthReport narrows the ledger to one calendar month. The running
// balance restarts at zero inside the filtered view.
func (s *Service) MonthReport(year int, month time.Month) ([]LedgerLine, Totals, error) {
	if month < time.January || month > time.December {
		return nil, Totals{}, errors.NewValidationError("month must be between 1 and 12", errors.ErrCodeInvalidPeriod)
	}

	entries, err := s.loadAll()
	if err != nil {
		return nil, Totals{}, err
	}

	filtered := make([]Entry, 0, len(entries))
	for _, e := range entries {
		ts := time.UnixMilli(e.TimestampMs).UTC()
		if ts.Year() == year && ts.Month() == month {
			filtered = append(filtered, e)
		}
	}
	return WithRunningBalance(filtered), SumTotals(filtered), nil
}

// MonthlySummary buckets one year's entries into per-month income and
// expense totals, January through December. Empty months stay zero so
// the chart always has 12 bars.
func (s *Service) MonthlySummary(year int) ([]MonthTotals, error) {
	entries, err := s.loadAll()
	if err != nil {
		return nil, err
	}

	months := make([]MonthTotals, 12)
	for i := range months {
		months[i].Month = i + 1
	}
	for _, e := range entries {
		ts := time.UnixMilli(e.TimestampMs).UTC()
		if ts.Year() != year {
			continue
		}
		bucket := &months[int(ts.Month())-1]
		switch e.Category {
		case CategoryIncome:
			bucket.IncomeIDR += e.AmountIDR
		case CategoryExpense:
			bucket.ExpenseIDR += e.AmountIDR
		}
	}
	return months, nil
}

// Recent returns the newest n ledger lines with running balances taken
// from the full ledger.
func (s *Service) Recent(n int) ([]LedgerLine, error) {
	entries, err := s.loadAll()
	if err != nil {
		return nil, err
	}
	lines := WithRunningBalance(entries)
	if n > 0 && len(lines) > n {
		lines = lines[:n]
	}
	return lines, nil
}

// ExportRows returns raw rows for backup export.
func (s *Service) ExportRows() ([]*txDatamodel.Transaction, error) {
	rows, err := s.repo.GetAll()
	if err != nil {
		return nil, errors.NewInternalError("failed to load transactions", err)
	}
	return rows, nil
}

func (s *Service) loadAll() ([]Entry, error) {
	rows, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to load transactions", "error", err)
		return nil, errors.NewInternalError("failed to load transactions", err)
	}
	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, fromRow(row))
	}
	return entries, nil
}

func (s *Service) publishRecorded(id, category string, amountIDR int64) {
	if s.eventBus == nil {
		return
	}
	event := events.NewTransactionRecordedEvent(id, category, amountIDR)
	if err := s.eventBus.Publish(context.Background(), event); err != nil {
		s.logger.Error("failed to publish transaction event", "error", err, "transaction_id", id)
	}
}
