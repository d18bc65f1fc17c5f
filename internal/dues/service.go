package dues

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/dues-management/internal"
	duesDatamodel "github.com/frahmantamala/dues-management/internal/core/datamodel/dues"
	"github.com/frahmantamala/dues-management/internal/core/events"
)

// Repository defines the data access methods for daily ledger cells
type Repository interface {
	IncrementCell(residentID, date string, amountIDR int64) error
	GetAll() ([]*duesDatamodel.Entry, error)
	GetByResident(residentID string) ([]*duesDatamodel.Entry, error)
}

// ResidentSource resolves resident identity for recording and reports
type ResidentSource interface {
	GetRef(id string) (*ResidentRef, error)
	ListRefs() ([]ResidentRef, error)
}

// RateProvider yields the current mandatory daily rate. The rate is not
// versioned: changing it re-prices all past obligations on the next
// report.
type RateProvider interface {
	DailyRateIDR() int64
}

// CashRecorder appends the income side of a payment to the cash ledger
type CashRecorder interface {
	AppendIncome(displayDate, description, subDescription string, amountIDR int64) (string, error)
}

// EventPublisher is the slice of the event bus the service needs
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// ArrearsReport is one rendering of a period: residents still owing and
// residents fully settled, both sorted by name, plus the period totals
// shown in the report header.
type ArrearsReport struct {
	InArrears           []Summary `json:"in_arrears"`
	Settled             []Summary `json:"settled"`
	TotalOutstandingIDR int64     `json:"total_outstanding_idr"`
	TotalPaidIDR        int64     `json:"total_paid_idr"`
}

// Service handles payment recording and arrears reporting
type Service struct {
	repo      Repository
	residents ResidentSource
	rates     RateProvider
	cash      CashRecorder
	eventBus  EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo Repository, residents ResidentSource, rates RateProvider, cash CashRecorder, eventBus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		residents: residents,
		rates:     rates,
		cash:      cash,
		eventBus:  eventBus,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the service time source. Reports and display
// dates are computed against it; tests pin it to a fixed instant.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// RecordDaySet spreads a payment across an explicit day set. Unknown
// resident or empty day set is a silent no-op: the receipt comes back
// with Recorded=false and nothing is written anywhere.
func (s *Service) RecordDaySet(dto RecordDaySetDTO) (*Receipt, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("day set payment validation failed", "error", err, "resident_id", dto.ResidentID)
		return nil, err
	}

	ref, err := s.resolveResident(dto.ResidentID)
	if err != nil {
		return nil, err
	}
	if ref == nil || len(dto.Days) == 0 {
		s.logger.Info("day set payment skipped",
			"resident_id", dto.ResidentID,
			"days", len(dto.Days))
		return &Receipt{Recorded: false}, nil
	}

	perDay := dto.AmountIDR / int64(len(dto.Days))
	for _, day := range dto.Days {
		dateKey := fmt.Sprintf("%04d-%02d-%02d", dto.Year, dto.Month, day)
		if err := s.repo.IncrementCell(ref.ID, dateKey, perDay); err != nil {
			s.logger.Error("failed to write ledger cell", "error", err, "resident_id", ref.ID, "date", dateKey)
			return nil, errors.NewInternalError("failed to record payment", err)
		}
	}

	txID, err := s.appendCashEntry(ref, MonthYearLabel(dto.Year, time.Month(dto.Month)), dto.AmountIDR)
	if err != nil {
		return nil, err
	}

	s.publishPayment(ref.ID, ModeDaySet, dto.AmountIDR, len(dto.Days))
	s.logger.Info("day set payment recorded",
		"resident_id", ref.ID,
		"days", len(dto.Days),
		"per_day_idr", perDay,
		"total_idr", dto.AmountIDR)

	return &Receipt{
		Recorded:      true,
		ResidentID:    ref.ID,
		ResidentName:  ref.Name,
		Mode:          ModeDaySet,
		TotalIDR:      dto.AmountIDR,
		LedgerIDR:     perDay * int64(len(dto.Days)),
		CellsWritten:  len(dto.Days),
		TransactionID: txID,
	}, nil
}

// RecordPackage spreads a payment across consecutive whole months,
// rolling December into January of the next year. Floor division twice:
// first across months, then across each month's true day count. With
// PinFirstDay the monthly share is written to day 01 instead of being
// spread.
func (s *Service) RecordPackage(dto RecordPackageDTO) (*Receipt, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("package payment validation failed", "error", err, "resident_id", dto.ResidentID)
		return nil, err
	}

	ref, err := s.resolveResident(dto.ResidentID)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		s.logger.Info("package payment skipped", "resident_id", dto.ResidentID)
		return &Receipt{Recorded: false}, nil
	}

	perMonth := dto.AmountIDR / int64(dto.MonthCount)

	var ledgerTotal int64
	cells := 0
	month := dto.StartMonth
	year := dto.StartYear
	for i := 0; i < dto.MonthCount; i++ {
		if dto.PinFirstDay {
			dateKey := fmt.Sprintf("%04d-%02d-01", year, month)
			if err := s.repo.IncrementCell(ref.ID, dateKey, perMonth); err != nil {
				s.logger.Error("failed to write ledger cell", "error", err, "resident_id", ref.ID, "date", dateKey)
				return nil, errors.NewInternalError("failed to record payment", err)
			}
			ledgerTotal += perMonth
			cells++
		} else {
			dayCount := DaysInMonth(year, time.Month(month))
			perDay := perMonth / int64(dayCount)
			for day := 1; day <= dayCount; day++ {
				dateKey := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
				if err := s.repo.IncrementCell(ref.ID, dateKey, perDay); err != nil {
					s.logger.Error("failed to write ledger cell", "error", err, "resident_id", ref.ID, "date", dateKey)
					return nil, errors.NewInternalError("failed to record payment", err)
				}
			}
			ledgerTotal += perDay * int64(dayCount)
			cells += dayCount
		}

		month++
		if month > 12 {
			month = 1
			year++
		}
	}

	endMonth := month - 1
	endYear := year
	if endMonth == 0 {
		endMonth = 12
		endYear--
	}
	label := MonthYearLabel(dto.StartYear, time.Month(dto.StartMonth))
	if dto.MonthCount > 1 {
		label = fmt.Sprintf("%s - %s", label, MonthYearLabel(endYear, time.Month(endMonth)))
	}

	txID, err := s.appendCashEntry(ref, label, dto.AmountIDR)
	if err != nil {
		return nil, err
	}

	s.publishPayment(ref.ID, ModePackage, dto.AmountIDR, cells)
	s.logger.Info("package payment recorded",
		"resident_id", ref.ID,
		"months", dto.MonthCount,
		"pin_first_day", dto.PinFirstDay,
		"total_idr", dto.AmountIDR)

	return &Receipt{
		Recorded:      true,
		ResidentID:    ref.ID,
		ResidentName:  ref.Name,
		Mode:          ModePackage,
		TotalIDR:      dto.AmountIDR,
		LedgerIDR:     ledgerTotal,
		CellsWritten:  cells,
		TransactionID: txID,
	}, nil
}

// RecordFreeForm appends a lump payment to the cash ledger only. No
// daily cell is written, so arrears reports do not move.
func (s *Service) RecordFreeForm(dto RecordFreeFormDTO) (*Receipt, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("free form payment validation failed", "error", err, "resident_id", dto.ResidentID)
		return nil, err
	}

	ref, err := s.resolveResident(dto.ResidentID)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		s.logger.Info("free form payment skipped", "resident_id", dto.ResidentID)
		return &Receipt{Recorded: false}, nil
	}

	sub := dto.Description
	if sub == "" {
		sub = "Pembayaran Bebas"
	}
	txID, err := s.appendCashEntry(ref, sub, dto.AmountIDR)
	if err != nil {
		return nil, err
	}

	s.publishPayment(ref.ID, ModeFreeForm, dto.AmountIDR, 0)
	s.logger.Info("free form payment recorded",
		"resident_id", ref.ID,
		"total_idr", dto.AmountIDR)

	return &Receipt{
		Recorded:      true,
		ResidentID:    ref.ID,
		ResidentName:  ref.Name,
		Mode:          ModeFreeForm,
		TotalIDR:      dto.AmountIDR,
		TransactionID: txID,
	}, nil
}

// MonthlyReport computes the arrears split for one calendar month.
func (s *Service) MonthlyReport(year int, month time.Month) (*ArrearsReport, error) {
	if month < time.January || month > time.December {
		return nil, errors.NewValidationError("month must be between 1 and 12", errors.ErrCodeInvalidPeriod)
	}
	return s.report(MonthPeriod(year, month))
}

// YearToDateReport computes the arrears split from January 1 through
// today.
func (s *Service) YearToDateReport() (*ArrearsReport, error) {
	return s.report(YearToDatePeriod())
}

func (s *Service) report(p Period) (*ArrearsReport, error) {
	refs, err := s.residents.ListRefs()
	if err != nil {
		s.logger.Error("failed to list residents for report", "error", err)
		return nil, err
	}
	ledger, err := s.loadLedger()
	if err != nil {
		return nil, err
	}

	calc := NewCalculator(s.now(), s.rates.DailyRateIDR())
	report := &ArrearsReport{InArrears: []Summary{}, Settled: []Summary{}}
	for _, summary := range calc.Summarize(refs, ledger, p) {
		report.TotalPaidIDR += summary.PaidIDR
		switch {
		case summary.InArrears():
			report.InArrears = append(report.InArrears, summary)
			report.TotalOutstandingIDR += summary.OutstandingIDR
		case summary.Settled():
			report.Settled = append(report.Settled, summary)
		}
	}
	return report, nil
}

// ResidentYearToDate returns one resident's year-to-date summary, used
// for the quick-settle amount.
func (s *Service) ResidentYearToDate(residentID string) (*Summary, error) {
	ref, err := s.residents.GetRef(residentID)
	if err != nil {
		s.logger.Error("failed to resolve resident", "error", err, "resident_id", residentID)
		return nil, err
	}

	rows, err := s.repo.GetByResident(residentID)
	if err != nil {
		s.logger.Error("failed to load ledger rows", "error", err, "resident_id", residentID)
		return nil, errors.NewInternalError("failed to load ledger", err)
	}

	calc := NewCalculator(s.now(), s.rates.DailyRateIDR())
	summary := calc.SummarizeOne(*ref, LedgerFromRows(rows), YearToDatePeriod())
	return &summary, nil
}

// Matrix returns the 12-month payment presence matrix for one year.
func (s *Service) Matrix(year int) ([]MatrixRow, error) {
	refs, err := s.residents.ListRefs()
	if err != nil {
		s.logger.Error("failed to list residents for matrix", "error", err)
		return nil, err
	}
	ledger, err := s.loadLedger()
	if err != nil {
		return nil, err
	}
	return PaymentMatrix(refs, ledger, year), nil
}

// ExportRows returns every ledger row, sorted, for backup export.
func (s *Service) ExportRows() ([]*duesDatamodel.Entry, error) {
	ledger, err := s.loadLedger()
	if err != nil {
		return nil, err
	}
	return LedgerToRows(ledger), nil
}

// resolveResident maps a missing resident to (nil, nil) so recording
// paths can treat it as a no-op instead of an error.
func (s *Service) resolveResident(id string) (*ResidentRef, error) {
	if id == "" {
		return nil, nil
	}
	ref, err := s.residents.GetRef(id)
	if err != nil {
		if appErr, ok := errors.IsAppError(err); ok && appErr.Code == errors.ErrCodeResidentNotFound {
			return nil, nil
		}
		s.logger.Error("failed to resolve resident", "error", err, "resident_id", id)
		return nil, err
	}
	return ref, nil
}

func (s *Service) appendCashEntry(ref *ResidentRef, subDescription string, amountIDR int64) (string, error) {
	displayDate := FormatDisplayDate(s.now())
	description := fmt.Sprintf("Iuran: %s", ref.Name)
	txID, err := s.cash.AppendIncome(displayDate, description, subDescription, amountIDR)
	if err != nil {
		s.logger.Error("failed to append cash entry", "error", err, "resident_id", ref.ID)
		return "", errors.NewInternalError("failed to append cash entry", err)
	}
	return txID, nil
}

func (s *Service) publishPayment(residentID, mode string, amountIDR int64, daysPaid int) {
	if s.eventBus == nil {
		return
	}
	event := events.NewPaymentRecordedEvent(residentID, mode, amountIDR, daysPaid)
	if err := s.eventBus.Publish(context.Background(), event); err != nil {
		s.logger.Error("failed to publish payment event", "error", err, "resident_id", residentID)
	}
}

func (s *Service) loadLedger() (Ledger, error) {
	rows, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to load ledger rows", "error", err)
		return nil, errors.NewInternalError("failed to load ledger", err)
	}
	return LedgerFromRows(rows), nil
}
