package dues

import (
	"fmt"
	"time"

	errors "github.com/frahmantamala/dues-management/internal"
	"github.com/frahmantamala/dues-management/internal/core/common/validation"
)

// RecordDaySetDTO records a payment spread over an explicit set of days
// in one month. The total is divided by the number of days with floor
// division; any remainder is dropped, not redistributed.
type RecordDaySetDTO struct {
	ResidentID string `json:"resident_id"`
	Month      int    `json:"month"`
	Year       int    `json:"year"`
	Days       []int  `json:"days"`
	AmountIDR  int64  `json:"amount_idr"`
}

func (dto RecordDaySetDTO) Validate() error {
	if err := validation.ValidatePaymentAmount(dto.AmountIDR); err != nil {
		return err
	}
	if dto.Month < 1 || dto.Month > 12 {
		return errors.NewValidationError("month must be between 1 and 12", errors.ErrCodeInvalidPeriod)
	}
	if dto.Year < 2000 || dto.Year > 2200 {
		return errors.NewValidationError("year is out of range", errors.ErrCodeInvalidPeriod)
	}
	max := DaysInMonth(dto.Year, time.Month(dto.Month))
	for _, day := range dto.Days {
		if day < 1 || day > max {
			return errors.NewValidationError(
				fmt.Sprintf("day %d does not exist in %04d-%02d", day, dto.Year, dto.Month),
				errors.ErrCodeInvalidDate)
		}
	}
	return nil
}

// RecordPackageDTO records a multi-month package payment starting at
// the given month. The total is floor-divided across months, then each
// month's share is floor-divided across that month's true day count
// and written to every day, unless PinFirstDay is set, in which case
// the whole monthly share lands on day 01.
type RecordPackageDTO struct {
	ResidentID  string `json:"resident_id"`
	StartMonth  int    `json:"start_month"`
	StartYear   int    `json:"start_year"`
	MonthCount  int    `json:"month_count"`
	AmountIDR   int64  `json:"amount_idr"`
	PinFirstDay bool   `json:"pin_first_day"`
}

func (dto RecordPackageDTO) Validate() error {
	if err := validation.ValidatePaymentAmount(dto.AmountIDR); err != nil {
		return err
	}
	if dto.StartMonth < 1 || dto.StartMonth > 12 {
		return errors.NewValidationError("start_month must be between 1 and 12", errors.ErrCodeInvalidPeriod)
	}
	if dto.StartYear < 2000 || dto.StartYear > 2200 {
		return errors.NewValidationError("start_year is out of range", errors.ErrCodeInvalidPeriod)
	}
	if dto.MonthCount < 1 || dto.MonthCount > 24 {
		return errors.NewValidationError("month_count must be between 1 and 24", errors.ErrCodeInvalidPeriod)
	}
	return nil
}

// RecordFreeFormDTO records a lump payment into the cash ledger without
// touching any daily cell. Arrears are unaffected by free-form entries.
type RecordFreeFormDTO struct {
	ResidentID  string `json:"resident_id"`
	AmountIDR   int64  `json:"amount_idr"`
	Description string `json:"description,omitempty"`
}

func (dto RecordFreeFormDTO) Validate() error {
	if err := validation.ValidatePaymentAmount(dto.AmountIDR); err != nil {
		return err
	}
	return nil
}

// Receipt describes what a recording call actually did. Recorded is
// false for the silent no-op cases (unknown resident, empty day set);
// callers must not treat that as an error.
type Receipt struct {
	Recorded      bool   `json:"recorded"`
	ResidentID    string `json:"resident_id,omitempty"`
	ResidentName  string `json:"resident_name,omitempty"`
	Mode          string `json:"mode,omitempty"`
	TotalIDR      int64  `json:"total_idr,omitempty"`
	LedgerIDR     int64  `json:"ledger_idr,omitempty"`
	CellsWritten  int    `json:"cells_written,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
}
