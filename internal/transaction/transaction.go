package transaction

import (
	"sort"

	txDatamodel "github.com/frahmantamala/dues-management/internal/core/datamodel/transaction"
)

// Cash flow directions. The strings are part of the stored data and of
// the wire format, so they stay in Indonesian.
const (
	CategoryIncome  = "masuk"
	CategoryExpense = "keluar"
)

// Entry is the domain view of one cash ledger line.
type Entry struct {
	ID             string `json:"id"`
	DisplayDate    string `json:"display_date"`
	Description    string `json:"description"`
	SubDescription string `json:"sub_description,omitempty"`
	Category       string `json:"category"`
	AmountIDR      int64  `json:"amount_idr"`
	TimestampMs    int64  `json:"timestamp_ms"`
}

// LedgerLine is an entry annotated with the balance after it applied.
type LedgerLine struct {
	Entry
	BalanceIDR int64 `json:"balance_idr"`
}

// Totals is the income/expense/balance header of a report.
type Totals struct {
	IncomeIDR  int64 `json:"income_idr"`
	ExpenseIDR int64 `json:"expense_idr"`
	BalanceIDR int64 `json:"balance_idr"`
}

// MonthTotals is one bar of the yearly cash flow chart.
type MonthTotals struct {
	Month      int   `json:"month"`
	IncomeIDR  int64 `json:"income_idr"`
	ExpenseIDR int64 `json:"expense_idr"`
}

func fromRow(row *txDatamodel.Transaction) Entry {
	return Entry{
		ID:             row.ID,
		DisplayDate:    row.DisplayDate,
		Description:    row.Description,
		SubDescription: row.SubDescription,
		Category:       row.Category,
		AmountIDR:      row.AmountIDR,
		TimestampMs:    row.TimestampMs,
	}
}

// SumTotals folds the whole set regardless of order.
func SumTotals(entries []Entry) Totals {
	var t Totals
	for _, e := range entries {
		switch e.Category {
		case CategoryIncome:
			t.IncomeIDR += e.AmountIDR
		case CategoryExpense:
			t.ExpenseIDR += e.AmountIDR
		}
	}
	t.BalanceIDR = t.IncomeIDR - t.ExpenseIDR
	return t
}

// WithRunningBalance annotates entries with a running balance. The fold
// happens oldest-first over TimestampMs starting from zero; the result
// comes back newest-first with each line keeping the balance it had at
// its own point in time. Filtered views pass their filtered subset, so
// their balances restart at zero by construction.
func WithRunningBalance(entries []Entry) []LedgerLine {
	asc := make([]Entry, len(entries))
	copy(asc, entries)
	sort.SliceStable(asc, func(i, j int) bool {
		return asc[i].TimestampMs < asc[j].TimestampMs
	})

	lines := make([]LedgerLine, len(asc))
	var balance int64
	for i, e := range asc {
		switch e.Category {
		case CategoryIncome:
			balance += e.AmountIDR
		case CategoryExpense:
			balance -= e.AmountIDR
		}
		lines[i] = LedgerLine{Entry: e, BalanceIDR: balance}
	}

	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return lines
}
