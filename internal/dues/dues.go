package dues

import (
	"errors"
	"sort"
	"time"

	duesDatamodel "github.com/frahmantamala/dues-management/internal/core/datamodel/dues"
)

// DateLayout is the canonical ledger date key format. Every cell in the
// daily ledger is keyed by a date string in this layout, which makes
// month and year filtering a plain prefix match.
const DateLayout = "2006-01-02"

// Ledger maps resident id -> date key -> aggregate amount paid toward
// that date. A cell holds at most one amount; repeated payments for the
// same date accumulate into the cell rather than appending entries.
type Ledger map[string]map[string]int64

// CellsFor returns the date->amount cells for one resident. The returned
// map may be nil when the resident has never paid.
func (l Ledger) CellsFor(residentID string) map[string]int64 {
	return l[residentID]
}

// Add merge-adds an amount into a single cell.
func (l Ledger) Add(residentID, date string, amountIDR int64) {
	cells, ok := l[residentID]
	if !ok {
		cells = make(map[string]int64)
		l[residentID] = cells
	}
	cells[date] += amountIDR
}

// CellCount returns the total number of populated cells.
func (l Ledger) CellCount() int {
	n := 0
	for _, cells := range l {
		n += len(cells)
	}
	return n
}

// ResidentRef is the slice of resident identity the calculator needs.
type ResidentRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Block string `json:"block"`
}

// Summary is the per-resident arrears result for one period.
type Summary struct {
	ResidentID     string `json:"resident_id"`
	Name           string `json:"name"`
	Block          string `json:"block"`
	ObligationIDR  int64  `json:"obligation_idr"`
	PaidIDR        int64  `json:"paid_idr"`
	OutstandingIDR int64  `json:"outstanding_idr"`
	Percent        int    `json:"percent"`
}

// InArrears reports whether the resident still owes for the period.
func (s Summary) InArrears() bool {
	return s.OutstandingIDR > 0
}

// Settled reports whether the resident has fully covered a nonzero
// obligation. A resident with no obligation and no payments is neither
// settled nor in arrears.
func (s Summary) Settled() bool {
	return s.OutstandingIDR == 0 && s.PaidIDR > 0
}

// MatrixRow is one resident's 12-month payment presence vector.
// Paid[i] is true when any ledger cell exists in month i+1 of the
// matrix year, regardless of whether the amount covered the month.
type MatrixRow struct {
	ResidentID string   `json:"resident_id"`
	Name       string   `json:"name"`
	Block      string   `json:"block"`
	Paid       [12]bool `json:"paid"`
}

// Recording modes, kept in transaction sub-descriptions so a payment's
// origin is reconstructible from the cash ledger alone.
const (
	ModeDaySet   = "day_set"
	ModePackage  = "package"
	ModeFreeForm = "free_form"
)

var (
	ErrNothingToRecord = errors.New("nothing to record")
	ErrUnknownResident = errors.New("unknown resident")
)

// LedgerFromRows converts persistence rows into the in-memory ledger
// the calculator folds over. Conversion is the only place row shapes
// are interpreted.
func LedgerFromRows(rows []*duesDatamodel.Entry) Ledger {
	ledger := make(Ledger, len(rows))
	for _, row := range rows {
		ledger.Add(row.ResidentID, row.EntryDate, row.AmountIDR)
	}
	return ledger
}

// LedgerToRows flattens the ledger back into persistence rows, sorted
// by resident then date so exports are deterministic.
func LedgerToRows(ledger Ledger) []*duesDatamodel.Entry {
	rows := make([]*duesDatamodel.Entry, 0, ledger.CellCount())
	now := time.Now()
	for residentID, cells := range ledger {
		for date, amount := range cells {
			rows = append(rows, &duesDatamodel.Entry{
				ResidentID: residentID,
				EntryDate:  date,
				AmountIDR:  amount,
				CreatedAt:  now,
				UpdatedAt:  now,
			})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ResidentID != rows[j].ResidentID {
			return rows[i].ResidentID < rows[j].ResidentID
		}
		return rows[i].EntryDate < rows[j].EntryDate
	})
	return rows
}
