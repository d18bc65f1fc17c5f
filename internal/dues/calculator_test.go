package dues

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		want  int
	}{
		{"january", 2026, time.January, 31},
		{"april", 2026, time.April, 30},
		{"february non leap", 2026, time.February, 28},
		{"february leap", 2024, time.February, 29},
		{"february century non leap", 2100, time.February, 28},
		{"december", 2026, time.December, 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysInMonth(tt.year, tt.month))
		})
	}
}

func TestObligationDays(t *testing.T) {
	calc := NewCalculator(date(2026, time.September, 15), 500)

	tests := []struct {
		name   string
		period Period
		want   int
	}{
		{"past month uses full day count", MonthPeriod(2026, time.August), 31},
		{"past february non leap", MonthPeriod(2026, time.February), 28},
		{"current month stops at today", MonthPeriod(2026, time.September), 15},
		{"future month owes nothing", MonthPeriod(2026, time.October), 0},
		{"future year owes nothing", MonthPeriod(2027, time.January), 0},
		{"previous year full month", MonthPeriod(2025, time.December), 31},
		{"single past day", DayPeriod(date(2026, time.September, 1)), 1},
		{"single future day", DayPeriod(date(2026, time.September, 16)), 0},
		{"range clipped to today", RangePeriod(date(2026, time.September, 10), date(2026, time.September, 20)), 6},
		{"inverted range", RangePeriod(date(2026, time.September, 20), date(2026, time.September, 10)), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calc.ObligationDays(tt.period))
		})
	}
}

func TestYearToDateDays(t *testing.T) {
	tests := []struct {
		name  string
		today time.Time
		want  int
	}{
		{"midnight january 1 is zero elapsed", date(2026, time.January, 1), 0},
		{"noon january 1 rounds up to one", time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC), 1},
		{"midnight january 2", date(2026, time.January, 2), 1},
		{"one second past midnight january 2", time.Date(2026, time.January, 2, 0, 0, 1, 0, time.UTC), 2},
		{"mid september afternoon", time.Date(2026, time.September, 15, 14, 30, 0, 0, time.UTC), 258},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := NewCalculator(tt.today, 500)
			assert.Equal(t, tt.want, calc.YearToDateDays())
		})
	}
}

func TestObligationUsesRate(t *testing.T) {
	calc := NewCalculator(date(2026, time.September, 15), 500)
	assert.Equal(t, int64(31*500), calc.Obligation(MonthPeriod(2026, time.August)))
	assert.Equal(t, int64(15*500), calc.Obligation(MonthPeriod(2026, time.September)))

	// Rate changes re-price past periods on the next computation.
	repriced := NewCalculator(date(2026, time.September, 15), 1000)
	assert.Equal(t, int64(31*1000), repriced.Obligation(MonthPeriod(2026, time.August)))
}

func TestPaidInPeriod(t *testing.T) {
	cells := map[string]int64{
		"2026-08-01": 500,
		"2026-08-02": 500,
		"2026-09-01": 700,
		"2025-12-31": 999,
	}
	calc := NewCalculator(date(2026, time.September, 15), 500)

	assert.Equal(t, int64(1000), calc.PaidInPeriod(cells, MonthPeriod(2026, time.August)))
	assert.Equal(t, int64(700), calc.PaidInPeriod(cells, MonthPeriod(2026, time.September)))
	assert.Equal(t, int64(0), calc.PaidInPeriod(cells, MonthPeriod(2026, time.July)))
	assert.Equal(t, int64(1700), calc.PaidInPeriod(cells, YearToDatePeriod()))
	assert.Equal(t, int64(500), calc.PaidInPeriod(cells, DayPeriod(date(2026, time.August, 2))))
	assert.Equal(t, int64(0), calc.PaidInPeriod(nil, MonthPeriod(2026, time.August)))
}

func TestPaidInPeriodPrefixAndRangeAgree(t *testing.T) {
	cells := map[string]int64{
		"2026-08-01": 100,
		"2026-08-15": 250,
		"2026-08-31": 400,
		"2026-07-31": 50,
		"2026-09-01": 60,
	}
	calc := NewCalculator(date(2026, time.September, 15), 500)

	byPrefix := calc.PaidInPeriod(cells, MonthPeriod(2026, time.August))
	byRange := calc.PaidInPeriod(cells, RangePeriod(date(2026, time.August, 1), date(2026, time.August, 31)))
	assert.Equal(t, byPrefix, byRange)
	assert.Equal(t, int64(750), byPrefix)
}

func TestPercentPaid(t *testing.T) {
	tests := []struct {
		name       string
		paid       int64
		obligation int64
		want       int
	}{
		{"zero paid", 0, 1000, 0},
		{"half paid", 500, 1000, 50},
		{"fully paid", 1000, 1000, 100},
		{"overpaid caps at hundred", 2000, 1000, 100},
		{"zero obligation with payment still caps", 500, 0, 100},
		{"zero obligation zero paid", 0, 0, 0},
		{"rounds to nearest", 333, 1000, 33},
		{"rounds half up", 335, 1000, 34},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PercentPaid(tt.paid, tt.obligation))
		})
	}
}

func TestSummarize(t *testing.T) {
	residents := []ResidentRef{
		{ID: "w3", Name: "Citra", Block: "B1"},
		{ID: "w1", Name: "Andi", Block: "A1"},
		{ID: "w2", Name: "budi", Block: "A2"},
	}
	ledger := make(Ledger)
	ledger.Add("w1", "2026-08-01", 31*500) // settled for August
	ledger.Add("w2", "2026-08-10", 4000)   // partial
	// w3 never paid

	calc := NewCalculator(date(2026, time.September, 15), 500)
	summaries := calc.Summarize(residents, ledger, MonthPeriod(2026, time.August))

	require.Len(t, summaries, 3)

	// Sorted by name, case-insensitive.
	assert.Equal(t, "Andi", summaries[0].Name)
	assert.Equal(t, "budi", summaries[1].Name)
	assert.Equal(t, "Citra", summaries[2].Name)

	assert.True(t, summaries[0].Settled())
	assert.False(t, summaries[0].InArrears())
	assert.Equal(t, int64(0), summaries[0].OutstandingIDR)

	assert.True(t, summaries[1].InArrears())
	assert.Equal(t, int64(31*500-4000), summaries[1].OutstandingIDR)

	assert.True(t, summaries[2].InArrears())
	assert.False(t, summaries[2].Settled())
	assert.Equal(t, int64(31*500), summaries[2].OutstandingIDR)
}

func TestSummarizeOverpaymentFloorsAtZero(t *testing.T) {
	residents := []ResidentRef{{ID: "w1", Name: "Andi"}}
	ledger := make(Ledger)
	ledger.Add("w1", "2026-08-01", 100000)

	calc := NewCalculator(date(2026, time.September, 15), 500)
	summary := calc.SummarizeOne(residents[0], ledger, MonthPeriod(2026, time.August))

	assert.Equal(t, int64(0), summary.OutstandingIDR)
	assert.Equal(t, 100, summary.Percent)
	assert.True(t, summary.Settled())
}

func TestLedgerMergeAdd(t *testing.T) {
	ledger := make(Ledger)
	ledger.Add("w1", "2026-08-01", 300)
	ledger.Add("w1", "2026-08-01", 200)
	ledger.Add("w1", "2026-08-02", 100)

	cells := ledger.CellsFor("w1")
	assert.Equal(t, int64(500), cells["2026-08-01"])
	assert.Equal(t, int64(100), cells["2026-08-02"])
	assert.Equal(t, 2, ledger.CellCount())
}

func TestPaymentMatrix(t *testing.T) {
	residents := []ResidentRef{
		{ID: "w2", Name: "Budi"},
		{ID: "w1", Name: "Andi"},
	}
	ledger := make(Ledger)
	ledger.Add("w1", "2026-01-15", 500)
	ledger.Add("w1", "2026-03-01", 1) // partial payment still marks the month
	ledger.Add("w1", "2025-12-31", 500)
	ledger.Add("w2", "2026-12-25", 0) // zero cell still counts as presence

	rows := PaymentMatrix(residents, ledger, 2026)
	require.Len(t, rows, 2)

	assert.Equal(t, "Andi", rows[0].Name)
	assert.True(t, rows[0].Paid[0])
	assert.False(t, rows[0].Paid[1])
	assert.True(t, rows[0].Paid[2])
	assert.False(t, rows[0].Paid[11], "previous year's December must not leak in")

	assert.Equal(t, "Budi", rows[1].Name)
	assert.True(t, rows[1].Paid[11])
	for m := 0; m < 11; m++ {
		assert.False(t, rows[1].Paid[m])
	}
}

func TestLedgerRowRoundTrip(t *testing.T) {
	ledger := make(Ledger)
	ledger.Add("w2", "2026-02-02", 200)
	ledger.Add("w1", "2026-01-01", 100)
	ledger.Add("w1", "2026-01-02", 150)

	rows := LedgerToRows(ledger)
	require.Len(t, rows, 3)
	assert.Equal(t, "w1", rows[0].ResidentID)
	assert.Equal(t, "2026-01-01", rows[0].EntryDate)
	assert.Equal(t, "w1", rows[1].ResidentID)
	assert.Equal(t, "w2", rows[2].ResidentID)

	back := LedgerFromRows(rows)
	assert.Equal(t, ledger, back)
}
