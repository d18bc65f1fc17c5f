package dues

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// PeriodKind selects how a reference period is interpreted.
type PeriodKind int

const (
	PeriodDay PeriodKind = iota
	PeriodMonth
	PeriodYearToDate
	PeriodRange
)

// Period is a reference window for obligation and payment folding.
// Construct via the helpers below; zero values are not meaningful.
type Period struct {
	Kind  PeriodKind
	Year  int
	Month time.Month
	Date  time.Time
	Start time.Time
	End   time.Time
}

func DayPeriod(date time.Time) Period {
	return Period{Kind: PeriodDay, Date: date}
}

func MonthPeriod(year int, month time.Month) Period {
	return Period{Kind: PeriodMonth, Year: year, Month: month}
}

// YearToDatePeriod covers January 1 of the calculator's current year
// through today.
func YearToDatePeriod() Period {
	return Period{Kind: PeriodYearToDate}
}

func RangePeriod(start, end time.Time) Period {
	return Period{Kind: PeriodRange, Start: start, End: end}
}

// DaysInMonth returns the true Gregorian day count, leap years included.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Calculator computes obligations and arrears relative to a fixed
// reference instant. It never mutates the ledger and, given well-typed
// inputs, never fails.
type Calculator struct {
	today   time.Time
	rateIDR int64
}

func NewCalculator(today time.Time, dailyRateIDR int64) *Calculator {
	return &Calculator{today: today, rateIDR: dailyRateIDR}
}

// YearToDateDays counts days elapsed since January 1 as the ceiling of
// elapsed wall-clock time over 24h. This deliberately differs from the
// calendar day number around midnight boundaries; reports depend on the
// ceiling behavior.
func (c *Calculator) YearToDateDays() int {
	startOfYear := time.Date(c.today.Year(), time.January, 1, 0, 0, 0, 0, c.today.Location())
	elapsed := c.today.Sub(startOfYear)
	if elapsed < 0 {
		elapsed = -elapsed
	}
	days := elapsed / (24 * time.Hour)
	if elapsed%(24*time.Hour) != 0 {
		days++
	}
	return int(days)
}

// ObligationDays returns how many calendar days of the period carry an
// obligation: the full day count for a past period, days through today
// for an in-progress one, zero for a future one.
func (c *Calculator) ObligationDays(p Period) int {
	todayY, todayM, todayD := c.today.Date()

	switch p.Kind {
	case PeriodDay:
		d := truncateToDay(p.Date)
		if d.After(truncateToDay(c.today)) {
			return 0
		}
		return 1

	case PeriodMonth:
		if p.Year > todayY || (p.Year == todayY && p.Month > todayM) {
			return 0
		}
		if p.Year == todayY && p.Month == todayM {
			return todayD
		}
		return DaysInMonth(p.Year, p.Month)

	case PeriodYearToDate:
		return c.YearToDateDays()

	case PeriodRange:
		start := truncateToDay(p.Start)
		end := truncateToDay(p.End)
		if end.Before(start) {
			return 0
		}
		today := truncateToDay(c.today)
		if start.After(today) {
			return 0
		}
		if end.After(today) {
			end = today
		}
		return int(end.Sub(start)/(24*time.Hour)) + 1
	}
	return 0
}

// Obligation is the amount owed for the period at the current rate.
func (c *Calculator) Obligation(p Period) int64 {
	return int64(c.ObligationDays(p)) * c.rateIDR
}

// PaidInPeriod sums a resident's ledger cells whose date falls inside
// the period. Month and year-to-date periods use the date-key prefix
// fast path; both paths agree for any key in the canonical layout, and
// the tests hold them to that.
func (c *Calculator) PaidInPeriod(cells map[string]int64, p Period) int64 {
	if len(cells) == 0 {
		return 0
	}

	switch p.Kind {
	case PeriodMonth:
		return sumByPrefix(cells, fmt.Sprintf("%04d-%02d", p.Year, int(p.Month)))
	case PeriodYearToDate:
		return sumByPrefix(cells, fmt.Sprintf("%04d-", c.today.Year()))
	}

	start, end := c.periodBounds(p)
	var total int64
	for key, amount := range cells {
		d, err := time.Parse(DateLayout, key)
		if err != nil {
			continue
		}
		if !d.Before(start) && !d.After(end) {
			total += amount
		}
	}
	return total
}

func (c *Calculator) periodBounds(p Period) (time.Time, time.Time) {
	switch p.Kind {
	case PeriodDay:
		d := truncateToDay(p.Date).UTC()
		return d, d
	case PeriodMonth:
		start := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
		return start, time.Date(p.Year, p.Month, DaysInMonth(p.Year, p.Month), 0, 0, 0, 0, time.UTC)
	case PeriodYearToDate:
		start := time.Date(c.today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return start, truncateToDay(c.today).UTC()
	default:
		return truncateToDay(p.Start).UTC(), truncateToDay(p.End).UTC()
	}
}

// Summarize computes per-resident obligation, paid and outstanding for
// the period, sorted by resident name ascending. Outstanding is floored
// at zero; overpayment is not carried as credit.
func (c *Calculator) Summarize(residents []ResidentRef, ledger Ledger, p Period) []Summary {
	obligation := c.Obligation(p)

	summaries := make([]Summary, 0, len(residents))
	for _, ref := range residents {
		paid := c.PaidInPeriod(ledger.CellsFor(ref.ID), p)
		outstanding := obligation - paid
		if outstanding < 0 {
			outstanding = 0
		}
		summaries = append(summaries, Summary{
			ResidentID:     ref.ID,
			Name:           ref.Name,
			Block:          ref.Block,
			ObligationIDR:  obligation,
			PaidIDR:        paid,
			OutstandingIDR: outstanding,
			Percent:        PercentPaid(paid, obligation),
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return strings.ToLower(summaries[i].Name) < strings.ToLower(summaries[j].Name)
	})
	return summaries
}

// SummarizeOne is Summarize for a single resident.
func (c *Calculator) SummarizeOne(ref ResidentRef, ledger Ledger, p Period) Summary {
	results := c.Summarize([]ResidentRef{ref}, ledger, p)
	return results[0]
}

// PercentPaid is the display percentage, capped at 100. A zero
// obligation (future period) uses denominator 1 so the division is
// always defined.
func PercentPaid(paid, obligation int64) int {
	if obligation < 1 {
		obligation = 1
	}
	ratio := float64(paid) / float64(obligation)
	if ratio > 1 {
		ratio = 1
	}
	return int(ratio*100 + 0.5)
}

// PaymentMatrix reports, per resident, which months of the year have at
// least one ledger cell. Presence only: a partial or even zero-amount
// cell still marks the month as paid.
func PaymentMatrix(residents []ResidentRef, ledger Ledger, year int) []MatrixRow {
	sorted := make([]ResidentRef, len(residents))
	copy(sorted, residents)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
	})

	rows := make([]MatrixRow, 0, len(sorted))
	for _, ref := range sorted {
		row := MatrixRow{ResidentID: ref.ID, Name: ref.Name, Block: ref.Block}
		cells := ledger.CellsFor(ref.ID)
		for m := 1; m <= 12; m++ {
			prefix := fmt.Sprintf("%04d-%02d", year, m)
			for key := range cells {
				if strings.HasPrefix(key, prefix) {
					row.Paid[m-1] = true
					break
				}
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func sumByPrefix(cells map[string]int64, prefix string) int64 {
	var total int64
	for key, amount := range cells {
		if strings.HasPrefix(key, prefix) {
			total += amount
		}
	}
	return total
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
