package dues

import (
	"fmt"
	"time"
)

var monthNamesID = [12]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

var monthAbbrevID = [12]string{
	"Jan", "Feb", "Mar", "Apr", "Mei", "Jun",
	"Jul", "Agu", "Sep", "Okt", "Nov", "Des",
}

// FormatDisplayDate renders a timestamp the way cash entries are shown,
// e.g. "2 Sep 2026". Display only; ordering always uses TimestampMs.
func FormatDisplayDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), monthAbbrevID[int(t.Month())-1], t.Year())
}

// MonthYearLabel renders a month the way payment sub-descriptions are
// shown, e.g. "September 2026".
func MonthYearLabel(year int, month time.Month) string {
	return fmt.Sprintf("%s %d", monthNamesID[int(month)-1], year)
}
