package dues

import "time"

// Entry is the persistence row shape for one daily ledger cell:
// the aggregate amount a resident has paid toward a single calendar
// date. One row per (resident, date); repeated payments accumulate
// into the same row.
type Entry struct {
	ID         int64     `gorm:"primaryKey"`
	ResidentID string    `gorm:"column:resident_id;not null;uniqueIndex:idx_dues_resident_date"`
	EntryDate  string    `gorm:"column:entry_date;not null;uniqueIndex:idx_dues_resident_date"`
	AmountIDR  int64     `gorm:"column:amount_idr;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt  time.Time `gorm:"column:updated_at;default:now()"`
}

func (Entry) TableName() string {
	return "dues_entries"
}
