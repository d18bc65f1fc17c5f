package transaction

import "time"

// Transaction is the persistence row shape for a cash ledger entry.
// TimestampMs is the authoritative ordering key; DisplayDate is a
// presentation string and must never be used for sorting.
type Transaction struct {
	ID             string    `gorm:"primaryKey;column:id"`
	DisplayDate    string    `gorm:"column:display_date"`
	Description    string    `gorm:"column:description;not null"`
	SubDescription string    `gorm:"column:sub_description"`
	Category       string    `gorm:"column:category;not null"`
	AmountIDR      int64     `gorm:"column:amount_idr;not null"`
	TimestampMs    int64     `gorm:"column:timestamp_ms;not null;index"`
	CreatedAt      time.Time `gorm:"column:created_at;default:now()"`
}

func (Transaction) TableName() string {
	return "transactions"
}
