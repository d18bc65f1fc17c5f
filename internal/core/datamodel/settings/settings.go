package settings

import "time"

// Setting is a single key-value row in the settings table.
type Setting struct {
	Key       string    `gorm:"primaryKey;column:key"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:now()"`
}

func (Setting) TableName() string {
	return "settings"
}
