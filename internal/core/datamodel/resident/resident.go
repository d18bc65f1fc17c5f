package resident

import "time"

// Resident is the persistence row shape for a registered resident.
type Resident struct {
	ID               string    `gorm:"primaryKey;column:id"`
	Name             string    `gorm:"column:name;not null"`
	FamilyCardNumber string    `gorm:"column:family_card_number"`
	WhatsApp         string    `gorm:"column:whatsapp"`
	Block            string    `gorm:"column:block"`
	RegisteredAt     time.Time `gorm:"column:registered_at;default:now()"`
	CreatedAt        time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt        time.Time `gorm:"column:updated_at;default:now()"`
}

func (Resident) TableName() string {
	return "residents"
}
