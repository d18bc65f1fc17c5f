package resident

import (
	"time"

	residentDatamodel "github.com/frahmantamala/dues-management/internal/core/datamodel/resident"
	"github.com/frahmantamala/dues-management/internal/dues"
)

// Resident is the domain view of a registered resident.
type Resident struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	FamilyCardNumber string    `json:"family_card_number"`
	WhatsApp         string    `json:"whatsapp"`
	Block            string    `json:"block"`
	RegisteredAt     time.Time `json:"registered_at"`
	RegisteredLabel  string    `json:"registered_label"`
}

func fromRow(row *residentDatamodel.Resident) *Resident {
	return &Resident{
		ID:               row.ID,
		Name:             row.Name,
		FamilyCardNumber: row.FamilyCardNumber,
		WhatsApp:         row.WhatsApp,
		Block:            row.Block,
		RegisteredAt:     row.RegisteredAt,
		RegisteredLabel:  dues.FormatDisplayDate(row.RegisteredAt),
	}
}

func (r *Resident) Ref() dues.ResidentRef {
	return dues.ResidentRef{ID: r.ID, Name: r.Name, Block: r.Block}
}
