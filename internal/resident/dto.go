package resident

import (
	"github.com/frahmantamala/dues-management/internal/core/common/validation"
)

// CreateResidentDTO represents the request payload for registering a resident
type CreateResidentDTO struct {
	Name             string `json:"name"`
	FamilyCardNumber string `json:"family_card_number,omitempty"`
	WhatsApp         string `json:"whatsapp,omitempty"`
	Block            string `json:"block,omitempty"`
}

func (dto CreateResidentDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("name", dto.Name).
		Required().
		MinLength(1).
		MaxLength(200)
	validator.Field("family_card_number", dto.FamilyCardNumber).
		MaxLength(32)
	validator.Field("block", dto.Block).
		MaxLength(16)
	if err := validator.Validate(); err != nil {
		return err
	}
	return nil
}

// UpdateResidentDTO represents the request payload for editing a resident
type UpdateResidentDTO struct {
	Name             string `json:"name"`
	FamilyCardNumber string `json:"family_card_number,omitempty"`
	WhatsApp         string `json:"whatsapp,omitempty"`
	Block            string `json:"block,omitempty"`
}

func (dto UpdateResidentDTO) Validate() error {
	return CreateResidentDTO(dto).Validate()
}
