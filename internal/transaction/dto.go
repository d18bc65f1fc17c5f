package transaction

import (
	errors "github.com/frahmantamala/dues-management/internal"
	"github.com/frahmantamala/dues-management/internal/core/common/validation"
)

// CreateTransactionDTO represents the request payload for appending a
// cash entry
type CreateTransactionDTO struct {
	DisplayDate    string `json:"display_date,omitempty"`
	Description    string `json:"description"`
	SubDescription string `json:"sub_description,omitempty"`
	Category       string `json:"category"`
	AmountIDR      int64  `json:"amount_idr"`
}

func (dto CreateTransactionDTO) Validate() error {
	if err := validation.ValidatePaymentAmount(dto.AmountIDR); err != nil {
		return err
	}
	if err := validation.ValidateDescription(dto.Description); err != nil {
		return err
	}
	if dto.Category != CategoryIncome && dto.Category != CategoryExpense {
		return errors.NewValidationError("category must be 'masuk' or 'keluar'", errors.ErrCodeValidationFailed)
	}
	return nil
}
