package user

// ChangePasswordDTO carries a password change request for the
// logged-in committee member.
type ChangePasswordDTO struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d ChangePasswordDTO) Validate() error {
	if d.CurrentPassword == "" {
		return ValidationError{Msg: "current_password is required"}
	}
	if len(d.NewPassword) < 8 {
		return ValidationError{Msg: "new_password must be at least 8 characters"}
	}
	return nil
}
