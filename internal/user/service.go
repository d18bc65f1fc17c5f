package user

import (
	"fmt"

	"github.com/frahmantamala/dues-management/internal/auth"
)

type Service struct {
	repo Repository
}

type Repository interface {
	GetByID(userID int64) (*User, error)
	GetPermissions(userID int64) ([]string, error)
	UpdatePassword(userID int64, passwordHash string) error
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) GetByID(userID int64) (*User, error) {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	perms, err := s.repo.GetPermissions(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user permissions: %w", err)
	}
	u.Permissions = perms

	return u, nil
}

// ChangePassword verifies the current password before storing the new
// hash.
func (s *Service) ChangePassword(userID int64, dto ChangePasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	u, err := s.repo.GetByID(userID)
	if err != nil {
		return fmt.Errorf("failed to get user by id: %w", err)
	}

	if err := auth.VerifyPassword(u.PasswordHash, dto.CurrentPassword); err != nil {
		return auth.ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(dto.NewPassword, 10)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(userID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
