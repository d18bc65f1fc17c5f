package postgres

import (
	"errors"
	"time"

	userDatamodel "github.com/frahmantamala/dues-management/internal/core/datamodel/user"
	"github.com/frahmantamala/dues-management/internal/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetByID(userID int64) (*user.User, error) {
	var row userDatamodel.User
	err := r.db.Where("id = ? AND is_active = true", userID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&row), nil
}

func (r *Repository) GetPermissions(userID int64) ([]string, error) {
	query := `SELECT p.name
	         FROM permissions p
	         JOIN user_permissions up ON p.id = up.permission_id
	         WHERE up.user_id = ?`

	rows, err := r.db.Raw(query, userID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var permissions []string
	for rows.Next() {
		var permName string
		if err := rows.Scan(&permName); err != nil {
			return nil, err
		}
		permissions = append(permissions, permName)
	}
	return permissions, rows.Err()
}

func (r *Repository) UpdatePassword(userID int64, passwordHash string) error {
	result := r.db.Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password_hash": passwordHash,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return user.ErrNotFound
	}
	return nil
}
