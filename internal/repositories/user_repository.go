package repositories

import (
	"errors"

	"clientdesk/internal/enums"
	"clientdesk/internal/errs"
	"clientdesk/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (ur *UserRepository) FindByID(userID uint) (*models.User, error) {
	var user models.User
	if err := ur.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindSoleAdmin resolves the single admin account and fails loudly when the
// invariant is violated, instead of silently picking the first row.
func (ur *UserRepository) FindSoleAdmin() (*models.User, error) {
	var admins []models.User
	if err := ur.db.Where("role = ?", enums.ROLE_ADMIN).Limit(2).Find(&admins).Error; err != nil {
		return nil, err
	}
	switch len(admins) {
	case 0:
		return nil, errs.ErrNoAdminAccount
	case 1:
		return &admins[0], nil
	default:
		return nil, errs.ErrMultipleAdmins
	}
}

func (ur *UserRepository) FindClients() ([]models.User, error) {
	var clients []models.User
	err := ur.db.
		Where("role = ?", enums.ROLE_CLIENT).
		Order("created_at ASC").
		Find(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}
