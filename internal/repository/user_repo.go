package repository

import (
	"github.com/ideafund/ideafund-backend/internal/domain"
	"gorm.io/gorm"
)

// UserRepository user data access
type UserRepository interface {
	FindByID(id uint64) (*domain.User, error)
	FindByEmail(email string) (*domain.User, error)
	ExistsByEmail(email string) (bool, error)
	// CreateWithGrant inserts the user and, when grant > 0, credits the
	// starting coins with a ledger row in the same transaction
	CreateWithGrant(user *domain.User, grant int64) error
	UpdateLevel(id uint64, level int) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(id uint64) (*domain.User, error) {
	var user domain.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) CreateWithGrant(user *domain.User, grant int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		user.Coins = 0
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if grant <= 0 {
			return nil
		}
		entry, err := adjustCoins(tx, user.ID, grant, domain.CoinReasonSignup, nil)
		if err != nil {
			return err
		}
		user.Coins = entry.Balance
		return nil
	})
}

func (r *userRepository) UpdateLevel(id uint64, level int) error {
	return r.db.Model(&domain.User{}).Where("id = ?", id).Update("level", level).Error
}
