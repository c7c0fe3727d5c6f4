package migration

import (
	"errors"
	"fmt"

	"github.com/ideafund/ideafund-backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Models lists every table owned by the service, in dependency order
func Models() []interface{} {
	return []interface{}{
		&domain.User{},
		&domain.CoinTransaction{},
		&domain.Submission{},
		&domain.Campaign{},
		&domain.Vote{},
		&domain.Message{},
		&domain.AuditLog{},
	}
}

// Run executes AutoMigrate for all tables. 테이블 없으면 생성, 있으면 컬럼만 추가
func Run(db *gorm.DB) error {
	for _, m := range Models() {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

// SeedAdmin creates an admin account when no user with email exists.
// Returns true when a new admin was created.
func SeedAdmin(db *gorm.DB, email, password, nickname string) (bool, error) {
	var existing domain.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		if existing.Level < domain.AdminLevel {
			return false, db.Model(&existing).Update("level", domain.AdminLevel).Error
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}

	admin := &domain.User{
		Email:    email,
		Password: string(hashed),
		Nickname: nickname,
		Level:    domain.AdminLevel,
	}
	if err := db.Create(admin).Error; err != nil {
		return false, err
	}
	return true, nil
}
