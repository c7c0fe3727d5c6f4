package repository

import (
	"github.com/ideafund/ideafund-backend/internal/domain"
	"gorm.io/gorm"
)

// CoinRepository coin balance and ledger data access
type CoinRepository interface {
	Balance(userID uint64) (int64, error)
	History(userID uint64, page, limit int) ([]*domain.CoinTransaction, int64, error)
	// Adjust changes the balance by amount (negative debits) and appends a
	// ledger row atomically. A debit larger than the balance fails with
	// ErrInsufficientCoins and changes nothing.
	Adjust(userID uint64, amount int64, reason string, campaignID *uint64) (*domain.CoinTransaction, error)
}

type coinRepository struct {
	db *gorm.DB
}

// NewCoinRepository creates a new CoinRepository
func NewCoinRepository(db *gorm.DB) CoinRepository {
	return &coinRepository{db: db}
}

func (r *coinRepository) Balance(userID uint64) (int64, error) {
	var user domain.User
	if err := r.db.Select("coins").Where("id = ?", userID).First(&user).Error; err != nil {
		return 0, err
	}
	return user.Coins, nil
}

func (r *coinRepository) History(userID uint64, page, limit int) ([]*domain.CoinTransaction, int64, error) {
	var rows []*domain.CoinTransaction
	var total int64

	if err := r.db.Model(&domain.CoinTransaction{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.db.Where("user_id = ?", userID).
		Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error
	return rows, total, err
}

func (r *coinRepository) Adjust(userID uint64, amount int64, reason string, campaignID *uint64) (*domain.CoinTransaction, error) {
	var entry *domain.CoinTransaction
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var err error
		entry, err = adjustCoins(tx, userID, amount, reason, campaignID)
		return err
	})
	return entry, err
}

// adjustCoins runs inside the caller's transaction. Debits use a guarded
// UPDATE so two concurrent debits can never overdraw the balance.
func adjustCoins(tx *gorm.DB, userID uint64, amount int64, reason string, campaignID *uint64) (*domain.CoinTransaction, error) {
	q := tx.Model(&domain.User{}).Where("id = ?", userID)
	if amount < 0 {
		q = q.Where("coins >= ?", -amount)
	}
	res := q.UpdateColumn("coins", gorm.Expr("coins + ?", amount))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		var exists int64
		if err := tx.Model(&domain.User{}).Where("id = ?", userID).Count(&exists).Error; err != nil {
			return nil, err
		}
		if exists == 0 {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, ErrInsufficientCoins
	}

	var balance int64
	if err := tx.Model(&domain.User{}).Select("coins").Where("id = ?", userID).Scan(&balance).Error; err != nil {
		return nil, err
	}

	entry := &domain.CoinTransaction{
		UserID:     userID,
		Amount:     amount,
		Balance:    balance,
		Reason:     reason,
		CampaignID: campaignID,
	}
	if err := tx.Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}
