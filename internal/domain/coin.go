package domain

import "time"

// Coin transaction reasons
const (
	CoinReasonSignup = "signup_grant"
	CoinReasonVote   = "vote"
	CoinReasonAdmin  = "admin_adjust"
)

// CoinTransaction is one ledger row. Amount is signed; Balance is the user's
// balance after the change.
// Table: coin_transactions
type CoinTransaction struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID     uint64    `gorm:"column:user_id;index" json:"user_id"`
	Amount     int64     `gorm:"column:amount" json:"amount"`
	Balance    int64     `gorm:"column:balance" json:"balance"`
	Reason     string    `gorm:"column:reason;size:32" json:"reason"`
	CampaignID *uint64   `gorm:"column:campaign_id" json:"campaign_id,omitempty"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName specifies the table name for CoinTransaction model
func (CoinTransaction) TableName() string {
	return "coin_transactions"
}

// BalanceResponse is the API response for GET /coins/balance
type BalanceResponse struct {
	UserID  uint64 `json:"user_id"`
	Balance int64  `json:"balance"`
}

// AdjustCoinsRequest is an admin credit (positive) or debit (negative)
type AdjustCoinsRequest struct {
	Amount int64 `json:"amount" validate:"required,ne=0,min=-100000,max=100000"`
}
