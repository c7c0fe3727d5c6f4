package domain

import "time"

// Vote is one spend of coins on a campaign. A user may vote more than once;
// their supporter position comes from their first vote.
// Table: votes
type Vote struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CampaignID uint64    `gorm:"column:campaign_id;index:idx_votes_campaign_user" json:"campaign_id"`
	UserID     uint64    `gorm:"column:user_id;index:idx_votes_campaign_user;index" json:"user_id"`
	Coins      int64     `gorm:"column:coins" json:"coins"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName specifies the table name for Vote model
func (Vote) TableName() string {
	return "votes"
}

// VoteRequest spends coins on a campaign. Zero means the configured vote cost.
type VoteRequest struct {
	Coins int64 `json:"coins" validate:"omitempty,min=1,max=1000"`
}

// SupportResponse describes the caller's standing on one campaign
type SupportResponse struct {
	CampaignID      uint64 `json:"campaign_id"`
	CampaignTitle   string `json:"campaign_title,omitempty"`
	Position        int64  `json:"position"`
	DiscountPercent int    `json:"discount_percent"`
	CoinsSpent      int64  `json:"coins_spent"`
	Balance         int64  `json:"balance,omitempty"`
}

// SupportRow is one campaign a user backed, aggregated by the repository
type SupportRow struct {
	CampaignID    uint64
	CampaignTitle string
	CoinsSpent    int64
	FirstVoteID   uint64
}

// DiscountForPosition maps a supporter position to the promised launch discount
func DiscountForPosition(position int64) int {
	switch {
	case position <= 0:
		return 0
	case position <= 10:
		return 30
	case position <= 50:
		return 20
	case position <= 100:
		return 10
	default:
		return 5
	}
}
