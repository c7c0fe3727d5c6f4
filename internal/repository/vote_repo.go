package repository

import (
	"github.com/ideafund/ideafund-backend/internal/domain"
	"github.com/ideafund/ideafund-backend/internal/lifecycle"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VoteResult is the outcome of a cast vote
type VoteResult struct {
	Vote     *domain.Vote
	Campaign *domain.Campaign
	Balance  int64
	Position int64
}

// VoteRepository vote data access
type VoteRepository interface {
	// Cast debits coins, records the ledger row and the vote and bumps the
	// campaign's reservations in one transaction
	Cast(campaignID, userID uint64, coins int64) (*VoteResult, error)
	Position(campaignID, userID uint64) (int64, error)
	SupportsByUser(userID uint64) ([]domain.SupportRow, error)
	CountSupporters(campaignID uint64) (int64, error)
}

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository creates a new VoteRepository
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

// votable reports whether a campaign in tab accepts votes
func votable(tab lifecycle.Tab) bool {
	return tab == lifecycle.TabLive || tab == lifecycle.TabGoalReached
}

func (r *voteRepository) Cast(campaignID, userID uint64, coins int64) (*VoteResult, error) {
	result := &VoteResult{}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var campaign domain.Campaign
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", campaignID).First(&campaign).Error; err != nil {
			return err
		}
		if !votable(lifecycle.TabOf(campaign.Snapshot())) {
			return ErrCampaignClosed
		}

		entry, err := adjustCoins(tx, userID, -coins, domain.CoinReasonVote, &campaignID)
		if err != nil {
			return err
		}

		vote := &domain.Vote{CampaignID: campaignID, UserID: userID, Coins: coins}
		if err := tx.Create(vote).Error; err != nil {
			return err
		}

		if err := tx.Model(&domain.Campaign{}).Where("id = ?", campaignID).
			UpdateColumn("current_reservations", gorm.Expr("current_reservations + ?", coins)).Error; err != nil {
			return err
		}
		campaign.CurrentReservations += coins

		position, err := position(tx, campaignID, userID)
		if err != nil {
			return err
		}

		result.Vote = vote
		result.Campaign = &campaign
		result.Balance = entry.Balance
		result.Position = position
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *voteRepository) Position(campaignID, userID uint64) (int64, error) {
	return position(r.db, campaignID, userID)
}

// position ranks the user's first vote among every backer's first vote.
// Zero when the user has not voted.
func position(db *gorm.DB, campaignID, userID uint64) (int64, error) {
	var pos int64
	err := db.Raw(`
		SELECT COUNT(*) FROM (
			SELECT user_id, MIN(id) AS first_id FROM votes WHERE campaign_id = ? GROUP BY user_id
		) firsts
		WHERE firsts.first_id <= (SELECT MIN(id) FROM votes WHERE campaign_id = ? AND user_id = ?)`,
		campaignID, campaignID, userID,
	).Scan(&pos).Error
	return pos, err
}

func (r *voteRepository) SupportsByUser(userID uint64) ([]domain.SupportRow, error) {
	var rows []domain.SupportRow
	err := r.db.Table("votes").
		Select("votes.campaign_id AS campaign_id, campaigns.title AS campaign_title, SUM(votes.coins) AS coins_spent, MIN(votes.id) AS first_vote_id").
		Joins("JOIN campaigns ON campaigns.id = votes.campaign_id").
		Where("votes.user_id = ?", userID).
		Group("votes.campaign_id, campaigns.title").
		Order("first_vote_id DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *voteRepository) CountSupporters(campaignID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Vote{}).
		Where("campaign_id = ?", campaignID).
		Distinct("user_id").
		Count(&count).Error
	return count, err
}
