package service

import (
	"context"
	"errors"

	"github.com/ideafund/ideafund-backend/internal/common"
	"github.com/ideafund/ideafund-backend/internal/domain"
	"github.com/ideafund/ideafund-backend/internal/repository"
	"github.com/ideafund/ideafund-backend/internal/ws"
	pkglogger "github.com/ideafund/ideafund-backend/pkg/logger"
)

// VoteService spends coins on campaigns and reports supporter standing
type VoteService interface {
	Vote(ctx context.Context, campaignID, userID uint64, req *domain.VoteRequest) (*domain.SupportResponse, error)
	MySupports(userID uint64) ([]*domain.SupportResponse, error)
}

type voteService struct {
	repo      repository.VoteRepository
	coins     CoinService
	campaigns CampaignService
	notifier  Notifier
	voteCost  int64
}

// NewVoteService creates a new VoteService. A request without an amount
// spends voteCost coins.
func NewVoteService(repo repository.VoteRepository, coins CoinService, campaigns CampaignService, notifier Notifier, voteCost int64) VoteService {
	if voteCost < 1 {
		voteCost = 1
	}
	return &voteService{
		repo:      repo,
		coins:     coins,
		campaigns: campaigns,
		notifier:  notifierOrNop(notifier),
		voteCost:  voteCost,
	}
}

func (s *voteService) Vote(ctx context.Context, campaignID, userID uint64, req *domain.VoteRequest) (*domain.SupportResponse, error) {
	if req == nil {
		req = &domain.VoteRequest{}
	}
	if err := common.Validate(req); err != nil {
		return nil, err
	}
	amount := req.Coins
	if amount == 0 {
		amount = s.voteCost
	}

	result, err := s.repo.Cast(campaignID, userID, amount)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientCoins):
			return nil, common.NewValidation("coins.insufficient", err)
		case errors.Is(err, repository.ErrCampaignClosed):
			return nil, common.NewConflict("vote.campaign_closed", err)
		default:
			return nil, repoError(err, "campaign.not_found")
		}
	}

	// 잔액/목록 캐시 무효화
	if s.coins != nil {
		s.coins.Invalidate(ctx, userID)
	}
	if s.campaigns != nil {
		s.campaigns.InvalidateLists(ctx)
	}

	resp := &domain.SupportResponse{
		CampaignID:      campaignID,
		CampaignTitle:   result.Campaign.Title,
		Position:        result.Position,
		DiscountPercent: domain.DiscountForPosition(result.Position),
		CoinsSpent:      result.Vote.Coins,
		Balance:         result.Balance,
	}

	log := pkglogger.WithCampaign(campaignID)
	log.Info().Uint64("user_id", userID).Int64("coins", amount).Int64("position", result.Position).Msg("vote recorded")

	s.notifier.SendToUser(userID, &ws.Event{Type: ws.EventVoteRecorded, Payload: resp})
	return resp, nil
}

// MySupports lists every campaign the user backed with position and discount tier
func (s *voteService) MySupports(userID uint64) ([]*domain.SupportResponse, error) {
	rows, err := s.repo.SupportsByUser(userID)
	if err != nil {
		return nil, common.NewPersistence(err)
	}

	out := make([]*domain.SupportResponse, 0, len(rows))
	for _, row := range rows {
		position, err := s.repo.Position(row.CampaignID, userID)
		if err != nil {
			return nil, common.NewPersistence(err)
		}
		out = append(out, &domain.SupportResponse{
			CampaignID:      row.CampaignID,
			CampaignTitle:   row.CampaignTitle,
			Position:        position,
			DiscountPercent: domain.DiscountForPosition(position),
			CoinsSpent:      row.CoinsSpent,
		})
	}
	return out, nil
}
