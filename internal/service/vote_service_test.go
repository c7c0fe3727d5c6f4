package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ideafund/ideafund-backend/internal/common"
	"github.com/ideafund/ideafund-backend/internal/domain"
	"github.com/ideafund/ideafund-backend/internal/repository"
	"github.com/ideafund/ideafund-backend/internal/ws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubCoins records invalidations
type stubCoins struct {
	CoinService
	invalidated []uint64
}

func (s *stubCoins) Invalidate(_ context.Context, userID uint64) {
	s.invalidated = append(s.invalidated, userID)
}

func TestVote_DefaultCostAndDiscount(t *testing.T) {
	repo := new(mockVoteRepo)
	coins := &stubCoins{}
	notifier := newRecordingNotifier()
	svc := NewVoteService(repo, coins, nil, notifier, 2)

	repo.On("Cast", uint64(7), uint64(3), int64(2)).Return(&repository.VoteResult{
		Vote:     &domain.Vote{ID: 1, Coins: 2},
		Campaign: &domain.Campaign{ID: 7, Title: "Lamp"},
		Balance:  8,
		Position: 11,
	}, nil)

	resp, err := svc.Vote(context.Background(), 7, 3, &domain.VoteRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(11), resp.Position)
	assert.Equal(t, 20, resp.DiscountPercent)
	assert.Equal(t, int64(8), resp.Balance)
	assert.Equal(t, []uint64{3}, coins.invalidated)

	events := notifier.For(3)
	require.Len(t, events, 1)
	assert.Equal(t, ws.EventVoteRecorded, events[0].Type)
}

func TestVote_Errors(t *testing.T) {
	repo := new(mockVoteRepo)
	svc := NewVoteService(repo, nil, nil, nil, 1)

	repo.On("Cast", uint64(1), uint64(3), int64(5)).Return(nil, repository.ErrInsufficientCoins)
	repo.On("Cast", uint64(2), uint64(3), int64(1)).Return(nil, repository.ErrCampaignClosed)
	repo.On("Cast", uint64(3), uint64(3), int64(1)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Vote(context.Background(), 1, 3, &domain.VoteRequest{Coins: 5})
	assert.True(t, errors.Is(err, &common.AppError{Kind: common.KindValidation, Message: "coins.insufficient"}))

	_, err = svc.Vote(context.Background(), 2, 3, nil)
	assert.True(t, errors.Is(err, &common.AppError{Kind: common.KindConflict, Message: "vote.campaign_closed"}))

	_, err = svc.Vote(context.Background(), 3, 3, nil)
	assert.True(t, errors.Is(err, common.ErrNotFound))

	_, err = svc.Vote(context.Background(), 1, 3, &domain.VoteRequest{Coins: -1})
	assert.Equal(t, common.KindValidation, common.KindOf(err))
}

func TestMySupports(t *testing.T) {
	repo := new(mockVoteRepo)
	svc := NewVoteService(repo, nil, nil, nil, 1)

	repo.On("SupportsByUser", uint64(3)).Return([]domain.SupportRow{
		{CampaignID: 1, CampaignTitle: "early", CoinsSpent: 4},
		{CampaignID: 2, CampaignTitle: "late", CoinsSpent: 1},
	}, nil)
	repo.On("Position", uint64(1), uint64(3)).Return(int64(1), nil)
	repo.On("Position", uint64(2), uint64(3)).Return(int64(250), nil)

	rows, err := svc.MySupports(3)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 30, rows[0].DiscountPercent)
	assert.Equal(t, 5, rows[1].DiscountPercent)
	assert.Equal(t, int64(4), rows[0].CoinsSpent)
}

func TestDiscountTiers(t *testing.T) {
	cases := map[int64]int{0: 0, 1: 30, 10: 30, 11: 20, 50: 20, 51: 10, 100: 10, 101: 5}
	for position, want := range cases {
		assert.Equal(t, want, domain.DiscountForPosition(position), "position %d", position)
	}
}
