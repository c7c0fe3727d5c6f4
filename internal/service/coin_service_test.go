package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ideafund/ideafund-backend/internal/common"
	"github.com/ideafund/ideafund-backend/internal/domain"
	"github.com/ideafund/ideafund-backend/internal/repository"
	"github.com/ideafund/ideafund-backend/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoinBalance_CachedUntilTTL(t *testing.T) {
	repo := new(mockCoinRepo)
	clock := newFakeClock()
	svc := NewCoinService(repo, cache.NewService(nil), 30*time.Second, clock)
	ctx := context.Background()

	repo.On("Balance", uint64(1)).Return(int64(10), nil).Once()
	repo.On("Balance", uint64(1)).Return(int64(7), nil).Once()

	b, err := svc.Balance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(10), b.Balance)

	clock.Advance(29 * time.Second)
	b, _ = svc.Balance(ctx, 1)
	assert.Equal(t, int64(10), b.Balance, "fresh entry served from cache")

	clock.Advance(time.Second)
	b, _ = svc.Balance(ctx, 1)
	assert.Equal(t, int64(7), b.Balance, "entry expires at ttl")
	repo.AssertNumberOfCalls(t, "Balance", 2)
}

func TestCoinBalance_InvalidatedByWrites(t *testing.T) {
	repo := new(mockCoinRepo)
	svc := NewCoinService(repo, nil, time.Minute, newFakeClock())
	ctx := context.Background()

	repo.On("Balance", uint64(1)).Return(int64(10), nil).Once()
	repo.On("Adjust", uint64(1), int64(5), domain.CoinReasonAdmin, (*uint64)(nil)).
		Return(&domain.CoinTransaction{UserID: 1, Amount: 5, Balance: 15}, nil)
	repo.On("Balance", uint64(1)).Return(int64(15), nil).Once()

	b, _ := svc.Balance(ctx, 1)
	assert.Equal(t, int64(10), b.Balance)

	_, err := svc.Adjust(ctx, 1, &domain.AdjustCoinsRequest{Amount: 5})
	require.NoError(t, err)

	b, _ = svc.Balance(ctx, 1)
	assert.Equal(t, int64(15), b.Balance)
	repo.AssertExpectations(t)
}

func TestCoinAdjust_Errors(t *testing.T) {
	repo := new(mockCoinRepo)
	svc := NewCoinService(repo, nil, time.Minute, nil)
	ctx := context.Background()

	repo.On("Adjust", uint64(1), int64(-50), domain.CoinReasonAdmin, (*uint64)(nil)).
		Return(nil, repository.ErrInsufficientCoins)

	_, err := svc.Adjust(ctx, 1, &domain.AdjustCoinsRequest{Amount: -50})
	assert.True(t, errors.Is(err, &common.AppError{Kind: common.KindValidation, Message: "coins.insufficient"}))

	_, err = svc.Adjust(ctx, 1, &domain.AdjustCoinsRequest{Amount: 0})
	assert.Equal(t, common.KindValidation, common.KindOf(err))
}

func TestCoinHistory_NormalizesPaging(t *testing.T) {
	repo := new(mockCoinRepo)
	svc := NewCoinService(repo, nil, time.Minute, nil)

	repo.On("History", uint64(3), 1, 100).Return([]*domain.CoinTransaction{{ID: 1}}, int64(1), nil)

	rows, total, err := svc.History(3, 0, 1000)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, int64(1), total)
}
