package service

import (
	"context"
	"errors"
	"time"

	"github.com/ideafund/ideafund-backend/internal/common"
	"github.com/ideafund/ideafund-backend/internal/domain"
	"github.com/ideafund/ideafund-backend/internal/repository"
	"github.com/ideafund/ideafund-backend/pkg/cache"
	pkglogger "github.com/ideafund/ideafund-backend/pkg/logger"
)

// CoinService coin balance and ledger business logic
type CoinService interface {
	Balance(ctx context.Context, userID uint64) (*domain.BalanceResponse, error)
	History(userID uint64, page, limit int) ([]*domain.CoinTransaction, int64, error)
	Adjust(ctx context.Context, userID uint64, req *domain.AdjustCoinsRequest) (*domain.CoinTransaction, error)
	// Invalidate drops cached balances after a write made elsewhere (votes)
	Invalidate(ctx context.Context, userID uint64)
}

type coinService struct {
	repo     repository.CoinRepository
	balances *cache.TTLCache[uint64, int64]
	redis    cache.Service
}

// NewCoinService creates a new CoinService. Balances are cached in process
// for ttl; redisCache may be nil.
func NewCoinService(repo repository.CoinRepository, redisCache cache.Service, ttl time.Duration, clock cache.Clock) CoinService {
	return &coinService{
		repo:     repo,
		balances: cache.NewTTLCache[uint64, int64](ttl, clock),
		redis:    redisCache,
	}
}

func (s *coinService) redisAvailable() bool {
	return s.redis != nil && s.redis.IsAvailable()
}

// Balance reads through the in-process cache, then Redis, then the database
func (s *coinService) Balance(ctx context.Context, userID uint64) (*domain.BalanceResponse, error) {
	balance, err := s.balances.GetOrLoad(userID, func() (int64, error) {
		if s.redisAvailable() {
			if v, err := s.redis.GetBalance(ctx, userID); err == nil {
				return v, nil
			}
		}
		v, err := s.repo.Balance(userID)
		if err != nil {
			return 0, err
		}
		if s.redisAvailable() {
			if err := s.redis.SetBalance(ctx, userID, v); err != nil {
				pkglogger.GetLogger().Warn().Err(err).Uint64("user_id", userID).Msg("balance cache write failed")
			}
		}
		return v, nil
	})
	if err != nil {
		return nil, repoError(err, "error.not_found")
	}
	return &domain.BalanceResponse{UserID: userID, Balance: balance}, nil
}

func (s *coinService) History(userID uint64, page, limit int) ([]*domain.CoinTransaction, int64, error) {
	page, limit = normalizePage(page, limit)
	rows, total, err := s.repo.History(userID, page, limit)
	if err != nil {
		return nil, 0, common.NewPersistence(err)
	}
	return rows, total, nil
}

// Adjust credits or debits a user's coins as an admin correction
func (s *coinService) Adjust(ctx context.Context, userID uint64, req *domain.AdjustCoinsRequest) (*domain.CoinTransaction, error) {
	if err := common.Validate(req); err != nil {
		return nil, err
	}

	entry, err := s.repo.Adjust(userID, req.Amount, domain.CoinReasonAdmin, nil)
	s.Invalidate(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientCoins) {
			return nil, common.NewValidation("coins.insufficient", err)
		}
		return nil, repoError(err, "error.not_found")
	}
	return entry, nil
}

func (s *coinService) Invalidate(ctx context.Context, userID uint64) {
	s.balances.Invalidate(userID)
	if s.redisAvailable() {
		if err := s.redis.InvalidateBalance(ctx, userID); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Uint64("user_id", userID).Msg("balance cache invalidation failed")
		}
	}
}
