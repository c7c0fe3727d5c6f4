package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTL 상수
const (
	TTLBalance   = 30 * time.Second // 투표 시 무효화
	TTLCampaigns = 30 * time.Second
)

const (
	keyBalance        = "ideafund:coins:balance:%d"
	keyCampaignPage   = "ideafund:campaigns:%d:%s:%d:%d"
	keyCampaignsEpoch = "ideafund:campaigns:epoch"
)

// ErrUnavailable is returned by reads when no Redis client is configured
var ErrUnavailable = errors.New("cache: redis not configured")

// Service is the shared Redis cache for coin balances and campaign list pages.
// Built with a nil client every read misses and every write is a no-op.
type Service interface {
	GetBalance(ctx context.Context, userID uint64) (int64, error)
	SetBalance(ctx context.Context, userID uint64, balance int64) error
	InvalidateBalance(ctx context.Context, userID uint64) error

	GetCampaigns(ctx context.Context, tab string, page, limit int) ([]byte, error)
	SetCampaigns(ctx context.Context, tab string, page, limit int, data interface{}) error
	InvalidateCampaigns(ctx context.Context) error

	IsAvailable() bool
}

type redisCache struct {
	rdb *redis.Client
}

// NewService wraps rdb, which may be nil
func NewService(rdb *redis.Client) Service {
	return &redisCache{rdb: rdb}
}

func (c *redisCache) IsAvailable() bool { return c.rdb != nil }

func (c *redisCache) GetBalance(ctx context.Context, userID uint64) (int64, error) {
	if c.rdb == nil {
		return 0, ErrUnavailable
	}
	return c.rdb.Get(ctx, fmt.Sprintf(keyBalance, userID)).Int64()
}

func (c *redisCache) SetBalance(ctx context.Context, userID uint64, balance int64) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Set(ctx, fmt.Sprintf(keyBalance, userID), balance, TTLBalance).Err()
}

func (c *redisCache) InvalidateBalance(ctx context.Context, userID uint64) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, fmt.Sprintf(keyBalance, userID)).Err()
}

// 목록 페이지 키에는 epoch 가 들어간다. epoch 를 올리면 이전 페이지들은
// 더 이상 조회되지 않고 TTL 로 사라진다.
func (c *redisCache) pageKey(ctx context.Context, tab string, page, limit int) (string, error) {
	epoch, err := c.rdb.Get(ctx, keyCampaignsEpoch).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf(keyCampaignPage, epoch, tab, page, limit), nil
}

func (c *redisCache) GetCampaigns(ctx context.Context, tab string, page, limit int) ([]byte, error) {
	if c.rdb == nil {
		return nil, ErrUnavailable
	}
	key, err := c.pageKey(ctx, tab, page, limit)
	if err != nil {
		return nil, err
	}
	return c.rdb.Get(ctx, key).Bytes()
}

func (c *redisCache) SetCampaigns(ctx context.Context, tab string, page, limit int, data interface{}) error {
	if c.rdb == nil {
		return nil
	}
	body, err := json.Marshal(data)
	if err != nil {
		return err
	}
	key, err := c.pageKey(ctx, tab, page, limit)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, body, TTLCampaigns).Err()
}

// InvalidateCampaigns drops every cached list page across all tabs
func (c *redisCache) InvalidateCampaigns(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Incr(ctx, keyCampaignsEpoch).Err()
}
