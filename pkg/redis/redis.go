package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/XuanBac3105/do-an-server2-sub000/config"
)

// Client redis wrapper used for the token blacklist, rate limiting and OTP cooldowns
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient connects and pings redis
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── token blacklist ──

const blacklistPrefix = "token:blacklist:"

// BlacklistToken stores a jti until the token would have expired anyway
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsBlacklisted reports whether the jti was revoked
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── rate limiting ──

// CheckRateLimit fixed-window counter: allows at most limit hits per window for key
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	n, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return n <= int64(limit), nil
}

// ── OTP cooldown ──

const otpCooldownPrefix = "otp:cooldown:"

// AcquireOTPCooldown returns false while a previous code for the same
// email and purpose is still inside its cooldown window
func (c *Client) AcquireOTPCooldown(ctx context.Context, email, purpose string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return true, nil
	}
	return c.rdb.SetNX(ctx, otpCooldownKey(email, purpose), "1", ttl).Result()
}

// ReleaseOTPCooldown drops the cooldown after a code could not be delivered
func (c *Client) ReleaseOTPCooldown(ctx context.Context, email, purpose string) error {
	return c.rdb.Del(ctx, otpCooldownKey(email, purpose)).Err()
}

func otpCooldownKey(email, purpose string) string {
	return otpCooldownPrefix + purpose + ":" + email
}

// Close closes the connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
