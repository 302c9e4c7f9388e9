package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	seatLayoutKey = "seats:layout"
	dayKeyPrefix  = "bookings:day:"
)

type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Client caches rendered JSON for the read-heavy endpoints: the seat layout
// and the per-day booking view. Mutations invalidate the affected keys; a
// missing or unreachable cache degrades to database reads.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(cfg Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to cache: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Minute
	}

	return &Client{rdb: rdb, ttl: ttl}, nil
}

// GetSeatLayoutRaw returns the cached layout JSON, or redis.Nil on a miss.
func (c *Client) GetSeatLayoutRaw(ctx context.Context) ([]byte, error) {
	return c.rdb.Get(ctx, seatLayoutKey).Bytes()
}

func (c *Client) SetSeatLayout(ctx context.Context, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal layout for cache: %w", err)
	}
	return c.rdb.Set(ctx, seatLayoutKey, payload, c.ttl).Err()
}

func (c *Client) InvalidateSeatLayout(ctx context.Context) error {
	return c.rdb.Del(ctx, seatLayoutKey).Err()
}

// GetDayBookingsRaw returns the cached view for one API-format day, or
// redis.Nil on a miss.
func (c *Client) GetDayBookingsRaw(ctx context.Context, day string) ([]byte, error) {
	return c.rdb.Get(ctx, dayKeyPrefix+day).Bytes()
}

func (c *Client) SetDayBookings(ctx context.Context, day string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal bookings for cache: %w", err)
	}
	return c.rdb.Set(ctx, dayKeyPrefix+day, payload, c.ttl).Err()
}

func (c *Client) InvalidateDays(ctx context.Context, days ...string) error {
	if len(days) == 0 {
		return nil
	}
	keys := make([]string, len(days))
	for i, day := range days {
		keys[i] = dayKeyPrefix + day
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// InvalidateAllDays drops every cached day view. Used after a layout
// regeneration, which cascades away all bookings at once.
func (c *Client) InvalidateAllDays(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, dayKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// IsMiss reports whether err is a cache miss rather than a failure.
func IsMiss(err error) bool {
	return err == redis.Nil
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
