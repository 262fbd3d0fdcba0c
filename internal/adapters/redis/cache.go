package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Client() *redis.Client {
	return c.client
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// SeatLock wraps the cache with a TTL so a crashed request cannot block a
// seat forever. The database unique constraint stays authoritative; this
// only sheds duplicate concurrent attempts before they reach the insert.
type SeatLock struct {
	cache *Cache
	ttl   time.Duration
}

func NewSeatLock(cache *Cache, ttl time.Duration) *SeatLock {
	return &SeatLock{cache: cache, ttl: ttl}
}

func (s *SeatLock) LockSeat(ctx context.Context, showtimeID int64, seatNumber int, userID string) (bool, error) {
	res := s.cache.client.SetNX(ctx, seatKey(showtimeID, seatNumber), userID, s.ttl)
	return res.Val(), res.Err()
}

// UnlockSeat releases a lock whose insert did not go through; the TTL covers
// the case where the process dies before it can.
func (s *SeatLock) UnlockSeat(ctx context.Context, showtimeID int64, seatNumber int) error {
	return s.cache.client.Del(ctx, seatKey(showtimeID, seatNumber)).Err()
}

func seatKey(showtimeID int64, seatNumber int) string {
	return "seat:" + strconv.FormatInt(showtimeID, 10) + ":" + strconv.Itoa(seatNumber)
}
