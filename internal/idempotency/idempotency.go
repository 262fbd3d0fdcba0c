// Package idempotency replays stored booking responses for repeated POSTs
// carrying the same Idempotency-Key. The key is optional; requests without
// one pass straight through.
package idempotency

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	redisadapter "github.com/robertarktes/cinema-booking/internal/adapters/redis"
)

// Response is the stored outcome of a booking request: the HTTP status and
// the serialized {bookingId} body handed back verbatim on replay.
type Response struct {
	Status int             `json:"status"`
	Result json.RawMessage `json:"result"`
}

type Idempotency struct {
	cache *redisadapter.Cache
	ttl   time.Duration
}

func NewIdempotency(cache *redisadapter.Cache, ttl time.Duration) *Idempotency {
	return &Idempotency{cache: cache, ttl: ttl}
}

// bookingKey scopes stored responses to the bookings endpoint, so a client
// key reused elsewhere can never replay a response across endpoints.
func bookingKey(key string) string {
	return "idemp:bookings:" + key
}

func (i *Idempotency) Get(ctx context.Context, key string) (*Response, error) {
	if key == "" {
		return nil, nil
	}
	val, err := i.cache.Client().Get(ctx, bookingKey(key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var resp Response
	if err := json.Unmarshal(val, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (i *Idempotency) Set(ctx context.Context, key string, resp Response) error {
	if key == "" {
		return nil
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return i.cache.Client().Set(ctx, bookingKey(key), data, i.ttl).Err()
}
