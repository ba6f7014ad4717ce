package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisclient "github.com/emekaobi/naijamart-backend/pkg/redis"
)

type cartStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type cartKeyer interface {
	CartKey(cartToken string) string
}

// Repository persists carts in Redis keyed by cart token so they survive
// process restarts and shopper page reloads.
type Repository struct {
	store cartStore
	keyer cartKeyer
	ttl   time.Duration
}

// NewRepository constructs a cart repository backed by the Redis client.
func NewRepository(client *redisclient.Client, ttl time.Duration) (*Repository, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cart ttl must be positive")
	}
	return &Repository{store: client, keyer: client, ttl: ttl}, nil
}

// Load returns the cart stored for the token, or an empty cart when none exists.
func (r *Repository) Load(ctx context.Context, token string) (*Cart, error) {
	raw, err := r.store.Get(ctx, r.keyer.CartKey(token))
	if err != nil {
		if redisclient.IsNil(err) {
			return NewCart(token), nil
		}
		return nil, fmt.Errorf("loading cart: %w", err)
	}
	var c Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, fmt.Errorf("decoding cart: %w", err)
	}
	c.Token = token
	return &c, nil
}

// Save writes the cart back under its token with a refreshed TTL.
func (r *Repository) Save(ctx context.Context, c *Cart) error {
	c.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding cart: %w", err)
	}
	if err := r.store.Set(ctx, r.keyer.CartKey(c.Token), payload, r.ttl); err != nil {
		return fmt.Errorf("saving cart: %w", err)
	}
	return nil
}

// Delete removes the stored cart for the token.
func (r *Repository) Delete(ctx context.Context, token string) error {
	if err := r.store.Del(ctx, r.keyer.CartKey(token)); err != nil {
		return fmt.Errorf("deleting cart: %w", err)
	}
	return nil
}
