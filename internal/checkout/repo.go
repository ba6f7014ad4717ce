package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisclient "github.com/emekaobi/naijamart-backend/pkg/redis"
)

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	CheckoutSessionKey(cartToken string) string
}

// Repository persists checkout sessions in Redis alongside their carts, with
// the same TTL so a session never outlives the cart it refers to.
type Repository struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// NewRepository constructs a checkout session repository.
func NewRepository(client *redisclient.Client, ttl time.Duration) (*Repository, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Repository{store: client, keyer: client, ttl: ttl}, nil
}

// Load returns the session for the token, or a fresh idle session when none
// is stored.
func (r *Repository) Load(ctx context.Context, token string) (*Session, error) {
	raw, err := r.store.Get(ctx, r.keyer.CheckoutSessionKey(token))
	if err != nil {
		if redisclient.IsNil(err) {
			return newSession(token), nil
		}
		return nil, fmt.Errorf("loading checkout session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("decoding checkout session: %w", err)
	}
	sess.CartToken = token
	return &sess, nil
}

// Save writes the session back with a refreshed TTL.
func (r *Repository) Save(ctx context.Context, sess *Session) error {
	sess.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding checkout session: %w", err)
	}
	if err := r.store.Set(ctx, r.keyer.CheckoutSessionKey(sess.CartToken), payload, r.ttl); err != nil {
		return fmt.Errorf("saving checkout session: %w", err)
	}
	return nil
}

// Delete removes the stored session for the token.
func (r *Repository) Delete(ctx context.Context, token string) error {
	if err := r.store.Del(ctx, r.keyer.CheckoutSessionKey(token)); err != nil {
		return fmt.Errorf("deleting checkout session: %w", err)
	}
	return nil
}
