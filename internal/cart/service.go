package cart

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/emekaobi/naijamart-backend/pkg/db/models"
	pkgerrors "github.com/emekaobi/naijamart-backend/pkg/errors"
)

type cartRepo interface {
	Load(ctx context.Context, token string) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
	Delete(ctx context.Context, token string) error
}

type productLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Subscriber observes cart state after every mutation. Subscribers run
// synchronously on the mutating call, in registration order.
type Subscriber func(ctx context.Context, c *Cart)

// Service exposes the cart operations used by the storefront and checkout.
type Service interface {
	Get(ctx context.Context, token string) (*Cart, error)
	AddItem(ctx context.Context, token string, productID uuid.UUID, qty int) (*Cart, error)
	UpdateQuantity(ctx context.Context, token string, productID uuid.UUID, qty int) (*Cart, error)
	RemoveItem(ctx context.Context, token string, productID uuid.UUID) (*Cart, error)
	Clear(ctx context.Context, token string) (*Cart, error)
	Subscribe(fn Subscriber)
}

type service struct {
	repo     cartRepo
	products productLoader

	mu          sync.Mutex
	subscribers []Subscriber
}

// NewService builds a cart service backed by the provided repository and catalog.
func NewService(repo cartRepo, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, products: products}, nil
}

// NewToken issues a fresh cart token for a shopper without one.
func NewToken() string {
	return uuid.NewString()
}

// Subscribe registers an observer notified after each cart mutation.
func (s *service) Subscribe(fn Subscriber) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *service) notify(ctx context.Context, c *Cart) {
	s.mu.Lock()
	subs := make([]Subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(ctx, c)
	}
}

// Get loads the cart for the token, returning an empty cart when none is stored.
func (s *service) Get(ctx context.Context, token string) (*Cart, error) {
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}
	return s.repo.Load(ctx, token)
}

// AddItem snapshots the product into a cart line and persists the cart.
func (s *service) AddItem(ctx context.Context, token string, productID uuid.UUID, qty int) (*Cart, error) {
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if qty < 1 {
		qty = 1
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "product is no longer available")
	}

	c, err := s.repo.Load(ctx, token)
	if err != nil {
		return nil, err
	}
	c.AddItem(Line{
		ProductID:     product.ID,
		Name:          product.Name,
		Unit:          product.Unit,
		UnitPrice:     product.Price,
		ImageURL:      product.ImageURL,
		IsLocallyMade: product.IsLocallyMade,
	}, qty)
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.notify(ctx, c)
	return c, nil
}

// UpdateQuantity sets a line's quantity; zero or below removes the line.
func (s *service) UpdateQuantity(ctx context.Context, token string, productID uuid.UUID, qty int) (*Cart, error) {
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}
	c, err := s.repo.Load(ctx, token)
	if err != nil {
		return nil, err
	}
	if c.indexOf(productID) < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart")
	}
	c.UpdateQuantity(productID, qty)
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.notify(ctx, c)
	return c, nil
}

// RemoveItem drops a line from the cart.
func (s *service) RemoveItem(ctx context.Context, token string, productID uuid.UUID) (*Cart, error) {
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}
	c, err := s.repo.Load(ctx, token)
	if err != nil {
		return nil, err
	}
	c.RemoveItem(productID)
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.notify(ctx, c)
	return c, nil
}

// Clear empties the cart. Clearing an empty or missing cart succeeds and
// leaves an empty cart behind; the second clear in a row is a no-op.
func (s *service) Clear(ctx context.Context, token string) (*Cart, error) {
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}
	if err := s.repo.Delete(ctx, token); err != nil {
		return nil, err
	}
	c := NewCart(token)
	s.notify(ctx, c)
	return c, nil
}
