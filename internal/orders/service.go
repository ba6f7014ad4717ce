package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/emekaobi/naijamart-backend/pkg/db/models"
	"github.com/emekaobi/naijamart-backend/pkg/enums"
	pkgerrors "github.com/emekaobi/naijamart-backend/pkg/errors"
	"github.com/emekaobi/naijamart-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type listCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CacheKey(parts ...string) string
}

// Cached list pages go stale within this window even if an invalidation
// is lost to a redis hiccup.
const listCacheTTL = 2 * time.Minute

// Service is the order persistence gateway plus the admin lifecycle
// operations. SubmitOrder offers no idempotency: retrying a submission
// creates a second order, so callers must not auto-retry.
type Service interface {
	SubmitOrder(ctx context.Context, submission OrderSubmission) (*models.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*ListPage, error)
	ListAll(ctx context.Context, status *enums.OrderStatus, params pagination.Params) (*ListPage, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, next enums.OrderStatus) (*models.Order, error)
}

type service struct {
	repo     OrderRepository
	tx       txRunner
	products productLoader
	cache    listCache
}

// ServiceParams bundles the dependencies required to build an order service.
type ServiceParams struct {
	Repo     OrderRepository
	Tx       txRunner
	Products productLoader
	Cache    listCache
}

// NewService constructs an order service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{
		repo:     params.Repo,
		tx:       params.Tx,
		products: params.Products,
		cache:    params.Cache,
	}, nil
}

func validateSubmission(submission OrderSubmission) error {
	if len(submission.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	for _, item := range submission.Items {
		if item.ProductID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "item product id is required")
		}
		if item.Quantity < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be at least 1")
		}
	}
	if strings.TrimSpace(submission.CustomerName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if strings.TrimSpace(submission.CustomerEmail) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer email is required")
	}
	if strings.TrimSpace(submission.CustomerPhone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer phone is required")
	}
	if !submission.FulfillmentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid fulfillment method")
	}
	if submission.FulfillmentMethod.RequiresAddress() {
		if submission.ShippingAddress == nil || strings.TrimSpace(*submission.ShippingAddress) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "shipping address is required for delivery")
		}
	}
	if !submission.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	return nil
}

// SubmitOrder persists one order with price-at-order item snapshots. Guest
// submissions (nil CustomerID) are accepted; contact details travel on the
// order itself.
func (s *service) SubmitOrder(ctx context.Context, submission OrderSubmission) (*models.Order, error) {
	if err := validateSubmission(submission); err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(submission.Items))
	total := decimal.Zero
	for _, item := range submission.Items {
		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown product in order").
					WithDetails(map[string]string{"product_id": item.ProductID.String()})
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
		}
		if !product.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is no longer available").
				WithDetails(map[string]string{"product_id": item.ProductID.String()})
		}
		items = append(items, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Unit:        product.Unit,
			UnitPrice:   product.Price,
			Quantity:    item.Quantity,
		})
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	order := &models.Order{
		CustomerID:        submission.CustomerID,
		CustomerName:      strings.TrimSpace(submission.CustomerName),
		CustomerEmail:     strings.TrimSpace(submission.CustomerEmail),
		CustomerPhone:     strings.TrimSpace(submission.CustomerPhone),
		FulfillmentMethod: submission.FulfillmentMethod,
		ShippingAddress:   submission.ShippingAddress,
		PaymentMethod:     submission.PaymentMethod,
		Notes:             submission.Notes,
		Status:            enums.OrderStatusPending,
		TotalPrice:        total,
		Items:             items,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		created, err := s.repo.WithTx(tx).Create(ctx, order)
		if err != nil {
			return err
		}
		order = created
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting order")
	}

	s.invalidateCaches(ctx, order.CustomerID)
	return order, nil
}

// GetByID loads an order with its items.
func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return order, nil
}

// ListByCustomer pages through one customer's order history. The first page
// is served through the customer cache.
func (s *service) ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*ListPage, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	var key string
	if s.cache != nil && cacheableList(params) {
		key = s.cache.CacheKey("orders", "customer", customerID.String())
	}
	return s.listCached(ctx, key, ListFilter{CustomerID: &customerID}, params)
}

// ListAll pages through every order, optionally narrowed by status. Only the
// unfiltered first page is cached; status-filtered views always hit the store.
func (s *service) ListAll(ctx context.Context, status *enums.OrderStatus, params pagination.Params) (*ListPage, error) {
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	var key string
	if s.cache != nil && status == nil && cacheableList(params) {
		key = s.cache.CacheKey("orders", "admin")
	}
	return s.listCached(ctx, key, ListFilter{Status: status}, params)
}

// cacheableList limits caching to the default first page, so every cache
// entry has exactly one key and invalidation stays a plain DEL.
func cacheableList(params pagination.Params) bool {
	return params.Cursor == "" && pagination.NormalizeLimit(params.Limit) == pagination.DefaultLimit
}

// listCached serves the page from the cache when key is non-empty,
// repopulating on a miss. Cache errors are treated as misses; a read must
// never fail because redis did.
func (s *service) listCached(ctx context.Context, key string, filter ListFilter, params pagination.Params) (*ListPage, error) {
	if key != "" {
		if raw, err := s.cache.Get(ctx, key); err == nil {
			var page ListPage
			if err := json.Unmarshal([]byte(raw), &page); err == nil {
				return &page, nil
			}
		}
	}

	page, err := s.list(ctx, filter, params)
	if err != nil {
		return nil, err
	}
	if key != "" {
		if payload, err := json.Marshal(page); err == nil {
			_ = s.cache.Set(ctx, key, payload, listCacheTTL)
		}
	}
	return page, nil
}

func (s *service) list(ctx context.Context, filter ListFilter, params pagination.Params) (*ListPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.List(ctx, filter, limit+1, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}

	page := &ListPage{}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	page.Orders = rows
	return page, nil
}

// UpdateStatus moves an order along its lifecycle. Transitions outside
// pending -> processing -> completed/cancelled are rejected.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, next enums.OrderStatus) (*models.Order, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "disallowed status transition").
			WithDetails(map[string]string{"from": order.Status.String(), "to": next.String()})
	}
	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order status")
	}
	order.Status = next
	s.invalidateCaches(ctx, order.CustomerID)
	return order, nil
}

// invalidateCaches drops the cached list pages an order write makes stale.
// Cache errors are not worth failing the write for.
func (s *service) invalidateCaches(ctx context.Context, customerID *uuid.UUID) {
	if s.cache == nil {
		return
	}
	keys := []string{s.cache.CacheKey("orders", "admin")}
	if customerID != nil {
		keys = append(keys, s.cache.CacheKey("orders", "customer", customerID.String()))
	}
	_ = s.cache.Del(ctx, keys...)
}
