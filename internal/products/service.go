package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/emekaobi/naijamart-backend/pkg/db/models"
	pkgerrors "github.com/emekaobi/naijamart-backend/pkg/errors"
	"github.com/emekaobi/naijamart-backend/pkg/pagination"
)

// Service exposes catalog reads for the storefront and CRUD for admins.
type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, filter ListFilter, params pagination.Params) (*ListPage, error)
	Create(ctx context.Context, input UpsertInput) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, input UpsertInput) (*models.Product, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// ListPage is one page of catalog results.
type ListPage struct {
	Products   []models.Product
	NextCursor string
}

// UpsertInput carries the admin-editable product fields.
type UpsertInput struct {
	Name          string
	Description   string
	Unit          string
	Price         decimal.Decimal
	ImageURL      string
	IsLocallyMade bool
	IsActive      bool
}

type service struct {
	repo ProductRepository
}

// NewService builds a catalog service.
func NewService(repo ProductRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

// GetByID loads one product, mapping a missing row to a not-found error.
func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	return product, nil
}

// List returns a storefront or admin catalog page.
func (s *service) List(ctx context.Context, filter ListFilter, params pagination.Params) (*ListPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.List(ctx, filter, limit+1, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}

	page := &ListPage{}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	page.Products = rows
	return page, nil
}

func validateUpsert(input UpsertInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if strings.TrimSpace(input.Unit) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product unit is required")
	}
	if input.Price.IsNegative() || input.Price.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "product price must be positive")
	}
	return nil
}

// Create adds a catalog entry.
func (s *service) Create(ctx context.Context, input UpsertInput) (*models.Product, error) {
	if err := validateUpsert(input); err != nil {
		return nil, err
	}
	product := &models.Product{
		Name:          strings.TrimSpace(input.Name),
		Description:   input.Description,
		Unit:          strings.TrimSpace(input.Unit),
		Price:         input.Price,
		ImageURL:      input.ImageURL,
		IsLocallyMade: input.IsLocallyMade,
		IsActive:      input.IsActive,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
	}
	return created, nil
}

// Update rewrites the editable fields of an existing product. Order items
// keep their price snapshots regardless.
func (s *service) Update(ctx context.Context, id uuid.UUID, input UpsertInput) (*models.Product, error) {
	if err := validateUpsert(input); err != nil {
		return nil, err
	}
	product, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Name = strings.TrimSpace(input.Name)
	product.Description = input.Description
	product.Unit = strings.TrimSpace(input.Unit)
	product.Price = input.Price
	product.ImageURL = input.ImageURL
	product.IsLocallyMade = input.IsLocallyMade
	product.IsActive = input.IsActive

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
	}
	return updated, nil
}

// Deactivate removes a product from sale without deleting it.
func (s *service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deactivating product")
	}
	return nil
}
