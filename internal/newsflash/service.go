package newsflash

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emekaobi/naijamart-backend/pkg/db/models"
	pkgerrors "github.com/emekaobi/naijamart-backend/pkg/errors"
)

// UpsertInput carries the admin-editable news flash fields.
type UpsertInput struct {
	Message   string
	LinkURL   string
	IsActive  bool
	ExpiresAt *time.Time
}

// Service exposes the storefront banner reads and admin CRUD.
type Service interface {
	ListActive(ctx context.Context) ([]models.NewsFlash, error)
	ListAll(ctx context.Context) ([]models.NewsFlash, error)
	Create(ctx context.Context, input UpsertInput) (*models.NewsFlash, error)
	Update(ctx context.Context, id uuid.UUID, input UpsertInput) (*models.NewsFlash, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo FlashRepository
}

// NewService builds a news flash service.
func NewService(repo FlashRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("flash repository required")
	}
	return &service{repo: repo}, nil
}

// ListActive returns the banners the storefront should show right now.
func (s *service) ListActive(ctx context.Context) ([]models.NewsFlash, error) {
	rows, err := s.repo.ListActive(ctx, time.Now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing flashes")
	}
	return rows, nil
}

// ListAll returns every flash for the admin view.
func (s *service) ListAll(ctx context.Context) ([]models.NewsFlash, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing flashes")
	}
	return rows, nil
}

func validateUpsert(input UpsertInput) error {
	if strings.TrimSpace(input.Message) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "message is required")
	}
	if input.ExpiresAt != nil && input.ExpiresAt.Before(time.Now().UTC()) {
		return pkgerrors.New(pkgerrors.CodeValidation, "expiry must be in the future")
	}
	return nil
}

// Create adds a banner.
func (s *service) Create(ctx context.Context, input UpsertInput) (*models.NewsFlash, error) {
	if err := validateUpsert(input); err != nil {
		return nil, err
	}
	flash := &models.NewsFlash{
		Message:   strings.TrimSpace(input.Message),
		LinkURL:   input.LinkURL,
		IsActive:  input.IsActive,
		ExpiresAt: input.ExpiresAt,
	}
	created, err := s.repo.Create(ctx, flash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating flash")
	}
	return created, nil
}

// Update rewrites a banner.
func (s *service) Update(ctx context.Context, id uuid.UUID, input UpsertInput) (*models.NewsFlash, error) {
	if err := validateUpsert(input); err != nil {
		return nil, err
	}
	flash, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "flash not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading flash")
	}

	flash.Message = strings.TrimSpace(input.Message)
	flash.LinkURL = input.LinkURL
	flash.IsActive = input.IsActive
	flash.ExpiresAt = input.ExpiresAt

	updated, err := s.repo.Update(ctx, flash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating flash")
	}
	return updated, nil
}

// Delete removes a banner.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "flash not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading flash")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting flash")
	}
	return nil
}
