package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emekaobi/naijamart-backend/pkg/db/models"
	"github.com/emekaobi/naijamart-backend/pkg/enums"
	pkgerrors "github.com/emekaobi/naijamart-backend/pkg/errors"
	"github.com/emekaobi/naijamart-backend/pkg/pagination"
)

// SubmitInput is the public contact form payload.
type SubmitInput struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Body    string
}

// ListPage is one page of contact messages.
type ListPage struct {
	Messages   []models.ContactMessage
	NextCursor string
}

// Service exposes the public contact form and the admin inbox.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*models.ContactMessage, error)
	List(ctx context.Context, status *enums.ContactMessageStatus, params pagination.Params) (*ListPage, error)
	Resolve(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error)
}

type service struct {
	repo MessageRepository
}

// NewService builds a contact service.
func NewService(repo MessageRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("message repository required")
	}
	return &service{repo: repo}, nil
}

// Submit accepts a message from the public contact form.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*models.ContactMessage, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if strings.TrimSpace(input.Body) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message body is required")
	}

	msg := &models.ContactMessage{
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.TrimSpace(input.Email),
		Phone:   strings.TrimSpace(input.Phone),
		Subject: strings.TrimSpace(input.Subject),
		Body:    input.Body,
		Status:  enums.ContactMessageStatusNew,
	}
	created, err := s.repo.Create(ctx, msg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating contact message")
	}
	return created, nil
}

// List pages through the admin inbox, optionally narrowed by status.
func (s *service) List(ctx context.Context, status *enums.ContactMessageStatus, params pagination.Params) (*ListPage, error) {
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.List(ctx, status, limit+1, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing contact messages")
	}

	page := &ListPage{}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	page.Messages = rows
	return page, nil
}

// Resolve marks a message handled. Resolving twice is a conflict.
func (s *service) Resolve(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error) {
	msg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "message not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading contact message")
	}
	if msg.Status == enums.ContactMessageStatusResolved {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "message already resolved")
	}

	now := time.Now().UTC()
	if err := s.repo.MarkResolved(ctx, id, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving contact message")
	}
	msg.Status = enums.ContactMessageStatusResolved
	msg.ResolvedAt = &now
	return msg, nil
}
