package blog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emekaobi/naijamart-backend/pkg/db"
	"github.com/emekaobi/naijamart-backend/pkg/db/models"
	pkgerrors "github.com/emekaobi/naijamart-backend/pkg/errors"
	"github.com/emekaobi/naijamart-backend/pkg/pagination"
)

const slugConstraint = "idx_blog_posts_slug"

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// UpsertInput carries the admin-editable blog post fields.
type UpsertInput struct {
	Title      string
	Body       string
	CoverImage string
	Publish    bool
}

// ListPage is one page of posts.
type ListPage struct {
	Posts      []models.BlogPost
	NextCursor string
}

// Service exposes public blog reads and admin CRUD.
type Service interface {
	GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	List(ctx context.Context, publishedOnly bool, params pagination.Params) (*ListPage, error)
	Create(ctx context.Context, authorID uuid.UUID, input UpsertInput) (*models.BlogPost, error)
	Update(ctx context.Context, id uuid.UUID, input UpsertInput) (*models.BlogPost, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo PostRepository
}

// NewService builds a blog service.
func NewService(repo PostRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("post repository required")
	}
	return &service{repo: repo}, nil
}

// Slugify turns a title into a URL-safe slug.
func Slugify(title string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "-")
	return strings.Trim(slug, "-")
}

// GetBySlug loads a published post for the public blog page.
func (s *service) GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	post, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading post")
	}
	if post.PublishedAt == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
	}
	return post, nil
}

// List pages through posts; publishedOnly hides drafts from the storefront.
func (s *service) List(ctx context.Context, publishedOnly bool, params pagination.Params) (*ListPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.List(ctx, publishedOnly, limit+1, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing posts")
	}

	page := &ListPage{}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	page.Posts = rows
	return page, nil
}

func validateUpsert(input UpsertInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if strings.TrimSpace(input.Body) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "body is required")
	}
	return nil
}

// Create authors a new post, published immediately when requested.
func (s *service) Create(ctx context.Context, authorID uuid.UUID, input UpsertInput) (*models.BlogPost, error) {
	if authorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "author id is required")
	}
	if err := validateUpsert(input); err != nil {
		return nil, err
	}
	post := &models.BlogPost{
		Title:      strings.TrimSpace(input.Title),
		Slug:       Slugify(input.Title),
		Body:       input.Body,
		CoverImage: input.CoverImage,
		AuthorID:   authorID,
	}
	if input.Publish {
		now := time.Now().UTC()
		post.PublishedAt = &now
	}
	created, err := s.repo.Create(ctx, post)
	if err != nil {
		if db.IsUniqueViolation(err, slugConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a post with this title already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating post")
	}
	return created, nil
}

// Update rewrites a post. Unpublishing keeps the post but hides it.
func (s *service) Update(ctx context.Context, id uuid.UUID, input UpsertInput) (*models.BlogPost, error) {
	if err := validateUpsert(input); err != nil {
		return nil, err
	}
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading post")
	}

	post.Title = strings.TrimSpace(input.Title)
	post.Slug = Slugify(input.Title)
	post.Body = input.Body
	post.CoverImage = input.CoverImage
	switch {
	case input.Publish && post.PublishedAt == nil:
		now := time.Now().UTC()
		post.PublishedAt = &now
	case !input.Publish:
		post.PublishedAt = nil
	}

	updated, err := s.repo.Update(ctx, post)
	if err != nil {
		if db.IsUniqueViolation(err, slugConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a post with this title already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating post")
	}
	return updated, nil
}

// Delete removes a post permanently.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading post")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting post")
	}
	return nil
}
