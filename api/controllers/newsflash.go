package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/emekaobi/naijamart-backend/api/responses"
	"github.com/emekaobi/naijamart-backend/api/validators"
	flashsvc "github.com/emekaobi/naijamart-backend/internal/newsflash"
	"github.com/emekaobi/naijamart-backend/pkg/db/models"
	pkgerrors "github.com/emekaobi/naijamart-backend/pkg/errors"
	"github.com/emekaobi/naijamart-backend/pkg/logger"
)

// NewsFlashActive serves the banners the storefront should show right now.
func NewsFlashActive(svc flashsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "news flash service unavailable"))
			return
		}

		flashes, err := svc.ListActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newFlashListResponse(flashes))
	}
}

// AdminNewsFlashList serves every banner, expired and inactive included.
func AdminNewsFlashList(svc flashsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "news flash service unavailable"))
			return
		}

		flashes, err := svc.ListAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newFlashListResponse(flashes))
	}
}

type upsertNewsFlashRequest struct {
	Message   string     `json:"message" validate:"required"`
	LinkURL   string     `json:"link_url"`
	IsActive  bool       `json:"is_active"`
	ExpiresAt *time.Time `json:"expires_at"`
}

func (r upsertNewsFlashRequest) toInput() flashsvc.UpsertInput {
	return flashsvc.UpsertInput{
		Message:   r.Message,
		LinkURL:   r.LinkURL,
		IsActive:  r.IsActive,
		ExpiresAt: r.ExpiresAt,
	}
}

// AdminNewsFlashCreate publishes a new banner.
func AdminNewsFlashCreate(svc flashsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "news flash service unavailable"))
			return
		}

		var body upsertNewsFlashRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		flash, err := svc.Create(r.Context(), body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newFlashResponse(flash))
	}
}

// AdminNewsFlashUpdate rewrites a banner.
func AdminNewsFlashUpdate(svc flashsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "news flash service unavailable"))
			return
		}

		id, err := pathUUID(r, "flashId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body upsertNewsFlashRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		flash, err := svc.Update(r.Context(), id, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newFlashResponse(flash))
	}
}

// AdminNewsFlashDelete removes a banner permanently.
func AdminNewsFlashDelete(svc flashsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "news flash service unavailable"))
			return
		}

		id, err := pathUUID(r, "flashId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type newsFlashResponse struct {
	ID        uuid.UUID  `json:"id"`
	Message   string     `json:"message"`
	LinkURL   string     `json:"link_url,omitempty"`
	IsActive  bool       `json:"is_active"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func newFlashResponse(flash *models.NewsFlash) newsFlashResponse {
	return newsFlashResponse{
		ID:        flash.ID,
		Message:   flash.Message,
		LinkURL:   flash.LinkURL,
		IsActive:  flash.IsActive,
		ExpiresAt: flash.ExpiresAt,
		CreatedAt: flash.CreatedAt,
		UpdatedAt: flash.UpdatedAt,
	}
}

func newFlashListResponse(flashes []models.NewsFlash) []newsFlashResponse {
	items := make([]newsFlashResponse, 0, len(flashes))
	for i := range flashes {
		items = append(items, newFlashResponse(&flashes[i]))
	}
	return items
}
