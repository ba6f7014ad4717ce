package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/emekaobi/naijamart-backend/api/responses"
	"github.com/emekaobi/naijamart-backend/api/validators"
	contactsvc "github.com/emekaobi/naijamart-backend/internal/contact"
	"github.com/emekaobi/naijamart-backend/pkg/db/models"
	"github.com/emekaobi/naijamart-backend/pkg/enums"
	pkgerrors "github.com/emekaobi/naijamart-backend/pkg/errors"
	"github.com/emekaobi/naijamart-backend/pkg/logger"
)

const (
	contactNameMaxLen    = 200
	contactSubjectMaxLen = 300
	contactBodyMaxLen    = 5000
)

type submitContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Body    string `json:"body" validate:"required"`
}

// ContactSubmit accepts a message from the public contact form.
func ContactSubmit(svc contactsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contact service unavailable"))
			return
		}

		var body submitContactRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		message, err := svc.Submit(r.Context(), contactsvc.SubmitInput{
			Name:    validators.SanitizeString(body.Name, contactNameMaxLen),
			Email:   validators.SanitizeString(body.Email, contactNameMaxLen),
			Phone:   validators.SanitizeString(body.Phone, contactNameMaxLen),
			Subject: validators.SanitizeString(body.Subject, contactSubjectMaxLen),
			Body:    validators.SanitizeString(body.Body, contactBodyMaxLen),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newContactMessageResponse(message))
	}
}

// AdminContactList serves the admin inbox, optionally filtered by status.
func AdminContactList(svc contactsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contact service unavailable"))
			return
		}

		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var status *enums.ContactMessageStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParseContactMessageStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid message status").WithDetails(map[string]any{"field": "status"}))
				return
			}
			status = &parsed
		}

		page, err := svc.List(r.Context(), status, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newContactListResponse(page))
	}
}

// AdminContactResolve marks a message handled.
func AdminContactResolve(svc contactsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contact service unavailable"))
			return
		}

		id, err := pathUUID(r, "messageId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		message, err := svc.Resolve(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newContactMessageResponse(message))
	}
}

type contactMessageResponse struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone,omitempty"`
	Subject    string     `json:"subject,omitempty"`
	Body       string     `json:"body"`
	Status     string     `json:"status"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type contactListResponse struct {
	Messages   []contactMessageResponse `json:"messages"`
	NextCursor string                   `json:"next_cursor,omitempty"`
}

func newContactMessageResponse(message *models.ContactMessage) contactMessageResponse {
	return contactMessageResponse{
		ID:         message.ID,
		Name:       message.Name,
		Email:      message.Email,
		Phone:      message.Phone,
		Subject:    message.Subject,
		Body:       message.Body,
		Status:     string(message.Status),
		ResolvedAt: message.ResolvedAt,
		CreatedAt:  message.CreatedAt,
	}
}

func newContactListResponse(page *contactsvc.ListPage) contactListResponse {
	items := make([]contactMessageResponse, 0, len(page.Messages))
	for i := range page.Messages {
		items = append(items, newContactMessageResponse(&page.Messages[i]))
	}
	return contactListResponse{Messages: items, NextCursor: page.NextCursor}
}
