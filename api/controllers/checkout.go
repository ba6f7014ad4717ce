package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/emekaobi/naijamart-backend/api/middleware"
	"github.com/emekaobi/naijamart-backend/api/responses"
	"github.com/emekaobi/naijamart-backend/api/validators"
	checkoutsvc "github.com/emekaobi/naijamart-backend/internal/checkout"
	pkgerrors "github.com/emekaobi/naijamart-backend/pkg/errors"
	"github.com/emekaobi/naijamart-backend/pkg/logger"
)

// CheckoutOpenDrawer opens the cart drawer for the request's cart token.
func CheckoutOpenDrawer(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		sess, err := svc.OpenDrawer(r.Context(), middleware.CartTokenFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCheckoutSessionResponse(sess))
	}
}

type openFormRequest struct {
	FulfillmentMethod string `json:"fulfillment_method"`
}

// CheckoutOpenForm opens the checkout form. For signed-in customers the
// contact fields are pre-filled from the profile; anonymous shoppers get an
// empty draft.
func CheckoutOpenForm(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var body openFormRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, err := svc.OpenForm(r.Context(), middleware.CartTokenFromContext(r.Context()), optionalUserID(r), checkoutsvc.OpenFormInput{
			FulfillmentMethod: body.FulfillmentMethod,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCheckoutSessionResponse(sess))
	}
}

type placeOrderRequest struct {
	FulfillmentMethod string `json:"fulfillment_method"`
	ShippingAddress   string `json:"shipping_address"`
	PaymentMethod     string `json:"payment_method"`
	Notes             string `json:"notes"`
	CustomerName      string `json:"customer_name"`
	CustomerEmail     string `json:"customer_email"`
	CustomerPhone     string `json:"customer_phone"`
}

// CheckoutPlaceOrder validates the draft, records the order, and hands back
// the composed message with its deep link. Persistence failure is reported in
// the payload but never withholds the link.
func CheckoutPlaceOrder(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var body placeOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draft := checkoutsvc.Draft{
			FulfillmentMethod: body.FulfillmentMethod,
			ShippingAddress:   body.ShippingAddress,
			PaymentMethod:     body.PaymentMethod,
			Notes:             body.Notes,
			CustomerName:      body.CustomerName,
			CustomerEmail:     body.CustomerEmail,
			CustomerPhone:     body.CustomerPhone,
		}

		result, err := svc.PlaceOrder(r.Context(), middleware.CartTokenFromContext(r.Context()), draft, optionalUserID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newPlaceOrderResponse(result))
	}
}

// CheckoutConfirmDispatch marks the composed message as sent. This is the
// only point in the whole flow where the cart is cleared.
func CheckoutConfirmDispatch(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		sess, err := svc.ConfirmDispatch(r.Context(), middleware.CartTokenFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCheckoutSessionResponse(sess))
	}
}

// CheckoutCancel abandons the flow. The cart survives untouched.
func CheckoutCancel(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		sess, err := svc.Cancel(r.Context(), middleware.CartTokenFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCheckoutSessionResponse(sess))
	}
}

// CheckoutCartInquiry is the drawer shortcut: it composes an inquiry message
// from the cart as-is, with no customer details, no order record, and no
// cart clearing.
func CheckoutCartInquiry(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		result, err := svc.CartInquiry(r.Context(), middleware.CartTokenFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, inquiryResponse{
			Message:  result.Message,
			DeepLink: result.DeepLink,
		})
	}
}

type checkoutSessionResponse struct {
	CartToken string            `json:"cart_token"`
	State     string            `json:"state"`
	Draft     checkoutsvc.Draft `json:"draft"`
	OrderID   *uuid.UUID        `json:"order_id,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type placeOrderResponse struct {
	Session           checkoutSessionResponse `json:"session"`
	OrderID           *uuid.UUID              `json:"order_id,omitempty"`
	Message           string                  `json:"message"`
	DeepLink          string                  `json:"deep_link"`
	PersistenceFailed bool                    `json:"persistence_failed"`
	PersistenceNotice string                  `json:"persistence_notice,omitempty"`
}

type inquiryResponse struct {
	Message  string `json:"message"`
	DeepLink string `json:"deep_link"`
}

func newCheckoutSessionResponse(sess *checkoutsvc.Session) checkoutSessionResponse {
	return checkoutSessionResponse{
		CartToken: sess.CartToken,
		State:     string(sess.State),
		Draft:     sess.Draft,
		OrderID:   sess.OrderID,
		UpdatedAt: sess.UpdatedAt,
	}
}

func newPlaceOrderResponse(result *checkoutsvc.PlaceOrderResult) placeOrderResponse {
	resp := placeOrderResponse{
		Session:           newCheckoutSessionResponse(result.Session),
		Message:           result.Message,
		DeepLink:          result.DeepLink,
		PersistenceFailed: result.PersistenceFailed,
		PersistenceNotice: result.PersistenceNotice,
	}
	if result.Order != nil {
		resp.OrderID = &result.Order.ID
	}
	return resp
}

func optionalUserID(r *http.Request) *uuid.UUID {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return nil
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &parsed
}
