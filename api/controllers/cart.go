package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emekaobi/naijamart-backend/api/middleware"
	"github.com/emekaobi/naijamart-backend/api/responses"
	"github.com/emekaobi/naijamart-backend/api/validators"
	cartsvc "github.com/emekaobi/naijamart-backend/internal/cart"
	pkgerrors "github.com/emekaobi/naijamart-backend/pkg/errors"
	"github.com/emekaobi/naijamart-backend/pkg/logger"
	"github.com/emekaobi/naijamart-backend/pkg/naira"
)

// CartFetch returns the cart bound to the request's cart token. A brand-new
// token yields an empty cart, never an error.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		cart, err := svc.Get(r.Context(), middleware.CartTokenFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(cart))
	}
}

type addCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"min=0"`
}

// CartAddItem adds a product to the cart, merging into an existing line when
// the product is already present.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var body addCartItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.AddItem(r.Context(), middleware.CartTokenFromContext(r.Context()), body.ProductID, body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(cart))
	}
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartUpdateQuantity sets a line's quantity. Zero or below removes the line.
func CartUpdateQuantity(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.UpdateQuantity(r.Context(), middleware.CartTokenFromContext(r.Context()), productID, body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(cart))
	}
}

// CartRemoveItem drops one line from the cart.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.RemoveItem(r.Context(), middleware.CartTokenFromContext(r.Context()), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(cart))
	}
}

// CartClear empties the cart. Clearing an already-empty cart succeeds.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		cart, err := svc.Clear(r.Context(), middleware.CartTokenFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(cart))
	}
}

type cartLineResponse struct {
	ProductID      uuid.UUID       `json:"product_id"`
	Name           string          `json:"name"`
	Unit           string          `json:"unit"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	UnitPriceLabel string          `json:"unit_price_display"`
	Quantity       int             `json:"quantity"`
	LineTotal      decimal.Decimal `json:"line_total"`
	LineTotalLabel string          `json:"line_total_display"`
	ImageURL       string          `json:"image_url,omitempty"`
	IsLocallyMade  bool            `json:"is_locally_made"`
}

type cartResponse struct {
	Token             string             `json:"token"`
	Lines             []cartLineResponse `json:"lines"`
	TotalItems        int                `json:"total_items"`
	TotalPrice        decimal.Decimal    `json:"total_price"`
	TotalPriceDisplay string             `json:"total_price_display"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

func newCartResponse(cart *cartsvc.Cart) cartResponse {
	lines := make([]cartLineResponse, 0, len(cart.Lines))
	for i := range cart.Lines {
		line := cart.Lines[i]
		lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		lines = append(lines, cartLineResponse{
			ProductID:      line.ProductID,
			Name:           line.Name,
			Unit:           line.Unit,
			UnitPrice:      line.UnitPrice,
			UnitPriceLabel: naira.FormatDecimal(line.UnitPrice),
			Quantity:       line.Quantity,
			LineTotal:      lineTotal,
			LineTotalLabel: naira.FormatDecimal(lineTotal),
			ImageURL:       line.ImageURL,
			IsLocallyMade:  line.IsLocallyMade,
		})
	}

	total := cart.TotalPrice()
	return cartResponse{
		Token:             cart.Token,
		Lines:             lines,
		TotalItems:        cart.TotalItems(),
		TotalPrice:        total,
		TotalPriceDisplay: naira.FormatDecimal(total),
		UpdatedAt:         cart.UpdatedAt,
	}
}
