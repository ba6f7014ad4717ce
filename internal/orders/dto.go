package orders

import (
	"github.com/google/uuid"

	"github.com/emekaobi/naijamart-backend/pkg/db/models"
	"github.com/emekaobi/naijamart-backend/pkg/enums"
)

// SubmissionItem names a product and how many of it the customer wants.
// Price is deliberately absent: the catalog price at submission time is the
// source of truth and is snapshotted into the stored item.
type SubmissionItem struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// OrderSubmission is the normalized payload accepted by the persistence
// gateway. CustomerID is nil for guest orders; explicit contact details are
// always required. The struct is treated as immutable once built.
type OrderSubmission struct {
	CustomerID        *uuid.UUID              `json:"-"`
	Items             []SubmissionItem        `json:"items" validate:"required,min=1,dive"`
	CustomerName      string                  `json:"customer_name" validate:"required"`
	CustomerEmail     string                  `json:"customer_email" validate:"required,email"`
	CustomerPhone     string                  `json:"customer_phone" validate:"required"`
	FulfillmentMethod enums.FulfillmentMethod `json:"fulfillment_method" validate:"required"`
	ShippingAddress   *string                 `json:"shipping_address"`
	PaymentMethod     enums.PaymentMethod     `json:"payment_method" validate:"required"`
	Notes             *string                 `json:"notes"`
}

// ListPage is one page of orders.
type ListPage struct {
	Orders     []models.Order
	NextCursor string
}
