package checkout

import (
	"time"

	"github.com/google/uuid"
)

// State is where a shopper sits in the checkout flow. Validation, submission,
// and dispatch happen inside a single place-order call, so only the resting
// states are persisted between requests.
type State string

const (
	// StateIdle is the default resting state: no drawer, no form, no draft.
	StateIdle State = "idle"
	// StateDrawerOpen means the cart drawer is showing.
	StateDrawerOpen State = "drawer_open"
	// StateFormOpen means the checkout form is showing with a live draft.
	StateFormOpen State = "form_open"
	// StateAwaitingDispatch means an order message was composed and its deep
	// link handed to the shopper; the cart stays intact until the send is
	// confirmed.
	StateAwaitingDispatch State = "awaiting_dispatch"
)

// Draft holds the checkout form fields. It exists only while the form is
// open and is blanked on cancel or on confirmed dispatch.
type Draft struct {
	FulfillmentMethod string `json:"fulfillment_method"`
	ShippingAddress   string `json:"shipping_address"`
	PaymentMethod     string `json:"payment_method"`
	Notes             string `json:"notes"`
	CustomerName      string `json:"customer_name"`
	CustomerEmail     string `json:"customer_email"`
	CustomerPhone     string `json:"customer_phone"`
}

// Session is the per-cart-token checkout state persisted between requests.
type Session struct {
	CartToken string     `json:"cart_token"`
	State     State      `json:"state"`
	Draft     Draft      `json:"draft"`
	OrderID   *uuid.UUID `json:"order_id,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func newSession(token string) *Session {
	return &Session{CartToken: token, State: StateIdle}
}
