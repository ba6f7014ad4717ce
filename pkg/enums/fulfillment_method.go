package enums

import "fmt"

// FulfillmentMethod describes how the customer receives their order. Delivery
// requires a shipping address; pickup does not.
type FulfillmentMethod string

const (
	FulfillmentMethodDelivery FulfillmentMethod = "delivery"
	FulfillmentMethodPickup   FulfillmentMethod = "pickup"
)

var validFulfillmentMethods = []FulfillmentMethod{
	FulfillmentMethodDelivery,
	FulfillmentMethodPickup,
}

// String implements fmt.Stringer.
func (f FulfillmentMethod) String() string {
	return string(f)
}

// Label returns the human-readable form used in order messages.
func (f FulfillmentMethod) Label() string {
	switch f {
	case FulfillmentMethodDelivery:
		return "Delivery"
	case FulfillmentMethodPickup:
		return "Pickup"
	}
	return string(f)
}

// IsValid reports whether the value is a known FulfillmentMethod.
func (f FulfillmentMethod) IsValid() bool {
	for _, candidate := range validFulfillmentMethods {
		if candidate == f {
			return true
		}
	}
	return false
}

// RequiresAddress reports whether the method needs a shipping address.
func (f FulfillmentMethod) RequiresAddress() bool {
	return f == FulfillmentMethodDelivery
}

// ParseFulfillmentMethod converts raw input into a FulfillmentMethod.
func ParseFulfillmentMethod(value string) (FulfillmentMethod, error) {
	for _, candidate := range validFulfillmentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid fulfillment method %q", value)
}
