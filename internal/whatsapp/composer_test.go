package whatsapp

import (
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emekaobi/naijamart-backend/internal/cart"
	"github.com/emekaobi/naijamart-backend/pkg/enums"
)

func riceLine() cart.Line {
	return cart.Line{
		ProductID: uuid.New(),
		Name:      "Rice",
		Unit:      "50kg bag",
		UnitPrice: decimal.NewFromInt(45000),
		Quantity:  2,
	}
}

func TestComposeOrderMessageSectionOrder(t *testing.T) {
	composer := NewComposer("NaijaMart")
	customer := CustomerDetails{Name: "Ada Obi", Email: "ada@example.com", Phone: "08031234567"}

	tests := []struct {
		name        string
		order       OrderDetails
		wantAddress bool
		wantNotes   bool
	}{
		{
			name: "delivery with notes",
			order: OrderDetails{
				Fulfillment:     enums.FulfillmentMethodDelivery,
				ShippingAddress: "12 Allen Avenue, Ikeja, Lagos",
				Payment:         enums.PaymentMethodBankTransfer,
				Notes:           "Call before arriving",
			},
			wantAddress: true,
			wantNotes:   true,
		},
		{
			name: "pickup without notes",
			order: OrderDetails{
				Fulfillment: enums.FulfillmentMethodPickup,
				Payment:     enums.PaymentMethodCashOnDelivery,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg := composer.ComposeOrderMessage([]cart.Line{riceLine()}, customer, tc.order)
			lines := strings.Split(msg, "\n")

			if !strings.HasPrefix(lines[0], "Hello NaijaMart!") {
				t.Fatalf("greeting line = %q", lines[0])
			}
			if lines[1] != "" {
				t.Fatalf("expected blank line after greeting, got %q", lines[1])
			}
			if lines[2] != "Rice (50kg bag) - Qty: 2 - ₦45,000 each" {
				t.Fatalf("item line = %q", lines[2])
			}
			if lines[3] != "" {
				t.Fatalf("expected blank line after items, got %q", lines[3])
			}
			if lines[4] != "Total: ₦90,000" {
				t.Fatalf("total must follow the blank line after items, got %q", lines[4])
			}

			hasAddress := strings.Contains(msg, "Delivery Address:")
			if hasAddress != tc.wantAddress {
				t.Fatalf("address line present = %v, want %v", hasAddress, tc.wantAddress)
			}
			hasNotes := strings.Contains(msg, "Notes:")
			if hasNotes != tc.wantNotes {
				t.Fatalf("notes line present = %v, want %v", hasNotes, tc.wantNotes)
			}

			fulfillmentIdx := strings.Index(msg, "Fulfillment:")
			paymentIdx := strings.Index(msg, "Payment:")
			if fulfillmentIdx < 0 || paymentIdx < 0 || paymentIdx < fulfillmentIdx {
				t.Fatalf("fulfillment must precede payment:\n%s", msg)
			}
			if tc.wantAddress {
				addressIdx := strings.Index(msg, "Delivery Address:")
				if addressIdx < fulfillmentIdx || addressIdx > paymentIdx {
					t.Fatalf("address must sit between fulfillment and payment:\n%s", msg)
				}
			}
		})
	}
}

func TestComposeOrderMessageRoundTrip(t *testing.T) {
	composer := NewComposer("NaijaMart")
	msg := composer.ComposeOrderMessage(
		[]cart.Line{riceLine()},
		CustomerDetails{Name: "Ada Obi", Email: "ada@example.com", Phone: "08031234567"},
		OrderDetails{Fulfillment: enums.FulfillmentMethodPickup, Payment: enums.PaymentMethodBankTransfer},
	)

	if !strings.Contains(msg, "Rice (50kg bag) - Qty: 2") {
		t.Fatalf("missing item substring:\n%s", msg)
	}
	if !strings.Contains(msg, "Total: ₦90,000") {
		t.Fatalf("missing formatted total:\n%s", msg)
	}
}

func TestComposeCartInquiryOmitsCustomerDetails(t *testing.T) {
	composer := NewComposer("NaijaMart")
	msg := composer.ComposeCartInquiry([]cart.Line{riceLine()})

	for _, forbidden := range []string{"Name:", "Email:", "Phone:", "Fulfillment:", "Payment:", "Delivery Address:"} {
		if strings.Contains(msg, forbidden) {
			t.Fatalf("inquiry message must not contain %q:\n%s", forbidden, msg)
		}
	}
	if !strings.Contains(msg, "Total: ₦90,000") {
		t.Fatalf("inquiry missing total:\n%s", msg)
	}
	if !strings.Contains(msg, "delivery or pickup") {
		t.Fatalf("inquiry missing fulfillment prompt:\n%s", msg)
	}
}

func TestDeepLinkEncodesMessage(t *testing.T) {
	link := DeepLink("+2348030000000", "Hello NaijaMart! ₦90,000 & more")

	if !strings.HasPrefix(link, "https://wa.me/2348030000000?text=") {
		t.Fatalf("unexpected link prefix: %s", link)
	}
	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parsing link: %v", err)
	}
	if got := parsed.Query().Get("text"); got != "Hello NaijaMart! ₦90,000 & more" {
		t.Fatalf("text round-trip = %q", got)
	}
}
