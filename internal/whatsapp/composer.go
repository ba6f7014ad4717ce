// Package whatsapp composes order and inquiry messages and builds the wa.me
// deep links used to hand a conversation to the merchant. The link is
// fire-and-forget: nothing is awaited from the channel.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/emekaobi/naijamart-backend/internal/cart"
	"github.com/emekaobi/naijamart-backend/pkg/enums"
	"github.com/emekaobi/naijamart-backend/pkg/naira"
)

// CustomerDetails is the contact block rendered into a full order message.
type CustomerDetails struct {
	Name  string
	Email string
	Phone string
}

// OrderDetails carries the fulfillment choices rendered into a full order message.
type OrderDetails struct {
	Fulfillment     enums.FulfillmentMethod
	ShippingAddress string
	Payment         enums.PaymentMethod
	Notes           string
}

// Composer renders the storefront's outbound messages. GreetingName appears
// in the opening line of every message.
type Composer struct {
	greetingName string
}

// NewComposer builds a message composer for the merchant identity.
func NewComposer(greetingName string) *Composer {
	if strings.TrimSpace(greetingName) == "" {
		greetingName = "NaijaMart"
	}
	return &Composer{greetingName: greetingName}
}

// ComposeOrderMessage assembles the full-checkout order summary. Section
// order is fixed: greeting, blank, item lines, blank, total, fulfillment
// method, shipping address (delivery only), payment method, then notes only
// when non-empty.
func (c *Composer) ComposeOrderMessage(lines []cart.Line, customer CustomerDetails, order OrderDetails) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Hello %s! I would like to place an order:\n\n", c.greetingName))
	writeItemLines(&b, lines)
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Total: %s\n", naira.FormatDecimal(totalPrice(lines))))
	b.WriteString(fmt.Sprintf("Name: %s\n", customer.Name))
	b.WriteString(fmt.Sprintf("Email: %s\n", customer.Email))
	b.WriteString(fmt.Sprintf("Phone: %s\n", customer.Phone))
	b.WriteString(fmt.Sprintf("Fulfillment: %s\n", order.Fulfillment.Label()))
	if order.Fulfillment.RequiresAddress() {
		b.WriteString(fmt.Sprintf("Delivery Address: %s\n", order.ShippingAddress))
	}
	b.WriteString(fmt.Sprintf("Payment: %s\n", order.Payment.Label()))
	if strings.TrimSpace(order.Notes) != "" {
		b.WriteString(fmt.Sprintf("Notes: %s\n", order.Notes))
	}
	return b.String()
}

// ComposeCartInquiry assembles the drawer-shortcut message: item lines and
// total only, with a prompt asking the merchant to confirm fulfillment. No
// customer detail section is included.
func (c *Composer) ComposeCartInquiry(lines []cart.Line) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Hello %s! I am interested in ordering:\n\n", c.greetingName))
	writeItemLines(&b, lines)
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Total: %s\n", naira.FormatDecimal(totalPrice(lines))))
	b.WriteString("Please confirm whether delivery or pickup is available. Thank you!\n")
	return b.String()
}

func writeItemLines(b *strings.Builder, lines []cart.Line) {
	for i := range lines {
		line := lines[i]
		b.WriteString(fmt.Sprintf("%s (%s) - Qty: %d - %s each\n",
			line.Name, line.Unit, line.Quantity, naira.FormatDecimal(line.UnitPrice)))
	}
}

func totalPrice(lines []cart.Line) decimal.Decimal {
	total := decimal.Zero
	for i := range lines {
		total = total.Add(lines[i].UnitPrice.Mul(decimal.NewFromInt(int64(lines[i].Quantity))))
	}
	return total
}

// DeepLink builds the wa.me URL carrying the message as a url-encoded text
// parameter. merchantPhone is digits only, international format without "+".
func DeepLink(merchantPhone, message string) string {
	phone := strings.TrimPrefix(strings.TrimSpace(merchantPhone), "+")
	return fmt.Sprintf("https://wa.me/%s?text=%s", phone, url.QueryEscape(message))
}
