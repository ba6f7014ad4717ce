package checkout

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emekaobi/naijamart-backend/internal/cart"
	"github.com/emekaobi/naijamart-backend/internal/orders"
	"github.com/emekaobi/naijamart-backend/internal/users"
	"github.com/emekaobi/naijamart-backend/internal/whatsapp"
	"github.com/emekaobi/naijamart-backend/pkg/config"
	"github.com/emekaobi/naijamart-backend/pkg/db/models"
	"github.com/emekaobi/naijamart-backend/pkg/enums"
	pkgerrors "github.com/emekaobi/naijamart-backend/pkg/errors"
	"github.com/emekaobi/naijamart-backend/pkg/logger"
	"github.com/emekaobi/naijamart-backend/pkg/metrics"
)

type memSessions struct {
	sessions map[string]*Session
}

func newMemSessions() *memSessions {
	return &memSessions{sessions: map[string]*Session{}}
}

func (m *memSessions) Load(_ context.Context, token string) (*Session, error) {
	if s, ok := m.sessions[token]; ok {
		copied := *s
		return &copied, nil
	}
	return newSession(token), nil
}

func (m *memSessions) Save(_ context.Context, sess *Session) error {
	copied := *sess
	m.sessions[sess.CartToken] = &copied
	return nil
}

func (m *memSessions) Delete(_ context.Context, token string) error {
	delete(m.sessions, token)
	return nil
}

type memCarts struct {
	carts   map[string]*cart.Cart
	cleared int
}

func (m *memCarts) Get(_ context.Context, token string) (*cart.Cart, error) {
	if c, ok := m.carts[token]; ok {
		return c, nil
	}
	return cart.NewCart(token), nil
}

func (m *memCarts) Clear(_ context.Context, token string) (*cart.Cart, error) {
	m.cleared++
	delete(m.carts, token)
	return cart.NewCart(token), nil
}

type stubSubmitter struct {
	err      error
	calls    int
	received []orders.OrderSubmission
}

func (s *stubSubmitter) SubmitOrder(_ context.Context, submission orders.OrderSubmission) (*models.Order, error) {
	s.calls++
	s.received = append(s.received, submission)
	if s.err != nil {
		return nil, s.err
	}
	return &models.Order{ID: uuid.New(), Status: enums.OrderStatusPending}, nil
}

type stubProfiles struct {
	profile *users.Profile
	err     error
}

func (s *stubProfiles) GetProfile(_ context.Context, _ uuid.UUID) (*users.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.profile, nil
}

type fixture struct {
	svc      Service
	sessions *memSessions
	carts    *memCarts
	orders   *stubSubmitter
	token    string
}

func newFixture(t *testing.T, submitErr error, profiles profileLoader) *fixture {
	t.Helper()
	sessions := newMemSessions()
	token := cart.NewToken()
	carts := &memCarts{carts: map[string]*cart.Cart{}}
	c := cart.NewCart(token)
	c.AddItem(cart.Line{
		ProductID: uuid.New(),
		Name:      "Rice",
		Unit:      "50kg bag",
		UnitPrice: decimal.NewFromInt(45000),
	}, 2)
	carts.carts[token] = c

	submitter := &stubSubmitter{err: submitErr}
	svc, err := NewService(ServiceParams{
		Sessions:       sessions,
		Carts:          carts,
		Orders:         submitter,
		Profiles:       profiles,
		Composer:       whatsapp.NewComposer("NaijaMart"),
		Logger:         logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Metrics:        metrics.NewCheckoutMetrics(nil),
		WhatsAppConfig: config.WhatsAppConfig{MerchantPhone: "2348030000000", GreetingName: "NaijaMart"},
		CheckoutConfig: config.CheckoutConfig{SubmitTimeout: time.Second},
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return &fixture{svc: svc, sessions: sessions, carts: carts, orders: submitter, token: token}
}

func validDraft() Draft {
	return Draft{
		FulfillmentMethod: "delivery",
		ShippingAddress:   "12 Allen Avenue, Ikeja, Lagos",
		PaymentMethod:     "bank_transfer",
		CustomerName:      "Ada Obi",
		CustomerEmail:     "ada@example.com",
		CustomerPhone:     "08031234567",
	}
}

func openForm(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()
	if _, err := f.svc.OpenDrawer(ctx, f.token); err != nil {
		t.Fatalf("OpenDrawer: %v", err)
	}
	if _, err := f.svc.OpenForm(ctx, f.token, nil, OpenFormInput{FulfillmentMethod: "delivery"}); err != nil {
		t.Fatalf("OpenForm: %v", err)
	}
}

func TestFullCheckoutSuccessClearsCartOnConfirm(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil, nil)
	openForm(t, f)

	result, err := f.svc.PlaceOrder(ctx, f.token, validDraft(), nil)
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if result.PersistenceFailed {
		t.Fatal("persistence should have succeeded")
	}
	if result.Order == nil {
		t.Fatal("expected persisted order in result")
	}
	if !strings.HasPrefix(result.DeepLink, "https://wa.me/2348030000000?text=") {
		t.Fatalf("deep link = %s", result.DeepLink)
	}
	if result.Session.State != StateAwaitingDispatch {
		t.Fatalf("state = %s, want awaiting_dispatch", result.Session.State)
	}
	if f.carts.cleared != 0 {
		t.Fatal("cart must not clear before dispatch confirmation")
	}

	sess, err := f.svc.ConfirmDispatch(ctx, f.token)
	if err != nil {
		t.Fatalf("ConfirmDispatch: %v", err)
	}
	if sess.State != StateIdle {
		t.Fatalf("state after confirm = %s, want idle", sess.State)
	}
	if sess.Draft != (Draft{}) {
		t.Fatalf("draft not blanked: %+v", sess.Draft)
	}
	if f.carts.cleared != 1 {
		t.Fatal("cart must clear on confirmed dispatch")
	}
}

func TestPersistenceFailureStillDispatches(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, pkgerrors.New(pkgerrors.CodeDependency, "database unreachable"), nil)
	openForm(t, f)

	result, err := f.svc.PlaceOrder(ctx, f.token, validDraft(), nil)
	if err != nil {
		t.Fatalf("PlaceOrder must tolerate persistence failure, got %v", err)
	}
	if !result.PersistenceFailed {
		t.Fatal("expected persistence failure flag")
	}
	if result.PersistenceNotice == "" {
		t.Fatal("expected a user-facing persistence notice")
	}
	if result.Order != nil {
		t.Fatal("no order should be attached on failure")
	}
	if result.DeepLink == "" || !strings.Contains(result.Message, "Rice (50kg bag) - Qty: 2") {
		t.Fatalf("dispatch content missing: %q", result.Message)
	}
	if f.orders.calls != 1 {
		t.Fatalf("gateway called %d times, want exactly 1 (no retry)", f.orders.calls)
	}

	// The cart still clears once the shopper confirms the send.
	if _, err := f.svc.ConfirmDispatch(ctx, f.token); err != nil {
		t.Fatalf("ConfirmDispatch: %v", err)
	}
	if f.carts.cleared != 1 {
		t.Fatal("cart must clear after confirmed dispatch even when persistence failed")
	}
}

func TestDeliveryWithoutAddressHaltsBeforeSubmit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil, nil)
	openForm(t, f)

	draft := validDraft()
	draft.ShippingAddress = ""
	_, err := f.svc.PlaceOrder(ctx, f.token, draft, nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if typed.Message() != "Address Required" {
		t.Fatalf("message = %q, want Address Required", typed.Message())
	}
	if f.orders.calls != 0 {
		t.Fatal("no gateway call may happen on validation failure")
	}
	sess, _ := f.sessions.Load(ctx, f.token)
	if sess.State != StateFormOpen {
		t.Fatalf("state = %s, want form_open", sess.State)
	}
}

func TestValidationOrderFirstFailureWins(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil, nil)
	openForm(t, f)

	draft := validDraft()
	draft.CustomerName = ""
	draft.CustomerEmail = ""
	draft.ShippingAddress = ""
	_, err := f.svc.PlaceOrder(ctx, f.token, draft, nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Message() != "Name Required" {
		t.Fatalf("first failing field must win, got %v", err)
	}
}

func TestValidationChecksContactFieldsBeforeEnums(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil, nil)
	openForm(t, f)

	draft := validDraft()
	draft.CustomerName = ""
	draft.PaymentMethod = ""
	_, err := f.svc.PlaceOrder(ctx, f.token, draft, nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Message() != "Name Required" {
		t.Fatalf("missing name must be reported before the payment method, got %v", err)
	}

	draft = validDraft()
	draft.FulfillmentMethod = "teleport"
	draft.ShippingAddress = ""
	_, err = f.svc.PlaceOrder(ctx, f.token, draft, nil)
	typed = pkgerrors.As(err)
	if typed == nil || typed.Message() != "invalid fulfillment method" {
		t.Fatalf("unknown fulfillment method must fail its own check, got %v", err)
	}
	if f.orders.calls != 0 {
		t.Fatal("no gateway call may happen on validation failure")
	}
}

func TestDrawerShortcutNeverClearsCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil, nil)
	if _, err := f.svc.OpenDrawer(ctx, f.token); err != nil {
		t.Fatalf("OpenDrawer: %v", err)
	}

	result, err := f.svc.CartInquiry(ctx, f.token)
	if err != nil {
		t.Fatalf("CartInquiry: %v", err)
	}
	for _, forbidden := range []string{"Name:", "Email:", "Phone:", "Payment:"} {
		if strings.Contains(result.Message, forbidden) {
			t.Fatalf("inquiry must omit customer details, found %q", forbidden)
		}
	}
	if f.carts.cleared != 0 {
		t.Fatal("drawer shortcut must never clear the cart")
	}
	if f.orders.calls != 0 {
		t.Fatal("drawer shortcut must not persist an order")
	}
	sess, _ := f.sessions.Load(ctx, f.token)
	if sess.State != StateIdle {
		t.Fatalf("drawer should close after inquiry, state = %s", sess.State)
	}
}

func TestOpenFormPreFillRules(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()
	profile := &users.Profile{
		ID:             customerID,
		Email:          "ada@example.com",
		FullName:       "Ada Obi",
		Phone:          "08031234567",
		ContactAddress: "12 Allen Avenue, Ikeja, Lagos",
	}

	t.Run("delivery pre-fills address", func(t *testing.T) {
		f := newFixture(t, nil, &stubProfiles{profile: profile})
		sess, err := f.svc.OpenForm(ctx, f.token, &customerID, OpenFormInput{FulfillmentMethod: "delivery"})
		if err != nil {
			t.Fatalf("OpenForm: %v", err)
		}
		if sess.Draft.ShippingAddress != profile.ContactAddress {
			t.Fatalf("address not pre-filled: %q", sess.Draft.ShippingAddress)
		}
		if sess.Draft.CustomerName != "Ada Obi" {
			t.Fatalf("name not pre-filled: %q", sess.Draft.CustomerName)
		}
	})

	t.Run("pickup skips address pre-fill", func(t *testing.T) {
		f := newFixture(t, nil, &stubProfiles{profile: profile})
		sess, err := f.svc.OpenForm(ctx, f.token, &customerID, OpenFormInput{FulfillmentMethod: "pickup"})
		if err != nil {
			t.Fatalf("OpenForm: %v", err)
		}
		if sess.Draft.ShippingAddress != "" {
			t.Fatalf("pickup must not pre-fill address, got %q", sess.Draft.ShippingAddress)
		}
	})

	t.Run("profile fetch failure is silent", func(t *testing.T) {
		f := newFixture(t, nil, &stubProfiles{err: pkgerrors.New(pkgerrors.CodeDependency, "profile service down")})
		sess, err := f.svc.OpenForm(ctx, f.token, &customerID, OpenFormInput{FulfillmentMethod: "delivery"})
		if err != nil {
			t.Fatalf("profile failure must not surface: %v", err)
		}
		if sess.Draft.CustomerName != "" || sess.Draft.ShippingAddress != "" {
			t.Fatalf("no pre-fill expected, got %+v", sess.Draft)
		}
	})
}

func TestCancelDiscardsDraftKeepsCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil, nil)
	openForm(t, f)

	sess, err := f.svc.Cancel(ctx, f.token)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if sess.State != StateIdle || sess.Draft != (Draft{}) {
		t.Fatalf("cancel must reset the session, got %+v", sess)
	}
	if f.carts.cleared != 0 {
		t.Fatal("cancel must not clear the cart")
	}
}

func TestConfirmWithoutPendingDispatchRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil, nil)

	_, err := f.svc.ConfirmDispatch(ctx, f.token)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}
