package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

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

type sessionRepo interface {
	Load(ctx context.Context, token string) (*Session, error)
	Save(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, token string) error
}

type cartService interface {
	Get(ctx context.Context, token string) (*cart.Cart, error)
	Clear(ctx context.Context, token string) (*cart.Cart, error)
}

type orderSubmitter interface {
	SubmitOrder(ctx context.Context, submission orders.OrderSubmission) (*models.Order, error)
}

type profileLoader interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*users.Profile, error)
}

// OpenFormInput selects the initial fulfillment method when the checkout
// form opens.
type OpenFormInput struct {
	FulfillmentMethod string
}

// PlaceOrderResult is what the shopper needs to finish a checkout: the
// composed message and its deep link, plus the persistence outcome. A failed
// order write is reported here but never withholds the link; the message
// channel is the fallback path and human fulfillment can proceed from it.
type PlaceOrderResult struct {
	Session           *Session
	Order             *models.Order
	Message           string
	DeepLink          string
	PersistenceFailed bool
	PersistenceNotice string
}

// InquiryResult is the drawer-shortcut outcome: a message and link only.
type InquiryResult struct {
	Message  string
	DeepLink string
}

// Service is the checkout orchestrator. It drives the flow
// idle -> drawer open -> form open -> (validate, submit, compose) ->
// awaiting dispatch -> idle, and owns the one rule the rest of the system
// leans on: the cart is cleared only when a full-checkout dispatch is
// confirmed, never on persistence failure and never on the drawer shortcut.
type Service interface {
	OpenDrawer(ctx context.Context, token string) (*Session, error)
	OpenForm(ctx context.Context, token string, customerID *uuid.UUID, input OpenFormInput) (*Session, error)
	PlaceOrder(ctx context.Context, token string, draft Draft, customerID *uuid.UUID) (*PlaceOrderResult, error)
	ConfirmDispatch(ctx context.Context, token string) (*Session, error)
	Cancel(ctx context.Context, token string) (*Session, error)
	CartInquiry(ctx context.Context, token string) (*InquiryResult, error)
}

type service struct {
	sessions sessionRepo
	carts    cartService
	orders   orderSubmitter
	profiles profileLoader
	composer *whatsapp.Composer
	logg     *logger.Logger
	metrics  *metrics.CheckoutMetrics
	waCfg    config.WhatsAppConfig
	coCfg    config.CheckoutConfig
}

// ServiceParams bundles the orchestrator dependencies.
type ServiceParams struct {
	Sessions       sessionRepo
	Carts          cartService
	Orders         orderSubmitter
	Profiles       profileLoader
	Composer       *whatsapp.Composer
	Logger         *logger.Logger
	Metrics        *metrics.CheckoutMetrics
	WhatsAppConfig config.WhatsAppConfig
	CheckoutConfig config.CheckoutConfig
}

// NewService constructs the checkout orchestrator.
func NewService(params ServiceParams) (Service, error) {
	if params.Sessions == nil {
		return nil, fmt.Errorf("session repository required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order submitter required")
	}
	if params.Composer == nil {
		return nil, fmt.Errorf("message composer required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		sessions: params.Sessions,
		carts:    params.Carts,
		orders:   params.Orders,
		profiles: params.Profiles,
		composer: params.Composer,
		logg:     params.Logger,
		metrics:  params.Metrics,
		waCfg:    params.WhatsAppConfig,
		coCfg:    params.CheckoutConfig,
	}, nil
}

// OpenDrawer marks the cart drawer as showing. No other side effect.
func (s *service) OpenDrawer(ctx context.Context, token string) (*Session, error) {
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}
	sess, err := s.sessions.Load(ctx, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading checkout session")
	}
	sess.State = StateDrawerOpen
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving checkout session")
	}
	return sess, nil
}

// OpenForm initializes the checkout draft. For signed-in customers the
// contact fields are pre-filled from the stored profile, and the shipping
// address only when fulfillment is delivery and the field is still empty.
// A profile fetch failure is swallowed: pre-fill simply does not happen.
func (s *service) OpenForm(ctx context.Context, token string, customerID *uuid.UUID, input OpenFormInput) (*Session, error) {
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}

	fulfillment := enums.FulfillmentMethodDelivery
	if input.FulfillmentMethod != "" {
		parsed, err := enums.ParseFulfillmentMethod(input.FulfillmentMethod)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid fulfillment method")
		}
		fulfillment = parsed
	}

	sess, err := s.sessions.Load(ctx, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading checkout session")
	}
	sess.State = StateFormOpen
	sess.Draft = Draft{FulfillmentMethod: fulfillment.String()}
	sess.OrderID = nil

	if customerID != nil && s.profiles != nil {
		profile, err := s.profiles.GetProfile(ctx, *customerID)
		if err != nil {
			s.logg.Warn(ctx, "profile pre-fill skipped: "+err.Error())
		} else {
			sess.Draft.CustomerName = profile.FullName
			sess.Draft.CustomerEmail = profile.Email
			sess.Draft.CustomerPhone = profile.Phone
			if fulfillment.RequiresAddress() && sess.Draft.ShippingAddress == "" {
				sess.Draft.ShippingAddress = profile.ContactAddress
			}
		}
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving checkout session")
	}
	return sess, nil
}

// validateDraft checks the draft in a fixed order and reports only the
// first failure: name, email, phone, then the fulfillment method and its
// address when delivery is selected, then the payment method. The contact
// fields come first so a typo in an enum never masks a missing name.
func validateDraft(draft Draft) (enums.FulfillmentMethod, enums.PaymentMethod, *pkgerrors.Error) {
	if strings.TrimSpace(draft.CustomerName) == "" {
		return "", "", fieldError("customer_name", "Name Required")
	}
	if strings.TrimSpace(draft.CustomerEmail) == "" {
		return "", "", fieldError("customer_email", "Email Required")
	}
	if strings.TrimSpace(draft.CustomerPhone) == "" {
		return "", "", fieldError("customer_phone", "Phone Required")
	}
	fulfillment, err := enums.ParseFulfillmentMethod(draft.FulfillmentMethod)
	if err != nil {
		return "", "", fieldError("fulfillment_method", "invalid fulfillment method")
	}
	if fulfillment.RequiresAddress() && strings.TrimSpace(draft.ShippingAddress) == "" {
		return "", "", fieldError("shipping_address", "Address Required")
	}
	payment, err := enums.ParsePaymentMethod(draft.PaymentMethod)
	if err != nil {
		return "", "", fieldError("payment_method", "invalid payment method")
	}
	return fulfillment, payment, nil
}

func fieldError(field, message string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).
		WithDetails(map[string]string{"field": field})
}

// PlaceOrder validates the draft, submits the order under the configured
// timeout, and composes the order message. The persistence call and the
// message composition are two independent, non-transactional steps: the
// order write failing does not stop the message from going out, it only
// attaches a notice to the result. The cart is not touched here.
func (s *service) PlaceOrder(ctx context.Context, token string, draft Draft, customerID *uuid.UUID) (*PlaceOrderResult, error) {
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}

	sess, err := s.sessions.Load(ctx, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading checkout session")
	}
	if sess.State != StateFormOpen && sess.State != StateAwaitingDispatch {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout form is not open")
	}
	sess.Draft = draft

	fulfillment, payment, vErr := validateDraft(draft)
	if vErr != nil {
		return nil, s.failValidation(ctx, sess, vErr)
	}

	shopperCart, err := s.carts.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if shopperCart.IsEmpty() {
		return nil, s.failValidation(ctx, sess, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty"))
	}

	// Item quantities and product IDs only; the gateway resolves prices.
	items := make([]orders.SubmissionItem, 0, len(shopperCart.Lines))
	for _, line := range shopperCart.Lines {
		items = append(items, orders.SubmissionItem{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	submission := orders.OrderSubmission{
		CustomerID:        customerID,
		Items:             items,
		CustomerName:      draft.CustomerName,
		CustomerEmail:     draft.CustomerEmail,
		CustomerPhone:     draft.CustomerPhone,
		FulfillmentMethod: fulfillment,
		PaymentMethod:     payment,
	}
	if fulfillment.RequiresAddress() {
		address := draft.ShippingAddress
		submission.ShippingAddress = &address
	}
	if strings.TrimSpace(draft.Notes) != "" {
		notes := draft.Notes
		submission.Notes = &notes
	}

	result := &PlaceOrderResult{}

	submitCtx, cancel := context.WithTimeout(ctx, s.coCfg.SubmitTimeout)
	order, submitErr := s.orders.SubmitOrder(submitCtx, submission)
	cancel()
	switch {
	case submitErr != nil:
		// The gateway is not idempotent; no retry. Surface the failure and
		// keep going so the message channel still carries the order.
		s.logg.Error(ctx, "order persistence failed, proceeding to dispatch", submitErr)
		s.metrics.IncPersistenceFailure()
		result.PersistenceFailed = true
		result.PersistenceNotice = persistenceNotice(submitErr)
	default:
		s.metrics.IncOrdersSubmitted()
		result.Order = order
		sess.OrderID = &order.ID
	}

	result.Message = s.composer.ComposeOrderMessage(shopperCart.Lines,
		whatsapp.CustomerDetails{
			Name:  draft.CustomerName,
			Email: draft.CustomerEmail,
			Phone: draft.CustomerPhone,
		},
		whatsapp.OrderDetails{
			Fulfillment:     fulfillment,
			ShippingAddress: draft.ShippingAddress,
			Payment:         payment,
			Notes:           draft.Notes,
		})
	result.DeepLink = whatsapp.DeepLink(s.waCfg.MerchantPhone, result.Message)

	sess.State = StateAwaitingDispatch
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving checkout session")
	}
	result.Session = sess
	return result, nil
}

func (s *service) failValidation(ctx context.Context, sess *Session, vErr *pkgerrors.Error) error {
	sess.State = StateFormOpen
	if err := s.sessions.Save(ctx, sess); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving checkout session")
	}
	return vErr
}

// ConfirmDispatch records that the shopper actually triggered the message
// send. Only now does the cart clear, the draft blank, and the flow return
// to idle.
func (s *service) ConfirmDispatch(ctx context.Context, token string) (*Session, error) {
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}
	sess, err := s.sessions.Load(ctx, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading checkout session")
	}
	if sess.State != StateAwaitingDispatch {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no dispatch awaiting confirmation")
	}

	if _, err := s.carts.Clear(ctx, token); err != nil {
		return nil, err
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing checkout session")
	}
	s.metrics.IncDispatch("checkout")
	return newSession(token), nil
}

// Cancel discards the draft and closes the form. The cart is untouched.
func (s *service) Cancel(ctx context.Context, token string) (*Session, error) {
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing checkout session")
	}
	return newSession(token), nil
}

// CartInquiry is the drawer shortcut: compose an inquiry with item lines and
// total only, hand back the deep link, and close the drawer. No order is
// persisted and the cart is deliberately not cleared; the shortcut is an
// exploratory inquiry, not a commitment.
func (s *service) CartInquiry(ctx context.Context, token string) (*InquiryResult, error) {
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}

	shopperCart, err := s.carts.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if shopperCart.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	message := s.composer.ComposeCartInquiry(shopperCart.Lines)
	if err := s.sessions.Delete(ctx, token); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing checkout session")
	}
	s.metrics.IncDispatch("inquiry")
	return &InquiryResult{
		Message:  message,
		DeepLink: whatsapp.DeepLink(s.waCfg.MerchantPhone, message),
	}, nil
}

func persistenceNotice(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		meta := pkgerrors.MetadataFor(typed.Code())
		return "Your order could not be saved (" + meta.PublicMessage + "). " +
			"Please still send the WhatsApp message so we can process it manually."
	}
	return "Your order could not be saved. Please still send the WhatsApp message so we can process it manually."
}
