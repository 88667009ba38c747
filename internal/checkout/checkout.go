// Package checkout owns the locally persisted contact/address draft and the
// order submission flow, including the hosted-payment hand-off.
package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/limestore/limectl/internal/api"
	"github.com/limestore/limectl/internal/errs"
	"github.com/limestore/limectl/internal/model"
	"github.com/limestore/limectl/internal/storage"
)

// API is the slice of the HTTP client the checkout flow needs.
type API interface {
	Checkout(ctx context.Context, req api.CheckoutRequest, idempotencyKey string) (model.CheckoutResult, error)
	CreateSumUpCheckout(ctx context.Context, orderID string) (model.PaymentCheckout, error)
}

// Cart is the slice of the cart service the checkout flow needs.
type Cart interface {
	Lines() []model.CartLine
	Clear()
}

// Service edits the checkout draft and submits orders.
type Service struct {
	api   API
	cart  Cart
	store storage.Store
	log   *zap.Logger
}

// NewService constructs the checkout flow.
func NewService(a API, cart Cart, store storage.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{api: a, cart: cart, store: store, log: log}
}

// Draft loads the persisted contact/address draft; a missing or corrupted
// draft yields the zero value.
func (s *Service) Draft() model.CheckoutDraft {
	var d model.CheckoutDraft
	b, err := s.store.Get(storage.KeyCheckoutDraft)
	if err != nil {
		return d
	}
	if err := json.Unmarshal(b, &d); err != nil {
		s.log.Warn("checkout: corrupted draft, starting fresh", zap.Error(err))
		return model.CheckoutDraft{}
	}
	return d
}

// SaveDraft persists the draft for later invocations.
func (s *Service) SaveDraft(d model.CheckoutDraft) error {
	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("checkout: encode draft: %w", err)
	}
	return s.store.Set(storage.KeyCheckoutDraft, b)
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateDraft checks the fields checkout needs before any request is made.
func ValidateDraft(d model.CheckoutDraft) error {
	switch {
	case strings.TrimSpace(d.Name) == "":
		return fmt.Errorf("checkout: name is required: %w", errs.ErrValidation)
	case !emailRe.MatchString(d.Email):
		return fmt.Errorf("checkout: invalid email %q: %w", d.Email, errs.ErrValidation)
	case strings.TrimSpace(d.Address.Line1) == "":
		return fmt.Errorf("checkout: address line is required: %w", errs.ErrValidation)
	case strings.TrimSpace(d.Address.City) == "":
		return fmt.Errorf("checkout: city is required: %w", errs.ErrValidation)
	case strings.TrimSpace(d.Address.PostalCode) == "":
		return fmt.Errorf("checkout: postal code is required: %w", errs.ErrValidation)
	case strings.TrimSpace(d.Address.Country) == "":
		return fmt.Errorf("checkout: country is required: %w", errs.ErrValidation)
	}
	return nil
}

// Submit places the order from the current cart and draft. On success the
// cart and draft are cleared, then the payment hand-off is created. A
// payment-creation failure does not undo the placed order; the result is
// returned alongside the error so the caller can still show the order id.
func (s *Service) Submit(ctx context.Context) (model.CheckoutResult, model.PaymentCheckout, error) {
	lines := s.cart.Lines()
	if len(lines) == 0 {
		return model.CheckoutResult{}, model.PaymentCheckout{}, fmt.Errorf("checkout: cart is empty: %w", errs.ErrValidation)
	}
	draft := s.Draft()
	if err := ValidateDraft(draft); err != nil {
		return model.CheckoutResult{}, model.PaymentCheckout{}, err
	}

	key, err := uuid.NewV4()
	if err != nil {
		return model.CheckoutResult{}, model.PaymentCheckout{}, fmt.Errorf("checkout: idempotency key: %w", err)
	}
	req := api.CheckoutRequest{
		Items:   lines,
		Name:    strings.TrimSpace(draft.Name),
		Email:   draft.Email,
		Phone:   strings.TrimSpace(draft.Phone),
		Address: draft.Address,
	}
	res, err := s.api.Checkout(ctx, req, key.String())
	if err != nil {
		return model.CheckoutResult{}, model.PaymentCheckout{}, err
	}

	s.cart.Clear()
	if err := s.store.Delete(storage.KeyCheckoutDraft); err != nil {
		s.log.Warn("checkout: clear draft failed", zap.Error(err))
	}

	payment, err := s.api.CreateSumUpCheckout(ctx, res.OrderID)
	if err != nil {
		return res, model.PaymentCheckout{}, fmt.Errorf("checkout: order %s placed but payment hand-off failed: %w", res.OrderID, err)
	}
	return res, payment, nil
}
