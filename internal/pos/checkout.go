package pos

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"product_tracker/internal/domain"
)

// ElevatedDiscountThreshold is the discount percentage above which a sale
// needs secondary authorization from an admin before it may settle.
const ElevatedDiscountThreshold = 15

type State string

const (
	StateIdle            State = "idle"
	StateAwaitingPayment State = "awaiting_payment"
	StateSettling        State = "settling"
	StateCompleted       State = "completed"
	StateFailed          State = "failed"
)

var (
	ErrEmptyCart             = errors.New("cart is empty")
	ErrInvalidTransition     = errors.New("operation not allowed in current checkout state")
	ErrInsufficientTender    = errors.New("insufficient amount")
	ErrInvalidDiscount       = errors.New("discount percent must be between 0 and 100")
	ErrAuthorizationRequired = errors.New("elevated discount requires admin authorization")
)

// SaleSubmitter hands a finalized sale to the sales endpoint. The checkout
// only clears its cart after the submitter confirms persistence.
type SaleSubmitter interface {
	SubmitSale(ctx context.Context, input *domain.SaleInput) (*domain.Sale, error)
}

// Authorizer performs the secondary authorization step for elevated
// discounts: re-authentication as a privileged identity.
type Authorizer interface {
	AuthorizeElevated(ctx context.Context, username, password string) error
}

// Checkout is the explicit state machine behind the sale flow:
//
//	Idle → AwaitingPayment → Settling → Completed | Failed
//
// Validation failures (insufficient tender, missing authorization) keep the
// machine in AwaitingPayment; a settlement failure moves it to Failed with
// the cart intact so the sale can be retried.
type Checkout struct {
	cart      *Cart
	cfg       TaxConfig
	submitter SaleSubmitter
	auth      Authorizer
	log       *logrus.Logger

	state           State
	discountPercent decimal.Decimal
	actingIsAdmin   bool
	elevated        bool
	totals          Totals
	failureMessage  string
	sale            *domain.Sale
}

func NewCheckout(cart *Cart, cfg TaxConfig, submitter SaleSubmitter, auth Authorizer, actingIsAdmin bool, logger *logrus.Logger) *Checkout {
	return &Checkout{
		cart:          cart,
		cfg:           cfg,
		submitter:     submitter,
		auth:          auth,
		log:           logger,
		actingIsAdmin: actingIsAdmin,
		state:         StateIdle,
	}
}

func (co *Checkout) State() State { return co.state }

func (co *Checkout) Totals() Totals { return co.totals }

func (co *Checkout) FailureMessage() string { return co.failureMessage }

func (co *Checkout) Sale() *domain.Sale { return co.sale }

func (co *Checkout) Discount() decimal.Decimal { return co.discountPercent }

// Begin opens checkout over a non-empty cart and computes the totals.
func (co *Checkout) Begin() error {
	if co.state != StateIdle {
		return fmt.Errorf("%w: begin from %s", ErrInvalidTransition, co.state)
	}
	if co.cart.IsEmpty() {
		return ErrEmptyCart
	}
	co.totals = ComputeTotals(co.cart.Lines(), co.cfg, co.discountPercent)
	co.state = StateAwaitingPayment
	co.log.Infof("Checkout: Opened with %d lines, total %s", len(co.cart.Lines()), co.totals.Total)
	return nil
}

// SetDiscount applies a discount percentage and recomputes totals. Crossing
// the elevated threshold drops any prior authorization; the next Pay will
// demand a fresh one unless the acting user is already an admin.
func (co *Checkout) SetDiscount(percent decimal.Decimal) error {
	if co.state != StateIdle && co.state != StateAwaitingPayment {
		return fmt.Errorf("%w: set discount from %s", ErrInvalidTransition, co.state)
	}
	if percent.IsNegative() || percent.GreaterThan(oneHundred) {
		return ErrInvalidDiscount
	}
	co.discountPercent = percent
	co.elevated = false
	if co.state == StateAwaitingPayment {
		co.totals = ComputeTotals(co.cart.Lines(), co.cfg, co.discountPercent)
	}
	return nil
}

func (co *Checkout) requiresAuthorization() bool {
	return co.discountPercent.GreaterThan(decimal.NewFromInt(ElevatedDiscountThreshold)) &&
		!co.actingIsAdmin && !co.elevated
}

// Authorize runs the secondary authorization step for an elevated discount.
func (co *Checkout) Authorize(ctx context.Context, username, password string) error {
	if co.state != StateAwaitingPayment {
		return fmt.Errorf("%w: authorize from %s", ErrInvalidTransition, co.state)
	}
	if err := co.auth.AuthorizeElevated(ctx, username, password); err != nil {
		co.log.Warnf("Checkout: Elevated discount authorization failed: %v", err)
		return err
	}
	co.elevated = true
	co.log.Infof("Checkout: Elevated discount of %s%% authorized", co.discountPercent)
	return nil
}

// Pay validates the tendered amount, settles the sale through the submitter
// and returns the change. The cart is cleared only after the endpoint
// confirms persistence, never optimistically.
func (co *Checkout) Pay(ctx context.Context, tendered decimal.Decimal, paymentMethod string) (decimal.Decimal, error) {
	if co.state != StateAwaitingPayment {
		return decimal.Zero, fmt.Errorf("%w: pay from %s", ErrInvalidTransition, co.state)
	}
	if co.requiresAuthorization() {
		return decimal.Zero, ErrAuthorizationRequired
	}
	if tendered.LessThan(co.totals.Total) {
		return decimal.Zero, ErrInsufficientTender
	}

	co.state = StateSettling

	input := &domain.SaleInput{
		DiscountPercent: co.discountPercent,
		PaymentMethod:   paymentMethod,
	}
	for _, line := range co.cart.Lines() {
		input.Items = append(input.Items, domain.SaleItemInput{
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	sale, err := co.submitter.SubmitSale(ctx, input)
	if err != nil {
		co.state = StateFailed
		co.failureMessage = err.Error()
		co.log.Errorf("Checkout: Sale submission failed, cart kept for retry: %v", err)
		return decimal.Zero, err
	}

	co.sale = sale
	co.cart.Clear()
	co.state = StateCompleted
	change := co.cfg.RoundAmount(tendered.Sub(co.totals.Total))
	co.log.Infof("Checkout: Sale %d settled, change %s", sale.ID, change)
	return change, nil
}

// Retry returns a failed checkout to AwaitingPayment for another attempt.
// The cart was left intact by the failure, so the totals still hold.
func (co *Checkout) Retry() error {
	if co.state != StateFailed {
		return fmt.Errorf("%w: retry from %s", ErrInvalidTransition, co.state)
	}
	co.failureMessage = ""
	co.state = StateAwaitingPayment
	return nil
}
