package pos

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product_tracker/internal/domain"
)

type fakeSubmitter struct {
	err      error
	received *domain.SaleInput
	calls    int
}

func (f *fakeSubmitter) SubmitSale(_ context.Context, input *domain.SaleInput) (*domain.Sale, error) {
	f.calls++
	f.received = input
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Sale{ID: 101, PaymentMethod: input.PaymentMethod}, nil
}

type fakeAuthorizer struct {
	err   error
	calls int
}

func (f *fakeAuthorizer) AuthorizeElevated(_ context.Context, _, _ string) error {
	f.calls++
	return f.err
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func checkoutFixture(t *testing.T, submitter SaleSubmitter, auth Authorizer) (*Checkout, *Cart) {
	t.Helper()
	cart := cartWith(t, 15000, 2)
	co := NewCheckout(cart, copConfig(19), submitter, auth, false, quietLogger())
	return co, cart
}

func TestCheckoutBeginRequiresNonEmptyCart(t *testing.T) {
	co := NewCheckout(NewCart(), copConfig(19), &fakeSubmitter{}, &fakeAuthorizer{}, false, quietLogger())

	require.ErrorIs(t, co.Begin(), ErrEmptyCart)
	assert.Equal(t, StateIdle, co.State())
}

func TestCheckoutExactTender(t *testing.T) {
	submitter := &fakeSubmitter{}
	co, cart := checkoutFixture(t, submitter, &fakeAuthorizer{})
	require.NoError(t, co.Begin())
	require.Equal(t, "35700", co.Totals().Total.String())

	change, err := co.Pay(context.Background(), decimal.NewFromInt(35700), "Efectivo")

	require.NoError(t, err)
	assert.Equal(t, "0", change.String())
	assert.Equal(t, StateCompleted, co.State())
	assert.True(t, cart.IsEmpty())
	require.NotNil(t, co.Sale())
	assert.Equal(t, 101, co.Sale().ID)

	require.NotNil(t, submitter.received)
	require.Len(t, submitter.received.Items, 1)
	assert.Equal(t, 2, submitter.received.Items[0].Quantity)
	assert.Equal(t, "15000", submitter.received.Items[0].UnitPrice.String())
}

func TestCheckoutInsufficientTenderBlocks(t *testing.T) {
	submitter := &fakeSubmitter{}
	co, cart := checkoutFixture(t, submitter, &fakeAuthorizer{})
	require.NoError(t, co.Begin())

	_, err := co.Pay(context.Background(), decimal.NewFromInt(30000), "Efectivo")

	require.ErrorIs(t, err, ErrInsufficientTender)
	assert.Equal(t, StateAwaitingPayment, co.State())
	assert.False(t, cart.IsEmpty())
	assert.Zero(t, submitter.calls, "no network call on local validation failure")
}

func TestCheckoutChangeComputation(t *testing.T) {
	co, _ := checkoutFixture(t, &fakeSubmitter{}, &fakeAuthorizer{})
	require.NoError(t, co.Begin())

	change, err := co.Pay(context.Background(), decimal.NewFromInt(40000), "Efectivo")

	require.NoError(t, err)
	assert.Equal(t, "4300", change.String())
}

func TestCheckoutSubmissionFailureKeepsCart(t *testing.T) {
	submitter := &fakeSubmitter{err: errors.New("stock insuficiente de Café 500g")}
	co, cart := checkoutFixture(t, submitter, &fakeAuthorizer{})
	require.NoError(t, co.Begin())

	_, err := co.Pay(context.Background(), decimal.NewFromInt(40000), "Efectivo")

	require.Error(t, err)
	assert.Equal(t, StateFailed, co.State())
	assert.Equal(t, "stock insuficiente de Café 500g", co.FailureMessage())
	assert.False(t, cart.IsEmpty(), "cart stays intact for retry")

	// Retry path: back to AwaitingPayment, next attempt succeeds.
	submitter.err = nil
	require.NoError(t, co.Retry())
	assert.Equal(t, StateAwaitingPayment, co.State())

	change, err := co.Pay(context.Background(), decimal.NewFromInt(35700), "Efectivo")
	require.NoError(t, err)
	assert.Equal(t, "0", change.String())
	assert.Equal(t, StateCompleted, co.State())
}

func TestCheckoutElevatedDiscountRequiresAuthorization(t *testing.T) {
	auth := &fakeAuthorizer{}
	submitter := &fakeSubmitter{}
	co, _ := checkoutFixture(t, submitter, auth)
	require.NoError(t, co.Begin())
	require.NoError(t, co.SetDiscount(decimal.NewFromInt(20)))

	_, err := co.Pay(context.Background(), decimal.NewFromInt(50000), "Efectivo")
	require.ErrorIs(t, err, ErrAuthorizationRequired)
	assert.Equal(t, StateAwaitingPayment, co.State())
	assert.Zero(t, submitter.calls)

	require.NoError(t, co.Authorize(context.Background(), "admin", "secret"))
	assert.Equal(t, 1, auth.calls)

	_, err = co.Pay(context.Background(), decimal.NewFromInt(50000), "Efectivo")
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, co.State())
}

func TestCheckoutElevatedDiscountAdminBypassesAuthorization(t *testing.T) {
	auth := &fakeAuthorizer{}
	cart := cartWith(t, 15000, 2)
	co := NewCheckout(cart, copConfig(19), &fakeSubmitter{}, auth, true, quietLogger())
	require.NoError(t, co.Begin())
	require.NoError(t, co.SetDiscount(decimal.NewFromInt(50)))

	_, err := co.Pay(context.Background(), decimal.NewFromInt(50000), "Efectivo")

	require.NoError(t, err)
	assert.Zero(t, auth.calls)
}

func TestCheckoutAuthorizationFailure(t *testing.T) {
	auth := &fakeAuthorizer{err: errors.New("invalid admin credentials")}
	co, _ := checkoutFixture(t, &fakeSubmitter{}, auth)
	require.NoError(t, co.Begin())
	require.NoError(t, co.SetDiscount(decimal.NewFromInt(20)))

	err := co.Authorize(context.Background(), "admin", "wrong")
	require.Error(t, err)

	_, err = co.Pay(context.Background(), decimal.NewFromInt(50000), "Efectivo")
	require.ErrorIs(t, err, ErrAuthorizationRequired)
}

func TestCheckoutThresholdDiscountNeedsNoAuthorization(t *testing.T) {
	co, _ := checkoutFixture(t, &fakeSubmitter{}, &fakeAuthorizer{})
	require.NoError(t, co.Begin())
	// Exactly at the threshold is still an ordinary discount.
	require.NoError(t, co.SetDiscount(decimal.NewFromInt(ElevatedDiscountThreshold)))

	_, err := co.Pay(context.Background(), decimal.NewFromInt(50000), "Efectivo")

	require.NoError(t, err)
}

func TestCheckoutDiscountValidation(t *testing.T) {
	co, _ := checkoutFixture(t, &fakeSubmitter{}, &fakeAuthorizer{})

	require.ErrorIs(t, co.SetDiscount(decimal.NewFromInt(-1)), ErrInvalidDiscount)
	require.ErrorIs(t, co.SetDiscount(decimal.NewFromInt(101)), ErrInvalidDiscount)
}

func TestCheckoutInvalidTransitions(t *testing.T) {
	co, _ := checkoutFixture(t, &fakeSubmitter{}, &fakeAuthorizer{})

	_, err := co.Pay(context.Background(), decimal.NewFromInt(100), "Efectivo")
	require.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, co.Begin())
	require.ErrorIs(t, co.Begin(), ErrInvalidTransition)
	require.ErrorIs(t, co.Retry(), ErrInvalidTransition)
}
