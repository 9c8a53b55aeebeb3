package pos

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product_tracker/internal/domain"
)

func testProduct(id, stock int) domain.Product {
	return domain.Product{
		ID:        id,
		Name:      "Producto",
		SKU:       "SKU-1",
		PriceSale: decimal.NewFromInt(1000),
		Stock:     stock,
	}
}

func TestCartAddRejectsOutOfStock(t *testing.T) {
	cart := NewCart()

	err := cart.Add(testProduct(1, 0))

	require.ErrorIs(t, err, ErrOutOfStock)
	assert.True(t, cart.IsEmpty())
}

func TestCartAddIncrementsExistingLine(t *testing.T) {
	cart := NewCart()
	p := testProduct(1, 2)

	require.NoError(t, cart.Add(p))
	require.NoError(t, cart.Add(p))

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)

	// A third unit would exceed stock: rejected, quantity unchanged.
	err := cart.Add(p)
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 2, cart.Lines()[0].Quantity)
}

func TestCartSetQuantity(t *testing.T) {
	cart := NewCart()
	p := testProduct(1, 5)
	require.NoError(t, cart.Add(p))

	require.NoError(t, cart.SetQuantity(1, 4))
	assert.Equal(t, 4, cart.Lines()[0].Quantity)

	// Beyond stock: rejected, prior quantity kept.
	err := cart.SetQuantity(1, 6)
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 4, cart.Lines()[0].Quantity)

	// Zero or negative is equivalent to removal.
	require.NoError(t, cart.SetQuantity(1, 0))
	assert.True(t, cart.IsEmpty())
}

func TestCartSetQuantityUnknownProduct(t *testing.T) {
	cart := NewCart()

	err := cart.SetQuantity(42, 1)

	require.ErrorIs(t, err, ErrLineNotFound)
}

func TestCartRemoveAndClear(t *testing.T) {
	cart := NewCart()
	require.NoError(t, cart.Add(testProduct(1, 5)))
	require.NoError(t, cart.Add(testProduct(2, 5)))

	require.NoError(t, cart.Remove(1))
	require.Len(t, cart.Lines(), 1)
	assert.Equal(t, 2, cart.Lines()[0].Product.ID)

	cart.Clear()
	assert.True(t, cart.IsEmpty())
}

// No sequence of add/set calls may ever leave a line above its product's
// stock.
func TestCartQuantityNeverExceedsStock(t *testing.T) {
	cart := NewCart()
	p := testProduct(1, 3)

	ops := []func() error{
		func() error { return cart.Add(p) },
		func() error { return cart.SetQuantity(1, 3) },
		func() error { return cart.Add(p) },
		func() error { return cart.SetQuantity(1, 10) },
		func() error { return cart.Add(p) },
		func() error { return cart.SetQuantity(1, 2) },
		func() error { return cart.Add(p) },
	}
	for _, op := range ops {
		_ = op()
		for _, line := range cart.Lines() {
			require.LessOrEqual(t, line.Quantity, line.Product.Stock)
			require.GreaterOrEqual(t, line.Quantity, 1)
		}
	}
}

func TestCartLinesReturnsCopy(t *testing.T) {
	cart := NewCart()
	require.NoError(t, cart.Add(testProduct(1, 5)))

	lines := cart.Lines()
	lines[0].Quantity = 99

	assert.Equal(t, 1, cart.Lines()[0].Quantity)
}
