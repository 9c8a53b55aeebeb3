package pos

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"product_tracker/internal/domain"
)

var (
	ErrOutOfStock        = errors.New("product is out of stock")
	ErrInsufficientStock = errors.New("requested quantity exceeds available stock")
	ErrLineNotFound      = errors.New("product is not in the cart")
)

// CartLine is a product snapshot plus the requested quantity. UnitPrice is
// the sale price captured when the product entered the cart.
type CartLine struct {
	Product   domain.Product
	Quantity  int
	UnitPrice decimal.Decimal
}

// Cart is the in-memory sale ledger. It holds no persistence: it lives for
// one checkout and is cleared on completion or explicit Clear.
//
// Invariant: a line's quantity never exceeds its product's stock as known at
// addition time. Violating calls are rejected, never clamped.
type Cart struct {
	lines []CartLine
}

func NewCart() *Cart {
	return &Cart{}
}

func (c *Cart) indexOf(productID int) int {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// Add puts one unit of the product into the cart, or increments an existing
// line by one. The increment is rejected if it would exceed available stock.
func (c *Cart) Add(product domain.Product) error {
	if product.Stock <= 0 {
		return fmt.Errorf("%w: %s", ErrOutOfStock, product.Name)
	}

	if i := c.indexOf(product.ID); i >= 0 {
		if c.lines[i].Quantity+1 > c.lines[i].Product.Stock {
			return fmt.Errorf("%w: %s (available: %d)", ErrInsufficientStock, product.Name, c.lines[i].Product.Stock)
		}
		c.lines[i].Quantity++
		return nil
	}

	c.lines = append(c.lines, CartLine{
		Product:   product,
		Quantity:  1,
		UnitPrice: product.PriceSale,
	})
	return nil
}

// SetQuantity sets a line's quantity exactly. A quantity of zero or less
// removes the line; a quantity above the product's stock is rejected and the
// prior quantity is kept.
func (c *Cart) SetQuantity(productID, quantity int) error {
	i := c.indexOf(productID)
	if i < 0 {
		return fmt.Errorf("%w: id %d", ErrLineNotFound, productID)
	}
	if quantity <= 0 {
		return c.Remove(productID)
	}
	if quantity > c.lines[i].Product.Stock {
		return fmt.Errorf("%w: %s (available: %d, requested: %d)",
			ErrInsufficientStock, c.lines[i].Product.Name, c.lines[i].Product.Stock, quantity)
	}
	c.lines[i].Quantity = quantity
	return nil
}

func (c *Cart) Remove(productID int) error {
	i := c.indexOf(productID)
	if i < 0 {
		return fmt.Errorf("%w: id %d", ErrLineNotFound, productID)
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return nil
}

func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Lines returns a copy of the ledger so callers cannot bypass the stock
// invariant by mutating quantities directly.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}
