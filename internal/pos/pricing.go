package pos

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// TaxConfig carries the pricing knobs read from settings before each
// computation. FractionDigits follows the currency's minor-unit convention:
// 0 for COP, 2 for USD and friends. Rounding at this precision is applied
// identically to tax, total and change so the displayed figures always match
// what checkout submits.
type TaxConfig struct {
	TaxRatePercent decimal.Decimal
	CurrencyCode   string
	FractionDigits int32
}

type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	Total     decimal.Decimal `json:"total"`
}

// ComputeTotals derives the cart totals:
//
//	subtotal = Σ unitPrice × quantity
//	tax      = subtotal × rate/100
//	total    = (subtotal + tax) × (1 − discount/100)
//
// Precondition: discountPercent is already clamped to [0, 100] by the caller.
func ComputeTotals(lines []CartLine, cfg TaxConfig, discountPercent decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	tax := subtotal.Mul(cfg.TaxRatePercent).Div(oneHundred).Round(cfg.FractionDigits)

	discountFactor := decimal.NewFromInt(1).Sub(discountPercent.Div(oneHundred))
	total := subtotal.Add(tax).Mul(discountFactor).Round(cfg.FractionDigits)

	return Totals{
		Subtotal:  subtotal.Round(cfg.FractionDigits),
		TaxAmount: tax,
		Total:     total,
	}
}

// RoundAmount rounds a monetary amount to the configured currency precision.
func (cfg TaxConfig) RoundAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(cfg.FractionDigits)
}
