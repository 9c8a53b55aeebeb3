package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"product_tracker/internal/domain"
	"product_tracker/internal/pos"
)

// listAllLimit caps how much of the catalog a report walks in one query.
const listAllLimit = 500

type InventoryValuation struct {
	ProductCount  int             `json:"product_count"`
	TotalUnits    int             `json:"total_units"`
	PurchaseValue decimal.Decimal `json:"purchase_value"`
	SaleValue     decimal.Decimal `json:"sale_value"`
}

type SalesSummary struct {
	SaleCount       int                        `json:"sale_count"`
	TotalRevenue    decimal.Decimal            `json:"total_revenue"`
	TotalTax        decimal.Decimal            `json:"total_tax"`
	TotalDiscount   decimal.Decimal            `json:"total_discount"`
	AverageSale     decimal.Decimal            `json:"average_sale"`
	ByPaymentMethod map[string]decimal.Decimal `json:"by_payment_method"`
}

type ProductProfit struct {
	ProductID     int             `json:"product_id"`
	Name          string          `json:"name"`
	UnitsSold     int             `json:"units_sold"`
	Revenue       decimal.Decimal `json:"revenue"`
	Cost          decimal.Decimal `json:"cost"`
	Profit        decimal.Decimal `json:"profit"`
	MarginPercent decimal.Decimal `json:"margin_percent"`
}

type ProfitReport struct {
	TotalProfit decimal.Decimal `json:"total_profit"`
	Products    []ProductProfit `json:"products"`
}

type ReportUseCase interface {
	InventoryValuation(ctx context.Context) (*InventoryValuation, error)
	SalesSummary(ctx context.Context, limit int) (*SalesSummary, error)
	ProfitReport(ctx context.Context) (*ProfitReport, error)
	Alerts(ctx context.Context) (*pos.AlertSet, error)
}

type reportUseCase struct {
	productRepo domain.ProductRepository
	saleRepo    domain.SaleRepository
	settings    SettingsUseCase
	log         *logrus.Logger
}

func NewReportUseCase(pRepo domain.ProductRepository, sRepo domain.SaleRepository, settings SettingsUseCase, logger *logrus.Logger) ReportUseCase {
	return &reportUseCase{
		productRepo: pRepo,
		saleRepo:    sRepo,
		settings:    settings,
		log:         logger,
	}
}

func (uc *reportUseCase) activeProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := uc.productRepo.ListProducts(ctx, domain.ProductFilter{}, listAllLimit, 0)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list products for report: %v", err)
		return nil, fmt.Errorf("could not retrieve products for report: %w", err)
	}
	return products, nil
}

// InventoryValuation sums the catalog at purchase and sale prices. Archived
// products are excluded by the repository's default filter.
func (uc *reportUseCase) InventoryValuation(ctx context.Context) (*InventoryValuation, error) {
	products, err := uc.activeProducts(ctx)
	if err != nil {
		return nil, err
	}

	valuation := &InventoryValuation{
		PurchaseValue: decimal.Zero,
		SaleValue:     decimal.Zero,
	}
	for _, p := range products {
		stock := decimal.NewFromInt(int64(p.Stock))
		valuation.ProductCount++
		valuation.TotalUnits += p.Stock
		valuation.PurchaseValue = valuation.PurchaseValue.Add(p.PricePurchase.Mul(stock))
		valuation.SaleValue = valuation.SaleValue.Add(p.PriceSale.Mul(stock))
	}

	uc.log.Infof("Use Case: Inventory valuation computed over %d products", valuation.ProductCount)
	return valuation, nil
}

// saleDiscountAmount reconstructs the amount a sale's percentage discount took
// off its gross. A 100% discount leaves no gross to reconstruct from and
// contributes zero.
func saleDiscountAmount(sale domain.Sale) decimal.Decimal {
	oneHundred := decimal.NewFromInt(100)
	if sale.DiscountPercent.IsZero() || sale.DiscountPercent.GreaterThanOrEqual(oneHundred) {
		return decimal.Zero
	}
	factor := decimal.NewFromInt(1).Sub(sale.DiscountPercent.Div(oneHundred))
	gross := sale.Total.Div(factor)
	return gross.Sub(sale.Total)
}

func (uc *reportUseCase) SalesSummary(ctx context.Context, limit int) (*SalesSummary, error) {
	if limit <= 0 || limit > listAllLimit {
		limit = listAllLimit
	}
	sales, err := uc.saleRepo.ListSales(ctx, limit, 0)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list sales for summary: %v", err)
		return nil, fmt.Errorf("could not retrieve sales for summary: %w", err)
	}

	summary := &SalesSummary{
		TotalRevenue:    decimal.Zero,
		TotalTax:        decimal.Zero,
		TotalDiscount:   decimal.Zero,
		AverageSale:     decimal.Zero,
		ByPaymentMethod: map[string]decimal.Decimal{},
	}
	for _, sale := range sales {
		summary.SaleCount++
		summary.TotalRevenue = summary.TotalRevenue.Add(sale.Total)
		summary.TotalTax = summary.TotalTax.Add(sale.TaxAmount)
		summary.TotalDiscount = summary.TotalDiscount.Add(saleDiscountAmount(sale))

		current, ok := summary.ByPaymentMethod[sale.PaymentMethod]
		if !ok {
			current = decimal.Zero
		}
		summary.ByPaymentMethod[sale.PaymentMethod] = current.Add(sale.Total)
	}
	if summary.SaleCount > 0 {
		cfg, err := uc.settings.TaxConfig(ctx)
		if err != nil {
			return nil, err
		}
		summary.AverageSale = cfg.RoundAmount(summary.TotalRevenue.Div(decimal.NewFromInt(int64(summary.SaleCount))))
		summary.TotalDiscount = cfg.RoundAmount(summary.TotalDiscount)
	}

	uc.log.Infof("Use Case: Sales summary computed over %d sales", summary.SaleCount)
	return summary, nil
}

// ProfitReport estimates profit per product as (sale unit price − current
// purchase price) × units sold. Purchase prices are taken from the catalog as
// it stands today.
func (uc *reportUseCase) ProfitReport(ctx context.Context) (*ProfitReport, error) {
	products, err := uc.activeProducts(ctx)
	if err != nil {
		return nil, err
	}

	report := &ProfitReport{
		TotalProfit: decimal.Zero,
		Products:    []ProductProfit{},
	}
	for _, p := range products {
		items, err := uc.saleRepo.ListSaleItemsByProduct(ctx, p.ID)
		if err != nil {
			uc.log.Errorf("Use Case: Repository failed to list sale items for product %d: %v", p.ID, err)
			return nil, fmt.Errorf("could not retrieve sale items for product %d: %w", p.ID, err)
		}
		if len(items) == 0 {
			continue
		}

		profit := ProductProfit{
			ProductID: p.ID,
			Name:      p.Name,
			Revenue:   decimal.Zero,
			Cost:      decimal.Zero,
		}
		for _, item := range items {
			qty := decimal.NewFromInt(int64(item.Quantity))
			profit.UnitsSold += item.Quantity
			profit.Revenue = profit.Revenue.Add(item.UnitPrice.Mul(qty))
			profit.Cost = profit.Cost.Add(p.PricePurchase.Mul(qty))
		}
		profit.Profit = profit.Revenue.Sub(profit.Cost)
		if profit.Revenue.IsPositive() {
			profit.MarginPercent = profit.Profit.Div(profit.Revenue).Mul(decimal.NewFromInt(100)).Round(2)
		}

		report.Products = append(report.Products, profit)
		report.TotalProfit = report.TotalProfit.Add(profit.Profit)
	}

	uc.log.Infof("Use Case: Profit report computed over %d products with sales", len(report.Products))
	return report, nil
}

func (uc *reportUseCase) Alerts(ctx context.Context) (*pos.AlertSet, error) {
	products, err := uc.activeProducts(ctx)
	if err != nil {
		return nil, err
	}
	threshold, err := uc.settings.LowStockThreshold(ctx)
	if err != nil {
		uc.log.Warnf("Use Case: Falling back to default low stock threshold: %v", err)
	}

	set := pos.EvaluateAlerts(products, threshold, time.Now())
	uc.log.Infof("Use Case: Alert evaluation produced %d low stock and %d expiring alerts", len(set.LowStock), len(set.ExpiringSoon))
	return &set, nil
}
