package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product_tracker/internal/domain"
)

func TestInventoryValuation(t *testing.T) {
	productRepo := newFakeProductRepo(
		&domain.Product{ID: 1, Name: "Aceite", PricePurchase: decimal.NewFromInt(10000), PriceSale: decimal.NewFromInt(15000), Stock: 4},
		&domain.Product{ID: 2, Name: "Arroz", PricePurchase: decimal.NewFromInt(3000), PriceSale: decimal.NewFromInt(4500), Stock: 10},
		&domain.Product{ID: 3, Name: "Viejo", PricePurchase: decimal.NewFromInt(99), PriceSale: decimal.NewFromInt(100), Stock: 1, Archived: true},
	)
	uc := NewReportUseCase(productRepo, &fakeSaleRepo{}, copSettings(), quietLogger())

	valuation, err := uc.InventoryValuation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, valuation.ProductCount)
	assert.Equal(t, 14, valuation.TotalUnits)
	assert.True(t, valuation.PurchaseValue.Equal(decimal.NewFromInt(70000)), "purchase value was %s", valuation.PurchaseValue)
	assert.True(t, valuation.SaleValue.Equal(decimal.NewFromInt(105000)), "sale value was %s", valuation.SaleValue)
}

func TestSalesSummaryGroupsByPaymentMethod(t *testing.T) {
	saleRepo := &fakeSaleRepo{}
	productRepo := newFakeProductRepo(
		&domain.Product{ID: 1, Name: "Aceite", SKU: "AC-001", PriceSale: decimal.NewFromInt(15000), Stock: 50},
	)
	saleUC := NewSaleUseCase(saleRepo, productRepo, copSettings(), &fakeAuditRepo{}, domain.NoopProductCacheInvalidator{}, quietLogger())
	ctx := context.Background()

	for _, method := range []string{"cash", "cash", "card"} {
		_, err := saleUC.CreateSale(ctx, &domain.SaleInput{
			PaymentMethod: method,
			Items:         []domain.SaleItemInput{{ProductID: 1, Quantity: 1}},
		}, 1, false, false)
		require.NoError(t, err)
	}

	uc := NewReportUseCase(productRepo, saleRepo, copSettings(), quietLogger())
	summary, err := uc.SalesSummary(ctx, 0)
	require.NoError(t, err)

	// Each sale: 15000 + 2850 tax = 17850.
	assert.Equal(t, 3, summary.SaleCount)
	assert.True(t, summary.TotalRevenue.Equal(decimal.NewFromInt(53550)), "revenue was %s", summary.TotalRevenue)
	assert.True(t, summary.TotalTax.Equal(decimal.NewFromInt(8550)))
	assert.True(t, summary.AverageSale.Equal(decimal.NewFromInt(17850)))
	assert.True(t, summary.ByPaymentMethod["cash"].Equal(decimal.NewFromInt(35700)))
	assert.True(t, summary.ByPaymentMethod["card"].Equal(decimal.NewFromInt(17850)))
	assert.True(t, summary.TotalDiscount.IsZero())
}

func TestSalesSummaryReconstructsDiscount(t *testing.T) {
	saleRepo := &fakeSaleRepo{}
	productRepo := newFakeProductRepo(
		&domain.Product{ID: 1, Name: "Aceite", SKU: "AC-001", PriceSale: decimal.NewFromInt(15000), Stock: 50},
	)
	saleUC := NewSaleUseCase(saleRepo, productRepo, copSettings(), &fakeAuditRepo{}, domain.NoopProductCacheInvalidator{}, quietLogger())
	ctx := context.Background()

	_, err := saleUC.CreateSale(ctx, &domain.SaleInput{
		PaymentMethod:   "cash",
		DiscountPercent: decimal.NewFromInt(10),
		Items:           []domain.SaleItemInput{{ProductID: 1, Quantity: 1}},
	}, 1, false, false)
	require.NoError(t, err)

	uc := NewReportUseCase(productRepo, saleRepo, copSettings(), quietLogger())
	summary, err := uc.SalesSummary(ctx, 0)
	require.NoError(t, err)

	// Gross 17850 discounted 10% to 16065; the 1785 taken off is recovered.
	assert.True(t, summary.TotalRevenue.Equal(decimal.NewFromInt(16065)), "revenue was %s", summary.TotalRevenue)
	assert.True(t, summary.TotalDiscount.Equal(decimal.NewFromInt(1785)), "discount was %s", summary.TotalDiscount)
}

func TestProfitReport(t *testing.T) {
	saleRepo := &fakeSaleRepo{}
	productRepo := newFakeProductRepo(
		&domain.Product{ID: 1, Name: "Aceite", SKU: "AC-001", PricePurchase: decimal.NewFromInt(10000), PriceSale: decimal.NewFromInt(15000), Stock: 50},
		&domain.Product{ID: 2, Name: "Arroz", SKU: "AR-001", PricePurchase: decimal.NewFromInt(3000), PriceSale: decimal.NewFromInt(4500), Stock: 50},
	)
	saleUC := NewSaleUseCase(saleRepo, productRepo, copSettings(), &fakeAuditRepo{}, domain.NoopProductCacheInvalidator{}, quietLogger())
	ctx := context.Background()

	_, err := saleUC.CreateSale(ctx, &domain.SaleInput{
		PaymentMethod: "cash",
		Items:         []domain.SaleItemInput{{ProductID: 1, Quantity: 3}},
	}, 1, false, false)
	require.NoError(t, err)

	uc := NewReportUseCase(productRepo, saleRepo, copSettings(), quietLogger())
	report, err := uc.ProfitReport(ctx)
	require.NoError(t, err)

	// Only the sold product shows up: (15000 − 10000) × 3.
	require.Len(t, report.Products, 1)
	assert.Equal(t, 1, report.Products[0].ProductID)
	assert.Equal(t, 3, report.Products[0].UnitsSold)
	assert.True(t, report.Products[0].Profit.Equal(decimal.NewFromInt(15000)), "profit was %s", report.Products[0].Profit)
	assert.True(t, report.Products[0].MarginPercent.Equal(decimal.NewFromFloat(33.33)), "margin was %s", report.Products[0].MarginPercent)
	assert.True(t, report.TotalProfit.Equal(decimal.NewFromInt(15000)))
}

func TestAlertsUsesConfiguredThreshold(t *testing.T) {
	productRepo := newFakeProductRepo(
		&domain.Product{ID: 1, Name: "Aceite", SKU: "AC-001", PriceSale: decimal.NewFromInt(15000), Stock: 2, MinStock: 1},
		&domain.Product{ID: 2, Name: "Arroz", SKU: "AR-001", PriceSale: decimal.NewFromInt(4500), Stock: 40, MinStock: 1},
	)
	settingsRepo := &fakeSettingsRepo{values: map[string]string{
		domain.SettingLowStockThreshold: "3",
	}}
	settings := NewSettingsUseCase(settingsRepo, quietLogger())
	uc := NewReportUseCase(productRepo, &fakeSaleRepo{}, settings, quietLogger())

	set, err := uc.Alerts(context.Background())
	require.NoError(t, err)
	require.Len(t, set.LowStock, 1)
	assert.Equal(t, 1, set.LowStock[0].ProductID)
	assert.Empty(t, set.ExpiringSoon)
}
