package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"product_tracker/internal/domain"
	"product_tracker/internal/pos"
)

var (
	ErrSaleHasNoItems       = errors.New("sale must contain at least one item")
	ErrDiscountOutOfRange   = errors.New("discount percent must be between 0 and 100")
	ErrDiscountNeedsAdmin   = errors.New("elevated discount requires admin authorization")
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
)

var validPaymentMethods = map[string]bool{
	"cash":     true,
	"card":     true,
	"transfer": true,
	"other":    true,
}

type SaleUseCase interface {
	// CreateSale validates the input against live stock, recomputes the
	// totals server-side and persists the sale atomically. Discounts above
	// the elevated threshold are rejected unless the acting user is an
	// admin or the request was pre-authorized.
	CreateSale(ctx context.Context, input *domain.SaleInput, userID int, isAdmin, elevatedAuthorized bool) (*domain.Sale, error)
	GetSaleByID(ctx context.Context, id int) (*domain.Sale, error)
	ListSales(ctx context.Context, limit, offset int) ([]domain.Sale, error)
}

type saleUseCase struct {
	saleRepo    domain.SaleRepository
	productRepo domain.ProductRepository
	settings    SettingsUseCase
	auditRepo   domain.AuditRepository
	cacheInv    domain.ProductCacheInvalidator
	log         *logrus.Logger
}

func NewSaleUseCase(saleRepo domain.SaleRepository, productRepo domain.ProductRepository, settings SettingsUseCase, auditRepo domain.AuditRepository, cacheInv domain.ProductCacheInvalidator, logger *logrus.Logger) SaleUseCase {
	return &saleUseCase{
		saleRepo:    saleRepo,
		productRepo: productRepo,
		settings:    settings,
		auditRepo:   auditRepo,
		cacheInv:    cacheInv,
		log:         logger,
	}
}

func (uc *saleUseCase) CreateSale(ctx context.Context, input *domain.SaleInput, userID int, isAdmin, elevatedAuthorized bool) (*domain.Sale, error) {
	if len(input.Items) == 0 {
		uc.log.Warn("Use Case: Attempted to create sale with no items")
		return nil, ErrSaleHasNoItems
	}
	if input.DiscountPercent.IsNegative() || input.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
		uc.log.Warnf("Use Case: Attempted to create sale with out-of-range discount: %s", input.DiscountPercent)
		return nil, ErrDiscountOutOfRange
	}
	if input.DiscountPercent.GreaterThan(decimal.NewFromInt(pos.ElevatedDiscountThreshold)) && !isAdmin && !elevatedAuthorized {
		uc.log.Warnf("Use Case: Discount %s%% exceeds the elevated threshold and user %d is not authorized", input.DiscountPercent, userID)
		return nil, ErrDiscountNeedsAdmin
	}
	if input.PaymentMethod == "" {
		input.PaymentMethod = "cash"
	}
	if !validPaymentMethods[input.PaymentMethod] {
		uc.log.Warnf("Use Case: Attempted to create sale with unknown payment method: %s", input.PaymentMethod)
		return nil, fmt.Errorf("%w: %s", ErrUnknownPaymentMethod, input.PaymentMethod)
	}

	cfg, err := uc.settings.TaxConfig(ctx)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to load tax configuration: %v", err)
		return nil, fmt.Errorf("could not load pricing configuration: %w", err)
	}

	lines := make([]pos.CartLine, 0, len(input.Items))
	saleItems := make([]domain.SaleItem, 0, len(input.Items))
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("quantity for product %d must be positive", item.ProductID)
		}

		product, err := uc.productRepo.GetProductByID(ctx, item.ProductID)
		if err != nil {
			uc.log.Warnf("Use Case: Product %d not found for sale: %v", item.ProductID, err)
			return nil, fmt.Errorf("product %d does not exist", item.ProductID)
		}
		if product.Archived {
			return nil, fmt.Errorf("product %d is archived and cannot be sold", item.ProductID)
		}
		if product.Stock < item.Quantity {
			uc.log.Warnf("Use Case: Insufficient stock for product %d: have %d, want %d", item.ProductID, product.Stock, item.Quantity)
			return nil, fmt.Errorf("insufficient stock for product %d", item.ProductID)
		}

		// Honor the price the register captured when the line was added;
		// fall back to the current sale price when none was sent.
		unitPrice := item.UnitPrice
		if unitPrice.IsZero() {
			unitPrice = product.PriceSale
		}
		if unitPrice.IsNegative() {
			return nil, fmt.Errorf("unit price for product %d cannot be negative", item.ProductID)
		}

		lines = append(lines, pos.CartLine{
			Product:   *product,
			Quantity:  item.Quantity,
			UnitPrice: unitPrice,
		})
		saleItems = append(saleItems, domain.SaleItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: unitPrice,
			Subtotal:  unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}

	totals := pos.ComputeTotals(lines, cfg, input.DiscountPercent)

	sale := &domain.Sale{
		Total:           totals.Total,
		DiscountPercent: input.DiscountPercent,
		TaxAmount:       totals.TaxAmount,
		PaymentMethod:   input.PaymentMethod,
		UserID:          userID,
		Items:           saleItems,
	}

	uc.log.Infof("Use Case: Attempting to create sale with %d items, total %s %s", len(saleItems), totals.Total, cfg.CurrencyCode)
	created, err := uc.saleRepo.CreateSale(ctx, sale)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create sale: %v", err)
		return nil, err
	}

	// The sale reduced stock behind the product repository's back.
	productIDs := make([]int, 0, len(created.Items))
	for _, item := range created.Items {
		productIDs = append(productIDs, item.ProductID)
	}
	uc.cacheInv.InvalidateProducts(ctx, productIDs...)
	recordAudit(ctx, uc.auditRepo, uc.log, userID, "sale", created.ID, "create", created)

	uc.log.Infof("Use Case: Sale %d created successfully, total %s", created.ID, created.Total)
	return created, nil
}

func (uc *saleUseCase) GetSaleByID(ctx context.Context, id int) (*domain.Sale, error) {
	if id <= 0 {
		return nil, errors.New("invalid sale ID")
	}
	sale, err := uc.saleRepo.GetSaleByID(ctx, id)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to get sale ID %d: %v", id, err)
		return nil, err
	}
	return sale, nil
}

func (uc *saleUseCase) ListSales(ctx context.Context, limit, offset int) ([]domain.Sale, error) {
	sales, err := uc.saleRepo.ListSales(ctx, limit, offset)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list sales: %v", err)
		return nil, fmt.Errorf("could not retrieve sales: %w", err)
	}
	return sales, nil
}
