package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"product_tracker/internal/domain"
)

type PurchaseOrderUseCase interface {
	CreatePurchaseOrder(ctx context.Context, po *domain.PurchaseOrder) (*domain.PurchaseOrder, error)
	GetPurchaseOrderByID(ctx context.Context, id int) (*domain.PurchaseOrder, error)
	ListPurchaseOrders(ctx context.Context, limit, offset int) ([]domain.PurchaseOrder, error)
	ReceivePurchaseOrder(ctx context.Context, id, userID int) (*domain.PurchaseOrder, error)
	DeletePurchaseOrder(ctx context.Context, id int) error
}

type purchaseOrderUseCase struct {
	poRepo       domain.PurchaseOrderRepository
	supplierRepo domain.SupplierRepository
	productRepo  domain.ProductRepository
	cacheInv     domain.ProductCacheInvalidator
	log          *logrus.Logger
}

func NewPurchaseOrderUseCase(poRepo domain.PurchaseOrderRepository, sRepo domain.SupplierRepository, pRepo domain.ProductRepository, cacheInv domain.ProductCacheInvalidator, logger *logrus.Logger) PurchaseOrderUseCase {
	return &purchaseOrderUseCase{
		poRepo:       poRepo,
		supplierRepo: sRepo,
		productRepo:  pRepo,
		cacheInv:     cacheInv,
		log:          logger,
	}
}

func (uc *purchaseOrderUseCase) CreatePurchaseOrder(ctx context.Context, po *domain.PurchaseOrder) (*domain.PurchaseOrder, error) {
	if po.SupplierID <= 0 {
		return nil, errors.New("purchase order requires a supplier")
	}
	if len(po.Items) == 0 {
		uc.log.Warn("Use Case: Attempted to create purchase order with no items")
		return nil, errors.New("purchase order must contain at least one item")
	}

	if _, err := uc.supplierRepo.GetSupplierByID(ctx, po.SupplierID); err != nil {
		uc.log.Warnf("Use Case: Supplier ID %d not found for purchase order: %v", po.SupplierID, err)
		return nil, fmt.Errorf("supplier with id %d does not exist", po.SupplierID)
	}

	total := decimal.Zero
	for _, item := range po.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("quantity for product %d must be positive", item.ProductID)
		}
		if item.UnitCost.IsNegative() {
			return nil, fmt.Errorf("unit cost for product %d cannot be negative", item.ProductID)
		}
		if _, err := uc.productRepo.GetProductByID(ctx, item.ProductID); err != nil {
			uc.log.Warnf("Use Case: Product %d not found for purchase order: %v", item.ProductID, err)
			return nil, fmt.Errorf("product %d does not exist", item.ProductID)
		}
		total = total.Add(item.UnitCost.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	po.Total = total
	po.Status = domain.PurchaseOrderPending

	uc.log.Infof("Use Case: Attempting to create purchase order for supplier %d with %d items, total %s", po.SupplierID, len(po.Items), total)
	created, err := uc.poRepo.CreatePurchaseOrder(ctx, po)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create purchase order: %v", err)
		return nil, err
	}
	uc.log.Infof("Use Case: Purchase order %d created successfully", created.ID)
	return created, nil
}

func (uc *purchaseOrderUseCase) GetPurchaseOrderByID(ctx context.Context, id int) (*domain.PurchaseOrder, error) {
	if id <= 0 {
		return nil, errors.New("invalid purchase order ID")
	}
	po, err := uc.poRepo.GetPurchaseOrderByID(ctx, id)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to get purchase order ID %d: %v", id, err)
		return nil, err
	}
	return po, nil
}

func (uc *purchaseOrderUseCase) ListPurchaseOrders(ctx context.Context, limit, offset int) ([]domain.PurchaseOrder, error) {
	orders, err := uc.poRepo.ListPurchaseOrders(ctx, limit, offset)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list purchase orders: %v", err)
		return nil, fmt.Errorf("could not retrieve purchase orders: %w", err)
	}
	return orders, nil
}

// ReceivePurchaseOrder flips the order to received and books the stock. The
// repository guards against double receiving, so repeated calls fail instead
// of inflating stock.
func (uc *purchaseOrderUseCase) ReceivePurchaseOrder(ctx context.Context, id, userID int) (*domain.PurchaseOrder, error) {
	if id <= 0 {
		return nil, errors.New("invalid purchase order ID")
	}

	uc.log.Infof("Use Case: Attempting to receive purchase order %d", id)
	po, err := uc.poRepo.ReceivePurchaseOrder(ctx, id, userID)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to receive purchase order %d: %v", id, err)
		return nil, err
	}

	// Receiving increased stock behind the product repository's back.
	productIDs := make([]int, 0, len(po.Items))
	for _, item := range po.Items {
		productIDs = append(productIDs, item.ProductID)
	}
	uc.cacheInv.InvalidateProducts(ctx, productIDs...)

	uc.log.Infof("Use Case: Purchase order %d received, stock updated for %d items", id, len(po.Items))
	return po, nil
}

func (uc *purchaseOrderUseCase) DeletePurchaseOrder(ctx context.Context, id int) error {
	if id <= 0 {
		return errors.New("invalid purchase order ID for delete")
	}

	po, err := uc.poRepo.GetPurchaseOrderByID(ctx, id)
	if err != nil {
		return err
	}
	if po.Status == domain.PurchaseOrderReceived {
		uc.log.Warnf("Use Case: Attempted to delete received purchase order %d", id)
		return errors.New("received purchase orders cannot be deleted")
	}

	uc.log.Infof("Use Case: Deleting purchase order %d", id)
	return uc.poRepo.DeletePurchaseOrder(ctx, id)
}
