package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"product_tracker/internal/domain"
)

type ProductUseCase interface {
	CreateProduct(ctx context.Context, product *domain.Product, actorID int) (*domain.Product, error)
	GetProductByID(ctx context.Context, id int) (*domain.Product, error)
	GetProductBySKU(ctx context.Context, sku string) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int, updates map[string]interface{}, actorID int) (*domain.Product, error)
	ToggleArchived(ctx context.Context, id, actorID int) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id, actorID int) error
	ListProducts(ctx context.Context, filter domain.ProductFilter, limit, offset int) ([]domain.Product, error)
}

type productUseCase struct {
	productRepo  domain.ProductRepository
	supplierRepo domain.SupplierRepository
	auditRepo    domain.AuditRepository
	log          *logrus.Logger
}

func NewProductUseCase(pRepo domain.ProductRepository, sRepo domain.SupplierRepository, aRepo domain.AuditRepository, logger *logrus.Logger) ProductUseCase {
	return &productUseCase{
		productRepo:  pRepo,
		supplierRepo: sRepo,
		auditRepo:    aRepo,
		log:          logger,
	}
}

// recordAudit writes an audit entry and only warns on failure: the mutation
// it describes already committed.
func recordAudit(ctx context.Context, auditRepo domain.AuditRepository, log *logrus.Logger, actorID int, entity string, entityID int, action string, changes interface{}) {
	entry := &domain.AuditEntry{
		UserID:   actorID,
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
	}
	if changes != nil {
		if data, err := json.Marshal(changes); err == nil {
			entry.Changes = string(data)
		}
	}
	if err := auditRepo.RecordAudit(ctx, entry); err != nil {
		log.Warnf("Use Case: Failed to record audit for %s %d action %s: %v", entity, entityID, action, err)
	}
}

func (uc *productUseCase) recordAudit(ctx context.Context, actorID int, entityID int, action string, changes interface{}) {
	recordAudit(ctx, uc.auditRepo, uc.log, actorID, "product", entityID, action, changes)
}

func (uc *productUseCase) validateProduct(product *domain.Product) error {
	if product.Name == "" {
		uc.log.Warn("Use Case: Attempted to create product with empty name")
		return errors.New("product name cannot be empty")
	}
	if product.SKU == "" {
		uc.log.Warnf("Use Case: Attempted to create product '%s' without SKU", product.Name)
		return errors.New("product sku cannot be empty")
	}
	if !product.PriceSale.IsPositive() {
		uc.log.Warnf("Use Case: Attempted to create product '%s' with invalid sale price: %s", product.Name, product.PriceSale)
		return errors.New("product sale price must be positive")
	}
	if product.PricePurchase.IsNegative() {
		uc.log.Warnf("Use Case: Attempted to create product '%s' with negative purchase price: %s", product.Name, product.PricePurchase)
		return errors.New("product purchase price cannot be negative")
	}
	if product.Stock < 0 {
		uc.log.Warnf("Use Case: Attempted to create product '%s' with negative stock: %d", product.Name, product.Stock)
		return errors.New("product stock cannot be negative")
	}
	if product.MinStock < 0 {
		uc.log.Warnf("Use Case: Attempted to create product '%s' with negative min stock: %d", product.Name, product.MinStock)
		return errors.New("product minimum stock cannot be negative")
	}
	return nil
}

func (uc *productUseCase) CreateProduct(ctx context.Context, product *domain.Product, actorID int) (*domain.Product, error) {
	if err := uc.validateProduct(product); err != nil {
		return nil, err
	}

	if existing, err := uc.productRepo.GetProductBySKU(ctx, product.SKU); err == nil && existing != nil {
		uc.log.Warnf("Use Case: SKU '%s' already in use by product ID %d", product.SKU, existing.ID)
		return nil, fmt.Errorf("a product with sku %s already exists", product.SKU)
	}

	if product.SupplierID != 0 {
		if _, err := uc.supplierRepo.GetSupplierByID(ctx, product.SupplierID); err != nil {
			uc.log.Warnf("Use Case: Supplier ID %d not found during product creation: %v", product.SupplierID, err)
			return nil, fmt.Errorf("supplier with id %d does not exist", product.SupplierID)
		}
	}

	uc.log.Infof("Use Case: Attempting to create product '%s' (SKU %s)", product.Name, product.SKU)
	created, err := uc.productRepo.CreateProduct(ctx, product)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create product '%s': %v", product.Name, err)
		return nil, err
	}

	uc.recordAudit(ctx, actorID, created.ID, "create", created)
	uc.log.Infof("Use Case: Product '%s' created successfully with ID %d", created.Name, created.ID)
	return created, nil
}

func (uc *productUseCase) GetProductByID(ctx context.Context, id int) (*domain.Product, error) {
	if id <= 0 {
		uc.log.Warnf("Use Case: Attempted to get product with invalid ID: %d", id)
		return nil, errors.New("invalid product ID")
	}
	product, err := uc.productRepo.GetProductByID(ctx, id)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to get product ID %d: %v", id, err)
		return nil, err
	}
	return product, nil
}

func (uc *productUseCase) GetProductBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	if sku == "" {
		return nil, errors.New("sku cannot be empty")
	}
	product, err := uc.productRepo.GetProductBySKU(ctx, sku)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to get product by SKU %s: %v", sku, err)
		return nil, err
	}
	return product, nil
}

// decimalFromValue accepts the JSON number and string forms that reach the
// use case through a map[string]interface{} body.
func decimalFromValue(value interface{}) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case float64:
		return decimal.NewFromFloat(v), true
	case string:
		d, err := decimal.NewFromString(v)
		return d, err == nil
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		return d, err == nil
	}
	return decimal.Decimal{}, false
}

func intFromValue(value interface{}) (int, bool) {
	switch v := value.(type) {
	case float64:
		n := int(v)
		if float64(n) != v {
			return 0, false
		}
		return n, true
	case int:
		return v, true
	}
	return 0, false
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, id int, updates map[string]interface{}, actorID int) (*domain.Product, error) {
	if id <= 0 {
		uc.log.Warnf("Use Case: Attempted update with invalid product ID: %d", id)
		return nil, errors.New("invalid product ID for update")
	}
	if len(updates) == 0 {
		return uc.productRepo.GetProductByID(ctx, id)
	}

	if _, err := uc.productRepo.GetProductByID(ctx, id); err != nil {
		uc.log.Warnf("Use Case: Product ID %d not found for update: %v", id, err)
		return nil, err
	}

	validUpdates := make(map[string]interface{})
	for key, value := range updates {
		switch key {
		case "name":
			name, ok := value.(string)
			if !ok || name == "" {
				return nil, errors.New("product name cannot be empty if provided for update")
			}
			validUpdates[key] = name
		case "sku":
			sku, ok := value.(string)
			if !ok || sku == "" {
				return nil, errors.New("product sku cannot be empty if provided for update")
			}
			validUpdates[key] = sku
		case "category", "unit", "location":
			text, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("invalid type for %s", key)
			}
			validUpdates[key] = text
		case "price_sale":
			price, ok := decimalFromValue(value)
			if !ok || !price.IsPositive() {
				return nil, errors.New("product sale price must be positive if provided for update")
			}
			validUpdates[key] = price.String()
		case "price_purchase":
			price, ok := decimalFromValue(value)
			if !ok || price.IsNegative() {
				return nil, errors.New("product purchase price cannot be negative if provided for update")
			}
			validUpdates[key] = price.String()
		case "stock":
			stock, ok := intFromValue(value)
			if !ok || stock < 0 {
				return nil, errors.New("product stock cannot be negative if provided for update")
			}
			validUpdates[key] = stock
		case "min_stock":
			minStock, ok := intFromValue(value)
			if !ok || minStock < 0 {
				return nil, errors.New("product minimum stock cannot be negative if provided for update")
			}
			validUpdates[key] = minStock
		case "supplier_id":
			if value == nil {
				validUpdates[key] = 0
				continue
			}
			supplierID, ok := intFromValue(value)
			if !ok || supplierID < 0 {
				return nil, errors.New("supplier_id must be positive or null")
			}
			if supplierID > 0 {
				if _, err := uc.supplierRepo.GetSupplierByID(ctx, supplierID); err != nil {
					uc.log.Warnf("Use Case: Supplier ID %d not found during product update for ID %d: %v", supplierID, id, err)
					return nil, fmt.Errorf("supplier with id %d does not exist", supplierID)
				}
			}
			validUpdates[key] = supplierID
		case "expiration_date":
			if value == nil {
				validUpdates[key] = nil
				continue
			}
			text, ok := value.(string)
			if !ok {
				return nil, errors.New("expiration_date must be a date string or null")
			}
			validUpdates[key] = text
		default:
			uc.log.Warnf("Use Case: Attempted to update unknown or unsupported field '%s' for product ID %d", key, id)
		}
	}

	if len(validUpdates) == 0 {
		return uc.productRepo.GetProductByID(ctx, id)
	}

	uc.log.Infof("Use Case: Attempting partial update for product ID %d with fields: %v", id, updateKeys(validUpdates))
	updated, err := uc.productRepo.UpdateProduct(ctx, id, validUpdates)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed partial update for product ID %d: %v", id, err)
		return nil, err
	}

	uc.recordAudit(ctx, actorID, id, "update", validUpdates)
	return updated, nil
}

func updateKeys(updates map[string]interface{}) []string {
	keys := make([]string, 0, len(updates))
	for key := range updates {
		keys = append(keys, key)
	}
	return keys
}

func (uc *productUseCase) ToggleArchived(ctx context.Context, id, actorID int) (*domain.Product, error) {
	if id <= 0 {
		return nil, errors.New("invalid product ID")
	}
	product, err := uc.productRepo.ToggleArchived(ctx, id)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to toggle archived flag for product ID %d: %v", id, err)
		return nil, err
	}
	action := "unarchive"
	if product.Archived {
		action = "archive"
	}
	uc.recordAudit(ctx, actorID, id, action, nil)
	uc.log.Infof("Use Case: Product ID %d is now archived=%t", id, product.Archived)
	return product, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id, actorID int) error {
	if id <= 0 {
		uc.log.Warnf("Use Case: Attempted delete with invalid product ID: %d", id)
		return errors.New("invalid product ID for delete")
	}
	uc.log.Infof("Use Case: Attempting to delete product ID %d", id)
	if err := uc.productRepo.DeleteProduct(ctx, id); err != nil {
		uc.log.Warnf("Use Case: Repository failed to delete product ID %d: %v", id, err)
		return err
	}
	uc.recordAudit(ctx, actorID, id, "delete", nil)
	return nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, filter domain.ProductFilter, limit, offset int) ([]domain.Product, error) {
	products, err := uc.productRepo.ListProducts(ctx, filter, limit, offset)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list products: %v", err)
		return nil, fmt.Errorf("could not retrieve products: %w", err)
	}
	return products, nil
}
