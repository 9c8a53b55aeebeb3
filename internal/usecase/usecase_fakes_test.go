package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"product_tracker/internal/domain"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// fakeProductRepo serves products from an in-memory map.
type fakeProductRepo struct {
	products map[int]*domain.Product
	nextID   int
}

func newFakeProductRepo(products ...*domain.Product) *fakeProductRepo {
	repo := &fakeProductRepo{products: map[int]*domain.Product{}, nextID: 1}
	for _, p := range products {
		if p.ID == 0 {
			p.ID = repo.nextID
		}
		repo.products[p.ID] = p
		if p.ID >= repo.nextID {
			repo.nextID = p.ID + 1
		}
	}
	return repo
}

func (r *fakeProductRepo) CreateProduct(_ context.Context, product *domain.Product) (*domain.Product, error) {
	product.ID = r.nextID
	product.CreatedAt = time.Now()
	r.nextID++
	copied := *product
	r.products[copied.ID] = &copied
	return &copied, nil
}

func (r *fakeProductRepo) GetProductByID(_ context.Context, id int) (*domain.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with id %d not found", id)
	}
	copied := *product
	return &copied, nil
}

func (r *fakeProductRepo) GetProductBySKU(_ context.Context, sku string) (*domain.Product, error) {
	for _, product := range r.products {
		if product.SKU == sku {
			copied := *product
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("product with sku %s not found", sku)
}

func (r *fakeProductRepo) UpdateProduct(_ context.Context, id int, updates map[string]interface{}) (*domain.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with id %d not found", id)
	}
	if name, ok := updates["name"].(string); ok {
		product.Name = name
	}
	if stock, ok := updates["stock"].(int); ok {
		product.Stock = stock
	}
	copied := *product
	return &copied, nil
}

func (r *fakeProductRepo) ToggleArchived(_ context.Context, id int) (*domain.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with id %d not found", id)
	}
	product.Archived = !product.Archived
	copied := *product
	return &copied, nil
}

func (r *fakeProductRepo) DeleteProduct(_ context.Context, id int) error {
	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("product with id %d not found", id)
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) ListProducts(_ context.Context, filter domain.ProductFilter, _, _ int) ([]domain.Product, error) {
	out := []domain.Product{}
	for _, product := range r.products {
		if product.Archived && !filter.IncludeArchived {
			continue
		}
		out = append(out, *product)
	}
	return out, nil
}

// fakeInvalidator records which product IDs were evicted.
type fakeInvalidator struct {
	calls [][]int
}

func (f *fakeInvalidator) InvalidateProducts(_ context.Context, productIDs ...int) {
	f.calls = append(f.calls, productIDs)
}

// fakeMovementRepo records movements without touching stock.
type fakeMovementRepo struct {
	movements []*domain.StockMovement
}

func (r *fakeMovementRepo) CreateMovement(_ context.Context, movement *domain.StockMovement) (*domain.StockMovement, error) {
	movement.ID = len(r.movements) + 1
	movement.CreatedAt = time.Now()
	r.movements = append(r.movements, movement)
	return movement, nil
}

func (r *fakeMovementRepo) ListMovementsByProduct(_ context.Context, productID, _, _ int) ([]domain.StockMovement, error) {
	out := []domain.StockMovement{}
	for _, m := range r.movements {
		if m.ProductID == productID {
			out = append(out, *m)
		}
	}
	return out, nil
}

// fakePurchaseOrderRepo holds orders in a map.
type fakePurchaseOrderRepo struct {
	orders map[int]*domain.PurchaseOrder
	nextID int
}

func (r *fakePurchaseOrderRepo) CreatePurchaseOrder(_ context.Context, po *domain.PurchaseOrder) (*domain.PurchaseOrder, error) {
	if r.orders == nil {
		r.orders = map[int]*domain.PurchaseOrder{}
	}
	r.nextID++
	po.ID = r.nextID
	po.CreatedAt = time.Now()
	r.orders[po.ID] = po
	return po, nil
}

func (r *fakePurchaseOrderRepo) GetPurchaseOrderByID(_ context.Context, id int) (*domain.PurchaseOrder, error) {
	po, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("purchase order with id %d not found", id)
	}
	return po, nil
}

func (r *fakePurchaseOrderRepo) ListPurchaseOrders(_ context.Context, _, _ int) ([]domain.PurchaseOrder, error) {
	out := []domain.PurchaseOrder{}
	for _, po := range r.orders {
		out = append(out, *po)
	}
	return out, nil
}

func (r *fakePurchaseOrderRepo) ReceivePurchaseOrder(_ context.Context, id, _ int) (*domain.PurchaseOrder, error) {
	po, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("purchase order with id %d not found", id)
	}
	if po.Status == domain.PurchaseOrderReceived {
		return nil, fmt.Errorf("purchase order with id %d not found or already received", id)
	}
	po.Status = domain.PurchaseOrderReceived
	now := time.Now()
	po.ReceivedAt = &now
	return po, nil
}

func (r *fakePurchaseOrderRepo) DeletePurchaseOrder(_ context.Context, id int) error {
	if _, ok := r.orders[id]; !ok {
		return fmt.Errorf("purchase order with id %d not found", id)
	}
	delete(r.orders, id)
	return nil
}

// fakeSupplierRepo knows a fixed set of supplier IDs.
type fakeSupplierRepo struct {
	known map[int]bool
}

func (r *fakeSupplierRepo) CreateSupplier(_ context.Context, supplier *domain.Supplier) (*domain.Supplier, error) {
	supplier.ID = 1
	return supplier, nil
}

func (r *fakeSupplierRepo) GetSupplierByID(_ context.Context, id int) (*domain.Supplier, error) {
	if !r.known[id] {
		return nil, fmt.Errorf("supplier with id %d not found", id)
	}
	return &domain.Supplier{ID: id, Name: "Proveedor"}, nil
}

func (r *fakeSupplierRepo) UpdateSupplier(_ context.Context, id int, _ map[string]interface{}) (*domain.Supplier, error) {
	return r.GetSupplierByID(context.Background(), id)
}

func (r *fakeSupplierRepo) DeleteSupplier(_ context.Context, id int) error {
	if !r.known[id] {
		return fmt.Errorf("supplier with id %d not found", id)
	}
	return nil
}

func (r *fakeSupplierRepo) ListSuppliers(_ context.Context, _, _ int) ([]domain.Supplier, error) {
	return []domain.Supplier{}, nil
}

// fakeSaleRepo records created sales and can be told to fail.
type fakeSaleRepo struct {
	sales   []*domain.Sale
	failErr error
}

func (r *fakeSaleRepo) CreateSale(_ context.Context, sale *domain.Sale) (*domain.Sale, error) {
	if r.failErr != nil {
		return nil, r.failErr
	}
	sale.ID = len(r.sales) + 1
	sale.CreatedAt = time.Now()
	r.sales = append(r.sales, sale)
	return sale, nil
}

func (r *fakeSaleRepo) GetSaleByID(_ context.Context, id int) (*domain.Sale, error) {
	for _, sale := range r.sales {
		if sale.ID == id {
			return sale, nil
		}
	}
	return nil, fmt.Errorf("sale with id %d not found", id)
}

func (r *fakeSaleRepo) ListSales(_ context.Context, _, _ int) ([]domain.Sale, error) {
	out := make([]domain.Sale, 0, len(r.sales))
	for _, sale := range r.sales {
		out = append(out, *sale)
	}
	return out, nil
}

func (r *fakeSaleRepo) ListSaleItemsByProduct(_ context.Context, productID int) ([]domain.SaleItem, error) {
	items := []domain.SaleItem{}
	for _, sale := range r.sales {
		for _, item := range sale.Items {
			if item.ProductID == productID {
				items = append(items, item)
			}
		}
	}
	return items, nil
}

// fakeSettingsRepo is a plain map store.
type fakeSettingsRepo struct {
	values map[string]string
}

func (r *fakeSettingsRepo) GetSetting(_ context.Context, key string) (string, error) {
	value, ok := r.values[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrSettingNotFound, key)
	}
	return value, nil
}

func (r *fakeSettingsRepo) SetSetting(_ context.Context, key, value string) error {
	if r.values == nil {
		r.values = map[string]string{}
	}
	r.values[key] = value
	return nil
}

func (r *fakeSettingsRepo) ListSettings(_ context.Context) (map[string]string, error) {
	out := map[string]string{}
	for key, value := range r.values {
		out[key] = value
	}
	return out, nil
}

// fakeUserRepo holds users keyed by username.
type fakeUserRepo struct {
	users map[string]*domain.User
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.users[user.Username]; ok {
		return nil, errors.New("user with this username or email already exists")
	}
	if r.users == nil {
		r.users = map[string]*domain.User{}
	}
	user.ID = len(r.users) + 1
	user.CreatedAt = time.Now()
	r.users[user.Username] = user
	return user, nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id int) (*domain.User, error) {
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, fmt.Errorf("user with id %d not found", id)
}

func (r *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	user, ok := r.users[username]
	if !ok {
		return nil, fmt.Errorf("user %s not found", username)
	}
	return user, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, fmt.Errorf("user with email %s not found", email)
}

// fakeAuditRepo just counts entries.
type fakeAuditRepo struct {
	entries []*domain.AuditEntry
}

func (r *fakeAuditRepo) RecordAudit(_ context.Context, entry *domain.AuditEntry) error {
	entry.ID = len(r.entries) + 1
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeAuditRepo) ListAuditEntries(_ context.Context, _, _ int) ([]domain.AuditEntry, error) {
	out := make([]domain.AuditEntry, 0, len(r.entries))
	for _, entry := range r.entries {
		out = append(out, *entry)
	}
	return out, nil
}
