package domain

import "context"

// ProductFilter narrows ListProducts. Zero values mean "no filter".
type ProductFilter struct {
	Search          string
	Category        string
	LowStockOnly    bool
	IncludeArchived bool
}

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *Product) (*Product, error)
	GetProductByID(ctx context.Context, id int) (*Product, error)
	GetProductBySKU(ctx context.Context, sku string) (*Product, error)
	UpdateProduct(ctx context.Context, id int, updates map[string]interface{}) (*Product, error)
	ToggleArchived(ctx context.Context, id int) (*Product, error)
	DeleteProduct(ctx context.Context, id int) error
	ListProducts(ctx context.Context, filter ProductFilter, limit, offset int) ([]Product, error)
}

// ProductCacheInvalidator evicts cached product state after mutations that
// change stock outside the product repository's own write path: sales, stock
// movements and purchase order receives all update products.stock directly.
type ProductCacheInvalidator interface {
	InvalidateProducts(ctx context.Context, productIDs ...int)
}

// NoopProductCacheInvalidator stands in when no cache is installed.
type NoopProductCacheInvalidator struct{}

func (NoopProductCacheInvalidator) InvalidateProducts(context.Context, ...int) {}
