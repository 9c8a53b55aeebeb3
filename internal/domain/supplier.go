package domain

import "context"

type SupplierRepository interface {
	CreateSupplier(ctx context.Context, supplier *Supplier) (*Supplier, error)
	GetSupplierByID(ctx context.Context, id int) (*Supplier, error)
	UpdateSupplier(ctx context.Context, id int, updates map[string]interface{}) (*Supplier, error)
	DeleteSupplier(ctx context.Context, id int) error
	ListSuppliers(ctx context.Context, limit, offset int) ([]Supplier, error)
}
