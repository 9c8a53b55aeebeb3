package domain

import "context"

// SaleRepository persists a finalized sale. CreateSale must apply the sale
// items, the stock reductions and the EXIT movements in a single transaction:
// either the whole sale lands or nothing does.
type SaleRepository interface {
	CreateSale(ctx context.Context, sale *Sale) (*Sale, error)
	GetSaleByID(ctx context.Context, id int) (*Sale, error)
	ListSales(ctx context.Context, limit, offset int) ([]Sale, error)
	ListSaleItemsByProduct(ctx context.Context, productID int) ([]SaleItem, error)
}
