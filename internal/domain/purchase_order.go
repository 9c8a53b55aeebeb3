package domain

import "context"

type PurchaseOrderRepository interface {
	CreatePurchaseOrder(ctx context.Context, po *PurchaseOrder) (*PurchaseOrder, error)
	GetPurchaseOrderByID(ctx context.Context, id int) (*PurchaseOrder, error)
	ListPurchaseOrders(ctx context.Context, limit, offset int) ([]PurchaseOrder, error)
	// ReceivePurchaseOrder marks the order received and applies the stock
	// increases plus ENTRY movements transactionally. Receiving an already
	// received order is an error.
	ReceivePurchaseOrder(ctx context.Context, id, userID int) (*PurchaseOrder, error)
	DeletePurchaseOrder(ctx context.Context, id int) error
}
