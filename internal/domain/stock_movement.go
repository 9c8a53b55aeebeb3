package domain

import "context"

// StockMovementRepository records movements and adjusts product stock in the
// same transaction. Exits that would drive stock negative are rejected.
type StockMovementRepository interface {
	CreateMovement(ctx context.Context, movement *StockMovement) (*StockMovement, error)
	ListMovementsByProduct(ctx context.Context, productID, limit, offset int) ([]StockMovement, error)
}
