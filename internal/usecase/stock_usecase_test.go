package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product_tracker/internal/domain"
)

func TestCreateMovementNormalizesTypeAndEvictsProduct(t *testing.T) {
	productRepo := newFakeProductRepo(
		&domain.Product{ID: 1, Name: "Aceite", SKU: "AC-001", PriceSale: decimal.NewFromInt(15000), Stock: 10},
	)
	invalidator := &fakeInvalidator{}
	uc := NewStockUseCase(&fakeMovementRepo{}, productRepo, invalidator, quietLogger())

	created, err := uc.CreateMovement(context.Background(), &domain.StockMovement{
		ProductID: 1,
		Type:      " entry ",
		Quantity:  5,
		Reason:    "Reposición",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.MovementEntry, created.Type)

	// The movement changed stock outside the product repository.
	require.Len(t, invalidator.calls, 1)
	assert.Equal(t, []int{1}, invalidator.calls[0])
}

func TestCreateMovementRejectsInvalidInput(t *testing.T) {
	productRepo := newFakeProductRepo(
		&domain.Product{ID: 1, Name: "Aceite", SKU: "AC-001", PriceSale: decimal.NewFromInt(15000), Stock: 10},
	)
	invalidator := &fakeInvalidator{}
	uc := NewStockUseCase(&fakeMovementRepo{}, productRepo, invalidator, quietLogger())
	ctx := context.Background()

	_, err := uc.CreateMovement(ctx, &domain.StockMovement{ProductID: 1, Type: "ENTRY", Quantity: 0})
	require.Error(t, err)

	_, err = uc.CreateMovement(ctx, &domain.StockMovement{ProductID: 1, Type: "SHRINKAGE", Quantity: 1})
	require.Error(t, err)

	_, err = uc.CreateMovement(ctx, &domain.StockMovement{ProductID: 99, Type: "ENTRY", Quantity: 1})
	require.Error(t, err)

	assert.Empty(t, invalidator.calls)
}
