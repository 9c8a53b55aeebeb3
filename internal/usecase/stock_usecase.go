package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"product_tracker/internal/domain"
)

var validMovementTypes = map[string]bool{
	domain.MovementEntry:    true,
	domain.MovementExit:     true,
	domain.MovementTransfer: true,
	domain.MovementReturn:   true,
}

type StockUseCase interface {
	CreateMovement(ctx context.Context, movement *domain.StockMovement) (*domain.StockMovement, error)
	ListMovementsByProduct(ctx context.Context, productID, limit, offset int) ([]domain.StockMovement, error)
}

type stockUseCase struct {
	movementRepo domain.StockMovementRepository
	productRepo  domain.ProductRepository
	cacheInv     domain.ProductCacheInvalidator
	log          *logrus.Logger
}

func NewStockUseCase(mRepo domain.StockMovementRepository, pRepo domain.ProductRepository, cacheInv domain.ProductCacheInvalidator, logger *logrus.Logger) StockUseCase {
	return &stockUseCase{
		movementRepo: mRepo,
		productRepo:  pRepo,
		cacheInv:     cacheInv,
		log:          logger,
	}
}

func (uc *stockUseCase) CreateMovement(ctx context.Context, movement *domain.StockMovement) (*domain.StockMovement, error) {
	if movement.ProductID <= 0 {
		return nil, errors.New("invalid product ID for stock movement")
	}
	if movement.Quantity <= 0 {
		uc.log.Warnf("Use Case: Attempted stock movement with non-positive quantity %d for product %d", movement.Quantity, movement.ProductID)
		return nil, errors.New("movement quantity must be positive")
	}

	movement.Type = strings.ToUpper(strings.TrimSpace(movement.Type))
	if !validMovementTypes[movement.Type] {
		uc.log.Warnf("Use Case: Attempted stock movement with unknown type '%s'", movement.Type)
		return nil, fmt.Errorf("unknown movement type: %s", movement.Type)
	}

	if _, err := uc.productRepo.GetProductByID(ctx, movement.ProductID); err != nil {
		uc.log.Warnf("Use Case: Product %d not found for stock movement: %v", movement.ProductID, err)
		return nil, fmt.Errorf("product %d does not exist", movement.ProductID)
	}

	uc.log.Infof("Use Case: Recording %s movement of %d units for product %d", movement.Type, movement.Quantity, movement.ProductID)
	created, err := uc.movementRepo.CreateMovement(ctx, movement)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to record movement for product %d: %v", movement.ProductID, err)
		return nil, err
	}

	// The movement changed stock behind the product repository's back.
	uc.cacheInv.InvalidateProducts(ctx, created.ProductID)
	return created, nil
}

func (uc *stockUseCase) ListMovementsByProduct(ctx context.Context, productID, limit, offset int) ([]domain.StockMovement, error) {
	if productID <= 0 {
		return nil, errors.New("invalid product ID")
	}
	movements, err := uc.movementRepo.ListMovementsByProduct(ctx, productID, limit, offset)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list movements for product %d: %v", productID, err)
		return nil, fmt.Errorf("could not retrieve movements for product %d: %w", productID, err)
	}
	return movements, nil
}
