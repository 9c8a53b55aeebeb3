package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"product_tracker/internal/domain"
)

type SupplierUseCase interface {
	CreateSupplier(ctx context.Context, supplier *domain.Supplier, actorID int) (*domain.Supplier, error)
	GetSupplierByID(ctx context.Context, id int) (*domain.Supplier, error)
	UpdateSupplier(ctx context.Context, id int, updates map[string]interface{}, actorID int) (*domain.Supplier, error)
	DeleteSupplier(ctx context.Context, id, actorID int) error
	ListSuppliers(ctx context.Context, limit, offset int) ([]domain.Supplier, error)
}

type supplierUseCase struct {
	supplierRepo domain.SupplierRepository
	auditRepo    domain.AuditRepository
	log          *logrus.Logger
}

func NewSupplierUseCase(sRepo domain.SupplierRepository, aRepo domain.AuditRepository, logger *logrus.Logger) SupplierUseCase {
	return &supplierUseCase{
		supplierRepo: sRepo,
		auditRepo:    aRepo,
		log:          logger,
	}
}

func (uc *supplierUseCase) CreateSupplier(ctx context.Context, supplier *domain.Supplier, actorID int) (*domain.Supplier, error) {
	if strings.TrimSpace(supplier.Name) == "" {
		uc.log.Warn("Use Case: Attempted to create supplier with empty name")
		return nil, errors.New("supplier name cannot be empty")
	}
	if supplier.Email != "" && !strings.Contains(supplier.Email, "@") {
		uc.log.Warnf("Use Case: Attempted to create supplier '%s' with invalid email: %s", supplier.Name, supplier.Email)
		return nil, errors.New("supplier email is invalid")
	}

	uc.log.Infof("Use Case: Attempting to create supplier '%s'", supplier.Name)
	created, err := uc.supplierRepo.CreateSupplier(ctx, supplier)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create supplier '%s': %v", supplier.Name, err)
		return nil, err
	}
	recordAudit(ctx, uc.auditRepo, uc.log, actorID, "supplier", created.ID, "create", created)
	uc.log.Infof("Use Case: Supplier '%s' created successfully with ID %d", created.Name, created.ID)
	return created, nil
}

func (uc *supplierUseCase) GetSupplierByID(ctx context.Context, id int) (*domain.Supplier, error) {
	if id <= 0 {
		return nil, errors.New("invalid supplier ID")
	}
	supplier, err := uc.supplierRepo.GetSupplierByID(ctx, id)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to get supplier ID %d: %v", id, err)
		return nil, err
	}
	return supplier, nil
}

func (uc *supplierUseCase) UpdateSupplier(ctx context.Context, id int, updates map[string]interface{}, actorID int) (*domain.Supplier, error) {
	if id <= 0 {
		return nil, errors.New("invalid supplier ID for update")
	}
	if len(updates) == 0 {
		return uc.supplierRepo.GetSupplierByID(ctx, id)
	}

	validUpdates := make(map[string]interface{})
	for key, value := range updates {
		switch key {
		case "name":
			name, ok := value.(string)
			if !ok || strings.TrimSpace(name) == "" {
				return nil, errors.New("supplier name cannot be empty if provided for update")
			}
			validUpdates[key] = name
		case "contact_name", "phone", "payment_terms", "address":
			text, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("invalid type for %s", key)
			}
			validUpdates[key] = text
		case "email":
			email, ok := value.(string)
			if !ok || (email != "" && !strings.Contains(email, "@")) {
				return nil, errors.New("supplier email is invalid")
			}
			validUpdates[key] = email
		default:
			uc.log.Warnf("Use Case: Attempted to update unknown field '%s' for supplier ID %d", key, id)
		}
	}

	if len(validUpdates) == 0 {
		return uc.supplierRepo.GetSupplierByID(ctx, id)
	}

	updated, err := uc.supplierRepo.UpdateSupplier(ctx, id, validUpdates)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to update supplier ID %d: %v", id, err)
		return nil, err
	}
	recordAudit(ctx, uc.auditRepo, uc.log, actorID, "supplier", updated.ID, "update", validUpdates)
	uc.log.Infof("Use Case: Supplier updated successfully for ID %d", updated.ID)
	return updated, nil
}

func (uc *supplierUseCase) DeleteSupplier(ctx context.Context, id, actorID int) error {
	if id <= 0 {
		return errors.New("invalid supplier ID for delete")
	}
	uc.log.Infof("Use Case: Attempting to delete supplier ID %d", id)
	if err := uc.supplierRepo.DeleteSupplier(ctx, id); err != nil {
		uc.log.Warnf("Use Case: Repository failed to delete supplier ID %d: %v", id, err)
		return err
	}
	recordAudit(ctx, uc.auditRepo, uc.log, actorID, "supplier", id, "delete", nil)
	return nil
}

func (uc *supplierUseCase) ListSuppliers(ctx context.Context, limit, offset int) ([]domain.Supplier, error) {
	suppliers, err := uc.supplierRepo.ListSuppliers(ctx, limit, offset)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list suppliers: %v", err)
		return nil, fmt.Errorf("could not retrieve suppliers: %w", err)
	}
	return suppliers, nil
}
