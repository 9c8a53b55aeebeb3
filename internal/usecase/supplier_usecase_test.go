package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product_tracker/internal/domain"
)

func TestCreateSupplierRecordsAudit(t *testing.T) {
	auditRepo := &fakeAuditRepo{}
	uc := NewSupplierUseCase(&fakeSupplierRepo{}, auditRepo, quietLogger())

	created, err := uc.CreateSupplier(context.Background(), &domain.Supplier{
		Name:  "Distribuidora Norte",
		Email: "ventas@norte.co",
	}, 4)
	require.NoError(t, err)

	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, "supplier", auditRepo.entries[0].Entity)
	assert.Equal(t, "create", auditRepo.entries[0].Action)
	assert.Equal(t, created.ID, auditRepo.entries[0].EntityID)
	assert.Equal(t, 4, auditRepo.entries[0].UserID)
}

func TestCreateSupplierRejectsInvalidInput(t *testing.T) {
	auditRepo := &fakeAuditRepo{}
	uc := NewSupplierUseCase(&fakeSupplierRepo{}, auditRepo, quietLogger())

	_, err := uc.CreateSupplier(context.Background(), &domain.Supplier{Name: "  "}, 1)
	require.Error(t, err)

	_, err = uc.CreateSupplier(context.Background(), &domain.Supplier{
		Name:  "Distribuidora Norte",
		Email: "sin-arroba",
	}, 1)
	require.Error(t, err)

	assert.Empty(t, auditRepo.entries)
}

func TestUpdateSupplierRecordsAuditedChanges(t *testing.T) {
	auditRepo := &fakeAuditRepo{}
	uc := NewSupplierUseCase(&fakeSupplierRepo{known: map[int]bool{3: true}}, auditRepo, quietLogger())

	_, err := uc.UpdateSupplier(context.Background(), 3, map[string]interface{}{
		"phone": "3001234567",
	}, 9)
	require.NoError(t, err)

	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, "supplier", auditRepo.entries[0].Entity)
	assert.Equal(t, "update", auditRepo.entries[0].Action)
	assert.Equal(t, 3, auditRepo.entries[0].EntityID)
	assert.Contains(t, auditRepo.entries[0].Changes, "3001234567")
}

func TestDeleteSupplierRecordsAudit(t *testing.T) {
	auditRepo := &fakeAuditRepo{}
	uc := NewSupplierUseCase(&fakeSupplierRepo{known: map[int]bool{3: true}}, auditRepo, quietLogger())

	require.NoError(t, uc.DeleteSupplier(context.Background(), 3, 9))

	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, "delete", auditRepo.entries[0].Action)
	assert.Equal(t, 3, auditRepo.entries[0].EntityID)
	assert.Equal(t, 9, auditRepo.entries[0].UserID)
}
