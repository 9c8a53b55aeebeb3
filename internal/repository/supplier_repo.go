package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"product_tracker/internal/domain"
)

const supplierColumns = `id, name, COALESCE(contact_name, ''), COALESCE(email, ''),
       COALESCE(phone, ''), COALESCE(payment_terms, ''), COALESCE(address, ''),
       created_at, updated_at`

type postgresSupplierRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresSupplierRepository(db *sql.DB, logger *logrus.Logger) domain.SupplierRepository {
	return &postgresSupplierRepository{
		db:  db,
		log: logger,
	}
}

func scanSupplier(row interface{ Scan(...interface{}) error }) (*domain.Supplier, error) {
	supplier := &domain.Supplier{}
	var updatedAt sql.NullTime
	err := row.Scan(
		&supplier.ID,
		&supplier.Name,
		&supplier.ContactName,
		&supplier.Email,
		&supplier.Phone,
		&supplier.PaymentTerms,
		&supplier.Address,
		&supplier.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if updatedAt.Valid {
		supplier.UpdatedAt = &updatedAt.Time
	}
	return supplier, nil
}

func (r *postgresSupplierRepository) CreateSupplier(ctx context.Context, supplier *domain.Supplier) (*domain.Supplier, error) {
	query := `
        INSERT INTO suppliers (name, contact_name, email, phone, payment_terms, address)
        VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''))
        RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		supplier.Name, supplier.ContactName, supplier.Email,
		supplier.Phone, supplier.PaymentTerms, supplier.Address,
	).Scan(&supplier.ID, &supplier.CreatedAt)
	if err != nil {
		r.log.Errorf("Failed to create supplier '%s': %v", supplier.Name, err)
		return nil, fmt.Errorf("could not create supplier: %w", err)
	}
	r.log.Infof("Supplier created successfully with ID: %d, Name: %s", supplier.ID, supplier.Name)
	return supplier, nil
}

func (r *postgresSupplierRepository) GetSupplierByID(ctx context.Context, id int) (*domain.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE id = $1`
	supplier, err := scanSupplier(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Supplier with ID %d not found", id)
			return nil, fmt.Errorf("supplier with id %d not found", id)
		}
		r.log.Errorf("Failed to get supplier by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get supplier by id: %w", err)
	}
	return supplier, nil
}

func (r *postgresSupplierRepository) UpdateSupplier(ctx context.Context, id int, updates map[string]interface{}) (*domain.Supplier, error) {
	if len(updates) == 0 {
		return r.GetSupplierByID(ctx, id)
	}

	allowed := map[string]bool{
		"name": true, "contact_name": true, "email": true,
		"phone": true, "payment_terms": true, "address": true,
	}

	setClauses := []string{}
	args := []interface{}{}
	argCounter := 1

	for key, value := range updates {
		if !allowed[key] {
			r.log.Warnf("Repository: Skipping unknown field '%s' for supplier update ID %d", key, id)
			continue
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", key, argCounter))
		args = append(args, value)
		argCounter++
	}

	if len(setClauses) == 0 {
		return r.GetSupplierByID(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	query := "UPDATE suppliers SET " + strings.Join(setClauses, ", ") + fmt.Sprintf(" WHERE id = $%d", argCounter)
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.Errorf("Repository: Failed to update supplier ID %d: %v", id, err)
		return nil, fmt.Errorf("could not update supplier: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return nil, fmt.Errorf("supplier with id %d not found for update", id)
	}
	return r.GetSupplierByID(ctx, id)
}

func (r *postgresSupplierRepository) DeleteSupplier(ctx context.Context, id int) error {
	query := `DELETE FROM suppliers WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			r.log.Warnf("Attempted to delete supplier ID %d that is still referenced", id)
			return fmt.Errorf("supplier is referenced by products or purchase orders and cannot be deleted")
		}
		r.log.Errorf("Failed to delete supplier ID %d: %v", id, err)
		return fmt.Errorf("could not delete supplier: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not confirm supplier deletion: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("supplier with id %d not found for deletion", id)
	}
	r.log.Infof("Supplier deleted successfully with ID: %d", id)
	return nil
}

func (r *postgresSupplierRepository) ListSuppliers(ctx context.Context, limit, offset int) ([]domain.Supplier, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + supplierColumns + ` FROM suppliers ORDER BY id ASC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.log.Errorf("Failed to list suppliers: %v", err)
		return nil, fmt.Errorf("could not list suppliers: %w", err)
	}
	defer rows.Close()

	suppliers := []domain.Supplier{}
	for rows.Next() {
		supplier, err := scanSupplier(rows)
		if err != nil {
			r.log.Errorf("Failed to scan supplier row: %v", err)
			return nil, fmt.Errorf("error scanning supplier data: %w", err)
		}
		suppliers = append(suppliers, *supplier)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating suppliers: %w", err)
	}
	return suppliers, nil
}
