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

const productColumns = `id, name, sku, category, price_purchase, price_sale, unit,
       stock, min_stock, COALESCE(location, ''), COALESCE(supplier_id, 0),
       expiration_date, archived, created_at, updated_at`

type postgresProductRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresProductRepository(db *sql.DB, logger *logrus.Logger) domain.ProductRepository {
	return &postgresProductRepository{
		db:  db,
		log: logger,
	}
}

func scanProduct(row interface{ Scan(...interface{}) error }) (*domain.Product, error) {
	product := &domain.Product{}
	var expiration sql.NullTime
	var updatedAt sql.NullTime

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.SKU,
		&product.Category,
		&product.PricePurchase,
		&product.PriceSale,
		&product.Unit,
		&product.Stock,
		&product.MinStock,
		&product.Location,
		&product.SupplierID,
		&expiration,
		&product.Archived,
		&product.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if expiration.Valid {
		product.ExpirationDate = &expiration.Time
	}
	if updatedAt.Valid {
		product.UpdatedAt = &updatedAt.Time
	}
	return product, nil
}

func (r *postgresProductRepository) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
        INSERT INTO products (name, sku, category, price_purchase, price_sale, unit,
                              stock, min_stock, location, supplier_id, expiration_date)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), NULLIF($10, 0), $11)
        RETURNING id, created_at`

	var expiration interface{}
	if product.ExpirationDate != nil {
		expiration = *product.ExpirationDate
	}

	err := r.db.QueryRowContext(ctx, query,
		product.Name, product.SKU, product.Category,
		product.PricePurchase, product.PriceSale, product.Unit,
		product.Stock, product.MinStock, product.Location, product.SupplierID, expiration,
	).Scan(&product.ID, &product.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			r.log.Warnf("Attempted to create product with duplicate SKU: %s", product.SKU)
			return nil, fmt.Errorf("product with SKU %s already exists", product.SKU)
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			r.log.Warnf("Attempted to create product with non-existent supplier ID: %d", product.SupplierID)
			return nil, fmt.Errorf("supplier with id %d does not exist", product.SupplierID)
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
			r.log.Warnf("Check constraint violation for product '%s': %s", product.Name, pqErr.Message)
			return nil, fmt.Errorf("product data constraint violation: %s", pqErr.Message)
		}
		r.log.Errorf("Failed to create product '%s': %v", product.Name, err)
		return nil, fmt.Errorf("could not create product: %w", err)
	}
	r.log.Infof("Product created successfully with ID: %d, SKU: %s", product.ID, product.SKU)
	return product, nil
}

func (r *postgresProductRepository) GetProductByID(ctx context.Context, id int) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Product with ID %d not found", id)
			return nil, fmt.Errorf("product with id %d not found", id)
		}
		r.log.Errorf("Failed to get product by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get product by id: %w", err)
	}
	return product, nil
}

func (r *postgresProductRepository) GetProductBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE sku = $1`
	product, err := scanProduct(r.db.QueryRowContext(ctx, query, sku))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product with SKU %s not found", sku)
		}
		r.log.Errorf("Failed to get product by SKU %s: %v", sku, err)
		return nil, fmt.Errorf("could not get product by sku: %w", err)
	}
	return product, nil
}

func (r *postgresProductRepository) UpdateProduct(ctx context.Context, id int, updates map[string]interface{}) (*domain.Product, error) {
	if len(updates) == 0 {
		return r.GetProductByID(ctx, id)
	}

	allowed := map[string]string{
		"name":            "name",
		"sku":             "sku",
		"category":        "category",
		"price_purchase":  "price_purchase",
		"price_sale":      "price_sale",
		"unit":            "unit",
		"stock":           "stock",
		"min_stock":       "min_stock",
		"location":        "location",
		"supplier_id":     "supplier_id",
		"expiration_date": "expiration_date",
	}

	setClauses := []string{}
	args := []interface{}{}
	argCounter := 1

	for key, value := range updates {
		column, ok := allowed[key]
		if !ok {
			r.log.Warnf("Repository: Skipping unknown field '%s' for product update ID %d", key, id)
			continue
		}
		if key == "supplier_id" {
			if supplierID, isInt := value.(int); isInt && supplierID == 0 {
				value = nil
			}
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argCounter))
		args = append(args, value)
		argCounter++
	}

	if len(setClauses) == 0 {
		return r.GetProductByID(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	query := "UPDATE products SET " + strings.Join(setClauses, ", ") + fmt.Sprintf(" WHERE id = $%d", argCounter)
	args = append(args, id)

	r.log.Debugf("Repository: Executing partial update query for product ID %d: %s", id, query)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, fmt.Errorf("product with SKU already exists")
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return nil, fmt.Errorf("referenced supplier does not exist")
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
			return nil, fmt.Errorf("product data constraint violation: %s", pqErr.Message)
		}
		r.log.Errorf("Repository: Failed to execute partial update for product ID %d: %v", id, err)
		return nil, fmt.Errorf("could not partially update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Repository: Failed to get rows affected after update for product ID %d: %v", id, err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("product with id %d not found for update", id)
	}

	return r.GetProductByID(ctx, id)
}

func (r *postgresProductRepository) ToggleArchived(ctx context.Context, id int) (*domain.Product, error) {
	query := `UPDATE products SET archived = NOT archived, updated_at = NOW() WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.log.Errorf("Failed to toggle archived flag for product ID %d: %v", id, err)
		return nil, fmt.Errorf("could not archive product: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return nil, fmt.Errorf("product with id %d not found", id)
	}
	return r.GetProductByID(ctx, id)
}

func (r *postgresProductRepository) DeleteProduct(ctx context.Context, id int) error {
	query := `DELETE FROM products WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			r.log.Warnf("Attempted to delete product ID %d with sale or movement history", id)
			return fmt.Errorf("product has sale or movement history and cannot be deleted, archive it instead")
		}
		r.log.Errorf("Failed to delete product ID %d: %v", id, err)
		return fmt.Errorf("could not delete product: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not confirm product deletion: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("product with id %d not found for deletion", id)
	}
	r.log.Infof("Product deleted successfully with ID: %d", id)
	return nil
}

func (r *postgresProductRepository) ListProducts(ctx context.Context, filter domain.ProductFilter, limit, offset int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}
	if offset < 0 {
		offset = 0
	}

	where := []string{}
	args := []interface{}{}
	argCounter := 1

	if !filter.IncludeArchived {
		where = append(where, "archived = FALSE")
	}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR sku ILIKE $%d)", argCounter, argCounter))
		args = append(args, "%"+filter.Search+"%")
		argCounter++
	}
	if filter.Category != "" {
		where = append(where, fmt.Sprintf("category = $%d", argCounter))
		args = append(args, filter.Category)
		argCounter++
	}
	if filter.LowStockOnly {
		where = append(where, "stock <= min_stock")
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY id ASC LIMIT $%d OFFSET $%d", argCounter, argCounter+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.log.Errorf("Failed to list products (limit %d, offset %d): %v", limit, offset, err)
		return nil, fmt.Errorf("could not list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			r.log.Errorf("Failed to scan product row: %v", err)
			return nil, fmt.Errorf("error scanning product data: %w", err)
		}
		products = append(products, *product)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during products list iteration: %v", err)
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return products, nil
}
