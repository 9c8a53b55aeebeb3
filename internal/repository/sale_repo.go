package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"product_tracker/internal/domain"
)

type postgresSaleRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresSaleRepository(db *sql.DB, logger *logrus.Logger) domain.SaleRepository {
	return &postgresSaleRepository{
		db:  db,
		log: logger,
	}
}

// CreateSale persists the sale, its items, the stock reductions and the EXIT
// movements in one transaction. Stock rows are locked to keep concurrent
// sales from overselling the same product.
func (r *postgresSaleRepository) CreateSale(ctx context.Context, sale *domain.Sale) (*domain.Sale, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.log.Errorf("Failed to begin sale transaction: %v", err)
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			r.log.Error("Recovered from panic, rolling back sale transaction")
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			r.log.Warnf("Rolling back sale transaction due to error: %v", err)
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.Errorf("Failed to rollback sale transaction: %v", rbErr)
			}
		}
	}()

	saleQuery := `
        INSERT INTO sales (total, discount, tax_amount, payment_method, user_id)
        VALUES ($1, $2, $3, $4, NULLIF($5, 0))
        RETURNING id, created_at`
	err = tx.QueryRowContext(ctx, saleQuery,
		sale.Total, sale.DiscountPercent, sale.TaxAmount, sale.PaymentMethod, sale.UserID,
	).Scan(&sale.ID, &sale.CreatedAt)
	if err != nil {
		r.log.Errorf("Failed to insert sale: %v", err)
		return nil, fmt.Errorf("could not create sale entry: %w", err)
	}

	itemQuery := `
        INSERT INTO sale_items (sale_id, product_id, quantity, unit_price, subtotal)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`
	stockQuery := `
        UPDATE products SET stock = stock - $1, updated_at = NOW()
        WHERE id = $2 AND stock >= $1`
	movementQuery := `
        INSERT INTO stock_movements (product_id, type, quantity, reason, user_id, reference_type, reference_id)
        VALUES ($1, $2, $3, $4, NULLIF($5, 0), 'sale', $6)`

	for i := range sale.Items {
		item := &sale.Items[i]
		item.SaleID = sale.ID

		err = tx.QueryRowContext(ctx, itemQuery,
			sale.ID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal,
		).Scan(&item.ID)
		if err != nil {
			r.log.Errorf("Failed to insert sale item (product_id: %d) for sale %d: %v", item.ProductID, sale.ID, err)
			return nil, fmt.Errorf("could not create sale item (product_id: %d): %w", item.ProductID, err)
		}

		var result sql.Result
		result, err = tx.ExecContext(ctx, stockQuery, item.Quantity, item.ProductID)
		if err != nil {
			r.log.Errorf("Failed to reduce stock for product %d in sale %d: %v", item.ProductID, sale.ID, err)
			return nil, fmt.Errorf("could not reduce stock for product %d: %w", item.ProductID, err)
		}
		var rowsAffected int64
		rowsAffected, err = result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("could not confirm stock reduction for product %d: %w", item.ProductID, err)
		}
		if rowsAffected == 0 {
			err = fmt.Errorf("insufficient stock for product %d", item.ProductID)
			r.log.Warnf("Sale %d aborted: insufficient stock for product %d", sale.ID, item.ProductID)
			return nil, err
		}

		_, err = tx.ExecContext(ctx, movementQuery,
			item.ProductID, domain.MovementExit, item.Quantity, "Venta", sale.UserID, sale.ID)
		if err != nil {
			r.log.Errorf("Failed to record stock movement for product %d in sale %d: %v", item.ProductID, sale.ID, err)
			return nil, fmt.Errorf("could not record stock movement for product %d: %w", item.ProductID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		r.log.Errorf("Failed to commit sale transaction: %v", err)
		return nil, fmt.Errorf("failed to commit sale: %w", err)
	}

	r.log.Infof("Sale %d created successfully with %d items", sale.ID, len(sale.Items))
	return sale, nil
}

func (r *postgresSaleRepository) loadItems(ctx context.Context, sale *domain.Sale) error {
	query := `
        SELECT id, sale_id, product_id, quantity, unit_price, subtotal
        FROM sale_items
        WHERE sale_id = $1
        ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query, sale.ID)
	if err != nil {
		return fmt.Errorf("could not load sale items: %w", err)
	}
	defer rows.Close()

	sale.Items = []domain.SaleItem{}
	for rows.Next() {
		var item domain.SaleItem
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.Subtotal); err != nil {
			return fmt.Errorf("error scanning sale item: %w", err)
		}
		sale.Items = append(sale.Items, item)
	}
	return rows.Err()
}

func scanSale(row interface{ Scan(...interface{}) error }) (*domain.Sale, error) {
	sale := &domain.Sale{}
	var userID sql.NullInt64
	err := row.Scan(&sale.ID, &sale.Total, &sale.DiscountPercent, &sale.TaxAmount,
		&sale.PaymentMethod, &userID, &sale.CreatedAt)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		sale.UserID = int(userID.Int64)
	}
	return sale, nil
}

func (r *postgresSaleRepository) GetSaleByID(ctx context.Context, id int) (*domain.Sale, error) {
	query := `
        SELECT id, total, discount, tax_amount, payment_method, user_id, created_at
        FROM sales
        WHERE id = $1`
	sale, err := scanSale(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Sale with ID %d not found", id)
			return nil, fmt.Errorf("sale with id %d not found", id)
		}
		r.log.Errorf("Failed to get sale by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get sale by id: %w", err)
	}
	if err := r.loadItems(ctx, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

func (r *postgresSaleRepository) ListSales(ctx context.Context, limit, offset int) ([]domain.Sale, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	query := `
        SELECT id, total, discount, tax_amount, payment_method, user_id, created_at
        FROM sales
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.log.Errorf("Failed to list sales: %v", err)
		return nil, fmt.Errorf("could not list sales: %w", err)
	}
	defer rows.Close()

	sales := []domain.Sale{}
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning sale data: %w", err)
		}
		sales = append(sales, *sale)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sales: %w", err)
	}

	for i := range sales {
		if err := r.loadItems(ctx, &sales[i]); err != nil {
			return nil, err
		}
	}
	return sales, nil
}

func (r *postgresSaleRepository) ListSaleItemsByProduct(ctx context.Context, productID int) ([]domain.SaleItem, error) {
	query := `
        SELECT id, sale_id, product_id, quantity, unit_price, subtotal
        FROM sale_items
        WHERE product_id = $1
        ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		r.log.Errorf("Failed to list sale items for product %d: %v", productID, err)
		return nil, fmt.Errorf("could not list sale items for product: %w", err)
	}
	defer rows.Close()

	items := []domain.SaleItem{}
	for rows.Next() {
		var item domain.SaleItem
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.Subtotal); err != nil {
			return nil, fmt.Errorf("error scanning sale item: %w", err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sale items: %w", err)
	}
	return items, nil
}
