package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"product_tracker/internal/domain"
)

type postgresPurchaseOrderRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresPurchaseOrderRepository(db *sql.DB, logger *logrus.Logger) domain.PurchaseOrderRepository {
	return &postgresPurchaseOrderRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresPurchaseOrderRepository) CreatePurchaseOrder(ctx context.Context, po *domain.PurchaseOrder) (*domain.PurchaseOrder, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.log.Errorf("Failed to begin purchase order transaction: %v", err)
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			r.log.Warnf("Rolling back purchase order transaction due to error: %v", err)
			_ = tx.Rollback()
		}
	}()

	poQuery := `
        INSERT INTO purchase_orders (supplier_id, status, total, notes)
        VALUES ($1, $2, $3, NULLIF($4, ''))
        RETURNING id, created_at`
	err = tx.QueryRowContext(ctx, poQuery, po.SupplierID, domain.PurchaseOrderPending, po.Total, po.Notes).
		Scan(&po.ID, &po.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			r.log.Warnf("Attempted to create purchase order for non-existent supplier %d", po.SupplierID)
			return nil, fmt.Errorf("supplier with id %d does not exist", po.SupplierID)
		}
		r.log.Errorf("Failed to insert purchase order: %v", err)
		return nil, fmt.Errorf("could not create purchase order: %w", err)
	}
	po.Status = domain.PurchaseOrderPending

	itemQuery := `
        INSERT INTO purchase_order_items (purchase_order_id, product_id, quantity, unit_cost)
        VALUES ($1, $2, $3, $4)
        RETURNING id`
	for i := range po.Items {
		item := &po.Items[i]
		item.PurchaseOrderID = po.ID
		err = tx.QueryRowContext(ctx, itemQuery, po.ID, item.ProductID, item.Quantity, item.UnitCost).Scan(&item.ID)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
				return nil, fmt.Errorf("product with id %d does not exist", item.ProductID)
			}
			r.log.Errorf("Failed to insert purchase order item (product %d): %v", item.ProductID, err)
			return nil, fmt.Errorf("could not create purchase order item (product_id: %d): %w", item.ProductID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		r.log.Errorf("Failed to commit purchase order transaction: %v", err)
		return nil, fmt.Errorf("failed to commit purchase order: %w", err)
	}

	r.log.Infof("Purchase order %d created with %d items for supplier %d", po.ID, len(po.Items), po.SupplierID)
	return po, nil
}

func (r *postgresPurchaseOrderRepository) loadItems(ctx context.Context, po *domain.PurchaseOrder) error {
	query := `
        SELECT id, purchase_order_id, product_id, quantity, unit_cost
        FROM purchase_order_items
        WHERE purchase_order_id = $1
        ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query, po.ID)
	if err != nil {
		return fmt.Errorf("could not load purchase order items: %w", err)
	}
	defer rows.Close()

	po.Items = []domain.PurchaseOrderItem{}
	for rows.Next() {
		var item domain.PurchaseOrderItem
		if err := rows.Scan(&item.ID, &item.PurchaseOrderID, &item.ProductID, &item.Quantity, &item.UnitCost); err != nil {
			return fmt.Errorf("error scanning purchase order item: %w", err)
		}
		po.Items = append(po.Items, item)
	}
	return rows.Err()
}

func scanPurchaseOrder(row interface{ Scan(...interface{}) error }) (*domain.PurchaseOrder, error) {
	po := &domain.PurchaseOrder{}
	var receivedAt sql.NullTime
	err := row.Scan(&po.ID, &po.SupplierID, &po.Status, &po.Total, &po.Notes, &po.CreatedAt, &receivedAt)
	if err != nil {
		return nil, err
	}
	if receivedAt.Valid {
		po.ReceivedAt = &receivedAt.Time
	}
	return po, nil
}

const purchaseOrderColumns = `id, supplier_id, status, total, COALESCE(notes, ''), created_at, received_at`

func (r *postgresPurchaseOrderRepository) GetPurchaseOrderByID(ctx context.Context, id int) (*domain.PurchaseOrder, error) {
	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders WHERE id = $1`
	po, err := scanPurchaseOrder(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Purchase order with ID %d not found", id)
			return nil, fmt.Errorf("purchase order with id %d not found", id)
		}
		r.log.Errorf("Failed to get purchase order by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get purchase order by id: %w", err)
	}
	if err := r.loadItems(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

func (r *postgresPurchaseOrderRepository) ListPurchaseOrders(ctx context.Context, limit, offset int) ([]domain.PurchaseOrder, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.log.Errorf("Failed to list purchase orders: %v", err)
		return nil, fmt.Errorf("could not list purchase orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.PurchaseOrder{}
	for rows.Next() {
		po, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning purchase order: %w", err)
		}
		orders = append(orders, *po)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purchase orders: %w", err)
	}

	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// ReceivePurchaseOrder flips a pending order to received and applies the
// stock increases plus ENTRY movements atomically. The status update doubles
// as the idempotence guard: a second receive matches zero rows.
func (r *postgresPurchaseOrderRepository) ReceivePurchaseOrder(ctx context.Context, id, userID int) (*domain.PurchaseOrder, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.log.Errorf("Failed to begin receive transaction: %v", err)
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			r.log.Warnf("Rolling back receive transaction due to error: %v", err)
			_ = tx.Rollback()
		}
	}()

	statusQuery := `
        UPDATE purchase_orders
        SET status = $1, received_at = NOW()
        WHERE id = $2 AND status = $3`
	var result sql.Result
	result, err = tx.ExecContext(ctx, statusQuery, domain.PurchaseOrderReceived, id, domain.PurchaseOrderPending)
	if err != nil {
		r.log.Errorf("Failed to update purchase order %d status: %v", id, err)
		return nil, fmt.Errorf("could not update purchase order status: %w", err)
	}
	var rowsAffected int64
	rowsAffected, err = result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("could not confirm purchase order status update: %w", err)
	}
	if rowsAffected == 0 {
		err = fmt.Errorf("purchase order with id %d not found or already received", id)
		r.log.Warnf("Receive rejected for purchase order %d: %v", id, err)
		return nil, err
	}

	itemsQuery := `
        SELECT product_id, quantity
        FROM purchase_order_items
        WHERE purchase_order_id = $1`
	var rows *sql.Rows
	rows, err = tx.QueryContext(ctx, itemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("could not load purchase order items: %w", err)
	}

	type receivedItem struct {
		productID int
		quantity  int
	}
	items := []receivedItem{}
	for rows.Next() {
		var item receivedItem
		if err = rows.Scan(&item.productID, &item.quantity); err != nil {
			rows.Close()
			return nil, fmt.Errorf("error scanning purchase order item: %w", err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating purchase order items: %w", err)
	}
	rows.Close()

	stockQuery := `UPDATE products SET stock = stock + $1, updated_at = NOW() WHERE id = $2`
	movementQuery := `
        INSERT INTO stock_movements (product_id, type, quantity, reason, user_id, reference_type, reference_id)
        VALUES ($1, $2, $3, $4, NULLIF($5, 0), 'purchase_order', $6)`
	for _, item := range items {
		if _, err = tx.ExecContext(ctx, stockQuery, item.quantity, item.productID); err != nil {
			r.log.Errorf("Failed to increase stock for product %d on receive of order %d: %v", item.productID, id, err)
			return nil, fmt.Errorf("could not increase stock for product %d: %w", item.productID, err)
		}
		reason := fmt.Sprintf("Orden de compra #%d recibida", id)
		if _, err = tx.ExecContext(ctx, movementQuery,
			item.productID, domain.MovementEntry, item.quantity, reason, userID, id); err != nil {
			r.log.Errorf("Failed to record entry movement for product %d on receive of order %d: %v", item.productID, id, err)
			return nil, fmt.Errorf("could not record entry movement for product %d: %w", item.productID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		r.log.Errorf("Failed to commit receive transaction: %v", err)
		return nil, fmt.Errorf("failed to commit receive: %w", err)
	}

	r.log.Infof("Purchase order %d received, %d products restocked", id, len(items))
	return r.GetPurchaseOrderByID(ctx, id)
}

func (r *postgresPurchaseOrderRepository) DeletePurchaseOrder(ctx context.Context, id int) error {
	query := `DELETE FROM purchase_orders WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.log.Errorf("Failed to delete purchase order %d: %v", id, err)
		return fmt.Errorf("could not delete purchase order: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not confirm purchase order deletion: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("purchase order with id %d not found for deletion", id)
	}
	r.log.Infof("Purchase order deleted successfully with ID: %d", id)
	return nil
}
