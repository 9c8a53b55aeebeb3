package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"

	"product_tracker/internal/domain"
)

type postgresStockMovementRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresStockMovementRepository(db *sql.DB, logger *logrus.Logger) domain.StockMovementRepository {
	return &postgresStockMovementRepository{
		db:  db,
		log: logger,
	}
}

// CreateMovement records the movement and applies the stock delta in one
// transaction. Entries and returns add stock; everything else subtracts, and
// a subtraction below zero aborts.
func (r *postgresStockMovementRepository) CreateMovement(ctx context.Context, movement *domain.StockMovement) (*domain.StockMovement, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.log.Errorf("Failed to begin stock movement transaction: %v", err)
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			r.log.Warnf("Rolling back stock movement transaction due to error: %v", err)
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.Errorf("Failed to rollback stock movement transaction: %v", rbErr)
			}
		}
	}()

	var stockQuery string
	if movement.Type == domain.MovementEntry || movement.Type == domain.MovementReturn {
		stockQuery = `UPDATE products SET stock = stock + $1, updated_at = NOW() WHERE id = $2`
	} else {
		stockQuery = `UPDATE products SET stock = stock - $1, updated_at = NOW() WHERE id = $2 AND stock >= $1`
	}

	var result sql.Result
	result, err = tx.ExecContext(ctx, stockQuery, movement.Quantity, movement.ProductID)
	if err != nil {
		r.log.Errorf("Failed to update stock for product %d: %v", movement.ProductID, err)
		return nil, fmt.Errorf("could not update stock for product %d: %w", movement.ProductID, err)
	}
	var rowsAffected int64
	rowsAffected, err = result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("could not confirm stock update: %w", err)
	}
	if rowsAffected == 0 {
		err = fmt.Errorf("insufficient stock or product %d not found", movement.ProductID)
		r.log.Warnf("Stock movement rejected for product %d: %v", movement.ProductID, err)
		return nil, err
	}

	query := `
        INSERT INTO stock_movements (product_id, type, quantity, reason, user_id, reference_type, reference_id)
        VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, 0), NULLIF($6, ''), NULLIF($7, 0))
        RETURNING id, created_at`
	err = tx.QueryRowContext(ctx, query,
		movement.ProductID, movement.Type, movement.Quantity, movement.Reason,
		movement.UserID, movement.ReferenceType, movement.ReferenceID,
	).Scan(&movement.ID, &movement.CreatedAt)
	if err != nil {
		r.log.Errorf("Failed to insert stock movement for product %d: %v", movement.ProductID, err)
		return nil, fmt.Errorf("could not record stock movement: %w", err)
	}

	if err = tx.Commit(); err != nil {
		r.log.Errorf("Failed to commit stock movement transaction: %v", err)
		return nil, fmt.Errorf("failed to commit stock movement: %w", err)
	}

	r.log.Infof("Stock movement %d recorded: %s %d units of product %d",
		movement.ID, movement.Type, movement.Quantity, movement.ProductID)
	return movement, nil
}

func (r *postgresStockMovementRepository) ListMovementsByProduct(ctx context.Context, productID, limit, offset int) ([]domain.StockMovement, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	query := `
        SELECT id, product_id, type, quantity, COALESCE(reason, ''), COALESCE(user_id, 0),
               COALESCE(reference_type, ''), COALESCE(reference_id, 0), created_at
        FROM stock_movements
        WHERE product_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, productID, limit, offset)
	if err != nil {
		r.log.Errorf("Failed to list stock movements for product %d: %v", productID, err)
		return nil, fmt.Errorf("could not list stock movements: %w", err)
	}
	defer rows.Close()

	movements := []domain.StockMovement{}
	for rows.Next() {
		var m domain.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.Reason,
			&m.UserID, &m.ReferenceType, &m.ReferenceID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning stock movement: %w", err)
		}
		movements = append(movements, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock movements: %w", err)
	}
	return movements, nil
}
