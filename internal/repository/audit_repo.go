package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"

	"product_tracker/internal/domain"
)

type postgresAuditRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresAuditRepository(db *sql.DB, logger *logrus.Logger) domain.AuditRepository {
	return &postgresAuditRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresAuditRepository) RecordAudit(ctx context.Context, entry *domain.AuditEntry) error {
	query := `
        INSERT INTO audit_logs (user_id, entity, entity_id, action, changes)
        VALUES (NULLIF($1, 0), $2, $3, $4, NULLIF($5, '')::jsonb)
        RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		entry.UserID, entry.Entity, entry.EntityID, entry.Action, entry.Changes,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		r.log.Errorf("Failed to record audit entry for %s %d: %v", entry.Entity, entry.EntityID, err)
		return fmt.Errorf("could not record audit entry: %w", err)
	}
	return nil
}

func (r *postgresAuditRepository) ListAuditEntries(ctx context.Context, limit, offset int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	query := `
        SELECT id, COALESCE(user_id, 0), entity, entity_id, action, COALESCE(changes::text, ''), created_at
        FROM audit_logs
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.log.Errorf("Failed to list audit entries: %v", err)
		return nil, fmt.Errorf("could not list audit entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.AuditEntry{}
	for rows.Next() {
		var e domain.AuditEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Entity, &e.EntityID, &e.Action, &e.Changes, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit entries: %w", err)
	}
	return entries, nil
}
