package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"product_tracker/internal/domain"
)

type postgresSettingsRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresSettingsRepository(db *sql.DB, logger *logrus.Logger) domain.SettingsRepository {
	return &postgresSettingsRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresSettingsRepository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", domain.ErrSettingNotFound, key)
		}
		r.log.Errorf("Failed to get setting %s: %v", key, err)
		return "", fmt.Errorf("could not get setting %s: %w", key, err)
	}
	return value, nil
}

func (r *postgresSettingsRepository) SetSetting(ctx context.Context, key, value string) error {
	query := `
        INSERT INTO settings (key, value)
        VALUES ($1, $2)
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		r.log.Errorf("Failed to set setting %s: %v", key, err)
		return fmt.Errorf("could not set setting %s: %w", key, err)
	}
	r.log.Infof("Setting %s updated", key)
	return nil
}

func (r *postgresSettingsRepository) ListSettings(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM settings ORDER BY key ASC`)
	if err != nil {
		r.log.Errorf("Failed to list settings: %v", err)
		return nil, fmt.Errorf("could not list settings: %w", err)
	}
	defer rows.Close()

	settings := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("error scanning setting: %w", err)
		}
		settings[key] = value
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating settings: %w", err)
	}
	return settings, nil
}
