package database

import (
	"context"
	"database/sql"
	"fmt"

	"pawrescue/apperr"
)

// GetSetting returns a policy flag value, or "" when the key is unset.
func (d *Database) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := d.db.QueryRowContext(ctx,
		"SELECT setting_value FROM settings WHERE setting_key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting %s: %w: %v", key, apperr.ErrStorage, err)
	}
	return value, nil
}

// ListSettings returns all policy flags.
func (d *Database) ListSettings(ctx context.Context) (map[string]string, error) {
	rows, err := d.db.QueryContext(ctx, "SELECT setting_key, setting_value FROM settings")
	if err != nil {
		return nil, fmt.Errorf("query settings: %w: %v", apperr.ErrStorage, err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan setting: %w: %v", apperr.ErrStorage, err)
		}
		settings[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate settings: %w: %v", apperr.ErrStorage, err)
	}
	return settings, nil
}

// UpsertSetting writes a policy flag.
func (d *Database) UpsertSetting(ctx context.Context, key, value string) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO settings (setting_key, setting_value) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE setting_value = VALUES(setting_value)`,
		key, value)
	if err != nil {
		return fmt.Errorf("upsert setting %s: %w: %v", key, apperr.ErrStorage, err)
	}
	return nil
}
