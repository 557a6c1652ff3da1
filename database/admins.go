package database

import (
	"context"
	"database/sql"
	"fmt"

	"pawrescue/apperr"
)

// GetAdminPasswordHash returns the stored bcrypt hash for an admin
// username. Unknown usernames surface as NotFound so the login handler
// can answer uniformly.
func (d *Database) GetAdminPasswordHash(ctx context.Context, username string) (string, error) {
	var hash string
	err := d.db.QueryRowContext(ctx,
		"SELECT password_hash FROM admins WHERE username = ?", username).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("admin %s: %w", username, apperr.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get admin %s: %w: %v", username, apperr.ErrStorage, err)
	}
	return hash, nil
}
