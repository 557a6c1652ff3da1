package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"pawrescue/apperr"
	"pawrescue/models"
)

// ErrDuplicateDisplayID signals that a display-id insert lost the race
// against a concurrent assignment. The resolver retries with a fresh
// candidate; uniqueness is enforced by the index, not the application.
var ErrDuplicateDisplayID = errors.New("display id already taken")

const mysqlDupEntry = 1062

func isDupKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDupEntry
}

const userColumns = `id, identity, COALESCE(nickname, ''),
		COALESCE(avatar_url, ''), COALESCE(display_id, ''),
		created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.UserProfile, error) {
	var u models.UserProfile
	err := row.Scan(&u.ID, &u.Identity, &u.Nickname, &u.AvatarURL,
		&u.DisplayID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByIdentity looks a profile up by its stable identity reference.
func (d *Database) GetUserByIdentity(ctx context.Context, identity string) (*models.UserProfile, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE identity = ?`, identity)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %s: %w", identity, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w: %v", identity, apperr.ErrStorage, err)
	}
	return u, nil
}

// CreateUser inserts a new profile with its display id. A display-id
// collision surfaces as ErrDuplicateDisplayID for the caller to retry.
func (d *Database) CreateUser(ctx context.Context, u *models.UserProfile) (int64, error) {
	res, err := d.db.ExecContext(ctx, `
		INSERT INTO users (identity, nickname, avatar_url, display_id)
		VALUES (?, ?, ?, ?)`,
		u.Identity, u.Nickname, nullableStr(u.AvatarURL), u.DisplayID)
	if isDupKey(err) {
		return 0, fmt.Errorf("create user %s: %w", u.Identity, ErrDuplicateDisplayID)
	}
	if err != nil {
		return 0, fmt.Errorf("create user %s: %w: %v", u.Identity, apperr.ErrStorage, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create user id: %w: %v", apperr.ErrStorage, err)
	}
	return id, nil
}

// UpdateUserProfile updates the mutable profile fields. The display id is
// assigned once and never touched here.
func (d *Database) UpdateUserProfile(ctx context.Context, identity, nickname, avatarURL string) error {
	_, err := d.db.ExecContext(ctx, `
		UPDATE users SET nickname = ?, avatar_url = ? WHERE identity = ?`,
		nickname, nullableStr(avatarURL), identity)
	if err != nil {
		return fmt.Errorf("update user %s: %w: %v", identity, apperr.ErrStorage, err)
	}
	return nil
}

// SetDisplayID backfills a display id on a legacy profile that has none.
// Collisions surface as ErrDuplicateDisplayID. Returns false when the
// guard matched no row, meaning a concurrent call backfilled first.
func (d *Database) SetDisplayID(ctx context.Context, userID int64, displayID string) (bool, error) {
	res, err := d.db.ExecContext(ctx,
		"UPDATE users SET display_id = ? WHERE id = ? AND display_id IS NULL",
		displayID, userID)
	if isDupKey(err) {
		return false, fmt.Errorf("set display id for user %d: %w", userID, ErrDuplicateDisplayID)
	}
	if err != nil {
		return false, fmt.Errorf("set display id for user %d: %w: %v", userID, apperr.ErrStorage, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set display id for user %d: %w: %v", userID, apperr.ErrStorage, err)
	}
	return rows == 1, nil
}

// DisplayIDExists reports whether a candidate display id is taken. The
// UNIQUE index remains the real guard; this is a cheap pre-check.
func (d *Database) DisplayIDExists(ctx context.Context, displayID string) (bool, error) {
	var id int64
	err := d.db.QueryRowContext(ctx,
		"SELECT id FROM users WHERE display_id = ?", displayID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check display id: %w: %v", apperr.ErrStorage, err)
	}
	return true, nil
}

// ListUsers returns all profiles, newest first (admin directory).
func (d *Database) ListUsers(ctx context.Context) ([]models.UserProfile, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w: %v", apperr.ErrStorage, err)
	}
	defer rows.Close()

	var users []models.UserProfile
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w: %v", apperr.ErrStorage, err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w: %v", apperr.ErrStorage, err)
	}
	return users, nil
}
