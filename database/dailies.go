package database

import (
	"context"
	"fmt"

	"pawrescue/apperr"
	"pawrescue/models"
)

// InsertDaily stores a rescue-diary entry for a report.
func (d *Database) InsertDaily(ctx context.Context, daily *models.Daily) (int64, error) {
	res, err := d.db.ExecContext(ctx, `
		INSERT INTO report_dailies (report_id, author_name, author_avatar, content, images)
		VALUES (?, ?, ?, ?, ?)`,
		daily.ReportID, daily.AuthorName, nullableStr(daily.AuthorAvatar),
		daily.Content, daily.Images)
	if err != nil {
		return 0, fmt.Errorf("insert daily: %w: %v", apperr.ErrStorage, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert daily id: %w: %v", apperr.ErrStorage, err)
	}
	return id, nil
}

// ListDailies returns a report's diary, newest first.
func (d *Database) ListDailies(ctx context.Context, reportID int64) ([]models.Daily, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, report_id, COALESCE(author_name, ''),
			COALESCE(author_avatar, ''), content, images, created_at
		FROM report_dailies
		WHERE report_id = ?
		ORDER BY created_at DESC`, reportID)
	if err != nil {
		return nil, fmt.Errorf("query dailies: %w: %v", apperr.ErrStorage, err)
	}
	defer rows.Close()

	var dailies []models.Daily
	for rows.Next() {
		var daily models.Daily
		if err := rows.Scan(&daily.ID, &daily.ReportID, &daily.AuthorName,
			&daily.AuthorAvatar, &daily.Content, &daily.Images,
			&daily.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan daily: %w: %v", apperr.ErrStorage, err)
		}
		dailies = append(dailies, daily)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dailies: %w: %v", apperr.ErrStorage, err)
	}
	return dailies, nil
}

// DeleteDaily removes a diary entry (admin surface); its comments cascade.
func (d *Database) DeleteDaily(ctx context.Context, id int64) error {
	res, err := d.db.ExecContext(ctx, "DELETE FROM report_dailies WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete daily %d: %w: %v", id, apperr.ErrStorage, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete daily %d: %w: %v", id, apperr.ErrStorage, err)
	}
	if rows == 0 {
		return fmt.Errorf("daily %d: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// InsertDailyComment stores a flat comment on a diary entry.
func (d *Database) InsertDailyComment(ctx context.Context, c *models.DailyComment) (int64, error) {
	res, err := d.db.ExecContext(ctx, `
		INSERT INTO daily_comments (daily_id, author_name, author_avatar, content)
		VALUES (?, ?, ?, ?)`,
		c.DailyID, c.AuthorName, nullableStr(c.AuthorAvatar), c.Content)
	if err != nil {
		return 0, fmt.Errorf("insert daily comment: %w: %v", apperr.ErrStorage, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert daily comment id: %w: %v", apperr.ErrStorage, err)
	}
	return id, nil
}

// ListDailyComments returns a diary entry's comments oldest first.
func (d *Database) ListDailyComments(ctx context.Context, dailyID int64) ([]models.DailyComment, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, daily_id, COALESCE(author_name, ''),
			COALESCE(author_avatar, ''), content, created_at
		FROM daily_comments
		WHERE daily_id = ?
		ORDER BY created_at ASC`, dailyID)
	if err != nil {
		return nil, fmt.Errorf("query daily comments: %w: %v", apperr.ErrStorage, err)
	}
	defer rows.Close()

	var comments []models.DailyComment
	for rows.Next() {
		var c models.DailyComment
		if err := rows.Scan(&c.ID, &c.DailyID, &c.AuthorName,
			&c.AuthorAvatar, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan daily comment: %w: %v", apperr.ErrStorage, err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily comments: %w: %v", apperr.ErrStorage, err)
	}
	return comments, nil
}
