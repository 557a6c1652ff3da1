package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"pawrescue/apperr"
	"pawrescue/models"
)

const reportColumns = `id, description, location_lat, location_lng, address,
		status, audit_status, images, videos,
		COALESCE(reporter_name, ''), COALESCE(reporter_avatar, ''),
		COALESCE(reporter_identity, ''), COALESCE(ai_analysis, ''),
		COALESCE(rescue_details, ''), created_at`

func scanReport(row interface{ Scan(...any) error }) (*models.Report, error) {
	var r models.Report
	err := row.Scan(
		&r.ID, &r.Description, &r.Location.Lat, &r.Location.Lng, &r.Address,
		&r.Status, &r.AuditStatus, &r.Images, &r.Videos,
		&r.ReporterName, &r.ReporterAvatar, &r.ReporterIdentity,
		&r.AIAnalysis, &r.RescueDetails, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// InsertReport stores a new report and returns its id.
func (d *Database) InsertReport(ctx context.Context, r *models.Report) (int64, error) {
	res, err := d.db.ExecContext(ctx, `
		INSERT INTO reports (description, location_lat, location_lng, address,
			status, audit_status, images, videos,
			reporter_name, reporter_avatar, reporter_identity, ai_analysis)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Description, r.Location.Lat, r.Location.Lng, r.Address,
		r.Status, r.AuditStatus, r.Images, r.Videos,
		r.ReporterName, nullableStr(r.ReporterAvatar),
		nullableStr(r.ReporterIdentity), nullableStr(r.AIAnalysis),
	)
	if err != nil {
		return 0, fmt.Errorf("insert report: %w: %v", apperr.ErrStorage, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert report id: %w: %v", apperr.ErrStorage, err)
	}
	return id, nil
}

// GetReport fetches a single report by id, regardless of audit status.
func (d *Database) GetReport(ctx context.Context, id int64) (*models.Report, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE id = ?`, id)
	r, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("report %d: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get report %d: %w: %v", id, apperr.ErrStorage, err)
	}
	return r, nil
}

// ListApprovedReports returns the feed candidate pool: approved reports,
// optionally narrowed to one rescue status, newest first.
func (d *Database) ListApprovedReports(ctx context.Context, status models.ReportStatus, limit int) ([]models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE audit_status = ?`
	args := []any{models.AuditApproved}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	return d.queryReports(ctx, query, args...)
}

// ListPendingReports returns reports awaiting moderation, newest first.
func (d *Database) ListPendingReports(ctx context.Context) ([]models.Report, error) {
	return d.queryReports(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE audit_status = ? ORDER BY created_at DESC`,
		models.AuditPending)
}

func (d *Database) queryReports(ctx context.Context, query string, args ...any) ([]models.Report, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w: %v", apperr.ErrStorage, err)
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w: %v", apperr.ErrStorage, err)
		}
		reports = append(reports, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w: %v", apperr.ErrStorage, err)
	}
	return reports, nil
}

// UpdateReport applies a partial edit. Fields left nil are untouched.
func (d *Database) UpdateReport(ctx context.Context, id int64, u models.ReportUpdate) error {
	var sets []string
	var args []any

	if u.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *u.Description)
	}
	if u.Address != nil {
		sets = append(sets, "address = ?")
		args = append(args, *u.Address)
	}
	if u.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *u.Status)
	}
	if u.Images != nil {
		sets = append(sets, "images = ?")
		args = append(args, *u.Images)
	}
	if u.Videos != nil {
		sets = append(sets, "videos = ?")
		args = append(args, *u.Videos)
	}
	if u.RescueDetails != nil {
		sets = append(sets, "rescue_details = ?")
		args = append(args, *u.RescueDetails)
	}
	if len(sets) == 0 {
		return fmt.Errorf("no updates provided: %w", apperr.ErrValidation)
	}

	args = append(args, id)
	res, err := d.db.ExecContext(ctx,
		"UPDATE reports SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("update report %d: %w: %v", id, apperr.ErrStorage, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update report %d: %w: %v", id, apperr.ErrStorage, err)
	}
	if rows == 0 {
		// The driver counts changed rows, not matched rows, so an update
		// that re-sends the stored values also reports zero. Only a
		// missing row is a 404.
		var exists bool
		err := d.db.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM reports WHERE id = ?)", id).Scan(&exists)
		if err != nil {
			return fmt.Errorf("update report %d: %w: %v", id, apperr.ErrStorage, err)
		}
		if !exists {
			return fmt.Errorf("report %d: %w", id, apperr.ErrNotFound)
		}
	}
	return nil
}

// DeleteReport hard-deletes a report; audits, rescue records and dailies
// go with it via FK cascade.
func (d *Database) DeleteReport(ctx context.Context, id int64) error {
	res, err := d.db.ExecContext(ctx, "DELETE FROM reports WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete report %d: %w: %v", id, apperr.ErrStorage, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete report %d: %w: %v", id, apperr.ErrStorage, err)
	}
	if rows == 0 {
		return fmt.Errorf("report %d: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// MarkRescued flips a report to RESCUED with a conditional update, so two
// concurrent rescue completions produce exactly one transition. Returns
// whether this call performed the flip.
func (d *Database) MarkRescued(ctx context.Context, id int64) (bool, error) {
	res, err := d.db.ExecContext(ctx,
		"UPDATE reports SET status = ? WHERE id = ? AND status <> ?",
		models.StatusRescued, id, models.StatusRescued)
	if err != nil {
		return false, fmt.Errorf("mark rescued %d: %w: %v", id, apperr.ErrStorage, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark rescued %d: %w: %v", id, apperr.ErrStorage, err)
	}
	return rows == 1, nil
}

// SetAuditStatus overwrites the moderation state. Only the privileged
// moderation transition calls this.
func (d *Database) SetAuditStatus(ctx context.Context, id int64, status models.AuditStatus) error {
	// MySQL reports zero affected rows when the value is unchanged, so a
	// re-asserted decision is not treated as a missing report here.
	_, err := d.db.ExecContext(ctx,
		"UPDATE reports SET audit_status = ? WHERE id = ?", status, id)
	if err != nil {
		return fmt.Errorf("set audit status %d: %w: %v", id, apperr.ErrStorage, err)
	}
	return nil
}
