package database

import (
	"context"
	"fmt"

	"pawrescue/apperr"
	"pawrescue/models"
)

// InsertAuditEntry appends one moderation ledger row. The ledger is
// append-only: no update or delete surface exists for audit entries.
func (d *Database) InsertAuditEntry(ctx context.Context, e *models.AuditEntry) (int64, error) {
	res, err := d.db.ExecContext(ctx, `
		INSERT INTO audit_entries (report_id, reviewer_name, decision, comment, request_id)
		VALUES (?, ?, ?, ?, ?)`,
		e.ReportID, e.ReviewerName, e.Decision,
		nullableStr(e.Comment), nullableStr(e.RequestID),
	)
	if err != nil {
		return 0, fmt.Errorf("insert audit entry: %w: %v", apperr.ErrStorage, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert audit entry id: %w: %v", apperr.ErrStorage, err)
	}
	return id, nil
}

const auditColumns = `id, report_id, reviewer_name, decision,
		COALESCE(comment, ''), COALESCE(request_id, ''), created_at`

// ListAuditsForReport returns a report's ledger, newest first.
func (d *Database) ListAuditsForReport(ctx context.Context, reportID int64) ([]models.AuditEntry, error) {
	return d.queryAudits(ctx,
		`SELECT `+auditColumns+` FROM audit_entries WHERE report_id = ? ORDER BY created_at DESC`,
		reportID)
}

// ListAllAudits returns the system-wide ledger for the admin dashboard,
// newest first, bounded.
func (d *Database) ListAllAudits(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	return d.queryAudits(ctx,
		`SELECT `+auditColumns+` FROM audit_entries ORDER BY created_at DESC LIMIT ?`,
		limit)
}

func (d *Database) queryAudits(ctx context.Context, query string, args ...any) ([]models.AuditEntry, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audits: %w: %v", apperr.ErrStorage, err)
	}
	defer rows.Close()

	var entries []models.AuditEntry
	for rows.Next() {
		var e models.AuditEntry
		if err := rows.Scan(&e.ID, &e.ReportID, &e.ReviewerName, &e.Decision,
			&e.Comment, &e.RequestID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit: %w: %v", apperr.ErrStorage, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audits: %w: %v", apperr.ErrStorage, err)
	}
	return entries, nil
}
