package database

import (
	"context"
	"fmt"

	"pawrescue/apperr"
	"pawrescue/models"
)

// InsertRescueRecord appends evidence of a rescue action. The status flip
// is a separate conditional update (MarkRescued) driven by the service.
func (d *Database) InsertRescueRecord(ctx context.Context, r *models.RescueRecord) (int64, error) {
	res, err := d.db.ExecContext(ctx, `
		INSERT INTO rescue_records (report_id, rescuer_name, rescuer_avatar,
			rescuer_identity, method, location, notes, photos)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ReportID, r.RescuerName, nullableStr(r.RescuerAvatar),
		nullableStr(r.RescuerIdentity), r.Method,
		nullableStr(r.Location), nullableStr(r.Notes), r.Photos,
	)
	if err != nil {
		return 0, fmt.Errorf("insert rescue record: %w: %v", apperr.ErrStorage, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert rescue record id: %w: %v", apperr.ErrStorage, err)
	}
	return id, nil
}

const rescueColumns = `r.id, r.report_id, r.rescuer_name,
		COALESCE(r.rescuer_avatar, ''), COALESCE(r.rescuer_identity, ''),
		r.method, COALESCE(r.location, ''), COALESCE(r.notes, ''), r.photos,
		r.created_at,
		COALESCE(p.description, ''), COALESCE(p.address, ''), p.images,
		COALESCE(p.status, 'NEEDS_RESCUE'),
		COALESCE(p.reporter_name, ''), COALESCE(p.reporter_avatar, ''),
		COALESCE(p.reporter_identity, '')`

// ListRescueRecords returns recent records across all reports, joined with
// a snippet of the parent report, newest first.
func (d *Database) ListRescueRecords(ctx context.Context, limit int) ([]models.RescueRecord, error) {
	return d.queryRescues(ctx, `
		SELECT `+rescueColumns+`
		FROM rescue_records r
		LEFT JOIN reports p ON r.report_id = p.id
		ORDER BY r.created_at DESC
		LIMIT ?`, limit)
}

// ListRescueRecordsForReport returns one report's records, newest first.
func (d *Database) ListRescueRecordsForReport(ctx context.Context, reportID int64) ([]models.RescueRecord, error) {
	return d.queryRescues(ctx, `
		SELECT `+rescueColumns+`
		FROM rescue_records r
		LEFT JOIN reports p ON r.report_id = p.id
		WHERE r.report_id = ?
		ORDER BY r.created_at DESC`, reportID)
}

func (d *Database) queryRescues(ctx context.Context, query string, args ...any) ([]models.RescueRecord, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query rescue records: %w: %v", apperr.ErrStorage, err)
	}
	defer rows.Close()

	var records []models.RescueRecord
	for rows.Next() {
		var r models.RescueRecord
		if err := rows.Scan(&r.ID, &r.ReportID, &r.RescuerName,
			&r.RescuerAvatar, &r.RescuerIdentity,
			&r.Method, &r.Location, &r.Notes, &r.Photos, &r.CreatedAt,
			&r.ReportDescription, &r.ReportAddress, &r.ReportImages,
			&r.ReportStatus, &r.ReporterName, &r.ReporterAvatar,
			&r.ReporterIdentity); err != nil {
			return nil, fmt.Errorf("scan rescue record: %w: %v", apperr.ErrStorage, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rescue records: %w: %v", apperr.ErrStorage, err)
	}
	return records, nil
}
