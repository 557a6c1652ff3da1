package database

import (
	"context"
	"fmt"

	"pawrescue/apperr"
	"pawrescue/models"
)

// StatsOverview returns the dashboard headline counts.
func (d *Database) StatsOverview(ctx context.Context) (*models.StatsOverview, error) {
	var s models.StatsOverview
	// SUM over zero rows is NULL, so an empty table needs the COALESCE.
	err := d.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'NEEDS_RESCUE' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'RESCUED' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN DATE(created_at) = CURDATE() THEN 1 ELSE 0 END), 0)
		FROM reports`).Scan(&s.TotalReports, &s.NeedsRescue, &s.Rescued, &s.TodayNew)
	if err != nil {
		return nil, fmt.Errorf("stats overview: %w: %v", apperr.ErrStorage, err)
	}
	return &s, nil
}

// StatsTrends returns per-day report and rescue counts for the last week.
func (d *Database) StatsTrends(ctx context.Context) ([]models.TrendPoint, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT DATE_FORMAT(DATE(created_at), '%Y-%m-%d'),
			COUNT(*),
			SUM(CASE WHEN status = 'RESCUED' THEN 1 ELSE 0 END)
		FROM reports
		WHERE created_at >= CURDATE() - INTERVAL 7 DAY
		GROUP BY DATE(created_at)
		ORDER BY DATE(created_at) DESC`)
	if err != nil {
		return nil, fmt.Errorf("stats trends: %w: %v", apperr.ErrStorage, err)
	}
	defer rows.Close()

	var points []models.TrendPoint
	for rows.Next() {
		var p models.TrendPoint
		if err := rows.Scan(&p.Date, &p.Reports, &p.Rescued); err != nil {
			return nil, fmt.Errorf("scan trend: %w: %v", apperr.ErrStorage, err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trends: %w: %v", apperr.ErrStorage, err)
	}
	return points, nil
}

// StatsRegions aggregates reports by the leading address segment.
func (d *Database) StatsRegions(ctx context.Context) ([]models.RegionCount, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT SUBSTRING_INDEX(address, ',', 1),
			COUNT(*),
			SUM(CASE WHEN status = 'RESCUED' THEN 1 ELSE 0 END)
		FROM reports
		GROUP BY SUBSTRING_INDEX(address, ',', 1)
		ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, fmt.Errorf("stats regions: %w: %v", apperr.ErrStorage, err)
	}
	defer rows.Close()

	var regions []models.RegionCount
	for rows.Next() {
		var r models.RegionCount
		if err := rows.Scan(&r.Region, &r.Count, &r.Rescued); err != nil {
			return nil, fmt.Errorf("scan region: %w: %v", apperr.ErrStorage, err)
		}
		regions = append(regions, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate regions: %w: %v", apperr.ErrStorage, err)
	}
	return regions, nil
}

// AdminPendingCount and AdminUserCount feed the admin dashboard block.
func (d *Database) AdminPendingCount(ctx context.Context) (int, error) {
	var n int
	err := d.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reports WHERE audit_status = 'PENDING'").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("pending count: %w: %v", apperr.ErrStorage, err)
	}
	return n, nil
}

func (d *Database) AdminUserCount(ctx context.Context) (int, error) {
	var n int
	err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("user count: %w: %v", apperr.ErrStorage, err)
	}
	return n, nil
}
