package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jknair0/beforeeach"

	"pawrescue/apperr"
	"pawrescue/models"
)

var (
	db   *sql.DB
	mock sqlmock.Sqlmock
)

func setUp() {
	db, mock, _ = sqlmock.New()
}

func tearDown() {
	db.Close()
}

var it = beforeeach.Create(setUp, tearDown)

func TestMarkRescued(t *testing.T) {
	it(func() {
		testCases := []struct {
			name          string
			rowsAffected  int64
			expectFlipped bool
		}{
			{
				name:          "first completion flips the status",
				rowsAffected:  1,
				expectFlipped: true,
			},
			{
				name:          "second completion is a no-op",
				rowsAffected:  0,
				expectFlipped: false,
			},
		}

		d := New(db)
		for _, tc := range testCases {
			mock.ExpectExec("UPDATE reports SET status").
				WithArgs(string(models.StatusRescued), int64(42), string(models.StatusRescued)).
				WillReturnResult(sqlmock.NewResult(0, tc.rowsAffected))

			flipped, err := d.MarkRescued(context.Background(), 42)
			if err != nil {
				t.Errorf("%s: MarkRescued returned error: %v", tc.name, err)
			}
			if flipped != tc.expectFlipped {
				t.Errorf("%s: flipped = %v, expected %v", tc.name, flipped, tc.expectFlipped)
			}
		}

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})
}

func TestGetReportNotFound(t *testing.T) {
	it(func() {
		mock.ExpectQuery("SELECT (.+) FROM reports WHERE id").
			WithArgs(int64(7)).
			WillReturnError(sql.ErrNoRows)

		d := New(db)
		_, err := d.GetReport(context.Background(), 7)
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("GetReport on missing row = %v, expected ErrNotFound", err)
		}
	})
}

func TestUpdateReport(t *testing.T) {
	it(func() {
		d := New(db)

		// Empty update is rejected before touching the database.
		err := d.UpdateReport(context.Background(), 1, models.ReportUpdate{})
		if !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("empty update = %v, expected ErrValidation", err)
		}

		desc := "updated description"
		mock.ExpectExec("UPDATE reports SET description").
			WithArgs(desc, int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		if err := d.UpdateReport(context.Background(), 1, models.ReportUpdate{Description: &desc}); err != nil {
			t.Errorf("UpdateReport returned error: %v", err)
		}

		// Zero affected rows triggers an existence check; a missing row
		// is the only 404.
		mock.ExpectExec("UPDATE reports SET description").
			WithArgs(desc, int64(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		err = d.UpdateReport(context.Background(), 99, models.ReportUpdate{Description: &desc})
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("update of missing report = %v, expected ErrNotFound", err)
		}

		// Re-sending the stored values also changes zero rows; the
		// driver counts changed rows, and an identical update on an
		// existing report must still succeed.
		mock.ExpectExec("UPDATE reports SET description").
			WithArgs(desc, int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		if err := d.UpdateReport(context.Background(), 1, models.ReportUpdate{Description: &desc}); err != nil {
			t.Errorf("identical update on existing report = %v, expected success", err)
		}

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})
}

func TestSetAuditStatusIdempotent(t *testing.T) {
	it(func() {
		// Re-asserting the stored decision affects zero rows; that must
		// not surface as a missing report.
		mock.ExpectExec("UPDATE reports SET audit_status").
			WithArgs(string(models.AuditApproved), int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		d := New(db)
		if err := d.SetAuditStatus(context.Background(), 5, models.AuditApproved); err != nil {
			t.Errorf("SetAuditStatus returned error: %v", err)
		}
	})
}
