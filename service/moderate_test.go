package service

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"pawrescue/apperr"
	"pawrescue/models"
)

func TestModerateRejectsNonDecisions(t *testing.T) {
	it(func() {
		svc := newTestService()

		testCases := []struct {
			name  string
			input AuditInput
		}{
			{
				name: "PENDING is not a decision",
				input: AuditInput{
					ReportID:     1,
					ReviewerName: "mod",
					Decision:     models.AuditPending,
				},
			},
			{
				name: "unknown decision",
				input: AuditInput{
					ReportID:     1,
					ReviewerName: "mod",
					Decision:     "MAYBE",
				},
			},
			{
				name: "missing reviewer",
				input: AuditInput{
					ReportID: 1,
					Decision: models.AuditApproved,
				},
			},
			{
				name: "missing report id",
				input: AuditInput{
					ReviewerName: "mod",
					Decision:     models.AuditApproved,
				},
			},
		}

		for _, tc := range testCases {
			_, err := svc.Moderate(context.Background(), tc.input, true)
			if !errors.Is(err, apperr.ErrValidation) {
				t.Errorf("%s: err = %v, expected ErrValidation", tc.name, err)
			}
		}

		// No SQL may run for rejected input.
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unexpected database activity: %v", err)
		}
	})
}

func TestModeratePrivilegedSetsStatus(t *testing.T) {
	it(func() {
		svc := newTestService()
		createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

		rows := sqlmock.NewRows(reportColumns)
		addReportRow(rows, 5, 31.0, 121.0, models.StatusNeedsRescue, createdAt)
		mock.ExpectQuery("SELECT (.+) FROM reports WHERE id").
			WithArgs(int64(5)).
			WillReturnRows(rows)
		mock.ExpectExec("INSERT INTO audit_entries").
			WillReturnResult(sqlmock.NewResult(31, 1))
		mock.ExpectExec("UPDATE reports SET audit_status").
			WithArgs(string(models.AuditRejected), int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		entry, err := svc.Moderate(context.Background(), AuditInput{
			ReportID:     5,
			ReviewerName: "admin",
			Decision:     models.AuditRejected,
			Comment:      "duplicate report",
		}, true)
		if err != nil {
			t.Fatalf("Moderate returned error: %v", err)
		}
		if entry.ID != 31 {
			t.Errorf("entry id = %d, expected 31", entry.ID)
		}
		if entry.RequestID == "" {
			t.Error("entry should carry a request id")
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})
}

func TestModerateAdvisoryLeavesStatus(t *testing.T) {
	it(func() {
		svc := newTestService()
		createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

		rows := sqlmock.NewRows(reportColumns)
		addReportRow(rows, 6, 31.0, 121.0, models.StatusNeedsRescue, createdAt)
		mock.ExpectQuery("SELECT (.+) FROM reports WHERE id").
			WithArgs(int64(6)).
			WillReturnRows(rows)
		mock.ExpectExec("INSERT INTO audit_entries").
			WillReturnResult(sqlmock.NewResult(32, 1))
		// No audit_status update is expected for community reviewers.

		_, err := svc.Moderate(context.Background(), AuditInput{
			ReportID:     6,
			ReviewerName: "helpful_user",
			Decision:     models.AuditApproved,
		}, false)
		if err != nil {
			t.Fatalf("Moderate returned error: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})
}

func TestAddRescueRecordValidation(t *testing.T) {
	it(func() {
		svc := newTestService()

		testCases := []struct {
			name  string
			input RescueInput
		}{
			{"missing report id", RescueInput{RescuerName: "r", Method: "fed"}},
			{"missing rescuer name", RescueInput{ReportID: 1, Method: "fed"}},
			{"missing method", RescueInput{ReportID: 1, RescuerName: "r"}},
		}
		for _, tc := range testCases {
			_, _, err := svc.AddRescueRecord(context.Background(), tc.input)
			if !errors.Is(err, apperr.ErrValidation) {
				t.Errorf("%s: err = %v, expected ErrValidation", tc.name, err)
			}
		}
	})
}

func TestAddRescueRecordFlipsOnce(t *testing.T) {
	it(func() {
		svc := newTestService()
		createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

		rows := sqlmock.NewRows(reportColumns)
		addReportRow(rows, 9, 31.0, 121.0, models.StatusNeedsRescue, createdAt)
		mock.ExpectQuery("SELECT (.+) FROM reports WHERE id").
			WithArgs(int64(9)).
			WillReturnRows(rows)
		mock.ExpectExec("INSERT INTO rescue_records").
			WillReturnResult(sqlmock.NewResult(71, 1))
		mock.ExpectExec("UPDATE reports SET status").
			WithArgs(string(models.StatusRescued), int64(9), string(models.StatusRescued)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		rec, flipped, err := svc.AddRescueRecord(context.Background(), RescueInput{
			ReportID:    9,
			RescuerName: "rescuer",
			Method:      "took to shelter",
			MarkRescued: true,
		})
		if err != nil {
			t.Fatalf("AddRescueRecord returned error: %v", err)
		}
		if !flipped {
			t.Error("first completion should flip the status")
		}
		if rec.ID != 71 {
			t.Errorf("record id = %d, expected 71", rec.ID)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})
}
