package service

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"pawrescue/models"
)

func TestSortFeed(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	reports := []models.Report{
		{ID: 1, Status: models.StatusNeedsRescue, CreatedAt: base},
		{ID: 2, Status: models.StatusRescued, CreatedAt: base.Add(2 * time.Hour)},
		{ID: 3, Status: models.StatusNeedsRescue, CreatedAt: base.Add(time.Hour)},
		{ID: 4, Status: models.StatusRescued, CreatedAt: base.Add(30 * time.Minute)},
	}

	sortFeed(reports)

	// Unresolved cases first, newest first within each group.
	expected := []int64{3, 1, 2, 4}
	for i, id := range expected {
		if reports[i].ID != id {
			t.Fatalf("position %d: got report %d, expected %d (order %v)",
				i, reports[i].ID, id, ids(reports))
		}
	}
}

func TestSortFeedStable(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	reports := []models.Report{
		{ID: 10, Status: models.StatusNeedsRescue, CreatedAt: at},
		{ID: 11, Status: models.StatusNeedsRescue, CreatedAt: at},
	}
	sortFeed(reports)
	if reports[0].ID != 10 || reports[1].ID != 11 {
		t.Errorf("equal-key reports reordered: %v", ids(reports))
	}
}

func ids(reports []models.Report) []int64 {
	out := make([]int64, len(reports))
	for i, r := range reports {
		out[i] = r.ID
	}
	return out
}

func TestFilterByRadius(t *testing.T) {
	viewer := models.Location{Lat: 31.0, Lng: 121.0}
	reports := []models.Report{
		// ~1.1km north of the viewer.
		{ID: 1, Location: models.Location{Lat: 31.01, Lng: 121.0}},
		// ~111km north of the viewer.
		{ID: 2, Location: models.Location{Lat: 32.0, Lng: 121.0}},
		// Unusable coordinates drop out instead of passing the filter.
		{ID: 3, Location: models.Location{Lat: 91.0, Lng: 121.0}},
	}

	got := filterByRadius(reports, viewer, 10000)
	if len(got) != 1 || got[0].ID != 1 {
		t.Errorf("filterByRadius kept %v, expected only report 1", ids(got))
	}
}

func TestFeed(t *testing.T) {
	it(func() {
		svc := newTestService()
		base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

		rows := sqlmock.NewRows(reportColumns)
		// Nearby, already rescued.
		addReportRow(rows, 1, 31.01, 121.0, models.StatusRescued, base.Add(time.Hour))
		// Nearby, still waiting.
		addReportRow(rows, 2, 31.02, 121.0, models.StatusNeedsRescue, base)
		// Far away, filtered out.
		addReportRow(rows, 3, 35.0, 121.0, models.StatusNeedsRescue, base)
		mock.ExpectQuery("SELECT (.+) FROM reports WHERE audit_status").
			WillReturnRows(rows)

		got, err := svc.Feed(context.Background(), FeedQuery{
			Viewer: &models.Location{Lat: 31.0, Lng: 121.0},
		})
		if err != nil {
			t.Fatalf("Feed returned error: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("Feed returned %d reports, expected 2 (%v)", len(got), ids(got))
		}
		if got[0].ID != 2 || got[1].ID != 1 {
			t.Errorf("Feed order = %v, expected [2 1]", ids(got))
		}
	})
}

func TestFeedRejectsBadInput(t *testing.T) {
	it(func() {
		svc := newTestService()

		if _, err := svc.Feed(context.Background(), FeedQuery{Status: "WAITING"}); err == nil {
			t.Error("unknown status should be rejected")
		}
		if _, err := svc.Feed(context.Background(), FeedQuery{
			Viewer: &models.Location{Lat: 123.0, Lng: 0},
		}); err == nil {
			t.Error("out-of-range viewer latitude should be rejected")
		}
	})
}
