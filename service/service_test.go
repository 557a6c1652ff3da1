package service

import (
	"database/sql"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jknair0/beforeeach"

	"pawrescue/config"
	"pawrescue/database"
	"pawrescue/identity"
	"pawrescue/intelligence"
	"pawrescue/models"
)

var (
	sqldb *sql.DB
	mock  sqlmock.Sqlmock
)

func setUp() {
	sqldb, mock, _ = sqlmock.New()
}

func tearDown() {
	sqldb.Close()
}

var it = beforeeach.Create(setUp, tearDown)

// newTestService wires a Service against the sqlmock connection with
// text analysis disabled and the identity provider in mock mode.
func newTestService() *Service {
	cfg := &config.Config{
		FeedRadiusMeters: 10000,
		FeedLimit:        100,
		AnalysisTimeout:  time.Second,
		IdentityTimeout:  time.Second,
		JWTSecret:        "test-secret",
		JWTTTL:           time.Hour,
	}
	return New(
		database.New(sqldb),
		cfg,
		intelligence.NewClient("", "test-model", time.Second),
		identity.NewClient("", "", "", time.Second),
		nil,
	)
}

var reportColumns = []string{
	"id", "description", "location_lat", "location_lng", "address",
	"status", "audit_status", "images", "videos",
	"reporter_name", "reporter_avatar", "reporter_identity",
	"ai_analysis", "rescue_details", "created_at",
}

// addReportRow appends one minimal report row for scanning.
func addReportRow(rows *sqlmock.Rows, id int64, lat, lng float64,
	status models.ReportStatus, createdAt time.Time) *sqlmock.Rows {
	return rows.AddRow(id, "desc", lat, lng, "addr",
		string(status), string(models.AuditApproved), "[]", "[]",
		"Reporter", "", "", "", "", createdAt)
}
