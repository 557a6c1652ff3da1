package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/apex/log"
	"github.com/google/uuid"

	"pawrescue/apperr"
	"pawrescue/geo"
	"pawrescue/models"
)

// auditRequiredKey toggles whether new reports start PENDING or go
// straight to APPROVED. A missing key means moderation is on.
const auditRequiredKey = "audit_required"

// anonymousReporter labels reports submitted without a name.
const anonymousReporter = "Anonymous"

func (s *Service) auditRequired(ctx context.Context) bool {
	val, err := s.db.GetSetting(ctx, auditRequiredKey)
	if err != nil {
		log.WithError(err).Warn("Reading audit_required setting failed, defaulting to required")
		return true
	}
	if val == "" {
		return true
	}
	return val == "true"
}

// CreateReportInput carries a new report submission.
type CreateReportInput struct {
	Description      string
	Location         *models.Location
	Address          string
	Images           models.MediaList
	Videos           models.MediaList
	ReporterName     string
	ReporterAvatar   string
	ReporterIdentity string
	RescueDetails    string

	// InitialStatus overrides the NEEDS_RESCUE default. Only data-import
	// tooling sets this; the HTTP layer never forwards it.
	InitialStatus models.ReportStatus
}

// CreateReport validates and persists a new report. The initial audit
// status follows the audit_required setting; when text analysis is
// configured the description is annotated, and analysis failures degrade
// to a report without an annotation rather than failing the submission.
func (s *Service) CreateReport(ctx context.Context, in CreateReportInput) (*models.Report, error) {
	if in.Description == "" {
		return nil, apperr.MissingField("description")
	}
	if in.Location == nil {
		return nil, apperr.MissingField("location")
	}
	if in.Address == "" {
		return nil, apperr.MissingField("address")
	}
	if err := geo.Validate(in.Location.Lat, in.Location.Lng); err != nil {
		return nil, err
	}
	if in.ReporterName == "" {
		in.ReporterName = anonymousReporter
	}
	status := models.StatusNeedsRescue
	if in.InitialStatus != "" {
		if !in.InitialStatus.Valid() {
			return nil, apperr.Validationf("invalid status %q", in.InitialStatus)
		}
		status = in.InitialStatus
	}

	r := &models.Report{
		Description:      in.Description,
		Location:         *in.Location,
		Address:          in.Address,
		Status:           status,
		AuditStatus:      models.AuditApproved,
		Images:           in.Images,
		Videos:           in.Videos,
		ReporterName:     in.ReporterName,
		ReporterAvatar:   in.ReporterAvatar,
		ReporterIdentity: in.ReporterIdentity,
		RescueDetails:    in.RescueDetails,
	}
	if s.auditRequired(ctx) {
		r.AuditStatus = models.AuditPending
	}

	if s.analysis.Enabled() {
		actx, cancel := context.WithTimeout(ctx, s.cfg.AnalysisTimeout)
		annotation, err := s.analysis.AnalyzeReport(actx, in.Description)
		cancel()
		if err != nil {
			log.WithError(err).Warn("Report annotation unavailable, storing report without one")
		} else {
			r.AIAnalysis = annotation
		}
	}

	id, err := s.db.InsertReport(ctx, r)
	if err != nil {
		return nil, err
	}
	r.ID = id
	log.WithFields(log.Fields{
		"report_id":    id,
		"audit_status": string(r.AuditStatus),
	}).Info("Report created")
	return r, nil
}

// FeedQuery narrows the public feed. Viewer is the optional client
// location; the radius filter applies only when it is present.
type FeedQuery struct {
	Status       models.ReportStatus
	Viewer       *models.Location
	RadiusMeters float64
	Limit        int
}

// Feed returns approved reports near the viewer, urgent cases first.
func (s *Service) Feed(ctx context.Context, q FeedQuery) ([]models.Report, error) {
	if q.Status != "" && !q.Status.Valid() {
		return nil, apperr.Validationf("unknown status %q", q.Status)
	}
	if q.Viewer != nil {
		if err := geo.Validate(q.Viewer.Lat, q.Viewer.Lng); err != nil {
			return nil, err
		}
	}
	limit := q.Limit
	if limit <= 0 || limit > s.cfg.FeedLimit {
		limit = s.cfg.FeedLimit
	}

	reports, err := s.db.ListApprovedReports(ctx, q.Status, limit)
	if err != nil {
		return nil, err
	}
	if q.Viewer != nil {
		radius := q.RadiusMeters
		if radius <= 0 {
			radius = s.cfg.FeedRadiusMeters
		}
		reports = filterByRadius(reports, *q.Viewer, radius)
	}
	sortFeed(reports)
	return reports, nil
}

// filterByRadius keeps reports within radiusMeters of the viewer.
// Reports with coordinates that fail validation are dropped rather than
// shown at an unknown distance.
func filterByRadius(reports []models.Report, viewer models.Location, radiusMeters float64) []models.Report {
	kept := reports[:0]
	for _, r := range reports {
		ok, err := geo.WithinRadius(r.Location.Lat, r.Location.Lng, viewer.Lat, viewer.Lng, radiusMeters)
		if err != nil || !ok {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// sortFeed orders unresolved cases before rescued ones, newest first
// within each group.
func sortFeed(reports []models.Report) {
	sort.SliceStable(reports, func(i, j int) bool {
		a, b := reports[i], reports[j]
		if a.Status != b.Status {
			return a.Status == models.StatusNeedsRescue
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}

// GetReport returns one report regardless of audit status.
func (s *Service) GetReport(ctx context.Context, id int64) (*models.Report, error) {
	return s.db.GetReport(ctx, id)
}

// ReportAudits returns the moderation ledger for a report, newest first.
func (s *Service) ReportAudits(ctx context.Context, reportID int64) ([]models.AuditEntry, error) {
	return s.db.ListAuditsForReport(ctx, reportID)
}

// auditPageLimit bounds the system-wide ledger page on the admin side.
const auditPageLimit = 100

// AllAudits returns recent ledger entries across all reports.
func (s *Service) AllAudits(ctx context.Context) ([]models.AuditEntry, error) {
	return s.db.ListAllAudits(ctx, auditPageLimit)
}

// PendingReports returns the moderation queue.
func (s *Service) PendingReports(ctx context.Context) ([]models.Report, error) {
	return s.db.ListPendingReports(ctx)
}

// UpdateReport applies a partial edit to a report. The audit status is
// not editable here; it only moves through Moderate.
func (s *Service) UpdateReport(ctx context.Context, id int64, u models.ReportUpdate) error {
	if u.Empty() {
		return apperr.Validationf("no fields to update")
	}
	if u.Status != nil && !u.Status.Valid() {
		return apperr.Validationf("invalid status %q", *u.Status)
	}
	return s.db.UpdateReport(ctx, id, u)
}

// DeleteReport removes a report and, via foreign keys, its ledger,
// rescue records and diary entries.
func (s *Service) DeleteReport(ctx context.Context, id int64) error {
	return s.db.DeleteReport(ctx, id)
}

// RescueInput carries a new rescue record. MarkRescued additionally
// requests the report's one-way status flip.
type RescueInput struct {
	ReportID        int64
	RescuerName     string
	RescuerAvatar   string
	RescuerIdentity string
	Method          string
	Location        string
	Notes           string
	Photos          models.MediaList
	MarkRescued     bool
}

// AddRescueRecord appends evidence of a rescue action. When MarkRescued
// is set the report status is flipped with a compare-and-set so that
// concurrent rescuers produce exactly one NEEDS_RESCUE to RESCUED
// transition; the duplicate record is still kept as evidence.
func (s *Service) AddRescueRecord(ctx context.Context, in RescueInput) (*models.RescueRecord, bool, error) {
	if in.ReportID == 0 {
		return nil, false, apperr.MissingField("reportId")
	}
	if in.RescuerName == "" {
		return nil, false, apperr.MissingField("rescuerName")
	}
	if in.Method == "" {
		return nil, false, apperr.MissingField("method")
	}
	if _, err := s.db.GetReport(ctx, in.ReportID); err != nil {
		return nil, false, err
	}

	rec := &models.RescueRecord{
		ReportID:        in.ReportID,
		RescuerName:     in.RescuerName,
		RescuerAvatar:   in.RescuerAvatar,
		RescuerIdentity: in.RescuerIdentity,
		Method:          in.Method,
		Location:        in.Location,
		Notes:           in.Notes,
		Photos:          in.Photos,
	}
	id, err := s.db.InsertRescueRecord(ctx, rec)
	if err != nil {
		return nil, false, err
	}
	rec.ID = id

	flipped := false
	if in.MarkRescued {
		flipped, err = s.db.MarkRescued(ctx, in.ReportID)
		if err != nil {
			return nil, false, fmt.Errorf("mark report %d rescued: %w", in.ReportID, err)
		}
		if !flipped {
			log.WithField("report_id", in.ReportID).Info("Report already rescued, keeping record as extra evidence")
		}
	}
	return rec, flipped, nil
}

// RescueRecords lists recent rescue records, joined with their reports.
func (s *Service) RescueRecords(ctx context.Context, limit int) ([]models.RescueRecord, error) {
	if limit <= 0 || limit > s.cfg.FeedLimit {
		limit = s.cfg.FeedLimit
	}
	return s.db.ListRescueRecords(ctx, limit)
}

// RescueRecordsForReport lists rescue records for one report.
func (s *Service) RescueRecordsForReport(ctx context.Context, reportID int64) ([]models.RescueRecord, error) {
	return s.db.ListRescueRecordsForReport(ctx, reportID)
}

// AuditInput carries one moderation decision.
type AuditInput struct {
	ReportID     int64
	ReviewerName string
	Decision     models.AuditStatus
	Comment      string
}

// Moderate appends an entry to the report's moderation ledger. Only a
// privileged reviewer moves the report's audit status; everyone else's
// entry is advisory. A PENDING decision is not a decision and is
// rejected. Decisions stay correctable: a later privileged entry
// re-derives the status, so APPROVED and REJECTED can both be revisited.
func (s *Service) Moderate(ctx context.Context, in AuditInput, privileged bool) (*models.AuditEntry, error) {
	if in.ReportID == 0 {
		return nil, apperr.MissingField("reportId")
	}
	if in.ReviewerName == "" {
		return nil, apperr.MissingField("reviewerName")
	}
	if in.Decision != models.AuditApproved && in.Decision != models.AuditRejected {
		return nil, apperr.Validationf("decision must be APPROVED or REJECTED, got %q", in.Decision)
	}
	if _, err := s.db.GetReport(ctx, in.ReportID); err != nil {
		return nil, err
	}

	entry := &models.AuditEntry{
		ReportID:     in.ReportID,
		ReviewerName: in.ReviewerName,
		Decision:     in.Decision,
		Comment:      in.Comment,
		RequestID:    uuid.NewString(),
	}
	id, err := s.db.InsertAuditEntry(ctx, entry)
	if err != nil {
		return nil, err
	}
	entry.ID = id

	if privileged {
		if err := s.db.SetAuditStatus(ctx, in.ReportID, in.Decision); err != nil {
			return nil, err
		}
	}
	log.WithFields(log.Fields{
		"report_id":  in.ReportID,
		"decision":   string(in.Decision),
		"privileged": privileged,
		"request_id": entry.RequestID,
	}).Info("Audit entry recorded")
	return entry, nil
}

// aiReviewerName labels advisory ledger entries written by the text
// analysis collaborator.
const aiReviewerName = "ai-review"

// reviewUnavailable is stored when the analysis collaborator cannot
// produce a verdict; the review itself never blocks on it.
const reviewUnavailable = "Automated review unavailable; needs a manual look."

// ReviewRescue asks the analysis collaborator whether a report's rescue
// details are consistent with its description and records the verdict
// as an advisory ledger entry. It never moves the audit status, and an
// unreachable analyzer degrades to a placeholder verdict.
func (s *Service) ReviewRescue(ctx context.Context, reportID int64) (*models.AuditEntry, error) {
	r, err := s.db.GetReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if r.RescueDetails == "" {
		return nil, apperr.Validationf("report %d has no rescue details to review", reportID)
	}

	verdict := reviewUnavailable
	if s.analysis.Enabled() {
		actx, cancel := context.WithTimeout(ctx, s.cfg.AnalysisTimeout)
		v, err := s.analysis.AuditRescue(actx, r.Description, r.RescueDetails)
		cancel()
		if err != nil {
			log.WithError(err).Warn("Rescue review unavailable, recording placeholder verdict")
		} else {
			verdict = v
		}
	}

	entry := &models.AuditEntry{
		ReportID:     reportID,
		ReviewerName: aiReviewerName,
		Decision:     models.AuditPending,
		Comment:      verdict,
		RequestID:    uuid.NewString(),
	}
	id, err := s.db.InsertAuditEntry(ctx, entry)
	if err != nil {
		return nil, err
	}
	entry.ID = id
	return entry, nil
}
