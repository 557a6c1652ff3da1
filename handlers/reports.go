package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pawrescue/middleware"
	"pawrescue/models"
	"pawrescue/service"
)

type createReportRequest struct {
	Description      string           `json:"description"`
	Location         *models.Location `json:"location"`
	Address          string           `json:"address"`
	Images           models.MediaList `json:"images"`
	Videos           models.MediaList `json:"videos"`
	ReporterName     string           `json:"reporterName"`
	ReporterAvatar   string           `json:"reporterAvatar"`
	ReporterIdentity string           `json:"reporterIdentity"`
	RescueDetails    string           `json:"rescueDetails"`
}

// CreateReportHandler accepts a new report submission.
func (h *Handlers) CreateReportHandler(c *gin.Context) {
	var req createReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	r, err := h.svc.CreateReport(c.Request.Context(), service.CreateReportInput{
		Description:      req.Description,
		Location:         req.Location,
		Address:          req.Address,
		Images:           req.Images,
		Videos:           req.Videos,
		ReporterName:     req.ReporterName,
		ReporterAvatar:   req.ReporterAvatar,
		ReporterIdentity: req.ReporterIdentity,
		RescueDetails:    req.RescueDetails,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.ViewFromReport(r))
}

// FeedHandler returns approved reports, optionally filtered by rescue
// status and proximity to the caller's lat/lng. The proximity radius is
// a deployment setting, not a query parameter.
func (h *Handlers) FeedHandler(c *gin.Context) {
	q := service.FeedQuery{
		Status: models.ReportStatus(c.Query("status")),
	}
	if q.Status == models.StatusFilterAll {
		q.Status = ""
	}
	if latStr, lngStr := c.Query("lat"), c.Query("lng"); latStr != "" && lngStr != "" {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lng, errLng := strconv.ParseFloat(lngStr, 64)
		if errLat != nil || errLng != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lat/lng"})
			return
		}
		q.Viewer = &models.Location{Lat: lat, Lng: lng}
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		q.Limit, _ = strconv.Atoi(limitStr)
	}

	reports, err := h.svc.Feed(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]models.ReportView, 0, len(reports))
	for i := range reports {
		views = append(views, models.ViewFromReport(&reports[i]))
	}
	c.JSON(http.StatusOK, views)
}

// GetReportHandler returns one report by id. The moderation ledger is
// served separately by ReportAuditsHandler.
func (h *Handlers) GetReportHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	r, err := h.svc.GetReport(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ViewFromReport(r))
}

// ReportAuditsHandler lists a report's moderation ledger, newest first.
func (h *Handlers) ReportAuditsHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	audits, err := h.svc.ReportAudits(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]models.AuditView, 0, len(audits))
	for i := range audits {
		views = append(views, models.ViewFromAudit(&audits[i]))
	}
	c.JSON(http.StatusOK, views)
}

type updateReportRequest struct {
	Description   *string              `json:"description"`
	Address       *string              `json:"address"`
	Status        *models.ReportStatus `json:"status"`
	Images        *models.MediaList    `json:"images"`
	Videos        *models.MediaList    `json:"videos"`
	RescueDetails *string              `json:"rescueDetails"`
}

// UpdateReportHandler applies a partial edit to a report.
func (h *Handlers) UpdateReportHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	var req updateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	err = h.svc.UpdateReport(c.Request.Context(), id, models.ReportUpdate{
		Description:   req.Description,
		Address:       req.Address,
		Status:        req.Status,
		Images:        req.Images,
		Videos:        req.Videos,
		RescueDetails: req.RescueDetails,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// DeleteReportHandler removes a report (admin only).
func (h *Handlers) DeleteReportHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.svc.DeleteReport(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

type auditRequest struct {
	ReviewerName string             `json:"reviewerName"`
	Decision     models.AuditStatus `json:"decision"`
	Comment      string             `json:"comment"`
}

// AuditReportHandler appends an advisory ledger entry. Community
// reviewers never move the audit status.
func (h *Handlers) AuditReportHandler(c *gin.Context) {
	h.handleAudit(c, false)
}

// AdminAuditReportHandler appends a privileged ledger entry that also
// sets the report's audit status. The reviewer name is taken from the
// session, not the body.
func (h *Handlers) AdminAuditReportHandler(c *gin.Context) {
	h.handleAudit(c, true)
}

func (h *Handlers) handleAudit(c *gin.Context, privileged bool) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	var req auditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	reviewer := req.ReviewerName
	if privileged {
		reviewer = middleware.AdminUser(c)
	}
	entry, err := h.svc.Moderate(c.Request.Context(), service.AuditInput{
		ReportID:     id,
		ReviewerName: reviewer,
		Decision:     req.Decision,
		Comment:      req.Comment,
	}, privileged)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.ViewFromAudit(entry))
}

// PendingReportsHandler returns the moderation queue with each report's
// ledger attached (admin only).
func (h *Handlers) PendingReportsHandler(c *gin.Context) {
	reports, err := h.svc.PendingReports(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]models.ReportView, 0, len(reports))
	for i := range reports {
		view := models.ViewFromReport(&reports[i])
		audits, err := h.svc.ReportAudits(c.Request.Context(), reports[i].ID)
		if err != nil {
			writeError(c, err)
			return
		}
		for j := range audits {
			view.Audits = append(view.Audits, models.ViewFromAudit(&audits[j]))
		}
		views = append(views, view)
	}
	c.JSON(http.StatusOK, views)
}

// AdminAuditsHandler returns the recent system-wide moderation ledger.
func (h *Handlers) AdminAuditsHandler(c *gin.Context) {
	audits, err := h.svc.AllAudits(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]models.AuditView, 0, len(audits))
	for i := range audits {
		views = append(views, models.ViewFromAudit(&audits[i]))
	}
	c.JSON(http.StatusOK, views)
}

// ReviewRescueHandler runs the advisory consistency review of a
// report's rescue details (admin only).
func (h *Handlers) ReviewRescueHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	entry, err := h.svc.ReviewRescue(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.ViewFromAudit(entry))
}

type rescueRequest struct {
	RescuerName     string           `json:"rescuerName"`
	RescuerAvatar   string           `json:"rescuerAvatar"`
	RescuerIdentity string           `json:"rescuerIdentity"`
	Method          string           `json:"method"`
	Location        string           `json:"location"`
	Notes           string           `json:"notes"`
	Photos          models.MediaList `json:"photos"`
	MarkRescued     bool             `json:"markRescued"`
}

// AddRescueHandler appends a rescue record, optionally flipping the
// report to RESCUED.
func (h *Handlers) AddRescueHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	var req rescueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	rec, flipped, err := h.svc.AddRescueRecord(c.Request.Context(), service.RescueInput{
		ReportID:        id,
		RescuerName:     req.RescuerName,
		RescuerAvatar:   req.RescuerAvatar,
		RescuerIdentity: req.RescuerIdentity,
		Method:          req.Method,
		Location:        req.Location,
		Notes:           req.Notes,
		Photos:          req.Photos,
		MarkRescued:     req.MarkRescued,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"record":        models.ViewFromRescueRecord(rec),
		"markedRescued": flipped,
	})
}

// RescueRecordsHandler lists recent rescue records across reports.
func (h *Handlers) RescueRecordsHandler(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	records, err := h.svc.RescueRecords(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]models.RescueRecordView, 0, len(records))
	for i := range records {
		views = append(views, models.ViewFromRescueRecord(&records[i]))
	}
	c.JSON(http.StatusOK, views)
}

// ReportRescuesHandler lists rescue records for one report.
func (h *Handlers) ReportRescuesHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	records, err := h.svc.RescueRecordsForReport(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]models.RescueRecordView, 0, len(records))
	for i := range records {
		views = append(views, models.ViewFromRescueRecord(&records[i]))
	}
	c.JSON(http.StatusOK, views)
}
