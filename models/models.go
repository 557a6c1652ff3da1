package models

import "time"

// ReportStatus is the rescue-progress state of a report. It moves from
// NEEDS_RESCUE to RESCUED exactly once and never back.
type ReportStatus string

const (
	StatusNeedsRescue ReportStatus = "NEEDS_RESCUE"
	StatusRescued     ReportStatus = "RESCUED"

	// StatusFilterAll disables status filtering in feed queries.
	StatusFilterAll = "ALL"
)

// Valid reports whether s is a known report status.
func (s ReportStatus) Valid() bool {
	return s == StatusNeedsRescue || s == StatusRescued
}

// AuditStatus is the moderation state gating viewer-facing visibility.
type AuditStatus string

const (
	AuditPending  AuditStatus = "PENDING"
	AuditApproved AuditStatus = "APPROVED"
	AuditRejected AuditStatus = "REJECTED"
)

// Valid reports whether s is a known audit status.
func (s AuditStatus) Valid() bool {
	return s == AuditPending || s == AuditApproved || s == AuditRejected
}

// Location is a WGS84 latitude/longitude pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Report is a submitted animal-sighting/rescue case.
type Report struct {
	ID               int64
	Description      string
	Location         Location
	Address          string
	Status           ReportStatus
	AuditStatus      AuditStatus
	Images           MediaList
	Videos           MediaList
	ReporterName     string
	ReporterAvatar   string
	ReporterIdentity string
	AIAnalysis       string
	RescueDetails    string
	CreatedAt        time.Time
}

// ReportUpdate carries a partial edit. Nil fields are left untouched.
// Audit status is deliberately absent: moderation state changes only
// through the audit transition.
type ReportUpdate struct {
	Description   *string
	Address       *string
	Status        *ReportStatus
	Images        *MediaList
	Videos        *MediaList
	RescueDetails *string
}

// Empty reports whether the update carries no fields at all.
func (u ReportUpdate) Empty() bool {
	return u.Description == nil && u.Address == nil && u.Status == nil &&
		u.Images == nil && u.Videos == nil && u.RescueDetails == nil
}

// AuditEntry is one append-only moderation ledger row for a report.
type AuditEntry struct {
	ID           int64
	ReportID     int64
	ReviewerName string
	Decision     AuditStatus
	Comment      string
	RequestID    string
	CreatedAt    time.Time
}

// RescueRecord is append-only evidence of a rescue action on a report.
type RescueRecord struct {
	ID              int64
	ReportID        int64
	RescuerName     string
	RescuerAvatar   string
	RescuerIdentity string
	Method          string
	Location        string
	Notes           string
	Photos          MediaList
	CreatedAt       time.Time

	// Joined report fields for list views.
	ReportDescription string
	ReportAddress     string
	ReportImages      MediaList
	ReportStatus      ReportStatus
	ReporterName      string
	ReporterAvatar    string
	ReporterIdentity  string
}

// CommunityPost is a social post, optionally linked to a report.
type CommunityPost struct {
	ID             int64
	ReportID       int64 // 0 when unlinked
	Content        string
	Images         MediaList
	Videos         MediaList
	AuthorName     string
	AuthorAvatar   string
	AuthorIdentity string
	CreatedAt      time.Time

	CommentCount int
	// Linked report snippet for list views.
	ReportDescription string
	ReportImage       string
	ReportStatus      ReportStatus
}

// Comment belongs to exactly one post; ParentID links a threaded reply.
// ReplyToIdentity is resolved once at creation time and never recomputed.
type Comment struct {
	ID              int64
	PostID          int64
	ParentID        int64 // 0 for top-level comments
	Content         string
	AuthorName      string
	AuthorAvatar    string
	AuthorIdentity  string
	ReplyToIdentity string
	IsRead          bool
	CreatedAt       time.Time
}

// Notification is a comment surfaced on someone's notification feed,
// joined with a snippet of the post it was made on.
type Notification struct {
	CommentID    int64
	PostID       int64
	Content      string
	AuthorName   string
	AuthorAvatar string
	IsRead       bool
	CreatedAt    time.Time
	PostContent  string
	PostImage    string
}

// UserProfile is the persistent identity record. DisplayID is a short
// unique numeric alias assigned once and never reassigned.
type UserProfile struct {
	ID        int64
	Identity  string
	Nickname  string
	AvatarURL string
	DisplayID string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Daily is a rescue-diary entry attached to a report.
type Daily struct {
	ID           int64
	ReportID     int64
	AuthorName   string
	AuthorAvatar string
	Content      string
	Images       MediaList
	CreatedAt    time.Time
}

// DailyComment is a flat comment on a diary entry.
type DailyComment struct {
	ID           int64
	DailyID      int64
	AuthorName   string
	AuthorAvatar string
	Content      string
	CreatedAt    time.Time
}

// StatsOverview is the dashboard headline block.
type StatsOverview struct {
	TotalReports int `json:"totalReports"`
	NeedsRescue  int `json:"needsRescue"`
	Rescued      int `json:"rescued"`
	TodayNew     int `json:"todayNew"`
}

// TrendPoint is one day of report/rescue activity.
type TrendPoint struct {
	Date    string `json:"date"`
	Reports int    `json:"reports"`
	Rescued int    `json:"rescued"`
}

// RegionCount aggregates reports by the leading address segment.
type RegionCount struct {
	Region  string `json:"region"`
	Count   int    `json:"count"`
	Rescued int    `json:"rescued"`
}
