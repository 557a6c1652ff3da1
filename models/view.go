package models

import "strconv"

// View models are the JSON shapes handed to clients. Ids go out as strings
// and all media fields pass through the placeholder sanitizer exactly once,
// here, so no read path can forget it.

type ReportView struct {
	ID             string       `json:"id"`
	Description    string       `json:"description"`
	Location       Location     `json:"location"`
	Address        string       `json:"address"`
	Status         ReportStatus `json:"status"`
	AuditStatus    AuditStatus  `json:"auditStatus"`
	Images         MediaList    `json:"images"`
	Videos         MediaList    `json:"videos"`
	CreatedAt      int64        `json:"timestamp"`
	ReporterName   string       `json:"reporterName"`
	ReporterAvatar string       `json:"reporterAvatar"`
	ReporterID     string       `json:"reporterIdentity"`
	AIAnalysis     string       `json:"aiAnalysis,omitempty"`
	RescueDetails  string       `json:"rescueDetails,omitempty"`
	Audits         []AuditView  `json:"audits"`
}

type AuditView struct {
	ID           string      `json:"id"`
	ReportID     string      `json:"reportId"`
	ReviewerName string      `json:"reviewerName"`
	Decision     AuditStatus `json:"decision"`
	Comment      string      `json:"comment,omitempty"`
	CreatedAt    int64       `json:"createdAt"`
}

type RescueRecordView struct {
	ID              string       `json:"id"`
	ReportID        string       `json:"reportId"`
	RescuerName     string       `json:"rescuerName"`
	RescuerAvatar   string       `json:"rescuerAvatar"`
	RescuerIdentity string       `json:"rescuerIdentity"`
	Method          string       `json:"method"`
	Location        string       `json:"location,omitempty"`
	Notes           string       `json:"notes,omitempty"`
	Photos          MediaList    `json:"photos"`
	CreatedAt       int64        `json:"createdAt"`
	Description     string       `json:"description,omitempty"`
	Address         string       `json:"address,omitempty"`
	Images          MediaList    `json:"images"`
	Status          ReportStatus `json:"status,omitempty"`
	ReporterName    string       `json:"reporterName,omitempty"`
	ReporterAvatar  string       `json:"reporterAvatar,omitempty"`
}

type PostView struct {
	ID             string       `json:"id"`
	ReportID       string       `json:"reportId,omitempty"`
	Content        string       `json:"content"`
	Images         MediaList    `json:"images"`
	Videos         MediaList    `json:"videos"`
	AuthorName     string       `json:"authorName"`
	AuthorAvatar   string       `json:"authorAvatar"`
	AuthorIdentity string       `json:"authorIdentity"`
	CreatedAt      int64        `json:"createdAt"`
	CommentCount   int          `json:"commentCount"`
	ReportName     string       `json:"reportDescription,omitempty"`
	ReportImage    string       `json:"reportImage,omitempty"`
	ReportStatus   ReportStatus `json:"reportStatus,omitempty"`
}

type CommentView struct {
	ID             string `json:"id"`
	PostID         string `json:"postId"`
	ParentID       string `json:"parentId,omitempty"`
	Content        string `json:"content"`
	AuthorName     string `json:"authorName"`
	AuthorAvatar   string `json:"authorAvatar"`
	AuthorIdentity string `json:"authorIdentity"`
	CreatedAt      int64  `json:"createdAt"`
}

type NotificationView struct {
	ID           string `json:"id"`
	PostID       string `json:"postId"`
	Content      string `json:"content"`
	AuthorName   string `json:"authorName"`
	AuthorAvatar string `json:"authorAvatar"`
	IsRead       bool   `json:"isRead"`
	CreatedAt    int64  `json:"createdAt"`
	PostContent  string `json:"postContent"`
	PostImage    string `json:"postImage,omitempty"`
}

type UserView struct {
	ID        string `json:"id"`
	Identity  string `json:"identity"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatarUrl"`
	DisplayID string `json:"displayId"`
	Anonymous bool   `json:"anonymous,omitempty"`
}

type DailyView struct {
	ID           string    `json:"id"`
	ReportID     string    `json:"reportId"`
	AuthorName   string    `json:"authorName"`
	AuthorAvatar string    `json:"authorAvatar"`
	Content      string    `json:"content"`
	Images       MediaList `json:"images"`
	CreatedAt    int64     `json:"createdAt"`
}

type DailyCommentView struct {
	ID           string `json:"id"`
	DailyID      string `json:"dailyId"`
	AuthorName   string `json:"authorName"`
	AuthorAvatar string `json:"authorAvatar"`
	Content      string `json:"content"`
	CreatedAt    int64  `json:"createdAt"`
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

// ViewFromReport builds the outbound shape for a report.
func ViewFromReport(r *Report) ReportView {
	return ReportView{
		ID:             itoa(r.ID),
		Description:    r.Description,
		Location:       r.Location,
		Address:        r.Address,
		Status:         r.Status,
		AuditStatus:    r.AuditStatus,
		Images:         r.Images.Sanitized(),
		Videos:         r.Videos.Sanitized(),
		CreatedAt:      r.CreatedAt.UnixMilli(),
		ReporterName:   r.ReporterName,
		ReporterAvatar: SanitizeURL(r.ReporterAvatar),
		ReporterID:     r.ReporterIdentity,
		AIAnalysis:     r.AIAnalysis,
		RescueDetails:  r.RescueDetails,
		Audits:         []AuditView{},
	}
}

func ViewFromAudit(a *AuditEntry) AuditView {
	return AuditView{
		ID:           itoa(a.ID),
		ReportID:     itoa(a.ReportID),
		ReviewerName: a.ReviewerName,
		Decision:     a.Decision,
		Comment:      a.Comment,
		CreatedAt:    a.CreatedAt.UnixMilli(),
	}
}

func ViewFromRescueRecord(r *RescueRecord) RescueRecordView {
	return RescueRecordView{
		ID:              itoa(r.ID),
		ReportID:        itoa(r.ReportID),
		RescuerName:     r.RescuerName,
		RescuerAvatar:   SanitizeURL(r.RescuerAvatar),
		RescuerIdentity: r.RescuerIdentity,
		Method:          r.Method,
		Location:        r.Location,
		Notes:           r.Notes,
		Photos:          r.Photos.Sanitized(),
		CreatedAt:       r.CreatedAt.UnixMilli(),
		Description:     r.ReportDescription,
		Address:         r.ReportAddress,
		Images:          r.ReportImages.Sanitized(),
		Status:          r.ReportStatus,
		ReporterName:    r.ReporterName,
		ReporterAvatar:  SanitizeURL(r.ReporterAvatar),
	}
}

func ViewFromPost(p *CommunityPost) PostView {
	v := PostView{
		ID:             itoa(p.ID),
		Content:        p.Content,
		Images:         p.Images.Sanitized(),
		Videos:         p.Videos.Sanitized(),
		AuthorName:     p.AuthorName,
		AuthorAvatar:   SanitizeURL(p.AuthorAvatar),
		AuthorIdentity: p.AuthorIdentity,
		CreatedAt:      p.CreatedAt.UnixMilli(),
		CommentCount:   p.CommentCount,
		ReportName:     p.ReportDescription,
		ReportImage:    SanitizeURL(p.ReportImage),
		ReportStatus:   p.ReportStatus,
	}
	if p.ReportID != 0 {
		v.ReportID = itoa(p.ReportID)
	}
	return v
}

func ViewFromComment(c *Comment) CommentView {
	v := CommentView{
		ID:             itoa(c.ID),
		PostID:         itoa(c.PostID),
		Content:        c.Content,
		AuthorName:     c.AuthorName,
		AuthorAvatar:   SanitizeURL(c.AuthorAvatar),
		AuthorIdentity: c.AuthorIdentity,
		CreatedAt:      c.CreatedAt.UnixMilli(),
	}
	if c.ParentID != 0 {
		v.ParentID = itoa(c.ParentID)
	}
	return v
}

func ViewFromNotification(n *Notification) NotificationView {
	return NotificationView{
		ID:           itoa(n.CommentID),
		PostID:       itoa(n.PostID),
		Content:      n.Content,
		AuthorName:   n.AuthorName,
		AuthorAvatar: SanitizeURL(n.AuthorAvatar),
		IsRead:       n.IsRead,
		CreatedAt:    n.CreatedAt.UnixMilli(),
		PostContent:  n.PostContent,
		PostImage:    SanitizeURL(n.PostImage),
	}
}

func ViewFromUser(u *UserProfile) UserView {
	return UserView{
		ID:        itoa(u.ID),
		Identity:  u.Identity,
		Nickname:  u.Nickname,
		AvatarURL: SanitizeURL(u.AvatarURL),
		DisplayID: u.DisplayID,
	}
}

func ViewFromDaily(d *Daily) DailyView {
	return DailyView{
		ID:           itoa(d.ID),
		ReportID:     itoa(d.ReportID),
		AuthorName:   d.AuthorName,
		AuthorAvatar: SanitizeURL(d.AuthorAvatar),
		Content:      d.Content,
		Images:       d.Images.Sanitized(),
		CreatedAt:    d.CreatedAt.UnixMilli(),
	}
}

func ViewFromDailyComment(c *DailyComment) DailyCommentView {
	return DailyCommentView{
		ID:           itoa(c.ID),
		DailyID:      itoa(c.DailyID),
		AuthorName:   c.AuthorName,
		AuthorAvatar: SanitizeURL(c.AuthorAvatar),
		Content:      c.Content,
		CreatedAt:    c.CreatedAt.UnixMilli(),
	}
}
