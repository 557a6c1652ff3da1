package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pawrescue/models"
	"pawrescue/service"
)

type createPostRequest struct {
	ReportID       string           `json:"reportId"`
	Content        string           `json:"content"`
	Images         models.MediaList `json:"images"`
	Videos         models.MediaList `json:"videos"`
	AuthorName     string           `json:"authorName"`
	AuthorAvatar   string           `json:"authorAvatar"`
	AuthorIdentity string           `json:"authorIdentity"`
}

// CreatePostHandler accepts a new community post.
func (h *Handlers) CreatePostHandler(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	var reportID int64
	if req.ReportID != "" {
		var err error
		reportID, err = strconv.ParseInt(req.ReportID, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reportId"})
			return
		}
	}
	p, err := h.svc.CreatePost(c.Request.Context(), service.PostInput{
		ReportID:       reportID,
		Content:        req.Content,
		Images:         req.Images,
		Videos:         req.Videos,
		AuthorName:     req.AuthorName,
		AuthorAvatar:   req.AuthorAvatar,
		AuthorIdentity: req.AuthorIdentity,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.ViewFromPost(p))
}

// PostsHandler lists community posts, optionally for one report.
func (h *Handlers) PostsHandler(c *gin.Context) {
	var reportID int64
	if s := c.Query("reportId"); s != "" {
		var err error
		reportID, err = strconv.ParseInt(s, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reportId"})
			return
		}
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	posts, err := h.svc.Posts(c.Request.Context(), reportID, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]models.PostView, 0, len(posts))
	for i := range posts {
		views = append(views, models.ViewFromPost(&posts[i]))
	}
	c.JSON(http.StatusOK, views)
}

// GetPostHandler returns one post.
func (h *Handlers) GetPostHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	p, err := h.svc.GetPost(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ViewFromPost(p))
}

// DeletePostHandler removes a post (admin only).
func (h *Handlers) DeletePostHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.svc.DeletePost(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

type createCommentRequest struct {
	ParentID       string `json:"parentId"`
	Content        string `json:"content"`
	AuthorName     string `json:"authorName"`
	AuthorAvatar   string `json:"authorAvatar"`
	AuthorIdentity string `json:"authorIdentity"`
}

// CreateCommentHandler accepts a comment or threaded reply on a post.
func (h *Handlers) CreateCommentHandler(c *gin.Context) {
	postID, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	var parentID int64
	if req.ParentID != "" {
		parentID, err = strconv.ParseInt(req.ParentID, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parentId"})
			return
		}
	}
	comment, err := h.svc.CreateComment(c.Request.Context(), service.CommentInput{
		PostID:         postID,
		ParentID:       parentID,
		Content:        req.Content,
		AuthorName:     req.AuthorName,
		AuthorAvatar:   req.AuthorAvatar,
		AuthorIdentity: req.AuthorIdentity,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.ViewFromComment(comment))
}

// CommentsHandler lists a post's comments, oldest first.
func (h *Handlers) CommentsHandler(c *gin.Context) {
	postID, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	comments, err := h.svc.Comments(c.Request.Context(), postID)
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]models.CommentView, 0, len(comments))
	for i := range comments {
		views = append(views, models.ViewFromComment(&comments[i]))
	}
	c.JSON(http.StatusOK, views)
}

// DeleteCommentHandler removes a comment (admin only).
func (h *Handlers) DeleteCommentHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.svc.DeleteComment(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// NotificationsHandler returns the identity's notification feed.
func (h *Handlers) NotificationsHandler(c *gin.Context) {
	identity := c.Query("identity")
	notifications, err := h.svc.Notifications(c.Request.Context(), identity)
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]models.NotificationView, 0, len(notifications))
	for i := range notifications {
		views = append(views, models.ViewFromNotification(&notifications[i]))
	}
	c.JSON(http.StatusOK, views)
}

// UnreadCountHandler returns the identity's unread notification count.
func (h *Handlers) UnreadCountHandler(c *gin.Context) {
	count, err := h.svc.UnreadCount(c.Request.Context(), c.Query("identity"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

type markReadRequest struct {
	Identity string `json:"identity"`
}

// MarkReadHandler marks the identity's notifications read.
func (h *Handlers) MarkReadHandler(c *gin.Context) {
	var req markReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.svc.MarkNotificationsRead(c.Request.Context(), req.Identity); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked": true})
}

type createDailyRequest struct {
	AuthorName   string           `json:"authorName"`
	AuthorAvatar string           `json:"authorAvatar"`
	Content      string           `json:"content"`
	Images       models.MediaList `json:"images"`
}

// CreateDailyHandler appends a diary entry to a report.
func (h *Handlers) CreateDailyHandler(c *gin.Context) {
	reportID, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	var req createDailyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	d, err := h.svc.CreateDaily(c.Request.Context(), service.DailyInput{
		ReportID:     reportID,
		AuthorName:   req.AuthorName,
		AuthorAvatar: req.AuthorAvatar,
		Content:      req.Content,
		Images:       req.Images,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.ViewFromDaily(d))
}

// DailiesHandler lists a report's diary entries.
func (h *Handlers) DailiesHandler(c *gin.Context) {
	reportID, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	dailies, err := h.svc.Dailies(c.Request.Context(), reportID)
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]models.DailyView, 0, len(dailies))
	for i := range dailies {
		views = append(views, models.ViewFromDaily(&dailies[i]))
	}
	c.JSON(http.StatusOK, views)
}

// DeleteDailyHandler removes a diary entry (admin only).
func (h *Handlers) DeleteDailyHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.svc.DeleteDaily(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

type dailyCommentRequest struct {
	AuthorName   string `json:"authorName"`
	AuthorAvatar string `json:"authorAvatar"`
	Content      string `json:"content"`
}

// CreateDailyCommentHandler appends a comment to a diary entry.
func (h *Handlers) CreateDailyCommentHandler(c *gin.Context) {
	dailyID, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	var req dailyCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	comment, err := h.svc.CreateDailyComment(c.Request.Context(), dailyID,
		req.AuthorName, req.AuthorAvatar, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.ViewFromDailyComment(comment))
}

// DailyCommentsHandler lists a diary entry's comments.
func (h *Handlers) DailyCommentsHandler(c *gin.Context) {
	dailyID, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	comments, err := h.svc.DailyComments(c.Request.Context(), dailyID)
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]models.DailyCommentView, 0, len(comments))
	for i := range comments {
		views = append(views, models.ViewFromDailyComment(&comments[i]))
	}
	c.JSON(http.StatusOK, views)
}
