package service

import (
	"context"

	"github.com/apex/log"

	"pawrescue/apperr"
	"pawrescue/models"
)

// PostInput carries a new community post, optionally linked to a report.
type PostInput struct {
	ReportID       int64
	Content        string
	Images         models.MediaList
	Videos         models.MediaList
	AuthorName     string
	AuthorAvatar   string
	AuthorIdentity string
}

// CreatePost validates and persists a community post.
func (s *Service) CreatePost(ctx context.Context, in PostInput) (*models.CommunityPost, error) {
	if in.Content == "" {
		return nil, apperr.MissingField("content")
	}
	if in.ReportID != 0 {
		if _, err := s.db.GetReport(ctx, in.ReportID); err != nil {
			return nil, err
		}
	}
	p := &models.CommunityPost{
		ReportID:       in.ReportID,
		Content:        in.Content,
		Images:         in.Images,
		Videos:         in.Videos,
		AuthorName:     in.AuthorName,
		AuthorAvatar:   in.AuthorAvatar,
		AuthorIdentity: in.AuthorIdentity,
	}
	id, err := s.db.InsertPost(ctx, p)
	if err != nil {
		return nil, err
	}
	p.ID = id
	return p, nil
}

// Posts lists community posts, optionally narrowed to one report.
func (s *Service) Posts(ctx context.Context, reportID int64, limit int) ([]models.CommunityPost, error) {
	if limit <= 0 || limit > s.cfg.FeedLimit {
		limit = s.cfg.FeedLimit
	}
	return s.db.ListPosts(ctx, reportID, limit)
}

// GetPost returns one post.
func (s *Service) GetPost(ctx context.Context, id int64) (*models.CommunityPost, error) {
	return s.db.GetPost(ctx, id)
}

// DeletePost removes a post and, via foreign keys, its comments.
func (s *Service) DeletePost(ctx context.Context, id int64) error {
	return s.db.DeletePost(ctx, id)
}

// CommentInput carries a new comment; ParentID of zero means a
// top-level comment on the post.
type CommentInput struct {
	PostID         int64
	ParentID       int64
	Content        string
	AuthorName     string
	AuthorAvatar   string
	AuthorIdentity string
}

// CreateComment persists a comment and resolves its notification target
// once, at creation time: the parent comment's author for replies,
// otherwise the post author. Talking to yourself notifies nobody, and a
// reply to a deleted comment quietly loses its target instead of
// failing the write.
func (s *Service) CreateComment(ctx context.Context, in CommentInput) (*models.Comment, error) {
	if in.PostID == 0 {
		return nil, apperr.MissingField("postId")
	}
	if in.Content == "" {
		return nil, apperr.MissingField("content")
	}

	target, err := s.resolveReplyTarget(ctx, in)
	if err != nil {
		return nil, err
	}

	c := &models.Comment{
		PostID:          in.PostID,
		ParentID:        in.ParentID,
		Content:         in.Content,
		AuthorName:      in.AuthorName,
		AuthorAvatar:    in.AuthorAvatar,
		AuthorIdentity:  in.AuthorIdentity,
		ReplyToIdentity: target,
	}
	id, err := s.db.InsertComment(ctx, c)
	if err != nil {
		return nil, err
	}
	c.ID = id
	return c, nil
}

func (s *Service) resolveReplyTarget(ctx context.Context, in CommentInput) (string, error) {
	// Both paths verify the post, so a comment on an unknown post is a
	// not-found rather than a foreign-key failure at insert time.
	postAuthor, err := s.db.GetPostAuthor(ctx, in.PostID)
	if err != nil {
		return "", err
	}
	target := postAuthor
	if in.ParentID != 0 {
		author, err := s.db.GetCommentAuthor(ctx, in.ParentID)
		if err != nil {
			return "", err
		}
		if author == "" {
			log.WithField("parent_id", in.ParentID).Debug("Reply target comment gone, storing without one")
		}
		target = author
	}
	if target != "" && target == in.AuthorIdentity {
		return "", nil
	}
	return target, nil
}

// Comments lists a post's comments, oldest first.
func (s *Service) Comments(ctx context.Context, postID int64) ([]models.Comment, error) {
	return s.db.ListComments(ctx, postID)
}

// DeleteComment removes one comment.
func (s *Service) DeleteComment(ctx context.Context, id int64) error {
	return s.db.DeleteComment(ctx, id)
}

// notificationLimit caps one notification page.
const notificationLimit = 50

// Notifications returns comments addressed to the identity: replies to
// their comments plus top-level comments on their posts, newest first.
func (s *Service) Notifications(ctx context.Context, identityRef string) ([]models.Notification, error) {
	if identityRef == "" {
		return nil, apperr.MissingField("identity")
	}
	return s.db.ListNotifications(ctx, identityRef, notificationLimit)
}

// UnreadCount returns the identity's unread notification count.
func (s *Service) UnreadCount(ctx context.Context, identityRef string) (int, error) {
	if identityRef == "" {
		return 0, apperr.MissingField("identity")
	}
	return s.db.CountUnreadNotifications(ctx, identityRef)
}

// MarkNotificationsRead marks every notification for the identity read.
func (s *Service) MarkNotificationsRead(ctx context.Context, identityRef string) error {
	if identityRef == "" {
		return apperr.MissingField("identity")
	}
	return s.db.MarkNotificationsRead(ctx, identityRef)
}

// DailyInput carries one rescue-diary entry for a report.
type DailyInput struct {
	ReportID     int64
	AuthorName   string
	AuthorAvatar string
	Content      string
	Images       models.MediaList
}

// CreateDaily appends a diary entry to a report.
func (s *Service) CreateDaily(ctx context.Context, in DailyInput) (*models.Daily, error) {
	if in.ReportID == 0 {
		return nil, apperr.MissingField("reportId")
	}
	if in.Content == "" {
		return nil, apperr.MissingField("content")
	}
	if _, err := s.db.GetReport(ctx, in.ReportID); err != nil {
		return nil, err
	}
	d := &models.Daily{
		ReportID:     in.ReportID,
		AuthorName:   in.AuthorName,
		AuthorAvatar: in.AuthorAvatar,
		Content:      in.Content,
		Images:       in.Images,
	}
	id, err := s.db.InsertDaily(ctx, d)
	if err != nil {
		return nil, err
	}
	d.ID = id
	return d, nil
}

// Dailies lists a report's diary entries, newest first.
func (s *Service) Dailies(ctx context.Context, reportID int64) ([]models.Daily, error) {
	return s.db.ListDailies(ctx, reportID)
}

// DeleteDaily removes a diary entry and its comments.
func (s *Service) DeleteDaily(ctx context.Context, id int64) error {
	return s.db.DeleteDaily(ctx, id)
}

// CreateDailyComment appends a flat comment to a diary entry.
func (s *Service) CreateDailyComment(ctx context.Context, dailyID int64, authorName, authorAvatar, content string) (*models.DailyComment, error) {
	if dailyID == 0 {
		return nil, apperr.MissingField("dailyId")
	}
	if content == "" {
		return nil, apperr.MissingField("content")
	}
	c := &models.DailyComment{
		DailyID:      dailyID,
		AuthorName:   authorName,
		AuthorAvatar: authorAvatar,
		Content:      content,
	}
	id, err := s.db.InsertDailyComment(ctx, c)
	if err != nil {
		return nil, err
	}
	c.ID = id
	return c, nil
}

// DailyComments lists a diary entry's comments, oldest first.
func (s *Service) DailyComments(ctx context.Context, dailyID int64) ([]models.DailyComment, error) {
	return s.db.ListDailyComments(ctx, dailyID)
}
