package database

import (
	"context"
	"database/sql"
	"fmt"

	"pawrescue/apperr"
	"pawrescue/models"
)

// InsertPost stores a community post, optionally linked to a report.
func (d *Database) InsertPost(ctx context.Context, p *models.CommunityPost) (int64, error) {
	res, err := d.db.ExecContext(ctx, `
		INSERT INTO community_posts (report_id, content, images, videos,
			author_name, author_avatar, author_identity)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		nullableID(p.ReportID), p.Content, p.Images, p.Videos,
		p.AuthorName, nullableStr(p.AuthorAvatar), nullableStr(p.AuthorIdentity),
	)
	if err != nil {
		return 0, fmt.Errorf("insert post: %w: %v", apperr.ErrStorage, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert post id: %w: %v", apperr.ErrStorage, err)
	}
	return id, nil
}

// GetPost fetches a single post.
func (d *Database) GetPost(ctx context.Context, id int64) (*models.CommunityPost, error) {
	var p models.CommunityPost
	var reportID sql.NullInt64
	err := d.db.QueryRowContext(ctx, `
		SELECT id, report_id, content, images, videos,
			COALESCE(author_name, ''), COALESCE(author_avatar, ''),
			COALESCE(author_identity, ''), created_at
		FROM community_posts WHERE id = ?`, id).Scan(
		&p.ID, &reportID, &p.Content, &p.Images, &p.Videos,
		&p.AuthorName, &p.AuthorAvatar, &p.AuthorIdentity, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("post %d: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get post %d: %w: %v", id, apperr.ErrStorage, err)
	}
	p.ReportID = reportID.Int64
	return &p, nil
}

// ListPosts returns posts newest first with comment counts and a linked
// report snippet. reportID narrows to one report's posts; 0 lists all.
func (d *Database) ListPosts(ctx context.Context, reportID int64, limit int) ([]models.CommunityPost, error) {
	query := `
		SELECT p.id, p.report_id, p.content, p.images, p.videos,
			COALESCE(p.author_name, ''), COALESCE(p.author_avatar, ''),
			COALESCE(p.author_identity, ''), p.created_at,
			COUNT(c.id),
			COALESCE(r.description, ''), r.images,
			COALESCE(r.status, '')
		FROM community_posts p
		LEFT JOIN community_comments c ON p.id = c.post_id
		LEFT JOIN reports r ON p.report_id = r.id`
	args := []any{}
	if reportID != 0 {
		query += ` WHERE p.report_id = ?`
		args = append(args, reportID)
	}
	query += ` GROUP BY p.id ORDER BY p.created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w: %v", apperr.ErrStorage, err)
	}
	defer rows.Close()

	var posts []models.CommunityPost
	for rows.Next() {
		var p models.CommunityPost
		var linkedID sql.NullInt64
		var reportImages models.MediaList
		var reportStatus string
		if err := rows.Scan(&p.ID, &linkedID, &p.Content, &p.Images, &p.Videos,
			&p.AuthorName, &p.AuthorAvatar, &p.AuthorIdentity, &p.CreatedAt,
			&p.CommentCount, &p.ReportDescription, &reportImages,
			&reportStatus); err != nil {
			return nil, fmt.Errorf("scan post: %w: %v", apperr.ErrStorage, err)
		}
		p.ReportID = linkedID.Int64
		p.ReportStatus = models.ReportStatus(reportStatus)
		if len(reportImages) > 0 {
			p.ReportImage = reportImages[0]
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w: %v", apperr.ErrStorage, err)
	}
	return posts, nil
}

// DeletePost removes a post; its comments go via FK cascade.
func (d *Database) DeletePost(ctx context.Context, id int64) error {
	res, err := d.db.ExecContext(ctx, "DELETE FROM community_posts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete post %d: %w: %v", id, apperr.ErrStorage, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete post %d: %w: %v", id, apperr.ErrStorage, err)
	}
	if rows == 0 {
		return fmt.Errorf("post %d: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// InsertComment stores a comment with its pre-resolved notification target.
func (d *Database) InsertComment(ctx context.Context, c *models.Comment) (int64, error) {
	res, err := d.db.ExecContext(ctx, `
		INSERT INTO community_comments (post_id, parent_id, content,
			author_name, author_avatar, author_identity, reply_to_identity)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.PostID, nullableID(c.ParentID), c.Content,
		c.AuthorName, nullableStr(c.AuthorAvatar),
		nullableStr(c.AuthorIdentity), nullableStr(c.ReplyToIdentity),
	)
	if err != nil {
		return 0, fmt.Errorf("insert comment: %w: %v", apperr.ErrStorage, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert comment id: %w: %v", apperr.ErrStorage, err)
	}
	return id, nil
}

// ListComments returns a post's comments oldest first, for threading.
func (d *Database) ListComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, post_id, COALESCE(parent_id, 0), content,
			COALESCE(author_name, ''), COALESCE(author_avatar, ''),
			COALESCE(author_identity, ''), COALESCE(reply_to_identity, ''),
			is_read, created_at
		FROM community_comments
		WHERE post_id = ?
		ORDER BY created_at ASC`, postID)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w: %v", apperr.ErrStorage, err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.ParentID, &c.Content,
			&c.AuthorName, &c.AuthorAvatar, &c.AuthorIdentity,
			&c.ReplyToIdentity, &c.IsRead, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w: %v", apperr.ErrStorage, err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w: %v", apperr.ErrStorage, err)
	}
	return comments, nil
}

// DeleteComment removes a single comment (admin surface).
func (d *Database) DeleteComment(ctx context.Context, id int64) error {
	res, err := d.db.ExecContext(ctx, "DELETE FROM community_comments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete comment %d: %w: %v", id, apperr.ErrStorage, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete comment %d: %w: %v", id, apperr.ErrStorage, err)
	}
	if rows == 0 {
		return fmt.Errorf("comment %d: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// GetCommentAuthor returns the author identity of a comment, or "" when
// the comment does not exist or was posted anonymously.
func (d *Database) GetCommentAuthor(ctx context.Context, commentID int64) (string, error) {
	var identity sql.NullString
	err := d.db.QueryRowContext(ctx,
		"SELECT author_identity FROM community_comments WHERE id = ?",
		commentID).Scan(&identity)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("comment author %d: %w: %v", commentID, apperr.ErrStorage, err)
	}
	return identity.String, nil
}

// GetPostAuthor returns the author identity of a post, or "" when absent.
func (d *Database) GetPostAuthor(ctx context.Context, postID int64) (string, error) {
	var identity sql.NullString
	err := d.db.QueryRowContext(ctx,
		"SELECT author_identity FROM community_posts WHERE id = ?",
		postID).Scan(&identity)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("post %d: %w", postID, apperr.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("post author %d: %w: %v", postID, apperr.ErrStorage, err)
	}
	return identity.String, nil
}

// notificationPredicate selects comments that notify the given identity:
// explicit replies to them, plus comments by others on their posts.
const notificationPredicate = `
	(c.reply_to_identity = ?
		OR (p.author_identity = ? AND (c.author_identity IS NULL OR c.author_identity != ?)))`

// ListNotifications returns the identity's notification feed, newest
// first, bounded.
func (d *Database) ListNotifications(ctx context.Context, identity string, limit int) ([]models.Notification, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT c.id, c.post_id, c.content,
			COALESCE(c.author_name, ''), COALESCE(c.author_avatar, ''),
			c.is_read, c.created_at,
			COALESCE(p.content, ''), p.images
		FROM community_comments c
		JOIN community_posts p ON c.post_id = p.id
		WHERE `+notificationPredicate+`
		ORDER BY c.created_at DESC
		LIMIT ?`, identity, identity, identity, limit)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w: %v", apperr.ErrStorage, err)
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		var postImages models.MediaList
		if err := rows.Scan(&n.CommentID, &n.PostID, &n.Content,
			&n.AuthorName, &n.AuthorAvatar, &n.IsRead, &n.CreatedAt,
			&n.PostContent, &postImages); err != nil {
			return nil, fmt.Errorf("scan notification: %w: %v", apperr.ErrStorage, err)
		}
		if len(postImages) > 0 {
			n.PostImage = postImages[0]
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w: %v", apperr.ErrStorage, err)
	}
	return notifications, nil
}

// CountUnreadNotifications counts the unread part of the same predicate.
func (d *Database) CountUnreadNotifications(ctx context.Context, identity string) (int, error) {
	var count int
	err := d.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM community_comments c
		JOIN community_posts p ON c.post_id = p.id
		WHERE `+notificationPredicate+`
		AND c.is_read = FALSE`, identity, identity, identity).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w: %v", apperr.ErrStorage, err)
	}
	return count, nil
}

// MarkNotificationsRead marks the identity's entire notification surface
// read in one pass. There is no per-notification acknowledgment.
func (d *Database) MarkNotificationsRead(ctx context.Context, identity string) error {
	_, err := d.db.ExecContext(ctx, `
		UPDATE community_comments c
		JOIN community_posts p ON c.post_id = p.id
		SET c.is_read = TRUE
		WHERE `+notificationPredicate, identity, identity, identity)
	if err != nil {
		return fmt.Errorf("mark notifications read: %w: %v", apperr.ErrStorage, err)
	}
	return nil
}
