package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"pawrescue/apperr"
)

func TestGetCommentAuthorMissingComment(t *testing.T) {
	it(func() {
		// A reply to a deleted comment resolves to no target rather
		// than failing the write.
		mock.ExpectQuery("SELECT author_identity FROM community_comments").
			WithArgs(int64(123)).
			WillReturnError(sql.ErrNoRows)

		d := New(db)
		author, err := d.GetCommentAuthor(context.Background(), 123)
		if err != nil {
			t.Errorf("GetCommentAuthor on missing comment = %v, expected nil", err)
		}
		if author != "" {
			t.Errorf("author = %q, expected empty", author)
		}
	})
}

func TestGetPostAuthorMissingPost(t *testing.T) {
	it(func() {
		mock.ExpectQuery("SELECT author_identity FROM community_posts").
			WithArgs(int64(456)).
			WillReturnError(sql.ErrNoRows)

		d := New(db)
		_, err := d.GetPostAuthor(context.Background(), 456)
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("GetPostAuthor on missing post = %v, expected ErrNotFound", err)
		}
	})
}

func TestCountUnreadNotifications(t *testing.T) {
	it(func() {
		// The predicate binds the identity three times: reply target,
		// post author, self-exclusion.
		mock.ExpectQuery("SELECT COUNT").
			WithArgs("wx_user_9", "wx_user_9", "wx_user_9").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		d := New(db)
		count, err := d.CountUnreadNotifications(context.Background(), "wx_user_9")
		if err != nil {
			t.Fatalf("CountUnreadNotifications returned error: %v", err)
		}
		if count != 3 {
			t.Errorf("count = %d, expected 3", count)
		}
	})
}
