package database

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"pawrescue/models"
)

func TestCreateUserDuplicateDisplayID(t *testing.T) {
	it(func() {
		mock.ExpectExec("INSERT INTO users").
			WithArgs("wx_openid_1", "Tester", nil, "123456").
			WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

		d := New(db)
		_, err := d.CreateUser(context.Background(), &models.UserProfile{
			Identity:  "wx_openid_1",
			Nickname:  "Tester",
			DisplayID: "123456",
		})
		if !errors.Is(err, ErrDuplicateDisplayID) {
			t.Errorf("duplicate key insert = %v, expected ErrDuplicateDisplayID", err)
		}
	})
}

func TestCreateUser(t *testing.T) {
	it(func() {
		mock.ExpectExec("INSERT INTO users").
			WithArgs("wx_openid_2", "Tester", "https://cdn.test/a.png", "654321").
			WillReturnResult(sqlmock.NewResult(17, 1))

		d := New(db)
		id, err := d.CreateUser(context.Background(), &models.UserProfile{
			Identity:  "wx_openid_2",
			Nickname:  "Tester",
			AvatarURL: "https://cdn.test/a.png",
			DisplayID: "654321",
		})
		if err != nil {
			t.Fatalf("CreateUser returned error: %v", err)
		}
		if id != 17 {
			t.Errorf("CreateUser id = %d, expected 17", id)
		}
	})
}

func TestSetDisplayIDOnlyFillsEmpty(t *testing.T) {
	it(func() {
		// The WHERE display_id IS NULL guard keeps assigned ids immutable;
		// a zero-row update reports applied=false, not an error.
		mock.ExpectExec("UPDATE users SET display_id = \\? WHERE id = \\? AND display_id IS NULL").
			WithArgs("222333", int64(9)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		d := New(db)
		applied, err := d.SetDisplayID(context.Background(), 9, "222333")
		if err != nil {
			t.Errorf("SetDisplayID returned error: %v", err)
		}
		if applied {
			t.Error("applied = true, expected false for the guarded no-op")
		}

		mock.ExpectExec("UPDATE users SET display_id = \\? WHERE id = \\? AND display_id IS NULL").
			WithArgs("222333", int64(9)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		applied, err = d.SetDisplayID(context.Background(), 9, "222333")
		if err != nil {
			t.Errorf("SetDisplayID returned error: %v", err)
		}
		if !applied {
			t.Error("applied = false, expected true for the backfill")
		}
	})
}
