package service

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"pawrescue/apperr"
	"pawrescue/identity"
)

var displayIDPattern = regexp.MustCompile(`^[1-9]\d{5}$`)

func TestRandomDisplayID(t *testing.T) {
	for i := 0; i < 1000; i++ {
		id := randomDisplayID()
		if !displayIDPattern.MatchString(id) {
			t.Fatalf("randomDisplayID() = %q, expected six digits without a leading zero", id)
		}
	}
}

func TestLoginMockMode(t *testing.T) {
	it(func() {
		svc := newTestService()
		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

		// Mock mode resolves every code to the same identity, which
		// already has a profile with a display id.
		mock.ExpectQuery("SELECT (.+) FROM users WHERE identity").
			WithArgs(identity.MockIdentity).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "identity", "nickname", "avatar_url", "display_id",
				"created_at", "updated_at",
			}).AddRow(1, identity.MockIdentity, "Tester", "", "123456", now, now))

		profile, anonymous, err := svc.Login(context.Background(), "any-code")
		if err != nil {
			t.Fatalf("Login returned error: %v", err)
		}
		if anonymous {
			t.Error("mock-mode login should not be anonymous")
		}
		if profile.Identity != identity.MockIdentity {
			t.Errorf("identity = %q, expected the fixed mock identity", profile.Identity)
		}
		if profile.DisplayID != "123456" {
			t.Errorf("display id = %q, expected 123456", profile.DisplayID)
		}
	})
}

func TestRegisterNewUserAssignsDisplayID(t *testing.T) {
	it(func() {
		svc := newTestService()

		mock.ExpectQuery("SELECT (.+) FROM users WHERE identity").
			WithArgs("wx_new").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("SELECT id FROM users WHERE display_id").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectExec("INSERT INTO users").
			WillReturnResult(sqlmock.NewResult(21, 1))

		profile, err := svc.RegisterOrUpdate(context.Background(), "wx_new", "Newbie", "")
		if err != nil {
			t.Fatalf("RegisterOrUpdate returned error: %v", err)
		}
		if profile.ID != 21 {
			t.Errorf("profile id = %d, expected 21", profile.ID)
		}
		if !displayIDPattern.MatchString(profile.DisplayID) {
			t.Errorf("display id %q is not six digits", profile.DisplayID)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})
}

func TestBackfillLosesRaceToConcurrentAssignment(t *testing.T) {
	it(func() {
		svc := newTestService()
		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		userRows := func(displayID string) *sqlmock.Rows {
			return sqlmock.NewRows([]string{
				"id", "identity", "nickname", "avatar_url", "display_id",
				"created_at", "updated_at",
			}).AddRow(9, "wx_legacy", "Legacy", "", displayID, now, now)
		}

		// A legacy row without a display id gets one backfilled, but a
		// concurrent call wins the guarded update; the profile must then
		// carry the id that actually landed in the row.
		mock.ExpectQuery("SELECT (.+) FROM users WHERE identity").
			WithArgs("wx_legacy").
			WillReturnRows(userRows(""))
		mock.ExpectQuery("SELECT id FROM users WHERE display_id").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectExec("UPDATE users SET display_id").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT (.+) FROM users WHERE identity").
			WithArgs("wx_legacy").
			WillReturnRows(userRows("654321"))

		profile, err := svc.Profile(context.Background(), "wx_legacy")
		if err != nil {
			t.Fatalf("Profile returned error: %v", err)
		}
		if profile.DisplayID != "654321" {
			t.Errorf("display id = %q, expected the concurrently stored 654321",
				profile.DisplayID)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})
}

func TestDisplayIDExhaustion(t *testing.T) {
	it(func() {
		svc := newTestService()

		mock.ExpectQuery("SELECT (.+) FROM users WHERE identity").
			WithArgs("wx_unlucky").
			WillReturnError(sql.ErrNoRows)
		// Every candidate the resolver tries is already taken.
		for i := 0; i < displayIDAttempts; i++ {
			mock.ExpectQuery("SELECT id FROM users WHERE display_id").
				WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(i + 1)))
		}

		_, err := svc.RegisterOrUpdate(context.Background(), "wx_unlucky", "Unlucky", "")
		if !errors.Is(err, apperr.ErrDisplayIDExhausted) {
			t.Errorf("err = %v, expected ErrDisplayIDExhausted", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})
}

func TestLoginRequiresCode(t *testing.T) {
	it(func() {
		svc := newTestService()
		_, _, err := svc.Login(context.Background(), "")
		if !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("Login without code = %v, expected ErrValidation", err)
		}
	})
}
