package audit

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newTestStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := NewStoreWithDB(db)
	store.hostname = "host1"
	store.pid = "42"
	store.now = func() time.Time {
		return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	}
	return store, mock
}

func TestStoreSaveAuthenticateEvent(t *testing.T) {
	store, mock := newTestStore(t)

	event := AuthenticateEvent{
		User:     "alice",
		ClientIP: "192.168.1.1",
		Method:   "basic",
		Success:  true,
	}

	mock.ExpectExec(`INSERT INTO audit_messages`).
		WithArgs(
			FacilityAuthPriv,  // facility
			int(SeverityInfo), // severity
			time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
			"host1",
			"nasa",
			"42",
			"authn",
			[]byte(`{"auth@32473":{"method":"basic","user":"alice"},"client@32473":{"ip":"192.168.1.1"}}`),
			"alice successfully authenticated with basic",
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := store.Save(event); err != nil {
		t.Errorf("Save() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreSaveAccessDeniedEvent(t *testing.T) {
	store, mock := newTestStore(t)

	event := AccessDeniedEvent{
		User:     "emma",
		ClientIP: "10.0.0.1",
		Method:   "DELETE",
		Path:     "/api/apod/{id}",
		Required: []string{"ROLE_ADMIN"},
		Reason:   "forbidden",
	}

	mock.ExpectExec(`INSERT INTO audit_messages`).
		WithArgs(
			FacilityAuth,
			int(SeverityWarning),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			"nasa",
			sqlmock.AnyArg(),
			"access",
			sqlmock.AnyArg(),
			"emma denied DELETE /api/apod/{id}: forbidden",
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := store.Save(event); err != nil {
		t.Errorf("Save() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreSaveFailedApodEvent(t *testing.T) {
	store, mock := newTestStore(t)

	event := ApodEvent{
		User:         "alice",
		Operation:    OperationDelete,
		ApodID:       7,
		ErrorMessage: "No Apod Found With Id: 7",
	}

	mock.ExpectExec(`INSERT INTO audit_messages`).
		WithArgs(
			FacilityAuth,
			int(SeverityWarning), // failed mutations are warnings
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			"nasa",
			sqlmock.AnyArg(),
			"apod",
			sqlmock.AnyArg(),
			"alice failed to delete apod 7: No Apod Found With Id: 7",
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := store.Save(event); err != nil {
		t.Errorf("Save() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreNilDB(t *testing.T) {
	store := &Store{db: nil}

	// Should not error when db is nil
	if err := store.Save(AuthenticateEvent{User: "alice"}); err != nil {
		t.Errorf("Save() with nil db should not error, got: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("Close() with nil db should not error, got: %v", err)
	}
}

func TestStoreClose(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	store := NewStoreWithDB(db)

	mock.ExpectClose()

	if err := store.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestLoggerPersistsEvents(t *testing.T) {
	store, mock := newTestStore(t)

	var buf bytes.Buffer
	logger := newTestLogger(&buf)
	logger.SetEnabled(false)
	var failures []error
	logger.SetStore(store, func(err error) { failures = append(failures, err) })

	mock.ExpectExec(`INSERT INTO audit_messages`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO audit_messages`).
		WillReturnError(errors.New("connection refused"))

	// persistence does not depend on the log line being enabled
	logger.Log(ApodEvent{User: "alice", Operation: OperationSave, ApodID: 1, Success: true})
	logger.Log(ApodEvent{User: "alice", Operation: OperationSave, ApodID: 2, Success: true})

	if buf.Len() != 0 {
		t.Errorf("expected no log line, got %q", buf.String())
	}
	if len(failures) != 1 {
		t.Fatalf("expected one persistence failure, got %v", failures)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
