package storage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/ADhailu/Biruh-ken-bot/internal/domain"
)

func newMockStore(t *testing.T) (Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresStore(sqlx.NewDb(db, "sqlmock")), mock
}

func sessionRows(session *domain.Session) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"user_id", "state", "language", "display_name", "phone", "payment_evidence", "created_at", "updated_at",
	}).AddRow(
		session.UserID, string(session.State), string(session.Language),
		session.DisplayName, session.Phone, session.PaymentEvidence,
		session.CreatedAt, session.UpdatedAt,
	)
}

func TestPostgresStoreGet(t *testing.T) {
	store, mock := newMockStore(t)

	want := domain.NewSession(42, time.Now().UTC())
	want.State = domain.StatePendingApproval
	want.DisplayName = "Alem"

	mock.ExpectQuery("SELECT user_id, state, language, display_name, phone, payment_evidence, created_at, updated_at").
		WithArgs(int64(42)).
		WillReturnRows(sessionRows(want))

	got, err := store.Get(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, want.State, got.State)
	require.Equal(t, want.DisplayName, got.DisplayName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreGetMissing(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT user_id, state").
		WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)

	_, err := store.Get(context.Background(), 42)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStorePutUpserts(t *testing.T) {
	store, mock := newMockStore(t)

	session := domain.NewSession(42, time.Now().UTC())
	session.State = domain.StateAwaitingPhone
	session.DisplayName = "Alem"

	mock.ExpectExec("INSERT INTO sessions").
		WithArgs(
			session.UserID, session.State, session.Language,
			session.DisplayName, session.Phone, session.PaymentEvidence,
			sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Put(context.Background(), session))
	require.False(t, session.UpdatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreReset(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM sessions").
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Reset(context.Background(), 42))
	require.NoError(t, mock.ExpectationsWereMet())
}
