package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-sync-client/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStorage(t *testing.T) (*sqliteStorage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	l := logger.Nop()
	s := NewSQLiteStorage(&DB{DB: db, logger: l}, l)
	return s.(*sqliteStorage), mock
}

func TestSQLiteStorage_Get(t *testing.T) {
	s, mock := newTestSQLiteStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv WHERE key = ?")).
		WithArgs("apiKey").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("secret"))

	v, err := s.Get(context.Background(), "apiKey")
	require.NoError(t, err)
	assert.Equal(t, "secret", v)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStorage_GetNotFound(t *testing.T) {
	s, mock := newTestSQLiteStorage(t)

	mock.ExpectQuery("SELECT value FROM kv").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestSQLiteStorage_GetDBError(t *testing.T) {
	s, mock := newTestSQLiteStorage(t)

	mock.ExpectQuery("SELECT value FROM kv").
		WithArgs("apiKey").
		WillReturnError(errors.New("disk I/O error"))

	_, err := s.Get(context.Background(), "apiKey")
	assert.ErrorIs(t, err, ErrExecutingQuery)
}

func TestSQLiteStorage_SetPublishes(t *testing.T) {
	s, mock := newTestSQLiteStorage(t)
	changes, cancel := s.Subscribe()
	defer cancel()

	mock.ExpectExec("INSERT INTO kv").
		WithArgs("isLoggedIn", "true").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, s.Set(context.Background(), "isLoggedIn", "true"))
	assert.Equal(t, Change{Key: "isLoggedIn", Value: "true"}, <-changes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStorage_SetErrorDoesNotPublish(t *testing.T) {
	s, mock := newTestSQLiteStorage(t)
	changes, cancel := s.Subscribe()
	defer cancel()

	mock.ExpectExec("INSERT INTO kv").WillReturnError(errors.New("readonly"))

	assert.ErrorIs(t, s.Set(context.Background(), "k", "v"), ErrExecutingQuery)
	assert.Empty(t, changes)
}

func TestSQLiteStorage_Remove(t *testing.T) {
	s, mock := newTestSQLiteStorage(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM kv WHERE key = ?")).
		WithArgs("publicKey").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Remove(context.Background(), "publicKey"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStorage_KeysAndClear(t *testing.T) {
	s, mock := newTestSQLiteStorage(t)
	changes, cancel := s.Subscribe()
	defer cancel()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT key FROM kv ORDER BY key")).
		WillReturnRows(sqlmock.NewRows([]string{"key"}).AddRow("a").AddRow("b"))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM kv")).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, s.Clear(context.Background()))
	assert.Equal(t, Change{Key: "a", Removed: true}, <-changes)
	assert.Equal(t, Change{Key: "b", Removed: true}, <-changes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStorage_KeysScanError(t *testing.T) {
	s, mock := newTestSQLiteStorage(t)

	mock.ExpectQuery("SELECT key FROM kv").
		WillReturnRows(sqlmock.NewRows([]string{"key"}).AddRow("a").RowError(0, errors.New("corrupt")))

	_, err := s.Keys(context.Background())
	assert.ErrorIs(t, err, ErrScanningRows)
}
