package storage

import (
	"context"
	"regexp"
	"testing"
	"time"

	"alumni-api/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var adminCols = []string{"id", "email", "password_hash", "current_token", "created_at", "updated_at"}

func TestAdminFindByEmail(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewAdminStore(db)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM admins WHERE email = ?")).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows(adminCols).AddRow("adm-1", "a@x.com", "$2a$10$hash", "tok", now, now))

	got, err := store.FindByEmail(context.Background(), "a@x.com")

	require.NoError(t, err)
	assert.Equal(t, "adm-1", got.ID)
	require.NotNil(t, got.CurrentToken)
	assert.Equal(t, "tok", *got.CurrentToken)
}

func TestAdminFindByEmail_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewAdminStore(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM admins WHERE email = ?")).
		WillReturnRows(sqlmock.NewRows(adminCols))

	_, err := store.FindByEmail(context.Background(), "ghost@x.com")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAdminCreate_Duplicate(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewAdminStore(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO admins")).
		WithArgs("adm-2", "a@x.com", "hash").
		WillReturnError(&mysql.MySQLError{Number: 1062})

	_, err := store.Create(context.Background(), &models.Admin{ID: "adm-2", Email: "a@x.com", PasswordHash: "hash"})

	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminCreate_Success(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewAdminStore(db)
	now := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO admins")).
		WithArgs("adm-1", "a@x.com", "hash").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM admins WHERE id = ?")).
		WithArgs("adm-1").
		WillReturnRows(sqlmock.NewRows(adminCols).AddRow("adm-1", "a@x.com", "hash", nil, now, now))

	got, err := store.Create(context.Background(), &models.Admin{ID: "adm-1", Email: "a@x.com", PasswordHash: "hash"})

	require.NoError(t, err)
	assert.Nil(t, got.CurrentToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRecordToken(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewAdminStore(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE admins SET current_token = ? WHERE id = ?")).
		WithArgs("tok", "adm-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE admins SET current_token = ? WHERE id = ?")).
		WithArgs("tok", "gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, store.RecordToken(context.Background(), "adm-1", "tok"))
	assert.ErrorIs(t, store.RecordToken(context.Background(), "gone", "tok"), ErrNotFound)
}
