package storage

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"alumni-api/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var memberCols = []string{"id", "name", "photo", "batch", "linkedin_id", "field", "created_at", "updated_at"}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func strPtr(s string) *string { return &s }

func TestMemberInsert_Success(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewMemberStore(db)
	now := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO members")).
		WithArgs("m-1", "Ann", nil, "2024", "ann1", "CS").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM members WHERE id = ?")).
		WithArgs("m-1").
		WillReturnRows(sqlmock.NewRows(memberCols).AddRow("m-1", "Ann", nil, "2024", "ann1", "CS", now, now))

	got, err := store.Insert(context.Background(), &models.Member{
		ID: "m-1", Name: "Ann", Batch: "2024", LinkedInID: "ann1", Field: "CS",
	})

	require.NoError(t, err)
	assert.Equal(t, "ann1", got.LinkedInID)
	assert.Nil(t, got.Photo)
	assert.Equal(t, now, got.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberInsert_DuplicateLinkedInID(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewMemberStore(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO members")).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'ann1' for key 'ux_members_linkedin_id'"})

	_, err := store.Insert(context.Background(), &models.Member{ID: "m-2", Name: "Ann", Batch: "2024", LinkedInID: "ann1", Field: "CS"})

	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberInsert_OtherDriverError(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewMemberStore(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO members")).
		WillReturnError(errors.New("connection reset"))

	_, err := store.Insert(context.Background(), &models.Member{ID: "m-2", LinkedInID: "ann1"})

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicate)
}

func TestMemberUpdateByID_OnlySetsProvidedFields(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewMemberStore(db)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE members SET batch = ? WHERE id = ?")).
		WithArgs("2025", "m-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM members WHERE id = ?")).
		WithArgs("m-1").
		WillReturnRows(sqlmock.NewRows(memberCols).AddRow("m-1", "Ann", nil, "2025", "ann1", "CS", now, now))
	mock.ExpectCommit()

	got, err := store.UpdateByID(context.Background(), "m-1", models.MemberPatch{Batch: strPtr("2025")})

	require.NoError(t, err)
	assert.Equal(t, "2025", got.Batch)
	assert.Equal(t, "ann1", got.LinkedInID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberUpdateByID_MultipleFieldsAndPhoto(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewMemberStore(db)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE members SET name = ?, field = ?, photo = ? WHERE id = ?")).
		WithArgs("Anna", "Math", "https://cdn/x.png", "m-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM members WHERE id = ?")).
		WillReturnRows(sqlmock.NewRows(memberCols).AddRow("m-1", "Anna", "https://cdn/x.png", "2024", "ann1", "Math", now, now))
	mock.ExpectCommit()

	got, err := store.UpdateByID(context.Background(), "m-1", models.MemberPatch{
		Name:  strPtr("Anna"),
		Field: strPtr("Math"),
		Photo: strPtr("https://cdn/x.png"),
	})

	require.NoError(t, err)
	require.NotNil(t, got.Photo)
	assert.Equal(t, "https://cdn/x.png", *got.Photo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberUpdateByID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewMemberStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE members SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := store.UpdateByID(context.Background(), "missing", models.MemberPatch{Batch: strPtr("2025")})

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberUpdateByID_DuplicateLinkedInID(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewMemberStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE members SET linkedin_id = ?")).
		WillReturnError(&mysql.MySQLError{Number: 1062})
	mock.ExpectRollback()

	_, err := store.UpdateByID(context.Background(), "m-1", models.MemberPatch{LinkedInID: strPtr("bob1")})

	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberUpdateByID_EmptyPatchReadsRow(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewMemberStore(db)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM members WHERE id = ?")).
		WithArgs("m-1").
		WillReturnRows(sqlmock.NewRows(memberCols).AddRow("m-1", "Ann", nil, "2024", "ann1", "CS", now, now))

	got, err := store.UpdateByID(context.Background(), "m-1", models.MemberPatch{})

	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberDeleteByID(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewMemberStore(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM members WHERE id = ?")).
		WithArgs("m-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM members WHERE id = ?")).
		WithArgs("m-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.DeleteByID(context.Background(), "m-1"))
	assert.ErrorIs(t, store.DeleteByID(context.Background(), "m-1"), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberListAll_NewestFirst(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewMemberStore(db)
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM members ORDER BY seq DESC")).
		WillReturnRows(sqlmock.NewRows(memberCols).
			AddRow("m-3", "C", nil, "2024", "c", "CS", t1.Add(2*time.Hour), t1).
			AddRow("m-2", "B", nil, "2024", "b", "CS", t1.Add(time.Hour), t1).
			AddRow("m-1", "A", nil, "2024", "a", "CS", t1, t1))

	got, err := store.ListAll(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"m-3", "m-2", "m-1"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestMemberListByBatch_EmptyIsNotNil(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewMemberStore(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE batch = ? ORDER BY seq DESC")).
		WithArgs("1999").
		WillReturnRows(sqlmock.NewRows(memberCols))

	got, err := store.ListByBatch(context.Background(), "1999")

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMemberFindByLinkedInID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewMemberStore(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE linkedin_id = ?")).
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows(memberCols))

	_, err := store.FindByLinkedInID(context.Background(), "nobody")

	assert.ErrorIs(t, err, ErrNotFound)
}
