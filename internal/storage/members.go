package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"alumni-api/internal/models"
)

type MemberStore struct {
	db *sql.DB
}

func NewMemberStore(db *sql.DB) *MemberStore {
	return &MemberStore{db: db}
}

const memberColumns = `id, name, photo, batch, linkedin_id, field, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *MemberStore) FindByID(ctx context.Context, id string) (*models.Member, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+memberColumns+` FROM members WHERE id = ?`, id)
	member, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find member by id: %w", err)
	}
	return member, nil
}

func (s *MemberStore) FindByLinkedInID(ctx context.Context, linkedinID string) (*models.Member, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+memberColumns+` FROM members WHERE linkedin_id = ?`, linkedinID)
	member, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find member by linkedin id: %w", err)
	}
	return member, nil
}

// Insert stores m in a single statement. A linkedin_id collision, including
// one lost to a concurrent insert, comes back as ErrDuplicate.
func (s *MemberStore) Insert(ctx context.Context, m *models.Member) (*models.Member, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO members (id, name, photo, batch, linkedin_id, field) VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, nullString(m.Photo), m.Batch, m.LinkedInID, m.Field)
	if err != nil {
		if isDuplicateEntry(err) {
			return nil, fmt.Errorf("member %s: %w", m.LinkedInID, ErrDuplicate)
		}
		return nil, fmt.Errorf("insert member: %w", err)
	}
	return s.FindByID(ctx, m.ID)
}

// UpdateByID writes only the fields set in patch and returns the stored row.
func (s *MemberStore) UpdateByID(ctx context.Context, id string, patch models.MemberPatch) (*models.Member, error) {
	var sets []string
	var args []any
	add := func(column string, value *string) {
		if value != nil {
			sets = append(sets, column+" = ?")
			args = append(args, *value)
		}
	}
	add("name", patch.Name)
	add("batch", patch.Batch)
	add("linkedin_id", patch.LinkedInID)
	add("field", patch.Field)
	add("photo", patch.Photo)

	if len(sets) == 0 {
		return s.FindByID(ctx, id)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("update member: %w", err)
	}
	defer tx.Rollback()

	args = append(args, id)
	result, err := tx.ExecContext(ctx, `UPDATE members SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		if isDuplicateEntry(err) {
			return nil, fmt.Errorf("member %s: %w", id, ErrDuplicate)
		}
		return nil, fmt.Errorf("update member: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update member: %w", err)
	}
	if rows == 0 {
		return nil, ErrNotFound
	}

	member, err := scanMember(tx.QueryRowContext(ctx, `SELECT `+memberColumns+` FROM members WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("reload member: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("update member: %w", err)
	}
	return member, nil
}

func (s *MemberStore) DeleteByID(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM members WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAll returns every member, most recently created first.
func (s *MemberStore) ListAll(ctx context.Context) ([]models.Member, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+memberColumns+` FROM members ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return collectMembers(rows)
}

func (s *MemberStore) ListByBatch(ctx context.Context, batch string) ([]models.Member, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+memberColumns+` FROM members WHERE batch = ? ORDER BY seq DESC`, batch)
	if err != nil {
		return nil, fmt.Errorf("list members by batch: %w", err)
	}
	return collectMembers(rows)
}

func (s *MemberStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func collectMembers(rows *sql.Rows) ([]models.Member, error) {
	defer rows.Close()

	members := make([]models.Member, 0)
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, *member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return members, nil
}

func scanMember(row rowScanner) (*models.Member, error) {
	var m models.Member
	var photo sql.NullString
	err := row.Scan(&m.ID, &m.Name, &photo, &m.Batch, &m.LinkedInID, &m.Field, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if photo.Valid {
		m.Photo = &photo.String
	}
	return &m, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
