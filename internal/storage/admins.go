package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"alumni-api/internal/models"
)

type AdminStore struct {
	db *sql.DB
}

func NewAdminStore(db *sql.DB) *AdminStore {
	return &AdminStore{db: db}
}

const adminColumns = `id, email, password_hash, current_token, created_at, updated_at`

func (s *AdminStore) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admins WHERE email = ?`, email)
	admin, err := scanAdmin(row)
	if err != nil {
		return nil, fmt.Errorf("find admin by email: %w", err)
	}
	return admin, nil
}

func (s *AdminStore) FindByID(ctx context.Context, id string) (*models.Admin, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admins WHERE id = ?`, id)
	admin, err := scanAdmin(row)
	if err != nil {
		return nil, fmt.Errorf("find admin by id: %w", err)
	}
	return admin, nil
}

// Create inserts admin. The unique email index decides races between
// concurrent registrations.
func (s *AdminStore) Create(ctx context.Context, admin *models.Admin) (*models.Admin, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO admins (id, email, password_hash) VALUES (?, ?, ?)`,
		admin.ID, admin.Email, admin.PasswordHash)
	if err != nil {
		if isDuplicateEntry(err) {
			return nil, fmt.Errorf("admin %s: %w", admin.Email, ErrDuplicate)
		}
		return nil, fmt.Errorf("insert admin: %w", err)
	}
	return s.FindByID(ctx, admin.ID)
}

func (s *AdminStore) RecordToken(ctx context.Context, adminID, token string) error {
	result, err := s.db.ExecContext(ctx, `UPDATE admins SET current_token = ? WHERE id = ?`, token, adminID)
	if err != nil {
		return fmt.Errorf("record token: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("record token: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("record token: %w", ErrNotFound)
	}
	return nil
}

func scanAdmin(row *sql.Row) (*models.Admin, error) {
	var admin models.Admin
	var token sql.NullString
	err := row.Scan(&admin.ID, &admin.Email, &admin.PasswordHash, &token, &admin.CreatedAt, &admin.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if token.Valid {
		admin.CurrentToken = &token.String
	}
	return &admin, nil
}
