package service

import (
	"context"
	"errors"
	"strings"

	"alumni-api/internal/apperr"
	"alumni-api/internal/auth"
	"alumni-api/internal/constants"
	"alumni-api/internal/models"
	"alumni-api/internal/storage"
	"alumni-api/internal/utils"

	"go.uber.org/zap"
)

type LoginResult struct {
	Token string
	Admin models.AdminSummary
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *RecordService) Login(ctx context.Context, email, password string) (result *LoginResult, err error) {
	defer func() { s.metrics.LoginAttempts.WithLabelValues(outcome(err)).Inc() }()

	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.Validation("Email and password are required")
	}

	admin, err := s.admins.FindByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFound("Admin not found")
	}
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindInternal, "Server error")
	}

	if !auth.CheckPassword(admin.PasswordHash, password) {
		return nil, apperr.New(apperr.KindInvalidCredentials, "Invalid credentials")
	}

	token, err := s.tokens.Issue(admin.ID, admin.Email)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindInternal, "Server error")
	}

	if err := s.admins.RecordToken(ctx, admin.ID, token); err != nil {
		return nil, apperr.Wrap(err, apperr.KindInternal, "Server error")
	}

	s.logger.Info("admin logged in", zap.String("admin_id", admin.ID))
	return &LoginResult{Token: token, Admin: admin.Summary()}, nil
}

func (s *RecordService) RegisterAdmin(ctx context.Context, email, password string) (*models.Admin, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.Validation("Email and password are required")
	}
	if len(password) < constants.MinPasswordLen {
		return nil, apperr.Validation("Password must be at least 6 characters")
	}

	_, err := s.admins.FindByEmail(ctx, email)
	if err == nil {
		return nil, apperr.New(apperr.KindAlreadyExists, "Admin already exists")
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.Wrap(err, apperr.KindInternal, "Server error")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindInternal, "Server error")
	}

	admin, err := s.admins.Create(ctx, &models.Admin{
		ID:           utils.GenerateUUID(),
		Email:        email,
		PasswordHash: hash,
	})
	if errors.Is(err, storage.ErrDuplicate) {
		return nil, apperr.New(apperr.KindAlreadyExists, "Admin already exists")
	}
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindInternal, "Server error")
	}

	s.logger.Info("admin registered", zap.String("admin_id", admin.ID))
	return admin, nil
}
