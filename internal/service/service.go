// Package service implements the directory's record operations: admin
// login and registration, and member create, edit, delete and listing.
// Store and upload failures are classified into apperr kinds here and
// nowhere else.
package service

import (
	"context"
	"time"

	"alumni-api/internal/apperr"
	"alumni-api/internal/attachment"
	"alumni-api/internal/metrics"
	"alumni-api/internal/models"

	"go.uber.org/zap"
)

const cleanupTimeout = 10 * time.Second

type AdminRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	Create(ctx context.Context, admin *models.Admin) (*models.Admin, error)
	RecordToken(ctx context.Context, adminID, token string) error
}

type MemberRepository interface {
	FindByID(ctx context.Context, id string) (*models.Member, error)
	FindByLinkedInID(ctx context.Context, linkedinID string) (*models.Member, error)
	Insert(ctx context.Context, m *models.Member) (*models.Member, error)
	UpdateByID(ctx context.Context, id string, patch models.MemberPatch) (*models.Member, error)
	DeleteByID(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]models.Member, error)
	ListByBatch(ctx context.Context, batch string) ([]models.Member, error)
}

type TokenIssuer interface {
	Issue(adminID, email string) (string, error)
}

// ListCache caches the public listings. An empty batch means all members.
type ListCache interface {
	Get(ctx context.Context, batch string) ([]models.Member, bool, error)
	Set(ctx context.Context, batch string, members []models.Member) error
	Invalidate(ctx context.Context) error
}

type Deps struct {
	Admins  AdminRepository
	Members MemberRepository
	Tokens  TokenIssuer
	Photos  attachment.Store
	Cache   ListCache // optional
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

type RecordService struct {
	admins  AdminRepository
	members MemberRepository
	tokens  TokenIssuer
	photos  attachment.Store
	cache   ListCache
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewRecordService(d Deps) *RecordService {
	if d.Metrics == nil {
		d.Metrics = metrics.NewNop()
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &RecordService{
		admins:  d.Admins,
		members: d.Members,
		tokens:  d.Tokens,
		photos:  d.Photos,
		cache:   d.Cache,
		metrics: d.Metrics,
		logger:  d.Logger,
	}
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	return string(apperr.KindOf(err))
}

// detached returns a context for cleanup work that must outlive a cancelled
// request.
func detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
}
