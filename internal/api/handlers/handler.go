package handlers

import (
	"context"
	"errors"

	"alumni-api/internal/apperr"
	"alumni-api/internal/attachment"
	"alumni-api/internal/models"
	"alumni-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Records is the part of service.RecordService the handlers call.
type Records interface {
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
	RegisterAdmin(ctx context.Context, email, password string) (*models.Admin, error)
	CreateMember(ctx context.Context, in models.NewMember, upload *attachment.Upload) (*models.Member, error)
	EditMember(ctx context.Context, id string, patch models.MemberPatch, upload *attachment.Upload) (*models.Member, error)
	DeleteMember(ctx context.Context, id string) error
	ListMembers(ctx context.Context) ([]models.Member, error)
	ListMembersByBatch(ctx context.Context, batch string) ([]models.Member, error)
}

// Pinger is a dependency checked by the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	records Records
	logger  *zap.Logger
	checks  map[string]Pinger
}

func NewHandler(records Records, logger *zap.Logger, checks map[string]Pinger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		records: records,
		logger:  logger,
		checks:  checks,
	}
}

// respondError writes {message, error?}. The cause is only exposed for
// server-side failures.
func (h *Handler) respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)
	body := gin.H{"message": apperr.Message(err)}

	if status >= 500 {
		cause := err
		if inner := errors.Unwrap(err); inner != nil {
			cause = inner
		}
		body["error"] = cause.Error()
		h.logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	} else {
		h.logger.Debug("request rejected",
			zap.String("path", c.FullPath()),
			zap.String("kind", string(kind)),
			zap.String("message", apperr.Message(err)),
		)
	}

	c.JSON(status, body)
}
