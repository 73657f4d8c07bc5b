package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Abhishek40905/ancome-backend/internal/models"
	"github.com/Abhishek40905/ancome-backend/internal/store"
	"github.com/Abhishek40905/ancome-backend/pkg/logger"
)

const defaultAuditLimit = 200

type AuditService struct {
	logs store.AuditLogs
}

func NewAuditService(logs store.AuditLogs) *AuditService {
	return &AuditService{logs: logs}
}

type AuditEntry struct {
	Module    string
	Action    string
	Message   string
	UserID    string
	IP        string
	UserAgent string
	Status    int
	Extra     interface{}
}

// Record persists an audit entry. Failures are logged and swallowed so the
// audited request is never affected.
func (s *AuditService) Record(ctx context.Context, e AuditEntry) {
	var extra string
	if e.Extra != nil {
		if b, err := json.Marshal(e.Extra); err == nil {
			extra = string(b)
		}
	}

	err := s.logs.CreateAuditLog(ctx, &models.AuditLog{
		Module:    e.Module,
		Action:    e.Action,
		Message:   e.Message,
		UserID:    e.UserID,
		IP:        e.IP,
		UserAgent: e.UserAgent,
		Status:    e.Status,
		Extra:     extra,
		CreatedAt: time.Now(),
	})
	if err != nil {
		logger.Error().Err(err).Str("module", e.Module).Str("action", e.Action).Msg("write audit log failed")
	}
}

// Recent returns the newest entries, at most limit (default 200).
func (s *AuditService) Recent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 1000 {
		limit = defaultAuditLimit
	}
	return s.logs.ListAuditLogs(ctx, limit)
}
