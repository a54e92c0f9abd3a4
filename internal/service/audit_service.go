package service

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/MaiNhanKiet/look-up-convocation2025/internal/models"
)

type auditStore interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type auditQueue interface {
	Enqueue(entry *models.AuditLog) error
}

// AuditService records workflow actions to the log and, when a store is
// configured, to the audit table.
type AuditService struct {
	store   auditStore
	queue   auditQueue
	logger  *zap.Logger
	timeout time.Duration
}

// AuditServiceOption configures the service.
type AuditServiceOption func(*AuditService)

// WithAuditQueue hands entries to a background writer instead of persisting
// them on the request path. A full queue falls back to a direct write.
func WithAuditQueue(queue auditQueue) AuditServiceOption {
	return func(s *AuditService) {
		s.queue = queue
	}
}

// NewAuditService constructs an AuditService. store may be nil.
func NewAuditService(store auditStore, logger *zap.Logger, opts ...AuditServiceOption) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &AuditService{store: store, logger: logger, timeout: 3 * time.Second}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Record logs the entry at a level derived from the response status and
// persists it. Persistence failures are logged, never returned.
func (s *AuditService) Record(ctx context.Context, entry *models.AuditLog, status int) {
	if s == nil || entry == nil {
		return
	}
	if entry.Status == "" {
		entry.Status = models.AuditStatusSuccess
		if status >= http.StatusBadRequest {
			entry.Status = models.AuditStatusFailure
		}
	}

	fields := []zap.Field{
		zap.String("action", entry.Action),
		zap.String("resource", entry.Resource),
		zap.String("status", entry.Status),
		zap.Int("http_status", status),
		zap.String("ip", entry.IPAddress),
	}
	if entry.ResourceID != nil {
		fields = append(fields, zap.String("resource_id", *entry.ResourceID))
	}
	if entry.ActorEmail != nil {
		fields = append(fields, zap.String("actor", *entry.ActorEmail))
	}
	if ce := s.logger.Check(auditLevel(status), "audit"); ce != nil {
		ce.Write(fields...)
	}

	if s.store == nil {
		return
	}
	if s.queue != nil {
		err := s.queue.Enqueue(entry)
		if err == nil {
			return
		}
		s.logger.Warn("audit queue rejected entry", zap.Error(err))
	}
	storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()
	if err := s.store.CreateAuditLog(storeCtx, entry); err != nil {
		s.logger.Warn("failed to persist audit log", zap.Error(err))
	}
}

func auditLevel(status int) zapcore.Level {
	switch {
	case status < http.StatusBadRequest:
		return zapcore.InfoLevel
	case status == http.StatusUnprocessableEntity:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}
