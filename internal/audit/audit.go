package audit

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type AuditLog struct {
	Action   string
	ActorID  string
	EntityID string
	Message  string
	Meta     map[string]any
}

// AuditLogger persists audit entries. Implementations must not block callers
// for long; audit is best effort.
type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}

type StdoutAuditLogger struct {
	logger *zap.Logger
}

func NewStdoutAuditLogger(logger ...*zap.Logger) *StdoutAuditLogger {
	l := zap.L().Named("audit")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit")
	}
	return &StdoutAuditLogger{logger: l}
}

func (l *StdoutAuditLogger) Log(ctx context.Context, entry AuditLog) {
	l.logger.Info("audit event",
		zap.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		zap.String("action", entry.Action),
		zap.String("actor_id", entry.ActorID),
		zap.String("entity_id", entry.EntityID),
		zap.String("message", entry.Message),
		zap.Any("meta", entry.Meta),
	)
}
