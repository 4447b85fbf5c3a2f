package audit

import (
	"log/slog"

	"reservas-api/internal/pkg/clock"
	"reservas-api/internal/pkg/security"

	"github.com/google/uuid"
)

const (
	actionReservationCreated  = "RESERVATION_CREATED"
	actionReservationModified = "RESERVATION_MODIFIED"
	actionSensitiveAccess     = "SENSITIVE_ACCESS"
)

// Logger emits structured audit events. Sensitive payloads are masked before
// they reach the log sink.
type Logger struct {
	logger *slog.Logger
	clock  clock.Clock
}

func NewLogger(logger *slog.Logger, clk clock.Clock) *Logger {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &Logger{
		logger: logger,
		clock:  clk,
	}
}

func (l *Logger) ReservationCreated(reservationCode, actor string, context map[string]any) {
	l.emit(actionReservationCreated, reservationCode, actor, context)
}

func (l *Logger) ReservationModified(reservationCode, actor string, context map[string]any) {
	l.emit(actionReservationModified, reservationCode, actor, context)
}

func (l *Logger) SensitiveAccess(reservationCode, actor string, accessedData, context map[string]any) {
	merged := make(map[string]any, len(context)+1)
	for k, v := range context {
		merged[k] = v
	}
	merged["data"] = security.MaskSensitiveData(accessedData)
	l.emit(actionSensitiveAccess, reservationCode, actor, merged)
}

func (l *Logger) emit(action, reservationCode, actor string, context map[string]any) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Info("audit event",
		slog.String("event_id", uuid.NewString()),
		slog.String("action", action),
		slog.String("reservation_code", reservationCode),
		slog.String("actor", actor),
		slog.Time("occurred_at", l.clock.Now().UTC()),
		slog.Any("context", security.MaskSensitiveData(copyContext(context))),
	)
}

func copyContext(context map[string]any) map[string]any {
	out := make(map[string]any, len(context))
	for k, v := range context {
		out[k] = v
	}
	return out
}
