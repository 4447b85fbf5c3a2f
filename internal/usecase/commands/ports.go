package commands

import (
	"context"

	"reservas-api/internal/domain/reservation"
)

// CodeGenerator yields a globally-unique reservation code.
type CodeGenerator interface {
	Generate(ctx context.Context) (reservation.Code, error)
}

// AuditSink records business-level audit events.
type AuditSink interface {
	ReservationCreated(reservationCode, actor string, context map[string]any)
	ReservationModified(reservationCode, actor string, context map[string]any)
}
