package shared

import (
	"context"
	"time"

	"reservas-api/internal/domain/outbox"
	"reservas-api/internal/domain/reservation"
)

// Tx exposes the repositories bound to one open transaction.
type Tx interface {
	Reservations() ReservationRepository
	Outbox() OutboxRepository
}

// UnitOfWork runs fn atomically; fn failure rolls everything back.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type ReservationRepository interface {
	Save(ctx context.Context, r *reservation.Reservation) (int64, error)
	FindByCode(ctx context.Context, code reservation.Code) (*reservation.Reservation, error)
	ExistsCode(ctx context.Context, code reservation.Code) (bool, error)
	UpdateStatus(ctx context.Context, code reservation.Code, status reservation.Status) error
	AddStatusHistory(ctx context.Context, code reservation.Code, change reservation.StatusChange) error
	AddProviderRequest(ctx context.Context, req reservation.ProviderRequest) error
	CountSuccessfulRequests(ctx context.Context, code reservation.Code, requestType reservation.RequestType) (int, error)
}

type OutboxRepository interface {
	Append(ctx context.Context, events []outbox.Event) error
	ClaimPending(ctx context.Context, limit int) ([]int64, error)
	Load(ctx context.Context, id int64) (*outbox.Event, error)
	MarkProcessed(ctx context.Context, id int64, processedAt time.Time) error
	MarkFailed(ctx context.Context, id int64, lastError string) error
}
