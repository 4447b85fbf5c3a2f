package outbox

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	domain "reservas-api/internal/domain/outbox"
	"reservas-api/internal/domain/reservation"
	"reservas-api/internal/infra/gateway"
	"reservas-api/internal/pkg/clock"
	"reservas-api/internal/usecase/commands"
	"reservas-api/internal/usecase/shared"
)

const (
	paymentProviderCode = "PAYMENT_GATEWAY"
	bookingProviderCode = "BOOKING_GATEWAY"
)

type PaymentDispatcher interface {
	ProcessPayment(ctx context.Context, r *reservation.Reservation) gateway.Result
}

type BookingDispatcher interface {
	CreateBooking(ctx context.Context, r *reservation.Reservation) gateway.Result
}

type ResponseRecorder interface {
	ApplyResponse(ctx context.Context, in commands.ProviderResponse) error
}

// Worker drains the outbox. Each event runs in its own error scope and its
// own short transactions: no transaction is held across provider I/O, so a
// slow provider never pins a connection.
type Worker struct {
	events   shared.OutboxRepository
	payment  PaymentDispatcher
	booking  BookingDispatcher
	recorder ResponseRecorder
	clock    clock.Clock

	batchSize    int
	pollInterval time.Duration
}

func NewWorker(
	events shared.OutboxRepository,
	payment PaymentDispatcher,
	booking BookingDispatcher,
	recorder ResponseRecorder,
	clk clock.Clock,
	batchSize int,
	pollInterval time.Duration,
) *Worker {
	if batchSize <= 0 {
		batchSize = 20
	}
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	return &Worker{
		events:       events,
		payment:      payment,
		booking:      booking,
		recorder:     recorder,
		clock:        clk,
		batchSize:    batchSize,
		pollInterval: pollInterval,
	}
}

// Run polls until ctx is cancelled. The in-flight batch finishes before the
// loop exits.
func (w *Worker) Run(ctx context.Context) {
	slog.Info("outbox worker started",
		"batch_size", w.batchSize,
		"poll_interval", w.pollInterval.String())

	for {
		processed, err := w.ProcessPendingOnce(ctx)
		if err != nil {
			slog.Error("outbox poll failed", "error", err.Error())
		} else if processed > 0 {
			slog.Info("outbox batch drained", "processed", processed)
		}

		select {
		case <-ctx.Done():
			slog.Info("outbox worker stopped")
			return
		case <-time.After(w.pollInterval):
		}
	}
}

// ProcessPendingOnce claims one batch and dispatches every claimed event.
// A failing event is marked FAILED and never poisons the rest of the batch.
func (w *Worker) ProcessPendingOnce(ctx context.Context) (int, error) {
	ids, err := w.events.ClaimPending(ctx, w.batchSize)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return processed, ctx.Err()
		}
		if w.processEvent(ctx, id) {
			processed++
		}
	}
	return processed, nil
}

// processEvent reports whether the event ended PROCESSED.
func (w *Worker) processEvent(ctx context.Context, id int64) bool {
	ev, err := w.events.Load(ctx, id)
	if err != nil {
		slog.Error("failed to load outbox event", "event_id", id, "error", err.Error())
		return false
	}
	if ev.Status == domain.StatusProcessed {
		return false
	}

	res := domain.ReservationFromPayload(ev.AggregateID, ev.Payload, w.clock.Now())

	var (
		result       gateway.Result
		providerCode string
		requestType  reservation.RequestType
	)
	switch ev.Type {
	case domain.EventTypePaymentRequested:
		result = w.payment.ProcessPayment(ctx, res)
		providerCode = paymentProviderCode
		requestType = reservation.RequestTypePayment
	case domain.EventTypeBookingRequested:
		result = w.booking.CreateBooking(ctx, res)
		providerCode = bookingProviderCode
		requestType = reservation.RequestTypeBooking
	default:
		w.markFailed(ctx, id, fmt.Sprintf("unknown event type: %s", ev.Type))
		return false
	}

	if err := w.recorder.ApplyResponse(ctx, commands.ProviderResponse{
		ReservationCode: res.Code(),
		ProviderCode:    providerCode,
		RequestType:     requestType,
		Success:         result.Success,
		RequestPayload:  reservation.Snapshot{"event_id": ev.ID, "event_type": string(ev.Type)},
		ResponsePayload: result.ResponsePayload,
		RespondedAt:     w.clock.Now().UTC(),
	}); err != nil {
		w.markFailed(ctx, id, err.Error())
		return false
	}

	if !result.Success {
		w.markFailed(ctx, id, result.Status)
		return false
	}

	if err := w.events.MarkProcessed(ctx, id, w.clock.Now().UTC()); err != nil {
		slog.Error("failed to mark event processed", "event_id", id, "error", err.Error())
		return false
	}
	return true
}

func (w *Worker) markFailed(ctx context.Context, id int64, reason string) {
	if err := w.events.MarkFailed(ctx, id, reason); err != nil {
		slog.Error("failed to mark event failed", "event_id", id, "error", err.Error())
		return
	}
	slog.Warn("outbox event failed", "event_id", id, "reason", reason)
}
