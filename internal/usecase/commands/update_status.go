package commands

import (
	"context"
	"time"

	"reservas-api/internal/domain/reservation"
	"reservas-api/internal/infra"
	"reservas-api/internal/pkg/clock"
	"reservas-api/internal/pkg/errs"
	"reservas-api/internal/usecase/shared"
)

// ProviderResponse is one external outcome to fold into the lifecycle.
type ProviderResponse struct {
	ReservationCode reservation.Code
	ProviderCode    string
	RequestType     reservation.RequestType
	Success         bool
	RequestPayload  reservation.Snapshot
	ResponsePayload reservation.Snapshot
	RespondedAt     time.Time
}

// StatusReconciler folds provider responses into the reservation state
// machine. The derivation is order-insensitive: once a SUCCESS row exists for
// a request type its flag never regresses, so PAYMENT-then-BOOKING and the
// reverse converge on the same terminal status.
type StatusReconciler struct {
	uow   shared.UnitOfWork
	clock clock.Clock
	audit AuditSink
}

func NewStatusReconciler(uow shared.UnitOfWork, clk clock.Clock, audit AuditSink) *StatusReconciler {
	return &StatusReconciler{
		uow:   uow,
		clock: clk,
		audit: audit,
	}
}

func (uc *StatusReconciler) ApplyResponse(ctx context.Context, in ProviderResponse) error {
	respondedAt := in.RespondedAt
	if respondedAt.IsZero() {
		respondedAt = uc.clock.Now().UTC()
	}

	var from, to reservation.Status
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		repo := tx.Reservations()

		res, err := repo.FindByCode(ctx, in.ReservationCode)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrReservationNotFound
			}
			return err
		}

		paymentCount, err := repo.CountSuccessfulRequests(ctx, in.ReservationCode, reservation.RequestTypePayment)
		if err != nil {
			return err
		}
		bookingCount, err := repo.CountSuccessfulRequests(ctx, in.ReservationCode, reservation.RequestTypeBooking)
		if err != nil {
			return err
		}

		// A redelivered success is not recorded twice: at most one SUCCESS
		// row may exist per request type.
		alreadySucceeded := (in.RequestType == reservation.RequestTypePayment && paymentCount > 0) ||
			(in.RequestType == reservation.RequestTypeBooking && bookingCount > 0)
		if !(in.Success && alreadySucceeded) {
			status := reservation.RequestStatusFailed
			if in.Success {
				status = reservation.RequestStatusSuccess
			}
			if err := repo.AddProviderRequest(ctx, reservation.ProviderRequest{
				ReservationCode: in.ReservationCode,
				ProviderCode:    in.ProviderCode,
				RequestType:     in.RequestType,
				RequestPayload:  in.RequestPayload,
				ResponsePayload: in.ResponsePayload,
				Status:          status,
				CreatedAt:       uc.clock.Now().UTC(),
				RespondedAt:     respondedAt,
			}); err != nil {
				return err
			}
		}

		target := deriveTarget(res.Status(), in, paymentCount, bookingCount)

		from, to = res.Status(), target
		if target == res.Status() {
			return nil
		}

		// Status is overwritten at the store level: the derivation above is
		// monotone, so arrival order cannot produce a downgrade.
		if err := repo.UpdateStatus(ctx, in.ReservationCode, target); err != nil {
			return err
		}
		return repo.AddStatusHistory(ctx, in.ReservationCode, reservation.StatusChange{
			From:      res.Status(),
			To:        target,
			ChangedAt: respondedAt,
		})
	})
	if err != nil {
		return err
	}

	if from != to {
		uc.audit.ReservationModified(in.ReservationCode.Value(), "outbox-worker", map[string]any{
			"from": from.String(),
			"to":   to.String(),
		})
	}
	return nil
}

// deriveTarget computes the lifecycle status implied by every response seen
// so far, including the one just received. CANCELLED latches; a success flag
// never regresses once a SUCCESS row exists for its type.
func deriveTarget(current reservation.Status, in ProviderResponse, paymentCount, bookingCount int) reservation.Status {
	if current == reservation.StatusCancelled {
		return reservation.StatusCancelled
	}

	paymentOK := (in.RequestType == reservation.RequestTypePayment && in.Success) || paymentCount > 0
	bookingOK := (in.RequestType == reservation.RequestTypeBooking && in.Success) || bookingCount > 0

	switch {
	case paymentOK && bookingOK:
		return reservation.StatusSupplierConfirmed
	case paymentOK:
		return reservation.StatusPaid
	default:
		return current
	}
}
