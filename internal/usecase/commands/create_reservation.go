package commands

import (
	"context"
	"time"

	"reservas-api/internal/domain/outbox"
	"reservas-api/internal/domain/reservation"
	"reservas-api/internal/pkg/clock"
	"reservas-api/internal/pkg/errs"
	"reservas-api/internal/pkg/security"
	"reservas-api/internal/usecase/shared"
)

// CreateReservationInput carries already-validated request data. Snapshots
// are still raw: sanitation and PCI filtering happen here, not at the edge.
type CreateReservationInput struct {
	SupplierCode      string
	PickupOfficeCode  string
	DropoffOfficeCode string
	PickupAt          time.Time
	DropoffAt         time.Time
	TotalAmount       reservation.Money
	Customer          reservation.Snapshot
	Vehicle           reservation.Snapshot
	Addons            []reservation.Addon
	Actor             string
}

type CreateReservation struct {
	uow   shared.UnitOfWork
	codes CodeGenerator
	clock clock.Clock
	audit AuditSink
}

func NewCreateReservation(uow shared.UnitOfWork, codes CodeGenerator, clk clock.Clock, audit AuditSink) *CreateReservation {
	return &CreateReservation{
		uow:   uow,
		codes: codes,
		clock: clk,
		audit: audit,
	}
}

// Execute creates the reservation and its two dispatch intents in one
// transaction. Either everything is visible after commit or nothing is.
func (uc *CreateReservation) Execute(ctx context.Context, in CreateReservationInput) (*reservation.Reservation, error) {
	code, err := uc.codes.Generate(ctx)
	if err != nil {
		return nil, err
	}

	customer, vehicle, err := uc.cleanSnapshots(in.Customer, in.Vehicle)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	res, err := reservation.New(
		code,
		in.SupplierCode,
		in.PickupOfficeCode,
		in.DropoffOfficeCode,
		in.PickupAt,
		in.DropoffAt,
		in.TotalAmount,
		customer,
		vehicle,
		in.Addons,
		uc.clock.Now(),
	)
	if err != nil {
		return nil, err
	}

	events, err := outbox.BuildReservationEvents(res)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrPersistenceFailed)
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Reservations().Save(ctx, res); err != nil {
			return err
		}
		return tx.Outbox().Append(ctx, events)
	})
	if err != nil {
		return nil, errs.Mark(err, errs.ErrPersistenceFailed)
	}

	uc.audit.ReservationCreated(code.Value(), in.Actor, map[string]any{
		"supplier_code": in.SupplierCode,
		"total_amount":  in.TotalAmount.String(),
	})

	return res, nil
}

func (uc *CreateReservation) cleanSnapshots(customer, vehicle reservation.Snapshot) (reservation.Snapshot, reservation.Snapshot, error) {
	filtered, err := security.EnforcePCIStorageRules(map[string]any(customer.Copy()))
	if err != nil {
		return nil, nil, err
	}
	sanitizedCustomer, err := security.SanitizePayload(filtered)
	if err != nil {
		return nil, nil, err
	}
	sanitizedVehicle, err := security.SanitizePayload(map[string]any(vehicle.Copy()))
	if err != nil {
		return nil, nil, err
	}

	outCustomer, _ := sanitizedCustomer.(map[string]any)
	outVehicle, _ := sanitizedVehicle.(map[string]any)
	return reservation.Snapshot(outCustomer), reservation.Snapshot(outVehicle), nil
}
