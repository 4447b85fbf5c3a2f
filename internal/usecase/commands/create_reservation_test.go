//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	domain "reservas-api/internal/domain/outbox"
	"reservas-api/internal/domain/reservation"
	"reservas-api/internal/pkg/clock"
	"reservas-api/internal/pkg/errs"
	"reservas-api/internal/pkg/security"
	"reservas-api/internal/usecase/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() commands.CreateReservationInput {
	pickup := time.Date(2026, 12, 1, 10, 0, 0, 0, time.UTC)
	return commands.CreateReservationInput{
		SupplierCode:      "HERTZ",
		PickupOfficeCode:  "MAD01",
		DropoffOfficeCode: "MAD02",
		PickupAt:          pickup,
		DropoffAt:         pickup.Add(48 * time.Hour),
		TotalAmount:       reservation.NewMoney(18050),
		Customer: reservation.Snapshot{
			"name":       "Ana García",
			"email":      "ana@example.com",
			"card_token": "tok_abc123",
			"cvv":        "123",
		},
		Vehicle: reservation.Snapshot{"category": "compact"},
		Addons: []reservation.Addon{{
			AddonCode:    "GPS",
			Name:         "GPS unit",
			Quantity:     1,
			UnitPrice:    reservation.NewMoney(500),
			TotalPrice:   reservation.NewMoney(500),
			CurrencyCode: "EUR",
		}},
		Actor: "api-client",
	}
}

func newCreateUseCase(uow *fakeUoW, audit *fakeAuditSink) *commands.CreateReservation {
	return commands.NewCreateReservation(
		uow,
		&fixedCodeGenerator{code: "ABCD1234"},
		clock.NewMockClock(time.Date(2026, 11, 30, 9, 0, 0, 0, time.UTC)),
		audit,
	)
}

func TestCreateReservation(t *testing.T) {
	ctx := context.Background()

	t.Run("persists the reservation with exactly two pending events", func(t *testing.T) {
		uow := newFakeUoW()
		audit := &fakeAuditSink{}

		res, err := newCreateUseCase(uow, audit).Execute(ctx, validInput())
		require.NoError(t, err)
		assert.Equal(t, "ABCD1234", res.Code().Value())
		assert.Equal(t, reservation.StatusCreated, res.Status())

		require.Contains(t, uow.state.reservations, "ABCD1234")
		require.Len(t, uow.state.events, 2)

		types := map[domain.EventType]int{}
		for _, ev := range uow.state.events {
			assert.Equal(t, "ABCD1234", ev.AggregateID)
			assert.Equal(t, domain.StatusPending, ev.Status)
			types[ev.Type]++
		}
		assert.Equal(t, 1, types[domain.EventTypePaymentRequested])
		assert.Equal(t, 1, types[domain.EventTypeBookingRequested])

		require.Len(t, audit.calls, 1)
		assert.Equal(t, "created", audit.calls[0].action)
		assert.Equal(t, "ABCD1234", audit.calls[0].code)
		assert.Equal(t, "api-client", audit.calls[0].actor)
	})

	t.Run("failed event append rolls back the reservation", func(t *testing.T) {
		uow := newFakeUoW()
		uow.failOutbox = true
		audit := &fakeAuditSink{}

		_, err := newCreateUseCase(uow, audit).Execute(ctx, validInput())
		assert.ErrorIs(t, err, errs.ErrPersistenceFailed)
		assert.Empty(t, uow.state.reservations)
		assert.Empty(t, uow.state.events)
		assert.Zero(t, uow.committedCalls)
		assert.Empty(t, audit.calls)
	})

	t.Run("cvv never reaches the store, tokens do", func(t *testing.T) {
		uow := newFakeUoW()

		res, err := newCreateUseCase(uow, &fakeAuditSink{}).Execute(ctx, validInput())
		require.NoError(t, err)
		assert.NotContains(t, res.Customer(), "cvv")
		assert.Equal(t, "tok_abc123", res.Customer()["card_token"])

		stored := uow.state.reservations["ABCD1234"]
		assert.NotContains(t, stored.customer, "cvv")
		assert.Equal(t, "tok_abc123", stored.customer["card_token"])
	})

	t.Run("raw card number is rejected before persistence", func(t *testing.T) {
		uow := newFakeUoW()
		in := validInput()
		in.Customer["card_number"] = "4111111111111111"

		_, err := newCreateUseCase(uow, &fakeAuditSink{}).Execute(ctx, in)
		assert.ErrorIs(t, err, errs.ErrValidation)
		assert.ErrorIs(t, err, security.ErrRawCardNumber)
		assert.Empty(t, uow.state.reservations)
	})

	t.Run("injection-shaped text is rejected", func(t *testing.T) {
		uow := newFakeUoW()
		in := validInput()
		in.Vehicle["notes"] = "compact'; DROP TABLE reservations; --"

		_, err := newCreateUseCase(uow, &fakeAuditSink{}).Execute(ctx, in)
		assert.ErrorIs(t, err, errs.ErrValidation)
		assert.ErrorIs(t, err, security.ErrUnsafeInput)
		assert.Empty(t, uow.state.reservations)
	})

	t.Run("dropoff before pickup fails validation", func(t *testing.T) {
		in := validInput()
		in.DropoffAt = in.PickupAt.Add(-time.Hour)

		_, err := newCreateUseCase(newFakeUoW(), &fakeAuditSink{}).Execute(ctx, in)
		assert.ErrorIs(t, err, reservation.ErrInvalidWindow)
	})

	t.Run("zero amount fails validation", func(t *testing.T) {
		in := validInput()
		in.TotalAmount = reservation.NewMoney(0)

		_, err := newCreateUseCase(newFakeUoW(), &fakeAuditSink{}).Execute(ctx, in)
		assert.ErrorIs(t, err, reservation.ErrNonPositiveAmount)
	})

	t.Run("generator exhaustion surfaces unchanged", func(t *testing.T) {
		uc := commands.NewCreateReservation(
			newFakeUoW(),
			&fixedCodeGenerator{err: errs.ErrCodeGenerationExhausted},
			clock.NewMockClock(time.Now()),
			&fakeAuditSink{},
		)

		_, err := uc.Execute(ctx, validInput())
		assert.ErrorIs(t, err, errs.ErrCodeGenerationExhausted)
	})
}
