//go:build unit

package outbox_test

import (
	"encoding/json"
	"testing"
	"time"

	"reservas-api/internal/domain/outbox"
	"reservas-api/internal/domain/reservation"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildReservation(t *testing.T) *reservation.Reservation {
	t.Helper()
	code, err := reservation.NewCode("ABCD1234")
	require.NoError(t, err)
	pickup := time.Date(2026, 12, 1, 10, 0, 0, 0, time.UTC)
	res, err := reservation.New(
		code,
		"HERTZ", "MAD01", "MAD02",
		pickup, pickup.Add(48*time.Hour),
		reservation.NewMoney(18050),
		reservation.Snapshot{"name": "Ana"},
		reservation.Snapshot{"category": "compact"},
		[]reservation.Addon{{
			AddonCode:    "GPS",
			Name:         "Navigation",
			Quantity:     1,
			UnitPrice:    reservation.NewMoney(500),
			TotalPrice:   reservation.NewMoney(500),
			CurrencyCode: "EUR",
		}},
		pickup.Add(-time.Hour),
	)
	require.NoError(t, err)
	return res
}

func TestBuildReservationEvents(t *testing.T) {
	res := buildReservation(t)

	events, err := outbox.BuildReservationEvents(res)
	require.NoError(t, err)
	require.Len(t, events, 2)

	types := map[outbox.EventType]bool{}
	for _, ev := range events {
		types[ev.Type] = true
		assert.Equal(t, "ABCD1234", ev.AggregateID)
		assert.Equal(t, outbox.StatusPending, ev.Status)
		assert.Equal(t, events[0].Payload, ev.Payload)
	}
	assert.True(t, types[outbox.EventTypePaymentRequested])
	assert.True(t, types[outbox.EventTypeBookingRequested])

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(events[0].Payload, &decoded))
	payload, ok := decoded["reservation"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ABCD1234", payload["reservation_code"])
	assert.Equal(t, "180.50", payload["total_amount"])
	assert.Equal(t, "2026-12-01T10:00:00Z", payload["pickup_datetime"])
}

func TestReservationFromPayload(t *testing.T) {
	now := time.Date(2027, 1, 15, 9, 30, 0, 0, time.UTC)

	t.Run("round trip", func(t *testing.T) {
		res := buildReservation(t)
		events, err := outbox.BuildReservationEvents(res)
		require.NoError(t, err)

		rebuilt := outbox.ReservationFromPayload(events[0].AggregateID, events[0].Payload, now)
		assert.Equal(t, res.Code().Value(), rebuilt.Code().Value())
		assert.Equal(t, res.SupplierCode(), rebuilt.SupplierCode())
		assert.True(t, res.PickupAt().Equal(rebuilt.PickupAt()))
		assert.Equal(t, res.TotalAmount().Cents(), rebuilt.TotalAmount().Cents())

		if diff := cmp.Diff(map[string]any(res.Customer()), map[string]any(rebuilt.Customer())); diff != "" {
			t.Errorf("customer snapshot mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(map[string]any(res.Vehicle()), map[string]any(rebuilt.Vehicle())); diff != "" {
			t.Errorf("vehicle snapshot mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("mangled payload falls back to defaults", func(t *testing.T) {
		rebuilt := outbox.ReservationFromPayload("ABCD1234", []byte(`not-json`), now)

		assert.Equal(t, "ABCD1234", rebuilt.Code().Value())
		assert.Equal(t, "UNKNOWN", rebuilt.SupplierCode())
		assert.True(t, rebuilt.PickupAt().Equal(now))
		assert.True(t, rebuilt.DropoffAt().Equal(now.Add(time.Hour)))
		assert.Equal(t, int64(100), rebuilt.TotalAmount().Cents())
	})

	t.Run("invalid aggregate id falls back to placeholder code", func(t *testing.T) {
		rebuilt := outbox.ReservationFromPayload("not a code", []byte(`{}`), now)
		assert.Equal(t, "UNKNOWN0", rebuilt.Code().Value())
	})

	t.Run("dropoff not after pickup gets pushed forward", func(t *testing.T) {
		payload := []byte(`{"reservation":{"pickup_datetime":"2027-01-15T10:00:00Z","dropoff_datetime":"2027-01-15T09:00:00Z"}}`)
		rebuilt := outbox.ReservationFromPayload("ABCD1234", payload, now)
		assert.True(t, rebuilt.DropoffAt().After(rebuilt.PickupAt()))
	})
}
