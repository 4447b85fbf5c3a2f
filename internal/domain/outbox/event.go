package outbox

import (
	"encoding/json"
	"time"

	"reservas-api/internal/domain/reservation"
	"reservas-api/internal/pkg/errs"
)

type EventType string

const (
	EventTypePaymentRequested EventType = "PAYMENT_REQUESTED"
	EventTypeBookingRequested EventType = "BOOKING_REQUESTED"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusProcessed Status = "PROCESSED"
	StatusFailed    Status = "FAILED"
)

// Event is one durable dispatch intent. Payload carries the reservation
// snapshot taken at creation time so the worker never re-reads the aggregate.
type Event struct {
	ID          int64
	AggregateID string
	Type        EventType
	Payload     []byte
	Status      Status
	LastError   *string
	CreatedAt   time.Time
}

type addonPayload struct {
	AddonCode    string `json:"addon_code"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Quantity     int    `json:"quantity"`
	UnitPrice    string `json:"unit_price"`
	TotalPrice   string `json:"total_price"`
	CurrencyCode string `json:"currency_code"`
}

type reservationPayload struct {
	ReservationCode   string               `json:"reservation_code"`
	SupplierCode      string               `json:"supplier_code"`
	PickupOfficeCode  string               `json:"pickup_office_code"`
	DropoffOfficeCode string               `json:"dropoff_office_code"`
	PickupDatetime    string               `json:"pickup_datetime"`
	DropoffDatetime   string               `json:"dropoff_datetime"`
	TotalAmount       string               `json:"total_amount"`
	CustomerSnapshot  reservation.Snapshot `json:"customer_snapshot"`
	VehicleSnapshot   reservation.Snapshot `json:"vehicle_snapshot"`
	Addons            []addonPayload       `json:"addons"`
}

type eventPayload struct {
	Reservation reservationPayload `json:"reservation"`
}

// BuildReservationEvents derives the exactly-two dispatch intents for a new
// reservation: one PAYMENT_REQUESTED and one BOOKING_REQUESTED, both PENDING,
// sharing the same payload.
func BuildReservationEvents(r *reservation.Reservation) ([]Event, error) {
	addons := make([]addonPayload, 0, len(r.Addons()))
	for _, a := range r.Addons() {
		addons = append(addons, addonPayload{
			AddonCode:    a.AddonCode,
			Name:         a.Name,
			Category:     a.Category,
			Quantity:     a.Quantity,
			UnitPrice:    a.UnitPrice.String(),
			TotalPrice:   a.TotalPrice.String(),
			CurrencyCode: a.CurrencyCode,
		})
	}

	payload, err := json.Marshal(eventPayload{
		Reservation: reservationPayload{
			ReservationCode:   r.Code().Value(),
			SupplierCode:      r.SupplierCode(),
			PickupOfficeCode:  r.PickupOfficeCode(),
			DropoffOfficeCode: r.DropoffOfficeCode(),
			PickupDatetime:    r.PickupAt().UTC().Format(time.RFC3339),
			DropoffDatetime:   r.DropoffAt().UTC().Format(time.RFC3339),
			TotalAmount:       r.TotalAmount().String(),
			CustomerSnapshot:  r.Customer(),
			VehicleSnapshot:   r.Vehicle(),
			Addons:            addons,
		},
	})
	if err != nil {
		return nil, errs.Wrap(err, "failed to marshal reservation event payload")
	}

	return []Event{
		{AggregateID: r.Code().Value(), Type: EventTypePaymentRequested, Payload: payload, Status: StatusPending},
		{AggregateID: r.Code().Value(), Type: EventTypeBookingRequested, Payload: payload, Status: StatusPending},
	}, nil
}

// ReservationFromPayload rebuilds a dispatchable reservation snapshot from an
// event payload. Fields that fail to parse fall back to safe defaults so a
// mangled row can still be routed (and recorded as failed by the provider).
func ReservationFromPayload(aggregateID string, raw []byte, now time.Time) *reservation.Reservation {
	var decoded eventPayload
	_ = json.Unmarshal(raw, &decoded)
	p := decoded.Reservation

	code, err := reservation.NewCode(aggregateID)
	if err != nil {
		code, _ = reservation.NewCode("UNKNOWN0")
	}

	pickup := parseTime(p.PickupDatetime, now.UTC())
	dropoff := parseTime(p.DropoffDatetime, pickup.Add(time.Hour))
	if !dropoff.After(pickup) {
		dropoff = pickup.Add(time.Hour)
	}

	amount, err := reservation.ParseMoney(p.TotalAmount)
	if err != nil || !amount.IsPositive() {
		amount = reservation.NewMoney(100)
	}

	return reservation.Reconstruct(
		0,
		code,
		orUnknown(p.SupplierCode),
		orUnknown(p.PickupOfficeCode),
		orUnknown(p.DropoffOfficeCode),
		pickup,
		dropoff,
		amount,
		p.CustomerSnapshot.Copy(),
		p.VehicleSnapshot.Copy(),
		reservation.StatusCreated,
		now.UTC(),
		nil,
		nil,
	)
}

func parseTime(raw string, fallback time.Time) time.Time {
	if raw == "" {
		return fallback
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fallback
	}
	return t
}

func orUnknown(value string) string {
	if value == "" {
		return "UNKNOWN"
	}
	return value
}
