package gateway

import (
	"context"
	"net/http"
	"time"

	"reservas-api/internal/domain/reservation"
	"reservas-api/internal/infra/resilience"
	"reservas-api/internal/pkg/config"
)

type BookingGateway struct {
	core providerClient
}

func NewBookingGateway(cfg config.ProviderConfig, client *http.Client, retry *resilience.RetryPolicy, breaker *resilience.CircuitBreaker) *BookingGateway {
	return &BookingGateway{
		core: providerClient{
			client:  client,
			retry:   retry,
			breaker: breaker,
			baseURL: cfg.BookingBaseURL,
			path:    "/bookings",
			apiKey:  cfg.BookingAPIKey,
		},
	}
}

type bookingRequest struct {
	ReservationCode   string               `json:"reservation_code"`
	SupplierCode      string               `json:"supplier_code"`
	PickupOfficeCode  string               `json:"pickup_office_code"`
	DropoffOfficeCode string               `json:"dropoff_office_code"`
	PickupDatetime    string               `json:"pickup_datetime"`
	DropoffDatetime   string               `json:"dropoff_datetime"`
	Customer          reservation.Snapshot `json:"customer"`
	Vehicle           reservation.Snapshot `json:"vehicle"`
}

// CreateBooking confirms the reservation with the supplier.
func (g *BookingGateway) CreateBooking(ctx context.Context, r *reservation.Reservation) Result {
	return g.core.dispatch(ctx, bookingRequest{
		ReservationCode:   r.Code().Value(),
		SupplierCode:      r.SupplierCode(),
		PickupOfficeCode:  r.PickupOfficeCode(),
		DropoffOfficeCode: r.DropoffOfficeCode(),
		PickupDatetime:    r.PickupAt().UTC().Format(time.RFC3339),
		DropoffDatetime:   r.DropoffAt().UTC().Format(time.RFC3339),
		Customer:          r.Customer(),
		Vehicle:           r.Vehicle(),
	})
}
