package gateway

import (
	"context"
	"net/http"
	"time"

	"reservas-api/internal/domain/reservation"
	"reservas-api/internal/infra/resilience"
	"reservas-api/internal/pkg/config"
)

type PaymentGateway struct {
	core providerClient
}

func NewPaymentGateway(cfg config.ProviderConfig, client *http.Client, retry *resilience.RetryPolicy, breaker *resilience.CircuitBreaker) *PaymentGateway {
	return &PaymentGateway{
		core: providerClient{
			client:  client,
			retry:   retry,
			breaker: breaker,
			baseURL: cfg.PaymentBaseURL,
			path:    "/payments",
			apiKey:  cfg.PaymentAPIKey,
		},
	}
}

type paymentRequest struct {
	ReservationCode string               `json:"reservation_code"`
	Amount          string               `json:"amount"`
	Currency        string               `json:"currency"`
	SupplierCode    string               `json:"supplier_code"`
	PickupDatetime  string               `json:"pickup_datetime"`
	DropoffDatetime string               `json:"dropoff_datetime"`
	Customer        reservation.Snapshot `json:"customer"`
	Vehicle         reservation.Snapshot `json:"vehicle"`
}

// ProcessPayment charges the reservation total. The reservation code doubles
// as the provider-side idempotency key.
func (g *PaymentGateway) ProcessPayment(ctx context.Context, r *reservation.Reservation) Result {
	return g.core.dispatch(ctx, paymentRequest{
		ReservationCode: r.Code().Value(),
		Amount:          r.TotalAmount().String(),
		Currency:        "EUR",
		SupplierCode:    r.SupplierCode(),
		PickupDatetime:  r.PickupAt().UTC().Format(time.RFC3339),
		DropoffDatetime: r.DropoffAt().UTC().Format(time.RFC3339),
		Customer:        r.Customer(),
		Vehicle:         r.Vehicle(),
	})
}
