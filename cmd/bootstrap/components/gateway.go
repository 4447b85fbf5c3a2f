package components

import (
	"net/http"

	"reservas-api/internal/infra/gateway"
	"reservas-api/internal/infra/outbox"
	"reservas-api/internal/infra/resilience"
	"reservas-api/internal/pkg/clock"
	"reservas-api/internal/pkg/config"

	"go.uber.org/fx"
)

// Each provider gets its own breaker so one tripping dependency never blocks
// the other leg.
var GatewayModule = fx.Module("gateway",
	fx.Provide(
		NewHTTPClient,
		fx.Annotate(
			NewPaymentGateway,
			fx.As(new(outbox.PaymentDispatcher)),
		),
		fx.Annotate(
			NewBookingGateway,
			fx.As(new(outbox.BookingDispatcher)),
		),
	),
)

func NewHTTPClient(cfg config.Config) *http.Client {
	return &http.Client{Timeout: cfg.Provider.Timeout}
}

func NewPaymentGateway(cfg config.Config, client *http.Client, clk clock.Clock) *gateway.PaymentGateway {
	return gateway.NewPaymentGateway(
		cfg.Provider,
		client,
		newRetryPolicy(cfg.Retry),
		newBreaker(cfg.Breaker, clk),
	)
}

func NewBookingGateway(cfg config.Config, client *http.Client, clk clock.Clock) *gateway.BookingGateway {
	return gateway.NewBookingGateway(
		cfg.Provider,
		client,
		newRetryPolicy(cfg.Retry),
		newBreaker(cfg.Breaker, clk),
	)
}

func newRetryPolicy(cfg config.RetryConfig) *resilience.RetryPolicy {
	return resilience.NewRetryPolicy(cfg.MaxRetries, cfg.BaseDelay, cfg.BackoffFactor, cfg.MaxDelay, nil)
}

func newBreaker(cfg config.BreakerConfig, clk clock.Clock) *resilience.CircuitBreaker {
	return resilience.NewCircuitBreaker(cfg.FailureThreshold, cfg.RecoveryTimeout, clk)
}
