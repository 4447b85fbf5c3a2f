package components

import (
	"context"

	"reservas-api/internal/infra/outbox"
	"reservas-api/internal/pkg/clock"
	"reservas-api/internal/pkg/config"
	"reservas-api/internal/usecase/shared"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		NewOutboxWorker,
	),
	fx.Invoke(StartOutboxWorker),
)

func NewOutboxWorker(
	cfg config.Config,
	events shared.OutboxRepository,
	payment outbox.PaymentDispatcher,
	booking outbox.BookingDispatcher,
	recorder outbox.ResponseRecorder,
	clk clock.Clock,
) *outbox.Worker {
	return outbox.NewWorker(
		events,
		payment,
		booking,
		recorder,
		clk,
		cfg.Outbox.BatchSize,
		cfg.Outbox.PollInterval,
	)
}

func StartOutboxWorker(lc fx.Lifecycle, worker *outbox.Worker) {
	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				worker.Run(runCtx)
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}
