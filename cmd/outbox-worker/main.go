package main

import (
	"context"
	"log/slog"
	"os"

	"reservas-api/cmd/bootstrap"
	"reservas-api/cmd/bootstrap/components"

	"go.uber.org/fx"
)

// Standalone outbox drainer. Runs the same worker wiring as the API binary
// so the outbox can be drained by a separate replica.
func main() {
	app := fx.New(
		bootstrap.Module,
		bootstrap.LoggerModule,
		components.WorkerModule,
	)

	if err := app.Start(context.Background()); err != nil {
		slog.Error("worker failed to start", "error", err)
		os.Exit(1)
	}

	<-app.Done()

	if err := app.Stop(context.Background()); err != nil {
		slog.Error("worker failed to stop cleanly", "error", err)
	}

	slog.Info("worker stopped")
}
