package components

import (
	"log/slog"

	"reservas-api/internal/handler/api"
	"reservas-api/internal/infra/outbox"
	"reservas-api/internal/pkg/audit"
	"reservas-api/internal/pkg/clock"
	"reservas-api/internal/usecase/commands"
	"reservas-api/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		fx.Annotate(
			NewAuditLogger,
			fx.As(new(commands.AuditSink)),
		),
		fx.Annotate(
			commands.NewCreateReservation,
			fx.As(new(api.ReservationCreator)),
		),
		fx.Annotate(
			commands.NewStatusReconciler,
			fx.As(new(outbox.ResponseRecorder)),
		),
		fx.Annotate(
			queries.NewReservationQueries,
			fx.As(new(api.ReservationReader)),
		),
	),
)

func NewAuditLogger(logger *slog.Logger, clk clock.Clock) *audit.Logger {
	return audit.NewLogger(logger, clk)
}
