package components

import (
	"reservas-api/internal/infra/db"
	repo_impl "reservas-api/internal/infra/repository"
	"reservas-api/internal/infra/uow"
	"reservas-api/internal/pkg/codegen"
	"reservas-api/internal/pkg/config"
	"reservas-api/internal/usecase/commands"
	"reservas-api/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		uow.NewPostgresUoW,
		fx.Annotate(
			repo_impl.NewReservationRepository,
			fx.As(new(shared.ReservationRepository)),
		),
		fx.Annotate(
			repo_impl.NewOutboxRepository,
			fx.As(new(shared.OutboxRepository)),
		),
		fx.Annotate(
			NewCodeGenerator,
			fx.As(new(commands.CodeGenerator)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

func NewCodeGenerator(cfg config.Config, repo shared.ReservationRepository) *codegen.Generator {
	return codegen.NewGenerator(repo, cfg.Code.MaxRetries, nil)
}
