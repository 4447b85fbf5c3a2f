package bootstrap

import (
	"reservas-api/cmd/bootstrap/components"

	"go.uber.org/fx"
)

// Module is the shared core wiring: everything both binaries need.
var Module = fx.Options(
	ConfigModule,
	DBModule,
	components.RepositoryModule,
	components.GatewayModule,
	components.UseCaseModule,
)
