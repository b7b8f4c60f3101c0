package bootstrap

import (
	"servicebay/cmd/bootstrap/components"

	"go.uber.org/fx"
)

// Module wires the API process. Infrastructure comes first so the
// application layers can depend on it.
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	TracingModule,
	DBModule,
	RedisModule,
	MQModule,
	GatewayModule,
	AuthModule,

	components.PersistenceModule,
	components.UseCaseModule,
	components.HandlerModule,
	WorkersModule,
)
