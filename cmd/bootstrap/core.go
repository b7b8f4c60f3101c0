package bootstrap

import (
	"log/slog"

	"servicebay/internal/infra/db"
	"servicebay/internal/pkg/clock"
	"servicebay/internal/pkg/config"
	"servicebay/internal/pkg/jwt"
	"servicebay/internal/pkg/obs"
	"servicebay/internal/usecase"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(config.LoadConfig),
)

var LoggerModule = fx.Module("logger",
	fx.Provide(func(cfg config.Config) *slog.Logger {
		return obs.NewLogger(cfg.Log)
	}),
)

var DBModule = fx.Module("db",
	fx.Provide(NewDB),
)

// AuthModule verifies bearer tokens; issuing them is the credential service's job.
var AuthModule = fx.Module("auth",
	fx.Provide(
		fx.Annotate(
			NewTokenVerifier,
			fx.As(new(usecase.TokenVerifier)),
		),
	),
)

func NewDB(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	pool, cleanup, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(cleanup))
	return pool, nil
}

func NewTokenVerifier(cfg config.Config, clk clock.Clock) (*jwt.Verifier, error) {
	return jwt.NewVerifier(cfg.JWT, clk)
}
