package bootstrap

import (
	"log/slog"

	"servicebay/internal/infra/gateway"
	"servicebay/internal/infra/pdf"
	"servicebay/internal/pkg/config"
	"servicebay/internal/usecase/commands"
	"servicebay/internal/usecase/queries"

	"go.uber.org/fx"
)

var GatewayModule = fx.Module("gateway",
	fx.Provide(
		NewPaymentGateway,
		fx.Annotate(
			pdf.NewInvoiceRenderer,
			fx.As(new(queries.InvoiceRenderer)),
		),
	),
)

func NewPaymentGateway(cfg config.Config, logger *slog.Logger) (commands.PaymentGateway, error) {
	gw, err := gateway.NewMercadoPago(cfg.Gateway, logger)
	if err != nil {
		return nil, err
	}
	return gw, nil
}
