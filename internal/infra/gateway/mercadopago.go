package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"servicebay/internal/domain/payment"
	"servicebay/internal/pkg/config"
	"servicebay/internal/pkg/errs"
	"servicebay/internal/usecase/commands"

	"github.com/mercadopago/sdk-go/pkg/cardtoken"
	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
)

var (
	ErrMissingAccessToken = errs.New("missing MERCADOPAGO_ACCESS_TOKEN")
	ErrTokenRequired      = errs.New("provider card token required for gateway capture")
)

// DeclinedTestCard is always rejected in mock mode.
const DeclinedTestCard = "4000000000000002"

// Provider statuses that mean no money moved.
var failedStatuses = map[string]bool{
	"rejected":     true,
	"cancelled":    true,
	"refunded":     true,
	"charged_back": true,
}

type MercadoPago struct {
	payments   mppayment.Client
	cards      cardtoken.Client
	payerEmail string
	mock       bool
	logger     *slog.Logger
}

func NewMercadoPago(cfg config.GatewayConfig, logger *slog.Logger) (*MercadoPago, error) {
	if cfg.Mock {
		logger.Info("payment gateway mock mode enabled")
		return &MercadoPago{mock: true, payerEmail: cfg.PayerEmail, logger: logger}, nil
	}
	if cfg.AccessToken == "" {
		return nil, ErrMissingAccessToken
	}
	sdkCfg, err := mpconfig.New(cfg.AccessToken)
	if err != nil {
		return nil, errs.Wrap(err, "failed to create mercadopago config")
	}
	logger.Info("Mercado Pago client initialized")
	return newMercadoPago(mppayment.NewClient(sdkCfg), cardtoken.NewClient(sdkCfg), cfg.PayerEmail, logger), nil
}

func newMercadoPago(payments mppayment.Client, cards cardtoken.Client, payerEmail string, logger *slog.Logger) *MercadoPago {
	return &MercadoPago{payments: payments, cards: cards, payerEmail: payerEmail, logger: logger}
}

// Capture charges the instrument once per reference. The SDK sends a fresh
// idempotency key on every call, so an earlier charge carrying the same
// external reference is looked up first and reused.
func (g *MercadoPago) Capture(ctx context.Context, req commands.CaptureRequest) (commands.CaptureResult, error) {
	if g.mock {
		return g.mockCapture(ctx, req)
	}

	prior, err := g.findByReference(ctx, req.Reference)
	if err != nil {
		return commands.CaptureResult{}, err
	}
	if prior != nil {
		g.logger.Info("gateway capture reused",
			"booking_id", req.BookingID, "reference", req.Reference,
			"provider_payment_id", prior.ID, "provider_status", prior.Status)
		return commands.CaptureResult{ProviderPaymentID: strconv.Itoa(prior.ID), Status: prior.Status}, nil
	}

	token, err := g.cardToken(ctx, req.Instrument)
	if err != nil {
		return commands.CaptureResult{}, err
	}

	resp, err := g.payments.Create(ctx, mppayment.Request{
		TransactionAmount: req.Instrument.Amount.Float64(),
		Token:             token,
		Description:       req.Description,
		Installments:      1,
		ExternalReference: req.Reference,
		Payer:             &mppayment.PayerRequest{Email: g.payerEmail},
	})
	if err != nil {
		g.logger.Warn("gateway capture failed", "booking_id", req.BookingID, "reference", req.Reference, "error", err)
		return commands.CaptureResult{}, err
	}

	g.logger.Info("gateway capture completed",
		"booking_id", req.BookingID, "reference", req.Reference,
		"provider_payment_id", resp.ID, "provider_status", resp.Status)
	return commands.CaptureResult{ProviderPaymentID: strconv.Itoa(resp.ID), Status: resp.Status}, nil
}

func (g *MercadoPago) findByReference(ctx context.Context, reference string) (*mppayment.Response, error) {
	res, err := g.payments.Search(ctx, mppayment.SearchRequest{
		Limit:   10,
		Filters: map[string]string{"external_reference": reference},
	})
	if err != nil {
		g.logger.Warn("gateway lookup failed", "reference", reference, "error", err)
		return nil, errs.Wrap(err, "payment lookup by reference")
	}
	for i := range res.Results {
		if !failedStatuses[res.Results[i].Status] {
			return &res.Results[i], nil
		}
	}
	return nil, nil
}

// cardToken returns the caller's provider token, or tokenizes raw card data.
func (g *MercadoPago) cardToken(ctx context.Context, ins payment.Instrument) (string, error) {
	if ins.Token != "" {
		return ins.Token, nil
	}
	if ins.Method != payment.MethodCard || ins.CardNumber == "" {
		return "", ErrTokenRequired
	}
	tok, err := g.cards.Create(ctx, cardtoken.Request{
		CardNumber:      ins.CardNumber,
		ExpirationMonth: fmt.Sprintf("%02d", ins.ExpiryMonth),
		ExpirationYear:  strconv.Itoa(ins.ExpiryYear),
		SecurityCode:    ins.CVV,
	})
	if err != nil {
		return "", errs.Wrap(err, "card tokenization")
	}
	return tok.ID, nil
}

func (g *MercadoPago) mockCapture(ctx context.Context, req commands.CaptureRequest) (commands.CaptureResult, error) {
	if err := ctx.Err(); err != nil {
		return commands.CaptureResult{}, err
	}
	id := "mock-" + strconv.FormatInt(time.Now().UTC().UnixNano(), 10)
	status := "approved"
	if req.Instrument.Method == payment.MethodCard && req.Instrument.CardNumber == DeclinedTestCard {
		status = "rejected"
	}
	g.logger.Info("mock gateway capture", "booking_id", req.BookingID, "reference", req.Reference, "provider_status", status)
	return commands.CaptureResult{ProviderPaymentID: id, Status: status}, nil
}
