package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"servicebay/internal/domain/pricing"
	"servicebay/internal/usecase/queries"

	"github.com/phpdave11/gofpdf"
)

type InvoiceRenderer struct {
	company string
}

func NewInvoiceRenderer() *InvoiceRenderer {
	return &InvoiceRenderer{company: "ServiceBay"}
}

func (r *InvoiceRenderer) Render(inv *queries.InvoiceView) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+inv.Number, false)
	pdf.SetAuthor(r.company, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "INVOICE")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	line(pdf, "Invoice No", inv.Number)
	line(pdf, "Issued", inv.IssuedAt.UTC().Format("2006-01-02 15:04 MST"))
	line(pdf, "Booking", inv.BookingID.String())
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Billed to:")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 11)
	line(pdf, "Name", safe(inv.CustomerName, "-"))
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Details:")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, describe(inv.Kind), "", "", false)
	pdf.Ln(2)

	line(pdf, "Subtotal", pricing.Money(inv.SubtotalCents).String())
	line(pdf, "Tax", pricing.Money(inv.TaxCents).String())
	pdf.SetFont("Helvetica", "B", 12)
	line(pdf, "Total", pricing.Money(inv.TotalCents).String())
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 10)
	paid := "Paid by " + strings.ToLower(inv.Method)
	if inv.CardLast4 != "" {
		paid += " ending in " + inv.CardLast4
	}
	line(pdf, "Payment", paid)
	line(pdf, "Reference", inv.Reference)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", inv.Number, err)
	}
	return buf.Bytes(), nil
}

func line(pdf *gofpdf.Fpdf, label, value string) {
	pdf.Cell(0, 7, fmt.Sprintf("%-12s: %s", label, value))
	pdf.Ln(7)
}

func describe(kind string) string {
	switch kind {
	case pricing.KindFuel.String():
		return "1) Fuel delivery"
	case pricing.KindService.String():
		return "1) Vehicle service"
	default:
		return "1) " + safe(kind, "Booking")
	}
}

func safe(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
