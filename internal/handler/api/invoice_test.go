//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"servicebay/internal/domain/auth"
	"servicebay/internal/handler/api"
	resdto "servicebay/internal/handler/dto/response"
	"servicebay/internal/pkg/errs"
	"servicebay/tests/common/builder"
	"servicebay/tests/common/httptest"
	queriesmock "servicebay/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type InvoiceHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockQueries *queriesmock.MockInvoiceQueries
	handler     *api.InvoiceHandler
	userID      uuid.UUID
	role        auth.Role
}

func (s *InvoiceHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockQueries = queriesmock.NewMockInvoiceQueries(s.mockCtrl)
	s.handler = api.NewInvoiceHandler(s.mockQueries)

	s.userID = uuid.New()
	s.role = auth.RoleCustomer
	authMiddleware := fakeAuth(&s.userID, &s.role)

	s.router.GET("/invoices/:id", authMiddleware, s.handler.Get)
	s.router.GET("/invoices/booking/:id", authMiddleware, s.handler.GetByBooking)
	s.router.GET("/invoices/:id/pdf", authMiddleware, s.handler.PDF)
}

func (s *InvoiceHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestInvoiceHandlerSuite(t *testing.T) {
	suite.Run(t, new(InvoiceHandlerTestSuite))
}

func (s *InvoiceHandlerTestSuite) TestGet() {
	b := builder.NewBookingBuilder()
	inv := b.Payment.BuildInvoiceView(b)

	s.Run("success", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any(), inv.ID).Return(inv, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/invoices/"+inv.ID.String(), nil, "bearer-token")

		var body resdto.InvoiceResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(inv.Number, body.Number)
		s.Equal("Nimal Perera", body.CustomerName)
		s.Equal(7475.0, body.Subtotal)
		s.Equal(8596.25, body.Total)
	})

	s.Run("error: 403 for another customer's invoice", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any(), inv.ID).Return(nil, errs.NewForbidden("invoice:read")).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/invoices/"+inv.ID.String(), nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Forbidden")
	})
}

func (s *InvoiceHandlerTestSuite) TestGetByBooking() {
	b := builder.NewBookingBuilder()
	inv := b.Payment.BuildInvoiceView(b)

	s.Run("success", func() {
		s.mockQueries.EXPECT().GetByBooking(gomock.Any(), gomock.Any(), b.ID).Return(inv, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/invoices/booking/"+b.ID.String(), nil, "bearer-token")

		var body resdto.InvoiceResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(inv.ID, body.ID)
	})

	s.Run("error: 404 before payment", func() {
		s.mockQueries.EXPECT().GetByBooking(gomock.Any(), gomock.Any(), b.ID).
			Return(nil, errs.NewNotFound("invoice", b.ID.String())).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/invoices/booking/"+b.ID.String(), nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Not found")
	})
}

func (s *InvoiceHandlerTestSuite) TestPDF() {
	b := builder.NewBookingBuilder()
	inv := b.Payment.BuildInvoiceView(b)
	url := "/invoices/" + inv.ID.String() + "/pdf"

	s.Run("success: streams the document as an attachment", func() {
		doc := []byte("%PDF-1.3 fake")
		s.mockQueries.EXPECT().RenderPDF(gomock.Any(), gomock.Any(), inv.ID).Return(doc, inv, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		s.Equal(http.StatusOK, rec.Code)
		httptest.AssertHeaders(s.T(), rec, map[string]string{
			"Content-Type":        "application/pdf",
			"Content-Disposition": `attachment; filename="` + inv.Number + `.pdf"`,
		})
		s.Equal(doc, rec.Body.Bytes())
	})

	s.Run("error: 400 for a malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/invoices/abc/pdf", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id")
	})

	s.Run("error: 404 when the invoice is missing", func() {
		s.mockQueries.EXPECT().RenderPDF(gomock.Any(), gomock.Any(), inv.ID).
			Return(nil, nil, errs.NewNotFound("invoice", inv.ID.String())).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Not found")
	})

	s.Run("error: 500 when rendering fails", func() {
		s.mockQueries.EXPECT().RenderPDF(gomock.Any(), gomock.Any(), inv.ID).
			Return(nil, nil, errs.New("font missing")).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Failed to render invoice")
	})
}
