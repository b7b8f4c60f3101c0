//go:build unit

package api_test

import (
	"net/http"
	"strings"
	"testing"

	"servicebay/internal/domain/auth"
	"servicebay/internal/handler/api"
	resdto "servicebay/internal/handler/dto/response"
	"servicebay/internal/pkg/errs"
	"servicebay/internal/usecase/commands"
	"servicebay/tests/common/builder"
	"servicebay/tests/common/httptest"
	"servicebay/tests/common/testutil"
	commandsmock "servicebay/tests/mock/commands"
	queriesmock "servicebay/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type FeedbackHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockFeedbackCommands
	mockQueries  *queriesmock.MockFeedbackQueries
	handler      *api.FeedbackHandler
	userID       uuid.UUID
	role         auth.Role
}

func (s *FeedbackHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockFeedbackCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockFeedbackQueries(s.mockCtrl)
	s.handler = api.NewFeedbackHandler(s.mockCommands, s.mockQueries)

	s.userID = uuid.New()
	s.role = auth.RoleCustomer
	authMiddleware := fakeAuth(&s.userID, &s.role)

	s.router.POST("/feedback", authMiddleware, s.handler.Submit)
	s.router.GET("/bookings/:id/feedback", authMiddleware, s.handler.GetByBooking)
}

func (s *FeedbackHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestFeedbackHandlerSuite(t *testing.T) {
	suite.Run(t, new(FeedbackHandlerTestSuite))
}

func (s *FeedbackHandlerTestSuite) TestSubmit() {
	url := "/feedback"
	f := builder.NewFeedbackBuilder().WithCustomerID(s.userID)
	reqBody := f.BuildSubmitRequestDTO()

	s.Run("success: returns 201 with the stored feedback", func() {
		s.mockCommands.EXPECT().Submit(gomock.Any(), gomock.Any(), commands.SubmitFeedbackCommand{
			BookingID: f.BookingID,
			Rating:    5,
			Comment:   f.Comment,
		}).Return(&commands.SubmitFeedbackResult{FeedbackID: uuid.New()}, nil).Times(1)
		s.mockQueries.EXPECT().GetByBooking(gomock.Any(), gomock.Any(), f.BookingID).Return(f.BuildViewQuery(), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var body resdto.FeedbackResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(int32(5), body.Rating)
		s.Equal(f.BookingID, body.BookingID)
	})

	s.Run("error: 400 Bad Request on binding errors", func() {
		cases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing field: bookingId (required)", mutate: testutil.Field("bookingId", nil)},
			{name: "comment too long (1001 chars)", mutate: testutil.Field("comment", strings.Repeat("c", 1001))},
			{name: "rating not a number", mutate: testutil.Field("rating", "five")},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				m := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, m, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
			})
		}
	})

	s.Run("error: domain errors map to their status codes", func() {
		cases := []struct {
			name       string
			err        error
			expectCode int
			expectMsg  string
		}{
			{name: "rating out of range", err: errs.NewValidation("rating", "must be between 1 and 5"), expectCode: http.StatusBadRequest, expectMsg: "Validation failed"},
			{name: "booking not completed", err: errs.NewInvalidState("submit feedback", "CONFIRMED"), expectCode: http.StatusConflict, expectMsg: "Invalid state"},
			{name: "already submitted", err: commands.ErrFeedbackExists, expectCode: http.StatusConflict, expectMsg: "Conflict"},
			{name: "someone else's booking", err: errs.NewForbidden("feedback:submit"), expectCode: http.StatusForbidden, expectMsg: "Forbidden"},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, tc.err).Times(1)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, tc.expectMsg)
			})
		}
	})
}

func (s *FeedbackHandlerTestSuite) TestGetByBooking() {
	f := builder.NewFeedbackBuilder()

	s.Run("success", func() {
		s.mockQueries.EXPECT().GetByBooking(gomock.Any(), gomock.Any(), f.BookingID).Return(f.BuildViewQuery(), nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+f.BookingID.String()+"/feedback", nil, "bearer-token")

		var body resdto.FeedbackResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(f.Comment, body.Comment)
	})

	s.Run("error: 404 when no feedback exists", func() {
		s.mockQueries.EXPECT().GetByBooking(gomock.Any(), gomock.Any(), f.BookingID).
			Return(nil, errs.NewNotFound("feedback", f.BookingID.String())).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+f.BookingID.String()+"/feedback", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Not found")
	})
}
