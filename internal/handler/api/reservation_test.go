//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"parkhub/internal/domain/reservation"
	"parkhub/internal/domain/slot"
	"parkhub/internal/handler/api"
	resdto "parkhub/internal/handler/dto/response"
	"parkhub/internal/pkg/auth"
	"parkhub/internal/pkg/errs"
	"parkhub/internal/usecase/commands"
	"parkhub/internal/usecase/queries"
	"parkhub/tests/common/builder"
	"parkhub/tests/common/httptest"
	"parkhub/tests/common/testutil"
	commandsmock "parkhub/tests/mock/commands"
	queriesmock "parkhub/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ReservationHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockReservationCommands
	mockQueries  *queriesmock.MockReservationQueries
	handler      *api.ReservationHandler
	actorID      uuid.UUID
}

func (s *ReservationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockReservationCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockReservationQueries(s.mockCtrl)
	s.handler = api.NewReservationHandler(s.mockCommands, s.mockQueries)
	s.actorID = uuid.New()

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("user_id", s.actorID)
		c.Set("user_role", auth.RoleCustomer)
		c.Next()
	}

	s.router.POST("/reservations", authMiddleware, s.handler.CreateReservations)
	s.router.GET("/reservations", authMiddleware, s.handler.GetUserReservations)
	s.router.GET("/reservations/:id", authMiddleware, s.handler.GetReservation)
	s.router.DELETE("/reservations/:id", authMiddleware, s.handler.CancelReservation)
	s.router.POST("/reservations/:id/check-in", authMiddleware, s.handler.CheckIn)
	s.router.POST("/reservations/:id/check-out", authMiddleware, s.handler.CheckOut)
	s.router.GET("/facilities/:facilityId/reservations", authMiddleware, s.handler.GetFacilityReservations)
}

func (s *ReservationHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestReservationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReservationHandlerTestSuite))
}

// ================================================================================
// TestCreateReservations
// ================================================================================

func (s *ReservationHandlerTestSuite) TestCreateReservations() {
	url := "/reservations"

	reqBody := builder.NewReservationBuilder().BuildCreateRequestDTO()
	createdIDs := []uuid.UUID{uuid.New(), uuid.New()}

	s.Run("success: returns 201 Created with reservation ids", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), s.actorID, gomock.Any()).
			Return(createdIDs, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.CreatedReservationsResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(createdIDs, response.ReservationIDs)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing field: facility_id", mutate: testutil.Field("facility_id", nil)},
			{name: "missing field: start_time", mutate: testutil.Field("start_time", nil)},
			{name: "missing field: end_time", mutate: testutil.Field("end_time", nil)},
			{name: "missing field: requests", mutate: testutil.Field("requests", nil)},
			{name: "empty requests", mutate: testutil.Field("requests", []any{})},
			{name: "zero count", mutate: testutil.Field("requests", []map[string]any{{"slot_type": "Standard", "count": 0}})},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: 409 Conflict with shortage detail", func() {
		shortageErr := errs.Mark(
			&commands.ShortageError{SlotType: slot.TypeStandard, Requested: 3, Available: 1},
			commands.ErrSlotShortage,
		)
		s.mockCommands.EXPECT().Create(gomock.Any(), s.actorID, gomock.Any()).
			Return(nil, shortageErr).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "Not enough slots available")

		var body map[string]any
		_ = httptest.DecodeResponseBody(s.T(), rec.Body, &body)
		detail, ok := body["detail"].(map[string]any)
		s.True(ok)
		s.Equal("Standard", detail["slotType"])
		s.Equal(float64(3), detail["requested"])
		s.Equal(float64(1), detail["available"])
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "window in the past",
				commandsError:  commands.ErrWindowInPast,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "",
			},
			{
				name:           "invalid slot type",
				commandsError:  commands.ErrInvalidSlotType,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "",
			},
			{
				name:           "facility not found",
				commandsError:  commands.ErrFacilityNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Facility not found",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Create(gomock.Any(), s.actorID, gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestCancelReservation
// ================================================================================

func (s *ReservationHandlerTestSuite) TestCancelReservation() {
	reservationID := uuid.New()
	url := "/reservations/" + reservationID.String()

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), reservationID, s.actorID).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 400 Bad Request for invalid UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/reservations/invalid-uuid", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid reservation ID")
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "not the owner",
				commandsError:  commands.ErrForbidden,
				expectedStatus: http.StatusForbidden,
				expectedMsg:    "Forbidden",
			},
			{
				name:           "reservation not found",
				commandsError:  commands.ErrReservationNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Reservation not found",
			},
			{
				name:           "already completed",
				commandsError:  commands.ErrInvalidState,
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "Operation not valid",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Cancel(gomock.Any(), reservationID, s.actorID).
					Return(tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestCheckIn
// ================================================================================

func (s *ReservationHandlerTestSuite) TestCheckIn() {
	reservationID := uuid.New()
	url := "/reservations/" + reservationID.String() + "/check-in"

	reqBody := map[string]any{"vehicle_tag": "ABC-1234"}

	s.Run("success: returns 200 OK", func() {
		s.mockCommands.EXPECT().CheckIn(gomock.Any(), reservationID, s.actorID, "ABC-1234").
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var body map[string]string
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("checked_in", body["status"])
	})

	s.Run("error: 400 Bad Request when vehicle tag is missing", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
		}{
			{name: "not the facility admin", commandsError: commands.ErrForbidden, expectedStatus: http.StatusForbidden},
			{name: "reservation not found", commandsError: commands.ErrReservationNotFound, expectedStatus: http.StatusNotFound},
			{name: "window already ended", commandsError: commands.ErrInvalidState, expectedStatus: http.StatusUnprocessableEntity},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().CheckIn(gomock.Any(), reservationID, s.actorID, "ABC-1234").
					Return(tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, "")
			})
		}
	})
}

// ================================================================================
// TestCheckOut
// ================================================================================

func (s *ReservationHandlerTestSuite) TestCheckOut() {
	reservationID := uuid.New()
	url := "/reservations/" + reservationID.String() + "/check-out"

	s.Run("success: returns 200 OK with settlement", func() {
		result := &commands.CheckOutResult{
			ReservationID:    reservationID,
			Status:           reservation.StatusOverstayed,
			TotalAmountCents: 5000,
			PaymentStatus:    reservation.PaymentPaid,
		}
		s.mockCommands.EXPECT().CheckOut(gomock.Any(), reservationID, s.actorID).
			Return(result, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		var response resdto.CheckOutResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(reservationID, response.ReservationID)
		s.Equal("Overstayed", response.Status)
		s.Equal(int64(5000), response.TotalAmountCents)
		s.Equal("Paid", response.PaymentStatus)
	})

	s.Run("error: 422 when not checked in", func() {
		s.mockCommands.EXPECT().CheckOut(gomock.Any(), reservationID, s.actorID).
			Return(nil, commands.ErrInvalidState).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "")
	})
}

// ================================================================================
// TestGetReservation
// ================================================================================

func (s *ReservationHandlerTestSuite) TestGetReservation() {
	reservationID := uuid.New()
	url := "/reservations/" + reservationID.String()

	returnView := builder.NewReservationBuilder().BuildViewQuery()
	returnView.ID = reservationID

	s.Run("success: returns 200 OK with ReservationResponse", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actorID, auth.RoleCustomer, reservationID).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(reservationID, response.ID)
		s.Equal(returnView.Status, response.Status)
		s.Equal(returnView.TotalAmountCents, response.TotalAmountCents)
	})

	s.Run("error: 400 Bad Request for invalid UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations/invalid-uuid", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid reservation ID")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			queriesError   error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "not visible to requester",
				queriesError:   queries.ErrForbidden,
				expectedStatus: http.StatusForbidden,
				expectedMsg:    "Forbidden",
			},
			{
				name:           "reservation not found",
				queriesError:   queries.ErrNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Not found",
			},
			{
				name:           "internal server error",
				queriesError:   errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actorID, auth.RoleCustomer, reservationID).
					Return(nil, tc.queriesError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestGetUserReservations
// ================================================================================

func (s *ReservationHandlerTestSuite) TestGetUserReservations() {
	url := "/reservations"

	items := []*queries.ReservationListItem{
		builder.NewReservationBuilder().BuildListItem(),
		builder.NewReservationBuilder().BuildListItem(),
	}

	s.Run("success: returns own reservations", func() {
		s.mockQueries.EXPECT().ListByUser(gomock.Any(), s.actorID, (*queries.Cursor)(nil), 0).
			Return(items, nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response resdto.PagedReservationsResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response.Items, 2)
		s.Nil(response.NextCursor)
	})

	s.Run("success: pagination works", func() {
		pagedURL := url + "?limit=1&after=cursor123"
		expectedCursor := &queries.Cursor{After: "cursor123"}
		nextCursor := &queries.Cursor{After: "cursor456"}

		s.mockQueries.EXPECT().ListByUser(gomock.Any(), s.actorID, expectedCursor, 1).
			Return(items[:1], nextCursor, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, pagedURL, nil, "bearer-token")

		var response resdto.PagedReservationsResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response.Items, 1)
		s.NotNil(response.NextCursor)
		s.Equal("cursor456", *response.NextCursor)
	})

	s.Run("error: 400 Bad Request for invalid cursor", func() {
		s.mockQueries.EXPECT().ListByUser(gomock.Any(), s.actorID, gomock.Any(), 0).
			Return(nil, nil, queries.ErrInvalidCursor).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?after=garbage", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid pagination cursor")
	})
}

// ================================================================================
// TestGetFacilityReservations
// ================================================================================

func (s *ReservationHandlerTestSuite) TestGetFacilityReservations() {
	facilityID := uuid.New()
	url := "/facilities/" + facilityID.String() + "/reservations"

	items := []*queries.ReservationListItem{
		builder.NewReservationBuilder().BuildListItem(),
	}

	s.Run("success: facility admin lists reservations", func() {
		s.mockQueries.EXPECT().ListByFacility(gomock.Any(), s.actorID, facilityID, (*queries.Cursor)(nil), 0).
			Return(items, nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response resdto.PagedReservationsResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response.Items, 1)
	})

	s.Run("error: 403 Forbidden for non-admin", func() {
		s.mockQueries.EXPECT().ListByFacility(gomock.Any(), s.actorID, facilityID, (*queries.Cursor)(nil), 0).
			Return(nil, nil, queries.ErrForbidden).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Forbidden")
	})

	s.Run("error: 400 Bad Request for invalid facility UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/facilities/invalid-uuid/reservations", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid facility ID")
	})
}
