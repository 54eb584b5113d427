//go:build e2e

package waitlist_test

import (
	"net/http"
	"testing"
	"time"

	"parkhub/internal/domain/slot"
	"parkhub/internal/handler/dto/response"
	"parkhub/internal/pkg/auth"
	"parkhub/tests/common/authtest"
	"parkhub/tests/common/builder"
	"parkhub/tests/common/dbtest"
	"parkhub/tests/common/httptest"
	"parkhub/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	waitlistURL     = "/api/waitlist"
	reservationsURL = "/api/reservations"
)

type WaitlistSuite struct {
	e2e.SharedSuite
	jwt *authtest.JWTHelper
}

func (s *WaitlistSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwt = authtest.NewJWTHelper(s.Config.JWT)
}

func TestWaitlistSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(WaitlistSuite))
}

// =============================================================================
// TestWaitlistFlow - join, cancellation-driven offer, accept
// =============================================================================

func (s *WaitlistSuite) TestWaitlistFlow() {
	s.Run("Normal case: Cancellation frees a slot and the head of the queue gets it", func() {
		t := s.T()

		adminID := uuid.New()
		facilityID := dbtest.CreateTestFacility(t, s.DB, "Central Garage", adminID)
		slotID := dbtest.CreateTestSlot(t, s.DB, facilityID, slot.TypeStandard.String(), 1000)

		holderToken := s.jwt.GenerateToken(t, uuid.New(), auth.RoleCustomer)
		waiterID := uuid.New()
		waiterToken := s.jwt.GenerateToken(t, waiterID, auth.RoleCustomer)

		now := time.Now().UTC().Truncate(time.Second)
		start := now.Add(time.Hour)
		end := now.Add(3 * time.Hour)

		// The only slot gets taken.
		reserveReq := builder.NewReservationBuilder().
			WithFacilityID(facilityID).
			WithWindow(start, end).
			BuildCreateRequestDTO()
		rw := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, reserveReq, holderToken)
		require.Equal(t, http.StatusCreated, rw.Code, rw.Body.String())
		var reserved response.CreatedReservationsResponse
		require.NoError(t, httptest.DecodeResponseBody(t, rw.Body, &reserved))

		// Second customer queues up for the same window.
		joinReq := builder.NewWaitlistBuilder().
			WithFacilityID(facilityID).
			WithWindow(start, end).
			BuildJoinRequestDTO()
		jw := httptest.PerformRequest(t, s.Router, http.MethodPost, waitlistURL, joinReq, waiterToken)
		require.Equal(t, http.StatusCreated, jw.Code, jw.Body.String())
		var joined response.JoinedWaitlistResponse
		require.NoError(t, httptest.DecodeResponseBody(t, jw.Body, &joined))

		// Holder cancels; the freed-slot pass runs before the request returns.
		cancelURL := reservationsURL + "/" + reserved.ReservationIDs[0].String()
		cw := httptest.PerformRequest(t, s.Router, http.MethodDelete, cancelURL, nil, holderToken)
		require.Equal(t, http.StatusNoContent, cw.Code, cw.Body.String())

		entryURL := waitlistURL + "/" + joined.EntryID.String()
		ew := httptest.PerformRequest(t, s.Router, http.MethodGet, entryURL, nil, waiterToken)
		require.Equal(t, http.StatusOK, ew.Code, ew.Body.String())

		var entry response.WaitlistEntryResponse
		require.NoError(t, httptest.DecodeResponseBody(t, ew.Body, &entry))
		require.Equal(t, "Notified", entry.Status)
		require.NotNil(t, entry.OfferedSlotID)
		require.Equal(t, slotID, *entry.OfferedSlotID)
		require.NotNil(t, entry.OfferExpiresAt)

		aw := httptest.PerformRequest(t, s.Router, http.MethodPost, entryURL+"/accept", nil, waiterToken)
		require.Equal(t, http.StatusCreated, aw.Code, aw.Body.String())
		var accepted response.AcceptedOfferResponse
		require.NoError(t, httptest.DecodeResponseBody(t, aw.Body, &accepted))

		// The offer turned into a normal reservation on the freed slot.
		detailURL := reservationsURL + "/" + accepted.ReservationID.String()
		dw := httptest.PerformRequest(t, s.Router, http.MethodGet, detailURL, nil, waiterToken)
		require.Equal(t, http.StatusOK, dw.Code)
		var detail response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, dw.Body, &detail))
		require.Equal(t, slotID, detail.SlotID)
		require.Equal(t, waiterID, detail.UserID)
		require.Equal(t, "Active", detail.Status)
		require.Equal(t, int64(2000), detail.TotalAmountCents)

		fw := httptest.PerformRequest(t, s.Router, http.MethodGet, entryURL, nil, waiterToken)
		require.Equal(t, http.StatusOK, fw.Code)
		var fulfilled response.WaitlistEntryResponse
		require.NoError(t, httptest.DecodeResponseBody(t, fw.Body, &fulfilled))
		require.Equal(t, "Fulfilled", fulfilled.Status)
	})

	s.Run("Normal case: Higher priority jumps the queue", func() {
		t := s.T()

		adminID := uuid.New()
		facilityID := dbtest.CreateTestFacility(t, s.DB, "Central Garage", adminID)
		dbtest.CreateTestSlot(t, s.DB, facilityID, slot.TypeStandard.String(), 1000)

		holderToken := s.jwt.GenerateToken(t, uuid.New(), auth.RoleCustomer)
		regularToken := s.jwt.GenerateToken(t, uuid.New(), auth.RoleCustomer)
		priorityToken := s.jwt.GenerateToken(t, uuid.New(), auth.RoleCustomer)

		now := time.Now().UTC().Truncate(time.Second)
		start := now.Add(time.Hour)
		end := now.Add(3 * time.Hour)

		reserveReq := builder.NewReservationBuilder().
			WithFacilityID(facilityID).
			WithWindow(start, end).
			BuildCreateRequestDTO()
		rw := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, reserveReq, holderToken)
		require.Equal(t, http.StatusCreated, rw.Code)
		var reserved response.CreatedReservationsResponse
		require.NoError(t, httptest.DecodeResponseBody(t, rw.Body, &reserved))

		regularJoin := builder.NewWaitlistBuilder().
			WithFacilityID(facilityID).
			WithWindow(start, end).
			WithPriority(0).
			BuildJoinRequestDTO()
		jw1 := httptest.PerformRequest(t, s.Router, http.MethodPost, waitlistURL, regularJoin, regularToken)
		require.Equal(t, http.StatusCreated, jw1.Code)
		var regularEntry response.JoinedWaitlistResponse
		require.NoError(t, httptest.DecodeResponseBody(t, jw1.Body, &regularEntry))

		priorityJoin := builder.NewWaitlistBuilder().
			WithFacilityID(facilityID).
			WithWindow(start, end).
			WithPriority(5).
			BuildJoinRequestDTO()
		jw2 := httptest.PerformRequest(t, s.Router, http.MethodPost, waitlistURL, priorityJoin, priorityToken)
		require.Equal(t, http.StatusCreated, jw2.Code)
		var priorityEntry response.JoinedWaitlistResponse
		require.NoError(t, httptest.DecodeResponseBody(t, jw2.Body, &priorityEntry))

		cancelURL := reservationsURL + "/" + reserved.ReservationIDs[0].String()
		cw := httptest.PerformRequest(t, s.Router, http.MethodDelete, cancelURL, nil, holderToken)
		require.Equal(t, http.StatusNoContent, cw.Code)

		pw := httptest.PerformRequest(t, s.Router, http.MethodGet,
			waitlistURL+"/"+priorityEntry.EntryID.String(), nil, priorityToken)
		require.Equal(t, http.StatusOK, pw.Code)
		var notified response.WaitlistEntryResponse
		require.NoError(t, httptest.DecodeResponseBody(t, pw.Body, &notified))
		require.Equal(t, "Notified", notified.Status, "the later but higher-priority entry gets the offer")

		gw := httptest.PerformRequest(t, s.Router, http.MethodGet,
			waitlistURL+"/"+regularEntry.EntryID.String(), nil, regularToken)
		require.Equal(t, http.StatusOK, gw.Code)
		var stillWaiting response.WaitlistEntryResponse
		require.NoError(t, httptest.DecodeResponseBody(t, gw.Body, &stillWaiting))
		require.Equal(t, "Active", stillWaiting.Status)
	})

	s.Run("Error case: One live entry per user and facility", func() {
		t := s.T()

		adminID := uuid.New()
		facilityID := dbtest.CreateTestFacility(t, s.DB, "Central Garage", adminID)
		dbtest.CreateTestSlot(t, s.DB, facilityID, slot.TypeStandard.String(), 1000)

		token := s.jwt.GenerateToken(t, uuid.New(), auth.RoleCustomer)

		joinReq := builder.NewWaitlistBuilder().
			WithFacilityID(facilityID).
			BuildJoinRequestDTO()

		w1 := httptest.PerformRequest(t, s.Router, http.MethodPost, waitlistURL, joinReq, token)
		require.Equal(t, http.StatusCreated, w1.Code, w1.Body.String())

		w2 := httptest.PerformRequest(t, s.Router, http.MethodPost, waitlistURL, joinReq, token)
		require.Equal(t, http.StatusConflict, w2.Code)
	})

	s.Run("Error case: Accept without an offer is rejected", func() {
		t := s.T()

		adminID := uuid.New()
		facilityID := dbtest.CreateTestFacility(t, s.DB, "Central Garage", adminID)
		token := s.jwt.GenerateToken(t, uuid.New(), auth.RoleCustomer)

		joinReq := builder.NewWaitlistBuilder().
			WithFacilityID(facilityID).
			BuildJoinRequestDTO()
		jw := httptest.PerformRequest(t, s.Router, http.MethodPost, waitlistURL, joinReq, token)
		require.Equal(t, http.StatusCreated, jw.Code)
		var joined response.JoinedWaitlistResponse
		require.NoError(t, httptest.DecodeResponseBody(t, jw.Body, &joined))

		aw := httptest.PerformRequest(t, s.Router, http.MethodPost,
			waitlistURL+"/"+joined.EntryID.String()+"/accept", nil, token)
		require.Equal(t, http.StatusUnprocessableEntity, aw.Code)
	})

	s.Run("Auth test - Unauthorized when no token is sent", func() {
		t := s.T()

		joinReq := builder.NewWaitlistBuilder().BuildJoinRequestDTO()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, waitlistURL, joinReq, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
