package api

import (
	"errors"
	"net/http"

	reqdto "parkhub/internal/handler/dto/request"
	resdto "parkhub/internal/handler/dto/response"
	"parkhub/internal/handler/httperr"
	"parkhub/internal/handler/middleware"
	"parkhub/internal/pkg/errs"
	"parkhub/internal/usecase/commands"
	"parkhub/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReservationHandler struct {
	commands commands.ReservationCommands
	queries  queries.ReservationQueries
}

func NewReservationHandler(cmds commands.ReservationCommands, qrys queries.ReservationQueries) *ReservationHandler {
	return &ReservationHandler{
		commands: cmds,
		queries:  qrys,
	}
}

// @Summary Create reservations
// @Description Reserve one or more slots atomically for a time window
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateReservationRequest true "Reservation request"
// @Success 201 {object} resdto.CreatedReservationsResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations [post]
func (h *ReservationHandler) CreateReservations(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("user id missing from context"), "Internal server error", nil)
		return
	}

	var req reqdto.CreateReservationRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request", nil)
		return
	}

	ids, err := h.commands.Create(c.Request.Context(), userID, req.ToParams())
	if err != nil {
		h.mapCommandError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.CreatedReservationsResponse{ReservationIDs: ids})
}

// @Summary Cancel reservation
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 204
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /reservations/{id} [delete]
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("user id missing from context"), "Internal server error", nil)
		return
	}

	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid reservation ID", nil)
		return
	}

	if err := h.commands.Cancel(c.Request.Context(), reservationID, userID); err != nil {
		h.mapCommandError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Check in
// @Description Record vehicle arrival for an active reservation
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.CheckInRequest true "Check-in request"
// @Success 200 {object} map[string]string
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /reservations/{id}/check-in [post]
func (h *ReservationHandler) CheckIn(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("user id missing from context"), "Internal server error", nil)
		return
	}

	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid reservation ID", nil)
		return
	}

	var req reqdto.CheckInRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request", nil)
		return
	}

	if err := h.commands.CheckIn(c.Request.Context(), reservationID, adminID, req.VehicleTag); err != nil {
		h.mapCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "checked_in"})
}

// @Summary Check out
// @Description Record vehicle departure, settle payment including overstay surcharge
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.CheckOutResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /reservations/{id}/check-out [post]
func (h *ReservationHandler) CheckOut(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("user id missing from context"), "Internal server error", nil)
		return
	}

	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid reservation ID", nil)
		return
	}

	result, err := h.commands.CheckOut(c.Request.Context(), reservationID, adminID)
	if err != nil {
		h.mapCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromCheckOutResult(result))
}

// @Summary Get reservation
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /reservations/{id} [get]
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("user id missing from context"), "Internal server error", nil)
		return
	}
	role, _ := middleware.GetUserRole(c)

	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid reservation ID", nil)
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), userID, role, reservationID)
	if err != nil {
		mapQueryError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary List own reservations
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param after query string false "Pagination cursor"
// @Param limit query int false "Page size"
// @Success 200 {object} resdto.PagedReservationsResponse
// @Router /reservations [get]
func (h *ReservationHandler) GetUserReservations(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("user id missing from context"), "Internal server error", nil)
		return
	}

	items, next, err := h.queries.ListByUser(c.Request.Context(), userID, cursorFromQuery(c), limitFromQuery(c))
	if err != nil {
		mapQueryError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationListItems(items, next))
}

// @Summary List facility reservations
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param facilityId path string true "Facility ID"
// @Param after query string false "Pagination cursor"
// @Param limit query int false "Page size"
// @Success 200 {object} resdto.PagedReservationsResponse
// @Failure 403 {object} httperr.Response
// @Router /facilities/{facilityId}/reservations [get]
func (h *ReservationHandler) GetFacilityReservations(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("user id missing from context"), "Internal server error", nil)
		return
	}

	facilityID, err := uuid.Parse(c.Param("facilityId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid facility ID", nil)
		return
	}

	items, next, err := h.queries.ListByFacility(c.Request.Context(), userID, facilityID, cursorFromQuery(c), limitFromQuery(c))
	if err != nil {
		mapQueryError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationListItems(items, next))
}

func (h *ReservationHandler) mapCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrInvalidWindow), errors.Is(err, commands.ErrWindowInPast),
		errors.Is(err, commands.ErrInvalidSlotType), errors.Is(err, commands.ErrInvalidRequest):
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
	case errors.Is(err, commands.ErrFacilityNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Facility not found", nil)
	case errors.Is(err, commands.ErrSlotNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Slot not found", nil)
	case errors.Is(err, commands.ErrReservationNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Reservation not found", nil)
	case errors.Is(err, commands.ErrForbidden):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Forbidden", nil)
	case errors.Is(err, commands.ErrSlotShortage):
		var shortage *commands.ShortageError
		var detail any
		if errors.As(err, &shortage) {
			detail = gin.H{
				"slotType":  shortage.SlotType.String(),
				"requested": shortage.Requested,
				"available": shortage.Available,
			}
		}
		httperr.AbortWithError(c, http.StatusConflict, err, "Not enough slots available", detail)
	case errors.Is(err, commands.ErrInvalidState):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Operation not valid for current status", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
