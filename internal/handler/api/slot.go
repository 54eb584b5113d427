package api

import (
	"errors"
	"net/http"
	"time"

	"parkhub/internal/domain/slot"
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

type SlotHandler struct {
	commands commands.SlotCommands
	queries  queries.SlotQueries
}

func NewSlotHandler(cmds commands.SlotCommands, qrys queries.SlotQueries) *SlotHandler {
	return &SlotHandler{
		commands: cmds,
		queries:  qrys,
	}
}

// @Summary Register slots
// @Description Add parking slots to a facility (admin only)
// @Tags slots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param facilityId path string true "Facility ID"
// @Param request body reqdto.CreateSlotsRequest true "Slots to create"
// @Success 201 {object} resdto.CreatedSlotsResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /facilities/{facilityId}/slots [post]
func (h *SlotHandler) CreateSlots(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("user id missing from context"), "Internal server error", nil)
		return
	}

	facilityID, err := uuid.Parse(c.Param("facilityId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid facility ID", nil)
		return
	}

	var req reqdto.CreateSlotsRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request", nil)
		return
	}

	ids, err := h.commands.CreateSlots(c.Request.Context(), facilityID, adminID, req.ToSpecs())
	if err != nil {
		h.mapCommandError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.CreatedSlotsResponse{SlotIDs: ids})
}

// @Summary Update slot display status
// @Description Override the operator-facing occupancy cue (admin only)
// @Tags slots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Param request body reqdto.UpdateDisplayStatusRequest true "New display status"
// @Success 200 {object} map[string]string
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /slots/{id}/display-status [patch]
func (h *SlotHandler) UpdateDisplayStatus(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("user id missing from context"), "Internal server error", nil)
		return
	}

	slotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid slot ID", nil)
		return
	}

	var req reqdto.UpdateDisplayStatusRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request", nil)
		return
	}

	err = h.commands.UpdateDisplayStatus(c.Request.Context(), slotID, adminID, slot.DisplayStatus(req.DisplayStatus))
	if err != nil {
		h.mapCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// @Summary List facility slots
// @Tags slots
// @Produce json
// @Security BearerAuth
// @Param facilityId path string true "Facility ID"
// @Success 200 {array} resdto.SlotResponse
// @Router /facilities/{facilityId}/slots [get]
func (h *SlotHandler) ListSlots(c *gin.Context) {
	facilityID, err := uuid.Parse(c.Param("facilityId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid facility ID", nil)
		return
	}

	views, err := h.queries.ListByFacility(c.Request.Context(), facilityID)
	if err != nil {
		mapQueryError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromSlotViews(views))
}

// @Summary Check availability
// @Description Count free slots per type for a time window (informational)
// @Tags slots
// @Produce json
// @Security BearerAuth
// @Param facilityId path string true "Facility ID"
// @Param start query string true "Window start (RFC3339)"
// @Param end query string true "Window end (RFC3339)"
// @Param slotType query string false "Filter by slot type"
// @Success 200 {array} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Router /facilities/{facilityId}/availability [get]
func (h *SlotHandler) GetAvailability(c *gin.Context) {
	facilityID, err := uuid.Parse(c.Param("facilityId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid facility ID", nil)
		return
	}

	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid start time", nil)
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid end time", nil)
		return
	}

	params := queries.AvailabilityParams{
		FacilityID: facilityID,
		StartTime:  start,
		EndTime:    end,
	}
	if st := c.Query("slotType"); st != "" {
		params.SlotType = &st
	}

	views, err := h.queries.FindAvailability(c.Request.Context(), params)
	if err != nil {
		mapQueryError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromAvailabilityViews(views))
}

func (h *SlotHandler) mapCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrInvalidSlotType), errors.Is(err, commands.ErrInvalidRequest):
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
	case errors.Is(err, commands.ErrFacilityNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Facility not found", nil)
	case errors.Is(err, commands.ErrSlotNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Slot not found", nil)
	case errors.Is(err, commands.ErrForbidden):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Forbidden", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
