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

type WaitlistHandler struct {
	commands commands.WaitlistCommands
	queries  queries.WaitlistQueries
}

func NewWaitlistHandler(cmds commands.WaitlistCommands, qrys queries.WaitlistQueries) *WaitlistHandler {
	return &WaitlistHandler{
		commands: cmds,
		queries:  qrys,
	}
}

// @Summary Join waitlist
// @Description Queue for a slot type when none is available
// @Tags waitlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.JoinWaitlistRequest true "Waitlist request"
// @Success 201 {object} resdto.JoinedWaitlistResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /waitlist [post]
func (h *WaitlistHandler) Join(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("user id missing from context"), "Internal server error", nil)
		return
	}

	var req reqdto.JoinWaitlistRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request", nil)
		return
	}

	entryID, err := h.commands.Join(c.Request.Context(), userID, req.ToParams())
	if err != nil {
		h.mapCommandError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.JoinedWaitlistResponse{EntryID: entryID})
}

// @Summary Accept waitlist offer
// @Description Convert a notified waitlist entry into a reservation
// @Tags waitlist
// @Produce json
// @Security BearerAuth
// @Param id path string true "Waitlist entry ID"
// @Success 201 {object} resdto.AcceptedOfferResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 410 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /waitlist/{id}/accept [post]
func (h *WaitlistHandler) AcceptOffer(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("user id missing from context"), "Internal server error", nil)
		return
	}

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid waitlist entry ID", nil)
		return
	}

	reservationID, err := h.commands.AcceptOffer(c.Request.Context(), entryID, userID)
	if err != nil {
		h.mapCommandError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.AcceptedOfferResponse{ReservationID: reservationID})
}

// @Summary Cancel waitlist entry
// @Tags waitlist
// @Produce json
// @Security BearerAuth
// @Param id path string true "Waitlist entry ID"
// @Success 204
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /waitlist/{id} [delete]
func (h *WaitlistHandler) Cancel(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("user id missing from context"), "Internal server error", nil)
		return
	}

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid waitlist entry ID", nil)
		return
	}

	if err := h.commands.Cancel(c.Request.Context(), entryID, userID); err != nil {
		h.mapCommandError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary List own waitlist entries
// @Tags waitlist
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.WaitlistEntryResponse
// @Router /waitlist [get]
func (h *WaitlistHandler) ListOwn(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("user id missing from context"), "Internal server error", nil)
		return
	}

	views, err := h.queries.ListByUser(c.Request.Context(), userID)
	if err != nil {
		mapQueryError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromWaitlistEntryViews(views))
}

// @Summary Get waitlist entry
// @Tags waitlist
// @Produce json
// @Security BearerAuth
// @Param id path string true "Waitlist entry ID"
// @Success 200 {object} resdto.WaitlistEntryResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /waitlist/{id} [get]
func (h *WaitlistHandler) GetEntry(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("user id missing from context"), "Internal server error", nil)
		return
	}

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid waitlist entry ID", nil)
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), userID, entryID)
	if err != nil {
		mapQueryError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromWaitlistEntryView(view))
}

func (h *WaitlistHandler) mapCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrInvalidWindow), errors.Is(err, commands.ErrWindowInPast),
		errors.Is(err, commands.ErrInvalidSlotType), errors.Is(err, commands.ErrInvalidRequest):
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
	case errors.Is(err, commands.ErrFacilityNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Facility not found", nil)
	case errors.Is(err, commands.ErrWaitlistEntryNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Waitlist entry not found", nil)
	case errors.Is(err, commands.ErrForbidden):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Forbidden", nil)
	case errors.Is(err, commands.ErrAlreadyWaitlisted):
		httperr.AbortWithError(c, http.StatusConflict, err, "Already on the waitlist for this facility", nil)
	case errors.Is(err, commands.ErrSlotContested):
		httperr.AbortWithError(c, http.StatusConflict, err, "Offered slot was taken, you keep your place in line", nil)
	case errors.Is(err, commands.ErrOfferExpired):
		httperr.AbortWithError(c, http.StatusGone, err, "Waitlist offer has expired", nil)
	case errors.Is(err, commands.ErrInvalidState):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Operation not valid for current status", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
