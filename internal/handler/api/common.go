package api

import (
	"errors"
	"net/http"
	"strconv"

	"parkhub/internal/handler/httperr"
	"parkhub/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

func cursorFromQuery(c *gin.Context) *queries.Cursor {
	after := c.Query("after")
	if after == "" {
		return nil
	}
	return &queries.Cursor{After: after}
}

func limitFromQuery(c *gin.Context) int {
	raw := c.Query("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return limit
}

func mapQueryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, queries.ErrNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Not found", nil)
	case errors.Is(err, queries.ErrForbidden):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Forbidden", nil)
	case errors.Is(err, queries.ErrInvalidCursor):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid pagination cursor", nil)
	case errors.Is(err, queries.ErrInvalidWindow):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid time window", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
