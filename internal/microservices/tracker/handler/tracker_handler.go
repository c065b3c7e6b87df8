package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"chatcuisine/internal/common/logger"
	"chatcuisine/internal/microservices/tracker/service"
)

type TrackerHandler struct {
	service service.TrackerServiceInterface
	lg      *logger.Logger
}

func NewTrackerHandler(svc service.TrackerServiceInterface, lg *logger.Logger) *TrackerHandler {
	return &TrackerHandler{service: svc, lg: lg}
}

// GetStatus serves GET /api/v1/tracking/orders/:order_id/status.
func (h *TrackerHandler) GetStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("order_id"), 10, 64)
	if err != nil {
		writeProblem(c, http.StatusBadRequest, "invalid_order_id", "order id must be an integer")
		return
	}
	v, ok, err := h.service.GetTracking(c.Request.Context(), id)
	if err != nil {
		h.lg.Error("tracking_lookup_failed", err, map[string]any{"order_id": id})
		writeProblem(c, http.StatusInternalServerError, "db_error", "could not read order status")
		return
	}
	if !ok {
		writeProblem(c, http.StatusNotFound, "not_found", "order not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"order_id": v.OrderID, "status": v.Status, "updated_at": v.UpdatedAt,
	})
}

// writeProblem writes a simplified RFC 7807 problem document.
func writeProblem(c *gin.Context, code int, typ, detail string) {
	c.JSON(code, gin.H{
		"type":   typ,
		"title":  http.StatusText(code),
		"status": code,
		"detail": detail,
	})
}
