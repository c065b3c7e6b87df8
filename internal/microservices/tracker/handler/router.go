package handler

import "github.com/gin-gonic/gin"

const StatusPath = "/api/v1/tracking/orders/:order_id/status"

func Register(r gin.IRoutes, h *TrackerHandler) {
	r.GET(StatusPath, h.GetStatus)
}

// Router serves the tracking API on its own.
func Router(h *TrackerHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	Register(r, h)
	return r
}
