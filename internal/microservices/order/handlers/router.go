package handlers

import (
	"github.com/gin-gonic/gin"

	"chatcuisine/internal/common/logger"
	trackerhandler "chatcuisine/internal/microservices/tracker/handler"
)

func NewRouter(h *Handler, maxConcurrent int, lg *logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(lg), AccessLog(lg))

	r.GET("/healthz", h.HealthHandler.Healthz)

	hooks := r.Group("/", LimitConcurrency(maxConcurrent))
	hooks.POST("/", h.OrderHandler.Webhook)
	hooks.POST("/webhook", h.OrderHandler.Webhook)

	if h.TrackerHandler != nil {
		trackerhandler.Register(r, h.TrackerHandler)
	}
	return r
}
