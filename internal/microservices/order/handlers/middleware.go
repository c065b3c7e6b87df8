package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"chatcuisine/internal/common/logger"
	dto "chatcuisine/internal/microservices/order/domain/dto"
)

const (
	headerRequestID = "X-Request-ID"
	ctxLoggerKey    = "request_logger"
)

// RequestID stamps every request with an id and a logger carrying it.
func RequestID(lg *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(headerRequestID, id)
		c.Set(ctxLoggerKey, lg.WithRequestID(id))
		c.Next()
	}
}

// AccessLog logs one line per finished request.
func AccessLog(lg *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		requestLogger(c, lg).Debug("http_request", map[string]any{
			"method":      c.Request.Method,
			"path":        c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}
}

// LimitConcurrency rejects requests beyond max in flight with 503.
func LimitConcurrency(max int) gin.HandlerFunc {
	if max <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	sem := make(chan struct{}, max)
	return func(c *gin.Context) {
		select {
		case sem <- struct{}{}:
			defer func() { <-sem }()
			c.Next()
		default:
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				dto.WebhookResponse{FulfillmentText: "We're a little busy right now. Please try again in a moment."})
		}
	}
}

func requestLogger(c *gin.Context, fallback *logger.Logger) *logger.Logger {
	if v, ok := c.Get(ctxLoggerKey); ok {
		if lg, ok := v.(*logger.Logger); ok {
			return lg
		}
	}
	return fallback
}
