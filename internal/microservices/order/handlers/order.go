package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"chatcuisine/internal/common/logger"
	dto "chatcuisine/internal/microservices/order/domain/dto"
	"chatcuisine/internal/microservices/order/service"
)

const (
	msgBadRequest = "Sorry, I could not understand that request."
	msgInternal   = "Sorry, something went wrong on our side. Please try again."
)

type OrderHandler struct {
	dispatcher service.DispatcherInterface
	lg         *logger.Logger
}

func NewOrderHandler(d service.DispatcherInterface, lg *logger.Logger) *OrderHandler {
	return &OrderHandler{dispatcher: d, lg: lg}
}

// Webhook handles one fulfillment request from the conversational agent.
// Every reply, errors included, carries a fulfillmentText the agent can speak.
func (oh *OrderHandler) Webhook(c *gin.Context) {
	lg := requestLogger(c, oh.lg)

	var req dto.WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		lg.Warn("webhook_bad_body", map[string]any{"error": err.Error()})
		c.JSON(http.StatusBadRequest, dto.WebhookResponse{FulfillmentText: msgBadRequest})
		return
	}

	intent := req.QueryResult.Intent.DisplayName
	sessionID := req.SessionID()

	text, err := oh.dispatcher.Dispatch(c.Request.Context(), intent, req.QueryResult.Parameters, sessionID)
	switch {
	case err == nil:
		lg.Debug("webhook_handled", map[string]any{"intent": intent, "session_id": sessionID})
		c.JSON(http.StatusOK, dto.WebhookResponse{FulfillmentText: text})
	case errors.Is(err, service.ErrUnrecognizedIntent), errors.Is(err, service.ErrInvalidParameter):
		lg.Warn("webhook_rejected", map[string]any{"intent": intent, "error": err.Error()})
		c.JSON(http.StatusBadRequest, dto.WebhookResponse{FulfillmentText: msgBadRequest})
	default:
		lg.Error("webhook_failed", err, map[string]any{"intent": intent, "session_id": sessionID})
		c.JSON(http.StatusInternalServerError, dto.WebhookResponse{FulfillmentText: msgInternal})
	}
}
