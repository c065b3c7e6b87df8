package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"chatcuisine/internal/common/logger"
	"chatcuisine/internal/connections/rabbitmq"
	"chatcuisine/internal/domain"
	"chatcuisine/internal/microservices/order/domain/dto"
	"chatcuisine/internal/microservices/order/repository"
	"chatcuisine/internal/session"
)

// Parameter names extracted by the conversational agent.
const (
	ParamFoodItem = "food-item"
	ParamNumber   = "number"
	ParamOrderID  = "order_id"
)

const (
	MsgRestate        = "Sorry, I could not understand. Please restate the food items and their quantities clearly."
	MsgNoOrder        = "I'm having trouble finding your order. Sorry! Can you place a new order please?"
	MsgOrderEmpty     = "Your order is empty!"
	MsgCompleteFailed = "Sorry, I couldn't place your order due to a backend error. Please try again or place a new order."

	msgOrderSoFar   = "So far you have: %s. Do you need anything else?"
	msgRemoved      = "Removed %s from your order!"
	msgNotInOrder   = "Your current order does not have %s."
	msgLeftInOrder  = "Here is what is left in your order: %s. Anything else?"
	msgOrderPlaced  = "Awesome. We have placed your order. Here is your order id # %d. Your order total is %.2f which you can pay at the time of delivery!"
	msgTrackStatus  = "The order status for order id: %d is: %s"
	msgTrackMissing = "No order found with order id: %d"
)

type OrderServiceInterface interface {
	AddToOrder(ctx context.Context, params dto.Parameters, sessionID string) (string, error)
	RemoveFromOrder(ctx context.Context, params dto.Parameters, sessionID string) (string, error)
	CompleteOrder(ctx context.Context, params dto.Parameters, sessionID string) (string, error)
	TrackOrder(ctx context.Context, params dto.Parameters) (string, error)
}

// Sessions is the session order table.
type Sessions interface {
	Acquire(sessionID string, create bool) (*session.Handle, bool)
}

type TrackingReader interface {
	GetTracking(ctx context.Context, orderID int64) (domain.Tracking, bool, error)
}

type Publisher interface {
	PublishJSON(ctx context.Context, exchange, key, correlationID string, v any, headers amqp091.Table) error
}

type OrderService struct {
	db       repository.OrderRepositoryInterface
	sessions Sessions
	tracking TrackingReader
	events   Publisher // nil when no broker is configured
	lg       *logger.Logger
}

func NewOrderService(db repository.OrderRepositoryInterface, sessions Sessions, tracking TrackingReader, events Publisher, lg *logger.Logger) *OrderService {
	return &OrderService{db: db, sessions: sessions, tracking: tracking, events: events, lg: lg}
}

func (s *OrderService) AddToOrder(ctx context.Context, params dto.Parameters, sessionID string) (string, error) {
	names, err := params.Strings(ParamFoodItem)
	if err != nil {
		return MsgRestate, nil
	}
	quantities, err := params.Ints(ParamNumber)
	if err != nil || len(names) != len(quantities) || len(names) == 0 {
		return MsgRestate, nil
	}
	for _, q := range quantities {
		if q <= 0 {
			return MsgRestate, nil
		}
	}
	if sessionID == "" {
		return MsgNoOrder, nil
	}

	h, _ := s.sessions.Acquire(sessionID, true)
	defer h.Release()

	order := h.Order()
	for i, name := range names {
		order.Set(name, int(quantities[i]))
	}
	s.lg.Debug("order_items_added", map[string]any{"session_id": sessionID, "items": len(names), "order_size": order.Len()})
	return fmt.Sprintf(msgOrderSoFar, order.String()), nil
}

func (s *OrderService) RemoveFromOrder(ctx context.Context, params dto.Parameters, sessionID string) (string, error) {
	h, ok := s.sessions.Acquire(sessionID, false)
	if !ok {
		return MsgNoOrder, nil
	}
	defer h.Release()

	names, err := params.Strings(ParamFoodItem)
	if err != nil {
		return MsgRestate, nil
	}

	order := h.Order()
	var removed, missing []string
	for _, name := range names {
		if order.Remove(name) {
			removed = append(removed, name)
		} else {
			missing = append(missing, name)
		}
	}

	var parts []string
	if len(removed) > 0 {
		parts = append(parts, fmt.Sprintf(msgRemoved, strings.Join(removed, ", ")))
	}
	if len(missing) > 0 {
		parts = append(parts, fmt.Sprintf(msgNotInOrder, strings.Join(missing, ", ")))
	}
	if order.Len() == 0 {
		parts = append(parts, MsgOrderEmpty)
	} else {
		parts = append(parts, fmt.Sprintf(msgLeftInOrder, order.String()))
	}
	return strings.Join(parts, " "), nil
}

// CompleteOrder persists the session's order. The session stays locked for
// the whole store round-trip, so a concurrent add for the same session can't
// slip in between the snapshot and the delete. The order is only dropped
// from the table once the store has committed it.
func (s *OrderService) CompleteOrder(ctx context.Context, params dto.Parameters, sessionID string) (string, error) {
	h, ok := s.sessions.Acquire(sessionID, false)
	if !ok {
		return MsgNoOrder, nil
	}
	if h.Order().Len() == 0 {
		h.Release()
		return MsgNoOrder, nil
	}

	items := h.Order().Items()
	placed, err := s.db.PlaceOrder(ctx, items, domain.StatusProcessing)
	if err != nil {
		h.Release()
		fields := map[string]any{"session_id": sessionID, "items": len(items)}
		if errors.Is(err, repository.ErrItemNotFound) {
			fields["reason"] = err.Error()
			s.lg.Info("order_rejected", fields)
		} else {
			s.lg.Error("order_persist_failed", err, fields)
		}
		return MsgCompleteFailed, nil
	}
	h.Delete()
	h.Release()

	s.lg.Info("order_placed", map[string]any{"session_id": sessionID, "order_id": placed.ID, "total_amount": placed.TotalAmount})
	s.publishPlaced(ctx, sessionID, placed)

	return fmt.Sprintf(msgOrderPlaced, placed.ID, placed.TotalAmount), nil
}

func (s *OrderService) TrackOrder(ctx context.Context, params dto.Parameters) (string, error) {
	orderID, err := params.Int(ParamOrderID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}

	tr, ok, err := s.tracking.GetTracking(ctx, orderID)
	if err != nil {
		return "", fmt.Errorf("track order %d: %w", orderID, err)
	}
	if !ok {
		return fmt.Sprintf(msgTrackMissing, orderID), nil
	}
	return fmt.Sprintf(msgTrackStatus, orderID, tr.Status), nil
}

// publishPlaced announces a committed order. The order is already durable,
// so a failed publish is only logged.
func (s *OrderService) publishPlaced(ctx context.Context, sessionID string, placed domain.PlacedOrder) {
	if s.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	msg := domain.OrderPlaced{
		OrderID:     placed.ID,
		SessionID:   sessionID,
		Items:       placed.Items,
		TotalAmount: placed.TotalAmount,
		PlacedAt:    placed.CreatedAt,
	}
	err := s.events.PublishJSON(ctx, rabbitmq.OrdersExchange, rabbitmq.OrderPlacedKey,
		fmt.Sprintf("%d", placed.ID), msg, amqp091.Table{"x-source": "webhook-service"})
	if err != nil {
		s.lg.Error("order_publish_failed", err, map[string]any{"order_id": placed.ID})
	}
}
