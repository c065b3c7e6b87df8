package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp091 "github.com/rabbitmq/amqp091-go"

	"chatcuisine/internal/common/logger"
	"chatcuisine/internal/connections/rabbitmq"
	"chatcuisine/internal/domain"
)

type Subscriber interface {
	SubscribeFanout(exchange, consumer string) (*amqp091.Channel, <-chan amqp091.Delivery, error)
}

type NotificatorService struct {
	rmqClient Subscriber
	lg        *logger.Logger
}

func NewNotificatorService(rmqClient Subscriber, lg *logger.Logger) *NotificatorService {
	return &NotificatorService{rmqClient: rmqClient, lg: lg}
}

// Notify logs every status change until ctx is done.
func (ns *NotificatorService) Notify(ctx context.Context) error {
	ch, msgs, err := ns.rmqClient.SubscribeFanout(rabbitmq.NotificationsExchange, "notificator")
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", rabbitmq.NotificationsExchange, err)
	}
	defer ch.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("notification stream closed")
			}
			ns.handle(d.Body)
		}
	}
}

func (ns *NotificatorService) handle(body []byte) {
	var ev domain.StatusChanged
	if err := json.Unmarshal(body, &ev); err != nil {
		ns.lg.Warn("notification_malformed", map[string]any{"error": err.Error(), "size": len(body)})
		return
	}
	if ev.OrderID <= 0 {
		ns.lg.Warn("notification_malformed", map[string]any{"error": "missing order id"})
		return
	}
	ns.lg.Info("notification_received", map[string]any{
		"order_id":   ev.OrderID,
		"old_status": ev.OldStatus,
		"new_status": ev.NewStatus,
		"changed_by": ev.ChangedBy,
	})
}
