package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	amqp091 "github.com/rabbitmq/amqp091-go"

	"chatcuisine/internal/common/logger"
	"chatcuisine/internal/config"
	"chatcuisine/internal/connections/rabbitmq"
	"chatcuisine/internal/domain"
	"chatcuisine/internal/microservices/courier/repository"
)

var (
	ErrRequeue = errors.New("requeue")     // nack(requeue=true)
	ErrDLQ     = errors.New("dead_letter") // nack(requeue=false)
)

type CourierServiceInterface interface {
	Run(ctx context.Context) error
}

type Publisher interface {
	PublishJSON(ctx context.Context, exchange, key, correlationID string, v any, headers amqp091.Table) error
}

// Broker is the slice of the RabbitMQ client the courier needs.
type Broker interface {
	Publisher
	Consume(queue, consumer string, prefetch int) (*amqp091.Channel, <-chan amqp091.Delivery, error)
}

type CourierService struct {
	db     repository.CourierRepositoryInterface
	broker Broker
	lg     *logger.Logger

	WorkerName   string
	Prefetch     int
	TransitDelay time.Duration // simulated time on the road
}

func NewCourierService(db repository.CourierRepositoryInterface, broker Broker, cfg config.CourierConfig, lg *logger.Logger) *CourierService {
	prefetch := cfg.Prefetch
	if prefetch <= 0 {
		prefetch = 1
	}
	return &CourierService{
		db:           db,
		broker:       broker,
		lg:           lg,
		WorkerName:   cfg.WorkerName,
		Prefetch:     prefetch,
		TransitDelay: cfg.TransitDelay,
	}
}

func (cs *CourierService) Run(ctx context.Context) error {
	if strings.TrimSpace(cs.WorkerName) == "" {
		return fmt.Errorf("worker name is empty: pass --worker-name")
	}

	ch, msgs, err := cs.broker.Consume(rabbitmq.CourierQueue, cs.WorkerName, cs.Prefetch)
	if err != nil {
		return fmt.Errorf("consume %s: %w", rabbitmq.CourierQueue, err)
	}
	defer ch.Close()
	closed := ch.NotifyClose(make(chan *amqp091.Error, 1))

	cs.lg.Info("worker_started", map[string]any{
		"worker": cs.WorkerName, "queue": rabbitmq.CourierQueue, "prefetch": cs.Prefetch,
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for d := range msgs {
			cs.settle(d, cs.processOne(ctx, d))
		}
	}()

	select {
	case <-ctx.Done():
		cs.lg.Info("graceful_shutdown", map[string]any{"worker": cs.WorkerName})
		_ = ch.Cancel(cs.WorkerName, false)
		<-done
		return nil
	case e := <-closed:
		<-done
		if e == nil {
			return errors.New("amqp channel closed")
		}
		return fmt.Errorf("amqp channel closed: %d %s", e.Code, e.Reason)
	}
}

func (cs *CourierService) settle(d amqp091.Delivery, err error) {
	var ackErr error
	switch {
	case err == nil:
		ackErr = d.Ack(false)
	case errors.Is(err, ErrDLQ):
		cs.lg.Warn("message_dead_lettered", map[string]any{"message_id": d.MessageId, "error": err.Error()})
		ackErr = d.Nack(false, false)
	default:
		cs.lg.Warn("message_requeued", map[string]any{"message_id": d.MessageId, "error": err.Error()})
		ackErr = d.Nack(false, true)
	}
	if ackErr != nil {
		cs.lg.Error("message_settle_failed", ackErr, map[string]any{"message_id": d.MessageId})
	}
}

// processOne walks one placed order to delivered. A redelivered order picks
// up from whatever status it reached; anything past in-transit is a duplicate.
// Status notifications are at-least-once.
func (cs *CourierService) processOne(ctx context.Context, d amqp091.Delivery) error {
	var msg domain.OrderPlaced
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		return fmt.Errorf("%w: %v", ErrDLQ, err)
	}
	if msg.OrderID <= 0 {
		return fmt.Errorf("%w: missing order id", ErrDLQ)
	}

	status, found, err := cs.db.CurrentStatus(ctx, msg.OrderID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequeue, err)
	}
	if !found {
		return fmt.Errorf("%w: order %d has no tracking record", ErrDLQ, msg.OrderID)
	}

	switch status {
	case domain.StatusProcessing:
		if err := cs.advance(ctx, msg.OrderID, domain.StatusProcessing, domain.StatusInTransit); err != nil {
			return err
		}
	case domain.StatusInTransit:
		// An earlier attempt may have moved the row and failed to announce it.
		if err := cs.announce(ctx, msg.OrderID, domain.StatusProcessing, domain.StatusInTransit); err != nil {
			return err
		}
	default:
		cs.lg.Debug("duplicate_delivery", map[string]any{"order_id": msg.OrderID, "status": status})
		return nil
	}

	select {
	case <-time.After(cs.TransitDelay):
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrRequeue, ctx.Err())
	}
	if err := cs.advance(ctx, msg.OrderID, domain.StatusInTransit, domain.StatusDelivered); err != nil {
		return err
	}
	cs.lg.Info("order_delivered", map[string]any{"order_id": msg.OrderID, "worker": cs.WorkerName})
	return nil
}

// advance moves the order and announces the change. Losing the race to
// another worker is not an error. A failed announcement requeues the message
// with the row already moved; the redelivery announces again.
func (cs *CourierService) advance(ctx context.Context, orderID int64, from, to domain.Status) error {
	ok, err := cs.db.AdvanceStatus(ctx, orderID, from, to)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequeue, err)
	}
	if !ok {
		return nil
	}
	return cs.announce(ctx, orderID, from, to)
}

func (cs *CourierService) announce(ctx context.Context, orderID int64, from, to domain.Status) error {
	event := domain.StatusChanged{
		OrderID:   orderID,
		OldStatus: from,
		NewStatus: to,
		ChangedBy: cs.WorkerName,
		Timestamp: time.Now().UTC(),
	}
	err := cs.broker.PublishJSON(ctx, rabbitmq.NotificationsExchange, "", strconv.FormatInt(orderID, 10), event,
		amqp091.Table{"x-source": "courier", "x-worker": cs.WorkerName})
	if err != nil {
		return fmt.Errorf("%w: publish status change: %v", ErrRequeue, err)
	}
	cs.lg.Debug("order_status_changed", map[string]any{"order_id": orderID, "old_status": from, "new_status": to})
	return nil
}
