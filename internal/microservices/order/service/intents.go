package service

import (
	"context"
	"errors"
	"fmt"

	"chatcuisine/internal/microservices/order/domain/dto"
)

var (
	ErrUnrecognizedIntent = errors.New("unrecognized intent")
	ErrInvalidParameter   = errors.New("invalid parameter")
)

// Intent is one of the closed set of conversational intents the assistant serves.
type Intent int

const (
	IntentAddToOrder Intent = iota + 1
	IntentRemoveFromOrder
	IntentCompleteOrder
	IntentTrackOrder
)

// Display names configured on the conversational agent.
const (
	addToOrderName      = "order.add - context: ongoing-order"
	removeFromOrderName = "order.remove - context: ongoing-order"
	completeOrderName   = "order.complete - context: ongoing-order"
	trackOrderName      = "track.order - context: ongoing-tracking"
)

func ParseIntent(displayName string) (Intent, error) {
	switch displayName {
	case addToOrderName:
		return IntentAddToOrder, nil
	case removeFromOrderName:
		return IntentRemoveFromOrder, nil
	case completeOrderName:
		return IntentCompleteOrder, nil
	case trackOrderName:
		return IntentTrackOrder, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnrecognizedIntent, displayName)
}

func (i Intent) String() string {
	switch i {
	case IntentAddToOrder:
		return addToOrderName
	case IntentRemoveFromOrder:
		return removeFromOrderName
	case IntentCompleteOrder:
		return completeOrderName
	case IntentTrackOrder:
		return trackOrderName
	}
	return fmt.Sprintf("Intent(%d)", int(i))
}

type DispatcherInterface interface {
	Dispatch(ctx context.Context, intentName string, params dto.Parameters, sessionID string) (string, error)
}

// Dispatcher routes one conversational turn to its intent handler.
type Dispatcher struct {
	orders OrderServiceInterface
}

func NewDispatcher(orders OrderServiceInterface) *Dispatcher {
	return &Dispatcher{orders: orders}
}

func (d *Dispatcher) Dispatch(ctx context.Context, intentName string, params dto.Parameters, sessionID string) (string, error) {
	intent, err := ParseIntent(intentName)
	if err != nil {
		return "", err
	}
	switch intent {
	case IntentAddToOrder:
		return d.orders.AddToOrder(ctx, params, sessionID)
	case IntentRemoveFromOrder:
		return d.orders.RemoveFromOrder(ctx, params, sessionID)
	case IntentCompleteOrder:
		return d.orders.CompleteOrder(ctx, params, sessionID)
	case IntentTrackOrder:
		return d.orders.TrackOrder(ctx, params)
	}
	return "", fmt.Errorf("%w: %s", ErrUnrecognizedIntent, intent)
}
