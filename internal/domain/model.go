package domain

import "time"

// Status is the delivery-lifecycle state stored in order_tracking.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusInTransit  Status = "in-transit"
	StatusDelivered  Status = "delivered"
)

type FoodItem struct {
	ID        int64
	Name      string
	Price     float64
	Available bool
}

// LineItem is one (food item, quantity) pair of an order.
type LineItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// PlacedOrder is a finalized order as persisted by the store.
type PlacedOrder struct {
	ID          int64
	TotalAmount float64
	CreatedAt   time.Time
	Items       []LineItem
}

type Tracking struct {
	OrderID   int64
	Status    Status
	UpdatedAt time.Time
}
