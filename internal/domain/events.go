package domain

import "time"

// OrderPlaced is published to orders_topic once an order is committed.
type OrderPlaced struct {
	OrderID     int64      `json:"order_id"`
	SessionID   string     `json:"session_id"`
	Items       []LineItem `json:"items"`
	TotalAmount float64    `json:"total_amount"`
	PlacedAt    time.Time  `json:"placed_at"`
}

// StatusChanged is published to notifications_fanout on every tracking update.
type StatusChanged struct {
	OrderID   int64     `json:"order_id"`
	OldStatus Status    `json:"old_status"`
	NewStatus Status    `json:"new_status"`
	ChangedBy string    `json:"changed_by"`
	Timestamp time.Time `json:"timestamp"`
}
