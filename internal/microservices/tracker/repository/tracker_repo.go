package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"chatcuisine/internal/connections/database"
	"chatcuisine/internal/domain"
)

type TrackerRepoInterface interface {
	GetTracking(ctx context.Context, orderID int64) (domain.Tracking, bool, error)
}

type TrackerRepo struct {
	db *database.DB
}

func NewTrackerRepo(db *database.DB) *TrackerRepo { return &TrackerRepo{db: db} }

// GetTracking returns the tracking record of an order; ok is false when
// the order has none.
func (r *TrackerRepo) GetTracking(ctx context.Context, orderID int64) (domain.Tracking, bool, error) {
	var (
		status    string
		updatedAt any
	)
	err := r.db.QueryRowContext(ctx, r.db.Rebind(`
SELECT status, updated_at FROM order_tracking WHERE order_id = ?
`), orderID).Scan(&status, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Tracking{}, false, nil
	}
	if err != nil {
		return domain.Tracking{}, false, fmt.Errorf("failed to get order status: %w", err)
	}
	return domain.Tracking{
		OrderID:   orderID,
		Status:    domain.Status(status),
		UpdatedAt: asTime(updatedAt),
	}, true, nil
}

// asTime accepts what either driver hands back for a timestamp column.
func asTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t.UTC()
	case string:
		return parseTimestamp(t)
	case []byte:
		return parseTimestamp(string(t))
	default:
		return time.Time{}
	}
}

func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
