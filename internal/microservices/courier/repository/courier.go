package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"chatcuisine/internal/connections/database"
	"chatcuisine/internal/domain"
)

type CourierRepositoryInterface interface {
	// CurrentStatus returns the tracking status of an order; ok is false
	// when the order has no tracking record.
	CurrentStatus(ctx context.Context, orderID int64) (domain.Status, bool, error)
	// AdvanceStatus moves an order from one status to the next. It reports
	// false without error when the order is not in the from status.
	AdvanceStatus(ctx context.Context, orderID int64, from, to domain.Status) (bool, error)
}

type CourierRepository struct {
	db *database.DB
}

func NewCourierRepository(db *database.DB) CourierRepositoryInterface {
	return &CourierRepository{db: db}
}

func (r *CourierRepository) CurrentStatus(ctx context.Context, orderID int64) (domain.Status, bool, error) {
	var status string
	err := r.db.QueryRowContext(ctx,
		r.db.Rebind(`SELECT status FROM order_tracking WHERE order_id = ?`), orderID,
	).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read status of order %d: %w", orderID, err)
	}
	return domain.Status(status), true, nil
}

func (r *CourierRepository) AdvanceStatus(ctx context.Context, orderID int64, from, to domain.Status) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE order_tracking SET status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE order_id = ? AND status = ?
	`), string(to), orderID, string(from))
	if err != nil {
		return false, fmt.Errorf("failed to move order %d to %s: %w", orderID, to, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
