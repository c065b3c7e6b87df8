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

// ErrItemNotFound means a line item names nothing orderable in the catalog.
var ErrItemNotFound = errors.New("food item not found")

type OrderRepositoryInterface interface {
	// PlaceOrder persists the order, its line items and its first tracking
	// record in one transaction. Nothing is left behind when it fails.
	PlaceOrder(ctx context.Context, items []domain.LineItem, status domain.Status) (domain.PlacedOrder, error)
	GetTotalPrice(ctx context.Context, orderID int64) (float64, error)
}

type OrderRepository struct {
	db *database.DB
}

func NewOrderRepository(db *database.DB) OrderRepositoryInterface {
	return &OrderRepository{db: db}
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (or *OrderRepository) PlaceOrder(ctx context.Context, items []domain.LineItem, status domain.Status) (domain.PlacedOrder, error) {
	tx, err := or.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.PlacedOrder{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// 1. Allocate the order id
	orderID, err := or.nextOrderID(ctx, tx)
	if err != nil {
		return domain.PlacedOrder{}, err
	}

	// 2. Line items
	for _, item := range items {
		if err := or.insertLineItem(ctx, tx, item.Name, item.Quantity, orderID); err != nil {
			return domain.PlacedOrder{}, err
		}
	}

	// 3. Initial tracking record
	if err := or.insertTracking(ctx, tx, orderID, status); err != nil {
		return domain.PlacedOrder{}, err
	}

	// 4. Total from what was actually persisted
	total, err := or.totalPrice(ctx, tx, orderID)
	if err != nil {
		return domain.PlacedOrder{}, err
	}
	if _, err := tx.ExecContext(ctx, or.db.Rebind(`UPDATE orders SET total_amount = ? WHERE id = ?`), total, orderID); err != nil {
		return domain.PlacedOrder{}, fmt.Errorf("failed to store order total: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.PlacedOrder{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return domain.PlacedOrder{
		ID:          orderID,
		TotalAmount: total,
		CreatedAt:   time.Now().UTC(),
		Items:       items,
	}, nil
}

func (or *OrderRepository) GetTotalPrice(ctx context.Context, orderID int64) (float64, error) {
	return or.totalPrice(ctx, or.db, orderID)
}

func (or *OrderRepository) nextOrderID(ctx context.Context, q queryer) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, `INSERT INTO orders (total_amount) VALUES (0) RETURNING id`).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert order: %w", err)
	}
	return id, nil
}

func (or *OrderRepository) insertLineItem(ctx context.Context, q queryer, name string, quantity int, orderID int64) error {
	var foodItemID int64
	err := q.QueryRowContext(ctx,
		or.db.Rebind(`SELECT id FROM food_items WHERE name = ? AND available`), name,
	).Scan(&foodItemID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrItemNotFound, name)
	}
	if err != nil {
		return fmt.Errorf("failed to look up food item %s: %w", name, err)
	}

	if _, err := q.ExecContext(ctx,
		or.db.Rebind(`INSERT INTO order_items (order_id, food_item_id, quantity) VALUES (?, ?, ?)`),
		orderID, foodItemID, quantity,
	); err != nil {
		return fmt.Errorf("failed to insert order item %s: %w", name, err)
	}
	return nil
}

func (or *OrderRepository) insertTracking(ctx context.Context, q queryer, orderID int64, status domain.Status) error {
	if _, err := q.ExecContext(ctx,
		or.db.Rebind(`INSERT INTO order_tracking (order_id, status, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`),
		orderID, string(status),
	); err != nil {
		return fmt.Errorf("failed to insert order tracking: %w", err)
	}
	return nil
}

func (or *OrderRepository) totalPrice(ctx context.Context, q queryer, orderID int64) (float64, error) {
	var total float64
	err := q.QueryRowContext(ctx, or.db.Rebind(`
		SELECT COALESCE(SUM(oi.quantity * f.price), 0)
		FROM order_items oi
		JOIN food_items f ON f.id = oi.food_item_id
		WHERE oi.order_id = ?
	`), orderID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to compute order total: %w", err)
	}
	return total, nil
}
