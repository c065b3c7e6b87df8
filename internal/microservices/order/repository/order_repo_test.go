package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatcuisine/internal/config"
	"chatcuisine/internal/connections/database"
	"chatcuisine/internal/domain"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(ctx))

	_, err = db.ExecContext(ctx, `
		INSERT INTO food_items (name, price, available) VALUES
			('Pav Bhaji', 6.00, 1),
			('Mango Lassi', 5.00, 1),
			('Chole Bhature', 7.00, 0)`)
	require.NoError(t, err)
	return db
}

func count(t *testing.T, db *database.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

func TestPlaceOrder_PersistsEverything(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	placed, err := repo.PlaceOrder(ctx, []domain.LineItem{
		{Name: "Pav Bhaji", Quantity: 2},
		{Name: "Mango Lassi", Quantity: 1},
	}, domain.StatusProcessing)
	require.NoError(t, err)

	assert.Positive(t, placed.ID)
	assert.InDelta(t, 17.00, placed.TotalAmount, 0.001)
	assert.Equal(t, 2, count(t, db, "order_items"))

	var status string
	require.NoError(t, db.QueryRow(`SELECT status FROM order_tracking WHERE order_id = ?`, placed.ID).Scan(&status))
	assert.Equal(t, "processing", status)

	var stored float64
	require.NoError(t, db.QueryRow(`SELECT total_amount FROM orders WHERE id = ?`, placed.ID).Scan(&stored))
	assert.InDelta(t, 17.00, stored, 0.001)

	total, err := repo.GetTotalPrice(ctx, placed.ID)
	require.NoError(t, err)
	assert.InDelta(t, 17.00, total, 0.001)
}

func TestPlaceOrder_UnknownItemRollsBack(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)

	_, err := repo.PlaceOrder(context.Background(), []domain.LineItem{
		{Name: "Pav Bhaji", Quantity: 2},
		{Name: "Pizza", Quantity: 1},
	}, domain.StatusProcessing)
	require.ErrorIs(t, err, ErrItemNotFound)
	assert.Contains(t, err.Error(), "Pizza")

	assert.Zero(t, count(t, db, "orders"))
	assert.Zero(t, count(t, db, "order_items"))
	assert.Zero(t, count(t, db, "order_tracking"))
}

func TestPlaceOrder_UnavailableItemIsNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)

	_, err := repo.PlaceOrder(context.Background(), []domain.LineItem{{Name: "Chole Bhature", Quantity: 1}}, domain.StatusProcessing)
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.Zero(t, count(t, db, "orders"))
}

func TestPlaceOrder_NamesAreCaseSensitive(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)

	_, err := repo.PlaceOrder(context.Background(), []domain.LineItem{{Name: "pav bhaji", Quantity: 1}}, domain.StatusProcessing)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestPlaceOrder_IDsIncrease(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()
	items := []domain.LineItem{{Name: "Mango Lassi", Quantity: 1}}

	first, err := repo.PlaceOrder(ctx, items, domain.StatusProcessing)
	require.NoError(t, err)
	second, err := repo.PlaceOrder(ctx, items, domain.StatusProcessing)
	require.NoError(t, err)

	assert.Greater(t, second.ID, first.ID)
}

func TestGetTotalPrice_UnknownOrderIsZero(t *testing.T) {
	repo := NewOrderRepository(newTestDB(t))

	total, err := repo.GetTotalPrice(context.Background(), 999)
	require.NoError(t, err)
	assert.Zero(t, total)
}
