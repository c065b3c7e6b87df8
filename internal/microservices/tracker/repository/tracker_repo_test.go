package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatcuisine/internal/config"
	"chatcuisine/internal/connections/database"
	"chatcuisine/internal/domain"
)

func TestGetTracking(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Migrate(ctx))

	_, err = db.ExecContext(ctx, `INSERT INTO orders (id, total_amount) VALUES (41, 12.5)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO order_tracking (order_id, status, updated_at) VALUES (41, 'in-transit', '2024-05-01 12:30:00')`)
	require.NoError(t, err)

	repo := NewTrackerRepo(db)

	tr, ok, err := repo.GetTracking(ctx, 41)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.StatusInTransit, tr.Status)
	assert.EqualValues(t, 41, tr.OrderID)
	assert.True(t, tr.UpdatedAt.Equal(time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)), tr.UpdatedAt)

	_, ok, err = repo.GetTracking(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAsTime(t *testing.T) {
	want := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

	assert.True(t, asTime(want).Equal(want))
	assert.True(t, asTime("2024-05-01 12:30:00").Equal(want))
	assert.True(t, asTime([]byte("2024-05-01T12:30:00Z")).Equal(want))
	assert.True(t, asTime(nil).IsZero())
	assert.True(t, asTime("yesterday").IsZero())
}
