package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stdout) })
	return &buf
}

func TestLogger_WritesStructuredEntry(t *testing.T) {
	buf := capture(t)

	New("webhook-service").WithRequestID("req-1").Info("order_completed", map[string]any{"order_id": 41})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "webhook-service", entry["service"])
	assert.Equal(t, "order_completed", entry["action"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.EqualValues(t, 41, entry["order_id"])
	assert.Contains(t, entry, "timestamp")
	want, _ := os.Hostname()
	assert.Equal(t, want, entry["hostname"])
}

func TestLogger_HostnameResolvedOnce(t *testing.T) {
	buf := capture(t)
	saved := hostname
	hostname = "courier-node-7"
	t.Cleanup(func() { hostname = saved })

	New("courier").Info("worker_started", nil)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "courier-node-7", entry["hostname"])
}

func TestLogger_ErrorCarriesCause(t *testing.T) {
	buf := capture(t)

	New("courier").Error("status_advance_failed", errors.New("boom"), nil)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	cause, ok := entry["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "boom", cause["msg"])
}

func TestSetLevel(t *testing.T) {
	buf := capture(t)
	t.Cleanup(func() { _ = SetLevel("info") })

	require.NoError(t, SetLevel("warn"))
	New("x").Info("hidden", nil)
	assert.Zero(t, buf.Len())

	assert.Error(t, SetLevel("loud"))
}
