package service

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatcuisine/internal/common/logger"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(os.Stdout) })
	return &buf
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestHandle_LogsStatusChange(t *testing.T) {
	buf := captureLogs(t)
	ns := NewNotificatorService(nil, logger.New("notification-subscriber"))

	ns.handle([]byte(`{"order_id": 41, "old_status": "processing", "new_status": "in-transit", "changed_by": "rider-1"}`))

	entry := lastEntry(t, buf)
	assert.Equal(t, "notification_received", entry["action"])
	assert.EqualValues(t, 41, entry["order_id"])
	assert.Equal(t, "processing", entry["old_status"])
	assert.Equal(t, "in-transit", entry["new_status"])
	assert.Equal(t, "rider-1", entry["changed_by"])
}

func TestHandle_DropsMalformed(t *testing.T) {
	buf := captureLogs(t)
	ns := NewNotificatorService(nil, logger.New("notification-subscriber"))

	for _, body := range []string{"garbage", `{"new_status": "delivered"}`} {
		buf.Reset()
		ns.handle([]byte(body))
		entry := lastEntry(t, buf)
		assert.Equal(t, "notification_malformed", entry["action"], body)
		assert.Equal(t, "warning", entry["level"])
	}
}
