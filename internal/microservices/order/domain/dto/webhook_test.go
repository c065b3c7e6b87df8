package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionID(t *testing.T) {
	tests := []struct {
		name     string
		contexts []OutputContext
		want     string
	}{
		{"last segment", []OutputContext{{Name: "projects/chat/agent/sessions/abc-123"}}, "abc-123"},
		{"first context wins", []OutputContext{{Name: "a/first"}, {Name: "a/second"}}, "first"},
		{"no contexts", nil, ""},
		{"no separator", []OutputContext{{Name: "abc-123"}}, ""},
		{"trailing separator", []OutputContext{{Name: "sessions/"}}, ""},
		{"platform context name", []OutputContext{{Name: "projects/p/agent/sessions/alice/contexts/ongoing-order"}}, "alice"},
		{"platform names differ by session", []OutputContext{{Name: "projects/p/agent/sessions/bob/contexts/ongoing-order"}}, "bob"},
		{"platform session without context", []OutputContext{{Name: "projects/p/agent/sessions/carol"}}, "carol"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := WebhookRequest{QueryResult: QueryResult{OutputContexts: tt.contexts}}
			assert.Equal(t, tt.want, req.SessionID())
		})
	}
}

func decodeParams(t *testing.T, raw string) Parameters {
	t.Helper()
	var p Parameters
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	return p
}

func TestParameters_Strings(t *testing.T) {
	p := decodeParams(t, `{"food-item": ["Pav Bhaji", "Mango Lassi"], "one": "Samosa", "bad": [1], "num": 3}`)

	items, err := p.Strings("food-item")
	require.NoError(t, err)
	assert.Equal(t, []string{"Pav Bhaji", "Mango Lassi"}, items)

	one, err := p.Strings("one")
	require.NoError(t, err)
	assert.Equal(t, []string{"Samosa"}, one)

	_, err = p.Strings("bad")
	assert.ErrorIs(t, err, ErrBadParameter)
	_, err = p.Strings("num")
	assert.ErrorIs(t, err, ErrBadParameter)
	_, err = p.Strings("missing")
	assert.ErrorIs(t, err, ErrBadParameter)
}

func TestParameters_Ints(t *testing.T) {
	p := decodeParams(t, `{"number": [2, 1.0, "3"], "single": 4, "frac": [1.5], "word": ["two"]}`)

	nums, err := p.Ints("number")
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1, 3}, nums)

	single, err := p.Ints("single")
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, single)

	_, err = p.Ints("frac")
	assert.ErrorIs(t, err, ErrBadParameter)
	_, err = p.Ints("word")
	assert.ErrorIs(t, err, ErrBadParameter)
}

func TestParameters_Int(t *testing.T) {
	p := decodeParams(t, `{"order_id": 41, "as_text": " 42 ", "word": "forty", "frac": 4.2, "huge": 9223372036854775808, "tiny": -1e19}`)

	id, err := p.Int("order_id")
	require.NoError(t, err)
	assert.EqualValues(t, 41, id)

	id, err = p.Int("as_text")
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)

	for _, key := range []string{"word", "frac", "missing", "huge", "tiny"} {
		_, err := p.Int(key)
		assert.ErrorIs(t, err, ErrBadParameter, key)
	}
}

func TestWebhookResponse_WireName(t *testing.T) {
	b, err := json.Marshal(WebhookResponse{FulfillmentText: "hi"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"fulfillmentText": "hi"}`, string(b))
}
