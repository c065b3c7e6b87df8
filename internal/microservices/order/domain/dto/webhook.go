package dto

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrBadParameter marks parameters that are missing or have the wrong shape.
var ErrBadParameter = errors.New("bad parameter")

// WebhookRequest is the subset of the conversational platform's fulfillment
// request the assistant reads.
type WebhookRequest struct {
	QueryResult QueryResult `json:"queryResult"`
}

type QueryResult struct {
	Intent         Intent          `json:"intent"`
	Parameters     Parameters      `json:"parameters"`
	OutputContexts []OutputContext `json:"outputContexts"`
}

type Intent struct {
	DisplayName string `json:"displayName"`
}

type OutputContext struct {
	Name string `json:"name"`
}

// WebhookResponse is the reply envelope; fulfillmentText is fixed by the platform.
type WebhookResponse struct {
	FulfillmentText string `json:"fulfillmentText"`
}

const sessionsSegment = "/sessions/"

// SessionID identifies the conversation from the first output context name.
// A platform name ("projects/p/agent/sessions/<id>/contexts/<ctx>") yields
// the segment after "/sessions/"; any other name yields its last segment.
// Missing contexts or a name without '/' yield "".
func (r WebhookRequest) SessionID() string {
	if len(r.QueryResult.OutputContexts) == 0 {
		return ""
	}
	name := r.QueryResult.OutputContexts[0].Name
	if i := strings.Index(name, sessionsSegment); i >= 0 {
		id := name[i+len(sessionsSegment):]
		if j := strings.IndexByte(id, '/'); j >= 0 {
			id = id[:j]
		}
		return id
	}
	i := strings.LastIndexByte(name, '/')
	if i < 0 {
		return ""
	}
	return name[i+1:]
}

// Parameters are the extracted intent parameters. Values are whatever JSON
// decoding produced: strings, float64 numbers, or []any of those.
type Parameters map[string]any

// Strings returns the values of key as strings. A scalar string is a
// one-element list.
func (p Parameters) Strings(key string) ([]string, error) {
	raw, ok := p[key]
	if !ok || raw == nil {
		return nil, fmt.Errorf("%w: %s is missing", ErrBadParameter, key)
	}
	switch v := raw.(type) {
	case string:
		return []string{v}, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s holds a %T", ErrBadParameter, key, e)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s is a %T", ErrBadParameter, key, raw)
	}
}

// Ints returns the values of key as integers. Numbers must be integral;
// numeric strings are accepted.
func (p Parameters) Ints(key string) ([]int64, error) {
	raw, ok := p[key]
	if !ok || raw == nil {
		return nil, fmt.Errorf("%w: %s is missing", ErrBadParameter, key)
	}
	list, isList := raw.([]any)
	if !isList {
		list = []any{raw}
	}
	out := make([]int64, 0, len(list))
	for _, e := range list {
		n, err := toInt(e)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrBadParameter, key, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// Int returns the single integer value of key.
func (p Parameters) Int(key string) (int64, error) {
	raw, ok := p[key]
	if !ok || raw == nil {
		return 0, fmt.Errorf("%w: %s is missing", ErrBadParameter, key)
	}
	n, err := toInt(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrBadParameter, key, err)
	}
	return n, nil
}

func toInt(v any) (int64, error) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || n >= math.MaxInt64 || n < math.MinInt64 {
			return 0, fmt.Errorf("%v is not an integer", n)
		}
		return int64(n), nil
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", n)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("%T is not a number", v)
	}
}
