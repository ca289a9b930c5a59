package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ErrorKind classifies a failed backend call.
type ErrorKind string

const (
	// KindServer: a response arrived with a non-2xx status.
	KindServer ErrorKind = "server"
	// KindContract: a 2xx response whose body is not the expected JSON.
	KindContract ErrorKind = "contract"
	// KindNoResponse: the request was sent but nothing came back.
	KindNoResponse ErrorKind = "no_response"
	// KindRequest: the call failed before anything was sent.
	KindRequest ErrorKind = "request"
)

// Error is returned by every Client operation.
type Error struct {
	Kind       ErrorKind
	Op         string
	StatusCode int
	Body       []byte
	// Detail is the first message of the backend's detail field, if any.
	Detail string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindServer:
		if e.Detail != "" {
			return fmt.Sprintf("%s: server returned %d: %s", e.Op, e.StatusCode, e.Detail)
		}
		if e.Err != nil {
			return fmt.Sprintf("%s: server returned %d: %v", e.Op, e.StatusCode, e.Err)
		}
		return fmt.Sprintf("%s: server returned %d", e.Op, e.StatusCode)
	case KindContract:
		return fmt.Sprintf("%s: invalid response body: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// DetailMessage extracts the user-facing message from an error body of the
// form {"detail": "..."} or {"detail": [{"msg": "..."}, ...]}. It returns ""
// when the body carries neither.
func DetailMessage(body []byte) string {
	var env struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &env); err != nil || len(env.Detail) == 0 {
		return ""
	}

	raw := bytes.TrimSpace(env.Detail)
	switch {
	case len(raw) > 0 && raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	case len(raw) > 0 && raw[0] == '[':
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(raw, &items); err == nil && len(items) > 0 {
			return items[0].Msg
		}
	}
	return ""
}
