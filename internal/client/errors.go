package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// NetworkErrorMessage is shown when no response was received at all.
const NetworkErrorMessage = "Unable to reach the server. Check your connection and try again."

// ErrorKind classifies a failed request.
type ErrorKind string

const (
	// KindNetwork: no response was received.
	KindNetwork ErrorKind = "network"
	// KindServer: the backend answered with an error payload.
	KindServer ErrorKind = "server"
	// KindRateLimited: the backend asked the caller to wait before retrying.
	KindRateLimited ErrorKind = "rate_limited"
	// KindRequest: the request could not be built, so nothing was sent.
	KindRequest ErrorKind = "request"
)

// Error is the uniform shape of every failed backend call.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	// RetryAfter is how long the backend asked the caller to wait; zero if
	// it did not say.
	RetryAfter time.Duration
	// EnableManualEntry is set by import endpoints when the UI should offer
	// typing the record in by hand.
	EnableManualEntry bool
	Err               error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s error (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// errorBody is the union of the error payloads the backend emits.
type errorBody struct {
	Error             json.RawMessage `json:"error"`
	Detail            json.RawMessage `json:"detail"`
	Message           string          `json:"message"`
	RetryAfter        *float64        `json:"retry_after"`
	EnableManualEntry bool            `json:"enable_manual_entry"`
}

// networkError wraps a transport failure.
func networkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: NetworkErrorMessage, Err: err}
}

// requestError wraps a failure to encode or build a request.
func requestError(endpoint string, err error) *Error {
	return &Error{Kind: KindRequest, Message: fmt.Sprintf("Could not prepare the %s request.", endpoint), Err: err}
}

// responseError maps a non-2xx response onto *Error. It reads at most 64KiB
// of the body and never fails itself.
func responseError(resp *http.Response) *Error {
	e := &Error{Kind: KindServer, Status: resp.StatusCode}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body errorBody
	if len(raw) > 0 && json.Unmarshal(raw, &body) == nil {
		e.Message = firstMessage(body)
		e.EnableManualEntry = body.EnableManualEntry
		if body.RetryAfter != nil && *body.RetryAfter > 0 {
			e.RetryAfter = time.Duration(*body.RetryAfter * float64(time.Second))
		}
	}
	if e.RetryAfter == 0 {
		e.RetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"), time.Now())
	}
	if e.Message == "" {
		e.Message = statusMessage(resp.StatusCode)
	}
	if resp.StatusCode == http.StatusTooManyRequests || e.RetryAfter > 0 {
		e.Kind = KindRateLimited
	}
	return e
}

// firstMessage prefers "error", then "detail", then "message". error and
// detail may be plain strings or objects carrying their own message.
func firstMessage(b errorBody) string {
	for _, raw := range []json.RawMessage{b.Error, b.Detail} {
		if m := rawMessage(raw); m != "" {
			return m
		}
	}
	return b.Message
}

func rawMessage(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return strings.TrimSpace(s)
	}
	var obj struct {
		Message string `json:"message"`
		Msg     string `json:"msg"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		if obj.Message != "" {
			return obj.Message
		}
		return obj.Msg
	}
	// validation errors arrive as a list; the first entry is enough
	var list []struct {
		Msg string `json:"msg"`
	}
	if json.Unmarshal(raw, &list) == nil && len(list) > 0 {
		return list[0].Msg
	}
	return ""
}

// parseRetryAfter reads a Retry-After header in seconds or HTTP-date form.
func parseRetryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := t.Sub(now); d > 0 {
			return d.Round(time.Second)
		}
	}
	return 0
}

func statusMessage(code int) string {
	if text := http.StatusText(code); text != "" {
		return text
	}
	return fmt.Sprintf("Unexpected response status %d", code)
}
