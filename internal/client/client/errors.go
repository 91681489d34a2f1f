package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable       = errors.New("server unavailable")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrMalformedResponse = errors.New("malformed response")
	ErrRejected          = errors.New("request rejected")
)

// APIError is a failed HTTP exchange with the backend.
type APIError struct {
	StatusCode int
	Code       string
	Message    string

	kind error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Code != "" {
		return fmt.Sprintf("http %d %s: %s", e.StatusCode, e.Code, msg)
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, msg)
}

// Unwrap exposes the sentinel the failure was classified as.
func (e *APIError) Unwrap() error {
	return e.kind
}

// classifyStatus maps an HTTP status to its sentinel.
func classifyStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return ErrUnauthorized
	case status == http.StatusTooManyRequests, status == http.StatusRequestTimeout, status >= 500:
		return ErrUnavailable
	default:
		return ErrRejected
	}
}

// parseError builds an APIError from an error response body. It understands
// {"error":{"code","message"}}, {"code","message"} and the regular envelope
// {"success":false,"message"}; anything else keeps the raw body as message.
func parseError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, kind: classifyStatus(status)}

	var nested struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &nested); err == nil && (nested.Error.Code != "" || nested.Error.Message != "") {
		apiErr.Code = nested.Error.Code
		apiErr.Message = nested.Error.Message
		return apiErr
	}

	var flat struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &flat); err == nil && (flat.Message != "" || flat.Error != "") {
		apiErr.Code = flat.Code
		apiErr.Message = flat.Message
		if apiErr.Message == "" {
			apiErr.Message = flat.Error
		}
		return apiErr
	}

	apiErr.Message = string(body)
	return apiErr
}
