package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrBadRequest   = errors.New("request rejected by the competition API")
	ErrUnauthorized = errors.New("not authorized by the competition API")
	ErrNotFound     = errors.New("resource not found in the competition API")
	ErrConflict     = errors.New("resource conflicts with existing data")
	ErrServer       = errors.New("competition API server error")
	ErrTransient    = errors.New("competition API did not respond")
)

// APIError is a normalized failure of a competition API call.
type APIError struct {
	StatusCode int
	Method     string
	Endpoint   string
	Message    string
	Err        error
	cause      error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s: %v: %s", e.Method, e.Endpoint, e.Err, e.Message)
	}
	return fmt.Sprintf("%s %s: %d: %s", e.Method, e.Endpoint, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() []error {
	if e.cause != nil {
		return []error{e.Err, e.cause}
	}
	return []error{e.Err}
}

type errorResponse struct {
	Message string `json:"message"`
	Error   any    `json:"error"`
	Detail  string `json:"detail"`
}

func newStatusError(status int, method, endpoint string, body []byte) *APIError {
	return &APIError{
		StatusCode: status,
		Method:     method,
		Endpoint:   endpoint,
		Message:    errorMessage(status, body),
		Err:        classifyStatus(status),
	}
}

func classifyStatus(status int) error {
	switch {
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusConflict:
		return ErrConflict
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return ErrUnauthorized
	case status >= 500:
		return ErrServer
	default:
		return ErrBadRequest
	}
}

func errorMessage(status int, body []byte) string {
	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err == nil {
		switch {
		case strings.TrimSpace(parsed.Message) != "":
			return strings.TrimSpace(parsed.Message)
		case parsed.Detail != "":
			return parsed.Detail
		}
		if s, ok := parsed.Error.(string); ok && s != "" {
			return s
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 200 && !strings.HasPrefix(text, "<") {
		return text
	}
	return http.StatusText(status)
}

// StatusCode returns the HTTP status of err, or 0 when err did not come from a response.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Message returns the server supplied message carried by err, if any.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
