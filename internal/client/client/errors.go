package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var (
	ErrAuth          = errors.New("authentication failed")
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrRequest       = errors.New("request failed")
	ErrNetwork       = errors.New("network error")
	ErrStorage       = errors.New("storage operation failed")

	// ErrSignOutFailed is returned by DeleteAccount when the account is gone
	// but the local session could not be cleared.
	ErrSignOutFailed = errors.New("account deleted, local sign-out failed")
)

// APIError describes a failed operation. Status is 0 when no response was
// received.
type APIError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Op, msg, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *APIError) Unwrap() error { return e.Err }

// errorEnvelope is the body the service sends with a failed request.
type errorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

const maxErrorBody = 64 << 10

// providerMessage extracts error.message from a failed response, or "".
func providerMessage(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(body) == 0 {
		return ""
	}
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	return env.Error.Message
}

// statusError maps a non-2xx response to an *APIError. 401 and 403 become
// ErrAuth, 404 ErrNotFound and 409 ErrAlreadyExists; everything else is
// reported as fallback.
func statusError(op string, resp *http.Response, fallback error) *APIError {
	e := &APIError{Op: op, Status: resp.StatusCode, Message: providerMessage(resp)}
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		e.Err = ErrAuth
	case http.StatusNotFound:
		e.Err = ErrNotFound
	case http.StatusConflict:
		e.Err = ErrAlreadyExists
	default:
		e.Err = fallback
	}
	return e
}

// authError reports a failed identity call as ErrAuth, using the provider's
// message when there is one and defaultMsg otherwise.
func authError(op string, resp *http.Response, defaultMsg string) *APIError {
	msg := providerMessage(resp)
	if msg == "" {
		msg = defaultMsg
	}
	return &APIError{Op: op, Status: resp.StatusCode, Message: msg, Err: ErrAuth}
}

func networkError(op string, err error) *APIError {
	return &APIError{Op: op, Message: err.Error(), Err: ErrNetwork}
}

func notAuthenticated(op string) *APIError {
	return &APIError{Op: op, Message: "not authenticated", Err: ErrAuth}
}
