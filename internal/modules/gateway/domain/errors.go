package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrRoleMismatch       = errors.New("account type does not match")
	ErrMissingCredentials = errors.New("username and password are required")
)

// APIError is a non-2xx backend response.
type APIError struct {
	Method   string
	Path     string
	Status   int
	Message  string
	Messages []string
	Body     []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
}

func (e *APIError) NotFound() bool {
	return e.Status == http.StatusNotFound
}

// SessionExpiredError reports that the refresh token could not renew the session.
// Both tokens have been cleared by the time it is returned.
type SessionExpiredError struct {
	LoginRoute string
	Cause      error
}

func (e *SessionExpiredError) Error() string {
	if e.Cause == nil {
		return "session expired"
	}
	return "session expired: " + e.Cause.Error()
}

func (e *SessionExpiredError) Unwrap() error {
	return ErrNotAuthenticated
}

// AsAPIError unwraps err into an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// AsSessionExpired unwraps err into a *SessionExpiredError.
func AsSessionExpired(err error) (*SessionExpiredError, bool) {
	var expired *SessionExpiredError
	if errors.As(err, &expired) {
		return expired, true
	}
	return nil, false
}

// UserMessage is the text shown to the user for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if apiErr, ok := AsAPIError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	if _, ok := AsSessionExpired(err); ok {
		return "Your session has expired. Please log in again."
	}
	return err.Error()
}
