package ultradns

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// codeInvalidToken is returned by the API when the bearer token is expired or revoked.
const codeInvalidToken = 60001

var (
	// ErrNotAuthenticated is returned when a request is issued before any token was obtained.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrSessionFailed is returned after the refresh token has been rejected.
	// Call Transport.Authenticate to start a new session.
	ErrSessionFailed = errors.New("session failed")
	// ErrNoRefreshToken is returned when the access token expired and there is nothing to renew it with.
	ErrNoRefreshToken = errors.New("no refresh token")
	// ErrPollTimeout is returned when a background task does not finish within the polling budget.
	ErrPollTimeout = errors.New("poll budget exhausted")
)

// ProviderError is a single error entry of an API error payload.
type ProviderError struct {
	ErrorCode    int    `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`

	// Token endpoint failures also carry OAuth-style fields.
	OAuthError  string `json:"error,omitempty"`
	Description string `json:"error_description,omitempty"`
}

func (e ProviderError) message() string {
	switch {
	case e.ErrorMessage != "":
		return e.ErrorMessage
	case e.Description != "":
		return e.Description
	default:
		return e.OAuthError
	}
}

// APIError describes a non-2xx response.
type APIError struct {
	StatusCode int
	// ErrorCode and Message come from the first entry of Errors.
	ErrorCode int
	Message   string
	Errors    []ProviderError
	Header    http.Header
	Body      []byte
}

func newAPIError(resp *http.Response, body []byte) *APIError {
	err := &APIError{
		StatusCode: resp.StatusCode,
		Errors:     parseProviderErrors(body),
		Header:     resp.Header,
		Body:       body,
	}

	if len(err.Errors) > 0 {
		err.ErrorCode = err.Errors[0].ErrorCode
		err.Message = err.Errors[0].message()
	}

	return err
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("ultradns: unexpected status code %d", e.StatusCode)
	}

	messages := make([]string, len(e.Errors))
	for i, pe := range e.Errors {
		messages[i] = fmt.Sprintf("%d: %s", pe.ErrorCode, pe.message())
	}

	return fmt.Sprintf("ultradns: status %d: %s", e.StatusCode, strings.Join(messages, "; "))
}

// HasCode reports whether the payload contains the provider error code.
func (e *APIError) HasCode(codes ...int) bool {
	for _, pe := range e.Errors {
		for _, code := range codes {
			if pe.ErrorCode == code {
				return true
			}
		}
	}

	return false
}

func (e *APIError) tokenExpired() bool {
	return e.StatusCode == http.StatusUnauthorized || e.HasCode(codeInvalidToken)
}

func (e *APIError) retryAfter() time.Duration {
	if e.Header != nil {
		if seconds, err := strconv.Atoi(e.Header.Get("Retry-After")); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}

	return time.Second
}

// parseProviderErrors accepts both the list and the single object payload forms.
func parseProviderErrors(body []byte) []ProviderError {
	var list []ProviderError
	if err := json.Unmarshal(body, &list); err == nil {
		return list
	}

	var single ProviderError
	if err := json.Unmarshal(body, &single); err == nil && (single.ErrorCode != 0 || single.OAuthError != "") {
		return []ProviderError{single}
	}

	return nil
}

// AuthError is returned when credentials are rejected or the session cannot be renewed.
type AuthError struct {
	StatusCode int
	Err        error
}

func (e *AuthError) Error() string {
	return "ultradns auth: " + e.Err.Error()
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// ValidationError reports client misuse detected before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("ultradns: invalid %s: %s", e.Field, e.Reason)
}

// TaskError is returned when a background task finishes with the ERROR code.
type TaskError struct {
	Task *Task
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("ultradns: task %s failed: %s", e.Task.TaskID, e.Task.Message)
}
