// Package errors provides custom error types for the Gemini API client.
package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorCode identifies a failure class for display and branching.
type ErrorCode int

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeUnconfigured
	ErrCodeClientMissing
	ErrCodeInvalidCredential
	ErrCodeQuotaExceeded
	ErrCodeTimeout
	ErrCodePermissionDenied
	ErrCodeModelNotFound
	ErrCodeBlocked
	ErrCodeEmptyResponse
	ErrCodeNetwork
	ErrCodeParse
	ErrCodeAPI
)

// String returns the short token used in error displays.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeUnconfigured:
		return "UNCONFIGURED"
	case ErrCodeClientMissing:
		return "CLIENT_MISSING"
	case ErrCodeInvalidCredential:
		return "INVALID_CREDENTIAL"
	case ErrCodeQuotaExceeded:
		return "QUOTA_EXCEEDED"
	case ErrCodeTimeout:
		return "TIMEOUT"
	case ErrCodePermissionDenied:
		return "PERMISSION_DENIED"
	case ErrCodeModelNotFound:
		return "MODEL_NOT_FOUND"
	case ErrCodeBlocked:
		return "BLOCKED"
	case ErrCodeEmptyResponse:
		return "EMPTY_RESPONSE"
	case ErrCodeNetwork:
		return "NETWORK"
	case ErrCodeParse:
		return "PARSE"
	case ErrCodeAPI:
		return "API"
	default:
		return "UNKNOWN"
	}
}

// Sentinel errors for common cases
var (
	ErrNoAPIKey        = errors.New("API key not set")
	ErrClientMissing   = errors.New("API client not initialized")
	ErrEmptyResponse   = errors.New("empty response from API")
	ErrInvalidResponse = errors.New("invalid response format")
)

// AuthError represents an invalid or rejected API key
type AuthError struct {
	Message  string
	Endpoint string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "invalid API key"
	}
	return fmt.Sprintf("invalid API key: %s", e.Message)
}

// Is allows comparison with other AuthErrors
func (e *AuthError) Is(target error) bool {
	_, ok := target.(*AuthError)
	return ok
}

// NewAuthError creates a new AuthError
func NewAuthError(message string) *AuthError {
	return &AuthError{Message: message}
}

// NewAuthErrorWithEndpoint creates a new AuthError tagged with the endpoint
func NewAuthErrorWithEndpoint(message, endpoint string) *AuthError {
	return &AuthError{Message: message, Endpoint: endpoint}
}

// QuotaError represents a quota or rate-limit failure
type QuotaError struct {
	Message string
}

func (e *QuotaError) Error() string {
	if e.Message == "" {
		return "quota exceeded"
	}
	return fmt.Sprintf("quota exceeded: %s", e.Message)
}

// NewQuotaError creates a new QuotaError
func NewQuotaError(message string) *QuotaError {
	return &QuotaError{Message: message}
}

// TimeoutError represents a request timeout
type TimeoutError struct {
	Message  string
	Endpoint string
	Cause    error
}

func (e *TimeoutError) Error() string {
	if e.Message == "" {
		return "request timed out"
	}
	return fmt.Sprintf("request timed out: %s", e.Message)
}

func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(message string) *TimeoutError {
	return &TimeoutError{Message: message}
}

// NewTimeoutErrorWithEndpoint creates a new TimeoutError tagged with the endpoint
func NewTimeoutErrorWithEndpoint(endpoint string, cause error) *TimeoutError {
	return &TimeoutError{Endpoint: endpoint, Cause: cause}
}

// PermissionError represents a permission-denied failure
type PermissionError struct {
	Message string
}

func (e *PermissionError) Error() string {
	if e.Message == "" {
		return "permission denied"
	}
	return fmt.Sprintf("permission denied: %s", e.Message)
}

// NewPermissionError creates a new PermissionError
func NewPermissionError(message string) *PermissionError {
	return &PermissionError{Message: message}
}

// ModelNotFoundError represents an unknown model name
type ModelNotFoundError struct {
	Model   string
	Message string
}

func (e *ModelNotFoundError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("model not found: %s", e.Model)
	}
	if e.Message == "" {
		return "model not found"
	}
	return fmt.Sprintf("model not found: %s", e.Message)
}

// NewModelNotFoundError creates a new ModelNotFoundError
func NewModelNotFoundError(model, message string) *ModelNotFoundError {
	return &ModelNotFoundError{Model: model, Message: message}
}

// BlockedError represents a prompt or response blocked by safety filters
type BlockedError struct {
	Reason  string
	Message string
}

func (e *BlockedError) Error() string {
	if e.Reason == "" {
		return "request blocked"
	}
	return fmt.Sprintf("request blocked: %s", e.Reason)
}

// NewBlockedError creates a new BlockedError
func NewBlockedError(reason string) *BlockedError {
	return &BlockedError{Reason: reason}
}

// ParseError represents a response parsing error
type ParseError struct {
	Message string
	Path    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Message)
}

// Is allows comparison with the ErrInvalidResponse sentinel
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidResponse {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// NewParseError creates a new ParseError
func NewParseError(message, path string) *ParseError {
	return &ParseError{Message: message, Path: path}
}

// NetworkError represents a transport-level failure before any response
type NetworkError struct {
	Op       string
	Endpoint string
	Cause    error
}

func (e *NetworkError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("network error during %s", e.Op)
	}
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Cause)
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(op string, cause error) *NetworkError {
	return &NetworkError{Op: op, Cause: cause}
}

// NewNetworkErrorWithEndpoint creates a new NetworkError tagged with the endpoint
func NewNetworkErrorWithEndpoint(op, endpoint string, cause error) *NetworkError {
	return &NetworkError{Op: op, Endpoint: endpoint, Cause: cause}
}

// APIError represents an API request failure that did not classify further
type APIError struct {
	StatusCode int
	Status     string
	Endpoint   string
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API error at %s: %s", e.Endpoint, e.Message)
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// NewAPIErrorWithBody creates a new APIError carrying the raw response body
func NewAPIErrorWithBody(statusCode int, endpoint, message, body string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
		Body:       body,
	}
}

// Classify maps an API failure onto the error taxonomy using the HTTP status
// and the error message returned by the service. Matching follows the error
// strings the Gemini API is known to produce.
func Classify(statusCode int, status, message, endpoint, body string) error {
	lower := strings.ToLower(status + " " + message)
	switch {
	case strings.Contains(lower, "api key not valid") || strings.Contains(lower, "api_key_invalid"):
		return &AuthError{Message: message, Endpoint: endpoint}
	case strings.Contains(lower, "quota") || strings.Contains(lower, "resource_exhausted") || statusCode == 429:
		return &QuotaError{Message: message}
	case strings.Contains(lower, "deadline exceeded") || strings.Contains(lower, "deadline_exceeded"):
		return &TimeoutError{Message: message, Endpoint: endpoint}
	case strings.Contains(lower, "permission denied") || strings.Contains(lower, "permission_denied") || strings.Contains(lower, "permissiondenied"):
		return &PermissionError{Message: message}
	case strings.Contains(lower, "models/") && (strings.Contains(lower, "not found") || strings.Contains(lower, "not_found") || statusCode == 404):
		return &ModelNotFoundError{Message: message}
	default:
		return &APIError{
			StatusCode: statusCode,
			Status:     status,
			Endpoint:   endpoint,
			Message:    message,
			Body:       body,
		}
	}
}

// GetErrorCode extracts the taxonomy code from an error chain.
func GetErrorCode(err error) ErrorCode {
	if err == nil {
		return ErrCodeUnknown
	}
	switch {
	case errors.Is(err, ErrNoAPIKey):
		return ErrCodeUnconfigured
	case errors.Is(err, ErrClientMissing):
		return ErrCodeClientMissing
	case errors.Is(err, ErrEmptyResponse):
		return ErrCodeEmptyResponse
	case errors.Is(err, context.DeadlineExceeded):
		// Checked before the typed switch so a deadline buried inside a
		// transport error still classifies as a timeout.
		return ErrCodeTimeout
	}

	var (
		authErr    *AuthError
		quotaErr   *QuotaError
		timeoutErr *TimeoutError
		permErr    *PermissionError
		modelErr   *ModelNotFoundError
		blockedErr *BlockedError
		parseErr   *ParseError
		netErr     *NetworkError
		apiErr     *APIError
	)
	switch {
	case errors.As(err, &authErr):
		return ErrCodeInvalidCredential
	case errors.As(err, &quotaErr):
		return ErrCodeQuotaExceeded
	case errors.As(err, &timeoutErr):
		return ErrCodeTimeout
	case errors.As(err, &permErr):
		return ErrCodePermissionDenied
	case errors.As(err, &modelErr):
		return ErrCodeModelNotFound
	case errors.As(err, &blockedErr):
		return ErrCodeBlocked
	case errors.As(err, &parseErr):
		return ErrCodeParse
	case errors.As(err, &netErr):
		return ErrCodeNetwork
	case errors.As(err, &apiErr):
		return ErrCodeAPI
	}
	return ErrCodeUnknown
}

// GetHTTPStatus returns the HTTP status code carried by the error, or 0.
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// GetEndpoint returns the endpoint the failing request targeted, if known.
func GetEndpoint(err error) string {
	var (
		apiErr     *APIError
		authErr    *AuthError
		timeoutErr *TimeoutError
		netErr     *NetworkError
	)
	switch {
	case errors.As(err, &apiErr) && apiErr.Endpoint != "":
		return apiErr.Endpoint
	case errors.As(err, &authErr) && authErr.Endpoint != "":
		return authErr.Endpoint
	case errors.As(err, &timeoutErr) && timeoutErr.Endpoint != "":
		return timeoutErr.Endpoint
	case errors.As(err, &netErr) && netErr.Endpoint != "":
		return netErr.Endpoint
	}
	return ""
}

// GetResponseBody returns the raw error response body, if captured.
func GetResponseBody(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Body
	}
	return ""
}

// IsAuthError reports whether the error is an invalid-credential failure.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// IsRateLimitError reports whether the error is a quota failure.
func IsRateLimitError(err error) bool {
	var quotaErr *QuotaError
	return errors.As(err, &quotaErr)
}

// IsTimeoutError reports whether the error is a timeout.
func IsTimeoutError(err error) bool {
	var timeoutErr *TimeoutError
	if errors.As(err, &timeoutErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// IsNetworkError reports whether the error is a transport failure.
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// UserMessage converts an error into the message shown in the status bar.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	switch GetErrorCode(err) {
	case ErrCodeUnconfigured:
		return "API Key not set. Please configure it in Settings."
	case ErrCodeClientMissing:
		return "API client unavailable. AI functionality is disabled."
	case ErrCodeInvalidCredential:
		return "API Error: Invalid API Key. Please check it in Settings."
	case ErrCodeQuotaExceeded:
		return "API Error: Quota exceeded. Please check your Google AI usage limits."
	case ErrCodeTimeout:
		return "API Error: Request timed out. Please try again."
	case ErrCodePermissionDenied:
		return "API Error: Permission denied. Check API key permissions."
	case ErrCodeModelNotFound:
		return "API Error: Model not found. Check the model name."
	case ErrCodeBlocked:
		var blockedErr *BlockedError
		if errors.As(err, &blockedErr) && blockedErr.Reason != "" {
			return fmt.Sprintf("Request blocked: %s. Please modify your prompt.", blockedErr.Reason)
		}
		return "Request blocked. Please modify your prompt."
	case ErrCodeEmptyResponse:
		return "Received an empty or unexpected response format from the API."
	default:
		return "API Error: " + err.Error()
	}
}
