// Package errors provides centralized error definitions and error handling utilities
// for the etravel client. It defines sentinel errors, the error taxonomy used by the
// planner (validation, transport, server-reported, storage), and classification
// helpers used by every surface to decide what to show the user.
//
// # Error Types
//
//   - ValidationError: a draft failed a client-side precondition; never reaches the network
//   - NetworkError: the request could not be delivered or the response could not be read
//   - APIError: the backend answered with a non-2xx status and an optional detail string
//   - StorageError: the persistent client state could not be read or written
//
// Every type carries a message key understood by the i18n bundles, so a surface can
// render a localized message without inspecting the concrete type:
//
//	key, detail := errors.MessageKey(err)
//	msg := i18n.Translate(locale, key)
//
// # Checking errors
//
//	if errors.Is(err, errors.ErrGenerationInFlight) { ... }
//
//	var apiErr *errors.APIError
//	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is   = errors.Is
	As   = errors.As
	New  = errors.New
	Join = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are only interesting while debugging.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors the user can fix themselves.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Message keys shared with the i18n bundles.
const (
	KeyGenericFailure   = "error.generic"
	KeyNetworkFailure   = "error.network"
	KeyNoSession        = "error.no_session"
	KeyInFlight         = "error.in_flight"
	KeyEntryNotFound    = "error.entry_not_found"
	KeyDeleteFailed     = "error.delete_failed"
	KeyDeleteDeclined   = "error.delete_declined"
	KeyViewerBlocked    = "error.viewer_blocked"
	KeyStorageFailure   = "error.storage"
	KeyMissingPlace     = "validation.missing_place"
	KeyMissingSchedule  = "validation.missing_schedule"
	KeyDateInPast       = "validation.date_in_past"
	KeyInvalidDate      = "validation.invalid_date"
	KeyNegativeBudget   = "validation.negative_budget"
	KeyInvalidBudget    = "validation.invalid_budget"
	KeyInvalidTravelers = "validation.invalid_travelers"
	KeyInvalidPace      = "validation.invalid_pace"
)

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Session-related sentinel errors
var (
	// ErrNoSession indicates that no persisted token exists.
	ErrNoSession = New("no session")
	// ErrUnauthorized indicates that the backend rejected the session token.
	ErrUnauthorized = New("unauthorized")
)

// Planner-related sentinel errors
var (
	// ErrGenerationInFlight indicates a generation was dropped because another is pending.
	ErrGenerationInFlight = New("plan generation already in flight")
	// ErrLocaleChanged indicates a result was discarded because the locale switched mid-flight.
	ErrLocaleChanged = New("locale changed while request was in flight")
	// ErrNoResult indicates an export was requested with nothing displayed.
	ErrNoResult = New("no plan result to export")
)

// Validation sentinel errors
var (
	ErrMissingPlace     = New("origin and destination are required")
	ErrMissingSchedule  = New("start date and days are required")
	ErrDateInPast       = New("start date is in the past")
	ErrInvalidDate      = New("start date is not a valid YYYY-MM-DD date")
	ErrNegativeBudget   = New("budget must not be negative")
	ErrInvalidBudget    = New("budget must be a number")
	ErrInvalidTravelers = New("travelers must be at least 1")
	ErrInvalidPace      = New("pace must be slow, normal or fast")
)

// History-related sentinel errors
var (
	// ErrEntryNotFound indicates the history entry is not in the local cache.
	ErrEntryNotFound = New("history entry not found")
	// ErrConfirmationDeclined indicates the user did not confirm a destructive action.
	ErrConfirmationDeclined = New("confirmation declined")
	// ErrDeleteFailed indicates the backend did not confirm a deletion.
	ErrDeleteFailed = New("history entry could not be deleted")
)

// General sentinel errors
var (
	// ErrViewerUnavailable indicates an export document could not be opened.
	ErrViewerUnavailable = New("could not open export viewer")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// TravelError is the base interface for all etravel errors.
type TravelError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsRetryable returns true if the operation may succeed when attempted again.
	IsRetryable() bool

	// IsUserFacing returns true if the error message is safe to display to end users.
	IsUserFacing() bool

	// MessageKey returns the i18n key describing this error.
	MessageKey() string
}

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	key        string
	severity   Severity
	retryable  bool
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsRetryable returns whether the error is retryable.
func (e *baseError) IsRetryable() bool {
	return e.retryable
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// MessageKey returns the i18n key for the error.
func (e *baseError) MessageKey() string {
	if e.key == "" {
		return KeyGenericFailure
	}
	return e.key
}

// -----------------------------------------------------------------------------
// ValidationError
// -----------------------------------------------------------------------------

// ValidationError represents a draft that failed a client-side precondition.
//
// Example:
//
//	err := errors.NewValidationError(errors.KeyDateInPast, errors.ErrDateInPast).WithField("start_date")
type ValidationError struct {
	baseError
	Field string
}

// NewValidationError creates a ValidationError for the given message key.
// The cause should be one of the validation sentinels so callers can use errors.Is.
func NewValidationError(key string, cause error) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    "validation failed",
			cause:      cause,
			key:        key,
			severity:   SeverityWarning,
			userFacing: true,
		},
	}
}

// WithField records the offending draft field.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	prefix := "validation error"
	if e.Field != "" {
		prefix = fmt.Sprintf("validation error [field=%s]", e.Field)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", prefix, e.cause)
	}
	return prefix
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	return target == ErrInvalidInput
}

// -----------------------------------------------------------------------------
// NetworkError
// -----------------------------------------------------------------------------

// NetworkError represents a transport failure talking to the backend.
type NetworkError struct {
	baseError
	Endpoint string
}

// NewNetworkError creates a NetworkError for the given endpoint.
func NewNetworkError(endpoint string, cause error) *NetworkError {
	return &NetworkError{
		baseError: baseError{
			message:    "request failed",
			cause:      cause,
			key:        KeyNetworkFailure,
			severity:   SeverityError,
			retryable:  true,
			userFacing: false,
		},
		Endpoint: endpoint,
	}
}

// Error returns the formatted error message.
func (e *NetworkError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("network error [endpoint=%s]: %s: %v", e.Endpoint, e.message, e.cause)
	}
	return fmt.Sprintf("network error [endpoint=%s]: %s", e.Endpoint, e.message)
}

// -----------------------------------------------------------------------------
// APIError
// -----------------------------------------------------------------------------

// APIError represents a non-2xx answer from the backend.
//
// Example:
//
//	err := errors.NewAPIError("/api/plan", 500, "LLM timeout")
//	fmt.Println(err) // "api error [endpoint=/api/plan, status=500]: LLM timeout"
type APIError struct {
	baseError
	Endpoint string
	Status   int
	Detail   string
}

// NewAPIError creates an APIError. Detail is the backend's `detail` field and may be empty.
func NewAPIError(endpoint string, status int, detail string) *APIError {
	msg := detail
	if msg == "" {
		msg = fmt.Sprintf("unexpected status %d", status)
	}
	return &APIError{
		baseError: baseError{
			message:    msg,
			key:        KeyGenericFailure,
			severity:   SeverityError,
			retryable:  status >= 500,
			userFacing: detail != "",
		},
		Endpoint: endpoint,
		Status:   status,
		Detail:   detail,
	}
}

// Error returns the formatted error message.
func (e *APIError) Error() string {
	return fmt.Sprintf("api error [endpoint=%s, status=%d]: %s", e.Endpoint, e.Status, e.message)
}

// Is checks if this error matches the target.
func (e *APIError) Is(target error) bool {
	if target == ErrUnauthorized {
		return e.Status == 401
	}
	_, ok := target.(*APIError)
	return ok
}

// -----------------------------------------------------------------------------
// StorageError
// -----------------------------------------------------------------------------

// StorageError represents a failure reading or writing persistent client state.
type StorageError struct {
	baseError
	Key string
}

// NewStorageError creates a StorageError for a state key.
func NewStorageError(key, message string, cause error) *StorageError {
	return &StorageError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			key:        KeyStorageFailure,
			severity:   SeverityError,
			userFacing: false,
		},
		Key: key,
	}
}

// Error returns the formatted error message.
func (e *StorageError) Error() string {
	var parts []string
	if e.Key != "" {
		parts = append(parts, fmt.Sprintf("key=%s", e.Key))
	}
	prefix := "storage error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("storage error [%s]", strings.Join(parts, ", "))
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable returns true if the error represents a transient condition.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var te TravelError
	if As(err, &te) {
		return te.IsRetryable()
	}
	return false
}

// IsUserFacing returns true if the error message is safe to display to end users.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	var te TravelError
	if As(err, &te) {
		return te.IsUserFacing()
	}
	return false
}

// GetSeverity returns the severity level of the error.
// Sentinels for expected user flow (no session, a dropped duplicate request,
// a declined confirmation, a locale switch) are SeverityInfo. Other errors
// that don't implement TravelError are SeverityError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}
	if Is(err, ErrNoSession) || Is(err, ErrGenerationInFlight) ||
		Is(err, ErrConfirmationDeclined) || Is(err, ErrLocaleChanged) {
		return SeverityInfo
	}
	var te TravelError
	if As(err, &te) {
		return te.Severity()
	}
	return SeverityError
}

// MessageKey resolves the i18n key for err. For server-reported errors it also
// returns the raw detail, which callers map through the locale's detail table
// before falling back to the key.
//
// Example:
//
//	key, detail := errors.MessageKey(err)
//	msg := bundle.ServerMessage(locale, detail, key)
func MessageKey(err error) (key, detail string) {
	if err == nil {
		return "", ""
	}

	switch {
	case Is(err, ErrNoSession):
		return KeyNoSession, ""
	case Is(err, ErrGenerationInFlight):
		return KeyInFlight, ""
	case Is(err, ErrEntryNotFound):
		return KeyEntryNotFound, ""
	case Is(err, ErrConfirmationDeclined):
		return KeyDeleteDeclined, ""
	case Is(err, ErrDeleteFailed):
		return KeyDeleteFailed, ""
	case Is(err, ErrViewerUnavailable):
		return KeyViewerBlocked, ""
	}

	var apiErr *APIError
	if As(err, &apiErr) {
		return apiErr.MessageKey(), apiErr.Detail
	}

	var te TravelError
	if As(err, &te) {
		return te.MessageKey(), ""
	}
	return KeyGenericFailure, ""
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
// Unlike fmt.Errorf with %w, this returns nil for a nil error.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
