package services

import "errors"

// ErrorKind classifies service failures so controllers can map them to HTTP
// statuses without inspecting message strings or driver error types.
type ErrorKind string

const (
	// KindSessionNotFound: session missing, expired, or ended. Terminal,
	// the guest flow has to restart.
	KindSessionNotFound ErrorKind = "session_not_found"
	// KindNoTableAvailable: transient capacity exhaustion during
	// auto-assignment. Retryable, callers should poll.
	KindNoTableAvailable ErrorKind = "no_table_available"
	// KindTableNotAvailable: a specifically requested table is missing,
	// occupied, disabled, or undersized. Terminal, needs staff help.
	KindTableNotAvailable ErrorKind = "table_not_available"
	KindOrderNotFound     ErrorKind = "order_not_found"
	KindOrderNotPayable   ErrorKind = "order_not_payable"
	KindSessionEnded      ErrorKind = "session_ended"
	KindValidationFailed  ErrorKind = "validation_failed"
)

type AppError struct {
	Kind    ErrorKind
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(kind ErrorKind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

// AsAppError unwraps err into an *AppError if it is one.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

var (
	ErrSessionNotFound   = NewAppError(KindSessionNotFound, "session not found or expired")
	ErrNoTableAvailable  = NewAppError(KindNoTableAvailable, "no table available")
	ErrTableNotAvailable = NewAppError(KindTableNotAvailable, "requested table is not available")
	ErrSessionEnded      = NewAppError(KindSessionEnded, "session has ended")
)
