package models

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// Error is the application error taxonomy. Handlers map it to an HTTP status
// and a JSON body at the boundary; anything else becomes a generic 500.
type Error struct {
	Code    string
	Message string
	Status  int
	// Fields are merged into the JSON error body, e.g. currentBalance on an
	// insufficient-balance rejection.
	Fields map[string]interface{}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func ErrValidation(format string, args ...interface{}) *Error {
	return &Error{Code: "ValidationError", Message: fmt.Sprintf(format, args...), Status: http.StatusBadRequest}
}

func ErrNotFound(format string, args ...interface{}) *Error {
	return &Error{Code: "NotFoundError", Message: fmt.Sprintf(format, args...), Status: http.StatusNotFound}
}

func ErrInvalidSelection(format string, args ...interface{}) *Error {
	return &Error{Code: "InvalidSelection", Message: fmt.Sprintf(format, args...), Status: http.StatusBadRequest}
}

func ErrConflict(format string, args ...interface{}) *Error {
	return &Error{Code: "ConflictError", Message: fmt.Sprintf(format, args...), Status: http.StatusBadRequest}
}

func ErrSessionFull(sessionID string) *Error {
	return &Error{Code: "SessionFull", Message: "session is full", Status: http.StatusBadRequest,
		Fields: map[string]interface{}{"sessionId": sessionID}}
}

func ErrCardUnavailable(index int) *Error {
	return &Error{Code: "CardUnavailable", Message: fmt.Sprintf("card %d is already reserved", index),
		Status: http.StatusBadRequest}
}

func ErrInsufficientBalance(current, requested decimal.Decimal) *Error {
	return &Error{Code: "InsufficientBalance", Message: "insufficient balance", Status: http.StatusBadRequest,
		Fields: map[string]interface{}{"currentBalance": current, "requestedAmount": requested}}
}

func ErrUpstreamPayment(err error) *Error {
	// The cause is logged server-side; clients only see the retryable message.
	return &Error{Code: "UpstreamPaymentError", Message: "payment provider failed, please retry",
		Status: http.StatusInternalServerError}
}

func ErrInternal(message string) *Error {
	return &Error{Code: "InternalError", Message: message, Status: http.StatusInternalServerError}
}
