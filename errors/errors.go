package errors

import (
	"fmt"
	"net/http"
)

var (
	ErrNotFound            = New("not found", http.StatusNotFound)
	ErrBadRequest          = New("bad request", http.StatusBadRequest)
	ErrUnauthorized        = New("unauthorized", http.StatusUnauthorized)
	ErrInternalServerError = New("internal server error", http.StatusInternalServerError)
	InActiveUserError      = New("user inactive", http.StatusUnauthorized)
)

// Error carries a message together with the HTTP status it maps to.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// New creates an Error with the given message and HTTP status
func New(message string, status int) *Error {
	return &Error{
		Message: message,
		Status:  status,
	}
}
