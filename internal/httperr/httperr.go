package httperr

import "net/http"

// Error is the single error shape the API exposes. Everything that fails
// inside a handler is wrapped into one of these before it reaches the
// terminal error middleware, which writes {message,status} exactly once.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *Error) Error() string {
	return e.Message
}

func New(message string, status int) *Error {
	if status == 0 {
		status = http.StatusInternalServerError
	}

	return &Error{
		Message: message,
		Status:  status,
	}
}

func Invalid(message string) *Error {
	return New(message, http.StatusUnprocessableEntity)
}

func NotFound(message string) *Error {
	return New(message, http.StatusNotFound)
}

func Unauthorized(message string) *Error {
	return New(message, http.StatusUnauthorized)
}

// Internal deliberately takes a user-facing message only; the underlying
// cause is logged at the call site, never serialized to the client.
func Internal(message string) *Error {
	return New(message, http.StatusInternalServerError)
}
