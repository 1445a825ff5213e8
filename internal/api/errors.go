package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable indicates the ordering backend could not be reached.
	ErrUnavailable = errors.New("ordering backend unavailable")

	// ErrTimeout indicates a call exceeded the configured timeout.
	ErrTimeout = errors.New("ordering request timed out")

	// ErrRejected indicates the backend refused the request (4xx).
	ErrRejected = errors.New("ordering request rejected")

	// ErrServer indicates the backend failed to handle the request (5xx).
	ErrServer = errors.New("ordering backend error")
)

// StatusError is a non-2xx backend response.
type StatusError struct {
	Status  int
	Code    string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d", e.Status)
	}
	return fmt.Sprintf("backend returned %d %s: %s", e.Status, e.Code, e.Message)
}

// Is maps the status class onto ErrRejected or ErrServer.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrRejected:
		return e.Status >= 400 && e.Status < 500
	case ErrServer:
		return e.Status >= http.StatusInternalServerError
	}
	return false
}

func errorCode(err error) string {
	var se *StatusError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.As(err, &se) && se.Code != "":
		return se.Code
	case errors.Is(err, ErrServer):
		return "SERVER"
	case errors.Is(err, ErrRejected):
		return "REJECTED"
	default:
		return "UNKNOWN"
	}
}
