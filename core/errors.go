package core

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrRankConflict is matched by a ServerError reporting that a rank is already held by another record.
	ErrRankConflict = errors.New("rank already taken")
	ErrNotFound     = errors.New("not found")
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is returned before any request is issued when user input is invalid.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if len(err.Fields) > 0 {
		msgs := make([]string, 0, len(err.Fields))
		for _, fErr := range err.Fields {
			msgs = append(msgs, fErr.Field+": "+fErr.Error)
		}
		return strings.Join(msgs, "; ")
	}
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// NetworkError means the request never got a response from the server.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (err *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", err.Method, err.Path, err.Err)
}

func (err *NetworkError) Unwrap() error { return err.Err }

// ServerError carries a non-2xx response.
type ServerError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (err *ServerError) Error() string {
	if err.Body == "" {
		return fmt.Sprintf("server error: %d", err.Status)
	}
	return fmt.Sprintf("server error: %d: %s", err.Status, err.Body)
}

//nolint:errorlint
func (err *ServerError) Is(target error) bool {
	switch target {
	case ErrRankConflict:
		return err.Status == http.StatusConflict
	case ErrNotFound:
		return err.Status == http.StatusNotFound
	}
	return false
}

func IsNetworkError(err error) bool {
	var nErr *NetworkError
	return errors.As(err, &nErr)
}

func IsServerError(err error) bool {
	var sErr *ServerError
	return errors.As(err, &sErr)
}

func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
