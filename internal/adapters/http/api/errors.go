package api

import (
	"errors"
	"fmt"
	"net/http"

	repository "github.com/contextbench/leaderboard/internal/adapters/repository"
	service "github.com/contextbench/leaderboard/internal/app"
	"github.com/contextbench/leaderboard/internal/domain/view"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("dataset unavailable")
)

// NewKind reports a bare error kind for operation op.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// Wrap adds operation context to err.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// WrapKind classifies err under kind and adds operation context. Both remain
// matchable with errors.Is.
func WrapKind(op string, kind, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

// classify maps an upstream error to its API kind.
func classify(err error) error {
	switch {
	case errors.Is(err, view.ErrUnknownColumn),
		errors.Is(err, view.ErrUnknownMetric),
		errors.Is(err, view.ErrUnknownSystem),
		errors.Is(err, view.ErrUnknownView),
		errors.Is(err, view.ErrBadDirection),
		errors.Is(err, ErrBadRequest):
		return ErrBadRequest
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, ErrNotFound):
		return ErrNotFound
	case errors.Is(err, service.ErrNotStarted), errors.Is(err, ErrUnavailable):
		return ErrUnavailable
	}
	return nil
}

// statusFor returns the HTTP status and error code for err.
func statusFor(err error) (int, string) {
	switch classify(err) {
	case ErrBadRequest:
		return http.StatusBadRequest, "bad_request"
	case ErrNotFound:
		return http.StatusNotFound, "not_found"
	case ErrUnavailable:
		return http.StatusServiceUnavailable, "unavailable"
	}
	return http.StatusInternalServerError, "internal_error"
}
