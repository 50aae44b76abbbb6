// Package errors builds HTTP error responses in the shared wire shape.
package errors

import (
	"net/http"

	"github.com/labstack/echo/v4"
	apierrors "github.com/opsberry/deskfab-api-types/errors"
)

type ErrorMessageOption func(in *apierrors.ErrorMessage) *apierrors.ErrorMessage

func WithAdvice(advice string) ErrorMessageOption {
	return func(in *apierrors.ErrorMessage) *apierrors.ErrorMessage {
		if advice != "" {
			in.Advice = advice
		}
		return in
	}
}

func WithError(err error) ErrorMessageOption {
	return func(in *apierrors.ErrorMessage) *apierrors.ErrorMessage {
		if err != nil {
			in.Cause = err
		}
		return in
	}
}

func NewErrorMessage(code int, reason string, opts ...ErrorMessageOption) *echo.HTTPError {
	msg := apierrors.ErrorMessage{Reason: reason}
	for _, opt := range opts {
		msg = *opt(&msg)
	}

	return echo.NewHTTPError(code, msg).SetInternal(msg)
}

func BadRequest(advice string, err error) *echo.HTTPError {
	return NewErrorMessage(
		http.StatusBadRequest,
		"bad request",
		WithAdvice(advice),
		WithError(err),
	)
}

func NotFound() *echo.HTTPError {
	return NewErrorMessage(http.StatusNotFound, "not found")
}

func InternalServerError(err error) *echo.HTTPError {
	return NewErrorMessage(
		http.StatusInternalServerError,
		"unexpected error",
		WithError(err),
	)
}
