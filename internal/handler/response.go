package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/samber/oops"

	"inventory/internal/errors"
)

// UserIDKey is the echo context key under which the session middleware stores the caller's id.
const UserIDKey = "userID"

// MessageResponse is the body of operations that only report an outcome.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// respondError converts a service error into an echo HTTP error with an ErrorResponse body.
// Server-side failures are logged with their oops code; their details never reach the client.
func respondError(c echo.Context, err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		event := log.Error().Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path())
		if oopsErr, ok := oops.AsOops(err); ok {
			event = event.Interface("error_code", oopsErr.Code())
		}
		event.Msg("request failed")
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func badRequest(message string) error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: message,
		Code:  "INVALID_REQUEST",
	})
}

func notAuthorized() error {
	return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
		Error: "Not authorized, please login",
		Code:  "NOT_AUTHORIZED",
	})
}

// bindAndValidate decodes the request body into req and runs struct validation.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return badRequest(err.Error())
	}
	return nil
}

// currentUserID returns the id stored by the session middleware.
func currentUserID(c echo.Context) (uuid.UUID, error) {
	id, ok := c.Get(UserIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, notAuthorized()
	}
	return id, nil
}
