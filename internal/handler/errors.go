package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"ballerz-storefront/internal/service"
)

// httpError maps service errors onto HTTP statuses; anything unrecognized
// bubbles to echo's default 500 handling.
func httpError(err error) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return echo.NewHTTPError(http.StatusBadRequest, verr.Error())
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrPermissionDenied):
		return echo.NewHTTPError(http.StatusForbidden, "permission denied")
	}
	return err
}
