package apperr

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/workhive/workhive/internal/logger"
	"go.uber.org/zap"
)

// Status maps an error kind to its HTTP status code.
func Status(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindBadRequest:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// JSON writes the error to the client. Internal errors are logged and
// masked; taxonomy errors surface their message directly.
func JSON(c echo.Context, err error) error {
	code := Status(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		logger.Log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		msg = "internal server error"
	}
	return c.JSON(code, echo.Map{"error": msg})
}
