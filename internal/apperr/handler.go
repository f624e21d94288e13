package apperr

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

func GlobalErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var ve *ValidationError
		if errors.As(err, &ve) {
			_ = c.JSON(http.StatusBadRequest, map[string]string{"error": ve.Message, "title": "validation error"})
			return
		}

		if errors.Is(err, ErrNotFound) {
			_ = c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}

		var ne *NetworkError
		if errors.As(err, &ne) {
			slog.Warn("Headline source unavailable", "error", err)
			_ = c.JSON(http.StatusBadGateway, map[string]string{"error": ne.Message, "title": "network error"})
			return
		}

		var ioe *IOError
		if errors.As(err, &ioe) {
			slog.Error("Article store failure", "op", ioe.Op, "error", err)
			_ = c.JSON(http.StatusInternalServerError, map[string]string{"error": "article store unavailable"})
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg := fmt.Sprintf("%v", he.Message)
			_ = c.JSON(he.Code, map[string]string{"error": msg})
			return
		}

		slog.Error("Unhandled error", "error", err)
		_ = c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
