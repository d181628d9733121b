package api

import (
	"errors"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satriahrh/rolespeak/server/domain"
)

// Error codes carried in ErrorResponse.Error
const (
	codeInvalidRequest       = "invalid_request"
	codeUpstreamError        = "upstream_error"
	codeGenerationIncomplete = "generation_incomplete"
	codeStorageError         = "storage_error"
	codeInternalError        = "internal_error"
)

// respondError maps a service error to its HTTP status and body
func respondError(c echo.Context, err error, logger *zap.Logger) error {
	status, body := errorResponse(err)

	fields := []zap.Field{
		zap.String("path", c.Path()),
		zap.String("code", body.Error),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", fields...)
	} else {
		logger.Info("Rejected request", fields...)
	}

	return c.JSON(status, body)
}

func errorResponse(err error) (int, ErrorResponse) {
	var (
		upstream   *domain.UpstreamError
		storageErr *domain.StorageError
	)

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrorResponse{
			Error:   codeInvalidRequest,
			Message: capitalize(strings.TrimPrefix(err.Error(), domain.ErrInvalidInput.Error()+": ")),
		}
	case errors.Is(err, domain.ErrGenerationIncomplete):
		return http.StatusInternalServerError, ErrorResponse{
			Error:   codeGenerationIncomplete,
			Message: capitalize(domain.ErrGenerationIncomplete.Error()),
		}
	case errors.As(err, &storageErr):
		return http.StatusInternalServerError, ErrorResponse{
			Error:   codeStorageError,
			Message: capitalize(storageErr.Error()),
		}
	case errors.As(err, &upstream):
		return http.StatusInternalServerError, ErrorResponse{
			Error:   codeUpstreamError,
			Message: capitalize(upstream.Error()),
		}
	default:
		return http.StatusInternalServerError, ErrorResponse{
			Error:   codeInternalError,
			Message: "Internal server error",
		}
	}
}

func invalidRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   codeInvalidRequest,
		Message: message,
	})
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
