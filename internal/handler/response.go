package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation   = "https://sitebooks.app/errors/validation"
	ErrorTypeNotFound     = "https://sitebooks.app/errors/not-found"
	ErrorTypeUnauthorized = "https://sitebooks.app/errors/unauthorized"
	ErrorTypeConflict     = "https://sitebooks.app/errors/conflict"
	ErrorTypeTooLarge     = "https://sitebooks.app/errors/too-large"
	ErrorTypeInternal     = "https://sitebooks.app/errors/internal"
	ErrorTypeUnavailable  = "https://sitebooks.app/errors/unavailable"
	ErrorTypeHTTP         = "about:blank"
)

var problemTypes = map[int]string{
	http.StatusBadRequest:            ErrorTypeValidation,
	http.StatusUnauthorized:          ErrorTypeUnauthorized,
	http.StatusNotFound:              ErrorTypeNotFound,
	http.StatusConflict:              ErrorTypeConflict,
	http.StatusRequestEntityTooLarge: ErrorTypeTooLarge,
	http.StatusInternalServerError:   ErrorTypeInternal,
	http.StatusServiceUnavailable:    ErrorTypeUnavailable,
}

// writeProblem renders a problem response; the title is the status text
// except for 400, which is always a validation failure here.
func writeProblem(c echo.Context, status int, detail string, errs []ValidationError) error {
	typ, ok := problemTypes[status]
	if !ok {
		typ = ErrorTypeHTTP
	}
	title := http.StatusText(status)
	if status == http.StatusBadRequest {
		title = "Validation Error"
	}
	return c.JSON(status, ProblemDetails{
		Type:     typ,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errs,
	})
}

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return writeProblem(c, http.StatusBadRequest, detail, errors)
}

func NewNotFoundError(c echo.Context, detail string) error {
	return writeProblem(c, http.StatusNotFound, detail, nil)
}

func NewUnauthorizedError(c echo.Context, detail string) error {
	return writeProblem(c, http.StatusUnauthorized, detail, nil)
}

func NewConflictError(c echo.Context, detail string) error {
	return writeProblem(c, http.StatusConflict, detail, nil)
}

// NewInternalError hides the cause; callers log it first
func NewInternalError(c echo.Context, detail string) error {
	return writeProblem(c, http.StatusInternalServerError, detail, nil)
}

func NewServiceUnavailableError(c echo.Context, detail string) error {
	return writeProblem(c, http.StatusServiceUnavailable, detail, nil)
}

// ProblemErrorHandler renders errors that escape handlers (unknown routes,
// body limit, recovered panics) as problem details instead of echo's default body.
func ProblemErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	detail := "Unexpected error"
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			detail = msg
		}
	}
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("Unhandled error")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = writeProblem(c, status, detail, nil)
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to write error response")
	}
}
