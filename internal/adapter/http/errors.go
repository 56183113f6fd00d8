package http

import (
	"errors"
	"net/http"
	"strconv"

	"mcredit-backend/internal/domain/document"
	"mcredit-backend/internal/domain/loan"
	"mcredit-backend/internal/domain/user"
	loanuc "mcredit-backend/internal/usecase/loan"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var errInvalidID = errors.New("invalid id")

// statusFor maps a use case error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, user.ErrUnauthenticated),
		errors.Is(err, user.ErrInvalidCredentials),
		errors.Is(err, user.ErrInactive):
		return http.StatusUnauthorized
	case errors.Is(err, user.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, loan.ErrNotFound),
		errors.Is(err, document.ErrNotFound),
		errors.Is(err, user.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, user.ErrDuplicateUsername),
		errors.Is(err, user.ErrDuplicateEmail),
		errors.Is(err, loan.ErrInvalidTransition),
		errors.Is(err, loan.ErrTerminalState),
		errors.Is(err, loan.ErrInvalidKYC),
		errors.Is(err, document.ErrAlreadyVerified):
		return http.StatusConflict
	case errors.Is(err, document.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, document.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, loan.ErrInvalidAmount),
		errors.Is(err, loan.ErrInvalidStatus),
		errors.Is(err, document.ErrInvalidType),
		errors.Is(err, document.ErrInvalidStatus),
		errors.Is(err, document.ErrReasonRequired),
		errors.Is(err, user.ErrInvalidRole),
		errors.Is(err, user.ErrPasswordTooLong),
		errors.Is(err, loanuc.ErrNotAgent):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errInvalidID):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// writeError renders err as {"error": msg}. Internal failures are logged and
// hidden from the caller.
func writeError(c echo.Context, log *zap.Logger, err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(ve)})
	}
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("route", c.Path()),
			zap.Error(err))
		return c.JSON(code, ErrorResponse{Error: "internal server error"})
	}
	return c.JSON(code, ErrorResponse{Error: err.Error()})
}

func badBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
}

func paramID(c echo.Context, name string) (uint64, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, errInvalidID
	}
	return v, nil
}
