package http

import (
	"errors"
	"net/http"

	"coop-loan-service/internal/adapter/middleware"
	"coop-loan-service/internal/domain/loan"
	"coop-loan-service/internal/domain/member"

	"github.com/labstack/echo/v4"
)

// statusFor maps domain sentinels onto HTTP; anything unknown is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, loan.ErrInvalidPIN):
		return http.StatusUnauthorized
	case errors.Is(err, loan.ErrActiveLoanExists),
		errors.Is(err, loan.ErrAlreadyApproved),
		errors.Is(err, loan.ErrInvalidTransition),
		errors.Is(err, member.ErrDuplicatePIN):
		return http.StatusConflict
	case errors.Is(err, loan.ErrNotFound),
		errors.Is(err, member.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, loan.ErrInvalidAmount),
		errors.Is(err, loan.ErrInvalidStatus),
		errors.Is(err, loan.ErrInvalidDate),
		errors.Is(err, member.ErrInvalidInput),
		errors.Is(err, member.ErrNegative):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeError(c echo.Context, err error) error {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		middleware.Logger(c).Error("request failed", "err", err)
		return c.JSON(code, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(code, ErrorResponse{Error: err.Error()})
}

// bindAndValidate writes the 400/422 response itself and reports whether
// the handler should continue.
func bindAndValidate(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}
