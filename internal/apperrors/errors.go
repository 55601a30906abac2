package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrForbidden indicates that the caller is identified but may not access the resource.
var ErrForbidden = errors.New("forbidden")

// ErrMissingMarketData indicates that an FX rate required by a computation is absent.
var ErrMissingMarketData = errors.New("missing market data")

// ErrReconciliation indicates that computed NAV components do not add up.
var ErrReconciliation = errors.New("reconciliation failed")

// AppError carries an HTTP-ish status code next to a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError wraps err with a status code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError returns an AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// NewValidationError returns an AppError that matches ErrValidation.
func NewValidationError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrValidation}
}

// NewForbiddenError returns an AppError that matches ErrForbidden.
func NewForbiddenError(message string) *AppError {
	return &AppError{Code: http.StatusForbidden, Message: message, Err: ErrForbidden}
}

// MissingMarketDataError names the FX conversion a computation could not
// make. Missing prices are not errors: the holding is carried at cost.
type MissingMarketDataError struct {
	Date         time.Time
	FromCurrency string
	ToCurrency   string
}

func (e *MissingMarketDataError) Error() string {
	return fmt.Sprintf("missing FX rate %s->%s on or before %s", e.FromCurrency, e.ToCurrency, e.Date.Format(time.DateOnly))
}

func (e *MissingMarketDataError) Is(target error) bool {
	return target == ErrMissingMarketData
}

// NewMissingFXError builds a MissingMarketDataError for a currency conversion.
func NewMissingFXError(from, to string, date time.Time) *MissingMarketDataError {
	return &MissingMarketDataError{Date: date, FromCurrency: from, ToCurrency: to}
}

// ReconciliationError reports a NAV breakdown that does not sum to the ending NAV.
type ReconciliationError struct {
	Year     int
	Currency string
	Check    string
	Expected decimal.Decimal
	Actual   decimal.Decimal
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("reconciliation failed for %d (%s, %s): expected %s, got %s",
		e.Year, e.Currency, e.Check, e.Expected.String(), e.Actual.String())
}

func (e *ReconciliationError) Is(target error) bool {
	return target == ErrReconciliation
}
