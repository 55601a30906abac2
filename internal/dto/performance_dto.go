package dto

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/SscSPs/portfolio_performance_app/internal/core/domain"
	"github.com/SscSPs/portfolio_performance_app/internal/utils"
	"github.com/shopspring/decimal"
)

// FlexString accepts a JSON string, number or boolean and keeps its text.
// Clients send ids as numbers and flags as strings or booleans.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(strings.Trim(string(data), `"`))
	return nil
}

func (f FlexString) String() string { return string(f) }

// PerformanceJobRequest is the candidate recompute request posted by clients.
// Tags are checked by the job service validator.
type PerformanceJobRequest struct {
	SelectionAccountType string     `json:"selection_account_type" validate:"required,oneof=broker account group"`
	SelectionAccountID   FlexString `json:"selection_account_id" validate:"required"`
	Currency             string     `json:"currency" validate:"required,currency_or_all"`
	IsRestricted         FlexString `json:"is_restricted" validate:"required,restriction"`
	SkipExistingYears    FlexString `json:"skip_existing_years" validate:"omitempty,boollike"`
	EffectiveCurrentDate string     `json:"effective_current_date" validate:"required,datetime=2006-01-02"`
}

// FieldErrors maps a request field to its problems.
type FieldErrors map[string][]string

// Add records msg against field.
func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

const validationResponseType = "validation"

// ValidationResponse is returned by the validate endpoint.
type ValidationResponse struct {
	Valid  bool        `json:"valid"`
	Type   string      `json:"type"`
	Errors FieldErrors `json:"errors"`
}

// NewValidationResponse wraps errs; an empty set is valid.
func NewValidationResponse(errs FieldErrors) ValidationResponse {
	if errs == nil {
		errs = FieldErrors{}
	}
	return ValidationResponse{Valid: len(errs) == 0, Type: validationResponseType, Errors: errs}
}

// StartJobResponse is returned by the start endpoint.
type StartJobResponse struct {
	Valid     bool        `json:"valid"`
	Type      string      `json:"type,omitempty"`
	SessionID string      `json:"session_id,omitempty"`
	Errors    FieldErrors `json:"errors,omitempty"`
}

// NewStartJobFailure reports a request that was not started.
func NewStartJobFailure(errs FieldErrors) StartJobResponse {
	return StartJobResponse{Type: validationResponseType, Errors: errs}
}

// StreamStatusResponse is the JSON body of a refused stream request.
type StreamStatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ToJobEventPayload shapes a job event into its wire form. Only the fields
// of the event's status are present.
func ToJobEventPayload(e domain.JobEvent) map[string]any {
	payload := map[string]any{"status": string(e.Status)}
	switch e.Status {
	case domain.JobProgress:
		payload["current"] = e.Current
		payload["progress"] = e.Progress
		payload["year"] = e.Year
		payload["currency"] = e.Currency
		payload["is_restricted"] = e.IsRestricted
	case domain.JobSkipped:
		payload["year"] = e.Year
	case domain.JobError:
		payload["message"] = e.Message
	}
	return payload
}

// ListPerformanceParams selects stored annual records.
type ListPerformanceParams struct {
	SelectionAccountType string `form:"selection_account_type" binding:"required,oneof=broker account group"`
	SelectionAccountID   string `form:"selection_account_id" binding:"required"`
	Currency             string `form:"currency"`
	IsRestricted         string `form:"is_restricted" binding:"omitempty,oneof=True False All true false all"`
}

// AnnualPerformanceResponse is one stored record.
type AnnualPerformanceResponse struct {
	AccountType         string          `json:"account_type"`
	AccountID           string          `json:"account_id"`
	Year                int             `json:"year"`
	Currency            string          `json:"currency"`
	Restricted          bool            `json:"restricted"`
	BOPNAV              decimal.Decimal `json:"bop_nav"`
	EOPNAV              decimal.Decimal `json:"eop_nav"`
	Invested            decimal.Decimal `json:"invested"`
	CashOut             decimal.Decimal `json:"cash_out"`
	PriceChange         decimal.Decimal `json:"price_change"`
	CapitalDistribution decimal.Decimal `json:"capital_distribution"`
	Commission          decimal.Decimal `json:"commission"`
	Tax                 decimal.Decimal `json:"tax"`
	FX                  decimal.Decimal `json:"fx"`
	TSR                 string          `json:"tsr"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// ToAnnualPerformanceResponse converts a domain record.
func ToAnnualPerformanceResponse(p domain.AnnualPerformance) AnnualPerformanceResponse {
	return AnnualPerformanceResponse{
		AccountType:         string(p.AccountType),
		AccountID:           p.AccountID,
		Year:                p.Year,
		Currency:            p.Currency,
		Restricted:          p.Restricted,
		BOPNAV:              p.BOPNAV,
		EOPNAV:              p.EOPNAV,
		Invested:            p.Invested,
		CashOut:             p.CashOut,
		PriceChange:         p.PriceChange,
		CapitalDistribution: p.CapitalDistribution,
		Commission:          p.Commission,
		Tax:                 p.Tax,
		FX:                  p.FX,
		TSR:                 utils.FormatNullPercentage(p.TSR),
		UpdatedAt:           p.UpdatedAt,
	}
}

// ToAnnualPerformanceResponses converts a list of records.
func ToAnnualPerformanceResponses(records []domain.AnnualPerformance) []AnnualPerformanceResponse {
	out := make([]AnnualPerformanceResponse, len(records))
	for i, r := range records {
		out[i] = ToAnnualPerformanceResponse(r)
	}
	return out
}
