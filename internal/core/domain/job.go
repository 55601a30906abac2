package domain

import (
	"strings"
	"time"
)

// RestrictionFilter selects restricted, unrestricted or both kinds of accounts.
type RestrictionFilter string

const (
	RestrictionAll   RestrictionFilter = "All"
	RestrictionTrue  RestrictionFilter = "True"
	RestrictionFalse RestrictionFilter = "False"
)

// ParseRestrictionFilter accepts All/True/False in any case.
func ParseRestrictionFilter(s string) (RestrictionFilter, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all":
		return RestrictionAll, true
	case "true":
		return RestrictionTrue, true
	case "false":
		return RestrictionFalse, true
	}
	return "", false
}

// Values expands the filter into the flags to compute, unrestricted first.
func (r RestrictionFilter) Values() []bool {
	switch r {
	case RestrictionTrue:
		return []bool{true}
	case RestrictionFalse:
		return []bool{false}
	default:
		return []bool{false, true}
	}
}

// PerformanceJobRequest is a validated recompute request waiting to be streamed.
type PerformanceJobRequest struct {
	RequesterID       string
	Selector          AccountSelector
	Currency          string // ISO code or AllCurrencies
	Restriction       RestrictionFilter
	SkipExistingYears bool
	EffectiveDate     time.Time
}

// JobStatus is the status field of a stream event.
type JobStatus string

const (
	JobInitializing JobStatus = "initializing"
	JobProgress     JobStatus = "progress"
	JobSkipped      JobStatus = "skipped"
	JobComplete     JobStatus = "complete"
	JobError        JobStatus = "error"
)

// JobEvent is one message of a performance job stream.
type JobEvent struct {
	Status       JobStatus
	Current      int
	Progress     float64
	Year         int
	Currency     string
	IsRestricted bool
	Message      string
}

// Terminal reports whether no event may follow e.
func (e JobEvent) Terminal() bool {
	return e.Status == JobComplete || e.Status == JobError
}

// NoTransactionsMessage is the single error emitted for an empty scope.
const NoTransactionsMessage = "No transactions found"
