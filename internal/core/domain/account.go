package domain

import "fmt"

// Broker groups the accounts an investor holds with one institution.
type Broker struct {
	BrokerID   string
	InvestorID string
	Name       string
	Country    string
	AuditFields
}

// BrokerAccount is a single account at a broker. Restricted accounts hold
// capital the investor cannot freely withdraw.
type BrokerAccount struct {
	AccountID  string
	BrokerID   string
	InvestorID string
	Name       string
	NativeID   string
	Restricted bool
	IsActive   bool
	AuditFields
}

// AccountGroup is a named set of broker accounts used for aggregate reporting.
type AccountGroup struct {
	GroupID    string
	InvestorID string
	Name       string
	AccountIDs []string
	AuditFields
}

// SelectorKind tags an AccountSelector.
type SelectorKind string

const (
	SelectorBroker  SelectorKind = "broker"
	SelectorAccount SelectorKind = "account"
	SelectorGroup   SelectorKind = "group"
)

// Valid reports whether k is one of the known selector kinds.
func (k SelectorKind) Valid() bool {
	switch k {
	case SelectorBroker, SelectorAccount, SelectorGroup:
		return true
	}
	return false
}

// AccountSelector picks the scope of a computation.
type AccountSelector struct {
	Kind SelectorKind
	ID   string
}

func (s AccountSelector) String() string {
	return fmt.Sprintf("%s:%s", s.Kind, s.ID)
}

// PerformanceTarget is one normalized (account_type, account_id) pair with
// the broker accounts that make it up.
type PerformanceTarget struct {
	AccountType SelectorKind
	AccountID   string
	Accounts    []BrokerAccount
}

// AccountIDs returns the ids of the target's member accounts.
func (t PerformanceTarget) AccountIDs() []string {
	ids := make([]string, 0, len(t.Accounts))
	for _, a := range t.Accounts {
		ids = append(ids, a.AccountID)
	}
	return ids
}

// WithRestriction keeps only members matching the restriction flag.
func (t PerformanceTarget) WithRestriction(restricted bool) PerformanceTarget {
	out := PerformanceTarget{AccountType: t.AccountType, AccountID: t.AccountID}
	for _, a := range t.Accounts {
		if a.Restricted == restricted {
			out.Accounts = append(out.Accounts, a)
		}
	}
	return out
}
