package models

// Broker is a row of the brokers table.
type Broker struct {
	BrokerID   string `db:"broker_id"`
	InvestorID string `db:"investor_id"`
	Name       string `db:"name"`
	Country    string `db:"country"`
	AuditFields
}

// BrokerAccount is a row of the broker_accounts table.
type BrokerAccount struct {
	AccountID  string `db:"account_id"`
	BrokerID   string `db:"broker_id"`
	InvestorID string `db:"investor_id"`
	Name       string `db:"name"`
	NativeID   string `db:"native_id"` // account number as the broker reports it
	Restricted bool   `db:"restricted"`
	IsActive   bool   `db:"is_active"`
	AuditFields
}

// AccountGroup is a row of account_groups together with its members from
// account_group_members.
type AccountGroup struct {
	GroupID    string   `db:"group_id"`
	InvestorID string   `db:"investor_id"`
	Name       string   `db:"name"`
	AccountIDs []string `db:"account_ids"`
	AuditFields
}
