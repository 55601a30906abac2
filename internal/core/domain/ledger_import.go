package domain

// LedgerBatch is a set of rows delivered by an external data source.
type LedgerBatch struct {
	Brokers        []Broker
	Accounts       []BrokerAccount
	Groups         []AccountGroup
	Securities     []Security
	Transactions   []Transaction
	FXTransactions []FXTransaction
	Prices         []PriceObservation
	FXRates        []FXSnapshot
}

// ImportCounts reports how many rows of each kind a batch wrote.
type ImportCounts struct {
	Brokers        int `json:"brokers"`
	Accounts       int `json:"accounts"`
	Groups         int `json:"groups"`
	Securities     int `json:"securities"`
	Transactions   int `json:"transactions"`
	FXTransactions int `json:"fx_transactions"`
	Prices         int `json:"prices"`
	FXRates        int `json:"fx_rates"`
}
