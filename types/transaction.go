package types

// TransactionHeader carries the fixed leading fields of a transaction.
type TransactionHeader struct {
	Expiration       TimePointSec `json:"expiration"`
	RefBlockNum      uint16       `json:"ref_block_num"`
	RefBlockPrefix   uint32       `json:"ref_block_prefix"`
	MaxNetUsageWords uint32       `json:"max_net_usage_words"`
	MaxCPUUsageMS    uint8        `json:"max_cpu_usage_ms"`
	DelaySec         uint32       `json:"delay_sec"`
}

// Transaction is the unpacked form of an on-chain packed transaction.
type Transaction struct {
	TransactionHeader

	ContextFreeActions []Action    `json:"context_free_actions"`
	Actions            []Action    `json:"actions"`
	Extensions         []Extension `json:"transaction_extensions"`
}

// Extension is a tagged transaction extension entry.
type Extension struct {
	Type uint16   `json:"type"`
	Data HexBytes `json:"data"`
}
