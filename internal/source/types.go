package source

// RawEntry is a single line of a ledger JSONL file.
type RawEntry struct {
	ID        string  `json:"id,omitempty"`
	Date      string  `json:"date"`
	Amount    float64 `json:"amount"`
	Kind      string  `json:"kind,omitempty"`
	Category  string  `json:"category,omitempty"`
	Merchant  string  `json:"merchant,omitempty"`
	Notes     string  `json:"notes,omitempty"`
	Recurring bool    `json:"recurring,omitempty"`
}

// DiscoveredFile is a ledger file found during directory scanning.
type DiscoveredFile struct {
	Path    string
	Account string // first directory under the ledger root, or the file stem
}
