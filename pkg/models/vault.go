package models

// Vault represents a key vault discovered in a subscription
type Vault struct {
	Name     string            `json:"name"`
	URI      string            `json:"uri,omitempty"`
	Location string            `json:"location,omitempty"`
	Provider string            `json:"provider"`
	Metadata map[string]string `json:"metadata,omitempty"`
}
