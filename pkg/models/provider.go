package models

// ProviderInfo holds metadata about a registered secret provider
type ProviderInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Default     bool   `json:"default,omitempty"`
}
