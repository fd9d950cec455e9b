package provider

import (
	"context"

	"github.com/ylchen07/keyweave/pkg/models"
)

// SecretGetter retrieves the current value of a secret by name
// Implementations must be safe for concurrent use
type SecretGetter interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

// SecretPager walks the secret catalog of a vault one page at a time
type SecretPager interface {
	// More reports whether another page is available
	More() bool

	// NextPage retrieves the next page of secret identifiers
	NextPage(ctx context.Context) ([]models.SecretRef, error)
}

// SecretLister starts a paginated walk over a vault's secret catalog
type SecretLister interface {
	NewSecretPager() SecretPager
}

// Provider represents a vault client bound to a single vault
type Provider interface {
	SecretGetter
	SecretLister

	// Name returns the provider name (e.g., "azure", "hashicorp")
	Name() string

	// Endpoint returns the network endpoint of the bound vault
	Endpoint() string
}

// Config holds provider-specific configuration
type Config struct {
	Name      string                 // Provider name
	VaultName string                 // Vault to bind the client to
	Settings  map[string]interface{} // Provider-specific settings
}

// String returns a string setting, or "" when absent
func (c *Config) String(key string) string {
	if c == nil || c.Settings == nil {
		return ""
	}
	v, _ := c.Settings[key].(string)
	return v
}
