package output

import (
	"github.com/ylchen07/keyweave/pkg/models"
)

// Format represents the output format type
type Format string

const (
	// FormatPlain is plain text format (one item per line)
	FormatPlain Format = "plain"
	// FormatJSON is JSON format
	FormatJSON Format = "json"
)

// Formatter formats listings printed by the vaults and providers commands
type Formatter interface {
	FormatVaults(vaults []*models.Vault) (string, error)
	FormatProviders(providers []models.ProviderInfo) (string, error)
}
