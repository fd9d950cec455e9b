package output

import (
	"encoding/json"

	"github.com/ylchen07/keyweave/pkg/models"
)

// JSONFormatter outputs JSON format
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// FormatVaults formats vaults as JSON
func (f *JSONFormatter) FormatVaults(vaults []*models.Vault) (string, error) {
	if vaults == nil {
		vaults = []*models.Vault{}
	}
	return marshal(vaults)
}

// FormatProviders formats providers as JSON
func (f *JSONFormatter) FormatProviders(providers []models.ProviderInfo) (string, error) {
	if providers == nil {
		providers = []models.ProviderInfo{}
	}
	return marshal(providers)
}

func marshal(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
