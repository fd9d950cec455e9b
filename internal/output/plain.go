package output

import (
	"strings"

	"github.com/ylchen07/keyweave/pkg/models"
)

// PlainFormatter outputs plain text (one item per line)
type PlainFormatter struct{}

// NewPlainFormatter creates a new plain text formatter
func NewPlainFormatter() *PlainFormatter {
	return &PlainFormatter{}
}

// FormatVaults formats vaults as plain text, one per line: name, location and URI
// separated by tabs; empty columns are dropped
func (f *PlainFormatter) FormatVaults(vaults []*models.Vault) (string, error) {
	lines := make([]string, 0, len(vaults))
	for _, v := range vaults {
		cols := []string{v.Name}
		for _, c := range []string{v.Location, v.URI} {
			if c != "" {
				cols = append(cols, c)
			}
		}
		lines = append(lines, strings.Join(cols, "\t"))
	}

	return strings.Join(lines, "\n"), nil
}

// FormatProviders formats providers as plain text, the default marked with "*"
func (f *PlainFormatter) FormatProviders(providers []models.ProviderInfo) (string, error) {
	if len(providers) == 0 {
		return "", nil
	}

	lines := make([]string, len(providers))
	for i, p := range providers {
		line := p.Name
		if p.Default {
			line += " *"
		}
		if p.Description != "" {
			line += "\t" + p.Description
		}
		lines[i] = line
	}

	return strings.Join(lines, "\n"), nil
}
