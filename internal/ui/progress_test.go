package ui

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ylchen07/keyweave/internal/errs"
)

func TestProgressLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf)

	p.Loading("Detecting credentials.")
	p.Success("Fetched secrets from Key Vault: %s", p.Value("kv1"))
	p.Error("Failed to create output file")
	p.Hint("Check the output directory exists.")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"… Detecting credentials.",
		"✔ Fetched secrets from Key Vault: kv1",
		"✖ Failed to create output file",
		"  ℹ Check the output directory exists.",
	}, lines)
}

func TestProgressFatal(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf)

	p.Fatal(errs.DNS(fmt.Errorf("no such host"), "DNS lookup failed for kv1.vault.azure.net", errs.HintVaultExists))
	p.Fatal(nil)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"✖ DNS lookup failed for kv1.vault.azure.net: no such host",
		"  ℹ " + errs.HintVaultExists,
	}, lines)
}
