// Package errs classifies keyweave failures into the kinds the CLI reports on.
//
// Each kind is a mark on the wrapped error, so classification survives further
// wrapping. Remediation steps travel with the error as hints.
package errs

import (
	"github.com/cockroachdb/errors"
)

// Error kinds
var (
	// ErrCredential marks credential discovery or client construction failures
	ErrCredential = errors.New("credential error")
	// ErrDNS marks vault hostnames that do not resolve
	ErrDNS = errors.New("dns error")
	// ErrList marks failures while listing a page of secrets
	ErrList = errors.New("list error")
	// ErrFetch marks failures while retrieving a single secret value
	ErrFetch = errors.New("fetch error")
	// ErrIO marks failures while creating or writing the output file
	ErrIO = errors.New("io error")
)

// Remediation hints shared by providers and the bootstrap
const (
	HintListPermission = "Make sure you have List permissions on the Key Vault."
	HintGetPermission  = "Make sure you have Get permissions on the Key Vault."
	HintFirewall       = "Make sure you're on the Key Vaults Firewall allowlist."
	HintVaultExists    = "Please check that the Key Vault exists or that you have no connectivity issues."
	HintLogin          = "Make sure you are logged in (az login) or that a managed identity is available."
)

// Credential wraps err as a credential failure
func Credential(err error, msg string, hints ...string) error {
	return classify(err, ErrCredential, msg, hints)
}

// DNS wraps err as a DNS resolution failure
func DNS(err error, msg string, hints ...string) error {
	return classify(err, ErrDNS, msg, hints)
}

// List wraps err as a page listing failure
func List(err error, msg string, hints ...string) error {
	return classify(err, ErrList, msg, hints)
}

// Fetch wraps err as a single secret retrieval failure
func Fetch(err error, msg string, hints ...string) error {
	return classify(err, ErrFetch, msg, hints)
}

// IO wraps err as an output file failure
func IO(err error, msg string, hints ...string) error {
	return classify(err, ErrIO, msg, hints)
}

func classify(err error, kind error, msg string, hints []string) error {
	if err == nil {
		err = errors.New(msg)
	} else if msg != "" {
		err = errors.Wrap(err, msg)
	}
	err = errors.Mark(err, kind)
	for _, h := range hints {
		err = errors.WithHint(err, h)
	}
	return err
}

// WithHint attaches a remediation hint to err without changing its kind
func WithHint(err error, hint string) error {
	if err == nil || hint == "" {
		return err
	}
	return errors.WithHint(err, hint)
}

// Hints returns all remediation hints attached to err, deduplicated
func Hints(err error) []string {
	if err == nil {
		return nil
	}
	seen := make(map[string]bool)
	var hints []string
	for _, h := range errors.GetAllHints(err) {
		if seen[h] {
			continue
		}
		seen[h] = true
		hints = append(hints, h)
	}
	return hints
}

// Kind returns the name of the error kind, or "error" when unclassified
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrCredential):
		return "CredentialError"
	case errors.Is(err, ErrDNS):
		return "DnsError"
	case errors.Is(err, ErrList):
		return "ListError"
	case errors.Is(err, ErrFetch):
		return "FetchError"
	case errors.Is(err, ErrIO):
		return "IoError"
	default:
		return "error"
	}
}

// IsFatal reports whether err must terminate the run
// Per-secret fetch failures are recovered locally and are never fatal
func IsFatal(err error) bool {
	return err != nil && !errors.Is(err, ErrFetch)
}

// ExitCode returns the process exit status for err
func ExitCode(err error) int {
	if !IsFatal(err) {
		return 0
	}
	return 1
}
