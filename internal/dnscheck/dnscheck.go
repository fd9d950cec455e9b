package dnscheck

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/ylchen07/keyweave/internal/errs"
)

// DefaultTimeout bounds a single lookup
const DefaultTimeout = 10 * time.Second

// Resolver resolves host names
// *net.Resolver satisfies this interface
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// Checker verifies that a vault endpoint resolves before any request is made
type Checker struct {
	resolver Resolver
	timeout  time.Duration
}

// New creates a Checker; a nil resolver uses net.DefaultResolver
func New(resolver Resolver) *Checker {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	return &Checker{
		resolver: resolver,
		timeout:  DefaultTimeout,
	}
}

// Check resolves the host of endpoint and returns a DNS error when it does not resolve
func (c *Checker) Check(ctx context.Context, endpoint string) error {
	host, err := Host(endpoint)
	if err != nil {
		return errs.DNS(err, "invalid vault endpoint", errs.HintVaultExists)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	addrs, err := c.resolver.LookupHost(ctx, host)
	if err != nil {
		return errs.DNS(err, fmt.Sprintf("DNS lookup failed for %s", host), errs.HintVaultExists)
	}
	if len(addrs) == 0 {
		return errs.DNS(nil, fmt.Sprintf("DNS lookup returned no addresses for %s", host), errs.HintVaultExists)
	}

	return nil
}

// Host extracts the host name from an endpoint URL or a bare host[:port]
func Host(endpoint string) (string, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "", fmt.Errorf("endpoint is empty")
	}

	if !strings.Contains(endpoint, "://") {
		endpoint = "https://" + endpoint
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("failed to parse endpoint %q: %w", endpoint, err)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("endpoint %q has no host", endpoint)
	}

	return u.Hostname(), nil
}
