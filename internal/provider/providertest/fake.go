// Package providertest provides an in-memory vault for tests.
package providertest

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ylchen07/keyweave/internal/provider"
	"github.com/ylchen07/keyweave/pkg/models"
)

// Vault is an in-memory provider.Provider.
// Pages are served in order; values are looked up by secret name.
type Vault struct {
	VaultName string
	Pages     [][]string        // secret identifiers, one slice per page
	Values    map[string]string // secret name -> value
	GetErrs   map[string]error  // secret name -> error returned by GetSecret
	GetErr    error             // error returned by every GetSecret call
	ListErr   error             // error returned by NextPage
	ListErrAt int               // 1-based page that fails with ListErr; 0 means the first
	Delay     time.Duration     // simulated latency of GetSecret

	mu        sync.Mutex
	gets      []string
	pageFetch []int // GetSecret calls completed when each page was requested
	inFlight  atomic.Int32
	maxFlight atomic.Int32
	totalGets atomic.Int32
}

var _ provider.Provider = (*Vault)(nil)

// Name returns the provider name
func (v *Vault) Name() string {
	return "fake"
}

// Endpoint returns a fake endpoint for the vault
func (v *Vault) Endpoint() string {
	return fmt.Sprintf("https://%s.vault.test", v.VaultName)
}

// NewSecretPager starts a walk over Pages
func (v *Vault) NewSecretPager() provider.SecretPager {
	return &pager{vault: v}
}

// GetSecret returns the configured value for name
func (v *Vault) GetSecret(ctx context.Context, name string) (string, error) {
	cur := v.inFlight.Add(1)
	defer v.inFlight.Add(-1)
	for {
		prev := v.maxFlight.Load()
		if cur <= prev || v.maxFlight.CompareAndSwap(prev, cur) {
			break
		}
	}

	v.mu.Lock()
	v.gets = append(v.gets, name)
	v.mu.Unlock()
	defer v.totalGets.Add(1)

	if v.Delay > 0 {
		select {
		case <-time.After(v.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if v.GetErr != nil {
		return "", v.GetErr
	}
	if err, ok := v.GetErrs[name]; ok {
		return "", err
	}
	value, ok := v.Values[name]
	if !ok {
		return "", fmt.Errorf("secret not found: %s", name)
	}
	return value, nil
}

// Gets returns the names passed to GetSecret, in call order
func (v *Vault) Gets() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.gets...)
}

// MaxInFlight returns the highest number of concurrent GetSecret calls observed
func (v *Vault) MaxInFlight() int {
	return int(v.maxFlight.Load())
}

// CompletedAtListing returns, for each listed page, how many GetSecret calls
// had completed when that page was requested
func (v *Vault) CompletedAtListing() []int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]int(nil), v.pageFetch...)
}

type pager struct {
	vault  *Vault
	next   int
	failed bool
}

func (p *pager) More() bool {
	if p.failed {
		return false
	}
	if p.vault.ListErr != nil && p.next+1 == p.failAt() {
		return true
	}
	return p.next < len(p.vault.Pages)
}

func (p *pager) failAt() int {
	if p.vault.ListErrAt == 0 {
		return 1
	}
	return p.vault.ListErrAt
}

func (p *pager) NextPage(ctx context.Context) ([]models.SecretRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v := p.vault
	v.mu.Lock()
	v.pageFetch = append(v.pageFetch, int(v.totalGets.Load()))
	v.mu.Unlock()

	if v.ListErr != nil && p.next+1 == p.failAt() {
		p.failed = true
		return nil, v.ListErr
	}

	ids := v.Pages[p.next]
	p.next++

	refs := make([]models.SecretRef, len(ids))
	for i, id := range ids {
		refs[i] = models.SecretRef{ID: id}
	}
	return refs, nil
}
