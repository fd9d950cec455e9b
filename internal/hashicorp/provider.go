package hashicorp

import (
	"context"
	"fmt"
	"strings"

	"github.com/ylchen07/keyweave/internal/provider"
	"github.com/ylchen07/keyweave/pkg/models"
)

// Name is the registry name of the HashiCorp Vault provider
const Name = "hashicorp"

// Description is shown by the providers command
const Description = "HashiCorp Vault KV v2 mount (token auth)"

// Provider implements the provider.Provider interface for HashiCorp Vault.
// The vault name is the path of a KV v2 mount.
type Provider struct {
	client *Client
	mount  string
}

// NewProvider creates a new HashiCorp Vault provider bound to the KV v2 mount cfg.VaultName
// Configuration options:
//   - "address" (string): Vault server address
//   - "token" (string): Vault authentication token
//   - "namespace" (string): Vault namespace (optional, for Enterprise)
func NewProvider(cfg *provider.Config) (provider.Provider, error) {
	if cfg == nil || strings.Trim(cfg.VaultName, "/") == "" {
		return nil, fmt.Errorf("mount name is required for HashiCorp Vault provider")
	}

	client, err := NewClient(cfg.String("address"), cfg.String("token"), cfg.String("namespace"))
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}

	return &Provider{
		client: client,
		mount:  strings.Trim(cfg.VaultName, "/"),
	}, nil
}

// Name returns the provider name
func (p *Provider) Name() string {
	return Name
}

// Endpoint returns the Vault server address
func (p *Provider) Endpoint() string {
	return p.client.Address()
}

// NewSecretPager lists the mount's secrets; KV v2 listing is not paginated so
// the walk yields a single page
func (p *Provider) NewSecretPager() provider.SecretPager {
	return &keyPager{provider: p}
}

// GetSecret retrieves a secret value from the mount
// Priority: "value" > "password" > first key in sorted order
func (p *Provider) GetSecret(ctx context.Context, name string) (string, error) {
	data, err := p.client.ReadSecret(ctx, p.mount, name)
	if err != nil {
		return "", fmt.Errorf("failed to get secret: %w", err)
	}
	return pickValue(data), nil
}

func pickValue(data map[string]interface{}) string {
	if v, ok := data["value"]; ok {
		return fmt.Sprintf("%v", v)
	}
	if v, ok := data["password"]; ok {
		return fmt.Sprintf("%v", v)
	}

	var first string
	for k := range data {
		if first == "" || k < first {
			first = k
		}
	}
	if first == "" {
		return ""
	}
	return fmt.Sprintf("%v", data[first])
}

type keyPager struct {
	provider *Provider
	done     bool
}

func (k *keyPager) More() bool {
	return !k.done
}

func (k *keyPager) NextPage(ctx context.Context) ([]models.SecretRef, error) {
	k.done = true

	keys, err := k.provider.client.ListKeys(ctx, k.provider.mount)
	if err != nil {
		return nil, fmt.Errorf("failed to list secrets: %w", err)
	}

	refs := make([]models.SecretRef, 0, len(keys))
	for _, key := range keys {
		// Skip directories (they end with /)
		if strings.HasSuffix(key, "/") {
			continue
		}
		refs = append(refs, models.SecretRef{ID: k.provider.mount + "/" + key})
	}
	return refs, nil
}
