package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"

	"github.com/ylchen07/keyweave/internal/provider"
)

// Name is the registry name of the Azure Key Vault provider
const Name = "azure"

// Description is shown by the providers command
const Description = "Azure Key Vault (ambient Azure identity)"

// Provider implements the provider.Provider interface for Azure Key Vault
type Provider struct {
	client *Client
}

// NewProvider creates a new Azure Key Vault provider bound to cfg.VaultName
// Configuration options:
//   - "vault_domain" (string): Key Vault DNS suffix, defaults to vault.azure.net
//   - "credential" (azcore.TokenCredential): credential to use instead of
//     the ambient DefaultAzureCredential
//   - "client_options" (*azsecrets.ClientOptions): SDK client options
func NewProvider(cfg *provider.Config) (provider.Provider, error) {
	if cfg == nil || cfg.VaultName == "" {
		return nil, fmt.Errorf("vault name is required for Azure provider")
	}

	var cred azcore.TokenCredential
	if v, ok := cfg.Settings["credential"].(azcore.TokenCredential); ok && v != nil {
		cred = v
	} else {
		var err error
		cred, err = NewCredential()
		if err != nil {
			return nil, err
		}
	}

	opts, _ := cfg.Settings["client_options"].(*azsecrets.ClientOptions)

	client, err := NewClient(VaultURL(cfg.VaultName, cfg.String("vault_domain")), cred, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure client: %w", err)
	}

	return &Provider{
		client: client,
	}, nil
}

// Name returns the provider name
func (p *Provider) Name() string {
	return Name
}

// Endpoint returns the vault URL
func (p *Provider) Endpoint() string {
	return p.client.VaultURL()
}

// NewSecretPager starts listing the secrets in the vault
func (p *Provider) NewSecretPager() provider.SecretPager {
	return p.client.NewSecretPager()
}

// GetSecret retrieves the current value of a secret
func (p *Provider) GetSecret(ctx context.Context, name string) (string, error) {
	return p.client.GetSecret(ctx, name)
}
