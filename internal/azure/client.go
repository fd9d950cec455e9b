package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"

	"github.com/ylchen07/keyweave/internal/errs"
	"github.com/ylchen07/keyweave/internal/provider"
	"github.com/ylchen07/keyweave/pkg/models"
)

// DefaultVaultDomain is the Key Vault DNS suffix of the Azure public cloud
const DefaultVaultDomain = "vault.azure.net"

// VaultURL derives the endpoint of a Key Vault from its name
func VaultURL(vaultName, vaultDomain string) string {
	if vaultDomain == "" {
		vaultDomain = DefaultVaultDomain
	}
	return fmt.Sprintf("https://%s.%s", vaultName, vaultDomain)
}

// NewCredential discovers the ambient Azure identity
// (environment, workload identity, managed identity, Azure CLI, ...)
func NewCredential() (azcore.TokenCredential, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, errs.Credential(err, "failed to detect Azure credentials", errs.HintLogin)
	}
	return cred, nil
}

// Client wraps the Key Vault secrets data-plane client
// It is safe for concurrent use
type Client struct {
	secrets  *azsecrets.Client
	vaultURL string
}

// NewClient creates a Key Vault client for vaultURL authenticated by cred
func NewClient(vaultURL string, cred azcore.TokenCredential, opts *azsecrets.ClientOptions) (*Client, error) {
	secrets, err := azsecrets.NewClient(vaultURL, cred, opts)
	if err != nil {
		return nil, errs.Credential(err, "failed to create Key Vault client")
	}

	return &Client{
		secrets:  secrets,
		vaultURL: vaultURL,
	}, nil
}

// VaultURL returns the endpoint the client is bound to
func (c *Client) VaultURL() string {
	return c.vaultURL
}

// NewSecretPager starts listing the secrets of the vault
func (c *Client) NewSecretPager() provider.SecretPager {
	return &secretPager{pager: c.secrets.NewListSecretPropertiesPager(nil)}
}

// GetSecret retrieves the current version of a secret value
func (c *Client) GetSecret(ctx context.Context, name string) (string, error) {
	resp, err := c.secrets.GetSecret(ctx, name, "", nil)
	if err != nil {
		return "", classifyError(err, operationGet)
	}

	if resp.Value == nil {
		return "", nil
	}
	return *resp.Value, nil
}

type secretPager struct {
	pager *runtime.Pager[azsecrets.ListSecretPropertiesResponse]
}

func (p *secretPager) More() bool {
	return p.pager.More()
}

func (p *secretPager) NextPage(ctx context.Context) ([]models.SecretRef, error) {
	resp, err := p.pager.NextPage(ctx)
	if err != nil {
		return nil, classifyError(err, operationList)
	}
	return refsFromPage(resp), nil
}

// refsFromPage converts a listing page into secret references, skipping
// entries without an identifier
func refsFromPage(resp azsecrets.ListSecretPropertiesResponse) []models.SecretRef {
	refs := make([]models.SecretRef, 0, len(resp.Value))
	for _, props := range resp.Value {
		if props == nil || props.ID == nil {
			continue
		}
		refs = append(refs, models.SecretRef{ID: string(*props.ID)})
	}
	return refs
}
