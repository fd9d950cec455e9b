package azure

import (
	"context"
	"fmt"
	"sort"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/keyvault/armkeyvault"

	"github.com/ylchen07/keyweave/internal/errs"
	"github.com/ylchen07/keyweave/pkg/models"
)

// VaultLister lists the Key Vaults of a subscription through Azure Resource Manager
type VaultLister struct {
	vaults *armkeyvault.VaultsClient
}

// NewVaultLister creates a VaultLister for subscriptionID
func NewVaultLister(subscriptionID string, cred azcore.TokenCredential, opts *arm.ClientOptions) (*VaultLister, error) {
	if subscriptionID == "" {
		return nil, errs.Credential(nil, "subscription_id is required to list vaults (set via --subscription-id, config or AZURE_SUBSCRIPTION_ID)")
	}

	client, err := armkeyvault.NewVaultsClient(subscriptionID, cred, opts)
	if err != nil {
		return nil, errs.Credential(err, "failed to create Key Vault management client")
	}

	return &VaultLister{vaults: client}, nil
}

// ListVaults returns all Key Vaults in the subscription, sorted by name
func (l *VaultLister) ListVaults(ctx context.Context) ([]*models.Vault, error) {
	var vaults []*models.Vault

	pager := l.vaults.NewListBySubscriptionPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, errs.List(classifyError(err, operationList), "failed to list vaults")
		}
		vaults = append(vaults, vaultsFromPage(page.Value)...)
	}

	sort.Slice(vaults, func(i, j int) bool { return vaults[i].Name < vaults[j].Name })
	return vaults, nil
}

func vaultsFromPage(items []*armkeyvault.Vault) []*models.Vault {
	vaults := make([]*models.Vault, 0, len(items))
	for _, v := range items {
		if v == nil || v.Name == nil {
			continue
		}

		vault := &models.Vault{
			Name:     *v.Name,
			Provider: Name,
			Metadata: map[string]string{},
		}
		if v.Location != nil {
			vault.Location = *v.Location
		}
		if v.Properties != nil {
			if v.Properties.VaultURI != nil {
				vault.URI = *v.Properties.VaultURI
			}
			if v.Properties.EnableRbacAuthorization != nil {
				vault.Metadata["rbac"] = fmt.Sprintf("%t", *v.Properties.EnableRbacAuthorization)
			}
		}
		if v.ID != nil {
			vault.Metadata["id"] = *v.ID
		}
		vaults = append(vaults, vault)
	}
	return vaults
}
