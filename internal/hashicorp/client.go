package hashicorp

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	vault "github.com/hashicorp/vault/api"

	"github.com/ylchen07/keyweave/internal/errs"
)

// Client wraps the HashiCorp Vault API client
type Client struct {
	client *vault.Client
}

// NewClient creates a new HashiCorp Vault client
// Empty arguments fall back to the standard Vault environment variables:
// - VAULT_ADDR: Vault server address
// - VAULT_TOKEN: Authentication token
// - VAULT_NAMESPACE: Vault namespace (Vault Enterprise)
func NewClient(address, token, namespace string) (*Client, error) {
	config := vault.DefaultConfig()
	if config.Error != nil {
		return nil, errs.Credential(config.Error, "failed to read Vault configuration")
	}

	if address != "" {
		config.Address = address
	}
	if config.Address == "" {
		return nil, errs.Credential(nil, "vault address not set (providers.hashicorp.address or VAULT_ADDR)")
	}

	client, err := vault.NewClient(config)
	if err != nil {
		return nil, errs.Credential(err, "failed to create Vault client")
	}

	// NewClient picks up VAULT_TOKEN and VAULT_NAMESPACE itself
	if token != "" {
		client.SetToken(token)
	}
	if client.Token() == "" {
		return nil, errs.Credential(nil, "vault token not set (providers.hashicorp.token or VAULT_TOKEN)")
	}
	if namespace != "" {
		client.SetNamespace(namespace)
	}

	return &Client{
		client: client,
	}, nil
}

// Address returns the Vault server address
func (c *Client) Address() string {
	return c.client.Address()
}

// ListKeys lists the secret keys at the root of a KV v2 mount
// Directory entries (ending with "/") are returned as-is
func (c *Client) ListKeys(ctx context.Context, mountPath string) ([]string, error) {
	path := fmt.Sprintf("%s/metadata/", strings.Trim(mountPath, "/"))

	secret, err := c.client.Logical().ListWithContext(ctx, path)
	if err != nil {
		return nil, withHint(err, errs.HintListPermission)
	}

	// No secrets found
	if secret == nil || secret.Data == nil {
		return []string{}, nil
	}

	raw, ok := secret.Data["keys"].([]interface{})
	if !ok {
		return []string{}, nil
	}

	keys := make([]string, 0, len(raw))
	for _, k := range raw {
		if s, ok := k.(string); ok {
			keys = append(keys, s)
		}
	}
	return keys, nil
}

// ReadSecret retrieves the data of a secret from a KV v2 mount
func (c *Client) ReadSecret(ctx context.Context, mountPath, secretPath string) (map[string]interface{}, error) {
	path := fmt.Sprintf("%s/data/%s", strings.Trim(mountPath, "/"), secretPath)

	secret, err := c.client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		return nil, withHint(err, errs.HintGetPermission)
	}

	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("secret not found: %s", secretPath)
	}

	// KV v2 stores the actual secret data under the "data" key
	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid secret data format: %s", secretPath)
	}

	return data, nil
}

// withHint adds hint when Vault answered 403 Forbidden
func withHint(err error, hint string) error {
	var respErr *vault.ResponseError
	if errors.As(err, &respErr) && respErr.StatusCode == http.StatusForbidden {
		return errs.WithHint(err, hint)
	}
	return err
}
