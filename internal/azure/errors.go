package azure

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"

	"github.com/ylchen07/keyweave/internal/errs"
)

type operation int

const (
	operationList operation = iota
	operationGet
)

// classifyError attaches remediation hints to Key Vault failures.
// The error kind is assigned by the caller.
func classifyError(err error, op operation) error {
	if err == nil {
		return nil
	}

	var authErr *azidentity.AuthenticationFailedError
	if errors.As(err, &authErr) || strings.Contains(err.Error(), "DefaultAzureCredential") {
		return errs.WithHint(err, errs.HintLogin)
	}

	var respErr *azcore.ResponseError
	if !errors.As(err, &respErr) {
		return err
	}

	switch respErr.StatusCode {
	case http.StatusForbidden:
		if isFirewallDenial(respErr) {
			return errs.WithHint(err, errs.HintFirewall)
		}
		if op == operationGet {
			return errs.WithHint(err, errs.HintGetPermission)
		}
		return errs.WithHint(err, errs.HintListPermission)

	case http.StatusUnauthorized:
		return errs.WithHint(err, errs.HintLogin)

	case http.StatusNotFound:
		if op == operationList {
			return errs.WithHint(err, errs.HintVaultExists)
		}
	}

	return err
}

// isFirewallDenial reports whether Key Vault rejected the caller's network address
func isFirewallDenial(respErr *azcore.ResponseError) bool {
	if strings.EqualFold(respErr.ErrorCode, "ForbiddenByFirewall") {
		return true
	}
	msg := respErr.Error()
	return strings.Contains(msg, "ForbiddenByFirewall") || strings.Contains(msg, "Client address is not authorized")
}
