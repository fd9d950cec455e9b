package azure

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/stretchr/testify/assert"

	"github.com/ylchen07/keyweave/internal/errs"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		op    operation
		hints []string
	}{
		{
			name:  "list forbidden",
			err:   &azcore.ResponseError{StatusCode: http.StatusForbidden, ErrorCode: "Forbidden"},
			op:    operationList,
			hints: []string{errs.HintListPermission},
		},
		{
			name:  "get forbidden",
			err:   &azcore.ResponseError{StatusCode: http.StatusForbidden, ErrorCode: "Forbidden"},
			op:    operationGet,
			hints: []string{errs.HintGetPermission},
		},
		{
			name:  "firewall",
			err:   &azcore.ResponseError{StatusCode: http.StatusForbidden, ErrorCode: "ForbiddenByFirewall"},
			op:    operationList,
			hints: []string{errs.HintFirewall},
		},
		{
			name:  "unauthorized",
			err:   &azcore.ResponseError{StatusCode: http.StatusUnauthorized, ErrorCode: "Unauthorized"},
			op:    operationList,
			hints: []string{errs.HintLogin},
		},
		{
			name:  "list not found",
			err:   &azcore.ResponseError{StatusCode: http.StatusNotFound},
			op:    operationList,
			hints: []string{errs.HintVaultExists},
		},
		{
			name: "get not found",
			err:  &azcore.ResponseError{StatusCode: http.StatusNotFound, ErrorCode: "SecretNotFound"},
			op:   operationGet,
		},
		{
			name: "throttled",
			err:  &azcore.ResponseError{StatusCode: http.StatusTooManyRequests, ErrorCode: "Throttled"},
			op:   operationGet,
		},
		{
			name:  "authentication failed",
			err:   fmt.Errorf("token: %w", &azidentity.AuthenticationFailedError{}),
			op:    operationList,
			hints: []string{errs.HintLogin},
		},
		{
			name:  "default credential chain",
			err:   fmt.Errorf("DefaultAzureCredential: failed to acquire a token"),
			op:    operationGet,
			hints: []string{errs.HintLogin},
		},
		{
			name: "transport",
			err:  fmt.Errorf("dial tcp: connection refused"),
			op:   operationList,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyError(tt.err, tt.op)
			assert.ErrorIs(t, got, tt.err)
			assert.Equal(t, tt.hints, errs.Hints(got))
		})
	}

	assert.NoError(t, classifyError(nil, operationGet))
}
