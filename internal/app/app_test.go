package app

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ylchen07/keyweave/internal/errs"
	"github.com/ylchen07/keyweave/internal/provider"
	"github.com/ylchen07/keyweave/internal/provider/providertest"
	"github.com/ylchen07/keyweave/internal/ui"
)

type fakeResolver struct {
	err    error
	lookup []string
}

func (r *fakeResolver) LookupHost(_ context.Context, host string) ([]string, error) {
	r.lookup = append(r.lookup, host)
	if r.err != nil {
		return nil, r.err
	}
	return []string{"10.0.0.1"}, nil
}

type harness struct {
	app      *App
	vault    *providertest.Vault
	resolver *fakeResolver
	logs     *observer.ObservedLogs
	progress *bytes.Buffer
	output   string
	opts     Options
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	vault := &providertest.Vault{
		VaultName: "kv-test",
		Pages:     [][]string{{"svc/testSecret", "svc/filterTestSecret"}},
		Values: map[string]string{
			"testSecret":       "testSecretValue",
			"filterTestSecret": "filterTestSecretValue",
		},
	}

	registry := provider.NewRegistry()
	registry.Register("fake", "in-memory vault", func(cfg *provider.Config) (provider.Provider, error) {
		vault.VaultName = cfg.VaultName
		return vault, nil
	})

	core, logs := observer.New(zapcore.DebugLevel)
	resolver := &fakeResolver{}
	progress := &bytes.Buffer{}
	output := filepath.Join(t.TempDir(), ".env")

	return &harness{
		app: New(registry,
			WithResolver(resolver),
			WithLogger(zap.New(core)),
			WithProgress(ui.NewProgress(progress)),
		),
		vault:    vault,
		resolver: resolver,
		logs:     logs,
		progress: progress,
		output:   output,
		opts: Options{
			Provider:  "fake",
			VaultName: "kv-test",
			Output:    output,
			DNSCheck:  true,
		},
	}
}

func (h *harness) run() error {
	return h.app.Run(context.Background(), h.opts)
}

func (h *harness) env(t *testing.T) map[string]string {
	t.Helper()
	env, err := godotenv.Read(h.output)
	require.NoError(t, err)
	return env
}

func TestRunWritesAllSecrets(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run())

	assert.Equal(t, map[string]string{
		"testSecret":       "testSecretValue",
		"filterTestSecret": "filterTestSecretValue",
	}, h.env(t))
	assert.Equal(t, []string{"kv-test.vault.test"}, h.resolver.lookup)

	out := h.progress.String()
	for _, msg := range []string{
		"Detecting credentials.",
		"Detected credentials.",
		"Fetching secrets from Key Vault: kv-test",
		"Fetched secrets from Key Vault: kv-test",
		"Creating output file: " + h.output,
		"Created output file: " + h.output,
		"Done.",
	} {
		assert.Contains(t, out, msg)
	}
}

func TestRunAppliesFilter(t *testing.T) {
	h := newHarness(t)
	h.opts.Filter = "filter"

	require.NoError(t, h.run())

	assert.Equal(t, map[string]string{"filterTestSecret": "filterTestSecretValue"}, h.env(t))
	assert.Equal(t, []string{"filterTestSecret"}, h.vault.Gets())
}

func TestRunWithoutGetPermission(t *testing.T) {
	h := newHarness(t)
	h.vault.GetErr = errs.WithHint(fmt.Errorf("403 Forbidden"), errs.HintGetPermission)

	require.NoError(t, h.run())

	data, err := os.ReadFile(h.output)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"testSecret=", "filterTestSecret="}, lines(data))

	failures := h.logs.FilterMessage("Error fetching secret").All()
	require.Len(t, failures, 2)
	assert.Contains(t, failures[0].ContextMap()["hints"], errs.HintGetPermission)
}

func TestRunWithoutListPermission(t *testing.T) {
	h := newHarness(t)
	h.vault.ListErr = errs.WithHint(fmt.Errorf("403 Forbidden"), errs.HintListPermission)

	err := h.run()

	require.Error(t, err)
	assert.Equal(t, 1, errs.ExitCode(err))
	assert.Equal(t, "ListError", errs.Kind(err))
	assert.Contains(t, errs.Hints(err), errs.HintListPermission)
	assert.Empty(t, h.vault.Gets())
	assert.NotContains(t, h.progress.String(), "Done.")
}

func TestRunUnresolvableVault(t *testing.T) {
	h := newHarness(t)
	h.resolver.err = fmt.Errorf("no such host")

	err := h.run()

	require.Error(t, err)
	assert.Equal(t, 1, errs.ExitCode(err))
	assert.Equal(t, "DnsError", errs.Kind(err))
	assert.Equal(t, []string{errs.HintVaultExists}, errs.Hints(err))
	assert.Empty(t, h.vault.CompletedAtListing())
	assert.Empty(t, h.vault.Gets())
	assert.NoFileExists(t, h.output)
}

func TestRunCancelledKeepsExistingOutput(t *testing.T) {
	h := newHarness(t)
	h.vault.Delay = 200 * time.Millisecond
	require.NoError(t, os.WriteFile(h.output, []byte("testSecret=keepme\n"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)
	defer cancel()

	err := h.app.Run(ctx, h.opts)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, errs.ExitCode(err))
	assert.Equal(t, map[string]string{"testSecret": "keepme"}, h.env(t))
	assert.NotContains(t, h.progress.String(), "Done.")
}

func TestRunLogsFilter(t *testing.T) {
	h := newHarness(t)
	h.opts.Filter = "filter"

	require.NoError(t, h.run())

	entries := h.logs.FilterMessage("Fetching secrets").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "filter", entries[0].ContextMap()["filter"])
}

func TestRunSkipsDNSCheck(t *testing.T) {
	h := newHarness(t)
	h.resolver.err = fmt.Errorf("no such host")
	h.opts.DNSCheck = false

	require.NoError(t, h.run())
	assert.Empty(t, h.resolver.lookup)
}

func TestRunUnknownProvider(t *testing.T) {
	h := newHarness(t)
	h.opts.Provider = "missing"

	err := h.run()

	require.Error(t, err)
	assert.Equal(t, "CredentialError", errs.Kind(err))
	assert.EqualError(t, err, "unknown provider: missing")
	assert.Equal(t, []string{"Available providers: fake."}, errs.Hints(err))
	assert.NotContains(t, h.progress.String(), "Detected credentials.")
}

func TestRunKeepsProviderErrorKind(t *testing.T) {
	registry := provider.NewRegistry()
	registry.Register("broken", "", func(*provider.Config) (provider.Provider, error) {
		return nil, errs.Credential(nil, "no credential available", errs.HintLogin)
	})

	err := New(registry, WithProgress(ui.NewProgress(&bytes.Buffer{}))).Run(context.Background(), Options{
		Provider:  "broken",
		VaultName: "kv",
	})

	require.Error(t, err)
	assert.Equal(t, "CredentialError", errs.Kind(err))
	assert.Equal(t, []string{errs.HintLogin}, errs.Hints(err))
}

func TestRunOutputNotWritable(t *testing.T) {
	h := newHarness(t)
	h.opts.Output = filepath.Join(t.TempDir(), "missing", ".env")

	err := h.run()

	require.Error(t, err)
	assert.Equal(t, "IoError", errs.Kind(err))
}

func TestRunRequiresVaultName(t *testing.T) {
	h := newHarness(t)
	h.opts.VaultName = ""

	err := h.run()
	require.Error(t, err)
	assert.Equal(t, []string{"Pass the vault with --vault-name."}, errs.Hints(err))
	assert.Empty(t, h.vault.Gets())
}

func TestRunIsIdempotent(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run())
	first, err := os.ReadFile(h.output)
	require.NoError(t, err)

	require.NoError(t, h.run())
	second, err := os.ReadFile(h.output)
	require.NoError(t, err)

	assert.ElementsMatch(t, lines(first), lines(second))
}

func lines(data []byte) []string {
	var out []string
	for _, l := range bytes.Split(bytes.TrimRight(data, "\n"), []byte("\n")) {
		out = append(out, string(l))
	}
	return out
}
