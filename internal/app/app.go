// Package app wires a single keyweave run: provider construction, DNS
// pre-check, secret retrieval and env file output.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/ylchen07/keyweave/internal/dnscheck"
	"github.com/ylchen07/keyweave/internal/envfile"
	"github.com/ylchen07/keyweave/internal/errs"
	"github.com/ylchen07/keyweave/internal/fetcher"
	"github.com/ylchen07/keyweave/internal/provider"
	"github.com/ylchen07/keyweave/internal/ui"
)

// Options describes one run
type Options struct {
	Provider       string
	VaultName      string
	Output         string
	Filter         string
	DNSCheck       bool
	RequestTimeout time.Duration
	RateLimit      float64
	Settings       map[string]interface{}
}

// App runs the fetch-and-dump pass against providers from a registry
type App struct {
	registry *provider.Registry
	resolver dnscheck.Resolver
	logger   *zap.Logger
	progress *ui.Progress
}

// Option configures an App
type Option func(*App)

// WithResolver overrides the resolver used by the DNS pre-check
func WithResolver(resolver dnscheck.Resolver) Option {
	return func(a *App) {
		a.resolver = resolver
	}
}

// WithLogger sets the logger receiving per-secret failures
func WithLogger(logger *zap.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithProgress sets the progress reporter
func WithProgress(progress *ui.Progress) Option {
	return func(a *App) {
		if progress != nil {
			a.progress = progress
		}
	}
}

// New creates an App; a nil registry uses provider.Default()
func New(registry *provider.Registry, opts ...Option) *App {
	if registry == nil {
		registry = provider.Default()
	}
	a := &App{
		registry: registry,
		logger:   zap.NewNop(),
		progress: ui.NewProgress(nil),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run fetches every matching secret of the vault and writes them to the output file.
// Per-secret failures are logged and written with an empty value; every other
// failure aborts the run and is returned.
func (a *App) Run(ctx context.Context, opts Options) error {
	if opts.VaultName == "" {
		return errors.WithHint(errors.New("vault name is required"), "Pass the vault with --vault-name.")
	}
	if opts.Output == "" {
		opts.Output = envfile.DefaultPath
	}

	a.progress.Loading("Detecting credentials.")
	if !a.registry.IsRegistered(opts.Provider) {
		return errs.Credential(nil, fmt.Sprintf("unknown provider: %s", opts.Provider),
			fmt.Sprintf("Available providers: %s.", strings.Join(a.registry.List(), ", ")))
	}
	client, err := a.registry.Get(opts.Provider, &provider.Config{
		Name:      opts.Provider,
		VaultName: opts.VaultName,
		Settings:  opts.Settings,
	})
	if err != nil {
		if errs.Kind(err) == "error" {
			err = errs.Credential(err, fmt.Sprintf("failed to create %s client", opts.Provider))
		}
		return err
	}
	a.progress.Success("Detected credentials.")

	if opts.DNSCheck {
		a.logger.Debug("Checking vault DNS", zap.String("endpoint", client.Endpoint()))
		if err := dnscheck.New(a.resolver).Check(ctx, client.Endpoint()); err != nil {
			return err
		}
	}

	vault := a.progress.Value(opts.VaultName)
	a.progress.Loading("Fetching secrets from Key Vault: %s", vault)

	fetchOpts := []fetcher.Option{
		fetcher.WithFilter(opts.Filter),
		fetcher.WithLogger(a.logger),
		fetcher.WithRateLimit(opts.RateLimit),
	}
	if opts.RequestTimeout > 0 {
		fetchOpts = append(fetchOpts, fetcher.WithRequestTimeout(opts.RequestTimeout))
	}

	f := fetcher.New(fetchOpts...)
	a.logger.Debug("Fetching secrets",
		zap.String("endpoint", client.Endpoint()),
		zap.String("filter", f.Filter()),
	)

	values, err := f.ListAll(ctx, client)
	if err != nil {
		return err
	}
	a.progress.Success("Fetched secrets from Key Vault: %s", vault)
	a.logger.Debug("Fetched secrets",
		zap.String("provider", client.Name()),
		zap.Int("count", len(values)),
	)

	output := a.progress.Value(opts.Output)
	a.progress.Loading("Creating output file: %s", output)
	if err := envfile.Write(values, opts.Output); err != nil {
		return err
	}
	a.progress.Success("Created output file: %s", output)

	a.progress.Success("Done.")
	return nil
}
