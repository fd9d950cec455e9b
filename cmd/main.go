package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ylchen07/keyweave/internal/app"
	"github.com/ylchen07/keyweave/internal/azure"
	"github.com/ylchen07/keyweave/internal/config"
	"github.com/ylchen07/keyweave/internal/errs"
	"github.com/ylchen07/keyweave/internal/hashicorp"
	"github.com/ylchen07/keyweave/internal/logging"
	"github.com/ylchen07/keyweave/internal/output"
	"github.com/ylchen07/keyweave/internal/provider"
	"github.com/ylchen07/keyweave/internal/ui"
	"github.com/ylchen07/keyweave/pkg/models"
)

var (
	providerName   string
	vaultName      string
	outputPath     string
	filter         string
	skipDNSCheck   bool
	formatType     string
	subscriptionID string
	configPath     string

	// Global config loaded once
	appConfig *config.Config
)

func init() {
	// Register providers
	provider.Register(azure.Name, azure.Description, azure.NewProvider)
	provider.Register(hashicorp.Name, hashicorp.Description, hashicorp.NewProvider)
}

// loadConfig loads the application config
func loadConfig() error {
	if appConfig != nil {
		return nil
	}

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	appConfig = cfg
	return nil
}

func main() {
	rootCmd := newRootCmd()
	rootCmd.AddCommand(providersCmd())
	rootCmd.AddCommand(vaultsCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		ui.NewProgress(os.Stderr).Fatal(err)
		os.Exit(errs.ExitCode(err))
	}
}

// newRootCmd fetches the secrets of a vault into an env file
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keyweave",
		Short: "Fetch the secrets of a key vault into a .env file",
		Long: `Keyweave lists every secret of a key vault, fetches their current values
concurrently and writes them as KEY=VALUE lines to an env file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(); err != nil {
				return err
			}

			// Flags take precedence over config values
			if !cmd.Flags().Changed("provider") {
				providerName = appConfig.Defaults.Provider
			}
			if !cmd.Flags().Changed("output") {
				outputPath = appConfig.Defaults.Output
			}

			settings, err := appConfig.ProviderSettings(providerName)
			if err != nil {
				return err
			}

			logger := logging.New(appConfig.Log.Level, os.Stderr)
			defer func() { _ = logger.Sync() }()

			logger.Debug("Starting run",
				zap.String("provider", providerName),
				zap.String("vault", vaultName),
				zap.String("output", outputPath),
				zap.String("filter", filter))

			a := app.New(provider.Default(),
				app.WithLogger(logger),
				app.WithProgress(ui.NewProgress(os.Stderr)),
			)

			return a.Run(cmd.Context(), app.Options{
				Provider:       providerName,
				VaultName:      vaultName,
				Output:         outputPath,
				Filter:         filter,
				DNSCheck:       appConfig.DNSCheck && !skipDNSCheck,
				RequestTimeout: appConfig.Fetch.RequestTimeout,
				RateLimit:      appConfig.Fetch.RateLimit,
				Settings:       settings,
			})
		},
	}

	cmd.Flags().StringVarP(&vaultName, "vault-name", "v", "", "Name of the vault to fetch secrets from")
	cmd.Flags().StringVarP(&outputPath, "output", "o", config.DefaultOutput, "Output env file")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Only fetch secrets whose identifier contains this substring")
	cmd.Flags().StringVarP(&providerName, "provider", "p", config.DefaultProvider, "Provider name (azure, hashicorp)")
	cmd.Flags().BoolVar(&skipDNSCheck, "skip-dns-check", false, "Skip the vault DNS pre-check")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (optional)")
	_ = cmd.MarkFlagRequired("vault-name")
	return cmd
}

// providersCmd returns the providers command
func providersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List available secret providers",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(); err != nil {
				return err
			}

			registry := provider.Default()
			names := registry.List()
			providers := make([]models.ProviderInfo, len(names))
			for i, name := range names {
				providers[i] = models.ProviderInfo{
					Name:        name,
					Description: registry.Describe(name),
					Default:     name == appConfig.Defaults.Provider,
				}
			}

			// Get formatter
			formatter, err := output.GetFormatter(output.Format(formatType))
			if err != nil {
				return err
			}

			// Format and output
			result, err := formatter.FormatProviders(providers)
			if err != nil {
				return err
			}

			fmt.Println(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&formatType, "format", "plain", "Output format (plain, json)")
	return cmd
}

// vaultsCmd returns the vaults command
func vaultsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vaults",
		Short: "List the Azure Key Vaults of a subscription",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(); err != nil {
				return err
			}

			if subscriptionID == "" {
				subscriptionID = appConfig.Providers.Azure.SubscriptionID
			}
			if subscriptionID == "" {
				subscriptionID = os.Getenv("AZURE_SUBSCRIPTION_ID")
			}

			cred, err := azure.NewCredential()
			if err != nil {
				return err
			}

			lister, err := azure.NewVaultLister(subscriptionID, cred, nil)
			if err != nil {
				return err
			}

			vaults, err := lister.ListVaults(cmd.Context())
			if err != nil {
				return err
			}

			// Get formatter
			formatter, err := output.GetFormatter(output.Format(formatType))
			if err != nil {
				return err
			}

			// Format and output
			result, err := formatter.FormatVaults(vaults)
			if err != nil {
				return err
			}

			fmt.Println(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&subscriptionID, "subscription-id", "", "Azure subscription ID (defaults to config or AZURE_SUBSCRIPTION_ID)")
	cmd.Flags().StringVar(&formatType, "format", "plain", "Output format (plain, json)")
	return cmd
}
