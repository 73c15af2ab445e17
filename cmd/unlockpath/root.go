package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/bayleafwalker/unlockpath/internal/catalog"
	"github.com/bayleafwalker/unlockpath/internal/config"
)

type rootOptions struct {
	configPath        string
	catalogPath       string
	versionConstraint string
	zap               zap.Options
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{zap: zap.Options{Development: true}}

	cmd := &cobra.Command{
		Use:   "unlockpath",
		Short: "Plan the shortest provider unlocking path",
		Long: `unlockpath finds the smallest set of providers to unlock so that every
requested capability is offered at the requested quality or better.

Requests are read one per line in the form "[>] <quality> <capability>";
a leading '>' pins the request to a provider no other pinned request uses.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := zap.New(zap.UseFlagOptions(&opts.zap), zap.WriteTo(cmd.ErrOrStderr()))
			cmd.SetContext(logr.NewContext(cmd.Context(), logger))
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&opts.catalogPath, "catalog", "", "ProviderCatalog manifest (default: built-in engineer catalog)")
	cmd.PersistentFlags().StringVar(&opts.versionConstraint, "catalog-version", "", "Reject catalogs whose version does not satisfy this constraint")

	zapFlags := flag.NewFlagSet("zap", flag.ContinueOnError)
	opts.zap.BindFlags(zapFlags)
	cmd.PersistentFlags().AddGoFlagSet(zapFlags)

	cmd.AddCommand(
		newPlanCmd(opts),
		newCapabilitiesCmd(opts),
		newProvidersCmd(opts),
		newVersionCmd(opts),
	)
	return cmd
}

// loadConfig layers the config file and the global flags over the defaults.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if o.configPath != "" {
		loaded, err := config.LoadFromFile(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.Merge(&config.Config{Catalog: config.CatalogConfig{
		Path:              o.catalogPath,
		VersionConstraint: o.versionConstraint,
	}})
	return cfg, nil
}

func (o *rootOptions) loadCatalog(ctx context.Context, cfg *config.Config) (*catalog.Catalog, error) {
	cat, err := cfg.Catalog.LoadCatalog()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	source := cfg.Catalog.Path
	if source == "" {
		source = "built-in"
	}
	logr.FromContextOrDiscard(ctx).V(1).Info("catalog loaded",
		"source", source, "version", cat.Version(), "providers", cat.Len())
	return cat, nil
}

func newVersionCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "unlockpath version %s\n", version)
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			cat, err := opts.loadCatalog(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "catalog version %s (%d providers)\n", cat.Version(), cat.Len())
			return nil
		},
	}
}

// isTerminal reports whether v is an interactive terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
