package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCapabilitiesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "capabilities",
		Aliases: []string{"caps"},
		Short:   "List the capability kinds of the catalog",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			cat, err := opts.loadCatalog(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			for _, k := range cat.Kinds() {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
}

func newProvidersCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List the providers of the catalog with their prerequisites and offerings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			cat, err := opts.loadCatalog(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, p := range cat.Providers() {
				line := fmt.Sprintf("%2d  %s", p.ID, p.Name)
				if p.Requires != 0 {
					line += fmt.Sprintf(" (requires %s)", cat.ProviderName(p.Requires))
				}
				fmt.Fprintln(out, line)
				offers := make([]string, 0, len(p.Offerings))
				for _, o := range p.Offerings {
					offers = append(offers, fmt.Sprintf("%d %s", o.Quality, cat.KindName(o.Kind)))
				}
				if len(offers) > 0 {
					fmt.Fprintln(out, "    "+strings.Join(offers, ", "))
				}
			}
			return nil
		},
	}
}
