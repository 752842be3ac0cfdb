package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/imrishuroy/fne-certify/internal/config"
)

func newConfigCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Load and validate the configuration without calling the API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.cfgFile)
			if err != nil {
				return report(cmd, err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "configuration is valid")
			fmt.Fprintf(out, "  mode:     %s\n", cfg.Mode)
			fmt.Fprintf(out, "  base_url: %s\n", cfg.BaseURL)
			fmt.Fprintf(out, "  cache:    %s (enabled=%t, ttl=%s)\n", cfg.Cache.Backend, cfg.Cache.Enabled, cfg.CacheTTL())
			fmt.Fprintf(out, "  storage:  %s\n", cfg.Storage.Driver)
			return nil
		},
	})
	return cmd
}
