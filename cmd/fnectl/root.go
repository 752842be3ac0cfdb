package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/imrishuroy/fne-certify/internal/app"
	"github.com/imrishuroy/fne-certify/internal/config"
	"github.com/imrishuroy/fne-certify/internal/fne"
)

// options are the persistent flags.
type options struct {
	cfgFile string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "fnectl",
		Short: "Certify invoices, purchases and refunds with the FNE API",
		Long: `fnectl maps an ERP document read from disk, validates it and sends it to
the FNE API. Settings come from the YAML file given with --config and the
FNE_* environment variables.

Example Usage:
  fnectl certify invoice --file invoice.json
  fnectl refund --invoice <uuid> --file items.json
  fnectl config validate --config fne.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "Path to the YAML configuration file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log pipeline steps to stderr")

	root.AddCommand(
		newCertifyCmd(opts),
		newRefundCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)
	return root
}

// load reads the configuration and wires the services.
func (o *options) load(ctx context.Context, stderr io.Writer) (*app.App, error) {
	cfg, err := config.Load(o.cfgFile)
	if err != nil {
		return nil, err
	}
	handler := slog.DiscardHandler
	if o.verbose {
		handler = slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return app.New(ctx, cfg, slog.New(handler))
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// report prints the formatted error body, then returns err for the exit code.
func report(cmd *cobra.Command, err error) error {
	_ = printJSON(cmd.ErrOrStderr(), fne.Format(err, ""))
	return err
}
