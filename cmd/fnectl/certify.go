package main

import (
	"github.com/spf13/cobra"

	"github.com/imrishuroy/fne-certify/internal/fne"
)

func newCertifyCmd(opts *options) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:       "certify invoice|purchase",
		Short:     "Certify a sale invoice or a purchase slip",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"invoice", "purchase"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var doc map[string]any
			if err := readJSON(file, &doc); err != nil {
				return err
			}

			a, err := opts.load(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			var resp *fne.Response
			if args[0] == "purchase" {
				resp, err = a.Purchases.Submit(cmd.Context(), doc)
			} else {
				resp, err = a.Invoices.Sign(cmd.Context(), doc)
			}
			if err != nil {
				return report(cmd, err)
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON document to certify")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
