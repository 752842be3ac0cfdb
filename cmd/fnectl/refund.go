package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRefundCmd(opts *options) *cobra.Command {
	var invoiceID, file string

	cmd := &cobra.Command{
		Use:   "refund",
		Short: "Issue a credit note against a certified invoice",
		Long: `Issue a credit note. --file holds either {"items":[...]} or a bare list of
{"id": "<item uuid>", "quantity": n} entries.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw any
			if err := readJSON(file, &raw); err != nil {
				return err
			}
			var doc map[string]any
			switch v := raw.(type) {
			case map[string]any:
				doc = v
			case []any:
				doc = map[string]any{"items": v}
			default:
				return fmt.Errorf("%s must hold an object or a list of items", file)
			}

			a, err := opts.load(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := a.Refunds.IssueDocument(cmd.Context(), invoiceID, doc)
			if err != nil {
				return report(cmd, err)
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&invoiceID, "invoice", "", "FNE id of the invoice to refund")
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with the refunded items")
	_ = cmd.MarkFlagRequired("invoice")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
