package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X main.Version=... -X main.BuildDate=...".
var (
	Version   = "dev"
	BuildDate = "unknown"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display the fnectl version",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "fnectl")
			fmt.Fprintf(out, "Version:    %s\n", Version)
			fmt.Fprintf(out, "Build Date: %s\n", BuildDate)
			fmt.Fprintf(out, "Go Version: %s\n", runtime.Version())
		},
	}
}
