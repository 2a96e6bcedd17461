package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/auditkit/lockaudit/pkg/buildinfo"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the lockaudit version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lockaudit %s\n", buildinfo.BinaryVersion)
		},
	}
}
