package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kpauljoseph/slidepress/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of slidepress",
	Run: func(cmd *cobra.Command, args []string) {
		detailed, _ := cmd.Flags().GetBool("detailed")
		if detailed {
			fmt.Fprint(cmd.OutOrStdout(), version.GetDetailedVersionInfo())
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), version.GetVersionInfo())
	},
}

func init() {
	versionCmd.Flags().Bool("detailed", false, "include the commit")
	rootCmd.AddCommand(versionCmd)
}
