package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kpauljoseph/slidepress/internal/filetype"
	"github.com/kpauljoseph/slidepress/internal/imagecheck"
)

var checkCmd = &cobra.Command{
	Use:   "check <image>",
	Short: "Check whether an image fits a 16:9 high resolution slide",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		if _, err := filetype.RequireImage(data); err != nil {
			return err
		}
		res, err := imagecheck.NewChecker(cfg.Thresholds()).Inspect(data)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", res.Status, res.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
