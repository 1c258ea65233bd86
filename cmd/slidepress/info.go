package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kpauljoseph/slidepress/internal/filetype"
	"github.com/kpauljoseph/slidepress/internal/pdf"
)

var infoCmd = &cobra.Command{
	Use:   "info <pdf>",
	Short: "Print the page count and page dimensions of a PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		if err := filetype.RequirePDF(data); err != nil {
			return err
		}

		dims, err := pdf.PageDimensions(data)
		if err != nil {
			return fmt.Errorf("error getting page dimensions: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: %d pages\n", args[0], len(dims))
		for i, dim := range dims {
			fmt.Fprintf(out, "Page %d: %.3f x %.3f points\n", i+1, dim.Width, dim.Height)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
