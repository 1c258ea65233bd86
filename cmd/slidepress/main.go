// Package main is the entry point for the slidepress CLI.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kpauljoseph/slidepress/internal/config"
	"github.com/kpauljoseph/slidepress/pkg/logger"
)

var (
	cfg    *config.Config
	appLog *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "slidepress",
	Short: "Rasterize slide decks and re-composite edited pages",
	Long: `slidepress turns the pages of a PDF deck into PNG images packed in a zip
archive, and puts edited images back into the deck as full-page replacements.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		var err error
		if cmd.Flags().Changed("config") {
			cfg, err = config.Load(path)
		} else {
			cfg, err = config.LoadOrDefault(path)
		}
		if err != nil {
			return err
		}

		if dir, _ := cmd.Flags().GetString("output-dir"); dir != "" {
			cfg.OutputDir = dir
		}

		appLog = logger.New(
			logger.WithOutput(os.Stderr),
			logger.WithPrefix("[slidepress] "),
			logger.WithFile(cfg.Log.File, cfg.Log.MaxSizeMB, cfg.Log.MaxBackups),
		)
		verbose, _ := cmd.Flags().GetBool("verbose")
		appLog.SetVerbose(verbose)
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			appLog.SetLevel(logger.LevelTrace)
		}
		appLog.Debug("Using output directory %s", cfg.OutputDir)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if appLog == nil {
			return nil
		}
		return appLog.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "path to config file")
	rootCmd.PersistentFlags().String("output-dir", "", "directory to write archives and edited PDFs (overrides config)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable verbose logging")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug mode with trace logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
