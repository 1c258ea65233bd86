package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kpauljoseph/slidepress/internal/output"
	"github.com/kpauljoseph/slidepress/internal/pdf"
	"github.com/kpauljoseph/slidepress/internal/scanner"
	"github.com/kpauljoseph/slidepress/internal/session"
	"github.com/kpauljoseph/slidepress/pkg/models"
)

var convertCmd = &cobra.Command{
	Use:   "convert <pdf|dir>",
	Short: "Rasterize PDF pages into a zip of PNG images",
	Long: `Convert renders the selected pages of a PDF at the chosen scale and packs
them into {name}_images.zip. Given a directory, every PDF found beneath it is
converted in turn and its archive is written under the same subdirectory of
the output directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("scale", "", "render scale: 1 (preview), 2 (design), 3 (print) or 4 (maximum)")
	convertCmd.Flags().String("pages", "", `pages to convert, e.g. "1-3, 5, 8" (default all)`)
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	scale := models.Scale(cfg.Scale)
	if s, _ := cmd.Flags().GetString("scale"); s != "" {
		parsed, err := models.ParseScale(s)
		if err != nil {
			return err
		}
		scale = parsed
	}
	pages := cfg.Pages
	if cmd.Flags().Changed("pages") {
		pages, _ = cmd.Flags().GetString("pages")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	targets, err := convertTargets(ctx, args[0], cfg.OutputDir)
	if err != nil {
		return err
	}

	appLog.Info("Converting %d PDF(s) at %s", len(targets), scale.Description())
	failed := 0
	for _, target := range targets {
		if err := convertOne(ctx, target, scale, pages); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			appLog.Info("Error converting %s: %v", target.path, err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d PDF(s) failed to convert", failed, len(targets))
	}
	return nil
}

// convertTarget pairs a PDF with the directory its archive goes to.
type convertTarget struct {
	path   string
	outDir string
}

// convertTargets expands path into the PDFs to convert. PDFs found under a
// directory keep their subdirectory beneath outDir, so equal file names in
// different folders never share an archive path.
func convertTargets(ctx context.Context, path, outDir string) ([]convertTarget, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []convertTarget{{path: path, outDir: outDir}}, nil
	}

	pdfs, err := scanner.New(appLog).FindPDFs(ctx, path)
	if err != nil {
		return nil, err
	}
	targets := make([]convertTarget, 0, len(pdfs))
	for _, p := range pdfs {
		targets = append(targets, convertTarget{
			path:   p.AbsolutePath,
			outDir: filepath.Join(outDir, filepath.Dir(p.RelativePath)),
		})
	}
	return targets, nil
}

func convertOne(ctx context.Context, target convertTarget, scale models.Scale, pages string) error {
	data, err := os.ReadFile(target.path)
	if err != nil {
		return err
	}

	sink, err := output.NewDirSink(target.outDir, appLog)
	if err != nil {
		return err
	}
	appLog.Debug("Writing %s archive to %s", target.path, sink.Dir())

	converter := session.NewConverter(pdf.FitzOpener{}, sink, appLog)
	defer converter.Reset()

	if err := converter.Load(filepath.Base(target.path), data); err != nil {
		return err
	}
	if err := converter.SetScale(scale); err != nil {
		return err
	}
	converter.SetPageRange(pages)

	saved, err := converter.Convert(ctx, func(percent int, status string) {
		appLog.Debug("[%3d%%] %s", percent, status)
	})
	if err != nil {
		return err
	}
	appLog.Info("Saved %s", saved)
	return nil
}
