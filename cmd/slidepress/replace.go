package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kpauljoseph/slidepress/internal/imagecheck"
	"github.com/kpauljoseph/slidepress/internal/output"
	"github.com/kpauljoseph/slidepress/internal/pdf"
	"github.com/kpauljoseph/slidepress/internal/rules"
	"github.com/kpauljoseph/slidepress/internal/session"
)

var replaceCmd = &cobra.Command{
	Use:   "replace <pdf> --rule PAGE=IMAGE [--rule PAGE=IMAGE ...]",
	Short: "Replace whole pages of a PDF with images",
	Long: `Replace puts each image over its target page, scaled to fit and centred on
the background colour, and writes the result as {name}_edited.pdf. When two
rules name the same page you are asked which one to keep unless --yes is set.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplace,
}

func init() {
	replaceCmd.Flags().StringArray("rule", nil, "replacement rule as PAGE=IMAGE, repeatable")
	replaceCmd.Flags().Bool("yes", false, "replace earlier rules for the same page without asking")
	replaceCmd.Flags().String("background", "", "letterbox colour as #rrggbb (overrides config)")
	rootCmd.AddCommand(replaceCmd)
}

type ruleArg struct {
	page  int
	image string
}

// parseRule splits a PAGE=IMAGE flag value.
func parseRule(value string) (ruleArg, error) {
	pageText, image, ok := strings.Cut(value, "=")
	if !ok || strings.TrimSpace(image) == "" {
		return ruleArg{}, fmt.Errorf("rule %q: expected PAGE=IMAGE", value)
	}
	page, err := strconv.Atoi(strings.TrimSpace(pageText))
	if err != nil {
		return ruleArg{}, fmt.Errorf("rule %q: page must be a number: %w", value, rules.ErrInvalidPage)
	}
	return ruleArg{page: page, image: strings.TrimSpace(image)}, nil
}

// promptConfirm asks on out and reads a y/N answer from in.
func promptConfirm(in io.Reader, out io.Writer) rules.ConfirmFunc {
	reader := bufio.NewReader(in)
	return func(page int) bool {
		fmt.Fprintf(out, "Page %d already has a replacement image. Replace it? [y/N] ", page)
		answer, _ := reader.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes"
	}
}

func runReplace(cmd *cobra.Command, args []string) error {
	values, _ := cmd.Flags().GetStringArray("rule")
	if len(values) == 0 {
		return session.ErrNoRules
	}
	parsed := make([]ruleArg, 0, len(values))
	for _, v := range values {
		r, err := parseRule(v)
		if err != nil {
			return err
		}
		parsed = append(parsed, r)
	}

	background := cfg.BackgroundColor
	if bg, _ := cmd.Flags().GetString("background"); bg != "" {
		background = bg
	}
	bg, err := pdf.ParseHexColor(background)
	if err != nil {
		return err
	}

	compositor, err := pdf.NewReplacer(cfg.TempDir, bg, appLog)
	if err != nil {
		return err
	}
	defer compositor.Cleanup()

	sink, err := output.NewDirSink(cfg.OutputDir, appLog)
	if err != nil {
		return err
	}

	replacer := session.NewReplacer(compositor, imagecheck.NewChecker(cfg.Thresholds()), sink, appLog)

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	if err := replacer.Load(filepath.Base(args[0]), data); err != nil {
		return err
	}

	confirm := promptConfirm(cmd.InOrStdin(), cmd.ErrOrStderr())
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		confirm = func(int) bool { return true }
	}

	for _, r := range parsed {
		image, err := os.ReadFile(r.image)
		if err != nil {
			return err
		}
		res, err := replacer.StageImage(filepath.Base(r.image), image)
		if err != nil {
			return fmt.Errorf("%s: %w", r.image, err)
		}
		appLog.Debug("%s: %s (%dx%d)", r.image, res.Status, res.Width, res.Height)
		added, err := replacer.AddRule(r.page, confirm)
		if err != nil {
			return err
		}
		if !added {
			appLog.Info("Kept the earlier image for page %d", r.page)
		}
	}

	for _, r := range replacer.Rules() {
		appLog.Info("Page %d <- %s [%s]", r.Page, r.FileName, r.Fingerprint)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	saved, err := replacer.Execute(ctx, func(percent int, status string) {
		appLog.Debug("[%3d%%] %s", percent, status)
	})
	if err != nil {
		return err
	}
	appLog.Info("Saved %s", saved)
	return nil
}
