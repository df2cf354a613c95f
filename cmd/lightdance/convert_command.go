package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"lightdance/internal/config"
	"lightdance/internal/convert"
	"lightdance/internal/logging"
	"lightdance/internal/watch"
)

type convertFlags struct {
	inputDir    string
	outputDir   string
	variant     string
	singleColor string
	fadePolicy  string
	watch       bool
	json        bool
}

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var flags convertFlags

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Write frame data and frame times from the show documents",
		Long: `Convert reads control.json, LED.json and OF.json from the input directory
and writes the frame-data and timing files into the output directory.

With --watch the conversion re-runs whenever one of the input documents
changes, until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg := *base
			if err := flags.apply(cmd, &cfg); err != nil {
				return err
			}
			logger, closeLog, err := ctx.newLogger(cmd, &cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()

			out := cmd.OutOrStdout()
			runOnce := func(runCtx context.Context) error {
				summary, err := convert.Run(runCtx, &cfg, logger)
				if err != nil {
					return err
				}
				return printConvertSummary(out, summary, flags.json)
			}

			if !flags.watch {
				return runOnce(cmd.Context())
			}
			return runWatch(cmd.Context(), &cfg, logger, runOnce)
		},
	}

	cmd.Flags().StringVar(&flags.inputDir, "input-dir", "", "Directory holding control.json, LED.json and OF.json")
	cmd.Flags().StringVar(&flags.outputDir, "output-dir", "", "Directory receiving the frame files")
	cmd.Flags().StringVar(&flags.variant, "variant", "", "Frame data variant: hex or raw")
	cmd.Flags().StringVar(&flags.singleColor, "single-color", "", "Single LED color expansion: broadcast or single")
	cmd.Flags().StringVar(&flags.fadePolicy, "fade-policy", "", "Fade of shared frames: last, first or any")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "Re-run whenever an input document changes")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Print the summary as JSON")
	return cmd
}

// apply copies explicitly set flags over cfg and re-validates it.
func (f convertFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed
	if changed("input-dir") {
		dir, err := config.ExpandPath(f.inputDir)
		if err != nil {
			return fmt.Errorf("--input-dir: %w", err)
		}
		cfg.Paths.InputDir = dir
	}
	if changed("output-dir") {
		dir, err := config.ExpandPath(f.outputDir)
		if err != nil {
			return fmt.Errorf("--output-dir: %w", err)
		}
		cfg.Paths.OutputDir = dir
	}
	if changed("variant") {
		cfg.Output.Variant = f.variant
	}
	if changed("single-color") {
		cfg.Output.SingleColor = f.singleColor
	}
	if changed("fade-policy") {
		cfg.Output.FadePolicy = f.fadePolicy
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

func runWatch(parent context.Context, cfg *config.Config, logger *slog.Logger, run func(context.Context) error) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := watch.New(watch.Options{
		Paths:    cfg.InputPaths(),
		Debounce: time.Duration(cfg.Watch.DebounceMillis) * time.Millisecond,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	if err := run(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		logging.NewComponentLogger(logger, "convert").
			Error("initial conversion failed; waiting for changes", logging.Error(err))
	}
	return watcher.Run(ctx, run)
}

func printConvertSummary(out io.Writer, s convert.Summary, asJSON bool) error {
	if asJSON {
		return writeJSON(out, s)
	}
	colorize := shouldColorize(out)
	lines := []string{
		renderStatusLine("Frames", statusOK,
			fmt.Sprintf("%d frames, %d parts, %d slots at %d fps", s.Frames, s.Parts, s.Slots, s.FPS), colorize),
		renderStatusLine("Data", statusOK,
			fmt.Sprintf("%s (%s, sha256 %s)", s.DataPath, s.Variant, shortHash(s.DataSHA256)), colorize),
		renderStatusLine("Times", statusOK, s.TimesPath, colorize),
	}
	for _, part := range s.UnknownParts {
		lines = append(lines, renderStatusLine("Unknown part", statusWarn, part+" is not in LEDPARTS; events ignored", colorize))
	}
	for _, warning := range s.Warnings {
		lines = append(lines, renderStatusLine("Device", statusWarn, warning, colorize))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}

func shortHash(sum string) string {
	if len(sum) > 12 {
		return sum[:12]
	}
	return sum
}
