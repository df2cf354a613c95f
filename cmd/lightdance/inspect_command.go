package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"lightdance/internal/config"
	"lightdance/internal/frameformat"
	"lightdance/internal/playback"
)

type inspectFlags struct {
	outputDir string
	variant   string
	at        int
	frame     int
	slot      int
	nth       int
	limit     int
	json      bool
}

type inspectSummary struct {
	DataPath  string   `json:"data_path"`
	TimesPath string   `json:"times_path"`
	Variant   string   `json:"variant"`
	FPS       int      `json:"fps"`
	Widths    []int    `json:"widths"`
	Slots     int      `json:"slots"`
	Frames    int      `json:"frames"`
	Times     []int    `json:"times"`
	Warnings  []string `json:"warnings,omitempty"`
}

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var flags inspectFlags

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Read the frame files back and show their contents",
		Long: `Inspect indexes the frame-data and timing files the way the controller
firmware does. Without selectors it prints a summary and the first frames.

  --frame I          decode frame I
  --at MS            decode the frame showing at time MS
  --slot S --nth K   decode the K-th frame (from 0) in which slot S is lit`,
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
			variant, err := frameformat.ParseVariant(cfg.Output.Variant)
			if err != nil {
				return err
			}

			reader, err := playback.Open(cfg.DataPath(), cfg.TimesPath(), variant)
			if err != nil {
				return err
			}
			defer reader.Close()

			out := cmd.OutOrStdout()
			changed := cmd.Flags().Changed
			var frame playback.Frame
			switch {
			case changed("frame"):
				frame, err = reader.ReadFrame(flags.frame)
			case changed("at"):
				frame, err = reader.FrameAt(flags.at)
			case changed("slot") || changed("nth"):
				frame, err = reader.KthLit(flags.slot, flags.nth)
			default:
				return printInspectSummary(out, &cfg, reader, variant, flags)
			}
			if err != nil {
				return err
			}
			if flags.json {
				return writeJSON(out, frame)
			}
			_, err = fmt.Fprintln(out, renderFrame(frame, reader.Widths()))
			return err
		},
	}

	cmd.Flags().StringVar(&flags.outputDir, "output-dir", "", "Directory holding the frame files")
	cmd.Flags().StringVar(&flags.variant, "variant", "", "Frame data variant: hex or raw")
	cmd.Flags().IntVar(&flags.at, "at", 0, "Show the frame active at this time in milliseconds")
	cmd.Flags().IntVar(&flags.frame, "frame", 0, "Show the frame with this index")
	cmd.Flags().IntVar(&flags.slot, "slot", 0, "Color slot for --nth")
	cmd.Flags().IntVar(&flags.nth, "nth", 0, "Show the nth frame in which --slot is lit")
	cmd.Flags().IntVar(&flags.limit, "limit", 20, "Frames listed in the summary (0 lists all)")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Print JSON instead of tables")
	cmd.MarkFlagsMutuallyExclusive("frame", "at", "slot")
	cmd.MarkFlagsMutuallyExclusive("frame", "at", "nth")
	return cmd
}

func (f inspectFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("output-dir") {
		dir, err := config.ExpandPath(f.outputDir)
		if err != nil {
			return fmt.Errorf("--output-dir: %w", err)
		}
		cfg.Paths.OutputDir = dir
	}
	if cmd.Flags().Changed("variant") {
		cfg.Output.Variant = f.variant
	}
	if f.limit < 0 {
		return errors.New("--limit must not be negative")
	}
	return nil
}

func printInspectSummary(out io.Writer, cfg *config.Config, reader *playback.Reader, variant frameformat.Variant, flags inspectFlags) error {
	summary := inspectSummary{
		DataPath:  cfg.DataPath(),
		TimesPath: cfg.TimesPath(),
		Variant:   string(variant),
		FPS:       reader.FPS(),
		Widths:    reader.Widths(),
		Slots:     reader.TotalSlots(),
		Frames:    reader.FrameCount(),
		Times:     reader.Times(),
	}
	summary.Warnings = playback.DeviceLimits.Check(len(summary.Widths), summary.Slots, summary.Frames, variant)
	if flags.json {
		return writeJSON(out, summary)
	}

	rows := [][]string{
		{"Data", summary.DataPath},
		{"Times", summary.TimesPath},
		{"Variant", summary.Variant},
		{"FPS", strconv.Itoa(summary.FPS)},
		{"Parts", strconv.Itoa(len(summary.Widths))},
		{"Widths", joinInts(summary.Widths)},
		{"Slots", strconv.Itoa(summary.Slots)},
		{"Frames", strconv.Itoa(summary.Frames)},
	}
	if n := len(summary.Times); n > 0 {
		rows = append(rows, []string{"Span", fmt.Sprintf("%d..%d ms", summary.Times[0], summary.Times[n-1])})
	}
	for _, warning := range summary.Warnings {
		rows = append(rows, []string{"Warning", warning})
	}
	if _, err := fmt.Fprintln(out, renderTable("Show", []string{"Property", "Value"}, rows, nil)); err != nil {
		return err
	}

	count := reader.FrameCount()
	if flags.limit > 0 && flags.limit < count {
		count = flags.limit
	}
	if count == 0 {
		return nil
	}
	frameRows := make([][]string, 0, count)
	for i := 0; i < count; i++ {
		frame, err := reader.ReadFrame(i)
		if err != nil {
			return err
		}
		lit := 0
		for _, slot := range frame.Slots {
			if slot.IsLit() {
				lit++
			}
		}
		frameRows = append(frameRows, []string{
			strconv.Itoa(frame.Index),
			strconv.Itoa(frame.Start),
			yesNo(frame.Fade),
			fmt.Sprintf("%d/%d", lit, len(frame.Slots)),
		})
	}
	title := "Frames"
	if count < reader.FrameCount() {
		title = fmt.Sprintf("Frames (first %d of %d)", count, reader.FrameCount())
	}
	_, err := fmt.Fprintln(out, renderTable(title,
		[]string{"#", "Start (ms)", "Fade", "Lit"},
		frameRows,
		[]columnAlignment{alignRight, alignRight, alignLeft, alignRight},
	))
	return err
}

func renderFrame(frame playback.Frame, widths []int) string {
	rows := make([][]string, 0, len(frame.Slots))
	part, pixel := 0, 0
	for i, slot := range frame.Slots {
		for part < len(widths) && pixel >= widths[part] {
			part++
			pixel = 0
		}
		rows = append(rows, []string{
			strconv.Itoa(i),
			strconv.Itoa(part),
			strconv.Itoa(pixel),
			frameformat.RawColor(slot),
			frameformat.HexColor(slot),
		})
		pixel++
	}
	title := fmt.Sprintf("Frame %d at %d ms, fade %s", frame.Index, frame.Start, yesNo(frame.Fade))
	return renderTable(title,
		[]string{"Slot", "Part", "Pixel", "RGBA", "Hex"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignLeft, alignLeft},
	)
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}
