package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gofrs/flock"

	"lightdance/internal/config"
	"lightdance/internal/fileutil"
	"lightdance/internal/frameformat"
	"lightdance/internal/layout"
	"lightdance/internal/logging"
	"lightdance/internal/playback"
	"lightdance/internal/show"
	"lightdance/internal/timeline"
)

// ErrLocked is returned when another process holds the output directory lock.
var ErrLocked = errors.New("another conversion is writing to the output directory")

const artifactMode = 0o644

// Summary reports what one conversion produced.
type Summary struct {
	RunID        string              `json:"run_id"`
	FPS          int                 `json:"fps"`
	Parts        int                 `json:"parts"`
	Slots        int                 `json:"slots"`
	Frames       int                 `json:"frames"`
	LEDEvents    int                 `json:"led_events"`
	OFEvents     int                 `json:"of_events"`
	Variant      frameformat.Variant `json:"variant"`
	DataPath     string              `json:"data_path"`
	DataSHA256   string              `json:"data_sha256"`
	TimesPath    string              `json:"times_path"`
	UnknownParts []string            `json:"unknown_parts,omitempty"`
	Warnings     []string            `json:"warnings,omitempty"`
	Duration     time.Duration       `json:"duration_ns"`
}

// Plan is a merged show ready to be written.
type Plan struct {
	FPS    int
	Layout layout.Layout
	Result timeline.Result
}

// Build merges decoded documents into a Plan.
func Build(docs *show.Documents, opts timeline.Options) (Plan, error) {
	l, err := layout.Build(docs.Control)
	if err != nil {
		return Plan{}, fmt.Errorf("build layout: %w", err)
	}
	result, err := timeline.Merge(l, docs.LED, docs.OF, opts)
	if err != nil {
		return Plan{}, fmt.Errorf("merge events: %w", err)
	}
	return Plan{FPS: docs.Control.FPS, Layout: l, Result: result}, nil
}

// WriteData emits the frame-data artifact for p.
func (p Plan) WriteData(w io.Writer, opts frameformat.Options) error {
	return frameformat.WriteData(w, p.Layout, p.FPS, p.Result.Frames, opts)
}

// WriteTimes emits the timing artifact for p.
func (p Plan) WriteTimes(w io.Writer, opts frameformat.Options) error {
	return frameformat.WriteTimes(w, p.Result.Frames, opts)
}

// Converter runs conversions for one configuration.
type Converter struct {
	cfg    *config.Config
	logger *slog.Logger
}

// New constructs a Converter. A nil logger discards output.
func New(cfg *config.Config, logger *slog.Logger) *Converter {
	return &Converter{cfg: cfg, logger: logging.NewComponentLogger(logger, "convert")}
}

// Run performs a full conversion. On any error no artifact is replaced.
func (c *Converter) Run(ctx context.Context) (Summary, error) {
	started := time.Now()
	ctx, runID := logging.ContextWithRunID(ctx)
	logger := logging.WithContext(ctx, c.logger)

	paths := show.Paths{Control: c.cfg.ControlPath(), LED: c.cfg.LEDPath(), OF: c.cfg.OFPath()}
	logger.Debug("loading documents",
		logging.String("control", paths.Control),
		logging.String("led", paths.LED),
		logging.String("of", paths.OF),
	)
	docs, err := show.Load(paths)
	if err != nil {
		return Summary{}, fmt.Errorf("load documents: %w", err)
	}

	plan, err := Build(docs, c.cfg.MergeOptions())
	if err != nil {
		return Summary{}, err
	}

	opts := c.cfg.FrameOptions()
	summary := Summary{
		RunID:        runID,
		FPS:          plan.FPS,
		Parts:        len(plan.Layout.Parts),
		Slots:        plan.Layout.TotalSlots(),
		Frames:       len(plan.Result.Frames),
		LEDEvents:    plan.Result.LEDEvents,
		OFEvents:     plan.Result.OFEvents,
		Variant:      opts.Variant,
		DataPath:     c.cfg.DataPath(),
		TimesPath:    c.cfg.TimesPath(),
		UnknownParts: plan.Result.UnknownParts,
	}

	for _, part := range plan.Result.UnknownParts {
		logger.Warn("LED part not declared in control document; events ignored",
			logging.String("part", part),
		)
	}
	if c.cfg.Output.DeviceLimits {
		summary.Warnings = playback.DeviceLimits.Check(summary.Parts, summary.Slots, summary.Frames, opts.Variant)
		for _, warning := range summary.Warnings {
			logger.Warn("show exceeds device limits", logging.String("detail", warning))
		}
	}

	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}

	if err := c.cfg.EnsureDirectories(); err != nil {
		return Summary{}, err
	}
	lock := flock.New(c.cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return Summary{}, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return Summary{}, fmt.Errorf("%w (%s)", ErrLocked, c.cfg.LockPath())
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("release lock failed", logging.Error(err))
		}
	}()

	data, err := fileutil.WriteFileAtomic(summary.DataPath, artifactMode, func(w io.Writer) error {
		return plan.WriteData(w, opts)
	})
	if err != nil {
		return Summary{}, fmt.Errorf("write %s: %w", summary.DataPath, err)
	}
	if _, err := fileutil.WriteFileAtomic(summary.TimesPath, artifactMode, func(w io.Writer) error {
		return plan.WriteTimes(w, opts)
	}); err != nil {
		return Summary{}, fmt.Errorf("write %s: %w", summary.TimesPath, err)
	}
	summary.DataSHA256 = data.SHA256
	summary.Duration = time.Since(started)

	logger.Info("artifacts written",
		logging.Int("frames", summary.Frames),
		logging.Int("parts", summary.Parts),
		logging.Int("slots", summary.Slots),
		logging.String("variant", string(summary.Variant)),
		logging.String("data", summary.DataPath),
		logging.String("times", summary.TimesPath),
		logging.Duration("elapsed", summary.Duration),
	)
	return summary, nil
}

// Run converts once with cfg.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Summary, error) {
	return New(cfg, logger).Run(ctx)
}
