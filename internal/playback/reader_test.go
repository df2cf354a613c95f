package playback

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"lightdance/internal/frameformat"
	"lightdance/internal/layout"
	"lightdance/internal/show"
	"lightdance/internal/timeline"
)

type fixture struct {
	layout layout.Layout
	frames []timeline.Frame
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	l, err := layout.Build(show.Control{
		FPS:      30,
		LEDParts: []show.LEDPart{{ID: "LED0", Len: 2}},
		OFParts:  []show.OFPart{{ID: "OF0"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	led := show.LEDDocument{{Part: "LED0", Events: []show.LEDEvent{
		{Start: 0, Fade: false, Color: show.PixelColors([]show.RGBA{{255, 0, 0, 255}, {0, 0, 0, 0}})},
		{Start: 500, Fade: true, Color: show.PixelColors([]show.RGBA{{0, 0, 0, 0}, {0, 0, 255, 255}})},
	}}}
	of := show.OFDocument{
		{Start: 250, Fade: false, Color: show.RGBA{0, 255, 0, 255}},
		{Start: 500, Fade: false, Color: show.RGBA{10, 10, 10, 255}},
	}
	res, err := timeline.Merge(l, led, of, timeline.Options{Fade: timeline.FadeAny})
	if err != nil {
		t.Fatal(err)
	}
	return fixture{layout: l, frames: res.Frames}
}

func (f fixture) write(t *testing.T, variant frameformat.Variant) (string, string) {
	t.Helper()
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "lightdance_data.txt")
	timesPath := filepath.Join(dir, "frame_times.txt")
	opts := frameformat.Options{Variant: variant}

	data, err := os.Create(dataPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := frameformat.WriteData(data, f.layout, 30, f.frames, opts); err != nil {
		t.Fatal(err)
	}
	data.Close()

	times, err := os.Create(timesPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := frameformat.WriteTimes(times, f.frames, opts); err != nil {
		t.Fatal(err)
	}
	times.Close()
	return dataPath, timesPath
}

func TestReaderRoundTripRaw(t *testing.T) {
	f := newFixture(t)
	dataPath, timesPath := f.write(t, frameformat.VariantRaw)

	r, err := Open(dataPath, timesPath, frameformat.VariantRaw)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	if r.FrameCount() != len(f.frames) || r.FPS() != 30 || r.TotalSlots() != 3 {
		t.Fatalf("unexpected header: frames=%d fps=%d slots=%d", r.FrameCount(), r.FPS(), r.TotalSlots())
	}
	if !slices.Equal(r.Widths(), []int{2, 1}) {
		t.Fatalf("unexpected widths: %v", r.Widths())
	}
	for i, want := range f.frames {
		got, err := r.ReadFrame(i)
		if err != nil {
			t.Fatalf("ReadFrame(%d): %v", i, err)
		}
		if got.Start != want.Start || got.Fade != want.Fade {
			t.Fatalf("frame %d: got start=%d fade=%v, want start=%d fade=%v", i, got.Start, got.Fade, want.Start, want.Fade)
		}
		if slots := frameformat.Slots(want, f.layout, frameformat.SingleBroadcast); !slices.Equal(got.Slots, slots) {
			t.Fatalf("frame %d slots: got %v want %v", i, got.Slots, slots)
		}
	}
}

func TestReaderRoundTripHex(t *testing.T) {
	f := newFixture(t)
	dataPath, timesPath := f.write(t, frameformat.VariantHex)

	r, err := Open(dataPath, timesPath, frameformat.VariantHex)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	frame, err := r.ReadFrame(1)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	want := []show.RGBA{{0, 0, 0, 0}, {0, 0, 0, 0}, {0, 255, 0, 255}}
	if !slices.Equal(frame.Slots, want) {
		t.Fatalf("unexpected slots: %v", frame.Slots)
	}
	next, err := r.ReadFrame(2)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if next.Start != 500 || !next.Fade {
		t.Fatalf("unexpected next frame: %+v", next)
	}
	if _, err := r.ReadFrame(3); !errors.Is(err, ErrFrameOutOfRange) {
		t.Fatalf("expected ErrFrameOutOfRange, got %v", err)
	}
}

func TestReaderIndexAt(t *testing.T) {
	f := newFixture(t)
	dataPath, timesPath := f.write(t, frameformat.VariantRaw)
	r, err := Open(dataPath, timesPath, frameformat.VariantRaw)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	tests := []struct {
		at   int
		want int
	}{
		{-1, -1},
		{0, 0},
		{249, 0},
		{250, 1},
		{499, 1},
		{500, 2},
		{100000, 2},
	}
	for _, tt := range tests {
		if got := r.IndexAt(tt.at); got != tt.want {
			t.Errorf("IndexAt(%d) = %d, want %d", tt.at, got, tt.want)
		}
	}
	if _, err := r.FrameAt(-5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before first frame, got %v", err)
	}
}

func TestReaderKthLit(t *testing.T) {
	f := newFixture(t)
	dataPath, timesPath := f.write(t, frameformat.VariantRaw)
	r, err := Open(dataPath, timesPath, frameformat.VariantRaw)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	// Slot 0 is lit only at 0; slot 2 (OF0) at 250 and 500.
	frame, err := r.KthLit(2, 1)
	if err != nil {
		t.Fatalf("KthLit: %v", err)
	}
	if frame.Start != 500 {
		t.Fatalf("unexpected frame: %+v", frame)
	}
	if _, err := r.KthLit(0, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := r.KthLit(9, 0); err == nil {
		t.Fatal("expected slot range error")
	}
}

func TestOpenRejectsMismatchedTimes(t *testing.T) {
	f := newFixture(t)
	dataPath, timesPath := f.write(t, frameformat.VariantRaw)
	if err := os.WriteFile(timesPath, []byte("0\n250"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(dataPath, timesPath, frameformat.VariantRaw); err == nil {
		t.Fatal("expected frame count mismatch")
	}
}

func TestDeviceLimitsCheck(t *testing.T) {
	if got := DeviceLimits.Check(3, 4, 10, frameformat.VariantRaw); len(got) != 0 {
		t.Fatalf("expected no warnings, got %v", got)
	}
	got := DeviceLimits.Check(40, 5000, 3000, frameformat.VariantRaw)
	if len(got) != 3 {
		t.Fatalf("expected 3 warnings, got %v", got)
	}
	if got := DeviceLimits.Check(2, 50, 1, frameformat.VariantHex); len(got) != 1 {
		t.Fatalf("expected line buffer warning, got %v", got)
	}
}
