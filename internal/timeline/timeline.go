// Package timeline merges LED and OF events into one frame table keyed by
// start time.
//
// LED events are applied first, in LED document order and then event order,
// followed by OF events in document order. An OF event's color is stored
// under every OF part of the layout. The processing order decides which fade
// flag survives when several events share a start time; FadePolicy selects
// how that conflict resolves.
package timeline

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"lightdance/internal/layout"
	"lightdance/internal/show"
)

// ErrSlotMismatch reports a per-pixel color list whose length differs from
// the part's declared width.
var ErrSlotMismatch = errors.New("pixel count does not match part length")

// FadePolicy decides the fade flag of a frame fed by more than one event.
type FadePolicy string

const (
	// FadeLast keeps the fade of the last processed event.
	FadeLast FadePolicy = "last"
	// FadeFirst keeps the fade of the event that created the frame.
	FadeFirst FadePolicy = "first"
	// FadeAny fades when any contributing event fades.
	FadeAny FadePolicy = "any"
)

// ParseFadePolicy validates a policy name. An empty name selects FadeLast.
func ParseFadePolicy(value string) (FadePolicy, error) {
	switch FadePolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", FadeLast:
		return FadeLast, nil
	case FadeFirst:
		return FadeFirst, nil
	case FadeAny:
		return FadeAny, nil
	default:
		return "", fmt.Errorf("fade policy: unsupported value %q", value)
	}
}

// Options tunes the merge.
type Options struct {
	Fade FadePolicy
}

// Frame is one merged instant.
type Frame struct {
	Start  int
	Fade   bool
	Colors map[string]show.Color
}

// Color returns the stored color of a part, if any.
func (f Frame) Color(id string) (show.Color, bool) {
	c, ok := f.Colors[id]
	if !ok || c.IsZero() {
		return show.Color{}, false
	}
	return c, true
}

// Result is the merged timeline plus counters for reporting.
type Result struct {
	Frames []Frame
	// UnknownParts lists LED document parts missing from the layout. Their
	// events still create frames and vote on fade but are never emitted.
	UnknownParts []string
	LEDEvents    int
	OFEvents     int
}

// Starts returns frame start times in order.
func (r Result) Starts() []int {
	starts := make([]int, len(r.Frames))
	for i, f := range r.Frames {
		starts[i] = f.Start
	}
	return starts
}

type merger struct {
	policy FadePolicy
	frames map[int]*Frame
}

func (m *merger) frameAt(start int, fade bool) *Frame {
	frame, ok := m.frames[start]
	if !ok {
		frame = &Frame{Start: start, Fade: fade, Colors: map[string]show.Color{}}
		m.frames[start] = frame
		return frame
	}
	switch m.policy {
	case FadeFirst:
	case FadeAny:
		frame.Fade = frame.Fade || fade
	default:
		frame.Fade = fade
	}
	return frame
}

// Merge builds the ordered frame sequence.
func Merge(l layout.Layout, led show.LEDDocument, of show.OFDocument, opts Options) (Result, error) {
	policy := opts.Fade
	if policy == "" {
		policy = FadeLast
	}
	m := &merger{policy: policy, frames: map[int]*Frame{}}
	var result Result

	for _, track := range led {
		part, known := l.Lookup(track.Part)
		if !known {
			result.UnknownParts = append(result.UnknownParts, track.Part)
		}
		for i, event := range track.Events {
			if pixels, ok := event.Color.Pixels(); ok && known && len(pixels) != part.Width {
				return Result{}, fmt.Errorf("%w: %s event %d at %d has %d pixels, part has %d",
					ErrSlotMismatch, track.Part, i, event.Start, len(pixels), part.Width)
			}
			frame := m.frameAt(event.Start, event.Fade)
			frame.Colors[track.Part] = event.Color
			result.LEDEvents++
		}
	}

	ofParts := l.OFParts()
	for _, event := range of {
		frame := m.frameAt(event.Start, event.Fade)
		color := show.SingleColor(event.Color)
		for _, part := range ofParts {
			frame.Colors[part.ID] = color
		}
		result.OFEvents++
	}

	starts := make([]int, 0, len(m.frames))
	for start := range m.frames {
		starts = append(starts, start)
	}
	slices.Sort(starts)
	result.Frames = make([]Frame, len(starts))
	for i, start := range starts {
		result.Frames[i] = *m.frames[start]
	}
	return result, nil
}
