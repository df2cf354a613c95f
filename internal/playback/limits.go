package playback

import (
	"fmt"

	"lightdance/internal/frameformat"
)

// Limits are the fixed buffer sizes of the device firmware reader.
type Limits struct {
	MaxParts  int
	MaxSlots  int
	MaxFrames int
	// MaxLineBytes is the line buffer, terminator included.
	MaxLineBytes int
}

// DeviceLimits matches the buffers of the controller firmware.
var DeviceLimits = Limits{
	MaxParts:     32,
	MaxSlots:     4096,
	MaxFrames:    2048,
	MaxLineBytes: 256,
}

// Check returns one message per limit a show exceeds. Exceeding a limit does
// not fail a conversion; the device silently truncates.
func (l Limits) Check(parts, slots, frames int, variant frameformat.Variant) []string {
	var out []string
	if l.MaxParts > 0 && parts > l.MaxParts {
		out = append(out, fmt.Sprintf("%d parts exceed the device limit of %d", parts, l.MaxParts))
	}
	if l.MaxSlots > 0 && slots > l.MaxSlots {
		out = append(out, fmt.Sprintf("%d color slots per frame exceed the device limit of %d", slots, l.MaxSlots))
	}
	if l.MaxFrames > 0 && frames > l.MaxFrames {
		out = append(out, fmt.Sprintf("%d frames exceed the device limit of %d", frames, l.MaxFrames))
	}
	if l.MaxLineBytes > 0 && variant != frameformat.VariantRaw && slots*6+1 > l.MaxLineBytes {
		out = append(out, fmt.Sprintf("hex color lines of %d bytes exceed the device line buffer of %d", slots*6, l.MaxLineBytes))
	}
	return out
}
