package frameformat

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"lightdance/internal/layout"
	"lightdance/internal/show"
	"lightdance/internal/timeline"
)

// Premultiply scales RGB by alpha, rounding to the nearest integer. Alpha is
// not part of the result.
func Premultiply(c show.RGBA) [3]uint8 {
	alpha := int(c[show.Alpha])
	var out [3]uint8
	for i := 0; i < 3; i++ {
		// c*a/255 never lands on .5, so +127 rounds to nearest.
		out[i] = uint8((int(c[i])*alpha + 127) / 255)
	}
	return out
}

// HexColor renders a quadruple as six lowercase hex digits after
// premultiplication.
func HexColor(c show.RGBA) string {
	p := Premultiply(c)
	return fmt.Sprintf("%02x%02x%02x", p[0], p[1], p[2])
}

// RawColor renders a quadruple as four space separated decimal channels.
func RawColor(c show.RGBA) string {
	return fmt.Sprintf("%d %d %d %d", c[show.Red], c[show.Green], c[show.Blue], c[show.Alpha])
}

// Slots resolves the per-slot colors of one frame in layout order. Parts
// without a stored color contribute Width black slots.
func Slots(frame timeline.Frame, l layout.Layout, policy SingleColorPolicy) []show.RGBA {
	slots := make([]show.RGBA, 0, l.TotalSlots())
	for _, part := range l.Parts {
		color, ok := frame.Color(part.ID)
		if !ok {
			for i := 0; i < part.Width; i++ {
				slots = append(slots, show.Black)
			}
			continue
		}
		if pixels, ok := color.Pixels(); ok {
			slots = append(slots, pixels...)
			continue
		}
		single, _ := color.Single()
		n := part.Width
		if policy == SingleOnce {
			n = 1
		}
		for i := 0; i < n; i++ {
			slots = append(slots, single)
		}
	}
	return slots
}

// WriteData renders the frame-data artifact: part count, widths, fps, then
// a fade line and the color content of every frame.
func WriteData(w io.Writer, l layout.Layout, fps int, frames []timeline.Frame, opts Options) error {
	opts = opts.withDefaults()
	lw := newLineWriter(w)

	lw.line(strconv.Itoa(len(l.Parts)))
	lw.line(joinInts(l.Widths()))
	lw.line(strconv.Itoa(fps))

	var hex strings.Builder
	for _, frame := range frames {
		lw.line(strconv.FormatBool(frame.Fade))
		slots := Slots(frame, l, opts.SingleColor)
		switch opts.Variant {
		case VariantRaw:
			for _, slot := range slots {
				lw.line(RawColor(slot))
			}
		default:
			hex.Reset()
			hex.Grow(len(slots) * 6)
			for _, slot := range slots {
				hex.WriteString(HexColor(slot))
			}
			lw.line(hex.String())
		}
	}
	return lw.close(opts.TrailingNewline)
}

// WriteTimes renders the timing artifact: one start time per frame.
func WriteTimes(w io.Writer, frames []timeline.Frame, opts Options) error {
	lw := newLineWriter(w)
	for _, frame := range frames {
		lw.line(strconv.Itoa(frame.Start))
	}
	return lw.close(opts.TrailingNewline)
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}

// lineWriter joins lines with "\n" and remembers the first write error.
type lineWriter struct {
	w     *bufio.Writer
	lines int
	err   error
}

func newLineWriter(w io.Writer) *lineWriter {
	return &lineWriter{w: bufio.NewWriter(w)}
}

func (lw *lineWriter) line(s string) {
	if lw.err != nil {
		return
	}
	if lw.lines > 0 {
		if lw.err = lw.w.WriteByte('\n'); lw.err != nil {
			return
		}
	}
	_, lw.err = lw.w.WriteString(s)
	lw.lines++
}

func (lw *lineWriter) close(trailingNewline bool) error {
	if lw.err == nil && trailingNewline && lw.lines > 0 {
		lw.err = lw.w.WriteByte('\n')
	}
	if lw.err != nil {
		return lw.err
	}
	return lw.w.Flush()
}
