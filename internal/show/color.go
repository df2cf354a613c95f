package show

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RGBA is one color quadruple: red, green, blue, alpha.
type RGBA [4]uint8

// Channel order within RGBA.
const (
	Red = iota
	Green
	Blue
	Alpha
)

// Black is the zero quadruple used to fill parts without a color.
var Black = RGBA{}

// UnmarshalJSON decodes exactly four integer channels in the range 0-255.
func (c *RGBA) UnmarshalJSON(data []byte) error {
	var channels []int
	if err := json.Unmarshal(data, &channels); err != nil {
		return fmt.Errorf("rgba: %w", err)
	}
	if len(channels) != 4 {
		return fmt.Errorf("rgba: expected 4 channels, got %d", len(channels))
	}
	for i, v := range channels {
		if v < 0 || v > 255 {
			return fmt.Errorf("rgba: channel %d out of range: %d", i, v)
		}
		c[i] = uint8(v)
	}
	return nil
}

// MarshalJSON encodes the quadruple as a JSON array of numbers.
func (c RGBA) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]int{int(c[Red]), int(c[Green]), int(c[Blue]), int(c[Alpha])})
}

// IsLit reports whether the color has a non-zero alpha.
func (c RGBA) IsLit() bool {
	return c[Alpha] > 0
}

type colorKind int

const (
	colorNone colorKind = iota
	colorSingle
	colorPixels
)

// Color is either a single quadruple applied to a whole part or a list with
// one quadruple per pixel. The zero value holds no color.
type Color struct {
	kind   colorKind
	single RGBA
	pixels []RGBA
}

// SingleColor wraps one quadruple.
func SingleColor(c RGBA) Color {
	return Color{kind: colorSingle, single: c}
}

// PixelColors wraps a per-pixel list. An empty list yields a Color with no value.
func PixelColors(pixels []RGBA) Color {
	if len(pixels) == 0 {
		return Color{}
	}
	return Color{kind: colorPixels, pixels: pixels}
}

// IsZero reports whether the color carries no value.
func (c Color) IsZero() bool {
	return c.kind == colorNone
}

// Single returns the quadruple when the color is a single value.
func (c Color) Single() (RGBA, bool) {
	return c.single, c.kind == colorSingle
}

// Pixels returns the per-pixel list when the color is a list.
func (c Color) Pixels() ([]RGBA, bool) {
	return c.pixels, c.kind == colorPixels
}

// Len returns the number of quadruples the color holds.
func (c Color) Len() int {
	switch c.kind {
	case colorSingle:
		return 1
	case colorPixels:
		return len(c.pixels)
	default:
		return 0
	}
}

// UnmarshalJSON accepts [r,g,b,a] or [[r,g,b,a], ...].
func (c *Color) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*c = Color{}
		return nil
	}
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return fmt.Errorf("color: expected array, got %q", truncate(trimmed, 16))
	}
	inner := bytes.TrimSpace(trimmed[1:])
	if len(inner) > 0 && inner[0] == '[' {
		var pixels []RGBA
		if err := json.Unmarshal(trimmed, &pixels); err != nil {
			return fmt.Errorf("color: %w", err)
		}
		*c = PixelColors(pixels)
		return nil
	}
	if len(inner) > 0 && inner[0] == ']' {
		*c = Color{}
		return nil
	}
	var single RGBA
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return fmt.Errorf("color: %w", err)
	}
	*c = SingleColor(single)
	return nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
