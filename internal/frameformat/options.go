package frameformat

import (
	"fmt"
	"strings"
)

// Variant selects how color slots are rendered.
type Variant string

const (
	// VariantHex premultiplies RGB by alpha and concatenates six hex digits
	// per slot on a single line.
	VariantHex Variant = "hex"
	// VariantRaw writes one "R G B A" line per slot.
	VariantRaw Variant = "raw"
)

// ParseVariant validates a variant name. An empty name selects VariantHex.
func ParseVariant(value string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(value))) {
	case "", VariantHex:
		return VariantHex, nil
	case VariantRaw:
		return VariantRaw, nil
	default:
		return "", fmt.Errorf("output variant: unsupported value %q", value)
	}
}

// SingleColorPolicy decides how a single quadruple stored for a multi-pixel
// LED part is expanded.
type SingleColorPolicy string

const (
	// SingleBroadcast repeats the quadruple across every slot of the part.
	SingleBroadcast SingleColorPolicy = "broadcast"
	// SingleOnce emits the quadruple once, leaving the frame short of slots.
	SingleOnce SingleColorPolicy = "single"
)

// ParseSingleColorPolicy validates a policy name. An empty name selects
// SingleBroadcast.
func ParseSingleColorPolicy(value string) (SingleColorPolicy, error) {
	switch SingleColorPolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", SingleBroadcast:
		return SingleBroadcast, nil
	case SingleOnce:
		return SingleOnce, nil
	default:
		return "", fmt.Errorf("single color policy: unsupported value %q", value)
	}
}

// Options controls artifact rendering.
type Options struct {
	Variant     Variant
	SingleColor SingleColorPolicy
	// TrailingNewline terminates the last line of each artifact.
	TrailingNewline bool
}

func (o Options) withDefaults() Options {
	if o.Variant == "" {
		o.Variant = VariantHex
	}
	if o.SingleColor == "" {
		o.SingleColor = SingleBroadcast
	}
	return o
}
