// Package layout builds the fixed part order every emitted frame follows.
//
// LED parts come first in the insertion order of the control document's
// LEDPARTS mapping, followed by OF parts sorted by the integer that follows
// their two-character prefix. Each part owns a fixed number of color slots:
// an LED part its pixel count, an OF part exactly one.
package layout

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"lightdance/internal/show"
)

// prefixLen is the length of the identifier prefix stripped before an OF
// part's index is parsed ("OF3" -> 3).
const prefixLen = 2

var (
	// ErrInvalidPartID reports an OF identifier without a base-10 index suffix.
	ErrInvalidPartID = errors.New("invalid part identifier")
	// ErrInvalidWidth reports an LED part whose declared length is not positive.
	ErrInvalidWidth = errors.New("invalid part width")
)

// Kind distinguishes LED strips from flashing fixtures.
type Kind int

const (
	KindLED Kind = iota
	KindOF
)

func (k Kind) String() string {
	if k == KindOF {
		return "OF"
	}
	return "LED"
}

// Part is one entry of the layout.
type Part struct {
	ID    string
	Kind  Kind
	Width int
	// Offset is the index of the part's first slot within a frame.
	Offset int
}

// Layout is the ordered part sequence.
type Layout struct {
	Parts []Part
	index map[string]int
}

// Build computes the layout for a control document.
func Build(control show.Control) (Layout, error) {
	parts := make([]Part, 0, len(control.LEDParts)+len(control.OFParts))
	for _, led := range control.LEDParts {
		if led.Len <= 0 {
			return Layout{}, fmt.Errorf("%w: %s has len %d", ErrInvalidWidth, led.ID, led.Len)
		}
		parts = append(parts, Part{ID: led.ID, Kind: KindLED, Width: led.Len})
	}

	type keyed struct {
		id  string
		key int
	}
	ofs := make([]keyed, 0, len(control.OFParts))
	for _, of := range control.OFParts {
		key, err := ofIndex(of.ID)
		if err != nil {
			return Layout{}, err
		}
		ofs = append(ofs, keyed{id: of.ID, key: key})
	}
	slices.SortStableFunc(ofs, func(a, b keyed) int {
		if a.key != b.key {
			return cmp.Compare(a.key, b.key)
		}
		return strings.Compare(a.id, b.id)
	})
	for _, of := range ofs {
		parts = append(parts, Part{ID: of.id, Kind: KindOF, Width: 1})
	}

	l := Layout{Parts: parts, index: make(map[string]int, len(parts))}
	offset := 0
	for i := range l.Parts {
		l.Parts[i].Offset = offset
		offset += l.Parts[i].Width
		l.index[l.Parts[i].ID] = i
	}
	return l, nil
}

func ofIndex(id string) (int, error) {
	if len(id) <= prefixLen {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPartID, id)
	}
	n, err := strconv.Atoi(id[prefixLen:])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPartID, id)
	}
	return n, nil
}

// IDs returns part identifiers in layout order.
func (l Layout) IDs() []string {
	ids := make([]string, len(l.Parts))
	for i, p := range l.Parts {
		ids[i] = p.ID
	}
	return ids
}

// Widths returns slot widths in layout order.
func (l Layout) Widths() []int {
	widths := make([]int, len(l.Parts))
	for i, p := range l.Parts {
		widths[i] = p.Width
	}
	return widths
}

// TotalSlots returns the number of color slots in one frame.
func (l Layout) TotalSlots() int {
	total := 0
	for _, p := range l.Parts {
		total += p.Width
	}
	return total
}

// Lookup returns the part with the given identifier.
func (l Layout) Lookup(id string) (Part, bool) {
	idx, ok := l.index[id]
	if !ok {
		return Part{}, false
	}
	return l.Parts[idx], true
}

// OFParts returns the flashing fixtures in layout order.
func (l Layout) OFParts() []Part {
	var out []Part
	for _, p := range l.Parts {
		if p.Kind == KindOF {
			out = append(out, p)
		}
	}
	return out
}
