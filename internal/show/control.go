package show

import (
	"encoding/json"
	"fmt"
)

// LEDPart describes one addressable strip.
type LEDPart struct {
	ID  string
	Len int
}

// OFPart describes one flashing fixture. Only its identity is used.
type OFPart struct {
	ID string
}

// Control holds the frame rate and the fixture inventory. LEDParts keeps the
// insertion order of the LEDPARTS mapping; OFParts keeps document order and is
// reordered by the layout builder.
type Control struct {
	FPS      int
	LEDParts []LEDPart
	OFParts  []OFPart
}

type ledDescriptor struct {
	Len *int `json:"len"`
}

// UnmarshalJSON decodes control.json, preserving LEDPARTS key order.
func (c *Control) UnmarshalJSON(data []byte) error {
	var out Control
	var seenFPS, seenLED, seenOF bool
	ledIndex := map[string]int{}
	ofIndex := map[string]int{}
	err := walkObject(data, func(key string, dec *json.Decoder) error {
		switch key {
		case "fps":
			seenFPS = true
			if err := dec.Decode(&out.FPS); err != nil {
				return fmt.Errorf("fps: %w", err)
			}
		case "LEDPARTS":
			seenLED = true
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return fmt.Errorf("LEDPARTS: %w", err)
			}
			return walkObject(raw, func(id string, dec *json.Decoder) error {
				var desc ledDescriptor
				if err := dec.Decode(&desc); err != nil {
					return fmt.Errorf("LEDPARTS.%s: %w", id, err)
				}
				if desc.Len == nil {
					return fmt.Errorf("LEDPARTS.%s: %w", id, missing("len"))
				}
				part := LEDPart{ID: id, Len: *desc.Len}
				if idx, ok := ledIndex[id]; ok {
					out.LEDParts[idx] = part
					return nil
				}
				ledIndex[id] = len(out.LEDParts)
				out.LEDParts = append(out.LEDParts, part)
				return nil
			})
		case "OFPARTS":
			seenOF = true
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return fmt.Errorf("OFPARTS: %w", err)
			}
			return walkObject(raw, func(id string, dec *json.Decoder) error {
				if err := skipValue(dec); err != nil {
					return fmt.Errorf("OFPARTS.%s: %w", id, err)
				}
				if _, ok := ofIndex[id]; ok {
					return nil
				}
				ofIndex[id] = len(out.OFParts)
				out.OFParts = append(out.OFParts, OFPart{ID: id})
				return nil
			})
		default:
			return skipValue(dec)
		}
		return nil
	})
	if err != nil {
		return err
	}
	switch {
	case !seenFPS:
		return missing("fps")
	case !seenLED:
		return missing("LEDPARTS")
	case !seenOF:
		return missing("OFPARTS")
	}
	*c = out
	return nil
}
