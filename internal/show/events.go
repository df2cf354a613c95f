package show

import (
	"encoding/json"
	"fmt"
)

// LEDEvent is one timed color change for an LED strip.
type LEDEvent struct {
	Start int   `json:"start"`
	Fade  bool  `json:"fade"`
	Color Color `json:"color"`
}

// UnmarshalJSON requires start, fade and color.
func (e *LEDEvent) UnmarshalJSON(data []byte) error {
	var aux struct {
		Start *int   `json:"start"`
		Fade  *bool  `json:"fade"`
		Color *Color `json:"color"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	switch {
	case aux.Start == nil:
		return missing("start")
	case aux.Fade == nil:
		return missing("fade")
	case aux.Color == nil:
		return missing("color")
	}
	*e = LEDEvent{Start: *aux.Start, Fade: *aux.Fade, Color: *aux.Color}
	return nil
}

// LEDTrack is the event list of one LED part, in document order.
type LEDTrack struct {
	Part   string
	Events []LEDEvent
}

// LEDDocument is LED.json: tracks in the order their keys appear.
type LEDDocument []LEDTrack

// UnmarshalJSON decodes LED.json, preserving part key order.
func (d *LEDDocument) UnmarshalJSON(data []byte) error {
	var out LEDDocument
	index := map[string]int{}
	err := walkObject(data, func(part string, dec *json.Decoder) error {
		var raw []json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("part %s: %w", part, err)
		}
		events := make([]LEDEvent, len(raw))
		for i, msg := range raw {
			if err := json.Unmarshal(msg, &events[i]); err != nil {
				return fmt.Errorf("part %s event %d: %w", part, i, err)
			}
		}
		track := LEDTrack{Part: part, Events: events}
		if idx, ok := index[part]; ok {
			out[idx] = track
			return nil
		}
		index[part] = len(out)
		out = append(out, track)
		return nil
	})
	if err != nil {
		return err
	}
	*d = out
	return nil
}

// EventCount returns the number of LED events across all tracks.
func (d LEDDocument) EventCount() int {
	total := 0
	for _, track := range d {
		total += len(track.Events)
	}
	return total
}

// OFEvent is one timed color applied to every flashing fixture.
type OFEvent struct {
	Start int  `json:"start"`
	Fade  bool `json:"fade"`
	Color RGBA `json:"color"`
}

// UnmarshalJSON requires start, fade and color.
func (e *OFEvent) UnmarshalJSON(data []byte) error {
	var aux struct {
		Start *int  `json:"start"`
		Fade  *bool `json:"fade"`
		Color *RGBA `json:"color"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	switch {
	case aux.Start == nil:
		return missing("start")
	case aux.Fade == nil:
		return missing("fade")
	case aux.Color == nil:
		return missing("color")
	}
	*e = OFEvent{Start: *aux.Start, Fade: *aux.Fade, Color: *aux.Color}
	return nil
}

// OFDocument is OF.json.
type OFDocument []OFEvent

// UnmarshalJSON decodes OF.json, reporting the index of a bad event.
func (d *OFDocument) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(OFDocument, len(raw))
	for i, msg := range raw {
		if err := json.Unmarshal(msg, &out[i]); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
	}
	*d = out
	return nil
}
