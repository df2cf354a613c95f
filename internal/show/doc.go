// Package show defines the typed model of the three light dance documents and
// decodes them from JSON.
//
// The documents are control.json (frame rate and fixture inventory), LED.json
// (per-strip timed color events) and OF.json (global timed colors for the
// flashing fixtures). Object key order is significant in two places: the
// LEDPARTS mapping fixes the LED section of the part order, and the LED.json
// mapping fixes the order in which LED events are merged. Both are decoded
// with a token-level walker so insertion order survives.
//
// # Key Types
//
// Control: fps plus ordered LED parts and OF parts.
//
// Color: tagged variant holding either one RGBA quadruple or a per-pixel
// list; the shape is decided once while decoding.
//
// LEDTrack / LEDEvent / OFEvent: the timed events.
//
// # Entry Points
//
// Load reads all three documents from disk. DecodeControl, DecodeLED and
// DecodeOF decode a single document from a reader.
package show
