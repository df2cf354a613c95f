// Package frameformat renders merged frames into the two flat text artifacts
// read by the playback device.
//
// The data artifact starts with a three line header (part count, space
// separated slot widths, fps) followed by one block per frame: a lowercase
// true/false fade line and the frame's color slots in layout order. The hex
// variant packs every slot of a frame into one line of six digit
// alpha-premultiplied colors; the raw variant writes one "R G B A" line per
// slot. The timing artifact lists frame start times, one per line, in the
// same order as the data blocks.
//
// Lines are joined with "\n" and the last line is unterminated unless
// Options.TrailingNewline is set.
package frameformat
