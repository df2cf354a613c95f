// Package convert runs one conversion of a light-dance show: it loads the
// control, LED and OF documents, merges their events into frames, and writes
// the frame-data and timing artifacts under an output directory lock.
package convert
