// Package playback reads the frame-data and timing artifacts back the way
// the playback device does: it indexes the byte offset of every frame block
// once, then seeks straight to a frame on demand.
//
// Both output variants are understood. Raw frames keep their alpha channel;
// hex frames are premultiplied, so their slots carry alpha 255 when any
// channel is lit and 0 otherwise.
package playback

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"lightdance/internal/frameformat"
	"lightdance/internal/show"
)

var (
	// ErrFrameOutOfRange reports a frame index outside the indexed frames.
	ErrFrameOutOfRange = errors.New("frame index out of range")
	// ErrNotFound reports a search that matched no frame.
	ErrNotFound = errors.New("no matching frame")
)

// Frame is one decoded frame block.
type Frame struct {
	Index int         `json:"index"`
	Start int         `json:"start"`
	Fade  bool        `json:"fade"`
	Slots []show.RGBA `json:"slots"`
}

// Reader serves frames from an indexed data artifact.
type Reader struct {
	file    *os.File
	variant frameformat.Variant
	widths  []int
	slots   int
	fps     int
	times   []int
	offsets []int64
}

// Open indexes the data artifact and loads the timing artifact.
func Open(dataPath, timesPath string, variant frameformat.Variant) (*Reader, error) {
	if variant == "" {
		variant = frameformat.VariantHex
	}
	times, err := loadTimes(timesPath)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(dataPath)
	if err != nil {
		return nil, fmt.Errorf("open frame data: %w", err)
	}
	r := &Reader{file: file, variant: variant, times: times}
	if err := r.index(); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("index %s: %w", dataPath, err)
	}
	if len(r.offsets) != len(r.times) {
		_ = file.Close()
		return nil, fmt.Errorf("frame count mismatch: %s has %d frames, %s has %d times",
			dataPath, len(r.offsets), timesPath, len(r.times))
	}
	return r, nil
}

// Close releases the data artifact.
func (r *Reader) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	return r.file.Close()
}

// FrameCount returns the number of indexed frames.
func (r *Reader) FrameCount() int { return len(r.offsets) }

// FPS returns the header frame rate.
func (r *Reader) FPS() int { return r.fps }

// Widths returns the header slot widths.
func (r *Reader) Widths() []int { return append([]int(nil), r.widths...) }

// TotalSlots returns the number of slots in one frame.
func (r *Reader) TotalSlots() int { return r.slots }

// Times returns the frame start times.
func (r *Reader) Times() []int { return append([]int(nil), r.times...) }

func loadTimes(path string) ([]int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open frame times: %w", err)
	}
	defer file.Close()

	var times []int
	scanner := bufio.NewScanner(file)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		v, err := strconv.Atoi(text)
		if err != nil {
			return nil, fmt.Errorf("frame times line %d: %w", line, err)
		}
		times = append(times, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read frame times: %w", err)
	}
	return times, nil
}

// offsetReader reads lines while tracking the byte offset of the next line.
type offsetReader struct {
	br  *bufio.Reader
	pos int64
}

// next returns the next line without its terminator. It returns io.EOF only
// when no bytes remain.
func (o *offsetReader) next() (string, error) {
	line, err := o.br.ReadString('\n')
	o.pos += int64(len(line))
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (r *Reader) linesPerFrame() int {
	if r.variant == frameformat.VariantRaw {
		return r.slots
	}
	return 1
}

func (r *Reader) index() error {
	or := &offsetReader{br: bufio.NewReader(r.file)}

	countLine, err := or.next()
	if err != nil {
		return fmt.Errorf("read part count: %w", err)
	}
	parts, err := strconv.Atoi(strings.TrimSpace(countLine))
	if err != nil {
		return fmt.Errorf("part count: %w", err)
	}
	widthLine, err := or.next()
	if err != nil {
		return fmt.Errorf("read part widths: %w", err)
	}
	for _, field := range strings.Fields(widthLine) {
		w, err := strconv.Atoi(field)
		if err != nil {
			return fmt.Errorf("part width: %w", err)
		}
		r.widths = append(r.widths, w)
		r.slots += w
	}
	if len(r.widths) != parts {
		return fmt.Errorf("header declares %d parts but lists %d widths", parts, len(r.widths))
	}
	fpsLine, err := or.next()
	if err != nil {
		return fmt.Errorf("read fps: %w", err)
	}
	if r.fps, err = strconv.Atoi(strings.TrimSpace(fpsLine)); err != nil {
		return fmt.Errorf("fps: %w", err)
	}

	perFrame := r.linesPerFrame()
	for {
		offset := or.pos
		if _, err := or.next(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		for i := 0; i < perFrame; i++ {
			if _, err := or.next(); err != nil {
				// A hex frame without slots ends in an empty final line.
				if errors.Is(err, io.EOF) && r.slots == 0 {
					break
				}
				return fmt.Errorf("frame %d truncated: %w", len(r.offsets), err)
			}
		}
		r.offsets = append(r.offsets, offset)
	}
}

// ReadFrame decodes the frame at index i.
func (r *Reader) ReadFrame(i int) (Frame, error) {
	if i < 0 || i >= len(r.offsets) {
		return Frame{}, fmt.Errorf("%w: %d of %d", ErrFrameOutOfRange, i, len(r.offsets))
	}
	if _, err := r.file.Seek(r.offsets[i], io.SeekStart); err != nil {
		return Frame{}, fmt.Errorf("seek frame %d: %w", i, err)
	}
	or := &offsetReader{br: bufio.NewReader(r.file)}
	fadeLine, err := or.next()
	if err != nil {
		return Frame{}, fmt.Errorf("read frame %d: %w", i, err)
	}
	frame := Frame{
		Index: i,
		Start: r.times[i],
		Fade:  strings.Contains(fadeLine, "true"),
		Slots: make([]show.RGBA, 0, r.slots),
	}

	if r.variant == frameformat.VariantRaw {
		for s := 0; s < r.slots; s++ {
			line, err := or.next()
			if err != nil {
				return Frame{}, fmt.Errorf("read frame %d slot %d: %w", i, s, err)
			}
			c, err := parseRaw(line)
			if err != nil {
				return Frame{}, fmt.Errorf("frame %d slot %d: %w", i, s, err)
			}
			frame.Slots = append(frame.Slots, c)
		}
		return frame, nil
	}

	line, err := or.next()
	if err != nil && !(errors.Is(err, io.EOF) && r.slots == 0) {
		return Frame{}, fmt.Errorf("read frame %d colors: %w", i, err)
	}
	if len(line) != 6*r.slots {
		return Frame{}, fmt.Errorf("frame %d: color line has %d hex digits, want %d", i, len(line), 6*r.slots)
	}
	for s := 0; s < r.slots; s++ {
		c, err := parseHex(line[s*6 : s*6+6])
		if err != nil {
			return Frame{}, fmt.Errorf("frame %d slot %d: %w", i, s, err)
		}
		frame.Slots = append(frame.Slots, c)
	}
	return frame, nil
}

func parseRaw(line string) (show.RGBA, error) {
	fields := strings.Fields(line)
	if len(fields) != 4 {
		return show.RGBA{}, fmt.Errorf("expected 4 channels, got %q", line)
	}
	var c show.RGBA
	for i, field := range fields {
		v, err := strconv.ParseUint(field, 10, 8)
		if err != nil {
			return show.RGBA{}, fmt.Errorf("channel %d: %w", i, err)
		}
		c[i] = uint8(v)
	}
	return c, nil
}

func parseHex(digits string) (show.RGBA, error) {
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return show.RGBA{}, err
	}
	c := show.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v)}
	if v != 0 {
		c[show.Alpha] = 255
	}
	return c, nil
}

// IndexAt returns the index of the frame showing at time t: the last frame
// whose start is not after t. It returns -1 when t precedes the first frame.
func (r *Reader) IndexAt(t int) int {
	for i, start := range r.times {
		if start > t {
			return i - 1
		}
	}
	return len(r.times) - 1
}

// FrameAt returns the frame showing at time t.
func (r *Reader) FrameAt(t int) (Frame, error) {
	idx := r.IndexAt(t)
	if idx < 0 {
		return Frame{}, fmt.Errorf("%w: time %d precedes the first frame", ErrNotFound, t)
	}
	return r.ReadFrame(idx)
}

// KthLit returns the k-th (zero based) frame in which the given slot is lit.
func (r *Reader) KthLit(slot, k int) (Frame, error) {
	if slot < 0 || slot >= r.slots {
		return Frame{}, fmt.Errorf("slot %d out of range (frame has %d slots)", slot, r.slots)
	}
	count := 0
	for i := range r.offsets {
		frame, err := r.ReadFrame(i)
		if err != nil {
			return Frame{}, err
		}
		if frame.Slots[slot].IsLit() {
			if count == k {
				return frame, nil
			}
			count++
		}
	}
	return Frame{}, fmt.Errorf("%w: slot %d is lit in %d frames", ErrNotFound, slot, count)
}
