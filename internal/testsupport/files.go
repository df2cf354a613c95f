package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"lightdance/internal/config"
)

// A small show: one two-pixel LED strip and two OF fixtures at 30 fps.
const (
	ExampleControl = `{"fps": 30, "LEDPARTS": {"LED0": {"len": 2}}, "OFPARTS": {"OF1": {}, "OF0": {}}}`
	ExampleLED     = `{"LED0": [
		{"start": 10, "fade": false, "color": [[255, 0, 0, 255], [0, 0, 0, 0]]},
		{"start": 500, "fade": true, "color": [0, 0, 255, 255]}
	]}`
	ExampleOF = `[
		{"start": 10, "fade": true, "color": [0, 255, 0, 128]},
		{"start": 250, "fade": false, "color": [255, 255, 255, 255]}
	]`
)

// WriteShow writes the three input documents into cfg's input directory.
func WriteShow(t testing.TB, cfg *config.Config, control, led, of string) {
	t.Helper()

	WriteFile(t, cfg.ControlPath(), control)
	WriteFile(t, cfg.LEDPath(), led)
	WriteFile(t, cfg.OFPath(), of)
}

// WriteExampleShow writes ExampleControl, ExampleLED and ExampleOF.
func WriteExampleShow(t testing.TB, cfg *config.Config) {
	t.Helper()
	WriteShow(t, cfg, ExampleControl, ExampleLED, ExampleOF)
}

// WriteFile creates path and its parent directories with the given content.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ReadFile returns the content of path or fails the test.
func ReadFile(t testing.TB, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
