package show

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Paths names the three input documents.
type Paths struct {
	Control string
	LED     string
	OF      string
}

// Documents bundles the decoded inputs of one conversion.
type Documents struct {
	Control Control
	LED     LEDDocument
	OF      OFDocument
}

// Load reads and decodes all three documents.
func Load(paths Paths) (*Documents, error) {
	var docs Documents
	if err := decodeFile(paths.Control, &docs.Control); err != nil {
		return nil, err
	}
	if err := decodeFile(paths.LED, &docs.LED); err != nil {
		return nil, err
	}
	if err := decodeFile(paths.OF, &docs.OF); err != nil {
		return nil, err
	}
	return &docs, nil
}

// DecodeControl decodes a control document.
func DecodeControl(r io.Reader) (Control, error) {
	var c Control
	err := decode(r, &c)
	return c, err
}

// DecodeLED decodes an LED document.
func DecodeLED(r io.Reader) (LEDDocument, error) {
	var d LEDDocument
	err := decode(r, &d)
	return d, err
}

// DecodeOF decodes an OF document.
func DecodeOF(r io.Reader) (OFDocument, error) {
	var d OFDocument
	err := decode(r, &d)
	return d, err
}

func decodeFile(path string, v any) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	if err := decode(file, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func decode(r io.Reader, v any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
