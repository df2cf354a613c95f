package show

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingField reports a required key absent from a document.
var ErrMissingField = errors.New("missing required field")

func missing(field string) error {
	return fmt.Errorf("%w %q", ErrMissingField, field)
}

// walkObject visits the members of a JSON object in document order. The
// visitor decodes the value via dec; it must consume exactly one value.
func walkObject(data []byte, visit func(key string, dec *json.Decoder) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		if err := visit(key, dec); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

func skipValue(dec *json.Decoder) error {
	var discard json.RawMessage
	return dec.Decode(&discard)
}
