package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ParseYAML decodes a YAML document, rejecting unknown keys.
func ParseYAML(data []byte) (*Node, error) {
	var n Node
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&n); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: document is empty", ErrInvalidDocument)
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &n, nil
}
