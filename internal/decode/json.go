package decode

import (
	"encoding/json"
	"fmt"
)

// ParseJSON decodes structured JSON bytes into a generic value.
func ParseJSON(content []byte) (any, error) {
	var value any
	if err := json.Unmarshal(content, &value); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return value, nil
}
