package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ID is the canonical identity of every entity. Upstream payloads carry ids
// as plain strings, bare numbers, or object-id wrappers such as
// {"$oid": "..."}; all of them decode to the same ID so equality is plain ==.
type ID string

// NewID returns a fresh random ID.
func NewID() ID {
	return ID(uuid.New().String())
}

// ParseID normalizes a raw identifier string.
func ParseID(s string) ID {
	return ID(strings.TrimSpace(s))
}

func (id ID) String() string { return string(id) }

// IsZero reports whether the ID is empty.
func (id ID) IsZero() bool { return id == "" }

// Short returns the first 8 characters for display.
func (id ID) Short() string {
	if len(id) > 8 {
		return string(id[:8])
	}
	return string(id)
}

// Ptr returns nil for the zero ID so optional references serialize as null.
func (id ID) Ptr() *ID {
	if id.IsZero() {
		return nil
	}
	return &id
}

var objectIDKeys = []string{"$oid", "_id", "id"}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding id: %w", err)
		}
		*id = ParseID(s)
		return nil
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("decoding id object: %w", err)
		}
		for _, key := range objectIDKeys {
			if raw, ok := obj[key]; ok {
				return id.UnmarshalJSON(raw)
			}
		}
		return fmt.Errorf("decoding id object: none of %v present", objectIDKeys)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("decoding id: %w", err)
		}
		*id = ParseID(n.String())
		return nil
	}
}

func (id *ID) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*id = ""
			return nil
		}
		*id = ParseID(node.Value)
		return nil
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			for _, key := range objectIDKeys {
				if node.Content[i].Value == key {
					return id.UnmarshalYAML(node.Content[i+1])
				}
			}
		}
		return fmt.Errorf("line %d: id mapping has none of %v", node.Line, objectIDKeys)
	default:
		return fmt.Errorf("line %d: id must be a scalar or mapping", node.Line)
	}
}
