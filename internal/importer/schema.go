package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Format names the encoding of an import file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension. Anything that is
// not .yaml or .yml is read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ImportSchema is the top-level structure of an experience import file.
type ImportSchema struct {
	Experience ExperienceImport `json:"experience" yaml:"experience"`
	Items      []ItemImport     `json:"items" yaml:"items"`
}

// ExperienceImport defines the experience-level fields in the import file.
type ExperienceImport struct {
	Name        string `json:"name" yaml:"name"`
	Destination string `json:"destination,omitempty" yaml:"destination,omitempty"`
	Owner       string `json:"owner,omitempty" yaml:"owner,omitempty"`
}

// ItemImport defines one template item. Ref is file-local; parent_ref must
// name another item's ref.
type ItemImport struct {
	Ref          string  `json:"ref" yaml:"ref"`
	ParentRef    *string `json:"parent_ref,omitempty" yaml:"parent_ref,omitempty"`
	Text         string  `json:"text" yaml:"text"`
	URL          string  `json:"url,omitempty" yaml:"url,omitempty"`
	CostEstimate *Amount `json:"cost_estimate,omitempty" yaml:"cost_estimate,omitempty"`
	PlanningDays *int    `json:"planning_days,omitempty" yaml:"planning_days,omitempty"`
	Photo        string  `json:"photo,omitempty" yaml:"photo,omitempty"`
}

// Amount is a money value written either as a bare number or a quoted string.
type Amount struct {
	decimal.Decimal
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(bytes.TrimSpace(data), `"`)
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("invalid amount %s: %w", data, err)
	}
	a.Decimal = d
	return nil
}

func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: amount must be a scalar", node.Line)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(node.Value))
	if err != nil {
		return fmt.Errorf("line %d: invalid amount %q: %w", node.Line, node.Value, err)
	}
	a.Decimal = d
	return nil
}

func (a Amount) MarshalYAML() (interface{}, error) {
	return a.String(), nil
}

// LoadImportSchema reads and parses an experience import file, choosing the
// decoder from the file extension.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseImportSchema(data, FormatFromPath(path))
}

// ParseImportSchema decodes raw import data in the given format.
func ParseImportSchema(data []byte, format Format) (*ImportSchema, error) {
	var schema ImportSchema
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&schema); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&schema); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported import format %q", format)
	}
	return &schema, nil
}
