package importer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gokepelemo/biensperience/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Convert transforms a validated ImportSchema into an experience ready for
// persistence. Call ValidateImportSchema first; Convert assumes the schema is
// valid. owner is used when the file names none.
func Convert(schema *ImportSchema, owner string) (*domain.Experience, error) {
	now := time.Now().UTC().Truncate(time.Second)

	if schema.Experience.Owner != "" {
		owner = schema.Experience.Owner
	}
	exp := &domain.Experience{
		ID:          domain.NewID(),
		Name:        schema.Experience.Name,
		Destination: schema.Experience.Destination,
		OwnerID:     owner,
		Items:       make([]domain.PlanItemTemplate, 0, len(schema.Items)),
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	refMap := make(map[string]domain.ID, len(schema.Items)) // ref -> ID
	for _, it := range schema.Items {
		refMap[it.Ref] = domain.NewID()
	}

	for _, it := range schema.Items {
		item := domain.PlanItemTemplate{
			ID:           refMap[it.Ref],
			Text:         it.Text,
			URL:          it.URL,
			CostEstimate: decimal.Zero,
			Photo:        domain.ParseID(it.Photo),
		}
		if it.CostEstimate != nil {
			item.CostEstimate = it.CostEstimate.Decimal
		}
		if it.PlanningDays != nil {
			item.PlanningDays = *it.PlanningDays
		}
		if it.ParentRef != nil && *it.ParentRef != "" {
			pid, ok := refMap[*it.ParentRef]
			if !ok {
				return nil, fmt.Errorf("item %q: unknown parent_ref %q", it.Ref, *it.ParentRef)
			}
			item.Parent = pid
		}
		exp.Items = append(exp.Items, item)
	}

	return exp, nil
}

// FromExperience builds an import schema that reproduces e. Item ids become refs.
func FromExperience(e *domain.Experience) *ImportSchema {
	schema := &ImportSchema{
		Experience: ExperienceImport{
			Name:        e.Name,
			Destination: e.Destination,
			Owner:       e.OwnerID,
		},
		Items: make([]ItemImport, 0, len(e.Items)),
	}
	for _, t := range e.Items {
		it := ItemImport{
			Ref:   t.ID.String(),
			Text:  t.Text,
			URL:   t.URL,
			Photo: t.Photo.String(),
		}
		if !t.Parent.IsZero() {
			parent := t.Parent.String()
			it.ParentRef = &parent
		}
		if !t.CostEstimate.IsZero() {
			it.CostEstimate = &Amount{Decimal: t.CostEstimate}
		}
		if t.PlanningDays != 0 {
			days := t.PlanningDays
			it.PlanningDays = &days
		}
		schema.Items = append(schema.Items, it)
	}
	return schema
}

// Marshal encodes the schema in the given format.
func (s *ImportSchema) Marshal(format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(s)
	case FormatJSON:
		return json.MarshalIndent(s, "", "  ")
	default:
		return nil, fmt.Errorf("unsupported import format %q", format)
	}
}
