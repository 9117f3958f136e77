package importer

import (
	"fmt"
	"net/url"
)

// ValidateImportSchema checks the import schema for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	if schema.Experience.Name == "" {
		errs = append(errs, fmt.Errorf("experience.name is required"))
	}

	refs := make(map[string]int, len(schema.Items))
	for i, item := range schema.Items {
		prefix := fmt.Sprintf("items[%d]", i)
		if item.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if prev, dup := refs[item.Ref]; dup {
			errs = append(errs, fmt.Errorf("%s.ref %q duplicates items[%d]", prefix, item.Ref, prev))
		} else {
			refs[item.Ref] = i
		}
		errs = append(errs, validateItem(prefix, &item)...)
	}

	for i, item := range schema.Items {
		if item.ParentRef == nil || *item.ParentRef == "" {
			continue
		}
		prefix := fmt.Sprintf("items[%d]", i)
		parentIdx, ok := refs[*item.ParentRef]
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("%s.parent_ref %q does not match any item", prefix, *item.ParentRef))
		case *item.ParentRef == item.Ref:
			errs = append(errs, fmt.Errorf("%s.parent_ref cannot reference itself", prefix))
		default:
			if p := schema.Items[parentIdx].ParentRef; p != nil && *p != "" {
				errs = append(errs, fmt.Errorf("%s.parent_ref %q is itself a child; items nest one level deep", prefix, *item.ParentRef))
			}
		}
	}

	return errs
}

func validateItem(prefix string, item *ItemImport) []error {
	var errs []error

	if item.Text == "" {
		errs = append(errs, fmt.Errorf("%s.text is required", prefix))
	}
	if item.URL != "" {
		if u, err := url.Parse(item.URL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("%s.url %q is not an absolute URL", prefix, item.URL))
		}
	}
	if item.CostEstimate != nil && item.CostEstimate.IsNegative() {
		errs = append(errs, fmt.Errorf("%s.cost_estimate must not be negative", prefix))
	}
	if item.PlanningDays != nil && *item.PlanningDays < 0 {
		errs = append(errs, fmt.Errorf("%s.planning_days must not be negative", prefix))
	}

	return errs
}
