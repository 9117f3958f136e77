package reconcile

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/gokepelemo/biensperience/internal/domain"
	"github.com/shopspring/decimal"
)

// Selection picks changeset entries by index into the Added, Removed and
// Modified slices of the exact changeset being applied.
type Selection struct {
	Added    []int `json:"added"`
	Removed  []int `json:"removed"`
	Modified []int `json:"modified"`
}

// SelectAll selects every entry of cs.
func SelectAll(cs Changeset) Selection {
	return Selection{
		Added:    seq(len(cs.Added)),
		Removed:  seq(len(cs.Removed)),
		Modified: seq(len(cs.Modified)),
	}
}

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool {
	return len(s.Added) == 0 && len(s.Removed) == 0 && len(s.Modified) == 0
}

// Normalize returns the selection with each list sorted and deduplicated.
func (s Selection) Normalize() Selection {
	return Selection{
		Added:    uniqueSorted(s.Added),
		Removed:  uniqueSorted(s.Removed),
		Modified: uniqueSorted(s.Modified),
	}
}

// Validate checks every index against cs.
func (s Selection) Validate(cs Changeset) error {
	if err := checkIndices("added", s.Added, len(cs.Added)); err != nil {
		return err
	}
	if err := checkIndices("removed", s.Removed, len(cs.Removed)); err != nil {
		return err
	}
	return checkIndices("modified", s.Modified, len(cs.Modified))
}

// ApplyChangeset returns a new item list with the selected entries of cs
// applied to plan. Neither plan nor cs is modified.
//
//   - added entries are appended as incomplete instances costed at the estimate
//   - removed entries drop every instance referencing that template
//   - modified entries take text, url, planning_days, photo and parent from
//     the template; Complete is never touched and Cost only changes when the
//     entry carries a cost diff
func ApplyChangeset(plan *domain.Plan, cs Changeset, sel Selection) ([]domain.PlanItemInstance, error) {
	if plan == nil {
		return nil, &InvalidInputError{Field: "plan", Reason: "is missing"}
	}
	if plan.Items == nil {
		return nil, &InvalidInputError{Field: "plan.plan", Reason: "is missing"}
	}
	if err := sel.Validate(cs); err != nil {
		return nil, err
	}

	items := make([]domain.PlanItemInstance, len(plan.Items), len(plan.Items)+len(sel.Added))
	copy(items, plan.Items)

	for _, i := range uniqueSorted(sel.Added) {
		a := cs.Added[i]
		items = append(items, domain.PlanItemInstance{
			ID:           domain.NewID(),
			PlanItemID:   a.ID,
			Text:         a.Text,
			URL:          a.URL,
			Cost:         a.Cost,
			PlanningDays: a.PlanningDays,
			Photo:        a.Photo,
			Parent:       a.Parent,
			Complete:     false,
		})
	}

	if len(sel.Removed) > 0 {
		drop := make(map[domain.ID]bool, len(sel.Removed))
		for _, i := range sel.Removed {
			drop[cs.Removed[i].PlanItemID] = true
		}
		kept := items[:0:0]
		for _, item := range items {
			if !drop[item.PlanItemID] {
				kept = append(kept, item)
			}
		}
		items = kept
	}

	for _, i := range uniqueSorted(sel.Modified) {
		m := cs.Modified[i]
		for j := range items {
			if items[j].PlanItemID != m.ID {
				continue
			}
			if err := applyModified(&items[j], m); err != nil {
				return nil, err
			}
		}
	}

	return items, nil
}

func applyModified(item *domain.PlanItemInstance, m ModifiedItem) error {
	for _, c := range m.Modifications {
		switch c.Field {
		case FieldText:
			s, err := asString(c.New)
			if err != nil {
				return fmt.Errorf("applying %s to %s: %w", c.Field, m.ID, err)
			}
			item.Text = s
		case FieldURL:
			s, err := asString(c.New)
			if err != nil {
				return fmt.Errorf("applying %s to %s: %w", c.Field, m.ID, err)
			}
			item.URL = s
		case FieldPlanningDays:
			n, err := asInt(c.New)
			if err != nil {
				return fmt.Errorf("applying %s to %s: %w", c.Field, m.ID, err)
			}
			item.PlanningDays = n
		case FieldCost:
			d, err := asDecimal(c.New)
			if err != nil {
				return fmt.Errorf("applying %s to %s: %w", c.Field, m.ID, err)
			}
			item.Cost = d
		default:
			return fmt.Errorf("applying %s: unknown field %q", m.ID, c.Field)
		}
	}
	item.Photo = m.Photo
	item.Parent = m.Parent
	return nil
}

// The as* helpers accept both the typed values ComputeChangeset produces
// and the generic values a changeset decoded from JSON carries.

func asString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

func asInt(v any) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) || x > math.MaxInt32 || x < math.MinInt32 {
			return 0, fmt.Errorf("expected integer, got %v", x)
		}
		return int(x), nil
	case json.Number:
		n, err := x.Int64()
		return int(n), err
	case string:
		return strconv.Atoi(x)
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}

func asDecimal(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, nil
	case int:
		return decimal.NewFromInt(int64(x)), nil
	case int64:
		return decimal.NewFromInt(x), nil
	case float64:
		return decimal.NewFromFloat(x), nil
	case json.Number:
		return decimal.NewFromString(x.String())
	case string:
		return decimal.NewFromString(x)
	default:
		return decimal.Zero, fmt.Errorf("expected number, got %T", v)
	}
}

func checkIndices(kind string, idx []int, n int) error {
	for _, i := range idx {
		if i < 0 || i >= n {
			return fmt.Errorf("%w: %s index %d out of range [0,%d)", ErrInvalidSelection, kind, i, n)
		}
	}
	return nil
}

func uniqueSorted(idx []int) []int {
	if len(idx) == 0 {
		return nil
	}
	out := make([]int, len(idx))
	copy(out, idx)
	sort.Ints(out)
	n := 1
	for i := 1; i < len(out); i++ {
		if out[i] != out[n-1] {
			out[n] = out[i]
			n++
		}
	}
	return out[:n]
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
