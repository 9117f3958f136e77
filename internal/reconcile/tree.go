package reconcile

import "github.com/gokepelemo/biensperience/internal/domain"

// ChildIndex is the adjacency view of a flat item list whose entries point
// at their parent. Build it once per snapshot instead of rescanning the list
// for every node.
type ChildIndex struct {
	roots    []domain.ID
	children map[domain.ID][]domain.ID
}

// IndexTemplates indexes experience items by their own id.
func IndexTemplates(items []domain.PlanItemTemplate) ChildIndex {
	return buildChildIndex(len(items), func(i int) (domain.ID, domain.ID) {
		return items[i].ID, items[i].Parent
	})
}

// IndexInstances indexes plan items by PlanItemID, since an instance's
// Parent is copied from its template and refers to a template id.
func IndexInstances(items []domain.PlanItemInstance) ChildIndex {
	return buildChildIndex(len(items), func(i int) (domain.ID, domain.ID) {
		return items[i].PlanItemID, items[i].Parent
	})
}

// buildChildIndex keeps input order. An item whose parent is absent from the
// list is a root.
func buildChildIndex(n int, at func(i int) (id, parent domain.ID)) ChildIndex {
	present := make(map[domain.ID]bool, n)
	for i := 0; i < n; i++ {
		id, _ := at(i)
		present[id] = true
	}

	ci := ChildIndex{children: make(map[domain.ID][]domain.ID)}
	for i := 0; i < n; i++ {
		id, parent := at(i)
		if parent.IsZero() || parent == id || !present[parent] {
			ci.roots = append(ci.roots, id)
			continue
		}
		ci.children[parent] = append(ci.children[parent], id)
	}
	return ci
}

// Roots returns the top-level ids in input order.
func (ci ChildIndex) Roots() []domain.ID {
	return ci.roots
}

// Children returns the direct children of id in input order.
func (ci ChildIndex) Children(id domain.ID) []domain.ID {
	return ci.children[id]
}

// Descendants returns every id below id, depth first.
func (ci ChildIndex) Descendants(id domain.ID) []domain.ID {
	var out []domain.ID
	seen := map[domain.ID]bool{id: true}
	var walk func(domain.ID)
	walk = func(cur domain.ID) {
		for _, child := range ci.children[cur] {
			if seen[child] {
				continue
			}
			seen[child] = true
			out = append(out, child)
			walk(child)
		}
	}
	walk(id)
	return out
}
