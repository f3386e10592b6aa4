package domain

import (
	"maps"
	"slices"
	"strings"
)

// Path is an ordered sequence of taxonomy names from a root to a chosen node.
type Path []string

func (p Path) String() string { return strings.Join(p, " > ") }

// Equal reports whether both paths name the same nodes in the same order.
func (p Path) Equal(o Path) bool { return slices.Equal(p, o) }

func (p Path) clone() Path { return slices.Clone(p) }

// SelectionNode maps a taxonomy name to the selection below it.
//
// A key is present when that subject, or one of its descendants, is selected.
// A node without keys ends a selected path. The zero value is not usable as a
// root; build roots with NewSelectionNode.
type SelectionNode map[string]SelectionNode

func NewSelectionNode() SelectionNode { return SelectionNode{} }

// Lookup follows path from n and returns the node it ends at.
func (n SelectionNode) Lookup(path Path) (SelectionNode, bool) {
	cur := n
	for _, name := range path {
		next, ok := cur[name]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Ensure creates every missing node along path. It reports whether anything was created.
func (n SelectionNode) Ensure(path Path) bool {
	created := false
	cur := n
	for _, name := range path {
		next, ok := cur[name]
		if !ok {
			next = SelectionNode{}
			cur[name] = next
			created = true
		}
		cur = next
	}
	return created
}

// Delete removes the node at path together with its subtree. Ancestors are kept.
// Deleting a path that is not present is a no-op and reports false.
func (n SelectionNode) Delete(path Path) bool {
	if len(path) == 0 {
		return false
	}
	if len(path) == 1 {
		if _, ok := n[path[0]]; !ok {
			return false
		}
		delete(n, path[0])
		return true
	}
	child, ok := n[path[0]]
	if !ok {
		return false
	}
	return child.Delete(path[1:])
}

// Flatten lists every selected path, depth first, siblings in ascending name order.
func (n SelectionNode) Flatten() []Path {
	out := []Path{}
	var walk func(node SelectionNode, prefix Path)
	walk = func(node SelectionNode, prefix Path) {
		if len(node) == 0 {
			if len(prefix) != 0 {
				out = append(out, prefix.clone())
			}
			return
		}
		for _, key := range slices.Sorted(maps.Keys(node)) {
			walk(node[key], append(prefix[:len(prefix):len(prefix)], key))
		}
	}
	walk(n, nil)
	return out
}

// Clone returns a deep copy.
func (n SelectionNode) Clone() SelectionNode {
	out := make(SelectionNode, len(n))
	for k, v := range n {
		out[k] = v.Clone()
	}
	return out
}

// Selection is the in-progress subject selection of one submission together
// with the breadcrumb whose levels are on display.
type Selection struct {
	root    SelectionNode
	current []Subject
}

func NewSelection() *Selection {
	return &Selection{root: NewSelectionNode()}
}

// Select marks the clicked breadcrumb as selected, creating its ancestors.
//
// Clicking the deepest displayed node again, while nothing below it is
// selected, toggles it off instead; the displayed breadcrumb then moves up to
// its parent. It reports whether the node ended up selected.
func (s *Selection) Select(crumbs []Subject) bool {
	crumbs = namedOnly(crumbs)
	if len(crumbs) == 0 {
		return false
	}
	path := crumbPath(crumbs)

	if s.isReselect(crumbs) {
		s.root.Delete(path)
		s.current = slices.Clone(crumbs[:len(crumbs)-1])
		return false
	}

	s.root.Ensure(path)
	s.current = slices.Clone(crumbs)
	return true
}

func (s *Selection) isReselect(crumbs []Subject) bool {
	if len(crumbs) != len(s.current) {
		return false
	}
	for i := range crumbs {
		if crumbs[i].Name != s.current[i].Name {
			return false
		}
	}
	node, ok := s.root.Lookup(crumbPath(crumbs))
	return ok && len(node) == 0
}

// Deselect removes the node named by path and everything selected below it.
// Empty names are dropped first; unknown paths are ignored.
func (s *Selection) Deselect(path Path) bool {
	return s.root.Delete(dropEmpty(path))
}

// Add selects path without moving the displayed breadcrumb and without the
// reselect toggle. Used when a selection is restored from a file.
func (s *Selection) Add(path Path) bool {
	return s.root.Ensure(dropEmpty(path))
}

// DeselectCrumbs is Deselect for a breadcrumb.
func (s *Selection) DeselectCrumbs(crumbs []Subject) bool {
	return s.Deselect(crumbPath(namedOnly(crumbs)))
}

// Flatten is the submission form of the selection.
func (s *Selection) Flatten() []Path { return s.root.Flatten() }

// Current returns a copy of the displayed breadcrumb.
func (s *Selection) Current() []Subject { return slices.Clone(s.current) }

// Tree returns a deep copy of the selection tree.
func (s *Selection) Tree() SelectionNode { return s.root.Clone() }

// IsSelected reports whether path is on a selected branch.
func (s *Selection) IsSelected(path Path) bool {
	_, ok := s.root.Lookup(path)
	return ok && len(path) > 0
}

// Reset drops the selection and the breadcrumb.
func (s *Selection) Reset() {
	s.root = NewSelectionNode()
	s.current = nil
}

func namedOnly(crumbs []Subject) []Subject {
	out := make([]Subject, 0, len(crumbs))
	for _, c := range crumbs {
		if c.Name != "" {
			out = append(out, c)
		}
	}
	return out
}

func crumbPath(crumbs []Subject) Path {
	p := make(Path, len(crumbs))
	for i, c := range crumbs {
		p[i] = c.Name
	}
	return p
}

func dropEmpty(path Path) Path {
	clean := make(Path, 0, len(path))
	for _, name := range path {
		if name != "" {
			clean = append(clean, name)
		}
	}
	return clean
}
