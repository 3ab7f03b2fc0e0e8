// Package catalog builds the read-only category index that suggestion
// resolution and search run against.
package catalog

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/Veraticus/moneyspice/internal/model"
)

// ErrMalformedCatalog is returned when the raw hierarchy cannot be indexed.
// No partial catalog is ever produced.
var ErrMalformedCatalog = errors.New("malformed category catalog")

// Tree is an immutable index over one load of the category catalog.
// It is safe for concurrent readers.
type Tree struct {
	byID     map[string]int
	byPath   map[string]int
	children map[string][]int
	nodes    []model.Category
	roots    []int
}

// Build indexes a raw hierarchy. Nodes may be nested through Children,
// linked through ParentID, or both.
func Build(raw []model.RawCategory) (*Tree, error) {
	flat := make([]model.RawCategory, 0, len(raw))
	if err := flatten(raw, "", &flat); err != nil {
		return nil, err
	}

	t := &Tree{
		byID:     make(map[string]int, len(flat)),
		byPath:   make(map[string]int, len(flat)),
		children: make(map[string][]int),
		nodes:    make([]model.Category, len(flat)),
	}

	for i, n := range flat {
		if strings.TrimSpace(n.ID) == "" {
			return nil, fmt.Errorf("%w: node %d has no id", ErrMalformedCatalog, i)
		}
		if strings.TrimSpace(n.Name) == "" {
			return nil, fmt.Errorf("%w: category %q has no name", ErrMalformedCatalog, n.ID)
		}
		if strings.Contains(n.Name, model.PathSeparator) {
			return nil, fmt.Errorf("%w: category %q name contains the path separator", ErrMalformedCatalog, n.ID)
		}
		if _, dup := t.byID[n.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate category id %q", ErrMalformedCatalog, n.ID)
		}
		t.byID[n.ID] = i
	}

	for i, n := range flat {
		if n.ParentID == "" {
			t.roots = append(t.roots, i)
			continue
		}
		if _, ok := t.byID[n.ParentID]; !ok {
			return nil, fmt.Errorf("%w: category %q references unknown parent %q", ErrMalformedCatalog, n.ID, n.ParentID)
		}
		t.children[n.ParentID] = append(t.children[n.ParentID], i)
	}

	paths := make([][]string, len(flat))
	for i := range flat {
		path, err := resolvePath(flat, t.byID, paths, i)
		if err != nil {
			return nil, err
		}
		paths[i] = path
	}

	for i, n := range flat {
		c := model.Category{
			ID:       n.ID,
			Name:     strings.TrimSpace(n.Name),
			ParentID: n.ParentID,
			Path:     paths[i],
			Level:    len(paths[i]),
			IsGroup:  n.IsGroup,
		}
		key := pathKey(c.Path)
		if other, dup := t.byPath[key]; dup {
			return nil, fmt.Errorf("%w: categories %q and %q share the path %q",
				ErrMalformedCatalog, flat[other].ID, n.ID, c.FullPath())
		}
		t.byPath[key] = i
		t.nodes[i] = c
	}

	return t, nil
}

// flatten walks nested children in document order. A nested child inherits
// its parent's id; an explicit ParentID that contradicts the nesting is malformed.
func flatten(nodes []model.RawCategory, parentID string, out *[]model.RawCategory) error {
	for _, n := range nodes {
		if parentID != "" {
			if n.ParentID != "" && n.ParentID != parentID {
				return fmt.Errorf("%w: category %q is nested under %q but names parent %q",
					ErrMalformedCatalog, n.ID, parentID, n.ParentID)
			}
			n.ParentID = parentID
		}
		children := n.Children
		n.Children = nil
		*out = append(*out, n)
		if err := flatten(children, n.ID, out); err != nil {
			return err
		}
	}
	return nil
}

// resolvePath computes the name path of node i, memoizing into paths and
// failing on a cyclic parent chain.
func resolvePath(flat []model.RawCategory, byID map[string]int, paths [][]string, i int) ([]string, error) {
	if paths[i] != nil {
		return paths[i], nil
	}

	var chain []int
	seen := make(map[int]bool)
	cur := i
	for {
		if seen[cur] {
			return nil, fmt.Errorf("%w: cycle in parent chain of category %q", ErrMalformedCatalog, flat[i].ID)
		}
		seen[cur] = true
		chain = append(chain, cur)
		if paths[cur] != nil || flat[cur].ParentID == "" {
			break
		}
		cur = byID[flat[cur].ParentID]
	}

	// chain runs from i up to either a root or an already resolved ancestor.
	top := chain[len(chain)-1]
	base := paths[top]
	if base == nil {
		base = []string{strings.TrimSpace(flat[top].Name)}
		paths[top] = base
	}
	for k := len(chain) - 2; k >= 0; k-- {
		idx := chain[k]
		parent := paths[chain[k+1]]
		path := make([]string, len(parent), len(parent)+1)
		copy(path, parent)
		paths[idx] = append(path, strings.TrimSpace(flat[idx].Name))
	}
	return paths[i], nil
}

func pathKey(segments []string) string {
	norm := make([]string, len(segments))
	for i, s := range segments {
		norm[i] = strings.ToLower(strings.TrimSpace(s))
	}
	return strings.Join(norm, model.PathSeparator)
}

// Len returns the number of categories, groups included.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// FindByID looks up a category by its exact id.
func (t *Tree) FindByID(id string) (model.Category, bool) {
	i, ok := t.byID[id]
	if !ok {
		return model.Category{}, false
	}
	return t.nodes[i], true
}

// FindByPath looks up a category by its backslash-delimited path. Segments
// are trimmed and compared case-insensitively.
func (t *Tree) FindByPath(path string) (model.Category, bool) {
	if strings.TrimSpace(path) == "" {
		return model.Category{}, false
	}
	i, ok := t.byPath[pathKey(strings.Split(path, model.PathSeparator))]
	if !ok {
		return model.Category{}, false
	}
	return t.nodes[i], true
}

// Assignable yields every non-group category in catalog order. The sequence
// may be ranged over any number of times.
func (t *Tree) Assignable() iter.Seq[model.Category] {
	return func(yield func(model.Category) bool) {
		for _, c := range t.nodes {
			if c.IsGroup {
				continue
			}
			if !yield(c) {
				return
			}
		}
	}
}

// All yields every category, groups included, in catalog order.
func (t *Tree) All() iter.Seq[model.Category] {
	return func(yield func(model.Category) bool) {
		for _, c := range t.nodes {
			if !yield(c) {
				return
			}
		}
	}
}

// Roots returns the top level categories.
func (t *Tree) Roots() []model.Category {
	out := make([]model.Category, len(t.roots))
	for i, idx := range t.roots {
		out[i] = t.nodes[idx]
	}
	return out
}

// Children returns the direct children of the category with the given id.
func (t *Tree) Children(id string) []model.Category {
	idxs := t.children[id]
	out := make([]model.Category, len(idxs))
	for i, idx := range idxs {
		out[i] = t.nodes[idx]
	}
	return out
}
