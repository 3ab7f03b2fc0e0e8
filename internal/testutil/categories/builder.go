package categories

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/moneyspice/internal/catalog"
	"github.com/Veraticus/moneyspice/internal/model"
)

var namespace = uuid.MustParse("6f1c3a1e-9d8b-4c44-9a57-0d3f8f1b2c77")

// ID returns the deterministic identifier assigned to a path by the builder.
func ID(path string) string {
	return uuid.NewSHA1(namespace, []byte(strings.ToLower(path))).String()
}

// Builder accumulates a raw category hierarchy. Intermediate path segments
// are created as groups; the final segment is assignable unless added with
// WithGroup.
type Builder struct {
	byPath map[string]int
	nodes  []model.RawCategory
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{byPath: make(map[string]int)}
}

// WithCategory adds an assignable category and any missing ancestor groups.
func (b *Builder) WithCategory(path string) *Builder {
	b.add(path, false)
	return b
}

// WithCategories adds several assignable categories.
func (b *Builder) WithCategories(paths ...string) *Builder {
	for _, p := range paths {
		b.add(p, false)
	}
	return b
}

// WithGroup adds a group category.
func (b *Builder) WithGroup(path string) *Builder {
	b.add(path, true)
	return b
}

// WithFixture adds every entry of a fixture.
func (b *Builder) WithFixture(f Fixture) *Builder {
	for _, g := range f.Groups {
		b.add(g, true)
	}
	for _, c := range f.Categories {
		b.add(c, false)
	}
	return b
}

func (b *Builder) add(path string, group bool) {
	segments := strings.Split(path, model.PathSeparator)
	parentID := ""
	for i := range segments {
		prefix := strings.Join(segments[:i+1], model.PathSeparator)
		last := i == len(segments)-1
		if idx, ok := b.byPath[prefix]; ok {
			if last && group {
				b.nodes[idx].IsGroup = true
			}
			if !last {
				b.nodes[idx].IsGroup = true
			}
			parentID = b.nodes[idx].ID
			continue
		}
		node := model.RawCategory{
			ID:       ID(prefix),
			Name:     segments[i],
			ParentID: parentID,
			IsGroup:  !last || group,
		}
		b.byPath[prefix] = len(b.nodes)
		b.nodes = append(b.nodes, node)
		parentID = node.ID
	}
}

// Raw returns the flat hierarchy in insertion order.
func (b *Builder) Raw() []model.RawCategory {
	out := make([]model.RawCategory, len(b.nodes))
	copy(out, b.nodes)
	return out
}

// Nested returns the same hierarchy expressed through Children, with
// ParentID left empty as nested exports do.
func (b *Builder) Nested() []model.RawCategory {
	kids := make(map[string][]int)
	var roots []int
	for i, n := range b.nodes {
		if n.ParentID == "" {
			roots = append(roots, i)
			continue
		}
		kids[n.ParentID] = append(kids[n.ParentID], i)
	}
	var build func(idxs []int) []model.RawCategory
	build = func(idxs []int) []model.RawCategory {
		out := make([]model.RawCategory, 0, len(idxs))
		for _, idx := range idxs {
			n := b.nodes[idx]
			n.ParentID = ""
			n.Children = build(kids[n.ID])
			out = append(out, n)
		}
		return out
	}
	return build(roots)
}

// Tree builds the catalog, failing the test on error.
func (b *Builder) Tree(t testing.TB) *catalog.Tree {
	t.Helper()
	tree, err := catalog.Build(b.Raw())
	require.NoError(t, err)
	return tree
}

// MustFind returns the category at path, failing the test if it is missing.
func MustFind(t testing.TB, tree *catalog.Tree, path string) model.Category {
	t.Helper()
	c, ok := tree.FindByPath(path)
	require.Truef(t, ok, "category %q not found", path)
	return c
}
