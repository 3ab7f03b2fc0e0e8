package catalog_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/moneyspice/internal/catalog"
	"github.com/Veraticus/moneyspice/internal/model"
	"github.com/Veraticus/moneyspice/internal/testutil/categories"
)

func TestBuild_FindByIDRoundTrip(t *testing.T) {
	b := categories.NewBuilder().WithFixture(categories.FixtureStandard)
	raw := b.Raw()

	tree, err := catalog.Build(raw)
	require.NoError(t, err)
	assert.Equal(t, len(raw), tree.Len())

	for _, n := range raw {
		c, ok := tree.FindByID(n.ID)
		require.Truef(t, ok, "id %s", n.ID)
		assert.Equal(t, n.Name, c.Name)
		assert.Equal(t, n.IsGroup, c.IsGroup)
	}
}

func TestBuild_NestedAndFlatAgree(t *testing.T) {
	b := categories.NewBuilder().WithFixture(categories.FixtureStandard)

	flat, err := catalog.Build(b.Raw())
	require.NoError(t, err)
	nested, err := catalog.Build(b.Nested())
	require.NoError(t, err)

	require.Equal(t, flat.Len(), nested.Len())
	for c := range flat.All() {
		got, ok := nested.FindByID(c.ID)
		require.True(t, ok, c.FullPath())
		assert.Equal(t, c, got)
	}
}

func TestBuild_Paths(t *testing.T) {
	tree := categories.NewBuilder().WithFixture(categories.FixtureStandard).Tree(t)

	c := categories.MustFind(t, tree, categories.PathElectricity)
	assert.Equal(t, []string{"Housing", "Utilities", "Electricity"}, c.Path)
	assert.Equal(t, 3, c.Level)
	assert.Equal(t, `Housing\Utilities\Electricity`, c.FullPath())
	assert.Equal(t, "Housing > Utilities > Electricity", c.DisplayPath())
	assert.Equal(t, `Housing\Utilities`, c.ParentPath())
	assert.Equal(t, categories.ID(`Housing\Utilities`), c.ParentID)
}

func TestBuild_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  []model.RawCategory
	}{
		{
			name: "missing id",
			raw:  []model.RawCategory{{Name: "Food"}},
		},
		{
			name: "missing name",
			raw:  []model.RawCategory{{ID: "a"}},
		},
		{
			name: "blank name",
			raw:  []model.RawCategory{{ID: "a", Name: "   "}},
		},
		{
			name: "duplicate id",
			raw:  []model.RawCategory{{ID: "a", Name: "Food"}, {ID: "a", Name: "Travel"}},
		},
		{
			name: "unknown parent",
			raw:  []model.RawCategory{{ID: "a", Name: "Food", ParentID: "missing"}},
		},
		{
			name: "self cycle",
			raw:  []model.RawCategory{{ID: "a", Name: "Food", ParentID: "a"}},
		},
		{
			name: "two node cycle",
			raw: []model.RawCategory{
				{ID: "root", Name: "Root"},
				{ID: "a", Name: "A", ParentID: "b"},
				{ID: "b", Name: "B", ParentID: "a"},
			},
		},
		{
			name: "duplicate path ignoring case",
			raw: []model.RawCategory{
				{ID: "a", Name: "Food"},
				{ID: "b", Name: " food "},
			},
		},
		{
			name: "nested child contradicts parent",
			raw: []model.RawCategory{
				{ID: "x", Name: "X"},
				{ID: "a", Name: "A", Children: []model.RawCategory{{ID: "b", Name: "B", ParentID: "x"}}},
			},
		},
		{
			name: "separator in name",
			raw:  []model.RawCategory{{ID: "a", Name: `Food\Drink`}},
		},
		{
			name: "malformed nested child",
			raw: []model.RawCategory{
				{ID: "a", Name: "A", IsGroup: true, Children: []model.RawCategory{{Name: "B"}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := catalog.Build(tt.raw)
			require.ErrorIs(t, err, catalog.ErrMalformedCatalog)
			assert.Nil(t, tree)
		})
	}
}

func TestBuild_Empty(t *testing.T) {
	tree, err := catalog.Build(nil)
	require.NoError(t, err)
	assert.Zero(t, tree.Len())
	assert.Empty(t, slices.Collect(tree.Assignable()))
}

func TestFindByPath(t *testing.T) {
	tree := categories.NewBuilder().WithFixture(categories.FixtureStandard).Tree(t)

	tests := []struct {
		name   string
		path   string
		wantID string
		found  bool
	}{
		{"exact", `Food & Dining\Coffee`, categories.ID(categories.PathCoffee), true},
		{"case insensitive", `food & dining\COFFEE`, categories.ID(categories.PathCoffee), true},
		{"trims segments", `  Food & Dining \  Coffee `, categories.ID(categories.PathCoffee), true},
		{"group", `Food & Dining`, categories.ID(categories.PathFood), true},
		{"display separator is not a path", `Food & Dining > Coffee`, "", false},
		{"leaf name alone", `Coffee`, "", false},
		{"empty", ``, "", false},
		{"blank", `   `, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := tree.FindByPath(tt.path)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.wantID, c.ID)
		})
	}
}

func TestAssignable(t *testing.T) {
	tree := categories.NewBuilder().WithFixture(categories.FixtureStandard).Tree(t)

	first := slices.Collect(tree.Assignable())
	second := slices.Collect(tree.Assignable())
	require.Equal(t, first, second, "sequence must be restartable")
	assert.Len(t, first, len(categories.FixtureStandard.Categories))

	for _, c := range first {
		assert.False(t, c.IsGroup, c.FullPath())
	}

	// Early termination stops iteration.
	count := 0
	for range tree.Assignable() {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestRootsAndChildren(t *testing.T) {
	tree := categories.NewBuilder().WithFixture(categories.FixtureMinimal).Tree(t)

	roots := tree.Roots()
	require.Len(t, roots, 1)
	assert.Equal(t, "Food & Dining", roots[0].Name)
	assert.True(t, roots[0].IsGroup)

	kids := tree.Children(roots[0].ID)
	names := make([]string, len(kids))
	for i, k := range kids {
		names[i] = k.Name
	}
	assert.Equal(t, []string{"Groceries", "Coffee", "Restaurants"}, names)
	assert.Empty(t, tree.Children(kids[0].ID))
}
