package model

import "strings"

// PathSeparator joins category names into a full path. MoneyMoney uses it
// in its own category paths and it never appears inside a category name.
const PathSeparator = `\`

// DisplaySeparator joins path segments for terminal output.
const DisplaySeparator = " > "

// RawCategory is one node of the category hierarchy as delivered by the
// finance application. Children may be nested or linked through ParentID.
type RawCategory struct {
	ID       string        `json:"id" yaml:"id"`
	Name     string        `json:"name" yaml:"name"`
	ParentID string        `json:"parentId,omitempty" yaml:"parent_id,omitempty"`
	Children []RawCategory `json:"children,omitempty" yaml:"children,omitempty"`
	IsGroup  bool          `json:"isGroup" yaml:"group"`
}

// Category is an immutable node of a loaded catalog.
type Category struct {
	ID       string
	Name     string
	ParentID string
	Path     []string // ancestor names down to and including Name
	Level    int      // 1 for top level categories
	IsGroup  bool
}

// FullPath returns the path joined with PathSeparator.
func (c Category) FullPath() string {
	return strings.Join(c.Path, PathSeparator)
}

// DisplayPath returns the path joined for humans.
func (c Category) DisplayPath() string {
	return strings.Join(c.Path, DisplaySeparator)
}

// ParentPath returns the full path of the parent, or "" for top level categories.
func (c Category) ParentPath() string {
	if len(c.Path) < 2 {
		return ""
	}
	return strings.Join(c.Path[:len(c.Path)-1], PathSeparator)
}

// Assignable reports whether a transaction may be assigned to this category.
func (c Category) Assignable() bool {
	return !c.IsGroup
}
