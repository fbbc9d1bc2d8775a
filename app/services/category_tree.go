package services

import (
	"strings"

	"github.com/Rakhulsr/venue-admin/app/models"
)

// AllModules disables the module filter.
const AllModules = "all"

type CategoryFilter struct {
	Search   string
	ModuleID string
}

func (f CategoryFilter) allModules() bool {
	return f.ModuleID == "" || f.ModuleID == AllModules
}

func (f CategoryFilter) matches(c models.Category) bool {
	term := strings.TrimSpace(f.Search)
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Title), strings.ToLower(term))
}

type CategoryNode struct {
	Root     models.Category
	Children []models.Category
}

// CategoryIndex holds the parent -> children adjacency of one category list.
// Build it once per fetched list and call Tree for every filter change.
type CategoryIndex struct {
	all      []models.Category
	roots    []models.Category
	children map[string][]models.Category
	known    map[string]struct{}
}

func NewCategoryIndex(categories []models.Category) *CategoryIndex {
	ix := &CategoryIndex{
		all:      categories,
		children: make(map[string][]models.Category),
		known:    make(map[string]struct{}, len(categories)),
	}
	for _, c := range categories {
		ix.known[c.ID] = struct{}{}
		if c.IsRoot() {
			ix.roots = append(ix.roots, c)
			continue
		}
		parent := c.Parent()
		ix.children[parent] = append(ix.children[parent], c)
	}
	return ix
}

// Tree returns the visible roots in input order, each with the children that
// match the search. The module filter applies to roots only; children are
// shown under their root whatever module they carry. A root is visible when
// its module matches and either the search is empty, its own title matches or
// at least one of its children matches.
func (ix *CategoryIndex) Tree(f CategoryFilter) []CategoryNode {
	nodes := make([]CategoryNode, 0, len(ix.roots))
	for _, root := range ix.roots {
		if !f.allModules() && root.ModuleID != f.ModuleID {
			continue
		}

		children := make([]models.Category, 0, len(ix.children[root.ID]))
		for _, child := range ix.children[root.ID] {
			if f.matches(child) {
				children = append(children, child)
			}
		}

		if !f.matches(root) && len(children) == 0 {
			continue
		}
		nodes = append(nodes, CategoryNode{Root: root, Children: children})
	}
	return nodes
}

// Orphans are categories whose parent is not in the list. They never appear
// in a tree.
func (ix *CategoryIndex) Orphans() []models.Category {
	out := make([]models.Category, 0)
	for _, c := range ix.all {
		if c.IsRoot() {
			continue
		}
		if _, ok := ix.known[c.Parent()]; !ok {
			out = append(out, c)
		}
	}
	return out
}

func BuildTree(categories []models.Category, search, moduleID string) []CategoryNode {
	return NewCategoryIndex(categories).Tree(CategoryFilter{Search: search, ModuleID: moduleID})
}

// ParentCandidates lists the roots a category of moduleID may be filed under.
func ParentCandidates(categories []models.Category, moduleID, excludeID string) []models.Category {
	out := make([]models.Category, 0)
	for _, c := range categories {
		if !c.IsRoot() || c.ID == excludeID {
			continue
		}
		if moduleID != "" && c.ModuleID != moduleID {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Flatten lists the visible rows of a tree, each root followed by its children.
func Flatten(tree []CategoryNode) []models.Category {
	out := make([]models.Category, 0, len(tree))
	for _, node := range tree {
		out = append(out, node.Root)
		out = append(out, node.Children...)
	}
	return out
}

func Orphans(categories []models.Category) []models.Category {
	return NewCategoryIndex(categories).Orphans()
}
