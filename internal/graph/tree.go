package graph

import (
	"sort"
	"strings"

	"github.com/morozRed/assetrefs/internal/universe"
)

// Labels of synthetic tree nodes.
const (
	ScriptLabel   = "Script"
	DefaultsLabel = "Defaults"
	ForestLabel   = "Reference Graph"
)

// Namer supplies display names for tree labels.
type Namer interface {
	Name(id universe.ObjectID) string
	PathName(id universe.ObjectID) string
}

// TreeNode is one display row of the projected reference tree.
type TreeNode struct {
	ID       universe.ObjectID `json:"id,omitempty"`
	Label    string            `json:"label"`
	Kind     string            `json:"kind,omitempty"`
	Children []*TreeNode       `json:"children,omitempty"`
}

// Project builds the display tree for root. The root is labelled with label,
// or with its object name when label is empty. Other nodes show their path
// name, except class and archetype pass-through nodes which show Script and
// Defaults and are dropped when they end up with no children.
func Project(g *ReferenceGraph, names Namer, root universe.ObjectID, label string) *TreeNode {
	if label == "" {
		label = names.Name(root)
	}
	node := &TreeNode{ID: root, Label: label}
	onPath := map[universe.ObjectID]bool{root: true}
	node.Children = projectChildren(g, names, root, onPath)
	return node
}

// ProjectAll builds one subtree per root under a single top node.
func ProjectAll(g *ReferenceGraph, names Namer, roots []universe.ObjectID, labels map[universe.ObjectID]string) *TreeNode {
	top := &TreeNode{Label: ForestLabel, Children: make([]*TreeNode, 0, len(roots))}
	for _, root := range roots {
		top.Children = append(top.Children, Project(g, names, root, labels[root]))
	}
	return top
}

func projectChildren(g *ReferenceGraph, names Namer, parent universe.ObjectID, onPath map[universe.ObjectID]bool) []*TreeNode {
	refs := g.References(parent)
	if len(refs) == 0 {
		return nil
	}

	children := make([]*TreeNode, 0, len(refs))
	for _, ref := range refs {
		kind, _ := g.Kind(parent, ref)
		child := &TreeNode{ID: ref, Kind: kind.String()}
		switch kind {
		case EdgeClass:
			child.Label = ScriptLabel
		case EdgeArchetype:
			child.Label = DefaultsLabel
		default:
			child.Label = names.PathName(ref)
		}

		// a node already on the path is shown once more as a leaf
		if !onPath[ref] {
			onPath[ref] = true
			child.Children = projectChildren(g, names, ref, onPath)
			delete(onPath, ref)
		}

		if kind != EdgeData && len(child.Children) == 0 {
			continue
		}
		children = append(children, child)
	}

	sortTreeNodes(children)
	return children
}

func sortTreeNodes(nodes []*TreeNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		li, lj := strings.ToLower(nodes[i].Label), strings.ToLower(nodes[j].Label)
		if li != lj {
			return li < lj
		}
		if nodes[i].Label != nodes[j].Label {
			return nodes[i].Label < nodes[j].Label
		}
		return nodes[i].ID < nodes[j].ID
	})
}

// Walk visits every node of the tree depth first with its depth.
func (n *TreeNode) Walk(visit func(node *TreeNode, depth int)) {
	n.walk(visit, 0)
}

func (n *TreeNode) walk(visit func(node *TreeNode, depth int), depth int) {
	visit(n, depth)
	for _, child := range n.Children {
		child.walk(visit, depth+1)
	}
}
