package graph

import (
	"sort"

	"github.com/morozRed/assetrefs/internal/universe"
)

// EdgeKind tags why one object points at another.
type EdgeKind int

const (
	// EdgeData is a reference found by enumerating an object's data.
	EdgeData EdgeKind = iota
	// EdgeArchetype links an object to the template it was created from.
	EdgeArchetype
	// EdgeClass links an object to its class identity.
	EdgeClass
)

func (k EdgeKind) String() string {
	switch k {
	case EdgeData:
		return "data"
	case EdgeArchetype:
		return "archetype"
	case EdgeClass:
		return "class"
	default:
		return "unknown"
	}
}

// Node is one referencer in the graph.
type Node struct {
	ID        universe.ObjectID
	OutEdges  []universe.ObjectID            // referenced objects, in discovery order
	EdgeKinds map[universe.ObjectID]EdgeKind // target ID -> kind
}

// ReferenceGraph maps each referencer to the objects it was found to
// reference during one rebuild. Out edges are duplicate-free and keep
// discovery order.
type ReferenceGraph struct {
	Nodes map[universe.ObjectID]*Node
	order []universe.ObjectID
	edges int
}

func New() *ReferenceGraph {
	return &ReferenceGraph{
		Nodes: make(map[universe.ObjectID]*Node),
	}
}

// Reset drops every node and edge.
func (g *ReferenceGraph) Reset() {
	g.Nodes = make(map[universe.ObjectID]*Node)
	g.order = nil
	g.edges = 0
}

// Ensure returns the node for id, creating an empty one if needed.
func (g *ReferenceGraph) Ensure(id universe.ObjectID) *Node {
	if node, ok := g.Nodes[id]; ok {
		return node
	}
	node := &Node{
		ID:        id,
		OutEdges:  make([]universe.ObjectID, 0),
		EdgeKinds: make(map[universe.ObjectID]EdgeKind),
	}
	g.Nodes[id] = node
	g.order = append(g.order, id)
	return node
}

// AddEdge records from -> to. A repeated edge keeps its position; its kind is
// upgraded when the new kind ranks higher. Self edges and null ends are dropped.
func (g *ReferenceGraph) AddEdge(from, to universe.ObjectID, kind EdgeKind) {
	if from == universe.NoObject || to == universe.NoObject || from == to {
		return
	}
	src := g.Ensure(from)
	if current, exists := src.EdgeKinds[to]; exists {
		src.EdgeKinds[to] = mergeKind(current, kind)
		return
	}
	src.OutEdges = append(src.OutEdges, to)
	src.EdgeKinds[to] = kind
	g.edges++
}

// Set replaces the out edges of a synthetic referencer. Duplicates and null
// entries are removed; all edges are data edges.
func (g *ReferenceGraph) Set(from universe.ObjectID, targets []universe.ObjectID) {
	node := g.Ensure(from)
	g.edges -= len(node.OutEdges)
	node.OutEdges = node.OutEdges[:0]
	node.EdgeKinds = make(map[universe.ObjectID]EdgeKind, len(targets))
	for _, target := range targets {
		g.AddEdge(from, target, EdgeData)
	}
}

// References returns the out edges of id, or nil when id has no entry.
func (g *ReferenceGraph) References(id universe.ObjectID) []universe.ObjectID {
	if node, ok := g.Nodes[id]; ok {
		return node.OutEdges
	}
	return nil
}

// Kind returns the kind of the edge from -> to.
func (g *ReferenceGraph) Kind(from, to universe.ObjectID) (EdgeKind, bool) {
	node, ok := g.Nodes[from]
	if !ok {
		return EdgeData, false
	}
	kind, ok := node.EdgeKinds[to]
	return kind, ok
}

// HasEntry reports whether id has a node of its own.
func (g *ReferenceGraph) HasEntry(id universe.ObjectID) bool {
	_, ok := g.Nodes[id]
	return ok
}

// Has reports whether id appears in the graph as a referencer or as a
// referenced object.
func (g *ReferenceGraph) Has(id universe.ObjectID) bool {
	if g.HasEntry(id) {
		return true
	}
	for _, node := range g.Nodes {
		if _, ok := node.EdgeKinds[id]; ok {
			return true
		}
	}
	return false
}

// Referencers returns every object with an edge to id, sorted by ID.
func (g *ReferenceGraph) Referencers(id universe.ObjectID) []universe.ObjectID {
	out := make([]universe.ObjectID, 0)
	for _, from := range g.order {
		if _, ok := g.Nodes[from].EdgeKinds[id]; ok {
			out = append(out, from)
		}
	}
	return dedupeAndSort(out)
}

// Keys returns the referencers in insertion order.
func (g *ReferenceGraph) Keys() []universe.ObjectID {
	return append([]universe.ObjectID(nil), g.order...)
}

func (g *ReferenceGraph) NodeCount() int {
	return len(g.Nodes)
}

func (g *ReferenceGraph) EdgeCount() int {
	return g.edges
}

// Objects returns every ID present in the graph, sorted.
func (g *ReferenceGraph) Objects() []universe.ObjectID {
	out := make([]universe.ObjectID, 0, len(g.Nodes))
	for _, id := range g.order {
		out = append(out, id)
		out = append(out, g.Nodes[id].OutEdges...)
	}
	return dedupeAndSort(out)
}

func dedupeAndSort(values []universe.ObjectID) []universe.ObjectID {
	if len(values) == 0 {
		return values
	}

	seen := make(map[universe.ObjectID]bool, len(values))
	out := make([]universe.ObjectID, 0, len(values))
	for _, value := range values {
		if seen[value] {
			continue
		}
		seen[value] = true
		out = append(out, value)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i] < out[j]
	})
	return out
}

// mergeKind keeps the more specific kind; pass-through kinds outrank data.
// EdgeKind constants are declared in rank order.
func mergeKind(current, next EdgeKind) EdgeKind {
	if next >= current {
		return next
	}
	return current
}
