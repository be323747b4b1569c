package traverse

import (
	"github.com/morozRed/assetrefs/internal/graph"
	"github.com/morozRed/assetrefs/internal/universe"
)

// Policy is the part of the filter the walker consults during a pass.
// Eligibility itself is applied up front through the ledger.
type Policy interface {
	IsExcludedClass(id universe.ObjectID) bool
}

// Options control one walk.
type Options struct {
	// MaxDepth bounds the number of data hops from the root; 0 is unbounded.
	MaxDepth int
	// IncludeClassEdges enters class objects and records class pass-through edges.
	IncludeClassEdges bool
	// IncludeArchetypeEdges records archetype pass-through edges.
	IncludeArchetypeEdges bool
	// OnVisit is called for every object consumed from the ledger.
	OnVisit func(id universe.ObjectID)
}

type walker struct {
	host   universe.Host
	policy Policy
	ledger *Ledger
	graph  *graph.ReferenceGraph
	opts   Options

	start           universe.ObjectID
	current         universe.ObjectID
	depth           int
	ignoreClassRefs bool
	found           []universe.ObjectID
}

// Walk discovers the objects reachable from root and returns the reported
// ones in discovery order. When g is not nil every reported object is
// recorded as an edge from the object it was reached through, together with
// the class and archetype pass-through edges the options ask for.
//
// Only objects the ledger still holds are entered, so walking several roots
// against one ledger never enumerates an object twice.
func Walk(host universe.Host, policy Policy, ledger *Ledger, opts Options, g *graph.ReferenceGraph, root universe.ObjectID) []universe.ObjectID {
	w := &walker{
		host:            host,
		policy:          policy,
		ledger:          ledger,
		graph:           g,
		opts:            opts,
		start:           root,
		current:         root,
		ignoreClassRefs: !opts.IncludeClassEdges,
		found:           make([]universe.ObjectID, 0),
	}
	w.visit(root)
	return w.found
}

func (w *walker) visit(id universe.ObjectID) {
	if id == universe.NoObject || !w.ledger.Visitable(id) {
		return
	}
	isClass := w.host.IsClass(id)
	if isClass && w.ignoreClassRefs {
		return
	}
	w.consume(id)

	// class objects are walked through but never reported
	if isClass {
		w.descend(id)
		return
	}

	previous := w.current
	if w.shouldReport(id) {
		w.current = id
		w.found = append(w.found, id)
		if w.graph != nil {
			w.graph.AddEdge(previous, id, graph.EdgeData)
			w.passThrough(id)
		}
	} else if id == w.start {
		w.passThrough(id)
	}

	w.descend(id)
	w.current = previous
}

func (w *walker) shouldReport(id universe.ObjectID) bool {
	if id == w.start || w.host.IsClassDefault(id) {
		return false
	}
	if w.host.HasRenderableInfo(id) {
		return true
	}
	return w.host.Owner(id) == w.current && !w.host.IsClass(w.current)
}

func (w *walker) descend(id universe.ObjectID) {
	if w.opts.MaxDepth != 0 && w.depth >= w.opts.MaxDepth {
		return
	}
	w.depth++
	w.host.EnumerateReferences(id, w.visit)
	w.depth--
}

// passThrough records the archetype and class of id as transparent edges and
// walks them at the current depth.
func (w *walker) passThrough(id universe.ObjectID) {
	if w.graph == nil {
		return
	}
	if w.opts.MaxDepth != 0 && w.depth > w.opts.MaxDepth {
		return
	}
	if w.opts.IncludeArchetypeEdges || w.opts.IncludeClassEdges {
		w.graph.Ensure(id)
	}

	if w.opts.IncludeArchetypeEdges {
		if archetype := w.host.Archetype(id); archetype != universe.NoObject && !w.excluded(archetype) {
			w.graph.AddEdge(id, archetype, graph.EdgeArchetype)
			w.enumerateAs(archetype, true)
		}
	}

	if w.opts.IncludeClassEdges {
		if class := w.host.Class(id); class != universe.NoObject && !w.excluded(class) {
			w.graph.AddEdge(id, class, graph.EdgeClass)
			w.enumerateAs(class, false)
		}
	}
}

// enumerateAs walks the references of a pass-through target with the cursor
// moved onto it. The target is entered at most once per pass.
func (w *walker) enumerateAs(target universe.ObjectID, suppressClasses bool) {
	previous := w.current
	w.current = target
	if w.ledger.Visitable(target) {
		w.consume(target)
		saved := w.ignoreClassRefs
		if suppressClasses {
			w.ignoreClassRefs = true
		}
		w.host.EnumerateReferences(target, w.visit)
		w.ignoreClassRefs = saved
	}
	w.current = previous
}

func (w *walker) excluded(id universe.ObjectID) bool {
	return w.policy != nil && w.policy.IsExcludedClass(id)
}

func (w *walker) consume(id universe.ObjectID) {
	if !w.ledger.TryConsume(id) {
		return
	}
	if w.opts.OnVisit != nil {
		w.opts.OnVisit(id)
	}
}
