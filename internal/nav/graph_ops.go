package nav

import (
	"sort"

	"github.com/morozRed/assetrefs/internal/universe"
	"github.com/pkg/errors"
)

// CollectReferencers returns the objects with a graph edge to id.
func CollectReferencers(l *Lookup, id universe.ObjectID) []EdgeRecord {
	referencers := l.Graph.Referencers(id)
	out := make([]EdgeRecord, 0, len(referencers))
	for _, from := range referencers {
		out = append(out, EdgeRecord{
			Object: l.Record(from),
			Kind:   l.EdgeKindValue(from, id),
		})
	}
	return out
}

// CollectReferences returns the out edges of id sorted by ID.
func CollectReferences(l *Lookup, id universe.ObjectID) []EdgeRecord {
	refs := l.Graph.References(id)
	out := make([]EdgeRecord, 0, len(refs))
	for _, to := range refs {
		out = append(out, EdgeRecord{
			Object: l.Record(to),
			Kind:   l.EdgeKindValue(id, to),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Object.ID < out[j].Object.ID
	})
	return out
}

// Trace lists every edge reachable from start within depth hops, breadth
// first.
func Trace(l *Lookup, start universe.ObjectID, depth int) []TraceHop {
	type queueItem struct {
		id    universe.ObjectID
		depth int
	}
	queue := []queueItem{{id: start, depth: 0}}
	seenDepth := map[universe.ObjectID]int{start: 0}
	hops := make([]TraceHop, 0)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current.depth >= depth {
			continue
		}
		for _, next := range l.Graph.References(current.id) {
			nextDepth := current.depth + 1
			hops = append(hops, TraceHop{
				Depth: nextDepth,
				From:  l.Record(current.id),
				To:    l.Record(next),
				Kind:  l.EdgeKindValue(current.id, next),
			})
			if previous, exists := seenDepth[next]; !exists || nextDepth < previous {
				seenDepth[next] = nextDepth
				queue = append(queue, queueItem{id: next, depth: nextDepth})
			}
		}
	}

	sort.Slice(hops, func(i, j int) bool {
		if hops[i].Depth != hops[j].Depth {
			return hops[i].Depth < hops[j].Depth
		}
		if hops[i].From.ID != hops[j].From.ID {
			return hops[i].From.ID < hops[j].From.ID
		}
		return hops[i].To.ID < hops[j].To.ID
	})
	return hops
}

// ShortestPath returns the IDs on the shortest edge path from -> to,
// endpoints included, or nil when to is unreachable.
func ShortestPath(l *Lookup, from, to universe.ObjectID) []universe.ObjectID {
	if from == to {
		return []universe.ObjectID{from}
	}

	queue := []universe.ObjectID{from}
	visited := map[universe.ObjectID]bool{from: true}
	parent := map[universe.ObjectID]universe.ObjectID{}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range l.Graph.References(current) {
			if visited[next] {
				continue
			}
			visited[next] = true
			parent[next] = current
			if next == to {
				return ReconstructPath(parent, from, to)
			}
			queue = append(queue, next)
		}
	}
	return nil
}

func ReconstructPath(parent map[universe.ObjectID]universe.ObjectID, from, to universe.ObjectID) []universe.ObjectID {
	out := []universe.ObjectID{to}
	for current := to; current != from; {
		prev, ok := parent[current]
		if !ok {
			return nil
		}
		out = append(out, prev)
		current = prev
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Path resolves the shortest path into printable steps.
func Path(l *Lookup, from, to universe.ObjectID) ([]PathStep, error) {
	ids := ShortestPath(l, from, to)
	if len(ids) == 0 {
		return nil, errors.Wrapf(ErrNoPath, "%s does not reach %s", from, to)
	}
	steps := make([]PathStep, 0, len(ids))
	for i, id := range ids {
		step := PathStep{Object: l.Record(id)}
		if i > 0 {
			step.Kind = l.EdgeKindValue(ids[i-1], id)
		}
		steps = append(steps, step)
	}
	return steps, nil
}
