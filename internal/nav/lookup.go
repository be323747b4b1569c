package nav

import (
	"github.com/morozRed/assetrefs/internal/graph"
	"github.com/morozRed/assetrefs/internal/universe"
	"github.com/pkg/errors"
)

// ErrNoPath is returned when two objects are not connected in the graph.
var ErrNoPath = errors.New("no reference path")

// Lookup answers navigation queries over one rebuilt graph.
type Lookup struct {
	Graph *graph.ReferenceGraph
	host  universe.Host
}

func NewLookup(g *graph.ReferenceGraph, host universe.Host) *Lookup {
	if g == nil {
		g = graph.New()
	}
	return &Lookup{Graph: g, host: host}
}

func (l *Lookup) Record(id universe.ObjectID) ObjectRecord {
	if id == universe.NoObject {
		return ObjectRecord{}
	}
	record := ObjectRecord{
		ID:   id,
		Name: l.host.Name(id),
		Path: l.host.PathName(id),
	}
	if class := l.host.Class(id); class != universe.NoObject {
		record.Class = l.host.Name(class)
	}
	return record
}

// EdgeKindValue returns the kind of from -> to, or "" when there is no edge.
func (l *Lookup) EdgeKindValue(from, to universe.ObjectID) string {
	kind, ok := l.Graph.Kind(from, to)
	if !ok {
		return ""
	}
	return kind.String()
}
