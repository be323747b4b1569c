package nav

import "github.com/morozRed/assetrefs/internal/universe"

// ObjectRecord is the printable form of one object.
type ObjectRecord struct {
	ID    universe.ObjectID `json:"id"`
	Name  string            `json:"name"`
	Path  string            `json:"path"`
	Class string            `json:"class,omitempty"`
}

type EdgeRecord struct {
	Object ObjectRecord `json:"object"`
	Kind   string       `json:"kind"`
}

type TraceHop struct {
	Depth int          `json:"depth"`
	From  ObjectRecord `json:"from"`
	To    ObjectRecord `json:"to"`
	Kind  string       `json:"kind"`
}

type PathStep struct {
	Object ObjectRecord `json:"object"`
	// Kind is the kind of the edge leading to this step; empty for the first.
	Kind string `json:"kind,omitempty"`
}
