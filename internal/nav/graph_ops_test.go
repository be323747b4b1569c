package nav

import (
	"testing"

	"github.com/morozRed/assetrefs/internal/graph"
	"github.com/morozRed/assetrefs/internal/universe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLookup(t *testing.T) *Lookup {
	t.Helper()
	u, err := universe.FromDocument(universe.Document{
		Classes: []universe.ClassSpec{
			{Name: "Actor"},
			{Name: "Texture", Renderable: true},
		},
		Objects: []universe.ObjectSpec{
			{ID: "Pkg", Class: "Actor"},
			{ID: "Hero", Class: "Actor", Outer: "Pkg"},
			{ID: "Body", Class: "Actor", Outer: "Hero"},
			{ID: "Skin", Name: "T_Skin", Class: "Texture", Outer: "Pkg"},
			{ID: "Eyes", Name: "T_Eyes", Class: "Texture", Outer: "Pkg"},
		},
	})
	require.NoError(t, err)

	g := graph.New()
	g.AddEdge("Hero", "Body", graph.EdgeData)
	g.AddEdge("Hero", "Eyes", graph.EdgeData)
	g.AddEdge("Body", "Skin", graph.EdgeData)
	g.AddEdge("Hero", "Actor", graph.EdgeClass)
	g.AddEdge("Eyes", "Skin", graph.EdgeData)
	return NewLookup(g, u)
}

func TestRecord(t *testing.T) {
	l := newLookup(t)
	record := l.Record("Skin")
	assert.Equal(t, ObjectRecord{ID: "Skin", Name: "T_Skin", Path: "Pkg.T_Skin", Class: "Texture"}, record)
	assert.Equal(t, ObjectRecord{}, l.Record(universe.NoObject))
}

func TestCollectReferencers(t *testing.T) {
	l := newLookup(t)
	refs := CollectReferencers(l, "Skin")
	require.Len(t, refs, 2)
	assert.Equal(t, universe.ObjectID("Body"), refs[0].Object.ID)
	assert.Equal(t, universe.ObjectID("Eyes"), refs[1].Object.ID)
	assert.Equal(t, "data", refs[0].Kind)

	assert.Empty(t, CollectReferencers(l, "Hero"))
}

func TestCollectReferences(t *testing.T) {
	l := newLookup(t)
	refs := CollectReferences(l, "Hero")
	require.Len(t, refs, 3)
	assert.Equal(t, universe.ObjectID("Actor"), refs[0].Object.ID)
	assert.Equal(t, "class", refs[0].Kind)
	assert.Equal(t, universe.ObjectID("Body"), refs[1].Object.ID)
}

func TestTraceRespectsDepth(t *testing.T) {
	l := newLookup(t)

	hops := Trace(l, "Hero", 1)
	require.Len(t, hops, 3)
	for _, hop := range hops {
		assert.Equal(t, 1, hop.Depth)
	}

	hops = Trace(l, "Hero", 2)
	require.Len(t, hops, 5)
	assert.Equal(t, 2, hops[len(hops)-1].Depth)
}

func TestShortestPath(t *testing.T) {
	l := newLookup(t)

	assert.Equal(t, []universe.ObjectID{"Hero", "Body", "Skin"}, ShortestPath(l, "Hero", "Skin"))
	assert.Equal(t, []universe.ObjectID{"Skin"}, ShortestPath(l, "Skin", "Skin"))
	assert.Nil(t, ShortestPath(l, "Skin", "Hero"))
}

func TestPath(t *testing.T) {
	l := newLookup(t)

	steps, err := Path(l, "Hero", "Actor")
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Empty(t, steps[0].Kind)
	assert.Equal(t, "class", steps[1].Kind)

	_, err = Path(l, "Skin", "Hero")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoPath)
}

func TestReconstructPathMissingParent(t *testing.T) {
	parent := map[universe.ObjectID]universe.ObjectID{"C": "B"}
	assert.Nil(t, ReconstructPath(parent, "A", "C"))
}
