package search

import (
	"testing"

	"github.com/morozRed/assetrefs/internal/universe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadLevel(t *testing.T) *universe.Universe {
	t.Helper()
	u, err := universe.Load("../../fixtures/level.yaml")
	require.NoError(t, err)
	return u
}

func TestBuildIndexesEveryObject(t *testing.T) {
	u := loadLevel(t)
	index := Build(u)
	assert.Equal(t, u.Len(), index.DocumentCount)
	assert.Positive(t, index.AvgDocLength)
	assert.Equal(t, Version, index.Version)
}

func TestSearchRanksNameMatches(t *testing.T) {
	index := Build(loadLevel(t))

	results := Search(index, "SM_Rock", 5)
	require.NotEmpty(t, results)
	assert.Equal(t, universe.ObjectID("RockMesh"), results[0].ID)

	ids := make([]universe.ObjectID, 0, len(results))
	for _, result := range Search(index, "rock", 10) {
		ids = append(ids, result.ID)
	}
	assert.ElementsMatch(t, []universe.ObjectID{"Rock", "RockMat", "RockMesh"}, ids)
}

func TestSearchTypoFallback(t *testing.T) {
	index := Build(loadLevel(t))

	results := Search(index, "Beap", 3)
	require.NotEmpty(t, results)
	assert.Equal(t, universe.ObjectID("Beep"), results[0].ID)
}

func TestSearchDeterministicOrdering(t *testing.T) {
	index := &Index{
		Version:       Version,
		DocumentCount: 2,
		AvgDocLength:  1,
		DocFreq:       map[string]int{"alpha": 2},
		Documents: []Document{
			{ID: "b", Length: 1, Terms: map[string]int{"alpha": 1}},
			{ID: "a", Length: 1, Terms: map[string]int{"alpha": 1}},
		},
	}

	results := Search(index, "alpha", 2)
	require.Len(t, results, 2)
	assert.Equal(t, universe.ObjectID("a"), results[0].ID)
	assert.Equal(t, universe.ObjectID("b"), results[1].ID)
}

func TestTokenizeSplitsCamelCase(t *testing.T) {
	assert.Equal(t, []string{"sm", "rock", "pile"}, tokenize("SM_RockPile"))
	assert.Equal(t, []string{"static", "mesh", "actor", "1"}, tokenize("StaticMeshActor_1"))
	assert.Nil(t, tokenize(""))
}

func TestSearchEmptyInputs(t *testing.T) {
	assert.Nil(t, Search(nil, "rock", 5))
	assert.Nil(t, Search(Build(loadLevel(t)), "  ", 5))
	assert.Zero(t, Build(nil).DocumentCount)
}
