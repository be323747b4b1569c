package assets

import (
	"context"
	"testing"

	"github.com/morozRed/assetrefs/internal/graph"
	"github.com/morozRed/assetrefs/internal/universe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tick(t *testing.T, b *Browser) bool {
	t.Helper()
	rebuilt, err := b.Tick(context.Background())
	require.NoError(t, err)
	return rebuilt
}

func TestBrowserStartsStaleAndCoalescesUpdates(t *testing.T) {
	u := loadLevel(t)
	b := NewBrowser(u, DefaultConfig())
	assert.True(t, b.NeedsUpdate())
	assert.Nil(t, b.Result())

	assert.True(t, tick(t, b))
	assert.False(t, b.NeedsUpdate())
	assert.Empty(t, b.Entries())

	b.NotifySelectionChanged(u.Selection())
	b.RequestUpdate()
	assert.True(t, tick(t, b))
	assert.False(t, tick(t, b))
	assert.Len(t, b.Entries(), 3)
}

func TestBrowserSettersMarkStale(t *testing.T) {
	u := loadLevel(t)
	b := NewBrowser(u, DefaultConfig())
	_, err := b.Rebuild(context.Background(), u.Selection())
	require.NoError(t, err)
	require.False(t, b.NeedsUpdate())

	b.SetCustomDepth(3)
	assert.False(t, b.NeedsUpdate(), "custom depth only matters in custom mode")

	b.SetDepthMode(DepthCustom)
	assert.True(t, b.NeedsUpdate())
	tick(t, b)

	b.SetCustomDepth(1)
	assert.True(t, b.NeedsUpdate())
	tick(t, b)
	assert.Equal(t, 1, b.Config().MaxDepth())

	b.SetSkipGroupMembers(true)
	assert.True(t, b.NeedsUpdate())
	tick(t, b)

	cfg := b.Config().Filter
	cfg.IncludeClassEdges = true
	b.SetFilterPolicy(cfg)
	assert.True(t, b.NeedsUpdate())
}

func TestBrowserSortModeResortsWithoutRebuild(t *testing.T) {
	u := loadLevel(t)
	b := NewBrowser(u, DefaultConfig())
	_, err := b.Rebuild(context.Background(), u.Selection())
	require.NoError(t, err)

	byName := b.FlatList("RockActor")
	pass := b.Result().PassID
	assert.Equal(t, []universe.ObjectID{"RockMat", "RockMesh", "RockComponent", "Rock"}, byName)

	b.SetSortMode(SortByClassThenName)
	assert.False(t, b.NeedsUpdate())
	assert.Equal(t, pass, b.Result().PassID)
	assert.Equal(t, []universe.ObjectID{"RockMat", "RockComponent", "RockMesh", "Rock"}, b.FlatList("RockActor"))

	b.SetSortMode(SortByName)
	assert.Equal(t, byName, b.FlatList("RockActor"))
}

func TestBrowserViews(t *testing.T) {
	u := loadLevel(t)
	b := NewBrowser(u, DefaultConfig())
	assert.Nil(t, b.FlatList("Lamp"))
	assert.Nil(t, b.Tree("Lamp"))
	assert.Nil(t, b.Graph())
	assert.Empty(t, b.Forest().Children)

	_, err := b.Rebuild(context.Background(), u.Selection())
	require.NoError(t, err)

	tree := b.Tree("Lamp")
	require.NotNil(t, tree)
	assert.Equal(t, "Beacon_1", tree.Label)
	require.Len(t, tree.Children, 1)
	assert.Equal(t, graph.DefaultsLabel, tree.Children[0].Label)
	require.Len(t, tree.Children[0].Children, 1)
	assert.Equal(t, "Game.T_Glow", tree.Children[0].Children[0].Label)

	assert.Nil(t, b.Tree("Rock"), "only roots have trees")

	forest := b.Forest()
	assert.Equal(t, graph.ForestLabel, forest.Label)
	require.Len(t, forest.Children, 3)
	assert.Equal(t, "BSP.Model_0", forest.Children[1].Label)
	assert.NotNil(t, b.Graph())
}

func TestBrowserTreeHasNoEmptyPassThroughNodes(t *testing.T) {
	u := loadLevel(t)
	cfg := DefaultConfig()
	cfg.Filter.IncludeClassEdges = true
	b := NewBrowser(u, cfg)
	_, err := b.Rebuild(context.Background(), u.Selection())
	require.NoError(t, err)

	for _, root := range b.Result().Roots() {
		b.Tree(root).Walk(func(node *graph.TreeNode, _ int) {
			if node.Label == graph.ScriptLabel || node.Label == graph.DefaultsLabel {
				assert.NotEmpty(t, node.Children, "empty %s node under %s", node.Label, root)
			}
		})
	}
}

func TestBrowserAssetSelection(t *testing.T) {
	u := loadLevel(t)
	b := NewBrowser(u, DefaultConfig())

	var pushed [][]universe.ObjectID
	b.OnSelectionChange(func(ids []universe.ObjectID) {
		pushed = append(pushed, ids)
		// the host echoes the change back
		b.NotifySelectionChanged(universe.Selection{Objects: ids})
	})

	assert.False(t, b.SelectAsset("Glow"), "nothing is built yet")

	_, err := b.Rebuild(context.Background(), u.Selection())
	require.NoError(t, err)

	assert.True(t, b.SelectAsset("Glow"))
	assert.True(t, b.SelectAsset("Rock"))
	assert.True(t, b.SelectAsset("Glow"))
	assert.False(t, b.SelectAsset("Persistent"))
	assert.Equal(t, []universe.ObjectID{"Glow", "Rock"}, b.SelectedAssets())
	assert.Len(t, pushed, 2)
	assert.False(t, b.NeedsUpdate(), "echoed selection is ignored")

	b.DeselectAsset("Rock")
	assert.Equal(t, []universe.ObjectID{"Glow"}, b.SelectedAssets())

	cfg := b.Config().Filter
	cfg.IncludeArchetypeEdges = false
	b.SetFilterPolicy(cfg)
	tick(t, b)
	assert.Empty(t, b.SelectedAssets(), "assets missing from the new graph are dropped")
}

func TestBrowserTeardownAndRebind(t *testing.T) {
	u := loadLevel(t)
	b := NewBrowser(u, DefaultConfig())
	_, err := b.Rebuild(context.Background(), u.Selection())
	require.NoError(t, err)
	require.True(t, b.SelectAsset("Rock"))

	b.Teardown()
	assert.Nil(t, b.Result())
	assert.Nil(t, b.Entries())
	assert.Empty(t, b.SelectedAssets())
	assert.False(t, b.NeedsUpdate())

	other := scenario(t)
	b.Rebind(other)
	assert.True(t, b.NeedsUpdate())
	b.NotifySelectionChanged(universe.Selection{Objects: []universe.ObjectID{"R"}})
	tick(t, b)
	assert.Equal(t, []universe.ObjectID{"A", "B", "C"}, b.FlatList("R"))
}
