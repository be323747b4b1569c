package universe

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixturePath(t *testing.T, name string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), "..", "..", "fixtures", name)
}

func loadLevel(t *testing.T) *Universe {
	t.Helper()
	u, err := Load(fixturePath(t, "level.yaml"))
	require.NoError(t, err)
	return u
}

func TestLoadFixtureUniverse(t *testing.T) {
	u := loadLevel(t)

	assert.True(t, u.Contains("RockActor"))
	assert.True(t, u.IsClass("Texture"))
	assert.True(t, u.IsClass(MetaClass))
	assert.False(t, u.IsClass("Rock"))
	assert.Equal(t, MetaClass, u.Class("Texture"))
	assert.Equal(t, ObjectID("Persistent"), u.Owner("RockActor"))
	assert.Equal(t, "Game.MainMap.PersistentLevel.StaticMeshActor_1", u.PathName("RockActor"))
	assert.Equal(t, "Core.Texture", u.PathName("Texture"))
}

func TestSelectionFromDocument(t *testing.T) {
	u := loadLevel(t)

	sel := u.Selection()
	assert.Equal(t, []ObjectID{"RockActor", "Lamp"}, sel.Objects)
	require.Len(t, sel.Surfaces, 3)
	assert.Equal(t, Surface{Model: "BSP", Material: "BrickMat"}, sel.Surfaces[1])
	assert.False(t, sel.Empty())
	assert.True(t, Selection{}.Empty())
}

func TestIsAFollowsSuperChain(t *testing.T) {
	u := loadLevel(t)

	assert.True(t, u.IsA("RockActor", "StaticMeshActor"))
	assert.True(t, u.IsA("RockActor", "Actor"))
	assert.False(t, u.IsA("RockActor", "Component"))
	assert.True(t, u.IsA("Texture", MetaClass))
	assert.False(t, u.IsA("missing", "Actor"))
}

func TestRenderableInheritedAndOverridden(t *testing.T) {
	doc := Document{
		Classes: []ClassSpec{
			{Name: "Asset", Renderable: true},
			{Name: "Sub", Super: "Asset"},
			{Name: "Plain"},
		},
		Objects: []ObjectSpec{
			{ID: "a", Class: "Sub"},
			{ID: "b", Class: "Sub", Renderable: boolPtr(false)},
			{ID: "c", Class: "Plain"},
		},
	}
	u, err := FromDocument(doc)
	require.NoError(t, err)

	assert.True(t, u.HasRenderableInfo("a"))
	assert.False(t, u.HasRenderableInfo("b"))
	assert.False(t, u.HasRenderableInfo("c"))
	assert.False(t, u.HasRenderableInfo("Asset"))
}

func TestArchetypeFallsBackToClassDefault(t *testing.T) {
	u := loadLevel(t)

	assert.Equal(t, ObjectID("DefaultBeacon"), u.Archetype("Lamp"))
	assert.Equal(t, ObjectID("DefaultActor"), u.Archetype("DefaultBeacon"))
	assert.Equal(t, NoObject, u.Archetype("DefaultActor"))
	assert.Equal(t, NoObject, u.Archetype("Rock"))
	assert.Equal(t, NoObject, u.Archetype("Beacon"))
}

func TestClassObjectReferencesIncludeClassDefault(t *testing.T) {
	u := loadLevel(t)

	var refs []ObjectID
	u.EnumerateReferences("Beacon", func(id ObjectID) { refs = append(refs, id) })
	assert.Equal(t, []ObjectID{"Beep", "DefaultBeacon"}, refs)
}

func TestTemplatesIncludeOwnedObjects(t *testing.T) {
	doc := Document{
		Classes: []ClassSpec{{Name: "Thing"}},
		Objects: []ObjectSpec{
			{ID: "tpl", Class: "Thing", Template: true},
			{ID: "sub", Class: "Thing", Outer: "tpl"},
			{ID: "free", Class: "Thing"},
		},
	}
	u, err := FromDocument(doc)
	require.NoError(t, err)

	assert.True(t, u.IsTemplate("tpl"))
	assert.True(t, u.IsTemplate("sub"))
	assert.False(t, u.IsTemplate("free"))
}

func TestOwnerHelpers(t *testing.T) {
	u := loadLevel(t)

	assert.Equal(t, ObjectID("Game"), Outermost(u, "RockComponent"))
	assert.True(t, IsIn(u, "RockComponent", "MainMap"))
	assert.False(t, IsIn(u, "RockComponent", "Core"))
	assert.False(t, IsIn(u, "RockComponent", NoObject))
}

func TestGroupMembers(t *testing.T) {
	u := loadLevel(t)

	assert.Equal(t, []ObjectID{"RockActor", "Lamp"}, u.GroupMembers("Prefab"))
	assert.Nil(t, u.GroupMembers("Lamp"))
}

func TestValidateReportsEveryProblem(t *testing.T) {
	doc := Document{
		Classes: []ClassSpec{{Name: "Thing", Super: "Ghost"}},
		Objects: []ObjectSpec{
			{ID: "a", Class: "Thing", Refs: []string{"nowhere"}},
			{ID: "a", Class: "Thing"},
			{ID: "b", Class: "Missing", Outer: "void"},
		},
	}

	_, err := FromDocument(doc)
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{
		`unknown super class "Ghost"`,
		`dangling reference "nowhere"`,
		`object "a" declared twice`,
		`unknown class "Missing"`,
		`unknown outer "void"`,
	} {
		assert.Contains(t, msg, want)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("classes: []\nobjects: []\nbogus: 1\n"))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "bogus"))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read universe")
}

func boolPtr(v bool) *bool {
	return &v
}
