package filter

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

func TestPolicyRulesInOrder(t *testing.T) {
	u := loadLevel(t)
	cfg := DefaultConfig()
	cfg.IncludeArchetypeEdges = false
	p := New(u, cfg)

	cases := []struct {
		id   universe.ObjectID
		rule string
	}{
		{id: "DefaultActor", rule: RuleCoreDefaults},
		{id: "Persistent", rule: RuleExcludedClass},
		{id: "MainMap", rule: RuleExcludedClass},
		{id: "Scratch", rule: RuleExcludedRoot},
		{id: "Grid", rule: RuleExcludedRoot},
		{id: "DefaultBeacon", rule: RuleTemplates},
		{id: "Rock", rule: ""},
		{id: "RockActor", rule: ""},
		{id: "Transient", rule: ""},
	}
	for _, tc := range cases {
		rule, ok := p.Explain(tc.id)
		assert.Equal(t, tc.rule, rule, "object %s", tc.id)
		assert.Equal(t, tc.rule == "", ok, "object %s", tc.id)
		assert.Equal(t, ok, p.Eligible(tc.id), "object %s", tc.id)
	}
}

func TestTemplatesEligibleWithArchetypeEdges(t *testing.T) {
	u := loadLevel(t)
	p := New(u, DefaultConfig())

	assert.True(t, p.Eligible("DefaultBeacon"))
	assert.False(t, p.Eligible("DefaultActor"), "core class defaults stay excluded")
}

func TestExcludedClassMatchesSubclasses(t *testing.T) {
	u := loadLevel(t)
	p := New(u, Config{ExcludedClasses: []universe.ObjectID{"Actor"}})

	assert.True(t, p.IsExcludedClass("RockActor"))
	assert.True(t, p.IsExcludedClass("Lamp"))
	assert.False(t, p.IsExcludedClass("Rock"))
	rule, _ := p.Explain("Lamp")
	assert.Equal(t, RuleExcludedClass, rule)
}

func TestExcludedRootPatterns(t *testing.T) {
	u := loadLevel(t)

	cases := []struct {
		name     string
		entries  []string
		roots    []universe.ObjectID
		rejected universe.ObjectID
	}{
		{name: "prefix glob", entries: []string{"Engine*"}, roots: []universe.ObjectID{"EngineMaterials"}, rejected: "Grid"},
		{name: "any depth", entries: []string{"**/Transient"}, roots: []universe.ObjectID{"Transient"}, rejected: "Scratch"},
		{name: "path name", entries: []string{"Game.MainMap"}, roots: []universe.ObjectID{"MainMap"}, rejected: "RockComponent"},
		{name: "segment glob", entries: []string{"Game.Main*"}, roots: []universe.ObjectID{"MainMap"}, rejected: "Lamp"},
		{name: "unknown", entries: []string{"Nowhere", "  "}, roots: []universe.ObjectID{}, rejected: universe.NoObject},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := New(u, Config{ExcludedRoots: tc.entries, IncludeArchetypeEdges: true})
			assert.ElementsMatch(t, tc.roots, p.ExcludedRoots())
			if tc.rejected != universe.NoObject {
				rule, ok := p.Explain(tc.rejected)
				assert.False(t, ok)
				assert.Equal(t, RuleExcludedRoot, rule)
			}
			assert.True(t, p.Eligible("Rock"))
		})
	}
}

func TestPathPatternMatch(t *testing.T) {
	cases := []struct {
		pattern string
		path    string
		name    string
		match   bool
	}{
		{pattern: "Engine*", path: "EngineFonts", name: "EngineFonts", match: true},
		{pattern: "Engine*", path: "Game.EngineFonts", name: "EngineFonts", match: true},
		{pattern: "Game.*", path: "Game.MainMap", name: "MainMap", match: true},
		{pattern: "Game.*", path: "Game.MainMap.PersistentLevel", name: "PersistentLevel", match: false},
		{pattern: "Game.**", path: "Game.MainMap.PersistentLevel", name: "PersistentLevel", match: true},
		{pattern: "**.Level?", path: "Game.Level1", name: "Level1", match: true},
		{pattern: "a+b*", path: "a+bc", name: "a+bc", match: true},
		{pattern: "**.Transient", path: "Transient", name: "Transient", match: true},
		{pattern: "Game.**.PersistentLevel", path: "Game.PersistentLevel", name: "PersistentLevel", match: true},
		{pattern: "Game.**.PersistentLevel", path: "Game.MainMap.PersistentLevel", name: "PersistentLevel", match: true},
		{pattern: "Level[0-9]", path: "Game.Level1", name: "Level1", match: true},
		{pattern: "{Engine,Editor}Materials", path: "EditorMaterials", name: "EditorMaterials", match: true},
		{pattern: "{Engine,Editor}Materials", path: "GameMaterials", name: "GameMaterials", match: false},
	}
	for _, tc := range cases {
		pattern, ok := compilePattern(tc.pattern)
		require.True(t, ok, tc.pattern)
		assert.Equal(t, tc.match, pattern.Match(tc.path, tc.name), "%s vs %s", tc.pattern, tc.path)
	}

	_, ok := compilePattern(" ./ ")
	assert.False(t, ok)
	_, ok = compilePattern("Engine[*")
	assert.False(t, ok)
}
