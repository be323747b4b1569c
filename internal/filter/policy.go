package filter

import (
	"strings"

	"github.com/morozRed/assetrefs/internal/universe"
)

// Rule names, in evaluation order.
const (
	RuleCoreDefaults  = "core-defaults"
	RuleExcludedClass = "excluded-class"
	RuleExcludedRoot  = "excluded-root"
	RuleTemplates     = "templates"
)

// DefaultCorePackage is the package whose class defaults are never searched.
const DefaultCorePackage universe.ObjectID = "Core"

// Config holds the knobs that decide which objects a traversal may enter.
type Config struct {
	// ExcludedClasses rejects instances of these classes and their subclasses.
	ExcludedClasses []universe.ObjectID
	// ExcludedRoots rejects everything owned by these objects. Entries are
	// object IDs, path names, or glob patterns over path names.
	ExcludedRoots []string
	// IncludeClassEdges follows class identities as pass-through edges.
	IncludeClassEdges bool
	// IncludeArchetypeEdges follows archetypes as pass-through edges and
	// keeps templates eligible.
	IncludeArchetypeEdges bool
	CorePackage           universe.ObjectID
}

// DefaultConfig mirrors the browser's out-of-the-box settings.
func DefaultConfig() Config {
	return Config{
		ExcludedClasses:       []universe.ObjectID{"Level", "World"},
		ExcludedRoots:         []string{"EditorMaterials", "EngineResources", "EngineFonts", "EngineMaterials", "Transient"},
		IncludeClassEdges:     false,
		IncludeArchetypeEdges: true,
		CorePackage:           DefaultCorePackage,
	}
}

type rule struct {
	name   string
	reject func(id universe.ObjectID) bool
}

// Policy decides traversal eligibility. Rules are evaluated in order and the
// first rule that rejects an object wins.
type Policy struct {
	host  universe.Host
	cfg   Config
	roots []universe.ObjectID
	rules []rule
}

// New builds a policy for host. Excluded root entries that match nothing are
// ignored.
func New(host universe.Host, cfg Config) *Policy {
	if cfg.CorePackage == universe.NoObject {
		cfg.CorePackage = DefaultCorePackage
	}
	p := &Policy{
		host:  host,
		cfg:   cfg,
		roots: resolveRoots(host, cfg.ExcludedRoots),
	}
	p.rules = []rule{
		{name: RuleCoreDefaults, reject: p.isCoreDefault},
		{name: RuleExcludedClass, reject: p.IsExcludedClass},
		{name: RuleExcludedRoot, reject: p.isUnderExcludedRoot},
		{name: RuleTemplates, reject: p.isExcludedTemplate},
	}
	return p
}

func (p *Policy) Config() Config {
	return p.cfg
}

// ExcludedRoots returns the objects the configured root entries resolved to.
func (p *Policy) ExcludedRoots() []universe.ObjectID {
	return append([]universe.ObjectID(nil), p.roots...)
}

// Eligible reports whether id may be visited.
func (p *Policy) Eligible(id universe.ObjectID) bool {
	_, ok := p.Explain(id)
	return ok
}

// Explain returns the name of the rule rejecting id, or ok=true when no rule does.
func (p *Policy) Explain(id universe.ObjectID) (string, bool) {
	for _, r := range p.rules {
		if r.reject(id) {
			return r.name, false
		}
	}
	return "", true
}

// IsExcludedClass reports whether id is an instance of an excluded class.
func (p *Policy) IsExcludedClass(id universe.ObjectID) bool {
	for _, class := range p.cfg.ExcludedClasses {
		if p.host.IsA(id, class) {
			return true
		}
	}
	return false
}

func (p *Policy) isCoreDefault(id universe.ObjectID) bool {
	return p.host.IsClassDefault(id) && universe.Outermost(p.host, id) == p.cfg.CorePackage
}

func (p *Policy) isUnderExcludedRoot(id universe.ObjectID) bool {
	for _, root := range p.roots {
		if universe.IsIn(p.host, id, root) {
			return true
		}
	}
	return false
}

func (p *Policy) isExcludedTemplate(id universe.ObjectID) bool {
	return !p.cfg.IncludeArchetypeEdges && p.host.IsTemplate(id)
}

func resolveRoots(host universe.Host, entries []string) []universe.ObjectID {
	if len(entries) == 0 {
		return nil
	}

	exact := make(map[string]bool, len(entries))
	patterns := make([]pathPattern, 0)
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if isGlob(entry) {
			if pattern, ok := compilePattern(entry); ok {
				patterns = append(patterns, pattern)
			}
			continue
		}
		exact[entry] = true
	}

	out := make([]universe.ObjectID, 0, len(entries))
	host.Objects(func(id universe.ObjectID) {
		if exact[string(id)] {
			out = append(out, id)
			return
		}
		pathName := host.PathName(id)
		if exact[pathName] {
			out = append(out, id)
			return
		}
		for _, pattern := range patterns {
			if pattern.Match(pathName, host.Name(id)) {
				out = append(out, id)
				return
			}
		}
	})
	return out
}
