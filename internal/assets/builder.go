package assets

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/morozRed/assetrefs/internal/filter"
	"github.com/morozRed/assetrefs/internal/graph"
	"github.com/morozRed/assetrefs/internal/telemetry"
	"github.com/morozRed/assetrefs/internal/traverse"
	"github.com/morozRed/assetrefs/internal/universe"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ProxyLabelPrefix prefixes the label of a synthetic root standing in for a
// shared model whose surfaces are selected.
const ProxyLabelPrefix = "BSP."

var tracer = telemetry.Tracer("assets")

// Config is the full set of rebuild settings.
type Config struct {
	Filter      filter.Config
	DepthMode   DepthMode
	CustomDepth int
	SortMode    SortMode
	// SkipGroupMembers drops members of selected groups from the roots.
	SkipGroupMembers bool
}

// DefaultConfig returns the browser defaults.
func DefaultConfig() Config {
	return Config{
		Filter:    filter.DefaultConfig(),
		DepthMode: DepthInfinite,
		SortMode:  SortByName,
	}
}

// MaxDepth is the walker bound for the configured depth mode.
func (c Config) MaxDepth() int {
	return c.DepthMode.MaxDepth(c.CustomDepth)
}

// RootEntry is one traversal root and the assets it reported.
type RootEntry struct {
	Root      universe.ObjectID   `json:"root"`
	Label     string              `json:"label"`
	Assets    []universe.ObjectID `json:"assets"`
	Synthetic bool                `json:"synthetic,omitempty"`
}

// Result is the output of one rebuild pass.
type Result struct {
	PassID   string
	Entries  []RootEntry
	Graph    *graph.ReferenceGraph
	Eligible int
	Visited  int
	Duration time.Duration
}

// Labels maps each root to its display label.
func (r *Result) Labels() map[universe.ObjectID]string {
	out := make(map[universe.ObjectID]string, len(r.Entries))
	for _, entry := range r.Entries {
		out[entry.Root] = entry.Label
	}
	return out
}

// Roots returns the roots in entry order.
func (r *Result) Roots() []universe.ObjectID {
	out := make([]universe.ObjectID, 0, len(r.Entries))
	for _, entry := range r.Entries {
		out = append(out, entry.Root)
	}
	return out
}

// Entry returns the entry for root.
func (r *Result) Entry(root universe.ObjectID) (RootEntry, bool) {
	for _, entry := range r.Entries {
		if entry.Root == root {
			return entry, true
		}
	}
	return RootEntry{}, false
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for rebuild summaries.
func WithLogger(log *logrus.Entry) Option {
	return func(b *Builder) {
		if log != nil {
			b.log = log
		}
	}
}

// WithVisitHook registers a callback for every object entered by the walker.
func WithVisitHook(hook func(universe.ObjectID)) Option {
	return func(b *Builder) {
		b.onVisit = hook
	}
}

// Builder runs full rebuild passes against one host. It is not safe for
// concurrent use.
type Builder struct {
	host    universe.Host
	cfg     Config
	log     *logrus.Entry
	ledger  *traverse.Ledger
	onVisit func(universe.ObjectID)
}

func NewBuilder(host universe.Host, cfg Config, opts ...Option) *Builder {
	b := &Builder{
		host:   host,
		cfg:    cfg,
		log:    logrus.WithField("component", "assets"),
		ledger: traverse.NewLedger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) Config() Config {
	return b.cfg
}

func (b *Builder) SetConfig(cfg Config) {
	b.cfg = cfg
}

// Rebuild discards the previous pass and discovers the assets of every root
// in sel. Cancellation is only observed before the pass starts.
func (b *Builder) Rebuild(ctx context.Context, sel universe.Selection) (*Result, error) {
	if err := ctx.Err(); err != nil {
		telemetry.RecordRebuildCancelled()
		return nil, errors.Wrap(err, "rebuild cancelled")
	}

	started := time.Now()
	passID := uuid.NewString()
	_, span := tracer.Start(ctx, "assets.Builder.Rebuild",
		trace.WithAttributes(attribute.String("pass.id", passID)),
	)
	defer span.End()

	g := graph.New()
	b.ledger.Reset()
	policy := filter.New(b.host, b.cfg.Filter)

	entries := b.proxyRoots(g, policy, sel.Surfaces)
	eligible := b.ledger.MarkAll(b.host, policy.Eligible)

	opts := traverse.Options{
		MaxDepth:              b.cfg.MaxDepth(),
		IncludeClassEdges:     b.cfg.Filter.IncludeClassEdges,
		IncludeArchetypeEdges: b.cfg.Filter.IncludeArchetypeEdges,
		OnVisit:               b.onVisit,
	}
	for _, root := range b.objectRoots(sel.Objects, entries) {
		g.Ensure(root)
		found := traverse.Walk(b.host, policy, b.ledger, opts, g, root)
		entries = append(entries, RootEntry{
			Root:   root,
			Label:  b.host.Name(root),
			Assets: found,
		})
	}

	NewSorter(b.host).SortEntries(b.cfg.SortMode, entries)

	result := &Result{
		PassID:   passID,
		Entries:  entries,
		Graph:    g,
		Eligible: eligible,
		Visited:  b.ledger.Consumed(),
		Duration: time.Since(started),
	}

	counts := make([]int, 0, len(entries))
	total := 0
	for _, entry := range entries {
		counts = append(counts, len(entry.Assets))
		total += len(entry.Assets)
	}
	telemetry.RecordRebuild(telemetry.RebuildStats{
		Duration:    result.Duration,
		Visited:     result.Visited,
		Edges:       g.EdgeCount(),
		AssetCounts: counts,
	})
	span.SetAttributes(
		attribute.Int("rebuild.roots", len(entries)),
		attribute.Int("rebuild.assets", total),
		attribute.Int("rebuild.edges", g.EdgeCount()),
		attribute.Int("rebuild.visited", result.Visited),
	)
	b.log.WithFields(logrus.Fields{
		"pass":    passID,
		"roots":   len(entries),
		"assets":  total,
		"edges":   g.EdgeCount(),
		"visited": result.Visited,
		"elapsed": result.Duration.Round(time.Microsecond).String(),
	}).Debug("rebuilt referenced assets")

	return result, nil
}

// proxyRoots creates one synthetic root per model with selected surfaces.
// Each holds the distinct eligible materials of those surfaces; models left
// with no material are omitted.
func (b *Builder) proxyRoots(g *graph.ReferenceGraph, policy *filter.Policy, surfaces []universe.Surface) []RootEntry {
	if len(surfaces) == 0 {
		return make([]RootEntry, 0)
	}

	models := make([]universe.ObjectID, 0)
	materials := make(map[universe.ObjectID][]universe.ObjectID)
	seen := make(map[universe.Surface]bool)
	for _, surface := range surfaces {
		if _, ok := materials[surface.Model]; !ok {
			models = append(models, surface.Model)
			materials[surface.Model] = make([]universe.ObjectID, 0)
		}
		if surface.Material == universe.NoObject || seen[surface] || !policy.Eligible(surface.Material) {
			continue
		}
		seen[surface] = true
		materials[surface.Model] = append(materials[surface.Model], surface.Material)
	}

	entries := make([]RootEntry, 0, len(models))
	for _, model := range models {
		mats := materials[model]
		if len(mats) == 0 {
			continue
		}
		g.Set(model, mats)
		entries = append(entries, RootEntry{
			Root:      model,
			Label:     ProxyLabelPrefix + b.host.Name(model),
			Assets:    append([]universe.ObjectID(nil), mats...),
			Synthetic: true,
		})
	}
	return entries
}

// objectRoots returns the selected objects in selection order without
// duplicates, proxy roots, or members of selected groups when the group lock
// is on.
func (b *Builder) objectRoots(selected []universe.ObjectID, proxies []RootEntry) []universe.ObjectID {
	skip := make(map[universe.ObjectID]bool, len(proxies))
	for _, entry := range proxies {
		skip[entry.Root] = true
	}
	if b.cfg.SkipGroupMembers {
		if groups, ok := b.host.(universe.GroupHost); ok {
			for _, id := range selected {
				for _, member := range groups.GroupMembers(id) {
					skip[member] = true
				}
			}
		}
	}

	out := make([]universe.ObjectID, 0, len(selected))
	for _, id := range selected {
		if id == universe.NoObject || skip[id] {
			continue
		}
		skip[id] = true
		out = append(out, id)
	}
	return out
}

// ReferencedAssets runs a standalone walk from root with unbounded depth,
// class edges on and class defaults excluded. No graph is recorded.
func ReferencedAssets(host universe.Host, root universe.ObjectID, cfg filter.Config) []universe.ObjectID {
	cfg.IncludeClassEdges = true
	cfg.IncludeArchetypeEdges = false
	policy := filter.New(host, cfg)

	ledger := traverse.NewLedger()
	ledger.MarkAll(host, policy.Eligible)
	return traverse.Walk(host, policy, ledger, traverse.Options{
		IncludeClassEdges: true,
	}, nil, root)
}
