package assets

import (
	"context"

	"github.com/morozRed/assetrefs/internal/filter"
	"github.com/morozRed/assetrefs/internal/graph"
	"github.com/morozRed/assetrefs/internal/universe"
	"github.com/sirupsen/logrus"
)

// Browser holds the state a referenced-assets view keeps between rebuilds:
// the settings, the last selection, the last result and the assets picked in
// the view. Setters only flag the browser as stale; the rebuild happens on
// the next Tick. A new browser starts stale. A Browser is not safe for
// concurrent use.
type Browser struct {
	host    universe.Host
	builder *Builder
	log     *logrus.Entry

	selection   universe.Selection
	result      *Result
	needsUpdate bool

	picked      []universe.ObjectID
	changingSel bool
	onSelect    func([]universe.ObjectID)
}

func NewBrowser(host universe.Host, cfg Config, opts ...Option) *Browser {
	builder := NewBuilder(host, cfg, opts...)
	return &Browser{
		host:        host,
		builder:     builder,
		log:         builder.log,
		needsUpdate: true,
	}
}

func (b *Browser) Config() Config {
	return b.builder.Config()
}

// OnSelectionChange registers the callback used to push picked assets back to
// the host selection. Selection notifications raised from inside the
// callback are ignored.
func (b *Browser) OnSelectionChange(fn func([]universe.ObjectID)) {
	b.onSelect = fn
}

// Rebuild runs a pass immediately over sel and clears the stale flag.
func (b *Browser) Rebuild(ctx context.Context, sel universe.Selection) (*Result, error) {
	b.selection = copySelection(sel)
	return b.rebuild(ctx)
}

func (b *Browser) rebuild(ctx context.Context) (*Result, error) {
	result, err := b.builder.Rebuild(ctx, b.selection)
	if err != nil {
		return nil, err
	}
	b.result = result
	b.needsUpdate = false
	b.prunePicked()
	return result, nil
}

// Result returns the last rebuild result, or nil before the first rebuild.
func (b *Browser) Result() *Result {
	return b.result
}

func (b *Browser) SetFilterPolicy(cfg filter.Config) {
	next := b.builder.Config()
	next.Filter = cfg
	b.builder.SetConfig(next)
	b.RequestUpdate()
}

func (b *Browser) SetDepthMode(mode DepthMode) {
	next := b.builder.Config()
	next.DepthMode = mode
	b.builder.SetConfig(next)
	b.RequestUpdate()
}

// SetCustomDepth stores the custom bound. Only a browser in custom depth mode
// becomes stale.
func (b *Browser) SetCustomDepth(depth int) {
	next := b.builder.Config()
	next.CustomDepth = depth
	b.builder.SetConfig(next)
	if next.DepthMode == DepthCustom {
		b.RequestUpdate()
	}
}

// SetSortMode re-sorts the current result in place without a rebuild.
func (b *Browser) SetSortMode(mode SortMode) {
	next := b.builder.Config()
	next.SortMode = mode
	b.builder.SetConfig(next)
	if b.result != nil {
		NewSorter(b.host).SortEntries(mode, b.result.Entries)
	}
}

func (b *Browser) SetSkipGroupMembers(skip bool) {
	next := b.builder.Config()
	next.SkipGroupMembers = skip
	b.builder.SetConfig(next)
	b.RequestUpdate()
}

func (b *Browser) RequestUpdate() {
	b.needsUpdate = true
}

func (b *Browser) NeedsUpdate() bool {
	return b.needsUpdate
}

// Tick rebuilds when the browser is stale and reports whether it did.
func (b *Browser) Tick(ctx context.Context) (bool, error) {
	if !b.needsUpdate {
		return false, nil
	}
	if _, err := b.rebuild(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Teardown drops every piece of state tied to the current universe.
func (b *Browser) Teardown() {
	b.selection = universe.Selection{}
	b.result = nil
	b.picked = nil
	b.needsUpdate = false
	b.builder.ledger.Reset()
	b.log.Debug("browser state discarded")
}

// Rebind points the browser at a new universe after a teardown and marks it
// stale.
func (b *Browser) Rebind(host universe.Host) {
	b.Teardown()
	b.host = host
	b.builder.host = host
	b.RequestUpdate()
}

// NotifySelectionChanged records a new host selection. Notifications raised
// while the browser itself is pushing a selection are dropped.
func (b *Browser) NotifySelectionChanged(sel universe.Selection) {
	if b.changingSel {
		return
	}
	b.selection = copySelection(sel)
	b.RequestUpdate()
}

// SelectAsset adds id to the picked assets when the current graph knows it.
func (b *Browser) SelectAsset(id universe.ObjectID) bool {
	if b.result == nil || !b.result.Graph.Has(id) {
		return false
	}
	for _, existing := range b.picked {
		if existing == id {
			return true
		}
	}
	b.picked = append(b.picked, id)
	b.pushSelection()
	return true
}

func (b *Browser) DeselectAsset(id universe.ObjectID) {
	for i, existing := range b.picked {
		if existing == id {
			b.picked = append(b.picked[:i], b.picked[i+1:]...)
			b.pushSelection()
			return
		}
	}
}

func (b *Browser) SelectedAssets() []universe.ObjectID {
	return append([]universe.ObjectID(nil), b.picked...)
}

func (b *Browser) pushSelection() {
	if b.onSelect == nil {
		return
	}
	b.changingSel = true
	defer func() { b.changingSel = false }()
	b.onSelect(b.SelectedAssets())
}

func (b *Browser) prunePicked() {
	if len(b.picked) == 0 {
		return
	}
	kept := b.picked[:0]
	for _, id := range b.picked {
		if b.result.Graph.Has(id) {
			kept = append(kept, id)
		}
	}
	b.picked = kept
}

// Entries returns the sorted roots of the last rebuild.
func (b *Browser) Entries() []RootEntry {
	if b.result == nil {
		return nil
	}
	return b.result.Entries
}

// FlatList returns the assets discovered for root, or nil when root was not
// part of the last rebuild.
func (b *Browser) FlatList(root universe.ObjectID) []universe.ObjectID {
	if b.result == nil {
		return nil
	}
	entry, ok := b.result.Entry(root)
	if !ok {
		return nil
	}
	return append([]universe.ObjectID(nil), entry.Assets...)
}

// Tree projects the graph below root.
func (b *Browser) Tree(root universe.ObjectID) *graph.TreeNode {
	if b.result == nil {
		return nil
	}
	entry, ok := b.result.Entry(root)
	if !ok {
		return nil
	}
	return graph.Project(b.result.Graph, b.host, root, entry.Label)
}

// Forest projects every root under a single top node.
func (b *Browser) Forest() *graph.TreeNode {
	if b.result == nil {
		return graph.ProjectAll(graph.New(), b.host, nil, nil)
	}
	return graph.ProjectAll(b.result.Graph, b.host, b.result.Roots(), b.result.Labels())
}

func (b *Browser) Graph() *graph.ReferenceGraph {
	if b.result == nil {
		return nil
	}
	return b.result.Graph
}

func copySelection(sel universe.Selection) universe.Selection {
	return universe.Selection{
		Objects:  append([]universe.ObjectID(nil), sel.Objects...),
		Surfaces: append([]universe.Surface(nil), sel.Surfaces...),
	}
}
