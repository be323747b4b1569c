package cli

import (
	"fmt"
	"io"

	"github.com/morozRed/assetrefs/internal/assets"
	"github.com/morozRed/assetrefs/internal/filter"
	"github.com/morozRed/assetrefs/internal/fileutil"
	"github.com/morozRed/assetrefs/internal/nav"
	"github.com/morozRed/assetrefs/internal/search"
	"github.com/morozRed/assetrefs/internal/universe"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func (a *app) newRefsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refs <object>",
		Short: "List every asset an object references, class references included",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.newSession(cmd, true)
			if err != nil {
				return err
			}
			id, err := sess.resolve(args[0])
			if err != nil {
				return err
			}

			found := assets.ReferencedAssets(sess.universe, id, sess.config.Filter)
			assets.NewSorter(sess.universe).SortAssets(sess.config.SortMode, found)

			lookup := nav.NewLookup(nil, sess.universe)
			records := make([]nav.ObjectRecord, 0, len(found))
			for _, ref := range found {
				records = append(records, lookup.Record(ref))
			}
			out := cmd.OutOrStdout()
			if sess.asJSON {
				return fileutil.PrintJSON(out, map[string]any{
					"query":  args[0],
					"object": lookup.Record(id),
					"assets": records,
				})
			}

			fmt.Fprintf(out, "assets referenced by %s (%d)\n", sess.universe.PathName(id), len(records))
			printRecords(out, records)
			return nil
		},
	}
}

func (a *app) newReferencersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "referencers <object>",
		Short: "Show the objects that reference an object in the rebuilt graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, lookup, err := a.graphLookup(cmd)
			if err != nil {
				return err
			}
			id, err := sess.resolve(args[0])
			if err != nil {
				return err
			}

			referencers := nav.CollectReferencers(lookup, id)
			out := cmd.OutOrStdout()
			if sess.asJSON {
				return fileutil.PrintJSON(out, map[string]any{
					"query":       args[0],
					"object":      lookup.Record(id),
					"referencers": referencers,
				})
			}

			fmt.Fprintf(out, "referencers of %s (%d)\n", sess.universe.PathName(id), len(referencers))
			if len(referencers) == 0 {
				fmt.Fprintln(out, "no referencers found")
				return nil
			}
			for _, edge := range referencers {
				fmt.Fprintf(out, "- %s [%s] (%s)\n", edge.Object.Path, edge.Object.Class, edge.Kind)
			}
			return nil
		},
	}
	cmd.Flags().StringSlice("root", nil, "roots to rebuild from (default: document selection)")
	return cmd
}

func (a *app) newPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path <root> <object>",
		Short: "Find the shortest reference path from a root to an object",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.newSession(cmd, true)
			if err != nil {
				return err
			}
			from, err := sess.resolve(args[0])
			if err != nil {
				return err
			}
			to, err := sess.resolve(args[1])
			if err != nil {
				return err
			}
			browser, err := sess.build(commandContext(cmd), universe.Selection{Objects: []universe.ObjectID{from}})
			if err != nil {
				return err
			}

			steps, err := nav.Path(nav.NewLookup(browser.Graph(), sess.universe), from, to)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if sess.asJSON {
				return fileutil.PrintJSON(out, map[string]any{
					"from":   from,
					"to":     to,
					"length": len(steps) - 1,
					"path":   steps,
				})
			}

			fmt.Fprintf(out, "path %s -> %s length=%d\n", from, to, len(steps)-1)
			for i, step := range steps {
				if step.Kind == "" {
					fmt.Fprintf(out, "%d. %s [%s]\n", i+1, step.Object.Path, step.Object.Class)
					continue
				}
				fmt.Fprintf(out, "%d. %s [%s] via %s\n", i+1, step.Object.Path, step.Object.Class, step.Kind)
			}
			return nil
		},
	}
}

func (a *app) newTraceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace <object>",
		Short: "Trace outgoing graph edges from an object up to N hops",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hops, err := intFlagAtLeast(cmd, "hops", 1)
			if err != nil {
				return err
			}
			sess, lookup, err := a.graphLookup(cmd)
			if err != nil {
				return err
			}
			id, err := sess.resolve(args[0])
			if err != nil {
				return err
			}

			trace := nav.Trace(lookup, id, hops)
			out := cmd.OutOrStdout()
			if sess.asJSON {
				return fileutil.PrintJSON(out, map[string]any{
					"query": args[0],
					"start": lookup.Record(id),
					"hops":  trace,
				})
			}

			fmt.Fprintf(out, "trace from %s hops=%d edges=%d\n", id, hops, len(trace))
			if len(trace) == 0 {
				fmt.Fprintln(out, "no outgoing edges found")
				return nil
			}
			for _, hop := range trace {
				fmt.Fprintf(out, "- d=%d %s -> %s (%s)\n", hop.Depth, hop.From.ID, hop.To.ID, hop.Kind)
			}
			return nil
		},
	}
	cmd.Flags().Int("hops", 2, "number of edges to follow (>=1)")
	cmd.Flags().StringSlice("root", nil, "roots to rebuild from (default: document selection)")
	return cmd
}

// graphLookup rebuilds from --root, or from the document selection, and wraps
// the graph for navigation.
func (a *app) graphLookup(cmd *cobra.Command) (*session, *nav.Lookup, error) {
	sess, err := a.newSession(cmd, true)
	if err != nil {
		return nil, nil, err
	}
	roots, err := rootQueries(cmd)
	if err != nil {
		return nil, nil, err
	}
	sel, err := sess.selection(roots)
	if err != nil {
		return nil, nil, err
	}
	browser, err := sess.build(commandContext(cmd), sel)
	if err != nil {
		return nil, nil, err
	}
	return sess, nav.NewLookup(browser.Graph(), sess.universe), nil
}

type explanation struct {
	Object       nav.ObjectRecord `json:"object"`
	Eligible     bool             `json:"eligible"`
	Rule         string           `json:"rule,omitempty"`
	Renderable   bool             `json:"renderable"`
	ClassDefault bool             `json:"class_default"`
	Template     bool             `json:"template"`
	Outermost    string           `json:"outermost"`
}

func (a *app) newExplainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain <object>",
		Short: "Show which filter rule, if any, keeps an object out of the lists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.newSession(cmd, true)
			if err != nil {
				return err
			}
			id, err := sess.resolve(args[0])
			if err != nil {
				return err
			}

			u := sess.universe
			policy := filter.New(u, sess.config.Filter)
			rule, eligible := policy.Explain(id)
			result := explanation{
				Object:       nav.NewLookup(nil, u).Record(id),
				Eligible:     eligible,
				Rule:         rule,
				Renderable:   u.HasRenderableInfo(id),
				ClassDefault: u.IsClassDefault(id),
				Template:     u.IsTemplate(id),
				Outermost:    u.Name(universe.Outermost(u, id)),
			}
			out := cmd.OutOrStdout()
			if sess.asJSON {
				return fileutil.PrintJSON(out, result)
			}

			if eligible {
				fmt.Fprintf(out, "%s is eligible\n", result.Object.Path)
			} else {
				fmt.Fprintf(out, "%s is rejected by rule %s\n", result.Object.Path, rule)
			}
			fmt.Fprintf(out, "  class: %s\n  package: %s\n  renderable: %t\n  class default: %t\n  template: %t\n",
				result.Object.Class, result.Outermost, result.Renderable, result.ClassDefault, result.Template)
			return nil
		},
	}
}

func (a *app) newFindCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find <query>",
		Short: "Find objects by ID, path, name or fuzzy search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := intFlagAtLeast(cmd, "limit", 1)
			if err != nil {
				return err
			}
			sess, err := a.newSession(cmd, true)
			if err != nil {
				return err
			}

			ids := sess.universe.Resolve(args[0])
			if len(ids) == 0 {
				for _, result := range search.Search(search.Build(sess.universe), args[0], limit) {
					ids = append(ids, result.ID)
				}
			}
			if len(ids) == 0 {
				return errors.Wrapf(universe.ErrUnknownObject, "object %q not found", args[0])
			}
			if len(ids) > limit {
				ids = ids[:limit]
			}

			lookup := nav.NewLookup(nil, sess.universe)
			records := make([]nav.ObjectRecord, 0, len(ids))
			for _, id := range ids {
				records = append(records, lookup.Record(id))
			}
			out := cmd.OutOrStdout()
			if sess.asJSON {
				return fileutil.PrintJSON(out, map[string]any{
					"query":   args[0],
					"matches": records,
				})
			}
			fmt.Fprintf(out, "object matches for %q (%d)\n", args[0], len(records))
			printRecords(out, records)
			return nil
		},
	}
	cmd.Flags().Int("limit", 10, "maximum number of matches")
	return cmd
}

func printRecords(out io.Writer, records []nav.ObjectRecord) {
	for _, record := range records {
		fmt.Fprintf(out, "- %s [%s] %s\n", record.ID, record.Class, record.Path)
	}
}
