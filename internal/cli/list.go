package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/mattn/go-isatty"
	"github.com/morozRed/assetrefs/internal/assets"
	"github.com/morozRed/assetrefs/internal/fileutil"
	"github.com/morozRed/assetrefs/internal/graph"
	"github.com/morozRed/assetrefs/internal/nav"
	"github.com/morozRed/assetrefs/internal/universe"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type rootRecord struct {
	Root      nav.ObjectRecord   `json:"root"`
	Label     string             `json:"label"`
	Synthetic bool               `json:"synthetic,omitempty"`
	Assets    []nav.ObjectRecord `json:"assets"`
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// build runs one rebuild over sel with a progress reporter attached.
func (s *session) build(ctx context.Context, sel universe.Selection) (*assets.Browser, error) {
	progress := newRebuildProgressReporter("rebuild", s.universe.Name, s.asJSON)
	browser := assets.NewBrowser(s.universe, s.config,
		assets.WithLogger(s.log),
		assets.WithVisitHook(progress.Visit),
	)
	_, err := browser.Rebuild(ctx, sel)
	progress.Done()
	if err != nil {
		return nil, err
	}
	return browser, nil
}

func (a *app) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [root...]",
		Short: "List the assets referenced by each root",
		Long: `Rebuild the referenced asset lists for the given roots, or for the objects
marked selected in the universe document, and print one row per asset.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.newSession(cmd, true)
			if err != nil {
				return err
			}
			sel, err := sess.selection(args)
			if err != nil {
				return err
			}
			browser, err := sess.build(commandContext(cmd), sel)
			if err != nil {
				return err
			}
			return printList(cmd.OutOrStdout(), sess, browser)
		},
	}
}

func printList(out io.Writer, sess *session, browser *assets.Browser) error {
	lookup := nav.NewLookup(browser.Graph(), sess.universe)
	entries := browser.Entries()

	if sess.asJSON {
		records := make([]rootRecord, 0, len(entries))
		for _, entry := range entries {
			record := rootRecord{
				Root:      lookup.Record(entry.Root),
				Label:     entry.Label,
				Synthetic: entry.Synthetic,
				Assets:    make([]nav.ObjectRecord, 0, len(entry.Assets)),
			}
			for _, id := range entry.Assets {
				record.Assets = append(record.Assets, lookup.Record(id))
			}
			records = append(records, record)
		}
		return fileutil.PrintJSON(out, map[string]any{
			"pass":     browser.Result().PassID,
			"settings": sess.settings,
			"roots":    records,
		})
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "no roots selected")
		return nil
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Root", "Object", "Class", "Package"})
	table.SetAutoWrapText(false)
	for _, entry := range entries {
		if len(entry.Assets) == 0 {
			table.Append([]string{entry.Label, "-", "", ""})
			continue
		}
		for _, id := range entry.Assets {
			record := lookup.Record(id)
			table.Append([]string{
				entry.Label,
				record.Name,
				record.Class,
				sess.universe.Name(universe.Outermost(sess.universe, id)),
			})
		}
	}
	table.Render()
	return nil
}

func (a *app) newTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree [root...]",
		Short: "Print the reference tree of each root",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.newSession(cmd, true)
			if err != nil {
				return err
			}
			sel, err := sess.selection(args)
			if err != nil {
				return err
			}
			browser, err := sess.build(commandContext(cmd), sel)
			if err != nil {
				return err
			}

			forest := browser.Forest()
			out := cmd.OutOrStdout()
			if sess.asJSON {
				return fileutil.PrintJSON(out, forest)
			}
			styler := NewTreeStyler(shouldColor(out))
			fmt.Fprintln(out, styler.Style(renderTree(forest)).String())
			return nil
		},
	}
}

// TreeStyler applies the tree enumerator and, on terminals, colors.
type TreeStyler struct {
	shouldColor bool
	entryStyle  lipgloss.Style
	rootStyle   lipgloss.Style
	itemStyle   lipgloss.Style
}

func NewTreeStyler(shouldColor bool) *TreeStyler {
	return &TreeStyler{
		shouldColor: shouldColor,
		entryStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("63")).MarginRight(1),
		rootStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("35")),
		itemStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
	}
}

func (s *TreeStyler) Style(t *tree.Tree) *tree.Tree {
	t = t.Enumerator(tree.RoundedEnumerator)
	if !s.shouldColor {
		return t
	}
	return t.
		EnumeratorStyle(s.entryStyle).
		RootStyle(s.rootStyle).
		ItemStyle(s.itemStyle)
}

func renderTree(node *graph.TreeNode) *tree.Tree {
	t := tree.Root(node.Label)
	for _, child := range node.Children {
		if len(child.Children) == 0 {
			t.Child(child.Label)
			continue
		}
		t.Child(renderTree(child))
	}
	return t
}

func shouldColor(out io.Writer) bool {
	f, ok := out.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
