package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/morozRed/assetrefs/internal/fileutil"
	"github.com/morozRed/assetrefs/internal/settings"
	"github.com/spf13/cobra"
)

func (a *app) newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or persist the browser settings",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective settings after overrides",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				sess, err := a.newSession(cmd, false)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if sess.asJSON {
					return fileutil.PrintJSON(out, map[string]any{
						"path":     sess.settingsPath,
						"settings": sess.settings,
					})
				}
				printSettings(out, sess.settingsPath, sess.settings)
				return nil
			},
		},
		&cobra.Command{
			Use:   "save",
			Short: "Write the effective settings to the settings file",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				sess, err := a.newSession(cmd, false)
				if err != nil {
					return err
				}
				changed, err := settings.Save(sess.settingsPath, sess.settings)
				if err != nil {
					return err
				}
				if changed {
					fmt.Fprintf(cmd.OutOrStdout(), "saved settings to %s\n", sess.settingsPath)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "settings unchanged in %s\n", sess.settingsPath)
				}
				return nil
			},
		},
	)
	return cmd
}

func printSettings(out io.Writer, path string, s settings.Settings) {
	fmt.Fprintf(out, "[%s] %s\n", settings.Section, path)
	fmt.Fprintf(out, "DepthMode=%s\n", s.DepthMode)
	fmt.Fprintf(out, "CustomDepth=%d\n", s.CustomDepth)
	fmt.Fprintf(out, "GroupByClass=%t\n", s.GroupByClass)
	fmt.Fprintf(out, "IncludeDefaultRefs=%t\n", s.IncludeDefaultRefs)
	fmt.Fprintf(out, "IncludeScriptRefs=%t\n", s.IncludeScriptRefs)
	fmt.Fprintf(out, "SkipGroupMembers=%t\n", s.SkipGroupMembers)
	fmt.Fprintf(out, "ExcludedClasses=%s\n", strings.Join(s.ExcludedClasses, ","))
	fmt.Fprintf(out, "ExcludedRoots=%s\n", strings.Join(s.ExcludedRoots, ","))
}
