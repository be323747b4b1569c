package cli

import (
	"fmt"
	"strings"

	"github.com/morozRed/assetrefs/internal/settings"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables that override flags.
const EnvPrefix = "ASSETREFS"

type rootOpts struct {
	cfgFile  string
	debug    bool
	hideTime bool
}

// app carries the state shared by the commands of one root command.
type app struct {
	version string
	opts    rootOpts
	v       *viper.Viper
}

func NewRootCommand(version string) *cobra.Command {
	a := &app{version: version, v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "assetrefs",
		Short: "Discover the assets referenced by objects of an object universe",
		Long: `assetrefs walks the reference graph of an object universe from a set of
root objects and reports, per root, every asset the roots depend on.

The universe is read from a YAML document (--universe). Browser settings are
read from an ini file (--settings) and can be overridden by flags, ASSETREFS_*
environment variables or a --config file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.opts.cfgFile, "config", "", "config file overriding flags (yaml, json or toml)")
	flags.BoolVarP(&a.opts.debug, "debug", "d", false, "turn on debug logging")
	flags.BoolVar(&a.opts.hideTime, "hide-time", false, "hide the log time")
	flags.StringP("universe", "u", "", "universe document to load")
	flags.String("settings", settings.DefaultFile, "browser settings file")
	flags.String("depth", "", "traversal depth: direct|infinite|custom")
	flags.Int("custom-depth", 0, "maximum depth when --depth=custom")
	flags.Bool("group-by-class", false, "sort by class, then by name")
	flags.Bool("include-defaults", false, "follow archetype and class default references")
	flags.Bool("include-script", false, "follow class references")
	flags.Bool("skip-group-members", false, "do not use members of selected groups as roots")
	flags.StringSlice("exclude-class", nil, "classes whose instances are never reported")
	flags.StringSlice("exclude-root", nil, "containers whose contents are never reported (ids or globs)")
	flags.Bool("fuzzy", false, "resolve unknown object names with typo-tolerant search")
	flags.Bool("json", false, "print machine-readable output")

	rootCmd.AddCommand(
		a.newListCmd(),
		a.newTreeCmd(),
		a.newRefsCmd(),
		a.newReferencersCmd(),
		a.newPathCmd(),
		a.newTraceCmd(),
		a.newExplainCmd(),
		a.newFindCmd(),
		a.newSettingsCmd(),
		a.newWatchCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "assetrefs %s\n", version)
			},
		},
	)

	return rootCmd
}

// init configures logging and binds flags, environment and config file.
func (a *app) init(cmd *cobra.Command) error {
	logrus.SetOutput(cmd.ErrOrStderr())
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: a.opts.hideTime,
		FullTimestamp:    true,
	})
	if a.opts.debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}

	a.v.SetEnvPrefix(EnvPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	if err := a.v.BindPFlags(cmd.Root().PersistentFlags()); err != nil {
		return errors.Wrap(err, "failed to bind flags")
	}
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "failed to bind flags")
	}

	if a.opts.cfgFile != "" {
		a.v.SetConfigFile(a.opts.cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "failed to read config %s", a.opts.cfgFile)
		}
		logrus.Debugf("using config file %s", a.v.ConfigFileUsed())
	}
	return nil
}
