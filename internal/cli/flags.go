package cli

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func optionalStringFlag(cmd *cobra.Command, name string) (string, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return "", nil
	}
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read --%s flag", name)
	}
	return strings.TrimSpace(value), nil
}

func intFlagAtLeast(cmd *cobra.Command, name string, min int) (int, error) {
	value, err := cmd.Flags().GetInt(name)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to read --%s flag", name)
	}
	if value < min {
		return 0, errors.Errorf("--%s must be >= %d", name, min)
	}
	return value, nil
}

func positiveDurationFlag(cmd *cobra.Command, name string) (time.Duration, error) {
	value, err := cmd.Flags().GetDuration(name)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to read --%s flag", name)
	}
	if value <= 0 {
		return 0, errors.Errorf("--%s must be positive", name)
	}
	return value, nil
}

// rootQueries returns the --root values with blanks removed.
func rootQueries(cmd *cobra.Command) ([]string, error) {
	roots, err := cmd.Flags().GetStringSlice("root")
	if err != nil {
		return nil, errors.Wrap(err, "failed to read --root flag")
	}
	queries := make([]string, 0, len(roots))
	for _, root := range roots {
		if root = strings.TrimSpace(root); root != "" {
			queries = append(queries, root)
		}
	}
	return queries, nil
}
