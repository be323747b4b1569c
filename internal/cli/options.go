package cli

import (
	"strings"

	"github.com/morozRed/assetrefs/internal/assets"
	"github.com/morozRed/assetrefs/internal/search"
	"github.com/morozRed/assetrefs/internal/settings"
	"github.com/morozRed/assetrefs/internal/universe"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// session is everything a command needs after flag resolution.
type session struct {
	universePath string
	settingsPath string
	universe     *universe.Universe
	settings     settings.Settings
	config       assets.Config
	asJSON       bool
	fuzzy        bool
	log          *logrus.Entry
}

// resolveSettings loads the settings file and applies every override that was
// set on the command line, in the environment or in the config file.
func (a *app) resolveSettings() (settings.Settings, string, error) {
	path := strings.TrimSpace(a.v.GetString("settings"))
	if path == "" {
		path = settings.DefaultFile
	}
	s, err := settings.Load(path)
	if err != nil {
		return settings.Settings{}, "", err
	}

	if a.v.IsSet("depth") && a.v.GetString("depth") != "" {
		mode, err := assets.ParseDepthMode(a.v.GetString("depth"))
		if err != nil {
			return settings.Settings{}, "", err
		}
		s.DepthMode = mode.String()
	}
	if a.v.IsSet("custom-depth") {
		s.CustomDepth = a.v.GetInt("custom-depth")
	}
	if a.v.IsSet("group-by-class") {
		s.GroupByClass = a.v.GetBool("group-by-class")
	}
	if a.v.IsSet("include-defaults") {
		s.IncludeDefaultRefs = a.v.GetBool("include-defaults")
	}
	if a.v.IsSet("include-script") {
		s.IncludeScriptRefs = a.v.GetBool("include-script")
	}
	if a.v.IsSet("skip-group-members") {
		s.SkipGroupMembers = a.v.GetBool("skip-group-members")
	}
	if a.v.IsSet("exclude-class") {
		s.ExcludedClasses = a.v.GetStringSlice("exclude-class")
	}
	if a.v.IsSet("exclude-root") {
		s.ExcludedRoots = a.v.GetStringSlice("exclude-root")
	}
	return s, path, s.Validate()
}

// newSession resolves settings and, when needUniverse is set, loads the
// universe document.
func (a *app) newSession(cmd *cobra.Command, needUniverse bool) (*session, error) {
	s, settingsPath, err := a.resolveSettings()
	if err != nil {
		return nil, err
	}
	cfg, err := s.AssetsConfig()
	if err != nil {
		return nil, err
	}

	sess := &session{
		settingsPath: settingsPath,
		settings:     s,
		config:       cfg,
		asJSON:       a.v.GetBool("json"),
		fuzzy:        a.v.GetBool("fuzzy"),
		log:          logrus.WithField("command", cmd.Name()),
	}
	if !needUniverse {
		return sess, nil
	}

	sess.universePath = strings.TrimSpace(a.v.GetString("universe"))
	if sess.universePath == "" {
		return nil, errors.New("--universe is required")
	}
	u, err := universe.Load(sess.universePath)
	if err != nil {
		return nil, err
	}
	sess.universe = u
	sess.log.WithFields(logrus.Fields{
		"universe": sess.universePath,
		"objects":  u.Len(),
	}).Debug("loaded universe")
	return sess, nil
}

// resolve maps a command line query to one object: by ID, path name or name,
// then by search when --fuzzy is on.
func (s *session) resolve(query string) (universe.ObjectID, error) {
	id, err := s.universe.ResolveSingle(query)
	if err == nil || !s.fuzzy || !errors.Is(err, universe.ErrUnknownObject) {
		return id, err
	}

	results := search.Search(search.Build(s.universe), query, 1)
	if len(results) == 0 {
		return universe.NoObject, err
	}
	s.log.Infof("resolved %q to %s", query, results[0].ID)
	return results[0].ID, nil
}

// selection returns the roots named by queries, or the document selection
// when there are none.
func (s *session) selection(queries []string) (universe.Selection, error) {
	if len(queries) == 0 {
		return s.universe.Selection(), nil
	}
	sel := universe.Selection{Objects: make([]universe.ObjectID, 0, len(queries))}
	for _, query := range queries {
		id, err := s.resolve(query)
		if err != nil {
			return universe.Selection{}, err
		}
		sel.Objects = append(sel.Objects, id)
	}
	return sel, nil
}
