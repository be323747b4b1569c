package settings

import (
	"bytes"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/morozRed/assetrefs/internal/assets"
	"github.com/morozRed/assetrefs/internal/fileutil"
	"github.com/morozRed/assetrefs/internal/filter"
	"github.com/morozRed/assetrefs/internal/universe"
	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
)

// Section is the ini section holding the browser settings.
const Section = "ReferencedAssets"

// DefaultFile is the settings file name used when none is given.
const DefaultFile = "assetrefs.ini"

var validate = validator.New()

// Settings are the persisted browser options.
type Settings struct {
	DepthMode          string   `ini:"DepthMode" json:"depth_mode" validate:"oneof=direct infinite custom"`
	CustomDepth        int      `ini:"CustomDepth" json:"custom_depth" validate:"gte=0,lte=4096"`
	GroupByClass       bool     `ini:"GroupByClass" json:"group_by_class"`
	IncludeDefaultRefs bool     `ini:"IncludeDefaultRefs" json:"include_default_refs"`
	IncludeScriptRefs  bool     `ini:"IncludeScriptRefs" json:"include_script_refs"`
	SkipGroupMembers   bool     `ini:"SkipGroupMembers" json:"skip_group_members"`
	ExcludedClasses    []string `ini:"ExcludedClasses" delim:"," json:"excluded_classes" validate:"dive,required,excludesall=*?"`
	ExcludedRoots      []string `ini:"ExcludedRoots" delim:"," json:"excluded_roots" validate:"dive,required"`
}

// Default mirrors the defaults of a fresh browser.
func Default() Settings {
	return FromAssetsConfig(assets.DefaultConfig())
}

// FromAssetsConfig captures a browser configuration.
func FromAssetsConfig(cfg assets.Config) Settings {
	classes := make([]string, 0, len(cfg.Filter.ExcludedClasses))
	for _, class := range cfg.Filter.ExcludedClasses {
		classes = append(classes, string(class))
	}
	return Settings{
		DepthMode:          cfg.DepthMode.String(),
		CustomDepth:        cfg.CustomDepth,
		GroupByClass:       cfg.SortMode == assets.SortByClassThenName,
		IncludeDefaultRefs: cfg.Filter.IncludeArchetypeEdges,
		IncludeScriptRefs:  cfg.Filter.IncludeClassEdges,
		SkipGroupMembers:   cfg.SkipGroupMembers,
		ExcludedClasses:    classes,
		ExcludedRoots:      append([]string(nil), cfg.Filter.ExcludedRoots...),
	}
}

// Validate checks field ranges and list entries.
func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return errors.Wrap(err, "invalid settings")
	}
	return nil
}

// AssetsConfig converts the settings into a browser configuration.
func (s Settings) AssetsConfig() (assets.Config, error) {
	if err := s.Validate(); err != nil {
		return assets.Config{}, err
	}
	mode, err := assets.ParseDepthMode(s.DepthMode)
	if err != nil {
		return assets.Config{}, err
	}

	cfg := assets.DefaultConfig()
	cfg.DepthMode = mode
	cfg.CustomDepth = s.CustomDepth
	cfg.SkipGroupMembers = s.SkipGroupMembers
	if s.GroupByClass {
		cfg.SortMode = assets.SortByClassThenName
	} else {
		cfg.SortMode = assets.SortByName
	}

	classes := make([]universe.ObjectID, 0, len(s.ExcludedClasses))
	for _, class := range fileutil.DedupeStrings(s.ExcludedClasses) {
		classes = append(classes, universe.ObjectID(class))
	}
	cfg.Filter = filter.Config{
		ExcludedClasses:       classes,
		ExcludedRoots:         fileutil.DedupeStrings(s.ExcludedRoots),
		IncludeClassEdges:     s.IncludeScriptRefs,
		IncludeArchetypeEdges: s.IncludeDefaultRefs,
		CorePackage:           filter.DefaultCorePackage,
	}
	return cfg, nil
}

// Load reads the settings at path. A missing file yields the defaults; keys
// missing from the file keep their default values.
func Load(path string) (Settings, error) {
	s := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return s, nil
	}

	file, err := ini.Load(path)
	if err != nil {
		return Settings{}, errors.Wrapf(err, "failed to read settings %s", path)
	}
	if err := file.Section(Section).MapTo(&s); err != nil {
		return Settings{}, errors.Wrapf(err, "failed to decode section %s of %s", Section, path)
	}
	s.ExcludedClasses = fileutil.DedupeStrings(s.ExcludedClasses)
	s.ExcludedRoots = fileutil.DedupeStrings(s.ExcludedRoots)
	if err := s.Validate(); err != nil {
		return Settings{}, errors.Wrapf(err, "settings %s", path)
	}
	return s, nil
}

// Save writes s to path. Other sections of an existing file are kept.
func Save(path string, s Settings) (bool, error) {
	if err := s.Validate(); err != nil {
		return false, err
	}

	file := ini.Empty()
	if _, err := os.Stat(path); err == nil {
		loaded, err := ini.Load(path)
		if err != nil {
			return false, errors.Wrapf(err, "failed to read settings %s", path)
		}
		file = loaded
	}
	file.DeleteSection(Section)
	section, err := file.NewSection(Section)
	if err != nil {
		return false, errors.WithStack(err)
	}
	if err := section.ReflectFrom(&s); err != nil {
		return false, errors.Wrap(err, "failed to encode settings")
	}

	var buf bytes.Buffer
	if _, err := file.WriteTo(&buf); err != nil {
		return false, errors.Wrap(err, "failed to encode settings")
	}
	return fileutil.WriteIfChangedTracked(path, buf.Bytes())
}
