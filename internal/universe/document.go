package universe

import (
	"bytes"
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const CurrentDocumentVersion = "1"

// Document is the YAML description of an object universe.
type Document struct {
	Version  string        `yaml:"version,omitempty"`
	Classes  []ClassSpec   `yaml:"classes"`
	Objects  []ObjectSpec  `yaml:"objects"`
	Surfaces []SurfaceSpec `yaml:"surfaces,omitempty"`
}

// ClassSpec declares a class. Each class becomes a class identity object whose
// ID is the class name.
type ClassSpec struct {
	Name       string   `yaml:"name"`
	Super      string   `yaml:"super,omitempty"`
	Package    string   `yaml:"package,omitempty"`
	Renderable bool     `yaml:"renderable,omitempty"`
	Refs       []string `yaml:"refs,omitempty"`
}

// ObjectSpec declares an object instance.
type ObjectSpec struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name,omitempty"`
	Class     string   `yaml:"class"`
	Outer     string   `yaml:"outer,omitempty"`
	Archetype string   `yaml:"archetype,omitempty"`
	Refs      []string `yaml:"refs,omitempty"`
	Members   []string `yaml:"members,omitempty"`

	// Renderable overrides the class-level renderable flag when set.
	Renderable *bool `yaml:"renderable,omitempty"`
	Template   bool  `yaml:"template,omitempty"`
	Default    bool  `yaml:"default,omitempty"`
	Selected   bool  `yaml:"selected,omitempty"`
}

// SurfaceSpec declares a surface of a shared model.
type SurfaceSpec struct {
	Model    string `yaml:"model"`
	Material string `yaml:"material,omitempty"`
	Selected bool   `yaml:"selected,omitempty"`
}

// Load reads and validates a universe document from path.
func Load(path string) (*Universe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read universe %s", path)
	}
	u, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid universe %s", path)
	}
	return u, nil
}

// Parse decodes and validates a universe document.
func Parse(data []byte) (*Universe, error) {
	var doc Document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "failed to decode universe document")
	}
	return FromDocument(doc)
}

// FromDocument validates doc and builds the in-memory universe. Every problem
// in the document is reported, not just the first.
func FromDocument(doc Document) (*Universe, error) {
	migrateDocument(&doc)
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return build(doc), nil
}

// Validate checks identities and references.
func (d Document) Validate() error {
	var result *multierror.Error

	known := make(map[string]bool, len(d.Classes)+len(d.Objects))
	classes := make(map[string]bool, len(d.Classes))
	known[string(MetaClass)] = true
	classes[string(MetaClass)] = true

	for i, class := range d.Classes {
		if class.Name == "" {
			result = multierror.Append(result, fmt.Errorf("classes[%d]: name is required", i))
			continue
		}
		if known[class.Name] && class.Name != string(MetaClass) {
			result = multierror.Append(result, fmt.Errorf("class %q declared twice", class.Name))
		}
		known[class.Name] = true
		classes[class.Name] = true
	}
	for i, obj := range d.Objects {
		if obj.ID == "" {
			result = multierror.Append(result, fmt.Errorf("objects[%d]: id is required", i))
			continue
		}
		if known[obj.ID] {
			result = multierror.Append(result, fmt.Errorf("object %q declared twice", obj.ID))
		}
		known[obj.ID] = true
	}

	for _, class := range d.Classes {
		if class.Super != "" && !classes[class.Super] {
			result = multierror.Append(result, fmt.Errorf("class %q: unknown super class %q", class.Name, class.Super))
		}
		if class.Package != "" && !known[class.Package] {
			result = multierror.Append(result, fmt.Errorf("class %q: unknown package %q", class.Name, class.Package))
		}
		for _, ref := range class.Refs {
			if !known[ref] {
				result = multierror.Append(result, fmt.Errorf("class %q: dangling reference %q", class.Name, ref))
			}
		}
	}
	for _, obj := range d.Objects {
		if obj.ID == "" {
			continue
		}
		if !classes[obj.Class] {
			result = multierror.Append(result, fmt.Errorf("object %q: unknown class %q", obj.ID, obj.Class))
		}
		if obj.Outer != "" && !known[obj.Outer] {
			result = multierror.Append(result, fmt.Errorf("object %q: unknown outer %q", obj.ID, obj.Outer))
		}
		if obj.Archetype != "" && !known[obj.Archetype] {
			result = multierror.Append(result, fmt.Errorf("object %q: unknown archetype %q", obj.ID, obj.Archetype))
		}
		for _, ref := range obj.Refs {
			if ref != "" && !known[ref] {
				result = multierror.Append(result, fmt.Errorf("object %q: dangling reference %q", obj.ID, ref))
			}
		}
		for _, member := range obj.Members {
			if !known[member] {
				result = multierror.Append(result, fmt.Errorf("object %q: unknown member %q", obj.ID, member))
			}
		}
	}
	for i, surface := range d.Surfaces {
		if !known[surface.Model] {
			result = multierror.Append(result, fmt.Errorf("surfaces[%d]: unknown model %q", i, surface.Model))
		}
		if surface.Material != "" && !known[surface.Material] {
			result = multierror.Append(result, fmt.Errorf("surfaces[%d]: unknown material %q", i, surface.Material))
		}
	}

	return result.ErrorOrNil()
}

func migrateDocument(doc *Document) {
	if doc.Version == "" {
		doc.Version = CurrentDocumentVersion
	}
}
