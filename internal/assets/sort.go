package assets

import (
	"sort"
	"strings"

	"github.com/morozRed/assetrefs/internal/universe"
	"github.com/pkg/errors"
)

// SortMode orders roots and their asset lists.
type SortMode int

const (
	SortByName SortMode = iota
	SortByClassThenName
)

func (m SortMode) String() string {
	if m == SortByClassThenName {
		return "class"
	}
	return "name"
}

func ParseSortMode(value string) (SortMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "name":
		return SortByName, nil
	case "class":
		return SortByClassThenName, nil
	default:
		return SortByName, errors.Errorf("unsupported sort mode %q (supported: name, class)", value)
	}
}

// Sorter compares objects by cached display names. A sorter is meant for one
// sorting pass; names are read from the host once per object.
type Sorter struct {
	host  universe.Host
	names map[universe.ObjectID]string
}

func NewSorter(host universe.Host) *Sorter {
	return &Sorter{host: host, names: make(map[universe.ObjectID]string)}
}

func (s *Sorter) name(id universe.ObjectID) string {
	if name, ok := s.names[id]; ok {
		return name
	}
	name := s.host.Name(id)
	s.names[id] = name
	return name
}

func (s *Sorter) className(id universe.ObjectID) string {
	class := s.host.Class(id)
	if class == universe.NoObject {
		return ""
	}
	return s.name(class)
}

// SortAssets orders ids in place.
func (s *Sorter) SortAssets(mode SortMode, ids []universe.ObjectID) {
	sort.SliceStable(ids, func(i, j int) bool {
		return s.less(mode, ids[i], s.name(ids[i]), ids[j], s.name(ids[j]))
	})
}

// SortEntries orders the roots in place, then each root's asset list.
// Synthetic roots are compared by their label.
func (s *Sorter) SortEntries(mode SortMode, entries []RootEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return s.less(mode, entries[i].Root, s.entryName(entries[i]), entries[j].Root, s.entryName(entries[j]))
	})
	for i := range entries {
		s.SortAssets(mode, entries[i].Assets)
	}
}

func (s *Sorter) entryName(entry RootEntry) string {
	if entry.Label != "" {
		return entry.Label
	}
	return s.name(entry.Root)
}

func (s *Sorter) less(mode SortMode, a universe.ObjectID, nameA string, b universe.ObjectID, nameB string) bool {
	if mode == SortByClassThenName {
		classA, classB := s.className(a), s.className(b)
		if c := compareFold(classA, classB); c != 0 {
			return c < 0
		}
	}
	if c := compareFold(nameA, nameB); c != 0 {
		return c < 0
	}
	if nameA != nameB {
		return nameA < nameB
	}
	return a < b
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
