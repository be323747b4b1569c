package universe

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Resolve returns the objects matching query by ID, then by path name, then
// by name. The first tier with matches wins.
func (u *Universe) Resolve(query string) []ObjectID {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	if u.Contains(ObjectID(query)) {
		return []ObjectID{ObjectID(query)}
	}
	if ids := u.byPath[query]; len(ids) > 0 {
		return sortedIDs(ids)
	}
	return sortedIDs(u.byName[query])
}

// ResolveSingle resolves query to exactly one object.
func (u *Universe) ResolveSingle(query string) (ObjectID, error) {
	matches := u.Resolve(query)
	if len(matches) == 0 {
		return NoObject, errors.Wrapf(ErrUnknownObject, "object %q not found", query)
	}
	if len(matches) == 1 {
		return matches[0], nil
	}

	options := make([]string, 0, len(matches))
	for _, match := range matches {
		options = append(options, string(match))
	}
	return NoObject, errors.Errorf("object %q is ambiguous; use one of: %s", query, strings.Join(options, ", "))
}

func sortedIDs(ids []ObjectID) []ObjectID {
	if len(ids) == 0 {
		return nil
	}
	out := append([]ObjectID(nil), ids...)
	sort.Slice(out, func(i, j int) bool {
		return out[i] < out[j]
	})
	return out
}
