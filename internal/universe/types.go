package universe

import "github.com/pkg/errors"

// ObjectID is the stable identity of an object in the host object system.
type ObjectID string

// NoObject is the null reference.
const NoObject ObjectID = ""

// MetaClass is the class of every class identity object.
const MetaClass ObjectID = "Class"

// ErrUnknownObject is returned when a query names an object that is not in the universe.
var ErrUnknownObject = errors.New("unknown object")

// Host is the reflection capability the traversal consumes. Implementations are
// read-only from the traversal's point of view.
//
// EnumerateReferences reports the object's data references only; the class and
// archetype of an object are exposed through Class and Archetype.
type Host interface {
	// Objects calls visit for every live object in the universe.
	Objects(visit func(ObjectID))
	EnumerateReferences(id ObjectID, visit func(ObjectID))

	Class(id ObjectID) ObjectID
	Archetype(id ObjectID) ObjectID
	Owner(id ObjectID) ObjectID
	IsA(id, class ObjectID) bool
	IsClass(id ObjectID) bool

	HasRenderableInfo(id ObjectID) bool
	IsTemplate(id ObjectID) bool
	IsClassDefault(id ObjectID) bool

	Name(id ObjectID) string
	PathName(id ObjectID) string
}

// GroupHost is implemented by hosts that know about grouped objects (prefab
// instances). Members of a selected group are not used as traversal roots
// when the group lock is enabled.
type GroupHost interface {
	GroupMembers(id ObjectID) []ObjectID
}

// Surface is a selectable sub-component of a shared model that references a
// single material.
type Surface struct {
	Model    ObjectID `yaml:"model" json:"model"`
	Material ObjectID `yaml:"material,omitempty" json:"material,omitempty"`
}

// Selection is the set of traversal roots chosen by the user.
type Selection struct {
	Objects  []ObjectID
	Surfaces []Surface
}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool {
	return len(s.Objects) == 0 && len(s.Surfaces) == 0
}

// Outermost follows the owner chain of id to its top-level object.
func Outermost(h Host, id ObjectID) ObjectID {
	current := id
	for steps := 0; current != NoObject; steps++ {
		owner := h.Owner(current)
		if owner == NoObject || steps > maxOwnerChain {
			return current
		}
		current = owner
	}
	return current
}

// IsIn reports whether id is owned, directly or transitively, by container.
func IsIn(h Host, id, container ObjectID) bool {
	if container == NoObject {
		return false
	}
	current := h.Owner(id)
	for steps := 0; current != NoObject && steps <= maxOwnerChain; steps++ {
		if current == container {
			return true
		}
		current = h.Owner(current)
	}
	return false
}

// maxOwnerChain bounds owner walks on malformed documents with owner cycles.
const maxOwnerChain = 1 << 12
