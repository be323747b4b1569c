package universe

import "strings"

type object struct {
	id        ObjectID
	name      string
	class     ObjectID
	outer     ObjectID
	archetype ObjectID
	super     ObjectID
	refs      []ObjectID
	members   []ObjectID

	isClass      bool
	renderable   *bool
	template     bool
	classDefault bool
}

// Universe is an in-memory object universe built from a Document. It
// implements Host and GroupHost.
type Universe struct {
	objects   map[ObjectID]*object
	order     []ObjectID
	defaults  map[ObjectID]ObjectID // class -> class default object
	selection Selection
	byName    map[string][]ObjectID
	byPath    map[string][]ObjectID
}

var (
	_ Host      = (*Universe)(nil)
	_ GroupHost = (*Universe)(nil)
)

func build(doc Document) *Universe {
	u := &Universe{
		objects:  make(map[ObjectID]*object, len(doc.Classes)+len(doc.Objects)+1),
		order:    make([]ObjectID, 0, len(doc.Classes)+len(doc.Objects)+1),
		defaults: make(map[ObjectID]ObjectID),
		byName:   make(map[string][]ObjectID),
		byPath:   make(map[string][]ObjectID),
	}

	u.add(&object{id: MetaClass, name: string(MetaClass), class: MetaClass, isClass: true})
	for _, spec := range doc.Classes {
		if ObjectID(spec.Name) == MetaClass {
			meta := u.objects[MetaClass]
			meta.outer = ObjectID(spec.Package)
			meta.refs = toIDs(spec.Refs)
			continue
		}
		renderable := spec.Renderable
		u.add(&object{
			id:         ObjectID(spec.Name),
			name:       spec.Name,
			class:      MetaClass,
			outer:      ObjectID(spec.Package),
			super:      ObjectID(spec.Super),
			refs:       toIDs(spec.Refs),
			isClass:    true,
			renderable: &renderable,
		})
	}
	for _, spec := range doc.Objects {
		name := spec.Name
		if name == "" {
			name = spec.ID
		}
		u.add(&object{
			id:           ObjectID(spec.ID),
			name:         name,
			class:        ObjectID(spec.Class),
			outer:        ObjectID(spec.Outer),
			archetype:    ObjectID(spec.Archetype),
			refs:         toIDs(spec.Refs),
			members:      toIDs(spec.Members),
			renderable:   spec.Renderable,
			template:     spec.Template,
			classDefault: spec.Default,
		})
		if spec.Default {
			if _, exists := u.defaults[ObjectID(spec.Class)]; !exists {
				u.defaults[ObjectID(spec.Class)] = ObjectID(spec.ID)
			}
		}
		if spec.Selected {
			u.selection.Objects = append(u.selection.Objects, ObjectID(spec.ID))
		}
	}
	for _, spec := range doc.Surfaces {
		if spec.Selected {
			u.selection.Surfaces = append(u.selection.Surfaces, Surface{
				Model:    ObjectID(spec.Model),
				Material: ObjectID(spec.Material),
			})
		}
	}

	for _, id := range u.order {
		u.byName[u.Name(id)] = append(u.byName[u.Name(id)], id)
		u.byPath[u.PathName(id)] = append(u.byPath[u.PathName(id)], id)
	}
	return u
}

func (u *Universe) add(obj *object) {
	u.objects[obj.id] = obj
	u.order = append(u.order, obj.id)
}

func toIDs(values []string) []ObjectID {
	if len(values) == 0 {
		return nil
	}
	out := make([]ObjectID, 0, len(values))
	for _, value := range values {
		out = append(out, ObjectID(value))
	}
	return out
}

// Len returns the number of objects, class objects included.
func (u *Universe) Len() int {
	return len(u.order)
}

// Contains reports whether id names a live object.
func (u *Universe) Contains(id ObjectID) bool {
	_, ok := u.objects[id]
	return ok
}

// Selection returns the objects and surfaces marked selected in the document.
func (u *Universe) Selection() Selection {
	return Selection{
		Objects:  append([]ObjectID(nil), u.selection.Objects...),
		Surfaces: append([]Surface(nil), u.selection.Surfaces...),
	}
}

func (u *Universe) Objects(visit func(ObjectID)) {
	for _, id := range u.order {
		visit(id)
	}
}

// EnumerateReferences reports the declared references of id. A class object
// also references its class default object.
func (u *Universe) EnumerateReferences(id ObjectID, visit func(ObjectID)) {
	obj := u.objects[id]
	if obj == nil {
		return
	}
	for _, ref := range obj.refs {
		visit(ref)
	}
	if obj.isClass {
		if cdo, ok := u.defaults[id]; ok {
			visit(cdo)
		}
	}
}

func (u *Universe) Class(id ObjectID) ObjectID {
	if obj := u.objects[id]; obj != nil {
		return obj.class
	}
	return NoObject
}

// Archetype returns the explicit archetype of id, falling back to the class
// default object of its class. A class default's archetype is the class
// default of the super class.
func (u *Universe) Archetype(id ObjectID) ObjectID {
	obj := u.objects[id]
	if obj == nil || obj.isClass {
		return NoObject
	}
	if obj.archetype != NoObject {
		return obj.archetype
	}
	if obj.classDefault {
		for super := u.superOf(obj.class); super != NoObject; super = u.superOf(super) {
			if cdo, ok := u.defaults[super]; ok {
				return cdo
			}
		}
		return NoObject
	}
	if cdo, ok := u.defaults[obj.class]; ok && cdo != id {
		return cdo
	}
	return NoObject
}

func (u *Universe) Owner(id ObjectID) ObjectID {
	if obj := u.objects[id]; obj != nil {
		return obj.outer
	}
	return NoObject
}

// IsA reports whether the class of id is class or one of its subclasses.
func (u *Universe) IsA(id, class ObjectID) bool {
	obj := u.objects[id]
	if obj == nil || class == NoObject {
		return false
	}
	current := obj.class
	for steps := 0; current != NoObject && steps <= maxOwnerChain; steps++ {
		if current == class {
			return true
		}
		current = u.superOf(current)
	}
	return false
}

func (u *Universe) IsClass(id ObjectID) bool {
	obj := u.objects[id]
	return obj != nil && obj.isClass
}

// HasRenderableInfo reports whether id can be drawn as a thumbnail. Objects
// inherit the flag from their class chain unless they override it.
func (u *Universe) HasRenderableInfo(id ObjectID) bool {
	obj := u.objects[id]
	if obj == nil || obj.isClass {
		return false
	}
	if obj.renderable != nil {
		return *obj.renderable
	}
	current := obj.class
	for steps := 0; current != NoObject && steps <= maxOwnerChain; steps++ {
		class := u.objects[current]
		if class == nil || class.id == MetaClass {
			return false
		}
		if class.renderable != nil && *class.renderable {
			return true
		}
		current = class.super
	}
	return false
}

// IsTemplate reports whether id is a template, a class default, or owned by one.
func (u *Universe) IsTemplate(id ObjectID) bool {
	current := id
	for steps := 0; current != NoObject && steps <= maxOwnerChain; steps++ {
		obj := u.objects[current]
		if obj == nil {
			return false
		}
		if obj.template || obj.classDefault {
			return true
		}
		current = obj.outer
	}
	return false
}

func (u *Universe) IsClassDefault(id ObjectID) bool {
	obj := u.objects[id]
	return obj != nil && obj.classDefault
}

func (u *Universe) Name(id ObjectID) string {
	if obj := u.objects[id]; obj != nil {
		return obj.name
	}
	return string(id)
}

// PathName joins the names of the owner chain, outermost first, with dots.
func (u *Universe) PathName(id ObjectID) string {
	if _, ok := u.objects[id]; !ok {
		return string(id)
	}
	parts := make([]string, 0, 4)
	current := id
	for steps := 0; current != NoObject && steps <= maxOwnerChain; steps++ {
		parts = append(parts, u.Name(current))
		current = u.Owner(current)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

// GroupMembers returns the declared members of a group object.
func (u *Universe) GroupMembers(id ObjectID) []ObjectID {
	obj := u.objects[id]
	if obj == nil || len(obj.members) == 0 {
		return nil
	}
	return append([]ObjectID(nil), obj.members...)
}

// Super returns the super class of a class object.
func (u *Universe) Super(class ObjectID) ObjectID {
	return u.superOf(class)
}

func (u *Universe) superOf(class ObjectID) ObjectID {
	if obj := u.objects[class]; obj != nil {
		return obj.super
	}
	return NoObject
}
