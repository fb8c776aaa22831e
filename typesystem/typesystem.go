// Package typesystem implements the single-rooted type hierarchy shared by
// all views of a store.
//
// Types are created once, up front, and are immutable afterwards. Subsumption
// ("is-a") queries are answered from a per-type roaring bitmap holding the
// codes of the type and all of its descendants, so Subsumes is a single
// bitmap lookup regardless of hierarchy depth.
package typesystem

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// Reserved names of the built-in types every TypeSystem starts with.
const (
	TopTypeName        = "Top"
	AnnotationTypeName = "Annotation"
)

// Type is a node in the hierarchy. The zero value is not usable; types are
// created through TypeSystem.NewType.
type Type struct {
	name     string
	code     uint32
	parent   *Type
	children []*Type
	subsumed *roaring.Bitmap // codes of this type and all descendants
}

// Name returns the fully qualified type name.
func (t *Type) Name() string { return t.name }

// Code returns the dense type code assigned at creation time.
func (t *Type) Code() uint32 { return t.code }

// Parent returns the supertype, or nil for the root.
func (t *Type) Parent() *Type { return t.parent }

// Children returns the direct subtypes in creation order.
func (t *Type) Children() []*Type { return t.children }

// Subsumes reports whether other is t or a descendant of t.
func (t *Type) Subsumes(other *Type) bool {
	if other == nil {
		return false
	}
	return t.subsumed.Contains(other.code)
}

// SubsumedCodes returns the bitmap of type codes covered by this type.
// Callers must not mutate the result.
func (t *Type) SubsumedCodes() *roaring.Bitmap { return t.subsumed }

func (t *Type) String() string { return t.name }

// TypeSystem holds the hierarchy. It is safe for concurrent readers once all
// types have been created.
type TypeSystem struct {
	types  []*Type
	byName map[string]*Type

	top        *Type
	annotation *Type
}

// New creates a TypeSystem containing the built-in Top root and the
// Annotation type (direct subtype of Top) that anchors all interval-tagged
// record types.
func New() *TypeSystem {
	ts := &TypeSystem{
		byName: make(map[string]*Type),
	}
	ts.top = ts.mustNewType(TopTypeName, nil)
	ts.annotation = ts.mustNewType(AnnotationTypeName, ts.top)
	return ts
}

// Top returns the root type.
func (ts *TypeSystem) Top() *Type { return ts.top }

// Annotation returns the built-in type all interval-tagged types descend from.
func (ts *TypeSystem) Annotation() *Type { return ts.annotation }

// Lookup returns the type with the given name, or nil if unknown.
func (ts *TypeSystem) Lookup(name string) *Type { return ts.byName[name] }

// Len returns the number of types, built-ins included.
func (ts *TypeSystem) Len() int { return len(ts.types) }

// ByCode returns the type with the given code, or nil if out of range.
func (ts *TypeSystem) ByCode(code uint32) *Type {
	if int(code) >= len(ts.types) {
		return nil
	}
	return ts.types[code]
}

// NewType creates a type under the given parent. A nil parent means Top.
// Names must be unique within the type system.
func (ts *TypeSystem) NewType(name string, parent *Type) (*Type, error) {
	if name == "" {
		return nil, fmt.Errorf("type name must not be empty")
	}
	if _, ok := ts.byName[name]; ok {
		return nil, fmt.Errorf("type %q already defined", name)
	}
	if parent == nil {
		parent = ts.top
	}
	if ts.byName[parent.name] != parent {
		return nil, fmt.Errorf("parent type %q belongs to a different type system", parent.name)
	}

	t := &Type{
		name:     name,
		code:     uint32(len(ts.types)),
		parent:   parent,
		subsumed: roaring.New(),
	}
	t.subsumed.Add(t.code)

	ts.types = append(ts.types, t)
	ts.byName[name] = t
	parent.children = append(parent.children, t)

	// Propagate the new code up the ancestor chain.
	for a := parent; a != nil; a = a.parent {
		a.subsumed.Add(t.code)
	}

	return t, nil
}

// NewAnnotationType creates an interval-tagged type. A nil parent means the
// built-in Annotation type; otherwise the parent must itself be an
// annotation type.
func (ts *TypeSystem) NewAnnotationType(name string, parent *Type) (*Type, error) {
	if parent == nil {
		parent = ts.annotation
	}
	if !ts.annotation.Subsumes(parent) {
		return nil, fmt.Errorf("parent type %q is not an annotation type", parent.name)
	}
	return ts.NewType(name, parent)
}

// IsAnnotationType reports whether t descends from the built-in Annotation
// type.
func (ts *TypeSystem) IsAnnotationType(t *Type) bool {
	return ts.annotation.Subsumes(t)
}

func (ts *TypeSystem) mustNewType(name string, parent *Type) *Type {
	var t *Type
	var err error
	if parent == nil {
		// Root bootstrap: bypass the nil-parent-means-Top default.
		t = &Type{name: name, code: uint32(len(ts.types)), subsumed: roaring.New()}
		t.subsumed.Add(t.code)
		ts.types = append(ts.types, t)
		ts.byName[name] = t
		return t
	}
	t, err = ts.NewType(name, parent)
	if err != nil {
		panic(err)
	}
	return t
}

// SubtreeTypes returns t and all of its descendants in depth-first creation
// order. Used by indexes to enumerate per-type leaf containers.
func SubtreeTypes(t *Type) []*Type {
	out := []*Type{t}
	for _, c := range t.children {
		out = append(out, SubtreeTypes(c)...)
	}
	return out
}
