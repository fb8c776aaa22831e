// Package record defines the entities held by a store: typed records with a
// stable identity, and annotations, which additionally carry a half-open
// [begin, end) interval over a shared coordinate space.
//
// The interfaces are deliberately small so applications can embed Base or
// Span in their own structs and keep domain fields alongside.
package record

import (
	"fmt"
	"math"

	"github.com/hupe1980/annogo/typesystem"
)

// MaxPosition is the largest representable interval offset. Preceding-style
// anchors use it as an open end bound.
const MaxPosition = math.MaxInt32

// Record is a typed entity with a stable identity. Identity (ID) is what
// equality and set membership are defined on; two distinct records may still
// compare equal under an index comparator.
type Record interface {
	ID() uint64
	Type() *typesystem.Type
}

// Annotation is a Record tagged with a half-open interval [Begin, End),
// Begin <= End.
type Annotation interface {
	Record
	Begin() int
	End() int
}

// Base is an embeddable Record implementation.
type Base struct {
	id  uint64
	typ *typesystem.Type
}

// NewBase creates a Base with the given identity and type.
func NewBase(id uint64, t *typesystem.Type) Base {
	return Base{id: id, typ: t}
}

// ID implements Record.
func (b Base) ID() uint64 { return b.id }

// Type implements Record.
func (b Base) Type() *typesystem.Type { return b.typ }

func (b Base) String() string {
	return fmt.Sprintf("%s#%d", b.typ, b.id)
}

// Span is an embeddable Annotation implementation.
type Span struct {
	Base
	begin int
	end   int
}

// NewSpan creates a Span record. Callers are responsible for begin <= end;
// the query layer validates spans it constructs itself.
func NewSpan(id uint64, t *typesystem.Type, begin, end int) Span {
	return Span{Base: NewBase(id, t), begin: begin, end: end}
}

// Begin implements Annotation.
func (s Span) Begin() int { return s.begin }

// End implements Annotation.
func (s Span) End() int { return s.end }

func (s Span) String() string {
	return fmt.Sprintf("%s#%d[%d,%d)", s.Type(), s.ID(), s.begin, s.end)
}

// AsAnnotation returns r as an Annotation if it carries an interval.
func AsAnnotation(r Record) (Annotation, bool) {
	a, ok := r.(Annotation)
	return a, ok
}
