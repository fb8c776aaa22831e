package index

import (
	"fmt"

	"github.com/hupe1980/annogo/record"
	"github.com/hupe1980/annogo/typesystem"
)

// Index is a handle on an installed index, restricted to a type: the index
// covers that type and all of its subtypes. Handles are cheap values; the
// records live in the repository's leaf containers.
type Index struct {
	repo *Repository
	inst *installedIndex
	typ  *typesystem.Type
}

// Name returns the definition name the index was installed under.
func (x *Index) Name() string { return x.inst.def.Name }

// Kind returns the index kind.
func (x *Index) Kind() Kind { return x.inst.def.Kind }

// Type returns the type restriction of this handle.
func (x *Index) Type() *typesystem.Type { return x.typ }

// IsAnnotationIndex reports whether the index is interval-capable: sorted,
// over an annotation type, ordered primarily by (begin asc, end desc).
func (x *Index) IsAnnotationIndex() bool { return x.inst.annotation }

// Compare applies the index comparator. Only defined for sorted and set
// indexes; bags have no comparator and Compare panics.
func (x *Index) Compare(a, b record.Record) int {
	if x.inst.cmp == nil {
		panic(fmt.Sprintf("index %q: bag index has no comparator", x.Name()))
	}
	return x.inst.cmp(a, b)
}

// Size returns the number of records covered by this handle.
func (x *Index) Size() int {
	n := 0
	for _, t := range typesystem.SubtreeTypes(x.typ) {
		if l, ok := x.inst.leaves[t.Code()]; ok {
			n += len(l.recs)
		}
	}
	return n
}

// SubIndex returns a handle on the same index restricted to t, which must
// be subsumed by the current restriction.
func (x *Index) SubIndex(t *typesystem.Type) (*Index, error) {
	if !x.typ.Subsumes(t) {
		return nil, fmt.Errorf("index %q over %q cannot be restricted to unrelated type %q",
			x.Name(), x.typ, t)
	}
	return &Index{repo: x.repo, inst: x.inst, typ: t}, nil
}

// subtreeLeaves returns the leaf containers of the restriction subtree in
// depth-first type order.
func (x *Index) subtreeLeaves() []*leaf {
	var out []*leaf
	for _, t := range typesystem.SubtreeTypes(x.typ) {
		if l, ok := x.inst.leaves[t.Code()]; ok && len(l.recs) > 0 {
			out = append(out, l)
		}
	}
	return out
}

// queryCmp returns the comparator used for a walk: the key comparator,
// extended with a type-code tiebreak when type priority is requested.
func (x *Index) queryCmp(typePriority bool) CompareFunc {
	if x.inst.cmp == nil {
		return nil
	}
	if typePriority {
		return withTypeOrder(x.inst.cmp)
	}
	return x.inst.cmp
}

// Iterator returns the unbounded walk over the index, positioned on the
// first record.
//
// Sorted indexes walk in comparator order via a k-way merge over the
// per-type leaves, unless orderNotNeeded waives ordering, in which case the
// leaves are concatenated. Set and bag indexes always walk natively
// unordered. typePriority tightens the merge order with a type-code
// tiebreak.
func (x *Index) Iterator(orderNotNeeded, typePriority bool) Iterator {
	leaves := x.subtreeLeaves()
	if len(leaves) == 0 {
		return Empty()
	}

	if x.Kind() == KindSorted && !orderNotNeeded {
		return newMergeIterator(leaves, x.queryCmp(typePriority))
	}

	parts := make([]Iterator, len(leaves))
	for i, l := range leaves {
		parts[i] = NewSnapshot(l.recs, x.inst.cmp)
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return NewConcat(parts)
}
