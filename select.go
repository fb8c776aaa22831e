package annogo

import (
	"fmt"

	"github.com/hupe1980/annogo/index"
	"github.com/hupe1980/annogo/record"
	"github.com/hupe1980/annogo/typesystem"
)

// Select is an immutable query builder over one view (or an alternate record
// source). Every setter returns an updated copy, so partially configured
// selects can be stored and branched:
//
//	tokens := annogo.SelectAs[record.Annotation](view).Type(tokenType)
//	inSentence, err := tokens.CoveredBy(sentence).AsSlice()
//
// Configuration mistakes are deferred: setters record the first error and
// every terminal operation reports it, wrapped in ErrConfiguration.
type Select[T record.Record] struct {
	view *View

	idx *index.Index
	typ *typesystem.Type

	bounds     index.BoundsMode
	bound      record.Annotation
	emptyBound bool

	startAt   record.Record
	following bool
	preceding bool

	typePriority   bool
	skipSame       bool
	nonOverlapping bool
	includeBeyond  bool
	allViews       bool
	nilOK          bool
	orderNotNeeded bool
	backwards      bool

	shift int
	limit int

	source   []record.Record
	isSource bool

	err error
}

// Select starts a query over this view yielding plain records.
func (v *View) Select() Select[record.Record] {
	return SelectAs[record.Record](v)
}

// SelectAnnotations starts a query over this view's annotation index.
func (v *View) SelectAnnotations() Select[record.Annotation] {
	return SelectAs[record.Annotation](v).Type(v.store.ts.Annotation())
}

// SelectAs starts a query over v with a caller-chosen result type. Records
// reaching a terminal operation must implement T.
func SelectAs[T record.Record](v *View) Select[T] {
	return Select[T]{view: v, limit: -1}
}

// SelectSource starts a query over an explicit record slice instead of an
// index. Type restriction, nil-tolerance, ordering direction, shift and
// limit apply; index selection, bounds, positioning and all-views do not.
func SelectSource[T record.Record](v *View, source []T) Select[T] {
	s := SelectAs[T](v)
	s.isSource = true
	s.source = make([]record.Record, len(source))
	for i, r := range source {
		s.source[i] = record.Record(r)
	}
	return s
}

// setErr records the first configuration error.
func (s Select[T]) setErr(err error) Select[T] {
	if s.err == nil {
		s.err = configErr(err)
	}
	return s
}

// posSpan builds an anchor span of the universal annotation type.
func (s Select[T]) posSpan(begin, end int) record.Annotation {
	return record.NewSpan(0, s.view.store.ts.Annotation(), begin, end)
}

// Index restricts the select to walk the given index.
func (s Select[T]) Index(x *index.Index) Select[T] {
	s.idx = x
	return s
}

// IndexNamed restricts the select to walk the view's index of that name.
func (s Select[T]) IndexNamed(name string) Select[T] {
	x := s.view.repo.Index(name)
	if x == nil {
		return s.setErr(fmt.Errorf("unknown index %q in view %q", name, s.view.name))
	}
	s.idx = x
	return s
}

// Type restricts results to t and its subtypes.
func (s Select[T]) Type(t *typesystem.Type) Select[T] {
	if t == nil {
		return s.setErr(fmt.Errorf("type restriction must not be nil"))
	}
	s.typ = t
	return s
}

// TypeNamed restricts results to the named type and its subtypes.
func (s Select[T]) TypeNamed(name string) Select[T] {
	t := s.view.store.ts.Lookup(name)
	if t == nil {
		return s.setErr(fmt.Errorf("unknown type %q", name))
	}
	s.typ = t
	return s
}

// TypePriority tightens ordering with a type-code tiebreak between records
// that compare equal under the index comparator. Forces the annotation
// index.
func (s Select[T]) TypePriority() Select[T] {
	s.typePriority = true
	return s
}

// SkipWhenSameBeginEndType drops bounded results whose begin, end and type
// all equal the bound's, which excludes the bound record itself.
func (s Select[T]) SkipWhenSameBeginEndType() Select[T] {
	s.skipSame = true
	return s
}

// NonOverlapping suppresses results overlapping a previously yielded result:
// after yielding a record, every record starting before its end is skipped.
// Forces the annotation index.
func (s Select[T]) NonOverlapping() Select[T] {
	s.nonOverlapping = true
	return s
}

// IncludeAnnotationsBeyondBounds keeps covered-by results that extend past
// the bound's end. Forces the annotation index.
func (s Select[T]) IncludeAnnotationsBeyondBounds() Select[T] {
	s.includeBeyond = true
	return s
}

// AllViews aggregates results from every view of the store that has an
// equivalent of the selected index.
func (s Select[T]) AllViews() Select[T] {
	s.allViews = true
	return s
}

// NilOK makes Get and Single return the zero value instead of an error when
// nothing matches. For alternate sources it additionally keeps nil entries.
func (s Select[T]) NilOK() Select[T] {
	s.nilOK = true
	return s
}

// OrderNotNeeded waives ordering, letting sorted indexes walk their leaf
// containers without merging. Ignored when positioning, bounds or a shift
// require order.
func (s Select[T]) OrderNotNeeded() Select[T] {
	s.orderNotNeeded = true
	return s
}

// Backwards reverses iteration order.
func (s Select[T]) Backwards() Select[T] {
	s.backwards = true
	return s
}

// Shifted offsets the starting position by n records: positive n skips
// forward, negative n steps back. A shift beyond either end leaves the
// iteration empty.
func (s Select[T]) Shifted(n int) Select[T] {
	s.shift = n
	return s
}

// Limit caps the number of results. n must be >= 0; zero yields nothing.
func (s Select[T]) Limit(n int) Select[T] {
	if n < 0 {
		return s.setErr(ErrInvalidLimit)
	}
	s.limit = n
	return s
}

// StartAt positions the iteration on the leftmost record comparing equal to
// r, or the first record greater. Only meaningful on unbounded ordered
// selects.
func (s Select[T]) StartAt(r record.Record) Select[T] {
	if r == nil {
		return s.setErr(fmt.Errorf("start record must not be nil"))
	}
	s.startAt = r
	return s
}

// StartAtSpan positions the iteration at the given interval.
func (s Select[T]) StartAtSpan(begin, end int) Select[T] {
	if begin > end {
		return s.setErr(&InvalidSpanError{Begin: begin, End: end})
	}
	s.startAt = s.posSpan(begin, end)
	return s
}

// CoveredBy restricts results to records lying within bound's interval.
func (s Select[T]) CoveredBy(bound record.Annotation) Select[T] {
	if bound == nil {
		return s.setErr(fmt.Errorf("bound must not be nil"))
	}
	s.bounds = index.BoundsCoveredBy
	s.bound = bound
	s.emptyBound = false
	return s
}

// CoveredBySpan restricts results to records lying within [begin, end).
func (s Select[T]) CoveredBySpan(begin, end int) Select[T] {
	if begin > end {
		return s.setErr(&InvalidSpanError{Begin: begin, End: end})
	}
	s.bounds = index.BoundsCoveredBy
	s.bound = s.posSpan(begin, end)
	s.emptyBound = false
	return s
}

// Covering restricts results to records whose interval contains bound's.
func (s Select[T]) Covering(bound record.Annotation) Select[T] {
	if bound == nil {
		return s.setErr(fmt.Errorf("bound must not be nil"))
	}
	s.bounds = index.BoundsCovering
	s.bound = bound
	s.emptyBound = false
	return s
}

// CoveringSpan restricts results to records whose interval contains
// [begin, end).
func (s Select[T]) CoveringSpan(begin, end int) Select[T] {
	if begin > end {
		return s.setErr(&InvalidSpanError{Begin: begin, End: end})
	}
	s.bounds = index.BoundsCovering
	s.bound = s.posSpan(begin, end)
	s.emptyBound = false
	return s
}

// At restricts results to records with exactly bound's interval.
func (s Select[T]) At(bound record.Annotation) Select[T] {
	if bound == nil {
		return s.setErr(fmt.Errorf("bound must not be nil"))
	}
	s.bounds = index.BoundsSameSpan
	s.bound = bound
	s.emptyBound = false
	return s
}

// AtSpan restricts results to records spanning exactly [begin, end).
func (s Select[T]) AtSpan(begin, end int) Select[T] {
	if begin > end {
		return s.setErr(&InvalidSpanError{Begin: begin, End: end})
	}
	s.bounds = index.BoundsSameSpan
	s.bound = s.posSpan(begin, end)
	s.emptyBound = false
	return s
}

// Between restricts results to records lying in the gap between a and b.
// The arguments may be given in either order; when the gap is empty or
// negative the select yields nothing.
func (s Select[T]) Between(a, b record.Annotation) Select[T] {
	if a == nil || b == nil {
		return s.setErr(fmt.Errorf("between bounds must not be nil"))
	}
	begin, end := a.End(), b.Begin()
	if a.End() > b.Begin() {
		begin, end = b.End(), a.Begin()
	}
	s.bounds = index.BoundsCoveredBy
	if begin > end {
		s.bound = nil
		s.emptyBound = true
	} else {
		s.bound = s.posSpan(begin, end)
		s.emptyBound = false
	}
	return s
}

// Following yields records starting at or after anchor's end, in ascending
// order. A zero-width anchor is used as-is; otherwise the anchor position is
// its end offset.
func (s Select[T]) Following(anchor record.Annotation) Select[T] {
	if anchor == nil {
		return s.setErr(fmt.Errorf("anchor must not be nil"))
	}
	if anchor.Begin() < anchor.End() {
		return s.FollowingPos(anchor.End())
	}
	s.startAt = anchor
	s.following = true
	s.preceding = false
	return s
}

// FollowingPos yields records starting at or after pos.
func (s Select[T]) FollowingPos(pos int) Select[T] {
	s.startAt = s.posSpan(pos, pos)
	s.following = true
	s.preceding = false
	return s
}

// Preceding yields records ending at or before anchor's begin, in ascending
// order unless Backwards is set.
func (s Select[T]) Preceding(anchor record.Annotation) Select[T] {
	if anchor == nil {
		return s.setErr(fmt.Errorf("anchor must not be nil"))
	}
	return s.PrecedingPos(anchor.Begin())
}

// PrecedingPos yields records ending at or before pos.
func (s Select[T]) PrecedingPos(pos int) Select[T] {
	s.startAt = s.posSpan(pos, record.MaxPosition)
	s.preceding = true
	s.following = false
	return s
}
