package index

import (
	"math"

	"github.com/hupe1980/annogo/record"
	"github.com/hupe1980/annogo/typesystem"
)

// BoundsMode selects the interval relation a bounded walk applies between
// each candidate record and the bound.
type BoundsMode int

const (
	// BoundsNone applies no interval bound.
	BoundsNone BoundsMode = iota

	// BoundsCoveredBy yields records lying within the bound: records
	// starting inside [bound.Begin, bound.End), and ending inside it too
	// unless strictness is waived.
	BoundsCoveredBy

	// BoundsCovering yields records containing the bound:
	// begin <= bound.Begin and end >= bound.End.
	BoundsCovering

	// BoundsSameSpan yields records with exactly the bound's interval.
	BoundsSameSpan
)

func (m BoundsMode) String() string {
	switch m {
	case BoundsNone:
		return "none"
	case BoundsCoveredBy:
		return "covered-by"
	case BoundsCovering:
		return "covering"
	case BoundsSameSpan:
		return "same-span"
	default:
		return "unknown"
	}
}

// Subrange parameterizes a bounded (or overlap-filtered) walk over an
// annotation index.
type Subrange struct {
	// Bound is the anchor interval. Required unless Mode is BoundsNone.
	Bound record.Annotation

	// Mode is the interval relation against Bound.
	Mode BoundsMode

	// Ambiguous permits overlapping results. When false, any record
	// starting before the previously yielded record's end is suppressed,
	// which forces an eager snapshot of the matching records.
	Ambiguous bool

	// Strict truncates results at the bound's end: records extending past
	// it are dropped. Only meaningful for BoundsCoveredBy.
	Strict bool

	// TypePriority tightens the walk order with a type-code tiebreak.
	TypePriority bool

	// SkipSameBeginEndType drops records whose begin, end and type all
	// match the bound — typically the bound record itself.
	SkipSameBeginEndType bool
}

// NewSubrange builds the bounded walk over x, which must be an annotation
// index. The returned cursor is live when Ambiguous, and a snapshot
// otherwise (the overlap filter is directional and cannot be expressed as a
// bidirectional live cursor).
func NewSubrange(x *Index, s Subrange) Iterator {
	it := &subrangeIterator{
		inner:    x.Iterator(false, s.TypePriority),
		bound:    s.Bound,
		mode:     s.Mode,
		strict:   s.Strict,
		skipSame: s.SkipSameBeginEndType,
		annType:  x.repo.ts.Annotation(),
	}
	it.MoveToFirst()

	if s.Ambiguous {
		return it
	}

	var recs []record.Record
	prevEnd := math.MinInt
	for ; it.IsValid(); it.MoveToNext() {
		a := it.Current().(record.Annotation)
		if a.Begin() >= prevEnd {
			recs = append(recs, a)
			prevEnd = a.End()
		}
	}
	return NewSnapshot(recs, x.queryCmp(s.TypePriority))
}

// subrangeIterator is the live bounded cursor: a window over the ordered
// annotation walk defined by the bound and mode. All positioning operations
// leave it either on a record satisfying the bound or in an exhausted state.
type subrangeIterator struct {
	inner    Iterator
	bound    record.Annotation
	mode     BoundsMode
	strict   bool
	skipSame bool
	annType  *typesystem.Type
	state    int8
}

func (it *subrangeIterator) probe(begin, end int) record.Record {
	return record.NewSpan(0, it.annType, begin, end)
}

func (it *subrangeIterator) include(r record.Record) bool {
	if it.mode == BoundsNone {
		return true
	}
	a := r.(record.Annotation)
	b, e := it.bound.Begin(), it.bound.End()

	if it.skipSame && a.Begin() == b && a.End() == e && r.Type() == it.bound.Type() {
		return false
	}

	switch it.mode {
	case BoundsCoveredBy:
		if a.Begin() < b {
			return false
		}
		// The record must start inside the half-open bound; a record
		// starting at the bound's end lies outside it, except under a
		// zero-width bound.
		if a.Begin() >= e && !(b == e && a.Begin() == e) {
			return false
		}
		if it.strict && a.End() > e {
			return false
		}
		return true
	case BoundsCovering:
		return a.Begin() <= b && a.End() >= e
	default: // BoundsSameSpan
		return a.Begin() == b && a.End() == e
	}
}

// pastEnd reports that r (and everything after it in walk order) lies
// beyond the window.
func (it *subrangeIterator) pastEnd(r record.Record) bool {
	if it.mode == BoundsNone {
		return false
	}
	begin := r.(record.Annotation).Begin()
	switch it.mode {
	case BoundsCoveredBy:
		return begin > it.bound.End()
	default: // BoundsCovering, BoundsSameSpan
		return begin > it.bound.Begin()
	}
}

// beforeStart reports that r (and everything before it) precedes the window.
func (it *subrangeIterator) beforeStart(r record.Record) bool {
	switch it.mode {
	case BoundsCoveredBy, BoundsSameSpan:
		return r.(record.Annotation).Begin() < it.bound.Begin()
	default: // BoundsNone, BoundsCovering
		return false
	}
}

func (it *subrangeIterator) forwardToMatch() {
	for it.inner.IsValid() {
		r := it.inner.Current()
		if it.pastEnd(r) {
			it.state = stateExhaustedFwd
			return
		}
		if it.include(r) {
			it.state = stateValid
			return
		}
		it.inner.MoveToNext()
	}
	it.state = stateExhaustedFwd
}

func (it *subrangeIterator) backwardToMatch() {
	for it.inner.IsValid() {
		r := it.inner.Current()
		if it.beforeStart(r) {
			it.state = stateExhaustedBack
			return
		}
		if it.include(r) {
			it.state = stateValid
			return
		}
		it.inner.MoveToPrevious()
	}
	it.state = stateExhaustedBack
}

func (it *subrangeIterator) IsValid() bool { return it.state == stateValid }

func (it *subrangeIterator) Current() record.Record { return it.inner.Current() }

func (it *subrangeIterator) MoveToFirst() {
	switch it.mode {
	case BoundsCoveredBy, BoundsSameSpan:
		// Leftmost record with begin >= bound.Begin: among equal begins
		// the probe's open end sorts first under (begin asc, end desc).
		it.inner.MoveTo(it.probe(it.bound.Begin(), record.MaxPosition))
	default:
		it.inner.MoveToFirst()
	}
	it.forwardToMatch()
}

func (it *subrangeIterator) MoveToLast() {
	var upper int
	switch it.mode {
	case BoundsCoveredBy:
		upper = it.bound.End()
	case BoundsCovering, BoundsSameSpan:
		upper = it.bound.Begin()
	default:
		it.inner.MoveToLast()
		it.backwardToMatch()
		return
	}
	if upper >= record.MaxPosition {
		it.inner.MoveToLast()
	} else {
		// First record past the window, then one step back.
		it.inner.MoveTo(it.probe(upper+1, record.MaxPosition))
		if it.inner.IsValid() {
			it.inner.MoveToPrevious()
		} else {
			it.inner.MoveToLast()
		}
	}
	it.backwardToMatch()
}

func (it *subrangeIterator) MoveToNext() {
	if it.state != stateValid {
		return
	}
	it.inner.MoveToNext()
	it.forwardToMatch()
}

func (it *subrangeIterator) MoveToPrevious() {
	if it.state != stateValid {
		return
	}
	it.inner.MoveToPrevious()
	it.backwardToMatch()
}

func (it *subrangeIterator) MoveTo(r record.Record) {
	it.inner.MoveTo(r)
	it.forwardToMatch()
}

func (it *subrangeIterator) Copy() Iterator {
	cp := *it
	cp.inner = it.inner.Copy()
	return &cp
}
