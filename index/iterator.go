// Package index provides the per-view index repository and the cursors the
// query layer is built from: ordered walks over sorted indexes, unordered
// walks over sets and bags, sub-range cursors for interval bounds, and the
// composable decorators (direction, filter, limit) layered on top.
package index

import (
	"github.com/hupe1980/annogo/record"
)

// Iterator is a stateful cursor over a sequence of records.
//
// An iterator is in exactly one of three states: positioned on a valid
// record, exhausted forward (moved past the last record), or exhausted
// backward (moved before the first). Advancing from an exhausted state is a
// no-op; MoveToFirst, MoveToLast and MoveTo re-position from any state.
// Current must only be called while IsValid reports true; it performs no
// validity check of its own.
//
// Iterators over a live index are not isolated from concurrent structural
// mutation of that index and are not safe for concurrent use.
type Iterator interface {
	// IsValid reports whether the iterator is positioned on a record.
	IsValid() bool

	// Current returns the record at the current position. No validity
	// check is performed; callers must check IsValid first.
	Current() record.Record

	// MoveToFirst positions the iterator on the first record.
	MoveToFirst()

	// MoveToLast positions the iterator on the last record.
	MoveToLast()

	// MoveToNext advances one position. No-op when exhausted.
	MoveToNext()

	// MoveToPrevious retreats one position. No-op when exhausted.
	MoveToPrevious()

	// MoveTo positions the iterator on the left-most record considered
	// equal to r by the index comparator, or on the first record greater
	// than r if none ties. Equality is comparator equality, not record
	// identity. The result is either a valid position or exhausted
	// forward; MoveTo never fails.
	MoveTo(r record.Record)

	// Copy returns an independently positioned copy of the iterator.
	Copy() Iterator
}

// Iterator position states.
const (
	stateValid int8 = iota
	stateExhaustedFwd
	stateExhaustedBack
)

// Collect drains it from its current position forward and returns the
// records in encounter order. The iterator is consumed.
func Collect(it Iterator) []record.Record {
	var out []record.Record
	for ; it.IsValid(); it.MoveToNext() {
		out = append(out, it.Current())
	}
	return out
}

// emptyIterator is permanently exhausted.
type emptyIterator struct{}

// Empty returns an iterator that yields nothing.
func Empty() Iterator { return emptyIterator{} }

func (emptyIterator) IsValid() bool           { return false }
func (emptyIterator) Current() record.Record  { return nil }
func (emptyIterator) MoveToFirst()            {}
func (emptyIterator) MoveToLast()             {}
func (emptyIterator) MoveToNext()             {}
func (emptyIterator) MoveToPrevious()         {}
func (emptyIterator) MoveTo(record.Record)    {}
func (emptyIterator) Copy() Iterator          { return emptyIterator{} }

// sliceIterator walks a fixed slice of records. It backs both leaf walks and
// snapshots. When cmp is non-nil the slice is sorted under cmp and MoveTo
// uses binary search; otherwise MoveTo falls back to an identity scan.
type sliceIterator struct {
	recs  []record.Record
	cmp   CompareFunc
	pos   int
	state int8
}

// NewSnapshot returns an iterator over recs, positioned on the first record.
// cmp may be nil for unordered snapshots.
func NewSnapshot(recs []record.Record, cmp CompareFunc) Iterator {
	it := &sliceIterator{recs: recs, cmp: cmp}
	it.MoveToFirst()
	return it
}

func (it *sliceIterator) IsValid() bool { return it.state == stateValid }

func (it *sliceIterator) Current() record.Record { return it.recs[it.pos] }

func (it *sliceIterator) MoveToFirst() {
	if len(it.recs) == 0 {
		it.state = stateExhaustedFwd
		return
	}
	it.pos = 0
	it.state = stateValid
}

func (it *sliceIterator) MoveToLast() {
	if len(it.recs) == 0 {
		it.state = stateExhaustedBack
		return
	}
	it.pos = len(it.recs) - 1
	it.state = stateValid
}

func (it *sliceIterator) MoveToNext() {
	if it.state != stateValid {
		return
	}
	it.pos++
	if it.pos >= len(it.recs) {
		it.pos = len(it.recs)
		it.state = stateExhaustedFwd
	}
}

func (it *sliceIterator) MoveToPrevious() {
	if it.state != stateValid {
		return
	}
	it.pos--
	if it.pos < 0 {
		it.pos = -1
		it.state = stateExhaustedBack
	}
}

func (it *sliceIterator) MoveTo(r record.Record) {
	if it.cmp != nil {
		it.pos = firstGE(it.recs, it.cmp, r)
	} else {
		it.pos = len(it.recs)
		for i, c := range it.recs {
			if c.ID() == r.ID() {
				it.pos = i
				break
			}
		}
	}
	if it.pos >= len(it.recs) {
		it.state = stateExhaustedFwd
		return
	}
	it.state = stateValid
}

func (it *sliceIterator) Copy() Iterator {
	cp := *it
	return &cp
}
