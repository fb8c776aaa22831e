package index

import "github.com/hupe1980/annogo/record"

// backwardsIterator reverses the advance semantics of the wrapped cursor:
// first becomes last and next becomes previous. MoveTo keeps its forward
// seek contract and delegates unchanged.
type backwardsIterator struct {
	inner Iterator
}

// NewBackwards wraps it with reversed direction, positioned on the wrapped
// iterator's last record.
func NewBackwards(it Iterator) Iterator {
	b := &backwardsIterator{inner: it}
	b.MoveToFirst()
	return b
}

func (it *backwardsIterator) IsValid() bool            { return it.inner.IsValid() }
func (it *backwardsIterator) Current() record.Record   { return it.inner.Current() }
func (it *backwardsIterator) MoveToFirst()             { it.inner.MoveToLast() }
func (it *backwardsIterator) MoveToLast()              { it.inner.MoveToFirst() }
func (it *backwardsIterator) MoveToNext()              { it.inner.MoveToPrevious() }
func (it *backwardsIterator) MoveToPrevious()          { it.inner.MoveToNext() }
func (it *backwardsIterator) MoveTo(r record.Record)   { it.inner.MoveTo(r) }
func (it *backwardsIterator) Copy() Iterator           { return &backwardsIterator{inner: it.inner.Copy()} }

// limitIterator yields at most limit records from the wrapped cursor's
// position onward, in whatever direction the wrapped cursor advances. It is
// always the outermost decorator so the invalid state is observed at the
// right layer. A limit of 0 is immediately invalid.
type limitIterator struct {
	inner Iterator
	limit int
	seen  int // offset from the window start
}

// NewLimit wraps it with a result limit. limit must be >= 0.
func NewLimit(it Iterator, limit int) Iterator {
	return &limitIterator{inner: it, limit: limit}
}

func (it *limitIterator) IsValid() bool {
	return it.seen >= 0 && it.seen < it.limit && it.inner.IsValid()
}

func (it *limitIterator) Current() record.Record { return it.inner.Current() }

func (it *limitIterator) MoveToFirst() {
	it.inner.MoveToFirst()
	it.seen = 0
}

func (it *limitIterator) MoveToNext() {
	if !it.IsValid() {
		return
	}
	it.seen++
	it.inner.MoveToNext()
}

func (it *limitIterator) MoveToPrevious() {
	if !it.IsValid() {
		return
	}
	it.seen--
	it.inner.MoveToPrevious()
}

// MoveToLast positions on the last record of the limited window, which for
// a non-exhausted window is the last record of the wrapped cursor.
func (it *limitIterator) MoveToLast() {
	it.inner.MoveToLast()
	it.seen = 0
}

func (it *limitIterator) MoveTo(r record.Record) {
	it.inner.MoveTo(r)
	it.seen = 0
}

func (it *limitIterator) Copy() Iterator {
	return &limitIterator{inner: it.inner.Copy(), limit: it.limit, seen: it.seen}
}

// filteredIterator hides records failing a predicate. Every positioning
// operation lands on a passing record or an exhausted state.
type filteredIterator struct {
	inner Iterator
	keep  func(record.Record) bool
}

// NewFiltered wraps it so only records satisfying keep are visible,
// positioned on the first passing record at or after the wrapped cursor's
// current position.
func NewFiltered(it Iterator, keep func(record.Record) bool) Iterator {
	f := &filteredIterator{inner: it, keep: keep}
	f.skipForward()
	return f
}

func (it *filteredIterator) skipForward() {
	for it.inner.IsValid() && !it.keep(it.inner.Current()) {
		it.inner.MoveToNext()
	}
}

func (it *filteredIterator) skipBackward() {
	for it.inner.IsValid() && !it.keep(it.inner.Current()) {
		it.inner.MoveToPrevious()
	}
}

func (it *filteredIterator) IsValid() bool          { return it.inner.IsValid() }
func (it *filteredIterator) Current() record.Record { return it.inner.Current() }

func (it *filteredIterator) MoveToFirst() {
	it.inner.MoveToFirst()
	it.skipForward()
}

func (it *filteredIterator) MoveToLast() {
	it.inner.MoveToLast()
	it.skipBackward()
}

func (it *filteredIterator) MoveToNext() {
	if !it.inner.IsValid() {
		return
	}
	it.inner.MoveToNext()
	it.skipForward()
}

func (it *filteredIterator) MoveToPrevious() {
	if !it.inner.IsValid() {
		return
	}
	it.inner.MoveToPrevious()
	it.skipBackward()
}

func (it *filteredIterator) MoveTo(r record.Record) {
	it.inner.MoveTo(r)
	it.skipForward()
}

func (it *filteredIterator) Copy() Iterator {
	return &filteredIterator{inner: it.inner.Copy(), keep: it.keep}
}
