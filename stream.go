package annogo

import (
	"iter"
	"slices"

	"github.com/hupe1980/annogo/index"
	"github.com/hupe1980/annogo/record"
)

// Characteristics describe a stream's result sequence. Streams never yield
// duplicates (identity is record ID) and, unless nil entries were requested
// from an alternate source, never yield nil.
type Characteristics struct {
	// Sorted reports comparator order over the full sequence.
	Sorted bool

	// Sized reports that Size is the exact number of results.
	Sized bool
	Size  int
}

// Stream is a lazily evaluated result sequence. Intermediate operations
// (Filter, Limit, Skip) compose without consuming; terminal operations drain
// the stream. A stream is single-use.
type Stream[T record.Record] struct {
	seq   iter.Seq[T]
	chars Characteristics
}

// Stream resolves the select into a lazy sequence. A record that does not
// implement T panics during iteration; a sequence has no error channel.
func (s Select[T]) Stream() (Stream[T], error) {
	it, p, err := s.iterator()
	if err != nil {
		return Stream[T]{}, err
	}

	chars := Characteristics{
		Sorted: p.idx != nil && p.idx.Kind() == index.KindSorted && !p.orderNotNeeded,
	}
	if p.bounds == index.BoundsNone && !p.nonOverlapping && !p.following &&
		!p.preceding && p.shift == 0 && p.limit < 0 && !p.allViews {
		switch {
		case p.isSource:
			// Size known only after filtering; leave unsized.
		case p.idx != nil:
			chars.Sized, chars.Size = true, p.idx.Size()
		}
	}

	seq := func(yield func(T) bool) {
		for ; it.IsValid(); it.MoveToNext() {
			v, err := asT[T](it.Current())
			if err != nil {
				panic(err)
			}
			if !yield(v) {
				return
			}
		}
	}
	return Stream[T]{seq: seq, chars: chars}, nil
}

// MustStream is Stream, panicking on configuration errors. Useful in range
// clauses:
//
//	for tok := range tokens.CoveredBy(sentence).MustStream().Seq() {
//		...
//	}
func (s Select[T]) MustStream() Stream[T] {
	st, err := s.Stream()
	if err != nil {
		panic(err)
	}
	return st
}

// Seq exposes the stream for range-over-func iteration.
func (st Stream[T]) Seq() iter.Seq[T] { return st.seq }

// Characteristics returns what is statically known about the sequence.
func (st Stream[T]) Characteristics() Characteristics { return st.chars }

// Filter keeps the records satisfying pred.
func (st Stream[T]) Filter(pred func(T) bool) Stream[T] {
	src := st.seq
	chars := st.chars
	chars.Sized = false
	return Stream[T]{chars: chars, seq: func(yield func(T) bool) {
		for v := range src {
			if pred(v) && !yield(v) {
				return
			}
		}
	}}
}

// Map transforms each record. The result keeps the source's order but not
// its sortedness.
func (st Stream[T]) Map(f func(T) T) Stream[T] {
	src := st.seq
	chars := st.chars
	chars.Sorted = false
	return Stream[T]{chars: chars, seq: func(yield func(T) bool) {
		for v := range src {
			if !yield(f(v)) {
				return
			}
		}
	}}
}

// Sorted re-yields the stream in cmp order. The source is fully
// materialized when the sorted stream is first consumed.
func (st Stream[T]) Sorted(cmp func(a, b T) int) Stream[T] {
	src := st.seq
	chars := st.chars
	chars.Sorted = true
	return Stream[T]{chars: chars, seq: func(yield func(T) bool) {
		var all []T
		for v := range src {
			all = append(all, v)
		}
		slices.SortStableFunc(all, cmp)
		for _, v := range all {
			if !yield(v) {
				return
			}
		}
	}}
}

// Limit truncates the stream after n records.
func (st Stream[T]) Limit(n int) Stream[T] {
	src := st.seq
	chars := st.chars
	if chars.Sized && chars.Size > n {
		chars.Size = n
	}
	return Stream[T]{chars: chars, seq: func(yield func(T) bool) {
		if n <= 0 {
			return
		}
		seen := 0
		for v := range src {
			if !yield(v) {
				return
			}
			if seen++; seen >= n {
				return
			}
		}
	}}
}

// Skip drops the first n records.
func (st Stream[T]) Skip(n int) Stream[T] {
	src := st.seq
	chars := st.chars
	if chars.Sized {
		chars.Size = max(0, chars.Size-n)
	}
	return Stream[T]{chars: chars, seq: func(yield func(T) bool) {
		skipped := 0
		for v := range src {
			if skipped < n {
				skipped++
				continue
			}
			if !yield(v) {
				return
			}
		}
	}}
}

// Collect drains the stream into a slice.
func (st Stream[T]) Collect() []T {
	var out []T
	if st.chars.Sized {
		out = make([]T, 0, st.chars.Size)
	}
	for v := range st.seq {
		out = append(out, v)
	}
	return out
}

// ForEach drains the stream, applying f to each record.
func (st Stream[T]) ForEach(f func(T)) {
	for v := range st.seq {
		f(v)
	}
}

// Count drains the stream and returns the number of records.
func (st Stream[T]) Count() int {
	n := 0
	for range st.seq {
		n++
	}
	return n
}

// First returns the first record, if any.
func (st Stream[T]) First() (T, bool) {
	for v := range st.seq {
		return v, true
	}
	var zero T
	return zero, false
}

// AnyMatch reports whether any record satisfies pred.
func (st Stream[T]) AnyMatch(pred func(T) bool) bool {
	for v := range st.seq {
		if pred(v) {
			return true
		}
	}
	return false
}

// AllMatch reports whether every record satisfies pred.
func (st Stream[T]) AllMatch(pred func(T) bool) bool {
	for v := range st.seq {
		if !pred(v) {
			return false
		}
	}
	return true
}

// NoneMatch reports whether no record satisfies pred.
func (st Stream[T]) NoneMatch(pred func(T) bool) bool {
	return !st.AnyMatch(pred)
}

// Reduce folds the stream left to right starting from init.
func (st Stream[T]) Reduce(init T, f func(acc, v T) T) T {
	acc := init
	for v := range st.seq {
		acc = f(acc, v)
	}
	return acc
}

// Min returns the smallest record under cmp.
func (st Stream[T]) Min(cmp func(a, b T) int) (T, bool) {
	var best T
	found := false
	for v := range st.seq {
		if !found || cmp(v, best) < 0 {
			best, found = v, true
		}
	}
	return best, found
}

// Max returns the largest record under cmp.
func (st Stream[T]) Max(cmp func(a, b T) int) (T, bool) {
	var best T
	found := false
	for v := range st.seq {
		if !found || cmp(v, best) > 0 {
			best, found = v, true
		}
	}
	return best, found
}

// MapStream transforms a stream into a plain sequence of arbitrary values.
func MapStream[T record.Record, U any](st Stream[T], f func(T) U) iter.Seq[U] {
	return func(yield func(U) bool) {
		for v := range st.seq {
			if !yield(f(v)) {
				return
			}
		}
	}
}

// ReduceStream folds a stream into an arbitrary accumulator type.
func ReduceStream[T record.Record, U any](st Stream[T], init U, f func(acc U, v T) U) U {
	acc := init
	for v := range st.seq {
		acc = f(acc, v)
	}
	return acc
}
