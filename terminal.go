package annogo

import (
	"fmt"
	"time"

	"github.com/hupe1980/annogo/index"
	"github.com/hupe1980/annogo/record"
)

// Terminal operations. Each one resolves the builder, assembles the cursor
// and consumes it; configuration errors recorded by setters surface here.

// Iterator resolves the select and returns the underlying cursor, for
// callers that want manual control over iteration.
func (s Select[T]) Iterator() (index.Iterator, error) {
	it, _, err := s.iterator()
	return it, err
}

// asT narrows a record to the select's result type. A nil record (tolerated
// alternate-source entry) narrows to the zero value.
func asT[T record.Record](r record.Record) (T, error) {
	var zero T
	if r == nil {
		return zero, nil
	}
	v, ok := r.(T)
	if !ok {
		return zero, fmt.Errorf("record %v does not implement the requested result type", r)
	}
	return v, nil
}

func (s Select[T]) finish(op string, err error, start time.Time) {
	s.view.store.metrics.RecordSelect(time.Since(start), err)
	s.view.logger.LogSelect(op, s.typ, err)
}

// Get returns the first result. With no match it returns an error, or the
// zero value when NilOK is set.
func (s Select[T]) Get() (T, error) {
	start := time.Now()
	v, err := s.get()
	s.finish("get", err, start)
	return v, err
}

func (s Select[T]) get() (T, error) {
	var zero T
	it, p, err := s.iterator()
	if err != nil {
		return zero, err
	}
	if !it.IsValid() {
		if p.nilOK {
			return zero, nil
		}
		return zero, &NoMatchError{Type: p.typ, Position: p.positionDescription()}
	}
	return asT[T](it.Current())
}

// GetShifted returns the result n positions from the start.
func (s Select[T]) GetShifted(n int) (T, error) {
	return s.Shifted(n).Get()
}

// GetAt positions at r and returns the result n positions further.
func (s Select[T]) GetAt(r record.Record, n int) (T, error) {
	return s.StartAt(r).Shifted(n).Get()
}

// GetAtSpan positions at the interval [begin, end) and returns the result n
// positions further.
func (s Select[T]) GetAtSpan(begin, end, n int) (T, error) {
	return s.StartAtSpan(begin, end).Shifted(n).Get()
}

// Single returns the only result. It reports an error when there is none
// (unless NilOK is set) and when there is more than one.
func (s Select[T]) Single() (T, error) {
	start := time.Now()
	v, found, err := s.single()
	if err == nil && !found && !s.nilOK {
		p, _ := s.resolve()
		err = &NoMatchError{Type: p.typ, Position: p.positionDescription()}
	}
	s.finish("single", err, start)
	if err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// SingleOrNil returns the only result, or the zero value when there is
// none. More than one result is still an error.
func (s Select[T]) SingleOrNil() (T, error) {
	start := time.Now()
	v, _, err := s.single()
	s.finish("single-or-nil", err, start)
	if err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

func (s Select[T]) single() (T, bool, error) {
	var zero T
	it, p, err := s.iterator()
	if err != nil {
		return zero, false, err
	}
	if !it.IsValid() {
		return zero, false, nil
	}
	cur := it.Current()

	// Uniqueness is probed toward the direction the shift came from: a
	// positive shift may have left earlier records behind the cursor, so
	// the neighbor that disproves uniqueness is the next one, and for a
	// negative shift the previous one.
	if p.shift >= 0 {
		it.MoveToNext()
	} else {
		it.MoveToPrevious()
	}
	if it.IsValid() {
		return zero, false, &TooManyError{Type: p.typ, Position: p.positionDescription()}
	}

	v, err := asT[T](cur)
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

// SingleAt positions at r, shifts by n and requires a unique result.
func (s Select[T]) SingleAt(r record.Record, n int) (T, error) {
	return s.StartAt(r).Shifted(n).Single()
}

// SingleOrNilAt positions at r, shifts by n and returns the unique result
// or the zero value.
func (s Select[T]) SingleOrNilAt(r record.Record, n int) (T, error) {
	return s.StartAt(r).Shifted(n).SingleOrNil()
}

// SingleAtSpan positions at the interval [begin, end), shifts by n and
// requires a unique result.
func (s Select[T]) SingleAtSpan(begin, end, n int) (T, error) {
	return s.StartAtSpan(begin, end).Shifted(n).Single()
}

// SingleOrNilAtSpan positions at the interval [begin, end), shifts by n and
// returns the unique result or the zero value.
func (s Select[T]) SingleOrNilAtSpan(begin, end, n int) (T, error) {
	return s.StartAtSpan(begin, end).Shifted(n).SingleOrNil()
}

// AsSlice materializes all results in iteration order.
func (s Select[T]) AsSlice() ([]T, error) {
	start := time.Now()
	out, err := s.asSlice()
	s.finish("as-slice", err, start)
	if err == nil {
		s.view.store.metrics.RecordMaterialize(len(out), time.Since(start))
	}
	return out, err
}

func (s Select[T]) asSlice() ([]T, error) {
	it, _, err := s.iterator()
	if err != nil {
		return nil, err
	}
	var out []T
	for ; it.IsValid(); it.MoveToNext() {
		v, err := asT[T](it.Current())
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// IsEmpty reports whether the select yields nothing.
func (s Select[T]) IsEmpty() (bool, error) {
	if s.limit == 0 {
		return true, nil
	}
	it, _, err := s.iterator()
	if err != nil {
		return false, err
	}
	return !it.IsValid(), nil
}

// Count drains the select and returns the number of results.
func (s Select[T]) Count() (int, error) {
	it, _, err := s.iterator()
	if err != nil {
		return 0, err
	}
	n := 0
	for ; it.IsValid(); it.MoveToNext() {
		n++
	}
	return n, nil
}
