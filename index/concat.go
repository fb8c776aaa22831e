package index

import "github.com/hupe1980/annogo/record"

// concatIterator chains several component iterators into one sequence.
// Order within each component is preserved; order across components carries
// no guarantee. It backs unordered subtype walks and all-views aggregation.
type concatIterator struct {
	parts []Iterator
	cur   int
	state int8
}

// NewConcat returns an iterator over all parts in sequence, positioned on
// the first record.
func NewConcat(parts []Iterator) Iterator {
	it := &concatIterator{parts: parts}
	it.MoveToFirst()
	return it
}

func (it *concatIterator) IsValid() bool { return it.state == stateValid }

func (it *concatIterator) Current() record.Record { return it.parts[it.cur].Current() }

func (it *concatIterator) MoveToFirst() {
	for i, p := range it.parts {
		p.MoveToFirst()
		if p.IsValid() {
			it.cur, it.state = i, stateValid
			return
		}
	}
	it.state = stateExhaustedFwd
}

func (it *concatIterator) MoveToLast() {
	for i := len(it.parts) - 1; i >= 0; i-- {
		p := it.parts[i]
		p.MoveToLast()
		if p.IsValid() {
			it.cur, it.state = i, stateValid
			return
		}
	}
	it.state = stateExhaustedBack
}

func (it *concatIterator) MoveToNext() {
	if it.state != stateValid {
		return
	}
	it.parts[it.cur].MoveToNext()
	if it.parts[it.cur].IsValid() {
		return
	}
	for i := it.cur + 1; i < len(it.parts); i++ {
		it.parts[i].MoveToFirst()
		if it.parts[i].IsValid() {
			it.cur = i
			return
		}
	}
	it.state = stateExhaustedFwd
}

func (it *concatIterator) MoveToPrevious() {
	if it.state != stateValid {
		return
	}
	it.parts[it.cur].MoveToPrevious()
	if it.parts[it.cur].IsValid() {
		return
	}
	for i := it.cur - 1; i >= 0; i-- {
		it.parts[i].MoveToLast()
		if it.parts[i].IsValid() {
			it.cur = i
			return
		}
	}
	it.state = stateExhaustedBack
}

// MoveTo positions on the first component that finds a position for r.
// Since the concatenated sequence carries no cross-component order, the
// seek contract is only meaningful per component.
func (it *concatIterator) MoveTo(r record.Record) {
	for i, p := range it.parts {
		p.MoveTo(r)
		if p.IsValid() {
			it.cur, it.state = i, stateValid
			return
		}
	}
	it.state = stateExhaustedFwd
}

func (it *concatIterator) Copy() Iterator {
	parts := make([]Iterator, len(it.parts))
	for i, p := range it.parts {
		parts[i] = p.Copy()
	}
	return &concatIterator{parts: parts, cur: it.cur, state: it.state}
}
