package index

import "github.com/hupe1980/annogo/record"

// mergeIterator is the ordered walk over a sorted index with subtypes: a
// k-way merge over the per-type leaf containers under the query comparator.
//
// The merge is positional, not buffered: every step recomputes the
// neighboring element from the current (leaf, offset) pair with one binary
// search per leaf. This keeps the cursor fully bidirectional — arbitrary
// interleavings of MoveToNext and MoveToPrevious stay consistent — at
// O(k log n) per step. Comparator ties across leaves are broken by leaf
// order, so the walk is deterministic even without type priority.
type mergeIterator struct {
	leaves []*leaf
	cmp    CompareFunc

	li    int // current leaf
	pos   int // offset within current leaf
	state int8
}

func newMergeIterator(leaves []*leaf, cmp CompareFunc) Iterator {
	it := &mergeIterator{leaves: leaves, cmp: cmp}
	it.MoveToFirst()
	return it
}

func (it *mergeIterator) IsValid() bool { return it.state == stateValid }

func (it *mergeIterator) Current() record.Record {
	return it.leaves[it.li].recs[it.pos]
}

func (it *mergeIterator) at(li, pos int) record.Record {
	return it.leaves[li].recs[pos]
}

// better reports whether candidate a precedes candidate b in the merged
// order (forward direction).
func (it *mergeIterator) better(aLi, aPos, bLi, bPos int) bool {
	c := it.cmp(it.at(aLi, aPos), it.at(bLi, bPos))
	if c != 0 {
		return c < 0
	}
	return aLi < bLi
}

func (it *mergeIterator) MoveToFirst() {
	bestLi := -1
	for i, l := range it.leaves {
		if len(l.recs) == 0 {
			continue
		}
		if bestLi < 0 || it.better(i, 0, bestLi, 0) {
			bestLi = i
		}
	}
	if bestLi < 0 {
		it.state = stateExhaustedFwd
		return
	}
	it.li, it.pos, it.state = bestLi, 0, stateValid
}

func (it *mergeIterator) MoveToLast() {
	bestLi, bestPos := -1, 0
	for i, l := range it.leaves {
		n := len(l.recs)
		if n == 0 {
			continue
		}
		if bestLi < 0 || !it.better(i, n-1, bestLi, bestPos) {
			bestLi, bestPos = i, n-1
		}
	}
	if bestLi < 0 {
		it.state = stateExhaustedBack
		return
	}
	it.li, it.pos, it.state = bestLi, bestPos, stateValid
}

func (it *mergeIterator) MoveToNext() {
	if it.state != stateValid {
		return
	}
	cur := it.Current()
	bestLi, bestPos := -1, 0
	for i, l := range it.leaves {
		var j int
		switch {
		case i == it.li:
			j = it.pos + 1
		case i < it.li:
			// Equal records in earlier leaves were already visited.
			j = firstGreater(l.recs, it.cmp, cur)
		default:
			// Equal records in later leaves come after the current one.
			j = firstGE(l.recs, it.cmp, cur)
		}
		if j >= len(l.recs) {
			continue
		}
		if bestLi < 0 || it.better(i, j, bestLi, bestPos) {
			bestLi, bestPos = i, j
		}
	}
	if bestLi < 0 {
		it.state = stateExhaustedFwd
		return
	}
	it.li, it.pos = bestLi, bestPos
}

func (it *mergeIterator) MoveToPrevious() {
	if it.state != stateValid {
		return
	}
	cur := it.Current()
	bestLi, bestPos := -1, 0
	for i, l := range it.leaves {
		var j int
		switch {
		case i == it.li:
			j = it.pos - 1
		case i < it.li:
			j = firstGreater(l.recs, it.cmp, cur) - 1 // last <= current
		default:
			j = firstGE(l.recs, it.cmp, cur) - 1 // last < current
		}
		if j < 0 || j >= len(l.recs) {
			continue
		}
		if bestLi < 0 || !it.better(i, j, bestLi, bestPos) {
			bestLi, bestPos = i, j
		}
	}
	if bestLi < 0 {
		it.state = stateExhaustedBack
		return
	}
	it.li, it.pos = bestLi, bestPos
}

func (it *mergeIterator) MoveTo(r record.Record) {
	bestLi, bestPos := -1, 0
	for i, l := range it.leaves {
		j := firstGE(l.recs, it.cmp, r)
		if j >= len(l.recs) {
			continue
		}
		if bestLi < 0 || it.better(i, j, bestLi, bestPos) {
			bestLi, bestPos = i, j
		}
	}
	if bestLi < 0 {
		it.state = stateExhaustedFwd
		return
	}
	it.li, it.pos, it.state = bestLi, bestPos, stateValid
}

func (it *mergeIterator) Copy() Iterator {
	cp := *it
	return &cp
}
