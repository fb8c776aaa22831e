package annogo

import (
	"fmt"

	"github.com/hupe1980/annogo/index"
	"github.com/hupe1980/annogo/record"
	"github.com/hupe1980/annogo/typesystem"
)

// plan is a resolved select: all defaults applied, index and type pinned
// down, contradictions rejected. Iterator assembly works off the plan only.
type plan struct {
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
}

// resolve validates the builder state and applies defaults.
func (s Select[T]) resolve() (*plan, error) {
	if s.err != nil {
		return nil, s.err
	}

	p := &plan{
		view:           s.view,
		idx:            s.idx,
		typ:            s.typ,
		bounds:         s.bounds,
		bound:          s.bound,
		emptyBound:     s.emptyBound,
		startAt:        s.startAt,
		following:      s.following,
		preceding:      s.preceding,
		typePriority:   s.typePriority,
		skipSame:       s.skipSame,
		nonOverlapping: s.nonOverlapping,
		includeBeyond:  s.includeBeyond,
		allViews:       s.allViews,
		nilOK:          s.nilOK,
		orderNotNeeded: s.orderNotNeeded,
		backwards:      s.backwards,
		shift:          s.shift,
		limit:          s.limit,
		source:         s.source,
		isSource:       s.isSource,
	}
	ts := p.view.store.ts

	if p.isSource {
		if p.idx != nil || p.bounds != index.BoundsNone || p.allViews ||
			p.following || p.preceding || p.startAt != nil {
			return nil, configErr(ErrSourceConflict)
		}
	}

	// Options that only make sense on an interval-ordered walk force the
	// annotation index.
	needAnnotation := p.nonOverlapping || p.typePriority || p.includeBeyond ||
		p.bounds != index.BoundsNone || p.following || p.preceding
	if needAnnotation {
		if err := p.forceAnnotationIndex(); err != nil {
			return nil, err
		}
	}

	// Pin down the result type and narrow the index to it.
	switch {
	case p.typ == nil && p.idx != nil:
		p.typ = p.idx.Type()
	case p.typ != nil && p.idx != nil:
		if p.idx.Type() != p.typ && p.idx.Type().Subsumes(p.typ) {
			sub, err := p.idx.SubIndex(p.typ)
			if err != nil {
				return nil, configErr(err)
			}
			p.idx = sub
		}
	case p.typ != nil && p.idx == nil && !p.isSource && ts.IsAnnotationType(p.typ):
		// An annotation type restriction without an explicit index walks
		// the annotation index.
		if err := p.forceAnnotationIndex(); err != nil {
			return nil, err
		}
	}
	if p.typ == nil {
		p.typ = ts.Top()
	}

	// Covering results extend past the bound by construction.
	if p.bounds == index.BoundsCovering {
		p.includeBeyond = true
	}

	// Ordering is required whenever the walk positions or shifts.
	if p.shift != 0 || p.startAt != nil || p.bounds != index.BoundsNone ||
		p.following || p.preceding {
		p.orderNotNeeded = false
	}

	return p, nil
}

// forceAnnotationIndex pins the plan to the view's annotation index, or
// rejects an explicit index that is not interval-capable.
func (p *plan) forceAnnotationIndex() error {
	if p.idx != nil {
		if !p.idx.IsAnnotationIndex() {
			return configErr(&AnnotationIndexRequiredError{Index: p.idx.Name()})
		}
		return nil
	}
	idx, err := p.view.repo.AnnotationIndex(p.typ)
	if err != nil {
		return configErr(err)
	}
	p.idx = idx
	return nil
}

// iterator assembles the cursor a terminal operation consumes.
//
// Most selects are served by a live cursor: base walk, optional direction
// reversal, positioning, shift, limit. Preceding selects, and following
// selects iterated backwards, are materialized into a snapshot first because
// their result order is the reverse of the order they are discovered in.
func (s Select[T]) iterator() (index.Iterator, *plan, error) {
	p, err := s.resolve()
	if err != nil {
		return nil, nil, err
	}

	switch {
	case p.preceding:
		return p.precedingIterator(), p, nil
	case p.following && p.backwards:
		// Discover forward, then serve reversed.
		p.backwards = false
		recs := index.Collect(p.baseIterator())
		it := index.NewBackwards(index.NewSnapshot(recs, nil))
		if p.limit >= 0 {
			it = index.NewLimit(it, p.limit)
		}
		return it, p, nil
	default:
		return p.baseIterator(), p, nil
	}
}

// baseIterator builds the live cursor: base walk, direction, position,
// shift, limit.
func (p *plan) baseIterator() index.Iterator {
	var it index.Iterator
	if p.allViews {
		it = p.allViewsIterator()
	} else {
		it = p.plainIterator(p.idx, p.view)
	}
	if p.backwards {
		it = index.NewBackwards(it)
	}
	p.position(it)
	p.applyShift(it)
	if p.limit >= 0 {
		it = index.NewLimit(it, p.limit)
	}
	return it
}

// plainIterator builds the walk over one view: the selected index, the
// catch-all bag when no index applies, or the alternate source.
func (p *plan) plainIterator(idx *index.Index, v *View) index.Iterator {
	if idx == nil {
		if p.isSource {
			return p.sourceIterator()
		}
		all, err := v.repo.AllRecords(p.typ)
		if err != nil {
			return index.Empty()
		}
		return all.Iterator(true, false)
	}

	if p.bounds == index.BoundsNone {
		var it index.Iterator
		if idx.Kind() == index.KindSorted && idx.IsAnnotationIndex() && p.nonOverlapping {
			it = index.NewSubrange(idx, index.Subrange{
				Mode:         index.BoundsNone,
				Ambiguous:    false,
				TypePriority: p.typePriority,
			})
		} else {
			it = idx.Iterator(p.orderNotNeeded, p.typePriority)
		}
		if p.preceding {
			anchorBegin := p.startAt.(record.Annotation).Begin()
			it = index.NewFiltered(it, func(r record.Record) bool {
				return r.(record.Annotation).End() <= anchorBegin
			})
		}
		return it
	}

	if p.emptyBound {
		return index.Empty()
	}
	return index.NewSubrange(idx, index.Subrange{
		Bound:                p.bound,
		Mode:                 p.bounds,
		Ambiguous:            !p.nonOverlapping,
		Strict:               !p.includeBeyond,
		TypePriority:         p.typePriority,
		SkipSameBeginEndType: p.skipSame,
	})
}

// allViewsIterator chains the per-view walks of every view carrying an
// equivalent of the selected index. Views without one are skipped.
func (p *plan) allViewsIterator() index.Iterator {
	views := p.view.store.Views()
	parts := make([]index.Iterator, 0, len(views))
	for _, v := range views {
		idx := p.idx
		if idx != nil {
			eq := v.repo.Equivalent(idx)
			if eq == nil {
				continue
			}
			idx = eq
		}
		parts = append(parts, p.plainIterator(idx, v))
	}
	if len(parts) == 0 {
		return index.Empty()
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return index.NewConcat(parts)
}

// sourceIterator snapshots the alternate source, filtered to the type
// restriction. When the restriction is the root type and nils are tolerated
// there is nothing to filter and the source backs the cursor directly.
func (p *plan) sourceIterator() index.Iterator {
	ts := p.view.store.ts
	if p.nilOK && p.typ == ts.Top() {
		return index.NewSnapshot(p.source, nil)
	}
	filtered := make([]record.Record, 0, len(p.source))
	for _, r := range p.source {
		if r == nil {
			if p.nilOK {
				filtered = append(filtered, nil)
			}
			continue
		}
		if p.typ.Subsumes(r.Type()) {
			filtered = append(filtered, r)
		}
	}
	return index.NewSnapshot(filtered, nil)
}

// precedingIterator materializes the records preceding the anchor. The base
// walk discovers them in ascending order; shift and limit count from the
// anchor backwards, so they trim the slice from its tail.
func (p *plan) precedingIterator() index.Iterator {
	var base index.Iterator
	if p.allViews {
		base = p.allViewsIterator()
	} else {
		base = p.plainIterator(p.idx, p.view)
	}
	recs := index.Collect(base)

	hi := len(recs) - p.shift
	lo := 0
	if p.limit >= 0 && hi-p.limit > lo {
		lo = hi - p.limit
	}
	if p.shift < 0 || hi < 0 || lo >= hi {
		recs = nil
	} else {
		recs = recs[lo:hi]
	}

	it := index.NewSnapshot(recs, nil)
	if p.backwards {
		it = index.NewBackwards(it)
	}
	if p.limit >= 0 {
		it = index.NewLimit(it, p.limit)
	}
	return it
}

// position seeks to the configured start record. For following selects the
// seek additionally walks past records overlapping the anchor.
func (p *plan) position(it index.Iterator) {
	if p.startAt == nil || p.bounds != index.BoundsNone || !it.IsValid() {
		return
	}
	if p.following {
		// Seek to the first record with begin >= the anchor position. The
		// probe's open end sorts it before every record sharing its begin
		// under (begin asc, end desc).
		pos := p.startAt.(record.Annotation).Begin()
		ann := p.view.store.ts.Annotation()
		it.MoveTo(record.NewSpan(0, ann, pos, record.MaxPosition))
		for it.IsValid() && it.Current().(record.Annotation).Begin() < pos {
			it.MoveToNext()
		}
		return
	}
	it.MoveTo(p.startAt)
}

// applyShift steps the cursor by the configured offset.
func (p *plan) applyShift(it index.Iterator) {
	n := p.shift
	for ; n > 0; n-- {
		it.MoveToNext()
	}
	for ; n < 0; n++ {
		it.MoveToPrevious()
	}
}

// positionDescription renders the configured position for error messages.
func (p *plan) positionDescription() string {
	switch {
	case p.following:
		return fmt.Sprintf("following offset %d", p.startAt.(record.Annotation).End())
	case p.preceding:
		return fmt.Sprintf("preceding offset %d", p.startAt.(record.Annotation).Begin())
	case p.bounds != index.BoundsNone && p.bound != nil:
		return fmt.Sprintf("%s [%d,%d)", p.bounds, p.bound.Begin(), p.bound.End())
	case p.startAt != nil && p.shift != 0:
		return fmt.Sprintf("at %v shifted by %d", p.startAt, p.shift)
	case p.startAt != nil:
		return fmt.Sprintf("at %v", p.startAt)
	case p.shift != 0:
		return fmt.Sprintf("shifted by %d", p.shift)
	default:
		return ""
	}
}
