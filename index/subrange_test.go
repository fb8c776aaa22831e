package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/annogo/record"
)

func annIndex(t *testing.T, s *testSpace) *Index {
	t.Helper()
	ann, err := s.repo.AnnotationIndex(nil)
	require.NoError(t, err)
	return ann
}

func TestSubrangeCoveredBy(t *testing.T) {
	s := newTestSpace(t)
	s.span(t, s.token, 0, 4)
	s.span(t, s.token, 2, 12)
	s.span(t, s.token, 5, 10)
	s.span(t, s.token, 10, 12)
	s.span(t, s.token, 12, 15)

	bound := record.NewSpan(0, s.ts.Annotation(), 0, 10)

	t.Run("strict keeps records inside the bound", func(t *testing.T) {
		got := spans(t, NewSubrange(annIndex(t, s), Subrange{
			Bound:     bound,
			Mode:      BoundsCoveredBy,
			Ambiguous: true,
			Strict:    true,
		}))
		require.Equal(t, [][2]int{{0, 4}, {5, 10}}, got)
	})

	t.Run("non-strict keeps records extending past the end", func(t *testing.T) {
		got := spans(t, NewSubrange(annIndex(t, s), Subrange{
			Bound:     bound,
			Mode:      BoundsCoveredBy,
			Ambiguous: true,
		}))
		require.Equal(t, [][2]int{{0, 4}, {2, 12}, {5, 10}}, got,
			"a record starting at the bound's end is outside it")
	})

	t.Run("zero-width bound admits coincident zero-width records", func(t *testing.T) {
		s := newTestSpace(t)
		s.span(t, s.token, 5, 5)
		s.span(t, s.token, 5, 7)

		got := spans(t, NewSubrange(annIndex(t, s), Subrange{
			Bound:     record.NewSpan(0, s.ts.Annotation(), 5, 5),
			Mode:      BoundsCoveredBy,
			Ambiguous: true,
			Strict:    true,
		}))
		require.Equal(t, [][2]int{{5, 5}}, got)
	})
}

func TestSubrangeCovering(t *testing.T) {
	s := newTestSpace(t)
	s.span(t, s.sentence, 0, 20)
	s.span(t, s.token, 2, 8)
	s.span(t, s.token, 4, 6)
	s.span(t, s.token, 5, 12)

	got := spans(t, NewSubrange(annIndex(t, s), Subrange{
		Bound:     record.NewSpan(0, s.ts.Annotation(), 4, 6),
		Mode:      BoundsCovering,
		Ambiguous: true,
	}))
	require.Equal(t, [][2]int{{0, 20}, {2, 8}, {4, 6}}, got,
		"covering includes records with exactly the bound's interval")
}

func TestSubrangeSameSpan(t *testing.T) {
	s := newTestSpace(t)
	s.span(t, s.token, 2, 8)
	s.span(t, s.word, 2, 8)
	s.span(t, s.token, 2, 9)
	s.span(t, s.token, 3, 8)

	got := spans(t, NewSubrange(annIndex(t, s), Subrange{
		Bound:     record.NewSpan(0, s.ts.Annotation(), 2, 8),
		Mode:      BoundsSameSpan,
		Ambiguous: true,
	}))
	require.Equal(t, [][2]int{{2, 8}, {2, 8}}, got)
}

func TestSubrangeSkipSameBeginEndType(t *testing.T) {
	s := newTestSpace(t)
	bound := s.span(t, s.token, 2, 8)
	s.span(t, s.word, 2, 8)
	s.span(t, s.token, 3, 5)

	got := spans(t, NewSubrange(annIndex(t, s), Subrange{
		Bound:                bound,
		Mode:                 BoundsCoveredBy,
		Ambiguous:            true,
		Strict:               true,
		SkipSameBeginEndType: true,
	}))
	require.Equal(t, [][2]int{{2, 8}, {3, 5}}, got,
		"only the record matching begin, end and type is dropped")
}

func TestSubrangeNonOverlapping(t *testing.T) {
	s := newTestSpace(t)
	s.span(t, s.token, 0, 5)
	s.span(t, s.token, 3, 6)
	s.span(t, s.token, 5, 8)
	s.span(t, s.token, 7, 9)
	s.span(t, s.token, 9, 9)

	got := spans(t, NewSubrange(annIndex(t, s), Subrange{
		Mode:      BoundsNone,
		Ambiguous: false,
	}))
	require.Equal(t, [][2]int{{0, 5}, {5, 8}, {9, 9}}, got,
		"each result starts at or after the previous result's end")
}

func TestSubrangeBackwardWalk(t *testing.T) {
	s := newTestSpace(t)
	s.span(t, s.token, 0, 4)
	s.span(t, s.token, 2, 12)
	s.span(t, s.token, 5, 10)
	s.span(t, s.token, 12, 15)

	it := NewSubrange(annIndex(t, s), Subrange{
		Bound:     record.NewSpan(0, s.ts.Annotation(), 0, 10),
		Mode:      BoundsCoveredBy,
		Ambiguous: true,
		Strict:    true,
	})

	it.MoveToLast()
	require.True(t, it.IsValid())
	a := it.Current().(record.Annotation)
	assert.Equal(t, [2]int{5, 10}, [2]int{a.Begin(), a.End()})

	it.MoveToPrevious()
	require.True(t, it.IsValid())
	a = it.Current().(record.Annotation)
	assert.Equal(t, [2]int{0, 4}, [2]int{a.Begin(), a.End()}, "(2,12) is filtered while stepping")

	it.MoveToPrevious()
	require.False(t, it.IsValid())
	it.MoveToPrevious()
	require.False(t, it.IsValid(), "retreating from exhausted stays exhausted")
}

func TestSubrangeEmptyWindow(t *testing.T) {
	s := newTestSpace(t)
	s.span(t, s.token, 0, 4)

	it := NewSubrange(annIndex(t, s), Subrange{
		Bound:     record.NewSpan(0, s.ts.Annotation(), 20, 30),
		Mode:      BoundsCoveredBy,
		Ambiguous: true,
	})
	require.False(t, it.IsValid())
}
