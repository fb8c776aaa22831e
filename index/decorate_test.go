package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/annogo/record"
)

func snapshotFixture(s *testSpace, n int) Iterator {
	recs := make([]record.Record, n)
	for i := range recs {
		recs[i] = record.NewSpan(uint64(i+1), s.token, i*2, i*2+1)
	}
	return NewSnapshot(recs, nil)
}

func TestBackwards(t *testing.T) {
	s := newTestSpace(t)
	it := NewBackwards(snapshotFixture(s, 3))

	got := spans(t, it)
	require.Equal(t, [][2]int{{4, 5}, {2, 3}, {0, 1}}, got)

	it.MoveToFirst()
	it.MoveToPrevious()
	require.False(t, it.IsValid(), "previous from the reversed first runs off the far end")

	it.MoveToLast()
	a := it.Current().(record.Annotation)
	assert.Equal(t, 0, a.Begin(), "reversed last is the underlying first")
}

func TestLimit(t *testing.T) {
	s := newTestSpace(t)

	t.Run("caps results", func(t *testing.T) {
		got := spans(t, NewLimit(snapshotFixture(s, 5), 2))
		require.Equal(t, [][2]int{{0, 1}, {2, 3}}, got)
	})

	t.Run("zero yields nothing", func(t *testing.T) {
		it := NewLimit(snapshotFixture(s, 5), 0)
		require.False(t, it.IsValid())
	})

	t.Run("larger than the sequence is harmless", func(t *testing.T) {
		got := spans(t, NewLimit(snapshotFixture(s, 2), 10))
		require.Len(t, got, 2)
	})

	t.Run("window reopens after stepping back", func(t *testing.T) {
		it := NewLimit(snapshotFixture(s, 5), 2)
		it.MoveToNext()
		it.MoveToNext()
		require.False(t, it.IsValid())
		it.MoveToFirst()
		require.True(t, it.IsValid())
	})
}

func TestFiltered(t *testing.T) {
	s := newTestSpace(t)
	keepEven := func(r record.Record) bool {
		return r.(record.Annotation).Begin()%4 == 0
	}

	it := NewFiltered(snapshotFixture(s, 6), keepEven)
	got := spans(t, it)
	require.Equal(t, [][2]int{{0, 1}, {4, 5}, {8, 9}}, got)

	it.MoveToLast()
	require.True(t, it.IsValid())
	assert.Equal(t, 8, it.Current().(record.Annotation).Begin())

	it.MoveToPrevious()
	assert.Equal(t, 4, it.Current().(record.Annotation).Begin())
}

func TestSnapshotMoveTo(t *testing.T) {
	s := newTestSpace(t)

	t.Run("with comparator", func(t *testing.T) {
		cmp, err := compileKeys(AnnotationKeys())
		require.NoError(t, err)
		recs := []record.Record{
			record.NewSpan(1, s.token, 0, 3),
			record.NewSpan(2, s.token, 4, 6),
			record.NewSpan(3, s.token, 8, 9),
		}
		it := NewSnapshot(recs, cmp)
		it.MoveTo(record.NewSpan(0, s.ts.Annotation(), 4, 6))
		require.True(t, it.IsValid())
		assert.Equal(t, 4, it.Current().(record.Annotation).Begin())

		it.MoveTo(record.NewSpan(0, s.ts.Annotation(), 5, 5))
		require.True(t, it.IsValid())
		assert.Equal(t, 8, it.Current().(record.Annotation).Begin(), "no tie lands on the first greater")
	})

	t.Run("without comparator seeks by identity", func(t *testing.T) {
		recs := []record.Record{
			record.NewSpan(7, s.token, 0, 1),
			record.NewSpan(8, s.token, 2, 3),
		}
		it := NewSnapshot(recs, nil)
		it.MoveTo(record.NewSpan(8, s.token, 99, 100))
		require.True(t, it.IsValid())
		assert.Equal(t, uint64(8), it.Current().ID())
	})
}
