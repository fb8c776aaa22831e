package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/annogo/record"
	"github.com/hupe1980/annogo/typesystem"
)

// testSpace is the shared fixture: a type system with a small annotation
// hierarchy and a repository for one view.
type testSpace struct {
	ts       *typesystem.TypeSystem
	repo     *Repository
	token    *typesystem.Type
	word     *typesystem.Type
	sentence *typesystem.Type
	doc      *typesystem.Type
	nextID   uint64
}

func newTestSpace(t *testing.T) *testSpace {
	t.Helper()
	ts := typesystem.New()
	token, err := ts.NewAnnotationType("Token", nil)
	require.NoError(t, err)
	word, err := ts.NewAnnotationType("Word", token)
	require.NoError(t, err)
	sentence, err := ts.NewAnnotationType("Sentence", nil)
	require.NoError(t, err)
	doc, err := ts.NewType("Document", nil)
	require.NoError(t, err)
	return &testSpace{
		ts:       ts,
		repo:     NewRepository(ts, "test"),
		token:    token,
		word:     word,
		sentence: sentence,
		doc:      doc,
	}
}

func (s *testSpace) span(t *testing.T, typ *typesystem.Type, begin, end int) record.Span {
	t.Helper()
	s.nextID++
	sp := record.NewSpan(s.nextID, typ, begin, end)
	require.NoError(t, s.repo.Add(sp))
	return sp
}

func (s *testSpace) base(t *testing.T, typ *typesystem.Type) record.Base {
	t.Helper()
	s.nextID++
	b := record.NewBase(s.nextID, typ)
	require.NoError(t, s.repo.Add(b))
	return b
}

func spans(t *testing.T, it Iterator) [][2]int {
	t.Helper()
	var out [][2]int
	for ; it.IsValid(); it.MoveToNext() {
		a := it.Current().(record.Annotation)
		out = append(out, [2]int{a.Begin(), a.End()})
	}
	return out
}

func TestNewRepository(t *testing.T) {
	s := newTestSpace(t)

	ann := s.repo.Index(AnnotationIndexName)
	require.NotNil(t, ann)
	assert.True(t, ann.IsAnnotationIndex())
	assert.Equal(t, KindSorted, ann.Kind())

	all := s.repo.Index(AllRecordsIndexName)
	require.NotNil(t, all)
	assert.Equal(t, KindBag, all.Kind())
	assert.False(t, all.IsAnnotationIndex())

	assert.Nil(t, s.repo.Index("nope"))
}

func TestAdd(t *testing.T) {
	t.Run("routes by subsumption", func(t *testing.T) {
		s := newTestSpace(t)
		s.span(t, s.token, 0, 5)
		s.span(t, s.word, 6, 10)
		s.base(t, s.doc)

		ann, err := s.repo.AnnotationIndex(nil)
		require.NoError(t, err)
		assert.Equal(t, 2, ann.Size(), "non-annotation records stay out of the annotation index")

		all, err := s.repo.AllRecords(nil)
		require.NoError(t, err)
		assert.Equal(t, 3, all.Size())

		tokens, err := ann.SubIndex(s.token)
		require.NoError(t, err)
		assert.Equal(t, 2, tokens.Size(), "word records are tokens too")
	})

	t.Run("rejects nil", func(t *testing.T) {
		s := newTestSpace(t)
		require.Error(t, s.repo.Add(nil))
	})

	t.Run("rejects foreign type", func(t *testing.T) {
		s := newTestSpace(t)
		other := typesystem.New()
		foreign, err := other.NewAnnotationType("Token", nil)
		require.NoError(t, err)
		require.Error(t, s.repo.Add(record.NewSpan(1, foreign, 0, 1)))
	})

	t.Run("rejects inverted interval", func(t *testing.T) {
		s := newTestSpace(t)
		require.Error(t, s.repo.Add(record.NewSpan(1, s.token, 5, 2)))
	})
}

func TestAnnotationOrder(t *testing.T) {
	s := newTestSpace(t)
	s.span(t, s.token, 6, 8)
	s.span(t, s.token, 0, 3)
	s.span(t, s.sentence, 0, 9)
	s.span(t, s.token, 4, 5)

	ann, err := s.repo.AnnotationIndex(nil)
	require.NoError(t, err)

	got := spans(t, ann.Iterator(false, false))
	require.Equal(t, [][2]int{{0, 9}, {0, 3}, {4, 5}, {6, 8}}, got,
		"begin ascending, end descending")
}

func TestInstall(t *testing.T) {
	t.Run("set index deduplicates", func(t *testing.T) {
		s := newTestSpace(t)
		require.NoError(t, s.repo.Install(&Definition{
			Name:     "token-set",
			Kind:     KindSet,
			TypeName: "Token",
			Keys:     AnnotationKeys(),
		}))

		s.span(t, s.token, 0, 5)
		s.span(t, s.token, 0, 5) // comparator-equal, same type
		s.span(t, s.token, 6, 9)

		set := s.repo.Index("token-set")
		require.NotNil(t, set)
		assert.Equal(t, 2, set.Size())

		// The sorted annotation index keeps both.
		ann, err := s.repo.AnnotationIndex(s.token)
		require.NoError(t, err)
		assert.Equal(t, 3, ann.Size())
	})

	t.Run("duplicate name rejected", func(t *testing.T) {
		s := newTestSpace(t)
		err := s.repo.Install(&Definition{
			Name:     AnnotationIndexName,
			Kind:     KindBag,
			TypeName: "Top",
		})
		require.Error(t, err)
	})

	t.Run("interval keys need an annotation type", func(t *testing.T) {
		s := newTestSpace(t)
		err := s.repo.Install(&Definition{
			Name:     "broken",
			Kind:     KindSorted,
			TypeName: "Document",
			Keys:     AnnotationKeys(),
		})
		require.Error(t, err)
	})

	t.Run("sorted index over user keys", func(t *testing.T) {
		s := newTestSpace(t)
		require.NoError(t, s.repo.Install(&Definition{
			Name:     "by-end",
			Kind:     KindSorted,
			TypeName: "Token",
			Keys:     []Key{{Feature: "end"}},
		}))
		s.span(t, s.token, 0, 9)
		s.span(t, s.token, 2, 3)

		got := spans(t, s.repo.Index("by-end").Iterator(false, false))
		require.Equal(t, [][2]int{{2, 3}, {0, 9}}, got)
	})
}

func TestEquivalent(t *testing.T) {
	s := newTestSpace(t)
	other := NewRepository(s.ts, "other")

	ann, err := s.repo.AnnotationIndex(s.token)
	require.NoError(t, err)

	eq := other.Equivalent(ann)
	require.NotNil(t, eq)
	assert.Equal(t, AnnotationIndexName, eq.Name())
	assert.Same(t, s.token, eq.Type(), "type restriction carries over")

	require.NoError(t, s.repo.Install(&Definition{
		Name:     "extra",
		Kind:     KindBag,
		TypeName: "Top",
	}))
	assert.Nil(t, other.Equivalent(s.repo.Index("extra")), "not installed in the other view")
}
