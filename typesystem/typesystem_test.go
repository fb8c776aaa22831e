package typesystem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	ts := New()

	require.NotNil(t, ts.Top())
	require.NotNil(t, ts.Annotation())
	assert.Equal(t, TopTypeName, ts.Top().Name())
	assert.Equal(t, AnnotationTypeName, ts.Annotation().Name())
	assert.Same(t, ts.Top(), ts.Annotation().Parent())
	assert.Equal(t, 2, ts.Len())
}

func TestNewType(t *testing.T) {
	t.Run("under top by default", func(t *testing.T) {
		ts := New()
		doc, err := ts.NewType("Document", nil)
		require.NoError(t, err)
		assert.Same(t, ts.Top(), doc.Parent())
		assert.Same(t, doc, ts.Lookup("Document"))
	})

	t.Run("duplicate name rejected", func(t *testing.T) {
		ts := New()
		_, err := ts.NewType("Document", nil)
		require.NoError(t, err)
		_, err = ts.NewType("Document", nil)
		require.Error(t, err)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		ts := New()
		_, err := ts.NewType("", nil)
		require.Error(t, err)
	})

	t.Run("foreign parent rejected", func(t *testing.T) {
		ts := New()
		other := New()
		_, err := ts.NewType("Document", other.Top())
		require.Error(t, err)
	})
}

func TestSubsumes(t *testing.T) {
	ts := New()
	token, err := ts.NewAnnotationType("Token", nil)
	require.NoError(t, err)
	word, err := ts.NewAnnotationType("Word", token)
	require.NoError(t, err)
	doc, err := ts.NewType("Document", nil)
	require.NoError(t, err)

	assert.True(t, ts.Top().Subsumes(word))
	assert.True(t, ts.Annotation().Subsumes(word))
	assert.True(t, token.Subsumes(word))
	assert.True(t, token.Subsumes(token))
	assert.False(t, word.Subsumes(token))
	assert.False(t, token.Subsumes(doc))
	assert.False(t, token.Subsumes(nil))
}

func TestNewAnnotationType(t *testing.T) {
	ts := New()
	doc, err := ts.NewType("Document", nil)
	require.NoError(t, err)

	_, err = ts.NewAnnotationType("Broken", doc)
	require.Error(t, err, "non-annotation parent must be rejected")

	token, err := ts.NewAnnotationType("Token", nil)
	require.NoError(t, err)
	assert.True(t, ts.IsAnnotationType(token))
	assert.False(t, ts.IsAnnotationType(doc))
}

func TestByCode(t *testing.T) {
	ts := New()
	token, err := ts.NewAnnotationType("Token", nil)
	require.NoError(t, err)

	assert.Same(t, token, ts.ByCode(token.Code()))
	assert.Nil(t, ts.ByCode(999))
}

func TestSubtreeTypes(t *testing.T) {
	ts := New()
	token, _ := ts.NewAnnotationType("Token", nil)
	word, _ := ts.NewAnnotationType("Word", token)
	punct, _ := ts.NewAnnotationType("Punct", token)
	compound, _ := ts.NewAnnotationType("Compound", word)

	got := SubtreeTypes(token)
	require.Equal(t, []*Type{token, word, compound, punct}, got)
}
