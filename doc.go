// Package annogo is an in-memory store for typed, interval-tagged records
// with a fluent query layer.
//
// Records live in named views, are organized by a single-rooted type system,
// and are kept in sorted, set or bag indexes. The Select builder composes
// type restrictions, interval bounds (covered-by, covering, same-span,
// between), positioning (start-at, following, preceding), direction, shift
// and limit into a single cursor, consumed through terminal operations or a
// lazy stream:
//
//	store := annogo.New()
//	ts := store.TypeSystem()
//	token, _ := ts.NewAnnotationType("Token", nil)
//	sentence, _ := ts.NewAnnotationType("Sentence", nil)
//
//	view := store.InitialView()
//	sent, _ := view.Annotate(sentence, 0, 20)
//	view.Annotate(token, 0, 5)
//	view.Annotate(token, 6, 11)
//
//	inSentence, _ := view.SelectAnnotations().Type(token).CoveredBy(sent).AsSlice()
//
// The store assumes a single writer; any number of readers may run while no
// writer does.
package annogo
