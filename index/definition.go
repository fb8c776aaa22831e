package index

import (
	"fmt"
	"sort"

	"github.com/hupe1980/annogo/record"
	"github.com/hupe1980/annogo/typesystem"
)

// Kind is the ordering/deduplication policy of an index.
type Kind int

const (
	// KindSorted keeps a total order under the index comparator;
	// duplicates are allowed.
	KindSorted Kind = iota

	// KindSet deduplicates records of the same type that compare equal
	// under the index comparator.
	KindSet

	// KindBag keeps records unordered; iteration order is unspecified.
	KindBag
)

func (k Kind) String() string {
	switch k {
	case KindSorted:
		return "sorted"
	case KindSet:
		return "set"
	case KindBag:
		return "bag"
	default:
		return "unknown"
	}
}

// CompareFunc is a total order over records. Implementations must be
// consistent: cmp(a, b) == -cmp(b, a), and transitive.
type CompareFunc func(a, b record.Record) int

// Key is one ordering component of a sorted or set index, referring to a
// built-in record property.
type Key struct {
	// Feature is one of "begin", "end", "type" or "id".
	Feature string `yaml:"feature"`

	// Descending reverses the ordering of this component.
	Descending bool `yaml:"descending"`
}

// Definition describes an index to be installed into a repository. The same
// definition installed into several views produces structurally equivalent
// indexes, which is what all-views aggregation matches on.
type Definition struct {
	// Name identifies the index within a repository.
	Name string `yaml:"name"`

	// Kind selects sorted, set or bag behavior.
	Kind Kind `yaml:"kind"`

	// TypeName is the top type the index covers; records of this type and
	// all subtypes are routed into the index.
	TypeName string `yaml:"type"`

	// Keys define the comparator for sorted and set indexes. Ignored for
	// bags. Keys referring to begin or end require an annotation type.
	Keys []Key `yaml:"keys"`
}

// AnnotationKeys is the comparator key list of the built-in annotation
// index: begin ascending, end descending (longer annotations first).
func AnnotationKeys() []Key {
	return []Key{{Feature: "begin"}, {Feature: "end", Descending: true}}
}

// IsAnnotationOrder reports whether keys start with (begin asc, end desc),
// the ordering interval-capable indexes are required to have.
func IsAnnotationOrder(keys []Key) bool {
	return len(keys) >= 2 &&
		keys[0] == Key{Feature: "begin"} &&
		keys[1] == Key{Feature: "end", Descending: true}
}

// compile builds the comparator for the definition's keys. The returned
// function compares only the listed keys; storage order additionally breaks
// ties by record ID.
func compileKeys(keys []Key) (CompareFunc, error) {
	type keyFn func(a, b record.Record) int

	fns := make([]keyFn, 0, len(keys))
	for _, k := range keys {
		var fn keyFn
		switch k.Feature {
		case "begin":
			fn = func(a, b record.Record) int {
				return a.(record.Annotation).Begin() - b.(record.Annotation).Begin()
			}
		case "end":
			fn = func(a, b record.Record) int {
				return a.(record.Annotation).End() - b.(record.Annotation).End()
			}
		case "type":
			fn = func(a, b record.Record) int {
				return int(a.Type().Code()) - int(b.Type().Code())
			}
		case "id":
			fn = func(a, b record.Record) int {
				switch {
				case a.ID() < b.ID():
					return -1
				case a.ID() > b.ID():
					return 1
				default:
					return 0
				}
			}
		default:
			return nil, fmt.Errorf("index key refers to unknown feature %q", k.Feature)
		}
		if k.Descending {
			inner := fn
			fn = func(a, b record.Record) int { return -inner(a, b) }
		}
		fns = append(fns, fn)
	}

	return func(a, b record.Record) int {
		for _, fn := range fns {
			if c := fn(a, b); c != 0 {
				return c
			}
		}
		return 0
	}, nil
}

// withTypeOrder extends cmp with a type-code tiebreak, the ordering used
// when type priority is requested.
func withTypeOrder(cmp CompareFunc) CompareFunc {
	return func(a, b record.Record) int {
		if c := cmp(a, b); c != 0 {
			return c
		}
		return int(a.Type().Code()) - int(b.Type().Code())
	}
}

// withIDOrder extends cmp with an ID tiebreak; this is the storage order of
// leaf containers, under which all records are distinct.
func withIDOrder(cmp CompareFunc) CompareFunc {
	return func(a, b record.Record) int {
		if c := cmp(a, b); c != 0 {
			return c
		}
		switch {
		case a.ID() < b.ID():
			return -1
		case a.ID() > b.ID():
			return 1
		default:
			return 0
		}
	}
}

func (d *Definition) validate(ts *typesystem.TypeSystem) (*typesystem.Type, error) {
	if d.Name == "" {
		return nil, fmt.Errorf("index definition needs a name")
	}
	t := ts.Lookup(d.TypeName)
	if t == nil {
		return nil, fmt.Errorf("index %q: unknown type %q", d.Name, d.TypeName)
	}
	if d.Kind != KindBag {
		if len(d.Keys) == 0 {
			return nil, fmt.Errorf("index %q: %s index needs at least one key", d.Name, d.Kind)
		}
		for _, k := range d.Keys {
			if (k.Feature == "begin" || k.Feature == "end") && !ts.IsAnnotationType(t) {
				return nil, fmt.Errorf("index %q: key %q requires an annotation type, got %q",
					d.Name, k.Feature, d.TypeName)
			}
		}
	}
	return t, nil
}

// Binary-search helpers over slices sorted under cmp (ties contiguous).

// firstGE returns the index of the first record r with cmp(r, probe) >= 0,
// or len(recs) if there is none.
func firstGE(recs []record.Record, cmp CompareFunc, probe record.Record) int {
	return sort.Search(len(recs), func(i int) bool { return cmp(recs[i], probe) >= 0 })
}

// firstGreater returns the index of the first record r with
// cmp(r, probe) > 0, or len(recs) if there is none.
func firstGreater(recs []record.Record, cmp CompareFunc, probe record.Record) int {
	return sort.Search(len(recs), func(i int) bool { return cmp(recs[i], probe) > 0 })
}
