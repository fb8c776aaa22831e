package index

import (
	"fmt"

	"github.com/hupe1980/annogo/record"
	"github.com/hupe1980/annogo/typesystem"
)

// Names of the indexes every repository starts with.
const (
	// AnnotationIndexName is the built-in sorted annotation index: all
	// annotation records, ordered by (begin asc, end desc).
	AnnotationIndexName = "annotations"

	// AllRecordsIndexName is the built-in catch-all bag holding every
	// record added to the view, annotation or not.
	AllRecordsIndexName = "records"
)

// leaf holds the records of one exact type within one installed index.
// Sorted and set leaves keep their slice ordered under the storage
// comparator; bag leaves append.
type leaf struct {
	recs []record.Record
}

// installedIndex is a Definition bound to a repository: compiled comparator
// plus per-type leaf containers.
type installedIndex struct {
	def        *Definition
	topType    *typesystem.Type
	cmp        CompareFunc // key comparator, nil for bags
	storageCmp CompareFunc // key comparator + ID tiebreak
	leaves     map[uint32]*leaf
	annotation bool
}

func (x *installedIndex) leafFor(code uint32) *leaf {
	l, ok := x.leaves[code]
	if !ok {
		l = &leaf{}
		x.leaves[code] = l
	}
	return l
}

func (x *installedIndex) add(r record.Record) {
	l := x.leafFor(r.Type().Code())
	switch x.def.Kind {
	case KindBag:
		l.recs = append(l.recs, r)
	case KindSet:
		i := firstGE(l.recs, x.cmp, r)
		if i < len(l.recs) && x.cmp(l.recs[i], r) == 0 {
			return // comparator-equal record of the same type already present
		}
		l.insertAt(i, r)
	default: // KindSorted
		l.insertAt(firstGreater(l.recs, x.storageCmp, r), r)
	}
}

func (l *leaf) insertAt(i int, r record.Record) {
	l.recs = append(l.recs, nil)
	copy(l.recs[i+1:], l.recs[i:])
	l.recs[i] = r
}

// Repository is the index space of one view. It owns the built-in catch-all
// bag and annotation index plus any installed user definitions, and routes
// each added record into every index whose top type subsumes the record's
// type.
//
// A repository assumes a single writer; readers are safe only while no
// writer runs.
type Repository struct {
	ts       *typesystem.TypeSystem
	viewName string

	installed []*installedIndex
	byName    map[string]*installedIndex

	annotation *installedIndex
	all        *installedIndex
}

// NewRepository creates the repository for a view, with the built-in
// indexes installed.
func NewRepository(ts *typesystem.TypeSystem, viewName string) *Repository {
	r := &Repository{
		ts:       ts,
		viewName: viewName,
		byName:   make(map[string]*installedIndex),
	}

	if err := r.Install(&Definition{
		Name:     AllRecordsIndexName,
		Kind:     KindBag,
		TypeName: ts.Top().Name(),
	}); err != nil {
		panic(err) // built-in definitions are statically valid
	}
	if err := r.Install(&Definition{
		Name:     AnnotationIndexName,
		Kind:     KindSorted,
		TypeName: ts.Annotation().Name(),
		Keys:     AnnotationKeys(),
	}); err != nil {
		panic(err)
	}

	r.all = r.byName[AllRecordsIndexName]
	r.annotation = r.byName[AnnotationIndexName]
	return r
}

// TypeSystem returns the type system the repository resolves types against.
func (r *Repository) TypeSystem() *typesystem.TypeSystem { return r.ts }

// ViewName returns the name of the view this repository belongs to.
func (r *Repository) ViewName() string { return r.viewName }

// Install compiles and installs an index definition. Definitions are
// installed once, before records are added; installing a definition into a
// non-empty repository only covers records added afterwards.
func (r *Repository) Install(d *Definition) error {
	if _, ok := r.byName[d.Name]; ok {
		return fmt.Errorf("index %q already installed", d.Name)
	}
	t, err := d.validate(r.ts)
	if err != nil {
		return err
	}

	x := &installedIndex{
		def:     d,
		topType: t,
		leaves:  make(map[uint32]*leaf),
	}
	if d.Kind != KindBag {
		cmp, err := compileKeys(d.Keys)
		if err != nil {
			return fmt.Errorf("index %q: %w", d.Name, err)
		}
		x.cmp = cmp
		x.storageCmp = withIDOrder(cmp)
	}
	x.annotation = d.Kind == KindSorted &&
		r.ts.IsAnnotationType(t) &&
		IsAnnotationOrder(d.Keys)

	r.installed = append(r.installed, x)
	r.byName[d.Name] = x
	return nil
}

// Add routes rec into every installed index whose top type subsumes the
// record's type. Annotation records must satisfy begin <= end.
func (r *Repository) Add(rec record.Record) error {
	if rec == nil {
		return fmt.Errorf("cannot index a nil record")
	}
	if r.ts.ByCode(rec.Type().Code()) != rec.Type() {
		return fmt.Errorf("record type %q belongs to a different type system", rec.Type())
	}
	if a, ok := record.AsAnnotation(rec); ok {
		if a.Begin() > a.End() {
			return fmt.Errorf("annotation %v: begin %d > end %d", rec, a.Begin(), a.End())
		}
	}
	for _, x := range r.installed {
		if x.topType.Subsumes(rec.Type()) {
			x.add(rec)
		}
	}
	return nil
}

// Index returns a handle on the named index, or nil if the name is unknown.
func (r *Repository) Index(name string) *Index {
	x, ok := r.byName[name]
	if !ok {
		return nil
	}
	return &Index{repo: r, inst: x, typ: x.topType}
}

// AnnotationIndex returns the built-in annotation index, optionally
// restricted to t (nil means the universal annotation type).
func (r *Repository) AnnotationIndex(t *typesystem.Type) (*Index, error) {
	idx := &Index{repo: r, inst: r.annotation, typ: r.ts.Annotation()}
	if t == nil || t == idx.typ {
		return idx, nil
	}
	return idx.SubIndex(t)
}

// AllRecords returns the built-in catch-all bag restricted to t (nil means
// the root type).
func (r *Repository) AllRecords(t *typesystem.Type) (*Index, error) {
	idx := &Index{repo: r, inst: r.all, typ: r.ts.Top()}
	if t == nil || t == idx.typ {
		return idx, nil
	}
	return idx.SubIndex(t)
}

// Equivalent returns this repository's structural equivalent of idx — the
// index installed under the same definition name with the same kind and
// comparator, restricted to the same type — or nil if the view has no such
// index.
func (r *Repository) Equivalent(idx *Index) *Index {
	x, ok := r.byName[idx.inst.def.Name]
	if !ok || x.def.Kind != idx.inst.def.Kind {
		return nil
	}
	if len(x.def.Keys) != len(idx.inst.def.Keys) {
		return nil
	}
	for i, k := range x.def.Keys {
		if idx.inst.def.Keys[i] != k {
			return nil
		}
	}
	return &Index{repo: r, inst: x, typ: idx.typ}
}
