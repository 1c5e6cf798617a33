package schema

import "github.com/consolas-project/consolas/internal/smt"

// Schema is the registry of every declared class and enum, plus the
// global by-name feature function-symbol table. A *Schema is owned by a
// single consolas.Context (see the package doc comment in consolas.go);
// nothing here is package-level mutable state.
type Schema struct {
	classes      map[string]*Class
	classOrder   []string
	enums        map[string]smt.Sort
	enumOrder    []string
	featureFuncs map[string]smt.Func
}

// New returns an empty Schema.
func New() *Schema {
	return &Schema{
		classes:      map[string]*Class{},
		enums:        map[string]smt.Sort{},
		featureFuncs: map[string]smt.Func{},
	}
}

// DefineClass declares a new class. supertype may be nil for a root
// class. It is a SchemaError to redeclare an existing name.
func (s *Schema) DefineClass(name string, supertype *Class, abstract bool) (*Class, error) {
	if _, exists := s.classes[name]; exists {
		return nil, &DuplicateClassError{Name: name}
	}
	c := newClass(name, supertype, abstract)
	s.classes[name] = c
	s.classOrder = append(s.classOrder, name)
	return c, nil
}

// Class looks up a previously declared class by name.
func (s *Schema) Class(name string) (*Class, bool) {
	c, ok := s.classes[name]
	return c, ok
}

// Classes returns every declared class in declaration order.
func (s *Schema) Classes() []*Class {
	out := make([]*Class, len(s.classOrder))
	for i, name := range s.classOrder {
		out[i] = s.classes[name]
	}
	return out
}

// DefineEnum declares an enumeration sort with the given ordered value
// names.
func (s *Schema) DefineEnum(name string, values []string) (smt.Sort, error) {
	if _, exists := s.enums[name]; exists {
		return smt.Sort{}, &DuplicateEnumError{Name: name}
	}
	if _, exists := s.classes[name]; exists {
		return smt.Sort{}, &DuplicateEnumError{Name: name}
	}
	sort := smt.EnumSort(name, values)
	s.enums[name] = sort
	s.enumOrder = append(s.enumOrder, name)
	return sort, nil
}

// Enum looks up a previously declared enum sort by name.
func (s *Schema) Enum(name string) (smt.Sort, bool) {
	e, ok := s.enums[name]
	return e, ok
}

// ResolveType maps a schema-input type string to a value domain: a
// primitive/enum smt.Sort, or a declared *Class for reference targets.
// Unknown type strings are a schema error.
func (s *Schema) ResolveType(typeName string) (smt.Sort, *Class, error) {
	switch typeName {
	case "Integer":
		return smt.IntSort, nil, nil
	case "Boolean":
		return smt.BoolSort, nil, nil
	}
	if c, ok := s.classes[typeName]; ok {
		return smt.Sort{}, c, nil
	}
	if e, ok := s.enums[typeName]; ok {
		return e, nil, nil
	}
	return smt.Sort{}, nil, &UnknownFeatureTypeError{Type: typeName}
}

// featureFunc returns the shared smt.Func for a feature name, creating it
// on first use. Every later declaration of the same name gets that first
// Func back unchanged; a differing domain/range shape is not checked.
func (s *Schema) featureFunc(name string, domain []smt.Sort, rng smt.Sort) smt.Func {
	if existing, ok := s.featureFuncs[name]; ok {
		return existing
	}
	fn := smt.Func{Name: name, Domain: domain, Range: rng}
	s.featureFuncs[name] = fn
	return fn
}

// DefineAttribute declares a primitive-valued feature on c. multiple
// selects the `Inst x D -> Bool` encoding over the single-valued
// `Inst -> D` one.
func (c *Class) DefineAttribute(s *Schema, name string, valueSort smt.Sort, multiple bool) *Attribute {
	var fn smt.Func
	if multiple {
		fn = s.featureFunc(name, []smt.Sort{smt.InstSort, valueSort}, smt.BoolSort)
	} else {
		fn = s.featureFunc(name, []smt.Sort{smt.InstSort}, valueSort)
	}
	a := &Attribute{Name: name, Owner: c, Sort: valueSort, Multiple: multiple, fn: fn}
	c.Attributes[name] = a
	return a
}

// DefineReference declares an object-valued feature on c targeting
// target. mandatory is only meaningful when !multiple. opposite names a
// reference on target to keep symmetric; it is not validated until
// OppositeRef is called, since the target's reference may not exist yet
// at this point.
func (c *Class) DefineReference(s *Schema, name string, target *Class, multiple, mandatory bool, opposite string) *Reference {
	var fn smt.Func
	if multiple {
		fn = s.featureFunc(name, []smt.Sort{smt.InstSort, smt.InstSort}, smt.BoolSort)
	} else {
		fn = s.featureFunc(name, []smt.Sort{smt.InstSort}, smt.InstSort)
	}
	r := &Reference{Name: name, Owner: c, Target: target, Multiple: multiple, Mandatory: mandatory && !multiple, Opposite: opposite, fn: fn}
	c.References[name] = r
	return r
}
