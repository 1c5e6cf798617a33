// Package smt is the solver facade: sorts, terms, function symbols, and the
// Solver interface that every downstream component (typeuniverse, schema,
// expr, compiler) builds formulas against. The solver itself is external —
// this package only defines the surface a backend engine must satisfy.
package smt

import "fmt"

// SortKind distinguishes the handful of sort shapes the modeling front-end
// ever needs: two process-wide uninterpreted sorts (Type, Inst), the
// primitive sorts, and user-declared enumeration datatypes.
type SortKind int

const (
	KindUninterpreted SortKind = iota
	KindBool
	KindInt
	KindEnum
)

// Sort is an SMT sort. Uninterpreted and enum sorts carry a Name used both
// for solver wire-format and for human-readable term printing.
type Sort struct {
	Kind SortKind
	Name string
	// Values holds the nullary constructor names for an enum sort, in
	// declaration order.
	Values []string
}

func (s Sort) String() string {
	if s.Kind == KindEnum {
		return fmt.Sprintf("%s%v", s.Name, s.Values)
	}
	return s.Name
}

func (s Sort) Equal(o Sort) bool {
	return s.Kind == o.Kind && s.Name == o.Name
}

// BoolSort and IntSort are the two built-in primitive sorts.
var (
	BoolSort = Sort{Kind: KindBool, Name: "Bool"}
	IntSort  = Sort{Kind: KindInt, Name: "Int"}
)

// TypeSort and InstSort are the two global uninterpreted sorts fixed by
// the meta-model: every declared class is a constant of TypeSort, every
// declared object a constant of InstSort. They are
// predeclared here, alongside Bool/Int, so every package that needs to
// talk about classes or objects (schema, typeuniverse, objectreg, expr,
// compiler) can do so without importing one another.
var (
	TypeSort = UninterpretedSort("Type")
	InstSort = UninterpretedSort("Inst")
)

// UninterpretedSort declares a fresh uninterpreted sort with the given name.
// The modeling layer uses this exactly twice, for the global Type and Inst
// sorts (see TypeSort / InstSort above).
func UninterpretedSort(name string) Sort {
	return Sort{Kind: KindUninterpreted, Name: name}
}

// EnumSort declares a datatype sort with the given nullary constructors.
func EnumSort(name string, values []string) Sort {
	return Sort{Kind: KindEnum, Name: name, Values: values}
}
