package expr

import "fmt"

// BindingError is the family of errors raised synchronously when the
// expression algebra is misused.
type BindingError interface {
	error
	bindingError()
}

// UnboundSlotError is raised by PartialExpr.Complete when a slot was never
// bound.
type UnboundSlotError struct{ Var string }

func (e *UnboundSlotError) Error() string {
	return fmt.Sprintf("free variable %q is not bound", e.Var)
}
func (*UnboundSlotError) bindingError() {}

// DoubleBindError is raised by PartialExpr.Bind when the target slot is
// already bound.
type DoubleBindError struct {
	Var string
}

func (e *DoubleBindError) Error() string {
	return fmt.Sprintf("free variable %q is already bound in this expression", e.Var)
}
func (*DoubleBindError) bindingError() {}

// SlotRangeError is raised by PartialExpr.Bind/Var when index is out of
// range for the expression's free-variable list.
type SlotRangeError struct {
	Index, NumSlots int
}

func (e *SlotRangeError) Error() string {
	return fmt.Sprintf("slot index %d out of range (expression has %d free variables)", e.Index, e.NumSlots)
}
func (*SlotRangeError) bindingError() {}

// WrongKindError is raised by ObjectTerm feature access on a term whose
// static kind doesn't support it (e.g. indexing a primitive value, or
// calling IsInstance on something that isn't a class reference).
type WrongKindError struct{ Op, Detail string }

func (e *WrongKindError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s is not supported here", e.Op)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Detail)
}
func (*WrongKindError) bindingError() {}

// CompoundSetError is raised when a simple-set-only operation (contains,
// map, filter, sum, count, ==) is attempted on a compound (joined) set.
type CompoundSetError struct{ Op string }

func (e *CompoundSetError) Error() string {
	return fmt.Sprintf("%s only works on a simple (non-joined) set", e.Op)
}
func (*CompoundSetError) bindingError() {}

// UnknownFeatureAccessError is raised by ObjectTerm.Get when the named
// feature is not declared on the term's static class or any ancestor.
type UnknownFeatureAccessError struct{ Class, Feature string }

func (e *UnknownFeatureAccessError) Error() string {
	return fmt.Sprintf("%q is not defined in class %q", e.Feature, e.Class)
}
func (*UnknownFeatureAccessError) bindingError() {}

// SentinelComparisonError describes comparing a primitive-typed DataTerm
// against the object sentinel (Undefined/nil), which only makes sense for
// ObjectTerm. Nothing in this package returns it: DataTerm.Eq reports such
// a comparison as a WrongKindError, since the two sides' sorts differ.
type SentinelComparisonError struct{}

func (e *SentinelComparisonError) Error() string {
	return "a primitive value cannot be compared with the undefined-object sentinel"
}
func (*SentinelComparisonError) bindingError() {}

// DuplicateVarIDError is raised by VarPool.Declare when the caller-supplied
// id is already in use.
type DuplicateVarIDError struct{ ID string }

func (e *DuplicateVarIDError) Error() string {
	return fmt.Sprintf("variable id %q is already used", e.ID)
}
func (*DuplicateVarIDError) bindingError() {}

// ArityMismatchError is raised by quantifier lowering over a compound
// (joined) set when the caller's variable list doesn't match the number
// of joined components.
type ArityMismatchError struct{ Expected, Got int }

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("joined set has %d components, got %d variables", e.Expected, e.Got)
}
func (*ArityMismatchError) bindingError() {}
