package compiler

import "fmt"

// OrderingError is the family of errors raised when the constraint
// compiler's phases are driven out of sequence: meta facts before config
// facts before aggregation, and every config fact must name an
// already-declared object.
type OrderingError interface {
	error
	orderingError()
}

// PrematureAggregationError is raised by Compiler.Finalize when config
// facts have not yet been asserted — sum/count can only be reached
// through the Universe value Finalize returns, so this is the one point
// where "aggregating before the universe closes" can still occur.
type PrematureAggregationError struct{}

func (e *PrematureAggregationError) Error() string {
	return "cannot finalize the object universe before config facts are asserted"
}
func (*PrematureAggregationError) orderingError() {}

// UndeclaredObjectError is raised when a config fact (or a config loader
// resolving objects by name) names an object that was never declared.
type UndeclaredObjectError struct{ Name string }

func (e *UndeclaredObjectError) Error() string {
	return fmt.Sprintf("object %q was never declared", e.Name)
}
func (*UndeclaredObjectError) orderingError() {}

// OutOfOrderError is raised when AssertMeta/AssertConfig are called out
// of their required sequence (meta, then config, then Finalize).
type OutOfOrderError struct{ Attempted, Phase string }

func (e *OutOfOrderError) Error() string {
	return fmt.Sprintf("cannot assert %s facts: compiler is in phase %q", e.Attempted, e.Phase)
}
func (*OutOfOrderError) orderingError() {}
