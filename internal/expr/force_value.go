package expr

import (
	"fmt"

	"github.com/consolas-project/consolas/internal/schema"
	"github.com/consolas-project/consolas/internal/smt"
)

// ClassForceValue implements a class-wide forced value: every live
// instance of class has its single-valued feature equal to value —
// `class.all_instances().forall(v, v[feature] == value)`.
//
// This is not a schema.Class method, even though it forces a value on a
// class, because building it needs AllInstances and Forall from this
// package, and internal/schema cannot import internal/expr back (expr
// already imports schema). Callers that declared the class via a
// *schema.Class pass it here instead.
func ClassForceValue(pool *VarPool, class *schema.Class, featureName string, value Termer) (smt.Term, error) {
	v := pool.Synthetic(class, smt.Sort{})
	got, err := v.AsObjectTerm().Get(pool, featureName)
	if err != nil {
		return nil, err
	}

	var body smt.Term
	switch g := got.(type) {
	case ObjectTerm:
		other, ok := value.(ObjectTerm)
		if !ok {
			return nil, &WrongKindError{Op: "ClassForceValue", Detail: "a reference feature requires an ObjectTerm value"}
		}
		body = g.Eq(other)
	case DataTerm:
		other, ok := value.(DataTerm)
		if !ok {
			return nil, &WrongKindError{Op: "ClassForceValue", Detail: "an attribute feature requires a DataTerm value"}
		}
		eq, err := g.Eq(other)
		if err != nil {
			return nil, err
		}
		body = eq
	case *SetTerm:
		return nil, &WrongKindError{Op: "ClassForceValue", Detail: "multi-valued features aren't supported — force each object's set individually"}
	default:
		return nil, fmt.Errorf("expr: ClassForceValue: unexpected feature kind %T", got)
	}

	return AllInstances(pool, class).Forall([]Var{v}, body)
}
