package expr

import (
	"github.com/consolas-project/consolas/internal/schema"
	"github.com/consolas-project/consolas/internal/smt"
	"github.com/consolas-project/consolas/internal/typeuniverse"
)

// ObjectTerm is an SMT term of sort Inst paired with its static class, so
// feature lookup knows which schema to consult.
type ObjectTerm struct {
	Term  smt.Term
	Class *schema.Class
}

// Get implements `o.f`: attribute access returns a DataTerm, single-valued
// reference access returns an ObjectTerm, multi-valued access (attribute
// or reference) returns a SetTerm.
func (o ObjectTerm) Get(pool *VarPool, featureName string) (any, error) {
	f := o.Class.GetFeature(featureName)
	if f == nil {
		return nil, &UnknownFeatureAccessError{Class: o.Class.Name, Feature: featureName}
	}

	if f.IsMultiple() {
		var class *schema.Class
		var sort smt.Sort
		if ref, ok := f.(*schema.Reference); ok {
			class = ref.Target
		} else {
			sort = f.(*schema.Attribute).Sort
		}
		v := pool.Synthetic(class, sort)
		fn := f.Func()
		guard := NewPartial(v, fn.Apply(o.Term, boundVarTerm(v)))
		return &SetTerm{Guard: []*PartialExpr{guard}, ElemClass: class, ElemSort: sort}, nil
	}

	fn := f.Func()
	if ref, ok := f.(*schema.Reference); ok {
		return ObjectTerm{Term: fn.Apply(o.Term), Class: ref.Target}, nil
	}
	attr := f.(*schema.Attribute)
	return DataTerm{Term: fn.Apply(o.Term), Sort: attr.Sort}, nil
}

func boundVarTerm(v Var) smt.Term { return v.smtVar }

// Termer is the common surface of ObjectTerm and DataTerm: anything with
// an underlying SMT term, accepted wherever a set operation needs a value
// rather than caring which algebra it came from (Contains, Equals).
type Termer interface{ SMTTerm() smt.Term }

func (o ObjectTerm) SMTTerm() smt.Term { return o.Term }
func (d DataTerm) SMTTerm() smt.Term   { return d.Term }

// Undefined implements `o.undefined()`: true iff o equals the nil
// sentinel.
func (o ObjectTerm) Undefined() smt.Term {
	return smt.Eq{Left: o.Term, Right: typeuniverse.Nil}
}

// Alive implements `o.alive()`.
func (o ObjectTerm) Alive() smt.Term {
	return typeuniverse.Alive.Apply(o.Term)
}

// IsInstance implements `o.isinstance(class)`.
func (o ObjectTerm) IsInstance(class *schema.Class) smt.Term {
	return typeuniverse.IsInstance.Apply(o.Term, class.Const)
}

// SameType implements `o.sametype(other)`: other is an instance of o's
// *actual* runtime type.
func (o ObjectTerm) SameType(other ObjectTerm) smt.Term {
	return typeuniverse.IsInstance.Apply(other.Term, typeuniverse.ActualType.Apply(o.Term))
}

// Eq implements object equality over the Inst sort; comparing against
// the nil sentinel is better expressed through Undefined.
func (o ObjectTerm) Eq(other ObjectTerm) smt.Term {
	return smt.Eq{Left: o.Term, Right: other.Term}
}

// DataTerm is an SMT term of a primitive or enum sort.
type DataTerm struct {
	Term smt.Term
	Sort smt.Sort
}

// Eq implements primitive equality. Comparing a DataTerm against the
// object sentinel is a BindingError: a primitive value has no notion of
// "undefined" distinct from its own domain.
func (d DataTerm) Eq(other DataTerm) (smt.Term, error) {
	if !d.Sort.Equal(other.Sort) {
		return nil, &WrongKindError{Op: "==", Detail: "operands have different sorts"}
	}
	return smt.Eq{Left: d.Term, Right: other.Term}, nil
}
