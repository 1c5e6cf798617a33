package expr

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/consolas-project/consolas/internal/schema"
	"github.com/consolas-project/consolas/internal/smt"
)

// Var is a free variable of the expression algebra: an SMT bound-variable
// symbol paired with its static type (an object class, or a primitive/enum
// sort). It is the unit substituted by PartialExpr.Bind and the thing
// quantified by ForAll/Exists.
type Var struct {
	smtVar smt.Var
	Class  *schema.Class // non-nil for object-typed variables
	Sort   smt.Sort      // valid for primitive-typed variables (Class == nil)
}

func (v Var) SmtVar() smt.Var { return v.smtVar }
func (v Var) Name() string    { return v.smtVar.String() }

// AsObjectTerm views an object-typed Var as an ObjectTerm, so it can be
// used on the left of feature access (v.f) inside a quantifier body.
func (v Var) AsObjectTerm() ObjectTerm {
	return ObjectTerm{Term: v.smtVar, Class: v.Class}
}

// AsDataTerm views a primitive-typed Var as a DataTerm.
func (v Var) AsDataTerm() DataTerm {
	return DataTerm{Term: v.smtVar, Sort: v.Sort}
}

// VarPool allocates fresh Vars (and the user-facing declare_var(type, id?)
// entry point), enforcing that every identifier — user-chosen or
// compiler-synthesized — is globally unique. Uniqueness is what makes
// substitution capture-free without alpha-renaming.
//
// User-facing ids keep a readable "var<Type><n>" counter style. Vars
// synthesized internally (AllInstances' domain variable, existsOne's
// companion variable, the element variables of Get, Contains, Equals and
// ClassForceValue) instead get a uuid-derived
// suffix, so they can never collide with a name a caller might
// independently choose.
type VarPool struct {
	used    map[string]bool
	counter int
}

func NewVarPool() *VarPool {
	return &VarPool{used: map[string]bool{}}
}

// Declare implements declare_var(type, id?): type is either a *schema.Class
// (object-typed) or an smt.Sort (primitive/enum-typed). If id is empty a
// readable counter-based name is generated.
func (p *VarPool) Declare(class *schema.Class, sort smt.Sort, id string) (Var, error) {
	if id == "" {
		typeName := sort.Name
		if class != nil {
			typeName = class.Name
		}
		for id == "" || p.used[id] {
			p.counter++
			id = fmt.Sprintf("var%s%d", typeName, p.counter)
		}
	} else if p.used[id] {
		return Var{}, &DuplicateVarIDError{ID: id}
	}
	p.used[id] = true

	varSort := sort
	if class != nil {
		varSort = smt.InstSort
	}
	return Var{smtVar: smt.NewVar(id, varSort), Class: class, Sort: sort}, nil
}

// ObjectVar declares an object-typed variable.
func (p *VarPool) ObjectVar(class *schema.Class, id string) (Var, error) {
	return p.Declare(class, smt.Sort{}, id)
}

// DataVar declares a primitive/enum-typed variable.
func (p *VarPool) DataVar(sort smt.Sort, id string) (Var, error) {
	return p.Declare(nil, sort, id)
}

// ObjectVars declares several object-typed variables at once, the plural
// form of ObjectVar. It stops at the first error, leaving any already
// declared ids registered in p.
func (p *VarPool) ObjectVars(class *schema.Class, ids []string) ([]Var, error) {
	out := make([]Var, len(ids))
	for i, id := range ids {
		v, err := p.ObjectVar(class, id)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// DataVars declares several primitive/enum-typed variables at once.
func (p *VarPool) DataVars(sort smt.Sort, ids []string) ([]Var, error) {
	out := make([]Var, len(ids))
	for i, id := range ids {
		v, err := p.DataVar(sort, id)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Synthetic allocates a compiler-internal variable that can never collide
// with a user id, using a uuid-derived suffix instead of the counter.
func (p *VarPool) Synthetic(class *schema.Class, sort smt.Sort) Var {
	id := "v_" + uuid.NewString()
	v, err := p.Declare(class, sort, id)
	if err != nil {
		// uuid collisions are astronomically unlikely; if one ever
		// happens, draw another rather than surfacing a confusing
		// internal error to the caller of a public API method.
		return p.Synthetic(class, sort)
	}
	return v
}
