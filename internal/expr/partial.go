package expr

import "github.com/consolas-project/consolas/internal/smt"

type slot struct {
	v     Var
	bound smt.Term // nil until Bind fills it
}

// PartialExpr is a body term plus an ordered list of free-variable slots,
// each independently bindable. It is
// immutable: Bind returns a new PartialExpr with one more slot filled,
// leaving the receiver untouched — which is what lets a SetTerm's guard
// template be reused across many forall/exists/contains calls without
// carrying state from one call into the next, while still making
// "bind the same slot twice before completing" a hygiene error.
type PartialExpr struct {
	slots []slot
	body  smt.Term
}

// NewPartial builds a single-free-variable PartialExpr.
func NewPartial(v Var, body smt.Term) *PartialExpr {
	return &PartialExpr{slots: []slot{{v: v}}, body: body}
}

// NewPartialMulti builds a PartialExpr with several free variables, used
// for compound (joined) quantifier bodies.
func NewPartialMulti(vars []Var, body smt.Term) *PartialExpr {
	slots := make([]slot, len(vars))
	for i, v := range vars {
		slots[i] = slot{v: v}
	}
	return &PartialExpr{slots: slots, body: body}
}

// NumSlots returns the number of free variables.
func (p *PartialExpr) NumSlots() int { return len(p.slots) }

// Var returns the i-th free variable's descriptor.
func (p *PartialExpr) Var(i int) (Var, error) {
	if i < 0 || i >= len(p.slots) {
		return Var{}, &SlotRangeError{Index: i, NumSlots: len(p.slots)}
	}
	return p.slots[i].v, nil
}

// OnlyVar returns the sole free variable of a single-slot PartialExpr.
func (p *PartialExpr) OnlyVar() (Var, error) {
	if len(p.slots) != 1 {
		return Var{}, &CompoundSetError{Op: "OnlyVar"}
	}
	return p.slots[0].v, nil
}

// Bind fills slot i with value, returning a new PartialExpr. It is an
// error to bind an out-of-range or already-bound slot.
func (p *PartialExpr) Bind(i int, value smt.Term) (*PartialExpr, error) {
	if i < 0 || i >= len(p.slots) {
		return nil, &SlotRangeError{Index: i, NumSlots: len(p.slots)}
	}
	if p.slots[i].bound != nil {
		return nil, &DoubleBindError{Var: p.slots[i].v.Name()}
	}
	next := make([]slot, len(p.slots))
	copy(next, p.slots)
	next[i] = slot{v: p.slots[i].v, bound: value}
	return &PartialExpr{slots: next, body: p.body}, nil
}

// BindOne binds the sole slot of a single-free-variable PartialExpr.
func (p *PartialExpr) BindOne(value smt.Term) (*PartialExpr, error) {
	if len(p.slots) != 1 {
		return nil, &CompoundSetError{Op: "bindOne"}
	}
	return p.Bind(0, value)
}

// BodyTerm returns the raw, unsubstituted body term. Used by quantifier
// lowering over mapped sets, where a seed's body must be spliced into an
// outer expression while its own free variable stays free.
func (p *PartialExpr) BodyTerm() smt.Term { return p.body }

// Complete requires every slot to be bound, then performs a single
// capture-free, simultaneous substitution of every bound variable in the
// body.
func (p *PartialExpr) Complete() (smt.Term, error) {
	bindings := make(map[string]smt.Term, len(p.slots))
	for _, s := range p.slots {
		if s.bound == nil {
			return nil, &UnboundSlotError{Var: s.v.Name()}
		}
		bindings[s.v.Name()] = s.bound
	}
	return smt.Substitute(p.body, bindings), nil
}
