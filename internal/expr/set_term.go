package expr

import (
	"github.com/consolas-project/consolas/internal/schema"
	"github.com/consolas-project/consolas/internal/smt"
)

// SetTerm is a guarded, optionally seeded, optionally joined set
// expression. A simple set has exactly
// one guard component: Guard[0] ranges over its domain variable, and an
// optional Seed[0] maps that domain variable to the set's actual element
// (the result of a prior Map). A compound set is the product of several
// simple sets glued together by Join, one guard/seed pair per component;
// most operations (Contains, Map, Filter, Equals, aggregation) only make
// sense on a simple set and reject a compound one.
type SetTerm struct {
	Guard []*PartialExpr
	Seed  []*PartialExpr // Seed[i] is nil for an unmapped component

	// ElemClass/ElemSort describe a simple set's element type: ElemClass
	// is set for an object-valued set, ElemSort for a primitive-valued
	// one. Unused (and meaningless) on a compound set — CompositeOf names
	// the joined components instead, purely for diagnostics.
	ElemClass *schema.Class
	ElemSort  smt.Sort

	CompositeOf []*schema.Class
}

// IsSimple reports whether s has exactly one guard component (i.e. is not
// the result of a Join).
func (s *SetTerm) IsSimple() bool { return len(s.Guard) == 1 }

func (s *SetTerm) seedAt(i int) *PartialExpr {
	if i < len(s.Seed) {
		return s.Seed[i]
	}
	return nil
}

// AllInstances builds the set of every instance of class: the guard is
// `alive(v) ∧ is_instance(v, class)` over a freshly allocated domain
// variable — a suspended object
// that never got forced alive is not a member, so quantifiers and
// aggregates built from AllInstances automatically skip it.
func AllInstances(pool *VarPool, class *schema.Class) *SetTerm {
	v := pool.Synthetic(class, smt.Sort{})
	obj := v.AsObjectTerm()
	guard := NewPartial(v, smt.And{obj.Alive(), obj.IsInstance(class)})
	return &SetTerm{Guard: []*PartialExpr{guard}, ElemClass: class}
}

// prepareQuantifier is the shared quantifier lowering,
// generalized to both simple and compound sets: for each joined
// component i, if it carries a seed (was produced by Map), the outer
// variable vars[i] is eliminated from body by splicing in the seed's
// (still-symbolic) body term, and the quantifier instead binds the
// seed's own preimage variable; otherwise vars[i] is bound directly. The
// per-component guards are conjoined.
func (s *SetTerm) prepareQuantifier(vars []Var, body smt.Term) ([]smt.Var, smt.Term, smt.Term, error) {
	if len(vars) != len(s.Guard) {
		return nil, nil, nil, &ArityMismatchError{Expected: len(s.Guard), Got: len(vars)}
	}
	bound := make([]smt.Var, len(vars))
	guards := make([]smt.Term, len(vars))
	curBody := body
	for i, v := range vars {
		seed := s.seedAt(i)
		if seed != nil {
			preimage, err := seed.OnlyVar()
			if err != nil {
				return nil, nil, nil, err
			}
			curBody = smt.Substitute(curBody, map[string]smt.Term{v.Name(): seed.BodyTerm()})
			bound[i] = preimage.smtVar
			g, err := s.Guard[i].BindOne(preimage.smtVar)
			if err != nil {
				return nil, nil, nil, err
			}
			gTerm, err := g.Complete()
			if err != nil {
				return nil, nil, nil, err
			}
			guards[i] = gTerm
		} else {
			bound[i] = v.smtVar
			g, err := s.Guard[i].BindOne(v.smtVar)
			if err != nil {
				return nil, nil, nil, err
			}
			gTerm, err := g.Complete()
			if err != nil {
				return nil, nil, nil, err
			}
			guards[i] = gTerm
		}
	}
	return bound, smt.And(guards), curBody, nil
}

// Forall implements `S.forall(v, body)`: ∀ v. guard(v) ⇒ body(v).
func (s *SetTerm) Forall(vars []Var, body smt.Term) (smt.Term, error) {
	bound, guard, lowered, err := s.prepareQuantifier(vars, body)
	if err != nil {
		return nil, err
	}
	return smt.ForAll{Bound: bound, Body: smt.Implies{Antecedent: guard, Consequent: lowered}}, nil
}

// Exists implements `S.exists(v, body)`: ∃ v. guard(v) ∧ body(v).
func (s *SetTerm) Exists(vars []Var, body smt.Term) (smt.Term, error) {
	bound, guard, lowered, err := s.prepareQuantifier(vars, body)
	if err != nil {
		return nil, err
	}
	return smt.Exists{Bound: bound, Body: smt.And{guard, lowered}}, nil
}

// Otherwise implements `S.otherwise(v, body)`: ∀ v. guard(v) ∨ body(v) —
// equivalently ¬guard(v) ⇒ body(v), i.e. the body holds for every
// instance NOT in the set.
func (s *SetTerm) Otherwise(vars []Var, body smt.Term) (smt.Term, error) {
	bound, guard, lowered, err := s.prepareQuantifier(vars, body)
	if err != nil {
		return nil, err
	}
	return smt.ForAll{Bound: bound, Body: smt.Or{guard, lowered}}, nil
}

// ExistsOne implements `S.existsOne(v, body)`: exactly one member of S
// satisfies body, via the usual uniqueness encoding with a fresh
// companion variable ranging over the same set. The uniqueness half is
// nested inside the witness's own Exists so every occurrence of v stays
// bound by it.
func (s *SetTerm) ExistsOne(pool *VarPool, v Var, body smt.Term) (smt.Term, error) {
	if !s.IsSimple() {
		return nil, &CompoundSetError{Op: "existsOne"}
	}
	companion := pool.Synthetic(s.ElemClass, s.ElemSort)
	withCompanion := smt.Substitute(body, map[string]smt.Term{v.Name(): companion.smtVar})

	unique, err := s.Forall([]Var{companion}, smt.Or{
		smt.Eq{Left: companion.smtVar, Right: v.smtVar},
		smt.Not{Operand: withCompanion},
	})
	if err != nil {
		return nil, err
	}
	return s.Exists([]Var{v}, smt.And{body, unique})
}

// Map implements `S.map(v, result)`: attaches a seed computing result(v)
// for every v in S, without changing which elements are in S. result
// must be the ObjectTerm or DataTerm built from v.
func (s *SetTerm) Map(v Var, result Termer) (*SetTerm, error) {
	if !s.IsSimple() {
		return nil, &CompoundSetError{Op: "map"}
	}
	seed := NewPartial(v, result.SMTTerm())
	out := &SetTerm{Guard: s.Guard, Seed: []*PartialExpr{seed}}
	switch r := result.(type) {
	case ObjectTerm:
		out.ElemClass = r.Class
	case DataTerm:
		out.ElemSort = r.Sort
	}
	return out, nil
}

// Filter implements `S.filter(v, cond)`: narrows the guard by cond(v),
// keeping any existing seed untouched.
func (s *SetTerm) Filter(v Var, cond smt.Term) (*SetTerm, error) {
	if !s.IsSimple() {
		return nil, &CompoundSetError{Op: "filter"}
	}
	g := s.Guard[0]
	domainVar, err := g.OnlyVar()
	if err != nil {
		return nil, err
	}
	cond1 := smt.Substitute(cond, map[string]smt.Term{v.Name(): domainVar.smtVar})
	newGuard := NewPartial(domainVar, smt.And{g.BodyTerm(), cond1})
	return &SetTerm{
		Guard:     []*PartialExpr{newGuard},
		Seed:      s.Seed,
		ElemClass: s.ElemClass,
		ElemSort:  s.ElemSort,
	}, nil
}

// Join implements `S * other`: the product of two simple sets into one
// compound, two-component set. Arbitrary arity follows by repeated
// joining.
func (s *SetTerm) Join(other *SetTerm) (*SetTerm, error) {
	if !other.IsSimple() {
		return nil, &CompoundSetError{Op: "join"}
	}
	guard := append(append([]*PartialExpr{}, s.Guard...), other.Guard[0])
	seed := append(append([]*PartialExpr{}, s.Seed...), other.seedAt(0))
	composite := append(append([]*schema.Class{}, s.compositeClasses()...), other.ElemClass)
	return &SetTerm{Guard: guard, Seed: seed, CompositeOf: composite}, nil
}

func (s *SetTerm) compositeClasses() []*schema.Class {
	if len(s.CompositeOf) > 0 {
		return s.CompositeOf
	}
	return []*schema.Class{s.ElemClass}
}

// Contains implements `item in S`.
func (s *SetTerm) Contains(pool *VarPool, item Termer) (smt.Term, error) {
	if !s.IsSimple() {
		return nil, &CompoundSetError{Op: "contains"}
	}
	if s.seedAt(0) != nil {
		v := pool.Synthetic(s.ElemClass, s.ElemSort)
		return s.Exists([]Var{v}, smt.Eq{Left: v.smtVar, Right: item.SMTTerm()})
	}
	bound, err := s.Guard[0].BindOne(item.SMTTerm())
	if err != nil {
		return nil, err
	}
	return bound.Complete()
}

// Equals implements set-literal equality `S == {a, b, c}`: S contains
// every listed element, and every element of S is one of the listed
// ones.
func (s *SetTerm) Equals(pool *VarPool, literals []Termer) (smt.Term, error) {
	if !s.IsSimple() {
		return nil, &CompoundSetError{Op: "=="}
	}
	containsAll := make(smt.And, 0, len(literals))
	eqToOne := make(smt.Or, 0, len(literals))
	for _, lit := range literals {
		c, err := s.Contains(pool, lit)
		if err != nil {
			return nil, err
		}
		containsAll = append(containsAll, c)
	}
	v := pool.Synthetic(s.ElemClass, s.ElemSort)
	for _, lit := range literals {
		eqToOne = append(eqToOne, smt.Eq{Left: v.smtVar, Right: lit.SMTTerm()})
	}
	forallPart, err := s.Forall([]Var{v}, eqToOne)
	if err != nil {
		return nil, err
	}
	return smt.And{containsAll, forallPart}, nil
}
