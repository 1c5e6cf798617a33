// Package typeuniverse builds the fixed set of closed-world axioms over
// the finite alphabet of declared classes plus the sentinel NilType:
// distinctness, the super function, subtype closure, instance, alive,
// and abstractness.
package typeuniverse

import (
	"github.com/consolas-project/consolas/internal/schema"
	"github.com/consolas-project/consolas/internal/smt"
)

// NilType is the sentinel Type-sort constant denoting "no type" — the
// actual type of the dead/absent Inst constant Nil.
var NilType = smt.NewConst("NilType", smt.TypeSort)

// Nil is the sentinel Inst-sort constant used for optional single
// references with no target.
var Nil = smt.NewConst("nil", smt.InstSort)

// Meta-model function symbols, fixed once for the whole process: every
// schema shares the same super/actual_type/is_subtype/is_instance/alive/
// is_abstract symbols.
var (
	Super      = smt.Func{Name: "super", Domain: []smt.Sort{smt.TypeSort}, Range: smt.TypeSort}
	ActualType = smt.Func{Name: "actual_type", Domain: []smt.Sort{smt.InstSort}, Range: smt.TypeSort}
	IsSubtype  = smt.Func{Name: "is_subtype", Domain: []smt.Sort{smt.TypeSort, smt.TypeSort}, Range: smt.BoolSort}
	IsInstance = smt.Func{Name: "is_instance", Domain: []smt.Sort{smt.InstSort, smt.TypeSort}, Range: smt.BoolSort}
	Alive      = smt.Func{Name: "alive", Domain: []smt.Sort{smt.InstSort}, Range: smt.BoolSort}
	IsAbstract = smt.Func{Name: "is_abstract", Domain: []smt.Sort{smt.TypeSort}, Range: smt.BoolSort}
)

// AllClassConsts returns every declared class's Type-sort constant plus
// NilType, in declaration order — the finite domain of the Type sort.
func AllClassConsts(s *schema.Schema) []smt.Term {
	classes := s.Classes()
	out := make([]smt.Term, 0, len(classes)+1)
	for _, c := range classes {
		out = append(out, c.Const)
	}
	return append(out, NilType)
}

// Axioms returns the fixed meta-facts defining the type lattice over s.
// It does not touch features or objects — see compiler.MetaFacts for the
// complete meta-fact generator that calls this and then adds per-feature
// well-typedness axioms.
func Axioms(s *schema.Schema) []smt.Term {
	allClasses := AllClassConsts(s)

	t1 := smt.NewVar("t1", smt.TypeSort)
	t2 := smt.NewVar("t2", smt.TypeSort)
	t3 := smt.NewVar("t3", smt.TypeSort)
	i1 := smt.NewVar("i1", smt.InstSort)

	facts := []smt.Term{
		// Distinctness: declared classes and NilType are pairwise distinct.
		smt.Distinct(allClasses),

		// Finite-domain closure over Type.
		smt.ForAll{Bound: []smt.Var{t1}, Body: disjunctionOfEquals(t1, allClasses)},

		// super is fixed by one equality per declared class.
		superEquations(s),

		// Subtype closure.
		smt.ForAll{Bound: []smt.Var{t1, t2}, Body: smt.Eq{
			Left: IsSubtype.Apply(t1, t2),
			Right: smt.Or{
				smt.Eq{Left: Super.Apply(t1), Right: t2},
				smt.Exists{Bound: []smt.Var{t3}, Body: smt.And{
					smt.Eq{Left: Super.Apply(t1), Right: t3},
					IsSubtype.Apply(t3, t2),
				}},
			},
		}},

		// Instance.
		smt.ForAll{Bound: []smt.Var{i1, t1}, Body: smt.Eq{
			Left: IsInstance.Apply(i1, t1),
			Right: smt.Or{
				smt.Eq{Left: ActualType.Apply(i1), Right: t1},
				IsSubtype.Apply(ActualType.Apply(i1), t1),
			},
		}},

		// is_subtype(NilType, t) implies t = NilType.
		smt.ForAll{Bound: []smt.Var{t1}, Body: smt.Implies{
			Antecedent: IsSubtype.Apply(NilType, t1),
			Consequent: smt.Eq{Left: t1, Right: NilType},
		}},

		// A live instance's actual type is one of the declared classes.
		smt.ForAll{Bound: []smt.Var{i1}, Body: smt.Or{
			smt.Not{Operand: Alive.Apply(i1)},
			disjunctionOfEquals(ActualType.Apply(i1), allClasses),
		}},

		// Abstractness: every declared abstract class plus NilType; concrete
		// classes are pinned non-abstract so the predicate is fully
		// determined over the finite Type domain.
		abstractnessFact(s),
		smt.ForAll{Bound: []smt.Var{i1}, Body: smt.Implies{
			Antecedent: Alive.Apply(i1),
			Consequent: smt.Not{Operand: IsAbstract.Apply(ActualType.Apply(i1))},
		}},

		// nil is the unique dead instance of NilType.
		smt.And{
			smt.Eq{Left: Super.Apply(NilType), Right: NilType},
			smt.Eq{Left: ActualType.Apply(Nil), Right: NilType},
			smt.Not{Operand: Alive.Apply(Nil)},
		},
	}
	return facts
}

func disjunctionOfEquals(t smt.Term, candidates []smt.Term) smt.Term {
	or := make(smt.Or, len(candidates))
	for i, c := range candidates {
		or[i] = smt.Eq{Left: t, Right: c}
	}
	return or
}

func superEquations(s *schema.Schema) smt.Term {
	var and smt.And
	for _, c := range s.Classes() {
		target := smt.Term(NilType)
		if c.Supertype != nil {
			target = c.Supertype.Const
		}
		and = append(and, smt.Eq{Left: Super.Apply(c.Const), Right: target})
	}
	return and
}

func abstractnessFact(s *schema.Schema) smt.Term {
	and := smt.And{IsAbstract.Apply(NilType)}
	for _, c := range s.Classes() {
		if c.Abstract {
			and = append(and, IsAbstract.Apply(c.Const))
		} else {
			and = append(and, smt.Not{Operand: IsAbstract.Apply(c.Const)})
		}
	}
	return and
}
