// Package compiler is the constraint compiler:
// it turns a *schema.Schema and an *objectreg.Registry into the ordered
// sequence of meta facts (fixed by the schema alone) and config facts
// (fixed by the declared objects), enforces that ordering, and hands
// back the aggregation-capable expr.Universe once the object list is
// closed.
package compiler

import (
	"github.com/consolas-project/consolas/internal/expr"
	"github.com/consolas-project/consolas/internal/schema"
	"github.com/consolas-project/consolas/internal/smt"
	"github.com/consolas-project/consolas/internal/typeuniverse"
)

// MetaFacts returns every fact that depends only on the schema: the
// type-universe axioms, well-typedness axioms for every declared reference
// (attributes get none),
// and one symmetry axiom per opposite-paired reference. It does not
// touch objects — see ConfigFacts.
func MetaFacts(s *schema.Schema) []smt.Term {
	facts := typeuniverse.Axioms(s)
	facts = append(facts, featureTypingFacts(s)...)
	facts = append(facts, oppositeFacts(s)...)
	return facts
}

// featureTypingFacts constrains every feature's function symbol to agree
// with its declared domain/range class: a reference can only point at an
// instance of its target class (or nil, if single-valued and optional),
// and a mandatory single-valued reference can never be nil on a live
// owner.
func featureTypingFacts(s *schema.Schema) []smt.Term {
	var facts []smt.Term
	pool := expr.NewVarPool()
	i1 := smt.NewVar("i1", smt.InstSort)

	for _, c := range s.Classes() {
		for _, ref := range c.References {
			owned := smt.And{typeuniverse.Alive.Apply(i1), typeuniverse.IsInstance.Apply(i1, c.Const)}
			if ref.Multiple {
				// Every referenced j1 is a live instance of ref.Target: j1
				// ranges over the complement of ref.Target's live instances
				// via Otherwise, so a referenced-but-dead-or-wrongly-typed j1
				// is ruled out directly rather than through a separate
				// implication.
				j1, err := pool.ObjectVar(ref.Target, "")
				if err != nil {
					continue
				}
				body, err := expr.AllInstances(pool, ref.Target).Otherwise(
					[]expr.Var{j1},
					smt.Not{Operand: ref.Func().Apply(i1, j1.SmtVar())},
				)
				if err != nil {
					continue
				}
				facts = append(facts, smt.ForAll{Bound: []smt.Var{i1}, Body: body})
				// The set is empty off the owner: an instance that is not a
				// live member of ref's owning class holds no members at all.
				k1 := smt.NewVar("k1", smt.InstSort)
				facts = append(facts, smt.ForAll{Bound: []smt.Var{i1, k1}, Body: smt.Or{
					owned,
					smt.Not{Operand: ref.Func().Apply(i1, k1)},
				}})
				continue
			}
			value := ref.Func().Apply(i1)
			facts = append(facts, smt.ForAll{
				Bound: []smt.Var{i1},
				Body: smt.Implies{
					Antecedent: owned,
					Consequent: smt.Or{
						smt.Eq{Left: value, Right: typeuniverse.Nil},
						smt.And{typeuniverse.Alive.Apply(value), typeuniverse.IsInstance.Apply(value, ref.Target.Const)},
					},
				},
			})
			if ref.Mandatory {
				facts = append(facts, smt.ForAll{
					Bound: []smt.Var{i1},
					Body: smt.Implies{
						Antecedent: owned,
						Consequent: smt.Not{Operand: smt.Eq{Left: value, Right: typeuniverse.Nil}},
					},
				})
			}
		}
	}
	return facts
}

// oppositeFacts generates one bidirectional-pairing axiom per declared
// opposite, regardless of which side (single or multiple) each half of
// the pair is, emitted exactly once per pair.
func oppositeFacts(s *schema.Schema) []smt.Term {
	var facts []smt.Term
	seen := map[string]bool{}

	for _, c := range s.Classes() {
		for _, ref := range c.References {
			other, err := ref.OppositeRef()
			if err != nil || other == nil {
				continue
			}
			key := pairKey(ref, other)
			if seen[key] {
				continue
			}
			seen[key] = true
			facts = append(facts, oppositeSymmetry(ref, other))
		}
	}
	return facts
}

func pairKey(a, b *schema.Reference) string {
	an, bn := a.Owner.Name+"."+a.Name, b.Owner.Name+"."+b.Name
	if an < bn {
		return an + "/" + bn
	}
	return bn + "/" + an
}

func oppositeSymmetry(r, other *schema.Reference) smt.Term {
	i1 := smt.NewVar("i1", smt.InstSort)
	j1 := smt.NewVar("j1", smt.InstSort)

	var forward, backward smt.Term
	if r.Multiple {
		forward = r.Func().Apply(i1, j1)
	} else {
		forward = smt.Eq{Left: r.Func().Apply(i1), Right: j1}
	}
	if other.Multiple {
		backward = other.Func().Apply(j1, i1)
	} else {
		backward = smt.Eq{Left: other.Func().Apply(j1), Right: i1}
	}
	return smt.ForAll{Bound: []smt.Var{i1, j1}, Body: smt.Eq{Left: forward, Right: backward}}
}
