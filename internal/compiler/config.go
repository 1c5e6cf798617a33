package compiler

import (
	"github.com/consolas-project/consolas/internal/objectreg"
	"github.com/consolas-project/consolas/internal/smt"
	"github.com/consolas-project/consolas/internal/typeuniverse"
)

// ConfigFacts returns every fact that depends on the declared object
// list: pairwise distinctness and finite-domain closure over Inst,
// per-object actual-type and aliveness, and every forced feature value.
// Suspended objects get an actual-type fact but no forced aliveness —
// whether they exist in a given model is left to the solver.
func ConfigFacts(objects []*objectreg.Object) []smt.Term {
	var facts []smt.Term

	consts := make([]smt.Term, 0, len(objects)+1)
	for _, o := range objects {
		consts = append(consts, o.Const)
	}
	consts = append(consts, typeuniverse.Nil)
	facts = append(facts, smt.Distinct(consts))

	i1 := smt.NewVar("i1", smt.InstSort)
	facts = append(facts, smt.ForAll{Bound: []smt.Var{i1}, Body: disjunctionOfEquals(i1, consts)})

	for _, o := range objects {
		facts = append(facts, smt.Eq{Left: typeuniverse.ActualType.Apply(o.Const), Right: o.Class.Const})
		if !o.Suspended {
			facts = append(facts, typeuniverse.Alive.Apply(o.Const))
		}
		facts = append(facts, forcedValueFacts(o)...)
	}
	return facts
}

func forcedValueFacts(o *objectreg.Object) []smt.Term {
	var facts []smt.Term
	for _, fv := range o.ForcedValues() {
		fn := fv.Feature.Func()
		switch {
		case fv.Feature.IsMultiple() && len(fv.Objects) > 0:
			targets := make([]smt.Term, len(fv.Objects))
			for i, t := range fv.Objects {
				targets[i] = t.Const
				facts = append(facts, fn.Apply(o.Const, t.Const))
			}
			j1 := smt.NewVar("j_"+o.Name+"_"+fv.Feature.FeatureName(), smt.InstSort)
			facts = append(facts, smt.ForAll{
				Bound: []smt.Var{j1},
				Body: smt.Implies{
					Antecedent: fn.Apply(o.Const, j1),
					Consequent: disjunctionOfEquals(j1, targets),
				},
			})
		case !fv.Feature.IsMultiple() && fv.Object != nil:
			facts = append(facts, smt.Eq{Left: fn.Apply(o.Const), Right: fv.Object.Const})
		case !fv.Feature.IsMultiple() && fv.Literal != nil:
			facts = append(facts, smt.Eq{Left: fn.Apply(o.Const), Right: fv.Literal})
		}
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

// ResolveObjectRefs looks up several objects by name, for config loaders
// (e.g. YAML-declared forced-value sets) that name their targets as
// strings rather than holding *objectreg.Object handles directly.
func ResolveObjectRefs(reg *objectreg.Registry, names []string) ([]*objectreg.Object, error) {
	out := make([]*objectreg.Object, len(names))
	for i, name := range names {
		o, ok := reg.Object(name)
		if !ok {
			return nil, &UndeclaredObjectError{Name: name}
		}
		out[i] = o
	}
	return out, nil
}
