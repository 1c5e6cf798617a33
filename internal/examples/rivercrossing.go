// Package examples builds a handful of complete end-to-end scenarios
// against the internal/smt/reference engine, as small but complete
// instances rather than full production-scale models — enough to
// exercise every layer (schema declaration, object declaration,
// expression algebra, constraint compilation, decoding) against a real
// Check call.
package examples

import (
	"github.com/consolas-project/consolas/internal/objectreg"
	"github.com/consolas-project/consolas/internal/schema"
	"github.com/consolas-project/consolas/internal/smt"
	"github.com/consolas-project/consolas/internal/smt/reference"
	"github.com/consolas-project/consolas/internal/typeuniverse"

	"github.com/consolas-project/consolas"
)

// RiverCrossing is the classic farmer/fox/chicken/grain puzzle: a State
// class chaining eight snapshots (state0..state7) via "next", each
// holding the two banks as "near"/"far" sets of Object, and an Object
// class whose "eat" reference generalizes the farmer/fox/chicken/grain
// predator-prey rule to whatever pair the schema happens to force.
type RiverCrossing struct {
	Ctx    *consolas.Context
	State  *schema.Class
	Object *schema.Class
	Next   *schema.Reference
	Near   *schema.Reference
	Far    *schema.Reference
	Eat    *schema.Reference
	Items  []*objectreg.Object // farmer, fox, chicken, grain
	States []*objectreg.Object // state0..state7
}

// BuildRiverCrossing declares the schema, forces fox.eat=chicken and
// chicken.eat=grain, chains state0..state7 via next, forces state0 fully
// near and state7 fully far (the partition invariant alone pins the
// opposite bank empty), and asserts the safety and per-step movement
// axioms across the whole chain.
func BuildRiverCrossing() (*RiverCrossing, error) {
	ctx := consolas.New(nil)

	state, err := ctx.DefineClass("State", nil, false)
	if err != nil {
		return nil, err
	}
	object, err := ctx.DefineClass("Object", nil, false)
	if err != nil {
		return nil, err
	}
	next := state.DefineReference(ctx.Schema, "next", state, false, false, "")
	near := state.DefineReference(ctx.Schema, "near", object, true, false, "")
	far := state.DefineReference(ctx.Schema, "far", object, true, false, "")
	eat := object.DefineReference(ctx.Schema, "eat", object, false, false, "")
	if err := ctx.Schema.Validate(); err != nil {
		return nil, err
	}

	items, err := ctx.DefineObjects([]string{"farmer", "fox", "chicken", "grain"}, object, false)
	if err != nil {
		return nil, err
	}
	farmer, fox, chicken, grain := items[0], items[1], items[2], items[3]

	states, err := ctx.DefineObjects(
		[]string{"state0", "state1", "state2", "state3", "state4", "state5", "state6", "state7"},
		state, false,
	)
	if err != nil {
		return nil, err
	}

	if err := fox.ForceObject("eat", chicken); err != nil {
		return nil, err
	}
	if err := chicken.ForceObject("eat", grain); err != nil {
		return nil, err
	}
	for i := 0; i < len(states)-1; i++ {
		if err := states[i].ForceObject("next", states[i+1]); err != nil {
			return nil, err
		}
	}
	if err := states[7].ForceValue("next", objectreg.ForcedValue{Literal: typeuniverse.Nil}); err != nil {
		return nil, err
	}
	if err := states[0].ForceSet("near", items); err != nil {
		return nil, err
	}
	if err := states[7].ForceSet("far", items); err != nil {
		return nil, err
	}

	allObjects := append(append([]*objectreg.Object{}, items...), states...)
	ctx.Solver = reference.New(riverDomain(allObjects, object, state))

	meta := []smt.Term{
		partitionInvariant(state, object, near, far),
		safetyAxiom(state, object, near, far, eat, farmer),
	}
	if err := ctx.Compile(meta, nil); err != nil {
		return nil, err
	}

	others := []*objectreg.Object{fox, chicken, grain}
	for i := 0; i < len(states)-1; i++ {
		ctx.Assert(movedFlag(near, far, states[i], states[i+1], farmer))
		ctx.Assert(atMostOneMoves(near, far, states[i], states[i+1], others))
	}

	return &RiverCrossing{
		Ctx: ctx, State: state, Object: object, Next: next, Near: near, Far: far, Eat: eat,
		Items: items, States: states,
	}, nil
}

// partitionInvariant pins "every object is on exactly one bank in every
// state": near and far never agree for any state/object pair.
func partitionInvariant(state, object *schema.Class, near, far *schema.Reference) smt.Term {
	s1 := smt.NewVar("s1", smt.InstSort)
	x1 := smt.NewVar("x1", smt.InstSort)
	return smt.ForAll{
		Bound: []smt.Var{s1, x1},
		Body: smt.Implies{
			Antecedent: smt.And{
				typeuniverse.IsInstance.Apply(s1, state.Const),
				typeuniverse.IsInstance.Apply(x1, object.Const),
			},
			Consequent: smt.Not{Operand: smt.Eq{
				Left:  near.Func().Apply(s1, x1),
				Right: far.Func().Apply(s1, x1),
			}},
		},
	}
}

// safetyAxiom is "no unsupervised predator/prey on a bank": whenever
// x.eat = y, x and y may never share a bank without the farmer also
// there, in any state.
func safetyAxiom(state, object *schema.Class, near, far, eat *schema.Reference, farmer *objectreg.Object) smt.Term {
	s1 := smt.NewVar("s1", smt.InstSort)
	x1 := smt.NewVar("x1", smt.InstSort)
	y1 := smt.NewVar("y1", smt.InstSort)

	unsupervised := func(side *schema.Reference) smt.Term {
		return smt.And{
			side.Func().Apply(s1, x1),
			side.Func().Apply(s1, y1),
			smt.Not{Operand: side.Func().Apply(s1, farmer.Const)},
		}
	}
	return smt.ForAll{
		Bound: []smt.Var{s1, x1, y1},
		Body: smt.Implies{
			Antecedent: smt.And{
				typeuniverse.IsInstance.Apply(s1, state.Const),
				typeuniverse.IsInstance.Apply(x1, object.Const),
				typeuniverse.IsInstance.Apply(y1, object.Const),
				smt.Eq{Left: eat.Func().Apply(x1), Right: y1},
			},
			Consequent: smt.Not{Operand: smt.Or{unsupervised(near), unsupervised(far)}},
		},
	}
}

// movedFlag says x switched banks between s and next — the crossing's
// one unit of movement.
func movedFlag(near, far *schema.Reference, s, next *objectreg.Object, x *objectreg.Object) smt.Term {
	return smt.Or{
		smt.And{near.Func().Apply(s.Const, x.Const), far.Func().Apply(next.Const, x.Const)},
		smt.And{far.Func().Apply(s.Const, x.Const), near.Func().Apply(next.Const, x.Const)},
	}
}

// atMostOneMoves is the transition axiom's second half: "at most one
// object besides the farmer" crosses in a single step.
func atMostOneMoves(near, far *schema.Reference, s, next *objectreg.Object, candidates []*objectreg.Object) smt.Term {
	terms := make(smt.Sum, len(candidates))
	for i, c := range candidates {
		terms[i] = smt.Ite{Cond: movedFlag(near, far, s, next, c), Then: smt.IntLit(1), Else: smt.IntLit(0)}
	}
	return smt.Leq{Left: terms, Right: smt.IntLit(1)}
}

func riverDomain(objects []*objectreg.Object, classes ...*schema.Class) map[string][]smt.Term {
	instDom := make([]smt.Term, 0, len(objects)+1)
	for _, o := range objects {
		instDom = append(instDom, o.Const)
	}
	instDom = append(instDom, typeuniverse.Nil)

	typeDom := make([]smt.Term, 0, len(classes)+1)
	for _, c := range classes {
		typeDom = append(typeDom, c.Const)
	}
	typeDom = append(typeDom, typeuniverse.NilType)

	return map[string][]smt.Term{
		smt.InstSort.Name: instDom,
		smt.TypeSort.Name: typeDom,
	}
}
