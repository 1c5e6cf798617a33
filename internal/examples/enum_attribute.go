package examples

import (
	"github.com/consolas-project/consolas/internal/objectreg"
	"github.com/consolas-project/consolas/internal/schema"
	"github.com/consolas-project/consolas/internal/smt"
	"github.com/consolas-project/consolas/internal/smt/reference"
	"github.com/consolas-project/consolas/internal/typeuniverse"

	"github.com/consolas-project/consolas"
)

// EnumAttribute is the scenario where an enum attribute
// drives a class-typing axiom rather than just a plain value constraint
// — Supervisor.color = red forces its deploy reference to an instance
// of LargeVm, exercising DataTerm equality against an enum literal and
// typeuniverse.IsInstance together in one axiom body.
type EnumAttribute struct {
	Ctx        *consolas.Context
	Supervisor *schema.Class
	VM         *schema.Class
	LargeVm    *schema.Class
	SmallVm    *schema.Class
	ColorSort  smt.Sort
	Color      *schema.Attribute
	Deploy     *schema.Reference
	Sv1        *objectreg.Object
	LargeVMObj *objectreg.Object
	SmallVMObj *objectreg.Object
}

// BuildEnumAttribute declares Supervisor{color, deploy}, a LargeVm/SmallVm
// hierarchy, forces sv1.color=red, asserts the axiom "color=red implies
// deploy is a LargeVm", and leaves sv1.deploy free among the two
// declared VMs — only lv1 (LargeVm) satisfies the axiom, so it is forced
// by implication rather than by a direct ForceObject.
func BuildEnumAttribute() (*EnumAttribute, error) {
	ctx := consolas.New(nil)

	colorSort, err := ctx.DefineEnum("Color", []string{"red", "green", "blue"})
	if err != nil {
		return nil, err
	}
	vm, err := ctx.DefineClass("VM", nil, true)
	if err != nil {
		return nil, err
	}
	largeVm, err := ctx.DefineClass("LargeVm", vm, false)
	if err != nil {
		return nil, err
	}
	smallVm, err := ctx.DefineClass("SmallVm", vm, false)
	if err != nil {
		return nil, err
	}
	supervisor, err := ctx.DefineClass("Supervisor", nil, false)
	if err != nil {
		return nil, err
	}
	color := supervisor.DefineAttribute(ctx.Schema, "color", colorSort, false)
	deploy := supervisor.DefineReference(ctx.Schema, "deploy", vm, false, true, "")
	if err := ctx.Schema.Validate(); err != nil {
		return nil, err
	}

	sv1, err := ctx.DefineObject("sv1", supervisor, false)
	if err != nil {
		return nil, err
	}
	if err := sv1.ForceLiteral("color", smt.EnumLit{EnumSort: colorSort, Value: "red"}); err != nil {
		return nil, err
	}
	lv1, err := ctx.DefineObject("lv1", largeVm, false)
	if err != nil {
		return nil, err
	}
	sv1Small, err := ctx.DefineObject("smallvm1", smallVm, false)
	if err != nil {
		return nil, err
	}

	objs := []*objectreg.Object{sv1, lv1, sv1Small}
	inst := make([]smt.Term, 0, len(objs)+1)
	for _, o := range objs {
		inst = append(inst, o.Const)
	}
	inst = append(inst, typeuniverse.Nil)
	typ := []smt.Term{vm.Const, largeVm.Const, smallVm.Const, supervisor.Const, typeuniverse.NilType}

	ctx.Solver = reference.New(map[string][]smt.Term{
		smt.InstSort.Name: inst,
		smt.TypeSort.Name: typ,
		colorSort.Name:    colorDomain(colorSort),
	})

	if err := ctx.Compile([]smt.Term{redImpliesLargeVm(supervisor, color, deploy, largeVm)}, nil); err != nil {
		return nil, err
	}

	return &EnumAttribute{
		Ctx: ctx, Supervisor: supervisor, VM: vm, LargeVm: largeVm, SmallVm: smallVm,
		ColorSort: colorSort, Color: color, Deploy: deploy,
		Sv1: sv1, LargeVMObj: lv1, SmallVMObj: sv1Small,
	}, nil
}

// redImpliesLargeVm is "a red supervisor must deploy to a LargeVm" —
// typeuniverse.IsInstance rather than IsSubtype, since LargeVm itself
// (not just a hypothetical subclass of it) must count as satisfying
// "is a LargeVm".
func redImpliesLargeVm(supervisor *schema.Class, color *schema.Attribute, deploy *schema.Reference, largeVm *schema.Class) smt.Term {
	s1 := smt.NewVar("s1", smt.InstSort)
	return smt.ForAll{
		Bound: []smt.Var{s1},
		Body: smt.Implies{
			Antecedent: smt.And{
				typeuniverse.IsInstance.Apply(s1, supervisor.Const),
				smt.Eq{Left: color.Func().Apply(s1), Right: smt.EnumLit{EnumSort: color.Sort, Value: "red"}},
			},
			Consequent: typeuniverse.IsInstance.Apply(deploy.Func().Apply(s1), largeVm.Const),
		},
	}
}

func colorDomain(sort smt.Sort) []smt.Term {
	out := make([]smt.Term, len(sort.Values))
	for i, v := range sort.Values {
		out[i] = smt.EnumLit{EnumSort: sort, Value: v}
	}
	return out
}
