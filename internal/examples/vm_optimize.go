package examples

import (
	"fmt"

	"github.com/consolas-project/consolas/internal/expr"
	"github.com/consolas-project/consolas/internal/objectreg"
	"github.com/consolas-project/consolas/internal/schema"
	"github.com/consolas-project/consolas/internal/smt"
	"github.com/consolas-project/consolas/internal/smt/reference"
	"github.com/consolas-project/consolas/internal/typeuniverse"

	"github.com/consolas-project/consolas"
)

// VMOptimize is the bin-packing scenario: an abstract VM class with
// LargeVm/SmallVm concrete subclasses, whose objects are declared
// suspended so the solver decides which ones actually exist, and a Container class that
// must be placed on some alive VM without exceeding its vmem. Minimizing
// total price over the alive VMs is the scenario's optimization
// objective; it is also this repository's end-to-end exercise of
// suspended-object semantics, since nothing about whether a suspended VM
// is alive is ever forced directly.
type VMOptimize struct {
	Ctx        *consolas.Context
	VM         *schema.Class
	LargeVm    *schema.Class
	SmallVm    *schema.Class
	Container  *schema.Class
	Vmem       *schema.Attribute
	Price      *schema.Attribute
	Mem        *schema.Attribute
	RunsOn     *schema.Reference
	LargeVMs   []*objectreg.Object
	SmallVMs   []*objectreg.Object
	Containers []*objectreg.Object
	Universe   *expr.Universe
}

// containerMem is each container's memory demand, tuned so the optimal
// placement (three small VMs alive, total price 12) is arithmetically
// exact under the per-VM capacity bound: five containers at demand 2
// total 10, which the three small VMs (vmem 4 each, 12 total) cover and
// two of them (8 total) do not.
const containerMem = 2

// BuildVMOptimize declares the five suspended VMs of the scenario — two
// LargeVm (vmem 16, price 20) and three SmallVm (vmem 4, price 4) — five
// live Containers each demanding containerMem, a per-VM capacity bound,
// and minimizes the summed price of whichever VMs end up alive.
func BuildVMOptimize() (*VMOptimize, error) {
	ctx := consolas.New(nil)

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
	container, err := ctx.DefineClass("Container", nil, false)
	if err != nil {
		return nil, err
	}

	vmem := vm.DefineAttribute(ctx.Schema, "vmem", smt.IntSort, false)
	price := vm.DefineAttribute(ctx.Schema, "price", smt.IntSort, false)
	mem := container.DefineAttribute(ctx.Schema, "mem", smt.IntSort, false)
	runsOn := container.DefineReference(ctx.Schema, "runsOn", vm, false, true, "")
	if err := ctx.Schema.Validate(); err != nil {
		return nil, err
	}

	v := &VMOptimize{
		Ctx: ctx, VM: vm, LargeVm: largeVm, SmallVm: smallVm, Container: container,
		Vmem: vmem, Price: price, Mem: mem, RunsOn: runsOn,
	}

	for i := 1; i <= 2; i++ {
		o, err := v.defineVM(largeVm, "large", i, 16, 20)
		if err != nil {
			return nil, err
		}
		v.LargeVMs = append(v.LargeVMs, o)
	}
	for i := 1; i <= 3; i++ {
		o, err := v.defineVM(smallVm, "small", i, 4, 4)
		if err != nil {
			return nil, err
		}
		v.SmallVMs = append(v.SmallVMs, o)
	}
	for i := 1; i <= 5; i++ {
		o, err := ctx.DefineObject(countedName("c", i), container, false)
		if err != nil {
			return nil, err
		}
		if err := o.ForceLiteral("mem", smt.IntLit(containerMem)); err != nil {
			return nil, err
		}
		v.Containers = append(v.Containers, o)
	}

	ctx.Solver = reference.New(v.domain())
	if err := ctx.Compile(nil, nil); err != nil {
		return nil, err
	}

	universe, err := ctx.Universe()
	if err != nil {
		return nil, err
	}
	v.Universe = universe

	for _, o := range append(append([]*objectreg.Object{}, v.LargeVMs...), v.SmallVMs...) {
		if err := v.assertCapacity(o); err != nil {
			return nil, err
		}
	}

	totalPrice, err := v.totalAlivePrice()
	if err != nil {
		return nil, err
	}
	ctx.Minimize(totalPrice)

	return v, nil
}

func (v *VMOptimize) defineVM(class *schema.Class, prefix string, i int, vmem, price int64) (*objectreg.Object, error) {
	o, err := v.Ctx.DefineObject(countedName(prefix, i), class, true)
	if err != nil {
		return nil, err
	}
	if err := o.ForceLiteral("vmem", smt.IntLit(vmem)); err != nil {
		return nil, err
	}
	if err := o.ForceLiteral("price", smt.IntLit(price)); err != nil {
		return nil, err
	}
	return o, nil
}

// assertCapacity is "this VM's vmem covers every container placed on
// it", built once per concrete VM object rather than as a single
// quantified fact, since Universe.Sum needs a concrete SetTerm to total.
func (v *VMOptimize) assertCapacity(vmObj *objectreg.Object) error {
	cVar, err := v.Ctx.ObjectVar(v.Container, "")
	if err != nil {
		return err
	}
	all := expr.AllInstances(v.Ctx.Vars, v.Container)
	onThisVM, err := all.Filter(cVar, smt.Eq{
		Left: v.RunsOn.Func().Apply(cVar.SmtVar()), Right: vmObj.Const,
	})
	if err != nil {
		return err
	}
	memOf, err := cVar.AsObjectTerm().Get(v.Ctx.Vars, "mem")
	if err != nil {
		return err
	}
	mapped, err := onThisVM.Map(cVar, memOf.(expr.DataTerm))
	if err != nil {
		return err
	}
	load, err := v.Universe.Sum(mapped)
	if err != nil {
		return err
	}
	v.Ctx.Assert(smt.Leq{Left: load, Right: v.Vmem.Func().Apply(vmObj.Const)})
	return nil
}

// totalAlivePrice sums price over every alive VM — AllInstances already
// guards on alive(), so a dead suspended VM never contributes to the
// objective.
func (v *VMOptimize) totalAlivePrice() (smt.Term, error) {
	vVar, err := v.Ctx.ObjectVar(v.VM, "")
	if err != nil {
		return nil, err
	}
	aliveVMs := expr.AllInstances(v.Ctx.Vars, v.VM)
	priceOf, err := vVar.AsObjectTerm().Get(v.Ctx.Vars, "price")
	if err != nil {
		return nil, err
	}
	priced, err := aliveVMs.Map(vVar, priceOf.(expr.DataTerm))
	if err != nil {
		return nil, err
	}
	return v.Universe.Sum(priced)
}

func (v *VMOptimize) domain() map[string][]smt.Term {
	inst := make([]smt.Term, 0, len(v.LargeVMs)+len(v.SmallVMs)+len(v.Containers)+1)
	for _, o := range v.LargeVMs {
		inst = append(inst, o.Const)
	}
	for _, o := range v.SmallVMs {
		inst = append(inst, o.Const)
	}
	for _, o := range v.Containers {
		inst = append(inst, o.Const)
	}
	inst = append(inst, typeuniverse.Nil)

	typ := []smt.Term{v.VM.Const, v.LargeVm.Const, v.SmallVm.Const, v.Container.Const, typeuniverse.NilType}

	return map[string][]smt.Term{
		smt.InstSort.Name: inst,
		smt.TypeSort.Name: typ,
	}
}

func countedName(prefix string, i int) string {
	return fmt.Sprintf("%s%d", prefix, i)
}
