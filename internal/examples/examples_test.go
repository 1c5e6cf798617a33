package examples

import (
	"context"
	"testing"

	"github.com/consolas-project/consolas/internal/config"
	"github.com/consolas-project/consolas/internal/objectreg"
	"github.com/consolas-project/consolas/internal/smt"
)

// checkStatus compiles-and-checks a scenario whose Ctx is already built,
// against a bounded deadline — every scenario here runs against the
// brute-force reference engine over a small finite domain, so it should
// resolve quickly.
func checkStatus(t *testing.T, ctx interface {
	Check(context.Context, ...smt.Assumption) (smt.Status, error)
}) smt.Status {
	t.Helper()
	deadline, cancel := context.WithTimeout(context.Background(), config.DefaultCheckTimeout)
	defer cancel()
	status, err := ctx.Check(deadline)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	return status
}

func TestRiverCrossingReachesFarBankInSevenSteps(t *testing.T) {
	rc, err := BuildRiverCrossing()
	if err != nil {
		t.Fatalf("BuildRiverCrossing: %v", err)
	}
	if got := checkStatus(t, rc.Ctx); got != smt.StatusSat {
		t.Fatalf("expected StatusSat, got %v", got)
	}
	decoded, err := rc.Ctx.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	state0, state7 := decoded["state0"], decoded["state7"]
	for _, item := range []string{"farmer", "fox", "chicken", "grain"} {
		near0 := memberNames(state0.Features["near"])
		far7 := memberNames(state7.Features["far"])
		if !near0[item] {
			t.Errorf("expected %s in state0.near, got %v", item, near0)
		}
		if !far7[item] {
			t.Errorf("expected %s in state7.far, got %v", item, far7)
		}
	}
	if next, ok := state7.Features["next"].(*objectreg.Object); !ok || next != nil {
		t.Errorf("expected state7.next = nil, got %v", state7.Features["next"])
	}

	// every state of the chain, intermediate ones included, must decode as
	// alive; the near/far partition and the predator/prey safety rule are
	// enforced by the compiled axioms and are not re-checked here.
	for i := 0; i <= 7; i++ {
		name := stateName(i)
		s := decoded[name]
		if !s.Alive {
			t.Fatalf("expected %s alive, got dead", name)
		}
	}
}

func memberNames(v any) map[string]bool {
	out := map[string]bool{}
	objs, _ := v.([]*objectreg.Object)
	for _, o := range objs {
		out[o.Name] = true
	}
	return out
}

func stateName(i int) string {
	return []string{"state0", "state1", "state2", "state3", "state4", "state5", "state6", "state7"}[i]
}

func TestSwarmSimpleColocatesOnVM1(t *testing.T) {
	s, err := BuildSwarmSimple()
	if err != nil {
		t.Fatalf("BuildSwarmSimple: %v", err)
	}
	if got := checkStatus(t, s.Ctx); got != smt.StatusSat {
		t.Fatalf("expected StatusSat, got %v", got)
	}
	decoded, err := s.Ctx.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	db, wordpress := decoded["db"], decoded["wordpress"]
	dbNode, ok := db.Features["deploy"].(*objectreg.Object)
	if !ok || dbNode == nil || dbNode.Name != "vm1" {
		t.Fatalf("expected db.deploy = vm1, got %v", db.Features["deploy"])
	}
	wpNode, ok := wordpress.Features["deploy"].(*objectreg.Object)
	if !ok || wpNode == nil || wpNode.Name != "vm1" {
		t.Fatalf("expected wordpress.deploy = vm1, got %v", wordpress.Features["deploy"])
	}
}

func TestSwarmConflictIsUnsatisfiableWithAllThreeLabelsInCore(t *testing.T) {
	s, err := BuildSwarmConflict()
	if err != nil {
		t.Fatalf("BuildSwarmConflict: %v", err)
	}
	deadline, cancel := context.WithTimeout(context.Background(), config.DefaultCheckTimeout)
	defer cancel()
	assumptions := s.ConflictAssumptions()
	status, err := s.Ctx.Check(deadline, assumptions...)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if status != smt.StatusUnsat {
		t.Fatalf("expected StatusUnsat, got %v", status)
	}

	core := s.Ctx.UnsatCore()
	seen := map[string]bool{}
	for _, l := range core {
		seen[l] = true
	}
	for _, a := range assumptions {
		if !seen[a.Label] {
			t.Errorf("expected label %q in unsat core, got %v", a.Label, core)
		}
	}
}

func TestConstantPropositionDistinguishesAlwaysFromSometimes(t *testing.T) {
	cp, err := BuildConstantPropositionScenario()
	if err != nil {
		t.Fatalf("BuildConstantPropositionScenario: %v", err)
	}
	deadline, cancel := context.WithTimeout(context.Background(), config.DefaultCheckTimeout)
	defer cancel()

	constant, err := cp.Ctx.CheckConstant(deadline, cp.WordpressEqualsDB)
	if err != nil {
		t.Fatalf("CheckConstant(wordpress.deploy=db.deploy): %v", err)
	}
	if !constant {
		t.Error("expected wordpress.deploy=db.deploy to be constant (true in every model)")
	}

	constant, err = cp.Ctx.CheckConstant(deadline, cp.WordpressEqualsVM2)
	if err != nil {
		t.Fatalf("CheckConstant(wordpress.deploy=vm2): %v", err)
	}
	if constant {
		t.Error("expected wordpress.deploy=vm2 to not be constant")
	}

	// CheckConstant leaves the context in a Sat, decodable state: the
	// model witnessing the negation it explored.
	decoded, err := cp.Ctx.Decode()
	if err != nil {
		t.Fatalf("Decode after CheckConstant: %v", err)
	}
	wpNode, ok := decoded["wordpress"].Features["deploy"].(*objectreg.Object)
	if !ok || wpNode == nil || wpNode.Name != "vm1" {
		t.Errorf("expected witnessing model to still have wordpress.deploy = vm1, got %v", decoded["wordpress"].Features["deploy"])
	}
}

func TestVMOptimizeMinimizesToThreeSmallVMs(t *testing.T) {
	v, err := BuildVMOptimize()
	if err != nil {
		t.Fatalf("BuildVMOptimize: %v", err)
	}
	if got := checkStatus(t, v.Ctx); got != smt.StatusSat {
		t.Fatalf("expected StatusSat, got %v", got)
	}
	decoded, err := v.Ctx.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	var aliveSmall, aliveLarge int
	var totalPrice int64
	for _, o := range v.SmallVMs {
		if decoded[o.Name].Alive {
			aliveSmall++
			totalPrice += int64(decoded[o.Name].Features["price"].(smt.IntLit))
		}
	}
	for _, o := range v.LargeVMs {
		if decoded[o.Name].Alive {
			aliveLarge++
			totalPrice += int64(decoded[o.Name].Features["price"].(smt.IntLit))
		}
	}
	if aliveSmall != 3 {
		t.Errorf("expected exactly 3 small VMs alive, got %d", aliveSmall)
	}
	if aliveLarge != 0 {
		t.Errorf("expected 0 large VMs alive, got %d", aliveLarge)
	}
	if totalPrice != 12 {
		t.Errorf("expected total price 12, got %d", totalPrice)
	}

	for _, o := range v.Containers {
		dc, ok := decoded[o.Name].Features["runsOn"].(*objectreg.Object)
		if !ok || dc == nil {
			t.Errorf("expected %s.runsOn to be a live VM, got %v", o.Name, decoded[o.Name].Features["runsOn"])
			continue
		}
		if !decoded[dc.Name].Alive {
			t.Errorf("expected %s.runsOn (%s) to be alive", o.Name, dc.Name)
		}
	}
}

func TestEnumAttributeForcesLargeVmDeployment(t *testing.T) {
	e, err := BuildEnumAttribute()
	if err != nil {
		t.Fatalf("BuildEnumAttribute: %v", err)
	}
	if got := checkStatus(t, e.Ctx); got != smt.StatusSat {
		t.Fatalf("expected StatusSat, got %v", got)
	}
	decoded, err := e.Ctx.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	sv1Deploy, ok := decoded["sv1"].Features["deploy"].(*objectreg.Object)
	if !ok || sv1Deploy == nil {
		t.Fatalf("expected sv1.deploy to be set, got %v", decoded["sv1"].Features["deploy"])
	}
	if !sv1Deploy.Class.IsSubclassOf(e.LargeVm) && sv1Deploy.Class != e.LargeVm {
		t.Errorf("expected sv1.deploy's actual class to be LargeVm (or a subtype), got %s", sv1Deploy.Class.Name)
	}
	if decoded[sv1Deploy.Name].ActualClass != e.LargeVm {
		t.Errorf("expected sv1.deploy's decoded actual type to be LargeVm, got %s", decoded[sv1Deploy.Name].ActualClass.Name)
	}
}
