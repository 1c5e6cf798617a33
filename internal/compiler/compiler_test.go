package compiler

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/consolas-project/consolas/internal/objectreg"
	"github.com/consolas-project/consolas/internal/schema"
	"github.com/consolas-project/consolas/internal/smt"
)

// recordingSolver is a bare-bones smt.Solver that only records asserted
// formulas, for tests that exercise the compiler's phase ordering
// without needing a real solving engine.
type recordingSolver struct {
	asserted []smt.Term
}

func (r *recordingSolver) Add(formulas ...smt.Term)                                { r.asserted = append(r.asserted, formulas...) }
func (r *recordingSolver) Check(context.Context, ...smt.Assumption) (smt.Status, error) {
	return smt.StatusSat, nil
}
func (r *recordingSolver) Model() smt.Model      { return nil }
func (r *recordingSolver) UnsatCore() []string   { return nil }
func (r *recordingSolver) Push()                 {}
func (r *recordingSolver) Pop()                  {}
func (r *recordingSolver) Maximize(smt.Term)     {}
func (r *recordingSolver) Minimize(smt.Term)     {}

func setup(t *testing.T) (*schema.Schema, *objectreg.Registry, *schema.Class) {
	t.Helper()
	s := schema.New()
	node, err := s.DefineClass("Node", nil, false)
	if err != nil {
		t.Fatalf("DefineClass: %v", err)
	}
	return s, objectreg.New(), node
}

func TestAssertConfigBeforeMetaIsOutOfOrder(t *testing.T) {
	s, reg, _ := setup(t)
	c := New(s, reg, &recordingSolver{})
	err := c.AssertConfig()
	var ooe *OutOfOrderError
	if !errors.As(err, &ooe) {
		t.Fatalf("expected *OutOfOrderError, got %v", err)
	}
}

func TestFinalizeBeforeConfigIsPremature(t *testing.T) {
	s, reg, _ := setup(t)
	c := New(s, reg, &recordingSolver{})
	if err := c.AssertMeta(); err != nil {
		t.Fatalf("AssertMeta: %v", err)
	}
	_, err := c.Finalize()
	var pae *PrematureAggregationError
	if !errors.As(err, &pae) {
		t.Fatalf("expected *PrematureAggregationError, got %v", err)
	}
}

func TestHappyPathOrderingSucceeds(t *testing.T) {
	s, reg, node := setup(t)
	solver := &recordingSolver{}
	c := New(s, reg, solver)
	if _, err := reg.DefineObject("n1", node, false); err != nil {
		t.Fatalf("DefineObject: %v", err)
	}

	if err := c.AssertMeta(); err != nil {
		t.Fatalf("AssertMeta: %v", err)
	}
	if err := c.AssertConfig(); err != nil {
		t.Fatalf("AssertConfig: %v", err)
	}
	universe, err := c.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if universe == nil {
		t.Fatal("expected a non-nil Universe")
	}
	if len(solver.asserted) == 0 {
		t.Error("expected meta and config facts to have been asserted")
	}
}

func TestDoubleAssertMetaIsOutOfOrder(t *testing.T) {
	s, reg, _ := setup(t)
	c := New(s, reg, &recordingSolver{})
	if err := c.AssertMeta(); err != nil {
		t.Fatalf("AssertMeta: %v", err)
	}
	err := c.AssertMeta()
	var ooe *OutOfOrderError
	if !errors.As(err, &ooe) {
		t.Fatalf("expected *OutOfOrderError on repeated AssertMeta, got %v", err)
	}
}

func TestResolveObjectRefsErrorsOnUndeclaredName(t *testing.T) {
	_, reg, node := setup(t)
	if _, err := reg.DefineObject("n1", node, false); err != nil {
		t.Fatalf("DefineObject: %v", err)
	}
	_, err := ResolveObjectRefs(reg, []string{"n1", "ghost"})
	var uoe *UndeclaredObjectError
	if !errors.As(err, &uoe) {
		t.Fatalf("expected *UndeclaredObjectError, got %v", err)
	}
}

func TestOppositeFactsEmittedOncePerPair(t *testing.T) {
	s := schema.New()
	person, _ := s.DefineClass("Person", nil, false)
	company, _ := s.DefineClass("Company", nil, false)
	person.DefineReference(s, "worksAt", company, false, false, "employees")
	company.DefineReference(s, "employees", person, true, false, "worksAt")

	facts := oppositeFacts(s)
	if len(facts) != 1 {
		t.Fatalf("expected exactly one opposite-symmetry fact, got %d", len(facts))
	}
}

func TestFeatureTypingFactsAddsMandatoryNonNilAxiom(t *testing.T) {
	s := schema.New()
	node, _ := s.DefineClass("Node", nil, false)
	svc, _ := s.DefineClass("Service", nil, false)
	svc.DefineReference(s, "placedOn", node, false, true, "")

	facts := featureTypingFacts(s)
	// One well-typedness ForAll plus one mandatory-non-nil ForAll.
	if len(facts) != 2 {
		t.Fatalf("expected 2 facts for one mandatory single-valued reference, got %d", len(facts))
	}
}

func TestFeatureTypingFactsBoundMultiValuedReferenceBothSides(t *testing.T) {
	s := schema.New()
	node, _ := s.DefineClass("Node", nil, false)
	svc, _ := s.DefineClass("Service", nil, false)
	node.DefineReference(s, "runs", svc, true, false, "")

	facts := featureTypingFacts(s)
	// One target-side well-typedness ForAll plus one owner-side emptiness
	// ForAll.
	if len(facts) != 2 {
		t.Fatalf("expected 2 facts for one multi-valued reference, got %d", len(facts))
	}
}

func TestTraceReceivesOneLinePerFactFamily(t *testing.T) {
	s, reg, node := setup(t)
	if _, err := reg.DefineObject("n1", node, false); err != nil {
		t.Fatalf("DefineObject: %v", err)
	}
	var buf bytes.Buffer
	c := New(s, reg, &recordingSolver{})
	c.Trace = &buf
	if err := c.AssertMeta(); err != nil {
		t.Fatalf("AssertMeta: %v", err)
	}
	if err := c.AssertConfig(); err != nil {
		t.Fatalf("AssertConfig: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected one trace line per phase, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[0], "meta:") || !strings.HasPrefix(lines[1], "config:") {
		t.Errorf("expected meta then config trace lines, got %q", lines)
	}
}

func TestConfigFactsForcesActualTypeAndAliveness(t *testing.T) {
	s, reg, node := setup(t)
	o, err := reg.DefineObject("n1", node, false)
	if err != nil {
		t.Fatalf("DefineObject: %v", err)
	}
	facts := ConfigFacts(reg.All())
	var sawActualType, sawAlive bool
	for _, f := range facts {
		if eq, ok := f.(smt.Eq); ok {
			if app, ok := eq.Left.(smt.App); ok && app.Fn.Name == "actual_type" {
				sawActualType = true
			}
		}
		if app, ok := f.(smt.App); ok && app.Fn.Name == "alive" {
			sawAlive = true
		}
	}
	if !sawActualType {
		t.Error("expected an actual_type fact for the declared object")
	}
	if !sawAlive {
		t.Error("expected an alive fact for a non-suspended object")
	}
	_ = s
	_ = o
}

func TestConfigFactsOmitsAlivenessForSuspendedObject(t *testing.T) {
	s, reg, node := setup(t)
	if _, err := reg.DefineObject("n1", node, true); err != nil {
		t.Fatalf("DefineObject: %v", err)
	}
	facts := ConfigFacts(reg.All())
	for _, f := range facts {
		if app, ok := f.(smt.App); ok && app.Fn.Name == "alive" {
			t.Error("expected no alive fact for a suspended object")
		}
	}
	_ = s
}
