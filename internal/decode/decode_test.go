package decode

import (
	"errors"
	"testing"

	"github.com/consolas-project/consolas/internal/objectreg"
	"github.com/consolas-project/consolas/internal/schema"
	"github.com/consolas-project/consolas/internal/smt"
	"github.com/consolas-project/consolas/internal/typeuniverse"
)

// fakeModel evaluates ground terms by string-keyed lookup, standing in
// for a real solver's Model() during decode tests.
type fakeModel struct {
	values map[string]smt.Term
}

func newFakeModel() *fakeModel { return &fakeModel{values: map[string]smt.Term{}} }

func (m *fakeModel) set(t smt.Term, v smt.Term) { m.values[t.String()] = v }

func (m *fakeModel) Eval(t smt.Term) smt.Term {
	if v, ok := m.values[t.String()]; ok {
		return v
	}
	return smt.BoolLit(false)
}

func TestDecodeSkipsDeadObject(t *testing.T) {
	s := schema.New()
	node, _ := s.DefineClass("Node", nil, false)
	reg := objectreg.New()
	n1, _ := reg.DefineObject("n1", node, true)

	model := newFakeModel()
	model.set(typeuniverse.Alive.Apply(n1.Const), smt.BoolLit(false))

	decoded, err := All(model, s, reg)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	d := decoded["n1"]
	if d.Alive {
		t.Error("expected dead object to decode Alive=false")
	}
	if d.Features != nil {
		t.Error("expected a dead object's Features to be nil")
	}
}

func TestDecodeSingleValuedAttribute(t *testing.T) {
	s := schema.New()
	node, _ := s.DefineClass("Node", nil, false)
	cap := node.DefineAttribute(s, "capacity", smt.IntSort, false)
	reg := objectreg.New()
	n1, _ := reg.DefineObject("n1", node, false)

	model := newFakeModel()
	model.set(typeuniverse.Alive.Apply(n1.Const), smt.BoolLit(true))
	model.set(typeuniverse.ActualType.Apply(n1.Const), node.Const)
	model.set(cap.Func().Apply(n1.Const), smt.IntLit(10))

	decoded, err := All(model, s, reg)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	got := decoded["n1"].Features["capacity"]
	if got != smt.Term(smt.IntLit(10)) {
		t.Errorf("expected capacity=10, got %v", got)
	}
}

func TestDecodeSingleValuedReferenceNilSentinel(t *testing.T) {
	s := schema.New()
	node, _ := s.DefineClass("Node", nil, false)
	svc, _ := s.DefineClass("Service", nil, false)
	ref := svc.DefineReference(s, "placedOn", node, false, false, "")
	reg := objectreg.New()
	s1, _ := reg.DefineObject("s1", svc, false)

	model := newFakeModel()
	model.set(typeuniverse.Alive.Apply(s1.Const), smt.BoolLit(true))
	model.set(typeuniverse.ActualType.Apply(s1.Const), svc.Const)
	model.set(ref.Func().Apply(s1.Const), typeuniverse.Nil)

	decoded, err := All(model, s, reg)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	got := decoded["s1"].Features["placedOn"]
	if got.(*objectreg.Object) != nil {
		t.Errorf("expected nil placedOn, got %v", got)
	}
}

func TestDecodeSingleValuedReferenceDanglingIsAnError(t *testing.T) {
	s := schema.New()
	node, _ := s.DefineClass("Node", nil, false)
	svc, _ := s.DefineClass("Service", nil, false)
	ref := svc.DefineReference(s, "placedOn", node, false, false, "")
	reg := objectreg.New()
	s1, _ := reg.DefineObject("s1", svc, false)

	model := newFakeModel()
	model.set(typeuniverse.Alive.Apply(s1.Const), smt.BoolLit(true))
	model.set(typeuniverse.ActualType.Apply(s1.Const), svc.Const)
	model.set(ref.Func().Apply(s1.Const), smt.NewConst("ghost", smt.InstSort))

	_, err := All(model, s, reg)
	var dre *DanglingReferenceError
	if !errors.As(err, &dre) {
		t.Fatalf("expected *DanglingReferenceError, got %v", err)
	}
}

func TestDecodeMultiValuedReference(t *testing.T) {
	s := schema.New()
	node, _ := s.DefineClass("Node", nil, false)
	svc, _ := s.DefineClass("Service", nil, false)
	runs := node.DefineReference(s, "runs", svc, true, false, "")
	reg := objectreg.New()
	n1, _ := reg.DefineObject("n1", node, false)
	s1, _ := reg.DefineObject("s1", svc, false)
	s2, _ := reg.DefineObject("s2", svc, false)

	model := newFakeModel()
	model.set(typeuniverse.Alive.Apply(n1.Const), smt.BoolLit(true))
	model.set(typeuniverse.ActualType.Apply(n1.Const), node.Const)
	model.set(runs.Func().Apply(n1.Const, s1.Const), smt.BoolLit(true))
	model.set(runs.Func().Apply(n1.Const, s2.Const), smt.BoolLit(false))

	decoded, err := All(model, s, reg)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	got := decoded["n1"].Features["runs"].([]*objectreg.Object)
	if len(got) != 1 || got[0] != s1 {
		t.Errorf("expected [s1], got %v", got)
	}
}

func TestDecodeMultiValuedNonEnumAttributeIsUnbounded(t *testing.T) {
	s := schema.New()
	node, _ := s.DefineClass("Node", nil, false)
	node.DefineAttribute(s, "scores", smt.IntSort, true)
	reg := objectreg.New()
	n1, _ := reg.DefineObject("n1", node, false)

	model := newFakeModel()
	model.set(typeuniverse.Alive.Apply(n1.Const), smt.BoolLit(true))
	model.set(typeuniverse.ActualType.Apply(n1.Const), node.Const)

	_, err := All(model, s, reg)
	var ude *UnboundedDomainError
	if !errors.As(err, &ude) {
		t.Fatalf("expected *UnboundedDomainError, got %v", err)
	}
}

func TestDecodeMultiValuedEnumAttribute(t *testing.T) {
	s := schema.New()
	color, _ := s.DefineEnum("Color", []string{"red", "green", "blue"})
	node, _ := s.DefineClass("Light", nil, false)
	attr := node.DefineAttribute(s, "colors", color, true)
	reg := objectreg.New()
	n1, _ := reg.DefineObject("n1", node, false)

	model := newFakeModel()
	model.set(typeuniverse.Alive.Apply(n1.Const), smt.BoolLit(true))
	model.set(typeuniverse.ActualType.Apply(n1.Const), node.Const)
	model.set(attr.Func().Apply(n1.Const, smt.EnumLit{EnumSort: color, Value: "green"}), smt.BoolLit(true))

	decoded, err := All(model, s, reg)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	got := decoded["n1"].Features["colors"].([]smt.Term)
	if len(got) != 1 || got[0].(smt.EnumLit).Value != "green" {
		t.Errorf("expected [green], got %v", got)
	}
}

func TestDecodeFallsBackToDeclaredClassWhenActualTypeUnrecognized(t *testing.T) {
	s := schema.New()
	node, _ := s.DefineClass("Node", nil, false)
	reg := objectreg.New()
	n1, _ := reg.DefineObject("n1", node, false)

	model := newFakeModel()
	model.set(typeuniverse.Alive.Apply(n1.Const), smt.BoolLit(true))
	// No actual_type entry set — Eval falls back to BoolLit(false), which
	// matches no declared class, so decode should fall back to n1.Class.

	decoded, err := All(model, s, reg)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if decoded["n1"].ActualClass != node {
		t.Errorf("expected fallback to declared class Node, got %v", decoded["n1"].ActualClass)
	}
}
