package consolas

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/consolas-project/consolas/internal/compiler"
	"github.com/consolas-project/consolas/internal/smt"
	"github.com/consolas-project/consolas/internal/smt/reference"
	"github.com/consolas-project/consolas/internal/typeuniverse"
)

// newNodeCtx builds a one-class, two-object Context (Node{capacity}, n1,
// n2) wired to the reference engine, ready for Compile.
func newNodeCtx(t *testing.T) *Context {
	t.Helper()
	ctx := New(nil)
	node, err := ctx.DefineClass("Node", nil, false)
	if err != nil {
		t.Fatalf("DefineClass: %v", err)
	}
	node.DefineAttribute(ctx.Schema, "capacity", smt.IntSort, false)

	objs, err := ctx.DefineObjects([]string{"n1", "n2"}, node, false)
	if err != nil {
		t.Fatalf("DefineObjects: %v", err)
	}
	if err := objs[0].ForceLiteral("capacity", smt.IntLit(4)); err != nil {
		t.Fatalf("ForceLiteral: %v", err)
	}
	if err := objs[1].ForceLiteral("capacity", smt.IntLit(8)); err != nil {
		t.Fatalf("ForceLiteral: %v", err)
	}

	instDom := []smt.Term{objs[0].Const, objs[1].Const, typeuniverse.Nil}
	typeDom := []smt.Term{node.Const, typeuniverse.NilType}
	ctx.Solver = reference.New(map[string][]smt.Term{
		smt.InstSort.Name: instDom,
		smt.TypeSort.Name: typeDom,
	})
	return ctx
}

func TestUniverseBeforeCompileIsPremature(t *testing.T) {
	ctx := newNodeCtx(t)
	_, err := ctx.Universe()
	var pae *compiler.PrematureAggregationError
	if !errors.As(err, &pae) {
		t.Fatalf("expected *compiler.PrematureAggregationError, got %v", err)
	}
}

func TestCompileThenUniverseThenCheckSat(t *testing.T) {
	ctx := newNodeCtx(t)
	if err := ctx.Compile(nil, nil); err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if _, err := ctx.Universe(); err != nil {
		t.Fatalf("Universe after Compile: %v", err)
	}

	deadline, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	status, err := ctx.Check(deadline)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if status != smt.StatusSat {
		t.Fatalf("expected StatusSat, got %v", status)
	}
}

func TestDecodeAfterSatReflectsForcedValues(t *testing.T) {
	ctx := newNodeCtx(t)
	if err := ctx.Compile(nil, nil); err != nil {
		t.Fatalf("Compile: %v", err)
	}
	deadline, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	status, err := ctx.Check(deadline)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if status != smt.StatusSat {
		t.Fatalf("expected StatusSat, got %v", status)
	}

	decoded, err := ctx.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got := decoded["n1"].Features["capacity"]
	if got != smt.Term(smt.IntLit(4)) {
		t.Errorf("expected n1.capacity=4, got %v", got)
	}
}

func TestDecodeBeforeCheckErrorsWithNoModel(t *testing.T) {
	ctx := newNodeCtx(t)
	if err := ctx.Compile(nil, nil); err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if _, err := ctx.Decode(); err == nil {
		t.Error("expected Decode to fail before any Check call has produced a model")
	}
}

func TestPushPopDelegateToSolver(t *testing.T) {
	ctx := newNodeCtx(t)
	if err := ctx.Compile(nil, nil); err != nil {
		t.Fatalf("Compile: %v", err)
	}
	// Push/Pop must not panic and must leave the context usable afterward.
	ctx.Push()
	ctx.Assert(smt.BoolLit(true))
	ctx.Pop()

	deadline, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := ctx.Check(deadline); err != nil {
		t.Fatalf("Check after Push/Pop: %v", err)
	}
}
