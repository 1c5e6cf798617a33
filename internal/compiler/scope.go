package compiler

import (
	"fmt"
	"io"

	"github.com/consolas-project/consolas/internal/expr"
	"github.com/consolas-project/consolas/internal/objectreg"
	"github.com/consolas-project/consolas/internal/schema"
	"github.com/consolas-project/consolas/internal/smt"
)

type phase int

const (
	phasePending phase = iota
	phaseMetaDone
	phaseConfigDone
)

func (p phase) String() string {
	switch p {
	case phasePending:
		return "pending"
	case phaseMetaDone:
		return "meta"
	case phaseConfigDone:
		return "config"
	}
	return "unknown"
}

// Compiler drives a schema and an object registry through the ordered
// meta-facts -> config-facts -> aggregation-ready sequence against a
// single smt.Solver. It is the one place that owns the solver handle
// directly; everything upstream (schema, objectreg, expr) only ever
// builds terms.
type Compiler struct {
	Schema  *schema.Schema
	Objects *objectreg.Registry
	Solver  smt.Solver

	// Trace, when non-nil, receives one line per generated fact family —
	// opt-in diagnostics in place of a global logger.
	Trace io.Writer

	phase phase
}

func New(s *schema.Schema, objects *objectreg.Registry, solver smt.Solver) *Compiler {
	return &Compiler{Schema: s, Objects: objects, Solver: solver}
}

// AssertMeta asserts MetaFacts(c.Schema) plus any caller-supplied
// meta_facts(...), and must be called exactly once, before AssertConfig.
func (c *Compiler) AssertMeta(extra ...smt.Term) error {
	if c.phase != phasePending {
		return &OutOfOrderError{Attempted: "meta", Phase: c.phase.String()}
	}
	facts := MetaFacts(c.Schema)
	c.Solver.Add(facts...)
	c.Solver.Add(extra...)
	c.trace("meta: %d generated facts, %d user facts", len(facts), len(extra))
	c.phase = phaseMetaDone
	return nil
}

// AssertConfig asserts ConfigFacts(c.Objects.All()) plus any caller-
// supplied config_facts(...), and must be called exactly once, after
// AssertMeta.
func (c *Compiler) AssertConfig(extra ...smt.Term) error {
	if c.phase != phaseMetaDone {
		return &OutOfOrderError{Attempted: "config", Phase: c.phase.String()}
	}
	facts := ConfigFacts(c.Objects.All())
	c.Solver.Add(facts...)
	c.Solver.Add(extra...)
	c.trace("config: %d generated facts, %d user facts", len(facts), len(extra))
	c.phase = phaseConfigDone
	return nil
}

func (c *Compiler) trace(format string, args ...any) {
	if c.Trace == nil {
		return
	}
	fmt.Fprintf(c.Trace, format+"\n", args...)
}

// Finalize closes the object universe, returning the expr.Universe value
// that is the only way to reach Sum/Count — aggregation over an
// unfinished object list would be ill-defined. It is an ordering error
// to call this before AssertConfig.
func (c *Compiler) Finalize() (*expr.Universe, error) {
	if c.phase != phaseConfigDone {
		return nil, &PrematureAggregationError{}
	}
	return expr.NewUniverse(c.Objects.All()), nil
}
