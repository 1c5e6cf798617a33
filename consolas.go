// Package consolas is an object-oriented modeling front end for SMT
// solving: declare classes, attributes, references and enumerations,
// declare a closed universe of objects, build expression-algebra
// constraints over them, and dispatch the whole thing to an external
// SMT solver. A *Context is the one stateful value the public API
// exposes — there is no package-level mutable registry, and "reset" is
// simply dropping the Context.
package consolas

import (
	"context"
	"fmt"
	"io"

	"github.com/consolas-project/consolas/internal/compiler"
	"github.com/consolas-project/consolas/internal/decode"
	"github.com/consolas-project/consolas/internal/expr"
	"github.com/consolas-project/consolas/internal/objectreg"
	"github.com/consolas-project/consolas/internal/schema"
	"github.com/consolas-project/consolas/internal/smt"
)

// Context owns one schema, one object registry, one variable pool and
// one solver handle. Nothing in this package is reachable except through
// a Context value.
type Context struct {
	Schema  *schema.Schema
	Objects *objectreg.Registry
	Vars    *expr.VarPool
	Solver  smt.Solver

	// Trace, when non-nil, receives one diagnostic line per fact family
	// Compile generates.
	Trace io.Writer

	compiler *compiler.Compiler
	universe *expr.Universe
}

// New builds an empty Context around solver. solver is typically
// internal/smt/reference.New(...) for tests and small examples, or a
// production SMT binding for real use — Consolas never constructs one
// itself; the engine is an externally supplied oracle.
func New(solver smt.Solver) *Context {
	return &Context{
		Schema:  schema.New(),
		Objects: objectreg.New(),
		Vars:    expr.NewVarPool(),
		Solver:  solver,
	}
}

// LoadSchema replaces c.Schema with one parsed from a YAML schema
// document. It must be called before any
// objects are declared or expressions built against c.Schema.
func (c *Context) LoadSchema(data []byte) error {
	s, err := schema.LoadYAML(data)
	if err != nil {
		return err
	}
	c.Schema = s
	return nil
}

// DefineClass declares a new class.
func (c *Context) DefineClass(name string, supertype *schema.Class, abstract bool) (*schema.Class, error) {
	return c.Schema.DefineClass(name, supertype, abstract)
}

// DefineEnum declares an enumeration sort.
func (c *Context) DefineEnum(name string, values []string) (smt.Sort, error) {
	return c.Schema.DefineEnum(name, values)
}

// DefineObject declares a new object of class.
func (c *Context) DefineObject(name string, class *schema.Class, suspended bool) (*objectreg.Object, error) {
	return c.Objects.DefineObject(name, class, suspended)
}

// DefineObjects declares several objects of the same class at once.
func (c *Context) DefineObjects(names []string, class *schema.Class, suspended bool) ([]*objectreg.Object, error) {
	return c.Objects.DefineObjects(names, class, suspended)
}

// ObjectVar declares a fresh object-typed variable, for use in a
// forall/exists body or a standalone constraint.
func (c *Context) ObjectVar(class *schema.Class, id string) (expr.Var, error) {
	return c.Vars.ObjectVar(class, id)
}

// DataVar declares a fresh primitive/enum-typed variable.
func (c *Context) DataVar(sort smt.Sort, id string) (expr.Var, error) {
	return c.Vars.DataVar(sort, id)
}

// ObjectVars declares several fresh object-typed variables at once.
func (c *Context) ObjectVars(class *schema.Class, ids []string) ([]expr.Var, error) {
	return c.Vars.ObjectVars(class, ids)
}

// DataVars declares several fresh primitive/enum-typed variables at once.
func (c *Context) DataVars(sort smt.Sort, ids []string) ([]expr.Var, error) {
	return c.Vars.DataVars(sort, ids)
}

// ClassForceValue builds a class-wide forced-value fact: every live
// instance of class has featureName equal to value. The caller still has
// to Assert the result, same as any other standalone constraint.
func (c *Context) ClassForceValue(class *schema.Class, featureName string, value expr.Termer) (smt.Term, error) {
	return expr.ClassForceValue(c.Vars, class, featureName, value)
}

// AllInstances builds the set of every instance of class.
func (c *Context) AllInstances(class *schema.Class) *expr.SetTerm {
	return expr.AllInstances(c.Vars, class)
}

// Object views a declared object as an ObjectTerm, ready for feature
// access and quantifier bodies.
func Object(o *objectreg.Object) expr.ObjectTerm {
	return expr.ObjectTerm{Term: o.Const, Class: o.Class}
}

// DistinctConsts asserts that every listed term is pairwise distinct from
// every other.
func DistinctConsts(terms ...expr.Termer) smt.Term {
	return expr.DistinctConsts(terms...)
}

// Compile asserts the meta-fact layer (type universe, feature typing,
// opposite pairing, plus any caller-supplied metaFacts), then the
// config-fact layer (object closure, forced values, plus any
// caller-supplied configFacts), then closes the object universe. It must
// be called exactly once, after every class/object/force-value
// declaration and before Check.
func (c *Context) Compile(metaFacts, configFacts []smt.Term) error {
	c.compiler = compiler.New(c.Schema, c.Objects, c.Solver)
	c.compiler.Trace = c.Trace
	if err := c.compiler.AssertMeta(metaFacts...); err != nil {
		return err
	}
	if err := c.compiler.AssertConfig(configFacts...); err != nil {
		return err
	}
	universe, err := c.compiler.Finalize()
	if err != nil {
		return err
	}
	c.universe = universe
	return nil
}

// Universe returns the aggregation-capable view obtained by Compile. It
// is an ordering error (compiler.PrematureAggregationError) to call Sum
// or Count before Compile has run.
func (c *Context) Universe() (*expr.Universe, error) {
	if c.universe == nil {
		return nil, &compiler.PrematureAggregationError{}
	}
	return c.universe, nil
}

// Assert adds a standalone constraint, in addition to the compiled meta
// and config facts.
func (c *Context) Assert(formulas ...smt.Term) { c.Solver.Add(formulas...) }

// Push/Pop delegate to the solver's scope stack: a caller can explore
// several alternative constraint sets against the same compiled
// meta/config facts without recompiling them.
func (c *Context) Push() { c.Solver.Push() }
func (c *Context) Pop()  { c.Solver.Pop() }

// Maximize/Minimize register an optimization objective for the next
// Check call.
func (c *Context) Maximize(objective smt.Term) { c.Solver.Maximize(objective) }
func (c *Context) Minimize(objective smt.Term) { c.Solver.Minimize(objective) }

// Check dispatches to the solver, which may block for unbounded time;
// ctx is the only cancellation handle.
func (c *Context) Check(ctx context.Context, assumptions ...smt.Assumption) (smt.Status, error) {
	return c.Solver.Check(ctx, assumptions...)
}

// UnsatCore returns the labels of the assumptions that made the last
// Check call unsatisfiable.
func (c *Context) UnsatCore() []string { return c.Solver.UnsatCore() }

// CheckConstant reports whether proposition holds in every model
// reachable from c's current assertion stack: it pushes a scope, asserts
// the negation of proposition, and checks — an Unsat result means no
// counterexample exists, so proposition is constant; Sat means the model just found is
// itself a witness against it. c's scope is always restored before
// returning, regardless of outcome.
func (c *Context) CheckConstant(ctx context.Context, proposition smt.Term) (bool, error) {
	c.Push()
	defer c.Pop()
	c.Assert(smt.Not{Operand: proposition})
	status, err := c.Check(ctx)
	if err != nil {
		return false, err
	}
	return status == smt.StatusUnsat, nil
}

// Decode reads every declared object's alive/actual-type/feature values
// back from the solver's current model. Only meaningful immediately
// after a Check call returned smt.StatusSat.
func (c *Context) Decode() (map[string]*decode.DecodedObject, error) {
	model := c.Solver.Model()
	if model == nil {
		return nil, fmt.Errorf("consolas: no model available (did Check return StatusSat?)")
	}
	return decode.All(model, c.Schema, c.Objects)
}
