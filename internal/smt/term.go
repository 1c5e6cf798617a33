package smt

import (
	"fmt"
	"strings"
)

// Term is an SMT term: a well-sorted node in the formula tree built by the
// expression algebra and the constraint compiler. Terms are values — no
// node mutates another once constructed.
type Term interface {
	Sort() Sort
	String() string
	isTerm()
}

// leaf node shared by Const and Var: a named, sorted symbol with no
// subterms. Var additionally marks the symbol as a quantifier-bindable
// placeholder; Const is a free constant (a declared object, class, or
// user-declared variable already fixed to some value).
type symbol struct {
	sort Sort
	name string
}

func (s symbol) Sort() Sort   { return s.sort }
func (s symbol) String() string { return s.name }
func (symbol) isTerm()        {}

// Const declares a free SMT constant of the given sort — used for class
// constants (sort Type), object constants (sort Inst), and primitive
// user variables.
type Const struct{ symbol }

func NewConst(name string, sort Sort) Const { return Const{symbol{sort, name}} }

// Var is a name bound by an enclosing ForAll/Exists. It prints the same as
// a Const but is kept as a distinct Go type so the compiler can tell bound
// occurrences from free ones when building quantifier bodies.
type Var struct{ symbol }

func NewVar(name string, sort Sort) Var { return Var{symbol{sort, name}} }

// BoolLit and IntLit are primitive literals.
type BoolLit bool

func (BoolLit) Sort() Sort      { return BoolSort }
func (b BoolLit) String() string { return fmt.Sprintf("%t", bool(b)) }
func (BoolLit) isTerm()         {}

type IntLit int64

func (IntLit) Sort() Sort      { return IntSort }
func (i IntLit) String() string { return fmt.Sprintf("%d", int64(i)) }
func (IntLit) isTerm()         {}

// EnumLit is one tagged value of an enum sort, e.g. Color!red.
type EnumLit struct {
	EnumSort Sort
	Value    string
}

func (e EnumLit) Sort() Sort      { return e.EnumSort }
func (e EnumLit) String() string  { return e.EnumSort.Name + "!" + e.Value }
func (EnumLit) isTerm()           {}

// Func is an uninterpreted function symbol: Inst -> D (single-valued
// attribute), Inst -> Inst (single-valued reference), Inst x D -> Bool
// (multi-valued attribute), or Inst x Inst -> Bool (multi-valued
// reference), plus the handful of fixed meta-model functions (super,
// actual_type, is_subtype, is_instance, alive, is_abstract).
type Func struct {
	Name   string
	Domain []Sort
	Range  Sort
}

// Apply builds a function-application term. Arity is checked by the
// caller; schema/compiler code always builds Func values with the right
// domain length before calling Apply, so this stays a value-producing
// constructor rather than an error-returning one.
func (f Func) Apply(args ...Term) App {
	return App{Fn: f, Args: args}
}

type App struct {
	Fn   Func
	Args []Term
}

func (a App) Sort() Sort { return a.Fn.Range }
func (a App) String() string {
	parts := make([]string, len(a.Args))
	for i, arg := range a.Args {
		parts[i] = arg.String()
	}
	return fmt.Sprintf("%s(%s)", a.Fn.Name, strings.Join(parts, ", "))
}
func (App) isTerm() {}

// Eq is equality between two same-sorted terms.
type Eq struct{ Left, Right Term }

func (Eq) Sort() Sort        { return BoolSort }
func (e Eq) String() string  { return fmt.Sprintf("(%s = %s)", e.Left, e.Right) }
func (Eq) isTerm()           {}

// Leq is integer less-than-or-equal, the one arithmetic comparison the
// expression algebra needs for capacity-style constraints.
type Leq struct{ Left, Right Term }

func (Leq) Sort() Sort       { return BoolSort }
func (l Leq) String() string { return fmt.Sprintf("(<= %s %s)", l.Left, l.Right) }
func (Leq) isTerm()          {}

type Not struct{ Operand Term }

func (Not) Sort() Sort       { return BoolSort }
func (n Not) String() string { return fmt.Sprintf("(not %s)", n.Operand) }
func (Not) isTerm()          {}

type And []Term

func (And) Sort() Sort { return BoolSort }
func (a And) String() string {
	return "(and " + joinTerms(a) + ")"
}
func (And) isTerm() {}

type Or []Term

func (Or) Sort() Sort { return BoolSort }
func (o Or) String() string {
	return "(or " + joinTerms(o) + ")"
}
func (Or) isTerm() {}

type Implies struct{ Antecedent, Consequent Term }

func (Implies) Sort() Sort { return BoolSort }
func (i Implies) String() string {
	return fmt.Sprintf("(=> %s %s)", i.Antecedent, i.Consequent)
}
func (Implies) isTerm() {}

// Ite is the polymorphic if-then-else used by sum/count desugaring.
type Ite struct {
	Cond        Term
	Then, Else Term
}

func (i Ite) Sort() Sort { return i.Then.Sort() }
func (i Ite) String() string {
	return fmt.Sprintf("(ite %s %s %s)", i.Cond, i.Then, i.Else)
}
func (Ite) isTerm() {}

// Distinct asserts pairwise inequality over terms of one sort — used for
// both the Type-sort class distinctness axiom and the Inst-sort object
// distinctness fact.
type Distinct []Term

func (Distinct) Sort() Sort { return BoolSort }
func (d Distinct) String() string {
	return "(distinct " + joinTerms(d) + ")"
}
func (Distinct) isTerm() {}

// Sum is integer addition over a (typically large, statically-sized) list
// of Int-sorted terms — the desugared form of expr.Universe.Sum/Count.
type Sum []Term

func (Sum) Sort() Sort { return IntSort }
func (s Sum) String() string {
	return "(+ " + joinTerms(s) + ")"
}
func (Sum) isTerm() {}

// ForAll and Exists bind one or more Vars over a Bool-sorted body.
type ForAll struct {
	Bound []Var
	Body  Term
}

func (ForAll) Sort() Sort { return BoolSort }
func (q ForAll) String() string {
	return fmt.Sprintf("(forall %s %s)", varNames(q.Bound), q.Body)
}
func (ForAll) isTerm() {}

type Exists struct {
	Bound []Var
	Body  Term
}

func (Exists) Sort() Sort { return BoolSort }
func (q Exists) String() string {
	return fmt.Sprintf("(exists %s %s)", varNames(q.Bound), q.Body)
}
func (Exists) isTerm() {}

func joinTerms(ts []Term) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

func varNames(vs []Var) string {
	names := make([]string, len(vs))
	for i, v := range vs {
		names[i] = v.String()
	}
	return "(" + strings.Join(names, " ") + ")"
}

// Substitute performs a simultaneous, capture-free substitution of bound
// variables by terms throughout t. Because every Var name is globally
// unique (enforced at declaration time by expr.NewVarPool), substitution
// never needs alpha-renaming: a bound variable occurrence can only be the
// one intended by the caller.
func Substitute(t Term, bindings map[string]Term) Term {
	switch n := t.(type) {
	case Var:
		if repl, ok := bindings[n.name]; ok {
			return repl
		}
		return n
	case Const:
		return n
	case BoolLit, IntLit, EnumLit:
		return n
	case App:
		args := make([]Term, len(n.Args))
		for i, a := range n.Args {
			args[i] = Substitute(a, bindings)
		}
		return App{Fn: n.Fn, Args: args}
	case Eq:
		return Eq{Substitute(n.Left, bindings), Substitute(n.Right, bindings)}
	case Leq:
		return Leq{Substitute(n.Left, bindings), Substitute(n.Right, bindings)}
	case Not:
		return Not{Substitute(n.Operand, bindings)}
	case And:
		return substituteList[And](n, bindings)
	case Or:
		return substituteList[Or](n, bindings)
	case Distinct:
		return substituteList[Distinct](n, bindings)
	case Sum:
		return substituteList[Sum](n, bindings)
	case Implies:
		return Implies{Substitute(n.Antecedent, bindings), Substitute(n.Consequent, bindings)}
	case Ite:
		return Ite{Substitute(n.Cond, bindings), Substitute(n.Then, bindings), Substitute(n.Else, bindings)}
	case ForAll:
		return ForAll{Bound: n.Bound, Body: Substitute(n.Body, bindings)}
	case Exists:
		return Exists{Bound: n.Bound, Body: Substitute(n.Body, bindings)}
	default:
		return t
	}
}

func substituteList[T ~[]Term](ts []Term, bindings map[string]Term) T {
	out := make(T, len(ts))
	for i, t := range ts {
		out[i] = Substitute(t, bindings)
	}
	return out
}
