// Package reference is a finite-domain solver used only by this
// repository's own tests and bundled example scenarios. It is not a
// production SMT engine — it grounds every quantifier by enumeration over
// caller-supplied finite domains, then runs a propagate-and-backtrack
// search over the resulting ground atoms. Consolas's actual solver facade
// (internal/smt.Solver) is meant to be backed by a real engine, supplied
// by the caller. This package exists so the modeling layer's own test
// suite can assert end-to-end behavior without one.
//
// Limitations, acceptable for that role: integer-valued atoms range only
// over the integer literals appearing in the problem; optimization is
// branch-and-bound over a single direction per objective side (minimize
// objectives are optimized first, then maximize objectives with the
// minimum pinned); the unsat core is every tracked assumption, not a
// minimal subset.
package reference

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/consolas-project/consolas/internal/config"
	"github.com/consolas-project/consolas/internal/smt"
)

// Engine implements smt.Solver by grounding and search over explicit
// finite domains, one per uninterpreted or enum sort in play.
type Engine struct {
	domains map[string][]smt.Term
	scopes  [][]smt.Term // scopes[0] is the base (un-popable) scope
	maxObj  []smt.Term
	minObj  []smt.Term

	lastStatus smt.Status
	lastModel  *model
	lastCore   []string
}

// New creates an Engine. domains maps a sort name (Sort.Name) to the
// finite list of ground terms that sort ranges over — e.g. every declared
// class constant plus NilType for the Type sort, or every declared object
// constant plus nil for the Inst sort. Int needs no entry: integer-valued
// atoms range over the integer literals found in the asserted formulas.
func New(domains map[string][]smt.Term) *Engine {
	return &Engine{
		domains: domains,
		scopes:  [][]smt.Term{{}},
	}
}

func (e *Engine) Add(formulas ...smt.Term) {
	top := len(e.scopes) - 1
	e.scopes[top] = append(e.scopes[top], formulas...)
}

func (e *Engine) Push() { e.scopes = append(e.scopes, nil) }

func (e *Engine) Pop() {
	if len(e.scopes) == 1 {
		return
	}
	e.scopes = e.scopes[:len(e.scopes)-1]
}

func (e *Engine) Maximize(objective smt.Term) { e.maxObj = append(e.maxObj, objective) }
func (e *Engine) Minimize(objective smt.Term) { e.minObj = append(e.minObj, objective) }

func (e *Engine) allAsserted() []smt.Term {
	var all []smt.Term
	for _, scope := range e.scopes {
		all = append(all, scope...)
	}
	return all
}

// Check grounds every quantifier in the asserted formulas plus the given
// assumptions against e.domains, then searches for an assignment to the
// finite set of resulting ground atoms that satisfies everything. With an
// objective registered, a satisfying assignment is improved by
// branch-and-bound until no strictly better one exists.
func (e *Engine) Check(ctx context.Context, assumptions ...smt.Assumption) (smt.Status, error) {
	formulas := e.allAsserted()
	labels := make([]string, 0, len(assumptions))
	for _, a := range assumptions {
		formulas = append(formulas, a.Formula)
		labels = append(labels, a.Label)
	}

	grounded := make([]smt.Term, len(formulas))
	for i, f := range formulas {
		g, err := ground(f, e.domains)
		if err != nil {
			return smt.StatusUnknown, err
		}
		grounded[i] = g
	}
	conjuncts := flatten(grounded)

	objectives, err := e.groundObjectives()
	if err != nil {
		return smt.StatusUnknown, err
	}

	found, ok, err := runSearch(ctx, conjuncts, objectives, e.domains)
	if err != nil {
		return smt.StatusUnknown, err
	}
	if err := ctx.Err(); err != nil {
		return smt.StatusUnknown, err
	}
	if !ok {
		e.lastStatus = smt.StatusUnsat
		e.lastModel = nil
		e.lastCore = labels // a brute-force core: every tracked assumption participated
		return smt.StatusUnsat, nil
	}

	if len(e.maxObj) > 0 || len(e.minObj) > 0 {
		found = e.improve(ctx, conjuncts, objectives, found)
	}

	e.lastStatus = smt.StatusSat
	e.lastModel = &model{assignment: found}
	return smt.StatusSat, nil
}

func (e *Engine) Model() smt.Model {
	if e.lastModel == nil {
		return nil
	}
	return e.lastModel
}

func (e *Engine) UnsatCore() []string { return e.lastCore }

func (e *Engine) groundObjectives() ([]smt.Term, error) {
	raw := append(append([]smt.Term{}, e.minObj...), e.maxObj...)
	out := make([]smt.Term, len(raw))
	for i, o := range raw {
		g, err := ground(o, e.domains)
		if err != nil {
			return nil, err
		}
		out[i] = g
	}
	return out, nil
}

// improve runs branch-and-bound: minimize objectives first (summed when
// several are registered), then maximize objectives with the achieved
// minimum pinned. Each round adds a strict-improvement bound and
// re-searches; the loop ends when the bounded problem goes unsat.
func (e *Engine) improve(ctx context.Context, conjuncts, objectives []smt.Term, base map[string]smt.Term) map[string]smt.Term {
	best := base
	var bounds []smt.Term

	if minTerm := combineObjectives(e.minObj, e.domains); minTerm != nil {
		for round := 0; round < config.MaxOptimizeRounds; round++ {
			score, ok := evalInt(minTerm, best)
			if !ok {
				break
			}
			bounded := append(append(append([]smt.Term{}, conjuncts...), bounds...),
				smt.Leq{Left: minTerm, Right: smt.IntLit(score - 1)})
			cand, sat, err := runSearch(ctx, bounded, objectives, e.domains)
			if err != nil || !sat {
				break
			}
			best = cand
		}
		if score, ok := evalInt(minTerm, best); ok {
			bounds = append(bounds, smt.Leq{Left: minTerm, Right: smt.IntLit(score)})
		}
	}

	if maxTerm := combineObjectives(e.maxObj, e.domains); maxTerm != nil {
		for round := 0; round < config.MaxOptimizeRounds; round++ {
			score, ok := evalInt(maxTerm, best)
			if !ok {
				break
			}
			bounded := append(append(append([]smt.Term{}, conjuncts...), bounds...),
				smt.Leq{Left: smt.IntLit(score + 1), Right: maxTerm})
			cand, sat, err := runSearch(ctx, bounded, objectives, e.domains)
			if err != nil || !sat {
				break
			}
			best = cand
		}
	}
	return best
}

func combineObjectives(objs []smt.Term, domains map[string][]smt.Term) smt.Term {
	switch len(objs) {
	case 0:
		return nil
	case 1:
		g, err := ground(objs[0], domains)
		if err != nil {
			return nil
		}
		return g
	default:
		g, err := ground(smt.Sum(objs), domains)
		if err != nil {
			return nil
		}
		return g
	}
}

func evalInt(t smt.Term, assignment map[string]smt.Term) (int64, bool) {
	v, ok := evalPartial(t, assignment)
	if !ok {
		return 0, false
	}
	i, ok := v.(smt.IntLit)
	return int64(i), ok
}

// model is a satisfying ground assignment. Eval resolves nested
// applications through the assignment; an atom the search never saw
// evaluates to nil.
type model struct {
	assignment map[string]smt.Term
}

func (m *model) Eval(t smt.Term) smt.Term {
	v, ok := evalPartial(t, m.assignment)
	if !ok {
		return nil
	}
	return v
}

// ground expands every ForAll/Exists whose bound sort has a registered
// finite domain into an And/Or over substituted copies of the body.
func ground(t smt.Term, domains map[string][]smt.Term) (smt.Term, error) {
	switch n := t.(type) {
	case smt.ForAll:
		parts, err := groundQuantifier(n.Bound, n.Body, domains)
		if err != nil {
			return nil, err
		}
		return smt.And(parts), nil
	case smt.Exists:
		parts, err := groundQuantifier(n.Bound, n.Body, domains)
		if err != nil {
			return nil, err
		}
		return smt.Or(parts), nil
	case smt.And:
		return mapGround[smt.And](n, domains)
	case smt.Or:
		return mapGround[smt.Or](n, domains)
	case smt.Distinct:
		return mapGround[smt.Distinct](n, domains)
	case smt.Sum:
		return mapGround[smt.Sum](n, domains)
	case smt.Not:
		inner, err := ground(n.Operand, domains)
		if err != nil {
			return nil, err
		}
		return smt.Not{Operand: inner}, nil
	case smt.Implies:
		a, err := ground(n.Antecedent, domains)
		if err != nil {
			return nil, err
		}
		c, err := ground(n.Consequent, domains)
		if err != nil {
			return nil, err
		}
		return smt.Implies{Antecedent: a, Consequent: c}, nil
	case smt.Eq:
		l, err := ground(n.Left, domains)
		if err != nil {
			return nil, err
		}
		r, err := ground(n.Right, domains)
		if err != nil {
			return nil, err
		}
		return smt.Eq{Left: l, Right: r}, nil
	case smt.Leq:
		l, err := ground(n.Left, domains)
		if err != nil {
			return nil, err
		}
		r, err := ground(n.Right, domains)
		if err != nil {
			return nil, err
		}
		return smt.Leq{Left: l, Right: r}, nil
	case smt.Ite:
		c, err := ground(n.Cond, domains)
		if err != nil {
			return nil, err
		}
		th, err := ground(n.Then, domains)
		if err != nil {
			return nil, err
		}
		el, err := ground(n.Else, domains)
		if err != nil {
			return nil, err
		}
		return smt.Ite{Cond: c, Then: th, Else: el}, nil
	case smt.App:
		args := make([]smt.Term, len(n.Args))
		for i, a := range n.Args {
			g, err := ground(a, domains)
			if err != nil {
				return nil, err
			}
			args[i] = g
		}
		return smt.App{Fn: n.Fn, Args: args}, nil
	default:
		return t, nil
	}
}

func mapGround[T ~[]smt.Term](ts []smt.Term, domains map[string][]smt.Term) (T, error) {
	out := make(T, len(ts))
	for i, t := range ts {
		g, err := ground(t, domains)
		if err != nil {
			return nil, err
		}
		out[i] = g
	}
	return out, nil
}

func groundQuantifier(bound []smt.Var, body smt.Term, domains map[string][]smt.Term) ([]smt.Term, error) {
	combos := [][]smt.Term{{}}
	for _, v := range bound {
		dom, ok := domains[v.Sort().Name]
		if !ok {
			return nil, fmt.Errorf("reference solver: no finite domain registered for sort %q", v.Sort().Name)
		}
		var next [][]smt.Term
		for _, combo := range combos {
			for _, val := range dom {
				c := append(append([]smt.Term{}, combo...), val)
				next = append(next, c)
			}
		}
		combos = next
	}

	out := make([]smt.Term, 0, len(combos))
	for _, combo := range combos {
		bindings := make(map[string]smt.Term, len(bound))
		for i, v := range bound {
			bindings[v.String()] = combo[i]
		}
		instBody := smt.Substitute(body, bindings)
		g, err := ground(instBody, domains)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

// flatten splits nested conjunctions into individual conjuncts, so
// propagation can treat each as a unit that must hold on its own.
func flatten(ts []smt.Term) []smt.Term {
	var out []smt.Term
	var add func(t smt.Term)
	add = func(t smt.Term) {
		if and, ok := t.(smt.And); ok {
			for _, x := range and {
				add(x)
			}
			return
		}
		out = append(out, t)
	}
	for _, t := range ts {
		add(t)
	}
	return out
}

// atom is one ground decision point: a function application whose
// arguments contain no further applications, together with the candidate
// values search ranges over. Applications with nested applications in
// argument position (e.g. is_instance(deploy(x), C)) are not atoms
// themselves — evalPartial resolves their arguments first and looks the
// resolved application up, which always lands on a collected atom because
// the meta-model axioms ground every predicate over the full domain.
type atom struct {
	key     string
	sortKey string
	term    smt.App
	domain  []smt.Term
}

// runSearch builds a fresh searcher over conjuncts and solves it. The
// objectives only contribute atoms (so branch-and-bound bounds can be
// evaluated); they impose no constraint of their own.
func runSearch(ctx context.Context, conjuncts, objectives []smt.Term, domains map[string][]smt.Term) (map[string]smt.Term, bool, error) {
	s, err := newSearcher(conjuncts, objectives, domains)
	if err != nil {
		return nil, false, err
	}
	return s.solve(ctx)
}

type searcher struct {
	conjuncts  []smt.Term
	atoms      []atom
	atomIndex  map[string]int
	watch      map[string][]int // atom key -> indices of conjuncts mentioning it
	conjAtoms  [][]string       // conjunct index -> atom keys it mentions
	assignment map[string]smt.Term
}

func newSearcher(conjuncts, objectives []smt.Term, domains map[string][]smt.Term) (*searcher, error) {
	intLits := collectIntLits(append(append([]smt.Term{}, conjuncts...), objectives...))
	atoms, err := collectAtoms(append(append([]smt.Term{}, conjuncts...), objectives...), domains, intLits)
	if err != nil {
		return nil, err
	}

	s := &searcher{
		conjuncts:  conjuncts,
		atoms:      atoms,
		atomIndex:  make(map[string]int, len(atoms)),
		watch:      map[string][]int{},
		conjAtoms:  make([][]string, len(conjuncts)),
		assignment: map[string]smt.Term{},
	}
	for i, a := range atoms {
		s.atomIndex[a.key] = i
	}
	for ci, c := range conjuncts {
		keys := atomKeys(c)
		s.conjAtoms[ci] = keys
		for _, k := range keys {
			s.watch[k] = append(s.watch[k], ci)
		}
	}
	return s, nil
}

func (s *searcher) solve(ctx context.Context) (map[string]smt.Term, bool, error) {
	var trail []string
	all := make([]int, len(s.conjuncts))
	for i := range all {
		all[i] = i
	}
	if !s.propagate(all, &trail) {
		return nil, false, nil
	}
	if !s.dfs(ctx, 0) {
		return nil, false, ctx.Err()
	}
	out := make(map[string]smt.Term, len(s.assignment))
	for k, v := range s.assignment {
		out[k] = v
	}
	return out, true, nil
}

// dfs assigns the remaining atoms in order, propagating after each pick
// and backtracking chronologically on conflict.
func (s *searcher) dfs(ctx context.Context, from int) bool {
	if ctx.Err() != nil {
		return false
	}
	i := from
	for i < len(s.atoms) {
		if _, done := s.assignment[s.atoms[i].key]; !done {
			break
		}
		i++
	}
	if i == len(s.atoms) {
		return s.verify()
	}

	a := s.atoms[i]
	for _, cand := range a.domain {
		var trail []string
		s.assign(a.key, cand, &trail)
		queue := append([]int{}, s.watch[a.key]...)
		if s.propagate(queue, &trail) && s.dfs(ctx, i+1) {
			return true
		}
		s.undo(trail)
	}
	return false
}

// verify re-checks every conjunct under the full assignment; any conjunct
// that fails to resolve to true rejects the candidate.
func (s *searcher) verify() bool {
	for _, c := range s.conjuncts {
		v, ok := evalPartial(c, s.assignment)
		if !ok {
			return false
		}
		b, ok := v.(smt.BoolLit)
		if !ok || !bool(b) {
			return false
		}
	}
	return true
}

func (s *searcher) assign(key string, val smt.Term, trail *[]string) {
	s.assignment[key] = val
	*trail = append(*trail, key)
}

func (s *searcher) undo(trail []string) {
	for _, k := range trail {
		delete(s.assignment, k)
	}
}

// propagate drains the queue of conjunct indices, rejecting on any
// conjunct that is determined false and applying a generalized unit rule
// otherwise: an unassigned atom of an undetermined conjunct whose
// candidate values all but one falsify the conjunct is forced to the one
// surviving value. Forced assignments re-queue the conjuncts watching
// that atom.
func (s *searcher) propagate(queue []int, trail *[]string) bool {
	for qi := 0; qi < len(queue); qi++ {
		c := s.conjuncts[queue[qi]]
		v, det := evalPartial(c, s.assignment)
		if det {
			if b, ok := v.(smt.BoolLit); !ok || !bool(b) {
				return false
			}
			continue
		}
		for _, key := range s.conjAtoms[queue[qi]] {
			if _, assigned := s.assignment[key]; assigned {
				continue
			}
			a := s.atoms[s.atomIndex[key]]
			var feasible []smt.Term
			for _, cand := range a.domain {
				s.assignment[key] = cand
				cv, cdet := evalPartial(c, s.assignment)
				delete(s.assignment, key)
				if cdet {
					if b, ok := cv.(smt.BoolLit); ok && !bool(b) {
						continue
					}
				}
				feasible = append(feasible, cand)
				if len(feasible) > 1 {
					break
				}
			}
			if len(feasible) == 0 {
				return false
			}
			if len(feasible) == 1 {
				s.assign(key, feasible[0], trail)
				queue = append(queue, s.watch[key]...)
			}
		}
	}
	return true
}

// collectAtoms walks quantifier-free, grounded formulas and returns the
// deduplicated atoms, ordered by their argument strings so that atoms
// sharing leading arguments (e.g. the per-state facts of a transition
// chain) are explored consecutively.
func collectAtoms(formulas []smt.Term, domains map[string][]smt.Term, intLits []smt.Term) ([]atom, error) {
	seen := map[string]atom{}
	var firstErr error
	var walk func(t smt.Term)
	walk = func(t smt.Term) {
		switch n := t.(type) {
		case smt.App:
			for _, a := range n.Args {
				walk(a)
			}
			if containsApp(n.Args...) {
				return
			}
			key := n.String()
			if _, ok := seen[key]; ok {
				return
			}
			dom, err := atomDomain(n.Fn, domains, intLits)
			if err != nil && firstErr == nil {
				firstErr = err
			}
			seen[key] = atom{key: key, sortKey: atomSortKey(n), term: n, domain: dom}
		case smt.And:
			for _, x := range n {
				walk(x)
			}
		case smt.Or:
			for _, x := range n {
				walk(x)
			}
		case smt.Distinct:
			for _, x := range n {
				walk(x)
			}
		case smt.Sum:
			for _, x := range n {
				walk(x)
			}
		case smt.Not:
			walk(n.Operand)
		case smt.Implies:
			walk(n.Antecedent)
			walk(n.Consequent)
		case smt.Eq:
			walk(n.Left)
			walk(n.Right)
		case smt.Leq:
			walk(n.Left)
			walk(n.Right)
		case smt.Ite:
			walk(n.Cond)
			walk(n.Then)
			walk(n.Else)
		}
	}
	for _, f := range formulas {
		walk(f)
	}
	if firstErr != nil {
		return nil, firstErr
	}

	out := make([]atom, 0, len(seen))
	for _, a := range seen {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].sortKey < out[j].sortKey })
	return out, nil
}

func containsApp(ts ...smt.Term) bool {
	for _, t := range ts {
		if _, ok := t.(smt.App); ok {
			return true
		}
	}
	return false
}

func atomDomain(fn smt.Func, domains map[string][]smt.Term, intLits []smt.Term) ([]smt.Term, error) {
	switch {
	case fn.Range.Equal(smt.BoolSort):
		return []smt.Term{smt.BoolLit(true), smt.BoolLit(false)}, nil
	case fn.Range.Equal(smt.IntSort):
		return intLits, nil
	}
	dom, ok := domains[fn.Range.Name]
	if !ok {
		return nil, fmt.Errorf("reference solver: no finite domain registered for sort %q", fn.Range.Name)
	}
	return dom, nil
}

// atomSortKey orders atoms by arguments first, function name second, so
// facts about the same individuals cluster together in the search order.
func atomSortKey(a smt.App) string {
	parts := make([]string, 0, len(a.Args)+1)
	for _, arg := range a.Args {
		parts = append(parts, arg.String())
	}
	parts = append(parts, a.Fn.Name)
	return strings.Join(parts, "\x00")
}

// atomKeys lists the atom keys a single conjunct mentions.
func atomKeys(t smt.Term) []string {
	seen := map[string]bool{}
	var keys []string
	var walk func(t smt.Term)
	walk = func(t smt.Term) {
		switch n := t.(type) {
		case smt.App:
			for _, a := range n.Args {
				walk(a)
			}
			if containsApp(n.Args...) {
				return
			}
			if key := n.String(); !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		case smt.And:
			for _, x := range n {
				walk(x)
			}
		case smt.Or:
			for _, x := range n {
				walk(x)
			}
		case smt.Distinct:
			for _, x := range n {
				walk(x)
			}
		case smt.Sum:
			for _, x := range n {
				walk(x)
			}
		case smt.Not:
			walk(n.Operand)
		case smt.Implies:
			walk(n.Antecedent)
			walk(n.Consequent)
		case smt.Eq:
			walk(n.Left)
			walk(n.Right)
		case smt.Leq:
			walk(n.Left)
			walk(n.Right)
		case smt.Ite:
			walk(n.Cond)
			walk(n.Then)
			walk(n.Else)
		}
	}
	walk(t)
	return keys
}

func collectIntLits(formulas []smt.Term) []smt.Term {
	seen := map[int64]bool{}
	var walk func(t smt.Term)
	walk = func(t smt.Term) {
		switch n := t.(type) {
		case smt.IntLit:
			seen[int64(n)] = true
		case smt.App:
			for _, a := range n.Args {
				walk(a)
			}
		case smt.And:
			for _, x := range n {
				walk(x)
			}
		case smt.Or:
			for _, x := range n {
				walk(x)
			}
		case smt.Distinct:
			for _, x := range n {
				walk(x)
			}
		case smt.Sum:
			for _, x := range n {
				walk(x)
			}
		case smt.Not:
			walk(n.Operand)
		case smt.Implies:
			walk(n.Antecedent)
			walk(n.Consequent)
		case smt.Eq:
			walk(n.Left)
			walk(n.Right)
		case smt.Leq:
			walk(n.Left)
			walk(n.Right)
		case smt.Ite:
			walk(n.Cond)
			walk(n.Then)
			walk(n.Else)
		}
	}
	for _, f := range formulas {
		walk(f)
	}

	vals := make([]int64, 0, len(seen))
	for v := range seen {
		vals = append(vals, v)
	}
	sort.Slice(vals, func(i, j int) bool { return vals[i] < vals[j] })
	out := make([]smt.Term, len(vals))
	for i, v := range vals {
		out[i] = smt.IntLit(v)
	}
	return out
}

// evalPartial evaluates a ground (no free Vars) term to a literal under a
// possibly partial atom assignment, three-valued: ok is false when the
// result is not yet determined. Applications resolve their arguments
// first, so nested applications evaluate through the atoms they bottom
// out in.
func evalPartial(t smt.Term, assignment map[string]smt.Term) (smt.Term, bool) {
	switch n := t.(type) {
	case smt.BoolLit, smt.IntLit, smt.EnumLit, smt.Const:
		return n, true
	case smt.App:
		args := make([]smt.Term, len(n.Args))
		for i, a := range n.Args {
			v, ok := evalPartial(a, assignment)
			if !ok {
				return nil, false
			}
			args[i] = v
		}
		if v, ok := assignment[(smt.App{Fn: n.Fn, Args: args}).String()]; ok {
			return v, true
		}
		return nil, false
	case smt.Eq:
		l, ok1 := evalPartial(n.Left, assignment)
		r, ok2 := evalPartial(n.Right, assignment)
		if !ok1 || !ok2 {
			return nil, false
		}
		return smt.BoolLit(termsEqual(l, r)), true
	case smt.Leq:
		l, ok1 := evalPartial(n.Left, assignment)
		r, ok2 := evalPartial(n.Right, assignment)
		if !ok1 || !ok2 {
			return nil, false
		}
		li, ok1 := l.(smt.IntLit)
		ri, ok2 := r.(smt.IntLit)
		if !ok1 || !ok2 {
			return nil, false
		}
		return smt.BoolLit(li <= ri), true
	case smt.Not:
		v, ok := evalPartial(n.Operand, assignment)
		if !ok {
			return nil, false
		}
		b, ok := v.(smt.BoolLit)
		if !ok {
			return nil, false
		}
		return smt.BoolLit(!bool(b)), true
	case smt.And:
		unknown := false
		for _, x := range n {
			v, ok := evalPartial(x, assignment)
			if !ok {
				unknown = true
				continue
			}
			if b, ok := v.(smt.BoolLit); ok && !bool(b) {
				return smt.BoolLit(false), true
			}
		}
		if unknown {
			return nil, false
		}
		return smt.BoolLit(true), true
	case smt.Or:
		unknown := false
		for _, x := range n {
			v, ok := evalPartial(x, assignment)
			if !ok {
				unknown = true
				continue
			}
			if b, ok := v.(smt.BoolLit); ok && bool(b) {
				return smt.BoolLit(true), true
			}
		}
		if unknown {
			return nil, false
		}
		return smt.BoolLit(false), true
	case smt.Implies:
		a, aok := evalPartial(n.Antecedent, assignment)
		if aok {
			if b, ok := a.(smt.BoolLit); ok && !bool(b) {
				return smt.BoolLit(true), true
			}
		}
		c, cok := evalPartial(n.Consequent, assignment)
		if cok {
			if b, ok := c.(smt.BoolLit); ok && bool(b) {
				return smt.BoolLit(true), true
			}
		}
		if !aok || !cok {
			return nil, false
		}
		return smt.BoolLit(false), true
	case smt.Ite:
		c, ok := evalPartial(n.Cond, assignment)
		if !ok {
			return nil, false
		}
		b, ok := c.(smt.BoolLit)
		if !ok {
			return nil, false
		}
		if bool(b) {
			return evalPartial(n.Then, assignment)
		}
		return evalPartial(n.Else, assignment)
	case smt.Distinct:
		vals := make([]smt.Term, 0, len(n))
		unknown := false
		for _, x := range n {
			v, ok := evalPartial(x, assignment)
			if !ok {
				unknown = true
				continue
			}
			vals = append(vals, v)
		}
		for i := 0; i < len(vals); i++ {
			for j := i + 1; j < len(vals); j++ {
				if termsEqual(vals[i], vals[j]) {
					return smt.BoolLit(false), true
				}
			}
		}
		if unknown {
			return nil, false
		}
		return smt.BoolLit(true), true
	case smt.Sum:
		var total int64
		for _, x := range n {
			v, ok := evalPartial(x, assignment)
			if !ok {
				return nil, false
			}
			i, ok := v.(smt.IntLit)
			if !ok {
				return nil, false
			}
			total += int64(i)
		}
		return smt.IntLit(total), true
	case smt.Var:
		return nil, false
	default:
		return t, true
	}
}

func termsEqual(a, b smt.Term) bool {
	switch av := a.(type) {
	case smt.BoolLit:
		bv, ok := b.(smt.BoolLit)
		return ok && av == bv
	case smt.IntLit:
		bv, ok := b.(smt.IntLit)
		return ok && av == bv
	case smt.EnumLit:
		bv, ok := b.(smt.EnumLit)
		return ok && av.Value == bv.Value && av.EnumSort.Equal(bv.EnumSort)
	case smt.Const:
		bv, ok := b.(smt.Const)
		return ok && av.String() == bv.String() && av.Sort().Equal(bv.Sort())
	default:
		return a.String() == b.String()
	}
}

var _ smt.Solver = (*Engine)(nil)
