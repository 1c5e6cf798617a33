package expr

import (
	"github.com/consolas-project/consolas/internal/objectreg"
	"github.com/consolas-project/consolas/internal/smt"
)

// Universe is the finalized, closed list of declared objects. Aggregation
// (Sum/Count) is only reachable through it: sum and count range over the
// declared object list, not an open-ended symbolic set, so a SetTerm
// alone can't answer "how many" without first closing over the universe
// it ranges over.
type Universe struct {
	objects []*objectreg.Object
}

// NewUniverse finalizes the aggregation-capable view of objects. Callers
// build it once, after every DefineObject call, mirroring the
// compiler's finalize step.
func NewUniverse(objects []*objectreg.Object) *Universe {
	return &Universe{objects: objects}
}

// Count implements `S.count()`: the number of declared objects whose
// declared class is a subtype of S's domain class and that satisfy S's
// guard.
func (u *Universe) Count(s *SetTerm) (smt.Term, error) {
	if !s.IsSimple() {
		return nil, &CompoundSetError{Op: "count"}
	}
	domainVar, err := s.Guard[0].OnlyVar()
	if err != nil {
		return nil, err
	}
	if domainVar.Class == nil {
		return nil, &WrongKindError{Op: "count", Detail: "set does not range over a declared class"}
	}
	terms := make([]smt.Term, 0, len(u.objects))
	for _, o := range u.objects {
		if !o.Class.IsSubclassOf(domainVar.Class) {
			continue
		}
		guardVal, err := ground(s.Guard[0], o.Const)
		if err != nil {
			return nil, err
		}
		terms = append(terms, smt.Ite{Cond: guardVal, Then: smt.IntLit(1), Else: smt.IntLit(0)})
	}
	return smt.Sum(terms), nil
}

// Sum implements `S.sum()`: S must have been produced by Map to an
// integer-valued DataTerm, and the sum ranges over the same finite
// object list as Count.
func (u *Universe) Sum(s *SetTerm) (smt.Term, error) {
	if !s.IsSimple() {
		return nil, &CompoundSetError{Op: "sum"}
	}
	seed := s.seedAt(0)
	if seed == nil {
		return nil, &WrongKindError{Op: "sum", Detail: "set has no value function; call Map first"}
	}
	domainVar, err := s.Guard[0].OnlyVar()
	if err != nil {
		return nil, err
	}
	if domainVar.Class == nil {
		return nil, &WrongKindError{Op: "sum", Detail: "set does not range over a declared class"}
	}
	terms := make([]smt.Term, 0, len(u.objects))
	for _, o := range u.objects {
		if !o.Class.IsSubclassOf(domainVar.Class) {
			continue
		}
		guardVal, err := ground(s.Guard[0], o.Const)
		if err != nil {
			return nil, err
		}
		valueVal, err := ground(seed, o.Const)
		if err != nil {
			return nil, err
		}
		terms = append(terms, smt.Ite{Cond: guardVal, Then: valueVal, Else: smt.IntLit(0)})
	}
	return smt.Sum(terms), nil
}

// ground binds pe's sole slot to val and completes it, without disturbing
// pe itself (PartialExpr.Bind is immutable).
func ground(pe *PartialExpr, val smt.Term) (smt.Term, error) {
	bound, err := pe.BindOne(val)
	if err != nil {
		return nil, err
	}
	return bound.Complete()
}
