package examples

import (
	"github.com/consolas-project/consolas/internal/smt"
)

// ConstantProposition reuses BuildSwarmSimple's compiled assignment to
// ask whether a proposition holds in every reachable model
// (Context.CheckConstant) rather than just whether one model exists.
type ConstantProposition struct {
	*Swarm
	// WordpressEqualsDB is "wordpress and db deploy to the same node" —
	// forced by affinityFact regardless of which node ends up chosen, so
	// it is constant (true in every model).
	WordpressEqualsDB smt.Term
	// WordpressEqualsVM2 is "wordpress deploys to vm2" — always false
	// (wordpress always lands on vm1 alongside db), so it is not
	// constant; the witness is the very model BuildSwarmSimple compiles.
	WordpressEqualsVM2 smt.Term
}

// BuildConstantPropositionScenario reuses BuildSwarmSimple's compiled
// assignment and exposes one proposition of each kind.
func BuildConstantPropositionScenario() (*ConstantProposition, error) {
	s, err := BuildSwarmSimple()
	if err != nil {
		return nil, err
	}
	db, wordpress := s.Services[0], s.Services[1]
	vm2 := s.Nodes[1]
	return &ConstantProposition{
		Swarm:              s,
		WordpressEqualsDB:  smt.Eq{Left: s.Deploy.Func().Apply(wordpress.Const), Right: s.Deploy.Func().Apply(db.Const)},
		WordpressEqualsVM2: smt.Eq{Left: s.Deploy.Func().Apply(wordpress.Const), Right: vm2.Const},
	}, nil
}
