package examples

import (
	"github.com/consolas-project/consolas/internal/smt"
	"github.com/consolas-project/consolas/internal/smt/reference"

	"github.com/consolas-project/consolas"
)

// BuildSwarmConflict is the unsatisfiable-placement scenario: the same
// db/wordpress/vm1/vm2 cast as BuildSwarmSimple, but vm1 only has one
// slot and db is now directly overridden onto vm2 — a node that never
// offers lb_ssd. The three contradicting facts (db requires lb_ssd, db
// is direct-overridden to vm2, vm2 lacks lb_ssd) are kept as Check-time
// labeled assumptions rather than compiled facts, so UnsatCore can name
// all three explicitly instead of reporting an opaque compiled
// contradiction.
func BuildSwarmConflict() (*Swarm, error) {
	ctx := consolas.New(nil)
	s, err := buildSwarmSchema(ctx)
	if err != nil {
		return nil, err
	}

	var labelFacts []smt.Term

	vm1, err := s.defineNode("vm1")
	if err != nil {
		return nil, err
	}
	if err := vm1.ForceLiteral("slots", smt.IntLit(1)); err != nil {
		return nil, err
	}
	labelFacts = append(labelFacts, s.labelSetFacts(s.NodeLabel.Func(), vm1, []string{"lb_ssd"}, true)...)

	vm2, err := s.defineNode("vm2")
	if err != nil {
		return nil, err
	}
	// vm2's lb_ssd membership is deliberately left open here (closeOthers
	// false): ConflictAssumptions' "vm2 lacks lb_ssd" fixes it at
	// Check-time instead of at compile time.
	labelFacts = append(labelFacts, s.labelSetFacts(s.NodeLabel.Func(), vm2, []string{"lb_disk"}, false)...)

	db, err := s.defineService("db")
	if err != nil {
		return nil, err
	}
	if err := db.ForceLiteral("serviceLabel", smt.EnumLit{EnumSort: s.LabelSort, Value: "lb_wordpressdb"}); err != nil {
		return nil, err
	}
	// db's lb_ssd requirement and its direct override onto vm2 are also
	// left as Check-time assumptions rather than compiled facts — see
	// ConflictAssumptions.

	wordpress, err := s.defineService("wordpress")
	if err != nil {
		return nil, err
	}
	if err := wordpress.ForceLiteral("affinityLabel", smt.EnumLit{EnumSort: s.LabelSort, Value: "lb_wordpressdb"}); err != nil {
		return nil, err
	}
	labelFacts = append(labelFacts, s.labelSetFacts(s.RequireLabel.Func(), wordpress, nil, true)...)

	s.Ctx.Solver = reference.New(s.domain())
	if err := s.Ctx.Compile(s.metaFacts(), labelFacts); err != nil {
		return nil, err
	}

	return s, nil
}

// ConflictAssumptions builds the three labeled assumptions
// BuildSwarmConflict expects UnsatCore to name: db requiring lb_ssd, db
// being direct-overridden to vm2, and vm2 lacking lb_ssd. Any one of
// them removed makes the remaining two satisfiable.
func (s *Swarm) ConflictAssumptions() []smt.Assumption {
	db, vm2 := s.Services[0], s.Nodes[1]
	return []smt.Assumption{
		{
			Label:   "db-requires-ssd",
			Formula: s.RequireLabel.Func().Apply(db.Const, smt.EnumLit{EnumSort: s.LabelSort, Value: "lb_ssd"}),
		},
		{
			Label:   "db-direct-vm2",
			Formula: smt.Eq{Left: s.NodeDirect.Func().Apply(db.Const), Right: vm2.Const},
		},
		{
			Label: "vm2-lacks-ssd",
			Formula: smt.Not{Operand: s.NodeLabel.Func().Apply(
				vm2.Const, smt.EnumLit{EnumSort: s.LabelSort, Value: "lb_ssd"},
			)},
		},
	}
}
