package examples

import (
	"github.com/consolas-project/consolas/internal/objectreg"
	"github.com/consolas-project/consolas/internal/schema"
	"github.com/consolas-project/consolas/internal/smt"
	"github.com/consolas-project/consolas/internal/smt/reference"
	"github.com/consolas-project/consolas/internal/typeuniverse"

	"github.com/consolas-project/consolas"
)

// Label is the shared enum offered and required by the Docker Swarm
// scenarios.
var swarmLabelValues = []string{"lb_ssd", "lb_disk", "lb_wordpressdb"}

// Swarm is the schema shared by all three Docker Swarm scenarios: Node
// offers a set of labels and a slot count, Service declares the label it
// offers to other services (serviceLabel), the labels it requires of its
// node (nodeLabel), the label of a service it wants to be co-located
// with (affinityLabel), an optional direct node override (nodeDirect),
// and the node it actually lands on (deploy). Node's and Service's label
// features are deliberately named differently (Schema.featureFuncs keys
// functions by name across every class), so Node.label and
// Service.nodeLabel never share a symbol despite both being label sets.
type Swarm struct {
	Ctx           *consolas.Context
	Node          *schema.Class
	Service       *schema.Class
	LabelSort     smt.Sort
	NodeLabel     *schema.Attribute // Node: labels offered
	Slots         *schema.Attribute // Node: slot count
	ServiceLabel  *schema.Attribute // Service: label this service offers
	RequireLabel  *schema.Attribute // Service: labels required of its node
	AffinityLabel *schema.Attribute // Service: label of the service to co-locate with
	NodeDirect    *schema.Reference // Service: forced node override
	Deploy        *schema.Reference // Service: the node it lands on
	Nodes         []*objectreg.Object
	Services      []*objectreg.Object
}

func buildSwarmSchema(ctx *consolas.Context) (*Swarm, error) {
	labelSort, err := ctx.DefineEnum("Label", swarmLabelValues)
	if err != nil {
		return nil, err
	}
	node, err := ctx.DefineClass("Node", nil, false)
	if err != nil {
		return nil, err
	}
	service, err := ctx.DefineClass("Service", nil, false)
	if err != nil {
		return nil, err
	}

	nodeLabel := node.DefineAttribute(ctx.Schema, "label", labelSort, true)
	slots := node.DefineAttribute(ctx.Schema, "slots", smt.IntSort, false)
	serviceLabel := service.DefineAttribute(ctx.Schema, "serviceLabel", labelSort, false)
	requireLabel := service.DefineAttribute(ctx.Schema, "nodeLabel", labelSort, true)
	affinityLabel := service.DefineAttribute(ctx.Schema, "affinityLabel", labelSort, false)
	nodeDirect := service.DefineReference(ctx.Schema, "nodeDirect", node, false, false, "")
	deploy := service.DefineReference(ctx.Schema, "deploy", node, false, true, "")

	if err := ctx.Schema.Validate(); err != nil {
		return nil, err
	}
	return &Swarm{
		Ctx: ctx, Node: node, Service: service, LabelSort: labelSort,
		NodeLabel: nodeLabel, Slots: slots, ServiceLabel: serviceLabel,
		RequireLabel: requireLabel, AffinityLabel: affinityLabel,
		NodeDirect: nodeDirect, Deploy: deploy,
	}, nil
}

// labelsMatchFact is "a service's deployed node must offer every label
// the service requires of its node": for every (svc, n, l), if svc is
// deployed on n and svc requires l, n must offer l.
func (s *Swarm) labelsMatchFact() smt.Term {
	svc1 := smt.NewVar("svc1", smt.InstSort)
	n1 := smt.NewVar("n1", smt.InstSort)
	l1 := smt.NewVar("l1", s.LabelSort)

	return smt.ForAll{
		Bound: []smt.Var{svc1, n1, l1},
		Body: smt.Implies{
			Antecedent: smt.And{
				smt.Eq{Left: s.Deploy.Func().Apply(svc1), Right: n1},
				s.RequireLabel.Func().Apply(svc1, l1),
			},
			Consequent: s.NodeLabel.Func().Apply(n1, l1),
		},
	}
}

// directOverrideFact is "a direct node override wins": if a service
// names a nodeDirect, its deploy must be that node.
func (s *Swarm) directOverrideFact() smt.Term {
	svc1 := smt.NewVar("svc1", smt.InstSort)
	return smt.ForAll{
		Bound: []smt.Var{svc1},
		Body: smt.Implies{
			Antecedent: smt.Not{Operand: smt.Eq{
				Left: s.NodeDirect.Func().Apply(svc1), Right: typeuniverse.Nil,
			}},
			Consequent: smt.Eq{
				Left: s.Deploy.Func().Apply(svc1), Right: s.NodeDirect.Func().Apply(svc1),
			},
		},
	}
}

// affinityFact is "co-location by label": whenever one service's
// affinityLabel equals a distinct service's serviceLabel, the two must
// deploy to the same node.
func (s *Swarm) affinityFact() smt.Term {
	svc1 := smt.NewVar("svc1", smt.InstSort)
	svc2 := smt.NewVar("svc2", smt.InstSort)
	return smt.ForAll{
		Bound: []smt.Var{svc1, svc2},
		Body: smt.Implies{
			Antecedent: smt.And{
				typeuniverse.IsInstance.Apply(svc1, s.Service.Const),
				typeuniverse.IsInstance.Apply(svc2, s.Service.Const),
				smt.Not{Operand: smt.Eq{Left: svc1, Right: svc2}},
				smt.Eq{Left: s.ServiceLabel.Func().Apply(svc2), Right: s.AffinityLabel.Func().Apply(svc1)},
			},
			Consequent: smt.Eq{Left: s.Deploy.Func().Apply(svc1), Right: s.Deploy.Func().Apply(svc2)},
		},
	}
}

func (s *Swarm) metaFacts() []smt.Term {
	return []smt.Term{s.labelsMatchFact(), s.directOverrideFact(), s.affinityFact()}
}

// labelSetFacts builds the config facts pinning obj's label set: present
// values become positive membership facts, and if closeOthers is set
// every other Label value is pinned absent too. Leaving closeOthers false
// is how swarm_conflict.go keeps a label's absence a genuine Check-time
// assumption instead of a baked-in compiled fact. The facts are returned
// rather than asserted because the builders only attach a solver once the
// full object list (and with it the solver's finite domain) is known.
func (s *Swarm) labelSetFacts(fn smt.Func, obj *objectreg.Object, present []string, closeOthers bool) []smt.Term {
	var facts []smt.Term
	have := map[string]bool{}
	for _, v := range present {
		have[v] = true
		facts = append(facts, fn.Apply(obj.Const, smt.EnumLit{EnumSort: s.LabelSort, Value: v}))
	}
	if !closeOthers {
		return facts
	}
	for _, v := range s.LabelSort.Values {
		if !have[v] {
			facts = append(facts, smt.Not{Operand: fn.Apply(obj.Const, smt.EnumLit{EnumSort: s.LabelSort, Value: v})})
		}
	}
	return facts
}

func (s *Swarm) defineNode(name string) (*objectreg.Object, error) {
	o, err := s.Ctx.DefineObject(name, s.Node, false)
	if err != nil {
		return nil, err
	}
	s.Nodes = append(s.Nodes, o)
	return o, nil
}

func (s *Swarm) defineService(name string) (*objectreg.Object, error) {
	o, err := s.Ctx.DefineObject(name, s.Service, false)
	if err != nil {
		return nil, err
	}
	s.Services = append(s.Services, o)
	return o, nil
}

func (s *Swarm) domain() map[string][]smt.Term {
	inst := make([]smt.Term, 0, len(s.Nodes)+len(s.Services)+1)
	for _, o := range s.Nodes {
		inst = append(inst, o.Const)
	}
	for _, o := range s.Services {
		inst = append(inst, o.Const)
	}
	inst = append(inst, typeuniverse.Nil)

	typ := []smt.Term{s.Node.Const, s.Service.Const, typeuniverse.NilType}

	return map[string][]smt.Term{
		smt.InstSort.Name: inst,
		smt.TypeSort.Name: typ,
		s.LabelSort.Name:  labelDomain(s.LabelSort),
	}
}

func labelDomain(sort smt.Sort) []smt.Term {
	out := make([]smt.Term, len(sort.Values))
	for i, v := range sort.Values {
		out[i] = smt.EnumLit{EnumSort: sort, Value: v}
	}
	return out
}

// BuildSwarmSimple is the basic placement scenario: a wordpress
// service must co-locate with its db (via affinityLabel/serviceLabel),
// and db requires a node offering lb_ssd — vm1 is the only one that
// does, so both land there.
func BuildSwarmSimple() (*Swarm, error) {
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
	if err := vm1.ForceLiteral("slots", smt.IntLit(2)); err != nil {
		return nil, err
	}
	labelFacts = append(labelFacts, s.labelSetFacts(s.NodeLabel.Func(), vm1, []string{"lb_ssd"}, true)...)

	vm2, err := s.defineNode("vm2")
	if err != nil {
		return nil, err
	}
	labelFacts = append(labelFacts, s.labelSetFacts(s.NodeLabel.Func(), vm2, []string{"lb_disk"}, true)...)

	db, err := s.defineService("db")
	if err != nil {
		return nil, err
	}
	if err := db.ForceLiteral("serviceLabel", smt.EnumLit{EnumSort: s.LabelSort, Value: "lb_wordpressdb"}); err != nil {
		return nil, err
	}
	labelFacts = append(labelFacts, s.labelSetFacts(s.RequireLabel.Func(), db, []string{"lb_ssd"}, true)...)

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
