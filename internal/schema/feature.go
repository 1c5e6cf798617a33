package schema

import "github.com/consolas-project/consolas/internal/smt"

// Attribute is a primitive-valued feature: single-valued attributes
// become `Inst -> D`, multi-valued ones `Inst x D -> Bool`.
type Attribute struct {
	Name     string
	Owner    *Class
	Sort     smt.Sort // the primitive or enum value domain D
	Multiple bool
	fn       smt.Func
}

func (a *Attribute) FeatureName() string  { return a.Name }
func (a *Attribute) FeatureOwner() *Class { return a.Owner }
func (a *Attribute) IsMultiple() bool     { return a.Multiple }
func (a *Attribute) IsAttribute() bool    { return true }
func (a *Attribute) IsReference() bool    { return false }
func (a *Attribute) Func() smt.Func       { return a.fn }

// Reference is an object-valued feature: single-valued references become
// `Inst -> Inst`, multi-valued ones `Inst x Inst -> Bool`.
type Reference struct {
	Name      string
	Owner     *Class
	Target    *Class
	Multiple  bool
	Mandatory bool // only meaningful when !Multiple
	Opposite  string
	fn        smt.Func
}

func (r *Reference) FeatureName() string  { return r.Name }
func (r *Reference) FeatureOwner() *Class { return r.Owner }
func (r *Reference) IsMultiple() bool     { return r.Multiple }
func (r *Reference) IsAttribute() bool    { return false }
func (r *Reference) IsReference() bool    { return true }
func (r *Reference) Func() smt.Func       { return r.fn }

// OppositeRef resolves r's declared opposite feature name against its
// target class. It is resolved lazily (not at DefineReference time)
// because the target class's reference might be declared after r's
// owner.
func (r *Reference) OppositeRef() (*Reference, error) {
	if r.Opposite == "" {
		return nil, nil
	}
	other, ok := r.Target.References[r.Opposite]
	if !ok {
		return nil, &BadOppositeError{Class: r.Owner.Name, Reference: r.Name, Opposite: r.Opposite, Target: r.Target.Name}
	}
	return other, nil
}
