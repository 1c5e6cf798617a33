// Package decode is the result decoder: given a
// satisfying smt.Model, it reads every declared object's aliveness,
// actual type, and reachable feature values back into plain Go values —
// the inverse of internal/compiler's fact generation. It makes one pass
// over the declared object list and does not recurse into referenced
// objects, so a reference feature's value names another entry in the
// same decoded map rather than an arbitrarily deep nested structure
// (the declared object universe is finite and frequently cyclic, e.g. a
// transition system's "next" pointers).
package decode

import (
	"github.com/consolas-project/consolas/internal/objectreg"
	"github.com/consolas-project/consolas/internal/schema"
	"github.com/consolas-project/consolas/internal/smt"
	"github.com/consolas-project/consolas/internal/typeuniverse"
)

// DecodedObject is one declared object's readout against a model.
type DecodedObject struct {
	Name        string
	Alive       bool
	ActualClass *schema.Class
	// Features holds, per feature name reachable on ActualClass: an
	// smt.Term for a single-valued attribute, a *objectreg.Object (or nil)
	// for a single-valued reference, a []*objectreg.Object for a
	// multi-valued reference, or a []smt.Term for a multi-valued enum
	// attribute. Empty (nil) when !Alive.
	Features map[string]any
}

// All decodes every declared object against model.
func All(model smt.Model, s *schema.Schema, reg *objectreg.Registry) (map[string]*DecodedObject, error) {
	out := make(map[string]*DecodedObject, len(reg.All()))
	for _, o := range reg.All() {
		d, err := one(model, s, reg, o)
		if err != nil {
			return nil, err
		}
		out[o.Name] = d
	}
	return out, nil
}

func one(model smt.Model, s *schema.Schema, reg *objectreg.Registry, o *objectreg.Object) (*DecodedObject, error) {
	d := &DecodedObject{Name: o.Name, Alive: isTrue(model.Eval(typeuniverse.Alive.Apply(o.Const)))}
	if !d.Alive {
		return d, nil
	}

	actualTerm := model.Eval(typeuniverse.ActualType.Apply(o.Const))
	d.ActualClass = o.Class
	if c, ok := classByConst(s, actualTerm); ok {
		d.ActualClass = c
	}

	d.Features = map[string]any{}
	for _, name := range d.ActualClass.AllFeatureNames() {
		f := d.ActualClass.GetFeature(name)
		val, err := feature(model, reg, o, f)
		if err != nil {
			return nil, err
		}
		d.Features[name] = val
	}
	return d, nil
}

func feature(model smt.Model, reg *objectreg.Registry, o *objectreg.Object, f schema.Feature) (any, error) {
	fn := f.Func()

	if ref, ok := f.(*schema.Reference); ok {
		if ref.Multiple {
			var out []*objectreg.Object
			for _, target := range reg.All() {
				if isTrue(model.Eval(fn.Apply(o.Const, target.Const))) {
					out = append(out, target)
				}
			}
			return out, nil
		}
		raw := model.Eval(fn.Apply(o.Const))
		if raw == nil {
			// The model never had to decide this reference; report it unset.
			return (*objectreg.Object)(nil), nil
		}
		if raw.String() == typeuniverse.Nil.String() {
			return (*objectreg.Object)(nil), nil
		}
		target, ok := objectByConst(reg, raw)
		if !ok {
			return nil, &DanglingReferenceError{Class: o.Class.Name, Feature: ref.Name}
		}
		return target, nil
	}

	attr := f.(*schema.Attribute)
	if attr.Multiple {
		if attr.Sort.Kind != smt.KindEnum {
			return nil, &UnboundedDomainError{Class: o.Class.Name, Feature: attr.Name}
		}
		var out []smt.Term
		for _, v := range attr.Sort.Values {
			lit := smt.EnumLit{EnumSort: attr.Sort, Value: v}
			if isTrue(model.Eval(fn.Apply(o.Const, lit))) {
				out = append(out, lit)
			}
		}
		return out, nil
	}
	return model.Eval(fn.Apply(o.Const)), nil
}

func classByConst(s *schema.Schema, t smt.Term) (*schema.Class, bool) {
	for _, c := range s.Classes() {
		if c.Const.String() == t.String() {
			return c, true
		}
	}
	return nil, false
}

func objectByConst(reg *objectreg.Registry, t smt.Term) (*objectreg.Object, bool) {
	for _, o := range reg.All() {
		if o.Const.String() == t.String() {
			return o, true
		}
	}
	return nil, false
}

func isTrue(t smt.Term) bool {
	b, ok := t.(smt.BoolLit)
	return ok && bool(b)
}
