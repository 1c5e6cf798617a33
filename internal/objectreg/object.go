// Package objectreg is the closed, append-only universe of declared
// objects: each pinned to a declared class, optionally suspended,
// optionally carrying forced feature values.
package objectreg

import (
	"fmt"

	"github.com/consolas-project/consolas/internal/schema"
	"github.com/consolas-project/consolas/internal/smt"
)

// ForcedValue is one forced feature assignment on an Object: either a
// primitive literal (for an Attribute) or a reference to another Object
// or a literal list of Objects (for a multi-valued Reference).
type ForcedValue struct {
	Feature schema.Feature
	Literal smt.Term  // set when Feature is an Attribute, or a single-valued Reference forced to nil
	Object  *Object    // set when Feature is a single-valued Reference
	Objects []*Object // set when Feature is a multi-valued Reference forced to an explicit set literal
}

// Object is one declared, named instance of a declared class.
type Object struct {
	Name      string
	Class     *schema.Class
	Suspended bool
	Const     smt.Const
	forced    map[string]ForcedValue
}

func newObject(name string, class *schema.Class) *Object {
	return &Object{
		Name:   name,
		Class:  class,
		Const:  smt.NewConst(name, smt.InstSort),
		forced: map[string]ForcedValue{},
	}
}

// ForceValue pins feature to a literal/object value, to be asserted as a
// config fact. feature must already be declared on o.Class or an
// ancestor.
func (o *Object) ForceValue(featureName string, value ForcedValue) error {
	f := o.Class.GetFeature(featureName)
	if f == nil {
		return &schema.UnknownFeatureError{Class: o.Class.Name, Feature: featureName}
	}
	value.Feature = f
	o.forced[featureName] = value
	return nil
}

// ForceLiteral is a convenience for forcing a primitive attribute.
func (o *Object) ForceLiteral(featureName string, lit smt.Term) error {
	return o.ForceValue(featureName, ForcedValue{Literal: lit})
}

// ForceObject is a convenience for forcing a single-valued reference.
func (o *Object) ForceObject(featureName string, target *Object) error {
	return o.ForceValue(featureName, ForcedValue{Object: target})
}

// ForceSet is a convenience for forcing a multi-valued reference to an
// explicit set literal.
func (o *Object) ForceSet(featureName string, targets []*Object) error {
	return o.ForceValue(featureName, ForcedValue{Objects: targets})
}

// ForcedValues returns every forced feature assignment, in no particular
// order (callers needing determinism should sort by Feature.FeatureName).
func (o *Object) ForcedValues() []ForcedValue {
	out := make([]ForcedValue, 0, len(o.forced))
	for _, v := range o.forced {
		out = append(out, v)
	}
	return out
}

func (o *Object) String() string { return o.Name }

// Registry is the closed set of declared objects.
type Registry struct {
	objects map[string]*Object
	order   []string
}

func New() *Registry {
	return &Registry{objects: map[string]*Object{}}
}

// DefineObject declares a new object of the given class. It is an error
// to redeclare an existing name, or to declare a non-suspended object of
// an abstract class: the abstractness meta-fact forbids a live instance
// from having an abstract actual type, so such an object could never be
// alive in any model, and the mistake is rejected here instead of
// surfacing as an inexplicable unsat later. A suspended object of an
// abstract class stays legal — it is simply dead in every model.
func (r *Registry) DefineObject(name string, class *schema.Class, suspended bool) (*Object, error) {
	if _, exists := r.objects[name]; exists {
		return nil, &DuplicateObjectError{Name: name}
	}
	if class.Abstract && !suspended {
		return nil, &schema.AbstractInstantiationError{Object: name, Class: class.Name}
	}
	o := newObject(name, class)
	o.Suspended = suspended
	r.objects[name] = o
	r.order = append(r.order, name)
	return o, nil
}

// DefineObjects declares several objects of the same class at once.
func (r *Registry) DefineObjects(names []string, class *schema.Class, suspended bool) ([]*Object, error) {
	out := make([]*Object, len(names))
	for i, name := range names {
		o, err := r.DefineObject(name, class, suspended)
		if err != nil {
			return nil, err
		}
		out[i] = o
	}
	return out, nil
}

// Object looks up a previously declared object by name.
func (r *Registry) Object(name string) (*Object, bool) {
	o, ok := r.objects[name]
	return o, ok
}

// MustObject looks up an object and panics if absent — used only by
// internal example/test code that has already validated the name exists.
func (r *Registry) MustObject(name string) *Object {
	o, ok := r.objects[name]
	if !ok {
		panic(fmt.Sprintf("objectreg: object %q not declared", name))
	}
	return o
}

// All returns every declared object in declaration order.
func (r *Registry) All() []*Object {
	out := make([]*Object, len(r.order))
	for i, name := range r.order {
		out[i] = r.objects[name]
	}
	return out
}

// DuplicateObjectError is raised by DefineObject when name is already
// registered.
type DuplicateObjectError struct{ Name string }

func (e *DuplicateObjectError) Error() string {
	return fmt.Sprintf("object %q is already defined", e.Name)
}
