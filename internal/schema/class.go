// Package schema is the registry of classes with their features
// (attributes and references), inheritance pointers, and opposite
// pairings. It owns the global, by-name feature function-symbol table so
// that a feature name denotes the same smt.Func no matter which class
// declares it.
package schema

import "github.com/consolas-project/consolas/internal/smt"

// Class is a declared class: a unique name, an optional single supertype,
// an abstractness flag, and its own attribute/reference maps (inherited
// features are reached through GetFeature, not copied in).
type Class struct {
	Name       string
	Supertype  *Class
	Abstract   bool
	Const      smt.Const // the Type-sort constant denoting this class
	Attributes map[string]*Attribute
	References map[string]*Reference
}

func newClass(name string, supertype *Class, abstract bool) *Class {
	return &Class{
		Name:       name,
		Supertype:  supertype,
		Abstract:   abstract,
		Const:      smt.NewConst(name, smt.TypeSort),
		Attributes: map[string]*Attribute{},
		References: map[string]*Reference{},
	}
}

// GetFeature walks the supertype chain and returns the first Attribute or
// Reference with the given name, or nil if none is declared on this class
// or any ancestor.
func (c *Class) GetFeature(name string) Feature {
	for cur := c; cur != nil; cur = cur.Supertype {
		if a, ok := cur.Attributes[name]; ok {
			return a
		}
		if r, ok := cur.References[name]; ok {
			return r
		}
	}
	return nil
}

// AllFeatureNames returns the union of attribute and reference names
// declared on c and every ancestor.
func (c *Class) AllFeatureNames() []string {
	seen := map[string]bool{}
	var names []string
	for cur := c; cur != nil; cur = cur.Supertype {
		for name := range cur.Attributes {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
		for name := range cur.References {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// IsSubclassOf reports whether c is t or a (transitive) descendant of t.
func (c *Class) IsSubclassOf(t *Class) bool {
	for cur := c; cur != nil; cur = cur.Supertype {
		if cur == t {
			return true
		}
	}
	return false
}

// Ancestors returns c's supertype chain, nearest first, not including c.
func (c *Class) Ancestors() []*Class {
	var out []*Class
	for cur := c.Supertype; cur != nil; cur = cur.Supertype {
		out = append(out, cur)
	}
	return out
}

func (c *Class) String() string { return c.Name }

// Feature is the common interface implemented by *Attribute and
// *Reference.
type Feature interface {
	FeatureName() string
	FeatureOwner() *Class
	IsMultiple() bool
	IsAttribute() bool
	IsReference() bool
	Func() smt.Func
}
