package schema

import "fmt"

// SchemaError is the family of errors raised synchronously at schema-
// declaration time.
type SchemaError interface {
	error
	schemaError()
}

// DuplicateClassError is raised by DefineClass when name is already
// registered.
type DuplicateClassError struct{ Name string }

func (e *DuplicateClassError) Error() string {
	return fmt.Sprintf("class %q is already defined", e.Name)
}
func (*DuplicateClassError) schemaError() {}

// UnknownSupertypeError is raised when a class declares a supertype that
// has not been defined.
type UnknownSupertypeError struct{ Class, Supertype string }

func (e *UnknownSupertypeError) Error() string {
	return fmt.Sprintf("class %q declares undefined supertype %q", e.Class, e.Supertype)
}
func (*UnknownSupertypeError) schemaError() {}

// UnknownFeatureTypeError is raised when an attribute or reference names a
// type string that resolves to neither a primitive, a declared enum, nor a
// declared class.
type UnknownFeatureTypeError struct{ Class, Feature, Type string }

func (e *UnknownFeatureTypeError) Error() string {
	return fmt.Sprintf("%s.%s: unknown type %q", e.Class, e.Feature, e.Type)
}
func (*UnknownFeatureTypeError) schemaError() {}

// BadOppositeError is raised when a reference's declared opposite does not
// name an existing reference on the target class.
type BadOppositeError struct{ Class, Reference, Opposite, Target string }

func (e *BadOppositeError) Error() string {
	return fmt.Sprintf("%s.%s: opposite %q is not a reference defined on %s", e.Class, e.Reference, e.Opposite, e.Target)
}
func (*BadOppositeError) schemaError() {}

// DuplicateEnumError is raised when an enum name collides with another
// enum or a class name.
type DuplicateEnumError struct{ Name string }

func (e *DuplicateEnumError) Error() string {
	return fmt.Sprintf("enum %q is already defined", e.Name)
}
func (*DuplicateEnumError) schemaError() {}

// CycleError is raised when a class's supertype chain loops back on
// itself.
type CycleError struct{ Class string }

func (e *CycleError) Error() string {
	return fmt.Sprintf("class %q participates in an inheritance cycle", e.Class)
}
func (*CycleError) schemaError() {}

// UnknownFeatureError is raised by Class.GetFeature callers that require
// the feature to exist (e.g. ForceValue).
type UnknownFeatureError struct{ Class, Feature string }

func (e *UnknownFeatureError) Error() string {
	return fmt.Sprintf("%q is not a defined feature of class %s", e.Feature, e.Class)
}
func (*UnknownFeatureError) schemaError() {}

// AbstractInstantiationError is raised when a non-suspended object is
// declared against an abstract class.
type AbstractInstantiationError struct{ Object, Class string }

func (e *AbstractInstantiationError) Error() string {
	return fmt.Sprintf("object %q cannot be declared abstract class %q", e.Object, e.Class)
}
func (*AbstractInstantiationError) schemaError() {}
