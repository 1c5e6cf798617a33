package decode

import "fmt"

// DecodeError is raised when a satisfying model can't be turned into a
// concrete result.
type DecodeError interface {
	error
	decodeError()
}

// UnboundedDomainError is raised when decoding a multi-valued attribute
// whose value sort has no finite, enumerable domain (anything but an
// enum; Boolean and Integer are both rejected) — there is no way to ask a model "which integers does
// this hold for" without an a priori bound, so such a feature can't be
// read back as a set literal.
type UnboundedDomainError struct{ Class, Feature string }

func (e *UnboundedDomainError) Error() string {
	return fmt.Sprintf("%s.%s: cannot decode a multi-valued attribute over an unbounded domain", e.Class, e.Feature)
}
func (*UnboundedDomainError) decodeError() {}

// DanglingReferenceError is raised when a model evaluates a reference
// feature to an Inst constant that matches no declared object — a sign
// the model and the declared object registry have drifted apart.
type DanglingReferenceError struct{ Class, Feature string }

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("%s.%s: model assigns a value that matches no declared object", e.Class, e.Feature)
}
func (*DanglingReferenceError) decodeError() {}
