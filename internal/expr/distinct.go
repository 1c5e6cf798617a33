package expr

import "github.com/consolas-project/consolas/internal/smt"

// DistinctConsts implements `DistinctConsts(a, b, c, ...)`: every listed
// term is pairwise distinct from every other, typically applied to a
// handful of already-declared object or data consts that the schema's
// own typing facts don't otherwise force apart.
func DistinctConsts(terms ...Termer) smt.Term {
	out := make(smt.Distinct, len(terms))
	for i, t := range terms {
		out[i] = t.SMTTerm()
	}
	return out
}
