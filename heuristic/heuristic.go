// Package heuristic provides the pure, no-I/O lexical matchers: exact and
// field matches, substring predicates, regex tests, edit distance, token-set
// similarity and structural JSON diffing.
package heuristic

import (
	"github.com/evalforge/goeval/api"
)

// stringOutput unwraps the output as a string, or returns a validation error
// Result for evaluators that cannot score a non-string output.
func stringOutput(in api.EvalInputs) (string, *api.Result) {
	s, ok := in.OutputString()
	if !ok {
		r := api.ValidationError("%v", api.ErrOutputNotString)
		return "", &r
	}
	return s, nil
}
