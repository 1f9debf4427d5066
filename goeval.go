// Package goeval scores LLM application outputs against expectations.
//
// An Engine dispatches evaluation requests by evaluator key to a fixed set
// of scoring strategies, from plain string heuristics through JSON
// structure comparison to LLM-as-judge and RAG quality scoring. Every
// invocation yields a Result; evaluator failures are reported inside the
// Result rather than returned as Go errors, so a batch of evaluations never
// aborts because one row misbehaved.
package goeval

import "github.com/evalforge/goeval/api"

// Re-exported core types so most callers only import the root package.
type (
	Result     = api.Result
	ResultType = api.ResultType
	Error      = api.Error
	EvalInputs = api.EvalInputs
	Evaluator  = api.Evaluator
)
