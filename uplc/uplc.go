// Package uplc evaluates untyped Plutus Core programs: the expression
// language that Cardano scripts compile to. It ties together the flat
// codec, the textual syntax and the budgeted CEK machine.
package uplc

import (
	"io"

	"github.com/spacebudz/aiken/uplc/ast"
	"github.com/spacebudz/aiken/uplc/builtins"
	"github.com/spacebudz/aiken/uplc/machine"
)

// Result is the outcome of one evaluation run. Consumed, Trace and
// Logs are populated whether or not evaluation succeeded.
type Result struct {
	Term     ast.Term
	Consumed machine.ExBudget
	Trace    machine.CostTrace
	Logs     []string
}

// Options tunes an evaluation run. The zero value means PlutusV2, the
// default cost model, the default budget, and no live trace output.
type Options struct {
	Costs *machine.CostModel

	// Budget caps the run. Nil means DefaultBudget; pointing at a
	// zero ExBudget really does mean zero, and fails at startup.
	Budget *machine.ExBudget

	// Language gates the builtin set available to the program.
	Language builtins.Language

	TraceOut io.Writer
}

// Eval applies args to the program and reduces it under the default
// budget. On failure the returned Result still carries the budget
// consumed and the logs emitted up to the point of failure.
func Eval(p ast.Program, args ...ast.Term) (Result, error) {
	return EvalWith(p, Options{}, args...)
}

// EvalWith is Eval with an explicit cost model, budget and trace sink.
func EvalWith(p ast.Program, opts Options, args ...ast.Term) (Result, error) {
	if opts.Costs == nil {
		opts.Costs = machine.DefaultCostModel
	}
	budget := machine.DefaultBudget
	if opts.Budget != nil {
		budget = *opts.Budget
	}
	applied := p.Apply(args...)
	m := machine.New(opts.Costs, budget)
	if opts.Language != 0 {
		m.Language = opts.Language
	}
	m.TraceOut = opts.TraceOut
	term, err := m.Run(applied.Term)
	res := Result{
		Term:     term,
		Consumed: m.Consumed(),
		Trace:    m.CostTrace(),
		Logs:     m.Logs(),
	}
	return res, err
}
