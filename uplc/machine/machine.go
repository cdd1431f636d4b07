// Package machine evaluates untyped Plutus Core terms with a CEK-style
// reduction machine under an execution budget.
//
// Evaluation is call-by-name: applying a lambda binds the argument as
// an unevaluated thunk, so an argument that is never used is never
// computed, even if computing it would fail or diverge. Builtins are
// the exception; their arguments are reduced before the builtin fires.
//
// The machine keeps its continuation as an explicit frame stack on the
// heap, so term depth is bounded by the budget rather than by goroutine
// stack size. Every transition is paid for before it runs.
package machine

import (
	"io"

	"github.com/spacebudz/aiken/errors"
	"github.com/spacebudz/aiken/uplc/ast"
	"github.com/spacebudz/aiken/uplc/builtins"
)

// Machine holds the evaluation state for a single run.
type Machine struct {
	costs     *CostModel
	remaining ExBudget
	consumed  ExBudget
	trace     CostTrace
	logs      []string

	// Language gates the builtin set: a program evaluated under an
	// older language must not reach builtins introduced later. New
	// sets PlutusV2; override before Run.
	Language builtins.Language

	// TraceOut, when set, receives each trace message as it happens,
	// newline-terminated. Logs collects them regardless.
	TraceOut io.Writer

	frames []frame
}

// New returns a machine that evaluates under the given budget.
func New(costs *CostModel, budget ExBudget) *Machine {
	return &Machine{
		costs:     costs,
		Language:  builtins.PlutusV2,
		remaining: budget,
	}
}

// Consumed returns the budget spent so far.
func (m *Machine) Consumed() ExBudget {
	return m.consumed
}

// Logs returns the trace messages emitted during evaluation.
func (m *Machine) Logs() []string {
	return m.logs
}

// CostTrace returns the per-transition budget breakdown.
func (m *Machine) CostTrace() CostTrace {
	return m.trace
}

// Continuation frames. The top of the frame stack is what happens to
// the value currently being returned.

type frame interface {
	isFrame()
}

// frameAwaitFun waits for the function of an application; the argument
// term is still unevaluated.
type frameAwaitFun struct {
	arg ast.Term
	env *Env
}

// frameAwaitArg waits for a strictly evaluated builtin argument.
type frameAwaitArg struct {
	fun VBuiltin
}

// frameAwaitFunValue applies an already evaluated argument to the
// incoming function value. Used for case branches, whose constructor
// fields were reduced when the constructor value was built.
type frameAwaitFunValue struct {
	arg Value
}

type frameForce struct{}

// frameConstr collects constructor fields left to right.
type frameConstr struct {
	tag  uint64
	env  *Env
	done []Value
	rest []ast.Term
}

// frameCase waits for the scrutinee of a case.
type frameCase struct {
	branches []ast.Term
	env      *Env
}

func (frameAwaitFun) isFrame()      {}
func (frameAwaitArg) isFrame()      {}
func (frameAwaitFunValue) isFrame() {}
func (frameForce) isFrame()         {}
func (frameConstr) isFrame()        {}
func (frameCase) isFrame()          {}

// Run reduces term to a value and rebuilds it as a term. The input
// must be closed.
func (m *Machine) Run(term ast.Term) (ast.Term, error) {
	v, err := m.eval(term)
	if err != nil {
		return nil, err
	}
	return discharge(v)
}

func (m *Machine) eval(term ast.Term) (Value, error) {
	if err := m.spendStartup(); err != nil {
		return nil, err
	}
	m.frames = m.frames[:0]
	var env *Env
	for {
		v, err := m.compute(&term, &env)
		if err != nil {
			return nil, err
		}
		done, err := m.ret(v, &term, &env)
		if err != nil {
			return nil, err
		}
		if done != nil {
			return done, nil
		}
	}
}

// compute reduces the current term until it yields a value, pushing
// frames for subcomputations. term and env are the machine registers;
// compute leaves them pointing at the next focus when it pushes work.
func (m *Machine) compute(term *ast.Term, env **Env) (Value, error) {
	for {
		switch t := (*term).(type) {
		case ast.Var:
			if err := m.spendStep(StepVar); err != nil {
				return nil, err
			}
			v, ok := (*env).lookup(t.Name.Index)
			if !ok {
				return nil, errors.WithDetailf(ErrOpenTermEvaluated, "index %d", t.Name.Index)
			}
			// A thunk re-enters evaluation in its captured
			// environment; anything else is already a value.
			if th, ok := v.(VThunk); ok {
				*term = th.Term
				*env = th.Env
				continue
			}
			return v, nil

		case ast.Delay:
			if err := m.spendStep(StepDelay); err != nil {
				return nil, err
			}
			return VDelay{Body: t.Term, Env: *env}, nil

		case ast.Lambda:
			if err := m.spendStep(StepLambda); err != nil {
				return nil, err
			}
			return VLambda{ParameterName: t.ParameterName, Body: t.Body, Env: *env}, nil

		case ast.Apply:
			if err := m.spendStep(StepApply); err != nil {
				return nil, err
			}
			m.push(frameAwaitFun{arg: t.Argument, env: *env})
			*term = t.Function
			continue

		case ast.Constant:
			if err := m.spendStep(StepConstant); err != nil {
				return nil, err
			}
			return VCon{Con: t.Con}, nil

		case ast.Force:
			if err := m.spendStep(StepForce); err != nil {
				return nil, err
			}
			m.push(frameForce{})
			*term = t.Term
			continue

		case ast.Error:
			return nil, ErrExplicit

		case ast.Builtin:
			if err := m.spendStep(StepBuiltin); err != nil {
				return nil, err
			}
			if !m.Language.Available(t.Fn) {
				return nil, errors.WithDetailf(builtins.ErrUnknownBuiltin, "%s not in %s", t.Fn, m.Language)
			}
			return VBuiltin{Fn: t.Fn, Forces: t.Fn.Forces()}, nil

		case ast.Constr:
			if err := m.spendStep(StepConstr); err != nil {
				return nil, err
			}
			if len(t.Fields) == 0 {
				return VConstr{Tag: t.Tag}, nil
			}
			m.push(frameConstr{tag: t.Tag, env: *env, rest: t.Fields[1:]})
			*term = t.Fields[0]
			continue

		case ast.Case:
			if err := m.spendStep(StepCase); err != nil {
				return nil, err
			}
			m.push(frameCase{branches: t.Branches, env: *env})
			*term = t.Constr
			continue

		default:
			return nil, errors.WithDetailf(ErrOpenTermEvaluated, "unexpected term %T", t)
		}
	}
}

// ret feeds a value to the topmost frame. It either produces the next
// focus (setting term/env and returning nil) or, with an empty stack,
// returns the final value.
func (m *Machine) ret(v Value, term *ast.Term, env **Env) (Value, error) {
	for {
		if len(m.frames) == 0 {
			return v, nil
		}
		f := m.pop()
		switch fr := f.(type) {
		case frameAwaitFun:
			switch fun := v.(type) {
			case VLambda:
				// Call-by-name: bind the argument unevaluated.
				*env = fun.Env.extend(VThunk{Term: fr.arg, Env: fr.env})
				*term = fun.Body
				return nil, nil
			case VBuiltin:
				// Builtins are strict: reduce the argument now.
				m.push(frameAwaitArg{fun: fun})
				*term = fr.arg
				*env = fr.env
				return nil, nil
			default:
				return nil, errors.WithDetailf(ErrNonFunctionApply, "value %T", v)
			}

		case frameAwaitArg:
			next, err := m.applyBuiltinArg(fr.fun, v)
			if err != nil {
				return nil, err
			}
			v = next
			continue

		case frameAwaitFunValue:
			switch fun := v.(type) {
			case VLambda:
				*env = fun.Env.extend(fr.arg)
				*term = fun.Body
				return nil, nil
			case VBuiltin:
				next, err := m.applyBuiltinArg(fun, fr.arg)
				if err != nil {
					return nil, err
				}
				v = next
				continue
			default:
				return nil, errors.WithDetailf(ErrNonFunctionApply, "value %T", v)
			}

		case frameForce:
			switch dv := v.(type) {
			case VDelay:
				*term = dv.Body
				*env = dv.Env
				return nil, nil
			case VBuiltin:
				if dv.Forces == 0 {
					return nil, errors.WithDetailf(ErrNonPolymorphicForce, "builtin %s", dv.Fn)
				}
				dv.Forces--
				v = dv
				continue
			default:
				return nil, errors.WithDetailf(ErrNonPolymorphicForce, "value %T", v)
			}

		case frameConstr:
			done := append(fr.done, v)
			if len(fr.rest) == 0 {
				v = VConstr{Tag: fr.tag, Fields: done}
				continue
			}
			m.push(frameConstr{tag: fr.tag, env: fr.env, done: done, rest: fr.rest[1:]})
			*term = fr.rest[0]
			*env = fr.env
			return nil, nil

		case frameCase:
			constr, ok := v.(VConstr)
			if !ok {
				return nil, errors.WithDetailf(ErrCaseNonConstr, "value %T", v)
			}
			if constr.Tag >= uint64(len(fr.branches)) {
				return nil, errors.WithDetailf(ErrMissingCaseBranch, "tag %d, %d branches", constr.Tag, len(fr.branches))
			}
			// The branch receives the fields in order; the last
			// pushed frame is popped first.
			for i := len(constr.Fields) - 1; i >= 0; i-- {
				m.push(frameAwaitFunValue{arg: constr.Fields[i]})
			}
			*term = fr.branches[constr.Tag]
			*env = fr.env
			return nil, nil
		}
	}
}

// applyBuiltinArg hands one evaluated argument to a builtin value,
// firing it once saturated.
func (m *Machine) applyBuiltinArg(b VBuiltin, arg Value) (Value, error) {
	if b.Forces > 0 {
		return nil, errors.WithDetailf(ErrUnexpectedBuiltinArg, "builtin %s wants %d more forces", b.Fn, b.Forces)
	}
	args := make([]Value, len(b.Args), len(b.Args)+1)
	copy(args, b.Args)
	args = append(args, arg)
	if len(args) < b.Fn.Arity() {
		return VBuiltin{Fn: b.Fn, Args: args}, nil
	}
	return m.evalBuiltin(b.Fn, args)
}

func (m *Machine) push(f frame) {
	m.frames = append(m.frames, f)
}

func (m *Machine) pop() frame {
	f := m.frames[len(m.frames)-1]
	m.frames = m.frames[:len(m.frames)-1]
	return f
}
