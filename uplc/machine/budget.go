package machine

import (
	"fmt"

	"github.com/spacebudz/aiken/errors"
	"github.com/spacebudz/aiken/math/checked"
	"github.com/spacebudz/aiken/uplc/builtins"
)

// ExBudget is an amount of execution resources: abstract cpu time and
// abstract memory, both in the ledger's units.
type ExBudget struct {
	CPU int64
	Mem int64
}

func (b ExBudget) String() string {
	return fmt.Sprintf("{cpu: %d, mem: %d}", b.CPU, b.Mem)
}

func (b ExBudget) add(o ExBudget) (ExBudget, error) {
	cpu, ok := checked.AddInt64(b.CPU, o.CPU)
	if !ok {
		return ExBudget{}, checked.ErrOverflow
	}
	mem, ok := checked.AddInt64(b.Mem, o.Mem)
	if !ok {
		return ExBudget{}, checked.ErrOverflow
	}
	return ExBudget{CPU: cpu, Mem: mem}, nil
}

// DefaultBudget is the PlutusV2 mainnet per-transaction execution
// limit, a sensible cap for standalone evaluation.
var DefaultBudget = ExBudget{CPU: 10_000_000_000, Mem: 14_000_000}

// StepKind names a machine transition for cost accounting.
type StepKind int

const (
	StepVar StepKind = iota
	StepConstant
	StepLambda
	StepDelay
	StepForce
	StepApply
	StepBuiltin
	StepConstr
	StepCase

	stepKinds
)

func (k StepKind) String() string {
	switch k {
	case StepVar:
		return "var"
	case StepConstant:
		return "constant"
	case StepLambda:
		return "lambda"
	case StepDelay:
		return "delay"
	case StepForce:
		return "force"
	case StepApply:
		return "apply"
	case StepBuiltin:
		return "builtin"
	case StepConstr:
		return "constr"
	case StepCase:
		return "case"
	}
	return fmt.Sprintf("step(%d)", int(k))
}

// CostTrace breaks consumed budget down by what it was spent on.
type CostTrace struct {
	Startup  ExBudget
	Steps    [stepKinds]ExBudget
	Builtins [builtins.Count]ExBudget
}

// spend deducts cost from the remaining budget, failing the moment the
// budget goes negative. The deduction happens before the work it pays
// for, so a program never computes past its limit.
func (m *Machine) spend(cost ExBudget) error {
	m.remaining.CPU -= cost.CPU
	m.remaining.Mem -= cost.Mem
	if m.remaining.CPU < 0 || m.remaining.Mem < 0 {
		return errors.WithDetailf(ErrOutOfBudget, "consumed %v", m.consumed)
	}
	var err error
	if m.consumed, err = m.consumed.add(cost); err != nil {
		return err
	}
	return nil
}

func (m *Machine) spendStartup() error {
	cost := m.costs.Machine.Startup
	if err := m.spend(cost); err != nil {
		return err
	}
	m.trace.Startup, _ = m.trace.Startup.add(cost)
	return nil
}

func (m *Machine) spendStep(kind StepKind) error {
	cost := m.costs.Machine.step(kind)
	if err := m.spend(cost); err != nil {
		return err
	}
	m.trace.Steps[kind], _ = m.trace.Steps[kind].add(cost)
	return nil
}

// spendBuiltin charges the cost of firing fn on arguments of the given
// sizes. Callers type-check the arguments first: a mismatch fails
// before any size-dependent cost is charged.
func (m *Machine) spendBuiltin(fn builtins.DefaultFunction, sizes ...int64) error {
	bc := m.costs.Builtin[fn]
	cost := ExBudget{CPU: bc.CPU.cost(sizes), Mem: bc.Mem.cost(sizes)}
	if err := m.spend(cost); err != nil {
		return err
	}
	m.trace.Builtins[fn], _ = m.trace.Builtins[fn].add(cost)
	return nil
}
