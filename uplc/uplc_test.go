package uplc

import (
	"math/big"
	"testing"

	"github.com/spacebudz/aiken/errors"
	"github.com/spacebudz/aiken/testutil"
	"github.com/spacebudz/aiken/uplc/ast"
	"github.com/spacebudz/aiken/uplc/builtins"
	"github.com/spacebudz/aiken/uplc/data"
	"github.com/spacebudz/aiken/uplc/machine"
	"github.com/spacebudz/aiken/uplc/parser"
)

func TestEvalParsedProgram(t *testing.T) {
	p, err := parser.ParseProgram("(program 1.0.0 [(builtin addInteger) (con integer 2) (con integer 3)])")
	if err != nil {
		testutil.FatalErr(t, err)
	}
	res, err := Eval(p)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	want := ast.Constant{Con: ast.Integer{Inner: big.NewInt(5)}}
	if !ast.TermEqual(res.Term, want) {
		t.Fatalf("result %v, want %v", res.Term, want)
	}
	if res.Consumed.CPU == 0 || res.Consumed.Mem == 0 {
		t.Fatal("consumed budget should be nonzero")
	}
}

func TestEvalAppliesArguments(t *testing.T) {
	p, err := parser.ParseProgram("(program 1.0.0 (lam d [(builtin unIData) d]))")
	if err != nil {
		testutil.FatalErr(t, err)
	}
	arg := ast.Constant{Con: ast.Data{Inner: data.Integer{Inner: big.NewInt(5)}}}
	res, err := Eval(p, arg)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	want := ast.Constant{Con: ast.Integer{Inner: big.NewInt(5)}}
	if !ast.TermEqual(res.Term, want) {
		t.Fatalf("result %v, want %v", res.Term, want)
	}
}

func TestEvalFromFlat(t *testing.T) {
	p, err := parser.ParseProgram("(program 1.0.0 (force (delay (con integer 1))))")
	if err != nil {
		testutil.FatalErr(t, err)
	}
	enc, err := p.Flat()
	if err != nil {
		testutil.FatalErr(t, err)
	}
	back, err := ast.UnFlat(enc)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	res, err := Eval(back)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	want := ast.Constant{Con: ast.Integer{Inner: big.NewInt(1)}}
	if !ast.TermEqual(res.Term, want) {
		t.Fatalf("result %v, want %v", res.Term, want)
	}
}

func TestEvalFailureKeepsAccounting(t *testing.T) {
	// trace's second argument is strict, so the failing branch is
	// delayed until after the message is logged.
	p, err := parser.ParseProgram(`(program 1.0.0 (force [(force (builtin trace)) (con string "about to fail") (delay (error))]))`)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	res, err := Eval(p)
	if errors.Root(err) != machine.ErrExplicit {
		t.Fatalf("got %v, want %v", err, machine.ErrExplicit)
	}
	testutil.ExpectEqual(t, res.Logs, []string{"about to fail"}, "logs")
	if res.Consumed.CPU == 0 {
		t.Fatal("failed run should still report consumption")
	}
}

func TestStrictBuiltinArgumentAborts(t *testing.T) {
	// A builtin argument is evaluated before the builtin fires, so an
	// error argument aborts before trace can log anything.
	p, err := parser.ParseProgram(`(program 1.0.0 [(force (builtin trace)) (con string "about to fail") (error)])`)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	res, err := Eval(p)
	if errors.Root(err) != machine.ErrExplicit {
		t.Fatalf("got %v, want %v", err, machine.ErrExplicit)
	}
	testutil.ExpectEqual(t, len(res.Logs), 0, "logs")
}

func TestEvalBudgetOption(t *testing.T) {
	p, err := parser.ParseProgram("(program 1.0.0 [(builtin addInteger) (con integer 2) (con integer 3)])")
	if err != nil {
		testutil.FatalErr(t, err)
	}
	_, err = EvalWith(p, Options{Budget: &machine.ExBudget{CPU: 50, Mem: 50}})
	if errors.Root(err) != machine.ErrOutOfBudget {
		t.Fatalf("got %v, want %v", err, machine.ErrOutOfBudget)
	}
}

func TestEvalZeroBudget(t *testing.T) {
	p, err := parser.ParseProgram("(program 1.0.0 (con integer 1))")
	if err != nil {
		testutil.FatalErr(t, err)
	}
	// A zero budget is a real request, not the default: even the
	// startup charge must fail.
	res, err := EvalWith(p, Options{Budget: &machine.ExBudget{}})
	if errors.Root(err) != machine.ErrOutOfBudget {
		t.Fatalf("got %v, want %v", err, machine.ErrOutOfBudget)
	}
	testutil.ExpectEqual(t, res.Consumed, machine.ExBudget{}, "consumed budget")
}

func TestEvalLanguageGate(t *testing.T) {
	p, err := parser.ParseProgram("(program 1.0.0 [(builtin serialiseData) (con data (I 5))])")
	if err != nil {
		testutil.FatalErr(t, err)
	}
	// serialiseData exists from PlutusV2 on; a V1 run must not reach it.
	_, err = EvalWith(p, Options{Language: builtins.PlutusV1})
	if errors.Root(err) != builtins.ErrUnknownBuiltin {
		t.Fatalf("got %v, want %v", err, builtins.ErrUnknownBuiltin)
	}
	if _, err := EvalWith(p, Options{Language: builtins.PlutusV2}); err != nil {
		testutil.FatalErr(t, err)
	}
	// The default is PlutusV2.
	if _, err := Eval(p); err != nil {
		testutil.FatalErr(t, err)
	}
}
