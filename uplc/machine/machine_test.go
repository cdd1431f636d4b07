package machine

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/spacebudz/aiken/errors"
	"github.com/spacebudz/aiken/testutil"
	"github.com/spacebudz/aiken/uplc/ast"
	"github.com/spacebudz/aiken/uplc/builtins"
	"github.com/spacebudz/aiken/uplc/data"
)

func conInt(n int64) ast.Term {
	return ast.Constant{Con: ast.Integer{Inner: big.NewInt(n)}}
}

func apply2(fn builtins.DefaultFunction, a, b ast.Term) ast.Term {
	return ast.Apply{
		Function: ast.Apply{Function: ast.Builtin{Fn: fn}, Argument: a},
		Argument: b,
	}
}

func run(t *testing.T, term ast.Term) (ast.Term, *Machine) {
	t.Helper()
	m := New(DefaultCostModel, DefaultBudget)
	out, err := m.Run(term)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	return out, m
}

func wantInt(t *testing.T, term ast.Term, n int64) {
	t.Helper()
	c, ok := term.(ast.Constant)
	if !ok {
		t.Fatalf("result is %T, want Constant", term)
	}
	i, ok := c.Con.(ast.Integer)
	if !ok || i.Inner.Int64() != n {
		t.Fatalf("result is %v, want %d", c.Con, n)
	}
}

func TestAddIntegerCosting(t *testing.T) {
	out, m := run(t, apply2(builtins.AddInteger, conInt(2), conInt(3)))
	wantInt(t, out, 5)

	// Startup plus five machine steps (two applies, one builtin
	// reference, two constants) plus the builtin's own cost at one
	// word per operand.
	want := ExBudget{
		CPU: 100 + 5*23000 + (205665 + 812*1),
		Mem: 100 + 5*100 + (1 + 1*1),
	}
	testutil.ExpectEqual(t, m.Consumed(), want, "consumed budget")
}

func TestErrorTerm(t *testing.T) {
	m := New(DefaultCostModel, DefaultBudget)
	_, err := m.Run(ast.Error{})
	if errors.Root(err) != ErrExplicit {
		t.Fatalf("got %v, want %v", err, ErrExplicit)
	}
	// Failing on the error term costs only the startup charge.
	testutil.ExpectEqual(t, m.Consumed(), ExBudget{CPU: 100, Mem: 100}, "consumed budget")
}

func TestCallByName(t *testing.T) {
	// The argument is an error term, but the function never uses it.
	term := ast.Apply{
		Function: ast.Lambda{ParameterName: ast.Name{Text: "unused"}, Body: conInt(7)},
		Argument: ast.Error{},
	}
	out, _ := run(t, term)
	wantInt(t, out, 7)
}

func TestArgumentRecomputed(t *testing.T) {
	// trace fires once per use of the bound variable: no sharing.
	traced := ast.Apply{
		Function: ast.Apply{
			Function: ast.Force{Term: ast.Builtin{Fn: builtins.Trace}},
			Argument: ast.Constant{Con: ast.String{Inner: "tick"}},
		},
		Argument: conInt(1),
	}
	x := ast.Var{Name: ast.Name{Text: "x", Index: 1}}
	term := ast.Apply{
		Function: ast.Lambda{
			ParameterName: ast.Name{Text: "x"},
			Body:          apply2(builtins.AddInteger, x, x),
		},
		Argument: traced,
	}
	var buf bytes.Buffer
	m := New(DefaultCostModel, DefaultBudget)
	m.TraceOut = &buf
	out, err := m.Run(term)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	wantInt(t, out, 2)
	testutil.ExpectEqual(t, m.Logs(), []string{"tick", "tick"}, "trace log")
	testutil.ExpectEqual(t, buf.String(), "tick\ntick\n", "trace writer")
}

func TestForceDelay(t *testing.T) {
	out, _ := run(t, ast.Force{Term: ast.Delay{Term: conInt(9)}})
	wantInt(t, out, 9)
}

func TestDelayedErrorStaysDelayed(t *testing.T) {
	out, _ := run(t, ast.Delay{Term: ast.Error{}})
	if _, ok := out.(ast.Delay); !ok {
		t.Fatalf("result is %T, want Delay", out)
	}
}

func TestIfThenElse(t *testing.T) {
	ite := func(cond bool, then, alt ast.Term) ast.Term {
		return ast.Apply{
			Function: ast.Apply{
				Function: ast.Apply{
					Function: ast.Force{Term: ast.Builtin{Fn: builtins.IfThenElse}},
					Argument: ast.Constant{Con: ast.Bool{Inner: cond}},
				},
				Argument: then,
			},
			Argument: alt,
		}
	}
	out, _ := run(t, ite(true, conInt(1), conInt(2)))
	wantInt(t, out, 1)
	out, _ = run(t, ite(false, conInt(1), conInt(2)))
	wantInt(t, out, 2)
}

func TestIntegerDivisionRounding(t *testing.T) {
	cases := []struct {
		fn   builtins.DefaultFunction
		a, b int64
		want int64
	}{
		{builtins.DivideInteger, 7, 2, 3},
		{builtins.DivideInteger, -7, 2, -4},
		{builtins.DivideInteger, 7, -2, -4},
		{builtins.DivideInteger, -7, -2, 3},
		{builtins.QuotientInteger, 7, 2, 3},
		{builtins.QuotientInteger, -7, 2, -3},
		{builtins.QuotientInteger, 7, -2, -3},
		{builtins.QuotientInteger, -7, -2, 3},
		{builtins.ModInteger, 7, 2, 1},
		{builtins.ModInteger, -7, 2, 1},
		{builtins.ModInteger, 7, -2, -1},
		{builtins.ModInteger, -7, -2, -1},
		{builtins.RemainderInteger, 7, 2, 1},
		{builtins.RemainderInteger, -7, 2, -1},
		{builtins.RemainderInteger, 7, -2, 1},
		{builtins.RemainderInteger, -7, -2, -1},
	}
	for _, c := range cases {
		out, _ := run(t, apply2(c.fn, conInt(c.a), conInt(c.b)))
		wantInt(t, out, c.want)
	}
}

func TestDivideByZero(t *testing.T) {
	for _, fn := range []builtins.DefaultFunction{
		builtins.DivideInteger, builtins.QuotientInteger,
		builtins.RemainderInteger, builtins.ModInteger,
	} {
		m := New(DefaultCostModel, DefaultBudget)
		_, err := m.Run(apply2(fn, conInt(1), conInt(0)))
		if errors.Root(err) != ErrDivideByZero {
			t.Fatalf("%s: got %v, want %v", fn, err, ErrDivideByZero)
		}
	}
}

func TestHeadOfEmptyList(t *testing.T) {
	term := ast.Apply{
		Function: ast.Force{Term: ast.Builtin{Fn: builtins.HeadList}},
		Argument: ast.Constant{Con: ast.ProtoList{LTyp: ast.TInteger{}}},
	}
	m := New(DefaultCostModel, DefaultBudget)
	_, err := m.Run(term)
	if errors.Root(err) != ErrEmptyList {
		t.Fatalf("got %v, want %v", err, ErrEmptyList)
	}
}

func TestTypeMismatchBeforeCharge(t *testing.T) {
	// addInteger applied to a bytestring fails on the type check, so
	// only machine steps are charged, never the builtin cost.
	term := apply2(builtins.AddInteger,
		ast.Constant{Con: ast.ByteString{Inner: []byte{1}}},
		conInt(1))
	m := New(DefaultCostModel, DefaultBudget)
	_, err := m.Run(term)
	if errors.Root(err) != ErrTypeMismatch {
		t.Fatalf("got %v, want %v", err, ErrTypeMismatch)
	}
	want := ExBudget{CPU: 100 + 5*23000, Mem: 100 + 5*100}
	testutil.ExpectEqual(t, m.Consumed(), want, "consumed budget")
}

func TestOutOfBudget(t *testing.T) {
	// Enough for startup and four steps, not five.
	m := New(DefaultCostModel, ExBudget{CPU: 100 + 4*23000, Mem: 1 << 30})
	_, err := m.Run(apply2(builtins.AddInteger, conInt(2), conInt(3)))
	if errors.Root(err) != ErrOutOfBudget {
		t.Fatalf("got %v, want %v", err, ErrOutOfBudget)
	}
}

func TestBudgetExactBoundary(t *testing.T) {
	_, m := run(t, apply2(builtins.AddInteger, conInt(2), conInt(3)))
	exact := m.Consumed()

	// Exactly the consumed budget succeeds; one unit less fails.
	m2 := New(DefaultCostModel, exact)
	if _, err := m2.Run(apply2(builtins.AddInteger, conInt(2), conInt(3))); err != nil {
		testutil.FatalErr(t, err)
	}
	m3 := New(DefaultCostModel, ExBudget{CPU: exact.CPU - 1, Mem: exact.Mem})
	_, err := m3.Run(apply2(builtins.AddInteger, conInt(2), conInt(3)))
	if errors.Root(err) != ErrOutOfBudget {
		t.Fatalf("got %v, want %v", err, ErrOutOfBudget)
	}
}

func TestDeterministicConsumption(t *testing.T) {
	term := apply2(builtins.MultiplyInteger,
		apply2(builtins.AddInteger, conInt(10), conInt(20)),
		conInt(3))
	_, m1 := run(t, term)
	_, m2 := run(t, term)
	testutil.ExpectEqual(t, m1.Consumed(), m2.Consumed(), "consumed budget")
	wantSum := m1.trace.Startup
	for _, s := range m1.trace.Steps {
		wantSum, _ = wantSum.add(s)
	}
	for _, b := range m1.trace.Builtins {
		wantSum, _ = wantSum.add(b)
	}
	testutil.ExpectEqual(t, wantSum, m1.Consumed(), "cost trace totals")
}

func TestConstrCase(t *testing.T) {
	// (case (constr 1 10 20) (lam a a) (lam a (lam b (sub a b))))
	a := ast.Var{Name: ast.Name{Text: "a", Index: 2}}
	b := ast.Var{Name: ast.Name{Text: "b", Index: 1}}
	term := ast.Case{
		Constr: ast.Constr{Tag: 1, Fields: []ast.Term{conInt(10), conInt(20)}},
		Branches: []ast.Term{
			ast.Lambda{ParameterName: ast.Name{Text: "a"}, Body: ast.Var{Name: ast.Name{Text: "a", Index: 1}}},
			ast.Lambda{ParameterName: ast.Name{Text: "a"}, Body: ast.Lambda{
				ParameterName: ast.Name{Text: "b"},
				Body:          apply2(builtins.SubtractInteger, a, b),
			}},
		},
	}
	out, _ := run(t, term)
	wantInt(t, out, -10)
}

func TestCaseMissingBranch(t *testing.T) {
	term := ast.Case{
		Constr:   ast.Constr{Tag: 3},
		Branches: []ast.Term{conInt(0)},
	}
	m := New(DefaultCostModel, DefaultBudget)
	_, err := m.Run(term)
	if errors.Root(err) != ErrMissingCaseBranch {
		t.Fatalf("got %v, want %v", err, ErrMissingCaseBranch)
	}
	if !IsInternal(err) {
		t.Fatal("missing branch should classify as internal")
	}
}

func TestPartialApplicationDischarges(t *testing.T) {
	out, _ := run(t, ast.Apply{Function: ast.Builtin{Fn: builtins.AddInteger}, Argument: conInt(2)})
	app, ok := out.(ast.Apply)
	if !ok {
		t.Fatalf("result is %T, want Apply", out)
	}
	if _, ok := app.Function.(ast.Builtin); !ok {
		t.Fatalf("function is %T, want Builtin", app.Function)
	}
	wantInt(t, app.Argument, 2)
}

func TestLambdaResultDischargesEnvironment(t *testing.T) {
	// ((lam x (lam y x)) 5) reduces to a lambda whose captured x is
	// substituted back in.
	term := ast.Apply{
		Function: ast.Lambda{
			ParameterName: ast.Name{Text: "x"},
			Body: ast.Lambda{
				ParameterName: ast.Name{Text: "y"},
				Body:          ast.Var{Name: ast.Name{Text: "x", Index: 2}},
			},
		},
		Argument: conInt(5),
	}
	out, _ := run(t, term)
	lam, ok := out.(ast.Lambda)
	if !ok {
		t.Fatalf("result is %T, want Lambda", out)
	}
	wantInt(t, lam.Body, 5)
}

func TestForceOfNonDelay(t *testing.T) {
	m := New(DefaultCostModel, DefaultBudget)
	_, err := m.Run(ast.Force{Term: conInt(1)})
	if errors.Root(err) != ErrNonPolymorphicForce {
		t.Fatalf("got %v, want %v", err, ErrNonPolymorphicForce)
	}
	if !IsInternal(err) {
		t.Fatal("force of constant should classify as internal")
	}
}

func TestApplyNonFunction(t *testing.T) {
	m := New(DefaultCostModel, DefaultBudget)
	_, err := m.Run(ast.Apply{Function: conInt(1), Argument: conInt(2)})
	if errors.Root(err) != ErrNonFunctionApply {
		t.Fatalf("got %v, want %v", err, ErrNonFunctionApply)
	}
}

func TestOpenTerm(t *testing.T) {
	m := New(DefaultCostModel, DefaultBudget)
	_, err := m.Run(ast.Var{Name: ast.Name{Index: 1}})
	if errors.Root(err) != ErrOpenTermEvaluated {
		t.Fatalf("got %v, want %v", err, ErrOpenTermEvaluated)
	}
}

func TestLanguageGatesBuiltins(t *testing.T) {
	term := ast.Apply{
		Function: ast.Builtin{Fn: builtins.SerialiseData},
		Argument: ast.Constant{Con: ast.Data{Inner: data.Integer{Inner: big.NewInt(5)}}},
	}
	m := New(DefaultCostModel, DefaultBudget)
	m.Language = builtins.PlutusV1
	_, err := m.Run(term)
	if errors.Root(err) != builtins.ErrUnknownBuiltin {
		t.Fatalf("got %v, want %v", err, builtins.ErrUnknownBuiltin)
	}
	if _, err := New(DefaultCostModel, DefaultBudget).Run(term); err != nil {
		testutil.FatalErr(t, err)
	}
}

func TestDeepApplicationChain(t *testing.T) {
	// 20k nested additions exercise the heap frame stack well past
	// where native recursion would be risky.
	const n = 20000
	term := conInt(0)
	for i := 0; i < n; i++ {
		term = apply2(builtins.AddInteger, term, conInt(1))
	}
	m := New(DefaultCostModel, ExBudget{CPU: 1 << 62, Mem: 1 << 62})
	out, err := m.Run(term)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	wantInt(t, out, n)
}
