package machine

import "github.com/spacebudz/aiken/uplc/ast"

const maxDischargeDepth = 1 << 15

// discharge rebuilds a machine value as a term. Closures substitute
// their captured environment back into the body: variables bound under
// lambdas that are still part of the term stay put, anything deeper
// resolves through the environment. Discharged values are closed, so
// no index shifting is needed.
func discharge(v Value) (ast.Term, error) {
	return dischargeValue(v, 0)
}

func dischargeValue(v Value, depth int) (ast.Term, error) {
	if depth > maxDischargeDepth {
		return nil, ErrDischargeTooDeep
	}
	switch x := v.(type) {
	case VCon:
		return ast.Constant{Con: x.Con}, nil

	case VDelay:
		body, err := dischargeTerm(x.Body, x.Env, 0, depth+1)
		if err != nil {
			return nil, err
		}
		return ast.Delay{Term: body}, nil

	case VLambda:
		body, err := dischargeTerm(x.Body, x.Env, 1, depth+1)
		if err != nil {
			return nil, err
		}
		return ast.Lambda{ParameterName: x.ParameterName, Body: body}, nil

	case VBuiltin:
		var t ast.Term = ast.Builtin{Fn: x.Fn}
		for i := 0; i < x.Fn.Forces()-x.Forces; i++ {
			t = ast.Force{Term: t}
		}
		for _, a := range x.Args {
			at, err := dischargeValue(a, depth+1)
			if err != nil {
				return nil, err
			}
			t = ast.Apply{Function: t, Argument: at}
		}
		return t, nil

	case VConstr:
		fields := make([]ast.Term, len(x.Fields))
		for i, f := range x.Fields {
			ft, err := dischargeValue(f, depth+1)
			if err != nil {
				return nil, err
			}
			fields[i] = ft
		}
		return ast.Constr{Tag: x.Tag, Fields: fields}, nil

	case VThunk:
		return dischargeTerm(x.Term, x.Env, 0, depth+1)
	}
	return nil, ErrDischargeTooDeep
}

// dischargeTerm substitutes env into term. lams counts lambda and
// other binders passed on the way down; indices at or below it are
// bound within the term being rebuilt.
func dischargeTerm(t ast.Term, env *Env, lams uint64, depth int) (ast.Term, error) {
	if depth > maxDischargeDepth {
		return nil, ErrDischargeTooDeep
	}
	switch x := t.(type) {
	case ast.Var:
		if x.Name.Index <= lams {
			return x, nil
		}
		v, ok := env.lookup(x.Name.Index - lams)
		if !ok {
			return x, nil
		}
		return dischargeValue(v, depth+1)

	case ast.Lambda:
		body, err := dischargeTerm(x.Body, env, lams+1, depth+1)
		if err != nil {
			return nil, err
		}
		return ast.Lambda{ParameterName: x.ParameterName, Body: body}, nil

	case ast.Delay:
		inner, err := dischargeTerm(x.Term, env, lams, depth+1)
		if err != nil {
			return nil, err
		}
		return ast.Delay{Term: inner}, nil

	case ast.Force:
		inner, err := dischargeTerm(x.Term, env, lams, depth+1)
		if err != nil {
			return nil, err
		}
		return ast.Force{Term: inner}, nil

	case ast.Apply:
		fun, err := dischargeTerm(x.Function, env, lams, depth+1)
		if err != nil {
			return nil, err
		}
		arg, err := dischargeTerm(x.Argument, env, lams, depth+1)
		if err != nil {
			return nil, err
		}
		return ast.Apply{Function: fun, Argument: arg}, nil

	case ast.Constr:
		fields := make([]ast.Term, len(x.Fields))
		for i, f := range x.Fields {
			ft, err := dischargeTerm(f, env, lams, depth+1)
			if err != nil {
				return nil, err
			}
			fields[i] = ft
		}
		return ast.Constr{Tag: x.Tag, Fields: fields}, nil

	case ast.Case:
		scrut, err := dischargeTerm(x.Constr, env, lams, depth+1)
		if err != nil {
			return nil, err
		}
		branches := make([]ast.Term, len(x.Branches))
		for i, b := range x.Branches {
			bt, err := dischargeTerm(b, env, lams, depth+1)
			if err != nil {
				return nil, err
			}
			branches[i] = bt
		}
		return ast.Case{Constr: scrut, Branches: branches}, nil
	}
	// Constant, Builtin and Error contain no variables.
	return t, nil
}
