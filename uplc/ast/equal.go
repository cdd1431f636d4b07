package ast

// TermEqual reports structural equality of two terms. Binder and
// variable name text is ignored; under de Bruijn indices only the
// numbers carry meaning.
func TermEqual(a, b Term) bool {
	switch x := a.(type) {
	case Var:
		y, ok := b.(Var)
		return ok && x.Name.Index == y.Name.Index
	case Delay:
		y, ok := b.(Delay)
		return ok && TermEqual(x.Term, y.Term)
	case Lambda:
		y, ok := b.(Lambda)
		return ok && TermEqual(x.Body, y.Body)
	case Apply:
		y, ok := b.(Apply)
		return ok && TermEqual(x.Function, y.Function) && TermEqual(x.Argument, y.Argument)
	case Constant:
		y, ok := b.(Constant)
		return ok && ConEqual(x.Con, y.Con)
	case Force:
		y, ok := b.(Force)
		return ok && TermEqual(x.Term, y.Term)
	case Error:
		_, ok := b.(Error)
		return ok
	case Builtin:
		y, ok := b.(Builtin)
		return ok && x.Fn == y.Fn
	case Constr:
		y, ok := b.(Constr)
		if !ok || x.Tag != y.Tag || len(x.Fields) != len(y.Fields) {
			return false
		}
		for i := range x.Fields {
			if !TermEqual(x.Fields[i], y.Fields[i]) {
				return false
			}
		}
		return true
	case Case:
		y, ok := b.(Case)
		if !ok || !TermEqual(x.Constr, y.Constr) || len(x.Branches) != len(y.Branches) {
			return false
		}
		for i := range x.Branches {
			if !TermEqual(x.Branches[i], y.Branches[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// ProgramEqual is TermEqual plus the version triple.
func ProgramEqual(a, b Program) bool {
	return a.Version == b.Version && TermEqual(a.Term, b.Term)
}
