package parser

import (
	"fmt"
	"strings"

	"github.com/spacebudz/aiken/uplc/ast"
)

// Print renders a program in concrete syntax. Variables come out as
// numeric de Bruijn indices, so the output re-parses to the same
// indices no matter how the original names shadowed each other.
func Print(p ast.Program) string {
	var b strings.Builder
	fmt.Fprintf(&b, "(program %d.%d.%d ", p.Version.Major, p.Version.Minor, p.Version.Patch)
	writeTerm(&b, p.Term, 0)
	b.WriteByte(')')
	return b.String()
}

// PrintTerm renders a bare term.
func PrintTerm(t ast.Term) string {
	var b strings.Builder
	writeTerm(&b, t, 0)
	return b.String()
}

func writeTerm(b *strings.Builder, t ast.Term, depth int) {
	switch x := t.(type) {
	case ast.Var:
		fmt.Fprintf(b, "%d", x.Name.Index)

	case ast.Delay:
		b.WriteString("(delay ")
		writeTerm(b, x.Term, depth)
		b.WriteByte(')')

	case ast.Lambda:
		fmt.Fprintf(b, "(lam %s ", paramName(x.ParameterName, depth))
		writeTerm(b, x.Body, depth+1)
		b.WriteByte(')')

	case ast.Apply:
		// Collapse a left-nested apply spine into one bracket.
		spine := []ast.Term{x.Argument}
		fun := x.Function
		for {
			app, ok := fun.(ast.Apply)
			if !ok {
				break
			}
			spine = append(spine, app.Argument)
			fun = app.Function
		}
		b.WriteByte('[')
		writeTerm(b, fun, depth)
		for i := len(spine) - 1; i >= 0; i-- {
			b.WriteByte(' ')
			writeTerm(b, spine[i], depth)
		}
		b.WriteByte(']')

	case ast.Constant:
		fmt.Fprintf(b, "(con %s %s)", x.Con.Typ(), ast.ConString(x.Con))

	case ast.Force:
		b.WriteString("(force ")
		writeTerm(b, x.Term, depth)
		b.WriteByte(')')

	case ast.Error:
		b.WriteString("(error)")

	case ast.Builtin:
		fmt.Fprintf(b, "(builtin %s)", x.Fn)

	case ast.Constr:
		fmt.Fprintf(b, "(constr %d", x.Tag)
		for _, f := range x.Fields {
			b.WriteByte(' ')
			writeTerm(b, f, depth)
		}
		b.WriteByte(')')

	case ast.Case:
		b.WriteString("(case ")
		writeTerm(b, x.Constr, depth)
		for _, br := range x.Branches {
			b.WriteByte(' ')
			writeTerm(b, br, depth)
		}
		b.WriteByte(')')
	}
}

// paramName keeps the source name when it is still a printable symbol,
// synthesizing one otherwise. The name is only decoration; variables
// reference binders by index.
func paramName(n ast.Name, depth int) string {
	if n.Text != "" && !looksNumeric(n.Text) && isSymbol(n.Text) {
		return n.Text
	}
	return fmt.Sprintf("i_%d", depth)
}

func isSymbol(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isSymbolChar(s[i]) {
			return false
		}
	}
	return true
}
