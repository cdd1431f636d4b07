// Package ast defines the abstract syntax of untyped Plutus Core
// programs: terms, constants and the program wrapper with its language
// version, plus the flat and CBOR wire codecs for them.
package ast

import (
	"fmt"

	"github.com/spacebudz/aiken/errors"
	"github.com/spacebudz/aiken/uplc/builtins"
)

// Name identifies a variable binding. Index is the de Bruijn index
// (1-based, innermost binder first); Text is the display name, which
// carries no meaning for evaluation. Decoded programs carry no name
// text; printers synthesize one when needed.
type Name struct {
	Text  string
	Index uint64
}

func (n Name) String() string {
	if n.Text == "" {
		return fmt.Sprintf("i_%d", n.Index)
	}
	return n.Text
}

// Term is a node of the program tree. Terms are immutable once built
// and may be shared freely across trees and across concurrently
// running machines.
type Term interface {
	isTerm()
}

// Var references a bound variable.
type Var struct {
	Name Name
}

// Delay suspends its body until forced.
type Delay struct {
	Term Term
}

// Lambda abstracts over one variable.
type Lambda struct {
	ParameterName Name
	Body          Term
}

// Apply applies Function to Argument.
type Apply struct {
	Function Term
	Argument Term
}

// Constant carries a fully reduced value.
type Constant struct {
	Con Con
}

// Force demands the body of a Delay.
type Force struct {
	Term Term
}

// Error aborts evaluation when reached.
type Error struct{}

// Builtin names a builtin function.
type Builtin struct {
	Fn builtins.DefaultFunction
}

// Constr builds a tagged sum value (language version 1.1.0 and up).
type Constr struct {
	Tag    uint64
	Fields []Term
}

// Case scrutinizes a Constr value, selecting the branch at its tag
// (language version 1.1.0 and up).
type Case struct {
	Constr   Term
	Branches []Term
}

func (Var) isTerm()      {}
func (Delay) isTerm()    {}
func (Lambda) isTerm()   {}
func (Apply) isTerm()    {}
func (Constant) isTerm() {}
func (Force) isTerm()    {}
func (Error) isTerm()    {}
func (Builtin) isTerm()  {}
func (Constr) isTerm()   {}
func (Case) isTerm()     {}

// Version is the three-component language version of a program.
type Version struct {
	Major, Minor, Patch uint64
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// V1_0_0 is the version of every PlutusV1/V2 on-chain program.
var V1_0_0 = Version{1, 0, 0}

// V1_1_0 introduced the Constr and Case terms.
var V1_1_0 = Version{1, 1, 0}

// AtLeast reports whether v is o or newer.
func (v Version) AtLeast(o Version) bool {
	if v.Major != o.Major {
		return v.Major > o.Major
	}
	if v.Minor != o.Minor {
		return v.Minor > o.Minor
	}
	return v.Patch >= o.Patch
}

// Program is a term together with its language version.
type Program struct {
	Version Version
	Term    Term
}

// Apply wraps the program's term in an application of the given
// argument terms, left to right. This is how a validator receives its
// datum, redeemer and script context.
func (p Program) Apply(args ...Term) Program {
	t := p.Term
	for _, arg := range args {
		t = Apply{Function: t, Argument: arg}
	}
	return Program{Version: p.Version, Term: t}
}

var ErrOpenTerm = errors.New("open term")

// Wellformed checks that every variable reference stays inside its
// binding depth. Evaluating an open term is an internal fault, so
// callers handing untrusted trees to the machine should check first.
func Wellformed(t Term) error {
	return wellformed(t, 0)
}

func wellformed(t Term, depth uint64) error {
	// Terms nest arbitrarily deep in adversarial input, so walk an
	// explicit stack instead of recursing per node.
	type item struct {
		t     Term
		depth uint64
	}
	stack := []item{{t, depth}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch x := it.t.(type) {
		case Var:
			if x.Name.Index == 0 || x.Name.Index > it.depth {
				return errors.WithDetailf(ErrOpenTerm, "index %d at depth %d", x.Name.Index, it.depth)
			}
		case Delay:
			stack = append(stack, item{x.Term, it.depth})
		case Lambda:
			stack = append(stack, item{x.Body, it.depth + 1})
		case Apply:
			stack = append(stack, item{x.Function, it.depth}, item{x.Argument, it.depth})
		case Force:
			stack = append(stack, item{x.Term, it.depth})
		case Constr:
			for _, f := range x.Fields {
				stack = append(stack, item{f, it.depth})
			}
		case Case:
			stack = append(stack, item{x.Constr, it.depth})
			for _, b := range x.Branches {
				stack = append(stack, item{b, it.depth})
			}
		}
	}
	return nil
}
