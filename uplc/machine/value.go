package machine

import (
	"math/big"

	"github.com/spacebudz/aiken/uplc/ast"
	"github.com/spacebudz/aiken/uplc/builtins"
	"github.com/spacebudz/aiken/uplc/data"
)

// Value is what the machine returns from reducing a term: a constant,
// a suspended closure, a partially applied builtin, or a constructor
// value. Thunks are also values so environments can bind arguments
// without evaluating them.
type Value interface {
	isValue()
}

// VCon is a constant value.
type VCon struct {
	Con ast.Con
}

// VDelay is a delayed body closed over its environment.
type VDelay struct {
	Body ast.Term
	Env  *Env
}

// VLambda is a function closure.
type VLambda struct {
	ParameterName ast.Name
	Body          ast.Term
	Env           *Env
}

// VBuiltin is a builtin awaiting forces and arguments.
type VBuiltin struct {
	Fn     builtins.DefaultFunction
	Forces int // forces still required before arguments
	Args   []Value
}

// VConstr is a constructor value with evaluated fields.
type VConstr struct {
	Tag    uint64
	Fields []Value
}

// VThunk is an unevaluated argument closed over the caller's
// environment. Looking the binding up computes the term anew each
// time: call-by-name without sharing.
type VThunk struct {
	Term ast.Term
	Env  *Env
}

func (VCon) isValue()     {}
func (VDelay) isValue()   {}
func (VLambda) isValue()  {}
func (VBuiltin) isValue() {}
func (VConstr) isValue()  {}
func (VThunk) isValue()   {}

// Env is a persistent association from de Bruijn index to value.
// Extension allocates a new node; existing nodes are never mutated, so
// environments are safely shared between closures and across branches
// of evaluation.
type Env struct {
	value  Value
	parent *Env
}

func (e *Env) extend(v Value) *Env {
	return &Env{value: v, parent: e}
}

// lookup resolves a 1-based de Bruijn index: 1 is the innermost
// binding.
func (e *Env) lookup(index uint64) (Value, bool) {
	if index == 0 {
		return nil, false
	}
	for n := e; n != nil; n = n.parent {
		index--
		if index == 0 {
			return n.value, true
		}
	}
	return nil, false
}

// exMem is the abstract memory size of a value, in 64-bit words, used
// by the builtin cost functions.
func exMem(v Value) int64 {
	switch x := v.(type) {
	case VCon:
		return conExMem(x.Con)
	default:
		// Closures, builtins and constructors count as one word.
		return 1
	}
}

func conExMem(c ast.Con) int64 {
	switch x := c.(type) {
	case ast.Integer:
		return intExMem(x.Inner)
	case ast.ByteString:
		return byteStringExMem(x.Inner)
	case ast.String:
		return int64(len(x.Inner))
	case ast.Unit, ast.Bool:
		return 1
	case ast.ProtoList:
		var sum int64
		for _, el := range x.List {
			sum += conExMem(el)
		}
		return sum
	case ast.ProtoPair:
		return conExMem(x.First) + conExMem(x.Second)
	case ast.Data:
		return dataExMem(x.Inner)
	}
	return 1
}

func intExMem(n *big.Int) int64 {
	if n.Sign() == 0 {
		return 1
	}
	return int64((n.BitLen() + 63) / 64)
}

func byteStringExMem(b []byte) int64 {
	if len(b) == 0 {
		return 1
	}
	return int64((len(b)-1)/8 + 1)
}

// Each data node costs four words plus the size of its leaves.
func dataExMem(d data.PlutusData) int64 {
	var sum int64
	stack := []data.PlutusData{d}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		sum += 4
		switch x := top.(type) {
		case data.Constr:
			stack = append(stack, x.Fields...)
		case data.Map:
			for _, p := range x.Pairs {
				stack = append(stack, p.Key, p.Value)
			}
		case data.List:
			stack = append(stack, x.Items...)
		case data.Integer:
			sum += intExMem(x.Inner)
		case data.ByteString:
			sum += byteStringExMem(x.Inner)
		}
	}
	return sum
}
