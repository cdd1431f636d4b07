// Package parser reads and writes the textual concrete syntax for
// untyped Plutus Core programs.
//
// Variables may be written by name, resolved to de Bruijn indices
// against the lexical scope at parse time, or directly as numeric
// indices. The pretty-printer emits the numeric dialect, so its output
// always re-parses to the same indices regardless of shadowing.
package parser

import (
	"math/big"
	"strconv"

	"github.com/spacebudz/aiken/errors"
	"github.com/spacebudz/aiken/uplc/ast"
	"github.com/spacebudz/aiken/uplc/builtins"
	"github.com/spacebudz/aiken/uplc/data"
)

var ErrUnboundName = errors.New("unbound variable name")

type parser struct {
	s     *scanner
	tok   token
	ahead bool
	scope []string
}

func newParser(src string) *parser {
	return &parser{s: newScanner(src)}
}

func (p *parser) next() (token, error) {
	if p.ahead {
		p.ahead = false
		return p.tok, nil
	}
	return p.s.next()
}

func (p *parser) peek() (token, error) {
	if !p.ahead {
		t, err := p.s.next()
		if err != nil {
			return token{}, err
		}
		p.tok = t
		p.ahead = true
	}
	return p.tok, nil
}

func (p *parser) errf(t token, format string, args ...interface{}) error {
	return errors.WithDetailf(ErrSyntax, "line %d, column %d: "+format,
		append([]interface{}{t.line, t.col}, args...)...)
}

func (p *parser) expect(kind tokenKind) (token, error) {
	t, err := p.next()
	if err != nil {
		return token{}, err
	}
	if t.kind != kind {
		return token{}, p.errf(t, "expected %s, got %s", kind, t.kind)
	}
	return t, nil
}

func (p *parser) expectSymbol(text string) error {
	t, err := p.expect(tokSymbol)
	if err != nil {
		return err
	}
	if t.text != text {
		return p.errf(t, "expected %q, got %q", text, t.text)
	}
	return nil
}

// ParseProgram parses a full `(program N.N.N term)` wrapper.
func ParseProgram(src string) (ast.Program, error) {
	p := newParser(src)
	if _, err := p.expect(tokLParen); err != nil {
		return ast.Program{}, err
	}
	if err := p.expectSymbol("program"); err != nil {
		return ast.Program{}, err
	}
	version, err := p.version()
	if err != nil {
		return ast.Program{}, err
	}
	term, err := p.term()
	if err != nil {
		return ast.Program{}, err
	}
	if _, err := p.expect(tokRParen); err != nil {
		return ast.Program{}, err
	}
	if _, err := p.expect(tokEOF); err != nil {
		return ast.Program{}, err
	}
	return ast.Program{Version: version, Term: term}, nil
}

// ParseTerm parses a bare term with no program wrapper.
func ParseTerm(src string) (ast.Term, error) {
	p := newParser(src)
	term, err := p.term()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokEOF); err != nil {
		return nil, err
	}
	return term, nil
}

func (p *parser) version() (ast.Version, error) {
	t, err := p.expect(tokSymbol)
	if err != nil {
		return ast.Version{}, err
	}
	var parts [3]uint64
	rest := t.text
	for i := 0; i < 3; i++ {
		seg := rest
		if i < 2 {
			dot := -1
			for j := 0; j < len(rest); j++ {
				if rest[j] == '.' {
					dot = j
					break
				}
			}
			if dot < 0 {
				return ast.Version{}, p.errf(t, "expected version N.N.N, got %q", t.text)
			}
			seg, rest = rest[:dot], rest[dot+1:]
		}
		n, err := strconv.ParseUint(seg, 10, 64)
		if err != nil {
			return ast.Version{}, p.errf(t, "expected version N.N.N, got %q", t.text)
		}
		parts[i] = n
	}
	return ast.Version{Major: parts[0], Minor: parts[1], Patch: parts[2]}, nil
}

func (p *parser) term() (ast.Term, error) {
	t, err := p.next()
	if err != nil {
		return nil, err
	}
	switch t.kind {
	case tokLBracket:
		return p.application()
	case tokLParen:
		return p.compound()
	case tokSymbol:
		if t.text == "error" {
			return ast.Error{}, nil
		}
		return p.variable(t)
	default:
		return nil, p.errf(t, "expected a term, got %s", t.kind)
	}
}

// application parses `[f a b ...]`, folding into left-nested applies.
func (p *parser) application() (ast.Term, error) {
	fun, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		t, err := p.peek()
		if err != nil {
			return nil, err
		}
		if t.kind == tokRBracket {
			p.ahead = false
			return fun, nil
		}
		arg, err := p.term()
		if err != nil {
			return nil, err
		}
		fun = ast.Apply{Function: fun, Argument: arg}
	}
}

func (p *parser) compound() (ast.Term, error) {
	kw, err := p.expect(tokSymbol)
	if err != nil {
		return nil, err
	}
	var term ast.Term
	switch kw.text {
	case "lam":
		name, err := p.expect(tokSymbol)
		if err != nil {
			return nil, err
		}
		p.scope = append(p.scope, name.text)
		body, err := p.term()
		p.scope = p.scope[:len(p.scope)-1]
		if err != nil {
			return nil, err
		}
		term = ast.Lambda{ParameterName: ast.Name{Text: name.text}, Body: body}

	case "delay":
		inner, err := p.term()
		if err != nil {
			return nil, err
		}
		term = ast.Delay{Term: inner}

	case "force":
		inner, err := p.term()
		if err != nil {
			return nil, err
		}
		term = ast.Force{Term: inner}

	case "error":
		term = ast.Error{}

	case "con":
		typ, err := p.conType()
		if err != nil {
			return nil, err
		}
		c, err := p.conLiteral(typ)
		if err != nil {
			return nil, err
		}
		term = ast.Constant{Con: c}

	case "builtin":
		name, err := p.expect(tokSymbol)
		if err != nil {
			return nil, err
		}
		fn, err := builtins.FromName(name.text)
		if err != nil {
			return nil, errors.WithDetailf(ErrSyntax, "line %d, column %d: %s", name.line, name.col, errors.Detail(err))
		}
		term = ast.Builtin{Fn: fn}

	case "constr":
		tagTok, err := p.expect(tokSymbol)
		if err != nil {
			return nil, err
		}
		tag, err := strconv.ParseUint(tagTok.text, 10, 64)
		if err != nil {
			return nil, p.errf(tagTok, "expected constructor tag, got %q", tagTok.text)
		}
		fields, err := p.termsUntilRParen()
		if err != nil {
			return nil, err
		}
		return ast.Constr{Tag: tag, Fields: fields}, nil

	case "case":
		scrut, err := p.term()
		if err != nil {
			return nil, err
		}
		branches, err := p.termsUntilRParen()
		if err != nil {
			return nil, err
		}
		return ast.Case{Constr: scrut, Branches: branches}, nil

	default:
		return nil, p.errf(kw, "expected term keyword, got %q", kw.text)
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	return term, nil
}

func (p *parser) termsUntilRParen() ([]ast.Term, error) {
	var terms []ast.Term
	for {
		t, err := p.peek()
		if err != nil {
			return nil, err
		}
		if t.kind == tokRParen {
			p.ahead = false
			return terms, nil
		}
		term, err := p.term()
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
}

func (p *parser) variable(t token) (ast.Term, error) {
	if looksNumeric(t.text) {
		index, err := strconv.ParseUint(t.text, 10, 64)
		if err != nil || index == 0 {
			return nil, p.errf(t, "expected de Bruijn index >= 1, got %q", t.text)
		}
		return ast.Var{Name: ast.Name{Index: index}}, nil
	}
	// Innermost binding wins.
	for i := len(p.scope) - 1; i >= 0; i-- {
		if p.scope[i] == t.text {
			return ast.Var{Name: ast.Name{
				Text:  t.text,
				Index: uint64(len(p.scope) - i),
			}}, nil
		}
	}
	return nil, errors.WithDetailf(ErrUnboundName, "line %d, column %d: %q", t.line, t.col, t.text)
}

func (p *parser) conType() (ast.Type, error) {
	t, err := p.next()
	if err != nil {
		return nil, err
	}
	switch t.kind {
	case tokSymbol:
		switch t.text {
		case "integer":
			return ast.TInteger{}, nil
		case "bytestring":
			return ast.TByteString{}, nil
		case "string":
			return ast.TString{}, nil
		case "bool":
			return ast.TBool{}, nil
		case "unit":
			return ast.TUnit{}, nil
		case "data":
			return ast.TData{}, nil
		}
		return nil, p.errf(t, "expected constant type, got %q", t.text)
	case tokLParen:
		kw, err := p.expect(tokSymbol)
		if err != nil {
			return nil, err
		}
		switch kw.text {
		case "list":
			elem, err := p.conType()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tokRParen); err != nil {
				return nil, err
			}
			return ast.TList{Elem: elem}, nil
		case "pair":
			first, err := p.conType()
			if err != nil {
				return nil, err
			}
			second, err := p.conType()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tokRParen); err != nil {
				return nil, err
			}
			return ast.TPair{First: first, Second: second}, nil
		}
		return nil, p.errf(kw, "expected list or pair, got %q", kw.text)
	default:
		return nil, p.errf(t, "expected constant type, got %s", t.kind)
	}
}

// conLiteral parses a constant literal whose grammar is directed by
// its declared type.
func (p *parser) conLiteral(typ ast.Type) (ast.Con, error) {
	switch ty := typ.(type) {
	case ast.TInteger:
		return p.integerLiteral()

	case ast.TByteString:
		t, err := p.expect(tokBytes)
		if err != nil {
			return nil, err
		}
		return ast.ByteString{Inner: t.bytes}, nil

	case ast.TString:
		t, err := p.expect(tokString)
		if err != nil {
			return nil, err
		}
		return ast.String{Inner: t.text}, nil

	case ast.TBool:
		t, err := p.expect(tokSymbol)
		if err != nil {
			return nil, err
		}
		switch t.text {
		case "True":
			return ast.Bool{Inner: true}, nil
		case "False":
			return ast.Bool{Inner: false}, nil
		}
		return nil, p.errf(t, "expected True or False, got %q", t.text)

	case ast.TUnit:
		if _, err := p.expect(tokLParen); err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return ast.Unit{}, nil

	case ast.TList:
		items, err := p.bracketed(func() (ast.Con, error) {
			return p.conLiteral(ty.Elem)
		})
		if err != nil {
			return nil, err
		}
		return ast.ProtoList{LTyp: ty.Elem, List: items}, nil

	case ast.TPair:
		if _, err := p.expect(tokLParen); err != nil {
			return nil, err
		}
		first, err := p.conLiteral(ty.First)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokComma); err != nil {
			return nil, err
		}
		second, err := p.conLiteral(ty.Second)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return ast.ProtoPair{FstTyp: ty.First, SndTyp: ty.Second, First: first, Second: second}, nil

	case ast.TData:
		d, err := p.dataLiteral()
		if err != nil {
			return nil, err
		}
		return ast.Data{Inner: d}, nil
	}
	return nil, errors.WithDetailf(ErrSyntax, "unsupported constant type %s", typ)
}

func (p *parser) integerLiteral() (ast.Integer, error) {
	t, err := p.expect(tokSymbol)
	if err != nil {
		return ast.Integer{}, err
	}
	n, ok := new(big.Int).SetString(t.text, 10)
	if !ok {
		return ast.Integer{}, p.errf(t, "expected integer, got %q", t.text)
	}
	return ast.Integer{Inner: n}, nil
}

// bracketed parses `[x, y, z]` with parse applied to each element.
func bracketedItems[T any](p *parser, parse func() (T, error)) ([]T, error) {
	if _, err := p.expect(tokLBracket); err != nil {
		return nil, err
	}
	var items []T
	for {
		t, err := p.peek()
		if err != nil {
			return nil, err
		}
		if t.kind == tokRBracket {
			p.ahead = false
			return items, nil
		}
		if len(items) > 0 {
			if _, err := p.expect(tokComma); err != nil {
				return nil, err
			}
		}
		item, err := parse()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
}

func (p *parser) bracketed(parse func() (ast.Con, error)) ([]ast.Con, error) {
	return bracketedItems(p, parse)
}

// dataLiteral parses the data notation: (Constr n [..]), (Map [..]),
// (List [..]), (I n), (B #hex).
func (p *parser) dataLiteral() (data.PlutusData, error) {
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	kw, err := p.expect(tokSymbol)
	if err != nil {
		return nil, err
	}
	var d data.PlutusData
	switch kw.text {
	case "Constr":
		tagTok, err := p.expect(tokSymbol)
		if err != nil {
			return nil, err
		}
		tag, err := strconv.ParseUint(tagTok.text, 10, 64)
		if err != nil {
			return nil, p.errf(tagTok, "expected constructor tag, got %q", tagTok.text)
		}
		fields, err := bracketedItems(p, p.dataLiteral)
		if err != nil {
			return nil, err
		}
		d = data.Constr{Tag: tag, Fields: fields}

	case "Map":
		pairs, err := bracketedItems(p, func() (data.Pair, error) {
			if _, err := p.expect(tokLParen); err != nil {
				return data.Pair{}, err
			}
			key, err := p.dataLiteral()
			if err != nil {
				return data.Pair{}, err
			}
			if _, err := p.expect(tokComma); err != nil {
				return data.Pair{}, err
			}
			value, err := p.dataLiteral()
			if err != nil {
				return data.Pair{}, err
			}
			if _, err := p.expect(tokRParen); err != nil {
				return data.Pair{}, err
			}
			return data.Pair{Key: key, Value: value}, nil
		})
		if err != nil {
			return nil, err
		}
		d = data.Map{Pairs: pairs}

	case "List":
		items, err := bracketedItems(p, p.dataLiteral)
		if err != nil {
			return nil, err
		}
		d = data.List{Items: items}

	case "I":
		n, err := p.integerLiteral()
		if err != nil {
			return nil, err
		}
		d = data.Integer{Inner: n.Inner}

	case "B":
		t, err := p.expect(tokBytes)
		if err != nil {
			return nil, err
		}
		d = data.ByteString{Inner: t.bytes}

	default:
		return nil, p.errf(kw, "expected Constr, Map, List, I or B, got %q", kw.text)
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	return d, nil
}
