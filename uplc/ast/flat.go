package ast

import (
	"github.com/spacebudz/aiken/encoding/flat"
	"github.com/spacebudz/aiken/errors"
	"github.com/spacebudz/aiken/uplc/builtins"
	"github.com/spacebudz/aiken/uplc/data"
)

// Wire tags. 4 bits each on the wire.
const (
	tagVar      = 0
	tagDelay    = 1
	tagLambda   = 2
	tagApply    = 3
	tagConstant = 4
	tagForce    = 5
	tagError    = 6
	tagBuiltin  = 7
	tagConstr   = 8
	tagCase     = 9
)

// Constant type tags.
const (
	typeInteger    = 0
	typeByteString = 1
	typeString     = 2
	typeUnit       = 3
	typeBool       = 4
	typeList       = 5
	typePair       = 6
	typeApply      = 7
	typeData       = 8
)

const (
	termTagWidth = 4
	typeTagWidth = 4
	builtinWidth = 7

	// Each level of term nesting consumes input bits, but an
	// adversarial stream can still nest deeply enough to matter for
	// the host stack, so decoding refuses past this depth.
	maxDecodeDepth = 1 << 15
)

var (
	ErrUnknownTermTag  = errors.New("unknown term constructor tag")
	ErrUnknownTypeTag  = errors.New("unknown constant type tag")
	ErrVersionTooNew   = errors.New("program version not supported")
	ErrTermTooDeep     = errors.New("term nesting too deep")
	ErrConstTypeApply  = errors.New("dangling constant type application")
	ErrVersionGatedTag = errors.New("term constructor not available at this program version")
)

// Flat returns the bit-exact wire encoding of the program.
func (p Program) Flat() ([]byte, error) {
	e := flat.NewEncoder()
	e.Word(p.Version.Major)
	e.Word(p.Version.Minor)
	e.Word(p.Version.Patch)
	err := encodeTerm(e, p.Term)
	if err != nil {
		return nil, err
	}
	e.Filler()
	return e.Data(), nil
}

// UnFlat decodes a program from its wire encoding, rejecting unknown
// tags, versions newer than this decoder, truncated input and
// trailing data.
func UnFlat(b []byte) (Program, error) {
	d := flat.NewDecoder(b)
	var p Program
	var err error
	p.Version.Major, err = d.Word()
	if err != nil {
		return Program{}, err
	}
	p.Version.Minor, err = d.Word()
	if err != nil {
		return Program{}, err
	}
	p.Version.Patch, err = d.Word()
	if err != nil {
		return Program{}, err
	}
	if p.Version.Major != 1 || p.Version.Minor > 1 {
		return Program{}, errors.WithDetailf(ErrVersionTooNew, "version %s", p.Version)
	}
	p.Term, err = decodeTerm(d, p.Version, 0)
	if err != nil {
		return Program{}, err
	}
	err = d.Filler()
	if err != nil {
		return Program{}, err
	}
	err = d.Done()
	if err != nil {
		return Program{}, err
	}
	return p, nil
}

func encodeTerm(e *flat.Encoder, t Term) error {
	switch x := t.(type) {
	case Var:
		e.Bits8(tagVar, termTagWidth)
		e.Word(x.Name.Index)
	case Delay:
		e.Bits8(tagDelay, termTagWidth)
		return encodeTerm(e, x.Term)
	case Lambda:
		// The binder carries no information in de Bruijn form.
		e.Bits8(tagLambda, termTagWidth)
		return encodeTerm(e, x.Body)
	case Apply:
		e.Bits8(tagApply, termTagWidth)
		err := encodeTerm(e, x.Function)
		if err != nil {
			return err
		}
		return encodeTerm(e, x.Argument)
	case Constant:
		e.Bits8(tagConstant, termTagWidth)
		return encodeCon(e, x.Con)
	case Force:
		e.Bits8(tagForce, termTagWidth)
		return encodeTerm(e, x.Term)
	case Error:
		e.Bits8(tagError, termTagWidth)
	case Builtin:
		if !builtins.Valid(x.Fn) {
			return errors.WithDetailf(builtins.ErrUnknownBuiltin, "id %d", x.Fn)
		}
		e.Bits8(tagBuiltin, termTagWidth)
		e.Bits8(byte(x.Fn), builtinWidth)
	case Constr:
		e.Bits8(tagConstr, termTagWidth)
		e.Word(x.Tag)
		for _, f := range x.Fields {
			e.Bit(true)
			err := encodeTerm(e, f)
			if err != nil {
				return err
			}
		}
		e.Bit(false)
	case Case:
		e.Bits8(tagCase, termTagWidth)
		err := encodeTerm(e, x.Constr)
		if err != nil {
			return err
		}
		for _, b := range x.Branches {
			e.Bit(true)
			err = encodeTerm(e, b)
			if err != nil {
				return err
			}
		}
		e.Bit(false)
	}
	return nil
}

func decodeTerm(d *flat.Decoder, v Version, depth int) (Term, error) {
	if depth > maxDecodeDepth {
		return nil, ErrTermTooDeep
	}
	tag, err := d.Bits8(termTagWidth)
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagVar:
		idx, err := d.Word()
		if err != nil {
			return nil, err
		}
		return Var{Name: Name{Text: "i", Index: idx}}, nil
	case tagDelay:
		t, err := decodeTerm(d, v, depth+1)
		if err != nil {
			return nil, err
		}
		return Delay{Term: t}, nil
	case tagLambda:
		body, err := decodeTerm(d, v, depth+1)
		if err != nil {
			return nil, err
		}
		return Lambda{ParameterName: Name{Text: "i"}, Body: body}, nil
	case tagApply:
		f, err := decodeTerm(d, v, depth+1)
		if err != nil {
			return nil, err
		}
		a, err := decodeTerm(d, v, depth+1)
		if err != nil {
			return nil, err
		}
		return Apply{Function: f, Argument: a}, nil
	case tagConstant:
		c, err := decodeCon(d)
		if err != nil {
			return nil, err
		}
		return Constant{Con: c}, nil
	case tagForce:
		t, err := decodeTerm(d, v, depth+1)
		if err != nil {
			return nil, err
		}
		return Force{Term: t}, nil
	case tagError:
		return Error{}, nil
	case tagBuiltin:
		id, err := d.Bits8(builtinWidth)
		if err != nil {
			return nil, err
		}
		if !builtins.Valid(builtins.DefaultFunction(id)) {
			return nil, errors.WithDetailf(builtins.ErrUnknownBuiltin, "id %d", id)
		}
		return Builtin{Fn: builtins.DefaultFunction(id)}, nil
	case tagConstr:
		if !v.AtLeast(V1_1_0) {
			return nil, errors.WithDetailf(ErrVersionGatedTag, "constr at version %s", v)
		}
		ctag, err := d.Word()
		if err != nil {
			return nil, err
		}
		fields, err := decodeTermList(d, v, depth)
		if err != nil {
			return nil, err
		}
		return Constr{Tag: ctag, Fields: fields}, nil
	case tagCase:
		if !v.AtLeast(V1_1_0) {
			return nil, errors.WithDetailf(ErrVersionGatedTag, "case at version %s", v)
		}
		scrut, err := decodeTerm(d, v, depth+1)
		if err != nil {
			return nil, err
		}
		branches, err := decodeTermList(d, v, depth)
		if err != nil {
			return nil, err
		}
		return Case{Constr: scrut, Branches: branches}, nil
	default:
		return nil, errors.WithDetailf(ErrUnknownTermTag, "tag %d", tag)
	}
}

func decodeTermList(d *flat.Decoder, v Version, depth int) ([]Term, error) {
	var out []Term
	for {
		more, err := d.Bit()
		if err != nil {
			return nil, err
		}
		if !more {
			return out, nil
		}
		t, err := decodeTerm(d, v, depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
}

// Constant types are written as a bit-delimited list of 4-bit tags;
// compound types spell out their application spine (list t is 7,5
// then t; pair a b is 7,7,6 then a then b).
func typeTags(t Type, out []byte) []byte {
	switch x := t.(type) {
	case TInteger:
		return append(out, typeInteger)
	case TByteString:
		return append(out, typeByteString)
	case TString:
		return append(out, typeString)
	case TUnit:
		return append(out, typeUnit)
	case TBool:
		return append(out, typeBool)
	case TList:
		out = append(out, typeApply, typeList)
		return typeTags(x.Elem, out)
	case TPair:
		out = append(out, typeApply, typeApply, typePair)
		out = typeTags(x.First, out)
		return typeTags(x.Second, out)
	case TData:
		return append(out, typeData)
	}
	panic("unreachable constant type")
}

func parseTypeTags(tags []byte) (Type, []byte, error) {
	if len(tags) == 0 {
		return nil, nil, errors.WithDetail(ErrUnknownTypeTag, "empty type tag list")
	}
	switch tags[0] {
	case typeInteger:
		return TInteger{}, tags[1:], nil
	case typeByteString:
		return TByteString{}, tags[1:], nil
	case typeString:
		return TString{}, tags[1:], nil
	case typeUnit:
		return TUnit{}, tags[1:], nil
	case typeBool:
		return TBool{}, tags[1:], nil
	case typeData:
		return TData{}, tags[1:], nil
	case typeApply:
		if len(tags) >= 2 && tags[1] == typeList {
			elem, rest, err := parseTypeTags(tags[2:])
			if err != nil {
				return nil, nil, err
			}
			return TList{Elem: elem}, rest, nil
		}
		if len(tags) >= 3 && tags[1] == typeApply && tags[2] == typePair {
			first, rest, err := parseTypeTags(tags[3:])
			if err != nil {
				return nil, nil, err
			}
			second, rest, err := parseTypeTags(rest)
			if err != nil {
				return nil, nil, err
			}
			return TPair{First: first, Second: second}, rest, nil
		}
		return nil, nil, ErrConstTypeApply
	default:
		return nil, nil, errors.WithDetailf(ErrUnknownTypeTag, "tag %d", tags[0])
	}
}

func encodeCon(e *flat.Encoder, c Con) error {
	for _, tag := range typeTags(c.Typ(), nil) {
		e.Bit(true)
		e.Bits8(tag, typeTagWidth)
	}
	e.Bit(false)
	return encodeConValue(e, c)
}

func encodeConValue(e *flat.Encoder, c Con) error {
	switch x := c.(type) {
	case Integer:
		e.Integer(x.Inner)
	case ByteString:
		e.Bytes(x.Inner)
	case String:
		e.Utf8(x.Inner)
	case Unit:
	case Bool:
		e.Bit(x.Inner)
	case ProtoList:
		for _, el := range x.List {
			e.Bit(true)
			err := encodeConValue(e, el)
			if err != nil {
				return err
			}
		}
		e.Bit(false)
	case ProtoPair:
		err := encodeConValue(e, x.First)
		if err != nil {
			return err
		}
		return encodeConValue(e, x.Second)
	case Data:
		e.Bytes(data.Encode(x.Inner))
	}
	return nil
}

func decodeCon(d *flat.Decoder) (Con, error) {
	var tags []byte
	for {
		more, err := d.Bit()
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
		tag, err := d.Bits8(typeTagWidth)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	typ, rest, err := parseTypeTags(tags)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, errors.WithDetailf(ErrUnknownTypeTag, "%d excess type tags", len(rest))
	}
	return decodeConValue(d, typ)
}

func decodeConValue(d *flat.Decoder, typ Type) (Con, error) {
	switch t := typ.(type) {
	case TInteger:
		n, err := d.Integer()
		if err != nil {
			return nil, err
		}
		return Integer{Inner: n}, nil
	case TByteString:
		b, err := d.Bytes()
		if err != nil {
			return nil, err
		}
		return ByteString{Inner: b}, nil
	case TString:
		s, err := d.Utf8()
		if err != nil {
			return nil, err
		}
		return String{Inner: s}, nil
	case TUnit:
		return Unit{}, nil
	case TBool:
		b, err := d.Bit()
		if err != nil {
			return nil, err
		}
		return Bool{Inner: b}, nil
	case TList:
		var elems []Con
		for {
			more, err := d.Bit()
			if err != nil {
				return nil, err
			}
			if !more {
				return ProtoList{LTyp: t.Elem, List: elems}, nil
			}
			el, err := decodeConValue(d, t.Elem)
			if err != nil {
				return nil, err
			}
			elems = append(elems, el)
		}
	case TPair:
		first, err := decodeConValue(d, t.First)
		if err != nil {
			return nil, err
		}
		second, err := decodeConValue(d, t.Second)
		if err != nil {
			return nil, err
		}
		return ProtoPair{FstTyp: t.First, SndTyp: t.Second, First: first, Second: second}, nil
	case TData:
		b, err := d.Bytes()
		if err != nil {
			return nil, err
		}
		pd, err := data.Decode(b)
		if err != nil {
			return nil, err
		}
		return Data{Inner: pd}, nil
	}
	panic("unreachable constant type")
}
