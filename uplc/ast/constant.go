package ast

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/spacebudz/aiken/uplc/data"
)

// Con is a constant value: the universe a Constant term may carry.
type Con interface {
	isCon()
	// Typ returns the static type tag matching the value's runtime
	// shape; the flat encoding records it alongside the value.
	Typ() Type
}

type Integer struct {
	Inner *big.Int
}

type ByteString struct {
	Inner []byte
}

type String struct {
	Inner string
}

type Unit struct{}

type Bool struct {
	Inner bool
}

// ProtoList is a homogeneous list. LTyp is the element type, recorded
// even when the list is empty.
type ProtoList struct {
	LTyp Type
	List []Con
}

type ProtoPair struct {
	FstTyp Type
	SndTyp Type
	First  Con
	Second Con
}

type Data struct {
	Inner data.PlutusData
}

func (Integer) isCon()    {}
func (ByteString) isCon() {}
func (String) isCon()     {}
func (Unit) isCon()       {}
func (Bool) isCon()       {}
func (ProtoList) isCon()  {}
func (ProtoPair) isCon()  {}
func (Data) isCon()       {}

func (Integer) Typ() Type    { return TInteger{} }
func (ByteString) Typ() Type { return TByteString{} }
func (String) Typ() Type     { return TString{} }
func (Unit) Typ() Type       { return TUnit{} }
func (Bool) Typ() Type       { return TBool{} }
func (c ProtoList) Typ() Type {
	return TList{Elem: c.LTyp}
}
func (c ProtoPair) Typ() Type {
	return TPair{First: c.FstTyp, Second: c.SndTyp}
}
func (Data) Typ() Type { return TData{} }

// Type is the static type tag of a constant.
type Type interface {
	isType()
	fmt.Stringer
}

type TInteger struct{}
type TByteString struct{}
type TString struct{}
type TUnit struct{}
type TBool struct{}
type TList struct{ Elem Type }
type TPair struct{ First, Second Type }
type TData struct{}

func (TInteger) isType()    {}
func (TByteString) isType() {}
func (TString) isType()     {}
func (TUnit) isType()       {}
func (TBool) isType()       {}
func (TList) isType()       {}
func (TPair) isType()       {}
func (TData) isType()       {}

func (TInteger) String() string    { return "integer" }
func (TByteString) String() string { return "bytestring" }
func (TString) String() string     { return "string" }
func (TUnit) String() string       { return "unit" }
func (TBool) String() string       { return "bool" }
func (t TList) String() string {
	return fmt.Sprintf("(list %s)", t.Elem)
}
func (t TPair) String() string {
	return fmt.Sprintf("(pair %s %s)", t.First, t.Second)
}
func (TData) String() string { return "data" }

// TypeEqual reports equality of type tags.
func TypeEqual(a, b Type) bool {
	switch x := a.(type) {
	case TList:
		y, ok := b.(TList)
		return ok && TypeEqual(x.Elem, y.Elem)
	case TPair:
		y, ok := b.(TPair)
		return ok && TypeEqual(x.First, y.First) && TypeEqual(x.Second, y.Second)
	default:
		return a == b
	}
}

// ConEqual reports structural equality of two constants, including
// their type tags.
func ConEqual(a, b Con) bool {
	switch x := a.(type) {
	case Integer:
		y, ok := b.(Integer)
		return ok && x.Inner.Cmp(y.Inner) == 0
	case ByteString:
		y, ok := b.(ByteString)
		return ok && string(x.Inner) == string(y.Inner)
	case String:
		y, ok := b.(String)
		return ok && x.Inner == y.Inner
	case Unit:
		_, ok := b.(Unit)
		return ok
	case Bool:
		y, ok := b.(Bool)
		return ok && x.Inner == y.Inner
	case ProtoList:
		y, ok := b.(ProtoList)
		if !ok || !TypeEqual(x.LTyp, y.LTyp) || len(x.List) != len(y.List) {
			return false
		}
		for i := range x.List {
			if !ConEqual(x.List[i], y.List[i]) {
				return false
			}
		}
		return true
	case ProtoPair:
		y, ok := b.(ProtoPair)
		return ok && TypeEqual(x.FstTyp, y.FstTyp) && TypeEqual(x.SndTyp, y.SndTyp) &&
			ConEqual(x.First, y.First) && ConEqual(x.Second, y.Second)
	case Data:
		y, ok := b.(Data)
		return ok && data.Equal(x.Inner, y.Inner)
	}
	return false
}

// String renders the constant as its literal concrete syntax.
func ConString(c Con) string {
	switch x := c.(type) {
	case Integer:
		return x.Inner.String()
	case ByteString:
		return fmt.Sprintf("#%x", x.Inner)
	case String:
		return strconv.Quote(x.Inner)
	case Unit:
		return "()"
	case Bool:
		if x.Inner {
			return "True"
		}
		return "False"
	case ProtoList:
		var b strings.Builder
		b.WriteByte('[')
		for i, e := range x.List {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(ConString(e))
		}
		b.WriteByte(']')
		return b.String()
	case ProtoPair:
		return fmt.Sprintf("(%s, %s)", ConString(x.First), ConString(x.Second))
	case Data:
		return x.Inner.String()
	}
	return "?"
}
