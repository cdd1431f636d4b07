// Package data implements the opaque structured values used to carry
// ledger data into programs, together with their canonical CBOR wire
// form.
package data

import (
	"fmt"
	"math/big"
	"strings"
)

// PlutusData is a ledger data value: a constructor application, a map
// of data to data, a list, an integer or a byte string.
type PlutusData interface {
	isData()
	fmt.Stringer
}

// Constr is a constructor-tagged list of fields.
type Constr struct {
	Tag    uint64
	Fields []PlutusData
}

// Pair is one entry of a Map. Keys may repeat and may themselves be
// any data value.
type Pair struct {
	Key   PlutusData
	Value PlutusData
}

// Map is an ordered association list.
type Map struct {
	Pairs []Pair
}

// List is a sequence of data values.
type List struct {
	Items []PlutusData
}

// Integer is an unbounded integer.
type Integer struct {
	Inner *big.Int
}

// ByteString is a raw byte sequence.
type ByteString struct {
	Inner []byte
}

func (Constr) isData()     {}
func (Map) isData()        {}
func (List) isData()       {}
func (Integer) isData()    {}
func (ByteString) isData() {}

func (d Constr) String() string {
	return fmt.Sprintf("(Constr %d %s)", d.Tag, itemsString(d.Fields))
}

func (d Map) String() string {
	var b strings.Builder
	b.WriteString("(Map [")
	for i, p := range d.Pairs {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "(%s, %s)", p.Key, p.Value)
	}
	b.WriteString("])")
	return b.String()
}

func (d List) String() string {
	return fmt.Sprintf("(List %s)", itemsString(d.Items))
}

func (d Integer) String() string {
	return fmt.Sprintf("(I %s)", d.Inner)
}

func (d ByteString) String() string {
	return fmt.Sprintf("(B #%x)", d.Inner)
}

func itemsString(items []PlutusData) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, it := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(it.String())
	}
	b.WriteByte(']')
	return b.String()
}

// Equal reports structural equality of two data values.
func Equal(a, b PlutusData) bool {
	switch x := a.(type) {
	case Constr:
		y, ok := b.(Constr)
		if !ok || x.Tag != y.Tag || len(x.Fields) != len(y.Fields) {
			return false
		}
		for i := range x.Fields {
			if !Equal(x.Fields[i], y.Fields[i]) {
				return false
			}
		}
		return true
	case Map:
		y, ok := b.(Map)
		if !ok || len(x.Pairs) != len(y.Pairs) {
			return false
		}
		for i := range x.Pairs {
			if !Equal(x.Pairs[i].Key, y.Pairs[i].Key) || !Equal(x.Pairs[i].Value, y.Pairs[i].Value) {
				return false
			}
		}
		return true
	case List:
		y, ok := b.(List)
		if !ok || len(x.Items) != len(y.Items) {
			return false
		}
		for i := range x.Items {
			if !Equal(x.Items[i], y.Items[i]) {
				return false
			}
		}
		return true
	case Integer:
		y, ok := b.(Integer)
		return ok && x.Inner.Cmp(y.Inner) == 0
	case ByteString:
		y, ok := b.(ByteString)
		return ok && string(x.Inner) == string(y.Inner)
	}
	return false
}
