// Package builtins defines the closed, versioned registry of builtin
// functions available to untyped Plutus Core programs: their wire ids,
// concrete-syntax names, argument counts and forcing schedules.
//
// The set is fixed per language version. Evaluation of the builtins
// lives in the machine package; this package only describes them.
package builtins

import (
	"fmt"

	"github.com/spacebudz/aiken/errors"
)

// DefaultFunction identifies a builtin by its wire id.
type DefaultFunction uint8

// Wire ids. The numbering is consensus-critical: it is how builtins are
// referenced in the flat encoding.
const (
	AddInteger               DefaultFunction = 0
	SubtractInteger          DefaultFunction = 1
	MultiplyInteger          DefaultFunction = 2
	DivideInteger            DefaultFunction = 3
	QuotientInteger          DefaultFunction = 4
	RemainderInteger         DefaultFunction = 5
	ModInteger               DefaultFunction = 6
	EqualsInteger            DefaultFunction = 7
	LessThanInteger          DefaultFunction = 8
	LessThanEqualsInteger    DefaultFunction = 9
	AppendByteString         DefaultFunction = 10
	ConsByteString           DefaultFunction = 11
	SliceByteString          DefaultFunction = 12
	LengthOfByteString       DefaultFunction = 13
	IndexByteString          DefaultFunction = 14
	EqualsByteString         DefaultFunction = 15
	LessThanByteString       DefaultFunction = 16
	LessThanEqualsByteString DefaultFunction = 17
	Sha2_256                 DefaultFunction = 18
	Sha3_256                 DefaultFunction = 19
	Blake2b_256              DefaultFunction = 20
	VerifyEd25519Signature   DefaultFunction = 21
	AppendString             DefaultFunction = 22
	EqualsString             DefaultFunction = 23
	EncodeUtf8               DefaultFunction = 24
	DecodeUtf8               DefaultFunction = 25
	IfThenElse               DefaultFunction = 26
	ChooseUnit               DefaultFunction = 27
	Trace                    DefaultFunction = 28
	FstPair                  DefaultFunction = 29
	SndPair                  DefaultFunction = 30
	ChooseList               DefaultFunction = 31
	MkCons                   DefaultFunction = 32
	HeadList                 DefaultFunction = 33
	TailList                 DefaultFunction = 34
	NullList                 DefaultFunction = 35
	ChooseData               DefaultFunction = 36
	ConstrData               DefaultFunction = 37
	MapData                  DefaultFunction = 38
	ListData                 DefaultFunction = 39
	IData                    DefaultFunction = 40
	BData                    DefaultFunction = 41
	UnConstrData             DefaultFunction = 42
	UnMapData                DefaultFunction = 43
	UnListData               DefaultFunction = 44
	UnIData                  DefaultFunction = 45
	UnBData                  DefaultFunction = 46
	EqualsData               DefaultFunction = 47
	MkPairData               DefaultFunction = 48
	MkNilData                DefaultFunction = 49
	MkNilPairData            DefaultFunction = 50
	SerialiseData            DefaultFunction = 51

	VerifyEcdsaSecp256k1Signature   DefaultFunction = 52
	VerifySchnorrSecp256k1Signature DefaultFunction = 53

	// Count is one past the highest valid id.
	Count = 54
)

// Language selects a builtin set and cost model vintage. The zero
// value is reserved so callers can treat "unset" as a default.
type Language int

const (
	PlutusV1 Language = iota + 1
	PlutusV2
)

func (l Language) String() string {
	switch l {
	case PlutusV1:
		return "PlutusV1"
	case PlutusV2:
		return "PlutusV2"
	}
	return fmt.Sprintf("Language(%d)", int(l))
}

var ErrUnknownBuiltin = errors.New("unknown builtin")

// Info describes one builtin: its concrete-syntax name, the number of
// type-level forces that must be applied before arguments, the number
// of arguments it needs before it fires, and the language version that
// introduced it.
type Info struct {
	Name   string
	Forces int
	Arity  int
	Since  Language
}

var table = [Count]Info{
	AddInteger:               {"addInteger", 0, 2, PlutusV1},
	SubtractInteger:          {"subtractInteger", 0, 2, PlutusV1},
	MultiplyInteger:          {"multiplyInteger", 0, 2, PlutusV1},
	DivideInteger:            {"divideInteger", 0, 2, PlutusV1},
	QuotientInteger:          {"quotientInteger", 0, 2, PlutusV1},
	RemainderInteger:         {"remainderInteger", 0, 2, PlutusV1},
	ModInteger:               {"modInteger", 0, 2, PlutusV1},
	EqualsInteger:            {"equalsInteger", 0, 2, PlutusV1},
	LessThanInteger:          {"lessThanInteger", 0, 2, PlutusV1},
	LessThanEqualsInteger:    {"lessThanEqualsInteger", 0, 2, PlutusV1},
	AppendByteString:         {"appendByteString", 0, 2, PlutusV1},
	ConsByteString:           {"consByteString", 0, 2, PlutusV1},
	SliceByteString:          {"sliceByteString", 0, 3, PlutusV1},
	LengthOfByteString:       {"lengthOfByteString", 0, 1, PlutusV1},
	IndexByteString:          {"indexByteString", 0, 2, PlutusV1},
	EqualsByteString:         {"equalsByteString", 0, 2, PlutusV1},
	LessThanByteString:       {"lessThanByteString", 0, 2, PlutusV1},
	LessThanEqualsByteString: {"lessThanEqualsByteString", 0, 2, PlutusV1},
	Sha2_256:                 {"sha2_256", 0, 1, PlutusV1},
	Sha3_256:                 {"sha3_256", 0, 1, PlutusV1},
	Blake2b_256:              {"blake2b_256", 0, 1, PlutusV1},
	VerifyEd25519Signature:   {"verifyEd25519Signature", 0, 3, PlutusV1},
	AppendString:             {"appendString", 0, 2, PlutusV1},
	EqualsString:             {"equalsString", 0, 2, PlutusV1},
	EncodeUtf8:               {"encodeUtf8", 0, 1, PlutusV1},
	DecodeUtf8:               {"decodeUtf8", 0, 1, PlutusV1},
	IfThenElse:               {"ifThenElse", 1, 3, PlutusV1},
	ChooseUnit:               {"chooseUnit", 1, 2, PlutusV1},
	Trace:                    {"trace", 1, 2, PlutusV1},
	FstPair:                  {"fstPair", 2, 1, PlutusV1},
	SndPair:                  {"sndPair", 2, 1, PlutusV1},
	ChooseList:               {"chooseList", 2, 3, PlutusV1},
	MkCons:                   {"mkCons", 1, 2, PlutusV1},
	HeadList:                 {"headList", 1, 1, PlutusV1},
	TailList:                 {"tailList", 1, 1, PlutusV1},
	NullList:                 {"nullList", 1, 1, PlutusV1},
	ChooseData:               {"chooseData", 1, 6, PlutusV1},
	ConstrData:               {"constrData", 0, 2, PlutusV1},
	MapData:                  {"mapData", 0, 1, PlutusV1},
	ListData:                 {"listData", 0, 1, PlutusV1},
	IData:                    {"iData", 0, 1, PlutusV1},
	BData:                    {"bData", 0, 1, PlutusV1},
	UnConstrData:             {"unConstrData", 0, 1, PlutusV1},
	UnMapData:                {"unMapData", 0, 1, PlutusV1},
	UnListData:               {"unListData", 0, 1, PlutusV1},
	UnIData:                  {"unIData", 0, 1, PlutusV1},
	UnBData:                  {"unBData", 0, 1, PlutusV1},
	EqualsData:               {"equalsData", 0, 2, PlutusV1},
	MkPairData:               {"mkPairData", 0, 2, PlutusV1},
	MkNilData:                {"mkNilData", 0, 1, PlutusV1},
	MkNilPairData:            {"mkNilPairData", 0, 1, PlutusV1},
	SerialiseData:            {"serialiseData", 0, 1, PlutusV2},

	VerifyEcdsaSecp256k1Signature:   {"verifyEcdsaSecp256k1Signature", 0, 3, PlutusV2},
	VerifySchnorrSecp256k1Signature: {"verifySchnorrSecp256k1Signature", 0, 3, PlutusV2},
}

var byName map[string]DefaultFunction

func init() {
	byName = make(map[string]DefaultFunction, Count)
	for fn, info := range table {
		byName[info.Name] = DefaultFunction(fn)
	}
}

// Valid reports whether fn is a known builtin id.
func Valid(fn DefaultFunction) bool {
	return int(fn) < Count
}

// Lookup returns the description of fn.
func Lookup(fn DefaultFunction) Info {
	return table[fn]
}

// FromName resolves a concrete-syntax name to a builtin id.
func FromName(name string) (DefaultFunction, error) {
	fn, ok := byName[name]
	if !ok {
		return 0, errors.WithDetailf(ErrUnknownBuiltin, "name %q", name)
	}
	return fn, nil
}

// Available reports whether fn may appear in a program of the given
// language version. Decoding an older program must not expose builtins
// introduced later.
func (l Language) Available(fn DefaultFunction) bool {
	return Valid(fn) && table[fn].Since <= l
}

func (fn DefaultFunction) String() string {
	if !Valid(fn) {
		return fmt.Sprintf("builtin#%d", uint8(fn))
	}
	return table[fn].Name
}

// Arity returns the number of arguments fn needs before it fires.
func (fn DefaultFunction) Arity() int {
	return table[fn].Arity
}

// Forces returns the number of forces fn needs before taking
// arguments.
func (fn DefaultFunction) Forces() int {
	return table[fn].Forces
}
