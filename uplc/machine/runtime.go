package machine

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha256"
	"io"
	"math/big"
	"unicode/utf8"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"

	"github.com/spacebudz/aiken/errors"
	"github.com/spacebudz/aiken/uplc/ast"
	"github.com/spacebudz/aiken/uplc/builtins"
	"github.com/spacebudz/aiken/uplc/data"
)

// Argument unwrappers. A failed unwrap is a type mismatch, reported
// before any size-dependent cost is charged.

func unCon(v Value) (ast.Con, error) {
	c, ok := v.(VCon)
	if !ok {
		return nil, errors.WithDetailf(ErrTypeMismatch, "want constant, got %T", v)
	}
	return c.Con, nil
}

func unInt(v Value) (*big.Int, error) {
	c, err := unCon(v)
	if err != nil {
		return nil, err
	}
	n, ok := c.(ast.Integer)
	if !ok {
		return nil, errors.WithDetailf(ErrTypeMismatch, "want integer, got %s", c.Typ())
	}
	return n.Inner, nil
}

func unBytes(v Value) ([]byte, error) {
	c, err := unCon(v)
	if err != nil {
		return nil, err
	}
	b, ok := c.(ast.ByteString)
	if !ok {
		return nil, errors.WithDetailf(ErrTypeMismatch, "want bytestring, got %s", c.Typ())
	}
	return b.Inner, nil
}

func unString(v Value) (string, error) {
	c, err := unCon(v)
	if err != nil {
		return "", err
	}
	s, ok := c.(ast.String)
	if !ok {
		return "", errors.WithDetailf(ErrTypeMismatch, "want string, got %s", c.Typ())
	}
	return s.Inner, nil
}

func unBool(v Value) (bool, error) {
	c, err := unCon(v)
	if err != nil {
		return false, err
	}
	b, ok := c.(ast.Bool)
	if !ok {
		return false, errors.WithDetailf(ErrTypeMismatch, "want bool, got %s", c.Typ())
	}
	return b.Inner, nil
}

func unUnit(v Value) error {
	c, err := unCon(v)
	if err != nil {
		return err
	}
	if _, ok := c.(ast.Unit); !ok {
		return errors.WithDetailf(ErrTypeMismatch, "want unit, got %s", c.Typ())
	}
	return nil
}

func unList(v Value) (ast.ProtoList, error) {
	c, err := unCon(v)
	if err != nil {
		return ast.ProtoList{}, err
	}
	l, ok := c.(ast.ProtoList)
	if !ok {
		return ast.ProtoList{}, errors.WithDetailf(ErrTypeMismatch, "want list, got %s", c.Typ())
	}
	return l, nil
}

func unPair(v Value) (ast.ProtoPair, error) {
	c, err := unCon(v)
	if err != nil {
		return ast.ProtoPair{}, err
	}
	p, ok := c.(ast.ProtoPair)
	if !ok {
		return ast.ProtoPair{}, errors.WithDetailf(ErrTypeMismatch, "want pair, got %s", c.Typ())
	}
	return p, nil
}

func unData(v Value) (data.PlutusData, error) {
	c, err := unCon(v)
	if err != nil {
		return nil, err
	}
	d, ok := c.(ast.Data)
	if !ok {
		return nil, errors.WithDetailf(ErrTypeMismatch, "want data, got %s", c.Typ())
	}
	return d.Inner, nil
}

// unDataList unwraps a (list data) argument.
func unDataList(v Value) ([]data.PlutusData, error) {
	l, err := unList(v)
	if err != nil {
		return nil, err
	}
	if !ast.TypeEqual(l.LTyp, ast.TData{}) {
		return nil, errors.WithDetailf(ErrTypeMismatch, "want (list data), got (list %s)", l.LTyp)
	}
	out := make([]data.PlutusData, len(l.List))
	for i, el := range l.List {
		out[i] = el.(ast.Data).Inner
	}
	return out, nil
}

func intValue(n *big.Int) Value  { return VCon{Con: ast.Integer{Inner: n}} }
func bytesValue(b []byte) Value  { return VCon{Con: ast.ByteString{Inner: b}} }
func stringValue(s string) Value { return VCon{Con: ast.String{Inner: s}} }
func boolValue(b bool) Value     { return VCon{Con: ast.Bool{Inner: b}} }
func dataValue(d data.PlutusData) Value {
	return VCon{Con: ast.Data{Inner: d}}
}

func dataListValue(items []data.PlutusData) Value {
	cons := make([]ast.Con, len(items))
	for i, d := range items {
		cons[i] = ast.Data{Inner: d}
	}
	return VCon{Con: ast.ProtoList{LTyp: ast.TData{}, List: cons}}
}

var pairDataTyp = ast.TPair{First: ast.TData{}, Second: ast.TData{}}

// sizes computes the cost-model sizes of the evaluated arguments, in
// argument order.
func sizes(args []Value) []int64 {
	out := make([]int64, len(args))
	for i, a := range args {
		out[i] = exMem(a)
	}
	return out
}

// clampIndex turns an arbitrary-precision index into a slice bound.
func clampIndex(n *big.Int, max int) int {
	if n.Sign() < 0 {
		return 0
	}
	if !n.IsInt64() || n.Int64() > int64(max) {
		return max
	}
	return int(n.Int64())
}

// evalBuiltin fires a saturated builtin. Arguments are type-checked
// first, the argument-size cost is charged second, and the operation
// itself runs last; domain failures such as division by zero are
// charged for.
func (m *Machine) evalBuiltin(fn builtins.DefaultFunction, args []Value) (Value, error) {
	v, err := m.fire(fn, args)
	if err != nil {
		return nil, errors.WithDetailf(err, "in %s", fn)
	}
	return v, nil
}

func (m *Machine) fire(fn builtins.DefaultFunction, args []Value) (Value, error) {
	switch fn {
	case builtins.AddInteger, builtins.SubtractInteger, builtins.MultiplyInteger,
		builtins.DivideInteger, builtins.QuotientInteger,
		builtins.RemainderInteger, builtins.ModInteger:
		a, err := unInt(args[0])
		if err != nil {
			return nil, err
		}
		b, err := unInt(args[1])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, intExMem(a), intExMem(b)); err != nil {
			return nil, err
		}
		return integerArith(fn, a, b)

	case builtins.EqualsInteger, builtins.LessThanInteger, builtins.LessThanEqualsInteger:
		a, err := unInt(args[0])
		if err != nil {
			return nil, err
		}
		b, err := unInt(args[1])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, intExMem(a), intExMem(b)); err != nil {
			return nil, err
		}
		cmp := a.Cmp(b)
		switch fn {
		case builtins.EqualsInteger:
			return boolValue(cmp == 0), nil
		case builtins.LessThanInteger:
			return boolValue(cmp < 0), nil
		default:
			return boolValue(cmp <= 0), nil
		}

	case builtins.AppendByteString:
		a, err := unBytes(args[0])
		if err != nil {
			return nil, err
		}
		b, err := unBytes(args[1])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, byteStringExMem(a), byteStringExMem(b)); err != nil {
			return nil, err
		}
		out := make([]byte, 0, len(a)+len(b))
		out = append(append(out, a...), b...)
		return bytesValue(out), nil

	case builtins.ConsByteString:
		n, err := unInt(args[0])
		if err != nil {
			return nil, err
		}
		b, err := unBytes(args[1])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, intExMem(n), byteStringExMem(b)); err != nil {
			return nil, err
		}
		if n.Sign() < 0 || n.Cmp(big.NewInt(255)) > 0 {
			return nil, errors.WithDetailf(ErrByteRange, "value %s", n)
		}
		out := make([]byte, 0, len(b)+1)
		out = append(append(out, byte(n.Int64())), b...)
		return bytesValue(out), nil

	case builtins.SliceByteString:
		from, err := unInt(args[0])
		if err != nil {
			return nil, err
		}
		take, err := unInt(args[1])
		if err != nil {
			return nil, err
		}
		b, err := unBytes(args[2])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, intExMem(from), intExMem(take), byteStringExMem(b)); err != nil {
			return nil, err
		}
		// Out-of-range bounds clamp instead of failing.
		start := clampIndex(from, len(b))
		end := start + clampIndex(take, len(b)-start)
		out := make([]byte, end-start)
		copy(out, b[start:end])
		return bytesValue(out), nil

	case builtins.LengthOfByteString:
		b, err := unBytes(args[0])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, byteStringExMem(b)); err != nil {
			return nil, err
		}
		return intValue(big.NewInt(int64(len(b)))), nil

	case builtins.IndexByteString:
		b, err := unBytes(args[0])
		if err != nil {
			return nil, err
		}
		i, err := unInt(args[1])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, byteStringExMem(b), intExMem(i)); err != nil {
			return nil, err
		}
		if i.Sign() < 0 || !i.IsInt64() || i.Int64() >= int64(len(b)) {
			return nil, errors.WithDetailf(ErrIndexRange, "index %s, length %d", i, len(b))
		}
		return intValue(big.NewInt(int64(b[i.Int64()]))), nil

	case builtins.EqualsByteString, builtins.LessThanByteString, builtins.LessThanEqualsByteString:
		a, err := unBytes(args[0])
		if err != nil {
			return nil, err
		}
		b, err := unBytes(args[1])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, byteStringExMem(a), byteStringExMem(b)); err != nil {
			return nil, err
		}
		cmp := bytes.Compare(a, b)
		switch fn {
		case builtins.EqualsByteString:
			return boolValue(cmp == 0), nil
		case builtins.LessThanByteString:
			return boolValue(cmp < 0), nil
		default:
			return boolValue(cmp <= 0), nil
		}

	case builtins.Sha2_256:
		b, err := unBytes(args[0])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, byteStringExMem(b)); err != nil {
			return nil, err
		}
		h := sha256.Sum256(b)
		return bytesValue(h[:]), nil

	case builtins.Sha3_256:
		b, err := unBytes(args[0])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, byteStringExMem(b)); err != nil {
			return nil, err
		}
		h := sha3.Sum256(b)
		return bytesValue(h[:]), nil

	case builtins.Blake2b_256:
		b, err := unBytes(args[0])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, byteStringExMem(b)); err != nil {
			return nil, err
		}
		h := blake2b.Sum256(b)
		return bytesValue(h[:]), nil

	case builtins.VerifyEd25519Signature:
		pk, err := unBytes(args[0])
		if err != nil {
			return nil, err
		}
		msg, err := unBytes(args[1])
		if err != nil {
			return nil, err
		}
		sig, err := unBytes(args[2])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, byteStringExMem(pk), byteStringExMem(msg), byteStringExMem(sig)); err != nil {
			return nil, err
		}
		if len(pk) != ed25519.PublicKeySize {
			return nil, errors.WithDetailf(ErrCryptoInput, "public key length %d", len(pk))
		}
		if len(sig) != ed25519.SignatureSize {
			return nil, errors.WithDetailf(ErrCryptoInput, "signature length %d", len(sig))
		}
		return boolValue(ed25519.Verify(ed25519.PublicKey(pk), msg, sig)), nil

	case builtins.VerifyEcdsaSecp256k1Signature:
		pk, err := unBytes(args[0])
		if err != nil {
			return nil, err
		}
		msg, err := unBytes(args[1])
		if err != nil {
			return nil, err
		}
		sig, err := unBytes(args[2])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, byteStringExMem(pk), byteStringExMem(msg), byteStringExMem(sig)); err != nil {
			return nil, err
		}
		return verifyEcdsaSecp256k1(pk, msg, sig)

	case builtins.VerifySchnorrSecp256k1Signature:
		pk, err := unBytes(args[0])
		if err != nil {
			return nil, err
		}
		msg, err := unBytes(args[1])
		if err != nil {
			return nil, err
		}
		sig, err := unBytes(args[2])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, byteStringExMem(pk), byteStringExMem(msg), byteStringExMem(sig)); err != nil {
			return nil, err
		}
		return verifySchnorrSecp256k1(pk, msg, sig)

	case builtins.AppendString:
		a, err := unString(args[0])
		if err != nil {
			return nil, err
		}
		b, err := unString(args[1])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, int64(len(a)), int64(len(b))); err != nil {
			return nil, err
		}
		return stringValue(a + b), nil

	case builtins.EqualsString:
		a, err := unString(args[0])
		if err != nil {
			return nil, err
		}
		b, err := unString(args[1])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, int64(len(a)), int64(len(b))); err != nil {
			return nil, err
		}
		return boolValue(a == b), nil

	case builtins.EncodeUtf8:
		s, err := unString(args[0])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, int64(len(s))); err != nil {
			return nil, err
		}
		return bytesValue([]byte(s)), nil

	case builtins.DecodeUtf8:
		b, err := unBytes(args[0])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, byteStringExMem(b)); err != nil {
			return nil, err
		}
		if !utf8.Valid(b) {
			return nil, ErrUtf8
		}
		return stringValue(string(b)), nil

	case builtins.IfThenElse:
		cond, err := unBool(args[0])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, sizes(args)...); err != nil {
			return nil, err
		}
		if cond {
			return args[1], nil
		}
		return args[2], nil

	case builtins.ChooseUnit:
		if err := unUnit(args[0]); err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, sizes(args)...); err != nil {
			return nil, err
		}
		return args[1], nil

	case builtins.Trace:
		s, err := unString(args[0])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, sizes(args)...); err != nil {
			return nil, err
		}
		m.emitLog(s)
		return args[1], nil

	case builtins.FstPair:
		p, err := unPair(args[0])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, sizes(args)...); err != nil {
			return nil, err
		}
		return VCon{Con: p.First}, nil

	case builtins.SndPair:
		p, err := unPair(args[0])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, sizes(args)...); err != nil {
			return nil, err
		}
		return VCon{Con: p.Second}, nil

	case builtins.ChooseList:
		l, err := unList(args[0])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, sizes(args)...); err != nil {
			return nil, err
		}
		if len(l.List) == 0 {
			return args[1], nil
		}
		return args[2], nil

	case builtins.MkCons:
		head, err := unCon(args[0])
		if err != nil {
			return nil, err
		}
		l, err := unList(args[1])
		if err != nil {
			return nil, err
		}
		if !ast.TypeEqual(head.Typ(), l.LTyp) {
			return nil, errors.WithDetailf(ErrTypeMismatch, "cons %s onto (list %s)", head.Typ(), l.LTyp)
		}
		if err := m.spendBuiltin(fn, sizes(args)...); err != nil {
			return nil, err
		}
		out := make([]ast.Con, 0, len(l.List)+1)
		out = append(append(out, head), l.List...)
		return VCon{Con: ast.ProtoList{LTyp: l.LTyp, List: out}}, nil

	case builtins.HeadList:
		l, err := unList(args[0])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, sizes(args)...); err != nil {
			return nil, err
		}
		if len(l.List) == 0 {
			return nil, ErrEmptyList
		}
		return VCon{Con: l.List[0]}, nil

	case builtins.TailList:
		l, err := unList(args[0])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, sizes(args)...); err != nil {
			return nil, err
		}
		if len(l.List) == 0 {
			return nil, ErrEmptyList
		}
		return VCon{Con: ast.ProtoList{LTyp: l.LTyp, List: l.List[1:]}}, nil

	case builtins.NullList:
		l, err := unList(args[0])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, sizes(args)...); err != nil {
			return nil, err
		}
		return boolValue(len(l.List) == 0), nil

	case builtins.ChooseData:
		d, err := unData(args[0])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, sizes(args)...); err != nil {
			return nil, err
		}
		switch d.(type) {
		case data.Constr:
			return args[1], nil
		case data.Map:
			return args[2], nil
		case data.List:
			return args[3], nil
		case data.Integer:
			return args[4], nil
		default:
			return args[5], nil
		}

	case builtins.ConstrData:
		tag, err := unInt(args[0])
		if err != nil {
			return nil, err
		}
		fields, err := unDataList(args[1])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, sizes(args)...); err != nil {
			return nil, err
		}
		if tag.Sign() < 0 || !tag.IsUint64() {
			return nil, errors.WithDetailf(ErrConstrTag, "tag %s", tag)
		}
		return dataValue(data.Constr{Tag: tag.Uint64(), Fields: fields}), nil

	case builtins.MapData:
		l, err := unList(args[0])
		if err != nil {
			return nil, err
		}
		if !ast.TypeEqual(l.LTyp, pairDataTyp) {
			return nil, errors.WithDetailf(ErrTypeMismatch, "want (list (pair data data)), got (list %s)", l.LTyp)
		}
		if err := m.spendBuiltin(fn, sizes(args)...); err != nil {
			return nil, err
		}
		pairs := make([]data.Pair, len(l.List))
		for i, el := range l.List {
			p := el.(ast.ProtoPair)
			pairs[i] = data.Pair{
				Key:   p.First.(ast.Data).Inner,
				Value: p.Second.(ast.Data).Inner,
			}
		}
		return dataValue(data.Map{Pairs: pairs}), nil

	case builtins.ListData:
		items, err := unDataList(args[0])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, sizes(args)...); err != nil {
			return nil, err
		}
		return dataValue(data.List{Items: items}), nil

	case builtins.IData:
		n, err := unInt(args[0])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, intExMem(n)); err != nil {
			return nil, err
		}
		return dataValue(data.Integer{Inner: n}), nil

	case builtins.BData:
		b, err := unBytes(args[0])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, byteStringExMem(b)); err != nil {
			return nil, err
		}
		return dataValue(data.ByteString{Inner: b}), nil

	case builtins.UnConstrData:
		d, err := unData(args[0])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, sizes(args)...); err != nil {
			return nil, err
		}
		c, ok := d.(data.Constr)
		if !ok {
			return nil, errors.WithDetailf(ErrDataVariant, "want Constr, got %T", d)
		}
		fields := make([]ast.Con, len(c.Fields))
		for i, f := range c.Fields {
			fields[i] = ast.Data{Inner: f}
		}
		return VCon{Con: ast.ProtoPair{
			FstTyp: ast.TInteger{},
			SndTyp: ast.TList{Elem: ast.TData{}},
			First:  ast.Integer{Inner: new(big.Int).SetUint64(c.Tag)},
			Second: ast.ProtoList{LTyp: ast.TData{}, List: fields},
		}}, nil

	case builtins.UnMapData:
		d, err := unData(args[0])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, sizes(args)...); err != nil {
			return nil, err
		}
		mp, ok := d.(data.Map)
		if !ok {
			return nil, errors.WithDetailf(ErrDataVariant, "want Map, got %T", d)
		}
		pairs := make([]ast.Con, len(mp.Pairs))
		for i, p := range mp.Pairs {
			pairs[i] = ast.ProtoPair{
				FstTyp: ast.TData{}, SndTyp: ast.TData{},
				First:  ast.Data{Inner: p.Key},
				Second: ast.Data{Inner: p.Value},
			}
		}
		return VCon{Con: ast.ProtoList{LTyp: pairDataTyp, List: pairs}}, nil

	case builtins.UnListData:
		d, err := unData(args[0])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, sizes(args)...); err != nil {
			return nil, err
		}
		l, ok := d.(data.List)
		if !ok {
			return nil, errors.WithDetailf(ErrDataVariant, "want List, got %T", d)
		}
		return dataListValue(l.Items), nil

	case builtins.UnIData:
		d, err := unData(args[0])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, sizes(args)...); err != nil {
			return nil, err
		}
		n, ok := d.(data.Integer)
		if !ok {
			return nil, errors.WithDetailf(ErrDataVariant, "want I, got %T", d)
		}
		return intValue(n.Inner), nil

	case builtins.UnBData:
		d, err := unData(args[0])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, sizes(args)...); err != nil {
			return nil, err
		}
		b, ok := d.(data.ByteString)
		if !ok {
			return nil, errors.WithDetailf(ErrDataVariant, "want B, got %T", d)
		}
		return bytesValue(b.Inner), nil

	case builtins.EqualsData:
		a, err := unData(args[0])
		if err != nil {
			return nil, err
		}
		b, err := unData(args[1])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, dataExMem(a), dataExMem(b)); err != nil {
			return nil, err
		}
		return boolValue(data.Equal(a, b)), nil

	case builtins.MkPairData:
		a, err := unData(args[0])
		if err != nil {
			return nil, err
		}
		b, err := unData(args[1])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, sizes(args)...); err != nil {
			return nil, err
		}
		return VCon{Con: ast.ProtoPair{
			FstTyp: ast.TData{}, SndTyp: ast.TData{},
			First:  ast.Data{Inner: a},
			Second: ast.Data{Inner: b},
		}}, nil

	case builtins.MkNilData:
		if err := unUnit(args[0]); err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, sizes(args)...); err != nil {
			return nil, err
		}
		return VCon{Con: ast.ProtoList{LTyp: ast.TData{}}}, nil

	case builtins.MkNilPairData:
		if err := unUnit(args[0]); err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, sizes(args)...); err != nil {
			return nil, err
		}
		return VCon{Con: ast.ProtoList{LTyp: pairDataTyp}}, nil

	case builtins.SerialiseData:
		d, err := unData(args[0])
		if err != nil {
			return nil, err
		}
		if err := m.spendBuiltin(fn, dataExMem(d)); err != nil {
			return nil, err
		}
		return bytesValue(data.Encode(d)), nil
	}

	return nil, errors.WithDetailf(builtins.ErrUnknownBuiltin, "id %d", uint8(fn))
}

// integerArith covers the seven two-integer arithmetic builtins.
// Division and modulus follow flooring semantics; quotient and
// remainder truncate toward zero.
func integerArith(fn builtins.DefaultFunction, a, b *big.Int) (Value, error) {
	switch fn {
	case builtins.AddInteger:
		return intValue(new(big.Int).Add(a, b)), nil
	case builtins.SubtractInteger:
		return intValue(new(big.Int).Sub(a, b)), nil
	case builtins.MultiplyInteger:
		return intValue(new(big.Int).Mul(a, b)), nil
	}
	if b.Sign() == 0 {
		return nil, ErrDivideByZero
	}
	q, r := new(big.Int).QuoRem(a, b, new(big.Int))
	switch fn {
	case builtins.QuotientInteger:
		return intValue(q), nil
	case builtins.RemainderInteger:
		return intValue(r), nil
	case builtins.DivideInteger:
		if r.Sign() != 0 && (r.Sign() < 0) != (b.Sign() < 0) {
			q.Sub(q, big.NewInt(1))
		}
		return intValue(q), nil
	default: // ModInteger
		if r.Sign() != 0 && (r.Sign() < 0) != (b.Sign() < 0) {
			r.Add(r, b)
		}
		return intValue(r), nil
	}
}

func verifyEcdsaSecp256k1(pk, msg, sig []byte) (Value, error) {
	if len(msg) != 32 {
		return nil, errors.WithDetailf(ErrCryptoInput, "message length %d, want 32", len(msg))
	}
	if len(sig) != 64 {
		return nil, errors.WithDetailf(ErrCryptoInput, "signature length %d, want 64", len(sig))
	}
	pub, err := btcec.ParsePubKey(pk)
	if err != nil {
		return nil, errors.Wrap(ErrCryptoInput, err.Error())
	}
	var r, s btcec.ModNScalar
	if r.SetByteSlice(sig[:32]) || s.SetByteSlice(sig[32:]) {
		// r or s overflowed the group order: a well-formed but
		// invalid signature, not a malformed input.
		return boolValue(false), nil
	}
	return boolValue(btcecdsa.NewSignature(&r, &s).Verify(msg, pub)), nil
}

func verifySchnorrSecp256k1(pk, msg, sig []byte) (Value, error) {
	if len(msg) != 32 {
		return nil, errors.WithDetailf(ErrCryptoInput, "message length %d, want 32", len(msg))
	}
	pub, err := schnorr.ParsePubKey(pk)
	if err != nil {
		return nil, errors.Wrap(ErrCryptoInput, err.Error())
	}
	s, err := schnorr.ParseSignature(sig)
	if err != nil {
		return nil, errors.Wrap(ErrCryptoInput, err.Error())
	}
	return boolValue(s.Verify(msg, pub)), nil
}

func (m *Machine) emitLog(s string) {
	m.logs = append(m.logs, s)
	if m.TraceOut != nil {
		io.WriteString(m.TraceOut, s+"\n")
	}
}
