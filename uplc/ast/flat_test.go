package ast

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/spacebudz/aiken/encoding/flat"
	"github.com/spacebudz/aiken/errors"
	"github.com/spacebudz/aiken/testutil"
	"github.com/spacebudz/aiken/uplc/builtins"
	"github.com/spacebudz/aiken/uplc/data"
)

func TestFlatKnownEncoding(t *testing.T) {
	// (program 1.0.0 (con integer 42))
	p := Program{
		Version: V1_0_0,
		Term:    Constant{Con: Integer{Inner: big.NewInt(42)}},
	}
	got, err := p.Flat()
	if err != nil {
		testutil.FatalErr(t, err)
	}
	want, _ := hex.DecodeString("010000481501")
	if !bytes.Equal(got, want) {
		t.Fatalf("Flat() = %x want %x", got, want)
	}

	back, err := UnFlat(got)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	c, ok := back.Term.(Constant)
	if !ok {
		t.Fatalf("decoded term is %T want Constant", back.Term)
	}
	n, ok := c.Con.(Integer)
	if !ok || n.Inner.Int64() != 42 {
		t.Fatalf("decoded constant is %v want integer 42", c.Con)
	}
}

func roundTrip(t *testing.T, p Program) Program {
	t.Helper()
	enc, err := p.Flat()
	if err != nil {
		testutil.FatalErr(t, err)
	}
	back, err := UnFlat(enc)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	enc2, err := back.Flat()
	if err != nil {
		testutil.FatalErr(t, err)
	}
	if !bytes.Equal(enc, enc2) {
		t.Fatalf("re-encoding differs: %x vs %x", enc, enc2)
	}
	return back
}

func TestFlatRoundTrip(t *testing.T) {
	terms := []Term{
		Error{},
		Builtin{Fn: builtins.AddInteger},
		Lambda{ParameterName: Name{Text: "i"}, Body: Var{Name: Name{Text: "i", Index: 1}}},
		Apply{
			Function: Apply{
				Function: Builtin{Fn: builtins.AddInteger},
				Argument: Constant{Con: Integer{Inner: big.NewInt(2)}},
			},
			Argument: Constant{Con: Integer{Inner: big.NewInt(3)}},
		},
		Force{Term: Delay{Term: Constant{Con: Unit{}}}},
		Constant{Con: ByteString{Inner: []byte{0xde, 0xad, 0xbe, 0xef}}},
		Constant{Con: String{Inner: "hello"}},
		Constant{Con: Bool{Inner: true}},
		Constant{Con: ProtoList{LTyp: TInteger{}, List: []Con{
			Integer{Inner: big.NewInt(1)},
			Integer{Inner: big.NewInt(-1)},
		}}},
		Constant{Con: ProtoList{LTyp: TList{Elem: TBool{}}, List: []Con{
			ProtoList{LTyp: TBool{}, List: []Con{Bool{Inner: false}}},
		}}},
		Constant{Con: ProtoPair{
			FstTyp: TInteger{}, SndTyp: TByteString{},
			First:  Integer{Inner: big.NewInt(7)},
			Second: ByteString{Inner: []byte{1}},
		}},
		Constant{Con: Data{Inner: data.Constr{Tag: 0, Fields: []data.PlutusData{
			data.Integer{Inner: big.NewInt(5)},
		}}}},
	}
	for _, term := range terms {
		back := roundTrip(t, Program{Version: V1_0_0, Term: term})
		if back.Version != V1_0_0 {
			t.Errorf("version changed: %v", back.Version)
		}
	}
}

func TestFlatConstrCase(t *testing.T) {
	p := Program{
		Version: V1_1_0,
		Term: Case{
			Constr: Constr{Tag: 1, Fields: []Term{Constant{Con: Integer{Inner: big.NewInt(9)}}}},
			Branches: []Term{
				Lambda{Body: Var{Name: Name{Index: 1}}},
				Lambda{Body: Var{Name: Name{Index: 1}}},
			},
		},
	}
	roundTrip(t, p)

	// The same term must be rejected at 1.0.0.
	p.Version = V1_0_0
	enc, err := p.Flat()
	if err != nil {
		testutil.FatalErr(t, err)
	}
	_, err = UnFlat(enc)
	if errors.Root(err) != ErrVersionGatedTag {
		t.Fatalf("decoding case at 1.0.0: got %v want %v", err, ErrVersionGatedTag)
	}
}

func TestUnFlatRejects(t *testing.T) {
	t.Run("version too new", func(t *testing.T) {
		e := newEncoded(t, func(e *flatEncoder) {
			e.Word(2)
			e.Word(0)
			e.Word(0)
			e.Bits8(tagError, termTagWidth)
		})
		_, err := UnFlat(e)
		if errors.Root(err) != ErrVersionTooNew {
			t.Fatalf("got %v want %v", err, ErrVersionTooNew)
		}
	})

	t.Run("unknown term tag", func(t *testing.T) {
		e := newEncoded(t, func(e *flatEncoder) {
			e.Word(1)
			e.Word(0)
			e.Word(0)
			e.Bits8(0xf, termTagWidth)
		})
		_, err := UnFlat(e)
		if errors.Root(err) != ErrUnknownTermTag {
			t.Fatalf("got %v want %v", err, ErrUnknownTermTag)
		}
	})

	t.Run("unknown builtin", func(t *testing.T) {
		e := newEncoded(t, func(e *flatEncoder) {
			e.Word(1)
			e.Word(0)
			e.Word(0)
			e.Bits8(tagBuiltin, termTagWidth)
			e.Bits8(100, builtinWidth)
		})
		_, err := UnFlat(e)
		if errors.Root(err) != builtins.ErrUnknownBuiltin {
			t.Fatalf("got %v want %v", err, builtins.ErrUnknownBuiltin)
		}
	})

	t.Run("truncated", func(t *testing.T) {
		p := Program{Version: V1_0_0, Term: Constant{Con: Integer{Inner: big.NewInt(1)}}}
		enc, err := p.Flat()
		if err != nil {
			testutil.FatalErr(t, err)
		}
		_, err = UnFlat(enc[:1])
		if errors.Root(err) != flat.ErrUnexpectedEnd {
			t.Fatalf("got %v want %v", err, flat.ErrUnexpectedEnd)
		}
	})

	t.Run("trailing bytes", func(t *testing.T) {
		p := Program{Version: V1_0_0, Term: Error{}}
		enc, err := p.Flat()
		if err != nil {
			testutil.FatalErr(t, err)
		}
		_, err = UnFlat(append(enc, 0x00))
		if errors.Root(err) != flat.ErrTrailingBytes {
			t.Fatalf("got %v want %v", err, flat.ErrTrailingBytes)
		}
	})
}

type flatEncoder = flat.Encoder

func newEncoded(t *testing.T, fill func(*flatEncoder)) []byte {
	t.Helper()
	e := flat.NewEncoder()
	fill(e)
	e.Filler()
	return e.Data()
}

func TestCBOREnvelope(t *testing.T) {
	p := Program{Version: V1_0_0, Term: Constant{Con: Integer{Inner: big.NewInt(42)}}}
	h, err := p.ToHex()
	if err != nil {
		testutil.FatalErr(t, err)
	}
	// 6 flat bytes wrapped as a CBOR byte string.
	if h != "46010000481501" {
		t.Fatalf("ToHex() = %s want 46010000481501", h)
	}
	back, err := FromHex(h)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	if !testutil.DeepEqual(back, p) {
		t.Fatalf("FromHex(ToHex()) = %#v want %#v", back, p)
	}
}

func TestWellformed(t *testing.T) {
	good := Lambda{Body: Var{Name: Name{Index: 1}}}
	if err := Wellformed(good); err != nil {
		t.Fatalf("well-formed term rejected: %v", err)
	}
	open := Lambda{Body: Var{Name: Name{Index: 2}}}
	if err := Wellformed(open); errors.Root(err) != ErrOpenTerm {
		t.Fatalf("open term: got %v want %v", err, ErrOpenTerm)
	}
	if err := Wellformed(Var{Name: Name{Index: 1}}); errors.Root(err) != ErrOpenTerm {
		t.Fatal("free variable should be rejected")
	}
}
