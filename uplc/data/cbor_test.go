package data

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/spacebudz/aiken/errors"
)

func TestEncodeKnownBytes(t *testing.T) {
	big1 := new(big.Int)
	big1.SetString("18446744073709551616", 10) // 2^64
	cases := []struct {
		d    PlutusData
		want string
	}{
		{Integer{big.NewInt(0)}, "00"},
		{Integer{big.NewInt(23)}, "17"},
		{Integer{big.NewInt(24)}, "1818"},
		{Integer{big.NewInt(-1)}, "20"},
		{Integer{big.NewInt(1000)}, "1903e8"},
		{Integer{big1}, "c249010000000000000000"},
		{ByteString{nil}, "40"},
		{ByteString{[]byte{0xde, 0xad}}, "42dead"},
		{List{}, "80"},
		{List{[]PlutusData{Integer{big.NewInt(1)}}}, "9f01ff"},
		{Constr{Tag: 0}, "d87980"},
		{Constr{Tag: 6}, "d87f80"},
		{Constr{Tag: 7}, "d9050080"},
		{Constr{Tag: 1, Fields: []PlutusData{Integer{big.NewInt(42)}}}, "d87a9f182aff"},
		{Constr{Tag: 200}, "d866 82 18c8 80"},
		{Map{}, "a0"},
		{
			Map{[]Pair{{ByteString{[]byte{0x01}}, Integer{big.NewInt(2)}}}},
			"a1410102",
		},
	}
	for _, c := range cases {
		want, err := hex.DecodeString(replaceSpaces(c.want))
		if err != nil {
			t.Fatal(err)
		}
		got := Encode(c.d)
		if !bytes.Equal(got, want) {
			t.Errorf("Encode(%s) = %x want %x", c.d, got, want)
		}
	}
}

func replaceSpaces(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' {
			out = append(out, s[i])
		}
	}
	return string(out)
}

func TestRoundTrip(t *testing.T) {
	long := make([]byte, 150)
	for i := range long {
		long[i] = byte(i * 3)
	}
	negBig := new(big.Int)
	negBig.SetString("-340282366920938463463374607431768211455", 10)

	cases := []PlutusData{
		Integer{big.NewInt(0)},
		Integer{big.NewInt(-42)},
		Integer{negBig},
		ByteString{long},
		Constr{Tag: 121, Fields: []PlutusData{ByteString{[]byte("k")}}},
		Map{[]Pair{
			{Integer{big.NewInt(1)}, List{[]PlutusData{Integer{big.NewInt(2)}}}},
			{Integer{big.NewInt(1)}, Integer{big.NewInt(3)}}, // duplicate key
			{List{[]PlutusData{}}, ByteString{nil}},          // structured key
		}},
		Constr{Tag: 2, Fields: []PlutusData{
			Constr{Tag: 0},
			Map{},
			List{[]PlutusData{ByteString{[]byte{1, 2}}}},
		}},
	}
	for _, d := range cases {
		enc := Encode(d)
		got, err := Decode(enc)
		if err != nil {
			t.Fatalf("Decode(Encode(%s)): %v", d, err)
		}
		if !Equal(got, d) {
			t.Errorf("round trip changed %s into %s", d, got)
		}
	}
}

func TestByteStringChunking(t *testing.T) {
	b := make([]byte, 65)
	enc := Encode(ByteString{b})
	if enc[0] != 0x5f {
		t.Fatalf("65-byte string should be indefinite, got leading byte %#x", enc[0])
	}
	if enc[len(enc)-1] != 0xff {
		t.Fatal("indefinite string should end with a break")
	}

	enc = Encode(ByteString{b[:64]})
	if enc[0] != 0x58 || enc[1] != 64 {
		t.Fatalf("64-byte string should be definite, got header %x", enc[:2])
	}
}

func TestDecodeMalformed(t *testing.T) {
	cases := []string{
		"",         // empty
		"1a",       // truncated length
		"43ff",     // truncated byte string
		"9f01",     // unterminated array
		"d879",     // tag with no content
		"f6",       // null is not data
		"0001",     // trailing bytes
		"d8668001", // general constructor with bad shape
	}
	for _, c := range cases {
		b, err := hex.DecodeString(c)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := Decode(b); errors.Root(err) != ErrCBORDecode {
			t.Errorf("Decode(%s): got %v want %v", c, err, ErrCBORDecode)
		}
	}
}
