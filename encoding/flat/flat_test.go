package flat

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/spacebudz/aiken/errors"
)

func TestBits8RoundTrip(t *testing.T) {
	e := NewEncoder()
	e.Bits8(0b0100, 4) // constant term tag
	e.Bit(true)
	e.Bits8(0b0000, 4)
	e.Bit(false)
	e.Bits8(0b01010100, 8)
	e.Filler()

	want := []byte{0x48, 0x15, 0x01}
	if !bytes.Equal(e.Data(), want) {
		t.Fatalf("encoded = %x want %x", e.Data(), want)
	}

	d := NewDecoder(e.Data())
	got4, err := d.Bits8(4)
	if err != nil {
		t.Fatal(err)
	}
	if got4 != 0b0100 {
		t.Fatalf("Bits8(4) = %b want 0100", got4)
	}
	b, err := d.Bit()
	if err != nil || !b {
		t.Fatalf("Bit() = %v, %v want true", b, err)
	}
	got4, err = d.Bits8(4)
	if err != nil || got4 != 0 {
		t.Fatalf("Bits8(4) = %b, %v want 0", got4, err)
	}
	b, err = d.Bit()
	if err != nil || b {
		t.Fatalf("Bit() = %v, %v want false", b, err)
	}
	got8, err := d.Bits8(8)
	if err != nil || got8 != 0b01010100 {
		t.Fatalf("Bits8(8) = %b, %v want 01010100", got8, err)
	}
	if err = d.Filler(); err != nil {
		t.Fatal(err)
	}
	if err = d.Done(); err != nil {
		t.Fatal(err)
	}
}

func TestWord(t *testing.T) {
	cases := []uint64{0, 1, 127, 128, 300, 16383, 16384, 1<<63 - 1}
	for _, n := range cases {
		e := NewEncoder()
		e.Word(n)
		e.Filler()
		d := NewDecoder(e.Data())
		got, err := d.Word()
		if err != nil {
			t.Fatalf("Word(%d): %v", n, err)
		}
		if got != n {
			t.Errorf("Word round trip: got %d want %d", got, n)
		}
	}
}

func TestInteger(t *testing.T) {
	big1 := new(big.Int)
	big1.SetString("123456789012345678901234567890", 10)
	big2 := new(big.Int).Neg(big1)
	cases := []*big.Int{
		big.NewInt(0),
		big.NewInt(1),
		big.NewInt(-1),
		big.NewInt(42),
		big.NewInt(-42),
		big.NewInt(1 << 62),
		big1,
		big2,
	}
	for _, n := range cases {
		e := NewEncoder()
		e.Integer(n)
		e.Filler()
		d := NewDecoder(e.Data())
		got, err := d.Integer()
		if err != nil {
			t.Fatalf("Integer(%v): %v", n, err)
		}
		if got.Cmp(n) != 0 {
			t.Errorf("Integer round trip: got %v want %v", got, n)
		}
	}
}

func TestZigZag(t *testing.T) {
	cases := []struct {
		n, want int64
	}{
		{0, 0}, {-1, 1}, {1, 2}, {-2, 3}, {2, 4}, {42, 84},
	}
	for _, c := range cases {
		got := zigZag(big.NewInt(c.n))
		if got.Int64() != c.want {
			t.Errorf("zigZag(%d) = %v want %d", c.n, got, c.want)
		}
		back := unZigZag(got)
		if back.Int64() != c.n {
			t.Errorf("unZigZag(zigZag(%d)) = %v", c.n, back)
		}
	}
}

func TestBytes(t *testing.T) {
	long := make([]byte, 600)
	for i := range long {
		long[i] = byte(i)
	}
	cases := [][]byte{nil, {0xab}, {1, 2, 3}, long}
	for _, b := range cases {
		e := NewEncoder()
		e.Bits8(5, 3) // misalign on purpose
		e.Bytes(b)
		e.Filler()
		d := NewDecoder(e.Data())
		if _, err := d.Bits8(3); err != nil {
			t.Fatal(err)
		}
		got, err := d.Bytes()
		if err != nil {
			t.Fatalf("Bytes(len %d): %v", len(b), err)
		}
		if !bytes.Equal(got, b) {
			t.Errorf("Bytes round trip: got %x want %x", got, b)
		}
	}
}

func TestUnexpectedEnd(t *testing.T) {
	d := NewDecoder([]byte{0x80})
	if _, err := d.Word(); errors.Root(err) != ErrUnexpectedEnd {
		t.Errorf("Word on truncated stream: got %v want %v", err, ErrUnexpectedEnd)
	}

	d = NewDecoder(nil)
	if _, err := d.Bit(); errors.Root(err) != ErrUnexpectedEnd {
		t.Errorf("Bit on empty stream: got %v want %v", err, ErrUnexpectedEnd)
	}

	d = NewDecoder([]byte{0x01, 0x05, 0xaa})
	if _, err := d.Bytes(); errors.Root(err) != ErrUnexpectedEnd {
		t.Errorf("Bytes on truncated block: got %v want %v", err, ErrUnexpectedEnd)
	}
}

func TestTrailingBytes(t *testing.T) {
	d := NewDecoder([]byte{0x01, 0xff})
	if err := d.Filler(); err != nil {
		t.Fatal(err)
	}
	if err := d.Done(); errors.Root(err) != ErrTrailingBytes {
		t.Errorf("Done with leftovers: got %v want %v", err, ErrTrailingBytes)
	}
}
