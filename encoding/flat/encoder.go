// Package flat implements the bit-granular serialization primitives
// used by the on-chain program format: sub-byte tag writes, 7-bit-chunk
// variable-length words, zig-zag signed integers, byte-aligned chunked
// byte strings and the padding filler that closes a bitstream.
//
// All values are written most-significant bit first within each byte.
// The format has no host-endianness or floating-point dependence.
package flat

import (
	"math/big"
)

// Encoder accumulates a bitstream. The zero value is ready to use.
type Encoder struct {
	buf     []byte
	current byte  // partial byte being filled
	used    uint8 // bits of current in use, 0..7
}

func NewEncoder() *Encoder {
	return &Encoder{}
}

// Data returns the encoded bytes. The stream must have been closed
// with Filler, otherwise the final partial byte is lost.
func (e *Encoder) Data() []byte {
	return e.buf
}

// Bit writes a single bit.
func (e *Encoder) Bit(b bool) {
	if b {
		e.current |= 128 >> e.used
	}
	e.used++
	if e.used == 8 {
		e.flush()
	}
}

// Bits8 writes the n low-order bits of val, most significant first.
// n must be at most 8.
func (e *Encoder) Bits8(val byte, n uint8) {
	if n == 0 {
		return
	}
	free := 8 - e.used
	if n <= free {
		e.current |= (val & (1<<n - 1)) << (free - n)
		e.used += n
		if e.used == 8 {
			e.flush()
		}
		return
	}
	// Straddles a byte boundary: split into the part that fits and
	// the remainder.
	e.Bits8(val>>(n-free), free)
	e.Bits8(val&(1<<(n-free)-1), n-free)
}

func (e *Encoder) flush() {
	e.buf = append(e.buf, e.current)
	e.current = 0
	e.used = 0
}

// Word writes an unsigned value as little-endian 7-bit chunks, each
// preceded by a continuation bit.
func (e *Encoder) Word(n uint64) {
	for {
		w := byte(n & 127)
		n >>= 7
		if n != 0 {
			w |= 128
		}
		e.Bits8(w, 8)
		if n == 0 {
			return
		}
	}
}

// BigWord is Word for unbounded naturals. n must not be negative.
func (e *Encoder) BigWord(n *big.Int) {
	if n.IsUint64() {
		e.Word(n.Uint64())
		return
	}
	rest := new(big.Int).Set(n)
	mask := big.NewInt(127)
	chunk := new(big.Int)
	for {
		chunk.And(rest, mask)
		rest.Rsh(rest, 7)
		w := byte(chunk.Uint64())
		if rest.Sign() != 0 {
			w |= 128
		}
		e.Bits8(w, 8)
		if rest.Sign() == 0 {
			return
		}
	}
}

// Integer writes a signed unbounded integer using the zig-zag mapping
// over BigWord.
func (e *Encoder) Integer(n *big.Int) {
	e.BigWord(zigZag(n))
}

// Bytes writes a byte string: the stream is padded to a byte boundary
// with a filler, then the bytes follow in blocks of at most 255
// prefixed by their length, terminated by a zero-length block.
func (e *Encoder) Bytes(b []byte) {
	e.Filler()
	e.byteArray(b)
}

// Utf8 writes the UTF-8 bytes of s with Bytes framing.
func (e *Encoder) Utf8(s string) {
	e.Bytes([]byte(s))
}

func (e *Encoder) byteArray(b []byte) {
	for len(b) > 0 {
		blk := len(b)
		if blk > 255 {
			blk = 255
		}
		e.Bits8(byte(blk), 8)
		for _, c := range b[:blk] {
			e.Bits8(c, 8)
		}
		b = b[blk:]
	}
	e.Bits8(0, 8)
}

// Filler pads the stream to a byte boundary: zero bits followed by a
// final 1 bit. A filler is written even when the stream is already
// aligned, so the decoder can always consume one.
func (e *Encoder) Filler() {
	e.current |= 1
	e.flush()
}
