package flat

import (
	"math/big"
	"unicode/utf8"

	"github.com/spacebudz/aiken/errors"
)

var (
	// ErrUnexpectedEnd means the stream ran out of bits mid-value.
	ErrUnexpectedEnd = errors.New("unexpected end of input")
	// ErrTrailingBytes means bytes remain after the closing filler.
	ErrTrailingBytes = errors.New("trailing bytes after end of stream")
	// ErrRange means a decoded value does not fit its target type.
	ErrRange = errors.New("value out of range")
	// ErrUnalignedBytes means a byte string was not preceded by its
	// alignment filler.
	ErrUnalignedBytes = errors.New("byte string begins off byte boundary")
	// ErrUtf8 means a decoded string is not valid UTF-8.
	ErrUtf8 = errors.New("invalid utf-8 string")
)

// Decoder reads a bitstream produced by Encoder.
type Decoder struct {
	buf  []byte
	pos  int
	used uint8 // bits consumed from buf[pos], 0..7
}

func NewDecoder(b []byte) *Decoder {
	return &Decoder{buf: b}
}

// Bit reads a single bit.
func (d *Decoder) Bit() (bool, error) {
	if d.pos >= len(d.buf) {
		return false, ErrUnexpectedEnd
	}
	b := d.buf[d.pos]&(128>>d.used) != 0
	d.dropBits(1)
	return b, nil
}

// Bits8 reads n bits, n at most 8, into the low-order bits of the
// result.
func (d *Decoder) Bits8(n uint8) (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, ErrUnexpectedEnd
	}
	if d.used+n > 8 && d.pos+1 >= len(d.buf) {
		return 0, ErrUnexpectedEnd
	}
	x := d.buf[d.pos] << d.used >> (8 - n)
	if d.used+n > 8 {
		x |= d.buf[d.pos+1] >> (16 - d.used - n)
	}
	d.dropBits(n)
	return x, nil
}

func (d *Decoder) dropBits(n uint8) {
	total := d.used + n
	d.pos += int(total / 8)
	d.used = total % 8
}

// Word reads a variable-length unsigned value of at most 64 bits.
func (d *Decoder) Word() (uint64, error) {
	var (
		res   uint64
		shift uint
	)
	for {
		w, err := d.Bits8(8)
		if err != nil {
			return 0, err
		}
		if shift > 63 || (shift == 63 && w&127 > 1) {
			return 0, ErrRange
		}
		res |= uint64(w&127) << shift
		if w&128 == 0 {
			return res, nil
		}
		shift += 7
	}
}

// BigWord reads a variable-length unbounded natural.
func (d *Decoder) BigWord() (*big.Int, error) {
	var (
		res   = new(big.Int)
		chunk = new(big.Int)
		shift uint
	)
	for {
		w, err := d.Bits8(8)
		if err != nil {
			return nil, err
		}
		chunk.SetUint64(uint64(w & 127))
		res.Or(res, chunk.Lsh(chunk, shift))
		if w&128 == 0 {
			return res, nil
		}
		shift += 7
	}
}

// Integer reads a zig-zag encoded signed unbounded integer.
func (d *Decoder) Integer() (*big.Int, error) {
	u, err := d.BigWord()
	if err != nil {
		return nil, err
	}
	return unZigZag(u), nil
}

// Bytes reads a byte string: an alignment filler followed by
// length-prefixed blocks terminated by a zero-length block.
func (d *Decoder) Bytes() ([]byte, error) {
	err := d.Filler()
	if err != nil {
		return nil, err
	}
	return d.byteArray()
}

// Utf8 reads a Bytes-framed UTF-8 string.
func (d *Decoder) Utf8() (string, error) {
	b, err := d.Bytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", ErrUtf8
	}
	return string(b), nil
}

func (d *Decoder) byteArray() ([]byte, error) {
	if d.used != 0 {
		return nil, ErrUnalignedBytes
	}
	var res []byte
	for {
		if d.pos >= len(d.buf) {
			return nil, ErrUnexpectedEnd
		}
		blk := int(d.buf[d.pos])
		d.pos++
		if blk == 0 {
			return res, nil
		}
		if d.pos+blk > len(d.buf) {
			return nil, ErrUnexpectedEnd
		}
		res = append(res, d.buf[d.pos:d.pos+blk]...)
		d.pos += blk
	}
}

// Filler consumes zero bits up to and including the terminating 1 bit.
func (d *Decoder) Filler() error {
	for {
		b, err := d.Bit()
		if err != nil {
			return err
		}
		if b {
			return nil
		}
	}
}

// Done verifies the stream has been fully consumed.
func (d *Decoder) Done() error {
	if d.pos < len(d.buf) {
		return errors.WithDetailf(ErrTrailingBytes, "%d bytes remain", len(d.buf)-d.pos)
	}
	return nil
}
