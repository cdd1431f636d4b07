package data

import (
	"encoding/binary"
	"math/big"

	"github.com/spacebudz/aiken/errors"
)

// The ledger's CBOR form for data values is stricter than generic
// CBOR: byte strings longer than 64 bytes become indefinite-length
// strings of 64-byte chunks, lists are definite only when empty,
// constructor tags use the 121/1280/102 ranges, and integers outside
// the major-0/1 range become tagged bignums. Duplicate and structured
// map keys are legal. A generic CBOR codec cannot be bent into
// producing these bytes exactly, so the few cases needed are done by
// hand here.

var (
	ErrCBORDecode  = errors.New("malformed data encoding")
	ErrCBORTooDeep = errors.New("data nesting too deep")
)

const (
	majUnsigned = 0
	majNegative = 1
	majBytes    = 2
	majText     = 3
	majArray    = 4
	majMap      = 5
	majTag      = 6
	majSimple   = 7
)

const (
	chunkSize    = 64
	maxNesting   = 1024
	breakByte    = 0xff
	indefBytes   = 0x5f
	indefArray   = 0x9f
	generalConst = 102
)

// Encode returns the canonical CBOR bytes of d.
func Encode(d PlutusData) []byte {
	return appendData(nil, d)
}

func appendData(buf []byte, d PlutusData) []byte {
	switch x := d.(type) {
	case Constr:
		switch {
		case x.Tag < 7:
			buf = appendHead(buf, majTag, 121+x.Tag)
			buf = appendList(buf, x.Fields)
		case x.Tag < 128:
			buf = appendHead(buf, majTag, 1280+x.Tag-7)
			buf = appendList(buf, x.Fields)
		default:
			buf = appendHead(buf, majTag, generalConst)
			buf = appendHead(buf, majArray, 2)
			buf = appendHead(buf, majUnsigned, x.Tag)
			buf = appendList(buf, x.Fields)
		}
		return buf
	case Map:
		buf = appendHead(buf, majMap, uint64(len(x.Pairs)))
		for _, p := range x.Pairs {
			buf = appendData(buf, p.Key)
			buf = appendData(buf, p.Value)
		}
		return buf
	case List:
		return appendList(buf, x.Items)
	case Integer:
		return appendInteger(buf, x.Inner)
	case ByteString:
		return appendBytes(buf, x.Inner)
	}
	panic("unreachable data variant")
}

// Lists are definite-length only when empty.
func appendList(buf []byte, items []PlutusData) []byte {
	if len(items) == 0 {
		return appendHead(buf, majArray, 0)
	}
	buf = append(buf, indefArray)
	for _, it := range items {
		buf = appendData(buf, it)
	}
	return append(buf, breakByte)
}

func appendInteger(buf []byte, n *big.Int) []byte {
	if n.Sign() >= 0 {
		if n.IsUint64() {
			return appendHead(buf, majUnsigned, n.Uint64())
		}
		buf = appendHead(buf, majTag, 2)
		return appendBytes(buf, n.Bytes())
	}
	m := new(big.Int).Neg(n)
	m.Sub(m, big.NewInt(1)) // -n-1
	if m.IsUint64() {
		return appendHead(buf, majNegative, m.Uint64())
	}
	buf = appendHead(buf, majTag, 3)
	return appendBytes(buf, m.Bytes())
}

// Byte strings at most 64 bytes long are definite; longer ones are
// chunked into an indefinite-length string of 64-byte pieces.
func appendBytes(buf, b []byte) []byte {
	if len(b) <= chunkSize {
		buf = appendHead(buf, majBytes, uint64(len(b)))
		return append(buf, b...)
	}
	buf = append(buf, indefBytes)
	for len(b) > 0 {
		n := len(b)
		if n > chunkSize {
			n = chunkSize
		}
		buf = appendHead(buf, majBytes, uint64(n))
		buf = append(buf, b[:n]...)
		b = b[n:]
	}
	return append(buf, breakByte)
}

func appendHead(buf []byte, major byte, n uint64) []byte {
	switch {
	case n < 24:
		return append(buf, major<<5|byte(n))
	case n <= 0xff:
		return append(buf, major<<5|24, byte(n))
	case n <= 0xffff:
		buf = append(buf, major<<5|25)
		return binary.BigEndian.AppendUint16(buf, uint16(n))
	case n <= 0xffffffff:
		buf = append(buf, major<<5|26)
		return binary.BigEndian.AppendUint32(buf, uint32(n))
	default:
		buf = append(buf, major<<5|27)
		return binary.BigEndian.AppendUint64(buf, n)
	}
}

// Decode parses the CBOR bytes of a data value. The whole input must
// be consumed.
func Decode(b []byte) (PlutusData, error) {
	r := &reader{buf: b}
	d, err := r.data(0)
	if err != nil {
		return nil, err
	}
	if r.pos != len(b) {
		return nil, errors.WithDetailf(ErrCBORDecode, "%d trailing bytes", len(b)-r.pos)
	}
	return d, nil
}

type reader struct {
	buf []byte
	pos int
}

func (r *reader) byte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, errors.WithDetail(ErrCBORDecode, "unexpected end of input")
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) peek() (byte, bool) {
	if r.pos >= len(r.buf) {
		return 0, false
	}
	return r.buf[r.pos], true
}

// head reads a CBOR item head. indef is true for indefinite-length
// containers, in which case n is meaningless.
func (r *reader) head() (major byte, n uint64, indef bool, err error) {
	b, err := r.byte()
	if err != nil {
		return 0, 0, false, err
	}
	major = b >> 5
	info := b & 31
	switch {
	case info < 24:
		return major, uint64(info), false, nil
	case info == 24, info == 25, info == 26, info == 27:
		width := 1 << (info - 24)
		if r.pos+width > len(r.buf) {
			return 0, 0, false, errors.WithDetail(ErrCBORDecode, "truncated length")
		}
		for i := 0; i < width; i++ {
			n = n<<8 | uint64(r.buf[r.pos+i])
		}
		r.pos += width
		return major, n, false, nil
	case info == 31 && (major == majBytes || major == majText || major == majArray || major == majMap):
		return major, 0, true, nil
	default:
		return 0, 0, false, errors.WithDetailf(ErrCBORDecode, "bad additional info %d", info)
	}
}

func (r *reader) data(depth int) (PlutusData, error) {
	if depth > maxNesting {
		return nil, ErrCBORTooDeep
	}
	major, n, indef, err := r.head()
	if err != nil {
		return nil, err
	}
	switch major {
	case majUnsigned:
		return Integer{new(big.Int).SetUint64(n)}, nil
	case majNegative:
		m := new(big.Int).SetUint64(n)
		m.Neg(m)
		m.Sub(m, big.NewInt(1))
		return Integer{m}, nil
	case majBytes:
		b, err := r.byteString(n, indef)
		if err != nil {
			return nil, err
		}
		return ByteString{b}, nil
	case majArray:
		items, err := r.array(n, indef, depth)
		if err != nil {
			return nil, err
		}
		return List{items}, nil
	case majMap:
		return r.mapPairs(n, indef, depth)
	case majTag:
		return r.tagged(n, depth)
	default:
		return nil, errors.WithDetailf(ErrCBORDecode, "unexpected major type %d", major)
	}
}

func (r *reader) tagged(tag uint64, depth int) (PlutusData, error) {
	switch {
	case tag >= 121 && tag < 128:
		fields, err := r.fieldList(depth)
		if err != nil {
			return nil, err
		}
		return Constr{Tag: tag - 121, Fields: fields}, nil
	case tag >= 1280 && tag < 1401:
		fields, err := r.fieldList(depth)
		if err != nil {
			return nil, err
		}
		return Constr{Tag: tag - 1280 + 7, Fields: fields}, nil
	case tag == generalConst:
		major, n, indef, err := r.head()
		if err != nil {
			return nil, err
		}
		if major != majArray || indef || n != 2 {
			return nil, errors.WithDetail(ErrCBORDecode, "general constructor must be a 2-element array")
		}
		major, alt, indef, err := r.head()
		if err != nil {
			return nil, err
		}
		if major != majUnsigned || indef {
			return nil, errors.WithDetail(ErrCBORDecode, "general constructor tag must be unsigned")
		}
		fields, err := r.fieldList(depth)
		if err != nil {
			return nil, err
		}
		return Constr{Tag: alt, Fields: fields}, nil
	case tag == 2, tag == 3:
		major, n, indef, err := r.head()
		if err != nil {
			return nil, err
		}
		if major != majBytes {
			return nil, errors.WithDetail(ErrCBORDecode, "bignum content must be a byte string")
		}
		b, err := r.byteString(n, indef)
		if err != nil {
			return nil, err
		}
		m := new(big.Int).SetBytes(b)
		if tag == 3 {
			m.Neg(m)
			m.Sub(m, big.NewInt(1))
		}
		return Integer{m}, nil
	default:
		return nil, errors.WithDetailf(ErrCBORDecode, "unexpected tag %d", tag)
	}
}

func (r *reader) fieldList(depth int) ([]PlutusData, error) {
	major, n, indef, err := r.head()
	if err != nil {
		return nil, err
	}
	if major != majArray {
		return nil, errors.WithDetail(ErrCBORDecode, "constructor fields must be an array")
	}
	return r.array(n, indef, depth)
}

func (r *reader) array(n uint64, indef bool, depth int) ([]PlutusData, error) {
	var items []PlutusData
	if indef {
		for {
			if b, ok := r.peek(); ok && b == breakByte {
				r.pos++
				return items, nil
			}
			it, err := r.data(depth + 1)
			if err != nil {
				return nil, err
			}
			items = append(items, it)
		}
	}
	for i := uint64(0); i < n; i++ {
		it, err := r.data(depth + 1)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

func (r *reader) mapPairs(n uint64, indef bool, depth int) (PlutusData, error) {
	var pairs []Pair
	readPair := func() error {
		k, err := r.data(depth + 1)
		if err != nil {
			return err
		}
		v, err := r.data(depth + 1)
		if err != nil {
			return err
		}
		pairs = append(pairs, Pair{Key: k, Value: v})
		return nil
	}
	if indef {
		for {
			if b, ok := r.peek(); ok && b == breakByte {
				r.pos++
				return Map{pairs}, nil
			}
			if err := readPair(); err != nil {
				return nil, err
			}
		}
	}
	for i := uint64(0); i < n; i++ {
		if err := readPair(); err != nil {
			return nil, err
		}
	}
	return Map{pairs}, nil
}

func (r *reader) byteString(n uint64, indef bool) ([]byte, error) {
	if !indef {
		if uint64(len(r.buf)-r.pos) < n {
			return nil, errors.WithDetail(ErrCBORDecode, "truncated byte string")
		}
		b := r.buf[r.pos : r.pos+int(n)]
		r.pos += int(n)
		return b, nil
	}
	var out []byte
	for {
		if b, ok := r.peek(); ok && b == breakByte {
			r.pos++
			return out, nil
		}
		major, n, nested, err := r.head()
		if err != nil {
			return nil, err
		}
		if major != majBytes || nested {
			return nil, errors.WithDetail(ErrCBORDecode, "bad byte string chunk")
		}
		chunk, err := r.byteString(n, false)
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
	}
}
