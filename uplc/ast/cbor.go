package ast

import (
	"encoding/hex"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/spacebudz/aiken/errors"
)

// On-chain scripts travel as their flat bytes wrapped in a CBOR byte
// string; ledger structures often wrap that byte string once more.

var ErrScriptEnvelope = errors.New("bad script envelope")

// ToCBOR returns the program's flat bytes wrapped as a CBOR byte
// string.
func (p Program) ToCBOR() ([]byte, error) {
	raw, err := p.Flat()
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(raw)
}

// FromCBOR unwraps a CBOR byte string and decodes the flat program
// inside. A doubly wrapped script is unwrapped twice.
func FromCBOR(b []byte) (Program, error) {
	var raw []byte
	err := cbor.Unmarshal(b, &raw)
	if err != nil {
		return Program{}, errors.Wrap(ErrScriptEnvelope, err.Error())
	}
	// Double wrapping: the inner bytes are themselves a CBOR byte
	// string holding the flat program.
	var inner []byte
	if cbor.Unmarshal(raw, &inner) == nil {
		if p, err := UnFlat(inner); err == nil {
			return p, nil
		}
	}
	return UnFlat(raw)
}

// ToHex is ToCBOR in hexadecimal, the form used in blueprint files.
func (p Program) ToHex() (string, error) {
	b, err := p.ToCBOR()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// FromHex decodes a hex-encoded CBOR-wrapped program.
func FromHex(s string) (Program, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Program{}, errors.Wrap(ErrScriptEnvelope, err.Error())
	}
	return FromCBOR(b)
}

// HashV2 computes the PlutusV2 script hash: blake2b-224 over the
// language prefix byte 0x02 followed by the CBOR-wrapped script.
func (p Program) HashV2() ([28]byte, error) {
	var out [28]byte
	b, err := p.ToCBOR()
	if err != nil {
		return out, err
	}
	h, err := blake2b.New(28, nil)
	if err != nil {
		return out, err
	}
	h.Write([]byte{0x02})
	h.Write(b)
	copy(out[:], h.Sum(nil))
	return out, nil
}
