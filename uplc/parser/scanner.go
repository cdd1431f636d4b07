package parser

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/spacebudz/aiken/errors"
)

// ErrSyntax is the root of every parse failure. Details carry the
// line, column and what was expected.
var ErrSyntax = errors.New("syntax error")

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokComma
	tokSymbol // keywords, names, numbers, version triples
	tokBytes  // #hex literal, decoded
	tokString // quoted string literal, unescaped
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokLBracket:
		return "'['"
	case tokRBracket:
		return "']'"
	case tokComma:
		return "','"
	case tokSymbol:
		return "symbol"
	case tokBytes:
		return "bytestring literal"
	case tokString:
		return "string literal"
	}
	return "token"
}

type token struct {
	kind  tokenKind
	text  string
	bytes []byte
	line  int
	col   int
}

type scanner struct {
	src  string
	pos  int
	line int
	col  int
}

func newScanner(src string) *scanner {
	return &scanner{src: src, line: 1, col: 1}
}

func (s *scanner) errf(line, col int, format string, args ...interface{}) error {
	return errors.WithDetailf(ErrSyntax, "line %d, column %d: "+format,
		append([]interface{}{line, col}, args...)...)
}

func (s *scanner) advance() byte {
	c := s.src[s.pos]
	s.pos++
	if c == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return c
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.src) {
		switch c := s.src[s.pos]; {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			s.advance()
		case c == '-' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '-' &&
			!(s.pos+2 < len(s.src) && isSymbolChar(s.src[s.pos+2])):
			// Comment to end of line. A leading "--" followed by a
			// digit is a number, not a comment.
			for s.pos < len(s.src) && s.src[s.pos] != '\n' {
				s.advance()
			}
		default:
			return
		}
	}
}

func isSymbolChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_' || c == '\'' || c == '.' || c == '-' || c == '+':
		return true
	}
	return false
}

func (s *scanner) next() (token, error) {
	s.skipSpace()
	if s.pos >= len(s.src) {
		return token{kind: tokEOF, line: s.line, col: s.col}, nil
	}
	line, col := s.line, s.col
	switch c := s.src[s.pos]; {
	case c == '(':
		s.advance()
		return token{kind: tokLParen, line: line, col: col}, nil
	case c == ')':
		s.advance()
		return token{kind: tokRParen, line: line, col: col}, nil
	case c == '[':
		s.advance()
		return token{kind: tokLBracket, line: line, col: col}, nil
	case c == ']':
		s.advance()
		return token{kind: tokRBracket, line: line, col: col}, nil
	case c == ',':
		s.advance()
		return token{kind: tokComma, line: line, col: col}, nil
	case c == '#':
		s.advance()
		start := s.pos
		for s.pos < len(s.src) && isHexDigit(s.src[s.pos]) {
			s.advance()
		}
		raw := s.src[start:s.pos]
		if len(raw)%2 != 0 {
			return token{}, s.errf(line, col, "odd-length bytestring literal #%s", raw)
		}
		b, err := hex.DecodeString(raw)
		if err != nil {
			return token{}, s.errf(line, col, "bad bytestring literal: %v", err)
		}
		return token{kind: tokBytes, bytes: b, line: line, col: col}, nil
	case c == '"':
		return s.scanString(line, col)
	case isSymbolChar(c):
		start := s.pos
		for s.pos < len(s.src) && isSymbolChar(s.src[s.pos]) {
			s.advance()
		}
		return token{kind: tokSymbol, text: s.src[start:s.pos], line: line, col: col}, nil
	default:
		return token{}, s.errf(line, col, "unexpected character %q", c)
	}
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

// scanString reads a Go-style quoted string literal.
func (s *scanner) scanString(line, col int) (token, error) {
	start := s.pos
	s.advance() // opening quote
	var escaped bool
	for s.pos < len(s.src) {
		c := s.advance()
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case '"':
			text, err := strconv.Unquote(s.src[start:s.pos])
			if err != nil {
				return token{}, s.errf(line, col, "bad string literal: %v", err)
			}
			return token{kind: tokString, text: text, line: line, col: col}, nil
		case '\n':
			return token{}, s.errf(line, col, "unterminated string literal")
		}
	}
	return token{}, s.errf(line, col, "unterminated string literal")
}

// looksNumeric reports whether a symbol is an (optionally signed)
// decimal number.
func looksNumeric(text string) bool {
	t := text
	if strings.HasPrefix(t, "-") || strings.HasPrefix(t, "+") {
		t = t[1:]
	}
	if t == "" {
		return false
	}
	for i := 0; i < len(t); i++ {
		if t[i] < '0' || t[i] > '9' {
			return false
		}
	}
	return true
}
