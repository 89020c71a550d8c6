package dexscreener

import (
	"bytes"
	"fmt"
	"io"
)

// literalScanner rewrites the JavaScript object literal that the page assigns
// to window.__SERVER_DATA into plain JSON without evaluating anything.
//
// Outside string literals it rewrites
//
//	new Date(x), new URL(x)  ->  x     (new Date() -> null)
//	undefined                ->  null
//	{key: ...}               ->  {"key": ...}
//
// Everything else is copied through and left for the JSON decoder to judge.
type literalScanner struct {
	src   []byte
	pos   int
	out   bytes.Buffer
	stack []byte // open '{', '[' and 'c' for a constructor call
}

// constructors are the only calls the page literal may contain.
var constructors = map[string]bool{
	"Date": true,
	"URL":  true,
}

// normalizeLiteral scans one object literal starting at src[0] == '{' and
// returns it as JSON. Bytes after the closing brace are ignored.
func normalizeLiteral(src []byte) ([]byte, error) {
	s := &literalScanner{src: src}
	if err := s.scan(); err != nil {
		return nil, err
	}
	return s.out.Bytes(), nil
}

func (s *literalScanner) scan() error {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '"':
			if err := s.copyString(); err != nil {
				return err
			}
			continue
		case c == '{' || c == '[':
			s.stack = append(s.stack, c)
		case c == '}' || c == ']':
			if len(s.stack) == 0 || s.top() == 'c' {
				return fmt.Errorf("unexpected %q at offset %d", c, s.pos)
			}
			s.stack = s.stack[:len(s.stack)-1]
			s.out.WriteByte(c)
			s.pos++
			if len(s.stack) == 0 {
				return nil
			}
			continue
		case c == ')' && s.top() == 'c':
			s.stack = s.stack[:len(s.stack)-1]
			s.pos++
			continue
		case c == ',' && s.top() == 'c':
			return fmt.Errorf("constructor call with more than one argument at offset %d", s.pos)
		case isIdentStart(c):
			if err := s.identifier(); err != nil {
				return err
			}
			continue
		}
		s.out.WriteByte(c)
		s.pos++
	}
	return io.ErrUnexpectedEOF
}

func (s *literalScanner) top() byte {
	if len(s.stack) == 0 {
		return 0
	}
	return s.stack[len(s.stack)-1]
}

// copyString copies a double-quoted string, escapes included, untouched.
func (s *literalScanner) copyString() error {
	start := s.pos
	s.pos++
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case '\\':
			s.pos += 2
			continue
		case '"':
			s.pos++
			s.out.Write(s.src[start:s.pos])
			return nil
		}
		s.pos++
	}
	return io.ErrUnexpectedEOF
}

func (s *literalScanner) identifier() error {
	start := s.pos
	word := s.readIdent()

	// Unquoted object key.
	save := s.pos
	s.skipSpace()
	if s.top() == '{' && s.pos < len(s.src) && s.src[s.pos] == ':' {
		s.out.WriteByte('"')
		s.out.WriteString(word)
		s.out.WriteByte('"')
		return nil
	}
	s.pos = save

	switch word {
	case "undefined":
		s.out.WriteString("null")
		return nil
	case "new":
		s.skipSpace()
		ctor := s.readIdent()
		if !constructors[ctor] {
			return fmt.Errorf("unsupported constructor %q at offset %d", ctor, start)
		}
		s.skipSpace()
		if s.pos >= len(s.src) || s.src[s.pos] != '(' {
			return fmt.Errorf("expected ( after new %s at offset %d", ctor, s.pos)
		}
		s.pos++
		s.skipSpace()
		if s.pos < len(s.src) && s.src[s.pos] == ')' {
			s.pos++
			s.out.WriteString("null")
			return nil
		}
		s.stack = append(s.stack, 'c')
		return nil
	}

	s.out.WriteString(word)
	return nil
}

func (s *literalScanner) readIdent() string {
	start := s.pos
	for s.pos < len(s.src) && (isIdentStart(s.src[s.pos]) || isDigit(s.src[s.pos])) {
		s.pos++
	}
	return string(s.src[start:s.pos])
}

func (s *literalScanner) skipSpace() {
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case ' ', '\t', '\n', '\r':
			s.pos++
		default:
			return
		}
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
