// Package scanner converts Lox source code into a sequence of lexical tokens.
package scanner

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/tomreyes/golox/token"
)

const eof = -1

// ErrorHandler is called by a Scanner whenever it encounters a lexical error. It's passed the offending (usually
// Illegal) token and a message describing the problem.
type ErrorHandler func(tok token.Token, msg string)

// Scanner converts Lox source code into lexical tokens.
//
// A Scanner is error-tolerant: on a lexical error it reports the problem to its ErrorHandler, skips the offending
// character(s) and keeps scanning, so that a single pass can surface every lexical error in a program.
type Scanner struct {
	src        []byte
	file       *token.SourceFile
	errHandler ErrorHandler

	ch         rune
	pos        token.Position
	readOffset int
	lastWidth  int
}

// New constructs a Scanner which reads the source code from r.
func New(r io.Reader, filename string) (*Scanner, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("constructing scanner: %s", err)
	}
	file := token.NewSourceFile(filename, src)
	s := &Scanner{
		src:        src,
		file:       file,
		errHandler: func(token.Token, string) {},
		pos:        token.Position{File: file, Line: 1, Column: 0},
	}
	s.advance()
	return s, nil
}

// SetErrorHandler sets the function which will be called whenever a lexical error is encountered.
func (s *Scanner) SetErrorHandler(h ErrorHandler) {
	s.errHandler = h
}

// ScanTokens scans the whole source and returns every token, terminated by a single EOF token.
// Lexical errors don't stop scanning; they're reported to the ErrorHandler and the offending text is skipped.
func (s *Scanner) ScanTokens() []token.Token {
	var toks []token.Token
	for {
		tok := s.Next()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

// Next returns the next token. An EOF token is returned once the end of the source code has been reached, and will
// be returned on every subsequent call.
func (s *Scanner) Next() token.Token {
	s.skipWhitespaceAndComments()

	start := s.pos
	var tok token.Token

	switch {
	case s.ch == eof:
		tok = token.Token{Type: token.EOF, Start: start, End: start}
	case s.ch == ';':
		tok = s.simple(token.Semicolon, start)
	case s.ch == ',':
		tok = s.simple(token.Comma, start)
	case s.ch == '.':
		tok = s.simple(token.Dot, start)
	case s.ch == '+':
		tok = s.simple(token.Plus, start)
	case s.ch == '-':
		tok = s.simple(token.Minus, start)
	case s.ch == '*':
		tok = s.simple(token.Asterisk, start)
	case s.ch == '/':
		tok = s.simple(token.Slash, start)
	case s.ch == '(':
		tok = s.simple(token.LeftParen, start)
	case s.ch == ')':
		tok = s.simple(token.RightParen, start)
	case s.ch == '{':
		tok = s.simple(token.LeftBrace, start)
	case s.ch == '}':
		tok = s.simple(token.RightBrace, start)
	case s.ch == '=':
		tok = s.oneOrTwo(token.Equal, '=', token.EqualEqual, start)
	case s.ch == '!':
		tok = s.oneOrTwo(token.Bang, '=', token.BangEqual, start)
	case s.ch == '<':
		tok = s.oneOrTwo(token.Less, '=', token.LessEqual, start)
	case s.ch == '>':
		tok = s.oneOrTwo(token.Greater, '=', token.GreaterEqual, start)
	case s.ch == '"':
		tok = s.scanString(start)
	case isDigit(s.ch):
		tok = s.scanNumber(start)
	case isAlpha(s.ch):
		tok = s.scanIdent(start)
	default:
		ch := s.ch
		s.advance()
		tok = token.Token{Type: token.Illegal, Lexeme: string(ch), Start: start, End: s.pos}
		s.errHandler(tok, fmt.Sprintf("unexpected character %q", ch))
	}

	return tok
}

func (s *Scanner) simple(typ token.Type, start token.Position) token.Token {
	lexeme := string(s.ch)
	s.advance()
	return token.Token{Type: typ, Lexeme: lexeme, Start: start, End: s.pos}
}

func (s *Scanner) oneOrTwo(one token.Type, second rune, two token.Type, start token.Position) token.Token {
	first := s.ch
	s.advance()
	if s.ch == second {
		lexeme := string(first) + string(s.ch)
		s.advance()
		return token.Token{Type: two, Lexeme: lexeme, Start: start, End: s.pos}
	}
	return token.Token{Type: one, Lexeme: string(first), Start: start, End: s.pos}
}

func (s *Scanner) skipWhitespaceAndComments() {
	for {
		switch {
		case isWhitespace(s.ch):
			s.advance()
		case s.ch == '/' && s.peek() == '/':
			for s.ch != '\n' && s.ch != eof {
				s.advance()
			}
		default:
			return
		}
	}
}

// scanString consumes a string literal, which may span multiple lines. An unterminated string (one that reaches EOF
// before the closing quote) reports a lexical error and yields no token: scanString instead returns the result of
// scanning on from there, which is EOF.
func (s *Scanner) scanString(start token.Position) token.Token {
	s.advance() // opening quote
	var b strings.Builder
	for {
		if s.ch == eof {
			tok := token.Token{Type: token.Illegal, Lexeme: `"` + b.String(), Start: start, End: s.pos}
			s.errHandler(tok, "unterminated string")
			return s.Next()
		}
		if s.ch == '"' {
			s.advance()
			return token.Token{Type: token.String, Lexeme: `"` + b.String() + `"`, Literal: b.String(), Start: start, End: s.pos}
		}
		b.WriteRune(s.ch)
		s.advance()
	}
}

func (s *Scanner) scanNumber(start token.Position) token.Token {
	var b strings.Builder
	for isDigit(s.ch) {
		b.WriteRune(s.ch)
		s.advance()
	}
	if s.ch == '.' && isDigit(s.peek()) {
		b.WriteRune(s.ch)
		s.advance()
		for isDigit(s.ch) {
			b.WriteRune(s.ch)
			s.advance()
		}
	}
	lexeme := b.String()
	return token.Token{Type: token.Number, Lexeme: lexeme, Literal: lexeme, Start: start, End: s.pos}
}

func (s *Scanner) scanIdent(start token.Position) token.Token {
	var b strings.Builder
	for isAlphaNumeric(s.ch) {
		b.WriteRune(s.ch)
		s.advance()
	}
	lexeme := b.String()
	return token.Token{Type: token.LookupIdent(lexeme), Lexeme: lexeme, Start: start, End: s.pos}
}

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\r', '\t', '\n':
		return true
	default:
		return false
	}
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

func isAlpha(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || r == '_'
}

func isAlphaNumeric(r rune) bool { return isAlpha(r) || isDigit(r) }

// advance reads the next character into s.ch and advances the scanner's position.
func (s *Scanner) advance() {
	if s.ch == '\n' {
		s.pos.Line++
		s.pos.Column = 0
	} else {
		s.pos.Column += s.lastWidth
	}

	if s.readOffset >= len(s.src) {
		s.ch = eof
		s.lastWidth = 0
		return
	}

	r, size := utf8.DecodeRune(s.src[s.readOffset:])
	if r == utf8.RuneError && size == 1 {
		badByte := s.src[s.readOffset]
		s.readOffset++
		s.lastWidth = 1
		s.ch = ' ' // treat as whitespace so scanning can continue
		end := s.pos
		end.Column++
		tok := token.Token{Type: token.Illegal, Lexeme: string(badByte), Start: s.pos, End: end}
		s.errHandler(tok, fmt.Sprintf("invalid UTF-8 byte %#x", badByte))
		return
	}

	s.lastWidth = size
	s.readOffset += size
	s.ch = r
}

// peek returns the next character without advancing the scanner. eof is returned at the end of the source.
func (s *Scanner) peek() rune {
	if s.readOffset >= len(s.src) {
		return eof
	}
	r, _ := utf8.DecodeRune(s.src[s.readOffset:])
	return r
}
