// Package token declares the type representing a lexical token of Lox code.
package token

import (
	"cmp"
	"fmt"

	"github.com/mattn/go-runewidth"
)

//go:generate go tool stringer -type Type

// Type is the type of a lexical token of Lox code.
type Type int

// The list of all token types.
const (
	Illegal Type = iota
	EOF

	// Keywords
	keywordsStart
	Print
	Var
	True
	False
	Nil
	If
	Else
	And
	Or
	While
	For
	Fun
	Return
	Class
	This
	keywordsEnd

	// Literals
	Ident
	String
	Number

	// Symbols
	Semicolon
	Comma
	Dot
	Equal
	Plus
	Minus
	Asterisk
	Slash
	Less
	LessEqual
	Greater
	GreaterEqual
	EqualEqual
	BangEqual
	Bang
	LeftParen
	RightParen
	LeftBrace
	RightBrace
)

var typeStrings = map[Type]string{
	Illegal:      "illegal",
	EOF:          "EOF",
	Print:        "print",
	Var:          "var",
	True:         "true",
	False:        "false",
	Nil:          "nil",
	If:           "if",
	Else:         "else",
	And:          "and",
	Or:           "or",
	While:        "while",
	For:          "for",
	Fun:          "fun",
	Return:       "return",
	Class:        "class",
	This:         ThisIdent,
	Ident:        "identifier",
	String:       "string",
	Number:       "number",
	Semicolon:    ";",
	Comma:        ",",
	Dot:          ".",
	Equal:        "=",
	Plus:         "+",
	Minus:        "-",
	Asterisk:     "*",
	Slash:        "/",
	Less:         "<",
	LessEqual:    "<=",
	Greater:      ">",
	GreaterEqual: ">=",
	EqualEqual:   "==",
	BangEqual:    "!=",
	Bang:         "!",
	LeftParen:    "(",
	RightParen:   ")",
	LeftBrace:    "{",
	RightBrace:   "}",
}

// ThisIdent is the identifier used to refer to the current instance of a class within a method.
const ThisIdent = "this"

// InitIdent is the name of the constructor method of a class.
const InitIdent = "init"

func (t Type) String() string {
	if s, ok := typeStrings[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Format implements fmt.Formatter. All verbs have the default behaviour, except for 'm' (message) which formats the
// type for use in an error message.
func (t Type) Format(f fmt.State, verb rune) {
	switch verb {
	case 'm':
		fmt.Fprintf(f, "'%s'", t.String())
	default:
		fmt.Fprint(f, t.String())
	}
}

var keywordTypesByIdent = func() map[string]Type {
	m := make(map[string]Type, keywordsEnd-keywordsStart)
	for i := keywordsStart + 1; i < keywordsEnd; i++ {
		m[typeStrings[i]] = i
	}
	return m
}()

// LookupIdent returns the keyword Type associated with ident, or Ident if ident is not a keyword.
func LookupIdent(ident string) Type {
	if typ, ok := keywordTypesByIdent[ident]; ok {
		return typ
	}
	return Ident
}

// Token is a lexical token of Lox code.
//
// Two tokens with equal fields compare equal, and since Start encodes the token's exact source position, no two
// distinct occurrences of the same lexeme in a program ever produce equal tokens. This makes Token usable as a map
// key for per-occurrence data, such as the resolver's distance table.
type Token struct {
	Type    Type
	Lexeme  string
	Literal string // unquoted/raw literal text for String and Number tokens; unset otherwise
	Start   Position
	End     Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q [%s]", t.Type, t.Lexeme, t.Start)
}

// IsZero reports whether t is the zero value.
func (t Token) IsZero() bool {
	return t == Token{}
}

// Range describes a range of characters in the source code.
type Range interface {
	RangeStart() Position
	RangeEnd() Position
}

// Position is a position in a source file.
type Position struct {
	File   *SourceFile
	Line   int // 1-based line number
	Column int // 0-based byte offset from the start of the line
}

func (p Position) RangeStart() Position { return p }
func (p Position) RangeEnd() Position   { return p }

// Compare returns -1, 0 or +1 depending on whether p comes before, at, or after other in the same file.
func (p Position) Compare(other Position) int {
	if p.Line == other.Line {
		return cmp.Compare(p.Column, other.Column)
	}
	return cmp.Compare(p.Line, other.Line)
}

func (p Position) String() string {
	var prefix string
	if p.File != nil && p.File.Name != "" {
		prefix = p.File.Name + ":"
	}
	col := 1
	if p.File != nil {
		line := p.File.Line(p.Line)
		col = runewidth.StringWidth(string(line[:min(p.Column, len(line))])) + 1
	}
	return fmt.Sprintf("%s%d:%d", prefix, p.Line, col)
}

// Format implements fmt.Formatter. All verbs have the default behaviour, except for 'm' (message) which formats the
// position for use in an error message.
func (p Position) Format(f fmt.State, verb rune) {
	switch verb {
	case 'm':
		fmt.Fprint(f, p.String())
	default:
		fmt.Fprintf(f, fmt.FormatString(f, verb), p.String())
	}
}

// SourceFile is a simple representation of a source file, used to slice out the line of source code that an error
// applies to.
type SourceFile struct {
	Name        string
	contents    []byte
	lineOffsets []int
}

// NewSourceFile returns a new SourceFile with the given contents.
func NewSourceFile(name string, contents []byte) *SourceFile {
	f := &SourceFile{
		Name:     name,
		contents: contents,
	}
	f.lineOffsets = append(f.lineOffsets, 0)
	for i, b := range contents {
		if b == '\n' {
			f.lineOffsets = append(f.lineOffsets, i+1)
		}
	}
	return f
}

// Line returns the nth (1-based) line of the file, without its trailing newline.
func (f *SourceFile) Line(n int) []byte {
	if n < 1 || n > len(f.lineOffsets) {
		return nil
	}
	low := f.lineOffsets[n-1]
	high := len(f.contents)
	if n < len(f.lineOffsets) {
		high = f.lineOffsets[n] - 1 // -1 to exclude the newline
	}
	if high > len(f.contents) {
		high = len(f.contents)
	}
	return f.contents[low:high]
}
