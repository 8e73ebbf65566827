package token_test

import (
	"fmt"
	"testing"

	"github.com/tomreyes/golox/internal/loxtest"
	"github.com/tomreyes/golox/token"
)

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		ident string
		want  token.Type
	}{
		{"and", token.And},
		{"class", token.Class},
		{"this", token.This},
		{"fun", token.Fun},
		{"foo", token.Ident},
		{"classic", token.Ident}, // not a keyword, despite the "class" prefix
	}
	for _, tt := range tests {
		if got := token.LookupIdent(tt.ident); got != tt.want {
			t.Errorf("LookupIdent(%q) = %s, want %s", tt.ident, got, tt.want)
		}
	}
}

func TestTokenIsZero(t *testing.T) {
	var tok token.Token
	if !tok.IsZero() {
		t.Errorf("zero value Token.IsZero() = false, want true")
	}
	tok.Lexeme = "x"
	if tok.IsZero() {
		t.Errorf("non-zero Token.IsZero() = true, want false")
	}
}

func TestPositionCompare(t *testing.T) {
	tests := []struct {
		a, b token.Position
		want int
	}{
		{token.Position{Line: 1, Column: 0}, token.Position{Line: 1, Column: 0}, 0},
		{token.Position{Line: 1, Column: 0}, token.Position{Line: 1, Column: 5}, -1},
		{token.Position{Line: 2, Column: 0}, token.Position{Line: 1, Column: 99}, 1},
	}
	for _, tt := range tests {
		if got := tt.a.Compare(tt.b); got != tt.want {
			t.Errorf("%v.Compare(%v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSourceFileLine(t *testing.T) {
	f := token.NewSourceFile("test.lox", []byte("var a = 1;\nprint a;\n"))

	tests := []struct {
		n    int
		want string
	}{
		{1, "var a = 1;"},
		{2, "print a;"},
		{0, ""},
		{3, ""},
	}
	for _, tt := range tests {
		got := string(f.Line(tt.n))
		if diff := loxtest.ComputeTextDiff(tt.want, got); diff != "" {
			t.Errorf("Line(%d) mismatch:\n%s", tt.n, diff)
		}
	}
}

// TestTokenEquality exercises the property that the resolver's distance table relies on: two distinct source
// occurrences of a token with identical type, lexeme and literal never compare equal, because their positions
// differ.
func TestTokenEquality(t *testing.T) {
	f := token.NewSourceFile("test.lox", []byte("a a"))
	first := token.Token{Type: token.Ident, Lexeme: "a", Start: token.Position{File: f, Line: 1, Column: 0}}
	second := token.Token{Type: token.Ident, Lexeme: "a", Start: token.Position{File: f, Line: 1, Column: 2}}

	if first == second {
		t.Errorf("two distinct occurrences of %q compared equal", "a")
	}

	m := map[token.Token]int{first: 0, second: 1}
	if len(m) != 2 {
		t.Errorf("map keyed by distinct Token occurrences has %d entries, want 2", len(m))
	}
}

func ExampleType_Format() {
	fmt.Printf("%m\n", token.Class)
	fmt.Printf("%s\n", token.Class)
	// Output:
	// 'class'
	// class
}
