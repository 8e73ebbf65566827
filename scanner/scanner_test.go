package scanner_test

import (
	"strings"
	"testing"

	"github.com/tomreyes/golox/internal/loxtest"
	"github.com/tomreyes/golox/scanner"
	"github.com/tomreyes/golox/token"
)

func scanAll(t *testing.T, src string) ([]token.Token, []string) {
	t.Helper()

	s, err := scanner.New(strings.NewReader(src), "test.lox")
	if err != nil {
		t.Fatalf("scanner.New: %s", err)
	}
	var errMsgs []string
	s.SetErrorHandler(func(tok token.Token, msg string) {
		errMsgs = append(errMsgs, msg)
	})
	return s.ScanTokens(), errMsgs
}

func types(toks []token.Token) []token.Type {
	types := make([]token.Type, len(toks))
	for i, tok := range toks {
		types[i] = tok.Type
	}
	return types
}

func TestScanTokensTypes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []token.Type
	}{
		{
			name: "operators",
			src:  "= == ! != < <= > >=",
			want: []token.Type{
				token.Equal, token.EqualEqual, token.Bang, token.BangEqual,
				token.Less, token.LessEqual, token.Greater, token.GreaterEqual, token.EOF,
			},
		},
		{
			name: "braces not swapped",
			src:  "{}",
			want: []token.Type{token.LeftBrace, token.RightBrace, token.EOF},
		},
		{
			name: "keyword vs identifier",
			src:  "class classy",
			want: []token.Type{token.Class, token.Ident, token.EOF},
		},
		{
			name: "line comment",
			src:  "1 // a comment\n2",
			want: []token.Type{token.Number, token.Number, token.EOF},
		},
		{
			name: "number",
			src:  "123 4.56",
			want: []token.Type{token.Number, token.Number, token.EOF},
		},
		{
			name: "trailing dot is not part of number",
			src:  "123.",
			want: []token.Type{token.Number, token.Dot, token.EOF},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, errs := scanAll(t, tt.src)
			if len(errs) != 0 {
				t.Fatalf("unexpected scan errors: %v", errs)
			}
			if diff := loxtest.ComputeDiff(tt.want, types(toks)); diff != "" {
				t.Errorf("token types mismatch:\n%s", diff)
			}
		})
	}
}

func TestScanStringLiteral(t *testing.T) {
	toks, errs := scanAll(t, `"hello, world"`)
	if len(errs) != 0 {
		t.Fatalf("unexpected scan errors: %v", errs)
	}
	if len(toks) != 2 || toks[0].Type != token.String {
		t.Fatalf("got tokens %v, want a single String token followed by EOF", toks)
	}
	if toks[0].Literal != "hello, world" {
		t.Errorf("Literal = %q, want %q", toks[0].Literal, "hello, world")
	}
}

func TestScanMultilineStringLiteral(t *testing.T) {
	toks, errs := scanAll(t, "\"line one\nline two\"")
	if len(errs) != 0 {
		t.Fatalf("unexpected scan errors: %v", errs)
	}
	if len(toks) != 2 || toks[0].Type != token.String {
		t.Fatalf("got tokens %v, want a single String token followed by EOF", toks)
	}
	if toks[0].Literal != "line one\nline two" {
		t.Errorf("Literal = %q, want a string spanning both lines", toks[0].Literal)
	}
	if toks[1].Start.Line != 2 {
		t.Errorf("EOF line = %d, want 2 (the scanner must track newlines inside string literals)", toks[1].Start.Line)
	}
}

func TestScanUnterminatedStringYieldsNoToken(t *testing.T) {
	toks, errs := scanAll(t, `"unterminated`)
	if len(errs) != 1 {
		t.Fatalf("got %d scan errors, want exactly 1", len(errs))
	}
	if len(toks) != 1 || toks[0].Type != token.EOF {
		t.Fatalf("got tokens %v, want only EOF (unterminated string yields no token)", toks)
	}
}

func TestScanUnexpectedCharacterRecovers(t *testing.T) {
	toks, errs := scanAll(t, "1 @ 2")
	if len(errs) != 1 {
		t.Fatalf("got %d scan errors, want exactly 1", len(errs))
	}
	if diff := loxtest.ComputeDiff([]token.Type{token.Number, token.Illegal, token.Number, token.EOF}, types(toks)); diff != "" {
		t.Errorf("token types mismatch:\n%s", diff)
	}
}

// TestScanRoundTrip checks the scanner round-trip property: concatenating lexemes (joined by a single space, since
// whitespace itself produces no token) reconstructs the original token order.
func TestScanRoundTrip(t *testing.T) {
	src := `var greeting = "hi"; print greeting == "hi";`
	toks, errs := scanAll(t, src)
	if len(errs) != 0 {
		t.Fatalf("unexpected scan errors: %v", errs)
	}

	var lexemes []string
	for _, tok := range toks {
		if tok.Type == token.EOF {
			continue
		}
		lexemes = append(lexemes, tok.Lexeme)
	}
	got := strings.Join(lexemes, " ")
	want := `var greeting = "hi" ; print greeting == "hi" ;`
	if diff := loxtest.ComputeTextDiff(want, got); diff != "" {
		t.Errorf("round-trip mismatch:\n%s", diff)
	}
}
