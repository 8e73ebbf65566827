package resolver_test

import (
	"strings"
	"testing"

	"github.com/tomreyes/golox/internal/loxtest"
	"github.com/tomreyes/golox/parser"
	"github.com/tomreyes/golox/resolver"
	"github.com/tomreyes/golox/scanner"
)

func resolve(t *testing.T, src string) (resolver.Distances, error) {
	t.Helper()
	s, err := scanner.New(strings.NewReader(src), "test.lox")
	if err != nil {
		t.Fatalf("scanner.New: %s", err)
	}
	program, err := parser.Parse(s)
	if err != nil {
		t.Fatalf("parser.Parse: %s", err)
	}
	return resolver.Resolve(program)
}

func TestResolveLocalDistances(t *testing.T) {
	// A variable read in the same block it's declared in is distance 0; one read through a single enclosing block is
	// distance 1.
	dists, err := resolve(t, "{ var a = 1; { print a; } }")
	if err != nil {
		t.Fatalf("Resolve: %s", err)
	}
	if len(dists) != 1 {
		t.Fatalf("got %d distance entries, want 1", len(dists))
	}
	for _, dist := range dists {
		if dist != 1 {
			t.Errorf("distance = %d, want 1", dist)
		}
	}
}

func TestResolveGlobalIsUnrecorded(t *testing.T) {
	dists, err := resolve(t, "var a = 1; print a;")
	if err != nil {
		t.Fatalf("Resolve: %s", err)
	}
	if len(dists) != 0 {
		t.Errorf("got %d distance entries for a global reference, want 0", len(dists))
	}
}

func TestResolveShadowing(t *testing.T) {
	// The inner "a" must resolve to the inner declaration (distance 0 from within its own block), not the outer one.
	dists, err := resolve(t, "var a = 1; { var a = 2; print a; }")
	if err != nil {
		t.Fatalf("Resolve: %s", err)
	}
	if len(dists) != 1 {
		t.Fatalf("got %d distance entries, want 1", len(dists))
	}
	for _, dist := range dists {
		if dist != 0 {
			t.Errorf("distance = %d, want 0 (shadowed inner declaration)", dist)
		}
	}
}

func TestResolveOwnInitializerError(t *testing.T) {
	_, err := resolve(t, "{ var a = a; }")
	msg, ok := loxtest.ContainsAll(errString(err), "Cannot read local variable in its own initializer.")
	if !ok {
		t.Errorf("%s; error = %v", msg, err)
	}
}

func TestResolveReturnAtTopLevel(t *testing.T) {
	_, err := resolve(t, "return 1;")
	msg, ok := loxtest.ContainsAll(errString(err), "Cannot return from top-level code.")
	if !ok {
		t.Errorf("%s; error = %v", msg, err)
	}
}

func TestResolveReturnValueFromInitializer(t *testing.T) {
	_, err := resolve(t, "class C { init() { return 1; } }")
	msg, ok := loxtest.ContainsAll(errString(err), "Cannot return a value from an initializer.")
	if !ok {
		t.Errorf("%s; error = %v", msg, err)
	}
}

func TestResolveThisOutsideClass(t *testing.T) {
	_, err := resolve(t, "print this;")
	if err == nil {
		t.Fatal("Resolve returned no error for 'this' used outside a class")
	}
}

func TestResolveThisInsideMethod(t *testing.T) {
	dists, err := resolve(t, "class C { m() { print this; } }")
	if err != nil {
		t.Fatalf("Resolve: %s", err)
	}
	if len(dists) != 1 {
		t.Fatalf("got %d distance entries, want 1 (the 'this' reference)", len(dists))
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
