package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tomreyes/golox/internal/loxtest"
)

func TestInterpretFileEndToEnd(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		wantStdout string
		wantExit   int
	}{
		{"arithmetic", "print 1 + 2 * 3;", "7\n", 0},
		{"block scoping", "var a = 1; { var a = 2; print a; } print a;", "2\n1\n", 0},
		{
			"closures",
			"fun make(n) { fun inner() { return n; } return inner; } var f = make(42); print f();",
			"42\n", 0,
		},
		{
			"method call",
			`class Bacon { eat() { print "Crunch crunch crunch!"; } } Bacon().eat();`,
			"Crunch crunch crunch!\n", 0,
		},
		{
			"constructor and field access",
			`class Cake { init(flavor) { this.flavor = flavor; } taste() { print "The " + this.flavor + ` +
				`" cake is delicious."; } } var c = Cake("German chocolate"); c.taste();`,
			"The German chocolate cake is delicious.\n", 0,
		},
		{"for loop", "for (var i = 0; i < 3; i = i + 1) print i;", "0\n1\n2\n", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			exit := interpretFile(strings.NewReader(tt.src), "test.lox", &stdout, &stderr)
			if exit != tt.wantExit {
				t.Errorf("exit code = %d, want %d; stderr:\n%s", exit, tt.wantExit, stderr.String())
			}
			if diff := loxtest.ComputeTextDiff(tt.wantStdout, stdout.String()); diff != "" {
				t.Errorf("stdout mismatch:\n%s", diff)
			}
		})
	}
}

func TestInterpretFileRuntimeErrorExitsSeventy(t *testing.T) {
	var stdout, stderr bytes.Buffer
	exit := interpretFile(strings.NewReader(`"a" - 1;`), "test.lox", &stdout, &stderr)

	if exit != exitRuntime {
		t.Errorf("exit code = %d, want %d", exit, exitRuntime)
	}
	if msg, ok := loxtest.ContainsAll(stderr.String(), "Operands must be numbers.", "[line 1]"); !ok {
		t.Errorf("%s; stderr = %q", msg, stderr.String())
	}
}

func TestInterpretFileResolutionErrorExitsSixtyFive(t *testing.T) {
	var stdout, stderr bytes.Buffer
	exit := interpretFile(strings.NewReader("return 1;"), "test.lox", &stdout, &stderr)

	if exit != exitError {
		t.Errorf("exit code = %d, want %d", exit, exitError)
	}
	if msg, ok := loxtest.ContainsAll(stderr.String(), "Cannot return from top-level code."); !ok {
		t.Errorf("%s; stderr = %q", msg, stderr.String())
	}
}

func TestRunTooManyArgsExitsSixtyFour(t *testing.T) {
	if exit := run([]string{"a.lox", "b.lox"}); exit != exitUsage {
		t.Errorf("run with two args exit code = %d, want %d", exit, exitUsage)
	}
}
