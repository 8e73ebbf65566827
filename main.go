// Command golox is a tree-walking interpreter for the Lox programming language. Run with no arguments to start a
// REPL, or with a single path argument to execute a script.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/tomreyes/golox/ast"
	"github.com/tomreyes/golox/interpreter"
	"github.com/tomreyes/golox/parser"
	"github.com/tomreyes/golox/resolver"
	"github.com/tomreyes/golox/scanner"
)

const (
	exitUsage   = 64
	exitError   = 65
	exitRuntime = 70
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	switch len(args) {
	case 0:
		runREPL()
		return 0
	case 1:
		return runFile(args[0])
	default:
		fmt.Println("Usage: golox [script]")
		return exitUsage
	}
}

func runFile(path string) int {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitRuntime
	}
	defer f.Close()

	return interpretFile(f, path, os.Stdout, os.Stderr)
}

// interpretFile compiles and runs the script read from r, writing program output to stdout and any diagnostics to
// stderr. It's factored out of runFile so that it can be exercised directly in tests, without a subprocess.
func interpretFile(r io.Reader, filename string, stdout, stderr io.Writer) int {
	program, dists, err := compile(r, filename)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}

	interp := interpreter.New(dists, stdout)
	if rtErr := interp.Interpret(program); rtErr != nil {
		fmt.Fprintln(stderr, rtErr)
		return exitRuntime
	}
	return 0
}

// compile runs the scanner, parser and resolver over r in sequence, stopping (and returning the accumulated errors)
// as soon as a stage reports any. The driver never runs a later stage over a program a prior stage already flagged
// as broken.
func compile(r io.Reader, filename string) (ast.Program, resolver.Distances, error) {
	s, err := scanner.New(r, filename)
	if err != nil {
		return ast.Program{}, nil, err
	}

	program, err := parser.Parse(s)
	if err != nil {
		return ast.Program{}, nil, err
	}

	dists, err := resolver.Resolve(program)
	if err != nil {
		return ast.Program{}, nil, err
	}

	return program, dists, nil
}

const replHistoryFile = ".lox_history"

// runREPL reads and runs one line of Lox at a time until EOF (Ctrl-D), printing the value of any bare expression
// statement. Ctrl-C discards the line being edited and prompts again. Variables, functions and classes declared on one line remain visible to later lines, since
// every line shares the same Interpreter and its globals frame. A compile error on one line is reported but doesn't
// affect later lines: had_error is implicitly scoped to a single line here.
func runREPL() {
	historyPath := replHistoryFile
	if home, err := os.UserHomeDir(); err == nil {
		historyPath = filepath.Join(home, replHistoryFile)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:      ">>> ",
		HistoryFile: historyPath,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	defer rl.Close()

	replDists := resolver.Distances{}
	interp := interpreter.New(replDists, os.Stdout, interpreter.PrintExprStmtResults())

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		program, dists, err := compile(strings.NewReader(line), "")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}

		// Distances from earlier lines are kept: functions declared on those lines still resolve their locals through
		// them when called from this one.
		for tok, dist := range dists {
			replDists[tok] = dist
		}
		interp.SetDistances(replDists)
		if rtErr := interp.Interpret(program); rtErr != nil {
			fmt.Fprintln(os.Stderr, rtErr)
		}
	}
}
