package interpreter

import (
	"fmt"

	"github.com/tomreyes/golox/token"
)

// RuntimeError is an error raised while executing a resolved, syntactically valid program: an unsupported operand
// type, a call to a non-callable value, an out-of-range argument count, and so on.
//
// Unlike loxerr.Error, it's rendered as a bare message followed by the (1-based) source line it occurred on, with no
// colouring or source snippet; this matches the plain format the REPL and file runner print to stderr.
type RuntimeError struct {
	Tok token.Token
	Msg string
}

func newRuntimeError(tok token.Token, format string, args ...any) *RuntimeError {
	return &RuntimeError{Tok: tok, Msg: fmt.Sprintf(format, args...)}
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", e.Msg, e.Tok.Start.Line)
}
