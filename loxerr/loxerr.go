// Package loxerr provides the compile-time error type used by the scanner, parser and resolver. Unlike a runtime
// error, a loxerr.Error always has a source range to point at, so it's rendered with a caret-underlined snippet of
// the offending line.
package loxerr

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/tomreyes/golox/token"
)

var (
	boldRed = color.New(color.FgRed, color.Bold)
	bold    = color.New(color.Bold)
)

// Error is a single compile-time error, with the source range it applies to.
type Error struct {
	Start, End token.Position
	Msg        string
}

// Error implements the error interface, rendering a caret-underlined snippet of source code beneath the message.
func (e Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", bold.Sprintf("%m", e.Start), e.Msg)

	if e.Start.File == nil {
		return b.String()
	}

	line := e.Start.File.Line(e.Start.Line)
	fmt.Fprintf(&b, "%s\n", line)

	indent := runewidth.StringWidth(string(line[:min(e.Start.Column, len(line))]))
	width := caretWidth(line, e.Start, e.End)
	fmt.Fprintf(&b, "%s%s", strings.Repeat(" ", indent), boldRed.Sprint(strings.Repeat("^", width)))

	return b.String()
}

// caretWidth returns the number of carets which should be printed to underline the range [start, end) on its line.
func caretWidth(line []byte, start, end token.Position) int {
	if end.Line != start.Line || end.Column <= start.Column {
		return 1
	}
	hi := min(end.Column, len(line))
	lo := min(start.Column, len(line))
	width := runewidth.StringWidth(string(line[lo:hi]))
	if width == 0 {
		return 1
	}
	return width
}

// Errors is a collection of compile-time errors, in the order they were added until Sort (or Err) sorts them by
// position.
type Errors []Error

// Add appends a new Error built from a start position, end position and formatted message.
func (errs *Errors) Add(start, end token.Position, msg string) {
	*errs = append(*errs, Error{Start: start, End: end, Msg: msg})
}

// Addf is like Add, but formats its message like fmt.Sprintf.
func (errs *Errors) Addf(start, end token.Position, format string, args ...any) {
	errs.Add(start, end, fmt.Sprintf(format, args...))
}

// Sort sorts the errors by source position.
func (errs Errors) Sort() {
	sort.SliceStable(errs, func(i, j int) bool {
		return errs[i].Start.Compare(errs[j].Start) < 0
	})
}

// Error implements the error interface, joining every error's message with a blank line between each.
func (errs Errors) Error() string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n\n")
}

// Err returns errs as an error, or nil if errs is empty. This lets callers unconditionally build up an Errors value
// and return it as the function's error result without an extra "if len(errs) == 0" check at every call site.
func (errs Errors) Err() error {
	if len(errs) == 0 {
		return nil
	}
	errs.Sort()
	return errs
}
