// Package loxtest provides small helpers shared by the package-level tests elsewhere in the module.
package loxtest

import (
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// ComputeDiff returns a human-readable report of the differences between a wanted and got value of any type.
func ComputeDiff(want, got any) string {
	diff := cmp.Diff(want, got)
	if diff == "" {
		return ""
	}
	return fmt.Sprintf("want -\ngot +\n%s", diff)
}

// ComputeTextDiff returns a unified diff between a wanted and got string. It produces more readable output than
// [ComputeDiff] for multi-line string inputs such as rendered error messages.
func ComputeTextDiff(want, got string) string {
	if want == got {
		return ""
	}
	edits := myers.ComputeEdits(span.URIFromPath("want"), want, got)
	return fmt.Sprint(gotextdiff.ToUnified("want", "got", want, edits))
}

// ContainsAll reports whether s contains every one of substrs, returning a message describing the first one missing.
func ContainsAll(s string, substrs ...string) (string, bool) {
	for _, sub := range substrs {
		if !strings.Contains(s, sub) {
			return fmt.Sprintf("missing %q", sub), false
		}
	}
	return "", true
}
