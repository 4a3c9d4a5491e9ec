// Package reconcile computes missing and extra names between an expected
// and an observed name list.
package reconcile

import (
	"slices"
)

// Result is the outcome of a reconciliation.
// Both slices are sorted and free of duplicates.
type Result struct {
	Missing []string
	Extra   []string
}

// OK reports whether nothing is missing and nothing is extra.
func (r Result) OK() bool {
	return len(r.Missing) == 0 && len(r.Extra) == 0
}

// Diff returns the names in expected that are absent from actual (missing)
// and the names in actual that are absent from expected (extra).
// Input order does not matter.
func Diff(expected, actual []string) (missing, extra []string) {
	want := toSet(expected)
	got := toSet(actual)

	return subtract(want, got), subtract(got, want)
}

// Compare wraps Diff into a Result.
func Compare(expected, actual []string) Result {
	missing, extra := Diff(expected, actual)

	return Result{Missing: missing, Extra: extra}
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}

	return set
}

// subtract returns the sorted members of a that are not in b.
func subtract(a, b map[string]bool) []string {
	out := []string{}
	for name := range a {
		if !b[name] {
			out = append(out, name)
		}
	}
	slices.Sort(out)

	return out
}
