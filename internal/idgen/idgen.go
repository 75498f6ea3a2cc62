// Package idgen allocates record identifiers of the form
// <PREFIX>-<zero-padded-number>.
package idgen

import (
	"fmt"
	"strconv"
	"strings"
)

// Next returns the next identifier for the given prefix, derived from the
// identifiers currently present in the table. Malformed identifiers are
// skipped; when none parse the sequence restarts at 1.
//
// Because only currently-present identifiers are inspected, deleting the
// highest-numbered record and creating a new one reuses its numeric
// suffix. This matches the behavior of the original datasets.
func Next(prefix string, width int, existing []string) string {
	maxSuffix := 0
	for _, id := range existing {
		n, ok := suffix(id, prefix)
		if ok && n > maxSuffix {
			maxSuffix = n
		}
	}
	return Format(prefix, width, maxSuffix+1)
}

// Format renders an identifier from its parts, e.g. ("RES", 4, 7) -> "RES-0007".
func Format(prefix string, width, n int) string {
	return fmt.Sprintf("%s-%0*d", prefix, width, n)
}

// suffix extracts the numeric suffix of a well-formed identifier.
func suffix(id, prefix string) (int, bool) {
	rest, ok := strings.CutPrefix(id, prefix+"-")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Valid reports whether id is a well-formed identifier for the prefix.
func Valid(id, prefix string) bool {
	_, ok := suffix(id, prefix)
	return ok
}
