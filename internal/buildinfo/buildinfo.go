// Package buildinfo carries build-time metadata injected by the linker.
package buildinfo

import "fmt"

// Set at build time via -ldflags.
var (
	Version   = "dev"
	BuildDate = "unknown"
)

// String returns a single-line version description.
func String() string {
	return fmt.Sprintf("residuos %s (built %s)", Version, BuildDate)
}
