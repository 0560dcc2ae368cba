package ledger

import "fmt"

// Version numbers of this release.
const (
	Maj = 0
	Min = 1
	Fix = 0
)

// Suffix is set for untagged builds, ie. "-dev".
const Suffix = "-dev"

// GitCommit is set by build flags.
var GitCommit = ""

// Version returns the release version, followed by the commit when known.
func Version() string {
	v := fmt.Sprintf("v%d.%d.%d%s", Maj, Min, Fix, Suffix)
	if GitCommit != "" {
		v += " " + GitCommit
	}
	return v
}
