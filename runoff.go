/*
Package runoff implements instant-runoff (ranked-choice) vote tabulation.

Ballots rank options from most to least preferred. A count proceeds in rounds:
every ballot is assigned to its active preference, and if no option holds a
strict majority of the valid ballots, the trailing options that cannot catch up
even combined are eliminated together and their ballots move on to each
voter's next surviving preference. The count ends with a majority winner or
with ErrUnresolvableTie when the remaining options are deadlocked.
*/
package runoff

import "fmt"

// Version components for the package.
const (
	VersionMajor = 1
	VersionMinor = 0
	VersionPatch = 0
)

// PackageVersion is the semantic version of the runoff package.
var PackageVersion = Version()

// Version returns the semantic version of the package as a string.
func Version() string {
	return fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)
}
