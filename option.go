package runoff

import "fmt"

// Option is the constraint satisfied by anything that can be ranked on a
// ballot: options are compared and hashed by equality (they key the round
// buckets) and rendered with String for reports and logs.
type Option interface {
	comparable
	fmt.Stringer
}

// Candidate is a named option, the simplest type that satisfies Option. It is
// used by the command line tools and the benchmarks.
type Candidate string

// String returns the name of the candidate.
func (c Candidate) String() string {
	return string(c)
}
