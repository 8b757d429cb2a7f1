package runoff

//===========================================================================
// Majority Helpers
//===========================================================================

// Majority computes how many votes an option needs to win outright when the
// given number of valid votes have been cast, e.g. strictly more than half.
// Exhausted ballots are not valid votes and should not be included in total.
func Majority(total int) int {
	return (total / 2) + 1
}

// Passed returns true if votes is a majority of total. An exact half is not a
// majority, and nothing passes when no votes were cast.
func Passed(votes, total int) bool {
	return total > 0 && votes >= Majority(total)
}
