package runoff

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Report writes a human readable account of the count to w: for every round
// the options that were eliminated and the ballots they passed on, the number
// of valid votes, the count and distribution of ballots, and finally the
// winner. The report is meant for people and logs; use Results for anything
// that needs to be parsed.
func (c *Counter[O]) Report(w io.Writer) error {
	buf := new(bytes.Buffer)
	fmt.Fprintf(buf, "Number of ballots submitted: %d\n", c.ballots)

	for i, round := range c.rounds {
		fmt.Fprintf(buf, "\nRound %d\n", round.Index())

		if i > 0 {
			prev := c.rounds[i-1]
			eliminated := round.Eliminated()
			fmt.Fprintf(buf, "%d option(s) were eliminated in the same round\n", len(eliminated))
			for _, option := range eliminated {
				fmt.Fprintf(buf, "Option eliminated: %s\n", option)
				for _, ballot := range prev.VotesFor(option) {
					fmt.Fprintf(buf, " - redistributing ballot: %s\n", ballot)
				}
			}
		}

		if round.Exhausted() > 0 {
			fmt.Fprintf(buf, "Number of exhausted ballots in this round: %d\n", round.Exhausted())
		}
		fmt.Fprintf(buf, "Number of valid votes in this round: %d\n", round.TotalVotes())

		options := round.Options()
		counts := make([]string, 0, len(options))
		for _, option := range options {
			counts = append(counts, fmt.Sprintf("%s: %d", option, round.Count(option)))
		}
		fmt.Fprintf(buf, "Current count: %s\n", strings.Join(counts, ", "))

		fmt.Fprintln(buf, "Current distribution:")
		for _, option := range options {
			votes := round.VotesFor(option)
			ballots := make([]string, 0, len(votes))
			for _, ballot := range votes {
				ballots = append(ballots, ballot.String())
			}
			fmt.Fprintf(buf, " - %s: [%s]\n", option, strings.Join(ballots, ", "))
		}

		if winner, ok := round.OptionWithMajority(); ok {
			fmt.Fprintf(buf, "Found winner: %s\n", winner)
			break
		}
		fmt.Fprintln(buf, "No winner found in this round, moving on to next")
	}

	_, err := buf.WriteTo(w)
	return err
}
