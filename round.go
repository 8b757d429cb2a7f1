package runoff

import (
	"sort"

	"github.com/pkg/errors"
)

// NewRound creates the first round of a count from the submitted ballots by
// assigning every ballot to its first preference. Ballots that have no
// preferences left are dropped from the tally but are still recorded as
// exhausted so that every submitted ballot is accounted for.
func NewRound[O Option](ballots []*Ballot[O]) *Round[O] {
	round := &Round[O]{
		buckets:   make(map[O][]*Ballot[O]),
		order:     make([]O, 0),
		exhausted: make([]*Ballot[O], 0),
	}

	for _, ballot := range ballots {
		if option, ok := ballot.Advance(); ok {
			round.assign(option, ballot)
		} else {
			round.exhausted = append(round.exhausted, ballot)
		}
	}

	return round
}

// NextRound creates the round that follows prev by eliminating the trailing
// options of prev and redistributing their ballots. The previous round is not
// modified. If no option can be eliminated the remaining options are in a
// deadlock and ErrUnresolvableTie is returned.
func NextRound[O Option](prev *Round[O]) (*Round[O], error) {
	round := &Round[O]{
		index:     prev.index + 1,
		buckets:   make(map[O][]*Ballot[O], len(prev.buckets)),
		order:     make([]O, 0, len(prev.order)),
		exhausted: make([]*Ballot[O], 0),
	}

	for _, option := range prev.order {
		votes := prev.buckets[option]
		round.order = append(round.order, option)
		round.buckets[option] = append(make([]*Ballot[O], 0, len(votes)), votes...)
	}

	votes := round.eliminate()
	if len(round.eliminated) == 0 {
		return nil, errors.Wrapf(ErrUnresolvableTie, "round %d: %d options remain with counts %v", round.index, len(prev.order), prev.counts())
	}

	round.redistribute(votes)
	return round, nil
}

// Round is a single pass of the count: every valid ballot is assigned to the
// bucket of its active preference. Rounds after the first also record the
// options that were eliminated to produce them. Every ballot that entered the
// round is either in exactly one bucket or in the exhausted list.
//
// Rounds are not thread-safe, and are not modified once they are built.
type Round[O Option] struct {
	index         int                // position of the round in the count
	buckets       map[O][]*Ballot[O] // ballots assigned to each surviving option
	order         []O                // surviving options in the order they were first seen
	eliminated    []O                // options removed to produce this round
	exhausted     []*Ballot[O]       // ballots dropped while building this round
	redistributed int                // ballots moved from eliminated options
}

//===========================================================================
// Round Accessors
//===========================================================================

// Index returns the position of the round in the count, starting at zero.
func (r *Round[O]) Index() int {
	return r.index
}

// Options returns the surviving options of the round in a stable order, the
// order in which each option first received a ballot.
func (r *Round[O]) Options() []O {
	options := make([]O, len(r.order))
	copy(options, r.order)
	return options
}

// Eliminated returns the options that were removed to create this round,
// least popular first. The first round has no eliminated options.
func (r *Round[O]) Eliminated() []O {
	eliminated := make([]O, len(r.eliminated))
	copy(eliminated, r.eliminated)
	return eliminated
}

// Exhausted returns the number of ballots dropped while building this round.
func (r *Round[O]) Exhausted() int {
	return len(r.exhausted)
}

// ExhaustedBallots returns the ballots that were dropped while building this
// round because they had no surviving preference left.
func (r *Round[O]) ExhaustedBallots() []*Ballot[O] {
	ballots := make([]*Ballot[O], len(r.exhausted))
	copy(ballots, r.exhausted)
	return ballots
}

// Redistributed returns the number of ballots that were taken from eliminated
// options to build this round, including the ones that were then exhausted.
func (r *Round[O]) Redistributed() int {
	return r.redistributed
}

// TotalVotes returns the number of valid ballots in the round; exhausted
// ballots are not counted.
func (r *Round[O]) TotalVotes() (total int) {
	for _, votes := range r.buckets {
		total += len(votes)
	}
	return total
}

// Count returns the number of ballots assigned to the option, zero if the
// option is not in the round.
func (r *Round[O]) Count(option O) int {
	return len(r.buckets[option])
}

// VotesFor returns the ballots assigned to the option in this round, or an
// empty slice if the option is absent or has been eliminated.
func (r *Round[O]) VotesFor(option O) []*Ballot[O] {
	votes := r.buckets[option]
	ballots := make([]*Ballot[O], len(votes))
	copy(ballots, votes)
	return ballots
}

// OptionWithMajority returns the option with strictly more than half of the
// valid votes in the round, or false if there is no such option.
func (r *Round[O]) OptionWithMajority() (option O, ok bool) {
	total := r.TotalVotes()
	for _, candidate := range r.order {
		if Passed(len(r.buckets[candidate]), total) {
			return candidate, true
		}
	}
	return option, false
}

// Results returns a mapping of each surviving option to its vote count.
func (r *Round[O]) Results() map[O]int {
	results := make(map[O]int, len(r.buckets))
	for option, votes := range r.buckets {
		results[option] = len(votes)
	}
	return results
}

// RoundStats summarizes a round without reference to the option type so that
// it can be passed to observers and metrics.
type RoundStats struct {
	Index         int `json:"index"`
	Options       int `json:"options"`
	Votes         int `json:"votes"`
	Eliminated    int `json:"eliminated"`
	Redistributed int `json:"redistributed"`
	Exhausted     int `json:"exhausted"`
}

// Stats returns the summary of the round.
func (r *Round[O]) Stats() RoundStats {
	return RoundStats{
		Index:         r.index,
		Options:       len(r.order),
		Votes:         r.TotalVotes(),
		Eliminated:    len(r.eliminated),
		Redistributed: r.redistributed,
		Exhausted:     len(r.exhausted),
	}
}

//===========================================================================
// Tally, Elimination, and Redistribution
//===========================================================================

// assign appends the ballot to the bucket for the option, creating the bucket
// if the option has not been seen in this round yet.
func (r *Round[O]) assign(option O, ballot *Ballot[O]) {
	votes, ok := r.buckets[option]
	if !ok {
		r.order = append(r.order, option)
	}
	r.buckets[option] = append(votes, ballot)
}

// eliminate removes every option that cannot catch up with the options above
// it and returns the ballots that were assigned to them.
//
// The options are ranked from least to most popular. The most popular option
// is never eliminated. Walking down from the next most popular, the first
// option whose count is strictly greater than the combined count of all the
// options below it is kept, and everything below it is eliminated together.
// If no such option exists then nothing is eliminated.
func (r *Round[O]) eliminate() []*Ballot[O] {
	if len(r.order) < 2 {
		return nil
	}

	ranked := make([]O, len(r.order))
	copy(ranked, r.order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return len(r.buckets[ranked[i]]) < len(r.buckets[ranked[j]])
	})

	// Set the most popular option aside and sum everything below it.
	below := 0
	remaining := ranked[:len(ranked)-1]
	for _, option := range remaining {
		below += len(r.buckets[option])
	}

	for len(remaining) > 0 {
		candidate := remaining[len(remaining)-1]
		remaining = remaining[:len(remaining)-1]

		count := len(r.buckets[candidate])
		below -= count
		if count > below {
			break
		}
	}

	votes := make([]*Ballot[O], 0, below)
	for _, option := range remaining {
		votes = append(votes, r.buckets[option]...)
		delete(r.buckets, option)
	}

	r.eliminated = remaining
	surviving := make([]O, 0, len(r.order)-len(remaining))
	for _, option := range r.order {
		if _, ok := r.buckets[option]; ok {
			surviving = append(surviving, option)
		}
	}
	r.order = surviving
	return votes
}

// redistribute moves each ballot to its next preference that is still in the
// round, dropping ballots that run out of preferences.
func (r *Round[O]) redistribute(votes []*Ballot[O]) {
	r.redistributed += len(votes)
	for _, ballot := range votes {
		for {
			option, ok := ballot.Advance()
			if !ok {
				r.exhausted = append(r.exhausted, ballot)
				break
			}

			if bucket, ok := r.buckets[option]; ok {
				r.buckets[option] = append(bucket, ballot)
				break
			}
		}
	}
}

// counts returns the vote count of each surviving option in order.
func (r *Round[O]) counts() []int {
	counts := make([]int, 0, len(r.order))
	for _, option := range r.order {
		counts = append(counts, len(r.buckets[option]))
	}
	return counts
}
