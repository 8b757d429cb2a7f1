package runoff

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// NewCounter counts the ballots to completion, returning a counter that holds
// the winner and every round of the count. The ballots must have been created
// with NewBallot and must not have been counted before; the counter takes
// ownership of their cursors. If the count deadlocks before an option reaches
// a majority, an error wrapping ErrUnresolvableTie is returned and no counter
// is produced.
func NewCounter[O Option](ballots []*Ballot[O]) (*Counter[O], error) {
	return Tabulate(ballots, nil)
}

// Tabulate is like NewCounter but delivers the events of the count to the
// callback as they happen. A nil callback is ignored.
func Tabulate[O Option](ballots []*Ballot[O], callback Callback) (*Counter[O], error) {
	c := &Counter[O]{
		id:       uuid.New(),
		ballots:  len(ballots),
		rounds:   make([]*Round[O], 0, 1),
		callback: callback,
	}

	if err := c.count(ballots); err != nil {
		return nil, err
	}
	return c, nil
}

// Counter holds a completed instant-runoff count: the ordered rounds, from
// the first round built from the submitted ballots to the round in which an
// option held a majority. Counters are read-only once created.
type Counter[O Option] struct {
	id       uuid.UUID   // unique id of the counting session, used in logs and events
	state    State       // the current state of the count
	winner   O           // the majority option of the last round
	ballots  int         // the number of ballots submitted to the count
	rounds   []*Round[O] // every round of the count in order
	callback Callback    // observer of count events, if any
}

// count runs the elimination loop until a round has a majority option or an
// elimination fails.
func (c *Counter[O]) count(ballots []*Ballot[O]) (err error) {
	if err = c.setState(Counting); err != nil {
		return err
	}

	c.append(NewRound(ballots))
	for {
		round := c.last()
		if _, ok := round.OptionWithMajority(); ok {
			return c.setState(Won)
		}

		var next *Round[O]
		if next, err = NextRound(round); err != nil {
			if errors.Is(err, ErrUnresolvableTie) {
				c.dispatch(TieDetected, err)
				if serr := c.setState(Deadlocked); serr != nil {
					return serr
				}
			}
			return err
		}

		c.append(next)
	}
}

// append adds the round to the count, logging and dispatching its events.
func (c *Counter[O]) append(round *Round[O]) {
	c.rounds = append(c.rounds, round)
	stats := round.Stats()

	if len(round.eliminated) > 0 {
		names := make([]string, 0, len(round.eliminated))
		for _, option := range round.eliminated {
			names = append(names, option.String())
		}
		log.Debug().
			Str("session", c.id.String()).
			Int("round", stats.Index).
			Strs("eliminated", names).
			Int("redistributed", stats.Redistributed).
			Msg("options eliminated")
		c.dispatch(OptionsEliminated, names)
	}

	for _, ballot := range round.exhausted {
		log.Trace().Str("session", c.id.String()).Int("round", stats.Index).Str("ballot", ballot.String()).Msg("ballot exhausted")
		c.dispatch(BallotExhausted, ballot.String())
	}

	log.Debug().
		Str("session", c.id.String()).
		Int("round", stats.Index).
		Int("options", stats.Options).
		Int("votes", stats.Votes).
		Int("exhausted", stats.Exhausted).
		Msg("round tallied")
	c.dispatch(RoundTallied, stats)
}

// dispatch delivers an event to the callback if one was registered.
func (c *Counter[O]) dispatch(etype EventType, value interface{}) {
	if c.callback != nil {
		c.callback(&event{etype: etype, source: c.id.String(), value: value})
	}
}

// last returns the most recent round, nil before the first round is built.
func (c *Counter[O]) last() *Round[O] {
	if len(c.rounds) == 0 {
		return nil
	}
	return c.rounds[len(c.rounds)-1]
}

//===========================================================================
// Counter Accessors
//===========================================================================

// ID returns the unique id of the counting session.
func (c *Counter[O]) ID() uuid.UUID {
	return c.id
}

// State returns the terminal state of the count, which is always Won for a
// counter returned by NewCounter.
func (c *Counter[O]) State() State {
	return c.state
}

// Winner returns the option that held a majority in the final round.
func (c *Counter[O]) Winner() O {
	return c.winner
}

// Ballots returns the number of ballots that were submitted to the count.
func (c *Counter[O]) Ballots() int {
	return c.ballots
}

// Rounds returns the rounds of the count in order.
func (c *Counter[O]) Rounds() []*Round[O] {
	rounds := make([]*Round[O], len(c.rounds))
	copy(rounds, c.rounds)
	return rounds
}

// Results returns, for every round in order, the vote count of each option
// that was still in that round. Each call returns freshly allocated maps.
func (c *Counter[O]) Results() []map[O]int {
	results := make([]map[O]int, 0, len(c.rounds))
	for _, round := range c.rounds {
		results = append(results, round.Results())
	}
	return results
}
