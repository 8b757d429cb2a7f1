package runoff

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Counting session states
const (
	Counting State = iota // counting should be the zero value and default
	Won
	Deadlocked
)

// Names of the states for serialization
var stateStrings = [...]string{
	"counting", "won", "deadlocked",
}

//===========================================================================
// State Enumeration
//===========================================================================

// State is an enumeration of the possible status of a counting session.
type State uint8

// String returns a human readable representation of the state.
func (s State) String() string {
	if int(s) >= len(stateStrings) {
		return fmt.Sprintf("state(%d)", s)
	}
	return stateStrings[s]
}

// Terminal returns true if no further rounds can be built in this state.
func (s State) Terminal() bool {
	return s == Won || s == Deadlocked
}

//===========================================================================
// State Transitions
//===========================================================================

// setState moves the counter into the given state. Terminal states cannot be
// left, and the counting state can only be entered before a terminal state.
//
// NOTE: These methods are not thread-safe.
func (c *Counter[O]) setState(state State) (err error) {
	if c.state.Terminal() {
		return fmt.Errorf("cannot move from terminal state '%s' to '%s'", c.state, state)
	}

	switch state {
	case Counting:
		err = c.setCountingState()
	case Won:
		err = c.setWonState()
	case Deadlocked:
		err = c.setDeadlockedState()
	default:
		err = fmt.Errorf("unknown state '%s'", state)
	}

	if err == nil {
		c.state = state
	}

	return err
}

func (c *Counter[O]) setCountingState() error {
	log.Debug().Str("session", c.id.String()).Int("rounds", len(c.rounds)).Msg("counting")
	return nil
}

func (c *Counter[O]) setWonState() error {
	round := c.last()
	if round == nil {
		return fmt.Errorf("cannot declare a winner without a round")
	}

	winner, ok := round.OptionWithMajority()
	if !ok {
		return fmt.Errorf("round %d has no majority option", round.Index())
	}

	c.winner = winner
	log.Info().
		Str("session", c.id.String()).
		Str("winner", winner.String()).
		Int("rounds", len(c.rounds)).
		Int("votes", round.Count(winner)).
		Int("total", round.TotalVotes()).
		Msg("majority winner found")

	c.dispatch(MajorityFound, winner.String())
	return nil
}

func (c *Counter[O]) setDeadlockedState() error {
	log.Warn().
		Str("session", c.id.String()).
		Int("rounds", len(c.rounds)).
		Msg("count is deadlocked, no winner can be selected")
	return nil
}
