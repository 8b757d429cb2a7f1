package runoff

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// DefaultSeparator is placed between preferences when a ballot is rendered.
const DefaultSeparator = ">"

// NewBallot creates a ballot ranking the given preferences, most preferred
// first. The ballot must rank at least one option and may not rank the same
// option twice.
func NewBallot[O Option](preferences ...O) (*Ballot[O], error) {
	if len(preferences) == 0 {
		return nil, ErrEmptyBallot
	}

	seen := make(map[O]struct{}, len(preferences))
	for _, option := range preferences {
		if _, ok := seen[option]; ok {
			return nil, errors.Wrapf(ErrDuplicatePreference, "%s ranked twice", option)
		}
		seen[option] = struct{}{}
	}

	ballot := &Ballot[O]{preferences: make([]O, len(preferences))}
	copy(ballot.preferences, preferences)
	return ballot, nil
}

// Ballot is a single voter's ranked preferences along with a cursor that
// tracks how many of those preferences have been consumed by the count. The
// preferences never change; the cursor only moves forward. Ballots are shared
// by pointer between rounds so that redistribution always resumes from the
// next untried preference.
//
// Once a ballot has been submitted to a count, the count owns its cursor and
// the ballot should not be read or advanced elsewhere until the count is done.
type Ballot[O Option] struct {
	preferences []O // ranked options, most preferred first
	cursor      int // number of preferences consumed so far
}

// Current returns the option at the cursor without advancing it. Returns
// false once every preference has been consumed.
func (b *Ballot[O]) Current() (option O, ok bool) {
	if b.cursor >= len(b.preferences) {
		return option, false
	}
	return b.preferences[b.cursor], true
}

// Advance returns the option at the cursor and moves the cursor forward by
// one. Once past the last preference it returns false forever.
func (b *Ballot[O]) Advance() (option O, ok bool) {
	if option, ok = b.Current(); ok {
		b.cursor++
	}
	return option, ok
}

// Exhausted returns true if the ballot has no untried preferences left.
func (b *Ballot[O]) Exhausted() bool {
	return b.cursor >= len(b.preferences)
}

// Len returns the number of ranked preferences.
func (b *Ballot[O]) Len() int {
	return len(b.preferences)
}

// Preferences returns a copy of the ranked options.
func (b *Ballot[O]) Preferences() []O {
	preferences := make([]O, len(b.preferences))
	copy(preferences, b.preferences)
	return preferences
}

// Format renders the preferences in rank order joined by sep.
func (b *Ballot[O]) Format(sep string) string {
	names := make([]string, 0, len(b.preferences))
	for _, option := range b.preferences {
		names = append(names, option.String())
	}
	return strings.Join(names, sep)
}

// String renders the preferences in rank order, e.g. A>B>C.
func (b *Ballot[O]) String() string {
	return b.Format(DefaultSeparator)
}

//===========================================================================
// Ballot Parsing
//===========================================================================

// ParseBallot creates a Candidate ballot from text such as "A>B>C", where sep
// divides the preferences. Surrounding whitespace and empty preferences are
// ignored, so "A > B >" ranks A then B.
func ParseBallot(text, sep string) (*Ballot[Candidate], error) {
	if sep == "" {
		sep = DefaultSeparator
	}

	preferences := make([]Candidate, 0)
	for _, name := range strings.Split(text, sep) {
		if name = strings.TrimSpace(name); name != "" {
			preferences = append(preferences, Candidate(name))
		}
	}

	ballot, err := NewBallot(preferences...)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse ballot %q", text)
	}
	return ballot, nil
}

// ParseBallots is like ParseBallot but accepts an optional repeat prefix, so
// that "4*A>B" creates four independent ballots ranking A then B.
func ParseBallots(text, sep string) ([]*Ballot[Candidate], error) {
	repeat := 1
	if idx := strings.Index(text, "*"); idx >= 0 {
		n, err := strconv.Atoi(strings.TrimSpace(text[:idx]))
		if err != nil || n < 1 {
			return nil, errors.Errorf("invalid repeat count in %q", text)
		}
		repeat, text = n, text[idx+1:]
	}

	ballots := make([]*Ballot[Candidate], 0, repeat)
	for i := 0; i < repeat; i++ {
		ballot, err := ParseBallot(text, sep)
		if err != nil {
			return nil, err
		}
		ballots = append(ballots, ballot)
	}
	return ballots, nil
}
