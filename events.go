package runoff

// Event types emitted during a count
const (
	UnknownEvent EventType = iota
	RoundTallied
	OptionsEliminated
	BallotExhausted
	MajorityFound
	TieDetected
)

// Names of event types
var eventTypeStrings = [...]string{
	"unknown", "roundTallied", "optionsEliminated", "ballotExhausted",
	"majorityFound", "tieDetected",
}

//===========================================================================
// Event Types
//===========================================================================

// EventType is an enumeration of the kind of events that can occur.
type EventType uint16

// String returns the name of event types
func (t EventType) String() string {
	if int(t) >= len(eventTypeStrings) {
		return eventTypeStrings[UnknownEvent]
	}
	return eventTypeStrings[t]
}

// Callback is a function that observes events. Callbacks are invoked
// synchronously by the count, in the order the events occur.
type Callback func(Event)

//===========================================================================
// Event Definition and Methods
//===========================================================================

// Event represents something that happens during a count. The source is
// always the id of the counting session; the value depends on the type:
//
//	RoundTallied       RoundStats of the round that was built
//	OptionsEliminated  []string names of the options removed together
//	BallotExhausted    string rendering of the dropped ballot
//	MajorityFound      string name of the winner
//	TieDetected        error wrapping ErrUnresolvableTie
type Event interface {
	Type() EventType
	Source() interface{}
	Value() interface{}
}

// event is an internal implementation of the Event interface.
type event struct {
	etype  EventType
	source interface{}
	value  interface{}
}

// Type returns the event type.
func (e *event) Type() EventType {
	return e.etype
}

// Source returns the entity that dispatched the event.
func (e *event) Source() interface{} {
	return e.source
}

// Value returns the current value associated with the event.
func (e *event) Value() interface{} {
	return e.value
}
