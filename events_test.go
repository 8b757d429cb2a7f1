package runoff_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	. "github.com/bbengfort/runoff"
)

//===========================================================================
// Mock Test Event
//===========================================================================

type testEvent struct {
	idx int
	jdx int
}

func (e *testEvent) Type() EventType {
	return EventType(99)
}

func (e *testEvent) Source() interface{} {
	return e.idx
}

func (e *testEvent) Value() interface{} {
	return e.jdx
}

var _ = Describe("Events", func() {

	It("should be able to assign mock event to EventType", func() {
		var event Event = &testEvent{} // this will fail before the assertion but is a good sanity check
		Ω(&testEvent{}).Should(BeAssignableToTypeOf(event))
	})

	It("should return unknown as event type string repr", func() {
		event := &testEvent{}
		Ω(event.Type().String()).Should(Equal("unknown"))
	})

	It("should name the count event types", func() {
		Ω(RoundTallied.String()).Should(Equal("roundTallied"))
		Ω(OptionsEliminated.String()).Should(Equal("optionsEliminated"))
		Ω(BallotExhausted.String()).Should(Equal("ballotExhausted"))
		Ω(MajorityFound.String()).Should(Equal("majorityFound"))
		Ω(TieDetected.String()).Should(Equal("tieDetected"))
	})

	It("should name the counting states", func() {
		Ω(Counting.String()).Should(Equal("counting"))
		Ω(Won.String()).Should(Equal("won"))
		Ω(Deadlocked.String()).Should(Equal("deadlocked"))
		Ω(Counting.Terminal()).Should(BeFalse())
		Ω(Won.Terminal()).Should(BeTrue())
		Ω(Deadlocked.Terminal()).Should(BeTrue())
	})

})
