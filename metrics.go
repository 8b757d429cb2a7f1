package runoff

import (
	"fmt"
	"sync"
	"time"

	"github.com/bbengfort/x/stats"
)

// Metrics tracks the measurable statistics of one or more counts by observing
// their events -- e.g. how many rounds counts take and how many options are
// eliminated together. Pass Observe as the callback to Tabulate; a single
// Metrics may observe many counts, including concurrently running ones.
type Metrics struct {
	sync.RWMutex
	started      time.Time         // The time of the first observed event
	finished     time.Time         // The time of the last observed event
	rounds       map[string]int    // The number of rounds tallied per session
	won          uint64            // The number of counts that found a winner
	deadlocked   uint64            // The number of counts that ended in a tie
	exhausted    uint64            // The number of ballots dropped as exhausted
	roundStats   *stats.Statistics // Track the number of rounds per finished count
	eliminations *stats.Statistics // Track the number of options eliminated together
}

// NewMetrics creates the metrics data store
func NewMetrics() *Metrics {
	return &Metrics{
		rounds:       make(map[string]int),
		roundStats:   new(stats.Statistics),
		eliminations: new(stats.Statistics),
	}
}

// Observe records a count event; it satisfies the Callback signature.
func (m *Metrics) Observe(e Event) {
	m.Lock()
	defer m.Unlock()

	m.finished = time.Now()
	if m.started.IsZero() {
		m.started = m.finished
	}

	session := fmt.Sprint(e.Source())
	switch e.Type() {
	case RoundTallied:
		m.rounds[session]++
	case OptionsEliminated:
		if names, ok := e.Value().([]string); ok {
			m.eliminations.Update(float64(len(names)))
		}
	case BallotExhausted:
		m.exhausted++
	case MajorityFound:
		m.won++
		m.roundStats.Update(float64(m.rounds[session]))
	case TieDetected:
		m.deadlocked++
		m.roundStats.Update(float64(m.rounds[session]))
	}
}

// Counts returns the number of distinct counting sessions observed.
func (m *Metrics) Counts() int {
	m.RLock()
	defer m.RUnlock()
	return len(m.rounds)
}

// Won returns the number of observed counts that found a majority winner.
func (m *Metrics) Won() uint64 {
	m.RLock()
	defer m.RUnlock()
	return m.won
}

// Deadlocked returns the number of observed counts that ended in a tie.
func (m *Metrics) Deadlocked() uint64 {
	m.RLock()
	defer m.RUnlock()
	return m.deadlocked
}

// Exhausted returns the number of ballots dropped from all observed counts.
func (m *Metrics) Exhausted() uint64 {
	m.RLock()
	defer m.RUnlock()
	return m.exhausted
}

// Dump the metrics to a JSON lines file, appending to any metrics already
// written there.
func (m *Metrics) Dump(path string, extra map[string]interface{}) (err error) {
	m.RLock()
	defer m.RUnlock()

	data := make(map[string]interface{})

	// Append extra information
	for key, val := range extra {
		data[key] = val
	}

	data["metric"] = "tabulation"
	data["version"] = PackageVersion
	data["started"] = m.started.Format(time.RFC3339Nano)
	data["finished"] = m.finished.Format(time.RFC3339Nano)
	data["counts"] = len(m.rounds)
	data["won"] = m.won
	data["deadlocked"] = m.deadlocked
	data["exhausted"] = m.exhausted
	data["duration"] = m.duration().String()
	data["rounds"] = m.roundStats.Serialize()
	data["eliminations"] = m.eliminations.Serialize()

	return appendJSON(path, data)
}

// String returns a summary of the observed counts
func (m *Metrics) String() string {
	m.RLock()
	defer m.RUnlock()

	return fmt.Sprintf(
		"%d counts (%d won, %d deadlocked), %d ballots exhausted in %s",
		len(m.rounds), m.won, m.deadlocked, m.exhausted, m.duration(),
	)
}

// Duration computes the amount of time events were observed for.
func (m *Metrics) duration() time.Duration {
	return m.finished.Sub(m.started)
}
