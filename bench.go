package runoff

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bbengfort/x/stats"
	"github.com/pkg/errors"
)

// Benchmark scenarios
const (
	RoundsScenario     = "rounds"
	OptionsScenario    = "options"
	ValidationScenario = "validation"
)

// NewBenchmark creates and runs the benchmark for the named scenario. In the
// rounds scenario the six option, four round count is scaled by factor; in the
// options scenario factor options each receive as many ballots as their rank,
// forcing one elimination per round; in the validation scenario only the
// ballots of the scaled six option count are constructed. Every scenario is
// executed runs times.
func NewBenchmark(scenario string, runs, factor uint) (bench Benchmark, err error) {
	if runs == 0 || factor == 0 {
		return nil, errors.New("benchmark requires at least one run and a positive factor")
	}

	base := benchmark{method: scenario, runs: runs, factor: factor}
	switch scenario {
	case RoundsScenario:
		bench = &CountBenchmark{benchmark: base, generate: func() ([]*Ballot[Candidate], error) {
			return FourRoundBallots(int(factor))
		}}
	case OptionsScenario:
		bench = &CountBenchmark{benchmark: base, generate: func() ([]*Ballot[Candidate], error) {
			return StaircaseBallots(int(factor))
		}}
	case ValidationScenario:
		bench = &ValidationBenchmark{benchmark: base}
	default:
		return nil, errors.Wrapf(ErrUnknownScenario, "%q", scenario)
	}

	if err := bench.Run(); err != nil {
		return nil, err
	}
	return bench, nil
}

// Benchmark defines the interface for all benchmark runners, both for
// execution as well as the delivery of results. A single benchmark is
// executed once and stores its internal results to be saved to disk.
type Benchmark interface {
	Run() error                      // execute the benchmark, resetting results if rerun
	CSV(header bool) (string, error) // returns a CSV representation of the results
	JSON(indent int) ([]byte, error) // returns a JSON representation of the results
}

//===========================================================================
// benchmark
//===========================================================================

// This embedded struct implements shared functionality between the
// benchmarks, keeping track of the throughput and the number of successful
// or failed runs.
type benchmark struct {
	method    string            // the name of the benchmark scenario
	runs      uint              // the number of times to run the scenario
	factor    uint              // the scale of the scenario
	successes uint64            // the number of runs that completed
	failures  uint64            // the number of runs that returned an error
	started   time.Time         // the time the benchmark was started
	duration  time.Duration     // the duration of the benchmark period
	latencies *stats.Statistics // observed latency of each run in seconds
}

// reset prepares the benchmark to be run again.
func (b *benchmark) reset() {
	b.successes = 0
	b.failures = 0
	b.latencies = new(stats.Statistics)
	b.started = time.Now()
}

// record the outcome of a single run that started at start.
func (b *benchmark) record(start time.Time, err error) {
	b.latencies.Update(time.Since(start).Seconds())
	if err != nil {
		b.failures++
	} else {
		b.successes++
	}
}

// Complete returns true if runs and duration is greater than 0.
func (b *benchmark) Complete() bool {
	return b.successes+b.failures > 0 && b.duration > 0
}

// Throughput computes the number of successful runs by the total duration of
// the benchmark, e.g. the counts per second.
func (b *benchmark) Throughput() float64 {
	if b.duration == 0 {
		return 0.0
	}

	return float64(b.successes) / b.duration.Seconds()
}

// CSV returns a results row delimited by commas as:
//
//	runs,failures,factor,duration,throughput,version,benchmark
//
// If header is specified then string contains two rows with the header first.
func (b *benchmark) CSV(header bool) (string, error) {
	if !b.Complete() {
		return "", ErrNotRun
	}

	row := fmt.Sprintf(
		"%d,%d,%d,%s,%0.4f,%s,%s",
		b.successes, b.failures, b.factor, b.duration, b.Throughput(), Version(), b.method,
	)

	if header {
		return fmt.Sprintf("runs,failures,factor,duration,throughput,version,benchmark\n%s", row), nil
	}

	return row, nil
}

// JSON returns a results row as a json object, formatted with or without the
// number of spaces specified by indent. Use no indent for JSON lines format.
func (b *benchmark) JSON(indent int) ([]byte, error) {
	if !b.Complete() {
		return nil, ErrNotRun
	}

	data := b.serialize()

	if indent > 0 {
		indent := strings.Repeat(" ", indent)
		return json.MarshalIndent(data, "", indent)
	}

	return json.Marshal(data)
}

// serialize converts the benchmark into a map[string]interface{} -- useful
// for dumping the benchmark as JSON and used from structs that embed benchmark
// to include more data in the results.
func (b *benchmark) serialize() map[string]interface{} {
	data := make(map[string]interface{})

	data["runs"] = b.successes
	data["failures"] = b.failures
	data["factor"] = b.factor
	data["duration"] = b.duration.String()
	data["throughput"] = b.Throughput()
	data["version"] = Version()
	data["benchmark"] = b.method
	data["latency"] = b.latencies.Serialize()

	return data
}

//===========================================================================
// Counting
//===========================================================================

// CountBenchmark implements Benchmark by counting a freshly generated set of
// ballots on every run. Ballot generation is not included in the latency of
// a run since ballots cannot be counted twice.
type CountBenchmark struct {
	benchmark
	generate func() ([]*Ballot[Candidate], error)
	metrics  *Metrics
}

// Run the count benchmark, observing every count with a fresh Metrics.
func (b *CountBenchmark) Run() error {
	b.reset()
	b.metrics = NewMetrics()

	for i := uint(0); i < b.runs; i++ {
		ballots, err := b.generate()
		if err != nil {
			return errors.Wrap(err, "could not generate ballots")
		}

		start := time.Now()
		_, err = Tabulate(ballots, b.metrics.Observe)
		b.record(start, err)
	}

	b.duration = time.Since(b.started)
	return nil
}

// Metrics returns the statistics gathered from the counts of the last run.
func (b *CountBenchmark) Metrics() *Metrics {
	return b.metrics
}

// JSON includes the count metrics with the benchmark results.
func (b *CountBenchmark) JSON(indent int) ([]byte, error) {
	if !b.Complete() {
		return nil, ErrNotRun
	}

	data := b.serialize()
	b.metrics.RLock()
	data["rounds"] = b.metrics.roundStats.Serialize()
	data["eliminations"] = b.metrics.eliminations.Serialize()
	b.metrics.RUnlock()

	if indent > 0 {
		return json.MarshalIndent(data, "", strings.Repeat(" ", indent))
	}
	return json.Marshal(data)
}

//===========================================================================
// Validation
//===========================================================================

// ValidationBenchmark implements Benchmark by measuring how long it takes to
// construct and validate the ballots of the scaled six option count.
type ValidationBenchmark struct {
	benchmark
}

// Run the validation benchmark.
func (b *ValidationBenchmark) Run() error {
	b.reset()
	for i := uint(0); i < b.runs; i++ {
		start := time.Now()
		_, err := FourRoundBallots(int(b.factor))
		b.record(start, err)
	}

	b.duration = time.Since(b.started)
	return nil
}

//===========================================================================
// Scenarios
//===========================================================================

// FourRoundBallots creates the ballots of a six option count that takes four
// rounds to find a winner, with every group of ballots multiplied by factor.
// A wins in the fourth round with 9*factor of 16*factor valid votes.
func FourRoundBallots(factor int) ([]*Ballot[Candidate], error) {
	groups := []struct {
		count       int
		preferences []Candidate
	}{
		{7, []Candidate{"A", "C", "F", "B"}},
		{6, []Candidate{"B"}},
		{5, []Candidate{"C"}},
		{4, []Candidate{"D", "E", "F"}},
		{2, []Candidate{"E", "A", "D"}},
		{1, []Candidate{"F", "B", "C"}},
	}

	ballots := make([]*Ballot[Candidate], 0, 25*factor)
	for _, group := range groups {
		for i := 0; i < group.count*factor; i++ {
			ballot, err := NewBallot(group.preferences...)
			if err != nil {
				return nil, err
			}
			ballots = append(ballots, ballot)
		}
	}
	return ballots, nil
}

// StaircaseBallots creates ballots for n options where the i-th option is the
// only preference of i ballots. Only the least popular option can be
// eliminated in each round, so the count takes n-1 rounds for n > 1.
func StaircaseBallots(n int) ([]*Ballot[Candidate], error) {
	ballots := make([]*Ballot[Candidate], 0, n*(n+1)/2)
	for i := 1; i <= n; i++ {
		option := Candidate(fmt.Sprintf("%03d", i))
		for j := 0; j < i; j++ {
			ballot, err := NewBallot(option)
			if err != nil {
				return nil, err
			}
			ballots = append(ballots, ballot)
		}
	}
	return ballots, nil
}
