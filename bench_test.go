package runoff_test

import (
	"encoding/json"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	. "github.com/bbengfort/runoff"
)

var _ = Describe("Benchmark", func() {

	Describe("scenarios", func() {

		It("should scale the four round count", func() {
			ballots, err := FourRoundBallots(3)
			Ω(err).ShouldNot(HaveOccurred())
			Ω(ballots).Should(HaveLen(75))

			counter, err := NewCounter(ballots)
			Ω(err).ShouldNot(HaveOccurred())
			Ω(counter.Winner()).Should(Equal(Candidate("A")))
			Ω(counter.Results()).Should(HaveLen(4))
			Ω(counter.Results()[3]).Should(Equal(map[Candidate]int{"A": 27, "B": 21}))
		})

		It("should eliminate one option per round from a staircase", func() {
			ballots, err := StaircaseBallots(10)
			Ω(err).ShouldNot(HaveOccurred())
			Ω(ballots).Should(HaveLen(55))

			counter, err := NewCounter(ballots)
			Ω(err).ShouldNot(HaveOccurred())
			Ω(counter.Winner()).Should(Equal(Candidate("010")))

			rounds := counter.Rounds()
			Ω(rounds).Should(HaveLen(9))
			for i := 1; i < len(rounds); i++ {
				Ω(rounds[i].Eliminated()).Should(HaveLen(1))
			}
		})

	})

	It("should run the rounds benchmark", func() {
		bench, err := NewBenchmark(RoundsScenario, 3, 2)
		Ω(err).ShouldNot(HaveOccurred())

		row, err := bench.CSV(true)
		Ω(err).ShouldNot(HaveOccurred())
		lines := strings.Split(row, "\n")
		Ω(lines).Should(HaveLen(2))
		Ω(lines[0]).Should(Equal("runs,failures,factor,duration,throughput,version,benchmark"))
		Ω(lines[1]).Should(HavePrefix("3,0,2,"))
		Ω(lines[1]).Should(HaveSuffix(",rounds"))

		metrics := bench.(*CountBenchmark).Metrics()
		Ω(metrics.Counts()).Should(Equal(3))
		Ω(metrics.Won()).Should(Equal(uint64(3)))

		data, err := bench.JSON(0)
		Ω(err).ShouldNot(HaveOccurred())
		result := make(map[string]interface{})
		Ω(json.Unmarshal(data, &result)).Should(Succeed())
		Ω(result["benchmark"]).Should(Equal("rounds"))
		Ω(result["runs"]).Should(BeEquivalentTo(3))
		Ω(result).Should(HaveKey("latency"))
		Ω(result).Should(HaveKey("rounds"))
	})

	It("should run the options benchmark", func() {
		bench, err := NewBenchmark(OptionsScenario, 2, 8)
		Ω(err).ShouldNot(HaveOccurred())

		row, err := bench.CSV(false)
		Ω(err).ShouldNot(HaveOccurred())
		Ω(row).Should(HavePrefix("2,0,8,"))
	})

	It("should run the validation benchmark", func() {
		bench, err := NewBenchmark(ValidationScenario, 2, 10)
		Ω(err).ShouldNot(HaveOccurred())

		data, err := bench.JSON(2)
		Ω(err).ShouldNot(HaveOccurred())
		Ω(string(data)).Should(ContainSubstring(`"benchmark": "validation"`))
	})

	It("should not create an unknown benchmark", func() {
		_, err := NewBenchmark("blast", 1, 1)
		Ω(errors.Is(err, ErrUnknownScenario)).Should(BeTrue())

		_, err = NewBenchmark(RoundsScenario, 0, 1)
		Ω(err).Should(HaveOccurred())
	})

	It("should not report results before running", func() {
		bench := new(CountBenchmark)
		_, err := bench.CSV(true)
		Ω(err).Should(MatchError(ErrNotRun))

		_, err = bench.JSON(0)
		Ω(err).Should(MatchError(ErrNotRun))
	})

})
