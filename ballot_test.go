package runoff_test

import (
	"errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	. "github.com/bbengfort/runoff"
)

// makeBallots parses each text with ParseBallots, e.g. "4*A>B>C", and fails
// the test if any of them are invalid.
func makeBallots(texts ...string) []*Ballot[Candidate] {
	ballots := make([]*Ballot[Candidate], 0, len(texts))
	for _, text := range texts {
		parsed, err := ParseBallots(text, DefaultSeparator)
		Ω(err).ShouldNot(HaveOccurred())
		ballots = append(ballots, parsed...)
	}
	return ballots
}

type seat int

func (s seat) String() string {
	return string(rune('a' + int(s)))
}

var _ = Describe("Ballot", func() {

	Describe("construction", func() {

		It("should preserve the rank order of its preferences", func() {
			ballot, err := NewBallot[Candidate]("C", "A", "B")
			Ω(err).ShouldNot(HaveOccurred())
			Ω(ballot.Len()).Should(Equal(3))
			Ω(ballot.Preferences()).Should(Equal([]Candidate{"C", "A", "B"}))
			Ω(ballot.String()).Should(Equal("C>A>B"))
			Ω(ballot.Format(" > ")).Should(Equal("C > A > B"))
		})

		It("should accept any comparable stringer as an option", func() {
			ballot, err := NewBallot[seat](2, 0, 1)
			Ω(err).ShouldNot(HaveOccurred())
			Ω(ballot.String()).Should(Equal("c>a>b"))
		})

		It("should copy the preferences it is given", func() {
			preferences := []Candidate{"A", "B"}
			ballot, err := NewBallot(preferences...)
			Ω(err).ShouldNot(HaveOccurred())

			preferences[0] = "Z"
			Ω(ballot.String()).Should(Equal("A>B"))

			copied := ballot.Preferences()
			copied[1] = "Z"
			Ω(ballot.String()).Should(Equal("A>B"))
		})

		It("should not allow an empty ballot", func() {
			ballot, err := NewBallot[Candidate]()
			Ω(err).Should(MatchError(ErrEmptyBallot))
			Ω(ballot).Should(BeNil())
		})

		It("should not allow an option to be ranked twice", func() {
			ballot, err := NewBallot[Candidate]("B", "B")
			Ω(errors.Is(err, ErrDuplicatePreference)).Should(BeTrue())
			Ω(ballot).Should(BeNil())

			ballot, err = NewBallot[Candidate]("A", "B", "C", "A")
			Ω(errors.Is(err, ErrDuplicatePreference)).Should(BeTrue())
			Ω(ballot).Should(BeNil())
		})

	})

	Describe("cursor", func() {

		var ballot *Ballot[Candidate]

		BeforeEach(func() {
			var err error
			ballot, err = NewBallot[Candidate]("A", "B")
			Ω(err).ShouldNot(HaveOccurred())
		})

		It("should peek without advancing", func() {
			for i := 0; i < 3; i++ {
				option, ok := ballot.Current()
				Ω(ok).Should(BeTrue())
				Ω(option).Should(Equal(Candidate("A")))
			}
		})

		It("should advance through the preferences in order", func() {
			option, ok := ballot.Advance()
			Ω(ok).Should(BeTrue())
			Ω(option).Should(Equal(Candidate("A")))

			option, ok = ballot.Current()
			Ω(ok).Should(BeTrue())
			Ω(option).Should(Equal(Candidate("B")))

			option, ok = ballot.Advance()
			Ω(ok).Should(BeTrue())
			Ω(option).Should(Equal(Candidate("B")))
			Ω(ballot.Exhausted()).Should(BeTrue())
		})

		It("should never wrap once exhausted", func() {
			ballot.Advance()
			ballot.Advance()

			for i := 0; i < 5; i++ {
				option, ok := ballot.Advance()
				Ω(ok).Should(BeFalse())
				Ω(option).Should(BeZero())

				option, ok = ballot.Current()
				Ω(ok).Should(BeFalse())
				Ω(option).Should(BeZero())
			}

			Ω(ballot.String()).Should(Equal("A>B"))
		})

	})

	Describe("parsing", func() {

		It("should parse a ballot ignoring whitespace and empty preferences", func() {
			ballot, err := ParseBallot(" A > B >> C >", ">")
			Ω(err).ShouldNot(HaveOccurred())
			Ω(ballot.Preferences()).Should(Equal([]Candidate{"A", "B", "C"}))
		})

		It("should parse with a custom separator", func() {
			ballot, err := ParseBallot("Alt A,Alt B", ",")
			Ω(err).ShouldNot(HaveOccurred())
			Ω(ballot.Preferences()).Should(Equal([]Candidate{"Alt A", "Alt B"}))
		})

		It("should use the default separator if none is given", func() {
			ballot, err := ParseBallot("A>B", "")
			Ω(err).ShouldNot(HaveOccurred())
			Ω(ballot.Len()).Should(Equal(2))
		})

		It("should return ballot errors when parsing", func() {
			_, err := ParseBallot(" > ", ">")
			Ω(errors.Is(err, ErrEmptyBallot)).Should(BeTrue())

			_, err = ParseBallot("A>B>A", ">")
			Ω(errors.Is(err, ErrDuplicatePreference)).Should(BeTrue())
		})

		It("should create independent ballots for a repeat prefix", func() {
			ballots, err := ParseBallots("3*A>B", ">")
			Ω(err).ShouldNot(HaveOccurred())
			Ω(ballots).Should(HaveLen(3))

			ballots[0].Advance()
			option, _ := ballots[1].Current()
			Ω(option).Should(Equal(Candidate("A")))
		})

		It("should reject invalid repeat prefixes", func() {
			for _, text := range []string{"*A", "0*A", "x*A", "-2*A>B"} {
				_, err := ParseBallots(text, ">")
				Ω(err).Should(HaveOccurred(), text)
			}
		})

	})

})
