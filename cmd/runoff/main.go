package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/bbengfort/runoff"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	// Load the .env file if it exists
	godotenv.Load()

	app := cli.NewApp()
	app.Name = "runoff"
	app.Usage = "instant-runoff vote tabulation"
	app.Version = runoff.PackageVersion
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Aliases: []string{"l"},
			Usage:   "minimum level of log messages to write",
		},
	}
	app.Before = setup
	app.Commands = []*cli.Command{
		{
			Name:      "count",
			Usage:     "count ranked ballots such as A>B>C or 4*B>A",
			ArgsUsage: "ballot [ballot ...]",
			Action:    count,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "name",
					Aliases: []string{"n"},
					Usage:   "label of the count in logs and metrics",
				},
				&cli.StringFlag{
					Name:    "separator",
					Aliases: []string{"s"},
					Usage:   "string that divides the preferences of a ballot",
				},
				&cli.BoolFlag{
					Name:    "quiet",
					Aliases: []string{"q"},
					Usage:   "do not print the multi-round report",
				},
				&cli.StringFlag{
					Name:    "metrics",
					Aliases: []string{"m"},
					Usage:   "append count metrics as JSON lines to this path",
				},
			},
		},
		{
			Name:   "demo",
			Usage:  "count a small sample election and print the report",
			Action: demo,
		},
		{
			Name:   "bench",
			Usage:  "run a tabulation benchmark",
			Action: bench,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "scenario",
					Aliases: []string{"S"},
					Usage:   "benchmark scenario: rounds, options, or validation",
				},
				&cli.IntFlag{
					Name:    "runs",
					Aliases: []string{"r"},
					Usage:   "number of times to run the scenario",
				},
				&cli.IntFlag{
					Name:    "factor",
					Aliases: []string{"f"},
					Usage:   "scale of the scenario",
				},
				&cli.IntFlag{
					Name:    "indent",
					Aliases: []string{"i"},
					Usage:   "print the results as JSON indented by this many spaces",
					Value:   -1,
				},
			},
		},
		{
			Name:   "config",
			Usage:  "print the loaded configuration",
			Action: printConfig,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("runoff failed")
	}
}

//===========================================================================
// Helpers
//===========================================================================

var conf *runoff.Config

// setup loads the configuration and configures the global logger.
func setup(c *cli.Context) (err error) {
	conf = new(runoff.Config)
	if err = conf.Load(); err != nil {
		return cli.Exit(err, 1)
	}

	if err = conf.Update(&runoff.Config{LogLevel: c.String("log-level")}); err != nil {
		return cli.Exit(err, 1)
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(conf.GetLogLevel())
	return nil
}

// tabulate counts the ballots, printing the results and report and recording
// metrics if configured to do so.
func tabulate(ballots []*runoff.Ballot[runoff.Candidate]) error {
	metrics := runoff.NewMetrics()
	counter, err := runoff.Tabulate(ballots, metrics.Observe)

	if conf.Metrics != "" {
		extra := map[string]interface{}{"name": conf.GetName(), "ballots": len(ballots)}
		if derr := metrics.Dump(conf.Metrics, extra); derr != nil {
			log.Error().Err(derr).Str("path", conf.Metrics).Msg("could not write metrics")
		}
	}

	if err != nil {
		if errors.Is(err, runoff.ErrUnresolvableTie) {
			return cli.Exit(fmt.Sprintf("no winner: %s", err), 2)
		}
		return cli.Exit(err, 1)
	}

	if !conf.Quiet {
		if err = counter.Report(os.Stdout); err != nil {
			return cli.Exit(err, 1)
		}
		fmt.Println()
	}

	for i, results := range counter.Results() {
		fmt.Printf("round %d: %s\n", i, formatResults(results))
	}
	fmt.Printf("winner: %s\n", counter.Winner())
	return nil
}

// formatResults renders a round's results with options in name order.
func formatResults(results map[runoff.Candidate]int) string {
	options := make([]string, 0, len(results))
	for option := range results {
		options = append(options, string(option))
	}
	sort.Strings(options)

	counts := make([]string, 0, len(options))
	for _, option := range options {
		counts = append(counts, fmt.Sprintf("%s=%d", option, results[runoff.Candidate(option)]))
	}
	return strings.Join(counts, " ")
}

//===========================================================================
// Commands
//===========================================================================

func count(c *cli.Context) (err error) {
	if c.NArg() == 0 {
		return cli.Exit("specify at least one ballot to count", 1)
	}

	if err = conf.Update(&runoff.Config{
		Name:      c.String("name"),
		Separator: c.String("separator"),
		Quiet:     c.Bool("quiet"),
		Metrics:   c.String("metrics"),
	}); err != nil {
		return cli.Exit(err, 1)
	}

	ballots := make([]*runoff.Ballot[runoff.Candidate], 0, c.NArg())
	for _, arg := range c.Args().Slice() {
		var parsed []*runoff.Ballot[runoff.Candidate]
		if parsed, err = runoff.ParseBallots(arg, conf.GetSeparator()); err != nil {
			return cli.Exit(err, 1)
		}
		ballots = append(ballots, parsed...)
	}

	return tabulate(ballots)
}

func demo(c *cli.Context) (err error) {
	sample := []string{
		"A>B>C", "A>B>C", "A>B>C>D", "A>B>C", "A>C>B",
		"B>A", "B>A", "B>A", "B>D",
		"C", "D>B", "D>C>B",
	}

	ballots := make([]*runoff.Ballot[runoff.Candidate], 0, len(sample))
	for _, text := range sample {
		var ballot *runoff.Ballot[runoff.Candidate]
		if ballot, err = runoff.ParseBallot(text, runoff.DefaultSeparator); err != nil {
			return cli.Exit(err, 1)
		}
		ballots = append(ballots, ballot)
	}

	return tabulate(ballots)
}

func bench(c *cli.Context) (err error) {
	if err = conf.Update(&runoff.Config{
		Scenario: c.String("scenario"),
		Runs:     c.Int("runs"),
		Factor:   c.Int("factor"),
	}); err != nil {
		return cli.Exit(err, 1)
	}

	var benchmark runoff.Benchmark
	if benchmark, err = runoff.NewBenchmark(conf.Scenario, uint(conf.Runs), uint(conf.Factor)); err != nil {
		return cli.Exit(err, 1)
	}

	if indent := c.Int("indent"); indent >= 0 {
		var data []byte
		if data, err = benchmark.JSON(indent); err != nil {
			return cli.Exit(err, 1)
		}
		fmt.Println(string(data))
		return nil
	}

	var row string
	if row, err = benchmark.CSV(true); err != nil {
		return cli.Exit(err, 1)
	}
	fmt.Println(row)
	return nil
}

func printConfig(c *cli.Context) error {
	data, err := json.MarshalIndent(conf, "", "  ")
	if err != nil {
		return cli.Exit(err, 1)
	}
	fmt.Println(string(data))
	return nil
}
