// Command rquery is the command line front end for the rindex module.
//
// It is deliberately thin: argument parsing and subcommand wiring live
// here via "github.com/urfave/cli/v2", and the actual work for each
// subcommand lives in commands.go. This mirrors the split the teacher's
// own CLI uses, separating "what subcommands exist and what flags they
// take" from "what running them does".
package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

// main hands off to run so application() can be exercised independently
// in tests without going through os.Args.
func main() {
	run(os.Args)
}

func run(args []string) {
	app := application()
	if err := app.Run(args); err != nil {
		log.Fatal(err)
	}
}

// application defines rquery's subcommands: build, count, locate, and
// breakdown, per spec.md §6.2.
func application() *cli.App {
	app := &cli.App{
		Name:  "rquery",
		Usage: "Build and query a subsampled r-index over a text.",

		Commands: []*cli.Command{
			{
				Name:      "build",
				Usage:     "Build an index artifact from a text file.",
				ArgsUsage: "TEXT",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "s",
						Value: 1,
						Usage: "Subsample rate: keep one mark/sample out of every s runs. 1 means no subsampling. Ignored by the plain variant (-i 0), which samples every run.",
					},
					&cli.IntFlag{
						Name:  "i",
						Value: 0,
						Usage: "Φ variant: 0=plain, 1=valid-mark, 2=valid-area.",
					},
					&cli.StringFlag{
						Name:     "o",
						Required: true,
						Usage:    "Output path for the index artifact.",
					},
					&cli.StringFlag{
						Name:  "T",
						Value: os.TempDir(),
						Usage: "Scratch directory for intermediate build state. Unused by the current in-memory builder; accepted for forward compatibility with an out-of-core construction path.",
					},
					&cli.BoolFlag{
						Name:  "z",
						Usage: "Compress the artifact payload with zstd.",
					},
				},
				Action: func(c *cli.Context) error {
					return buildCommand(c)
				},
			},
			{
				Name:      "count",
				Usage:     "Report the occurrence count of each pattern in a Pizza&Chili pattern file.",
				ArgsUsage: "INDEX PATTERNS",
				Action: func(c *cli.Context) error {
					return countCommand(c)
				},
			},
			{
				Name:      "locate",
				Usage:     "Report the occurrence positions of each pattern in a Pizza&Chili pattern file.",
				ArgsUsage: "INDEX PATTERNS",
				Action: func(c *cli.Context) error {
					return locateCommand(c)
				},
			},
			{
				Name:      "breakdown",
				Usage:     "Report the approximate size of each component of an index artifact.",
				ArgsUsage: "INDEX",
				Action: func(c *cli.Context) error {
					return breakdownCommand(c)
				},
			},
		},
	}

	return app
}
