package main

import (
	"bufio"
	"bytes"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/bebop/rindex/internal/fixture"
	"github.com/bebop/rindex/rindex"
)

/******************************************************************************

Commands is structured as so:

	Top level commands:
		build
		count
		locate
		breakdown

	Helper functions

build's construction step reuses internal/fixture's brute-force suffix
sort. That package says plainly it isn't a production construction
algorithm, and it isn't: it's an O(n^2 log n) full rotation sort, fine
for the text sizes this tool is exercised against and nothing larger.
Non-goals rule out shipping a sophisticated construction algorithm, not
shipping the build subcommand itself, so reusing the same naive sort
here — rather than forking a second copy of it outside internal/ — is
the smaller, more honest surface: there is exactly one naive builder in
this module, and both tests and the CLI point at it.

******************************************************************************/

func buildCommand(c *cli.Context) error {
	textPath := c.Args().Get(0)
	if textPath == "" {
		return errors.New("rquery: build requires a TEXT argument")
	}

	text, err := os.ReadFile(textPath)
	if err != nil {
		return errors.Wrap(err, "rquery: reading text file")
	}

	start := time.Now()
	built, err := fixture.Build(text)
	if err != nil {
		return errors.Wrap(err, "rquery: building run-length BWT")
	}

	variant := rindex.Variant(c.Int("i"))
	rate := c.Int("s")

	var idx *rindex.Index
	switch variant {
	case rindex.VariantPlain:
		idx, err = rindex.NewFromComponents(variant, built.Alpha, built.RL, built.Samples, nil, built.MarksByPos, built.MarkToSampleFull, nil, nil)
	case rindex.VariantValidMark:
		sub := built.Subsample(rate)
		idx, err = rindex.NewFromComponents(variant, built.Alpha, built.RL, built.Samples, sub.RunIndices, sub.SubmarkPos, sub.MarkToSample, sub.ValidMark, nil)
	case rindex.VariantValidArea:
		sub := built.Subsample(rate)
		idx, err = rindex.NewFromComponents(variant, built.Alpha, built.RL, built.Samples, sub.RunIndices, sub.SubmarkPos, sub.MarkToSample, nil, sub.ValidArea)
	default:
		return errors.Errorf("rquery: unknown variant %d (want 0, 1, or 2)", c.Int("i"))
	}
	if err != nil {
		return errors.Wrap(err, "rquery: assembling index")
	}

	out, err := os.Create(c.String("o"))
	if err != nil {
		return errors.Wrap(err, "rquery: creating output artifact")
	}
	defer out.Close()

	if err := rindex.Serialize(out, idx, c.Bool("z")); err != nil {
		return errors.Wrap(err, "rquery: writing artifact")
	}

	log.Printf("built %s index: n=%d r=%d rate=%d -> %s (%s)", variant, idx.Len(), idx.NumRuns(), rate, c.String("o"), time.Since(start))
	return nil
}

func countCommand(c *cli.Context) error {
	idx, err := openIndex(c.Args().Get(0))
	if err != nil {
		return err
	}

	patterns, err := readPatternFile(c.Args().Get(1))
	if err != nil {
		return err
	}

	w := bufio.NewWriter(c.App.Writer)
	defer w.Flush()
	for _, p := range patterns {
		start, end := idx.Count(p)
		fmt.Fprintf(w, "%d\n", end-start)
	}
	return nil
}

func locateCommand(c *cli.Context) error {
	idx, err := openIndex(c.Args().Get(0))
	if err != nil {
		return err
	}

	patterns, err := readPatternFile(c.Args().Get(1))
	if err != nil {
		return err
	}

	w := bufio.NewWriter(c.App.Writer)
	defer w.Flush()
	for _, p := range patterns {
		occ, err := idx.Locate(p)
		if err != nil {
			return errors.Wrap(err, "rquery: locate")
		}
		fields := make([]string, len(occ))
		for i, pos := range occ {
			fields[i] = strconv.Itoa(pos)
		}
		fmt.Fprintln(w, strings.Join(fields, " "))
	}
	return nil
}

func breakdownCommand(c *cli.Context) error {
	idx, err := openIndex(c.Args().Get(0))
	if err != nil {
		return err
	}

	w := bufio.NewWriter(c.App.Writer)
	defer w.Flush()

	total := 0
	for _, part := range idx.Breakdown() {
		fmt.Fprintf(w, "%-16s %10d bytes\n", part.Name, part.Bytes)
		total += part.Bytes
	}
	fmt.Fprintf(w, "%-16s %10d bytes\n", "total", total)
	fmt.Fprintf(w, "n=%d r=%d variant=%s\n", idx.Len(), idx.NumRuns(), idx.Variant())
	return nil
}

// openIndex loads an index artifact whole into memory. Large artifacts
// that warrant mmap use rindex.LoadMmap directly; the CLI's count,
// locate, and breakdown subcommands are short-lived processes where the
// read cost is dominated by the query itself, not the load.
func openIndex(path string) (*rindex.Index, error) {
	if path == "" {
		return nil, errors.New("rquery: missing INDEX argument")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "rquery: opening index artifact")
	}
	defer f.Close()

	idx, err := rindex.Load(f)
	if err != nil {
		return nil, errors.Wrap(err, "rquery: loading index artifact")
	}
	return idx, nil
}

// readPatternFile reads a Pizza&Chili pattern file: a header line of the
// form "# number=N length=L file=..." followed by N concatenated
// L-byte patterns with no separators between them.
func readPatternFile(path string) ([][]byte, error) {
	if path == "" {
		return nil, errors.New("rquery: missing PATTERNS argument")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "rquery: reading pattern file")
	}

	nl := bytes.IndexByte(data, '\n')
	if nl < 0 {
		return nil, errors.New("rquery: pattern file missing header line")
	}
	number, length, err := parsePatternHeader(string(data[:nl]))
	if err != nil {
		return nil, err
	}

	body := data[nl+1:]
	want := number * length
	if len(body) < want {
		return nil, errors.Errorf("rquery: pattern file body too short: have %d bytes, want %d", len(body), want)
	}

	patterns := make([][]byte, number)
	for i := 0; i < number; i++ {
		patterns[i] = body[i*length : (i+1)*length]
	}
	return patterns, nil
}

// parsePatternHeader parses the "key=value" fields of a Pizza&Chili
// pattern file's header line, e.g. "# number=100 length=20 file=foo".
func parsePatternHeader(header string) (number, length int, err error) {
	for _, field := range strings.Fields(strings.TrimPrefix(header, "#")) {
		kv := strings.SplitN(field, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "number":
			if number, err = strconv.Atoi(kv[1]); err != nil {
				return 0, 0, errors.Wrap(err, "rquery: parsing number=")
			}
		case "length":
			if length, err = strconv.Atoi(kv[1]); err != nil {
				return 0, 0, errors.Wrap(err, "rquery: parsing length=")
			}
		}
	}
	if number <= 0 || length <= 0 {
		return 0, 0, errors.New("rquery: pattern header missing number= or length=")
	}
	return number, length, nil
}
