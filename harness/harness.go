// Package harness runs directories of .splat conformance cases. The
// expected result of each case is encoded in its file name, and successful
// runs are compared against a sibling .out file.
package harness

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pontaoski/splatgo/errors"
	"github.com/pontaoski/splatgo/splat"
	"github.com/ztrue/tracerr"
)

// Outcome is the phase a case is expected to fail in, or Success.
type Outcome int

const (
	// Internal marks an error that is not a splat fault, like an unreadable file.
	Internal Outcome = -1

	Lex       = Outcome(errors.PhaseLex)
	Parse     = Outcome(errors.PhaseParse)
	Semantic  = Outcome(errors.PhaseSemantic)
	Execution = Outcome(errors.PhaseExecution)
	Success   Outcome = 5
)

var outcomeNames = map[Outcome]string{
	Internal:  "Internal Error",
	Lex:       "Lex Exception",
	Parse:     "Parse Exception",
	Semantic:  "Semantic Exception",
	Execution: "Execution Exception",
	Success:   "Execution Success",
}

func (o Outcome) String() string {
	return outcomeNames[o]
}

var suffixes = []struct {
	suffix  string
	outcome Outcome
}{
	{"badlex.splat", Lex},
	{"badparse.splat", Parse},
	{"badsemantics.splat", Semantic},
	{"badexecution.splat", Execution},
	{"goodexecution.splat", Success},
}

// ExpectedOutcome reads the expected result from a case's file name.
func ExpectedOutcome(name string) (Outcome, error) {
	for _, s := range suffixes {
		if strings.HasSuffix(name, s.suffix) {
			return s.outcome, nil
		}
	}
	return 0, fmt.Errorf("bad test filename: %s", name)
}

// OutcomeOf maps the error returned by splat.Run to an Outcome.
func OutcomeOf(err error) Outcome {
	if err == nil {
		return Success
	}
	if p := errors.PhaseOf(err); p != errors.PhaseNone {
		return Outcome(p)
	}
	return Internal
}

// Discover lists the .splat files directly inside dir, sorted by name.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".splat") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

type Result struct {
	Path     string
	Expected Outcome
	Actual   Outcome
	Err      error
	Output   string
	Passed   bool
	// Detail says why the case passed or failed.
	Detail string
}

// FalseThrow reports the phase of a fault raised where none was expected,
// or PhaseNone.
func (r Result) FalseThrow() errors.Phase {
	if r.Actual == r.Expected || r.Actual == Success || r.Actual == Internal {
		return errors.PhaseNone
	}
	return errors.Phase(r.Actual)
}

func stripCR(s string) string {
	return strings.ReplaceAll(s, "\r", "")
}

func outPath(path string) string {
	return strings.TrimSuffix(path, ".splat") + ".out"
}

// RunCase runs the case at path. The returned error is only set when the
// case could not be run at all.
func RunCase(path string, opts splat.Options) (Result, error) {
	expected, err := ExpectedOutcome(filepath.Base(path))
	if err != nil {
		return Result{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer f.Close()

	if opts.Filename == "" {
		opts.Filename = filepath.Base(path)
	}

	var out bytes.Buffer
	runErr := splat.Run(f, &out, opts)

	res := Result{
		Path:     path,
		Expected: expected,
		Actual:   OutcomeOf(runErr),
		Err:      runErr,
		Output:   out.String(),
	}

	switch {
	case expected != Success && res.Actual == expected:
		res.Passed = true
		res.Detail = fmt.Sprintf("passed (proper fault raised during phase %d)", expected)
	case expected != Success:
		res.Detail = fmt.Sprintf("failed (fault was expected during phase %d)", expected)
	case res.Actual != Success:
		res.Detail = "failed (fault raised when execution should have been successful)"
	default:
		want, err := os.ReadFile(outPath(path))
		if err != nil {
			res.Detail = fmt.Sprintf("failed (expected output %s not found)", outPath(path))
			break
		}
		if stripCR(string(want)) == stripCR(res.Output) {
			res.Passed = true
			res.Detail = "passed (output matches expected results)"
		} else {
			res.Detail = "failed (output does not match expected results)"
		}
	}

	return res, nil
}

type Report struct {
	Results []Result
}

func (r *Report) Add(res Result) {
	r.Results = append(r.Results, res)
}

func (r *Report) Passed() int {
	n := 0
	for _, res := range r.Results {
		if res.Passed {
			n++
		}
	}
	return n
}

// Tally returns the number of cases expecting o and how many of them passed.
func (r *Report) Tally(o Outcome) (passed, total int) {
	for _, res := range r.Results {
		if res.Expected != o {
			continue
		}
		total++
		if res.Passed {
			passed++
		}
	}
	return
}

// FalseThrows counts faults raised in phase p by cases that did not expect them.
func (r *Report) FalseThrows(p errors.Phase) int {
	n := 0
	for _, res := range r.Results {
		if res.FalseThrow() == p {
			n++
		}
	}
	return n
}

func percent(n, of int) float64 {
	if of == 0 {
		return 0
	}
	return 100 * float64(n) / float64(of)
}

func (r *Report) Print(w io.Writer) {
	total := len(r.Results)
	passed := r.Passed()

	fmt.Fprintln(w, "---------------------------")
	fmt.Fprintln(w, "FINAL SPLAT TESTING RESULTS")
	fmt.Fprintln(w, "---------------------------")
	fmt.Fprintf(w, "Total tests cases:   %d\n", total)
	fmt.Fprintf(w, "Test cases run:      %d\n", total)
	fmt.Fprintf(w, "Test cases passed:   %d (%.1f %%)\n", passed, percent(passed, total))
	fmt.Fprintln(w, "Results by case")

	for _, o := range []Outcome{Lex, Parse, Semantic, Execution, Success} {
		p, t := r.Tally(o)
		fmt.Fprintf(w, "  %-21s%d / %d (%.1f %%)\n", o.String()+":", p, t, percent(p, t))
		if o != Success {
			fmt.Fprintf(w, "    false throws: %d\n", r.FalseThrows(errors.Phase(o)))
		}
	}
}

type Options struct {
	splat.Options
	// Verbose adds fault messages and program output to the per-case lines.
	Verbose bool
}

// Run executes every case in dir, writing progress and the final summary to w.
func Run(dir string, opts Options, w io.Writer) (*Report, error) {
	fmt.Fprint(w, "Opening test directory...")
	paths, err := Discover(dir)
	if err != nil {
		fmt.Fprintln(w, "error!")
		return nil, tracerr.Wrap(fmt.Errorf("cannot open test directory %s: %w", dir, err))
	}
	fmt.Fprintln(w, "success")
	fmt.Fprintf(w, "Number of tests found: %d\n", len(paths))
	fmt.Fprintln(w, "Running tests...")

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	report := &Report{}
	for i, path := range paths {
		fmt.Fprintf(w, "Test Case %d: %s...", i+1, filepath.Base(path))

		caseOpts := opts.Options
		caseOpts.Filename = ""
		res, err := RunCase(path, caseOpts)
		if err != nil {
			fmt.Fprintln(w, "error!")
			return nil, tracerr.Wrap(err)
		}
		report.Add(res)
		logger.Printf("%s: expected %s, got %s", filepath.Base(path), res.Expected, res.Actual)

		fmt.Fprintln(w, res.Detail)
		if opts.Verbose {
			if res.Err != nil {
				fmt.Fprintf(w, " >>> %s error: %s\n", errors.PhaseOf(res.Err), res.Err)
			} else if res.Output != "" {
				fmt.Fprintln(w, res.Output)
			}
		}
	}

	report.Print(w)
	return report, nil
}
